package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danang-cvb/leadgen-cli/internal/model"
)

func candidate(company, email, notes string, pax *int) model.LeadCandidate {
	return model.LeadCandidate{
		CompanyName:   company,
		ContactEmail:  email,
		Notes:         notes,
		DelegateCount: pax,
	}
}

func intp(n int) *int { return &n }

func TestReduceMergesByIdentity(t *testing.T) {
	t.Parallel()

	leads := Reduce([]model.LeadCandidate{
		candidate("Acme", "a@acme.com", "first booking", intp(120)),
		candidate("  ACME ", "A@ACME.COM", "second booking", intp(400)),
		candidate("acme", "a@acme.com", "", nil),
	})

	require.Len(t, leads, 1)
	lead := leads[0]
	assert.Equal(t, 3, lead.TotalOccurrences)
	assert.Equal(t, "first booking; second booking", lead.MergedNotes)
	require.NotNil(t, lead.MaxDelegateCount)
	assert.Equal(t, 400, *lead.MaxDelegateCount)
	assert.Equal(t, "New", lead.Status)
}

func TestReduceKeepsContactsDistinct(t *testing.T) {
	t.Parallel()

	// Same company, different (or missing) email: distinct leads by design.
	leads := Reduce([]model.LeadCandidate{
		candidate("Acme", "ops@acme.com", "", nil),
		candidate("Acme", "sales@acme.com", "", nil),
		candidate("Acme", "", "", nil),
	})
	assert.Len(t, leads, 3)
}

func TestReduceFirstSeenOrder(t *testing.T) {
	t.Parallel()

	leads := Reduce([]model.LeadCandidate{
		candidate("Zebra", "", "", nil),
		candidate("Acme", "", "", nil),
		candidate("Zebra", "", "", nil),
		candidate("Mango", "", "", nil),
	})

	require.Len(t, leads, 3)
	assert.Equal(t, "Zebra", leads[0].CompanyName)
	assert.Equal(t, "Acme", leads[1].CompanyName)
	assert.Equal(t, "Mango", leads[2].CompanyName)
	assert.Equal(t, 2, leads[0].TotalOccurrences)
}

func TestMergedNotesPreserveArrivalOrder(t *testing.T) {
	t.Parallel()

	// Note merging is order-dependent, not commutative: arrival order is the
	// contract.
	forward := Reduce([]model.LeadCandidate{
		candidate("Acme", "", "alpha", nil),
		candidate("Acme", "", "", nil),
		candidate("Acme", "", "beta", nil),
	})
	require.Len(t, forward, 1)
	assert.Equal(t, "alpha; beta", forward[0].MergedNotes)

	reversed := Reduce([]model.LeadCandidate{
		candidate("Acme", "", "beta", nil),
		candidate("Acme", "", "alpha", nil),
	})
	require.Len(t, reversed, 1)
	assert.Equal(t, "beta; alpha", reversed[0].MergedNotes)
}

func TestMaxDelegateFirstPresentWins(t *testing.T) {
	t.Parallel()

	leads := Reduce([]model.LeadCandidate{
		candidate("Acme", "", "", nil),
		candidate("Acme", "", "", intp(200)),
		candidate("Acme", "", "", nil),
	})
	require.Len(t, leads, 1)
	require.NotNil(t, leads[0].MaxDelegateCount)
	assert.Equal(t, 200, *leads[0].MaxDelegateCount)
}

func TestOccurrenceCountMatchesInput(t *testing.T) {
	t.Parallel()

	var candidates []model.LeadCandidate
	for i := 0; i < 5; i++ {
		candidates = append(candidates, candidate("Repeat Co", "r@r.co", "", nil))
	}
	candidates = append(candidates, candidate("Once Co", "", "", nil))

	leads := Reduce(candidates)
	require.Len(t, leads, 2)
	assert.Equal(t, 5, leads[0].TotalOccurrences)
	assert.Equal(t, 1, leads[1].TotalOccurrences)
}
