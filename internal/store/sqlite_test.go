package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danang-cvb/leadgen-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testLead(id, company string, source model.SourceType) *model.Lead {
	return &model.Lead{
		LeadCandidate: model.LeadCandidate{
			ID:           id,
			CompanyName:  company,
			ContactEmail: "sales@" + id + ".example.com",
			Industry:     "Corporate - MICE Buyer",
			Country:      "Thailand",
			City:         "Da Nang",
			Source:       source,
		},
		TotalOccurrences: 1,
		MergedNotes:      "Venue: Hall A",
		Status:           "New",
	}
}

func TestSQLiteUpsertAndList(t *testing.T) {
	t.Parallel()
	s := newTestSQLite(t)
	ctx := context.Background()

	n, err := s.UpsertLeads(ctx, []*model.Lead{
		testLead("corp-acme-events-th", "Acme Events", model.SourceCorp),
		testLead("corp-beta-mice-sg", "Beta MICE", model.SourceCorp),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	leads, err := s.ListLeads(ctx, LeadFilter{})
	require.NoError(t, err)
	require.Len(t, leads, 2)
	// ORDER BY company_name.
	assert.Equal(t, "Acme Events", leads[0].CompanyName)
	assert.Equal(t, "Beta MICE", leads[1].CompanyName)
}

func TestSQLiteUpsertReplacesExisting(t *testing.T) {
	t.Parallel()
	s := newTestSQLite(t)
	ctx := context.Background()

	lead := testLead("corp-acme-events-th", "Acme Events", model.SourceCorp)
	_, err := s.UpsertLeads(ctx, []*model.Lead{lead})
	require.NoError(t, err)

	lead.TotalOccurrences = 3
	lead.MergedNotes = "Venue: Hall A; Venue: Hall B"
	_, err = s.UpsertLeads(ctx, []*model.Lead{lead})
	require.NoError(t, err)

	leads, err := s.ListLeads(ctx, LeadFilter{})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, 3, leads[0].TotalOccurrences)
	assert.Equal(t, "Venue: Hall A; Venue: Hall B", leads[0].MergedNotes)
}

func TestSQLiteListFilters(t *testing.T) {
	t.Parallel()
	s := newTestSQLite(t)
	ctx := context.Background()

	corp := testLead("corp-acme-events-th", "Acme Events", model.SourceCorp)
	dmc := testLead("dmc-siam-travel-sg", "Siam Travel", model.SourceDMC)
	dmc.Country = "Singapore"
	_, err := s.UpsertLeads(ctx, []*model.Lead{corp, dmc})
	require.NoError(t, err)

	leads, err := s.ListLeads(ctx, LeadFilter{Source: model.SourceDMC})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Siam Travel", leads[0].CompanyName)

	leads, err = s.ListLeads(ctx, LeadFilter{Country: "Thailand"})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Acme Events", leads[0].CompanyName)

	leads, err = s.ListLeads(ctx, LeadFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Siam Travel", leads[0].CompanyName)
}

func TestSQLiteDelegateCountRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestSQLite(t)
	ctx := context.Background()

	withCount := testLead("normal-acme-events", "Acme Events", model.SourceNormal)
	n := 350
	withCount.MaxDelegateCount = &n
	without := testLead("normal-beta-mice", "Beta MICE", model.SourceNormal)

	_, err := s.UpsertLeads(ctx, []*model.Lead{withCount, without})
	require.NoError(t, err)

	leads, err := s.ListLeads(ctx, LeadFilter{})
	require.NoError(t, err)
	require.Len(t, leads, 2)
	require.NotNil(t, leads[0].MaxDelegateCount)
	assert.Equal(t, 350, *leads[0].MaxDelegateCount)
	assert.Nil(t, leads[1].MaxDelegateCount)
}

func TestSQLiteRecordImportRun(t *testing.T) {
	t.Parallel()
	s := newTestSQLite(t)
	ctx := context.Background()

	run := &model.ImportRun{
		StartedAt:   time.Now().Add(-time.Minute),
		FinishedAt:  time.Now(),
		Sources:     2,
		RowsParsed:  120,
		RowsSkipped: 4,
		Candidates:  116,
		Leads:       98,
	}
	require.NoError(t, s.RecordImportRun(ctx, run))
	assert.NotEmpty(t, run.ID)
}

func TestOpenPicksBackend(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "x.db"), nil)
	require.NoError(t, err)
	_, ok := s.(*SQLiteStore)
	assert.True(t, ok)
	s.Close()

	_, err = Open(context.Background(), "", nil)
	assert.Error(t, err)
}
