// Package dedup merges lead candidates sharing an identity key into
// aggregated leads.
package dedup

import (
	"github.com/danang-cvb/leadgen-cli/internal/model"
	"github.com/danang-cvb/leadgen-cli/internal/normalize"
)

// Deduplicator aggregates candidates by identity key. The aggregation map is
// owned here and never shared; create one Deduplicator per run.
type Deduplicator struct {
	byKey map[model.IdentityKey]*model.Lead
	order []*model.Lead
}

// New creates an empty Deduplicator.
func New() *Deduplicator {
	return &Deduplicator{byKey: make(map[model.IdentityKey]*model.Lead)}
}

// Add folds one candidate into the aggregation. The first candidate for a
// key creates the lead; later ones increment the occurrence count, extend
// the merged notes in arrival order, and raise the max delegate count.
func (d *Deduplicator) Add(c model.LeadCandidate) {
	key := c.Identity()

	lead, ok := d.byKey[key]
	if !ok {
		lead = &model.Lead{
			LeadCandidate:    c,
			TotalOccurrences: 1,
			MaxDelegateCount: c.DelegateCount,
			MergedNotes:      c.Notes,
			Status:           "New",
		}
		d.byKey[key] = lead
		d.order = append(d.order, lead)
		return
	}

	lead.TotalOccurrences++
	if c.Notes != "" {
		lead.MergedNotes = normalize.JoinFragments([]string{lead.MergedNotes, c.Notes})
	}
	if c.DelegateCount != nil {
		if lead.MaxDelegateCount == nil || *c.DelegateCount > *lead.MaxDelegateCount {
			lead.MaxDelegateCount = c.DelegateCount
		}
	}
}

// Leads returns the aggregated leads in first-seen key order.
func (d *Deduplicator) Leads() []*model.Lead {
	return d.order
}

// Reduce aggregates a candidate sequence in one call.
func Reduce(candidates []model.LeadCandidate) []*model.Lead {
	d := New()
	for _, c := range candidates {
		d.Add(c)
	}
	return d.Leads()
}
