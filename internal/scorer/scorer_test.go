package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danang-cvb/leadgen-cli/internal/model"
)

func newScorer(t *testing.T) *Scorer {
	t.Helper()
	cfg := DefaultConfig()
	require.NoError(t, Validate(cfg))
	return New(cfg)
}

func series(name string, editions ...model.Edition) *model.EventSeries {
	return &model.EventSeries{SeriesID: "s1", SeriesName: name, Editions: editions}
}

func TestHistoryScore(t *testing.T) {
	t.Parallel()
	s := newScorer(t)

	tests := []struct {
		name      string
		countries []string
		want      int
	}{
		{"home country", []string{"Germany", "Vietnam", "France"}, 25},
		{"home country code", []string{"VN"}, 25},
		{"case and spacing", []string{"  vietnam  "}, 25},
		{"single nearby record", []string{"Thailand"}, 15},
		{"nearby substring", []string{"Singapore (Expo)"}, 15},
		{"neither", []string{"Germany", "Brazil"}, 0},
		{"empty history", nil, 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, s.historyScore(tt.countries))
		})
	}
}

func TestRegionScore(t *testing.T) {
	t.Parallel()
	s := newScorer(t)

	tests := []struct {
		name      string
		entity    string
		countries []string
		want      int
	}{
		{"asean keyword", "ASEAN Tourism Forum", nil, 25},
		{"asia keyword case-insensitive", "congress of ASIA retailers", nil, 25},
		{"apac keyword", "APAC Fintech Week", nil, 25},
		{"asian country history", "World Dental Congress", []string{"Japan"}, 15},
		{"bidirectional substring", "World Dental Congress", []string{"korea, republic of"}, 15},
		{"no relevance", "European Steel Summit", []string{"Germany"}, 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, s.regionScore(tt.entity, tt.countries))
		})
	}
}

func TestContactScore(t *testing.T) {
	t.Parallel()
	s := newScorer(t)

	assert.Equal(t, 25, s.contactScore(true, true))
	assert.Equal(t, 15, s.contactScore(true, false))
	assert.Equal(t, 0, s.contactScore(false, true))
	assert.Equal(t, 0, s.contactScore(false, false))
}

func TestDelegatesScoreBoundaries(t *testing.T) {
	t.Parallel()
	s := newScorer(t)

	boundaries := map[int]int{
		0:    0,
		99:   0,
		100:  10,
		299:  10,
		300:  20,
		499:  20,
		500:  25,
		5000: 25,
	}
	for count, want := range boundaries {
		assert.Equal(t, want, s.delegatesScore(count), "count=%d", count)
	}
}

func TestScoreSeriesTotalAndBounds(t *testing.T) {
	t.Parallel()
	s := newScorer(t)

	es := series("ASEAN Medical Congress",
		model.Edition{Country: "Vietnam", City: "Da Nang", Attendance: 650},
		model.Edition{Country: "Thailand", City: "Bangkok", Attendance: 380},
	)

	got := s.Score(es)
	assert.Equal(t, 25, got.History)
	assert.Equal(t, 25, got.Region)
	assert.Equal(t, 0, got.Contact) // editions export has no contact columns
	assert.Equal(t, 25, got.Delegates)
	assert.Equal(t, got.History+got.Region+got.Contact+got.Delegates, got.Total)
	assert.Equal(t, model.TierHigh, got.Tier)

	for _, sub := range []int{got.History, got.Region, got.Contact, got.Delegates} {
		assert.GreaterOrEqual(t, sub, 0)
		assert.LessOrEqual(t, sub, FactorCap)
	}
	assert.GreaterOrEqual(t, got.Total, 0)
	assert.LessOrEqual(t, got.Total, 100)
}

func TestScoreIsIdempotent(t *testing.T) {
	t.Parallel()
	s := newScorer(t)

	es := series("Pacific Paper Expo", model.Edition{Country: "Japan", Attendance: 250})
	first := s.Score(es)
	second := s.Score(es)
	assert.Equal(t, first, second)
}

func TestScoreLeadUsesContactFields(t *testing.T) {
	t.Parallel()
	s := newScorer(t)

	pax := 450
	lead := &model.Lead{
		LeadCandidate: model.LeadCandidate{
			CompanyName:  "Golden Lotus Travel",
			ContactEmail: "booking@goldenlotus.vn",
			ContactPhone: "+84 236 000 000",
			Country:      "Vietnam",
		},
		TotalOccurrences: 2,
		MaxDelegateCount: &pax,
	}

	got := s.ScoreLead(lead)
	assert.Equal(t, "Golden Lotus Travel", got.Name)
	assert.Equal(t, 25, got.Score.History)
	assert.Equal(t, 25, got.Score.Contact)
	assert.Equal(t, 20, got.Score.Delegates)
	assert.Same(t, lead, got.Lead)
}

func TestAnnotations(t *testing.T) {
	t.Parallel()
	s := newScorer(t)

	t.Run("rich series", func(t *testing.T) {
		t.Parallel()
		got := s.Score(series("ASEAN Summit", model.Edition{Country: "Vietnam", Attendance: 600}))
		assert.Contains(t, got.Signals, "Has Vietnam events")
		assert.Contains(t, got.Signals, "Regional event (ASEAN/Asia/Pacific)")
		assert.Contains(t, got.Signals, "Large event (500+ delegates)")
		assert.Contains(t, got.Problems, "Missing contact information")
	})

	t.Run("sparse series", func(t *testing.T) {
		t.Parallel()
		got := s.Score(series("European Steel Summit", model.Edition{Country: "Germany"}))
		assert.Empty(t, got.Signals)
		assert.Contains(t, got.Problems, "No delegate count data")
		assert.Contains(t, got.Problems, "No Asia/Vietnam history")
	})

	t.Run("email only lead", func(t *testing.T) {
		t.Parallel()
		lead := &model.Lead{LeadCandidate: model.LeadCandidate{
			CompanyName:  "Acme",
			ContactEmail: "a@acme.com",
			Country:      "Germany",
		}}
		got := s.Score(lead)
		assert.Contains(t, got.Problems, "Missing phone number")
	})
}

func TestTierBoundaries(t *testing.T) {
	t.Parallel()
	s := newScorer(t)

	assert.Equal(t, model.TierHigh, s.Tier(50))
	assert.Equal(t, model.TierMedium, s.Tier(49))
	assert.Equal(t, model.TierMedium, s.Tier(30))
	assert.Equal(t, model.TierLow, s.Tier(29))
	assert.Equal(t, model.TierLow, s.Tier(0))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("default config valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, Validate(DefaultConfig()))
	})

	t.Run("missing home country", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.HomeCountry = " "
		assert.Error(t, Validate(cfg))
	})

	t.Run("inverted delegate tiers", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.DelegatesMedium = 50
		assert.Error(t, Validate(cfg))
	})

	t.Run("inverted thresholds", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.HighThreshold = 20
		assert.Error(t, Validate(cfg))
	})
}
