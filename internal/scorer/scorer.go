package scorer

import (
	"strings"

	"github.com/danang-cvb/leadgen-cli/internal/model"
)

// Scorable is the view of an entity the scorer needs. Both *model.Lead and
// *model.EventSeries satisfy it.
type Scorable interface {
	DisplayName() string
	HistoryCountries() []string
	HasEmail() bool
	HasPhone() bool
	MaxDelegates() int
}

// Scorer computes scores from a fixed Config. Scoring is a pure function of
// the entity's current fields: deterministic, idempotent, no I/O.
type Scorer struct {
	cfg Config
}

// New creates a Scorer. The config should be validated by the caller.
func New(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes the four sub-scores, the total, the tier, and the
// human-readable signals and problems for one entity.
func (s *Scorer) Score(e Scorable) model.Score {
	sc := model.Score{
		History:   s.historyScore(e.HistoryCountries()),
		Region:    s.regionScore(e.DisplayName(), e.HistoryCountries()),
		Contact:   s.contactScore(e.HasEmail(), e.HasPhone()),
		Delegates: s.delegatesScore(e.MaxDelegates()),
	}
	sc.Total = sc.History + sc.Region + sc.Contact + sc.Delegates
	sc.Tier = s.Tier(sc.Total)
	sc.Signals, sc.Problems = s.annotate(sc)
	return sc
}

// Tier buckets a total score: HIGH at or above the high threshold, MEDIUM at
// or above the medium threshold, LOW below.
func (s *Scorer) Tier(total int) model.Tier {
	switch {
	case total >= s.cfg.HighThreshold:
		return model.TierHigh
	case total >= s.cfg.MediumThreshold:
		return model.TierMedium
	default:
		return model.TierLow
	}
}

// historyScore rewards prior presence in the home market: any home-country
// record earns full credit regardless of how many other countries appear,
// any nearby-region record earns partial credit, otherwise zero.
func (s *Scorer) historyScore(countries []string) int {
	nearby := false
	for _, raw := range countries {
		c := strings.ToLower(strings.TrimSpace(raw))
		if c == s.cfg.HomeCountry || c == s.cfg.HomeCountryCode {
			return FactorCap
		}
		for _, n := range s.cfg.NearbyCountries {
			if strings.Contains(c, n) {
				nearby = true
				break
			}
		}
	}
	if nearby {
		return nearbyCredit
	}
	return 0
}

// regionScore rewards broader regional relevance: a region keyword in the
// display name earns full credit; otherwise any history record in the
// continent set earns partial credit. Continent matching is substring in
// either direction, so "Korea (South)" and "hong kong sar" both hit.
func (s *Scorer) regionScore(name string, countries []string) int {
	lower := strings.ToLower(name)
	for _, kw := range s.cfg.NameKeywords {
		if strings.Contains(lower, kw) {
			return FactorCap
		}
	}

	for _, raw := range countries {
		c := strings.ToLower(strings.TrimSpace(raw))
		if c == "" {
			continue
		}
		for _, ac := range s.cfg.ContinentCountries {
			if strings.Contains(c, ac) || strings.Contains(ac, c) {
				return continentCredit
			}
		}
	}
	return 0
}

// contactScore rewards reachability: full credit needs both email and phone,
// email alone earns partial credit. Sources without contact columns always
// score zero here; annotate surfaces that as a problem instead of hiding it.
func (s *Scorer) contactScore(hasEmail, hasPhone bool) int {
	switch {
	case hasEmail && hasPhone:
		return FactorCap
	case hasEmail:
		return emailOnlyCredit
	default:
		return 0
	}
}

// delegatesScore maps the max observed delegate count onto fixed tiers. The
// boundaries are inclusive: exactly 500 scores full, exactly 499 medium.
func (s *Scorer) delegatesScore(max int) int {
	switch {
	case max >= s.cfg.DelegatesFull:
		return FactorCap
	case max >= s.cfg.DelegatesMedium:
		return mediumDelegates
	case max >= s.cfg.DelegatesSmall:
		return smallDelegates
	default:
		return 0
	}
}

// annotate derives the report strings from a computed score.
func (s *Scorer) annotate(sc model.Score) (signals, problems []string) {
	switch {
	case sc.History == FactorCap:
		signals = append(signals, "Has Vietnam events")
	case sc.History >= nearbyCredit:
		signals = append(signals, "Has Southeast Asia events")
	}

	switch {
	case sc.Region == FactorCap:
		signals = append(signals, "Regional event (ASEAN/Asia/Pacific)")
	case sc.Region >= continentCredit:
		signals = append(signals, "Asian location")
	}

	switch {
	case sc.Delegates == FactorCap:
		signals = append(signals, "Large event (500+ delegates)")
	case sc.Delegates >= mediumDelegates:
		signals = append(signals, "Medium event (300+ delegates)")
	case sc.Delegates >= smallDelegates:
		signals = append(signals, "Small event (100+ delegates)")
	}

	switch {
	case sc.Contact == 0:
		problems = append(problems, "Missing contact information")
	case sc.Contact < FactorCap:
		problems = append(problems, "Missing phone number")
	}
	if sc.Delegates == 0 {
		problems = append(problems, "No delegate count data")
	}
	if sc.History == 0 && sc.Region == 0 {
		problems = append(problems, "No Asia/Vietnam history")
	}

	return signals, problems
}

// ScoreLead scores a lead and wraps it for ranking.
func (s *Scorer) ScoreLead(l *model.Lead) model.ScoredEntity {
	return model.ScoredEntity{Name: l.DisplayName(), Score: s.Score(l), Lead: l}
}

// ScoreSeries scores an event series and wraps it for ranking.
func (s *Scorer) ScoreSeries(es *model.EventSeries) model.ScoredEntity {
	return model.ScoredEntity{Name: es.DisplayName(), Score: s.Score(es), Series: es}
}
