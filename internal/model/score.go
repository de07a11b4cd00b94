package model

// Tier is the priority bucket derived from a total score.
type Tier string

const (
	TierHigh   Tier = "HIGH"
	TierMedium Tier = "MEDIUM"
	TierLow    Tier = "LOW"
)

// Score holds the four capped sub-scores, their sum, and derived context.
type Score struct {
	Total     int `json:"total_score"`
	History   int `json:"history_score"`
	Region    int `json:"region_score"`
	Contact   int `json:"contact_score"`
	Delegates int `json:"delegates_score"`

	Tier     Tier     `json:"tier"`
	Signals  []string `json:"signals,omitempty"`
	Problems []string `json:"problems,omitempty"`
}

// ScoredEntity pairs a scorable entity with its score for ranking. Name is
// the display name at scoring time; detail fields depend on the root type.
type ScoredEntity struct {
	Name  string `json:"name"`
	Score Score  `json:"score"`

	Lead   *Lead        `json:"lead,omitempty"`
	Series *EventSeries `json:"series,omitempty"`
}
