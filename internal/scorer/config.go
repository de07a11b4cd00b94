// Package scorer computes four-factor priority scores for leads and event
// series.
package scorer

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Config holds the scoring constants: region sets, name keywords, and tier
// thresholds. Each factor is capped at FactorCap, so totals range 0-100.
type Config struct {
	// HomeCountry earns full history credit; HomeCountryCode is its
	// two-letter alias in sloppy exports.
	HomeCountry     string   `yaml:"home_country" mapstructure:"home_country"`
	HomeCountryCode string   `yaml:"home_country_code" mapstructure:"home_country_code"`
	NearbyCountries []string `yaml:"nearby_countries" mapstructure:"nearby_countries"`

	// NameKeywords in the display name earn full region credit;
	// ContinentCountries in history earn partial credit.
	NameKeywords       []string `yaml:"name_keywords" mapstructure:"name_keywords"`
	ContinentCountries []string `yaml:"continent_countries" mapstructure:"continent_countries"`

	// Delegate tier boundaries (inclusive lower bounds).
	DelegatesFull   int `yaml:"delegates_full" mapstructure:"delegates_full"`
	DelegatesMedium int `yaml:"delegates_medium" mapstructure:"delegates_medium"`
	DelegatesSmall  int `yaml:"delegates_small" mapstructure:"delegates_small"`

	// Priority tier boundaries (inclusive lower bounds).
	HighThreshold   int `yaml:"high_threshold" mapstructure:"high_threshold"`
	MediumThreshold int `yaml:"medium_threshold" mapstructure:"medium_threshold"`
}

// FactorCap is the maximum value of each sub-score.
const FactorCap = 25

// Partial credits within a factor.
const (
	nearbyCredit    = 15
	continentCredit = 15
	emailOnlyCredit = 15
	mediumDelegates = 20
	smallDelegates  = 10
)

// DefaultConfig returns the scoring constants used by the Da Nang sales
// team: Vietnam home market, Southeast Asia nearby, Asia/Pacific relevance.
func DefaultConfig() Config {
	return Config{
		HomeCountry:     "vietnam",
		HomeCountryCode: "vn",
		NearbyCountries: []string{
			"vietnam", "thailand", "singapore", "malaysia", "indonesia",
			"philippines", "myanmar", "cambodia", "laos", "brunei",
		},
		NameKeywords: []string{"asean", "asia", "pacific", "apac"},
		ContinentCountries: []string{
			"china", "japan", "korea", "india", "thailand", "singapore",
			"malaysia", "indonesia", "philippines", "vietnam", "taiwan",
			"hong kong",
		},
		DelegatesFull:   500,
		DelegatesMedium: 300,
		DelegatesSmall:  100,
		HighThreshold:   50,
		MediumThreshold: 30,
	}
}

// Validate checks that a Config is internally consistent.
func Validate(c Config) error {
	var errs []string

	if strings.TrimSpace(c.HomeCountry) == "" {
		errs = append(errs, "home_country must be set")
	}
	if len(c.NearbyCountries) == 0 {
		errs = append(errs, "nearby_countries must not be empty")
	}
	if len(c.NameKeywords) == 0 {
		errs = append(errs, "name_keywords must not be empty")
	}

	if c.DelegatesSmall <= 0 {
		errs = append(errs, "delegates_small must be > 0")
	}
	if c.DelegatesMedium <= c.DelegatesSmall {
		errs = append(errs, "delegates_medium must be > delegates_small")
	}
	if c.DelegatesFull <= c.DelegatesMedium {
		errs = append(errs, "delegates_full must be > delegates_medium")
	}

	if c.MediumThreshold <= 0 || c.MediumThreshold > 4*FactorCap {
		errs = append(errs, fmt.Sprintf("medium_threshold must be in (0, %d]", 4*FactorCap))
	}
	if c.HighThreshold <= c.MediumThreshold {
		errs = append(errs, "high_threshold must be > medium_threshold")
	}
	if c.HighThreshold > 4*FactorCap {
		errs = append(errs, fmt.Sprintf("high_threshold must be <= %d", 4*FactorCap))
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
