// Package builder maps raw source rows into lead candidates using a
// per-source-format configuration table.
package builder

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/danang-cvb/leadgen-cli/internal/model"
)

// DefaultCity is the fixed city fallback for formats without a city column.
const DefaultCity = "Da Nang"

// Format describes how one source export maps onto a LeadCandidate. The
// table replaces the near-duplicate per-format parsing functions of the
// legacy import scripts.
type Format struct {
	// Prefix is the generated-ID prefix ("corp", "dmc", ...).
	Prefix string `yaml:"prefix"`

	// CompanyCols is the resolution order for the company name. When every
	// column is blank, CompanySentinel is used (or the row is rejected when
	// no contact identity exists either).
	CompanyCols     []string `yaml:"company_cols"`
	CompanySentinel string   `yaml:"company_sentinel"`

	// RequiredCols must all appear in the source header; a missing one means
	// the file is structurally wrong and the whole source is skipped with a
	// warning.
	RequiredCols []string `yaml:"required_cols"`

	// MarketCol supplies the country; when empty, Country or email inference
	// applies. MarketRequired rejects rows with a blank market value.
	MarketCol      string `yaml:"market_col"`
	MarketRequired bool   `yaml:"market_required"`

	// Country is a fixed country constant (postcard exports are domestic).
	Country string `yaml:"country"`

	// CountryFromEmail infers country from the contact email domain.
	CountryFromEmail bool `yaml:"country_from_email"`

	// CityCols is the city fallback chain; DefaultCity applies when all are
	// blank.
	CityCols []string `yaml:"city_cols"`

	// IndustryCols is the industry fallback chain ending in IndustryDefault.
	IndustryCols    []string `yaml:"industry_cols"`
	IndustryDefault string   `yaml:"industry_default"`

	// Contact columns.
	ContactNameCol    string `yaml:"contact_name_col"`
	ContactTitleCol   string `yaml:"contact_title_col"`
	ContactEmailCol   string `yaml:"contact_email_col"`
	ContactPhoneCol   string `yaml:"contact_phone_col"`
	ContactExtractCol string `yaml:"contact_extract_col"` // free text scanned for an email
	WebsiteCol        string `yaml:"website_col"`
	DelegateCol       string `yaml:"delegate_col"`
	ResearchCol       string `yaml:"research_col"`

	// NoteFields are label/column pairs assembled into the notes string in
	// order, skipping blank values.
	NoteFields []NoteField `yaml:"note_fields"`

	// ID disambiguation: market slug + year (corp/dmc), none (normal), or a
	// running sequence (postcard).
	SlugLen     int  `yaml:"slug_len"`
	IDUseMarket bool `yaml:"id_use_market"`
	IDUseYear   bool `yaml:"id_use_year"`
	IDSequence  bool `yaml:"id_sequence"`
}

// NoteField is one labeled note fragment source. Pax fragments render the
// parsed delegate count ("PAX 250") instead of a raw column value.
type NoteField struct {
	Label string `yaml:"label"`
	Col   string `yaml:"col"`
	Pax   bool   `yaml:"pax"`
}

// Formats maps each source type to its format description.
type Formats map[model.SourceType]Format

// DefaultFormats returns the built-in format table matching the four known
// export layouts.
func DefaultFormats() Formats {
	return Formats{
		model.SourceCorp: {
			Prefix:          "corp",
			CompanyCols:     []string{"Company"},
			CompanySentinel: "TBA",
			RequiredCols:    []string{"Market", "Sector"},
			MarketCol:       "Market",
			MarketRequired:  true,
			CityCols:        nil,
			IndustryCols:    []string{"Sector"},
			IndustryDefault: "Unknown",
			ContactTitleCol: "Ideal contacts to search (titles)",
			ResearchCol:     "How to verify Vietnam / Da Nang history (search keywords)",
			NoteFields: []NoteField{
				{Label: "Why target", Col: "Why target (trigger)"},
				{Label: "Vietnam signal", Col: "Vietnam signal"},
				{Label: "Partner angle", Col: "Partner angle (elaborate)"},
				{Label: "Suggested route", Col: "Suggested route (Direct vs via agency)"},
			},
			SlugLen:     20,
			IDUseMarket: true,
			IDUseYear:   true,
		},
		model.SourceDMC: {
			Prefix:            "dmc",
			CompanyCols:       []string{"Company"},
			CompanySentinel:   "TBA",
			RequiredCols:      []string{"Market", "Lead type"},
			MarketCol:         "Market",
			MarketRequired:    true,
			IndustryCols:      []string{"Lead type"},
			IndustryDefault:   "Meetings & Events agency",
			ContactTitleCol:   "Ideal contacts to search (titles)",
			ContactExtractCol: "Contact",
			WebsiteCol:        "Website / contact page",
			ResearchCol:       "Vietnam proof / reference link",
			NoteFields: []NoteField{
				{Label: "Vietnam signal", Col: "Vietnam signal (why easy)"},
				{Label: "Partner angle", Col: "Notes / partner angle (elaborate)"},
				{Label: "Recommended action", Col: "Recommended next action"},
				{Label: "Contact", Col: "Contact"},
				{Label: "Remark", Col: "Remark"},
			},
			SlugLen:     20,
			IDUseMarket: true,
			IDUseYear:   true,
		},
		model.SourceNormal: {
			Prefix:           "normal",
			CompanyCols:      []string{"Conference Name"},
			CompanySentinel:  "TBA",
			RequiredCols:     []string{"Conference Name", "Sector"},
			CountryFromEmail: true,
			IndustryCols:     []string{"Sector"},
			IndustryDefault:  "Unknown",
			ContactNameCol:   "Contact Person",
			ContactEmailCol:  "Contact Email",
			ContactPhoneCol:  "Contact Phone",
			WebsiteCol:       "Website",
			DelegateCol:      "Est. Attendance",
			NoteFields: []NoteField{
				// The export header uses a non-breaking hyphen in "Break-out".
				{Label: "Breakout rooms", Col: "Break‑out Rooms"},
				{Label: "Cycle", Col: "Cycle / Preferred Month"},
				{Label: "Suggested VN Host", Col: "Suggested VN Host"},
				{Label: "Royalty/Licence", Col: "Royalty / Licence"},
			},
			SlugLen: 40,
		},
		model.SourcePostcard: {
			Prefix:            "postcard",
			CompanyCols:       []string{"CLIENT", "AGENT"},
			CompanySentinel:   "TBA",
			RequiredCols:      []string{"CLIENT", "Contact"},
			Country:           "Vietnam",
			CityCols:          []string{"Office in charge", "SOURCE"},
			IndustryCols:      []string{"Segment", "EVENT TYPE"},
			IndustryDefault:   "Meetings & Events",
			ContactNameCol:    "POC",
			ContactExtractCol: "Contact",
			DelegateCol:       "PAX",
			NoteFields: []NoteField{
				{Col: "Venue"},
				{Pax: true},
				{Col: "EVENT TYPE"},
				{Col: "STATUS"},
				{Label: "Room", Col: "Room night"},
			},
			SlugLen:    30,
			IDSequence: true,
		},
	}
}

// LoadFormats reads format overrides from a YAML file and merges them over
// the defaults. Only source types present in the file are replaced.
func LoadFormats(path string) (Formats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "builder: read formats %s", path)
	}

	var overrides map[model.SourceType]Format
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, eris.Wrapf(err, "builder: parse formats %s", path)
	}

	formats := DefaultFormats()
	for st, f := range overrides {
		formats[st] = f
	}
	return formats, nil
}
