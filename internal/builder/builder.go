package builder

import (
	"fmt"
	"strings"

	"github.com/danang-cvb/leadgen-cli/internal/model"
	"github.com/danang-cvb/leadgen-cli/internal/normalize"
)

// Builder turns raw rows into lead candidates. It owns the generated-ID
// uniqueness map for one generation run; create a fresh Builder per run.
type Builder struct {
	formats  Formats
	year     string
	campaign string

	usedIDs map[string]bool
	seq     int
}

// Option configures a Builder.
type Option func(*Builder)

// WithYear appends a year disambiguator to formats that use one.
func WithYear(year string) Option {
	return func(b *Builder) { b.year = year }
}

// WithCampaign overrides the postcard ID prefix with a campaign slug
// (e.g. "hpny2026").
func WithCampaign(campaign string) Option {
	return func(b *Builder) { b.campaign = campaign }
}

// New creates a Builder over the given format table. A nil table means
// DefaultFormats.
func New(formats Formats, opts ...Option) *Builder {
	if formats == nil {
		formats = DefaultFormats()
	}
	b := &Builder{
		formats: formats,
		usedIDs: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build maps one raw row into a candidate. It returns nil when the row
// carries no identity (blank company and contact) or fails the format's
// required-field rule; such rows are skipped, not errors. ordinal is the
// row's position within its source and breaks ID collisions.
func (b *Builder) Build(row model.RawRow, source model.SourceType, ordinal int) *model.LeadCandidate {
	f, ok := b.formats[source]
	if !ok {
		return nil
	}

	company := firstNonBlank(row, f.CompanyCols)
	if isHeaderEcho(row, f.CompanyCols) {
		return nil
	}

	contactText := row.Get(f.ContactExtractCol)
	email := row.Get(f.ContactEmailCol)
	if email == "" {
		email = normalize.ExtractEmail(contactText)
	}

	// No company and no contact: the row has no identity.
	if company == "" && contactText == "" && email == "" {
		return nil
	}

	market := row.Get(f.MarketCol)
	if f.MarketRequired && (company == "" || market == "") {
		return nil
	}

	if company == "" {
		company = f.CompanySentinel
	}

	delegates := normalize.ParseDelegateCount(row.Get(f.DelegateCol))

	c := &model.LeadCandidate{
		CompanyName:   company,
		ContactName:   row.Get(f.ContactNameCol),
		ContactTitle:  row.Get(f.ContactTitleCol),
		ContactEmail:  email,
		ContactPhone:  row.Get(f.ContactPhoneCol),
		Website:       row.Get(f.WebsiteCol),
		Industry:      firstNonBlank(row, f.IndustryCols),
		Country:       b.resolveCountry(f, market, email),
		City:          b.resolveCity(f, row),
		DelegateCount: delegates,
		Notes:         b.assembleNotes(f, row, delegates),
		ResearchNotes: row.Get(f.ResearchCol),
		Source:        source,
	}
	if c.Industry == "" {
		c.Industry = f.IndustryDefault
	}

	c.ID = b.assignID(f, company, market, ordinal)
	return c
}

func (b *Builder) resolveCountry(f Format, market, email string) string {
	switch {
	case f.Country != "":
		return f.Country
	case f.CountryFromEmail:
		return normalize.CountryFromEmail(email)
	default:
		return market
	}
}

func (b *Builder) resolveCity(f Format, row model.RawRow) string {
	if city := firstNonBlank(row, f.CityCols); city != "" {
		return city
	}
	return DefaultCity
}

// assembleNotes joins the format's note fragments in order, labeling where
// configured and injecting the parsed delegate count for Pax fragments.
// Blank fields contribute nothing: no empty segments, no trailing separator.
func (b *Builder) assembleNotes(f Format, row model.RawRow, delegates *int) string {
	var fragments []string
	for _, nf := range f.NoteFields {
		if nf.Pax {
			if delegates != nil {
				fragments = append(fragments, fmt.Sprintf("PAX %d", *delegates))
			}
			continue
		}
		v := row.Get(nf.Col)
		if v == "" {
			continue
		}
		if nf.Label != "" {
			v = nf.Label + ": " + v
		}
		fragments = append(fragments, v)
	}
	return normalize.JoinFragments(fragments)
}

// assignID builds the run-unique record ID. Duplicates within a run are
// resolved by appending the row ordinal; a prior record is never overwritten.
func (b *Builder) assignID(f Format, company, market string, ordinal int) string {
	prefix := f.Prefix
	if f.IDSequence && b.campaign != "" {
		prefix = normalize.Slugify(b.campaign, 0)
	}

	slug := normalize.Slugify(company, f.SlugLen)
	if slug == "" {
		slug = "tba"
	}

	parts := []string{prefix, slug}
	switch {
	case f.IDSequence:
		b.seq++
		parts = append(parts, fmt.Sprintf("%d", b.seq))
	default:
		if f.IDUseMarket {
			if cc := normalize.Slugify(market, 2); cc != "" {
				parts = append(parts, cc)
			}
		}
		if f.IDUseYear && b.year != "" {
			parts = append(parts, b.year)
		}
	}

	id := strings.Join(parts, "-")
	if b.usedIDs[id] {
		base := fmt.Sprintf("%s-%d", id, ordinal)
		id = base
		for n := 2; b.usedIDs[id]; n++ {
			id = fmt.Sprintf("%s-%d", base, n)
		}
	}
	b.usedIDs[id] = true
	return id
}

func firstNonBlank(row model.RawRow, cols []string) string {
	for _, col := range cols {
		if v := row.Get(col); v != "" {
			return v
		}
	}
	return ""
}

// isHeaderEcho detects rows where the company cell repeats its own column
// name, which happens when an export concatenates multiple sheets.
func isHeaderEcho(row model.RawRow, companyCols []string) bool {
	for _, col := range companyCols {
		if strings.EqualFold(row.Get(col), col) {
			return true
		}
	}
	return false
}
