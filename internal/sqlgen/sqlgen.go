// Package sqlgen renders deduplicated leads as SQL INSERT scripts matching
// the CRM's leads table layouts.
package sqlgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/danang-cvb/leadgen-cli/internal/model"
)

// Layout selects the column set of the generated INSERT. The CRM schema grew
// by source wave, so the three import layouts differ slightly.
type Layout string

const (
	// LayoutCorpDMC is the 18-column layout with research_notes.
	LayoutCorpDMC Layout = "corp_dmc"
	// LayoutPostcard is the 17-column layout without research_notes.
	LayoutPostcard Layout = "postcard"
	// LayoutNormal is the full 27-column layout with number_of_delegates.
	LayoutNormal Layout = "normal"
)

// LayoutFor returns the insert layout used by a source type.
func LayoutFor(st model.SourceType) Layout {
	switch st {
	case model.SourcePostcard:
		return LayoutPostcard
	case model.SourceNormal:
		return LayoutNormal
	default:
		return LayoutCorpDMC
	}
}

var layoutColumns = map[Layout][]string{
	LayoutCorpDMC: {
		"id", "company_name", "industry", "country", "city", "website",
		"key_person_name", "key_person_title", "key_person_email", "key_person_phone",
		"total_events", "vietnam_events", "notes", "status", "type", "research_notes",
		"created_at", "updated_at",
	},
	LayoutPostcard: {
		"id", "company_name", "industry", "country", "city", "website",
		"key_person_name", "key_person_title", "key_person_email", "key_person_phone",
		"total_events", "vietnam_events", "notes", "status", "type",
		"created_at", "updated_at",
	},
	LayoutNormal: {
		"id", "company_name", "industry", "country", "city", "website",
		"key_person_name", "key_person_title", "key_person_email", "key_person_phone", "key_person_linkedin",
		"total_events", "vietnam_events", "notes", "status", "last_contacted",
		"past_events_history", "research_notes", "secondary_person_name", "secondary_person_title",
		"secondary_person_email", "number_of_delegates", "lead_score", "last_score_update", "type",
		"created_at", "updated_at",
	},
}

// QuoteString escapes a value for embedding in a SQL literal: blank input
// becomes the NULL sentinel, embedded single quotes are doubled, and the
// result is wrapped in quotes. No unescaped quote ever reaches the output.
func QuoteString(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NULL"
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteInt(n *int) string {
	if n == nil {
		return "NULL"
	}
	return fmt.Sprintf("%d", *n)
}

// Script renders a complete INSERT script for the given leads. All leads
// must share one layout; the import pipeline groups by source before
// calling. now stamps the header comment.
func Script(leads []*model.Lead, layout Layout, now time.Time) (string, error) {
	cols, ok := layoutColumns[layout]
	if !ok {
		return "", eris.Errorf("sqlgen: unknown layout %q", layout)
	}
	if len(leads) == 0 {
		return "", eris.New("sqlgen: no leads to render")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "-- Lead import script (%s layout)\n", layout)
	fmt.Fprintf(&b, "-- Generated: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "-- Total: %d leads\n\n", len(leads))

	fmt.Fprintf(&b, "INSERT INTO leads (\n    %s\n) VALUES\n", strings.Join(cols, ", "))

	for i, lead := range leads {
		row, err := renderRow(lead, layout)
		if err != nil {
			return "", err
		}
		sep := ","
		if i == len(leads)-1 {
			sep = ";"
		}
		fmt.Fprintf(&b, "    (%s)%s\n", strings.Join(row, ", "), sep)
	}

	return b.String(), nil
}

// renderRow produces one VALUES tuple in the layout's exact column order.
func renderRow(l *model.Lead, layout Layout) ([]string, error) {
	name := l.ContactName
	if name == "" && layout != LayoutPostcard {
		// The CRM requires key_person_name; older imports used a TBD
		// placeholder, postcard rows allow NULL.
		name = "TBD"
	}

	common := []string{
		QuoteString(l.ID),
		QuoteString(l.CompanyName),
		QuoteString(l.Industry),
		QuoteString(l.Country),
		QuoteString(l.City),
		QuoteString(l.Website),
		QuoteString(name),
		QuoteString(l.ContactTitle),
		QuoteString(l.ContactEmail),
		QuoteString(l.ContactPhone),
	}

	switch layout {
	case LayoutCorpDMC:
		return append(common,
			fmt.Sprintf("%d", l.TotalOccurrences),
			fmt.Sprintf("%d", l.VietnamEvents),
			QuoteString(l.MergedNotes),
			QuoteString(l.Status),
			QuoteString(string(l.Source)),
			QuoteString(l.ResearchNotes),
			"CURRENT_TIMESTAMP",
			"CURRENT_TIMESTAMP",
		), nil

	case LayoutPostcard:
		return append(common,
			fmt.Sprintf("%d", l.TotalOccurrences),
			fmt.Sprintf("%d", l.VietnamEvents),
			QuoteString(l.MergedNotes),
			QuoteString(l.Status),
			QuoteString(string(l.Source)),
			"CURRENT_TIMESTAMP",
			"CURRENT_TIMESTAMP",
		), nil

	case LayoutNormal:
		return append(common,
			"NULL", // key_person_linkedin
			fmt.Sprintf("%d", l.TotalOccurrences),
			fmt.Sprintf("%d", l.VietnamEvents),
			QuoteString(l.MergedNotes),
			QuoteString(l.Status),
			"NULL", // last_contacted
			"NULL", // past_events_history
			QuoteString(l.ResearchNotes),
			"NULL", // secondary_person_name
			"NULL", // secondary_person_title
			"NULL", // secondary_person_email
			quoteInt(l.MaxDelegateCount),
			"NULL", // lead_score
			"NULL", // last_score_update
			"NULL", // type: normal leads carry NULL type
			"CURRENT_TIMESTAMP",
			"CURRENT_TIMESTAMP",
		), nil

	default:
		return nil, eris.Errorf("sqlgen: unknown layout %q", layout)
	}
}
