// Package report ranks scored entities and renders tabular and JSON output.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/danang-cvb/leadgen-cli/internal/model"
)

// NameWidth caps entity names in the text table.
const NameWidth = 48

// Ranking is the ordered, tiered view of a scored set.
type Ranking struct {
	Entries []model.ScoredEntity `json:"entries"`
	Tiers   TierCounts           `json:"tiers"`
}

// TierCounts is the per-tier distribution across the full set.
type TierCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Rank sorts entities by total score descending. The sort is stable: ties
// keep their first-seen input order.
func Rank(entities []model.ScoredEntity) Ranking {
	entries := make([]model.ScoredEntity, len(entities))
	copy(entries, entities)

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score.Total > entries[j].Score.Total
	})

	var tiers TierCounts
	for _, e := range entries {
		switch e.Score.Tier {
		case model.TierHigh:
			tiers.High++
		case model.TierMedium:
			tiers.Medium++
		default:
			tiers.Low++
		}
	}

	return Ranking{Entries: entries, Tiers: tiers}
}

// WriteTable renders the ranking as an aligned text table followed by the
// tier distribution. top limits the number of rows; 0 means all.
func WriteTable(w io.Writer, r Ranking, top int) error {
	rows := r.Entries
	if top > 0 && top < len(rows) {
		rows = rows[:top]
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNAME\tTOTAL\tHIST\tREG\tCONT\tDELEG\tTIER")
	for i, e := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			i+1,
			truncate(e.Name, NameWidth),
			e.Score.Total,
			e.Score.History,
			e.Score.Region,
			e.Score.Contact,
			e.Score.Delegates,
			e.Score.Tier,
		)
	}
	if err := tw.Flush(); err != nil {
		return eris.Wrap(err, "report: flush table")
	}

	_, err := fmt.Fprintf(w, "\nHIGH: %d  MEDIUM: %d  LOW: %d  (total %d)\n",
		r.Tiers.High, r.Tiers.Medium, r.Tiers.Low, len(r.Entries))
	return eris.Wrap(err, "report: write summary")
}

// WriteDetail renders an expanded view of the top entries, one block per
// entity with sub-score breakdown, signals, and problems.
func WriteDetail(w io.Writer, r Ranking, top int) error {
	rows := r.Entries
	if top > 0 && top < len(rows) {
		rows = rows[:top]
	}

	var b strings.Builder
	for i, e := range rows {
		fmt.Fprintf(&b, "#%d %s\n", i+1, e.Name)
		fmt.Fprintf(&b, "  total %d/100 [%s]  history %d  region %d  contact %d  delegates %d\n",
			e.Score.Total, e.Score.Tier, e.Score.History, e.Score.Region, e.Score.Contact, e.Score.Delegates)
		if e.Series != nil {
			fmt.Fprintf(&b, "  editions %d, vietnam %d, max delegates %d\n",
				len(e.Series.Editions), e.Series.VietnamEditions(), e.Series.MaxDelegates())
			if countries := e.Series.UniqueCountries(); len(countries) > 0 {
				fmt.Fprintf(&b, "  countries: %s\n", strings.Join(countries, ", "))
			}
		}
		if e.Lead != nil {
			fmt.Fprintf(&b, "  occurrences %d, country %s\n", e.Lead.TotalOccurrences, e.Lead.Country)
		}
		if len(e.Score.Signals) > 0 {
			fmt.Fprintf(&b, "  signals: %s\n", strings.Join(e.Score.Signals, ", "))
		}
		if len(e.Score.Problems) > 0 {
			fmt.Fprintf(&b, "  problems: %s\n", strings.Join(e.Score.Problems, ", "))
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return eris.Wrap(err, "report: write detail")
}

// WriteJSON renders the full ranking as indented JSON.
func WriteJSON(w io.Writer, r Ranking) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(r), "report: encode json")
}

// truncate cuts on rune boundaries; entity names are frequently Vietnamese.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
