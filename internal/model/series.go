package model

import "strings"

// Edition is one historical occurrence of an event series.
type Edition struct {
	Country    string  `json:"country"`
	City       string  `json:"city"`
	Attendance float64 `json:"attendance"`
	EventCode  string  `json:"event_code,omitempty"`
}

// EventSeries groups historical editions sharing a series identity. It is the
// alternate scoring aggregation root used for conference-history exports.
type EventSeries struct {
	SeriesID   string    `json:"series_id"`
	SeriesName string    `json:"series_name"`
	Editions   []Edition `json:"editions"`
}

// DisplayName returns the label used in reports.
func (s *EventSeries) DisplayName() string { return s.SeriesName }

// HistoryCountries returns the country of every edition, in edition order.
func (s *EventSeries) HistoryCountries() []string {
	countries := make([]string, 0, len(s.Editions))
	for _, e := range s.Editions {
		countries = append(countries, e.Country)
	}
	return countries
}

// HasEmail reports contact email presence. The editions export carries no
// contact columns, so this is always false; the scorer surfaces the gap as a
// problem rather than hiding it.
func (s *EventSeries) HasEmail() bool { return false }

// HasPhone reports contact phone presence; see HasEmail.
func (s *EventSeries) HasPhone() bool { return false }

// MaxDelegates returns the largest registered attendance across editions.
func (s *EventSeries) MaxDelegates() int {
	max := 0
	for _, e := range s.Editions {
		if int(e.Attendance) > max {
			max = int(e.Attendance)
		}
	}
	return max
}

// VietnamEditions counts editions held in Vietnam.
func (s *EventSeries) VietnamEditions() int {
	n := 0
	for _, e := range s.Editions {
		if strings.Contains(strings.ToLower(e.Country), "vietnam") {
			n++
		}
	}
	return n
}

// UniqueCountries returns the distinct edition countries in first-seen order.
func (s *EventSeries) UniqueCountries() []string {
	seen := make(map[string]bool, len(s.Editions))
	var out []string
	for _, e := range s.Editions {
		c := strings.TrimSpace(e.Country)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// EditionRow is one flat row of an editions export before grouping.
type EditionRow struct {
	SeriesID   string
	SeriesName string
	Edition    Edition
}

// GroupEditions buckets edition rows by series ID, preserving first-seen
// series order and per-series edition order.
func GroupEditions(rows []EditionRow) []*EventSeries {
	byID := make(map[string]*EventSeries)
	var order []*EventSeries
	for _, r := range rows {
		s, ok := byID[r.SeriesID]
		if !ok {
			s = &EventSeries{SeriesID: r.SeriesID, SeriesName: r.SeriesName}
			byID[r.SeriesID] = s
			order = append(order, s)
		}
		s.Editions = append(s.Editions, r.Edition)
	}
	return order
}
