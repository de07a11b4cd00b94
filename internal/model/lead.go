// Package model defines the core data types of the lead pipeline.
package model

import (
	"strings"
	"time"
)

// SourceType identifies the export format a raw row came from and governs
// field mapping, defaulting, and ID prefixes during candidate building.
type SourceType string

const (
	SourceCorp     SourceType = "CORP"
	SourceDMC      SourceType = "DMC"
	SourceNormal   SourceType = "NORMAL"
	SourcePostcard SourceType = "POSTCARD"
)

// RawRow is one row of a source export, keyed by column name. It is never
// mutated after load.
type RawRow map[string]string

// Get returns the trimmed value of a column, or "" if absent.
func (r RawRow) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// LeadCandidate is a single observation of a prospective lead before
// deduplication.
type LeadCandidate struct {
	ID            string     `json:"id"`
	CompanyName   string     `json:"company_name"`
	ContactName   string     `json:"contact_name,omitempty"`
	ContactTitle  string     `json:"contact_title,omitempty"`
	ContactEmail  string     `json:"contact_email,omitempty"`
	ContactPhone  string     `json:"contact_phone,omitempty"`
	Website       string     `json:"website,omitempty"`
	Industry      string     `json:"industry"`
	Country       string     `json:"country"`
	City          string     `json:"city"`
	DelegateCount *int       `json:"delegate_count,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	ResearchNotes string     `json:"research_notes,omitempty"`
	Source        SourceType `json:"source"`
}

// IdentityKey is the dedup key: company name and contact email, both
// lowercased and trimmed. Candidates with the same company but different
// emails stay distinct leads on purpose.
type IdentityKey struct {
	Company string
	Email   string
}

// Identity returns the candidate's dedup key.
func (c LeadCandidate) Identity() IdentityKey {
	return IdentityKey{
		Company: strings.ToLower(strings.TrimSpace(c.CompanyName)),
		Email:   strings.ToLower(strings.TrimSpace(c.ContactEmail)),
	}
}

// Lead is the deduplicated unit: the first-seen candidate's fields plus
// merged occurrence data. A Lead is mutated in place by the deduplicator and
// treated as immutable once it reaches the scorer.
type Lead struct {
	LeadCandidate

	TotalOccurrences int    `json:"total_occurrences"`
	MaxDelegateCount *int   `json:"max_delegate_count,omitempty"`
	MergedNotes      string `json:"merged_notes,omitempty"`
	VietnamEvents    int    `json:"vietnam_events"`
	Status           string `json:"status"`
}

// DisplayName returns the label used in reports.
func (l *Lead) DisplayName() string { return l.CompanyName }

// HistoryCountries returns the countries this lead's history spans. A lead
// built from an import row carries a single country.
func (l *Lead) HistoryCountries() []string {
	if l.Country == "" {
		return nil
	}
	return []string{l.Country}
}

// HasEmail reports whether a contact email is present.
func (l *Lead) HasEmail() bool { return strings.TrimSpace(l.ContactEmail) != "" }

// HasPhone reports whether a contact phone is present.
func (l *Lead) HasPhone() bool { return strings.TrimSpace(l.ContactPhone) != "" }

// MaxDelegates returns the largest delegate count seen, or 0 if unknown.
func (l *Lead) MaxDelegates() int {
	if l.MaxDelegateCount == nil {
		return 0
	}
	return *l.MaxDelegateCount
}

// ImportRun records one generation run for diagnostics.
type ImportRun struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Sources     int       `json:"sources"`
	RowsParsed  int       `json:"rows_parsed"`
	RowsSkipped int       `json:"rows_skipped"`
	Candidates  int       `json:"candidates"`
	Leads       int       `json:"leads"`
}
