package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/danang-cvb/leadgen-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id              TEXT PRIMARY KEY,
	company_name    TEXT NOT NULL,
	contact_name    TEXT,
	contact_title   TEXT,
	contact_email   TEXT,
	contact_phone   TEXT,
	website         TEXT,
	industry        TEXT,
	country         TEXT,
	city            TEXT,
	delegate_count  INTEGER,
	notes           TEXT,
	research_notes  TEXT,
	source          TEXT NOT NULL,
	total_events    INTEGER NOT NULL DEFAULT 1,
	vietnam_events  INTEGER NOT NULL DEFAULT 0,
	status          TEXT NOT NULL DEFAULT 'New',
	created_at      DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS import_runs (
	id           TEXT PRIMARY KEY,
	started_at   DATETIME NOT NULL,
	finished_at  DATETIME NOT NULL,
	sources      INTEGER NOT NULL,
	rows_parsed  INTEGER NOT NULL,
	rows_skipped INTEGER NOT NULL,
	candidates   INTEGER NOT NULL,
	leads        INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leads_source ON leads(source);
CREATE INDEX IF NOT EXISTS idx_leads_country ON leads(country);
CREATE INDEX IF NOT EXISTS idx_leads_company ON leads(company_name);
CREATE INDEX IF NOT EXISTS idx_import_runs_started ON import_runs(started_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertLeads(ctx context.Context, leads []*model.Lead) (int64, error) {
	if len(leads) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO leads (
			id, company_name, contact_name, contact_title, contact_email, contact_phone,
			website, industry, country, city, delegate_count, notes, research_notes,
			source, total_events, vietnam_events, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			company_name = excluded.company_name,
			contact_name = excluded.contact_name,
			contact_title = excluded.contact_title,
			contact_email = excluded.contact_email,
			contact_phone = excluded.contact_phone,
			website = excluded.website,
			industry = excluded.industry,
			country = excluded.country,
			city = excluded.city,
			delegate_count = excluded.delegate_count,
			notes = excluded.notes,
			research_notes = excluded.research_notes,
			source = excluded.source,
			total_events = excluded.total_events,
			vietnam_events = excluded.vietnam_events,
			status = excluded.status,
			updated_at = excluded.updated_at`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	var written int64
	for _, l := range leads {
		_, err := stmt.ExecContext(ctx,
			l.ID, l.CompanyName, l.ContactName, l.ContactTitle, l.ContactEmail, l.ContactPhone,
			l.Website, l.Industry, l.Country, l.City, l.MaxDelegateCount, l.MergedNotes, l.ResearchNotes,
			string(l.Source), l.TotalOccurrences, l.VietnamEvents, l.Status, now, now,
		)
		if err != nil {
			return written, eris.Wrapf(err, "sqlite: upsert lead %s", l.ID)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit upsert")
	}
	return written, nil
}

func (s *SQLiteStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT id, company_name, contact_name, contact_title, contact_email, contact_phone,
		website, industry, country, city, delegate_count, notes, research_notes,
		source, total_events, vietnam_events, status
		FROM leads WHERE 1=1`
	var args []any

	if filter.Source != "" {
		query += ` AND source = ?`
		args = append(args, string(filter.Source))
	}
	if filter.Country != "" {
		query += ` AND country = ?`
		args = append(args, filter.Country)
	}
	query += ` ORDER BY company_name ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		leads = append(leads, *l)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: list leads iterate")
}

func (s *SQLiteStore) RecordImportRun(ctx context.Context, run *model.ImportRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO import_runs (id, started_at, finished_at, sources, rows_parsed, rows_skipped, candidates, leads)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC(), run.FinishedAt.UTC(),
		run.Sources, run.RowsParsed, run.RowsSkipped, run.Candidates, run.Leads,
	)
	return eris.Wrap(err, "sqlite: record import run")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanLead(row scannable) (*model.Lead, error) {
	var l model.Lead
	var contactName, contactTitle, contactEmail, contactPhone sql.NullString
	var website, industry, country, city, notes, researchNotes sql.NullString
	var delegates sql.NullInt64
	var source string

	err := row.Scan(&l.ID, &l.CompanyName, &contactName, &contactTitle, &contactEmail, &contactPhone,
		&website, &industry, &country, &city, &delegates, &notes, &researchNotes,
		&source, &l.TotalOccurrences, &l.VietnamEvents, &l.Status)
	if err != nil {
		return nil, err
	}

	l.ContactName = contactName.String
	l.ContactTitle = contactTitle.String
	l.ContactEmail = contactEmail.String
	l.ContactPhone = contactPhone.String
	l.Website = website.String
	l.Industry = industry.String
	l.Country = country.String
	l.City = city.String
	l.MergedNotes = notes.String
	l.ResearchNotes = researchNotes.String
	l.Source = model.SourceType(source)
	if delegates.Valid {
		n := int(delegates.Int64)
		l.MaxDelegateCount = &n
	}
	return &l, nil
}
