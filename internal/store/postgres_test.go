package store

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danang-cvb/leadgen-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresWithPool(mock), mock
}

func TestPostgresStore_UpsertLeads(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_leads_upsert"`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom([]string{"_tmp_leads_upsert"}, leadColumns).
		WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO leads .+ ON CONFLICT \("id"\) DO UPDATE SET`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()
	mock.ExpectRollback()

	n, err := s.UpsertLeads(context.Background(), []*model.Lead{
		testLead("corp-acme-events-th", "Acme Events", model.SourceCorp),
		testLead("corp-beta-mice-sg", "Beta MICE", model.SourceCorp),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertLeads_Empty(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	n, err := s.UpsertLeads(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListLeads(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{
		"id", "company_name", "contact_name", "contact_title", "contact_email", "contact_phone",
		"website", "industry", "country", "city", "delegate_count", "notes", "research_notes",
		"source", "total_events", "vietnam_events", "status",
	}).AddRow(
		"corp-acme-events-th", "Acme Events", "Jane Doe", "Director", "sales@acme.com", "",
		"", "Corporate - MICE Buyer", "Thailand", "Da Nang", nil, "Venue: Hall A", "",
		"CORP", 2, 1, "New",
	)

	mock.ExpectQuery(`(?s)SELECT .+ FROM leads WHERE true AND source = \$1 ORDER BY company_name ASC LIMIT \$2`).
		WithArgs("CORP", 100).
		WillReturnRows(rows)

	leads, err := s.ListLeads(context.Background(), LeadFilter{Source: model.SourceCorp})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Acme Events", leads[0].CompanyName)
	assert.Equal(t, 2, leads[0].TotalOccurrences)
	assert.Nil(t, leads[0].MaxDelegateCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RecordImportRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO import_runs`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), 1, 50, 2, 48, 40).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run := &model.ImportRun{
		StartedAt:   time.Now().Add(-time.Minute),
		FinishedAt:  time.Now(),
		Sources:     1,
		RowsParsed:  50,
		RowsSkipped: 2,
		Candidates:  48,
		Leads:       40,
	}
	require.NoError(t, s.RecordImportRun(context.Background(), run))
	assert.NotEmpty(t, run.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS leads`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
