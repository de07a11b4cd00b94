// Package store persists deduplicated leads and import run audit records,
// backed by SQLite for local use and PostgreSQL for shared deployments.
package store

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/danang-cvb/leadgen-cli/internal/model"
)

// LeadFilter specifies criteria for listing leads.
type LeadFilter struct {
	Source  model.SourceType `json:"source,omitempty"`
	Country string           `json:"country,omitempty"`
	Limit   int              `json:"limit,omitempty"`
	Offset  int              `json:"offset,omitempty"`
}

// Store defines the persistence interface for the lead pipeline.
type Store interface {
	// UpsertLeads writes leads keyed by ID, replacing prior imports of the
	// same lead. Returns the number of rows written.
	UpsertLeads(ctx context.Context, leads []*model.Lead) (int64, error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error)

	// RecordImportRun appends one run's audit record.
	RecordImportRun(ctx context.Context, run *model.ImportRun) error

	Migrate(ctx context.Context) error
	Close() error
}

// Open picks a backend from the DSN: postgres:// connection strings get the
// pool-backed store, anything else is treated as a SQLite path.
func Open(ctx context.Context, dsn string, poolCfg *PoolConfig) (Store, error) {
	if dsn == "" {
		return nil, eris.New("store: empty dsn")
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return NewPostgres(ctx, dsn, poolCfg)
	}
	return NewSQLite(dsn)
}
