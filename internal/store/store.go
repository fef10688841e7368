// Package store persists analysis runs and their scored opportunities.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Domain string `json:"domain,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for analysis history.
type Store interface {
	// Runs
	SaveRun(ctx context.Context, run model.AnalysisRun, opps []model.Opportunity) error
	GetRun(ctx context.Context, runID string) (*model.AnalysisRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.AnalysisRun, error)
	GetOpportunities(ctx context.Context, runID string) ([]model.Opportunity, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Pool is the subset of pgxpool.Pool the Postgres store uses. pgxmock's
// pool mock satisfies it, which keeps the store testable without a live
// database.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}
