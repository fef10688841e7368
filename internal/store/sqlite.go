package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/model"
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
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	domain     TEXT NOT NULL,
	start_date DATETIME NOT NULL,
	end_date   DATETIME NOT NULL,
	fetched    INTEGER NOT NULL DEFAULT 0,
	dropped    INTEGER NOT NULL DEFAULT 0,
	excluded   INTEGER NOT NULL DEFAULT 0,
	summary    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS opportunities (
	run_id            TEXT NOT NULL REFERENCES runs(id),
	rank              INTEGER NOT NULL,
	query             TEXT NOT NULL,
	position          REAL NOT NULL,
	impressions       INTEGER NOT NULL,
	clicks            INTEGER NOT NULL,
	ctr               REAL NOT NULL,
	intent            TEXT NOT NULL,
	answer_intent     TEXT NOT NULL,
	serp_features     TEXT NOT NULL,
	search_volume     INTEGER NOT NULL,
	difficulty        INTEGER NOT NULL,
	cost_per_click    REAL NOT NULL,
	data_source       TEXT NOT NULL,
	ctr_gap           REAL NOT NULL,
	traffic_potential INTEGER NOT NULL,
	opportunity_score REAL NOT NULL,
	answer_potential  REAL NOT NULL,
	opportunity_type  TEXT NOT NULL,
	priority          TEXT NOT NULL,
	PRIMARY KEY (run_id, rank)
);

CREATE INDEX IF NOT EXISTS idx_runs_domain ON runs(domain);
CREATE INDEX IF NOT EXISTS idx_opportunities_run_id ON opportunities(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run model.AnalysisRun, opps []model.Opportunity) error {
	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal summary")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, domain, start_date, end_date, fetched, dropped, excluded, summary, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Domain, run.StartDate.UTC(), run.EndDate.UTC(),
		run.Fetched, run.Dropped, run.Excluded, string(summaryJSON), run.CreatedAt.UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert run %s", run.ID)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO opportunities (run_id, rank, query, position, impressions, clicks, ctr,
		   intent, answer_intent, serp_features, search_volume, difficulty, cost_per_click,
		   data_source, ctr_gap, traffic_potential, opportunity_score, answer_potential,
		   opportunity_type, priority)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare opportunity insert")
	}
	defer stmt.Close() //nolint:errcheck

	for i, o := range opps {
		featuresJSON, err := json.Marshal(o.SerpFeatures)
		if err != nil {
			return eris.Wrapf(err, "sqlite: marshal serp features for %q", o.Query)
		}
		_, err = stmt.ExecContext(ctx,
			run.ID, i+1, o.Query, o.Position, o.Impressions, o.Clicks, o.CTR,
			string(o.Intent), string(o.AnswerIntent), string(featuresJSON),
			o.SearchVolume, o.Difficulty, o.CostPerClick, string(o.DataSource),
			o.CTRGap, o.TrafficPotential, o.OpportunityScore, o.AnswerPotential,
			string(o.OpportunityType), string(o.Priority),
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert opportunity %q", o.Query)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.AnalysisRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, domain, start_date, end_date, fetched, dropped, excluded, summary, created_at
		 FROM runs WHERE id = ?`, runID,
	)
	run, err := scanRunSQL(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, eris.Errorf("sqlite: run %s not found", runID)
		}
		return nil, eris.Wrapf(err, "sqlite: get run %s", runID)
	}
	return run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.AnalysisRun, error) {
	query := `SELECT id, domain, start_date, end_date, fetched, dropped, excluded, summary, created_at FROM runs`
	var args []any
	if filter.Domain != "" {
		query += ` WHERE domain = ?`
		args = append(args, filter.Domain)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []model.AnalysisRun
	for rows.Next() {
		run, err := scanRunSQL(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

func (s *SQLiteStore) GetOpportunities(ctx context.Context, runID string) ([]model.Opportunity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT query, position, impressions, clicks, ctr, intent, answer_intent, serp_features,
		   search_volume, difficulty, cost_per_click, data_source, ctr_gap, traffic_potential,
		   opportunity_score, answer_potential, opportunity_type, priority
		 FROM opportunities WHERE run_id = ? ORDER BY rank`, runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get opportunities for %s", runID)
	}
	defer rows.Close() //nolint:errcheck

	var opps []model.Opportunity
	for rows.Next() {
		var o model.Opportunity
		var intent, answerIntent, features, source, oppType, priority string
		err := rows.Scan(
			&o.Query, &o.Position, &o.Impressions, &o.Clicks, &o.CTR,
			&intent, &answerIntent, &features,
			&o.SearchVolume, &o.Difficulty, &o.CostPerClick, &source,
			&o.CTRGap, &o.TrafficPotential, &o.OpportunityScore, &o.AnswerPotential,
			&oppType, &priority,
		)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan opportunity")
		}
		if err := json.Unmarshal([]byte(features), &o.SerpFeatures); err != nil {
			return nil, eris.Wrapf(err, "sqlite: decode serp features for %q", o.Query)
		}
		o.Intent = model.Intent(intent)
		o.AnswerIntent = model.AnswerIntent(answerIntent)
		o.DataSource = model.DataSource(source)
		o.OpportunityType = model.OpportunityType(oppType)
		o.Priority = model.Priority(priority)
		opps = append(opps, o)
	}
	return opps, eris.Wrap(rows.Err(), "sqlite: iterate opportunities")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRunSQL(row rowScanner) (*model.AnalysisRun, error) {
	var run model.AnalysisRun
	var summaryJSON string
	var start, end, created time.Time
	err := row.Scan(&run.ID, &run.Domain, &start, &end,
		&run.Fetched, &run.Dropped, &run.Excluded, &summaryJSON, &created)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(summaryJSON), &run.Summary); err != nil {
		return nil, eris.Wrap(err, "decode summary")
	}
	run.StartDate = start
	run.EndDate = end
	run.CreatedAt = created
	return &run, nil
}
