package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool, used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	domain     TEXT NOT NULL,
	start_date TIMESTAMPTZ NOT NULL,
	end_date   TIMESTAMPTZ NOT NULL,
	fetched    INT NOT NULL DEFAULT 0,
	dropped    INT NOT NULL DEFAULT 0,
	excluded   INT NOT NULL DEFAULT 0,
	summary    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS opportunities (
	run_id            TEXT NOT NULL REFERENCES runs(id),
	rank              INT NOT NULL,
	query             TEXT NOT NULL,
	position          DOUBLE PRECISION NOT NULL,
	impressions       BIGINT NOT NULL,
	clicks            BIGINT NOT NULL,
	ctr               DOUBLE PRECISION NOT NULL,
	intent            TEXT NOT NULL,
	answer_intent     TEXT NOT NULL,
	serp_features     JSONB NOT NULL,
	search_volume     BIGINT NOT NULL,
	difficulty        INT NOT NULL,
	cost_per_click    DOUBLE PRECISION NOT NULL,
	data_source       TEXT NOT NULL,
	ctr_gap           DOUBLE PRECISION NOT NULL,
	traffic_potential BIGINT NOT NULL,
	opportunity_score DOUBLE PRECISION NOT NULL,
	answer_potential  DOUBLE PRECISION NOT NULL,
	opportunity_type  TEXT NOT NULL,
	priority          TEXT NOT NULL,
	PRIMARY KEY (run_id, rank)
);

CREATE INDEX IF NOT EXISTS idx_runs_domain ON runs(domain);
CREATE INDEX IF NOT EXISTS idx_opportunities_run_id ON opportunities(run_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

var opportunityColumns = []string{
	"run_id", "rank", "query", "position", "impressions", "clicks", "ctr",
	"intent", "answer_intent", "serp_features", "search_volume", "difficulty",
	"cost_per_click", "data_source", "ctr_gap", "traffic_potential",
	"opportunity_score", "answer_potential", "opportunity_type", "priority",
}

func (s *PostgresStore) SaveRun(ctx context.Context, run model.AnalysisRun, opps []model.Opportunity) error {
	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal summary")
	}

	copyRows := make([][]any, 0, len(opps))
	for i, o := range opps {
		featuresJSON, err := json.Marshal(o.SerpFeatures)
		if err != nil {
			return eris.Wrapf(err, "postgres: marshal serp features for %q", o.Query)
		}
		copyRows = append(copyRows, []any{
			run.ID, i + 1, o.Query, o.Position, o.Impressions, o.Clicks, o.CTR,
			string(o.Intent), string(o.AnswerIntent), featuresJSON,
			o.SearchVolume, o.Difficulty, o.CostPerClick, string(o.DataSource),
			o.CTRGap, o.TrafficPotential, o.OpportunityScore, o.AnswerPotential,
			string(o.OpportunityType), string(o.Priority),
		})
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx,
		`INSERT INTO runs (id, domain, start_date, end_date, fetched, dropped, excluded, summary, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		run.ID, run.Domain, run.StartDate.UTC(), run.EndDate.UTC(),
		run.Fetched, run.Dropped, run.Excluded, summaryJSON, run.CreatedAt.UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: insert run %s", run.ID)
	}

	if len(copyRows) > 0 {
		_, err = tx.CopyFrom(ctx, pgx.Identifier{"opportunities"}, opportunityColumns, pgx.CopyFromRows(copyRows))
		if err != nil {
			return eris.Wrapf(err, "postgres: copy opportunities for %s", run.ID)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit")
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.AnalysisRun, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, domain, start_date, end_date, fetched, dropped, excluded, summary, created_at
		 FROM runs WHERE id = $1`, runID,
	)
	run, err := scanRunPG(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Errorf("postgres: run %s not found", runID)
		}
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return run, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.AnalysisRun, error) {
	query := `SELECT id, domain, start_date, end_date, fetched, dropped, excluded, summary, created_at FROM runs`
	var args []any
	if filter.Domain != "" {
		args = append(args, filter.Domain)
		query += ` WHERE domain = $1`
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.AnalysisRun
	for rows.Next() {
		run, err := scanRunPG(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate runs")
}

func (s *PostgresStore) GetOpportunities(ctx context.Context, runID string) ([]model.Opportunity, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT query, position, impressions, clicks, ctr, intent, answer_intent, serp_features,
		   search_volume, difficulty, cost_per_click, data_source, ctr_gap, traffic_potential,
		   opportunity_score, answer_potential, opportunity_type, priority
		 FROM opportunities WHERE run_id = $1 ORDER BY rank`, runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get opportunities for %s", runID)
	}
	defer rows.Close()

	var opps []model.Opportunity
	for rows.Next() {
		var o model.Opportunity
		var intent, answerIntent, source, oppType, priority string
		var features []byte
		err := rows.Scan(
			&o.Query, &o.Position, &o.Impressions, &o.Clicks, &o.CTR,
			&intent, &answerIntent, &features,
			&o.SearchVolume, &o.Difficulty, &o.CostPerClick, &source,
			&o.CTRGap, &o.TrafficPotential, &o.OpportunityScore, &o.AnswerPotential,
			&oppType, &priority,
		)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan opportunity")
		}
		if err := json.Unmarshal(features, &o.SerpFeatures); err != nil {
			return nil, eris.Wrapf(err, "postgres: decode serp features for %q", o.Query)
		}
		o.Intent = model.Intent(intent)
		o.AnswerIntent = model.AnswerIntent(answerIntent)
		o.DataSource = model.DataSource(source)
		o.OpportunityType = model.OpportunityType(oppType)
		o.Priority = model.Priority(priority)
		opps = append(opps, o)
	}
	return opps, eris.Wrap(rows.Err(), "postgres: iterate opportunities")
}

func scanRunPG(row pgx.Row) (*model.AnalysisRun, error) {
	var run model.AnalysisRun
	var summaryJSON []byte
	err := row.Scan(&run.ID, &run.Domain, &run.StartDate, &run.EndDate,
		&run.Fetched, &run.Dropped, &run.Excluded, &summaryJSON, &run.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(summaryJSON, &run.Summary); err != nil {
		return nil, eris.Wrap(err, "decode summary")
	}
	return &run, nil
}
