package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresWithPool(mock), mock
}

func TestPostgresStore_SaveRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	run, opps := sampleRun()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO runs`).
		WithArgs(run.ID, run.Domain, pgxmock.AnyArg(), pgxmock.AnyArg(),
			run.Fetched, run.Dropped, run.Excluded, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCopyFrom(pgx.Identifier{"opportunities"}, opportunityColumns).
		WillReturnResult(int64(len(opps)))
	mock.ExpectCommit()

	require.NoError(t, s.SaveRun(context.Background(), run, opps))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRun_InsertFails(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	run, opps := sampleRun()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO runs`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := s.SaveRun(context.Background(), run, opps)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert run")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	run, _ := sampleRun()

	summaryJSON, err := json.Marshal(run.Summary)
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{
		"id", "domain", "start_date", "end_date", "fetched", "dropped", "excluded", "summary", "created_at",
	}).AddRow(run.ID, run.Domain, run.StartDate, run.EndDate,
		run.Fetched, run.Dropped, run.Excluded, summaryJSON, run.CreatedAt)

	mock.ExpectQuery(`SELECT id, domain, start_date, end_date, fetched, dropped, excluded, summary, created_at FROM runs WHERE id = \$1`).
		WithArgs(run.ID).
		WillReturnRows(rows)

	got, err := s.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Domain, got.Domain)
	assert.Equal(t, run.Summary.TotalKeywords, got.Summary.TotalKeywords)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, domain, start_date, end_date, fetched, dropped, excluded, summary, created_at FROM runs WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetOpportunities(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	_, opps := sampleRun()
	o := opps[0]

	features, err := json.Marshal(o.SerpFeatures)
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{
		"query", "position", "impressions", "clicks", "ctr", "intent", "answer_intent", "serp_features",
		"search_volume", "difficulty", "cost_per_click", "data_source", "ctr_gap", "traffic_potential",
		"opportunity_score", "answer_potential", "opportunity_type", "priority",
	}).AddRow(o.Query, o.Position, o.Impressions, o.Clicks, o.CTR,
		string(o.Intent), string(o.AnswerIntent), features,
		o.SearchVolume, o.Difficulty, o.CostPerClick, string(o.DataSource),
		o.CTRGap, o.TrafficPotential, o.OpportunityScore, o.AnswerPotential,
		string(o.OpportunityType), string(o.Priority))

	mock.ExpectQuery(`SELECT query, position, impressions, clicks, ctr`).
		WithArgs("run-1").
		WillReturnRows(rows)

	got, err := s.GetOpportunities(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, o, got[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRuns_DomainFilter(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	run, _ := sampleRun()

	summaryJSON, err := json.Marshal(run.Summary)
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{
		"id", "domain", "start_date", "end_date", "fetched", "dropped", "excluded", "summary", "created_at",
	}).AddRow(run.ID, run.Domain, run.StartDate, run.EndDate,
		run.Fetched, run.Dropped, run.Excluded, summaryJSON, run.CreatedAt)

	mock.ExpectQuery(`SELECT .+ FROM runs WHERE domain = \$1 ORDER BY created_at DESC LIMIT \$2`).
		WithArgs(run.Domain, 5).
		WillReturnRows(rows)

	runs, err := s.ListRuns(context.Background(), RunFilter{Domain: run.Domain, Limit: 5})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
