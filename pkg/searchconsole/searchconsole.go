// Package searchconsole provides sources of search-performance telemetry:
// the Search Console query API and local CSV exports.
package searchconsole

import (
	"context"
	"time"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/model"
)

// Row is one query row of search-performance data.
type Row struct {
	Query       string  `json:"query"`
	Clicks      int64   `json:"clicks"`
	Impressions int64   `json:"impressions"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

// QueryRequest bounds one telemetry fetch.
type QueryRequest struct {
	SiteURL   string
	StartDate time.Time
	EndDate   time.Time
	RowLimit  int // 0 means fetch everything
}

// Source fetches search-performance rows for a site and date window.
type Source interface {
	Fetch(ctx context.Context, req QueryRequest) ([]Row, error)
}

// ToRecords converts API rows to pipeline records.
func ToRecords(rows []Row) []model.Record {
	records := make([]model.Record, len(rows))
	for i, r := range rows {
		records[i] = model.Record{
			Query:       r.Query,
			Position:    r.Position,
			Impressions: r.Impressions,
			Clicks:      r.Clicks,
			CTR:         r.CTR,
		}
	}
	return records
}
