package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/exclusion"
	"github.com/youngfessy/seo-keyword-analysis-tool/internal/metrics"
	"github.com/youngfessy/seo-keyword-analysis-tool/internal/model"
	"github.com/youngfessy/seo-keyword-analysis-tool/internal/pipeline"
	"github.com/youngfessy/seo-keyword-analysis-tool/internal/store"
	"github.com/youngfessy/seo-keyword-analysis-tool/pkg/searchconsole"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.Path
		if path == "" {
			path = "keyword_analysis.db"
		}
		st, err := store.NewSQLite(path)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close() //nolint:errcheck
			return nil, err
		}
		return st, nil
	case "postgres":
		st, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close() //nolint:errcheck
			return nil, err
		}
		return st, nil
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initPipeline assembles the analysis pipeline from config: scoring rules,
// the metrics snapshot, and the persistent exclusion list.
func initPipeline() (*pipeline.Pipeline, error) {
	rules, err := pipeline.LoadRules(cfg.Rules.Path)
	if err != nil {
		return nil, err
	}

	excl, err := exclusion.NewFileStore(cfg.Exclusions.Path).Load()
	if err != nil {
		return nil, err
	}

	snapshot := metrics.LoadDir(cfg.Metrics.DataDir, cfg.Analysis.BrandKeywords)

	return pipeline.New(pipeline.Options{
		Snapshot:   snapshot,
		Exclusions: excl,
		BrandTerms: cfg.Analysis.BrandKeywords,
		Filters:    cfg.Analysis.Filters,
		Rules:      rules,
		Workers:    cfg.Analysis.Workers,
	})
}

// fetchRecords resolves the telemetry source. A non-empty input path wins;
// otherwise the Search Console API is queried over the configured window.
func fetchRecords(ctx context.Context, inputPath, domain string, daysBack int) ([]model.Record, time.Time, time.Time, error) {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -daysBack)

	var source searchconsole.Source
	if inputPath != "" {
		source = searchconsole.NewFileSource(inputPath)
	} else {
		if cfg.SearchConsole.Token == "" {
			return nil, start, end, eris.New("search console token is required (KWANALYZE_SEARCH_CONSOLE_TOKEN) when --input is not set")
		}
		if domain == "" {
			return nil, start, end, eris.New("domain is required when fetching from the API")
		}
		source = searchconsole.NewClient(cfg.SearchConsole.Token,
			searchconsole.WithBaseURL(cfg.SearchConsole.BaseURL))
	}

	rows, err := source.Fetch(ctx, searchconsole.QueryRequest{
		SiteURL:   domain,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return nil, start, end, eris.Wrap(err, "fetch telemetry")
	}

	zap.L().Info("telemetry fetched",
		zap.String("domain", domain),
		zap.Int("rows", len(rows)),
	)
	return searchconsole.ToRecords(rows), start, end, nil
}
