package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/model"
)

var (
	analyzeInput  string
	analyzeDomain string
	analyzeDays   int
	analyzeFormat string
	analyzeOutput string
	analyzeTop    int
	analyzeSave   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score keyword opportunities from search-performance data",
	Long: `Runs the full analysis pipeline: normalizes telemetry, applies the
exclusion list, classifies intent, enriches with keyword metrics, and ranks
every query by opportunity score.

Examples:
  # Analyze a Search Console CSV export
  kwanalyze analyze --input queries.csv

  # Fetch 90 days from the API and persist the run
  kwanalyze analyze --domain sc-domain:example.com --save

  # Full CSV report to a file
  kwanalyze analyze --input queries.csv --format csv --output report.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		domain := analyzeDomain
		if domain == "" {
			domain = cfg.Analysis.Domain
		}
		days := analyzeDays
		if days <= 0 {
			days = cfg.Analysis.DaysBack
		}

		records, start, end, err := fetchRecords(ctx, analyzeInput, domain, days)
		if err != nil {
			return err
		}

		p, err := initPipeline()
		if err != nil {
			return err
		}

		res, err := p.Run(ctx, records)
		if err != nil {
			return err
		}

		out, closeFn, err := openOutput(analyzeOutput)
		if err != nil {
			return err
		}
		defer closeFn() //nolint:errcheck

		switch analyzeFormat {
		case "csv":
			if err := writeOpportunitiesCSV(out, res.Opportunities); err != nil {
				return err
			}
		case "table":
			if err := writeOpportunitiesTable(out, res.Opportunities, analyzeTop); err != nil {
				return err
			}
			printSummary(out, res)
		default:
			return eris.Errorf("unsupported format: %s", analyzeFormat)
		}

		if analyzeSave {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			run := model.AnalysisRun{
				ID:        uuid.New().String(),
				Domain:    domain,
				StartDate: start,
				EndDate:   end,
				Fetched:   len(records),
				Dropped:   res.Dropped,
				Excluded:  res.Excluded + res.Filtered,
				Summary:   res.Summary,
				CreatedAt: time.Now().UTC(),
			}
			if err := st.SaveRun(ctx, run, res.Opportunities); err != nil {
				return err
			}
			zap.L().Info("run saved", zap.String("run_id", run.ID))
		}

		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "path to a performance CSV export (skips the API)")
	analyzeCmd.Flags().StringVar(&analyzeDomain, "domain", "", "site URL or sc-domain property (default from config)")
	analyzeCmd.Flags().IntVar(&analyzeDays, "days", 0, "days of telemetry to fetch (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "table", "output format: table or csv")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "", "write output to file (default: stdout)")
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 25, "rows to show in table format (0 = all)")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "persist the run to the store")
	rootCmd.AddCommand(analyzeCmd)
}
