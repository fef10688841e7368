package main

import (
	"bufio"
	"sort"

	"github.com/spf13/cobra"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/model"
)

var (
	exportInput  string
	exportDomain string
	exportDays   int
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the unique keyword list",
	Long: `Exports the deduplicated, normalized keyword list from the analysis,
one keyword per line, suitable for uploading to third-party keyword tools.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		domain := exportDomain
		if domain == "" {
			domain = cfg.Analysis.Domain
		}
		days := exportDays
		if days <= 0 {
			days = cfg.Analysis.DaysBack
		}

		records, _, _, err := fetchRecords(ctx, exportInput, domain, days)
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

		seen := make(map[string]struct{}, len(res.Opportunities))
		keywords := make([]string, 0, len(res.Opportunities))
		for _, o := range res.Opportunities {
			key := model.FoldKey(o.Query)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keywords = append(keywords, key)
		}
		sort.Strings(keywords)

		out, closeFn, err := openOutput(exportOutput)
		if err != nil {
			return err
		}
		defer closeFn() //nolint:errcheck

		w := bufio.NewWriter(out)
		for _, kw := range keywords {
			w.WriteString(kw)
			w.WriteByte('\n')
		}
		return w.Flush()
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportInput, "input", "", "path to a performance CSV export (skips the API)")
	exportCmd.Flags().StringVar(&exportDomain, "domain", "", "site URL or sc-domain property (default from config)")
	exportCmd.Flags().IntVar(&exportDays, "days", 0, "days of telemetry to fetch (default from config)")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "write keywords to file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}
