package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/advise"
	"github.com/youngfessy/seo-keyword-analysis-tool/pkg/anthropic"
)

var (
	recommendInput  string
	recommendDomain string
	recommendDays   int
	recommendTop    int
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Generate next actions for top opportunities via Claude",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if cfg.Anthropic.Key == "" {
			return eris.New("anthropic API key is required (KWANALYZE_ANTHROPIC_KEY)")
		}

		domain := recommendDomain
		if domain == "" {
			domain = cfg.Analysis.Domain
		}
		days := recommendDays
		if days <= 0 {
			days = cfg.Analysis.DaysBack
		}

		records, _, _, err := fetchRecords(ctx, recommendInput, domain, days)
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

		advisor := advise.New(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model)
		recs, err := advisor.Recommend(ctx, res.Opportunities, recommendTop)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "QUERY\tTYPE\tPRIORITY\tACTION")
		for _, r := range recs {
			action := r.Action
			if action == "" {
				action = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Query, r.OpportunityType, r.Priority, action)
		}
		return tw.Flush()
	},
}

func init() {
	recommendCmd.Flags().StringVar(&recommendInput, "input", "", "path to a performance CSV export (skips the API)")
	recommendCmd.Flags().StringVar(&recommendDomain, "domain", "", "site URL or sc-domain property (default from config)")
	recommendCmd.Flags().IntVar(&recommendDays, "days", 0, "days of telemetry to fetch (default from config)")
	recommendCmd.Flags().IntVar(&recommendTop, "top", 20, "opportunities to request actions for")
	rootCmd.AddCommand(recommendCmd)
}
