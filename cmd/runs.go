package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/store"
)

var (
	runsDomain string
	runsLimit  int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect saved analysis runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		runs, err := st.ListRuns(ctx, store.RunFilter{Domain: runsDomain, Limit: runsLimit})
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDOMAIN\tWINDOW\tKEYWORDS\tHIGH\tTRAFFIC+\tCREATED")
		for _, r := range runs {
			fmt.Fprintf(tw, "%s\t%s\t%s..%s\t%d\t%d\t%d\t%s\n",
				r.ID, r.Domain,
				r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"),
				r.Summary.TotalKeywords, r.Summary.ByPriority["high"],
				r.Summary.TotalTrafficPotential,
				r.CreatedAt.Format("2006-01-02 15:04"),
			)
		}
		return tw.Flush()
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run's scored opportunities",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return err
		}
		opps, err := st.GetOpportunities(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Run %s for %s (%s..%s)\n\n",
			run.ID, run.Domain,
			run.StartDate.Format("2006-01-02"), run.EndDate.Format("2006-01-02"))
		return writeOpportunitiesTable(os.Stdout, opps, 0)
	},
}

func init() {
	runsListCmd.Flags().StringVar(&runsDomain, "domain", "", "filter by domain")
	runsListCmd.Flags().IntVar(&runsLimit, "limit", 20, "max runs to list")
	runsCmd.AddCommand(runsListCmd, runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
