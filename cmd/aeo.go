package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var (
	aeoInput         string
	aeoDomain        string
	aeoDays          int
	aeoTop           int
	aeoMinPotential  float64
	aeoQuestionsOnly bool
)

var aeoCmd = &cobra.Command{
	Use:   "aeo",
	Short: "Rank keywords by answer-engine potential",
	Long: `Runs the analysis pipeline and re-ranks the results by answer
potential: how likely a keyword is to surface in featured snippets and
AI-generated answers. Question-format and definition queries with strong
positions rank highest.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		domain := aeoDomain
		if domain == "" {
			domain = cfg.Analysis.Domain
		}
		days := aeoDays
		if days <= 0 {
			days = cfg.Analysis.DaysBack
		}

		records, _, _, err := fetchRecords(ctx, aeoInput, domain, days)
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

		opps := res.Opportunities
		if aeoQuestionsOnly || aeoMinPotential > 0 {
			filtered := opps[:0:0]
			for _, o := range opps {
				if aeoQuestionsOnly && !o.IsQuestion() {
					continue
				}
				if o.AnswerPotential < aeoMinPotential {
					continue
				}
				filtered = append(filtered, o)
			}
			opps = filtered
		}

		sort.SliceStable(opps, func(i, j int) bool {
			a, b := opps[i], opps[j]
			if a.AnswerPotential != b.AnswerPotential {
				return a.AnswerPotential > b.AnswerPotential
			}
			if a.Impressions != b.Impressions {
				return a.Impressions > b.Impressions
			}
			return a.Query < b.Query
		})

		out, closeFn, err := openOutput("")
		if err != nil {
			return err
		}
		defer closeFn() //nolint:errcheck

		s := res.Summary
		fmt.Fprintf(out, "Keywords: %d total, %d questions, %d high answer potential, average position %.1f\n\n",
			s.TotalKeywords, s.QuestionKeywords, s.HighAnswerPotential, s.AveragePosition)
		return writeAnswerTable(out, opps, aeoTop)
	},
}

func init() {
	aeoCmd.Flags().StringVar(&aeoInput, "input", "", "path to a performance CSV export (skips the API)")
	aeoCmd.Flags().StringVar(&aeoDomain, "domain", "", "site URL or sc-domain property (default from config)")
	aeoCmd.Flags().IntVar(&aeoDays, "days", 0, "days of telemetry to fetch (default from config)")
	aeoCmd.Flags().IntVar(&aeoTop, "top", 25, "rows to show (0 = all)")
	aeoCmd.Flags().Float64Var(&aeoMinPotential, "min", 0, "minimum answer potential score")
	aeoCmd.Flags().BoolVar(&aeoQuestionsOnly, "questions", false, "only show question-format queries")
	rootCmd.AddCommand(aeoCmd)
}
