package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/model"
	"github.com/youngfessy/seo-keyword-analysis-tool/internal/pipeline"
)

// openOutput returns the destination writer. Empty path means stdout.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create output file %s", path)
	}
	return f, f.Close, nil
}

var csvHeader = []string{
	"query", "position", "impressions", "clicks", "ctr",
	"intent", "answer_intent", "serp_features",
	"search_volume", "difficulty", "cost_per_click", "data_source",
	"ctr_gap", "traffic_potential",
	"opportunity_score", "answer_potential", "opportunity_type", "priority",
}

func writeOpportunitiesCSV(w io.Writer, opps []model.Opportunity) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return eris.Wrap(err, "write csv header")
	}
	for _, o := range opps {
		features := make([]string, len(o.SerpFeatures))
		for i, f := range o.SerpFeatures {
			features[i] = string(f)
		}
		row := []string{
			o.Query,
			strconv.FormatFloat(o.Position, 'f', 1, 64),
			strconv.FormatInt(o.Impressions, 10),
			strconv.FormatInt(o.Clicks, 10),
			strconv.FormatFloat(o.CTR, 'f', 4, 64),
			string(o.Intent),
			string(o.AnswerIntent),
			strings.Join(features, "|"),
			strconv.FormatInt(o.SearchVolume, 10),
			strconv.Itoa(o.Difficulty),
			strconv.FormatFloat(o.CostPerClick, 'f', 2, 64),
			string(o.DataSource),
			strconv.FormatFloat(o.CTRGap, 'f', 4, 64),
			strconv.FormatInt(o.TrafficPotential, 10),
			strconv.FormatFloat(o.OpportunityScore, 'f', 1, 64),
			strconv.FormatFloat(o.AnswerPotential, 'f', 1, 64),
			string(o.OpportunityType),
			string(o.Priority),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "flush csv")
}

func writeOpportunitiesTable(w io.Writer, opps []model.Opportunity, top int) error {
	if top > 0 && top < len(opps) {
		opps = opps[:top]
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "QUERY\tPOS\tIMPR\tCTR\tSCORE\tTYPE\tPRIORITY\tTRAFFIC+\tINTENT")
	for _, o := range opps {
		fmt.Fprintf(tw, "%s\t%.1f\t%d\t%.1f%%\t%.1f\t%s\t%s\t%d\t%s\n",
			o.Query, o.Position, o.Impressions, o.CTR*100,
			o.OpportunityScore, o.OpportunityType, o.Priority,
			o.TrafficPotential, o.Intent,
		)
	}
	return tw.Flush()
}

func writeAnswerTable(w io.Writer, opps []model.Opportunity, top int) error {
	if top > 0 && top < len(opps) {
		opps = opps[:top]
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "QUERY\tPOS\tIMPR\tANSWER\tANSWER INTENT\tSERP FEATURES")
	for _, o := range opps {
		features := make([]string, len(o.SerpFeatures))
		for i, f := range o.SerpFeatures {
			features[i] = string(f)
		}
		fmt.Fprintf(tw, "%s\t%.1f\t%d\t%.1f\t%s\t%s\n",
			o.Query, o.Position, o.Impressions,
			o.AnswerPotential, o.AnswerIntent, strings.Join(features, ", "),
		)
	}
	return tw.Flush()
}

func printSummary(w io.Writer, res *pipeline.Result) {
	s := res.Summary
	fmt.Fprintf(w, "\nAnalyzed %d keywords (%d dropped, %d excluded, %d filtered)\n",
		s.TotalKeywords, res.Dropped, res.Excluded, res.Filtered)
	fmt.Fprintf(w, "Priorities: high=%d medium=%d low=%d\n",
		s.ByPriority[model.PriorityHigh], s.ByPriority[model.PriorityMedium], s.ByPriority[model.PriorityLow])
	fmt.Fprintf(w, "Types:")
	for _, t := range model.AllOpportunityTypes() {
		if n := s.ByType[t]; n > 0 {
			fmt.Fprintf(w, " %s=%d", t, n)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Data sources: authoritative=%d estimated=%d\n",
		s.ByDataSource[model.SourceAuthoritative], s.ByDataSource[model.SourceEstimated])
	fmt.Fprintf(w, "Traffic potential: +%d clicks, average position %.1f\n",
		s.TotalTrafficPotential, s.AveragePosition)
	fmt.Fprintf(w, "Answer engines: %d question keywords, %d with high answer potential\n",
		s.QuestionKeywords, s.HighAnswerPotential)
}
