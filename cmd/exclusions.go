package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/exclusion"
)

var exclusionsCmd = &cobra.Command{
	Use:   "exclusions",
	Short: "Manage the keyword exclusion list",
	Long: `The exclusion list drops branded and irrelevant queries before
scoring. Matching is case-insensitive and substring-based: excluding
"acme" also drops "acme login".`,
}

var exclusionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the exclusion list",
	RunE: func(cmd *cobra.Command, _ []string) error {
		set, err := exclusion.NewFileStore(cfg.Exclusions.Path).Load()
		if err != nil {
			return err
		}
		for _, term := range set.Terms() {
			fmt.Println(term)
		}
		return nil
	},
}

var exclusionsAddCmd = &cobra.Command{
	Use:   "add <term>...",
	Short: "Add terms to the exclusion list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs := exclusion.NewFileStore(cfg.Exclusions.Path)
		set, err := fs.Load()
		if err != nil {
			return err
		}

		added := 0
		for _, term := range args {
			if set.Add(term) {
				added++
			}
		}
		if err := fs.Save(set); err != nil {
			return err
		}
		zap.L().Info("exclusion list updated",
			zap.Int("added", added),
			zap.Int("total", set.Len()),
		)
		return nil
	},
}

var exclusionsRemoveCmd = &cobra.Command{
	Use:   "remove <term>...",
	Short: "Remove terms from the exclusion list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs := exclusion.NewFileStore(cfg.Exclusions.Path)
		set, err := fs.Load()
		if err != nil {
			return err
		}

		removed := 0
		for _, term := range args {
			if set.Remove(term) {
				removed++
			}
		}
		if removed == 0 {
			return eris.New("no matching terms in the exclusion list")
		}
		if err := fs.Save(set); err != nil {
			return err
		}
		zap.L().Info("exclusion list updated",
			zap.Int("removed", removed),
			zap.Int("total", set.Len()),
		)
		return nil
	},
}

func init() {
	exclusionsCmd.AddCommand(exclusionsListCmd, exclusionsAddCmd, exclusionsRemoveCmd)
	rootCmd.AddCommand(exclusionsCmd)
}
