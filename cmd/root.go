package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "kwanalyze",
	Short: "Keyword opportunity analysis for SEO and answer engines",
	Long:  "Turns search-performance telemetry into ranked keyword opportunities: CTR-gap traffic estimates, intent classification, opportunity scoring, and answer-engine potential.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
