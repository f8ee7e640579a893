package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/rules"
)

var (
	cfgFile   string
	rulesFile string

	cfg     *config.Config
	ruleSet *rules.Rules
)

var rootCmd = &cobra.Command{
	Use:   "prospect-cli",
	Short: "Provenance-gated lead discovery pipeline",
	Long:  "Ingests public business signals, gates them through hard validation rules, resolves entities, enriches and ranks fully-explained leads. Every value carries evidence.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		path := rulesFile
		if path == "" {
			path = cfg.RulesFile
		}
		r, err := rules.Load(path)
		if err != nil {
			return fmt.Errorf("load rules: %w", err)
		}
		ruleSet = r

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "rule table override file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
