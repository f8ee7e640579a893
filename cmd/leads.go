package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/prospect-cli/internal/score"
)

var (
	leadsRunFile  string
	leadsTier     string
	leadsMinScore int
	leadsFormat   string
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List ranked leads from a saved run",
	Long:  "Reads a run result file and lists its leads, optionally filtered by tier or minimum score. Read-only: filtering never re-scores or hides rejections.",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadRun(leadsRunFile)
		if err != nil {
			return err
		}

		var leads []*score.RankedLead
		for _, l := range res.Leads {
			if leadsTier != "" && string(l.Tier) != leadsTier {
				continue
			}
			if l.Total < leadsMinScore {
				continue
			}
			leads = append(leads, l)
		}

		switch leadsFormat {
		case "table":
			writeLeadsTable(os.Stdout, leads)
			return nil
		case "csv":
			return writeLeadsCSV(os.Stdout, leads)
		case "json":
			return writeJSON(os.Stdout, leads)
		default:
			return eris.Errorf("cmd: unknown format %q", leadsFormat)
		}
	},
}

func init() {
	leadsCmd.Flags().StringVar(&leadsRunFile, "run", "run.json", "run result file")
	leadsCmd.Flags().StringVar(&leadsTier, "tier", "", "only leads in this tier (A-D)")
	leadsCmd.Flags().IntVar(&leadsMinScore, "min-score", 0, "only leads scoring at least this")
	leadsCmd.Flags().StringVar(&leadsFormat, "format", "table", "output format: table, csv or json")
	rootCmd.AddCommand(leadsCmd)
}
