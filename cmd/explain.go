package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var explainRunFile string

var explainCmd = &cobra.Command{
	Use:   "explain <lead-id|domain>",
	Short: "Show the full score breakdown for one lead",
	Long:  "Prints the component-by-component explanation for a lead from a saved run. Every point in the total is attributed to a named component with its recorded reason.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadRun(explainRunFile)
		if err != nil {
			return err
		}

		key := strings.ToLower(args[0])
		for _, l := range res.Leads {
			if leadID(l) == key || strings.ToLower(l.Entity.DomainName()) == key {
				fmt.Print(l.Explanation())
				return nil
			}
		}
		return eris.Errorf("cmd: no lead %q in %s", args[0], explainRunFile)
	},
}

func init() {
	explainCmd.Flags().StringVar(&explainRunFile, "run", "run.json", "run result file")
	rootCmd.AddCommand(explainCmd)
}
