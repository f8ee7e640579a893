package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/prospect-cli/internal/evidence"
)

var evidenceRunFile string

var evidenceCmd = &cobra.Command{
	Use:   "evidence <evidence-id>",
	Short: "Show one evidence record and its lineage",
	Long:  "Prints an evidence record from a saved run together with its full ancestor chain back to the originating observation.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadRun(evidenceRunFile)
		if err != nil {
			return err
		}

		byID := make(map[string]*evidence.Evidence, len(res.Evidence))
		for _, ev := range res.Evidence {
			byID[ev.ID] = ev
		}

		root, ok := byID[args[0]]
		if !ok {
			return eris.Errorf("cmd: no evidence %q in %s", args[0], evidenceRunFile)
		}

		chain := lineage(root, byID)
		for i, ev := range chain {
			if i > 0 {
				fmt.Println()
			}
			printEvidence(ev)
		}
		return nil
	},
}

// lineage walks parent references, oldest ancestor first.
func lineage(root *evidence.Evidence, byID map[string]*evidence.Evidence) []*evidence.Evidence {
	seen := map[string]bool{}
	var out []*evidence.Evidence
	var walk func(ev *evidence.Evidence)
	walk = func(ev *evidence.Evidence) {
		if seen[ev.ID] {
			return
		}
		seen[ev.ID] = true
		for _, p := range ev.Meta.Parents {
			if parent, ok := byID[p]; ok {
				walk(parent)
			}
		}
		out = append(out, ev)
	}
	walk(root)
	return out
}

func printEvidence(ev *evidence.Evidence) {
	w := os.Stdout
	fmt.Fprintf(w, "%s  %s = %q\n", ev.ID, ev.FieldName, ev.Value)
	fmt.Fprintf(w, "  kind: %s  confidence: %.2f  at: %s\n",
		ev.Kind, ev.Meta.Confidence, ev.Meta.Timestamp.Format("2006-01-02 15:04"))
	switch ev.Kind {
	case evidence.KindObservation:
		fmt.Fprintf(w, "  source: %s (%s)\n", ev.Meta.SourceURL, ev.Meta.ExtractionMethod)
	case evidence.KindInference:
		fmt.Fprintf(w, "  rule: %s  parents: %v\n", ev.Meta.InferenceRule, ev.Meta.Parents)
	case evidence.KindThirdParty:
		fmt.Fprintf(w, "  provider: %s (%s)\n", ev.Meta.Provider, ev.Meta.ProviderRef)
	}
	if ev.Meta.Invalidated {
		fmt.Fprintln(w, "  invalidated: confidence decayed to zero")
	}
}

func init() {
	evidenceCmd.Flags().StringVar(&evidenceRunFile, "run", "run.json", "run result file")
	rootCmd.AddCommand(evidenceCmd)
}
