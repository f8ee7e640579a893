package main

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/pipeline"
	"github.com/sells-group/prospect-cli/internal/score"
)

// leadID is the short stable handle shown to users, derived from the domain.
func leadID(l *score.RankedLead) string {
	h := sha256.Sum256([]byte(l.Entity.DomainName()))
	return hex.EncodeToString(h[:])[:8]
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "cmd: encode json")
	}
	return nil
}

func writeLeadsTable(w io.Writer, leads []*score.RankedLead) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOMPANY\tDOMAIN\tTIER\tSCORE\tINTENT\tOBSERVED")
	for _, l := range leads {
		intent := ""
		if l.Entity.Intent != nil {
			intent = l.Entity.Intent.Value
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			leadID(l), l.Entity.Name(), l.Entity.DomainName(),
			l.Tier, l.Total, intent,
			l.SignalTimestamp.Format(time.DateOnly))
	}
	tw.Flush()
}

func writeLeadsCSV(w io.Writer, leads []*score.RankedLead) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "company", "domain", "tier", "score", "intent", "observed_at", "min_confidence"}); err != nil {
		return eris.Wrap(err, "cmd: write csv header")
	}
	for _, l := range leads {
		intent := ""
		if l.Entity.Intent != nil {
			intent = l.Entity.Intent.Value
		}
		row := []string{
			leadID(l), l.Entity.Name(), l.Entity.DomainName(),
			string(l.Tier), strconv.Itoa(l.Total), intent,
			l.SignalTimestamp.Format(time.RFC3339),
			strconv.FormatFloat(l.MinConfidence, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "cmd: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "cmd: flush csv")
}

func writeRejectionsTable(w io.Writer, res *pipeline.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tNAME\tORIGIN\tREASON")
	for _, r := range res.Rejections {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Rule, r.RuleName, r.OriginID, r.Reason)
	}
	tw.Flush()
}

// loadRun reads a saved pipeline result.
func loadRun(path string) (*pipeline.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "cmd: read run file %s", path)
	}
	var res pipeline.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, eris.Wrapf(err, "cmd: parse run file %s", path)
	}
	return &res, nil
}
