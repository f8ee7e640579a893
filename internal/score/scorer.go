// Package score ranks accepted entities. Scores are flat integer sums over
// named components, so every point in a total is attributable to one reason
// line; scoring never rejects and never mutates the entity.
package score

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sells-group/prospect-cli/internal/evidence"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/rules"
)

// Tier buckets leads by total score.
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"
)

// RankedLead is a scored entity plus everything needed to explain and order
// it.
type RankedLead struct {
	Entity     *model.Entity    `json:"entity"`
	Signal     *model.Signal    `json:"signal"`
	Components []ComponentScore `json:"components"`
	Total      int              `json:"total"`
	Tier       Tier             `json:"tier"`

	// Tie-break keys, precomputed at scoring time.
	SignalTimestamp time.Time `json:"signal_timestamp"`
	MinConfidence   float64   `json:"min_confidence"`
}

// Scorer computes ranked leads from accepted entities.
type Scorer struct {
	cfg    *rules.Rules
	ledger *evidence.Ledger
}

// New returns a scorer over the given rule tables and ledger.
func New(cfg *rules.Rules, ledger *evidence.Ledger) *Scorer {
	return &Scorer{cfg: cfg, ledger: ledger}
}

// Score computes the component breakdown and tier for one entity.
func (s *Scorer) Score(e *model.Entity, sig *model.Signal, now time.Time) *RankedLead {
	cfg := s.cfg.Scoring

	components := []ComponentScore{
		intentStrength(e, cfg),
		freshness(sig, cfg, now),
		evidenceConfidence(e, s.ledger, cfg, now),
		completeness(e, cfg),
		noisePenalty(sig, cfg),
	}

	total := 0
	for _, c := range components {
		total += c.Contribution
	}

	var minConf float64
	for _, c := range components {
		if c.Name == "evidence_confidence" {
			minConf = c.RawValue
		}
	}

	return &RankedLead{
		Entity:          e,
		Signal:          sig,
		Components:      components,
		Total:           total,
		Tier:            s.tier(total),
		SignalTimestamp: sig.ObservedAt,
		MinConfidence:   minConf,
	}
}

func (s *Scorer) tier(total int) Tier {
	cfg := s.cfg.Scoring
	switch {
	case total >= cfg.TierA:
		return TierA
	case total >= cfg.TierB:
		return TierB
	case total >= cfg.TierC:
		return TierC
	default:
		return TierD
	}
}

// SortLeads orders leads for output: newest signal first, then highest
// minimum confidence, then company name ascending. Sorting never changes a
// score or tier.
func SortLeads(leads []*RankedLead) {
	sort.SliceStable(leads, func(i, j int) bool {
		a, b := leads[i], leads[j]
		if !a.SignalTimestamp.Equal(b.SignalTimestamp) {
			return a.SignalTimestamp.After(b.SignalTimestamp)
		}
		if a.MinConfidence != b.MinConfidence {
			return a.MinConfidence > b.MinConfidence
		}
		return a.Entity.Name() < b.Entity.Name()
	})
}

// Explanation renders the human-readable breakdown by walking the component
// list and quoting each reason verbatim. The printed contributions always
// sum to the printed total.
func (l *RankedLead) Explanation() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) tier %s, %d points\n",
		l.Entity.Name(), l.Entity.DomainName(), l.Tier, l.Total)
	for _, c := range l.Components {
		fmt.Fprintf(&b, "  %+d  %s: %s\n", c.Contribution, c.Name, c.Reason)
	}
	return b.String()
}
