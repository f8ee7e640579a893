// Package gate implements the ordered hard-rejection rules. A gate either
// passes data through untouched or emits a Rejection; it never repairs,
// retries or down-weights. Rejections are outcomes, not errors.
package gate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/classify"
	"github.com/sells-group/prospect-cli/internal/evidence"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/rules"
)

// Gate evaluates signals and entities against the configured rule tables.
type Gate struct {
	cfg    *rules.Rules
	ledger *evidence.Ledger
}

// New returns a gate over the given rule tables and ledger.
func New(cfg *rules.Rules, ledger *evidence.Ledger) *Gate {
	return &Gate{cfg: cfg, ledger: ledger}
}

// Signal runs the signal-stage rules, staleness before intent. On pass it
// records the raw-text observation and returns the gated signal; on
// rejection the signal is never constructed.
func (g *Gate) Signal(in model.SignalInput, now time.Time) (*model.Signal, *model.Rejection, error) {
	originID := inputOriginID(in)

	maxAge := time.Duration(g.cfg.Gate.MaxSignalAgeDays) * 24 * time.Hour
	if age := now.Sub(in.ObservedAt); age > maxAge {
		reason := fmt.Sprintf("signal observed %d days ago, limit is %d",
			int(age.Hours()/24), g.cfg.Gate.MaxSignalAgeDays)
		return nil, reject(model.RuleStale, reason, originID, in.Text, now), nil
	}

	intent := classify.DetectIntent(in.Text, g.cfg.Gate)
	if intent == "" {
		return nil, reject(model.RuleNoIntent, "no intent keyword detected", originID, in.Text, now), nil
	}

	sig, err := model.NewSignal(in, intent, g.ledger)
	if err != nil {
		return nil, nil, err
	}
	return sig, nil, nil
}

// Entity runs the entity-stage rules in order: industry filter, size filter,
// confidence floor, evidence completeness. The first firing rule wins.
func (g *Gate) Entity(e *model.Entity, sig *model.Signal, now time.Time) *model.Rejection {
	if rej := g.industryFilter(e, sig, now); rej != nil {
		return rej
	}
	if rej := g.sizeFilter(e, sig, now); rej != nil {
		return rej
	}
	if rej := g.confidenceFloor(e, sig, now); rej != nil {
		return rej
	}
	return g.requireEvidence(e, sig, now)
}

// industryFilter rejects entities whose detected industry is outside the
// configured target list. Disabled when no targets are configured; entities
// with no detectable industry pass.
func (g *Gate) industryFilter(e *model.Entity, sig *model.Signal, now time.Time) *model.Rejection {
	targets := g.cfg.Gate.TargetIndustries
	if len(targets) == 0 {
		return nil
	}

	industry := classify.InferIndustry(sig.Text, g.cfg.Enrich)
	if industry == "" {
		return nil
	}
	for _, t := range targets {
		if industry == t {
			return nil
		}
	}
	reason := fmt.Sprintf("industry %q outside target list", industry)
	return reject(model.RuleIndustryFiltered, reason, sig.ID, sig.Text, now)
}

// sizeFilter mirrors industryFilter for company size ranges.
func (g *Gate) sizeFilter(e *model.Entity, sig *model.Signal, now time.Time) *model.Rejection {
	allowed := g.cfg.Gate.AllowedSizeRanges
	if len(allowed) == 0 {
		return nil
	}

	size := classify.InferSizeRange(sig.Text, g.cfg.Enrich)
	if size == "" {
		return nil
	}
	for _, a := range allowed {
		if size == a {
			return nil
		}
	}
	reason := fmt.Sprintf("size range %q outside allowed set", size)
	return reject(model.RuleSizeFiltered, reason, sig.ID, sig.Text, now)
}

// confidenceFloor rejects entities whose required-field evidence confidence,
// after decay, falls below the configured minimum.
func (g *Gate) confidenceFloor(e *model.Entity, sig *model.Signal, now time.Time) *model.Rejection {
	min := g.cfg.Gate.MinClassificationConfidence
	for _, ev := range []*evidence.Evidence{e.CompanyName, e.Domain} {
		c, err := g.ledger.CurrentConfidence(ev.ID, now)
		if err != nil {
			// Missing ledger backing is the completeness rule's job.
			continue
		}
		if c < min {
			reason := fmt.Sprintf("%s confidence %.2f below minimum %.2f", ev.FieldName, c, min)
			return reject(model.RuleLowConfidence, reason, sig.ID, sig.Text, now)
		}
	}
	return nil
}

// requireEvidence rejects entities carrying a required field with no valid
// ledger record behind it. This should be unreachable; reaching it means an
// upstream component stored a bare value, so it is logged loudly.
func (g *Gate) requireEvidence(e *model.Entity, sig *model.Signal, now time.Time) *model.Rejection {
	for _, ev := range []*evidence.Evidence{e.CompanyName, e.Domain} {
		if ev == nil || ev.ID == "" || g.ledger.Get(ev.ID) == nil {
			field := "company_name"
			if ev == e.Domain {
				field = "domain"
			}
			zap.L().Error("required field without ledger evidence",
				zap.String("field", field),
				zap.String("signal_id", sig.ID))
			reason := fmt.Sprintf("required field %s has no ledger evidence", field)
			return reject(model.RuleMissingEvidence, reason, sig.ID, sig.Text, now)
		}
	}
	return nil
}

func reject(rule model.Rule, reason, originID, text string, now time.Time) *model.Rejection {
	rej := model.NewRejection(rule, reason, originID, text, now)
	zap.L().Info("hard rejection",
		zap.String("rule", rej.RuleName),
		zap.String("origin", originID),
		zap.String("reason", reason))
	return rej
}

// inputOriginID derives a stable origin identifier for inputs rejected
// before a Signal exists.
func inputOriginID(in model.SignalInput) string {
	h := sha256.Sum256([]byte(in.SourceURL + "|" + in.Text))
	return "input_" + hex.EncodeToString(h[:])[:12]
}
