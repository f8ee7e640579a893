package score

import (
	"fmt"
	"math"
	"time"

	"github.com/sells-group/prospect-cli/internal/classify"
	"github.com/sells-group/prospect-cli/internal/evidence"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/rules"
)

// ComponentScore is one dimension of a lead's score. Contribution is an
// integer; the lead total is the flat sum of contributions, nothing hidden.
type ComponentScore struct {
	Name         string   `json:"name"`
	RawValue     float64  `json:"raw_value"`
	Contribution int      `json:"contribution"`
	EvidenceIDs  []string `json:"evidence_ids,omitempty"`
	Reason       string   `json:"reason"`
}

// intentStrength scores the intent category:
//
//	hiring            40
//	funding           30
//	executive_change  20
//	anything else      0
func intentStrength(e *model.Entity, cfg rules.ScoringRules) ComponentScore {
	intent := ""
	var ids []string
	if e.Intent != nil {
		intent = e.Intent.Value
		ids = []string{e.Intent.ID}
	}
	pts := cfg.IntentStrength[intent]

	return ComponentScore{
		Name:         "intent_strength",
		RawValue:     float64(pts),
		Contribution: pts,
		EvidenceIDs:  ids,
		Reason:       fmt.Sprintf("intent %q worth %d points", intent, pts),
	}
}

// freshness scores signal age against the configured bands:
//
//	<=3d 25, <=7d 20, <=14d 15, <=21d 10, <=30d 5, older 0
func freshness(sig *model.Signal, cfg rules.ScoringRules, now time.Time) ComponentScore {
	ageDays := now.Sub(sig.ObservedAt).Hours() / 24

	pts := 0
	for _, band := range cfg.Freshness {
		if ageDays <= float64(band.MaxAgeDays) {
			pts = band.Points
			break
		}
	}

	return ComponentScore{
		Name:         "freshness",
		RawValue:     ageDays,
		Contribution: pts,
		Reason:       fmt.Sprintf("signal age %.0f days worth %d points", math.Floor(ageDays), pts),
	}
}

// evidenceConfidence scores the weakest link: the minimum decayed confidence
// across the entity's still-valid evidence, scaled to the configured points.
func evidenceConfidence(e *model.Entity, ledger *evidence.Ledger, cfg rules.ScoringRules, now time.Time) ComponentScore {
	min := 1.0
	var ids []string
	for _, ev := range e.EvidenceList() {
		c, err := ledger.CurrentConfidence(ev.ID, now)
		if err != nil || c <= 0 {
			// Invalidated evidence is out of scope for scoring.
			continue
		}
		ids = append(ids, ev.ID)
		if c < min {
			min = c
		}
	}
	if len(ids) == 0 {
		min = 0
	}

	pts := int(math.Round(float64(cfg.ConfidencePoints) * min))
	return ComponentScore{
		Name:         "evidence_confidence",
		RawValue:     min,
		Contribution: pts,
		EvidenceIDs:  ids,
		Reason:       fmt.Sprintf("minimum evidence confidence %.2f worth %d points", min, pts),
	}
}

// completeness scores filled optional fields: a base for the required pair
// plus per-field weights, capped.
func completeness(e *model.Entity, cfg rules.ScoringRules) ComponentScore {
	pts := cfg.CompletenessBase
	filled := []string{"company_name", "domain"}

	optional := map[string]*evidence.Evidence{
		"industry":   e.Industry,
		"size_range": e.SizeRange,
		"country":    e.Country,
	}
	// Fixed walk order keeps the reason string stable.
	for _, field := range []string{"industry", "size_range", "country"} {
		if optional[field] != nil {
			pts += cfg.CompletenessWeights[field]
			filled = append(filled, field)
		}
	}
	if pts > cfg.CompletenessCap {
		pts = cfg.CompletenessCap
	}

	return ComponentScore{
		Name:         "completeness",
		RawValue:     float64(len(filled)),
		Contribution: pts,
		Reason:       fmt.Sprintf("%d fields filled worth %d points", len(filled), pts),
	}
}

// noisePenalty subtracts for hedge language in the signal text.
func noisePenalty(sig *model.Signal, cfg rules.ScoringRules) ComponentScore {
	n := classify.NoiseCount(sig.Text, cfg.NoiseMarkers)

	pts := 0
	switch {
	case n >= cfg.NoiseHeavyAt:
		pts = cfg.NoiseHeavyPenalty
	case n > 0:
		pts = cfg.NoiseLightPenalty
	}

	return ComponentScore{
		Name:         "noise_penalty",
		RawValue:     float64(n),
		Contribution: pts,
		Reason:       fmt.Sprintf("%d noise markers worth %d points", n, pts),
	}
}
