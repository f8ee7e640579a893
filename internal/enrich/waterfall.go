// Package enrich fills optional entity fields (industry, size range,
// country) through a waterfall of deterministic heuristics and optional
// providers. Enrichment is strictly additive: it never creates entities,
// never touches required fields, and a miss is a reported outcome, not a
// rejection.
package enrich

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/classify"
	"github.com/sells-group/prospect-cli/internal/enrich/provider"
	"github.com/sells-group/prospect-cli/internal/evidence"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/rules"
)

// Optional fields the waterfall attempts, in order.
var optionalFields = []string{"industry", "size_range", "country"}

// Result reports what a waterfall pass added and what it could not fill.
type Result struct {
	Added  []string `json:"added"`
	Missed []string `json:"missed"`
}

// Waterfall enriches entities using heuristic rules first, then any
// registered providers.
type Waterfall struct {
	cfg       *rules.Rules
	ledger    *evidence.Ledger
	providers *provider.Registry
}

// New returns a waterfall with no providers registered.
func New(cfg *rules.Rules, ledger *evidence.Ledger) *Waterfall {
	return &Waterfall{cfg: cfg, ledger: ledger, providers: provider.NewRegistry()}
}

// Register adds an external provider to the waterfall.
func (w *Waterfall) Register(p provider.Provider) {
	w.providers.Register(p)
}

// Enrich attempts every missing optional field. It mutates only the optional
// fields it fills and never returns an error for a field it cannot fill.
func (w *Waterfall) Enrich(ctx context.Context, e *model.Entity, sig *model.Signal, now time.Time) Result {
	var res Result
	for _, field := range optionalFields {
		if w.has(e, field) {
			continue
		}
		if w.heuristic(e, sig, field) || w.fromProviders(ctx, e, field, now) {
			res.Added = append(res.Added, field)
			continue
		}
		res.Missed = append(res.Missed, field)
	}
	return res
}

func (w *Waterfall) has(e *model.Entity, field string) bool {
	switch field {
	case "industry":
		return e.Industry != nil
	case "size_range":
		return e.SizeRange != nil
	case "country":
		return e.Country != nil
	}
	return false
}

// heuristic runs the deterministic rule for one field and records the
// inference on success.
func (w *Waterfall) heuristic(e *model.Entity, sig *model.Signal, field string) bool {
	cfg := w.cfg.Enrich

	var value, rule string
	var conf float64
	var parents []string

	switch field {
	case "industry":
		value = classify.InferIndustry(sig.Text, cfg)
		rule = "keyword_industry_mapping"
		conf = cfg.IndustryConfidence
		parents = []string{sig.EvidenceID}
	case "size_range":
		value = classify.InferSizeRange(sig.Text, cfg)
		rule = "size_phrase_heuristic"
		conf = cfg.SizeConfidence
		parents = []string{sig.EvidenceID}
	case "country":
		value = classify.CountryFromTLD(e.DomainName(), cfg)
		rule = "tld_country_mapping"
		conf = cfg.CountryConfidence
		parents = []string{e.Domain.ID}
	}
	if value == "" {
		return false
	}

	ev, err := w.ledger.RecordInference(field, value, evidence.Inference{
		Parents:    parents,
		Rule:       rule,
		Timestamp:  sig.ObservedAt,
		Confidence: w.capConf(conf),
	})
	if err != nil {
		zap.L().Warn("enrichment inference not recorded",
			zap.String("field", field), zap.Error(err))
		return false
	}
	w.set(e, field, ev)
	return true
}

// fromProviders walks the registered providers for the field. Provider
// failures are logged and skipped.
func (w *Waterfall) fromProviders(ctx context.Context, e *model.Entity, field string, now time.Time) bool {
	for _, p := range w.providers.For(field) {
		res, err := p.Lookup(ctx, e.DomainName(), field)
		if err != nil {
			zap.L().Warn("enrichment provider failed",
				zap.String("provider", p.Name()),
				zap.String("field", field),
				zap.Error(err))
			continue
		}
		if res == nil || res.Value == "" {
			continue
		}

		ev, err := w.ledger.RecordThirdParty(field, res.Value, evidence.ThirdParty{
			Provider:    p.Name(),
			ProviderRef: res.Ref,
			Timestamp:   now,
			Confidence:  w.capConf(res.Confidence),
		})
		if err != nil {
			zap.L().Warn("enrichment result not recorded",
				zap.String("provider", p.Name()),
				zap.String("field", field), zap.Error(err))
			continue
		}
		w.set(e, field, ev)
		return true
	}
	return false
}

// capConf bounds every enrichment confidence below direct observation.
func (w *Waterfall) capConf(c float64) float64 {
	limit := w.cfg.Enrich.MaxConfidence
	if c <= 0 || c > limit {
		return limit
	}
	return c
}

func (w *Waterfall) set(e *model.Entity, field string, ev *evidence.Evidence) {
	switch field {
	case "industry":
		e.Industry = ev
	case "size_range":
		e.SizeRange = ev
	case "country":
		e.Country = ev
	}
}
