// Package resolve turns a gated signal into an Entity with evidence-backed
// company name and domain, or a rejection when identity cannot be pinned
// down. Ambiguity is rejected, never guessed through.
package resolve

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/evidence"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/rules"
)

// Extraction rule names recorded in inference lineage.
const (
	RuleTextMention = "extracted_from_text_mention"
	RuleTextDomain  = "extracted_from_text_domain"
	RuleSourceHost  = "extracted_from_source_host"
	RuleURLSlug     = "extracted_from_url_slug"
	RuleIntentMatch = "intent_keyword_match"
)

// Resolver extracts entity identity from signals.
type Resolver struct {
	cfg    *rules.Rules
	ledger *evidence.Ledger
}

// New returns a resolver over the given rule tables and ledger.
func New(cfg *rules.Rules, ledger *evidence.Ledger) *Resolver {
	return &Resolver{cfg: cfg, ledger: ledger}
}

// candidate is one extracted value with its lineage.
type candidate struct {
	value      string
	rule       string
	confidence float64
}

// Resolve extracts the company name and registrable domain from the signal.
// Exactly one candidate of each must survive; zero or several reject the
// signal as unresolvable, and an invalid winning domain rejects it too.
func (r *Resolver) Resolve(sig *model.Signal, now time.Time) (*model.Entity, *model.Rejection, error) {
	res := r.cfg.Resolver

	name, rej := r.pickName(sig, now)
	if rej != nil {
		return nil, rej, nil
	}

	domain, rej := r.pickDomain(sig, now)
	if rej != nil {
		return nil, rej, nil
	}

	if reason := validateDomain(domain.value, res); reason != "" {
		return nil, r.reject(model.RuleInvalidDomain, reason, sig, now), nil
	}

	nameEv, err := r.ledger.RecordInference("company_name", name.value, evidence.Inference{
		Parents:    []string{sig.EvidenceID},
		Rule:       name.rule,
		Timestamp:  sig.ObservedAt,
		Confidence: name.confidence,
	})
	if err != nil {
		return nil, nil, err
	}
	domainEv, err := r.ledger.RecordInference("domain", domain.value, evidence.Inference{
		Parents:    []string{sig.EvidenceID},
		Rule:       domain.rule,
		Timestamp:  sig.ObservedAt,
		Confidence: domain.confidence,
	})
	if err != nil {
		return nil, nil, err
	}

	entity, err := model.NewEntity(nameEv, domainEv)
	if err != nil {
		return nil, nil, err
	}

	// The detected intent becomes evidence too, on the intent decay schedule.
	intentEv, err := r.ledger.RecordInference("intent_signal", string(sig.Intent), evidence.Inference{
		Parents:   []string{sig.EvidenceID},
		Rule:      RuleIntentMatch,
		Timestamp: sig.ObservedAt,
	})
	if err != nil {
		return nil, nil, err
	}
	entity.Intent = intentEv

	zap.L().Debug("entity resolved",
		zap.String("signal_id", sig.ID),
		zap.String("company", entity.Name()),
		zap.String("domain", entity.DomainName()))
	return entity, nil, nil
}

// pickName collects name candidates from the text patterns and, for slug
// hosts, the source URL. Exactly one distinct candidate must remain.
func (r *Resolver) pickName(sig *model.Signal, now time.Time) (candidate, *model.Rejection) {
	res := r.cfg.Resolver

	var cands []candidate
	for _, n := range nameCandidates(sig.Text) {
		cands = append(cands, candidate{n, RuleTextMention, res.NameConfidence})
	}
	if slug := urlSlug(sig.SourceURL, res); slug != "" {
		cands = append(cands, candidate{slugName(slug), RuleURLSlug, res.SlugDomainConfidence})
	}

	distinct := dedupe(cands)
	switch len(distinct) {
	case 0:
		return candidate{}, r.reject(model.RuleUnresolvable, "no company name candidates", sig, now)
	case 1:
		return distinct[0], nil
	default:
		reason := fmt.Sprintf("multiple company name candidates: %s", joinValues(distinct))
		return candidate{}, r.reject(model.RuleUnresolvable, reason, sig, now)
	}
}

// pickDomain tries extraction stages in fixed order: explicit domains in the
// text, then the signal's source host, then a slug-derived guess. The first
// stage producing candidates wins; blacklisted values never become
// candidates in the fallback stages.
func (r *Resolver) pickDomain(sig *model.Signal, now time.Time) (candidate, *model.Rejection) {
	res := r.cfg.Resolver

	var cands []candidate
	for _, d := range textDomains(sig.Text) {
		if res.Blacklisted(d) {
			continue
		}
		cands = append(cands, candidate{d, RuleTextDomain, res.TextDomainConfidence})
	}

	if len(cands) == 0 {
		if host := sourceHost(sig.SourceURL); host != "" && !res.Blacklisted(host) {
			cands = append(cands, candidate{host, RuleSourceHost, res.SourceHostConfidence})
		}
	}

	if len(cands) == 0 {
		if slug := urlSlug(sig.SourceURL, res); slug != "" {
			cands = append(cands, candidate{slug + ".com", RuleURLSlug, res.SlugDomainConfidence})
		}
	}

	distinct := dedupe(cands)
	switch len(distinct) {
	case 0:
		return candidate{}, r.reject(model.RuleUnresolvable, "no domain candidates", sig, now)
	case 1:
		return distinct[0], nil
	default:
		reason := fmt.Sprintf("multiple domain candidates: %s", joinValues(distinct))
		return candidate{}, r.reject(model.RuleUnresolvable, reason, sig, now)
	}
}

func (r *Resolver) reject(rule model.Rule, reason string, sig *model.Signal, now time.Time) *model.Rejection {
	rej := model.NewRejection(rule, reason, sig.ID, sig.Text, now)
	zap.L().Info("hard rejection",
		zap.String("rule", rej.RuleName),
		zap.String("origin", sig.ID),
		zap.String("reason", reason))
	return rej
}

func dedupe(cands []candidate) []candidate {
	seen := map[string]bool{}
	var out []candidate
	for _, c := range cands {
		key := reWhitespace.ReplaceAllString(strings.ToLower(c.value), " ")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

func joinValues(cands []candidate) string {
	vals := make([]string, len(cands))
	for i, c := range cands {
		vals[i] = c.value
	}
	return strings.Join(vals, ", ")
}
