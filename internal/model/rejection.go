package model

import "time"

// Rule identifies a hard-rejection rule. Rules are evaluated in a fixed
// documented order and the first match wins; there is no scoring of partial
// failures.
type Rule string

const (
	// Signal stage.
	RuleNoIntent Rule = "R1" // no recognized intent keyword
	RuleStale    Rule = "R2" // observed more than the max age ago

	// Resolution stage.
	RuleUnresolvable  Rule = "R3" // name or domain missing or ambiguous
	RuleInvalidDomain Rule = "R4" // blacklisted or malformed domain

	// Entity stage.
	RuleIndustryFiltered Rule = "R5" // industry outside the target list
	RuleSizeFiltered     Rule = "R6" // size range outside the allowed set
	RuleLowConfidence    Rule = "R7" // required-field confidence below minimum
	RuleMissingEvidence  Rule = "R8" // required field without ledger backing
)

// Slug returns the human-readable name used in logs and output.
func (r Rule) Slug() string {
	switch r {
	case RuleNoIntent:
		return "no_intent_keyword"
	case RuleStale:
		return "stale_signal"
	case RuleUnresolvable:
		return "unresolvable_entity"
	case RuleInvalidDomain:
		return "invalid_domain"
	case RuleIndustryFiltered:
		return "industry_filtered"
	case RuleSizeFiltered:
		return "size_filtered"
	case RuleLowConfidence:
		return "low_classification_confidence"
	case RuleMissingEvidence:
		return "missing_required_evidence"
	default:
		return string(r)
	}
}

// Rejection is the first-class outcome of a gate firing: not an error, a
// recorded decision. Rejected data is never retried, rescued or re-scored.
type Rejection struct {
	ID       string    `json:"id"`
	Rule     Rule      `json:"rule"`
	RuleName string    `json:"rule_name"`
	Reason   string    `json:"reason"`
	OriginID string    `json:"origin_id"`
	Snippet  string    `json:"snippet"`
	At       time.Time `json:"at"`
}

const maxSnippetLen = 500

// NewRejection builds a rejection for the given origin (signal or input).
// The snippet keeps at most the first 500 characters of the offending text.
func NewRejection(rule Rule, reason, originID, text string, at time.Time) *Rejection {
	snippet := text
	if len(snippet) > maxSnippetLen {
		snippet = snippet[:maxSnippetLen]
	}
	return &Rejection{
		ID:       contentID("rej", string(rule), reason, originID),
		Rule:     rule,
		RuleName: rule.Slug(),
		Reason:   reason,
		OriginID: originID,
		Snippet:  snippet,
		At:       at,
	}
}
