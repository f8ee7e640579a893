// Package evidence implements the provenance data contract: every derived
// value in the system is wrapped in an Evidence record and stored in an
// append-only Ledger. No write path stores a bare value.
package evidence

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Kind identifies how a piece of evidence was obtained.
type Kind string

const (
	// KindObservation is text taken from a specific, verifiable URL.
	KindObservation Kind = "observation"
	// KindInference is a value derived from existing evidence via a named rule.
	KindInference Kind = "inference"
	// KindThirdParty is a value returned by an external provider.
	KindThirdParty Kind = "third_party"
)

// Meta carries the kind-specific lineage of an Evidence record.
type Meta struct {
	Timestamp  time.Time `json:"timestamp"`
	Confidence float64   `json:"confidence"`

	// Observation lineage.
	SourceURL        string `json:"source_url,omitempty"`
	ExtractionMethod string `json:"extraction_method,omitempty"`

	// Inference lineage. Parents reference evidence IDs that already exist
	// in the ledger; the graph is acyclic by construction.
	Parents       []string `json:"parents,omitempty"`
	InferenceRule string   `json:"inference_rule,omitempty"`

	// Third-party lineage.
	Provider    string `json:"provider,omitempty"`
	ProviderRef string `json:"provider_ref,omitempty"`

	// Invalidated is set once decayed confidence reaches zero. Invalidated
	// evidence is excluded from scoring but kept for audit.
	Invalidated bool `json:"invalidated,omitempty"`
}

// Evidence is the atomic unit of trust. Records are immutable after creation
// except for the Invalidated flag.
type Evidence struct {
	ID        string `json:"id"`
	FieldName string `json:"field_name"`
	Value     string `json:"value"`
	Kind      Kind   `json:"kind"`
	Meta      Meta   `json:"meta"`
}

// validate enforces the construction invariants for each kind.
func (e *Evidence) validate() error {
	if e.FieldName == "" {
		return eris.New("evidence: field name is required")
	}
	if e.Value == "" {
		return eris.Errorf("evidence: %s has no value", e.FieldName)
	}
	if e.Meta.Timestamp.IsZero() {
		return eris.Errorf("evidence: %s has no timestamp", e.FieldName)
	}
	if e.Meta.Confidence < 0 || e.Meta.Confidence > 1 {
		return eris.Errorf("evidence: %s confidence %.3f outside [0,1]", e.FieldName, e.Meta.Confidence)
	}

	switch e.Kind {
	case KindObservation:
		if e.Meta.SourceURL == "" {
			return eris.Errorf("evidence: observation %s requires a source URL", e.FieldName)
		}
		if e.Meta.ExtractionMethod == "" {
			return eris.Errorf("evidence: observation %s requires an extraction method", e.FieldName)
		}
	case KindInference:
		if len(e.Meta.Parents) == 0 {
			return eris.Errorf("evidence: inference %s requires parent evidence", e.FieldName)
		}
		if e.Meta.InferenceRule == "" {
			return eris.Errorf("evidence: inference %s requires a rule name", e.FieldName)
		}
	case KindThirdParty:
		if e.Meta.Provider == "" {
			return eris.Errorf("evidence: third-party %s requires a provider name", e.FieldName)
		}
		if e.Meta.ProviderRef == "" {
			return eris.Errorf("evidence: third-party %s requires a provider reference", e.FieldName)
		}
	default:
		return eris.Errorf("evidence: unknown kind %q", e.Kind)
	}

	return nil
}

// newID derives a stable evidence ID from the record's content so repeated
// pipeline runs on identical input produce identical output.
func newID(e *Evidence) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%s|%s|%s|%s",
		e.FieldName, e.Value, e.Kind,
		e.Meta.SourceURL, e.Meta.InferenceRule, e.Meta.Provider,
		strings.Join(e.Meta.Parents, ","),
		e.Meta.Timestamp.UTC().Format(time.RFC3339),
	)
	return "evt_" + hex.EncodeToString(h.Sum(nil))[:12]
}
