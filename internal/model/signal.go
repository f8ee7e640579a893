// Package model holds the value types flowing through the pipeline: raw
// signal inputs, gated signals, resolved entities and rejections.
package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/evidence"
)

// IntentType classifies what a signal suggests the company is doing.
type IntentType string

const (
	IntentHiring          IntentType = "hiring"
	IntentFunding         IntentType = "funding"
	IntentExecutiveChange IntentType = "executive_change"
)

// SignalInput is a raw observation before any gating: free text seen at a
// URL at a point in time.
type SignalInput struct {
	Text       string    `json:"text"`
	SourceURL  string    `json:"source_url"`
	ObservedAt time.Time `json:"observed_at"`
}

// Signal is an input that passed the signal gate. Its raw text is backed by
// an observation record in the ledger; Intent is what the gate detected.
type Signal struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	SourceURL  string    `json:"source_url"`
	ObservedAt time.Time `json:"observed_at"`

	Intent     IntentType `json:"intent"`
	EvidenceID string     `json:"evidence_id"`
}

// NewSignal records the raw text as observation evidence and returns the
// gated signal. The signal ID is content-derived so reruns are stable.
func NewSignal(in SignalInput, intent IntentType, ledger *evidence.Ledger) (*Signal, error) {
	ev, err := ledger.RecordObservation("raw_signal", in.Text, evidence.Observation{
		SourceURL:        in.SourceURL,
		ExtractionMethod: "rss_item_text",
		Timestamp:        in.ObservedAt,
	})
	if err != nil {
		return nil, eris.Wrap(err, "model: record signal observation")
	}

	return &Signal{
		ID:         contentID("sig", in.SourceURL, in.Text),
		Text:       in.Text,
		SourceURL:  in.SourceURL,
		ObservedAt: in.ObservedAt,
		Intent:     intent,
		EvidenceID: ev.ID,
	}, nil
}

// contentID derives a short stable identifier from the given parts.
func contentID(prefix string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%s|", p)
	}
	return prefix + "_" + hex.EncodeToString(h.Sum(nil))[:12]
}
