package evidence

import (
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/rules"
)

// Ledger is the append-only store of evidence records. Inference parents must
// already exist at record time, so the reference graph is a DAG by
// construction. Safe for concurrent use.
type Ledger struct {
	mu      sync.Mutex
	records map[string]*Evidence
	order   []string
	cfg     rules.EvidenceRules
}

// NewLedger returns an empty ledger governed by the given evidence rules
// (base confidences per kind, per-field decay schedules).
func NewLedger(cfg rules.EvidenceRules) *Ledger {
	return &Ledger{
		records: make(map[string]*Evidence),
		cfg:     cfg,
	}
}

// Observation lineage for RecordObservation.
type Observation struct {
	SourceURL        string
	ExtractionMethod string
	Timestamp        time.Time

	// Confidence overrides the kind default when > 0.
	Confidence float64
}

// RecordObservation appends an observation record.
func (l *Ledger) RecordObservation(field, value string, obs Observation) (*Evidence, error) {
	e := &Evidence{
		FieldName: field,
		Value:     value,
		Kind:      KindObservation,
		Meta: Meta{
			Timestamp:        obs.Timestamp,
			Confidence:       l.baseConfidence(KindObservation, obs.Confidence),
			SourceURL:        obs.SourceURL,
			ExtractionMethod: obs.ExtractionMethod,
		},
	}
	return l.append(e)
}

// Inference lineage for RecordInference.
type Inference struct {
	Parents   []string
	Rule      string
	Timestamp time.Time

	Confidence float64
}

// RecordInference appends an inference record. Every parent ID must already
// exist in the ledger.
func (l *Ledger) RecordInference(field, value string, inf Inference) (*Evidence, error) {
	e := &Evidence{
		FieldName: field,
		Value:     value,
		Kind:      KindInference,
		Meta: Meta{
			Timestamp:     inf.Timestamp,
			Confidence:    l.baseConfidence(KindInference, inf.Confidence),
			Parents:       inf.Parents,
			InferenceRule: inf.Rule,
		},
	}
	return l.append(e)
}

// ThirdParty lineage for RecordThirdParty.
type ThirdParty struct {
	Provider    string
	ProviderRef string
	Timestamp   time.Time

	Confidence float64
}

// RecordThirdParty appends a third-party record.
func (l *Ledger) RecordThirdParty(field, value string, tp ThirdParty) (*Evidence, error) {
	e := &Evidence{
		FieldName: field,
		Value:     value,
		Kind:      KindThirdParty,
		Meta: Meta{
			Timestamp:   tp.Timestamp,
			Confidence:  l.baseConfidence(KindThirdParty, tp.Confidence),
			Provider:    tp.Provider,
			ProviderRef: tp.ProviderRef,
		},
	}
	return l.append(e)
}

func (l *Ledger) baseConfidence(kind Kind, override float64) float64 {
	if override > 0 {
		return override
	}
	if c, ok := l.cfg.BaseConfidence[string(kind)]; ok {
		return c
	}
	return 0.5
}

func (l *Ledger) append(e *Evidence) (*Evidence, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if e.Kind == KindInference {
		for _, p := range e.Meta.Parents {
			if _, ok := l.records[p]; !ok {
				return nil, eris.Errorf("ledger: inference %s references unknown parent %s", e.FieldName, p)
			}
		}
	}

	e.ID = newID(e)
	if existing, ok := l.records[e.ID]; ok {
		// Same content, same ID. Idempotent.
		return existing, nil
	}

	l.records[e.ID] = e
	l.order = append(l.order, e.ID)
	return e, nil
}

// Get returns the record with the given ID, or nil.
func (l *Ledger) Get(id string) *Evidence {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.records[id]
}

// Len reports the number of records, invalidated ones included.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// CurrentConfidence returns the decayed confidence of a record at the given
// time. A record that has decayed to zero is flagged invalidated; it stays in
// the ledger for audit but is excluded from Current views and scoring.
func (l *Ledger) CurrentConfidence(id string, now time.Time) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.records[id]
	if !ok {
		return 0, eris.Errorf("ledger: no evidence %s", id)
	}

	c := decayedConfidence(e, l.cfg.Decay, now)
	if c <= 0 && !e.Meta.Invalidated {
		e.Meta.Invalidated = true
		zap.L().Debug("evidence invalidated by decay",
			zap.String("evidence_id", e.ID),
			zap.String("field", e.FieldName))
	}
	return c, nil
}

// Current returns all records still valid at the given time, in insertion
// order, refreshing invalidation flags along the way.
func (l *Ledger) Current(now time.Time) []*Evidence {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []*Evidence
	for _, id := range l.order {
		e := l.records[id]
		if decayedConfidence(e, l.cfg.Decay, now) <= 0 {
			e.Meta.Invalidated = true
			continue
		}
		out = append(out, e)
	}
	return out
}

// All returns every record in insertion order, invalidated ones included.
func (l *Ledger) All() []*Evidence {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*Evidence, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.records[id])
	}
	return out
}

// Lineage returns the record plus its full ancestor chain, oldest first.
// Parents are recorded before children, so a simple visited walk terminates.
func (l *Ledger) Lineage(id string) ([]*Evidence, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	root, ok := l.records[id]
	if !ok {
		return nil, eris.Errorf("ledger: no evidence %s", id)
	}

	seen := map[string]bool{}
	var chain []*Evidence
	var walk func(e *Evidence)
	walk = func(e *Evidence) {
		if seen[e.ID] {
			return
		}
		seen[e.ID] = true
		for _, p := range e.Meta.Parents {
			if parent, ok := l.records[p]; ok {
				walk(parent)
			}
		}
		chain = append(chain, e)
	}
	walk(root)

	sort.SliceStable(chain, func(i, j int) bool {
		return chain[i].Meta.Timestamp.Before(chain[j].Meta.Timestamp)
	})
	return chain, nil
}
