package evidence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/rules"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestLedger() *Ledger {
	return NewLedger(rules.Defaults().Evidence)
}

func TestRecordObservation(t *testing.T) {
	l := newTestLedger()

	ev, err := l.RecordObservation("raw_signal", "Acme Corp is hiring", Observation{
		SourceURL:        "https://news.example.com/item/1",
		ExtractionMethod: "rss_item_text",
		Timestamp:        testTime,
	})
	require.NoError(t, err)

	assert.Equal(t, KindObservation, ev.Kind)
	assert.Equal(t, 0.95, ev.Meta.Confidence)
	assert.True(t, len(ev.ID) > 4 && ev.ID[:4] == "evt_")
	assert.Equal(t, ev, l.Get(ev.ID))
}

func TestRecordObservationRequiresLineage(t *testing.T) {
	l := newTestLedger()

	_, err := l.RecordObservation("raw_signal", "text", Observation{
		ExtractionMethod: "rss_item_text",
		Timestamp:        testTime,
	})
	assert.Error(t, err, "missing source URL")

	_, err = l.RecordObservation("raw_signal", "text", Observation{
		SourceURL: "https://example.com",
		Timestamp: testTime,
	})
	assert.Error(t, err, "missing extraction method")
}

func TestRecordInferenceParentMustExist(t *testing.T) {
	l := newTestLedger()

	_, err := l.RecordInference("company_name", "Acme Corp", Inference{
		Parents:   []string{"evt_missing000"},
		Rule:      "extracted_from_text_mention",
		Timestamp: testTime,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parent")
}

func TestRecordInferenceLineage(t *testing.T) {
	l := newTestLedger()

	obs, err := l.RecordObservation("raw_signal", "Acme Corp is hiring", Observation{
		SourceURL:        "https://news.example.com/item/1",
		ExtractionMethod: "rss_item_text",
		Timestamp:        testTime,
	})
	require.NoError(t, err)

	inf, err := l.RecordInference("company_name", "Acme Corp", Inference{
		Parents:    []string{obs.ID},
		Rule:       "extracted_from_text_mention",
		Timestamp:  testTime,
		Confidence: 0.75,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.75, inf.Meta.Confidence)

	chain, err := l.Lineage(inf.ID)
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, obs.ID, chain[0].ID)
	assert.Equal(t, inf.ID, chain[1].ID)
}

func TestRecordThirdParty(t *testing.T) {
	l := newTestLedger()

	ev, err := l.RecordThirdParty("industry", "technology", ThirdParty{
		Provider:    "demo-provider",
		ProviderRef: "lookup/acme.com",
		Timestamp:   testTime,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.85, ev.Meta.Confidence)

	_, err = l.RecordThirdParty("industry", "technology", ThirdParty{
		ProviderRef: "lookup/acme.com",
		Timestamp:   testTime,
	})
	assert.Error(t, err, "missing provider name")
}

func TestConfidenceBounds(t *testing.T) {
	l := newTestLedger()

	_, err := l.RecordObservation("raw_signal", "text", Observation{
		SourceURL:        "https://example.com",
		ExtractionMethod: "rss_item_text",
		Timestamp:        testTime,
		Confidence:       1.2,
	})
	assert.Error(t, err, "confidence above 1 rejected")
}

func TestDeterministicIDs(t *testing.T) {
	obs := Observation{
		SourceURL:        "https://news.example.com/item/1",
		ExtractionMethod: "rss_item_text",
		Timestamp:        testTime,
	}

	a, err := newTestLedger().RecordObservation("raw_signal", "Acme Corp is hiring", obs)
	require.NoError(t, err)
	b, err := newTestLedger().RecordObservation("raw_signal", "Acme Corp is hiring", obs)
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID, "identical content yields identical IDs across ledgers")
}

func TestDecaySchedules(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		base     float64
		ageDays  int
		expected float64
	}{
		{"identity never decays", "company_name", 0.75, 365, 0.75},
		{"intent fresh", "intent_signal", 0.70, 3, 0.70},
		{"intent one step", "intent_signal", 0.70, 7, 0.45},
		{"intent two steps", "intent_signal", 0.70, 14, 0.20},
		{"intent floored at zero", "intent_signal", 0.70, 25, 0.0},
		{"contact one step", "contact_email", 0.85, 30, 0.75},
		{"future timestamp unchanged", "intent_signal", 0.70, -5, 0.70},
	}

	sched := rules.Defaults().Evidence.Decay
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Evidence{
				FieldName: tt.field,
				Meta:      Meta{Timestamp: testTime, Confidence: tt.base},
			}
			now := testTime.AddDate(0, 0, tt.ageDays)
			assert.InDelta(t, tt.expected, decayedConfidence(e, sched, now), 1e-9)
		})
	}
}

func TestInvalidationExcludesFromCurrent(t *testing.T) {
	l := newTestLedger()

	obs, err := l.RecordObservation("raw_signal", "Acme Corp is hiring", Observation{
		SourceURL:        "https://news.example.com/item/1",
		ExtractionMethod: "rss_item_text",
		Timestamp:        testTime,
	})
	require.NoError(t, err)

	intent, err := l.RecordInference("intent_signal", "hiring", Inference{
		Parents:   []string{obs.ID},
		Rule:      "intent_keyword_match",
		Timestamp: testTime,
	})
	require.NoError(t, err)

	later := testTime.AddDate(0, 0, 25)
	c, err := l.CurrentConfidence(intent.ID, later)
	require.NoError(t, err)
	assert.Equal(t, 0.0, c)
	assert.True(t, l.Get(intent.ID).Meta.Invalidated)

	current := l.Current(later)
	for _, e := range current {
		assert.NotEqual(t, intent.ID, e.ID, "invalidated evidence excluded from current view")
	}

	// Still in the ledger for audit.
	assert.NotNil(t, l.Get(intent.ID))
	assert.Equal(t, 2, l.Len())
}
