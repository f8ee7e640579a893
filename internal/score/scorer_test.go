package score

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/evidence"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/rules"
)

var observedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	cfg    *rules.Rules
	ledger *evidence.Ledger
	scorer *Scorer
}

func newFixture() *fixture {
	cfg := rules.Defaults()
	ledger := evidence.NewLedger(cfg.Evidence)
	return &fixture{cfg: cfg, ledger: ledger, scorer: New(cfg, ledger)}
}

// lead builds a fully resolved hiring lead with industry enrichment, the
// shape of the CloudCo fixture used across the scoring tests.
func (f *fixture) lead(t *testing.T, name, domain, text string, withIndustry bool) (*model.Entity, *model.Signal) {
	t.Helper()

	sig, err := model.NewSignal(model.SignalInput{
		Text:       text,
		SourceURL:  "https://news.example.com/" + domain,
		ObservedAt: observedAt,
	}, model.IntentHiring, f.ledger)
	require.NoError(t, err)

	nameEv, err := f.ledger.RecordInference("company_name", name, evidence.Inference{
		Parents: []string{sig.EvidenceID}, Rule: "extracted_from_text_mention",
		Timestamp: observedAt, Confidence: 0.75,
	})
	require.NoError(t, err)
	domEv, err := f.ledger.RecordInference("domain", domain, evidence.Inference{
		Parents: []string{sig.EvidenceID}, Rule: "extracted_from_text_domain",
		Timestamp: observedAt, Confidence: 0.85,
	})
	require.NoError(t, err)

	e, err := model.NewEntity(nameEv, domEv)
	require.NoError(t, err)

	e.Intent, err = f.ledger.RecordInference("intent_signal", "hiring", evidence.Inference{
		Parents: []string{sig.EvidenceID}, Rule: "intent_keyword_match",
		Timestamp: observedAt,
	})
	require.NoError(t, err)

	if withIndustry {
		e.Industry, err = f.ledger.RecordInference("industry", "technology", evidence.Inference{
			Parents: []string{sig.EvidenceID}, Rule: "keyword_industry_mapping",
			Timestamp: observedAt,
		})
		require.NoError(t, err)
	}
	return e, sig
}

func TestScoreFreshLead(t *testing.T) {
	f := newFixture()
	e, sig := f.lead(t, "CloudCo", "cloudco.com",
		"CloudCo (cloudco.com) raised $5M and is hiring engineers", true)

	now := observedAt.AddDate(0, 0, 2)
	lead := f.scorer.Score(e, sig, now)

	byName := map[string]int{}
	for _, c := range lead.Components {
		byName[c.Name] = c.Contribution
	}
	assert.Equal(t, 40, byName["intent_strength"])
	assert.Equal(t, 25, byName["freshness"])
	assert.Equal(t, 14, byName["evidence_confidence"], "round(20 * 0.70 min confidence)")
	assert.Equal(t, 8, byName["completeness"], "base 5 + industry 3")
	assert.Equal(t, 0, byName["noise_penalty"])

	assert.Equal(t, 87, lead.Total)
	assert.Equal(t, TierA, lead.Tier)
	assert.InDelta(t, 0.70, lead.MinConfidence, 1e-9)
}

func TestScoreAgedLeadDecays(t *testing.T) {
	f := newFixture()
	e, sig := f.lead(t, "CloudCo", "cloudco.com",
		"CloudCo (cloudco.com) raised $5M and is hiring engineers", true)

	// Same lead 25 days later: freshness drops to the last band and the
	// intent evidence has decayed to zero and dropped out of confidence.
	now := observedAt.AddDate(0, 0, 25)
	lead := f.scorer.Score(e, sig, now)

	byName := map[string]int{}
	for _, c := range lead.Components {
		byName[c.Name] = c.Contribution
	}
	assert.Equal(t, 40, byName["intent_strength"])
	assert.Equal(t, 5, byName["freshness"])
	assert.Equal(t, 14, byName["evidence_confidence"])
	assert.Equal(t, 67, lead.Total)
	assert.Equal(t, TierA, lead.Tier)

	assert.True(t, f.ledger.Get(e.Intent.ID).Meta.Invalidated,
		"decayed intent evidence flagged, kept for audit")
}

func TestScoreNoisePenalty(t *testing.T) {
	f := newFixture()
	e, sig := f.lead(t, "CloudCo", "cloudco.com",
		"rumor: CloudCo might possibly be hiring", false)

	lead := f.scorer.Score(e, sig, observedAt)
	byName := map[string]int{}
	for _, c := range lead.Components {
		byName[c.Name] = c.Contribution
	}
	assert.Equal(t, -10, byName["noise_penalty"], "three markers hits the heavy penalty")
}

func TestTierBoundaries(t *testing.T) {
	f := newFixture()
	tests := []struct {
		total int
		want  Tier
	}{
		{60, TierA}, {59, TierB}, {40, TierB}, {39, TierC}, {20, TierC}, {19, TierD}, {0, TierD},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.scorer.tier(tt.total), fmt.Sprintf("total %d", tt.total))
	}
}

func TestSortLeadsTieBreak(t *testing.T) {
	f := newFixture()

	older, olderSig := f.lead(t, "Beta Inc", "beta.com", "Beta Inc is hiring", false)
	olderSig.ObservedAt = observedAt.AddDate(0, 0, -3)
	newer, newerSig := f.lead(t, "Alpha Inc", "alpha.com", "Alpha Inc is hiring", false)
	sameTsA, sigA := f.lead(t, "Zeta Inc", "zeta.com", "Zeta Inc is hiring", false)
	sameTsB, sigB := f.lead(t, "Gamma Inc", "gamma.com", "Gamma Inc is hiring", false)

	leads := []*RankedLead{
		f.scorer.Score(older, olderSig, observedAt),
		f.scorer.Score(sameTsA, sigA, observedAt),
		f.scorer.Score(sameTsB, sigB, observedAt),
		f.scorer.Score(newer, newerSig, observedAt),
	}
	totals := map[string]int{}
	for _, l := range leads {
		totals[l.Entity.Name()] = l.Total
	}

	SortLeads(leads)

	// Newest first; equal timestamps and confidences fall back to name.
	names := make([]string, len(leads))
	for i, l := range leads {
		names[i] = l.Entity.Name()
	}
	assert.Equal(t, []string{"Alpha Inc", "Gamma Inc", "Zeta Inc", "Beta Inc"}, names)

	for _, l := range leads {
		assert.Equal(t, totals[l.Entity.Name()], l.Total, "sorting never changes scores")
	}
}

func TestExplanationFidelity(t *testing.T) {
	f := newFixture()
	e, sig := f.lead(t, "CloudCo", "cloudco.com",
		"CloudCo (cloudco.com) raised $5M and is hiring engineers", true)
	lead := f.scorer.Score(e, sig, observedAt.AddDate(0, 0, 2))

	out := lead.Explanation()
	assert.Contains(t, out, fmt.Sprintf("%d points", lead.Total))

	sum := 0
	for _, c := range lead.Components {
		assert.Contains(t, out, c.Reason, "reason rendered verbatim")
		assert.Contains(t, out, fmt.Sprintf("%+d  %s:", c.Contribution, c.Name))
		sum += c.Contribution
	}
	assert.Equal(t, lead.Total, sum, "rendered contributions sum to the total")
	assert.Equal(t, len(lead.Components)+1, strings.Count(out, "\n"))
}
