package pipeline

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/rules"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func testRules() *rules.Rules {
	cfg := rules.Defaults()
	// The fixture job board lives on example.com.
	cfg.Resolver.JobBoardDomains = append(cfg.Resolver.JobBoardDomains, "example.com")
	return cfg
}

func run(t *testing.T, cfg *rules.Rules, inputs []model.SignalInput) *Result {
	t.Helper()
	res, err := New(cfg, 4).Process(context.Background(), inputs, testNow)
	require.NoError(t, err)
	return res
}

func TestJobBoardSignalWithoutDomainIsRejected(t *testing.T) {
	res := run(t, testRules(), []model.SignalInput{{
		Text:       "Acme Corp is hiring a Head of Engineering",
		SourceURL:  "https://boards.example.com/acme/jobs/1",
		ObservedAt: testNow,
	}})

	assert.Empty(t, res.Leads)
	require.Len(t, res.Rejections, 1)
	rej := res.Rejections[0]
	assert.Equal(t, model.RuleUnresolvable, rej.Rule)
	assert.Contains(t, rej.Reason, "no domain candidates")
	assert.Equal(t, 1, res.Stats.Rejected)
}

func TestAmbiguousNamesAreRejected(t *testing.T) {
	res := run(t, testRules(), []model.SignalInput{{
		Text:       "Join Acme Corp or our partner Globex for remote roles",
		SourceURL:  "https://acme.example.com/careers",
		ObservedAt: testNow,
	}})

	assert.Empty(t, res.Leads)
	require.Len(t, res.Rejections, 1)
	assert.Equal(t, model.RuleUnresolvable, res.Rejections[0].Rule)
	assert.Contains(t, res.Rejections[0].Reason, "multiple company name candidates")
}

func TestFreshFundedHiringLead(t *testing.T) {
	res := run(t, testRules(), []model.SignalInput{{
		Text:       "CloudCo (cloudco.com) raised $5M and is hiring engineers",
		SourceURL:  "https://news.example.com/item/1",
		ObservedAt: testNow.AddDate(0, 0, -2),
	}})

	assert.Empty(t, res.Rejections)
	require.Len(t, res.Leads, 1)
	lead := res.Leads[0]

	assert.Equal(t, "CloudCo", lead.Entity.Name())
	assert.Equal(t, "cloudco.com", lead.Entity.DomainName())
	assert.Equal(t, 87, lead.Total)
	assert.Equal(t, "A", string(lead.Tier))

	byName := map[string]int{}
	for _, c := range lead.Components {
		byName[c.Name] = c.Contribution
	}
	assert.Equal(t, 40, byName["intent_strength"])
	assert.Equal(t, 25, byName["freshness"])
	assert.Equal(t, 14, byName["evidence_confidence"])
	assert.Equal(t, 8, byName["completeness"], "industry inferred, base 5 + 3")

	assert.Equal(t, Stats{Processed: 1, Accepted: 1, Resolved: 1, Enriched: 1}, res.Stats)
}

func TestAgedLeadLosesFreshnessAndIntentConfidence(t *testing.T) {
	res := run(t, testRules(), []model.SignalInput{{
		Text:       "CloudCo (cloudco.com) raised $5M and is hiring engineers",
		SourceURL:  "https://news.example.com/item/1",
		ObservedAt: testNow.AddDate(0, 0, -25),
	}})

	require.Len(t, res.Leads, 1)
	lead := res.Leads[0]

	byName := map[string]int{}
	for _, c := range lead.Components {
		byName[c.Name] = c.Contribution
	}
	assert.Equal(t, 5, byName["freshness"])
	assert.Equal(t, 14, byName["evidence_confidence"],
		"decayed-out intent evidence excluded from the confidence floor")
	assert.Equal(t, 67, lead.Total)

	require.NotNil(t, lead.Entity.Intent)
	assert.True(t, lead.Entity.Intent.Meta.Invalidated || lead.MinConfidence > 0)
}

func TestUnmappedTLDLeavesCountryAbsent(t *testing.T) {
	res := run(t, testRules(), []model.SignalInput{{
		Text:       "CloudCo (cloudco.us) raised $5M and is hiring engineers",
		SourceURL:  "https://news.example.com/item/1",
		ObservedAt: testNow.AddDate(0, 0, -2),
	}})

	assert.Empty(t, res.Rejections)
	require.Len(t, res.Leads, 1)
	assert.Nil(t, res.Leads[0].Entity.Country)
	assert.NotNil(t, res.Leads[0].Entity.Industry, "other enrichment unaffected")
}

func TestRejectionsKeepInputOrder(t *testing.T) {
	inputs := []model.SignalInput{
		{
			Text:       "Acme Corp published a blog post about coffee",
			SourceURL:  "https://news.example.com/a",
			ObservedAt: testNow,
		},
		{
			Text:       "Globex Inc is hiring testers",
			SourceURL:  "https://news.example.com/b",
			ObservedAt: testNow.AddDate(0, 0, -45),
		},
		{
			Text:       "CloudCo (cloudco.com) raised $5M and is hiring engineers",
			SourceURL:  "https://news.example.com/c",
			ObservedAt: testNow,
		},
	}
	res := run(t, testRules(), inputs)

	require.Len(t, res.Rejections, 2)
	assert.Equal(t, model.RuleNoIntent, res.Rejections[0].Rule)
	assert.Equal(t, model.RuleStale, res.Rejections[1].Rule)
	require.Len(t, res.Leads, 1)
}

func TestDeterministicReruns(t *testing.T) {
	inputs := []model.SignalInput{
		{
			Text:       "CloudCo (cloudco.com) raised $5M and is hiring engineers",
			SourceURL:  "https://news.example.com/item/1",
			ObservedAt: testNow.AddDate(0, 0, -2),
		},
		{
			Text:       "Join Acme Corp or our partner Globex for remote roles",
			SourceURL:  "https://acme.example.com/careers",
			ObservedAt: testNow.AddDate(0, 0, -1),
		},
		{
			Text:       "Initech is hiring a platform engineer",
			SourceURL:  "https://careers.initech.io/roles/42",
			ObservedAt: testNow.AddDate(0, 0, -4),
		},
	}

	a := run(t, testRules(), inputs)
	b := run(t, testRules(), inputs)

	// Everything except the run ID must be byte-identical.
	a.RunID, b.RunID = "", ""
	aj, err := json.Marshal(a)
	require.NoError(t, err)
	bj, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, string(aj), string(bj))
}

func TestRejectedInputIsNeverRescued(t *testing.T) {
	// Same company appears in a rejected stale signal and a fresh one; only
	// the fresh one produces a lead, and the stale rejection stands.
	inputs := []model.SignalInput{
		{
			Text:       "CloudCo (cloudco.com) raised $5M and is hiring engineers",
			SourceURL:  "https://news.example.com/old",
			ObservedAt: testNow.AddDate(0, 0, -60),
		},
		{
			Text:       "CloudCo (cloudco.com) raised $5M and is hiring engineers",
			SourceURL:  "https://news.example.com/new",
			ObservedAt: testNow,
		},
	}
	res := run(t, testRules(), inputs)

	require.Len(t, res.Rejections, 1)
	assert.Equal(t, model.RuleStale, res.Rejections[0].Rule)
	require.Len(t, res.Leads, 1)
	assert.Equal(t, "CloudCo", res.Leads[0].Entity.Name())
}
