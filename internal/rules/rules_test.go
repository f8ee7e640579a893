package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreIndexed(t *testing.T) {
	r := Defaults()

	assert.True(t, r.Resolver.Blacklisted("gmail.com"))
	assert.True(t, r.Resolver.Blacklisted("bit.ly"))
	assert.True(t, r.Resolver.Blacklisted("greenhouse.io"))
	assert.False(t, r.Resolver.Blacklisted("acme.com"))

	assert.True(t, r.Resolver.TLDAllowed("com"))
	assert.False(t, r.Resolver.TLDAllowed("zz"))

	assert.True(t, r.Enrich.GenericTLD("com"))
	assert.False(t, r.Enrich.GenericTLD("de"))
}

func TestLoadMissingPathReturnsDefaults(t *testing.T) {
	r, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 30, r.Gate.MaxSignalAgeDays)
	assert.Equal(t, 60, r.Scoring.TierA)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
gate:
  max_signal_age_days: 14
  target_industries: [fintech]
resolver:
  job_board_domains: [example.com]
scoring:
  tier_a: 70
`), 0o644))

	r, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 14, r.Gate.MaxSignalAgeDays)
	assert.Equal(t, []string{"fintech"}, r.Gate.TargetIndustries)
	assert.Equal(t, 70, r.Scoring.TierA)
	assert.Equal(t, 40, r.Scoring.TierB, "unset keys keep defaults")

	// Lookup sets are rebuilt from the overridden lists.
	assert.True(t, r.Resolver.Blacklisted("example.com"))
	assert.False(t, r.Resolver.Blacklisted("greenhouse.io"),
		"override replaces the job board list wholesale")
	assert.True(t, r.Resolver.Blacklisted("gmail.com"),
		"personal email list untouched")
}

func TestLoadBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gate: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
