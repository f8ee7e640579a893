package rules

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Rules is the full set of rule tables the pipeline runs on. Every threshold,
// keyword list, blacklist and score table lives here so behavior is
// reproducible and testable in isolation. Components receive the tables they
// need explicitly; nothing reads hidden package-level constants.
type Rules struct {
	Gate     GateRules     `yaml:"gate"`
	Resolver ResolverRules `yaml:"resolver"`
	Enrich   EnrichRules   `yaml:"enrich"`
	Scoring  ScoringRules  `yaml:"scoring"`
	Evidence EvidenceRules `yaml:"evidence"`
}

// GateRules configures the hard-rejection gates.
type GateRules struct {
	MaxSignalAgeDays int `yaml:"max_signal_age_days"`

	// IntentKeywords maps intent type (hiring, funding, executive_change)
	// to the phrases that indicate it. Checked in fixed priority order.
	IntentKeywords map[string][]string `yaml:"intent_keywords"`

	// TargetIndustries enables R5 when non-empty.
	TargetIndustries []string `yaml:"target_industries"`

	// AllowedSizeRanges enables R6 when non-empty.
	AllowedSizeRanges []string `yaml:"allowed_size_ranges"`

	// MinClassificationConfidence is the R7 floor for required-field
	// inference confidence.
	MinClassificationConfidence float64 `yaml:"min_classification_confidence"`
}

// ResolverRules configures entity resolution.
type ResolverRules struct {
	PersonalEmailDomains []string `yaml:"personal_email_domains"`
	URLShortenerDomains  []string `yaml:"url_shortener_domains"`
	JobBoardDomains      []string `yaml:"job_board_domains"`
	AllowedTLDs          []string `yaml:"allowed_tlds"`

	// SlugHosts are job-board hosts whose first path segment identifies the
	// company (boards.greenhouse.io/acme/jobs/1 → acme).
	SlugHosts []string `yaml:"slug_hosts"`

	NameConfidence       float64 `yaml:"name_confidence"`
	TextDomainConfidence float64 `yaml:"text_domain_confidence"`
	SourceHostConfidence float64 `yaml:"source_host_confidence"`
	SlugDomainConfidence float64 `yaml:"slug_domain_confidence"`

	blacklist   map[string]bool
	allowedTLDs map[string]bool
}

// EnrichRules configures the deterministic enrichment heuristics.
type EnrichRules struct {
	IndustryKeywords map[string][]string `yaml:"industry_keywords"`
	SizeIndicators   map[string][]string `yaml:"size_indicators"`
	TLDCountries     map[string]string   `yaml:"tld_countries"`
	GenericTLDs      []string            `yaml:"generic_tlds"`

	IndustryConfidence float64 `yaml:"industry_confidence"`
	SizeConfidence     float64 `yaml:"size_confidence"`
	CountryConfidence  float64 `yaml:"country_confidence"`

	// MaxConfidence caps every enrichment-produced confidence.
	MaxConfidence float64 `yaml:"max_confidence"`

	genericTLDs map[string]bool
}

// FreshnessBand awards Points to signals at most MaxAgeDays old.
type FreshnessBand struct {
	MaxAgeDays int `yaml:"max_age_days"`
	Points     int `yaml:"points"`
}

// ScoringRules holds the score tables. All contributions are integers and the
// total is their flat sum; there are no weights to tune.
type ScoringRules struct {
	IntentStrength map[string]int  `yaml:"intent_strength"`
	Freshness      []FreshnessBand `yaml:"freshness"`

	// ConfidencePoints is the ceiling of the evidence-confidence component;
	// contribution = round(points * min decayed confidence).
	ConfidencePoints int `yaml:"confidence_points"`

	CompletenessBase    int            `yaml:"completeness_base"`
	CompletenessWeights map[string]int `yaml:"completeness_weights"`
	CompletenessCap     int            `yaml:"completeness_cap"`

	NoiseMarkers      []string `yaml:"noise_markers"`
	NoiseLightPenalty int      `yaml:"noise_light_penalty"`
	NoiseHeavyPenalty int      `yaml:"noise_heavy_penalty"`
	NoiseHeavyAt      int      `yaml:"noise_heavy_at"`

	TierA int `yaml:"tier_a"`
	TierB int `yaml:"tier_b"`
	TierC int `yaml:"tier_c"`
}

// DecaySchedule is a linear step decay: confidence loses StepDown every full
// IntervalDays after the evidence timestamp.
type DecaySchedule struct {
	StepDown     float64 `yaml:"step_down"`
	IntervalDays int     `yaml:"interval_days"`
}

// EvidenceRules configures base confidences per evidence kind and the
// per-field decay schedules. Fields absent from Decay never decay.
type EvidenceRules struct {
	BaseConfidence map[string]float64       `yaml:"base_confidence"`
	Decay          map[string]DecaySchedule `yaml:"decay"`
}

// Load reads a rule file and overlays it on the defaults. A missing path
// returns the defaults unchanged.
func Load(path string) (*Rules, error) {
	r := Defaults()
	if path == "" {
		return r, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "rules: read %s", path)
	}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, eris.Wrapf(err, "rules: parse %s", path)
	}

	r.index()
	return r, nil
}

// index rebuilds the lookup sets after defaults or file overrides changed the
// backing lists.
func (r *Rules) index() {
	res := &r.Resolver
	res.blacklist = make(map[string]bool)
	for _, d := range res.PersonalEmailDomains {
		res.blacklist[strings.ToLower(d)] = true
	}
	for _, d := range res.URLShortenerDomains {
		res.blacklist[strings.ToLower(d)] = true
	}
	for _, d := range res.JobBoardDomains {
		res.blacklist[strings.ToLower(d)] = true
	}
	res.allowedTLDs = make(map[string]bool, len(res.AllowedTLDs))
	for _, t := range res.AllowedTLDs {
		res.allowedTLDs[strings.ToLower(t)] = true
	}

	r.Enrich.genericTLDs = make(map[string]bool, len(r.Enrich.GenericTLDs))
	for _, t := range r.Enrich.GenericTLDs {
		r.Enrich.genericTLDs[strings.ToLower(t)] = true
	}
}

// Blacklisted reports whether a registrable domain is a personal-email,
// URL-shortener or job-board domain.
func (r *ResolverRules) Blacklisted(domain string) bool {
	return r.blacklist[strings.ToLower(domain)]
}

// TLDAllowed reports whether a top-level domain is on the whitelist.
func (r *ResolverRules) TLDAllowed(tld string) bool {
	return r.allowedTLDs[strings.ToLower(tld)]
}

// GenericTLD reports whether a TLD carries no country information.
func (e *EnrichRules) GenericTLD(tld string) bool {
	return e.genericTLDs[strings.ToLower(tld)]
}
