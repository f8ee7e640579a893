package rules

// Defaults returns the built-in rule tables. Callers may overlay a YAML file
// on top via Load; the tables are data, not contract.
func Defaults() *Rules {
	r := &Rules{
		Gate: GateRules{
			MaxSignalAgeDays: 30,
			IntentKeywords: map[string][]string{
				"hiring": {
					"hiring", "job opening", "we're looking for", "join our team",
					"open position", "career opportunity", "now hiring",
					"seeking", "looking to hire", "job post",
				},
				"funding": {
					"raised", "funding", "series a", "series b", "series c",
					"seed round", "investment", "fundraise", "capital",
				},
				"executive_change": {
					"new ceo", "new cto", "appointed", "joins as",
					"promoted to", "named as", "executive",
				},
			},
			MinClassificationConfidence: 0.5,
		},
		Resolver: ResolverRules{
			PersonalEmailDomains: []string{
				"gmail.com", "yahoo.com", "hotmail.com", "outlook.com",
				"aol.com", "icloud.com", "mail.com", "protonmail.com",
				"live.com", "msn.com", "ymail.com", "googlemail.com",
			},
			URLShortenerDomains: []string{
				"bit.ly", "tinyurl.com", "t.co", "goo.gl", "ow.ly",
				"is.gd", "buff.ly", "rebrand.ly", "short.io",
			},
			JobBoardDomains: []string{
				"greenhouse.io", "lever.co", "workday.com", "jobvite.com",
				"icims.com", "smartrecruiters.com", "bamboohr.com",
				"indeed.com", "linkedin.com", "glassdoor.com",
			},
			AllowedTLDs: []string{
				"com", "org", "net", "io", "co", "ai", "app", "dev",
				"tech", "xyz", "info", "biz", "me", "us", "uk", "de",
				"fr", "ca", "au", "in", "jp", "cn", "eu", "edu", "gov",
				"nl", "es", "it", "br", "se", "ch", "ie", "sg",
			},
			SlugHosts: []string{"greenhouse.io", "lever.co"},

			NameConfidence:       0.75,
			TextDomainConfidence: 0.85,
			SourceHostConfidence: 0.70,
			SlugDomainConfidence: 0.60,
		},
		Enrich: EnrichRules{
			IndustryKeywords: map[string][]string{
				"technology": {
					"software", "saas", "api", "cloud", "devops", "engineering",
					"platform", "machine learning", "data science",
					"developer", "programming", "mobile",
				},
				"fintech": {
					"fintech", "payments", "banking", "financial technology",
					"cryptocurrency", "blockchain", "defi", "neobank",
				},
				"healthcare": {
					"healthcare", "healthtech", "medtech", "clinical", "medical",
					"hospital", "patient", "pharma", "biotech",
				},
				"e-commerce": {
					"e-commerce", "ecommerce", "retail", "marketplace",
					"online store", "dropship",
				},
				"education": {
					"edtech", "education", "learning platform", "tutoring",
					"university", "online course",
				},
				"marketing": {
					"marketing", "advertising", "adtech", "seo",
					"social media", "brand agency",
				},
				"cybersecurity": {
					"security", "cybersecurity", "infosec", "encryption",
					"vulnerability", "penetration testing", "threat",
				},
			},
			SizeIndicators: map[string][]string{
				"startup": {
					"startup", "early stage", "seed", "founding team",
					"first hire", "small team",
				},
				"scaleup": {
					"series b", "series c", "scaling", "hypergrowth",
					"fast-growing", "100+ employees", "200+ employees",
				},
				"enterprise": {
					"fortune 500", "enterprise", "global company", "multinational",
					"1000+ employees", "5000+ employees", "publicly traded",
				},
			},
			TLDCountries: map[string]string{
				"uk": "United Kingdom", "de": "Germany", "fr": "France",
				"ca": "Canada", "au": "Australia", "in": "India",
				"jp": "Japan", "cn": "China", "nl": "Netherlands",
				"es": "Spain", "it": "Italy", "br": "Brazil",
				"se": "Sweden", "ch": "Switzerland", "ie": "Ireland",
				"sg": "Singapore",
			},
			GenericTLDs: []string{
				"com", "org", "net", "io", "co", "ai", "app", "dev",
				"tech", "xyz", "info", "biz", "me", "edu", "gov",
			},
			IndustryConfidence: 0.70,
			SizeConfidence:     0.65,
			CountryConfidence:  0.80,
			MaxConfidence:      0.80,
		},
		Scoring: ScoringRules{
			IntentStrength: map[string]int{
				"hiring":           40,
				"funding":          30,
				"executive_change": 20,
			},
			Freshness: []FreshnessBand{
				{MaxAgeDays: 3, Points: 25},
				{MaxAgeDays: 7, Points: 20},
				{MaxAgeDays: 14, Points: 15},
				{MaxAgeDays: 21, Points: 10},
				{MaxAgeDays: 30, Points: 5},
			},
			ConfidencePoints: 20,
			CompletenessBase: 5,
			CompletenessWeights: map[string]int{
				"industry":   3,
				"size_range": 2,
				"country":    2,
			},
			CompletenessCap: 10,
			NoiseMarkers: []string{
				"maybe", "possibly", "might", "unclear", "unconfirmed",
				"rumor", "speculation", "could be", "tbd", "tentative",
			},
			NoiseLightPenalty: -5,
			NoiseHeavyPenalty: -10,
			NoiseHeavyAt:      3,
			TierA:             60,
			TierB:             40,
			TierC:             20,
		},
		Evidence: EvidenceRules{
			BaseConfidence: map[string]float64{
				"observation": 0.95,
				"inference":   0.70,
				"third_party": 0.85,
			},
			Decay: map[string]DecaySchedule{
				"intent_signal": {StepDown: 0.25, IntervalDays: 7},
				"contact_email": {StepDown: 0.10, IntervalDays: 30},
			},
		},
	}
	r.index()
	return r
}
