// Package classify holds the deterministic text heuristics shared by the
// gate, the enrichment waterfall and the scorer. Every function here is a
// pure table lookup over configured keyword lists; nothing calls out.
package classify

import (
	"strings"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/rules"
)

// intentPriority fixes the check order when a text matches several intent
// categories. Hiring wins over funding wins over executive change.
var intentPriority = []model.IntentType{
	model.IntentHiring,
	model.IntentFunding,
	model.IntentExecutiveChange,
}

// DetectIntent returns the first intent category whose keyword list matches
// the text, or "" when none does.
func DetectIntent(text string, cfg rules.GateRules) model.IntentType {
	lower := strings.ToLower(text)
	for _, intent := range intentPriority {
		for _, kw := range cfg.IntentKeywords[string(intent)] {
			if strings.Contains(lower, kw) {
				return intent
			}
		}
	}
	return ""
}

// NoiseCount counts hedge-language markers ("maybe", "rumor", ...) in the
// text. Repeated markers count once each per distinct marker.
func NoiseCount(text string, markers []string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, m := range markers {
		if strings.Contains(lower, m) {
			n++
		}
	}
	return n
}

// InferIndustry maps text to an industry category. It returns a value only
// when exactly one category matches; zero or several matches return "".
func InferIndustry(text string, cfg rules.EnrichRules) string {
	return exactlyOne(text, cfg.IndustryKeywords)
}

// InferSizeRange maps text to a company size range under the same
// exactly-one-match contract as InferIndustry.
func InferSizeRange(text string, cfg rules.EnrichRules) string {
	return exactlyOne(text, cfg.SizeIndicators)
}

func exactlyOne(text string, table map[string][]string) string {
	lower := strings.ToLower(text)
	matched := ""
	for category, keywords := range table {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				if matched != "" && matched != category {
					return ""
				}
				matched = category
				break
			}
		}
	}
	return matched
}

// CountryFromTLD maps a domain's TLD to a country name. Generic TLDs carry
// no country information and return "".
func CountryFromTLD(domain string, cfg rules.EnrichRules) string {
	idx := strings.LastIndex(domain, ".")
	if idx < 0 || idx == len(domain)-1 {
		return ""
	}
	tld := strings.ToLower(domain[idx+1:])
	if cfg.GenericTLD(tld) {
		return ""
	}
	return cfg.TLDCountries[tld]
}
