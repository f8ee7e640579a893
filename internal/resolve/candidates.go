package resolve

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// namePat matches a run of capitalized words, the shape of a company name in
// prose. Lowercase connectives ("is", "or", "and") terminate the run, which
// keeps surrounding sentence words out of the capture.
const namePat = `[A-Z][A-Za-z0-9&.\-]*(?:\s+[A-Z][A-Za-z0-9&.\-]*)*`

// domainPat matches a bare dotted hostname.
const domainPat = `[a-zA-Z0-9][a-zA-Z0-9\-]*(?:\.[a-zA-Z0-9][a-zA-Z0-9\-]*)+`

// Name extraction patterns. Each captures the company name in group 1; all
// patterns run and the results are deduplicated, so a text naming two
// different companies is visibly ambiguous rather than first-match-lucky.
var (
	reHiring      = regexp.MustCompile(`(` + namePat + `)\s+is\s+hiring\b`)
	reAnnounce    = regexp.MustCompile(`(` + namePat + `)\s+(?:raised|secured|closed|announced|announces)\b`)
	reAtMention   = regexp.MustCompile(`\bat\s+(` + namePat + `)`)
	reJoinMention = regexp.MustCompile(`\b[Jj]oin\s+(` + namePat + `)`)
	reConjunction = regexp.MustCompile(`\b(?:or|and)\s+(?:(?:our|their|its|a|the)\s+)?(?:partner\s+)?(` + namePat + `)`)
	reParenDomain = regexp.MustCompile(`(` + namePat + `)\s*\(\s*(?:https?://)?(?:www\.)?` + domainPat + `\s*\)`)

	reParenthetical = regexp.MustCompile(`\s*\(\s*(?:https?://)?(?:www\.)?` + domainPat + `\s*\)`)
	reDomain        = regexp.MustCompile(domainPat)
	reWhitespace    = regexp.MustCompile(`\s+`)
)

var titleCaser = cases.Title(language.English)

// nameCandidates returns the distinct company names the text mentions, in
// first-appearance order. Dedup is case- and whitespace-insensitive.
func nameCandidates(text string) []string {
	// A parenthesized domain after a name confuses the prose patterns, so the
	// name-before-domain pattern runs on the raw text and the rest run with
	// those parentheticals removed.
	stripped := reParenthetical.ReplaceAllString(text, "")

	var raw []string
	for _, m := range reParenDomain.FindAllStringSubmatch(text, -1) {
		raw = append(raw, m[1])
	}
	for _, re := range []*regexp.Regexp{reHiring, reAnnounce, reAtMention, reJoinMention, reConjunction} {
		for _, m := range re.FindAllStringSubmatch(stripped, -1) {
			raw = append(raw, m[1])
		}
	}

	seen := map[string]bool{}
	var out []string
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := reWhitespace.ReplaceAllString(strings.ToLower(name), " ")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

// textDomains returns the distinct registrable domains mentioned in the
// text, lowercased, in first-appearance order.
func textDomains(text string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range reDomain.FindAllString(text, -1) {
		d := registrableDomain(strings.ToLower(m))
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

// slugName turns a job-board URL slug into a display name:
// "cloudco-labs" -> "Cloudco Labs".
func slugName(slug string) string {
	return titleCaser.String(strings.ReplaceAll(slug, "-", " "))
}
