package resolve

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sells-group/prospect-cli/internal/rules"
)

// secondLevelSuffixes are public suffixes spanning two labels; a registrable
// domain under them keeps three labels (acme.co.uk, not co.uk).
var secondLevelSuffixes = map[string]bool{
	"co.uk": true, "org.uk": true, "ac.uk": true,
	"com.au": true, "net.au": true, "org.au": true,
	"co.jp": true, "co.in": true, "co.nz": true,
	"com.br": true, "com.cn": true, "com.sg": true,
}

// registrableDomain reduces a hostname to its registrable part, lowercased.
// Returns "" for inputs that cannot be a domain (single label, numeric or
// one-letter TLD).
func registrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(host), "."))
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return ""
	}

	tld := labels[len(labels)-1]
	if len(tld) < 2 || !alphabetic(tld) {
		return ""
	}

	n := 2
	if len(labels) >= 3 && secondLevelSuffixes[strings.Join(labels[len(labels)-2:], ".")] {
		n = 3
	}
	if n > len(labels) {
		return ""
	}
	return strings.Join(labels[len(labels)-n:], ".")
}

func alphabetic(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// tld returns the final label of a domain.
func tld(domain string) string {
	idx := strings.LastIndex(domain, ".")
	if idx < 0 {
		return ""
	}
	return domain[idx+1:]
}

// validateDomain applies the hard domain rules: blacklists first, then the
// TLD whitelist. Returns "" when the domain is acceptable, otherwise the
// rejection reason.
func validateDomain(domain string, cfg rules.ResolverRules) string {
	if cfg.Blacklisted(domain) {
		return fmt.Sprintf("domain %q is blacklisted (personal mail, shortener or job board)", domain)
	}
	if t := tld(domain); !cfg.TLDAllowed(t) {
		return fmt.Sprintf("domain %q has disallowed TLD %q", domain, t)
	}
	return ""
}

// sourceHost extracts the registrable domain of a signal's source URL.
func sourceHost(sourceURL string) string {
	u, err := url.Parse(sourceURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return registrableDomain(u.Hostname())
}

// urlSlug returns the first path segment of the source URL when its host is
// one of the configured slug hosts (job boards whose paths identify the
// company), otherwise "".
func urlSlug(sourceURL string, cfg rules.ResolverRules) string {
	u, err := url.Parse(sourceURL)
	if err != nil || u.Host == "" {
		return ""
	}

	host := registrableDomain(u.Hostname())
	match := false
	for _, s := range cfg.SlugHosts {
		if host == strings.ToLower(s) {
			match = true
			break
		}
	}
	if !match {
		return ""
	}

	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			return strings.ToLower(seg)
		}
	}
	return ""
}
