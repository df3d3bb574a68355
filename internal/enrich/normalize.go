package enrich

import (
	"net/url"
	"strings"
)

// trackingParams are stripped from every normalized URL.
var trackingParams = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
	"fbclid", "gclid", "ref",
}

// legacyDomainRenames maps renamed social domains onto their successors.
// Currently only the twitter.com -> x.com rename.
var legacyDomainRenames = map[string]string{
	"twitter.com":     "x.com",
	"www.twitter.com": "x.com",
}

// NormalizeURL returns the canonical form of a stored URL: a scheme is added
// when missing, a renamed social domain is rewritten to its successor, and
// known tracking query parameters are stripped. The second return reports
// whether the domain-rename rewrite applied, because that case targets the
// renamed field rather than overwriting the original. Normalization is
// idempotent: feeding the output back yields no further change.
func NormalizeURL(raw string) (normalized string, domainRenamed bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	withScheme := trimmed
	if !strings.Contains(withScheme, "://") {
		withScheme = "https://" + withScheme
	}

	u, err := url.Parse(withScheme)
	if err != nil || u.Host == "" {
		// Unparseable values are left alone; the audit rules surface them.
		return trimmed, false
	}

	if successor, ok := legacyDomainRenames[strings.ToLower(u.Host)]; ok {
		u.Host = successor
		u.Scheme = "https"
		domainRenamed = true
	}

	q := u.Query()
	for _, param := range trackingParams {
		q.Del(param)
	}
	u.RawQuery = q.Encode()

	return u.String(), domainRenamed
}
