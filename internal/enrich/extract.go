// extract.go: isolated signal extractors over fetched HTML. Each rule is its
// own function so one platform's pattern can evolve without touching the
// others. Regex matching is deliberate; the pages scraped here are too
// inconsistent to justify a full HTML parse.
package enrich

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/k3a/html2text"
)

var (
	jsonLDPattern  = regexp.MustCompile(`(?is)<script[^>]*type\s*=\s*["']application/ld\+json["'][^>]*>(.*?)</script>`)
	ogPattern      = regexp.MustCompile(`(?is)<meta[^>]+property\s*=\s*["']og:([a-z:_]+)["'][^>]+content\s*=\s*["']([^"']*)["']`)
	ogPatternAlt   = regexp.MustCompile(`(?is)<meta[^>]+content\s*=\s*["']([^"']*)["'][^>]+property\s*=\s*["']og:([a-z:_]+)["']`)
	mailtoPattern  = regexp.MustCompile(`(?i)href\s*=\s*["']mailto:([^"'?]+)`)
	phonePattern   = regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`)
	titlePattern   = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
)

// socialPlatforms lists the recognized platforms in fixed scan order, with
// the link pattern for each. Twitter links map onto the x platform.
var socialPlatforms = []struct {
	Name    string
	Pattern *regexp.Regexp
}{
	{"facebook", regexp.MustCompile(`(?i)https?://(?:www\.)?facebook\.com/[A-Za-z0-9_.\-/]+`)},
	{"x", regexp.MustCompile(`(?i)https?://(?:www\.)?(?:x\.com|twitter\.com)/[A-Za-z0-9_]+`)},
	{"linkedin", regexp.MustCompile(`(?i)https?://(?:www\.)?linkedin\.com/(?:in|company)/[A-Za-z0-9_\-]+`)},
	{"instagram", regexp.MustCompile(`(?i)https?://(?:www\.)?instagram\.com/[A-Za-z0-9_.]+`)},
	{"youtube", regexp.MustCompile(`(?i)https?://(?:www\.)?youtube\.com/[A-Za-z0-9_@\-/]+`)},
	{"vimeo", regexp.MustCompile(`(?i)https?://(?:www\.)?vimeo\.com/[A-Za-z0-9_\-/]+`)},
	{"soundcloud", regexp.MustCompile(`(?i)https?://(?:www\.)?soundcloud\.com/[A-Za-z0-9_\-/]+`)},
}

// BusinessInfo is the structured subset pulled from JSON-LD blocks.
type BusinessInfo struct {
	Phone   string
	City    string
	Country string
	URL     string
}

type jsonLDDocument struct {
	Type      any           `json:"@type"`
	Telephone string        `json:"telephone"`
	URL       string        `json:"url"`
	Address   jsonLDAddress `json:"address"`
}

type jsonLDAddress struct {
	Locality string `json:"addressLocality"`
	Country  string `json:"addressCountry"`
}

func (d *jsonLDDocument) isBusiness() bool {
	match := func(t string) bool {
		return t == "LocalBusiness" || t == "Organization"
	}
	switch t := d.Type.(type) {
	case string:
		return match(t)
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && match(s) {
				return true
			}
		}
	}
	return false
}

// ExtractJSONLD parses every ld+json script block and returns the first
// LocalBusiness/Organization document found, if any.
func ExtractJSONLD(html string) (BusinessInfo, bool) {
	for _, m := range jsonLDPattern.FindAllStringSubmatch(html, -1) {
		raw := strings.TrimSpace(m[1])

		var docs []jsonLDDocument
		var single jsonLDDocument
		if err := json.Unmarshal([]byte(raw), &single); err == nil {
			docs = append(docs, single)
		} else if err := json.Unmarshal([]byte(raw), &docs); err != nil {
			continue
		}

		for i := range docs {
			if !docs[i].isBusiness() {
				continue
			}
			return BusinessInfo{
				Phone:   strings.TrimSpace(docs[i].Telephone),
				City:    strings.TrimSpace(docs[i].Address.Locality),
				Country: strings.TrimSpace(docs[i].Address.Country),
				URL:     strings.TrimSpace(docs[i].URL),
			}, true
		}
	}
	return BusinessInfo{}, false
}

// ExtractOpenGraph returns og: properties found in meta tags, attribute
// order independent.
func ExtractOpenGraph(html string) map[string]string {
	props := make(map[string]string)
	for _, m := range ogPattern.FindAllStringSubmatch(html, -1) {
		if _, seen := props[m[1]]; !seen {
			props[m[1]] = strings.TrimSpace(m[2])
		}
	}
	for _, m := range ogPatternAlt.FindAllStringSubmatch(html, -1) {
		if _, seen := props[m[2]]; !seen {
			props[m[2]] = strings.TrimSpace(m[1])
		}
	}
	return props
}

// ExtractMailto returns the first mailto: address on the page.
func ExtractMailto(html string) string {
	if m := mailtoPattern.FindStringSubmatch(html); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// ExtractPhone returns the first string loosely shaped like a phone number.
func ExtractPhone(html string) string {
	// Strip tags first so digit runs inside attributes don't match.
	text := html2text.HTML2Text(html)
	return strings.TrimSpace(phonePattern.FindString(text))
}

// ExtractSocialLinks scans for recognized platform links, first hit per
// platform.
func ExtractSocialLinks(html string) map[string]string {
	links := make(map[string]string)
	for _, platform := range socialPlatforms {
		if m := platform.Pattern.FindString(html); m != "" {
			links[platform.Name] = m
		}
	}
	return links
}

// ExtractTitle returns the page title as plain text.
func ExtractTitle(html string) string {
	if m := titlePattern.FindStringSubmatch(html); m != nil {
		return strings.TrimSpace(html2text.HTML2Text(m[1]))
	}
	return ""
}
