package sources

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters stripped during URL normalization.
// They identify campaigns, not listings, and would defeat deduplication.
var trackingParams = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_term":     true,
	"utm_content":  true,
	"gclid":        true,
	"fbclid":       true,
	"msclkid":      true,
	"ref":          true,
	"ref_":         true,
	"referrer":     true,
	"affid":        true,
	"cjevent":      true,
	"awc":          true,
	"tag":          true,
}

// NormalizeURL canonicalizes a product URL: resolves it against an optional
// base (for relative hrefs), lowercases the host, strips tracking
// parameters and fragments, and drops a trailing slash. Malformed input is
// returned trimmed but otherwise untouched.
func NormalizeURL(raw string, base string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	if base != "" && !parsed.IsAbs() {
		baseURL, baseErr := url.Parse(base)
		if baseErr == nil {
			parsed = baseURL.ResolveReference(parsed)
		}
	}

	if parsed.Host == "" {
		return raw
	}

	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""

	query := parsed.Query()
	kept := url.Values{}
	for key, values := range query {
		if trackingParams[strings.ToLower(key)] {
			continue
		}
		for _, v := range values {
			kept.Add(key, v)
		}
	}
	// Encode() sorts keys, which keeps equivalent URLs byte-identical
	parsed.RawQuery = kept.Encode()

	normalized := strings.TrimSuffix(parsed.String(), "/")
	return normalized
}

// DedupKey returns the key used to deduplicate a product across adapters:
// the normalized URL when present, otherwise a composite of brand and title.
func DedupKey(productURL, brand, title string) string {
	if normalized := NormalizeURL(productURL, ""); normalized != "" {
		return normalized
	}
	return strings.ToLower(strings.TrimSpace(brand)) + "|" + strings.ToLower(strings.TrimSpace(title))
}
