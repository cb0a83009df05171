// Package fetch - platform.go provides retailer platform detection and
// platform-specific product selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known retailer platform.
type Platform string

const (
	// PlatformZalando is the Zalando shop platform
	PlatformZalando Platform = "zalando"
	// PlatformAsos is the ASOS shop platform
	PlatformAsos Platform = "asos"
	// PlatformEtsy is the Etsy marketplace
	PlatformEtsy Platform = "etsy"
	// PlatformAmazon is the Amazon marketplace
	PlatformAmazon Platform = "amazon"
	// PlatformUnknown is an unrecognized retailer
	PlatformUnknown Platform = "unknown"
)

// PlatformByName maps a retailer name to its platform, for wiring sources
// from configuration.
func PlatformByName(name string) Platform {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "zalando":
		return PlatformZalando
	case "asos":
		return PlatformAsos
	case "etsy":
		return PlatformEtsy
	case "amazon":
		return PlatformAmazon
	default:
		return PlatformUnknown
	}
}

// DetectPlatform identifies the retailer platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)

	if strings.Contains(host, "zalando.") {
		return PlatformZalando
	}
	if strings.Contains(host, "asos.com") {
		return PlatformAsos
	}
	if strings.Contains(host, "etsy.com") {
		return PlatformEtsy
	}
	if strings.Contains(host, "amazon.") {
		return PlatformAmazon
	}

	return PlatformUnknown
}

// SearchURL builds the search results URL for a platform's shop.
func SearchURL(platform Platform, query string) string {
	escaped := url.QueryEscape(query)
	switch platform {
	case PlatformZalando:
		return "https://www.zalando.de/katalog/?q=" + escaped
	case PlatformAsos:
		return "https://www.asos.com/search/?q=" + escaped
	case PlatformEtsy:
		return "https://www.etsy.com/search?q=" + escaped
	case PlatformAmazon:
		return "https://www.amazon.com/s?k=" + escaped
	default:
		return ""
	}
}

// ProductCardSelectors returns selectors that locate product link anchors on
// a platform's search results page, most specific first.
func ProductCardSelectors(platform Platform) []string {
	switch platform {
	case PlatformZalando:
		return []string{
			"article a[href*='.html']",
			"a[data-testid='product-card']",
			"a[href*='/p/']",
		}
	case PlatformAsos:
		return []string{
			"article a[href*='/prd/']",
			"a[data-auto-id='productTile']",
			"a[href*='/prd/']",
		}
	case PlatformEtsy:
		return []string{
			"a.listing-link",
			"a[href*='/listing/']",
		}
	case PlatformAmazon:
		return []string{
			"a[href*='/dp/']",
			"div[data-component-type='s-search-result'] a.a-link-normal",
		}
	default:
		return []string{
			"a[href*='/product']",
			"a[href*='/p/']",
			"a[href*='/item']",
			"a[href*='/listing/']",
			"a[href*='/dp/']",
		}
	}
}

// NoiseSelectors returns elements to strip before scraping a shop page.
func NoiseSelectors() []string {
	return []string{
		"nav", "footer", "header", "script", "style", "noscript",
		".ad", ".ads", ".advertisement", ".sidebar",
		".cookie-banner", ".newsletter", ".popup",
		"[class*='recommend']", "[class*='recently-viewed']",
	}
}
