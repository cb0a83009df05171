package sources

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/look-composer/internal/catalog"
	"github.com/jonathan/look-composer/internal/currency"
)

// jsonLDProduct mirrors the schema.org/Product fields we care about.
// Offers can be a single object or an array, so it unmarshals leniently.
type jsonLDProduct struct {
	Type  json.RawMessage `json:"@type"`
	Name  string          `json:"name"`
	URL   string          `json:"url"`
	Image json.RawMessage `json:"image"`
	Brand json.RawMessage `json:"brand"`
	Offer json.RawMessage `json:"offers"`
}

type jsonLDOffer struct {
	Price         json.RawMessage `json:"price"`
	PriceCurrency string          `json:"priceCurrency"`
	Availability  string          `json:"availability"`
	URL           string          `json:"url"`
}

type jsonLDItemList struct {
	Type     json.RawMessage `json:"@type"`
	Elements []struct {
		Item json.RawMessage `json:"item"`
		URL  string          `json:"url"`
	} `json:"itemListElement"`
}

// ExtractJSONLDProducts scans a document's ld+json script blocks and
// returns every schema.org Product found, either standalone or inside an
// ItemList. Parsing failures in one block never affect the others.
func ExtractJSONLDProducts(doc *goquery.Document, baseURL string) []catalog.Product {
	var products []catalog.Product

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		// A block can hold a single object or an array of objects
		var blocks []json.RawMessage
		if strings.HasPrefix(raw, "[") {
			if err := json.Unmarshal([]byte(raw), &blocks); err != nil {
				return
			}
		} else {
			blocks = []json.RawMessage{json.RawMessage(raw)}
		}

		for _, block := range blocks {
			products = append(products, parseJSONLDBlock(block, baseURL)...)
		}
	})

	return products
}

func parseJSONLDBlock(block json.RawMessage, baseURL string) []catalog.Product {
	var typed struct {
		Type json.RawMessage `json:"@type"`
	}
	if err := json.Unmarshal(block, &typed); err != nil {
		return nil
	}

	switch {
	case hasType(typed.Type, "Product"):
		if p, ok := parseJSONLDProduct(block, baseURL); ok {
			return []catalog.Product{p}
		}
	case hasType(typed.Type, "ItemList"):
		var list jsonLDItemList
		if err := json.Unmarshal(block, &list); err != nil {
			return nil
		}
		var products []catalog.Product
		for _, el := range list.Elements {
			if len(el.Item) > 0 {
				if p, ok := parseJSONLDProduct(el.Item, baseURL); ok {
					products = append(products, p)
				}
			}
		}
		return products
	}
	return nil
}

func hasType(raw json.RawMessage, want string) bool {
	if len(raw) == 0 {
		return false
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return strings.EqualFold(single, want)
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		for _, t := range many {
			if strings.EqualFold(t, want) {
				return true
			}
		}
	}
	return false
}

func parseJSONLDProduct(block json.RawMessage, baseURL string) (catalog.Product, bool) {
	var ld jsonLDProduct
	if err := json.Unmarshal(block, &ld); err != nil {
		return catalog.Product{}, false
	}
	if !hasType(ld.Type, "Product") || strings.TrimSpace(ld.Name) == "" {
		return catalog.Product{}, false
	}

	productURL := NormalizeURL(ld.URL, baseURL)

	p := catalog.Product{
		Title:        fetchCleanTitle(ld.Name),
		Brand:        parseBrand(ld.Brand),
		URL:          productURL,
		ImageURL:     parseImage(ld.Image),
		Availability: catalog.AvailabilityUnknown,
	}

	if offer, ok := firstOffer(ld.Offer); ok {
		if price, priceOK := parseJSONNumber(offer.Price); priceOK {
			p.Price = &price
		}
		p.Currency = currency.NormalizeCode(offer.PriceCurrency)
		p.Availability = parseAvailability(offer.Availability)
		if p.URL == "" && offer.URL != "" {
			p.URL = NormalizeURL(offer.URL, baseURL)
		}
	}

	if p.URL == "" {
		return catalog.Product{}, false
	}
	p.ID = catalog.ProductID(p.URL)
	return p, true
}

func firstOffer(raw json.RawMessage) (jsonLDOffer, bool) {
	if len(raw) == 0 {
		return jsonLDOffer{}, false
	}
	var single jsonLDOffer
	if err := json.Unmarshal(raw, &single); err == nil && len(single.Price) > 0 {
		return single, true
	}
	var many []jsonLDOffer
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
		return many[0], true
	}
	if err := json.Unmarshal(raw, &single); err == nil {
		return single, true
	}
	return jsonLDOffer{}, false
}

// parseBrand handles brand as a plain string or a schema.org Brand object.
func parseBrand(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return strings.TrimSpace(obj.Name)
	}
	return ""
}

// parseImage handles image as a string or an array of strings.
func parseImage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
		return many[0]
	}
	return ""
}

// parseJSONNumber handles price given as a JSON number or a string.
func parseJSONNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return num, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParsePrice(s)
	}
	return 0, false
}

func parseAvailability(raw string) catalog.Availability {
	lowered := strings.ToLower(raw)
	switch {
	case strings.Contains(lowered, "instock"):
		return catalog.AvailabilityInStock
	case strings.Contains(lowered, "outofstock"), strings.Contains(lowered, "soldout"):
		return catalog.AvailabilityOutOfStock
	case strings.Contains(lowered, "preorder"):
		return catalog.AvailabilityPreorder
	default:
		return catalog.AvailabilityUnknown
	}
}

// ExtractMetaProduct builds a single product from social-preview meta tags
// (og: with twitter: fallbacks). Returns false when no usable title exists.
func ExtractMetaProduct(doc *goquery.Document, pageURL string) (catalog.Product, bool) {
	title := metaContent(doc, "og:title")
	if title == "" {
		title = metaContent(doc, "twitter:title")
	}
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		return catalog.Product{}, false
	}

	p := catalog.Product{
		Title:        fetchCleanTitle(title),
		URL:          NormalizeURL(pageURL, ""),
		ImageURL:     firstNonEmpty(metaContent(doc, "og:image"), metaContent(doc, "twitter:image")),
		Brand:        metaContent(doc, "og:site_name"),
		Availability: catalog.AvailabilityUnknown,
	}

	if amountStr := firstNonEmpty(
		metaContent(doc, "product:price:amount"),
		metaContent(doc, "og:price:amount"),
	); amountStr != "" {
		if price, ok := ParsePrice(amountStr); ok {
			p.Price = &price
		}
	}
	p.Currency = currency.NormalizeCode(firstNonEmpty(
		metaContent(doc, "product:price:currency"),
		metaContent(doc, "og:price:currency"),
	))

	if p.URL == "" {
		return catalog.Product{}, false
	}
	p.ID = catalog.ProductID(p.URL)
	return p, true
}

func metaContent(doc *goquery.Document, property string) string {
	selector := `meta[property="` + property + `"], meta[name="` + property + `"]`
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// fetchCleanTitle collapses whitespace runs inside a scraped title.
func fetchCleanTitle(title string) string {
	return strings.Join(strings.Fields(title), " ")
}

// ParsePrice extracts a numeric price from a scraped string such as
// "€ 49,99", "$120.00", or "1.299,00". Returns false when nothing numeric
// remains after stripping currency noise.
func ParsePrice(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, false
	}

	// Keep digits, separators, and minus; drop symbols and letters
	var sb strings.Builder
	for _, r := range cleaned {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			sb.WriteRune(r)
		}
	}
	numeric := sb.String()
	if numeric == "" || numeric == "-" {
		return 0, false
	}

	// European format: the last comma is the decimal separator when one or
	// two digits follow it. A trailing 3-digit group means every comma is a
	// thousands separator, as in "1,234" or "1,234,567".
	lastComma := strings.LastIndex(numeric, ",")
	lastDot := strings.LastIndex(numeric, ".")
	if lastComma > lastDot {
		if decimals := len(numeric) - lastComma - 1; decimals >= 1 && decimals <= 2 {
			intPart := strings.NewReplacer(".", "", ",", "").Replace(numeric[:lastComma])
			numeric = intPart + "." + numeric[lastComma+1:]
		} else {
			numeric = strings.NewReplacer(",", "", ".", "").Replace(numeric)
		}
	} else {
		numeric = strings.ReplaceAll(numeric, ",", "")
	}

	value, err := strconv.ParseFloat(numeric, 64)
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}
