// Package currency provides currency code canonicalization and static
// rate conversion for product prices.
package currency

import (
	"math"
	"strings"
)

// ratesToEUR holds the static conversion table, expressed as the amount of
// EUR one unit of the currency buys. All conversions pivot through EUR.
var ratesToEUR = map[string]float64{
	"EUR": 1.0,
	"USD": 0.92,
	"GBP": 1.17,
	"JPY": 0.0061,
	"CHF": 1.04,
	"SEK": 0.087,
	"DKK": 0.134,
	"NOK": 0.085,
	"PLN": 0.23,
	"CZK": 0.04,
	"CAD": 0.68,
	"AUD": 0.60,
	"CNY": 0.13,
	"KRW": 0.00063,
	"INR": 0.011,
	"BRL": 0.17,
	"MXN": 0.05,
	"TRY": 0.028,
}

// symbolCodes maps currency symbols and common words to ISO codes.
var symbolCodes = map[string]string{
	"€":        "EUR",
	"$":        "USD",
	"£":        "GBP",
	"¥":        "JPY",
	"euro":     "EUR",
	"euros":    "EUR",
	"dollar":   "USD",
	"dollars":  "USD",
	"usd":      "USD",
	"pound":    "GBP",
	"pounds":   "GBP",
	"sterling": "GBP",
	"yen":      "JPY",
	"franc":    "CHF",
	"francs":   "CHF",
	"krona":    "SEK",
	"kronor":   "SEK",
	"krone":    "DKK",
	"zloty":    "PLN",
	"yuan":     "CNY",
	"renminbi": "CNY",
	"rmb":      "CNY",
	"won":      "KRW",
	"rupee":    "INR",
	"rupees":   "INR",
	"real":     "BRL",
	"reais":    "BRL",
	"peso":     "MXN",
	"pesos":    "MXN",
	"lira":     "TRY",
}

// countryCurrencies maps ISO2/ISO3 country codes and common country names
// to their default currency.
var countryCurrencies = map[string]string{
	"DE": "EUR", "DEU": "EUR", "GERMANY": "EUR",
	"FR": "EUR", "FRA": "EUR", "FRANCE": "EUR",
	"IT": "EUR", "ITA": "EUR", "ITALY": "EUR",
	"ES": "EUR", "ESP": "EUR", "SPAIN": "EUR",
	"NL": "EUR", "NLD": "EUR", "NETHERLANDS": "EUR",
	"AT": "EUR", "AUT": "EUR", "AUSTRIA": "EUR",
	"PT": "EUR", "PRT": "EUR", "PORTUGAL": "EUR",
	"IE": "EUR", "IRL": "EUR", "IRELAND": "EUR",
	"FI": "EUR", "FIN": "EUR", "FINLAND": "EUR",
	"BE": "EUR", "BEL": "EUR", "BELGIUM": "EUR",
	"GR": "EUR", "GRC": "EUR", "GREECE": "EUR",
	"US": "USD", "USA": "USD", "UNITED STATES": "USD", "AMERICA": "USD",
	"GB": "GBP", "GBR": "GBP", "UK": "GBP", "UNITED KINGDOM": "GBP", "ENGLAND": "GBP",
	"JP": "JPY", "JPN": "JPY", "JAPAN": "JPY",
	"CH": "CHF", "CHE": "CHF", "SWITZERLAND": "CHF",
	"SE": "SEK", "SWE": "SEK", "SWEDEN": "SEK",
	"DK": "DKK", "DNK": "DKK", "DENMARK": "DKK",
	"NO": "NOK", "NOR": "NOK", "NORWAY": "NOK",
	"PL": "PLN", "POL": "PLN", "POLAND": "PLN",
	"CZ": "CZK", "CZE": "CZK", "CZECHIA": "CZK", "CZECH REPUBLIC": "CZK",
	"CA": "CAD", "CAN": "CAD", "CANADA": "CAD",
	"AU": "AUD", "AUS": "AUD", "AUSTRALIA": "AUD",
	"CN": "CNY", "CHN": "CNY", "CHINA": "CNY",
	"KR": "KRW", "KOR": "KRW", "SOUTH KOREA": "KRW", "KOREA": "KRW",
	"IN": "INR", "IND": "INR", "INDIA": "INR",
	"BR": "BRL", "BRA": "BRL", "BRAZIL": "BRL",
	"MX": "MXN", "MEX": "MXN", "MEXICO": "MXN",
	"TR": "TRY", "TUR": "TRY", "TURKEY": "TRY",
}

// NormalizeCode canonicalizes a raw currency token (symbol, ISO code in any
// case, or common word) to an uppercase ISO code. Returns "" when the input
// is not recognized. Never panics.
func NormalizeCode(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	// Symbols and common words first (case-insensitive for words)
	if code, ok := symbolCodes[trimmed]; ok {
		return code
	}
	if code, ok := symbolCodes[strings.ToLower(trimmed)]; ok {
		return code
	}

	// Three-letter ISO codes, any case
	upper := strings.ToUpper(trimmed)
	if _, ok := ratesToEUR[upper]; ok {
		return upper
	}

	return ""
}

// FromCountry returns the default currency for a country given as an ISO2
// or ISO3 code or a common English name. Returns "" for unknown inputs.
func FromCountry(country string) string {
	key := strings.ToUpper(strings.TrimSpace(country))
	if key == "" {
		return ""
	}
	return countryCurrencies[key]
}

// Convert converts an amount between two currencies using the static
// EUR-pivot rate table, rounding to whole units. When either code is not in
// the table the original amount is returned unchanged: callers must never
// fail because a rate is missing. Equal source and target short-circuit to
// the rounded input.
func Convert(amount float64, from, to string) float64 {
	fromCode := NormalizeCode(from)
	toCode := NormalizeCode(to)

	if fromCode == "" || toCode == "" {
		return amount
	}
	if fromCode == toCode {
		return math.Round(amount)
	}

	fromRate, okFrom := ratesToEUR[fromCode]
	toRate, okTo := ratesToEUR[toCode]
	if !okFrom || !okTo {
		return amount
	}

	eur := amount * fromRate
	return math.Round(eur / toRate)
}

// KnownCodes returns the ISO codes present in the rate table.
func KnownCodes() []string {
	codes := make([]string, 0, len(ratesToEUR))
	for code := range ratesToEUR {
		codes = append(codes, code)
	}
	return codes
}
