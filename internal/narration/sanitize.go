package narration

import "strings"

// denylist holds the engine-internal vocabulary that must never reach a
// shopper. Matching is case-insensitive on whole words.
var denylist = []string{
	"adapter",
	"cache",
	"deployment",
	"fallback",
	"pipeline",
	"retry",
	"scraper",
	"timeout",
	"worker",
}

// fallbackCopy replaces a message the sanitizer had to gut entirely.
const fallbackCopy = "Your look is on its way."

// Sanitize removes lines that leak engine internals from rendered copy.
// A line mentioning any denylisted term is dropped wholesale rather than
// patched, since a patched sentence tends to read worse than no sentence.
// If nothing survives, a neutral message is returned instead.
func Sanitize(message string) string {
	lines := strings.Split(message, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if containsDenylisted(line) {
			continue
		}
		kept = append(kept, line)
	}

	out := strings.TrimSpace(strings.Join(kept, "\n"))
	if out == "" {
		return fallbackCopy
	}
	return out
}

func containsDenylisted(line string) bool {
	lower := strings.ToLower(line)
	for _, term := range denylist {
		idx := strings.Index(lower, term)
		for idx >= 0 {
			if isWordBoundary(lower, idx, idx+len(term)) {
				return true
			}
			next := strings.Index(lower[idx+1:], term)
			if next < 0 {
				break
			}
			idx += 1 + next
		}
	}
	return false
}

func isWordBoundary(s string, start, end int) bool {
	if start > 0 && isWordChar(s[start-1]) {
		return false
	}
	if end < len(s) && isWordChar(s[end]) {
		return false
	}
	return true
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
