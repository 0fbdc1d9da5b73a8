package tailoring

import "strings"

// MaxInputLength caps free-text fields before they reach hashing, caching,
// or the rewrite service.
const MaxInputLength = 10000

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// SanitizeInput trims whitespace, strips angle brackets, and truncates to
// MaxInputLength. Defense in depth, not a correctness requirement; it runs
// before cache-key computation so sanitized and unsanitized variants of the
// same input land on the same cache entry.
func SanitizeInput(input string) string {
	cleaned := angleBrackets.Replace(strings.TrimSpace(input))
	if len(cleaned) > MaxInputLength {
		cleaned = cleaned[:MaxInputLength]
	}
	return cleaned
}
