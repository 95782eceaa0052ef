package cleaner

import (
	"regexp"
	"strings"
)

// skuDigits matches a bare "SKU" prefix glued to digits, after spaces and
// underscores have been stripped.
var skuDigits = regexp.MustCompile(`^SKU(\d+)$`)

// nullTokens are string spellings of missing values seen in real feeds.
var nullTokens = map[string]bool{
	"none": true,
	"nan":  true,
	"null": true,
}

// NormalizeSKU canonicalizes a raw stock unit identifier. The empty string
// result means the value is missing: empty or whitespace-only input and the
// literal tokens "none", "nan", and "null" (case-insensitive) all normalize
// to "". Any other value is upper-cased and stripped of internal spaces and
// underscores, and a "SKU<digits>" spelling is rewritten to "SKU-<digits>".
//
// NormalizeSKU is idempotent: normalizing an already-normalized value
// returns it unchanged.
func NormalizeSKU(val string) string {
	s := strings.TrimSpace(val)
	if s == "" {
		return ""
	}
	if nullTokens[strings.ToLower(s)] {
		return ""
	}

	s = strings.ToUpper(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	return skuDigits.ReplaceAllString(s, "SKU-$1")
}
