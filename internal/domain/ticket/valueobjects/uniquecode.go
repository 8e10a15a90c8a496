package valueobjects

import "regexp"

// canonicalCodePattern is the dashed lower-case hex shape every unique code is issued in.
// Older tickets were issued with other formats and are rejected wherever the shape matters.
var canonicalCodePattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// IsCanonicalCode reports whether code matches the canonical unique code shape.
func IsCanonicalCode(code string) bool {
	return canonicalCodePattern.MatchString(code)
}
