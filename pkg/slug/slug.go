package slug

import (
	"regexp"
	"strings"
)

var (
	stripRe    = regexp.MustCompile(`[^a-z0-9\s-]`)
	collapseRe = regexp.MustCompile(`[\s-]+`)
)

// Make converts free text into a URL slug: lowercase, strip anything outside
// [a-z0-9], whitespace and hyphens, then collapse whitespace/hyphen runs into
// a single hyphen. Idempotent, so Make(Make(s)) == Make(s).
func Make(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = stripRe.ReplaceAllString(s, "")
	s = collapseRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
