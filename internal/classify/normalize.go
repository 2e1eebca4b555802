// Package classify provides text normalization and heuristic memory
// classification for ingested chat turns.
package classify

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	bulletRe     = regexp.MustCompile(`(?m)^\s*(?:[-*•]|\d+[.)])\s+`)
	speakerRe    = regexp.MustCompile(`(?i)^(?:user|assistant|system)\s*:\s*`)
)

// Normalize lowercases text, strips ingestion noise (markdown bullets,
// speaker prefixes, markdown emphasis) and collapses whitespace.
func Normalize(text string) string {
	t := speakerRe.ReplaceAllString(text, "")
	t = bulletRe.ReplaceAllString(t, "")
	t = strings.ReplaceAll(t, "**", "")
	t = strings.ReplaceAll(t, "`", "")
	t = strings.ToLower(t)
	t = whitespaceRe.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}
