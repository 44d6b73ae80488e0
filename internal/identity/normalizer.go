// Package identity canonicalizes driver names and asset identifiers so the
// same person or machine can be recognized across differently formatted
// exports.
package identity

import (
	"regexp"
	"strings"
)

// Placeholder values that mean "no driver assigned". They normalize to the
// empty string, which callers must treat as no identity.
var placeholders = map[string]struct{}{
	"unassigned": {},
	"open":       {},
	"nan":        {},
	"none":       {},
	"n/a":        {},
	"na":         {},
	"tbd":        {},
	"vacant":     {},
	"spare":      {},
	"no driver":  {},
}

// Honorifics and generational suffixes stripped during normalization.
var dropTokens = map[string]struct{}{
	"mr":  {},
	"mrs": {},
	"ms":  {},
	"dr":  {},
	"jr":  {},
	"sr":  {},
	"ii":  {},
	"iii": {},
	"iv":  {},
}

var (
	punctRe      = regexp.MustCompile(`[^\pL\pN\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalizer canonicalizes raw driver names and remembers the original
// spelling of each normalized form for display.
type Normalizer struct {
	display map[string]string
}

// NewNormalizer creates an empty normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{display: make(map[string]string)}
}

// Normalize canonicalizes a raw driver name: lowercase, "Last, First" to
// "first last", honorifics and suffixes stripped, punctuation removed,
// whitespace collapsed. Placeholder values return the empty string. The
// function is idempotent.
func (n *Normalizer) Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	lower := strings.ToLower(trimmed)
	if _, ok := placeholders[lower]; ok {
		return ""
	}

	// "Last, First" -> "First Last". Only the first comma is significant.
	if before, after, found := strings.Cut(lower, ","); found {
		lower = strings.TrimSpace(after) + " " + strings.TrimSpace(before)
	}

	lower = punctRe.ReplaceAllString(lower, " ")

	fields := strings.Fields(lower)
	kept := fields[:0]
	for _, f := range fields {
		if _, drop := dropTokens[f]; drop {
			continue
		}
		kept = append(kept, f)
	}

	normalized := whitespaceRe.ReplaceAllString(strings.Join(kept, " "), " ")
	if normalized == "" {
		return ""
	}

	// Placeholders arrive decorated too ("*OPEN*", "N/A."), so the denylist
	// is consulted again once punctuation is gone. The compact form catches
	// slash-separated values whose strip leaves spaces ("n/a." -> "n a").
	if _, ok := placeholders[normalized]; ok {
		return ""
	}
	if _, ok := placeholders[strings.ReplaceAll(normalized, " ", "")]; ok {
		return ""
	}

	if _, seen := n.display[normalized]; !seen {
		n.display[normalized] = trimmed
	}
	return normalized
}

// DisplayName returns the original spelling first seen for a normalized name,
// falling back to the normalized form itself.
func (n *Normalizer) DisplayName(normalized string) string {
	if orig, ok := n.display[normalized]; ok {
		return orig
	}
	return normalized
}
