package identity

import (
	"regexp"
	"strings"
)

// Keywords anywhere in an asset ID that mark it as towed equipment.
var trailerKeywords = []string{
	"TRAILER",
	"FLATBED",
	"LOWBOY",
	"DOLLY",
	"CHASSIS",
}

// Short trailer codes matched only as whole tokens, so "CTRL-1" stays a
// vehicle while "BIG TLR 9" does not.
var trailerTokens = map[string]struct{}{
	"TLR": {},
	"TRL": {},
}

// ID prefixes used by the fleet for trailers.
var trailerPrefixRe = regexp.MustCompile(`^(T-|TLR-|TR-|TRLR-|TRAILER-)`)

var idTokenRe = regexp.MustCompile(`[^A-Z0-9]+`)

// NormalizeAssetID canonicalizes an equipment identifier: uppercase, trimmed.
func NormalizeAssetID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// IsTrailer reports whether an asset ID names towed equipment. Trailers have
// no operator of their own and are excluded from driver matching.
func IsTrailer(assetID string) bool {
	id := NormalizeAssetID(assetID)
	if id == "" {
		return false
	}
	if trailerPrefixRe.MatchString(id) {
		return true
	}
	for _, kw := range trailerKeywords {
		if strings.Contains(id, kw) {
			return true
		}
	}
	for _, tok := range idTokenRe.Split(id, -1) {
		if _, ok := trailerTokens[tok]; ok {
			return true
		}
	}
	return false
}
