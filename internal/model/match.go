package model

// MatchType indicates how a driving-history name was resolved against the
// asset list.
type MatchType string

// Match type constants.
const (
	MatchExact MatchType = "exact"
	MatchFuzzy MatchType = "fuzzy"
	MatchNone  MatchType = "none"
)

// MatchRecord is one attempted resolution of a driving-history name. Records
// are kept for failures too, so every attempt is auditable. AssetListName is
// empty when Type is MatchNone; Score then holds the best rejected score.
type MatchRecord struct {
	HistoryName   string    `json:"history_name"`
	AssetListName string    `json:"asset_list_name,omitempty"`
	Type          MatchType `json:"match_type"`
	Score         int       `json:"score"`
}

// Accepted reports whether the record resolved to an asset-list identity.
func (r MatchRecord) Accepted() bool {
	return r.Type == MatchExact || r.Type == MatchFuzzy
}

// MatchResult is the full output of one matcher run: the accepted mapping
// from driving-history name to asset-list name, plus the audit trail of every
// attempt.
type MatchResult struct {
	Matches map[string]string
	Audit   []MatchRecord
}

// MatchSummary aggregates audit records by type.
func (r *MatchResult) MatchSummary() (exact, fuzzy, unmatched int) {
	for _, rec := range r.Audit {
		switch rec.Type {
		case MatchExact:
			exact++
		case MatchFuzzy:
			fuzzy++
		case MatchNone:
			unmatched++
		}
	}
	return exact, fuzzy, unmatched
}
