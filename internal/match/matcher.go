// Package match resolves driving-history driver names against the
// authoritative asset list, exact equality first and token-sort-ratio fuzzy
// matching second.
package match

import (
	"context"
	"sort"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/traxovo/fleetrec/internal/model"
)

// DefaultThreshold is the minimum token-sort ratio for an accepted fuzzy
// match. Below it a name is reported unmatched rather than tagged with a
// low-confidence guess.
const DefaultThreshold = 85

// FuzzyMatcher implements service.Matcher.
type FuzzyMatcher struct {
	threshold int
}

// NewMatcher creates a matcher with the given acceptance threshold.
// Non-positive thresholds fall back to DefaultThreshold.
func NewMatcher(threshold int) *FuzzyMatcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &FuzzyMatcher{threshold: threshold}
}

// Threshold returns the acceptance threshold in force.
func (m *FuzzyMatcher) Threshold() int {
	return m.threshold
}

// Match resolves every distinct driving-history name. Exact set membership is
// checked first and always outranks fuzzy similarity; remaining names take
// the single best-scoring asset-list candidate at or above the threshold.
// Every attempt, including failures, lands in the audit list.
func (m *FuzzyMatcher) Match(_ context.Context, assetListNames, historyNames []string) (*model.MatchResult, error) {
	pool := make(map[string]struct{}, len(assetListNames))
	for _, name := range assetListNames {
		if name != "" {
			pool[name] = struct{}{}
		}
	}

	// Candidates sorted once so fuzzy tie-breaks are deterministic.
	candidates := make([]string, 0, len(pool))
	for name := range pool {
		candidates = append(candidates, name)
	}
	sort.Strings(candidates)

	targets := dedupeSorted(historyNames)

	result := &model.MatchResult{
		Matches: make(map[string]string, len(targets)),
		Audit:   make([]model.MatchRecord, 0, len(targets)),
	}

	for _, name := range targets {
		if _, ok := pool[name]; ok {
			result.Matches[name] = name
			result.Audit = append(result.Audit, model.MatchRecord{
				HistoryName:   name,
				AssetListName: name,
				Type:          model.MatchExact,
				Score:         100,
			})
			continue
		}

		best, bestScore := "", 0
		for _, candidate := range candidates {
			if score := fuzzy.TokenSortRatio(name, candidate); score > bestScore {
				best, bestScore = candidate, score
			}
		}

		if bestScore >= m.threshold {
			result.Matches[name] = best
			result.Audit = append(result.Audit, model.MatchRecord{
				HistoryName:   name,
				AssetListName: best,
				Type:          model.MatchFuzzy,
				Score:         bestScore,
			})
		} else {
			result.Audit = append(result.Audit, model.MatchRecord{
				HistoryName: name,
				Type:        model.MatchNone,
				Score:       bestScore,
			})
		}
	}

	return result, nil
}

// dedupeSorted returns the distinct non-empty values in sorted order.
func dedupeSorted(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
