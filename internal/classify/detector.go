package classify

import "strings"

// First and last names that dominate synthetic telematics exports. A real
// fleet export with zero asset-list overlap is already suspicious; when the
// names in it are mostly built from these, the export is treated as test data.
var (
	placeholderFirst = map[string]struct{}{
		"john": {}, "jane": {}, "michael": {}, "test": {}, "demo": {}, "sample": {},
	}
	placeholderLast = map[string]struct{}{
		"smith": {}, "doe": {}, "johnson": {}, "test": {}, "driver": {},
	}
)

// DetectTestData reports whether a driving-history export looks synthetic:
// no name overlaps the asset list, and at least half of the history names are
// placeholder first/last combinations.
func DetectTestData(historyNames, assetListNames []string) bool {
	if len(historyNames) == 0 {
		return false
	}

	assetSet := make(map[string]struct{}, len(assetListNames))
	for _, name := range assetListNames {
		assetSet[name] = struct{}{}
	}

	placeholders := 0
	for _, name := range historyNames {
		if _, overlap := assetSet[name]; overlap {
			return false
		}
		if isPlaceholderName(name) {
			placeholders++
		}
	}

	return placeholders > 0 && placeholders*2 >= len(historyNames)
}

func isPlaceholderName(normalized string) bool {
	fields := strings.Fields(normalized)
	if len(fields) < 2 {
		return false
	}

	_, firstOK := placeholderFirst[fields[0]]
	_, lastOK := placeholderLast[fields[len(fields)-1]]
	return firstOK && lastOK
}
