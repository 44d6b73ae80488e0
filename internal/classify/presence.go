package classify

import (
	"context"
	"fmt"

	"github.com/traxovo/fleetrec/internal/model"
	"github.com/traxovo/fleetrec/internal/service"
)

// PresencePolicy classifies a driver Not On Job iff their name is absent from
// the driving history for the target date; everyone found is On Time. No
// lateness is computed. The whole history source can additionally be flagged
// as synthetic, which forces every driver to Not On Job.
type PresencePolicy struct{}

// NewPresencePolicy creates the presence policy.
func NewPresencePolicy() *PresencePolicy {
	return &PresencePolicy{}
}

// Name returns the policy name.
func (p *PresencePolicy) Name() string {
	return PolicyPresence
}

// Classify implements service.Classifier.
func (p *PresencePolicy) Classify(_ context.Context, in service.ClassifyInput) ([]model.ClassificationRecord, bool, error) {
	historyNames := make([]string, 0, len(in.History))
	for name := range in.History {
		historyNames = append(historyNames, name)
	}
	assetNames := make([]string, 0, len(in.Drivers))
	for _, d := range in.Drivers {
		assetNames = append(assetNames, d.Name)
	}

	if DetectTestData(historyNames, assetNames) {
		records := make([]model.ClassificationRecord, 0, len(in.Drivers))
		for _, d := range in.Drivers {
			records = append(records, model.ClassificationRecord{
				Driver:      d.Name,
				DisplayName: d.DisplayName,
				AssetIDs:    d.AssetIDs,
				JobSite:     d.PrimaryJobSite(),
				Status:      model.StatusNotOnJob,
				Reason:      "test data detected",
			})
		}
		return records, true, nil
	}

	present := historyByAssetName(in.Matches)

	records := make([]model.ClassificationRecord, 0, len(in.Drivers))
	for _, d := range in.Drivers {
		rec := model.ClassificationRecord{
			Driver:      d.Name,
			DisplayName: d.DisplayName,
			AssetIDs:    d.AssetIDs,
			JobSite:     d.PrimaryJobSite(),
		}

		if historyName, ok := present[d.Name]; ok {
			rec.InDrivingHistory = true
			rec.Status = model.StatusOnTime
			rec.Reason = fmt.Sprintf("matched driving history as %q", historyName)
			if hist, ok := in.History[historyName]; ok {
				rec.KeyOn = hist.KeyOn
				rec.KeyOff = hist.KeyOff
			}
		} else {
			rec.Status = model.StatusNotOnJob
			rec.Reason = "absent from driving history"
		}

		records = append(records, rec)
	}

	return records, false, nil
}
