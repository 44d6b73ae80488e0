package classify

import (
	"context"
	"fmt"

	"github.com/traxovo/fleetrec/internal/model"
	"github.com/traxovo/fleetrec/internal/service"
)

// SchedulePolicy classifies each driver against their scheduled shift window:
// no key-on recorded means Not On Job, a key-on past the start grace is Late,
// a key-off before the end grace is Early End, anything else is On Time.
type SchedulePolicy struct {
	opts ScheduleOptions
}

// NewSchedulePolicy creates the schedule policy with the given options.
func NewSchedulePolicy(opts ScheduleOptions) *SchedulePolicy {
	return &SchedulePolicy{opts: opts.withDefaults()}
}

// Name returns the policy name.
func (p *SchedulePolicy) Name() string {
	return PolicySchedule
}

// Classify implements service.Classifier.
func (p *SchedulePolicy) Classify(_ context.Context, in service.ClassifyInput) ([]model.ClassificationRecord, bool, error) {
	present := historyByAssetName(in.Matches)

	records := make([]model.ClassificationRecord, 0, len(in.Drivers))
	for _, d := range in.Drivers {
		rec := model.ClassificationRecord{
			Driver:      d.Name,
			DisplayName: d.DisplayName,
			AssetIDs:    d.AssetIDs,
			JobSite:     d.PrimaryJobSite(),
		}

		var hist model.DrivingRecord
		if historyName, ok := present[d.Name]; ok {
			hist = in.History[historyName]
			rec.InDrivingHistory = true
			rec.KeyOn = hist.KeyOn
			rec.KeyOff = hist.KeyOff
		}

		p.classifyOne(&rec, hist, in.Shifts[d.Name])
		records = append(records, rec)
	}

	return records, false, nil
}

// classifyOne applies the shift-window state machine to a single driver.
func (p *SchedulePolicy) classifyOne(rec *model.ClassificationRecord, hist model.DrivingRecord, shift model.ShiftEntry) {
	keyOn := minutesOfDay(hist.KeyOn)
	if keyOn < 0 {
		rec.Status = model.StatusNotOnJob
		rec.Reason = "no key-on recorded"
		return
	}

	start := minutesOfDay(shift.ScheduledStart)
	if start < 0 {
		start = minutesOfDay(p.opts.DefaultStart)
	}
	end := minutesOfDay(shift.ScheduledEnd)
	if end < 0 {
		end = minutesOfDay(p.opts.DefaultEnd)
	}

	lateGrace := int(p.opts.LateGrace.Minutes())
	if keyOn > start+lateGrace {
		rec.Status = model.StatusLate
		rec.MinutesLate = keyOn - start
		rec.Reason = fmt.Sprintf("key-on %s is %d minutes after scheduled start", hist.KeyOn, rec.MinutesLate)
		return
	}

	keyOff := minutesOfDay(hist.KeyOff)
	earlyGrace := int(p.opts.EarlyGrace.Minutes())
	if keyOff >= 0 && keyOff < end-earlyGrace {
		rec.Status = model.StatusEarlyEnd
		rec.MinutesEarly = end - keyOff
		rec.Reason = fmt.Sprintf("key-off %s is %d minutes before scheduled end", hist.KeyOff, rec.MinutesEarly)
		return
	}

	rec.Status = model.StatusOnTime
	rec.Reason = "within scheduled shift window"
}
