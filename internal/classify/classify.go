// Package classify assigns attendance statuses to asset-list drivers.
//
// Two policies exist and were never reconciled upstream, so the choice is
// explicit run state: "presence" classifies purely on whether a driver
// appears in the driving history, "schedule" compares recorded key-on/key-off
// times to scheduled shift windows. Every report names the policy in force.
package classify

import (
	"fmt"
	"time"

	"github.com/traxovo/fleetrec/internal/common"
	"github.com/traxovo/fleetrec/internal/service"
)

// Policy names.
const (
	PolicyPresence = "presence"
	PolicySchedule = "schedule"
)

// DefaultPolicy is the policy used when none is configured.
const DefaultPolicy = PolicySchedule

// ScheduleOptions tunes the schedule policy.
type ScheduleOptions struct {
	DefaultStart string
	DefaultEnd   string
	LateGrace    time.Duration
	EarlyGrace   time.Duration
}

// withDefaults fills unset options with the fleet's standard shift window and
// grace periods.
func (o ScheduleOptions) withDefaults() ScheduleOptions {
	if o.DefaultStart == "" {
		o.DefaultStart = "07:00"
	}
	if o.DefaultEnd == "" {
		o.DefaultEnd = "17:30"
	}
	if o.LateGrace <= 0 {
		o.LateGrace = 15 * time.Minute
	}
	if o.EarlyGrace <= 0 {
		o.EarlyGrace = 30 * time.Minute
	}
	return o
}

// ForName constructs the named classification policy.
func ForName(name string, opts ScheduleOptions) (service.Classifier, error) {
	switch name {
	case PolicyPresence:
		return NewPresencePolicy(), nil
	case PolicySchedule:
		return NewSchedulePolicy(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownPolicy, name)
	}
}

// historyByAssetName inverts the match map so each asset-list name points at
// the driving-history name it was resolved from. Two history names can fuzzy-
// resolve to the same asset-list name; the lexically first wins so the pick
// does not depend on map iteration order.
func historyByAssetName(matches map[string]string) map[string]string {
	inverted := make(map[string]string, len(matches))
	for historyName, assetName := range matches {
		if existing, ok := inverted[assetName]; ok && existing < historyName {
			continue
		}
		inverted[assetName] = historyName
	}
	return inverted
}

// minutesOfDay parses an "HH:MM" clock into minutes since midnight, or -1 for
// empty or malformed input.
func minutesOfDay(clock string) int {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return -1
	}
	return t.Hour()*60 + t.Minute()
}
