package loader

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Layouts accepted for time-of-day cells, tried in order.
var clockLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04:05 PM",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
}

// parseClock coerces a raw cell into an "HH:MM" clock string. Excel numeric
// cells arrive as day fractions and are converted. Unparseable values coerce
// to the empty string rather than failing the row.
func parseClock(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}

	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(value)); err == nil {
			return t.Format("15:04")
		}
	}

	// Excel serial time: fraction of a day, possibly with a whole-day part.
	if f, err := cast.ToFloat64E(value); err == nil && f >= 0 {
		frac := f - float64(int64(f))
		minutes := int(frac*24*60 + 0.5)
		return fmt.Sprintf("%02d:%02d", (minutes/60)%24, minutes%60)
	}

	return ""
}
