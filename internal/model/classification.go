package model

// Status is a driver's attendance classification for the target date.
type Status string

// Classification status constants.
const (
	StatusOnTime   Status = "On Time"
	StatusLate     Status = "Late"
	StatusEarlyEnd Status = "Early End"
	StatusNotOnJob Status = "Not On Job"
)

// AllStatuses lists every status in report order.
func AllStatuses() []Status {
	return []Status{StatusOnTime, StatusLate, StatusEarlyEnd, StatusNotOnJob}
}

// ClassificationRecord is the per-driver outcome of a reconciliation run.
type ClassificationRecord struct {
	Driver           string   `json:"driver"`
	DisplayName      string   `json:"display_name"`
	AssetIDs         []string `json:"asset_ids"`
	JobSite          string   `json:"job_site"`
	Status           Status   `json:"status"`
	Reason           string   `json:"reason"`
	KeyOn            string   `json:"key_on,omitempty"`
	KeyOff           string   `json:"key_off,omitempty"`
	MinutesLate      int      `json:"minutes_late,omitempty"`
	MinutesEarly     int      `json:"minutes_early,omitempty"`
	InDrivingHistory bool     `json:"in_driving_history"`
}
