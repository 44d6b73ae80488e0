// Package model defines the core domain models used throughout the application.
package model

// AssetKind distinguishes powered equipment from towed equipment.
type AssetKind string

// Asset kind constants.
const (
	AssetVehicle AssetKind = "VEHICLE"
	AssetTrailer AssetKind = "TRAILER"
)

// AssetAssignment is one row of the asset list: a piece of equipment with the
// driver and job site it is assigned to. Trailers carry no driver of their own
// and are excluded from identity matching.
type AssetAssignment struct {
	AssetID   string
	DriverRaw string
	JobSite   string
	Kind      AssetKind
}

// DrivingRecord is one row of a daily driving-history export: a key-on/key-off
// pair for a driver on an asset. Zero times mean the event was not recorded.
type DrivingRecord struct {
	KeyOn     string
	KeyOff    string
	DriverRaw string
	AssetID   string
}

// ShiftEntry is one timesheet row giving a driver's scheduled shift window in
// HH:MM local time.
type ShiftEntry struct {
	DriverRaw      string
	ScheduledStart string
	ScheduledEnd   string
}
