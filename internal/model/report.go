package model

import "time"

// Summary holds the headline counts for one reconciliation run.
type Summary struct {
	TotalDrivers int `json:"total_drivers"`
	OnTime       int `json:"on_time"`
	Late         int `json:"late"`
	EarlyEnd     int `json:"early_end"`
	NotOnJob     int `json:"not_on_job"`
	ExactMatches int `json:"exact_matches"`
	FuzzyMatches int `json:"fuzzy_matches"`
	Unmatched    int `json:"unmatched"`
}

// Report is the canonical output of one reconciliation run, serialized as-is
// to JSON and flattened for the CSV/XLSX/PDF writers.
type Report struct {
	RunID      string                 `json:"run_id,omitempty"`
	Date       string                 `json:"date"`
	Policy     string                 `json:"policy"`
	IsTestData bool                   `json:"is_test_data,omitempty"`
	Drivers    []ClassificationRecord `json:"drivers"`
	Matches    []MatchRecord          `json:"matches,omitempty"`
	Summary    Summary                `json:"summary"`
}

// Tally recomputes Summary's status counts from the driver records.
func (r *Report) Tally() {
	s := Summary{
		TotalDrivers: len(r.Drivers),
		ExactMatches: r.Summary.ExactMatches,
		FuzzyMatches: r.Summary.FuzzyMatches,
		Unmatched:    r.Summary.Unmatched,
	}
	for _, d := range r.Drivers {
		switch d.Status {
		case StatusOnTime:
			s.OnTime++
		case StatusLate:
			s.Late++
		case StatusEarlyEnd:
			s.EarlyEnd++
		case StatusNotOnJob:
			s.NotOnJob++
		}
	}
	r.Summary = s
}

// Run is a persisted reconciliation run.
type Run struct {
	CreatedAt  time.Time
	ID         string
	Date       string
	Policy     string
	Summary    Summary
	IsTestData bool
}
