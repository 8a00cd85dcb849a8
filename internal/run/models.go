package run

import "time"

type Status string

// Lifecycle is one-way: init -> in_progress -> finished.
const (
	StatusInit       Status = "init"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

// Run is one athlete session. Distance (km), RunTimeSeconds and Speed
// (average, m/s) stay zero until the run finishes; after that they are
// immutable outputs of the single stop event.
type Run struct {
	ID             string    `json:"id"`
	AthleteID      string    `json:"athlete_id"`
	Comment        string    `json:"comment"`
	Status         Status    `json:"status"`
	Distance       float64   `json:"distance"`
	RunTimeSeconds int       `json:"run_time_seconds"`
	Speed          float64   `json:"speed"`
	CreatedAt      time.Time `json:"created_at"`
}

// StopResult echoes the metrics derived by a successful stop.
type StopResult struct {
	Status         Status  `json:"status"`
	Distance       float64 `json:"distance"`
	RunTimeSeconds int     `json:"run_time_seconds"`
	AverageSpeed   float64 `json:"average_speed"`
}
