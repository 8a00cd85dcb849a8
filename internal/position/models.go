package position

import "time"

// Position is one GPS sample belonging to a run. Seq is the per-run
// insertion order; metric ordering follows Seq, never DateTime, so
// backdated offline samples still count after their predecessors.
// Distance is cumulative kilometers within the run, Speed the sample's
// instantaneous speed in m/s; both are derived at insert time.
type Position struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Seq       int       `json:"seq"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	DateTime  time.Time `json:"date_time"`
	Speed     float64   `json:"speed"`
	Distance  float64   `json:"distance"`
	CreatedAt time.Time `json:"created_at"`
}
