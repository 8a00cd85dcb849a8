package athlete

import "time"

type Profile struct {
	AthleteID string    `json:"athlete_id"`
	Goals     string    `json:"goals"`
	Weight    float64   `json:"weight"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Subscription struct {
	AthleteID string    `json:"athlete_id"`
	CoachID   string    `json:"coach_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Rating struct {
	AthleteID string    `json:"athlete_id"`
	CoachID   string    `json:"coach_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}
