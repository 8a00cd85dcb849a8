package challenge

import (
	"context"
	"time"

	"github.com/ArtemKhov/project-run/internal/db"

	"github.com/jackc/pgx/v5/pgconn"
)

// Badge names match the catalog the mobile clients localize on.
const (
	BadgeTenRuns     = "Сделай 10 Забегов!"
	BadgeFiftyKm     = "Пробеги 50 километров!"
	BadgeTwoKmTenMin = "2 километра за 10 минут!"
)

type Challenge struct {
	ID        int64     `json:"id"`
	AthleteID string    `json:"athlete_id"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats are the facts a finished run contributes: counters over all of the
// athlete's finished runs (including the run that just finished) plus the
// finished run's own metrics.
type Stats struct {
	AthleteID      string
	FinishedRuns   int
	TotalKm        float64
	RunDistanceKm  float64
	RunTimeSeconds int
}

type rule struct {
	fullName string
	met      func(Stats) bool
}

// Rules are independent of each other; adding a badge is a new table entry.
var rules = []rule{
	{BadgeTenRuns, func(s Stats) bool { return s.FinishedRuns >= 10 }},
	{BadgeFiftyKm, func(s Stats) bool { return s.TotalKm >= 50 }},
	{BadgeTwoKmTenMin, func(s Stats) bool {
		return s.RunDistanceKm >= 2.0 && s.RunTimeSeconds > 0 && s.RunTimeSeconds <= 600
	}},
}

// Execer is the slice of Querier a grant needs; pgx.Tx satisfies it, so the
// engine runs inside the caller's stop-run transaction.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Assign grants every badge whose rule the stats satisfy. Grants are
// find-or-create: the unique (athlete_id, full_name) constraint makes a
// repeat grant a no-op.
func Assign(ctx context.Context, q Execer, stats Stats) error {
	for _, r := range rules {
		if !r.met(stats) {
			continue
		}
		_, err := q.Exec(ctx, `
			INSERT INTO challenges (athlete_id, full_name)
			VALUES ($1,$2)
			ON CONFLICT (athlete_id, full_name) DO NOTHING
		`, stats.AthleteID, r.fullName)
		if err != nil {
			return err
		}
	}
	return nil
}

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) ListByAthlete(ctx context.Context, athleteID string) ([]Challenge, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, athlete_id, full_name, created_at
		FROM challenges WHERE athlete_id=$1
		ORDER BY created_at
	`, athleteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []Challenge
	for rows.Next() {
		var ch Challenge
		if err := rows.Scan(&ch.ID, &ch.AthleteID, &ch.FullName, &ch.CreatedAt); err != nil {
			return nil, err
		}
		challenges = append(challenges, ch)
	}
	return challenges, nil
}
