package run

import (
	"context"
	"errors"

	"github.com/ArtemKhov/project-run/internal/challenge"
	"github.com/ArtemKhov/project-run/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrRunNotFound     = errors.New("run not found")
	ErrAlreadyStarted  = errors.New("run already started")
	ErrAlreadyFinished = errors.New("run already finished")
	ErrNeverStarted    = errors.New("cannot stop a run that was never started")
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) CreateRun(ctx context.Context, input Run) (Run, error) {
	input.ID = uuid.NewString()
	input.Status = StatusInit
	row := s.db.QueryRow(ctx, `
		INSERT INTO runs (id, athlete_id, comment, status)
		VALUES ($1,$2,$3,$4)
		RETURNING distance, run_time_seconds, speed, created_at
	`, input.ID, input.AthleteID, input.Comment, input.Status)
	if err := row.Scan(&input.Distance, &input.RunTimeSeconds, &input.Speed, &input.CreatedAt); err != nil {
		return Run{}, err
	}
	return input, nil
}

func (s *Service) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, athlete_id, comment, status, distance, run_time_seconds, speed, created_at
		FROM runs WHERE id=$1
	`, id)
	var r Run
	if err := row.Scan(&r.ID, &r.AthleteID, &r.Comment, &r.Status, &r.Distance, &r.RunTimeSeconds, &r.Speed, &r.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Run{}, ErrRunNotFound
		}
		return Run{}, err
	}
	return r, nil
}

// ListRuns filters by athlete and/or status; empty filters list everything.
func (s *Service) ListRuns(ctx context.Context, athleteID string, status Status) ([]Run, error) {
	query := `
		SELECT id, athlete_id, comment, status, distance, run_time_seconds, speed, created_at
		FROM runs
		WHERE ($1 = '' OR athlete_id = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at
	`
	rows, err := s.db.Query(ctx, query, athleteID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.AthleteID, &r.Comment, &r.Status, &r.Distance, &r.RunTimeSeconds, &r.Speed, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, nil
}

func (s *Service) DeleteRun(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM runs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRunNotFound
	}
	return nil
}

// Start flips init -> in_progress. Any other source state is a conflict and
// leaves the run untouched.
func (s *Service) Start(ctx context.Context, id string) (Status, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status Status
	err = tx.QueryRow(ctx, `SELECT status FROM runs WHERE id=$1 FOR UPDATE`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrRunNotFound
	}
	if err != nil {
		return "", err
	}

	switch status {
	case StatusInProgress:
		return "", ErrAlreadyStarted
	case StatusFinished:
		return "", ErrAlreadyFinished
	}

	if _, err := tx.Exec(ctx, `UPDATE runs SET status=$2 WHERE id=$1`, id, StatusInProgress); err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return StatusInProgress, nil
}

// Stop flips in_progress -> finished and derives the whole-run metrics from
// the full position history, then recomputes the athlete's cumulative stats
// and runs the challenge rules. Everything happens in one transaction
// holding the run row, so a concurrent or retried stop errors on the state
// check instead of recomputing or re-granting.
func (s *Service) Stop(ctx context.Context, id string) (StopResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return StopResult{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var athleteID string
	var status Status
	err = tx.QueryRow(ctx, `SELECT athlete_id, status FROM runs WHERE id=$1 FOR UPDATE`, id).Scan(&athleteID, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return StopResult{}, ErrRunNotFound
	}
	if err != nil {
		return StopResult{}, err
	}

	switch status {
	case StatusFinished:
		return StopResult{}, ErrAlreadyFinished
	case StatusInit:
		return StopResult{}, ErrNeverStarted
	}

	samples, err := loadSamples(ctx, tx, id)
	if err != nil {
		return StopResult{}, err
	}

	distance := totalDistanceKm(samples)
	seconds := elapsedSeconds(samples)
	speed := averageSpeedMps(distance, seconds, len(samples))

	_, err = tx.Exec(ctx, `
		UPDATE runs SET status=$2, distance=$3, run_time_seconds=$4, speed=$5
		WHERE id=$1
	`, id, StatusFinished, distance, seconds, speed)
	if err != nil {
		return StopResult{}, err
	}

	var finishedRuns int
	var totalKm float64
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(distance), 0)
		FROM runs WHERE athlete_id=$1 AND status=$2
	`, athleteID, StatusFinished).Scan(&finishedRuns, &totalKm)
	if err != nil {
		return StopResult{}, err
	}

	err = challenge.Assign(ctx, tx, challenge.Stats{
		AthleteID:      athleteID,
		FinishedRuns:   finishedRuns,
		TotalKm:        totalKm,
		RunDistanceKm:  distance,
		RunTimeSeconds: seconds,
	})
	if err != nil {
		return StopResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return StopResult{}, err
	}

	return StopResult{
		Status:         StatusFinished,
		Distance:       distance,
		RunTimeSeconds: seconds,
		AverageSpeed:   speed,
	}, nil
}

func loadSamples(ctx context.Context, tx pgx.Tx, runID string) ([]sample, error) {
	rows, err := tx.Query(ctx, `
		SELECT latitude, longitude, date_time
		FROM positions
		WHERE run_id=$1
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []sample
	for rows.Next() {
		var s sample
		if err := rows.Scan(&s.lat, &s.lng, &s.at); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}
