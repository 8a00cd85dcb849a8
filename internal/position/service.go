package position

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/ArtemKhov/project-run/internal/db"
	"github.com/ArtemKhov/project-run/internal/item"
	"github.com/ArtemKhov/project-run/internal/shared/geo"

	"github.com/jackc/pgx/v5"
)

var (
	ErrRunNotFound         = errors.New("run not found")
	ErrRunNotInProgress    = errors.New("run is not in progress")
	ErrLatitudeOutOfRange  = errors.New("latitude must be between -90 and 90")
	ErrLongitudeOutOfRange = errors.New("longitude must be between -180 and 180")
)

type Service struct {
	db        db.Querier
	collector *item.Service
}

// NewService wires the position ingest path. collector may be nil when
// proximity collection is not wanted.
func NewService(db db.Querier, collector *item.Service) *Service {
	return &Service{db: db, collector: collector}
}

// Record validates and inserts one GPS sample, deriving its cumulative
// distance and instantaneous speed against the previous sample of the same
// run. The predecessor read, sequence assignment and insert happen in one
// transaction holding the run row, so concurrent inserts for the same run
// serialize instead of computing against a stale predecessor.
func (s *Service) Record(ctx context.Context, input Position) (Position, error) {
	if input.Latitude < -90 || input.Latitude > 90 {
		return Position{}, ErrLatitudeOutOfRange
	}
	if input.Longitude < -180 || input.Longitude > 180 {
		return Position{}, ErrLongitudeOutOfRange
	}
	if input.DateTime.IsZero() {
		input.DateTime = time.Now()
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Position{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var athleteID, status string
	err = tx.QueryRow(ctx, `
		SELECT athlete_id, status FROM runs WHERE id=$1 FOR UPDATE
	`, input.RunID).Scan(&athleteID, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return Position{}, ErrRunNotFound
	}
	if err != nil {
		return Position{}, err
	}
	if status != "in_progress" {
		return Position{}, ErrRunNotInProgress
	}

	var prev Position
	hasPrev := true
	err = tx.QueryRow(ctx, `
		SELECT seq, latitude, longitude, date_time, distance
		FROM positions
		WHERE run_id=$1
		ORDER BY seq DESC
		LIMIT 1
	`, input.RunID).Scan(&prev.Seq, &prev.Latitude, &prev.Longitude, &prev.DateTime, &prev.Distance)
	if errors.Is(err, pgx.ErrNoRows) {
		hasPrev = false
	} else if err != nil {
		return Position{}, err
	}

	if hasPrev {
		input.Seq = prev.Seq + 1
		segmentKm := geo.HaversineKm(prev.Latitude, prev.Longitude, input.Latitude, input.Longitude)
		input.Distance = round2(prev.Distance + segmentKm)
		input.Speed = segmentSpeed(segmentKm, input.DateTime.Sub(prev.DateTime))
	} else {
		input.Seq = 1
		input.Distance = 0.0
		input.Speed = 0.0
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO positions (run_id, seq, latitude, longitude, date_time, speed, distance)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at
	`, input.RunID, input.Seq, input.Latitude, input.Longitude, input.DateTime, input.Speed, input.Distance)
	if err := row.Scan(&input.ID, &input.CreatedAt); err != nil {
		return Position{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Position{}, err
	}

	// Collection runs after commit: the position is already durable, and
	// CollectAt is a monotonic set-add, so a failure here is retried by the
	// next recorded position rather than failing the whole request.
	if s.collector != nil {
		if _, err := s.collector.CollectAt(ctx, athleteID, input.Latitude, input.Longitude); err != nil {
			logf("item collection failed for athlete %s: %v", athleteID, err)
		}
	}

	return input, nil
}

var logf = log.Printf

// segmentSpeed is the sample's instantaneous speed in m/s. A non-positive
// time delta (offline batches can arrive out of timestamp order) yields 0.0
// rather than a division error.
func segmentSpeed(segmentKm float64, delta time.Duration) float64 {
	seconds := delta.Seconds()
	if seconds <= 0 {
		return 0.0
	}
	return round2(segmentKm * 1000 / seconds)
}

func (s *Service) ListByRun(ctx context.Context, runID string) ([]Position, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, run_id, seq, latitude, longitude, date_time, speed, distance, created_at
		FROM positions
		WHERE run_id=$1
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []Position
	for rows.Next() {
		var p Position
		if err := rows.Scan(&p.ID, &p.RunID, &p.Seq, &p.Latitude, &p.Longitude, &p.DateTime, &p.Speed, &p.Distance, &p.CreatedAt); err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
