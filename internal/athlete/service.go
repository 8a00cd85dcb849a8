package athlete

import (
	"context"
	"errors"

	"github.com/ArtemKhov/project-run/internal/db"

	"github.com/jackc/pgx/v5"
)

var (
	ErrWeightOutOfRange = errors.New("weight must be greater than 0 and less than 900")
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
	ErrCoachNotFound    = errors.New("coach not found")
	ErrNotACoach        = errors.New("user is not a coach")
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// UpsertProfile writes the athlete's goals and weight; a repeat submission
// overwrites. Weight outside (0, 900) is rejected before any write.
func (s *Service) UpsertProfile(ctx context.Context, profile Profile) (Profile, error) {
	if profile.Weight <= 0 || profile.Weight >= 900 {
		return Profile{}, ErrWeightOutOfRange
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO athlete_info (athlete_id, goals, weight)
		VALUES ($1,$2,$3)
		ON CONFLICT (athlete_id) DO UPDATE
		SET goals=EXCLUDED.goals, weight=EXCLUDED.weight, updated_at=now()
		RETURNING updated_at
	`, profile.AthleteID, profile.Goals, profile.Weight)
	if err := row.Scan(&profile.UpdatedAt); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

func (s *Service) GetProfile(ctx context.Context, athleteID string) (Profile, error) {
	row := s.db.QueryRow(ctx, `
		SELECT athlete_id, goals, weight, updated_at
		FROM athlete_info WHERE athlete_id=$1
	`, athleteID)
	var p Profile
	if err := row.Scan(&p.AthleteID, &p.Goals, &p.Weight, &p.UpdatedAt); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Subscribe links an athlete to a coach. At most one row per pair; a repeat
// subscribe reactivates an inactive subscription.
func (s *Service) Subscribe(ctx context.Context, athleteID, coachID string) (Subscription, error) {
	if err := s.verifyCoach(ctx, coachID); err != nil {
		return Subscription{}, err
	}

	sub := Subscription{AthleteID: athleteID, CoachID: coachID, IsActive: true}
	row := s.db.QueryRow(ctx, `
		INSERT INTO subscriptions (athlete_id, coach_id, is_active)
		VALUES ($1,$2,true)
		ON CONFLICT (athlete_id, coach_id) DO UPDATE SET is_active=true
		RETURNING created_at
	`, athleteID, coachID)
	if err := row.Scan(&sub.CreatedAt); err != nil {
		return Subscription{}, err
	}
	return sub, nil
}

func (s *Service) Unsubscribe(ctx context.Context, athleteID, coachID string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE subscriptions SET is_active=false
		WHERE athlete_id=$1 AND coach_id=$2
	`, athleteID, coachID)
	return err
}

func (s *Service) Subscriptions(ctx context.Context, athleteID string) ([]Subscription, error) {
	rows, err := s.db.Query(ctx, `
		SELECT athlete_id, coach_id, is_active, created_at
		FROM subscriptions WHERE athlete_id=$1
		ORDER BY created_at
	`, athleteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		var sub Subscription
		if err := rows.Scan(&sub.AthleteID, &sub.CoachID, &sub.IsActive, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// RateCoach records a 1-5 score; one row per (athlete, coach), later
// submissions overwrite.
func (s *Service) RateCoach(ctx context.Context, athleteID, coachID string, rating int) (Rating, error) {
	if rating < 1 || rating > 5 {
		return Rating{}, ErrRatingOutOfRange
	}
	if err := s.verifyCoach(ctx, coachID); err != nil {
		return Rating{}, err
	}

	r := Rating{AthleteID: athleteID, CoachID: coachID, Rating: rating}
	row := s.db.QueryRow(ctx, `
		INSERT INTO ratings (athlete_id, coach_id, rating)
		VALUES ($1,$2,$3)
		ON CONFLICT (athlete_id, coach_id) DO UPDATE SET rating=EXCLUDED.rating
		RETURNING created_at
	`, athleteID, coachID, rating)
	if err := row.Scan(&r.CreatedAt); err != nil {
		return Rating{}, err
	}
	return r, nil
}

func (s *Service) verifyCoach(ctx context.Context, coachID string) error {
	var role string
	err := s.db.QueryRow(ctx, `SELECT role FROM users WHERE id=$1`, coachID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrCoachNotFound
	}
	if err != nil {
		return err
	}
	if role != "coach" {
		return ErrNotACoach
	}
	return nil
}
