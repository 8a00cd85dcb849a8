package item

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ArtemKhov/project-run/internal/db"
	"github.com/ArtemKhov/project-run/internal/shared/geo"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CollectRadiusM is the capture radius; the boundary is inclusive.
const CollectRadiusM = 100.0

const (
	catalogCacheKey = "collectible_items"
	catalogCacheTTL = 5 * time.Minute
)

var (
	ErrLatitudeOutOfRange  = errors.New("latitude must be between -90 and 90")
	ErrLongitudeOutOfRange = errors.New("longitude must be between -180 and 180")
)

type Service struct {
	db    db.Querier
	redis *redis.Client
}

func NewService(db db.Querier, redisClient *redis.Client) *Service {
	return &Service{db: db, redis: redisClient}
}

func (s *Service) CreateItem(ctx context.Context, input Item) (Item, error) {
	if input.Latitude < -90 || input.Latitude > 90 {
		return Item{}, ErrLatitudeOutOfRange
	}
	if input.Longitude < -180 || input.Longitude > 180 {
		return Item{}, ErrLongitudeOutOfRange
	}

	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO collectible_items (id, name, uid, value, latitude, longitude, picture_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at
	`, input.ID, input.Name, input.UID, input.Value, input.Latitude, input.Longitude, input.PictureURL)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Item{}, err
	}

	s.invalidateCatalog(ctx)
	return input, nil
}

// Catalog returns every item, through the cache when one is configured.
// The catalog is read on every recorded position, so cache misses fall back
// to the database and repopulate.
func (s *Service) Catalog(ctx context.Context) ([]Item, error) {
	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, catalogCacheKey).Bytes(); err == nil {
			var items []Item
			if err := json.Unmarshal(raw, &items); err == nil {
				return items, nil
			}
		}
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, name, uid, value, latitude, longitude, COALESCE(picture_url,''), created_at
		FROM collectible_items
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.UID, &it.Value, &it.Latitude, &it.Longitude, &it.PictureURL, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	if s.redis != nil && items != nil {
		if raw, err := json.Marshal(items); err == nil {
			_ = s.redis.Set(ctx, catalogCacheKey, raw, catalogCacheTTL).Err()
		}
	}
	return items, nil
}

// CollectAt scans the whole catalog and records the athlete as a collector
// of every item within the capture radius of the given point. Collecting is
// a monotonic set-add: an already-collected item is a no-op.
func (s *Service) CollectAt(ctx context.Context, athleteID string, lat, lng float64) ([]Item, error) {
	items, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	var collected []Item
	for _, it := range items {
		if geo.HaversineM(lat, lng, it.Latitude, it.Longitude) > CollectRadiusM {
			continue
		}
		_, err := s.db.Exec(ctx, `
			INSERT INTO item_collections (item_id, athlete_id)
			VALUES ($1,$2)
			ON CONFLICT (item_id, athlete_id) DO NOTHING
		`, it.ID, athleteID)
		if err != nil {
			return collected, err
		}
		collected = append(collected, it)
	}
	return collected, nil
}

func (s *Service) GetItem(ctx context.Context, id string) (Item, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, uid, value, latitude, longitude, COALESCE(picture_url,''), created_at
		FROM collectible_items WHERE id=$1
	`, id)
	var it Item
	if err := row.Scan(&it.ID, &it.Name, &it.UID, &it.Value, &it.Latitude, &it.Longitude, &it.PictureURL, &it.CreatedAt); err != nil {
		return Item{}, err
	}
	return it, nil
}

// CollectedBy lists every item the athlete has picked up, in collection
// order.
func (s *Service) CollectedBy(ctx context.Context, athleteID string) ([]Item, error) {
	rows, err := s.db.Query(ctx, `
		SELECT i.id, i.name, i.uid, i.value, i.latitude, i.longitude, COALESCE(i.picture_url,''), i.created_at
		FROM collectible_items i
		JOIN item_collections c ON c.item_id = i.id
		WHERE c.athlete_id=$1
		ORDER BY c.collected_at
	`, athleteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.UID, &it.Value, &it.Latitude, &it.Longitude, &it.PictureURL, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func (s *Service) Collectors(ctx context.Context, itemID string) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT athlete_id FROM item_collections
		WHERE item_id=$1
		ORDER BY collected_at
	`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var athleteIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		athleteIDs = append(athleteIDs, id)
	}
	return athleteIDs, nil
}

func (s *Service) invalidateCatalog(ctx context.Context) {
	if s.redis != nil {
		_ = s.redis.Del(ctx, catalogCacheKey).Err()
	}
}
