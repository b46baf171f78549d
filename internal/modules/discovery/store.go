// README: Discovery store backed by Redis GEO; indexes open pickups by location.
package discovery

import (
	"context"

	"github.com/redis/go-redis/v9"

	"reloop/internal/types"
)

const openPickupGeoKey = "discovery:open_pickups"

type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

func (s *Store) Add(ctx context.Context, id types.ID, pos types.Point) error {
	return s.redis.GeoAdd(ctx, openPickupGeoKey, &redis.GeoLocation{
		Name:      string(id),
		Longitude: pos.Lng,
		Latitude:  pos.Lat,
	}).Err()
}

func (s *Store) Remove(ctx context.Context, id types.ID) error {
	return s.redis.ZRem(ctx, openPickupGeoKey, string(id)).Err()
}

// Nearby returns open pickup IDs within radiusKm of p, closest first.
func (s *Store) Nearby(ctx context.Context, p types.Point, radiusKm float64, limit int) ([]types.ID, error) {
	results, err := s.redis.GeoSearch(ctx, openPickupGeoKey, &redis.GeoSearchQuery{
		Longitude:  p.Lng,
		Latitude:   p.Lat,
		Radius:     radiusKm,
		RadiusUnit: "km",
		Sort:       "ASC",
		Count:      limit,
	}).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]types.ID, len(results))
	for i, r := range results {
		ids[i] = types.ID(r)
	}
	return ids, nil
}
