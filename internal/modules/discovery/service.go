// README: Discovery service; best-effort geo index of open pickups for drivers.
package discovery

import (
	"context"

	"reloop/internal/config"
	"reloop/internal/types"
)

type Service struct {
	store *Store
	cfg   config.DiscoveryConfig
}

func NewService(store *Store, cfg config.DiscoveryConfig) *Service {
	return &Service{store: store, cfg: cfg}
}

// MarkOpen registers a pending pickup's position. Satisfies pickup.OpenIndex.
func (s *Service) MarkOpen(ctx context.Context, id types.ID, pos types.Point) error {
	return s.store.Add(ctx, id, pos)
}

// MarkClosed drops a pickup from the index once it is no longer pending.
func (s *Service) MarkClosed(ctx context.Context, id types.ID) error {
	return s.store.Remove(ctx, id)
}

// NearbyOpen lists open pickup IDs around p, closest first. radiusKm <= 0
// falls back to the configured default.
func (s *Service) NearbyOpen(ctx context.Context, p types.Point, radiusKm float64, limit int) ([]types.ID, error) {
	if radiusKm <= 0 {
		radiusKm = s.cfg.RadiusKm
	}
	return s.store.Nearby(ctx, p, radiusKm, limit)
}
