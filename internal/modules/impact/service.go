// README: Impact aggregator service; sole writer of profile weight stats.
package impact

import (
	"context"

	"reloop/internal/modules/pickup"
	"reloop/internal/types"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Apply folds measured materials into the profile's running totals.
// Satisfies pickup.Aggregator.
func (s *Service) Apply(ctx context.Context, profileID types.ID, materials []pickup.Material) error {
	return s.store.Increment(ctx, profileID, materials)
}

// Stats returns the profile's cumulative weights and their sum.
func (s *Service) Stats(ctx context.Context, profileID types.ID) (*Stats, error) {
	byMaterial, err := s.store.GetByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	st := &Stats{ProfileID: profileID, WeightByMaterial: byMaterial}
	for _, w := range byMaterial {
		st.TotalWeightKg += w
	}
	return st, nil
}
