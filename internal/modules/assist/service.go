package assist

import (
	"context"

	"reloop/internal/ai"
	"reloop/internal/modules/pickup"
)

// Service guards the material classifier behind a monthly per-user allowance.
type Service struct {
	store      *Store
	classifier ai.Classifier
}

// NewService creates a Service backed by the given Store and Classifier.
func NewService(store *Store, classifier ai.Classifier) *Service {
	return &Service{store: store, classifier: classifier}
}

// Classify deducts one request from the caller's allowance and runs the
// classifier. The regulated flag is re-derived from the authoritative set so
// a model mistake cannot bypass the disclaimer gate.
func (s *Service) Classify(ctx context.Context, uid, description string) (*ai.Classification, error) {
	if err := s.useRequest(ctx, uid); err != nil {
		return nil, err
	}

	result, err := s.classifier.ClassifyMaterial(ctx, description)
	if err != nil {
		return nil, err
	}
	if t := pickup.MaterialType(result.Material); pickup.IsKnownMaterial(t) {
		result.Regulated = pickup.IsRegulated(t)
	}
	return result, nil
}

// useRequest deducts one request, initialising the user row on first use.
func (s *Service) useRequest(ctx context.Context, uid string) error {
	err := s.store.UseRequest(ctx, uid)
	if err != ErrInsufficientRequests {
		return err
	}

	// Row may be missing: try to create it, then retry the deduction once.
	if initErr := s.store.EnsureUser(ctx, uid); initErr != nil {
		return initErr
	}
	return s.store.UseRequest(ctx, uid)
}
