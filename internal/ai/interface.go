package ai

import (
	"context"
)

// Classifier maps a free-text item description to a recyclable material
// category. Advisory only: the disclaimer gate in the pickup module remains
// the enforcement point for regulated materials.
type Classifier interface {
	ClassifyMaterial(ctx context.Context, description string) (*Classification, error)
}
