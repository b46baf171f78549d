// README: Impact statistics projection (cumulative weight per material).
package impact

import (
	"reloop/internal/modules/pickup"
	"reloop/internal/types"
)

// Stats is the derived, best-effort projection of a profile's recycling
// impact. Completed pickups are the source of truth.
type Stats struct {
	ProfileID        types.ID
	WeightByMaterial map[pickup.MaterialType]float64
	TotalWeightKg    float64
}
