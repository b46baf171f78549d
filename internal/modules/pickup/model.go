// README: Pickup aggregate, material types, and status definitions.
package pickup

import (
	"time"

	"reloop/internal/types"
)

type Status string

const (
	StatusNone       Status = "none"
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

type MaterialType string

const (
	MaterialPlastic   MaterialType = "plastic"
	MaterialPaper     MaterialType = "paper"
	MaterialGlass     MaterialType = "glass"
	MaterialCardboard MaterialType = "cardboard"
	MaterialAluminum  MaterialType = "aluminum"
	MaterialCopper    MaterialType = "copper"
	MaterialAppliance MaterialType = "appliance"
	MaterialEWaste    MaterialType = "ewaste"
)

var knownMaterials = map[MaterialType]bool{
	MaterialPlastic:   true,
	MaterialPaper:     true,
	MaterialGlass:     true,
	MaterialCardboard: true,
	MaterialAluminum:  true,
	MaterialCopper:    true,
	MaterialAppliance: true,
	MaterialEWaste:    true,
}

func IsKnownMaterial(t MaterialType) bool {
	return knownMaterials[t]
}

// Material is one weighable line item on a pickup. WeightKg is a requester
// estimate (may be 0) until completion, when it becomes the measured value.
type Material struct {
	Type     MaterialType `json:"type"`
	WeightKg float64      `json:"weight_kg"`
}

type Pickup struct {
	ID                 types.ID
	RequesterID        types.ID
	DriverID           *types.ID
	Status             Status
	StatusVersion      int
	Address            string
	Coords             *types.Point
	Materials          []Material
	PickupTime         time.Time
	Note               *string
	DisclaimerAccepted bool
	CancelledBy        *string
	CreatedAt          time.Time
	AcceptedAt         *time.Time
	StartedAt          *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
}

type Event struct {
	ID         int64
	PickupID   types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	ActorID    *types.ID
	CreatedAt  time.Time
}

// AllowedTransitions represents the pickup state flow (diagram) as code.
var AllowedTransitions = map[Status][]Status{
	StatusPending:    {StatusAccepted, StatusCancelled},
	StatusAccepted:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

func IsTerminal(s Status) bool {
	return s == StatusCompleted || s == StatusCancelled
}
