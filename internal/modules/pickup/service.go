// README: Pickup lifecycle engine: validation gates, state transitions, persistence.
package pickup

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"reloop/internal/config"
	"reloop/internal/types"
)

// Resolver turns a free-text address into coordinates. Resolution failure is
// non-fatal for creation; the pickup keeps the raw address either way.
type Resolver interface {
	Resolve(ctx context.Context, address string) (types.Point, error)
}

// Aggregator folds measured material weights into a profile's running impact
// statistics. Invoked once per successful complete transition.
type Aggregator interface {
	Apply(ctx context.Context, profileID types.ID, materials []Material) error
}

// OpenIndex tracks geolocated pending pickups for driver discovery.
// Index errors never fail a lifecycle transition.
type OpenIndex interface {
	MarkOpen(ctx context.Context, id types.ID, pos types.Point) error
	MarkClosed(ctx context.Context, id types.ID) error
}

type Service struct {
	store    *Store
	resolver Resolver
	impact   Aggregator
	index    OpenIndex
	cfg      config.PickupConfig
}

func NewService(store *Store, resolver Resolver, impact Aggregator, index OpenIndex, cfg config.PickupConfig) *Service {
	return &Service{store: store, resolver: resolver, impact: impact, index: index, cfg: cfg}
}

var (
	ErrBadRequest         = errors.New("bad request")
	ErrDisclaimerRequired = errors.New("disclaimer acceptance required for regulated materials")
	ErrQuotaExceeded      = errors.New("active pickup quota exceeded")
	ErrNotFound           = errors.New("pickup not found")
	ErrForbidden          = errors.New("actor not allowed to perform this transition")
	ErrInvalidState       = errors.New("invalid state transition")
	ErrAlreadyAccepted    = errors.New("pickup already accepted")
	ErrConflict           = errors.New("pickup state conflict")
)

const (
	ActorRequester = "requester"
	ActorDriver    = "driver"
)

type CreateCommand struct {
	RequesterID        types.ID
	Address            string
	Coords             *types.Point
	Materials          []Material
	PickupTime         time.Time
	Note               string
	DisclaimerAccepted bool
}

type AcceptCommand struct {
	PickupID types.ID
	DriverID types.ID
}

type StartCommand struct {
	PickupID types.ID
	DriverID types.ID
}

type CompleteCommand struct {
	PickupID types.ID
	DriverID types.ID
	Measured []Material
}

type CancelCommand struct {
	PickupID types.ID
	ActorID  types.ID
}

// Create validates the draft (fields, disclaimer gate, quota guard), resolves
// the address when possible, and persists the pickup as pending.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Pickup, error) {
	if cmd.RequesterID == "" || cmd.Address == "" || len(cmd.Materials) == 0 {
		return nil, ErrBadRequest
	}
	for _, m := range cmd.Materials {
		if !IsKnownMaterial(m.Type) || m.WeightKg < 0 {
			return nil, ErrBadRequest
		}
	}
	leadTime := time.Duration(s.cfg.LeadTimeHours) * time.Hour
	if cmd.PickupTime.Before(time.Now().Add(leadTime)) {
		return nil, ErrBadRequest
	}
	if err := CheckDisclaimer(cmd.Materials, cmd.DisclaimerAccepted); err != nil {
		return nil, err
	}

	active, err := s.store.CountActiveByRequester(ctx, cmd.RequesterID)
	if err != nil {
		return nil, err
	}
	if active >= s.cfg.MaxActive {
		return nil, ErrQuotaExceeded
	}

	coords := cmd.Coords
	if coords == nil && s.resolver != nil {
		if pt, err := s.resolver.Resolve(ctx, cmd.Address); err != nil {
			log.Printf("pickup create: address resolution failed for %q: %v", cmd.Address, err)
		} else {
			coords = &pt
		}
	}

	now := time.Now()
	p := &Pickup{
		ID:                 newID(),
		RequesterID:        cmd.RequesterID,
		Status:             StatusPending,
		StatusVersion:      0,
		Address:            cmd.Address,
		Coords:             coords,
		Materials:          cmd.Materials,
		PickupTime:         cmd.PickupTime,
		DisclaimerAccepted: cmd.DisclaimerAccepted,
		CreatedAt:          now,
	}
	if cmd.Note != "" {
		p.Note = &cmd.Note
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	_ = s.store.AppendEvent(ctx, &Event{
		PickupID:   p.ID,
		FromStatus: StatusNone,
		ToStatus:   StatusPending,
		ActorType:  ActorRequester,
		ActorID:    &cmd.RequesterID,
		CreatedAt:  now,
	})
	if s.index != nil && p.Coords != nil {
		if err := s.index.MarkOpen(ctx, p.ID, *p.Coords); err != nil {
			log.Printf("pickup create: discovery index update failed for %s: %v", p.ID, err)
		}
	}
	return p, nil
}

// Accept is the race-critical transition: of all concurrent accepts for one
// pending pickup, exactly one CAS succeeds; every loser gets ErrAlreadyAccepted.
func (s *Service) Accept(ctx context.Context, cmd AcceptCommand) (*Pickup, error) {
	if cmd.DriverID == "" {
		return nil, ErrBadRequest
	}
	p, err := s.store.Get(ctx, cmd.PickupID)
	if err != nil {
		return nil, err
	}
	switch p.Status {
	case StatusPending:
		// fall through to the CAS below
	case StatusCancelled:
		return nil, ErrInvalidState
	default:
		return nil, ErrAlreadyAccepted
	}

	ok, err := s.store.UpdateStatus(ctx, p.ID, StatusPending, StatusAccepted, p.StatusVersion, &cmd.DriverID, nil, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyAccepted
	}
	_ = s.store.AppendEvent(ctx, &Event{
		PickupID:   p.ID,
		FromStatus: StatusPending,
		ToStatus:   StatusAccepted,
		ActorType:  ActorDriver,
		ActorID:    &cmd.DriverID,
		CreatedAt:  time.Now(),
	})
	s.closeIndexEntry(ctx, p.ID)
	return s.store.Get(ctx, p.ID)
}

func (s *Service) Start(ctx context.Context, cmd StartCommand) (*Pickup, error) {
	p, err := s.store.Get(ctx, cmd.PickupID)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusAccepted {
		return nil, ErrInvalidState
	}
	if p.DriverID == nil || *p.DriverID != cmd.DriverID {
		return nil, ErrForbidden
	}

	ok, err := s.store.UpdateStatus(ctx, p.ID, StatusAccepted, StatusInProgress, p.StatusVersion, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	_ = s.store.AppendEvent(ctx, &Event{
		PickupID:   p.ID,
		FromStatus: StatusAccepted,
		ToStatus:   StatusInProgress,
		ActorType:  ActorDriver,
		ActorID:    &cmd.DriverID,
		CreatedAt:  time.Now(),
	})
	return s.store.Get(ctx, p.ID)
}

// Complete overwrites the estimated weights with measured values, finishes the
// pickup, and feeds the impact aggregator. The terminal status is authoritative
// even when the stats write fails; statsPending reports that case so the caller
// can surface a warning.
func (s *Service) Complete(ctx context.Context, cmd CompleteCommand) (p *Pickup, statsPending bool, err error) {
	if len(cmd.Measured) == 0 {
		return nil, false, ErrBadRequest
	}
	positive := false
	for _, m := range cmd.Measured {
		if !IsKnownMaterial(m.Type) || m.WeightKg < 0 {
			return nil, false, ErrBadRequest
		}
		if m.WeightKg > 0 {
			positive = true
		}
	}
	if !positive {
		return nil, false, ErrBadRequest
	}

	p, err = s.store.Get(ctx, cmd.PickupID)
	if err != nil {
		return nil, false, err
	}
	if p.Status != StatusInProgress {
		return nil, false, ErrInvalidState
	}
	if p.DriverID == nil || *p.DriverID != cmd.DriverID {
		return nil, false, ErrForbidden
	}

	ok, err := s.store.UpdateStatus(ctx, p.ID, StatusInProgress, StatusCompleted, p.StatusVersion, nil, cmd.Measured, nil)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, ErrConflict
	}
	_ = s.store.AppendEvent(ctx, &Event{
		PickupID:   p.ID,
		FromStatus: StatusInProgress,
		ToStatus:   StatusCompleted,
		ActorType:  ActorDriver,
		ActorID:    &cmd.DriverID,
		CreatedAt:  time.Now(),
	})

	if s.impact != nil {
		for _, profileID := range []types.ID{p.RequesterID, cmd.DriverID} {
			if err := s.impact.Apply(ctx, profileID, cmd.Measured); err != nil {
				log.Printf("pickup complete: stats update failed for profile %s: %v", profileID, err)
				statsPending = true
			}
		}
	}

	p, err = s.store.Get(ctx, p.ID)
	return p, statsPending, err
}

// Cancel is allowed from pending (requester only) and accepted (requester or
// assigned driver). The actor's side is derived from the pickup itself, not
// from a caller-supplied role, so an account that drives elsewhere can still
// cancel its own requests. Cancellation is terminal; the pickup is never
// re-opened.
func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) (*Pickup, error) {
	if cmd.ActorID == "" {
		return nil, ErrBadRequest
	}
	p, err := s.store.Get(ctx, cmd.PickupID)
	if err != nil {
		return nil, err
	}
	var role string
	switch p.Status {
	case StatusPending:
		if cmd.ActorID != p.RequesterID {
			return nil, ErrForbidden
		}
		role = ActorRequester
	case StatusAccepted:
		switch {
		case cmd.ActorID == p.RequesterID:
			role = ActorRequester
		case p.DriverID != nil && cmd.ActorID == *p.DriverID:
			role = ActorDriver
		default:
			return nil, ErrForbidden
		}
	default:
		return nil, ErrInvalidState
	}

	ok, err := s.store.UpdateStatus(ctx, p.ID, p.Status, StatusCancelled, p.StatusVersion, nil, nil, &role)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	_ = s.store.AppendEvent(ctx, &Event{
		PickupID:   p.ID,
		FromStatus: p.Status,
		ToStatus:   StatusCancelled,
		ActorType:  role,
		ActorID:    &cmd.ActorID,
		CreatedAt:  time.Now(),
	})
	s.closeIndexEntry(ctx, p.ID)
	return s.store.Get(ctx, p.ID)
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Pickup, error) {
	return s.store.Get(ctx, id)
}

// ListOpen returns pending pickups for driver discovery.
func (s *Service) ListOpen(ctx context.Context, limit int) ([]*Pickup, error) {
	return s.store.List(ctx, Filter{Status: StatusPending, Limit: limit})
}

func (s *Service) ListByRequester(ctx context.Context, requesterID types.ID) ([]*Pickup, error) {
	return s.store.List(ctx, Filter{RequesterID: requesterID})
}

func (s *Service) ListByDriver(ctx context.Context, driverID types.ID) ([]*Pickup, error) {
	return s.store.List(ctx, Filter{DriverID: driverID})
}

func (s *Service) closeIndexEntry(ctx context.Context, id types.ID) {
	if s.index == nil {
		return
	}
	if err := s.index.MarkClosed(ctx, id); err != nil {
		log.Printf("pickup: discovery index removal failed for %s: %v", id, err)
	}
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
