// README: Pickup store backed by PostgreSQL; UpdateStatus is the CAS primitive.
package pickup

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"reloop/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const pickupColumns = `
	id, requester_id, driver_id, status, status_version,
	address, lat, lng, materials, pickup_time, note,
	disclaimer_accepted, cancelled_by,
	created_at, accepted_at, started_at, completed_at, cancelled_at`

func (s *Store) Create(ctx context.Context, p *Pickup) error {
	materials, err := json.Marshal(p.Materials)
	if err != nil {
		return err
	}
	var lat, lng *float64
	if p.Coords != nil {
		lat, lng = &p.Coords.Lat, &p.Coords.Lng
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO pickups (
			id, requester_id, driver_id, status, status_version,
			address, lat, lng, materials, pickup_time, note,
			disclaimer_accepted, created_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11,
			$12, $13
		)`,
		string(p.ID),
		string(p.RequesterID),
		toStringPtr(p.DriverID),
		string(p.Status),
		p.StatusVersion,
		p.Address,
		lat, lng,
		materials,
		p.PickupTime,
		p.Note,
		p.DisclaimerAccepted,
		p.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Pickup, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+pickupColumns+` FROM pickups WHERE id = $1`, string(id))
	p, err := scanPickup(row)
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// Filter narrows List results. Zero-value fields are ignored.
type Filter struct {
	Status      Status
	RequesterID types.ID
	DriverID    types.ID
	Limit       int
}

// List returns a fresh snapshot on every call; there is no caching layer.
func (s *Store) List(ctx context.Context, f Filter) ([]*Pickup, error) {
	query := `SELECT ` + pickupColumns + ` FROM pickups WHERE 1=1`
	args := []any{}
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.RequesterID != "" {
		args = append(args, string(f.RequesterID))
		query += fmt.Sprintf(" AND requester_id = $%d", len(args))
	}
	if f.DriverID != "" {
		args = append(args, string(f.DriverID))
		query += fmt.Sprintf(" AND driver_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Pickup
	for rows.Next() {
		p, err := scanPickup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateStatus is the sole mutation primitive: a compare-and-swap on
// (id, status, status_version). It reports whether exactly one row changed;
// false with a nil error means another transition won the race.
// materials and cancelledBy only overwrite when non-nil.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, driverID *types.ID, materials []Material, cancelledBy *string) (bool, error) {
	var materialsJSON []byte
	if materials != nil {
		b, err := json.Marshal(materials)
		if err != nil {
			return false, err
		}
		materialsJSON = b
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE pickups
		SET status = $1,
		    status_version = status_version + 1,
		    driver_id = COALESCE($2, driver_id),
		    materials = COALESCE($3::jsonb, materials),
		    cancelled_by = COALESCE($4, cancelled_by),
		    accepted_at = CASE WHEN $1 = 'accepted' THEN NOW() ELSE accepted_at END,
		    started_at = CASE WHEN $1 = 'in_progress' THEN NOW() ELSE started_at END,
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END,
		    cancelled_at = CASE WHEN $1 = 'cancelled' THEN NOW() ELSE cancelled_at END
		WHERE id = $5 AND status = $6 AND status_version = $7`,
		string(to),
		toStringPtr(driverID),
		materialsJSON,
		cancelledBy,
		string(id),
		string(from),
		version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// CountActiveByRequester counts pickups holding a quota slot. The read is a
// best-effort snapshot relative to the subsequent insert; the cap is a
// fairness limit, not a safety invariant.
func (s *Store) CountActiveByRequester(ctx context.Context, requesterID types.ID) (int, error) {
	row := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM pickups
		WHERE requester_id = $1
		  AND status IN ('pending','accepted','in_progress')`,
		string(requesterID),
	)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO pickup_state_events (
			pickup_id, from_status, to_status, actor_type, actor_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.PickupID),
		string(e.FromStatus),
		string(e.ToStatus),
		e.ActorType,
		toStringPtr(e.ActorID),
		e.CreatedAt,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPickup(row rowScanner) (*Pickup, error) {
	var p Pickup
	var driverID, note, cancelledBy sql.NullString
	var lat, lng sql.NullFloat64
	var materials []byte
	var acceptedAt, startedAt, completedAt, cancelledAt sql.NullTime

	err := row.Scan(
		&p.ID, &p.RequesterID, &driverID, &p.Status, &p.StatusVersion,
		&p.Address, &lat, &lng, &materials, &p.PickupTime, &note,
		&p.DisclaimerAccepted, &cancelledBy,
		&p.CreatedAt, &acceptedAt, &startedAt, &completedAt, &cancelledAt,
	)
	if err != nil {
		return nil, err
	}

	if driverID.Valid {
		d := types.ID(driverID.String)
		p.DriverID = &d
	}
	if lat.Valid && lng.Valid {
		p.Coords = &types.Point{Lat: lat.Float64, Lng: lng.Float64}
	}
	if err := json.Unmarshal(materials, &p.Materials); err != nil {
		return nil, err
	}
	if note.Valid {
		p.Note = &note.String
	}
	if cancelledBy.Valid {
		p.CancelledBy = &cancelledBy.String
	}
	p.AcceptedAt = toTimePtr(acceptedAt)
	p.StartedAt = toTimePtr(startedAt)
	p.CompletedAt = toTimePtr(completedAt)
	p.CancelledAt = toTimePtr(cancelledAt)
	return &p, nil
}

func toStringPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func toTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
