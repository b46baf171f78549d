// README: Impact store backed by PostgreSQL; increments are additive upserts.
package impact

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"reloop/internal/modules/pickup"
	"reloop/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Increment adds the given weights to the profile's per-material counters.
// The update is an increment, never an overwrite, so interleaved writers for
// the same profile cannot lose each other's updates.
func (s *Store) Increment(ctx context.Context, profileID types.ID, materials []pickup.Material) error {
	batch := &pgx.Batch{}
	for _, m := range materials {
		if m.WeightKg <= 0 {
			continue
		}
		batch.Queue(`
			INSERT INTO impact_stats (profile_id, material, weight_kg)
			VALUES ($1, $2, $3)
			ON CONFLICT (profile_id, material)
			DO UPDATE SET weight_kg = impact_stats.weight_kg + EXCLUDED.weight_kg`,
			string(profileID), string(m.Type), m.WeightKg,
		)
	}
	if batch.Len() == 0 {
		return nil
	}
	return s.db.SendBatch(ctx, batch).Close()
}

func (s *Store) GetByProfile(ctx context.Context, profileID types.ID) (map[pickup.MaterialType]float64, error) {
	rows, err := s.db.Query(ctx, `
		SELECT material, weight_kg FROM impact_stats WHERE profile_id = $1`,
		string(profileID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[pickup.MaterialType]float64)
	for rows.Next() {
		var material string
		var weight float64
		if err := rows.Scan(&material, &weight); err != nil {
			return nil, err
		}
		out[pickup.MaterialType(material)] = weight
	}
	return out, rows.Err()
}
