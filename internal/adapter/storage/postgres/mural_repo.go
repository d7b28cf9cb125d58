package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"sanctuary-mural/internal/core/domain"
)

// MuralRepo implements ports.MuralRepository.
type MuralRepo struct {
	pool Pool
}

// NewMuralRepo creates a new MuralRepo.
func NewMuralRepo(pool Pool) *MuralRepo {
	return &MuralRepo{pool: pool}
}

// Load returns the sanctuary's pixels in allocation order.
func (r *MuralRepo) Load(ctx context.Context, sanctuary string) (*domain.MuralState, error) {
	query := `SELECT id, donation_id, received_at, data, identifier, email, column_index, row_index
		FROM mural_pixels WHERE sanctuary = $1 ORDER BY seq`

	rows, err := r.pool.Query(ctx, query, sanctuary)
	if err != nil {
		return nil, fmt.Errorf("load mural: %w", err)
	}
	defer rows.Close()

	state := &domain.MuralState{Pixels: []domain.Pixel{}}
	for rows.Next() {
		var p domain.Pixel
		var data []byte
		if err := rows.Scan(
			&p.ID, &p.DonationID, &p.ReceivedAt, &data,
			&p.Identifier, &p.Email, &p.Column, &p.Row,
		); err != nil {
			return nil, fmt.Errorf("scan pixel: %w", err)
		}
		if data != nil {
			p.Data = json.RawMessage(data)
		}
		state.Pixels = append(state.Pixels, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pixels: %w", err)
	}
	return state, nil
}

// Allocated returns which of keys already have pixels in sanctuary.
func (r *MuralRepo) Allocated(ctx context.Context, sanctuary string, keys []string) (map[string]bool, error) {
	found := make(map[string]bool)
	if len(keys) == 0 {
		return found, nil
	}

	query := `SELECT dedup_key FROM mural_allocations WHERE sanctuary = $1 AND dedup_key = ANY($2)`

	rows, err := r.pool.Query(ctx, query, sanctuary, keys)
	if err != nil {
		return nil, fmt.Errorf("query allocations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		found[key] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate allocations: %w", err)
	}
	return found, nil
}

// SaveAllocation inserts pixels and records keys in one transaction.
// The (sanctuary, column, row) unique constraint rejects any collision.
func (r *MuralRepo) SaveAllocation(ctx context.Context, sanctuary string, pixels []domain.Pixel, keys []string) error {
	if len(pixels) == 0 && len(keys) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	insertPixel := `INSERT INTO mural_pixels (id, sanctuary, donation_id, received_at, data, identifier, email, column_index, row_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i := range pixels {
		p := &pixels[i]
		var data []byte
		if len(p.Data) > 0 {
			data = p.Data
		}
		if _, err := tx.Exec(ctx, insertPixel,
			p.ID, sanctuary, p.DonationID, p.ReceivedAt, data,
			p.Identifier, p.Email, p.Column, p.Row,
		); err != nil {
			return fmt.Errorf("insert pixel %d:%d: %w", p.Column, p.Row, err)
		}
	}

	insertKey := `INSERT INTO mural_allocations (sanctuary, dedup_key) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	for _, key := range keys {
		if _, err := tx.Exec(ctx, insertKey, sanctuary, key); err != nil {
			return fmt.Errorf("insert allocation %s: %w", key, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// UpdateIdentifier rewrites the identifier of the pixel at (column, row).
// Returns false if no pixel occupies that coordinate.
func (r *MuralRepo) UpdateIdentifier(ctx context.Context, sanctuary string, column, row int, identifier string) (bool, error) {
	query := `UPDATE mural_pixels SET identifier = $1
		WHERE sanctuary = $2 AND column_index = $3 AND row_index = $4`

	tag, err := r.pool.Exec(ctx, query, identifier, sanctuary, column, row)
	if err != nil {
		return false, fmt.Errorf("update identifier: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
