package ports

import (
	"context"
	"time"

	"sanctuary-mural/internal/core/domain"
)

// ConfigStore is the per-sanctuary key/value store providers use for
// durable configuration such as webhook secrets. Values are JSON encoded.
type ConfigStore interface {
	// Get decodes the stored value into dst. Returns false if the key is absent.
	Get(ctx context.Context, sanctuary, key string, dst any) (bool, error)
	Put(ctx context.Context, sanctuary, key string, value any) error
	Delete(ctx context.Context, sanctuary, key string) error
}

// DonationQueue is the durable at-least-once donation queue.
type DonationQueue interface {
	Enqueue(ctx context.Context, sanctuary string, donation *domain.Donation) error
	// Dequeue claims up to limit entries, waiting at most wait for the first one.
	// Claimed entries stay pending until acknowledged.
	Dequeue(ctx context.Context, limit int, wait time.Duration) ([]domain.QueuedDonation, error)
	Ack(ctx context.Context, entries []domain.QueuedDonation) error
	// Recover moves entries claimed but never acknowledged back onto the queue.
	Recover(ctx context.Context) (int, error)
}

// NonceStore manages nonce uniqueness for replay attack prevention.
type NonceStore interface {
	// CheckAndSet atomically checks if nonce exists, sets it if not.
	// Returns true if nonce is new (valid), false if already used.
	CheckAndSet(ctx context.Context, scope string, nonce string, ttl time.Duration) (bool, error)
	// Release forgets a nonce so a retry of a failed request is processed again.
	Release(ctx context.Context, scope string, nonce string) error
}

// MuralRepository persists each sanctuary's mural state.
type MuralRepository interface {
	// Load returns the ordered pixel list. A sanctuary never written to has an empty state.
	Load(ctx context.Context, sanctuary string) (*domain.MuralState, error)
	// Allocated returns the subset of dedup keys that already received pixels.
	Allocated(ctx context.Context, sanctuary string, keys []string) (map[string]bool, error)
	// SaveAllocation stores new pixels and marks the dedup keys as allocated, atomically.
	SaveAllocation(ctx context.Context, sanctuary string, pixels []domain.Pixel, keys []string) error
	// UpdateIdentifier rewrites one pixel's identifier. Returns false if no pixel is at (column, row).
	UpdateIdentifier(ctx context.Context, sanctuary string, column, row int, identifier string) (bool, error)
}
