package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sanctuary-mural/internal/core/domain"

	json "github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DonationQueue implements ports.DonationQueue as a Redis reliable queue.
// Producers LPUSH onto key; consumers LMOVE entries from its tail into a
// processing list and LREM them once handled. Entries left in the processing
// list by a crashed consumer are moved back by Recover.
type DonationQueue struct {
	client     *goredis.Client
	key        string
	processing string
	dead       string
	log        zerolog.Logger
}

// NewDonationQueue creates a new Redis-backed donation queue.
func NewDonationQueue(client *goredis.Client, key string, log zerolog.Logger) *DonationQueue {
	return &DonationQueue{
		client:     client,
		key:        key,
		processing: key + ":processing",
		dead:       key + ":dead",
		log:        log.With().Str("component", "donation_queue").Logger(),
	}
}

// Enqueue appends a donation for sanctuary.
func (q *DonationQueue) Enqueue(ctx context.Context, sanctuary string, donation *domain.Donation) error {
	b, err := json.Marshal(domain.QueuedDonation{Sanctuary: sanctuary, Donation: *donation})
	if err != nil {
		return fmt.Errorf("encoding donation: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, b).Err(); err != nil {
		return fmt.Errorf("redis queue push: %w", err)
	}
	return nil
}

// Dequeue claims up to limit entries. It blocks up to wait for the first
// entry and takes the rest without blocking. Returns nil when the queue stayed empty.
func (q *DonationQueue) Dequeue(ctx context.Context, limit int, wait time.Duration) ([]domain.QueuedDonation, error) {
	if limit <= 0 {
		return nil, nil
	}

	var entries []domain.QueuedDonation
	for len(entries) < limit {
		var raw string
		var err error
		if len(entries) == 0 && wait > 0 {
			raw, err = q.client.BLMove(ctx, q.key, q.processing, "RIGHT", "LEFT", wait).Result()
		} else {
			raw, err = q.client.LMove(ctx, q.key, q.processing, "RIGHT", "LEFT").Result()
		}
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				break
			}
			if len(entries) > 0 {
				// Claimed entries stay in processing; return what we have.
				q.log.Warn().Err(err).Int("claimed", len(entries)).Msg("queue read interrupted")
				break
			}
			return nil, fmt.Errorf("redis queue move: %w", err)
		}

		var entry domain.QueuedDonation
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			q.bury(ctx, raw, err)
			continue
		}
		entry.Raw = raw
		entries = append(entries, entry)
	}
	return entries, nil
}

// bury moves an undecodable entry to the dead-letter list.
func (q *DonationQueue) bury(ctx context.Context, raw string, cause error) {
	_, err := q.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.LRem(ctx, q.processing, 1, raw)
		p.LPush(ctx, q.dead, raw)
		return nil
	})
	ev := q.log.Error().AnErr("decode_error", cause).Int("bytes", len(raw))
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("undecodable queue entry moved to dead letters")
}

// Ack removes handled entries from the processing list.
func (q *DonationQueue) Ack(ctx context.Context, entries []domain.QueuedDonation) error {
	if len(entries) == 0 {
		return nil
	}
	_, err := q.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		for _, e := range entries {
			p.LRem(ctx, q.processing, 1, e.Raw)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis queue ack: %w", err)
	}
	return nil
}

// Recover returns every unacknowledged entry to the consuming end of the
// queue, oldest claim first.
func (q *DonationQueue) Recover(ctx context.Context) (int, error) {
	n := 0
	for {
		err := q.client.LMove(ctx, q.processing, q.key, "LEFT", "RIGHT").Err()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				return n, nil
			}
			return n, fmt.Errorf("redis queue recover: %w", err)
		}
		n++
	}
}

// Len returns the number of waiting entries.
func (q *DonationQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
