// Package consumer drains the donation queue into the downstream API and the murals.
package consumer

import (
	"context"
	"fmt"
	"time"

	"sanctuary-mural/internal/core/domain"
	"sanctuary-mural/internal/core/ports"

	"github.com/rs/zerolog"
)

// Mural receives a sanctuary's donations for pixel allocation.
type Mural interface {
	Add(ctx context.Context, donations []domain.Donation) error
}

// MuralLookup returns the mural of a sanctuary, or false if it is unknown.
type MuralLookup func(sanctuary string) (Mural, bool)

// Config tunes the consumer loop.
type Config struct {
	BatchSize   int
	PollTimeout time.Duration
	// Backoff is the pause after a failed batch before it is requeued.
	Backoff time.Duration
}

// Consumer processes queued donations at least once. A sanctuary's entries
// are acknowledged only after both the downstream API and its mural accepted them.
type Consumer struct {
	cfg        Config
	queue      ports.DonationQueue
	downstream ports.DownstreamAPI
	murals     MuralLookup
	metrics    ports.Metrics
	log        zerolog.Logger
}

// New creates a consumer.
func New(cfg Config, queue ports.DonationQueue, downstream ports.DownstreamAPI, murals MuralLookup, metrics ports.Metrics, log zerolog.Logger) *Consumer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 25
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 5 * time.Second
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 5 * time.Second
	}
	return &Consumer{
		cfg:        cfg,
		queue:      queue,
		downstream: downstream,
		murals:     murals,
		metrics:    metrics,
		log:        log.With().Str("component", "consumer").Logger(),
	}
}

// Run requeues entries left unacknowledged by a previous run, then processes
// batches until ctx is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.recover(ctx); err != nil {
		return err
	}
	c.log.Info().Int("batch_size", c.cfg.BatchSize).Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			c.log.Info().Msg("Consumer stopped")
			return nil
		}

		if _, err := c.ProcessBatch(ctx); err != nil {
			if ctx.Err() != nil {
				continue
			}
			c.log.Error().Err(err).Dur("backoff", c.cfg.Backoff).Msg("Batch failed, will be redelivered")
			select {
			case <-ctx.Done():
				continue
			case <-time.After(c.cfg.Backoff):
			}
			if err := c.recover(ctx); err != nil {
				c.log.Error().Err(err).Msg("Requeue failed")
			}
		}
	}
}

func (c *Consumer) recover(ctx context.Context) error {
	n, err := c.queue.Recover(ctx)
	if err != nil {
		return fmt.Errorf("recovering unacknowledged donations: %w", err)
	}
	if n > 0 {
		c.log.Warn().Int("entries", n).Msg("Requeued unacknowledged donations")
	}
	return nil
}

// ProcessBatch claims one batch and handles it grouped by sanctuary. It returns
// the number of acknowledged entries. Entries of failed groups stay claimed.
func (c *Consumer) ProcessBatch(ctx context.Context) (int, error) {
	entries, err := c.queue.Dequeue(ctx, c.cfg.BatchSize, c.cfg.PollTimeout)
	if err != nil {
		return 0, fmt.Errorf("dequeue: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}
	start := time.Now()
	defer func() { c.metrics.ObserveBatch(len(entries), time.Since(start)) }()

	acked := 0
	var firstErr error
	for _, group := range groupBySanctuary(entries) {
		if err := c.handleGroup(ctx, group); err != nil {
			c.log.Error().Err(err).Str("sanctuary", group.sanctuary).Int("donations", len(group.entries)).
				Msg("Donations not processed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := c.queue.Ack(ctx, group.entries); err != nil {
			return acked, fmt.Errorf("ack: %w", err)
		}
		acked += len(group.entries)
	}
	return acked, firstErr
}

func (c *Consumer) handleGroup(ctx context.Context, g group) error {
	mural, ok := c.murals(g.sanctuary)
	if !ok {
		// Acknowledged: sanctuaries are fixed at startup.
		c.log.Error().Str("sanctuary", g.sanctuary).Int("donations", len(g.entries)).
			Msg("Dropping donations for unknown sanctuary")
		return nil
	}

	donations := make([]domain.Donation, 0, len(g.entries))
	for _, e := range g.entries {
		donations = append(donations, e.Donation)
	}

	if err := c.downstream.CreateDonations(ctx, donations); err != nil {
		return fmt.Errorf("createDonations: %w", err)
	}
	if err := mural.Add(ctx, donations); err != nil {
		return fmt.Errorf("mural add: %w", err)
	}
	return nil
}

type group struct {
	sanctuary string
	entries   []domain.QueuedDonation
}

// groupBySanctuary keeps first-seen sanctuary order and entry order within a group.
func groupBySanctuary(entries []domain.QueuedDonation) []group {
	index := make(map[string]int)
	var groups []group
	for _, e := range entries {
		i, ok := index[e.Sanctuary]
		if !ok {
			i = len(groups)
			index[e.Sanctuary] = i
			groups = append(groups, group{sanctuary: e.Sanctuary})
		}
		groups[i].entries = append(groups[i].entries, e)
	}
	return groups
}
