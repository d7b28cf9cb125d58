// Package mural owns each sanctuary's pixel mural: allocation, persistence
// and live broadcast to viewers.
package mural

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"slices"
	"strconv"
	"sync/atomic"
	"time"

	"sanctuary-mural/internal/core/domain"
	"sanctuary-mural/internal/core/ports"
	"sanctuary-mural/pkg/apperror"
	"sanctuary-mural/pkg/logger"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// DefaultOpTimeout bounds one mutation, including its downstream calls.
const DefaultOpTimeout = 30 * time.Second

// Config is one sanctuary's mural configuration.
type Config struct {
	Sanctuary    string
	GridLocation string
	Allocation   AllocationConfig
	OpTimeout    time.Duration
}

// Deps are the collaborators shared by every sanctuary's mural.
type Deps struct {
	Repo       ports.MuralRepository
	Grids      ports.GridSource
	Downstream ports.DownstreamAPI
	Cache      ports.SnapshotCache
	Metrics    ports.Metrics
	Log        zerolog.Logger
	// Intn draws placement indexes. Defaults to math/rand/v2.IntN.
	Intn func(n int) int
}

type command func(ctx context.Context)

type snapshot struct {
	version uint64
	state   domain.MuralState
}

// Actor serializes every operation on one sanctuary's mural through a single
// goroutine. Readers see the last persisted snapshot.
type Actor struct {
	cfg  Config
	deps Deps
	hub  *Hub
	log  zerolog.Logger

	commands chan command
	done     chan struct{}
	started  atomic.Bool

	published atomic.Pointer[snapshot]

	// Owned by the run goroutine.
	state   *domain.MuralState
	grid    *domain.Grid
	version uint64
}

// New creates an actor. Call Start before use.
func New(cfg Config, deps Deps) *Actor {
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = DefaultOpTimeout
	}
	if deps.Intn == nil {
		deps.Intn = rand.IntN
	}
	log := logger.Component(deps.Log, "mural", cfg.Sanctuary)
	a := &Actor{
		cfg:      cfg,
		deps:     deps,
		log:      log,
		commands: make(chan command),
		done:     make(chan struct{}),
	}
	a.hub = NewHub(func(count int) {
		deps.Metrics.SetSubscribers(cfg.Sanctuary, count)
	}, log)
	return a
}

// Start runs the actor until ctx is canceled.
func (a *Actor) Start(ctx context.Context) {
	if !a.started.CompareAndSwap(false, true) {
		return
	}
	go a.run(ctx)
}

// Done is closed once the actor stopped.
func (a *Actor) Done() <-chan struct{} {
	return a.done
}

func (a *Actor) run(ctx context.Context) {
	defer close(a.done)
	for {
		select {
		case <-ctx.Done():
			a.hub.Close()
			return
		case cmd := <-a.commands:
			cmd(ctx)
		}
	}
}

// do runs fn on the actor goroutine. The caller's ctx bounds waiting only;
// fn runs under the actor's context with the operation timeout.
func (a *Actor) do(ctx context.Context, fn func(ctx context.Context) error) error {
	reply := make(chan error, 1)
	cmd := func(runCtx context.Context) {
		opCtx, cancel := context.WithTimeout(runCtx, a.cfg.OpTimeout)
		defer cancel()
		reply <- fn(opCtx)
	}

	select {
	case a.commands <- cmd:
	case <-a.done:
		return apperror.ErrActorStopped()
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Current returns the JSON encoded last persisted state.
func (a *Actor) Current(ctx context.Context) ([]byte, error) {
	snap := a.published.Load()
	if snap == nil {
		if err := a.do(ctx, a.ensureState); err != nil {
			return nil, err
		}
		snap = a.published.Load()
	}

	key := a.cfg.Sanctuary + ":" + strconv.FormatUint(snap.version, 10)
	if b, ok := a.deps.Cache.Get(key); ok {
		return b, nil
	}
	b, err := json.Marshal(&snap.state)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	a.deps.Cache.Set(key, b)
	return b, nil
}

// Sync upgrades the request to a WebSocket viewer connection.
func (a *Actor) Sync(w http.ResponseWriter, r *http.Request) error {
	return a.hub.Serve(w, r)
}

// Viewers returns the number of connected viewers.
func (a *Actor) Viewers() int {
	return a.hub.Len()
}

// UpdateIdentifier rewrites the identifier of the pixel at (column, row).
// Coordinates outside the grid are rejected before the pixel lookup.
func (a *Actor) UpdateIdentifier(ctx context.Context, column, row int, identifier string) error {
	return a.do(ctx, func(ctx context.Context) error {
		if err := a.ensureState(ctx); err != nil {
			return err
		}
		if err := a.ensureGrid(ctx); err != nil {
			return err
		}
		if !a.grid.Contains(column, row) {
			return apperror.ErrCoordinateOutOfRange(column, row)
		}
		idx := a.state.Find(column, row)
		if idx < 0 {
			return apperror.ErrPixelNotFound(column, row)
		}

		ok, err := a.deps.Repo.UpdateIdentifier(ctx, a.cfg.Sanctuary, column, row, identifier)
		if err != nil {
			return apperror.ErrStoreFailure(err)
		}
		if !ok {
			return apperror.ErrPixelNotFound(column, row)
		}

		a.state.Pixels[idx].Identifier = identifier
		a.publish()
		a.log.Info().Int("column", column).Int("row", row).Msg("Pixel identifier updated")
		return nil
	})
}

// Add allocates pixels for donations, persists them, forwards them downstream
// and broadcasts one update per donation. Donations that already received
// pixels are not allocated again; their stored pixels are re-sent downstream.
func (a *Actor) Add(ctx context.Context, donations []domain.Donation) error {
	if len(donations) == 0 {
		return nil
	}
	return a.do(ctx, func(ctx context.Context) error {
		return a.add(ctx, donations)
	})
}

func (a *Actor) add(ctx context.Context, donations []domain.Donation) error {
	if err := a.ensureState(ctx); err != nil {
		return err
	}
	if err := a.ensureGrid(ctx); err != nil {
		return err
	}

	keys := make([]string, 0, len(donations))
	for i := range donations {
		keys = append(keys, donations[i].DedupKey())
	}
	allocated, err := a.deps.Repo.Allocated(ctx, a.cfg.Sanctuary, keys)
	if err != nil {
		return apperror.ErrStoreFailure(err)
	}

	var (
		fresh     []*domain.Donation
		freshKeys []string
		resend    []domain.PixelRecord
	)
	seen := make(map[string]struct{}, len(donations))
	for i := range donations {
		d := &donations[i]
		key := d.DedupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if allocated[key] {
			resend = append(resend, a.storedRecords(d)...)
			a.log.Info().Str("dedup_key", key).Msg("Donation already allocated")
			continue
		}
		fresh = append(fresh, d)
		freshKeys = append(freshKeys, key)
	}

	awards := Allocate(a.grid, a.state.Occupied(), fresh, a.cfg.Allocation, a.deps.Intn)

	var pixels []domain.Pixel
	records := resend
	for _, award := range awards {
		if award.Skipped > 0 {
			a.deps.Metrics.IncMuralFull(a.cfg.Sanctuary)
			a.log.Warn().
				Str("donation_id", award.Donation.ID.String()).
				Int("skipped", award.Skipped).
				Msg("Mural full, pixel slots skipped")
		}
		pixels = append(pixels, award.Pixels...)
		records = append(records, a.records(award.Donation, award.Pixels)...)
	}

	if len(freshKeys) > 0 {
		if err := a.deps.Repo.SaveAllocation(ctx, a.cfg.Sanctuary, pixels, freshKeys); err != nil {
			return apperror.ErrStoreFailure(err)
		}
		a.state.Pixels = append(a.state.Pixels, pixels...)
		a.publish()
		a.deps.Metrics.AddPixels(a.cfg.Sanctuary, len(pixels))
	}

	var downstreamErr error
	if len(records) > 0 {
		if err := a.deps.Downstream.CreatePixels(ctx, records); err != nil {
			downstreamErr = apperror.ErrUpstreamFailure(err)
		}
	}

	// Persisted pixels are shown to viewers even when forwarding failed.
	for _, award := range awards {
		a.broadcast(award)
	}

	if downstreamErr != nil {
		return downstreamErr
	}
	a.log.Info().Int("donations", len(fresh)).Int("pixels", len(pixels)).Msg("Pixels allocated")
	return nil
}

func (a *Actor) ensureState(ctx context.Context) error {
	if a.state != nil {
		return nil
	}
	state, err := a.deps.Repo.Load(ctx, a.cfg.Sanctuary)
	if err != nil {
		return apperror.ErrStoreFailure(err)
	}
	a.state = state
	a.publish()
	a.log.Info().Int("pixels", len(state.Pixels)).Msg("Mural state loaded")
	return nil
}

// ensureGrid fetches the grid once. A failed fetch is retried on the next call.
func (a *Actor) ensureGrid(ctx context.Context) error {
	if a.grid != nil {
		return nil
	}
	if a.cfg.GridLocation == "" {
		return apperror.ErrGridUnavailable(errors.New("no grid location configured"))
	}
	grid, err := a.deps.Grids.Fetch(ctx, a.cfg.GridLocation)
	if err != nil {
		a.log.Error().Err(err).Str("location", a.cfg.GridLocation).Msg("Grid fetch failed")
		return apperror.ErrGridUnavailable(err)
	}
	a.grid = grid
	a.log.Info().Int("columns", grid.Columns).Int("rows", grid.Rows).Msg("Grid loaded")
	return nil
}

func (a *Actor) publish() {
	pixels := slices.Clone(a.state.Pixels)
	if pixels == nil {
		pixels = []domain.Pixel{}
	}
	a.version++
	a.published.Store(&snapshot{version: a.version, state: domain.MuralState{Pixels: pixels}})
}

func (a *Actor) storedRecords(d *domain.Donation) []domain.PixelRecord {
	var pixels []domain.Pixel
	for _, p := range a.state.Pixels {
		if p.DonationID == d.ID {
			pixels = append(pixels, p)
		}
	}
	return a.records(d, pixels)
}

func (a *Actor) records(d *domain.Donation, pixels []domain.Pixel) []domain.PixelRecord {
	broadcasterID := d.MetadataString("broadcasterId")
	records := make([]domain.PixelRecord, 0, len(pixels))
	for _, p := range pixels {
		records = append(records, domain.PixelRecord{
			Pixel:         p,
			Sanctuary:     a.cfg.Sanctuary,
			BroadcasterID: broadcasterID,
		})
	}
	return records
}

func (a *Actor) broadcast(award Award) {
	pixels := award.Pixels
	if pixels == nil {
		pixels = []domain.Pixel{}
	}
	msg, err := json.Marshal(domain.BroadcastMessage{
		Type: domain.MessageUpdate,
		Payload: &domain.UpdatePayload{
			Amount:     award.Donation.AmountCents,
			Identifier: Identifier(award.Donation.DonatedBy),
			Pixels:     pixels,
		},
	})
	if err != nil {
		a.log.Error().Err(err).Msg("Encoding broadcast failed")
		return
	}
	a.hub.Broadcast(msg)
}
