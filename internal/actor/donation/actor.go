// Package donation routes a sanctuary's webhook calls to its providers.
package donation

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"sanctuary-mural/internal/core/domain"
	"sanctuary-mural/internal/provider"
	"sanctuary-mural/pkg/apperror"
	"sanctuary-mural/pkg/logger"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultInitTimeout bounds provider construction, including external registration.
const DefaultInitTimeout = 30 * time.Second

type providerSet map[domain.ProviderID]provider.Provider

// Actor owns a sanctuary's providers. Providers are built on the first
// request; concurrent first requests share one initialization.
type Actor struct {
	env         provider.Env
	factories   map[domain.ProviderID]provider.Factory
	initTimeout time.Duration

	group singleflight.Group
	ready atomic.Pointer[providerSet]
	log   zerolog.Logger
}

// New creates an actor for env.Sanctuary with the given provider factories.
func New(env provider.Env, initTimeout time.Duration, factories ...provider.Factory) *Actor {
	if initTimeout <= 0 {
		initTimeout = DefaultInitTimeout
	}
	byID := make(map[domain.ProviderID]provider.Factory, len(factories))
	for _, f := range factories {
		byID[f.ID()] = f
	}
	return &Actor{
		env:         env,
		factories:   byID,
		initTimeout: initTimeout,
		log:         logger.Component(env.Log, "donation_actor", env.Sanctuary),
	}
}

// Handle dispatches a webhook call to the provider named by providerID.
func (a *Actor) Handle(ctx context.Context, providerID string, req *provider.Request) (*provider.Response, error) {
	if !provider.ValidID(providerID) {
		return nil, apperror.ErrMalformedProvider()
	}
	id := domain.ProviderID(providerID)
	if _, ok := a.factories[id]; !ok {
		return nil, apperror.ErrNotFound("Provider")
	}

	providers, err := a.providers(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := providers[id].Handle(ctx, req)
	if err != nil {
		a.env.Metrics.IncDonations(id, provider.OutcomeRejected)
		a.log.Warn().Err(err).Str("provider", providerID).Msg("Webhook rejected")
		return nil, err
	}
	return resp, nil
}

// Ready reports whether initialization has completed.
func (a *Actor) Ready() bool {
	return a.ready.Load() != nil
}

func (a *Actor) providers(ctx context.Context) (providerSet, error) {
	if set := a.ready.Load(); set != nil {
		return *set, nil
	}

	ch := a.group.DoChan("init", func() (any, error) {
		if set := a.ready.Load(); set != nil {
			return *set, nil
		}
		initCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.initTimeout)
		defer cancel()

		set, err := a.init(initCtx)
		if err != nil {
			return nil, err
		}
		a.ready.Store(&set)
		return set, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, apperror.ErrProviderInit(res.Err)
		}
		return res.Val.(providerSet), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (a *Actor) init(ctx context.Context) (providerSet, error) {
	start := time.Now()

	var mu sync.Mutex
	set := make(providerSet, len(a.factories))

	g, gctx := errgroup.WithContext(ctx)
	for id, f := range a.factories {
		g.Go(func() error {
			p, err := f.Init(gctx, a.env)
			if err != nil {
				return fmt.Errorf("initializing %s provider: %w", id, err)
			}
			mu.Lock()
			set[id] = p
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.log.Error().Err(err).Msg("Provider initialization failed")
		return nil, err
	}

	a.log.Info().Int("providers", len(set)).Dur("took", time.Since(start)).Msg("Providers initialized")
	return set, nil
}
