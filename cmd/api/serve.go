package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sanctuary-mural/config"
	"sanctuary-mural/internal/actor"
	"sanctuary-mural/internal/actor/donation"
	"sanctuary-mural/internal/actor/mural"
	"sanctuary-mural/internal/adapter/downstream"
	"sanctuary-mural/internal/adapter/grid"
	httpHandler "sanctuary-mural/internal/adapter/http/handler"
	"sanctuary-mural/internal/adapter/http/middleware"
	"sanctuary-mural/internal/adapter/metrics"
	"sanctuary-mural/internal/adapter/storage/cache"
	pgStorage "sanctuary-mural/internal/adapter/storage/postgres"
	redisStorage "sanctuary-mural/internal/adapter/storage/redis"
	"sanctuary-mural/internal/consumer"
	"sanctuary-mural/internal/core/ports"
	"sanctuary-mural/internal/provider"
	"sanctuary-mural/internal/provider/paypal"
	"sanctuary-mural/internal/provider/twitch"
	"sanctuary-mural/internal/service"
	"sanctuary-mural/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the queue consumer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func runServe(parent context.Context, configPath string) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.Mode)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Int("sanctuaries", len(cfg.Sanctuaries)).
		Msg("Starting Sanctuary Mural")

	adminKey, err := newAdminKey(cfg.Mural)
	if err != nil {
		return err
	}
	if adminKey == nil {
		log.Warn().Msg("mural.api_key is empty, pixel updates are disabled")
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pool.Close()
	if err := pgStorage.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewProvider(cfg.Metrics.Enabled, reg)
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	// Stores
	configStore := redisStorage.NewConfigStore(rdb)
	queue := redisStorage.NewDonationQueue(rdb, cfg.Queue.Key, log)
	nonceStore := redisStorage.NewNonceStore(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)
	muralRepo := pgStorage.NewMuralRepo(pool)
	if cfg.Metrics.Enabled {
		reg.MustRegister(queueDepthGauge(queue))
	}
	snapshots := cache.NewSnapshotCache(cfg.Mural.SnapshotCacheMB, m, log)

	// Outbound collaborators
	grids, err := newGridSource(ctx, cfg, log)
	if err != nil {
		return err
	}
	tokens := service.NewJWTTokenService(cfg.Downstream.TokenSecret, cfg.Downstream.TokenTTL, cfg.Downstream.TokenIssuer)
	downstreamAPI := downstream.NewClient(cfg.Downstream.BaseURL, &http.Client{Timeout: cfg.Downstream.Timeout}, tokens, log)

	factories, err := newFactoryBuilder(cfg, nonceStore, log)
	if err != nil {
		return err
	}

	// Per-sanctuary actors
	murals := actor.NewRegistry(func(sanctuary string) (*mural.Actor, bool) {
		sc, ok := cfg.Sanctuaries[sanctuary]
		if !ok {
			return nil, false
		}
		a := mural.New(mural.Config{
			Sanctuary:    sanctuary,
			GridLocation: sc.GridURL,
			Allocation: mural.AllocationConfig{
				PixelPriceUSD: cfg.Mural.PixelPriceUSD,
				ToleranceUSD:  cfg.Mural.ToleranceUSD,
			},
		}, mural.Deps{
			Repo:       muralRepo,
			Grids:      grids,
			Downstream: downstreamAPI,
			Cache:      snapshots,
			Metrics:    m,
			Log:        log,
		})
		a.Start(ctx)
		return a, true
	})

	donations := actor.NewRegistry(func(sanctuary string) (*donation.Actor, bool) {
		sc, ok := cfg.Sanctuaries[sanctuary]
		if !ok {
			return nil, false
		}
		env := provider.Env{
			Sanctuary: sanctuary,
			Config:    configStore,
			Queue:     queue,
			Metrics:   m,
			Log:       log,
		}
		return donation.New(env, donation.DefaultInitTimeout, factories(sc)...), true
	})

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		RoutePrefix: cfg.Server.RoutePrefix,
		AdminKey:    adminKey,
		Donations: func(s string) (httpHandler.DonationService, bool) {
			return donations.Get(s)
		},
		Murals: func(s string) (httpHandler.MuralService, bool) {
			return murals.Get(s)
		},
		Metrics:        m,
		MetricsHandler: metricsHandler,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgStorage.NewHealthCheck(pool), redisStorage.NewHealthCheck(rdb, cfg.Queue.Key)},
		Logger:         log,
	})

	queueConsumer := consumer.New(consumer.Config{
		BatchSize:   cfg.Queue.BatchSize,
		PollTimeout: cfg.Queue.PollTimeout,
		Backoff:     cfg.Queue.Backoff,
	}, queue, downstreamAPI, func(s string) (consumer.Mural, bool) {
		return murals.Get(s)
	}, m, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return queueConsumer.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
		return nil
	})

	err = g.Wait()
	stop()
	murals.Each(func(_ string, a *mural.Actor) {
		<-a.Done()
	})
	log.Info().Msg("Server exited")
	return err
}

// newGridSource builds the grid fetcher. An S3 client is created only when a
// sanctuary's grid lives in a bucket.
func newGridSource(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*grid.Source, error) {
	httpClient := &http.Client{Timeout: cfg.Mural.GridTimeout}

	var s3Client grid.ObjectGetter
	for _, sc := range cfg.Sanctuaries {
		if strings.HasPrefix(sc.GridURL, "s3://") {
			c, err := grid.NewS3Client(ctx, cfg.Mural.GridS3Region)
			if err != nil {
				return nil, fmt.Errorf("failed to create S3 client: %w", err)
			}
			s3Client = c
			break
		}
	}

	src, err := grid.NewSource(httpClient, s3Client, cfg.Mural.GridMaxBytes, log)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// newFactoryBuilder returns a function producing the provider factories
// enabled for a sanctuary.
func newFactoryBuilder(cfg *config.Config, nonces ports.NonceStore, log zerolog.Logger) (func(config.SanctuaryConfig) []provider.Factory, error) {
	var twitchDeps *twitch.Deps
	for name, sc := range cfg.Sanctuaries {
		if sc.Twitch == nil || twitchDeps != nil {
			continue
		}
		if cfg.Twitch.ClientID == "" || cfg.Twitch.ClientSecret == "" || cfg.Twitch.CallbackBaseURL == "" {
			return nil, fmt.Errorf("sanctuary %q enables twitch but twitch client credentials or callback_base_url are missing", name)
		}
		secrets, err := service.NewHKDFSecretService(cfg.Twitch.MasterSecret)
		if err != nil {
			return nil, fmt.Errorf("twitch master secret: %w", err)
		}
		subscriber, err := twitch.NewHelixSubscriber(cfg.Twitch.ClientID, cfg.Twitch.ClientSecret,
			&http.Client{Timeout: 15 * time.Second}, log)
		if err != nil {
			return nil, err
		}
		twitchDeps = &twitch.Deps{
			Subscriber:      subscriber,
			Secrets:         secrets,
			Signer:          service.NewHMACSignatureService(),
			Nonces:          nonces,
			CallbackBaseURL: cfg.Twitch.CallbackBaseURL,
		}
		if cfg.Twitch.SecretKey != "" {
			sealer, err := service.NewAESSealer(cfg.Twitch.SecretKey)
			if err != nil {
				return nil, fmt.Errorf("twitch secret key: %w", err)
			}
			twitchDeps.Sealer = sealer
		} else {
			log.Warn().Msg("twitch.secret_key is empty, webhook secrets are stored unencrypted")
		}
	}

	paypalDeps := paypal.Deps{
		HTTPClient:    &http.Client{Timeout: cfg.PayPal.VerifyTimeout},
		ProductionURL: cfg.PayPal.ProductionURL,
		SandboxURL:    cfg.PayPal.SandboxURL,
	}

	return func(sc config.SanctuaryConfig) []provider.Factory {
		var factories []provider.Factory
		if sc.Twitch != nil && twitchDeps != nil {
			factories = append(factories, twitch.NewFactory(twitch.Settings{
				BroadcasterUserID: sc.Twitch.BroadcasterUserID,
				CharityName:       sc.Twitch.CharityName,
			}, *twitchDeps))
		}
		if sc.PayPal != nil {
			factories = append(factories, paypal.NewFactory(paypal.Settings{
				BusinessEmail: sc.PayPal.BusinessEmail,
				Sandbox:       sc.PayPal.Sandbox,
			}, paypalDeps))
		}
		return factories
	}, nil
}

// newAdminKey returns nil when no admin secret is configured.
func newAdminKey(cfg config.MuralConfig) (middleware.KeyChecker, error) {
	if cfg.APIKeyHash != "" {
		check, err := service.NewArgon2KeyHasher().Checker(cfg.APIKeyHash)
		if err != nil {
			return nil, fmt.Errorf("mural.api_key_hash: %w", err)
		}
		return check, nil
	}
	if cfg.APIKey == "" {
		return nil, nil
	}
	return middleware.StaticKey(cfg.APIKey), nil
}

// queueDepthGauge reports the number of donations waiting to be claimed.
func queueDepthGauge(queue *redisStorage.DonationQueue) prometheus.GaugeFunc {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "mural_queue_depth",
		Help: "Donations waiting in the durable queue",
	}, func() float64 {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		n, err := queue.Len(ctx)
		if err != nil {
			return -1
		}
		return float64(n)
	})
}
