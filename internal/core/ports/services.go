package ports

import (
	"context"
	"net/http"
	"time"

	"sanctuary-mural/internal/core/domain"
)

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DownstreamAPI is the main application's RPC API. Both calls are batch upserts.
type DownstreamAPI interface {
	CreateDonations(ctx context.Context, donations []domain.Donation) error
	CreatePixels(ctx context.Context, pixels []domain.PixelRecord) error
}

// GridSource fetches and validates a mural grid from a location (URL or s3://bucket/key).
type GridSource interface {
	Fetch(ctx context.Context, location string) (*domain.Grid, error)
}

// SnapshotCache holds encoded mural snapshots.
type SnapshotCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// Metrics records service-level measurements.
type Metrics interface {
	IncRequestsTotal(route string, status int)
	ObserveRequestDuration(route string, duration time.Duration)
	IncDonations(provider domain.ProviderID, outcome string)
	AddPixels(sanctuary string, count int)
	IncMuralFull(sanctuary string)
	ObserveBatch(size int, duration time.Duration)
	SetSubscribers(sanctuary string, count int)
	IncCacheHits()
	IncCacheMisses()
}
