package downstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"sanctuary-mural/internal/core/domain"
	"sanctuary-mural/internal/core/ports"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// RPC paths on the main application's API.
const (
	PathCreateDonations = "/rpc/createDonations"
	PathCreatePixels    = "/rpc/createPixels"
)

// TokenIssuer mints the bearer token sent with every call.
type TokenIssuer interface {
	Issue() (string, error)
}

// Client implements ports.DownstreamAPI over JSON HTTP.
// Calls are single attempts; redelivery is the queue's job.
type Client struct {
	baseURL    string
	httpClient ports.HTTPClient
	tokens     TokenIssuer
	log        zerolog.Logger
}

// NewClient creates a downstream RPC client.
func NewClient(baseURL string, httpClient ports.HTTPClient, tokens TokenIssuer, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
		log:        log.With().Str("component", "downstream").Logger(),
	}
}

type createDonationsRequest struct {
	Donations []domain.Donation `json:"donations"`
}

type createPixelsRequest struct {
	Pixels []domain.PixelRecord `json:"pixels"`
}

// CreateDonations upserts canonical donations.
func (c *Client) CreateDonations(ctx context.Context, donations []domain.Donation) error {
	if len(donations) == 0 {
		return nil
	}
	return c.call(ctx, PathCreateDonations, createDonationsRequest{Donations: donations}, len(donations))
}

// CreatePixels upserts newly allocated pixels.
func (c *Client) CreatePixels(ctx context.Context, pixels []domain.PixelRecord) error {
	if len(pixels) == 0 {
		return nil
	}
	return c.call(ctx, PathCreatePixels, createPixelsRequest{Pixels: pixels}, len(pixels))
}

func (c *Client) call(ctx context.Context, path string, payload any, count int) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("downstream %s: encoding payload: %w", path, err)
	}

	token, err := c.tokens.Issue()
	if err != nil {
		return fmt.Errorf("downstream %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("downstream %s: building request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("downstream %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn().Str("path", path).Int("status", resp.StatusCode).Str("body", string(snippet)).Msg("downstream call rejected")
		return fmt.Errorf("downstream %s: unexpected status %d", path, resp.StatusCode)
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	c.log.Debug().Str("path", path).Int("count", count).Msg("downstream call succeeded")
	return nil
}
