// Package twitch verifies Twitch EventSub charity donation webhooks.
package twitch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sanctuary-mural/internal/core/domain"
	"sanctuary-mural/internal/core/ports"
	"sanctuary-mural/internal/provider"
	"sanctuary-mural/internal/service"
	"sanctuary-mural/pkg/apperror"
	"sanctuary-mural/pkg/logger"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// ConfigKey is the config store key holding the stored subscription secret.
	ConfigKey = "twitch"

	// ReplayWindow bounds message age and how long message ids are remembered.
	ReplayWindow = 10 * time.Minute

	secretPurpose = "twitch-eventsub"
)

// Settings is a sanctuary's Twitch configuration.
type Settings struct {
	BroadcasterUserID string
	CharityName       string
}

// Subscriber registers the charity donation subscription with Twitch.
type Subscriber interface {
	Subscribe(ctx context.Context, broadcasterUserID, callback, secret string) error
}

// SecretDeriver produces a fresh webhook secret for a sanctuary.
type SecretDeriver interface {
	Derive(sanctuary, purpose string) (string, error)
}

// SecretSealer encrypts the stored webhook secret, bound to the sanctuary.
type SecretSealer interface {
	Seal(plaintext, binding string) (string, error)
	Open(sealed, binding string) (string, error)
}

// Deps are the collaborators shared by every sanctuary's Twitch provider.
type Deps struct {
	Subscriber Subscriber
	Secrets    SecretDeriver
	Signer     ports.SignatureService
	Nonces     ports.NonceStore
	// Sealer is optional; without it the secret is stored in the clear.
	Sealer SecretSealer
	// CallbackBaseURL is the public URL of the sanctuary route prefix,
	// e.g. https://mural.example.org/sanctuaries.
	CallbackBaseURL string
	Now             func() time.Time
}

type storedConfig struct {
	Secret string `json:"secret"`
	Sealed bool   `json:"sealed,omitempty"`
}

// Factory builds the Twitch provider of one sanctuary.
type Factory struct {
	settings Settings
	deps     Deps
}

// NewFactory creates a Twitch provider factory.
func NewFactory(settings Settings, deps Deps) *Factory {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Factory{settings: settings, deps: deps}
}

func (f *Factory) ID() domain.ProviderID {
	return domain.ProviderTwitch
}

// CallbackURL returns the webhook URL Twitch delivers the sanctuary's events to.
func (f *Factory) CallbackURL(sanctuary string) string {
	base := strings.TrimRight(f.deps.CallbackBaseURL, "/")
	return fmt.Sprintf("%s/%s/donations/%s/live", base, url.PathEscape(sanctuary), domain.ProviderTwitch)
}

// Init loads the stored secret. When none is stored it derives one, registers
// the subscription and stores the secret only after registration succeeded.
func (f *Factory) Init(ctx context.Context, env provider.Env) (provider.Provider, error) {
	log := logger.Component(env.Log, "twitch", env.Sanctuary)

	var stored storedConfig
	found, err := env.Config.Get(ctx, env.Sanctuary, ConfigKey, &stored)
	if err != nil {
		return nil, fmt.Errorf("loading twitch config: %w", err)
	}

	var secret string
	if found && stored.Secret != "" {
		secret, err = f.open(stored, env.Sanctuary)
		if err != nil {
			return nil, err
		}
	} else {
		secret, err = f.deps.Secrets.Derive(env.Sanctuary, secretPurpose)
		if err != nil {
			return nil, fmt.Errorf("deriving twitch secret: %w", err)
		}
		record, err := f.seal(secret, env.Sanctuary)
		if err != nil {
			return nil, err
		}
		callback := f.CallbackURL(env.Sanctuary)
		if err := f.deps.Subscriber.Subscribe(ctx, f.settings.BroadcasterUserID, callback, secret); err != nil {
			return nil, fmt.Errorf("registering eventsub subscription: %w", err)
		}
		if err := env.Config.Put(ctx, env.Sanctuary, ConfigKey, record); err != nil {
			return nil, fmt.Errorf("storing twitch config: %w", err)
		}
		log.Info().Str("callback", callback).Bool("sealed", record.Sealed).Msg("EventSub subscription registered")
	}

	return &Provider{
		sanctuary: env.Sanctuary,
		settings:  f.settings,
		secret:    secret,
		deps:      f.deps,
		config:    env.Config,
		queue:     env.Queue,
		metrics:   env.Metrics,
		validate:  validator.New(),
		log:       log,
	}, nil
}

func (f *Factory) seal(secret, sanctuary string) (storedConfig, error) {
	if f.deps.Sealer == nil {
		return storedConfig{Secret: secret}, nil
	}
	sealed, err := f.deps.Sealer.Seal(secret, sanctuary)
	if err != nil {
		return storedConfig{}, fmt.Errorf("sealing twitch secret: %w", err)
	}
	return storedConfig{Secret: sealed, Sealed: true}, nil
}

func (f *Factory) open(stored storedConfig, sanctuary string) (string, error) {
	if !stored.Sealed {
		return stored.Secret, nil
	}
	if f.deps.Sealer == nil {
		return "", errors.New("twitch secret is sealed but no sealer is configured")
	}
	secret, err := f.deps.Sealer.Open(stored.Secret, sanctuary)
	if err != nil {
		return "", fmt.Errorf("opening twitch secret: %w", err)
	}
	return secret, nil
}

// Provider handles EventSub calls for one sanctuary.
type Provider struct {
	sanctuary string
	settings  Settings
	secret    string
	deps      Deps
	config    ports.ConfigStore
	queue     ports.DonationQueue
	metrics   ports.Metrics
	validate  *validator.Validate
	log       zerolog.Logger
}

func (p *Provider) ID() domain.ProviderID {
	return domain.ProviderTwitch
}

func (p *Provider) Handle(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	messageID := req.Header.Get(HeaderMessageID)
	timestamp := req.Header.Get(HeaderMessageTimestamp)
	signature := req.Header.Get(HeaderMessageSignature)
	if messageID == "" || timestamp == "" || signature == "" {
		return nil, apperror.ErrInvalidSignature()
	}

	message := service.BuildEventSubMessage(messageID, timestamp, req.Body)
	if !p.deps.Signer.Verify(p.secret, message, signature) {
		return nil, apperror.ErrInvalidSignature()
	}

	sentAt, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return nil, apperror.ErrTimestampExpired()
	}
	if age := p.deps.Now().Sub(sentAt); age > ReplayWindow || age < -ReplayWindow {
		return nil, apperror.ErrTimestampExpired()
	}

	switch messageType := req.Header.Get(HeaderMessageType); messageType {
	case MessageTypeVerification:
		return p.handleVerification(req.Body)
	case MessageTypeRevocation:
		return p.handleRevocation(ctx, req.Body)
	case MessageTypeNotification:
		return p.handleNotification(ctx, messageID, sentAt, req)
	default:
		return nil, apperror.ErrUnknownMessageType(messageType)
	}
}

func (p *Provider) handleVerification(body []byte) (*provider.Response, error) {
	var msg verificationMessage
	if err := p.decode(body, &msg); err != nil {
		return nil, err
	}
	p.log.Info().Msg("EventSub callback verified")
	return provider.Text(http.StatusOK, msg.Challenge), nil
}

func (p *Provider) handleRevocation(ctx context.Context, body []byte) (*provider.Response, error) {
	var msg revocationMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, apperror.ErrInvalidPayload(err)
	}
	if err := p.config.Delete(ctx, p.sanctuary, ConfigKey); err != nil {
		return nil, apperror.ErrStoreFailure(err)
	}
	p.log.Warn().
		Str("subscription_id", msg.Subscription.ID).
		Str("status", msg.Subscription.Status).
		Msg("EventSub subscription revoked, stored secret cleared")
	return provider.Empty(http.StatusCreated), nil
}

func (p *Provider) handleNotification(ctx context.Context, messageID string, sentAt time.Time, req *provider.Request) (*provider.Response, error) {
	var msg notificationMessage
	if err := p.decode(req.Body, &msg); err != nil {
		return nil, err
	}

	event := msg.Event
	if event.CharityName != p.settings.CharityName {
		p.log.Warn().
			Str("charity_name", event.CharityName).
			Str("event_id", event.ID).
			Msg("Donation for another charity ignored")
		p.metrics.IncDonations(domain.ProviderTwitch, provider.OutcomeIgnored)
		return provider.Success(http.StatusCreated), nil
	}
	// Amounts are only converted from USD with two decimal places. Anything
	// else is acknowledged so Twitch stops retrying.
	if event.Amount.Currency != "USD" || event.Amount.DecimalPlaces != 2 {
		p.log.Warn().
			Str("currency", event.Amount.Currency).
			Int("decimal_places", event.Amount.DecimalPlaces).
			Str("event_id", event.ID).
			Msg("Donation in unsupported currency ignored")
		p.metrics.IncDonations(domain.ProviderTwitch, provider.OutcomeIgnored)
		return provider.Success(http.StatusCreated), nil
	}

	scope := p.sanctuary + ":" + string(domain.ProviderTwitch)
	fresh, err := p.deps.Nonces.CheckAndSet(ctx, scope, messageID, ReplayWindow)
	if err != nil {
		return nil, apperror.ErrStoreFailure(err)
	}
	if !fresh {
		p.log.Info().Str("message_id", messageID).Msg("Duplicate EventSub message acknowledged")
		p.metrics.IncDonations(domain.ProviderTwitch, provider.OutcomeDuplicate)
		return provider.Success(http.StatusCreated), nil
	}

	donation := buildDonation(&event, sentAt, req.ReceivedAt)
	if err := p.queue.Enqueue(ctx, p.sanctuary, donation); err != nil {
		if relErr := p.deps.Nonces.Release(ctx, scope, messageID); relErr != nil {
			p.log.Error().Err(relErr).Str("message_id", messageID).Msg("Failed to release nonce")
		}
		return nil, apperror.ErrStoreFailure(err)
	}

	p.metrics.IncDonations(domain.ProviderTwitch, provider.OutcomeAccepted)
	p.log.Info().
		Str("donation_id", donation.ID.String()).
		Str("event_id", event.ID).
		Int64("amount_cents", donation.AmountCents).
		Msg("Donation enqueued")
	return provider.Success(http.StatusCreated), nil
}

func (p *Provider) decode(body []byte, dst any) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return apperror.ErrInvalidPayload(err)
	}
	if err := p.validate.Struct(dst); err != nil {
		return apperror.ErrInvalidPayload(err)
	}
	return nil
}

func buildDonation(event *donationEvent, sentAt, receivedAt time.Time) *domain.Donation {
	username := event.UserLogin
	return &domain.Donation{
		ID:               uuid.New(),
		Provider:         domain.ProviderTwitch,
		ProviderUniqueID: event.ID,
		AmountCents:      event.Amount.Value,
		DonatedAt:        sentAt.UTC(),
		ReceivedAt:       receivedAt.UTC(),
		DonatedBy: domain.DonatedBy{
			Primary:  domain.PrimaryUsername,
			Username: &username,
		},
		Tags: map[string]string{
			"campaign_id":    event.CampaignID,
			"broadcaster_id": event.BroadcasterUserID,
		},
		ProviderMetadata: map[string]any{
			"donorId":          event.UserID,
			"donorDisplayName": event.UserName,
			"broadcasterId":    event.BroadcasterUserID,
			"campaignId":       event.CampaignID,
		},
	}
}
