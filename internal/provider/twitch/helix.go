package twitch

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/nicklaw5/helix/v2"
	"github.com/rs/zerolog"
)

// HelixSubscriber registers EventSub webhook subscriptions with an app access token.
type HelixSubscriber struct {
	mu     sync.Mutex
	client *helix.Client
	token  string
	log    zerolog.Logger
}

// NewHelixSubscriber creates a subscriber for the given Twitch application.
func NewHelixSubscriber(clientID, clientSecret string, httpClient helix.HTTPClient, log zerolog.Logger) (*HelixSubscriber, error) {
	client, err := helix.NewClient(&helix.Options{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		HTTPClient:   httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("helix: NewClient: %w", err)
	}
	return &HelixSubscriber{
		client: client,
		log:    log.With().Str("component", "helix").Logger(),
	}, nil
}

// Subscribe creates the charity donation subscription. An existing
// subscription for the same callback is removed and the creation retried once.
func (s *HelixSubscriber) Subscribe(ctx context.Context, broadcasterUserID, callback, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureToken(); err != nil {
		return err
	}

	sub := &helix.EventSubSubscription{
		Type:    SubscriptionType,
		Version: SubscriptionVersion,
		Condition: helix.EventSubCondition{
			BroadcasterUserID: broadcasterUserID,
		},
		Transport: helix.EventSubTransport{
			Method:   "webhook",
			Callback: callback,
			Secret:   secret,
		},
	}

	resp, err := s.client.CreateEventSubSubscription(sub)
	if err != nil {
		return fmt.Errorf("helix: CreateEventSubSubscription: %w", err)
	}

	if resp.StatusCode == http.StatusConflict {
		s.log.Info().Str("broadcaster_user_id", broadcasterUserID).Msg("Replacing existing EventSub subscription")
		if err := s.removeExisting(broadcasterUserID, callback); err != nil {
			return err
		}
		resp, err = s.client.CreateEventSubSubscription(sub)
		if err != nil {
			return fmt.Errorf("helix: CreateEventSubSubscription: %w", err)
		}
	}

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("helix: CreateEventSubSubscription failed (%d: %s) %s",
			resp.StatusCode, resp.Error, resp.ErrorMessage)
	}
	return nil
}

func (s *HelixSubscriber) ensureToken() error {
	if s.token != "" {
		return nil
	}

	resp, err := s.client.RequestAppAccessToken([]string{})
	if err != nil {
		return fmt.Errorf("helix: RequestAppAccessToken: %w", err)
	}
	if resp.StatusCode != http.StatusOK || resp.Data.AccessToken == "" {
		return fmt.Errorf("helix: RequestAppAccessToken failed (%d: %s) %s",
			resp.StatusCode, resp.Error, resp.ErrorMessage)
	}

	s.token = resp.Data.AccessToken
	s.client.SetAppAccessToken(s.token)
	return nil
}

func (s *HelixSubscriber) removeExisting(broadcasterUserID, callback string) error {
	resp, err := s.client.GetEventSubSubscriptions(&helix.EventSubSubscriptionsParams{
		Type: SubscriptionType,
	})
	if err != nil {
		return fmt.Errorf("helix: GetEventSubSubscriptions: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("helix: GetEventSubSubscriptions failed (%d: %s) %s",
			resp.StatusCode, resp.Error, resp.ErrorMessage)
	}

	for _, existing := range resp.Data.EventSubSubscriptions {
		if existing.Condition.BroadcasterUserID != broadcasterUserID || existing.Transport.Callback != callback {
			continue
		}
		removed, err := s.client.RemoveEventSubSubscription(existing.ID)
		if err != nil {
			return fmt.Errorf("helix: RemoveEventSubSubscription: %w", err)
		}
		if removed.StatusCode != http.StatusNoContent {
			return fmt.Errorf("helix: RemoveEventSubSubscription failed (%d: %s) %s",
				removed.StatusCode, removed.Error, removed.ErrorMessage)
		}
	}
	return nil
}
