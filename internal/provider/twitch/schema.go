package twitch

import "time"

// EventSub request headers.
const (
	HeaderMessageID        = "Twitch-Eventsub-Message-Id"
	HeaderMessageTimestamp = "Twitch-Eventsub-Message-Timestamp"
	HeaderMessageSignature = "Twitch-Eventsub-Message-Signature"
	HeaderMessageType      = "Twitch-Eventsub-Message-Type"
)

// EventSub message types.
const (
	MessageTypeVerification = "webhook_callback_verification"
	MessageTypeNotification = "notification"
	MessageTypeRevocation   = "revocation"
)

// Charity donation subscription.
const (
	SubscriptionType    = "channel.charity_campaign.donate"
	SubscriptionVersion = "1"
)

type verificationMessage struct {
	Challenge string `json:"challenge" validate:"required"`
}

type subscription struct {
	ID        string    `json:"id" validate:"required"`
	Type      string    `json:"type" validate:"eq=channel.charity_campaign.donate"`
	Version   string    `json:"version" validate:"required"`
	Status    string    `json:"status"`
	Condition condition `json:"condition"`
	CreatedAt time.Time `json:"created_at"`
}

type condition struct {
	BroadcasterUserID string `json:"broadcaster_user_id"`
}

type amount struct {
	Value         int64  `json:"value" validate:"gt=0"`
	DecimalPlaces int    `json:"decimal_places" validate:"min=0"`
	Currency      string `json:"currency" validate:"required"`
}

type donationEvent struct {
	ID                   string `json:"id" validate:"required"`
	CampaignID           string `json:"campaign_id" validate:"required"`
	BroadcasterUserID    string `json:"broadcaster_user_id" validate:"required"`
	BroadcasterUserLogin string `json:"broadcaster_user_login"`
	BroadcasterUserName  string `json:"broadcaster_user_name"`
	UserID               string `json:"user_id" validate:"required"`
	UserLogin            string `json:"user_login" validate:"required"`
	UserName             string `json:"user_name"`
	CharityName          string `json:"charity_name" validate:"required"`
	CharityDescription   string `json:"charity_description"`
	CharityLogo          string `json:"charity_logo"`
	CharityWebsite       string `json:"charity_website"`
	Amount               amount `json:"amount"`
}

type notificationMessage struct {
	Subscription subscription  `json:"subscription"`
	Event        donationEvent `json:"event"`
}

type revocationMessage struct {
	Subscription subscription `json:"subscription"`
}
