package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProviderID names a donation provider. It is also the route segment
// under /donations/{providerId}/live.
type ProviderID string

const (
	ProviderTwitch ProviderID = "twitch"
	ProviderPayPal ProviderID = "paypal"
)

// PrimaryField selects which donor field is used for display.
type PrimaryField string

const (
	PrimaryUsername  PrimaryField = "username"
	PrimaryFirstName PrimaryField = "firstName"
)

// DonatedBy describes the donor. Primary selects the display field.
type DonatedBy struct {
	Primary   PrimaryField `json:"primary"`
	Email     *string      `json:"email,omitempty"`
	Username  *string      `json:"username,omitempty"`
	FirstName *string      `json:"firstName,omitempty"`
	LastName  *string      `json:"lastName,omitempty"`
}

// PrimaryValue returns the value of the primary field, or "" if unset.
func (d DonatedBy) PrimaryValue() string {
	var v *string
	switch d.Primary {
	case PrimaryUsername:
		v = d.Username
	case PrimaryFirstName:
		v = d.FirstName
	}
	if v == nil {
		return ""
	}
	return *v
}

// Donation is the canonical, provider-agnostic donation record.
// It is never mutated after a provider creates it.
type Donation struct {
	ID               uuid.UUID         `json:"id"`
	Provider         ProviderID        `json:"provider"`
	ProviderUniqueID string            `json:"providerUniqueId"`
	AmountCents      int64             `json:"amountCents"` // USD cents
	DonatedAt        time.Time         `json:"donatedAt"`
	ReceivedAt       time.Time         `json:"receivedAt"`
	DonatedBy        DonatedBy         `json:"donatedBy"`
	Tags             map[string]string `json:"tags"`
	ProviderMetadata map[string]any    `json:"providerMetadata"`
}

// DedupKey identifies the provider-side event. Format: "provider:providerUniqueId".
func (d *Donation) DedupKey() string {
	return string(d.Provider) + ":" + d.ProviderUniqueID
}

// MetadataString returns a string metadata value, or "" when absent or not a string.
func (d *Donation) MetadataString(key string) string {
	if d.ProviderMetadata == nil {
		return ""
	}
	s, _ := d.ProviderMetadata[key].(string)
	return s
}

// QueuedDonation is the durable queue envelope.
type QueuedDonation struct {
	Sanctuary string   `json:"sanctuary"`
	Donation  Donation `json:"donation"`

	// Raw is the exact encoded entry, needed to acknowledge it.
	Raw string `json:"-"`
}
