// Package paypal verifies PayPal Instant Payment Notifications.
package paypal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"sanctuary-mural/internal/core/domain"
	"sanctuary-mural/internal/core/ports"
	"sanctuary-mural/internal/provider"
	"sanctuary-mural/pkg/apperror"
	"sanctuary-mural/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	verifiedResponse = "VERIFIED"
	validateSuffix   = "&cmd=_notify-validate"

	// Responses from the IPN endpoint are tiny; anything larger is not a verdict.
	maxVerifyResponse = 1 << 10
)

// Settings is a sanctuary's PayPal configuration.
type Settings struct {
	BusinessEmail string
	Sandbox       bool
}

// Deps are the collaborators shared by every sanctuary's PayPal provider.
type Deps struct {
	HTTPClient    ports.HTTPClient
	ProductionURL string
	SandboxURL    string
}

// Factory builds the PayPal provider of one sanctuary.
type Factory struct {
	settings Settings
	deps     Deps
}

// NewFactory creates a PayPal provider factory.
func NewFactory(settings Settings, deps Deps) *Factory {
	return &Factory{settings: settings, deps: deps}
}

func (f *Factory) ID() domain.ProviderID {
	return domain.ProviderPayPal
}

// Init builds the provider. PayPal needs no external registration.
func (f *Factory) Init(_ context.Context, env provider.Env) (provider.Provider, error) {
	log := logger.Component(env.Log, "paypal", env.Sanctuary)

	email := f.settings.BusinessEmail
	if email != strings.ToLower(strings.TrimSpace(email)) {
		log.Warn().Str("business_email", email).
			Msg("Configured business email has whitespace or upper-case letters; IPNs are matched on the exact value")
	}

	validate := validator.New()
	if err := validate.RegisterValidation("business", func(fl validator.FieldLevel) bool {
		return fl.Field().String() == email
	}); err != nil {
		return nil, fmt.Errorf("registering business validation: %w", err)
	}

	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		return nil, fmt.Errorf("loading PayPal time zone: %w", err)
	}

	verifyURL := f.deps.ProductionURL
	if f.settings.Sandbox {
		verifyURL = f.deps.SandboxURL
	}

	return &Provider{
		sanctuary: env.Sanctuary,
		sandbox:   f.settings.Sandbox,
		verifyURL: verifyURL,
		client:    f.deps.HTTPClient,
		queue:     env.Queue,
		metrics:   env.Metrics,
		validate:  validate,
		loc:       loc,
		log:       log,
	}, nil
}

// Provider handles IPN calls for one sanctuary.
type Provider struct {
	sanctuary string
	sandbox   bool
	verifyURL string
	client    ports.HTTPClient
	queue     ports.DonationQueue
	metrics   ports.Metrics
	validate  *validator.Validate
	loc       *time.Location
	log       zerolog.Logger
}

func (p *Provider) ID() domain.ProviderID {
	return domain.ProviderPayPal
}

func (p *Provider) Handle(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	form, err := url.ParseQuery(string(req.Body))
	if err != nil {
		return nil, apperror.ErrInvalidPayload(err)
	}

	isTest := form.Get("test_ipn") == "1"
	if isTest && !p.sandbox {
		return nil, apperror.ErrEnvironmentMismatch("Sandbox IPN sent to a production sanctuary")
	}
	if !isTest && p.sandbox {
		return nil, apperror.ErrEnvironmentMismatch("Production IPN sent to a sandbox sanctuary")
	}

	if err := p.verify(ctx, req.Body); err != nil {
		return nil, err
	}

	msg := newIPNMessage(form)
	if err := p.validate.Struct(msg); err != nil {
		return nil, apperror.ErrInvalidPayload(err)
	}

	cents, err := ParseCents(msg.Gross)
	if err != nil {
		return nil, apperror.ErrInvalidAmount(err)
	}

	donatedAt, err := ParsePaymentDate(msg.PaymentDate, p.loc)
	if err != nil {
		p.log.Warn().Err(err).Str("payment_date", msg.PaymentDate).Str("txn_id", msg.TxnID).
			Msg("Unparsable payment_date, using receive time")
		donatedAt = req.ReceivedAt
	}

	donation := p.buildDonation(msg, cents, donatedAt, req.ReceivedAt)
	if err := p.queue.Enqueue(ctx, p.sanctuary, donation); err != nil {
		return nil, apperror.ErrStoreFailure(err)
	}

	p.metrics.IncDonations(domain.ProviderPayPal, provider.OutcomeAccepted)
	p.log.Info().
		Str("donation_id", donation.ID.String()).
		Str("txn_id", msg.TxnID).
		Int64("amount_cents", cents).
		Msg("Donation enqueued")
	return provider.Text(http.StatusOK, "OK"), nil
}

// verify echoes the raw body back to PayPal and requires a VERIFIED verdict.
func (p *Provider) verify(ctx context.Context, body []byte) error {
	payload := make([]byte, 0, len(body)+len(validateSuffix))
	payload = append(payload, body...)
	payload = append(payload, validateSuffix...)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.verifyURL, bytes.NewReader(payload))
	if err != nil {
		return apperror.InternalError(err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("User-Agent", "sanctuary-mural-ipn")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return apperror.ErrUpstreamFailure(err)
	}
	defer resp.Body.Close()

	verdict, err := io.ReadAll(io.LimitReader(resp.Body, maxVerifyResponse))
	if err != nil {
		return apperror.ErrUpstreamFailure(err)
	}
	if resp.StatusCode != http.StatusOK {
		return apperror.ErrUpstreamFailure(fmt.Errorf("IPN endpoint returned %d", resp.StatusCode))
	}
	if strings.TrimSpace(string(verdict)) != verifiedResponse {
		p.log.Warn().Str("verdict", strings.TrimSpace(string(verdict))).Msg("IPN echo not verified")
		return apperror.ErrIPNNotVerified()
	}
	return nil
}

func (p *Provider) buildDonation(msg *ipnMessage, cents int64, donatedAt, receivedAt time.Time) *domain.Donation {
	email := strings.ToLower(strings.TrimSpace(msg.PayerEmail))
	firstName := msg.FirstName
	lastName := msg.LastName

	metadata := map[string]any{"payerId": msg.PayerID}
	if msg.Memo != "" {
		metadata["memo"] = msg.Memo
	}

	return &domain.Donation{
		ID:               uuid.New(),
		Provider:         domain.ProviderPayPal,
		ProviderUniqueID: msg.TxnID,
		AmountCents:      cents,
		DonatedAt:        donatedAt.UTC(),
		ReceivedAt:       receivedAt.UTC(),
		DonatedBy: domain.DonatedBy{
			Primary:   domain.PrimaryFirstName,
			Email:     &email,
			FirstName: &firstName,
			LastName:  &lastName,
		},
		Tags:             ParseCustom(msg.Custom),
		ProviderMetadata: metadata,
	}
}
