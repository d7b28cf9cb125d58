package paypal

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"sanctuary-mural/internal/core/domain"
	"sanctuary-mural/internal/core/ports/mocks"
	"sanctuary-mural/internal/provider"
	"sanctuary-mural/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testSanctuary = "hollow"
	testBusiness  = "donate@sanctuary.example.org"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// ipnServer records echoed bodies and answers with verdict.
type ipnServer struct {
	*httptest.Server
	mu      sync.Mutex
	verdict string
	bodies  []string
}

func newIPNServer(t *testing.T, verdict string) *ipnServer {
	s := &ipnServer{verdict: verdict}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.bodies = append(s.bodies, string(b))
		s.mu.Unlock()
		_, _ = w.Write([]byte(s.verdict))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *ipnServer) received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.bodies...)
}

type fixture struct {
	provider provider.Provider
	queue    *mocks.MockDonationQueue
	metrics  *mocks.MockMetrics
	prod     *ipnServer
	sandbox  *ipnServer
}

func newFixture(t *testing.T, sandbox bool, verdict string) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		queue:   mocks.NewMockDonationQueue(ctrl),
		metrics: mocks.NewMockMetrics(ctrl),
		prod:    newIPNServer(t, verdict),
		sandbox: newIPNServer(t, verdict),
	}

	factory := NewFactory(Settings{BusinessEmail: testBusiness, Sandbox: sandbox}, Deps{
		HTTPClient:    &http.Client{Timeout: 5 * time.Second},
		ProductionURL: f.prod.URL,
		SandboxURL:    f.sandbox.URL,
	})
	p, err := factory.Init(context.Background(), provider.Env{
		Sanctuary: testSanctuary,
		Queue:     f.queue,
		Metrics:   f.metrics,
		Log:       zerolog.Nop(),
	})
	require.NoError(t, err)
	f.provider = p
	return f
}

func ipnForm() url.Values {
	return url.Values{
		"payment_status": {"Completed"},
		"charset":        {"UTF-8"},
		"mc_currency":    {"USD"},
		"business":       {testBusiness},
		"first_name":     {"Ola"},
		"last_name":      {"Nordmann"},
		"payer_email":    {"  Ola.Nordmann@Example.COM "},
		"payer_id":       {"PAYER123"},
		"txn_id":         {"9XY12345AB"},
		"payment_date":   {"08:15:02 Mar 05, 2026 PST"},
		"mc_gross":       {"12.34"},
		"custom":         {"campaign_spring+source_stream"},
	}
}

func request(form url.Values) *provider.Request {
	return &provider.Request{Header: http.Header{}, Body: []byte(form.Encode()), ReceivedAt: testNow}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.HTTPStatus
}

func TestHandle_Completed(t *testing.T) {
	f := newFixture(t, false, "VERIFIED\n")
	form := ipnForm()

	var queued *domain.Donation
	f.queue.EXPECT().Enqueue(gomock.Any(), testSanctuary, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, d *domain.Donation) error {
			queued = d
			return nil
		})
	f.metrics.EXPECT().IncDonations(domain.ProviderPayPal, provider.OutcomeAccepted)

	resp, err := f.provider.Handle(context.Background(), request(form))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "OK", string(resp.Body))

	require.Len(t, f.prod.received(), 1)
	assert.Empty(t, f.sandbox.received())
	assert.Equal(t, form.Encode()+"&cmd=_notify-validate", f.prod.received()[0])

	require.NotNil(t, queued)
	assert.Equal(t, domain.ProviderPayPal, queued.Provider)
	assert.Equal(t, "9XY12345AB", queued.ProviderUniqueID)
	assert.Equal(t, int64(1234), queued.AmountCents)
	assert.Equal(t, domain.PrimaryFirstName, queued.DonatedBy.Primary)
	assert.Equal(t, "Ola", queued.DonatedBy.PrimaryValue())
	require.NotNil(t, queued.DonatedBy.Email)
	assert.Equal(t, "ola.nordmann@example.com", *queued.DonatedBy.Email)
	assert.Equal(t, "PAYER123", queued.MetadataString("payerId"))
	assert.Equal(t, map[string]string{"campaign": "spring", "source": "stream"}, queued.Tags)
	assert.Equal(t, time.Date(2026, 3, 5, 16, 15, 2, 0, time.UTC), queued.DonatedAt)
	assert.Equal(t, testNow, queued.ReceivedAt)
}

func TestHandle_UnparsableDateFallsBack(t *testing.T) {
	f := newFixture(t, false, "VERIFIED")
	form := ipnForm()
	form.Set("payment_date", "yesterday")

	var queued *domain.Donation
	f.queue.EXPECT().Enqueue(gomock.Any(), testSanctuary, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, d *domain.Donation) error {
			queued = d
			return nil
		})
	f.metrics.EXPECT().IncDonations(domain.ProviderPayPal, provider.OutcomeAccepted)

	_, err := f.provider.Handle(context.Background(), request(form))
	require.NoError(t, err)
	assert.Equal(t, testNow, queued.DonatedAt)
}

func TestHandle_EnvironmentGating(t *testing.T) {
	t.Run("sandbox IPN to production", func(t *testing.T) {
		f := newFixture(t, false, "VERIFIED")
		form := ipnForm()
		form.Set("test_ipn", "1")

		_, err := f.provider.Handle(context.Background(), request(form))
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
		assert.Empty(t, f.prod.received())
	})

	t.Run("production IPN to sandbox", func(t *testing.T) {
		f := newFixture(t, true, "VERIFIED")

		_, err := f.provider.Handle(context.Background(), request(ipnForm()))
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
		assert.Empty(t, f.sandbox.received())
	})

	t.Run("sandbox IPN to sandbox", func(t *testing.T) {
		f := newFixture(t, true, "VERIFIED")
		form := ipnForm()
		form.Set("test_ipn", "1")

		f.queue.EXPECT().Enqueue(gomock.Any(), testSanctuary, gomock.Any()).Return(nil)
		f.metrics.EXPECT().IncDonations(domain.ProviderPayPal, provider.OutcomeAccepted)

		_, err := f.provider.Handle(context.Background(), request(form))
		require.NoError(t, err)
		assert.Len(t, f.sandbox.received(), 1)
		assert.Empty(t, f.prod.received())
	})
}

func TestHandle_NotVerified(t *testing.T) {
	f := newFixture(t, false, "INVALID")

	_, err := f.provider.Handle(context.Background(), request(ipnForm()))
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	assert.Contains(t, err.Error(), "SEC_004")
}

func TestHandle_Schema(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(url.Values)
	}{
		{"pending payment", func(v url.Values) { v.Set("payment_status", "Pending") }},
		{"windows charset", func(v url.Values) { v.Set("charset", "windows-1252") }},
		{"euro", func(v url.Values) { v.Set("mc_currency", "EUR") }},
		{"other business", func(v url.Values) { v.Set("business", "someone@else.example.org") }},
		{"business case differs", func(v url.Values) { v.Set("business", strings.ToUpper(testBusiness)) }},
		{"missing txn id", func(v url.Values) { v.Del("txn_id") }},
		{"missing payer email", func(v url.Values) { v.Del("payer_email") }},
		{"one decimal", func(v url.Values) { v.Set("mc_gross", "12.3") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false, "VERIFIED")
			form := ipnForm()
			tt.mutate(form)

			_, err := f.provider.Handle(context.Background(), request(form))
			assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
		})
	}
}

func TestHandle_EnqueueFailure(t *testing.T) {
	f := newFixture(t, false, "VERIFIED")
	f.queue.EXPECT().Enqueue(gomock.Any(), testSanctuary, gomock.Any()).Return(errors.New("redis down"))

	_, err := f.provider.Handle(context.Background(), request(ipnForm()))
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
}

func TestHandle_VerifyTransport(t *testing.T) {
	tests := []struct {
		name string
		resp *http.Response
		err  error
	}{
		{"transport error", nil, errors.New("connection reset")},
		{"server error", &http.Response{StatusCode: http.StatusInternalServerError, Body: io.NopCloser(strings.NewReader("oops"))}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockHTTPClient(ctrl)
			queue := mocks.NewMockDonationQueue(ctrl)

			p, err := NewFactory(Settings{BusinessEmail: testBusiness}, Deps{
				HTTPClient:    client,
				ProductionURL: "https://ipnpb.example.invalid/cgi-bin/webscr",
				SandboxURL:    "https://sandbox.example.invalid/cgi-bin/webscr",
			}).Init(context.Background(), provider.Env{
				Sanctuary: testSanctuary,
				Queue:     queue,
				Metrics:   mocks.NewMockMetrics(ctrl),
				Log:       zerolog.Nop(),
			})
			require.NoError(t, err)

			body := ipnForm().Encode()
			client.EXPECT().Do(gomock.Any()).DoAndReturn(func(r *http.Request) (*http.Response, error) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "ipnpb.example.invalid", r.URL.Host)
				echoed, _ := io.ReadAll(r.Body)
				assert.True(t, strings.HasPrefix(string(echoed), body))
				return tt.resp, tt.err
			})

			_, err = p.Handle(context.Background(), request(ipnForm()))
			assert.Equal(t, http.StatusBadGateway, statusOf(t, err))
		})
	}
}
