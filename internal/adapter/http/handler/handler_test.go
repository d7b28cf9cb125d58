package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"sanctuary-mural/internal/adapter/http/middleware"
	"sanctuary-mural/internal/core/ports/mocks"
	"sanctuary-mural/internal/provider"
	"sanctuary-mural/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testAPIKey = "admin-secret"

type fakeDonations struct {
	mu       sync.Mutex
	calls    []string
	lastReq  *provider.Request
	response *provider.Response
	err      error
}

func (f *fakeDonations) Handle(_ context.Context, providerID string, req *provider.Request) (*provider.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, providerID)
	f.lastReq = req
	return f.response, f.err
}

type updateCall struct {
	column, row int
	identifier  string
}

type fakeMural struct {
	current   []byte
	err       error
	updates   []updateCall
	updateErr error
}

func (f *fakeMural) Current(context.Context) ([]byte, error) {
	return f.current, f.err
}

func (f *fakeMural) Sync(w http.ResponseWriter, r *http.Request) error {
	up := websocket.Upgrader{}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	return conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"start"}`))
}

func (f *fakeMural) UpdateIdentifier(_ context.Context, column, row int, identifier string) error {
	f.updates = append(f.updates, updateCall{column, row, identifier})
	return f.updateErr
}

func newTestRouter(don *fakeDonations, mural *fakeMural) *gin.Engine {
	return SetupRouter(RouterDeps{
		RoutePrefix: "/sanctuaries",
		AdminKey:    middleware.StaticKey(testAPIKey),
		Donations: func(s string) (DonationService, bool) {
			if s != "hollow" {
				return nil, false
			}
			return don, true
		},
		Murals: func(s string) (MuralService, bool) {
			if s != "hollow" {
				return nil, false
			}
			return mural, true
		},
		Logger: zerolog.Nop(),
	})
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// --- Donation webhook ---

func TestReceive_PassesRequestAndWritesProviderResponse(t *testing.T) {
	don := &fakeDonations{response: provider.Text(http.StatusOK, "challenge-123")}
	r := newTestRouter(don, &fakeMural{})

	req := httptest.NewRequest(http.MethodPost, "/sanctuaries/hollow/donations/twitch/live", strings.NewReader(`{"a":1}`))
	req.Header.Set("Twitch-Eventsub-Message-Id", "msg-1")
	w := serve(r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "challenge-123", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	require.Equal(t, []string{"twitch"}, don.calls)
	assert.Equal(t, `{"a":1}`, string(don.lastReq.Body))
	assert.Equal(t, "msg-1", don.lastReq.Header.Get("Twitch-Eventsub-Message-Id"))
	assert.False(t, don.lastReq.ReceivedAt.IsZero())
}

func TestReceive_EmptyProviderResponse(t *testing.T) {
	don := &fakeDonations{response: provider.Empty(http.StatusCreated)}
	w := serve(newTestRouter(don, &fakeMural{}),
		httptest.NewRequest(http.MethodPost, "/sanctuaries/hollow/donations/twitch/live", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestReceive_ProviderError(t *testing.T) {
	don := &fakeDonations{err: apperror.ErrInvalidSignature()}
	w := serve(newTestRouter(don, &fakeMural{}),
		httptest.NewRequest(http.MethodPost, "/sanctuaries/hollow/donations/twitch/live", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "SEC_002", decode(t, w)["error_code"])
}

func TestReceive_UnknownSanctuary(t *testing.T) {
	don := &fakeDonations{}
	w := serve(newTestRouter(don, &fakeMural{}),
		httptest.NewRequest(http.MethodPost, "/sanctuaries/nowhere/donations/twitch/live", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Sanctuary not found", decode(t, w)["error"])
	assert.Empty(t, don.calls)
}

func TestReceive_BodyTooLarge(t *testing.T) {
	don := &fakeDonations{}
	body := bytes.Repeat([]byte("a"), 1<<20+1)
	w := serve(newTestRouter(don, &fakeMural{}),
		httptest.NewRequest(http.MethodPost, "/sanctuaries/hollow/donations/paypal/live", bytes.NewReader(body)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Empty(t, don.calls)
}

// --- Mural reads ---

func TestCurrent_ReturnsSnapshot(t *testing.T) {
	mural := &fakeMural{current: []byte(`{"pixels":[]}`)}
	w := serve(newTestRouter(&fakeDonations{}, mural),
		httptest.NewRequest(http.MethodGet, "/sanctuaries/hollow/pixels/current", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"pixels":[]}`, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestCurrent_Error(t *testing.T) {
	mural := &fakeMural{err: apperror.ErrStoreFailure(errors.New("db down"))}
	w := serve(newTestRouter(&fakeDonations{}, mural),
		httptest.NewRequest(http.MethodGet, "/sanctuaries/hollow/pixels/current", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "SYS_001", decode(t, w)["error_code"])
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestCurrent_UnknownSanctuary(t *testing.T) {
	w := serve(newTestRouter(&fakeDonations{}, &fakeMural{}),
		httptest.NewRequest(http.MethodGet, "/sanctuaries/nowhere/pixels/current", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSync_UpgradesThroughRouter(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(&fakeDonations{}, &fakeMural{}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sanctuaries/hollow/pixels/sync"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"start"}`, string(msg))
}

func TestSync_UnknownSanctuary(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(&fakeDonations{}, &fakeMural{}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sanctuaries/nowhere/pixels/sync"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// --- Admin identifier update ---

func updateRequest(path, body, auth string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	return req
}

func TestUpdateIdentifier_Success(t *testing.T) {
	mural := &fakeMural{}
	w := serve(newTestRouter(&fakeDonations{}, mural),
		updateRequest("/sanctuaries/hollow/pixels/update/3/0", `{"identifier":"  @otter  "}`, "ApiKey "+testAPIKey))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	require.Len(t, mural.updates, 1)
	assert.Equal(t, updateCall{column: 3, row: 0, identifier: "@otter"}, mural.updates[0])
}

func TestUpdateIdentifier_Unauthorized(t *testing.T) {
	for _, auth := range []string{"", "ApiKey wrong", "Bearer " + testAPIKey} {
		mural := &fakeMural{}
		w := serve(newTestRouter(&fakeDonations{}, mural),
			updateRequest("/sanctuaries/hollow/pixels/update/3/0", `{"identifier":"x"}`, auth))

		assert.Equal(t, http.StatusUnauthorized, w.Code, auth)
		assert.Equal(t, "Unauthorized", decode(t, w)["error"])
		assert.Empty(t, mural.updates)
	}
}

func TestUpdateIdentifier_BadInput(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"non-numeric column", "/sanctuaries/hollow/pixels/update/x/0", `{"identifier":"a"}`},
		{"negative row", "/sanctuaries/hollow/pixels/update/1/-1", `{"identifier":"a"}`},
		{"missing identifier", "/sanctuaries/hollow/pixels/update/1/1", `{}`},
		{"blank identifier", "/sanctuaries/hollow/pixels/update/1/1", `{"identifier":"   "}`},
		{"markup", "/sanctuaries/hollow/pixels/update/1/1", `{"identifier":"<script>"}`},
		{"not json", "/sanctuaries/hollow/pixels/update/1/1", `identifier=a`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mural := &fakeMural{}
			w := serve(newTestRouter(&fakeDonations{}, mural), updateRequest(tt.path, tt.body, "ApiKey "+testAPIKey))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, mural.updates)
		})
	}
}

func TestUpdateIdentifier_PixelNotFound(t *testing.T) {
	mural := &fakeMural{updateErr: apperror.ErrPixelNotFound(9, 9)}
	w := serve(newTestRouter(&fakeDonations{}, mural),
		updateRequest("/sanctuaries/hollow/pixels/update/9/9", `{"identifier":"x"}`, "ApiKey "+testAPIKey))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "MUR_001", decode(t, w)["error_code"])
}

func TestUpdateIdentifier_OutsideMural(t *testing.T) {
	mural := &fakeMural{updateErr: apperror.ErrCoordinateOutOfRange(99, 99)}
	w := serve(newTestRouter(&fakeDonations{}, mural),
		updateRequest("/sanctuaries/hollow/pixels/update/99/99", `{"identifier":"x"}`, "ApiKey "+testAPIKey))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MUR_003", decode(t, w)["error_code"])
	require.Len(t, mural.updates, 1)
	assert.Equal(t, updateCall{99, 99, "x"}, mural.updates[0])
}

// --- Health and metrics ---

func TestHealthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)

	pg := mocks.NewMockHealthChecker(ctrl)
	rd := mocks.NewMockHealthChecker(ctrl)
	pg.EXPECT().Name().Return("postgresql").AnyTimes()
	rd.EXPECT().Name().Return("redis").AnyTimes()
	pg.EXPECT().Ping(gomock.Any()).Return(nil).Times(2)
	rd.EXPECT().Ping(gomock.Any()).Return(nil)
	rd.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))

	r := gin.New()
	r.GET("/health", HealthCheck(pg, rd))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])

	w = serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode(t, w)
	assert.Equal(t, "degraded", body["status"])
	deps := body["dependencies"].(map[string]any)
	assert.Equal(t, "unhealthy", deps["redis"].(map[string]any)["status"])
	assert.Equal(t, "healthy", deps["postgresql"].(map[string]any)["status"])
}

func TestSetupRouter_MetricsEndpoint(t *testing.T) {
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("mural_http_requests_total 1\n"))
	})
	r := SetupRouter(RouterDeps{
		RoutePrefix:    "/sanctuaries",
		Donations:      func(string) (DonationService, bool) { return nil, false },
		Murals:         func(string) (MuralService, bool) { return nil, false },
		MetricsHandler: metricsHandler,
		Logger:         zerolog.Nop(),
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mural_http_requests_total")
}
