package server_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/pooltablesquad/backoffice/internal/analytics"
	"github.com/pooltablesquad/backoffice/internal/auth"
	"github.com/pooltablesquad/backoffice/internal/config"
	"github.com/pooltablesquad/backoffice/internal/metrics"
	"github.com/pooltablesquad/backoffice/internal/models"
	"github.com/pooltablesquad/backoffice/internal/pricing"
	"github.com/pooltablesquad/backoffice/internal/repository"
	"github.com/pooltablesquad/backoffice/internal/server"
	"github.com/pooltablesquad/backoffice/internal/webhook"
	"github.com/pooltablesquad/backoffice/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testJWTSecret     = "test-secret"
	testWebhookSecret = "s3cret"
)

// noopStore satisfies webhook.Store for routes the tests never exercise past
// the middleware.
type noopStore struct{}

func (noopStore) UpsertCustomerByEmail(context.Context, string, *string, *string, *string) (int64, error) {
	return 1, nil
}
func (noopStore) InsertTableRequest(context.Context, *models.TableRequest) (int64, error) {
	return 1, nil
}
func (noopStore) InsertRequestChildren(context.Context, int64, *models.TableRequest) error { return nil }
func (noopStore) InsertContact(context.Context, int64, *string) (int64, error)             { return 1, nil }
func (noopStore) InsertSellingLead(context.Context, *models.SellingLead) (int64, error)    { return 1, nil }
func (noopStore) InsertBuyingLead(context.Context, *models.BuyingLead) (int64, error)      { return 1, nil }
func (noopStore) InsertTableInquiry(context.Context, *models.TableInquiry) (int64, error)  { return 1, nil }

// ga4Stub fakes the analytics collector so the forwarder never leaves the
// test process.
type ga4Stub struct {
	status int
	calls  int
}

func (g *ga4Stub) Do(_ *http.Request) (*http.Response, error) {
	g.calls++
	return &http.Response{
		StatusCode: g.status,
		Body:       io.NopCloser(bytes.NewBufferString("")),
	}, nil
}

type testServer struct {
	router *gin.Engine
	db     pgxmock.PgxPoolIface
	store  *mocks.ContractorStore
	geo    *mocks.Provider
	route  *mocks.Estimator
	ga4    *ga4Stub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithSecret(t, testWebhookSecret)
}

func newTestServerWithSecret(t *testing.T, webhookSecret string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(db.Close)

	logger := slog.Default()
	reg := prometheus.NewRegistry()
	appMetrics := metrics.NewMetrics(reg)
	repo := repository.NewRepository(db, logger)

	store := mocks.NewContractorStore(t)
	geocoder := mocks.NewProvider(t)
	router := mocks.NewEstimator(t)
	calc := pricing.NewCalculator(logger, store, geocoder, router, appMetrics)

	cfg := &config.Config{
		Env:            config.EnvLocal,
		JWTSecret:      testJWTSecret,
		WebhookSecret:  webhookSecret,
		AllowedOrigins: []string{"http://localhost:3000"},
	}

	webhookHandler := webhook.NewHandler(logger, noopStore{}, appMetrics)
	authHandler := auth.NewHandler(logger, repo, cfg.JWTSecret, false)
	ga4 := &ga4Stub{status: http.StatusNoContent}
	forwarder := analytics.NewForwarderWithClient(ga4, "G-TEST", "secret-key", logger)

	srv := server.New(logger, cfg, repo, calc, appMetrics, webhookHandler, authHandler, forwarder, reg)

	return &testServer{router: srv.Router(), db: db, store: store, geo: geocoder, route: router, ga4: ga4}
}

// loggedIn returns a valid session cookie without touching the database.
func loggedIn(t *testing.T) *http.Cookie {
	t.Helper()
	token, err := auth.IssueToken(testJWTSecret, 1, time.Now())
	require.NoError(t, err)

	return &http.Cookie{Name: auth.CookieName, Value: token}
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	return rec
}

func TestWebhookSecret(t *testing.T) {
	t.Run("missing secret is forbidden", func(t *testing.T) {
		ts := newTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/webhooks/request", nil)
		rec := ts.do(req)

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid webhook secret")
	})

	t.Run("secret via query parameter passes", func(t *testing.T) {
		ts := newTestServer(t)

		// No rawRequest field: the middleware passed if we got the
		// handler's own 400 instead of a 403.
		req := httptest.NewRequest(http.MethodPost, "/webhooks/request?secret="+testWebhookSecret, nil)
		rec := ts.do(req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "rawRequest")
	})

	t.Run("secret via header passes", func(t *testing.T) {
		ts := newTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/webhooks/request", nil)
		req.Header.Set("X-Webhook-Secret", testWebhookSecret)
		rec := ts.do(req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unconfigured secret rejects everything", func(t *testing.T) {
		ts := newTestServerWithSecret(t, "")

		req := httptest.NewRequest(http.MethodPost, "/webhooks/request", nil)
		rec := ts.do(req)

		require.Equal(t, http.StatusForbidden, rec.Code)

		// Not even an explicitly empty secret may match.
		req = httptest.NewRequest(http.MethodPost, "/webhooks/request?secret=", nil)
		rec = ts.do(req)

		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestHealthz(t *testing.T) {
	t.Run("healthy database answers ok", func(t *testing.T) {
		ts := newTestServer(t)
		ts.db.ExpectPing()

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := ts.do(req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NoError(t, ts.db.ExpectationsWereMet())
	})

	t.Run("unreachable database answers service unavailable", func(t *testing.T) {
		ts := newTestServer(t)
		ts.db.ExpectPing().WillReturnError(assert.AnError)

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := ts.do(req)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "DB ping failed")
	})
}

func TestAnalyticsEndpoint(t *testing.T) {
	t.Run("forwards the event", func(t *testing.T) {
		ts := newTestServer(t)

		body := `{"client_id": "visitor-123", "event_name": "quote_requested"}`
		req := httptest.NewRequest(http.MethodPost, "/send-ga4-event", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := ts.do(req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, ts.ga4.calls)
		assert.Contains(t, rec.Body.String(), "Event sent to GA4 successfully")
	})

	t.Run("missing fields are rejected without an outbound call", func(t *testing.T) {
		ts := newTestServer(t)

		body := `{"client_id": "visitor-123"}`
		req := httptest.NewRequest(http.MethodPost, "/send-ga4-event", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := ts.do(req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, ts.ga4.calls)
	})
}

func TestDashboardAuth(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/contractors", nil)
	rec := ts.do(req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDistanceEndpoint(t *testing.T) {
	primaryCoords := &models.Coordinates{Latitude: 40.0, Longitude: -76.3}
	contractorCoords := &models.Coordinates{Latitude: 40.6, Longitude: -75.5}

	t.Run("quotes a reachable job", func(t *testing.T) {
		ts := newTestServer(t)

		rate := &models.ContractorRate{City: "Allentown", State: "PA", PerMileRate: 2.0}
		ts.store.On("GetContractorRate", mock.Anything, int64(7)).Return(rate, nil).Once()
		ts.geo.On("Geocode", mock.Anything, "Allentown, PA").Return(contractorCoords, nil).Once()
		ts.geo.On("Geocode", mock.Anything, "123 Main St").Return(primaryCoords, nil).Once()
		ts.geo.On("Geocode", mock.Anything, "").Return(nil, nil).Once()
		ts.route.On("RouteDistance", mock.Anything, contractorCoords, primaryCoords).Return(85.0, nil).Once()
		ts.route.On("RouteDistance", mock.Anything, primaryCoords, (*models.Coordinates)(nil)).Return(0.0, nil).Once()

		body := `{"contractorId": 7, "primaryAddress": "123 Main St"}`
		req := httptest.NewRequest(http.MethodPost, "/api/calculator/distance", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(loggedIn(t))
		rec := ts.do(req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"leg1_distance": 85, "leg2_distance": 0, "mileage_surcharge": 130}`, rec.Body.String())
	})

	t.Run("unknown contractor is 404", func(t *testing.T) {
		ts := newTestServer(t)

		ts.store.On("GetContractorRate", mock.Anything, int64(99)).Return(nil, nil).Once()

		body := `{"contractorId": 99, "primaryAddress": "123 Main St"}`
		req := httptest.NewRequest(http.MethodPost, "/api/calculator/distance", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(loggedIn(t))
		rec := ts.do(req)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing primary address is 400", func(t *testing.T) {
		ts := newTestServer(t)

		body := `{"contractorId": 7}`
		req := httptest.NewRequest(http.MethodPost, "/api/calculator/distance", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(loggedIn(t))
		rec := ts.do(req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPricingSheetEndpoint(t *testing.T) {
	t.Run("returns the joined sheet", func(t *testing.T) {
		ts := newTestServer(t)

		size := 8.0
		ts.db.ExpectQuery(regexp.QuoteMeta(`FROM contractor_prices`)).
			WithArgs(int64(7)).
			WillReturnRows(pgxmock.NewRows(
				[]string{"service_id", "price", "sub_price", "material_cost", "service_name", "table_size_ft"},
			).AddRow(int64(1), 250.0, (*float64)(nil), (*float64)(nil), "Refelt", &size))

		req := httptest.NewRequest(http.MethodGet, "/api/calculator/full-pricing-sheet/7", nil)
		req.AddCookie(loggedIn(t))
		rec := ts.do(req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"service_name":"Refelt"`)
		assert.NoError(t, ts.db.ExpectationsWereMet())
	})

	t.Run("unknown contractor yields an empty sheet", func(t *testing.T) {
		ts := newTestServer(t)

		ts.db.ExpectQuery(regexp.QuoteMeta(`FROM contractor_prices`)).
			WithArgs(int64(99)).
			WillReturnRows(pgxmock.NewRows(
				[]string{"service_id", "price", "sub_price", "material_cost", "service_name", "table_size_ft"},
			))

		req := httptest.NewRequest(http.MethodGet, "/api/calculator/full-pricing-sheet/99", nil)
		req.AddCookie(loggedIn(t))
		rec := ts.do(req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("garbage id is 400", func(t *testing.T) {
		ts := newTestServer(t)

		req := httptest.NewRequest(http.MethodGet, "/api/calculator/full-pricing-sheet/seven", nil)
		req.AddCookie(loggedIn(t))
		rec := ts.do(req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRequestStatusEndpoint(t *testing.T) {
	t.Run("whitelisted status is accepted", func(t *testing.T) {
		ts := newTestServer(t)

		ts.db.ExpectExec(regexp.QuoteMeta(`UPDATE pool_table_requests`)).
			WithArgs("responded", int64(5)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		body := `{"status": "responded"}`
		req := httptest.NewRequest(http.MethodPatch, "/api/requests/5/status", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(loggedIn(t))
		rec := ts.do(req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NoError(t, ts.db.ExpectationsWereMet())
	})

	t.Run("unknown status is rejected without touching the database", func(t *testing.T) {
		ts := newTestServer(t)

		body := `{"status": "archived"}`
		req := httptest.NewRequest(http.MethodPatch, "/api/requests/5/status", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(loggedIn(t))
		rec := ts.do(req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NoError(t, ts.db.ExpectationsWereMet())
	})
}
