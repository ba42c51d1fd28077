package routing_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/pooltablesquad/backoffice/internal/models"
	"github.com/pooltablesquad/backoffice/internal/routing"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// stubHTTPClient answers every request with a canned response and counts the
// calls it receives.
type stubHTTPClient struct {
	status int
	body   string
	err    error
	calls  int

	lastRequest *http.Request
}

func (s *stubHTTPClient) Do(req *http.Request) (*http.Response, error) {
	s.calls++
	s.lastRequest = req
	if s.err != nil {
		return nil, s.err
	}

	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(bytes.NewBufferString(s.body)),
	}, nil
}

func newEstimator(client *stubHTTPClient) *routing.GoogleEstimator {
	return routing.NewGoogleEstimatorWithClient(
		client, "test-key", rate.NewLimiter(rate.Inf, 1), slog.Default(),
	)
}

func TestRouteDistance(t *testing.T) {
	ctx := t.Context()
	origin := &models.Coordinates{Latitude: 40.0, Longitude: -75.0}
	destination := &models.Coordinates{Latitude: 40.5, Longitude: -75.5}

	t.Run("nil origin short-circuits without calling the api", func(t *testing.T) {
		client := &stubHTTPClient{status: http.StatusOK}
		estimator := newEstimator(client)

		miles, err := estimator.RouteDistance(ctx, nil, destination)

		require.NoError(t, err)
		require.Zero(t, miles)
		require.Zero(t, client.calls)
	})

	t.Run("nil destination short-circuits without calling the api", func(t *testing.T) {
		client := &stubHTTPClient{status: http.StatusOK}
		estimator := newEstimator(client)

		miles, err := estimator.RouteDistance(ctx, origin, nil)

		require.NoError(t, err)
		require.Zero(t, miles)
		require.Zero(t, client.calls)
	})

	t.Run("converts meters to miles", func(t *testing.T) {
		client := &stubHTTPClient{
			status: http.StatusOK,
			body:   `{"routes":[{"distanceMeters":160934.4}]}`,
		}
		estimator := newEstimator(client)

		miles, err := estimator.RouteDistance(ctx, origin, destination)

		require.NoError(t, err)
		require.InDelta(t, 100.0, miles, 0.01)
		require.Equal(t, 1, client.calls)
	})

	t.Run("sends key and field mask headers", func(t *testing.T) {
		client := &stubHTTPClient{
			status: http.StatusOK,
			body:   `{"routes":[{"distanceMeters":1000}]}`,
		}
		estimator := newEstimator(client)

		_, err := estimator.RouteDistance(ctx, origin, destination)

		require.NoError(t, err)
		require.Equal(t, "test-key", client.lastRequest.Header.Get("X-Goog-Api-Key"))
		require.Equal(t, "routes.distanceMeters", client.lastRequest.Header.Get("X-Goog-FieldMask"))

		var payload map[string]any
		body, _ := io.ReadAll(client.lastRequest.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
		require.Equal(t, "DRIVE", payload["travelMode"])
	})

	t.Run("empty routes is zero distance, not an error", func(t *testing.T) {
		client := &stubHTTPClient{status: http.StatusOK, body: `{"routes":[]}`}
		estimator := newEstimator(client)

		miles, err := estimator.RouteDistance(ctx, origin, destination)

		require.NoError(t, err)
		require.Zero(t, miles)
	})

	t.Run("non-200 status propagates as error", func(t *testing.T) {
		client := &stubHTTPClient{status: http.StatusForbidden, body: `{"error":{"status":"PERMISSION_DENIED"}}`}
		estimator := newEstimator(client)

		_, err := estimator.RouteDistance(ctx, origin, destination)

		require.Error(t, err)
		require.Contains(t, err.Error(), "403")
	})

	t.Run("transport error propagates", func(t *testing.T) {
		client := &stubHTTPClient{err: io.ErrUnexpectedEOF}
		estimator := newEstimator(client)

		_, err := estimator.RouteDistance(ctx, origin, destination)

		require.Error(t, err)
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("malformed body propagates as error", func(t *testing.T) {
		client := &stubHTTPClient{status: http.StatusOK, body: `{"routes":`}
		estimator := newEstimator(client)

		_, err := estimator.RouteDistance(ctx, origin, destination)

		require.Error(t, err)
	})
}
