package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pooltablesquad/backoffice/internal/models"
	"golang.org/x/time/rate"
)

// ComputeRoutesURL -- Google Routes API v2 endpoint.
const ComputeRoutesURL = "https://routes.googleapis.com/directions/v2:computeRoutes"

// metersToMiles is the fixed conversion factor from the API's native unit to
// the display unit used everywhere in the dashboard.
const metersToMiles = 0.000621371

// GoogleEstimator implements Estimator using the Google Routes API.
type GoogleEstimator struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the Routes API
	apiKey  string        // API key with Routes API access
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type waypoint struct {
	Location struct {
		LatLng latLng `json:"latLng"`
	} `json:"location"`
}

type computeRoutesRequest struct {
	Origin      waypoint `json:"origin"`
	Destination waypoint `json:"destination"`
	TravelMode  string   `json:"travelMode"`
}

// computeRoutesResponse is trimmed to the single field the request masks for.
type computeRoutesResponse struct {
	Routes []struct {
		DistanceMeters float64 `json:"distanceMeters"`
	} `json:"routes"`
}

// NewGoogleEstimator creates a Routes API estimator with a default HTTP client.
func NewGoogleEstimator(apiKey string, rateLimit int, log *slog.Logger) *GoogleEstimator {
	const timeout = 10

	return &GoogleEstimator{
		client: &http.Client{
			Timeout: timeout * time.Second,
		},
		baseURL: ComputeRoutesURL,
		apiKey:  apiKey,
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
	}
}

// NewGoogleEstimatorWithClient allows injecting a custom HTTP client.
func NewGoogleEstimatorWithClient(
	client HTTPClient,
	apiKey string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *GoogleEstimator {
	return &GoogleEstimator{
		client:  client,
		baseURL: ComputeRoutesURL,
		apiKey:  apiKey,
		log:     log,
		limiter: limiter,
	}
}

// RouteDistance returns the driving distance between origin and destination in
// miles. Either endpoint being nil short-circuits to 0 with no outbound call:
// an optional leg with no address contributes zero distance rather than an
// error. Transport failures, non-success statuses, and undecodable bodies all
// propagate, so callers can tell "no route" (a zero) apart from "routing
// service broken" (an error).
func (ge *GoogleEstimator) RouteDistance(
	ctx context.Context,
	origin, destination *models.Coordinates,
) (float64, error) {
	if origin == nil || destination == nil {
		return 0, nil
	}

	if err := ge.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit exceeded: %w", err)
	}

	ge.log.DebugContext(ctx, "Computing route distance",
		"origin_lat", origin.Latitude, "origin_lng", origin.Longitude,
		"dest_lat", destination.Latitude, "dest_lng", destination.Longitude)

	payload := computeRoutesRequest{TravelMode: "DRIVE"}
	payload.Origin.Location.LatLng = latLng{Latitude: origin.Latitude, Longitude: origin.Longitude}
	payload.Destination.Location.LatLng = latLng{Latitude: destination.Latitude, Longitude: destination.Longitude}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to encode routes request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ge.baseURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", ge.apiKey)
	// Masking to the distance keeps the response payload minimal.
	req.Header.Set("X-Goog-FieldMask", "routes.distanceMeters")

	resp, err := ge.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute routes request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		ge.log.ErrorContext(ctx, "Routes API error", "status", resp.StatusCode, "body", string(respBody))
		return 0, fmt.Errorf("routes API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response body: %w", err)
	}

	var result computeRoutesResponse
	if err = json.Unmarshal(respBody, &result); err != nil {
		return 0, fmt.Errorf("failed to decode routes response: %w", err)
	}

	// No route between two valid points is a value, not a failure.
	if len(result.Routes) == 0 {
		ge.log.DebugContext(ctx, "Routes API returned no route")
		return 0, nil
	}

	return result.Routes[0].DistanceMeters * metersToMiles, nil
}
