package geocoding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pooltablesquad/backoffice/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider resolves free-text addresses into coordinates using the
// Google Maps Geocoding API.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

// GoogleAPIClient is the narrow slice of the Google Maps client the provider
// uses, kept as an interface so tests can mock it.
type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// NewGoogleProvider returns a GoogleProvider backed by the given client.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// NewClient builds a real Google Maps client for the given API key.
func NewClient(apiKey string, rateLimit int) (*maps.Client, error) {
	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if rateLimit > 0 {
		opts = append(opts, maps.WithRateLimit(rateLimit))
	}

	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return client, nil
}

// Geocode converts an address into geographic coordinates.
//
// An empty address returns (nil, nil) without calling the API, so optional
// form addresses cost nothing. An address the API cannot match also returns
// (nil, nil): "not found" is a value here, not an error. Only a failed call
// (network, quota, auth) surfaces as an error.
func (gp *GoogleProvider) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	if address == "" {
		return nil, nil
	}

	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "address", address)

	req := maps.GeocodingRequest{Address: address}
	results, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode address: %w", err)
	}

	if len(results) == 0 {
		gp.log.DebugContext(ctx, "Address did not geocode", "address", address)
		return nil, nil
	}
	loc := results[0].Geometry.Location

	return &models.Coordinates{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}
