package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// CollectURL -- Google Analytics Measurement Protocol endpoint.
const CollectURL = "https://www.google-analytics.com/mp/collect"

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Event is one analytics event forwarded on behalf of a public site visitor.
type Event struct {
	ClientID string
	Name     string
}

// Forwarder relays events to Google Analytics so the public sites never hold
// the API secret themselves.
type Forwarder struct {
	client        HTTPClient
	baseURL       string
	measurementID string
	apiSecret     string
	log           *slog.Logger
}

// NewForwarder creates a Forwarder with a default HTTP client.
func NewForwarder(measurementID, apiSecret string, log *slog.Logger) *Forwarder {
	const timeout = 10

	return &Forwarder{
		client: &http.Client{
			Timeout: timeout * time.Second,
		},
		baseURL:       CollectURL,
		measurementID: measurementID,
		apiSecret:     apiSecret,
		log:           log,
	}
}

// NewForwarderWithClient allows injecting a custom HTTP client.
func NewForwarderWithClient(client HTTPClient, measurementID, apiSecret string, log *slog.Logger) *Forwarder {
	return &Forwarder{
		client:        client,
		baseURL:       CollectURL,
		measurementID: measurementID,
		apiSecret:     apiSecret,
		log:           log,
	}
}

type collectPayload struct {
	ClientID string         `json:"client_id"`
	Events   []collectEvent `json:"events"`
}

type collectEvent struct {
	Name string `json:"name"`
}

// Send posts a single event to the Measurement Protocol. A non-success status
// is an error carrying the response body, since the API reports credential
// and payload problems that way.
func (f *Forwarder) Send(ctx context.Context, event Event) error {
	payload := collectPayload{
		ClientID: event.ClientID,
		Events:   []collectEvent{{Name: event.Name}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal analytics event: %w", err)
	}

	query := url.Values{}
	query.Set("measurement_id", f.measurementID)
	query.Set("api_secret", f.apiSecret)

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, f.baseURL+"?"+query.Encode(), bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("failed to create analytics request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	f.log.DebugContext(ctx, "Forwarding analytics event", "event", event.Name)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send analytics event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		details, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("analytics API returned status %d: %s", resp.StatusCode, details)
	}

	return nil
}
