// Package synoptic implements the observation API client. It is the
// pipeline's only network boundary: one GET per invocation, a fixed
// timeout, and no internal retries.
package synoptic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/roaringfork/irondash/internal/fault"
	"github.com/roaringfork/irondash/internal/pipeline"
	"github.com/roaringfork/irondash/internal/provider/resilience"
)

const (
	// ProviderName identifies this observation provider.
	ProviderName = "synoptic"

	// DefaultBaseURL is the Synoptic timeseries endpoint.
	DefaultBaseURL = "https://api.synopticdata.com/v2/stations/timeseries"

	// probeStation is a known station used by VerifyToken.
	probeStation = "RFBRC"
)

// ClientConfig holds configuration for the Synoptic client.
type ClientConfig struct {
	// Token is the Synoptic API token (required for VerifyToken; fetches
	// carry the token inside the descriptor).
	Token string

	// BaseURL is the timeseries endpoint (optional, defaults to the
	// production API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a provider client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Synoptic timeseries API client.
type Client struct {
	token      string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new Synoptic client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		token:      cfg.Token,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// FetchTimeseries issues the described request and returns the parsed JSON
// document. Transport failures are *fault.Network, non-2xx responses are
// *fault.HTTPStatus with the body retained, and a body that is not a JSON
// object is *fault.UnexpectedShape. The shape of the STATION field is not
// checked here; that contract belongs to the normalizer.
func (c *Client) FetchTimeseries(ctx context.Context, desc pipeline.RequestDescriptor) (pipeline.RawDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, desc.URL(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &fault.Network{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &fault.Network{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &fault.HTTPStatus{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var doc pipeline.RawDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &fault.UnexpectedShape{Detail: "response body is not a JSON object"}
	}

	return doc, nil
}

// VerifyToken issues a minimal probe request to confirm the configured
// token is accepted by the API. Used once at process start.
func (c *Client) VerifyToken(ctx context.Context) error {
	q := url.Values{}
	q.Set("stid", probeStation)
	q.Set("recent", "60")
	q.Set("token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &fault.Network{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &fault.HTTPStatus{StatusCode: resp.StatusCode, Body: string(body)}
	}

	c.logger.Debug().Str("provider", ProviderName).Msg("token verified")
	return nil
}
