// Package github implements the issue tracker client feedback is filed
// against.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/roaringfork/irondash/internal/fault"
	"github.com/roaringfork/irondash/internal/feedback"
	"github.com/roaringfork/irondash/internal/provider/resilience"
)

const (
	// ProviderName identifies this tracker.
	ProviderName = "github"

	// DefaultBaseURL is the GitHub REST API base URL.
	DefaultBaseURL = "https://api.github.com"

	acceptHeader = "application/vnd.github.v3+json"
)

// ClientConfig holds configuration for the GitHub client.
type ClientConfig struct {
	// Token is the GitHub API token (required).
	Token string

	// Owner and Repo locate the repository issues are filed against
	// (required).
	Owner string
	Repo  string

	// BaseURL is the API base URL (optional, defaults to api.github.com).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a provider client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client files issues against a GitHub repository.
type Client struct {
	token      string
	owner      string
	repo       string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new GitHub issues client.
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
		owner:      cfg.Owner,
		repo:       cfg.Repo,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// CreateIssue files one issue. Success is HTTP 201; any other status is
// *fault.HTTPStatus with the body retained, and transport failures are
// *fault.Network.
func (c *Client) CreateIssue(ctx context.Context, issue feedback.Issue) error {
	url := fmt.Sprintf("%s/repos/%s/%s/issues", c.baseURL, c.owner, c.repo)

	payload, err := json.Marshal(issuePayload{Title: issue.Title, Body: issue.Body})
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &fault.Network{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return &fault.HTTPStatus{StatusCode: resp.StatusCode, Body: string(body)}
	}

	c.logger.Debug().Str("repo", c.owner+"/"+c.repo).Msg("issue created")
	return nil
}

type issuePayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
