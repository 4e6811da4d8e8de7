package usagelimit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/janekbaraniewski/claude-powerline/internal/version"
)

const (
	UsageURL     = "https://api.anthropic.com/api/oauth/usage"
	betaHeader   = "oauth-2025-04-20"
	fetchTimeout = 5 * time.Second
)

// Client queries the OAuth usage endpoint.
type Client struct {
	URL        string
	HTTPClient *http.Client
	Timeout    time.Duration
	Log        *zap.Logger
}

func NewClient(log *zap.Logger) *Client {
	return &Client{
		URL:        UsageURL,
		HTTPClient: http.DefaultClient,
		Timeout:    fetchTimeout,
		Log:        log,
	}
}

// Fetch makes a single request and returns nil on any failure: transport
// error, timeout, non-200 status or an undecodable body. The request is
// cancelled once Timeout elapses.
func (c *Client) Fetch(ctx context.Context, accessToken string) *usageResponse {
	usage, err := c.fetch(ctx, accessToken)
	if err != nil {
		c.logger().Debug("usage API request failed", zap.Error(err))
		return nil
	}
	return usage
}

func (c *Client) fetch(ctx context.Context, accessToken string) (*usageResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("anthropic-beta", betaHeader)
	req.Header.Set("User-Agent", "claude-powerline/"+version.Version)

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("API returned %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var usage *usageResponse
	if err := json.Unmarshal(body, &usage); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if usage == nil {
		return nil, errors.New("empty response")
	}
	return usage, nil
}

func (c *Client) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}
