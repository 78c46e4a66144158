// Package identity looks up worker profiles in the HR-synced worker
// directory service.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/services"
)

// Client talks to the worker-directory HTTP API. Lookups are best effort:
// callers degrade to empty audit fields when the directory is unreachable.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a worker-directory client
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// LookupByEmail resolves a worker profile by email
func (c *Client) LookupByEmail(ctx context.Context, email string) (*services.WorkerProfile, error) {
	lookupURL := fmt.Sprintf("%s/api/workers?email=%s", c.baseURL, url.QueryEscape(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("worker directory lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("worker directory returned status %d: %s", resp.StatusCode, string(body))
	}

	var profile services.WorkerProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode worker profile: %w", err)
	}
	return &profile, nil
}

var _ services.WorkerDirectory = (*Client)(nil)
