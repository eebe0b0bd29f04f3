// Package backend is the REST client for the dashboard backend collaborator.
//
// Everything the orchestrator consumes arrives through this package:
// configuration and test turns against a wrapped endpoint, integration
// credential operations, and the OAuth provider flows. The backend's payloads
// are weakly typed and use inconsistent key naming between services, so all
// alias resolution happens here, once, at the ingestion boundary.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wrapchat/config"
)

// Client talks to the dashboard backend. All identifiers (endpoint ids,
// integration ids) are opaque strings assigned by the backend.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// NewClient creates a backend client.
func NewClient(baseURL, authToken string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		authToken: authToken,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// SetAuthToken replaces the bearer token used on subsequent requests.
func (c *Client) SetAuthToken(token string) {
	c.authToken = token
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if config.Debug && config.DebugLog != nil {
			config.DebugLog.Printf("[Backend] %s %s -> %d: %s", method, path, resp.StatusCode, truncateForLog(data))
		}
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, errorMessage(data))
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// errorMessage extracts a human-readable message from an error body, falling
// back to the raw body.
func errorMessage(data []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		for _, msg := range []string{payload.Error, payload.Message, payload.Detail} {
			if msg != "" {
				return msg
			}
		}
	}
	return truncateForLog(data)
}

func truncateForLog(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
