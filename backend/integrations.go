package backend

import (
	"context"
	"fmt"
)

// Integration is a server-owned persisted tool connection. Credentials are
// write-only: they are sent on save and never echoed back by the backend.
type Integration struct {
	ID        string `json:"id"`
	ToolName  string `json:"tool_name"`
	ToolCode  string `json:"tool_code,omitempty"`
	Endpoint  string `json:"endpoint_id,omitempty"`
	Connected bool   `json:"connected"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// SaveIntegrationRequest carries credentials for one tool identity. A
// provider group fans out into one request per member tool with the same
// values.
type SaveIntegrationRequest struct {
	EndpointID string            `json:"endpoint_id"`
	ToolName   string            `json:"tool_name"`
	ToolCode   string            `json:"tool_code,omitempty"`
	Values     map[string]string `json:"credentials"`
}

// TestResult is the outcome of a side-effect-free connectivity probe.
type TestResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// ListIntegrations returns the connected integrations for an endpoint.
func (c *Client) ListIntegrations(ctx context.Context, endpointID string) ([]Integration, error) {
	var resp struct {
		Integrations []Integration `json:"integrations"`
	}
	path := fmt.Sprintf("/api/endpoints/%s/integrations", endpointID)
	if err := c.do(ctx, "GET", path, nil, &resp); err != nil {
		return nil, RewriteAuthError(err)
	}
	return resp.Integrations, nil
}

// SaveIntegration creates or updates the stored credentials for one tool.
func (c *Client) SaveIntegration(ctx context.Context, req SaveIntegrationRequest) (*Integration, error) {
	var resp Integration
	path := fmt.Sprintf("/api/endpoints/%s/integrations", req.EndpointID)
	if err := c.do(ctx, "POST", path, req, &resp); err != nil {
		return nil, RewriteAuthError(err)
	}
	return &resp, nil
}

// DeleteIntegration removes a stored integration.
func (c *Client) DeleteIntegration(ctx context.Context, endpointID, integrationID string) error {
	path := fmt.Sprintf("/api/endpoints/%s/integrations/%s", endpointID, integrationID)
	if err := c.do(ctx, "DELETE", path, nil, nil); err != nil {
		return RewriteAuthError(err)
	}
	return nil
}

// TestIntegration probes the given credential values without persisting
// anything. Requires a non-empty endpoint identifier.
func (c *Client) TestIntegration(ctx context.Context, endpointID, toolName string, values map[string]string) (*TestResult, error) {
	if endpointID == "" {
		return nil, fmt.Errorf("an endpoint must be selected before testing a connection")
	}

	req := map[string]any{
		"tool_name":   toolName,
		"credentials": values,
	}

	var resp TestResult
	path := fmt.Sprintf("/api/endpoints/%s/integrations/test", endpointID)
	if err := c.do(ctx, "POST", path, req, &resp); err != nil {
		return nil, RewriteAuthError(err)
	}
	return &resp, nil
}
