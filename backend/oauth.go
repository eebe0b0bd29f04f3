package backend

import (
	"context"
	"fmt"
)

// ProviderSetup is the backend's setup guide for an OAuth provider: what to
// create in the provider's console and which redirect URI to register.
type ProviderSetup struct {
	Provider     string   `json:"provider"`
	Instructions string   `json:"instructions"`
	RedirectURI  string   `json:"redirect_uri"`
	ConsoleURL   string   `json:"console_url,omitempty"`
	Scopes       []string `json:"scopes,omitempty"`
}

// AuthorizeResult carries the external authorization URL the user must visit.
type AuthorizeResult struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state,omitempty"`
}

// FetchProviderSetup loads the setup guide for a provider.
func (c *Client) FetchProviderSetup(ctx context.Context, provider string) (*ProviderSetup, error) {
	var resp ProviderSetup
	path := fmt.Sprintf("/api/oauth/%s/setup", provider)
	if err := c.do(ctx, "GET", path, nil, &resp); err != nil {
		return nil, RewriteAuthError(err)
	}
	return &resp, nil
}

// Authorize initiates the external authorization flow. Client id and secret
// must be non-empty; scopes are the aggregated scopes of the tool or provider
// group being connected.
func (c *Client) Authorize(ctx context.Context, provider, clientID, clientSecret string, scopes []string) (*AuthorizeResult, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("client id and client secret are required before authorizing")
	}

	req := map[string]any{
		"client_id":     clientID,
		"client_secret": clientSecret,
		"scopes":        scopes,
	}

	var resp AuthorizeResult
	path := fmt.Sprintf("/api/oauth/%s/authorize", provider)
	if err := c.do(ctx, "POST", path, req, &resp); err != nil {
		return nil, RewriteAuthError(err)
	}
	return &resp, nil
}

// RefreshTokens asks the backend to refresh the stored tokens for a provider.
func (c *Client) RefreshTokens(ctx context.Context, provider string) error {
	path := fmt.Sprintf("/api/oauth/%s/refresh", provider)
	if err := c.do(ctx, "POST", path, nil, nil); err != nil {
		return RewriteAuthError(err)
	}
	return nil
}
