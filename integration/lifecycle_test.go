package integration

import (
	"errors"
	"testing"

	"wrapchat/backend"
	"wrapchat/tools"
)

func apiKeyEntry() tools.Entry {
	return tools.Entry{Tool: &tools.ToolDescriptor{
		Name:        "jira",
		DisplayName: "Jira",
		Fields: []tools.CredentialField{
			{Name: "api_key", Label: "API key", Required: true},
		},
	}}
}

func oauthGroupEntry() tools.Entry {
	fields := []tools.CredentialField{
		{Name: "client_id", Label: "Client ID", Required: true},
		{Name: "client_secret", Label: "Client secret", Required: true, Type: tools.FieldPassword},
	}
	return tools.Entry{Group: &tools.ProviderGroup{
		ProviderKey: "google",
		DisplayName: "Google",
		Tools: []tools.ToolDescriptor{
			{Name: "gmail", ToolCode: "google-mail", RequiresOAuth: true, OAuthProvider: "google", Fields: fields},
			{Name: "calendar", ToolCode: "google-calendar", RequiresOAuth: true, OAuthProvider: "google", Fields: fields},
		},
		AggregatedScopes: []string{"a", "b"},
	}}
}

func TestOpenStates(t *testing.T) {
	c := NewController()
	if c.State != StateClosed {
		t.Fatalf("new controller should be closed")
	}

	c.Open(apiKeyEntry(), false)
	if c.State != StateEditing {
		t.Errorf("pending tool should open editing, got %s", c.State)
	}

	c.Open(apiKeyEntry(), true)
	if c.State != StateViewing {
		t.Errorf("connected tool should open read-only, got %s", c.State)
	}
}

func TestEditCancelRestoresInitialValues(t *testing.T) {
	c := NewController()
	c.Open(apiKeyEntry(), true)
	c.Values["api_key"] = "original-key-123"

	c.BeginEdit()
	if c.State != StateEditing {
		t.Fatalf("BeginEdit: state = %s", c.State)
	}

	c.SetValue("api_key", "changed-key-456")
	c.CancelEdit()

	if c.State != StateViewing {
		t.Errorf("cancel on connected tool should return to viewing, got %s", c.State)
	}
	if c.Values["api_key"] != "original-key-123" {
		t.Errorf("cancel must restore initial values, got %q", c.Values["api_key"])
	}
}

func TestSetValueValidatesPerChange(t *testing.T) {
	c := NewController()
	c.Open(apiKeyEntry(), false)

	c.SetValue("api_key", "bad")
	if _, ok := c.FieldErrors["api_key"]; !ok {
		t.Errorf("short key should error on change")
	}
	if c.CanSubmit() {
		t.Errorf("submit must be blocked while a field has an error")
	}

	c.SetValue("api_key", "good-key-12345")
	if len(c.FieldErrors) != 0 {
		t.Errorf("fixing the value should clear the error: %v", c.FieldErrors)
	}
	if !c.CanSubmit() {
		t.Errorf("submit should unblock once errors clear")
	}
}

func TestTestFlowReturnsToEditing(t *testing.T) {
	c := NewController()
	c.Open(apiKeyEntry(), false)

	// Validation failure blocks the transition entirely.
	if err := c.BeginTest(); err == nil {
		t.Fatal("BeginTest with empty required field should fail")
	}
	if c.State != StateEditing {
		t.Fatalf("failed BeginTest should not leave editing, got %s", c.State)
	}

	c.SetValue("api_key", "good-key-12345")
	if err := c.BeginTest(); err != nil {
		t.Fatalf("BeginTest: %v", err)
	}
	if c.State != StateTesting {
		t.Fatalf("state = %s, want testing", c.State)
	}

	c.FinishTest(&backend.TestResult{OK: true, Message: "reachable"}, nil)
	if c.State != StateEditing {
		t.Errorf("test completion returns to editing, got %s", c.State)
	}
	if c.Banner.Kind != BannerSuccess {
		t.Errorf("banner = %+v, want success", c.Banner)
	}

	// Failures are inline banners, not fatal states.
	c.BeginTest()
	c.FinishTest(nil, errors.New("connection refused"))
	if c.State != StateEditing || c.Banner.Kind != BannerError {
		t.Errorf("failed test: state=%s banner=%+v", c.State, c.Banner)
	}
}

func TestAuthorizeRequiresClientCredentials(t *testing.T) {
	c := NewController()
	c.Open(oauthGroupEntry(), false)

	if err := c.BeginAuthorize(); err == nil {
		t.Fatal("authorize without client credentials must fail")
	}

	c.SetValue("client_id", "client-id-value")
	c.SetValue("client_secret", "client-secret-value")
	if err := c.BeginAuthorize(); err != nil {
		t.Fatalf("BeginAuthorize: %v", err)
	}
	if c.State != StateAuthorizing {
		t.Fatalf("state = %s, want authorizing", c.State)
	}

	c.FinishAuthorize(&backend.AuthorizeResult{AuthURL: "https://accounts.example.com"}, nil)
	if c.State != StateEditing || c.Banner.Kind != BannerInfo {
		t.Errorf("successful authorize should return to editing with notice: state=%s banner=%+v", c.State, c.Banner)
	}
}

func TestAuthorizeRejectedForNonOAuthTool(t *testing.T) {
	c := NewController()
	c.Open(apiKeyEntry(), false)
	c.SetValue("api_key", "good-key-12345")

	if err := c.BeginAuthorize(); err == nil {
		t.Error("non-OAuth tool must not enter the authorize flow")
	}
}

func TestSaveGatedOnGuideAcknowledgement(t *testing.T) {
	c := NewController()
	c.Open(oauthGroupEntry(), false)
	c.SetValue("client_id", "client-id-value")
	c.SetValue("client_secret", "client-secret-value")

	if err := c.BeginSave(); err == nil {
		t.Fatal("OAuth save without guide acknowledgement must be blocked")
	}

	c.AcknowledgeGuide()
	if err := c.BeginSave(); err != nil {
		t.Fatalf("BeginSave after acknowledgement: %v", err)
	}
	if c.State != StateSaving {
		t.Fatalf("state = %s, want saving", c.State)
	}
}

func TestSaveOutcomes(t *testing.T) {
	c := NewController()
	c.Open(apiKeyEntry(), false)
	c.SetValue("api_key", "good-key-12345")

	if err := c.BeginSave(); err != nil {
		t.Fatalf("BeginSave: %v", err)
	}
	c.FinishSave(errors.New("backend returned 500: boom"))
	if c.State != StateEditing || c.Banner.Kind != BannerError {
		t.Errorf("failed save: state=%s banner=%+v", c.State, c.Banner)
	}

	if err := c.BeginSave(); err != nil {
		t.Fatalf("BeginSave retry: %v", err)
	}
	c.FinishSave(nil)
	if c.State != StateConnected {
		t.Errorf("successful save: state=%s, want connected", c.State)
	}
}

func TestSaveRequestsFanOutPerGroupMember(t *testing.T) {
	c := NewController()
	c.Open(oauthGroupEntry(), false)
	c.SetValue("client_id", "client-id-value")
	c.SetValue("client_secret", "client-secret-value")

	requests := c.SaveRequests("ep-1")
	if len(requests) != 2 {
		t.Fatalf("expected one request per member tool, got %d", len(requests))
	}
	if requests[0].ToolName != "gmail" || requests[1].ToolName != "calendar" {
		t.Errorf("tool identities wrong: %+v", requests)
	}
	if requests[0].ToolCode != "google-mail" || requests[1].ToolCode != "google-calendar" {
		t.Errorf("tool codes wrong: %+v", requests)
	}
	for i, req := range requests {
		if req.EndpointID != "ep-1" {
			t.Errorf("request %d endpoint = %q", i, req.EndpointID)
		}
		if req.Values["client_id"] != "client-id-value" {
			t.Errorf("request %d should carry the shared payload", i)
		}
	}
}
