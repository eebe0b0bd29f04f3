package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func jsonDecode(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "test-token")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestConfigurationTurnModernKeys(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/endpoints/ep-1/configure" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("missing bearer token, got %q", auth)
		}
		fmt.Fprint(w, `{
			"response": "Done.",
			"parsed_updates": {
				"events": [{"type": "thinking_started"}],
				"pending_tools": [{"name": "gmail"}]
			}
		}`)
	})

	result := client.ConfigurationTurn(context.Background(), "ep-1", "add gmail")
	if result.RequiresConfirmation {
		t.Fatalf("unexpected confirmation requirement: %s", result.Message)
	}
	if result.Answer != "Done." {
		t.Errorf("answer = %q", result.Answer)
	}
	if len(result.Events) != 1 || result.Events[0].Type != "thinking_started" {
		t.Errorf("events = %+v", result.Events)
	}
	if len(result.PendingTools) != 1 {
		t.Errorf("pendingTools = %+v", result.PendingTools)
	}
}

func TestConfigurationTurnLegacyKeys(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"response": "Done.",
			"parsed_updates": {
				"wx_events": [{"type": "tool_call", "name": "web_search"}],
				"pendingTools": [{"toolName": "sheets"}]
			}
		}`)
	})

	result := client.ConfigurationTurn(context.Background(), "ep-1", "hi")
	if len(result.Events) != 1 || result.Events[0].Name != "web_search" {
		t.Errorf("legacy events not resolved: %+v", result.Events)
	}
	if len(result.PendingTools) != 1 {
		t.Errorf("legacy pending tools not resolved: %+v", result.PendingTools)
	}
}

func TestConfigurationTurnFoldsFailures(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "boom"}`, http.StatusInternalServerError)
	})

	result := client.ConfigurationTurn(context.Background(), "ep-1", "hi")
	if !result.RequiresConfirmation {
		t.Fatal("transport failure must produce a confirmation-required result")
	}
	if result.Message == "" {
		t.Error("confirmation result needs a human-readable message")
	}
}

func TestTestTurnAnswerFallbacks(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "openai-style choices",
			body: `{"choices": [{"message": {"content": "from choices"}}]}`,
			want: "from choices",
		},
		{
			name: "response key",
			body: `{"response": "from response"}`,
			want: "from response",
		},
		{
			name: "message string",
			body: `{"message": "from message"}`,
			want: "from message",
		},
		{
			name: "message object",
			body: `{"message": {"content": "from nested message"}}`,
			want: "from nested message",
		},
		{
			name: "choices win over the rest",
			body: `{"choices": [{"message": {"content": "a"}}], "response": "b", "message": "c"}`,
			want: "a",
		},
		{
			name: "empty choices fall through",
			body: `{"choices": [{"message": {"content": ""}}], "response": "b"}`,
			want: "b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			})

			result, err := client.TestTurn(context.Background(), "", []TurnMessage{{Role: "user", Content: "hi"}})
			if err != nil {
				t.Fatalf("TestTurn: %v", err)
			}
			if result.Answer != tt.want {
				t.Errorf("answer = %q, want %q", result.Answer, tt.want)
			}
		})
	}
}

func TestTestTurnRequestShape(t *testing.T) {
	var gotSingle, gotMulti bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := jsonDecode(r, &req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if _, ok := req["message"]; ok {
			gotSingle = true
		}
		if _, ok := req["messages"]; ok {
			gotMulti = true
		}
		fmt.Fprint(w, `{"response": "ok", "wx_events": [{"type": "thinking_started"}]}`)
	})

	if _, err := client.TestTurn(context.Background(), "ep-1", []TurnMessage{{Role: "user", Content: "solo"}}); err != nil {
		t.Fatalf("single-message turn: %v", err)
	}
	result, err := client.TestTurn(context.Background(), "ep-1", []TurnMessage{
		{Role: "assistant", Content: "a"},
		{Role: "user", Content: "b"},
	})
	if err != nil {
		t.Fatalf("multi-message turn: %v", err)
	}

	if !gotSingle || !gotMulti {
		t.Errorf("expected one {message} and one {messages} request, got single=%v multi=%v", gotSingle, gotMulti)
	}
	if len(result.Events) != 1 {
		t.Errorf("legacy events not resolved on test turn: %+v", result.Events)
	}
}

func TestTestTurnEmptyWindow(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	if _, err := client.TestTurn(context.Background(), "", nil); err == nil {
		t.Error("empty window must be rejected")
	}
}

func TestRewriteAuthError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantRewrite bool
	}{
		{name: "nil", err: nil, wantRewrite: false},
		{name: "session expired", err: errors.New("backend returned 403: Session Expired"), wantRewrite: true},
		{name: "invalid token", err: errors.New("invalid token supplied"), wantRewrite: true},
		{name: "unauthorized", err: errors.New("backend returned 401: Unauthorized"), wantRewrite: true},
		{name: "unrelated error untouched", err: errors.New("connection refused"), wantRewrite: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RewriteAuthError(tt.err)
			if tt.wantRewrite && !errors.Is(got, ErrSessionExpired) {
				t.Errorf("expected ErrSessionExpired, got %v", got)
			}
			if !tt.wantRewrite && errors.Is(got, ErrSessionExpired) {
				t.Errorf("unexpected rewrite of %v", tt.err)
			}
		})
	}
}

func TestTestIntegrationRequiresEndpoint(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	if _, err := client.TestIntegration(context.Background(), "", "gmail", nil); err == nil {
		t.Error("connection test without an endpoint must fail locally")
	}
}

func TestAuthorizeRequiresClientCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	if _, err := client.Authorize(context.Background(), "google", "", "secret", nil); err == nil {
		t.Error("authorize without client id must fail locally")
	}
	if _, err := client.Authorize(context.Background(), "google", "id", "", nil); err == nil {
		t.Error("authorize without client secret must fail locally")
	}
}
