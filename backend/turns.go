package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"wrapchat/config"
	"wrapchat/events"
)

// TurnMessage is one entry of the outgoing conversation window.
type TurnMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TurnResult is the canonical outcome of a configuration or test turn. A
// transport or validation failure never surfaces as an error from the turn
// operations; it becomes a well-formed result with RequiresConfirmation set
// and a human-readable message, so the panel always has something to render.
type TurnResult struct {
	Answer               string
	Events               []events.Event
	PendingTools         []map[string]any
	RequiresConfirmation bool
	Message              string
}

// configTurnResponse mirrors the configuration-turn wire shape. The events
// list arrives under "events" or the legacy "wx_events"; the pending tool
// list under "pending_tools" or the legacy "pendingTools".
type configTurnResponse struct {
	Response      string        `json:"response"`
	ParsedUpdates parsedUpdates `json:"parsed_updates"`
}

type parsedUpdates struct {
	Events             []events.Event   `json:"events"`
	LegacyEvents       []events.Event   `json:"wx_events"`
	PendingTools       []map[string]any `json:"pending_tools"`
	LegacyPendingTools []map[string]any `json:"pendingTools"`
}

func (p parsedUpdates) events() []events.Event {
	if len(p.Events) > 0 {
		return p.Events
	}
	return p.LegacyEvents
}

func (p parsedUpdates) pendingTools() []map[string]any {
	if len(p.PendingTools) > 0 {
		return p.PendingTools
	}
	return p.LegacyPendingTools
}

// testTurnResponse mirrors the test/production-turn wire shape. The answer
// lives under choices[0].message.content, "response", or "message" depending
// on which backend service handled the call; first non-empty wins.
type testTurnResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Response     string           `json:"response"`
	Message      json.RawMessage  `json:"message"`
	Events       []events.Event   `json:"events"`
	LegacyEvents []events.Event   `json:"wx_events"`
	PendingTools []map[string]any `json:"pending_tools"`
}

func (r testTurnResponse) answer() string {
	if len(r.Choices) > 0 && r.Choices[0].Message.Content != "" {
		return r.Choices[0].Message.Content
	}
	if r.Response != "" {
		return r.Response
	}
	// "message" is a plain string on some services and an object with a
	// content field on others.
	var s string
	if err := json.Unmarshal(r.Message, &s); err == nil {
		return s
	}
	var obj struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(r.Message, &obj); err == nil {
		return obj.Content
	}
	return ""
}

func (r testTurnResponse) events() []events.Event {
	if len(r.Events) > 0 {
		return r.Events
	}
	return r.LegacyEvents
}

// ConfigurationTurn sends one conversational configuration message for an
// endpoint. Failures are folded into a confirmation-required result instead
// of propagating.
func (c *Client) ConfigurationTurn(ctx context.Context, endpointID, message string) *TurnResult {
	req := map[string]any{
		"message": message,
		"apply":   true,
	}

	var resp configTurnResponse
	path := fmt.Sprintf("/api/endpoints/%s/configure", endpointID)
	if err := c.do(ctx, "POST", path, req, &resp); err != nil {
		if config.Debug && config.DebugLog != nil {
			config.DebugLog.Printf("[Backend] configuration turn failed: %v", err)
		}
		return &TurnResult{
			RequiresConfirmation: true,
			Message:              RewriteAuthError(err).Error(),
		}
	}

	return &TurnResult{
		Answer:       resp.Response,
		Events:       resp.ParsedUpdates.events(),
		PendingTools: resp.ParsedUpdates.pendingTools(),
	}
}

// TestTurn sends a test/production chat turn. When window holds a single
// message the request carries {message}; otherwise {messages: [...]}. The
// endpoint identifier is optional.
func (c *Client) TestTurn(ctx context.Context, endpointID string, window []TurnMessage) (*TurnResult, error) {
	if len(window) == 0 {
		return nil, fmt.Errorf("empty conversation window")
	}

	req := map[string]any{}
	if len(window) == 1 {
		req["message"] = window[0].Content
	} else {
		req["messages"] = window
	}
	if endpointID != "" {
		req["endpoint_id"] = endpointID
	}

	var resp testTurnResponse
	if err := c.do(ctx, "POST", "/api/chat/test", req, &resp); err != nil {
		return nil, RewriteAuthError(err)
	}

	return &TurnResult{
		Answer:       resp.answer(),
		Events:       resp.events(),
		PendingTools: resp.PendingTools,
	}, nil
}
