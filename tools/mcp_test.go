package tools

import (
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

func TestFromMCPTools(t *testing.T) {
	mcpTools := []mcptypes.Tool{
		{
			Name:        "send_mail",
			Description: "Send an email",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"api_key": map[string]any{
						"type":        "string",
						"description": "SMTP relay API key",
					},
					"retries": map[string]any{
						"type": "integer",
					},
				},
				Required: []string{"api_key"},
			},
		},
	}

	raw := FromMCPTools(mcpTools)
	if len(raw) != 1 {
		t.Fatalf("expected 1 raw payload, got %d", len(raw))
	}

	descriptors := NormalizeAll(raw)
	d := descriptors[0]
	if d.Name != "send_mail" || d.Description != "Send an email" {
		t.Errorf("tool identity not carried: %+v", d)
	}
	if len(d.Fields) != 1 {
		t.Fatalf("only string properties become fields, got %d", len(d.Fields))
	}
	f := d.Fields[0]
	if f.Name != "api_key" || !f.Required || f.HelpText != "SMTP relay API key" {
		t.Errorf("field not converted: %+v", f)
	}
}

func TestFromMCPToolsEmpty(t *testing.T) {
	if got := FromMCPTools(nil); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}
