package tools

import (
	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// FromMCPTools converts MCP tool definitions into raw tool payloads accepted
// by Normalize. Locally attached MCP servers surface their tools through the
// same pending-integration pipeline as backend-requested ones.
//
// MCP Tool structure:
//
//	{
//	  "name": "send_mail",
//	  "description": "Send an email",
//	  "inputSchema": {
//	    "type": "object",
//	    "properties": {...},
//	    "required": [...]
//	  }
//	}
//
// String-typed schema properties become credential fields; properties listed
// in the schema's required array become required fields.
func FromMCPTools(mcpTools []mcptypes.Tool) []map[string]any {
	if len(mcpTools) == 0 {
		return nil
	}

	raw := make([]map[string]any, 0, len(mcpTools))
	for _, tool := range mcpTools {
		raw = append(raw, map[string]any{
			"name":        tool.Name,
			"description": tool.Description,
			"fields":      fieldsFromInputSchema(tool.InputSchema),
		})
	}
	return raw
}

func fieldsFromInputSchema(schema mcptypes.ToolInputSchema) []any {
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	var fields []any
	for propName, propValue := range schema.Properties {
		propMap, ok := propValue.(map[string]any)
		if !ok {
			continue
		}
		if t, _ := propMap["type"].(string); t != "string" {
			continue
		}

		field := map[string]any{
			"name":     propName,
			"required": required[propName],
		}
		if desc, ok := propMap["description"].(string); ok {
			field["help_text"] = desc
		}
		if enumVal, ok := propMap["enum"].([]any); ok && len(enumVal) > 0 {
			field["type"] = "dropdown"
			field["options"] = enumVal
		}
		fields = append(fields, field)
	}
	return fields
}
