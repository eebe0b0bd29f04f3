package tools

import "testing"

func TestNormalizeAliasResolution(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]any
		validate func(t *testing.T, d ToolDescriptor)
	}{
		{
			name: "snake_case payload",
			input: map[string]any{
				"tool_name":      "gmail",
				"display_name":   "Gmail",
				"requires_oauth": true,
				"oauth_provider": "Google",
				"oauth_scopes":   []any{"mail.read"},
			},
			validate: func(t *testing.T, d ToolDescriptor) {
				if d.Name != "gmail" {
					t.Errorf("name = %q, want gmail", d.Name)
				}
				if d.DisplayName != "Gmail" {
					t.Errorf("displayName = %q, want Gmail", d.DisplayName)
				}
				if !d.RequiresOAuth || d.OAuthProvider != "Google" {
					t.Errorf("oauth fields not normalized: %+v", d)
				}
				if len(d.OAuthScopes) != 1 || d.OAuthScopes[0] != "mail.read" {
					t.Errorf("scopes = %v", d.OAuthScopes)
				}
			},
		},
		{
			name: "camelCase payload resolves to the same shape",
			input: map[string]any{
				"toolName":      "gmail",
				"displayName":   "Gmail",
				"requiresOauth": true,
				"oauthProvider": "Google",
				"oauthScopes":   []any{"mail.read"},
			},
			validate: func(t *testing.T, d ToolDescriptor) {
				if d.Name != "gmail" || d.DisplayName != "Gmail" || !d.RequiresOAuth {
					t.Errorf("camelCase payload not normalized: %+v", d)
				}
			},
		},
		{
			name:  "missing name synthesizes positional fallback",
			input: map[string]any{"description": "mystery integration"},
			validate: func(t *testing.T, d ToolDescriptor) {
				if d.Name != "integration_3" {
					t.Errorf("name = %q, want integration_3", d.Name)
				}
				if d.DisplayName != "integration_3" {
					t.Errorf("displayName should fall back to name, got %q", d.DisplayName)
				}
			},
		},
		{
			name: "fields nested under credential_fields",
			input: map[string]any{
				"name": "jira",
				"credential_fields": []any{
					map[string]any{
						"fieldName": "api_key",
						"fieldType": "password",
						"isRequired": true,
					},
					map[string]any{
						"label": "Region",
						"type":  "select",
						"choices": []any{"us", "eu"},
					},
				},
			},
			validate: func(t *testing.T, d ToolDescriptor) {
				if len(d.Fields) != 2 {
					t.Fatalf("expected 2 fields, got %d", len(d.Fields))
				}
				if d.Fields[0].Name != "api_key" || d.Fields[0].Type != FieldPassword || !d.Fields[0].Required {
					t.Errorf("field 0 not normalized: %+v", d.Fields[0])
				}
				if d.Fields[1].Name != "field_2" {
					t.Errorf("field 1 should get positional fallback name, got %q", d.Fields[1].Name)
				}
				if d.Fields[1].Type != FieldDropdown || len(d.Fields[1].Options) != 2 {
					t.Errorf("field 1 dropdown not normalized: %+v", d.Fields[1])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, Normalize(tt.input, 2))
		})
	}
}

func TestNormalizeStripsTokenFieldsForOAuthTools(t *testing.T) {
	input := map[string]any{
		"name":           "calendar",
		"requires_oauth": true,
		"fields": []any{
			map[string]any{"name": "client_id"},
			map[string]any{"name": "access_token"},
			map[string]any{"name": "accessToken"},
			map[string]any{"name": "Refresh_Token"},
			map[string]any{"name": "client_secret", "type": "password"},
			map[string]any{"name": "token"},
		},
	}

	d := Normalize(input, 0)
	if len(d.Fields) != 2 {
		t.Fatalf("expected only 2 fields to survive, got %d: %+v", len(d.Fields), d.Fields)
	}
	if d.Fields[0].Name != "client_id" || d.Fields[1].Name != "client_secret" {
		t.Errorf("wrong fields kept: %+v", d.Fields)
	}
}

func TestNormalizeKeepsTokenFieldsForNonOAuthTools(t *testing.T) {
	input := map[string]any{
		"name": "legacy",
		"fields": []any{
			map[string]any{"name": "token", "type": "password"},
		},
	}

	d := Normalize(input, 0)
	if len(d.Fields) != 1 {
		t.Fatalf("non-OAuth tool must keep its token field, got %d fields", len(d.Fields))
	}
}

func TestNormalizeBooleanStrings(t *testing.T) {
	d := Normalize(map[string]any{"name": "x", "requires_oauth": "true"}, 0)
	if !d.RequiresOAuth {
		t.Errorf("string \"true\" should normalize to boolean true")
	}
}
