package tools

import (
	"fmt"
	"strings"

	"wrapchat/config"
)

// The backend is inconsistent about key naming: the same logical attribute
// arrives as snake_case or camelCase depending on which service produced the
// payload. Normalization applies this alias table exactly once, at the
// ingestion boundary; nothing downstream branches on payload shape.

var toolAliases = map[string][]string{
	"name":         {"name", "tool_name", "toolName", "integration_name", "integrationName"},
	"display_name": {"display_name", "displayName", "title", "label"},
	"description":  {"description", "desc", "summary"},
	"icon":         {"icon", "icon_url", "iconUrl", "logo"},
	"tool_code":    {"tool_code", "toolCode", "code", "slug"},
	"instructions": {"oauth_instructions", "oauthInstructions", "setup_instructions", "setupInstructions", "instructions"},
	"provider":     {"oauth_provider", "oauthProvider", "provider"},
}

var toolBoolAliases = map[string][]string{
	"requires_oauth": {"requires_oauth", "requiresOauth", "requiresOAuth", "oauth_required", "oauthRequired", "is_oauth", "isOauth"},
}

var toolListAliases = map[string][]string{
	"scopes": {"oauth_scopes", "oauthScopes", "scopes"},
	"fields": {"fields", "credential_fields", "credentialFields"},
}

var fieldAliases = map[string][]string{
	"name":         {"name", "field_name", "fieldName", "key"},
	"label":        {"label", "display_name", "displayName", "title"},
	"type":         {"type", "field_type", "fieldType", "input_type", "inputType"},
	"placeholder":  {"placeholder", "place_holder", "placeHolder"},
	"help_text":    {"help_text", "helpText", "help", "hint"},
	"instructions": {"instructions", "setup_instructions", "setupInstructions"},
}

var fieldBoolAliases = map[string][]string{
	"required": {"required", "is_required", "isRequired"},
}

var fieldListAliases = map[string][]string{
	"options": {"options", "choices", "values"},
}

// reservedTokenFields are raw OAuth token fields the backend sometimes leaks
// into the credential schema of OAuth tools. Users never type these; the
// authorization flow produces them. Compared case-insensitively with
// underscores ignored.
var reservedTokenFields = map[string]bool{
	"accesstoken":  true,
	"refreshtoken": true,
	"bearertoken":  true,
	"token":        true,
	"idtoken":      true,
}

// NormalizeAll converts a raw backend tool list into canonical descriptors.
// The positional index feeds the fallback name for payloads with no
// name-like key at all.
func NormalizeAll(raw []map[string]any) []ToolDescriptor {
	descriptors := make([]ToolDescriptor, 0, len(raw))
	for i, r := range raw {
		descriptors = append(descriptors, Normalize(r, i))
	}
	return descriptors
}

// Normalize converts one raw backend tool payload into a ToolDescriptor.
func Normalize(raw map[string]any, index int) ToolDescriptor {
	d := ToolDescriptor{
		Name:              firstString(raw, toolAliases["name"]),
		DisplayName:       firstString(raw, toolAliases["display_name"]),
		Description:       firstString(raw, toolAliases["description"]),
		Icon:              firstString(raw, toolAliases["icon"]),
		ToolCode:          firstString(raw, toolAliases["tool_code"]),
		RequiresOAuth:     firstBool(raw, toolBoolAliases["requires_oauth"]),
		OAuthProvider:     firstString(raw, toolAliases["provider"]),
		OAuthInstructions: firstString(raw, toolAliases["instructions"]),
		OAuthScopes:       firstStringList(raw, toolListAliases["scopes"]),
	}

	if d.Name == "" {
		d.Name = fmt.Sprintf("integration_%d", index+1)
	}
	if d.DisplayName == "" {
		d.DisplayName = d.Name
	}

	d.Fields = normalizeFields(firstMapList(raw, toolListAliases["fields"]))

	// OAuth tools never show raw token inputs; the authorization flow owns those.
	if d.RequiresOAuth {
		d.Fields = stripReservedTokenFields(d.Fields)
	}

	if config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[Tools] Normalized %q (oauth=%v, provider=%q, %d fields)",
			d.Name, d.RequiresOAuth, d.OAuthProvider, len(d.Fields))
	}

	return d
}

func normalizeFields(raw []map[string]any) []CredentialField {
	fields := make([]CredentialField, 0, len(raw))
	for i, r := range raw {
		f := CredentialField{
			Name:         firstString(r, fieldAliases["name"]),
			Label:        firstString(r, fieldAliases["label"]),
			Type:         normalizeFieldType(firstString(r, fieldAliases["type"])),
			Required:     firstBool(r, fieldBoolAliases["required"]),
			Placeholder:  firstString(r, fieldAliases["placeholder"]),
			HelpText:     firstString(r, fieldAliases["help_text"]),
			Instructions: firstString(r, fieldAliases["instructions"]),
			Options:      firstStringList(r, fieldListAliases["options"]),
		}
		if f.Name == "" {
			f.Name = fmt.Sprintf("field_%d", i+1)
		}
		if f.Label == "" {
			f.Label = f.Name
		}
		fields = append(fields, f)
	}
	return fields
}

func normalizeFieldType(t string) string {
	switch strings.ToLower(t) {
	case FieldPassword, "secret":
		return FieldPassword
	case FieldDropdown, "select", "enum":
		return FieldDropdown
	default:
		return FieldText
	}
}

func stripReservedTokenFields(fields []CredentialField) []CredentialField {
	kept := make([]CredentialField, 0, len(fields))
	for _, f := range fields {
		key := strings.ReplaceAll(strings.ToLower(f.Name), "_", "")
		if reservedTokenFields[key] {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// firstString returns the first non-empty string among the key candidates.
func firstString(raw map[string]any, keys []string) string {
	for _, key := range keys {
		if s, ok := raw[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// firstBool returns the first boolean-shaped value among the key candidates.
// The backend sends real booleans and the strings "true"/"false".
func firstBool(raw map[string]any, keys []string) bool {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case bool:
			return v
		case string:
			if v == "true" {
				return true
			}
			if v == "false" {
				return false
			}
		}
	}
	return false
}

// firstStringList returns the first non-empty string list among the key
// candidates. JSON decoding yields []any, so both shapes are accepted.
func firstStringList(raw map[string]any, keys []string) []string {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case []string:
			if len(v) > 0 {
				return v
			}
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

// firstMapList returns the first non-empty object list among the key candidates.
func firstMapList(raw map[string]any, keys []string) []map[string]any {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case []map[string]any:
			if len(v) > 0 {
				return v
			}
		case []any:
			out := make([]map[string]any, 0, len(v))
			for _, item := range v {
				if m, ok := item.(map[string]any); ok {
					out = append(out, m)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}
