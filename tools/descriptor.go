// Package tools converts the backend's heterogeneous pending-tool payloads
// into the canonical descriptors the credential UI renders, and groups tools
// that authenticate through the same OAuth provider into a single consent
// flow.
package tools

// Credential field input types.
const (
	FieldText     = "text"
	FieldPassword = "password"
	FieldDropdown = "dropdown"
)

// CredentialField is one input the user fills in to connect a tool.
type CredentialField struct {
	Name         string   `json:"name"`
	Label        string   `json:"label"`
	Type         string   `json:"type"`
	Required     bool     `json:"required"`
	Placeholder  string   `json:"placeholder,omitempty"`
	HelpText     string   `json:"help_text,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
	Options      []string `json:"options,omitempty"`
}

// ToolDescriptor is the canonical shape of one pending tool integration.
// Name is the unique key within a session.
type ToolDescriptor struct {
	Name              string            `json:"name"`
	DisplayName       string            `json:"display_name"`
	Description       string            `json:"description,omitempty"`
	Icon              string            `json:"icon,omitempty"`
	ToolCode          string            `json:"tool_code,omitempty"`
	Fields            []CredentialField `json:"fields"`
	RequiresOAuth     bool              `json:"requires_oauth"`
	OAuthProvider     string            `json:"oauth_provider,omitempty"`
	OAuthScopes       []string          `json:"oauth_scopes,omitempty"`
	OAuthInstructions string            `json:"oauth_instructions,omitempty"`
}

// ProviderGroup aggregates two or more tools that share an OAuth provider.
// They are connected through one consent flow with the union of their scopes.
type ProviderGroup struct {
	ProviderKey       string           `json:"provider_key"`
	DisplayName       string           `json:"display_name"`
	Tools             []ToolDescriptor `json:"tools"`
	AggregatedScopes  []string         `json:"aggregated_scopes"`
	OAuthInstructions string           `json:"oauth_instructions,omitempty"`
}

// ToolCode returns the group's tool code, defaulting to the first member's.
// Members of a provider group are expected to share a credential schema.
func (g *ProviderGroup) ToolCode() string {
	if len(g.Tools) == 0 {
		return ""
	}
	return g.Tools[0].ToolCode
}

// Fields returns the group's credential fields, defaulting to the first
// member's.
func (g *ProviderGroup) Fields() []CredentialField {
	if len(g.Tools) == 0 {
		return nil
	}
	return g.Tools[0].Fields
}

// Entry is one render-ready list element: either a standalone tool or a
// provider group. Exactly one of the two is set.
type Entry struct {
	Tool  *ToolDescriptor `json:"tool,omitempty"`
	Group *ProviderGroup  `json:"group,omitempty"`
}

// Key returns the unique identity of the entry within a session.
func (e Entry) Key() string {
	if e.Group != nil {
		return "provider:" + e.Group.ProviderKey
	}
	if e.Tool != nil {
		return e.Tool.Name
	}
	return ""
}

// DisplayName returns the label shown in the tools panel.
func (e Entry) DisplayName() string {
	if e.Group != nil {
		return e.Group.DisplayName
	}
	if e.Tool != nil {
		return e.Tool.DisplayName
	}
	return ""
}

// Members returns the tool descriptors covered by the entry: a single tool
// for standalone entries, all members for a group.
func (e Entry) Members() []ToolDescriptor {
	if e.Group != nil {
		return e.Group.Tools
	}
	if e.Tool != nil {
		return []ToolDescriptor{*e.Tool}
	}
	return nil
}

// RequiresOAuth reports whether connecting this entry involves an OAuth
// authorization step.
func (e Entry) RequiresOAuth() bool {
	if e.Group != nil {
		return true
	}
	if e.Tool != nil {
		return e.Tool.RequiresOAuth
	}
	return false
}

// CredentialFields returns the fields the credential form renders for the entry.
func (e Entry) CredentialFields() []CredentialField {
	if e.Group != nil {
		return e.Group.Fields()
	}
	if e.Tool != nil {
		return e.Tool.Fields
	}
	return nil
}
