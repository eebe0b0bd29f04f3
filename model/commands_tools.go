package model

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"wrapchat/backend"
	"wrapchat/config"
	"wrapchat/mcp"
	"wrapchat/tools"
)

// FetchIntegrations refreshes the connected-integration list for the active
// endpoint.
func (m *Model) FetchIntegrations(ctx context.Context) tea.Cmd {
	client := m.Backend
	endpointID := m.EndpointID
	return func() tea.Msg {
		integrations, err := client.ListIntegrations(ctx, endpointID)
		return IntegrationsListMsg{Integrations: integrations, Err: err}
	}
}

// SaveIntegrationEntry persists credentials for one pending entry. Provider
// groups fan out into one backend write per member tool; the first failure
// aborts the remaining writes. On success the entry is removed from the
// pending store BEFORE the connected list is refreshed, so the tool never
// shows up in both panels at once.
func (m *Model) SaveIntegrationEntry(ctx context.Context, requests []backend.SaveIntegrationRequest, entryKey string) tea.Cmd {
	client := m.Backend
	store := m.PendingStore
	pendingKey := m.PendingKey()

	return func() tea.Msg {
		for _, req := range requests {
			if _, err := client.SaveIntegration(ctx, req); err != nil {
				return IntegrationSavedMsg{EntryKey: entryKey, Err: err}
			}
		}

		if store != nil {
			if err := store.RemoveEntry(pendingKey, entryKey); err != nil && config.DebugLog != nil {
				config.DebugLog.Printf("[Model] Failed to remove pending entry %q: %v", entryKey, err)
			}
		}

		return IntegrationSavedMsg{EntryKey: entryKey}
	}
}

// DeleteIntegrationCmd removes a stored integration from the backend.
func (m *Model) DeleteIntegrationCmd(ctx context.Context, integrationID string) tea.Cmd {
	client := m.Backend
	endpointID := m.EndpointID
	return func() tea.Msg {
		err := client.DeleteIntegration(ctx, endpointID, integrationID)
		return IntegrationDeletedMsg{Err: err}
	}
}

// TestIntegrationCmd probes the typed-in credential values without persisting
// anything.
func (m *Model) TestIntegrationCmd(ctx context.Context, toolName string, values map[string]string) tea.Cmd {
	client := m.Backend
	endpointID := m.EndpointID
	return func() tea.Msg {
		result, err := client.TestIntegration(ctx, endpointID, toolName, values)
		return IntegrationTestedMsg{Result: result, Err: err}
	}
}

// FetchProviderSetup loads the OAuth setup guide for a provider.
func (m *Model) FetchProviderSetup(ctx context.Context, provider string) tea.Cmd {
	client := m.Backend
	return func() tea.Msg {
		setup, err := client.FetchProviderSetup(ctx, provider)
		return ProviderSetupMsg{Setup: setup, Err: err}
	}
}

// StartAuthorization initiates the external OAuth flow for a provider with
// the aggregated scopes of the entry being connected.
func (m *Model) StartAuthorization(ctx context.Context, provider, clientID, clientSecret string, scopes []string) tea.Cmd {
	client := m.Backend
	return func() tea.Msg {
		result, err := client.Authorize(ctx, provider, clientID, clientSecret, scopes)
		return AuthorizeStartedMsg{Result: result, Err: err}
	}
}

// RefreshProviderTokens asks the backend to refresh stored tokens.
func (m *Model) RefreshProviderTokens(ctx context.Context, provider string) tea.Cmd {
	client := m.Backend
	return func() tea.Msg {
		err := client.RefreshTokens(ctx, provider)
		return TokensRefreshedMsg{Provider: provider, Err: err}
	}
}

// LoadPendingTools reads the durable pending list for the active conversation.
func (m *Model) LoadPendingTools() tea.Cmd {
	store := m.PendingStore
	key := m.PendingKey()
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		entries, err := store.Load(key)
		return PendingToolsLoadedMsg{SessionID: key, Entries: entries, Err: err}
	}
}

// SavePendingTools overwrites the durable pending list for the active
// conversation. An empty list deletes the key.
func (m *Model) SavePendingTools(entries []tools.Entry) tea.Cmd {
	store := m.PendingStore
	key := m.PendingKey()
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		if err := store.Save(key, entries); err != nil {
			return PendingToolsLoadedMsg{SessionID: key, Err: err}
		}
		return PendingToolsLoadedMsg{SessionID: key, Entries: entries}
	}
}

// IngestPendingTools normalizes raw tool maps from a turn response, groups
// OAuth tools by provider, and persists the result as the conversation's new
// pending list.
func (m *Model) IngestPendingTools(raw []map[string]any) tea.Cmd {
	if len(raw) == 0 {
		return nil
	}
	descriptors := tools.NormalizeAll(raw)
	entries := tools.Aggregate(descriptors)
	return m.SavePendingTools(entries)
}

// SyncMCPToolSources queries the configured MCP tool sources and merges their
// tools into the conversation's pending list. Entries already pending keep
// their position; source failures are logged and skipped.
func (m *Model) SyncMCPToolSources(ctx context.Context) tea.Cmd {
	sources := m.Config.MCPToolSources
	store := m.PendingStore
	key := m.PendingKey()
	if len(sources) == 0 || store == nil {
		return nil
	}

	return func() tea.Msg {
		var raw []map[string]any
		for _, st := range mcp.ListSourceTools(ctx, sources) {
			if st.Err != nil {
				continue
			}
			raw = append(raw, tools.FromMCPTools(st.Tools)...)
		}
		if len(raw) == 0 {
			return nil
		}

		incoming := tools.Aggregate(tools.NormalizeAll(raw))

		existing, err := store.Load(key)
		if err != nil {
			return PendingToolsLoadedMsg{SessionID: key, Err: err}
		}

		seen := make(map[string]bool, len(existing))
		for _, e := range existing {
			seen[e.Key()] = true
		}
		merged := existing
		for _, e := range incoming {
			if !seen[e.Key()] {
				merged = append(merged, e)
			}
		}

		if len(merged) != len(existing) {
			if err := store.Save(key, merged); err != nil {
				return PendingToolsLoadedMsg{SessionID: key, Err: err}
			}
		}
		return PendingToolsLoadedMsg{SessionID: key, Entries: merged}
	}
}
