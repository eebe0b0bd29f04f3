package model

import (
	"wrapchat/backend"
	"wrapchat/storage"
	"wrapchat/tools"
)

// ConfigTurnMsg carries the outcome of a configuration turn. The result is
// always non-nil; backend failures arrive as confirmation-required results.
type ConfigTurnMsg struct {
	Result *backend.TurnResult
}

type TestTurnMsg struct {
	Result *backend.TurnResult
	Err    error
}

type IntegrationsListMsg struct {
	Integrations []backend.Integration
	Err          error
}

type IntegrationSavedMsg struct {
	EntryKey string
	Err      error
}

type IntegrationDeletedMsg struct {
	Err error
}

type IntegrationTestedMsg struct {
	Result *backend.TestResult
	Err    error
}

type ProviderSetupMsg struct {
	Setup *backend.ProviderSetup
	Err   error
}

type AuthorizeStartedMsg struct {
	Result *backend.AuthorizeResult
	Err    error
}

type TokensRefreshedMsg struct {
	Provider string
	Err      error
}

type PendingToolsLoadedMsg struct {
	SessionID string
	Entries   []tools.Entry
	Err       error
}

// PendingToolsChangedMsg is emitted when another panel (or the turn handler)
// rewrote the pending list for a session.
type PendingToolsChangedMsg struct {
	SessionID string
}

type SessionsListMsg struct {
	Sessions []storage.SessionMetadata
	Err      error
}

type SessionLoadedMsg struct {
	Session *storage.Session
	Err     error
}

type SessionSavedMsg struct {
	Err error
}
