package model

import (
	"wrapchat/backend"
	"wrapchat/config"
	"wrapchat/events"
	"wrapchat/storage"
)

// Model holds the core application data and business logic state
type Model struct {
	// Core dependencies
	Config         *config.Config
	Backend        *backend.Client
	SessionStorage *storage.SessionStorage
	PendingStore   *storage.PendingToolStore

	// Application data
	Messages       []storage.Message
	CurrentSession *storage.Session
	EndpointID     string

	// Runtime state (not UI)
	Live               events.LiveStatus
	RequestInFlight    bool
	SessionDirty       bool
	NeedsInitialRender bool
	Quitting           bool

	// Application metadata
	Version string
}

// NewModel creates a new Model with the given configuration
func NewModel(cfg *config.Config, client *backend.Client, sessionStorage *storage.SessionStorage, pendingStore *storage.PendingToolStore, lastSession *storage.Session, version string) *Model {
	endpointID := cfg.DefaultEndpoint

	var messages []storage.Message
	needsRender := false
	if lastSession != nil {
		messages = append(messages, lastSession.Messages...)
		needsRender = len(messages) > 0
		if lastSession.EndpointID != "" {
			endpointID = lastSession.EndpointID
		}
	}

	m := &Model{
		Config:             cfg,
		Backend:            client,
		SessionStorage:     sessionStorage,
		PendingStore:       pendingStore,
		Messages:           messages,
		CurrentSession:     lastSession,
		EndpointID:         endpointID,
		NeedsInitialRender: needsRender,
		Version:            version,
	}

	if lastSession != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Model] Restored session %q (endpoint=%s, %d messages)",
			lastSession.Name, endpointID, len(messages))
	}

	return m
}

// Busy reports whether a turn is in flight or the live status machine still
// has an unresolved thinking/reasoning/search span.
func (m *Model) Busy() bool {
	return m.RequestInFlight || m.Live.Busy()
}

// Window returns the chat window policy for the active endpoint.
func (m *Model) Window() config.ChatWindow {
	return m.Config.WindowFor(m.EndpointID)
}

// PendingKey is the persistence key for the active conversation's pending
// tool list. Sessions are keyed by ID; before the first save the endpoint
// identifier stands in, so pending tools survive a restart even when the
// conversation itself was never persisted.
func (m *Model) PendingKey() string {
	if m.CurrentSession != nil && m.CurrentSession.ID != "" {
		return m.CurrentSession.ID
	}
	return m.EndpointID
}
