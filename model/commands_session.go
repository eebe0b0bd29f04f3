package model

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"wrapchat/storage"
)

// FetchSessionList retrieves the list of saved sessions
func (m *Model) FetchSessionList() tea.Cmd {
	if m.SessionStorage == nil {
		return nil
	}
	store := m.SessionStorage
	return func() tea.Msg {
		sessions, err := store.List()
		return SessionsListMsg{Sessions: sessions, Err: err}
	}
}

// LoadSession loads a session by ID
func (m *Model) LoadSession(sessionID string) tea.Cmd {
	if m.SessionStorage == nil {
		return nil
	}

	// Already loaded, just close the session manager
	if m.CurrentSession != nil && m.CurrentSession.ID == sessionID {
		current := m.CurrentSession
		return func() tea.Msg {
			return SessionLoadedMsg{Session: current}
		}
	}

	store := m.SessionStorage
	return func() tea.Msg {
		session, err := store.Load(sessionID)
		return SessionLoadedMsg{Session: session, Err: err}
	}
}

// SaveCurrentSession saves the current session to storage
func (m *Model) SaveCurrentSession() tea.Cmd {
	if m.SessionStorage == nil || m.CurrentSession == nil {
		return nil
	}

	m.CurrentSession.Messages = m.Messages
	m.CurrentSession.EndpointID = m.EndpointID
	m.CurrentSession.UpdatedAt = time.Now()

	session := m.CurrentSession
	store := m.SessionStorage

	return func() tea.Msg {
		err := store.Save(session)
		if err == nil {
			store.SaveCurrentSessionID(session.ID)
		}
		return SessionSavedMsg{Err: err}
	}
}

// AutoSaveSession saves the current session, creating one named after the
// first user message when none exists yet.
func (m *Model) AutoSaveSession() tea.Cmd {
	if m.SessionStorage == nil {
		return nil
	}

	if m.CurrentSession == nil {
		var firstUserMsg string
		for _, msg := range m.Messages {
			if msg.Role == "user" && msg.Durable() {
				firstUserMsg = msg.Content
				break
			}
		}

		m.CurrentSession = &storage.Session{
			Name:       storage.GenerateSessionName(firstUserMsg),
			EndpointID: m.EndpointID,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
	}

	return m.SaveCurrentSession()
}

// DeleteSessionCmd deletes a session and refreshes the session list
func (m *Model) DeleteSessionCmd(sessionID string) tea.Cmd {
	store := m.SessionStorage
	return func() tea.Msg {
		if store == nil {
			return SessionsListMsg{Err: fmt.Errorf("session storage not initialized")}
		}
		if err := store.Delete(sessionID); err != nil {
			return SessionsListMsg{Err: err}
		}
		sessions, err := store.List()
		return SessionsListMsg{Sessions: sessions, Err: err}
	}
}
