package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MessageFlags marks the transient roles a chat message can play. Typing
// placeholders and status narration never persist; they exist only while a
// turn is in flight.
type MessageFlags struct {
	IsTyping    bool `json:"is_typing,omitempty"`
	IsStatus    bool `json:"is_status,omitempty"`
	IsStreaming bool `json:"is_streaming,omitempty"`
	IsError     bool `json:"is_error,omitempty"`
	AutoHide    bool `json:"auto_hide,omitempty"`
}

// Message is one chat panel entry.
type Message struct {
	ID         string       `json:"id"`
	Role       string       `json:"role"`
	Content    string       `json:"content"`
	Rendered   string       `json:"rendered,omitempty"` // Cached markdown rendering
	StatusType string       `json:"status_type,omitempty"`
	Flags      MessageFlags `json:"flags,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// Durable reports whether the message belongs in the persisted conversation
// log (and in the outgoing history window).
func (m Message) Durable() bool {
	if m.Role != "user" && m.Role != "assistant" {
		return false
	}
	return !m.Flags.IsTyping && !m.Flags.IsStatus && !m.Flags.IsError
}

// Session is one conversation against a wrapped endpoint.
type Session struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	EndpointID string    `json:"endpoint_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Messages   []Message `json:"messages"`
}

// SessionMetadata is a lightweight version of Session for listing
type SessionMetadata struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	EndpointID   string    `json:"endpoint_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// SessionStorage handles session persistence
type SessionStorage struct {
	sessionsDir string
}

// NewSessionStorage creates a new session storage
func NewSessionStorage(dataDir string) (*SessionStorage, error) {
	sessionsDir := filepath.Join(dataDir, "sessions")

	// Create sessions directory if it doesn't exist (0700 - user-only access)
	if err := os.MkdirAll(sessionsDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	return &SessionStorage{
		sessionsDir: sessionsDir,
	}, nil
}

// Save saves a session to disk. Transient messages (typing placeholders,
// status narration, error banners) are filtered out before writing.
func (s *SessionStorage) Save(session *Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	session.UpdatedAt = time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = session.UpdatedAt
	}

	durable := make([]Message, 0, len(session.Messages))
	for _, msg := range session.Messages {
		if msg.Durable() {
			durable = append(durable, msg)
		}
	}

	persisted := *session
	persisted.Messages = durable

	data, err := json.MarshalIndent(&persisted, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	path := filepath.Join(s.sessionsDir, fmt.Sprintf("%s.json", session.ID))

	// Use 0600 permissions - session files contain conversation history
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Load loads a session from disk
func (s *SessionStorage) Load(id string) (*Session, error) {
	path := filepath.Join(s.sessionsDir, fmt.Sprintf("%s.json", id))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// List returns metadata for all sessions, sorted by update time (newest first)
func (s *SessionStorage) List() ([]SessionMetadata, error) {
	entries, err := os.ReadDir(s.sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var sessions []SessionMetadata

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(s.sessionsDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue // Skip corrupted files
		}

		var session Session
		if err := json.Unmarshal(data, &session); err != nil {
			continue // Skip corrupted files
		}

		sessions = append(sessions, SessionMetadata{
			ID:           session.ID,
			Name:         session.Name,
			EndpointID:   session.EndpointID,
			CreatedAt:    session.CreatedAt,
			UpdatedAt:    session.UpdatedAt,
			MessageCount: len(session.Messages),
		})
	}

	// Sort by UpdatedAt (newest first)
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})

	return sessions, nil
}

// Delete deletes a session from disk
func (s *SessionStorage) Delete(id string) error {
	path := filepath.Join(s.sessionsDir, fmt.Sprintf("%s.json", id))

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete session file: %w", err)
	}

	return nil
}

// SaveCurrentSessionID saves the ID of the current session
func (s *SessionStorage) SaveCurrentSessionID(id string) error {
	path := filepath.Join(filepath.Dir(s.sessionsDir), "current_session.id")
	return os.WriteFile(path, []byte(id), 0600)
}

// LoadCurrentSessionID loads the ID of the last active session
func (s *SessionStorage) LoadCurrentSessionID() (string, error) {
	path := filepath.Join(filepath.Dir(s.sessionsDir), "current_session.id")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// GenerateSessionName generates a session name from the first user message
func GenerateSessionName(firstMessage string) string {
	if firstMessage == "" {
		return fmt.Sprintf("Session %s", time.Now().Format("Jan 2, 3:04 PM"))
	}

	name := firstMessage
	if len(name) > 30 {
		name = name[:30] + "..."
	}

	name = strings.ReplaceAll(name, "\n", " ")
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Sprintf("Session %s", time.Now().Format("Jan 2, 3:04 PM"))
	}

	return name
}
