package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"wrapchat/config"
	"wrapchat/tools"
)

// PendingToolStore durably caches the pending tool list per session/endpoint
// identifier and notifies subscribers on every write so sibling panels stay
// in sync.
//
// Write semantics are all-or-nothing at single-key granularity: an empty list
// deletes the key, anything else overwrites the full serialized list. There
// are no partial or merge writes, so memory and storage cannot diverge.
// Readers treat a missing key as an empty list, never as an error.
type PendingToolStore struct {
	db          *sql.DB
	encMgr      *config.EncryptionManager
	mu          sync.Mutex
	subscribers []func(sessionID string)
}

// NewPendingToolStore opens (and if needed creates) the pending-tools
// database under dataDir. encMgr may be nil, which stores payloads in
// plaintext.
func NewPendingToolStore(dataDir string, encMgr *config.EncryptionManager) (*PendingToolStore, error) {
	dbPath := filepath.Join(dataDir, "pending_tools.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PendingToolStore{db: db, encMgr: encMgr}

	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (s *PendingToolStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pending_tools (
		session_id TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Subscribe registers a change callback. Callbacks run synchronously on the
// writer's goroutine, after the write has committed.
func (s *PendingToolStore) Subscribe(fn func(sessionID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Save overwrites the pending entry list for a session. An empty list removes
// the key entirely.
func (s *PendingToolStore) Save(sessionID string, entries []tools.Entry) error {
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(entries) == 0 {
		if _, err := s.db.Exec(`DELETE FROM pending_tools WHERE session_id = ?`, sessionID); err != nil {
			return fmt.Errorf("failed to delete pending tools: %w", err)
		}
		s.notifyLocked(sessionID)
		return nil
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal pending tools: %w", err)
	}

	if s.encMgr != nil {
		payload, err = s.encMgr.Encrypt(payload)
		if err != nil {
			return fmt.Errorf("failed to encrypt pending tools: %w", err)
		}
	}

	_, err = s.db.Exec(
		`INSERT INTO pending_tools (session_id, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		sessionID, payload, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to write pending tools: %w", err)
	}

	s.notifyLocked(sessionID)
	return nil
}

// Load returns the pending entry list for a session. A missing key yields an
// empty list.
func (s *PendingToolStore) Load(sessionID string) ([]tools.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM pending_tools WHERE session_id = ?`, sessionID).Scan(&payload)
	if err == sql.ErrNoRows {
		return []tools.Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read pending tools: %w", err)
	}

	if s.encMgr != nil {
		payload, err = s.encMgr.Decrypt(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt pending tools: %w", err)
		}
	}

	var entries []tools.Entry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending tools: %w", err)
	}
	return entries, nil
}

// RemoveEntry deletes one entry (a tool or a whole provider group) from a
// session's pending list, rewriting the remaining list in a single write.
// Used when a save succeeds and the tool moves to connected.
func (s *PendingToolStore) RemoveEntry(sessionID, entryKey string) error {
	entries, err := s.Load(sessionID)
	if err != nil {
		return err
	}

	kept := make([]tools.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Key() == entryKey {
			continue
		}
		kept = append(kept, e)
	}

	if len(kept) == len(entries) {
		return nil
	}
	return s.Save(sessionID, kept)
}

// Close closes the underlying database.
func (s *PendingToolStore) Close() error {
	return s.db.Close()
}

func (s *PendingToolStore) notifyLocked(sessionID string) {
	for _, fn := range s.subscribers {
		fn(sessionID)
	}
}
