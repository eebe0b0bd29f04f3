package storage

import (
	"testing"
	"time"
)

func TestSessionSaveFiltersTransientMessages(t *testing.T) {
	storage, err := NewSessionStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewSessionStorage: %v", err)
	}

	session := &Session{
		Name:       "test",
		EndpointID: "ep-1",
		Messages: []Message{
			{ID: "1", Role: "user", Content: "hi", CreatedAt: time.Now()},
			{ID: "2", Role: "assistant", Content: "Thinking", Flags: MessageFlags{IsStatus: true}},
			{ID: "3", Role: "assistant", Content: "", Flags: MessageFlags{IsTyping: true}},
			{ID: "4", Role: "assistant", Content: "hello", CreatedAt: time.Now()},
			{ID: "5", Role: "assistant", Content: "boom", Flags: MessageFlags{IsError: true}},
		},
	}

	if err := storage.Save(session); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := storage.Load(session.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Messages) != 2 {
		t.Fatalf("expected 2 durable messages, got %d", len(loaded.Messages))
	}
	if loaded.Messages[0].ID != "1" || loaded.Messages[1].ID != "4" {
		t.Errorf("wrong messages persisted: %+v", loaded.Messages)
	}
	if loaded.EndpointID != "ep-1" {
		t.Errorf("endpoint id not persisted")
	}
}

func TestSessionListAndDelete(t *testing.T) {
	storage, err := NewSessionStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewSessionStorage: %v", err)
	}

	first := &Session{Name: "first"}
	if err := storage.Save(first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	second := &Session{Name: "second"}
	if err := storage.Save(second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	sessions, err := storage.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}

	if err := storage.Delete(first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	sessions, err = storage.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Name != "second" {
		t.Errorf("delete did not take: %+v", sessions)
	}
}

func TestGenerateSessionName(t *testing.T) {
	if name := GenerateSessionName("configure my endpoint to answer billing questions"); name != "configure my endpoint to answe..." {
		t.Errorf("long name truncation: %q", name)
	}
	if name := GenerateSessionName("short"); name != "short" {
		t.Errorf("short name: %q", name)
	}
	if name := GenerateSessionName(""); name == "" {
		t.Errorf("empty first message should still produce a name")
	}
}

func TestMessageDurable(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want bool
	}{
		{name: "user message", msg: Message{Role: "user", Content: "hi"}, want: true},
		{name: "assistant message", msg: Message{Role: "assistant", Content: "hello"}, want: true},
		{name: "streaming assistant message", msg: Message{Role: "assistant", Flags: MessageFlags{IsStreaming: true}}, want: true},
		{name: "status", msg: Message{Role: "assistant", Flags: MessageFlags{IsStatus: true}}, want: false},
		{name: "typing", msg: Message{Role: "assistant", Flags: MessageFlags{IsTyping: true}}, want: false},
		{name: "error", msg: Message{Role: "assistant", Flags: MessageFlags{IsError: true}}, want: false},
		{name: "system role", msg: Message{Role: "system", Content: "x"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.Durable(); got != tt.want {
				t.Errorf("Durable() = %v, want %v", got, tt.want)
			}
		})
	}
}
