package model

import (
	"wrapchat/backend"
	"wrapchat/config"
	"wrapchat/storage"
)

// HistoryWindow assembles the outgoing conversation window for a turn: the
// durable log filtered to user/assistant text, optionally narrowed to the
// last N entries, with the new user message appended last. The input log is
// never mutated.
func HistoryWindow(log []storage.Message, window config.ChatWindow, newUserText string) []backend.TurnMessage {
	window = window.Normalized()

	durable := make([]backend.TurnMessage, 0, len(log)+1)
	for _, msg := range log {
		if !msg.Durable() {
			continue
		}
		durable = append(durable, backend.TurnMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	if window.HistoryMode == config.HistoryModeLastN && len(durable) > window.LastNCount {
		durable = durable[len(durable)-window.LastNCount:]
	}

	out := make([]backend.TurnMessage, 0, len(durable)+1)
	out = append(out, durable...)
	out = append(out, backend.TurnMessage{Role: "user", Content: newUserText})
	return out
}
