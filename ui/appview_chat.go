package ui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"wrapchat/backend"
	"wrapchat/config"
	"wrapchat/events"
	"wrapchat/reveal"
	"wrapchat/storage"
)

func (a AppView) handleSend() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(a.textarea.Value())
	if text == "" {
		return a, nil
	}

	// Send stays disabled until the previous turn has fully played out: the
	// request returned, every live status span closed, and the reveal reached
	// the end of the answer. A send mid-reveal would orphan the animating
	// message with a truncated answer and a streaming flag that never clears.
	if a.revealer != nil || a.dataModel.Busy() {
		return a, nil
	}

	now := time.Now()
	a.dataModel.Messages = append(a.dataModel.Messages, storage.Message{
		ID:        uuid.New().String(),
		Role:      "user",
		Content:   text,
		Rendered:  text,
		CreatedAt: now,
	})

	// Typing placeholder; replaced when the answer arrives
	a.dataModel.Messages = append(a.dataModel.Messages, storage.Message{
		ID:        uuid.New().String(),
		Role:      "assistant",
		Content:   "Waiting for response...",
		Flags:     storage.MessageFlags{IsTyping: true},
		CreatedAt: now,
	})

	a.dataModel.RequestInFlight = true
	a.dataModel.SessionDirty = true
	a.textarea.Reset()
	a.updateViewportContent(true)

	ctx, cancel := context.WithCancel(context.Background())
	a.turnCancel = cancel

	var turnCmd tea.Cmd
	if a.testMode {
		turnCmd = a.dataModel.SendTestTurn(ctx, text)
	} else {
		turnCmd = a.dataModel.SendConfigurationTurn(ctx, text)
	}

	userIdx := len(a.dataModel.Messages) - 2
	return a, tea.Batch(
		turnCmd,
		a.loadingSpinner.Tick,
		a.renderMarkdownAsync(userIdx, text),
	)
}

// applyTurnResult folds a finished turn back into the chat: drop the typing
// placeholder, narrate the turn's events as status lines, and start the
// typewriter reveal for the answer.
func (a AppView) applyTurnResult(result *backend.TurnResult, err error) (tea.Model, tea.Cmd) {
	if !a.dataModel.RequestInFlight {
		// Turn was cancelled; drop the stale result
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Ignoring turn result after cancellation")
		}
		return a, nil
	}
	a.dataModel.RequestInFlight = false
	a.turnCancel = nil
	a.dropTypingPlaceholder()

	if err != nil {
		a.appendErrorMessage(err.Error())
		a.updateViewportContent(true)
		return a, nil
	}

	var cmds []tea.Cmd
	window := a.dataModel.Window()

	// Classify structured events into status narration
	descriptors, live := events.Classify(result.Events, a.dataModel.Live, events.Options{
		AutoHideSearchResults: window.AutoHideSearchResults,
	})
	a.dataModel.Live = live
	a.insertStatusMessages(descriptors)

	if result.RequiresConfirmation {
		a.appendErrorMessage(result.Message)
		a.updateViewportContent(true)
		return a, tea.Batch(cmds...)
	}

	if len(result.PendingTools) > 0 {
		if cmd := a.dataModel.IngestPendingTools(result.PendingTools); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	if result.Answer == "" {
		a.clearAutoHideStatuses()
		a.updateViewportContent(true)
		cmds = append(cmds, a.dataModel.AutoSaveSession())
		return a, tea.Batch(cmds...)
	}

	// Start the typewriter reveal
	a.dataModel.Messages = append(a.dataModel.Messages, storage.Message{
		ID:        uuid.New().String(),
		Role:      "assistant",
		Flags:     storage.MessageFlags{IsStreaming: true},
		CreatedAt: time.Now(),
	})
	a.revealIdx = len(a.dataModel.Messages) - 1
	a.revealer = reveal.New(result.Answer)
	a.revealGen++
	gen := a.revealGen

	a.updateViewportContent(window.AutoScroll)

	cmds = append(cmds, tea.Tick(reveal.StartDelay, func(time.Time) tea.Msg {
		return revealTickMsg{gen: gen}
	}))
	return a, tea.Batch(cmds...)
}

func (a AppView) handleRevealTick(msg revealTickMsg) (tea.Model, tea.Cmd) {
	// Stale tick from a cancelled or superseded reveal
	if msg.gen != a.revealGen || a.revealer == nil {
		return a, nil
	}

	revealed, done := a.revealer.Advance()
	if a.revealIdx < len(a.dataModel.Messages) {
		a.dataModel.Messages[a.revealIdx].Content = revealed
		a.dataModel.Messages[a.revealIdx].Rendered = revealed + "▋"
	}
	a.updateViewportContent(a.dataModel.Window().AutoScroll)

	if done {
		return a.finishReveal()
	}

	gen := a.revealGen
	return a, tea.Tick(reveal.Cadence, func(time.Time) tea.Msg {
		return revealTickMsg{gen: gen}
	})
}

// finishReveal jumps to the full answer, clears the streaming flag, removes
// auto-hiding status lines, and kicks off the markdown render and autosave.
func (a AppView) finishReveal() (tea.Model, tea.Cmd) {
	if a.revealer == nil {
		return a, nil
	}
	full := a.revealer.Full()
	a.revealer = nil
	a.revealGen++

	if a.revealIdx < len(a.dataModel.Messages) {
		a.dataModel.Messages[a.revealIdx].Content = full
		a.dataModel.Messages[a.revealIdx].Rendered = full
		a.dataModel.Messages[a.revealIdx].Flags.IsStreaming = false
	}
	a.clearAutoHideStatuses()
	a.dataModel.SessionDirty = true
	a.updateViewportContent(a.dataModel.Window().AutoScroll)

	// revealIdx may have shifted when auto-hide statuses were dropped
	idx := a.indexOfLastAssistant()
	return a, tea.Batch(
		a.renderMarkdownAsync(idx, full),
		a.dataModel.AutoSaveSession(),
	)
}

func (a *AppView) cancelReveal() {
	a.revealer = nil
	a.revealGen++
}

func (a *AppView) cancelTurn() {
	if a.turnCancel != nil {
		a.turnCancel()
		a.turnCancel = nil
	}
	a.dataModel.RequestInFlight = false
	a.dropTypingPlaceholder()
}

func (a *AppView) dropTypingPlaceholder() {
	msgs := a.dataModel.Messages
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Flags.IsTyping {
			a.dataModel.Messages = append(msgs[:i], msgs[i+1:]...)
			return
		}
	}
}

// insertStatusMessages appends narration lines for the turn's events,
// honoring the endpoint's thinking/web-search visibility toggles.
func (a *AppView) insertStatusMessages(descriptors []events.StatusDescriptor) {
	window := a.dataModel.Window()

	for _, desc := range descriptors {
		switch desc.StatusType {
		case events.StatusThinking, events.StatusReasoning:
			if !window.ShowThinking {
				continue
			}
		case events.StatusWebSearch:
			if !window.ShowWebSearch {
				continue
			}
		}

		a.dataModel.Messages = append(a.dataModel.Messages, storage.Message{
			ID:         uuid.New().String(),
			Role:       "assistant",
			Content:    desc.Text,
			Rendered:   desc.Text,
			StatusType: desc.StatusType,
			Flags:      storage.MessageFlags{IsStatus: true, AutoHide: desc.AutoHide},
			CreatedAt:  time.Now(),
		})
	}
}

// clearAutoHideStatuses removes status lines marked auto-hide once the turn
// has fully played out.
func (a *AppView) clearAutoHideStatuses() {
	kept := a.dataModel.Messages[:0]
	for _, m := range a.dataModel.Messages {
		if m.Flags.IsStatus && m.Flags.AutoHide {
			continue
		}
		kept = append(kept, m)
	}
	a.dataModel.Messages = kept
}

func (a *AppView) appendErrorMessage(text string) {
	if text == "" {
		text = "Something went wrong. Please try again."
	}
	a.dataModel.Messages = append(a.dataModel.Messages, storage.Message{
		ID:        uuid.New().String(),
		Role:      "assistant",
		Content:   text,
		Rendered:  ErrorStyle.Render(text),
		Flags:     storage.MessageFlags{IsError: true},
		CreatedAt: time.Now(),
	})
}

func (a AppView) indexOfLastAssistant() int {
	for i := len(a.dataModel.Messages) - 1; i >= 0; i-- {
		m := a.dataModel.Messages[i]
		if m.Role == "assistant" && m.Durable() {
			return i
		}
	}
	return -1
}
