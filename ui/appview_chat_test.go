package ui

import (
	"testing"

	"github.com/charmbracelet/bubbles/spinner"

	"wrapchat/backend"
	"wrapchat/config"
	"wrapchat/events"
	appmodel "wrapchat/model"
	"wrapchat/reveal"
	"wrapchat/storage"
)

func testView(window config.ChatWindow) AppView {
	cfg := &config.Config{DefaultWindow: window}
	return NewAppView(&appmodel.Model{Config: cfg})
}

func TestSendGatedUntilTurnFullyPlayedOut(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(a *AppView)
		wantSend bool
	}{
		{
			name:     "idle",
			setup:    func(a *AppView) {},
			wantSend: true,
		},
		{
			name: "request in flight",
			setup: func(a *AppView) {
				a.dataModel.RequestInFlight = true
			},
			wantSend: false,
		},
		{
			name: "reveal still animating",
			setup: func(a *AppView) {
				a.revealer = reveal.New("a previous answer still playing out")
			},
			wantSend: false,
		},
		{
			name: "live status span still open",
			setup: func(a *AppView) {
				a.dataModel.Live = events.LiveStatus{Thinking: true}
			},
			wantSend: false,
		},
		{
			name: "blank input",
			setup: func(a *AppView) {
				a.textarea.SetValue("   ")
			},
			wantSend: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := testView(config.DefaultChatWindow())
			view.textarea.SetValue("make the endpoint friendlier")
			tt.setup(&view)

			inFlightBefore := view.dataModel.RequestInFlight
			updated, cmd := view.handleSend()
			got := updated.(AppView)

			if tt.wantSend {
				if len(got.dataModel.Messages) != 2 {
					t.Fatalf("expected user message + typing placeholder, got %d messages", len(got.dataModel.Messages))
				}
				if !got.dataModel.Messages[1].Flags.IsTyping {
					t.Errorf("second message should be the typing placeholder")
				}
				if !got.dataModel.RequestInFlight {
					t.Errorf("send should mark the request in flight")
				}
				if cmd == nil {
					t.Errorf("send should produce a turn command")
				}
				return
			}

			if len(got.dataModel.Messages) != 0 {
				t.Errorf("blocked send appended %d message(s)", len(got.dataModel.Messages))
			}
			if got.dataModel.RequestInFlight != inFlightBefore {
				t.Errorf("blocked send changed the in-flight flag")
			}
			if cmd != nil {
				t.Errorf("blocked send produced a command")
			}
		})
	}
}

func TestSendDuringRevealLeavesAnimatingMessageIntact(t *testing.T) {
	view := testView(config.DefaultChatWindow())

	// A finished turn starts revealing its answer.
	view.dataModel.RequestInFlight = true
	updated, _ := view.applyTurnResult(&backend.TurnResult{Answer: "the first answer, still being revealed"}, nil)
	view = updated.(AppView)

	// Advance one tick so the reveal is mid-flight.
	updated, _ = view.handleRevealTick(revealTickMsg{gen: view.revealGen})
	view = updated.(AppView)

	if view.revealer == nil {
		t.Fatalf("reveal should still be running")
	}
	genBefore := view.revealGen
	countBefore := len(view.dataModel.Messages)

	view.textarea.SetValue("a second message typed too early")
	updated, cmd := view.handleSend()
	view = updated.(AppView)

	if cmd != nil {
		t.Errorf("send during reveal produced a command")
	}
	if len(view.dataModel.Messages) != countBefore {
		t.Errorf("send during reveal changed the message log: %d -> %d", countBefore, len(view.dataModel.Messages))
	}
	if view.revealer == nil || view.revealGen != genBefore {
		t.Errorf("send during reveal disturbed the running reveal")
	}

	animating := view.dataModel.Messages[countBefore-1]
	if !animating.Flags.IsStreaming {
		t.Errorf("animating message lost its streaming flag")
	}

	// The reveal still finishes normally afterwards.
	for view.revealer != nil {
		updated, _ = view.handleRevealTick(revealTickMsg{gen: view.revealGen})
		view = updated.(AppView)
	}
	final := view.dataModel.Messages[len(view.dataModel.Messages)-1]
	if final.Flags.IsStreaming {
		t.Errorf("streaming flag should clear when the reveal completes")
	}
	if final.Content != "the first answer, still being revealed" {
		t.Errorf("final content = %q", final.Content)
	}
}

func TestInFlightRedrawRespectsAutoScrollPolicy(t *testing.T) {
	tests := []struct {
		name       string
		autoScroll bool
		wantBottom bool
	}{
		{name: "auto-scroll on", autoScroll: true, wantBottom: true},
		{name: "auto-scroll off keeps scroll position", autoScroll: false, wantBottom: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := config.DefaultChatWindow()
			window.AutoScroll = tt.autoScroll
			view := testView(window)
			view.dataModel.RequestInFlight = true
			view.viewport.Width = 40
			view.viewport.Height = 3

			// A log long enough to overflow the viewport, read from the top.
			for i := 0; i < 20; i++ {
				view.dataModel.Messages = append(view.dataModel.Messages, storage.Message{
					Role:     "assistant",
					Content:  "an earlier answer",
					Rendered: "an earlier answer",
				})
			}

			updated, _ := view.Update(spinner.TickMsg{})
			got := updated.(AppView)

			if atBottom := got.viewport.YOffset > 0; atBottom != tt.wantBottom {
				t.Errorf("YOffset = %d, scrolled to bottom = %v, want %v", got.viewport.YOffset, atBottom, tt.wantBottom)
			}
		})
	}
}
