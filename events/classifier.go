// Package events interprets the backend's weakly-typed progress event stream
// into user-visible status narration.
//
// The backend emits an ordered list of event records during a configuration or
// test turn (thinking, reasoning, tool calls, web searches). The classifier
// maps each record to at most one status descriptor and keeps a per-panel
// live-status record so the chat panel knows whether the turn is still "busy"
// after the network call has returned.
package events

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// Event is one raw backend progress record. Unrecognized Type values are
// tolerated and simply produce no narration.
type Event struct {
	Type         string         `json:"type"`
	Name         string         `json:"name,omitempty"`
	Args         map[string]any `json:"args,omitempty"`
	Content      string         `json:"content,omitempty"`
	Focus        string         `json:"focus,omitempty"`
	Query        string         `json:"query,omitempty"`
	ResultsCount *int           `json:"results_count,omitempty"`
}

// Status types carried on descriptors and status messages.
const (
	StatusThinking  = "thinking"
	StatusReasoning = "reasoning"
	StatusWebSearch = "web_search"
	StatusTool      = "tool"
)

// StatusDescriptor is a transient narration entry derived from one event.
type StatusDescriptor struct {
	StatusType string
	Text       string
	AutoHide   bool
}

// LiveStatus tracks which long-running backend activities are still open.
// It is part of the classifier's output, not a free-floating global: callers
// pass the current value in and store the returned value.
type LiveStatus struct {
	Thinking  bool
	Reasoning bool
	WebSearch bool
}

// Busy reports whether any backend activity is still open. The send control
// stays disabled while this is true, even after the request itself returned.
func (ls LiveStatus) Busy() bool {
	return ls.Thinking || ls.Reasoning || ls.WebSearch
}

// Options tunes classification behavior that the surrounding application
// owns per chat window.
type Options struct {
	// AutoHideSearchResults controls whether web-search completion narration
	// fades like other status lines or stays pinned. The backend itself is
	// inconsistent about this, so it is a policy choice, not a guess.
	AutoHideSearchResults bool
}

// thinkingContentCap bounds the display width of streamed thinking/reasoning
// content before it is truncated with an ellipsis.
const thinkingContentCap = 120

const webSearchToolName = "web_search"

// Classify maps an ordered event list to an ordered descriptor list and the
// updated live status. Output order matches input order; events that produce
// no narration are dropped without reordering their neighbors.
func Classify(evts []Event, live LiveStatus, opts Options) ([]StatusDescriptor, LiveStatus) {
	descriptors := make([]StatusDescriptor, 0, len(evts))

	for _, ev := range evts {
		desc, emit := classifyOne(ev, &live, opts)
		if emit {
			descriptors = append(descriptors, desc)
		}
	}

	return descriptors, live
}

func classifyOne(ev Event, live *LiveStatus, opts Options) (StatusDescriptor, bool) {
	switch ev.Type {
	case "thinking_started":
		live.Thinking = true
		text := "Thinking"
		if ev.Focus != "" {
			text = fmt.Sprintf("Thinking: %s", ev.Focus)
		}
		return StatusDescriptor{StatusType: StatusThinking, Text: text, AutoHide: true}, true

	case "thinking_content":
		if ev.Content == "" {
			return StatusDescriptor{}, false
		}
		text := fmt.Sprintf("Thinking: %s", capContent(ev.Content))
		return StatusDescriptor{StatusType: StatusThinking, Text: text, AutoHide: true}, true

	case "thinking_completed":
		live.Thinking = false
		return StatusDescriptor{}, false

	case "reasoning_started":
		live.Reasoning = true
		text := "Reasoning"
		if ev.Focus != "" {
			text = fmt.Sprintf("Reasoning: %s", ev.Focus)
		}
		return StatusDescriptor{StatusType: StatusReasoning, Text: text, AutoHide: true}, true

	case "reasoning_content":
		if ev.Content == "" {
			return StatusDescriptor{}, false
		}
		text := fmt.Sprintf("Reasoning: %s", capContent(ev.Content))
		return StatusDescriptor{StatusType: StatusReasoning, Text: text, AutoHide: true}, true

	case "reasoning_completed":
		live.Reasoning = false
		return StatusDescriptor{}, false

	case "tool_call":
		if ev.Name == webSearchToolName {
			live.WebSearch = true
			text := "Searching the web"
			if query := argString(ev.Args, "query"); query != "" {
				text = fmt.Sprintf("Searching the web: %q", query)
			}
			return StatusDescriptor{StatusType: StatusWebSearch, Text: text, AutoHide: true}, true
		}
		return StatusDescriptor{
			StatusType: StatusTool,
			Text:       fmt.Sprintf("Running %s...", ev.Name),
			AutoHide:   true,
		}, true

	case "tool_result":
		if ev.Name == webSearchToolName {
			live.WebSearch = false
			text := "Web search complete"
			if ev.Query != "" {
				text = fmt.Sprintf("Web search complete: %q", ev.Query)
			}
			if ev.ResultsCount != nil {
				text = fmt.Sprintf("%s (%d results)", text, *ev.ResultsCount)
			}
			return StatusDescriptor{
				StatusType: StatusWebSearch,
				Text:       text,
				AutoHide:   opts.AutoHideSearchResults,
			}, true
		}
		return StatusDescriptor{
			StatusType: StatusTool,
			Text:       fmt.Sprintf("%s complete", ev.Name),
			AutoHide:   false,
		}, true
	}

	// Unknown event types are not an error; the backend adds new ones freely.
	return StatusDescriptor{}, false
}

// capContent truncates long thinking/reasoning snippets to a fixed display
// width, appending an ellipsis when anything was cut.
func capContent(s string) string {
	return runewidth.Truncate(s, thinkingContentCap, "…")
}

func argString(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}
