package config

// History retention modes for the outgoing conversation window.
const (
	HistoryModeAll   = "all"
	HistoryModeLastN = "last_n"
)

// ChatWindow holds the per-endpoint retention policy and narration toggles
// read by the history windower and the chat panel.
type ChatWindow struct {
	HistoryMode           string `toml:"history_mode"`
	LastNCount            int    `toml:"last_n_count"`
	ShowThinking          bool   `toml:"show_thinking"`
	ShowWebSearch         bool   `toml:"show_web_search"`
	AutoScroll            bool   `toml:"auto_scroll"`
	AutoHideSearchResults bool   `toml:"auto_hide_search_results"`
}

func DefaultChatWindow() ChatWindow {
	return ChatWindow{
		HistoryMode:           HistoryModeAll,
		LastNCount:            10,
		ShowThinking:          true,
		ShowWebSearch:         true,
		AutoScroll:            true,
		AutoHideSearchResults: true,
	}
}

// Normalized clamps invalid values back to usable defaults. A zero-valued
// struct (endpoint never configured) becomes the default policy.
func (cw ChatWindow) Normalized() ChatWindow {
	if cw.HistoryMode != HistoryModeAll && cw.HistoryMode != HistoryModeLastN {
		cw.HistoryMode = HistoryModeAll
	}
	if cw.LastNCount < 1 {
		cw.LastNCount = 1
	}
	return cw
}
