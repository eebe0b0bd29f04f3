// Package reveal implements the progressive on-screen exposure of an
// already-complete answer string. The backend returns the whole response at
// once; the chat panel animates it into view chunk by chunk on a fixed
// cadence.
//
// The revealer itself is a pure state machine: the UI event loop schedules
// ticks and calls Advance. Revealed length only grows and reaches the full
// length exactly once. Cancellation (a new send superseding a still-running
// reveal) is the driver's job; the chat panel uses a generation counter so
// ticks from a superseded reveal are ignored instead of writing to a stale
// message.
package reveal

import "time"

const (
	// ChunkRunes is how many runes each tick exposes.
	ChunkRunes = 3

	// Cadence is the delay between ticks.
	Cadence = 30 * time.Millisecond

	// StartDelay is the pause before the first chunk, long enough for the
	// status narration to be seen.
	StartDelay = 300 * time.Millisecond
)

// Revealer exposes a fixed string a chunk at a time.
type Revealer struct {
	full []rune
	pos  int
}

// New creates a revealer over the complete answer text.
func New(text string) *Revealer {
	return &Revealer{full: []rune(text)}
}

// Advance exposes the next chunk and reports whether the full text is now
// visible. Calling Advance after completion is a no-op that keeps reporting
// done.
func (r *Revealer) Advance() (revealed string, done bool) {
	r.pos += ChunkRunes
	if r.pos >= len(r.full) {
		r.pos = len(r.full)
	}
	return string(r.full[:r.pos]), r.pos == len(r.full)
}

// Revealed returns the currently visible prefix.
func (r *Revealer) Revealed() string {
	return string(r.full[:r.pos])
}

// Full returns the complete text.
func (r *Revealer) Full() string {
	return string(r.full)
}

// Done reports whether the full text is visible.
func (r *Revealer) Done() bool {
	return r.pos == len(r.full)
}

// Progress returns visible and total rune counts.
func (r *Revealer) Progress() (visible, total int) {
	return r.pos, len(r.full)
}
