package reveal

import (
	"strings"
	"testing"
)

func TestRevealMonotoneAndTerminal(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "short", text: "hi"},
		{name: "exact chunk multiple", text: strings.Repeat("x", ChunkRunes*4)},
		{name: "off-by-one", text: strings.Repeat("x", ChunkRunes*4+1)},
		{name: "multibyte runes", text: "héllo wörld, 你好世界"},
		{name: "long", text: strings.Repeat("lorem ipsum ", 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.text)
			total := len([]rune(tt.text))

			prev := 0
			for !r.Done() {
				revealed, done := r.Advance()
				visible := len([]rune(revealed))

				if visible < prev {
					t.Fatalf("revealed length decreased: %d -> %d", prev, visible)
				}
				if visible > total {
					t.Fatalf("revealed length %d exceeds total %d", visible, total)
				}
				if done && visible != total {
					t.Fatalf("done reported at length %d, want %d", visible, total)
				}
				prev = visible
			}

			if r.Revealed() != tt.text {
				t.Errorf("final revealed text differs from input")
			}

			// Ticks that arrive after completion must not move anything.
			revealed, done := r.Advance()
			if !done || revealed != tt.text {
				t.Errorf("advance after completion changed state: done=%v", done)
			}
		})
	}
}

func TestRevealEmptyString(t *testing.T) {
	r := New("")
	if !r.Done() {
		t.Errorf("empty text should be done immediately")
	}
	revealed, done := r.Advance()
	if revealed != "" || !done {
		t.Errorf("advance on empty text should stay done, got %q done=%v", revealed, done)
	}
}

func TestRevealProgress(t *testing.T) {
	r := New("abcdef")
	r.Advance()
	visible, total := r.Progress()
	if visible != ChunkRunes || total != 6 {
		t.Errorf("progress = (%d,%d), want (%d,6)", visible, total, ChunkRunes)
	}
	if r.Full() != "abcdef" {
		t.Errorf("full text mismatch")
	}
}
