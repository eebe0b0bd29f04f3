package ui

// revealTickMsg drives the typewriter reveal. The generation counter guards
// against stale ticks: a cancelled or superseded reveal bumps the counter and
// in-flight ticks for the old generation fall through harmlessly.
type revealTickMsg struct {
	gen int
}

type markdownRenderedMsg struct {
	MessageIndex int
	Rendered     string
}
