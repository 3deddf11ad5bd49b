package player

import "context"

// State is the numeric state code reported by the embedded player widget.
type State int

const (
	StateUnstarted State = -1
	StateEnded     State = 0
	StatePlaying   State = 1
	StatePaused    State = 2
	StateBuffering State = 3
	StateCued      State = 5
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateEnded:
		return "ended"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateBuffering:
		return "buffering"
	case StateCued:
		return "cued"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the codes the widget emits.
func (s State) Valid() bool {
	return s.String() != "unknown"
}

// Binding is a live handle to an embedded player instance. The player's
// internal state belongs to the widget; a Binding only commands and queries it.
type Binding interface {
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Seek(ctx context.Context, seconds float64, allowSeekAhead bool) error
	// Tag marks the rendered player surface with a style marker.
	Tag(ctx context.Context, marker string) error
	CurrentTime() float64
	Duration() float64
	State() State
}
