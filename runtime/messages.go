package runtime

import (
	"time"

	"github.com/odvcencio/furry-grid/store"
)

// Message represents an event flowing into the loop.
// Messages come from input handlers, timers, or background goroutines.
type Message interface {
	isMessage()
}

// ActionMsg carries an action to dispatch on the loop goroutine.
type ActionMsg struct {
	Action store.Action
}

func (ActionMsg) isMessage() {}

// KeyMsg represents a keyboard input event.
type KeyMsg struct {
	Rune   rune
	Escape bool
	Ctrl   bool
}

func (KeyMsg) isMessage() {}

// MouseMsg represents a mouse click at screen coordinates.
type MouseMsg struct {
	X, Y   int
	Button MouseButton
}

func (MouseMsg) isMessage() {}

// ResizeMsg indicates the terminal size changed.
type ResizeMsg struct {
	Width  int
	Height int
}

func (ResizeMsg) isMessage() {}

// MouseButton identifies which mouse button was involved.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
)

// TickMsg is sent on each loop tick.
type TickMsg struct {
	Time time.Time
}

func (TickMsg) isMessage() {}

// QueueFlushMsg triggers a state queue flush in the loop.
type QueueFlushMsg struct{}

func (QueueFlushMsg) isMessage() {}

// InvalidateMsg requests a render pass without forcing a full redraw.
type InvalidateMsg struct{}

func (InvalidateMsg) isMessage() {}

// RefreshMsg forces every view to redraw.
type RefreshMsg struct{}

func (RefreshMsg) isMessage() {}

// QuitMsg stops the loop.
type QuitMsg struct{}

func (QuitMsg) isMessage() {}
