package widgets

import (
	"github.com/odvcencio/furry-grid/runtime"
	"github.com/odvcencio/furry-grid/state"
)

// StatusLine is a one-line label bound to a signal. It subscribes while
// mounted and redraws when the signal changes.
type StatusLine struct {
	Base
	source    state.Readable[string]
	subs      state.Subscriptions
	text      string
	style     runtime.Style
	alignment Alignment
	mounted   bool
}

// NewStatusLine creates a status line. Signal callbacks run through
// scheduler; nil runs them synchronously.
func NewStatusLine(source state.Readable[string], scheduler state.Scheduler) *StatusLine {
	line := &StatusLine{
		source:    source,
		style:     runtime.Style{Reverse: true},
		alignment: AlignLeft,
	}
	line.subs.SetScheduler(scheduler)
	if source != nil {
		line.text = source.Get()
	}
	return line
}

// Text returns the current text.
func (s *StatusLine) Text() string {
	return s.text
}

// SetStyle sets the line style.
func (s *StatusLine) SetStyle(style runtime.Style) {
	s.style = style
	s.Invalidate()
}

// SetAlignment sets text alignment.
func (s *StatusLine) SetAlignment(align Alignment) {
	s.alignment = align
	s.Invalidate()
}

// Render draws the line when it changed since the last pass.
func (s *StatusLine) Render(surface runtime.Surface) {
	if !s.NeedsRender() {
		return
	}
	s.ClearInvalidation()
	b := s.bounds
	if b.Width == 0 || b.Height == 0 {
		return
	}
	writePadded(surface, b.X, b.Y, b.Width, s.text, s.alignment, s.style)
}

// Mount subscribes to signal changes.
func (s *StatusLine) Mount() {
	s.mounted = true
	s.subs.Clear()
	if s.source == nil {
		s.text = ""
		return
	}
	s.text = s.source.Get()
	s.Invalidate()
	s.subs.Observe(s.source, s.onSignal)
}

// Unmount unsubscribes from signal changes.
func (s *StatusLine) Unmount() {
	s.mounted = false
	s.subs.Clear()
}

func (s *StatusLine) onSignal() {
	if !s.mounted || s.source == nil {
		return
	}
	s.text = s.source.Get()
	s.Invalidate()
}
