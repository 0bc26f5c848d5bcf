// Package widgets provides the terminal views that observe the grid store.
package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/furry-grid/runtime"
)

// Rect is a screen area in cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Alignment controls horizontal text placement.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Base provides bounds and render invalidation for views.
// Embed this in widget structs to get default implementations.
type Base struct {
	bounds      Rect
	needsRender bool
}

// Layout stores the assigned bounds.
func (b *Base) Layout(bounds Rect) {
	if b == nil {
		return
	}
	if b.bounds != bounds {
		b.bounds = bounds
		b.needsRender = true
	}
}

// Bounds returns the widget's assigned bounds.
func (b *Base) Bounds() Rect {
	if b == nil {
		return Rect{}
	}
	return b.bounds
}

// Invalidate marks the widget as needing a render pass.
func (b *Base) Invalidate() {
	if b == nil {
		return
	}
	b.needsRender = true
}

// NeedsRender reports whether the widget needs to re-render.
func (b *Base) NeedsRender() bool {
	if b == nil {
		return false
	}
	return b.needsRender
}

// ClearInvalidation clears the render-needed flag.
func (b *Base) ClearInvalidation() {
	if b == nil {
		return
	}
	b.needsRender = false
}

// truncateString truncates a string to fit within maxWidth.
// Adds "..." if truncated.
func truncateString(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// align fits s into width display columns.
func align(s string, width int, alignment Alignment) string {
	s = truncateString(s, width)
	switch alignment {
	case AlignRight:
		return runewidth.FillLeft(s, width)
	case AlignCenter:
		left := (width - runewidth.StringWidth(s)) / 2
		return runewidth.FillRight(runewidth.FillLeft(s, runewidth.StringWidth(s)+left), width)
	default:
		return runewidth.FillRight(s, width)
	}
}

// writePadded writes text over the whole width so stale characters from a
// longer previous frame are cleared.
func writePadded(surface runtime.Surface, x, y, width int, text string, alignment Alignment, style runtime.Style) {
	if surface == nil || width <= 0 {
		return
	}
	surface.SetString(x, y, align(text, width, alignment), style)
}
