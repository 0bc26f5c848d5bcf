package widgets

import (
	"github.com/odvcencio/furry-grid/grid"
	"github.com/odvcencio/furry-grid/runtime"
)

// Frame stacks the board above a status line and is the root of the view
// tree handed to the loop.
type Frame struct {
	Base
	Board  *BoardView
	Status *StatusLine
}

// NewFrame creates a frame. Either child may be nil.
func NewFrame(board *BoardView, status *StatusLine) *Frame {
	return &Frame{Board: board, Status: status}
}

// Layout gives the board every row but the last, which holds the status.
func (f *Frame) Layout(bounds Rect) {
	f.Base.Layout(bounds)
	boardBounds := bounds
	if f.Status != nil && bounds.Height > 0 {
		boardBounds.Height--
		f.Status.Layout(Rect{X: bounds.X, Y: bounds.Y + bounds.Height - 1, Width: bounds.Width, Height: 1})
	}
	if f.Board != nil {
		f.Board.Layout(boardBounds)
	}
}

// ChildWidgets returns the non-nil children.
func (f *Frame) ChildWidgets() []runtime.Widget {
	var children []runtime.Widget
	if f.Board != nil {
		children = append(children, f.Board)
	}
	if f.Status != nil {
		children = append(children, f.Status)
	}
	return children
}

// Render draws the children that changed.
func (f *Frame) Render(surface runtime.Surface) {
	if f.Board != nil {
		f.Board.Render(surface)
	}
	if f.Status != nil {
		f.Status.Render(surface)
	}
	f.ClearInvalidation()
}

// ForceRefresh redraws everything on the next pass.
func (f *Frame) ForceRefresh() {
	if f.Board != nil {
		f.Board.ForceRefresh()
	}
	if f.Status != nil {
		f.Status.Invalidate()
	}
}

// HitTest maps a click to a grid coordinate on the board.
func (f *Frame) HitTest(x, y int) (grid.Coord, bool) {
	if f.Board == nil {
		return grid.Coord{}, false
	}
	return f.Board.HitTest(x, y)
}
