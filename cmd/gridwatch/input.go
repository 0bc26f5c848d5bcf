package main

import (
	"github.com/odvcencio/furry-grid/runtime"
	"github.com/odvcencio/furry-grid/store"
	"github.com/odvcencio/furry-grid/widgets"
)

// controller maps input to actions. It runs on the loop goroutine and only
// posts; the loop dispatches.
type controller struct {
	frame *widgets.Frame
}

func (c *controller) update(loop *runtime.Loop, msg runtime.Message) bool {
	switch m := msg.(type) {
	case runtime.KeyMsg:
		switch {
		case m.Escape, m.Rune == 'q', m.Ctrl && m.Rune == 'c':
			loop.Quit()
		case m.Rune == 'r':
			loop.Dispatch(store.RandomizeAll{})
		case m.Rune == 'f':
			loop.Post(runtime.RefreshMsg{})
		}
	case runtime.MouseMsg:
		if m.Button != runtime.MouseLeft || c.frame == nil {
			return false
		}
		if coord, ok := c.frame.HitTest(m.X, m.Y); ok {
			loop.Dispatch(store.SetCell{Row: coord.Row, Column: coord.Column})
		}
	case runtime.ResizeMsg:
		if c.frame == nil {
			return false
		}
		if board := c.frame.Board; board != nil {
			rows := m.Height
			if c.frame.Status != nil {
				rows--
			}
			board.Resize(max(rows, 1), max(m.Width/board.CellWidth(), 1))
		}
		c.frame.Layout(widgets.Rect{Width: m.Width, Height: m.Height})
		c.frame.ForceRefresh()
		return true
	}
	return false
}
