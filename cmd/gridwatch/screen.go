package main

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/furry-grid/runtime"
)

// tcellSurface draws views onto a tcell screen.
type tcellSurface struct {
	screen tcell.Screen
}

func (s tcellSurface) SetString(x, y int, text string, style runtime.Style) {
	st := tcell.StyleDefault.Bold(style.Bold).Reverse(style.Reverse).Dim(style.Dim)
	for _, r := range text {
		s.screen.SetContent(x, y, r, nil, st)
		x += runewidth.RuneWidth(r)
	}
}

func (s tcellSurface) Show() {
	s.screen.Show()
}

// eventTranslator converts tcell events to loop messages. It reports a
// mouse button once per press rather than on every motion event while held.
type eventTranslator struct {
	held tcell.ButtonMask
}

func (t *eventTranslator) translate(ev tcell.Event) runtime.Message {
	switch e := ev.(type) {
	case *tcell.EventKey:
		switch e.Key() {
		case tcell.KeyEscape:
			return runtime.KeyMsg{Escape: true}
		case tcell.KeyCtrlC:
			return runtime.KeyMsg{Rune: 'c', Ctrl: true}
		case tcell.KeyRune:
			return runtime.KeyMsg{Rune: e.Rune(), Ctrl: e.Modifiers()&tcell.ModCtrl != 0}
		}
	case *tcell.EventMouse:
		buttons := e.Buttons()
		pressed := buttons &^ t.held
		t.held = buttons
		x, y := e.Position()
		switch {
		case pressed&tcell.Button1 != 0:
			return runtime.MouseMsg{X: x, Y: y, Button: runtime.MouseLeft}
		case pressed&tcell.Button3 != 0:
			return runtime.MouseMsg{X: x, Y: y, Button: runtime.MouseMiddle}
		case pressed&tcell.Button2 != 0:
			return runtime.MouseMsg{X: x, Y: y, Button: runtime.MouseRight}
		}
	case *tcell.EventResize:
		w, h := e.Size()
		return runtime.ResizeMsg{Width: w, Height: h}
	}
	return nil
}

// pollEvents forwards terminal input to the loop until the screen is
// finalized or the loop stops.
func pollEvents(screen tcell.Screen) runtime.Effect {
	return runtime.Effect{
		Run: func(ctx context.Context, post runtime.PostFunc) {
			var t eventTranslator
			for {
				ev := screen.PollEvent()
				if ev == nil {
					return
				}
				if ctx.Err() != nil {
					return
				}
				if _, ok := ev.(*tcell.EventResize); ok {
					screen.Sync()
				}
				if msg := t.translate(ev); msg != nil {
					post(msg)
				}
			}
		},
	}
}
