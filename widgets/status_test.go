package widgets

import (
	"testing"

	"github.com/odvcencio/furry-grid/state"
)

func TestStatusLine_LifecycleQueue(t *testing.T) {
	sig := state.NewComparableSignal("start")
	queue := state.NewQueue()
	line := NewStatusLine(sig, queue)

	line.Mount()
	if line.Text() != "start" {
		t.Fatalf("expected initial text start, got %q", line.Text())
	}

	sig.Set("next")
	if line.Text() != "start" {
		t.Fatalf("expected text to update after flush, got %q", line.Text())
	}
	if flushed := queue.Flush(); flushed != 1 {
		t.Fatalf("expected 1 queued callback, got %d", flushed)
	}
	if line.Text() != "next" {
		t.Fatalf("expected updated text next, got %q", line.Text())
	}

	line.Unmount()
	sig.Set("final")
	if flushed := queue.Flush(); flushed != 0 {
		t.Fatalf("expected no queued callbacks after unmount, got %d", flushed)
	}
	if line.Text() != "next" {
		t.Fatalf("expected text to remain next after unmount, got %q", line.Text())
	}
}

func TestStatusLine_RendersOnlyWhenChanged(t *testing.T) {
	sig := state.NewComparableSignal("ready")
	line := NewStatusLine(sig, nil)
	line.Layout(Rect{X: 0, Y: 4, Width: 10, Height: 1})
	line.Mount()

	surface := newMemSurface()
	line.Render(surface)
	if got := surface.line(4); got != "ready     " {
		t.Fatalf("expected padded status, got %q", got)
	}
	line.Render(surface)
	if surface.writes != 1 {
		t.Fatalf("expected unchanged line to skip rendering, got %d writes", surface.writes)
	}

	sig.Set("a much longer status")
	line.Render(surface)
	if got := surface.line(4); got != "a much ..." {
		t.Fatalf("expected truncated status, got %q", got)
	}
}
