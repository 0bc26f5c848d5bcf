package state

import (
	"fmt"
	"testing"
)

type cellProps struct {
	Row, Column int
}

func TestMemo_SkipsRepeatedInputs(t *testing.T) {
	memo := MemoComparable(func(v float64, p cellProps) string {
		return fmt.Sprintf("%d,%d=%.0f", p.Row, p.Column, v)
	})

	first := memo.Call(42, cellProps{Row: 1, Column: 2})
	second := memo.Call(42, cellProps{Row: 1, Column: 2})
	if first != second {
		t.Fatalf("expected cached output %q, got %q", first, second)
	}
	if memo.Calls() != 1 {
		t.Fatalf("expected 1 invocation, got %d", memo.Calls())
	}
}

func TestMemo_RunsOnChangedSliceOrProps(t *testing.T) {
	memo := MemoComparable(func(v float64, p cellProps) float64 {
		return v + float64(p.Row)
	})

	memo.Call(1, cellProps{})
	if got := memo.Call(2, cellProps{}); got != 2 {
		t.Fatalf("expected 2 for changed slice, got %v", got)
	}
	if got := memo.Call(2, cellProps{Row: 3}); got != 5 {
		t.Fatalf("expected 5 for changed props, got %v", got)
	}
	if memo.Calls() != 3 {
		t.Fatalf("expected 3 invocations, got %d", memo.Calls())
	}

	// Only the latest pair is cached.
	memo.Call(1, cellProps{})
	if memo.Calls() != 4 {
		t.Fatalf("expected 4 invocations after returning to old input, got %d", memo.Calls())
	}
}

func TestMemo_CustomEquality(t *testing.T) {
	near := func(a, b float64) bool {
		d := a - b
		return d < 0.5 && d > -0.5
	}
	memo := NewMemo(func(v float64, p string) int {
		return int(v)
	}, near, EqualComparable[string])

	memo.Call(10.0, "x")
	memo.Call(10.2, "x")
	if memo.Calls() != 1 {
		t.Fatalf("expected near values to reuse output, got %d calls", memo.Calls())
	}
	memo.Call(11.0, "x")
	if memo.Calls() != 2 {
		t.Fatalf("expected distant value to run, got %d calls", memo.Calls())
	}
}

func TestMemo_NilEqualityAlwaysRuns(t *testing.T) {
	memo := NewMemo[int, int, int](func(a, b int) int { return a + b }, nil, nil)
	memo.Call(1, 1)
	memo.Call(1, 1)
	if memo.Calls() != 2 {
		t.Fatalf("expected nil equality to skip caching, got %d calls", memo.Calls())
	}
}

func TestMemo_Reset(t *testing.T) {
	memo := MemoComparable(func(a, b int) int { return a * b })
	memo.Call(2, 3)
	memo.Reset()
	if got := memo.Call(2, 3); got != 6 {
		t.Fatalf("expected 6, got %d", got)
	}
	if memo.Calls() != 2 {
		t.Fatalf("expected reset to force a call, got %d", memo.Calls())
	}
}
