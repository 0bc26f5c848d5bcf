package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

type seqSource struct {
	values []float64
	next   int
}

func (s *seqSource) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func TestNew_Zeros(t *testing.T) {
	g, err := New(3, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, cols := g.Dimensions()
	if rows != 3 || cols != 4 {
		t.Fatalf("expected 3x4, got %dx%d", rows, cols)
	}
	want := [][]float64{{0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}
	if diff := cmp.Diff(want, g.Values()); diff != "" {
		t.Fatalf("unexpected values (-want +got):\n%s", diff)
	}
}

func TestNew_InvalidShape(t *testing.T) {
	for _, tc := range []struct{ rows, cols int }{{0, 1}, {1, 0}, {-1, 5}} {
		if _, err := New(tc.rows, tc.cols); !errors.Is(err, ErrInvalidShape) {
			t.Fatalf("expected ErrInvalidShape for %dx%d, got %v", tc.rows, tc.cols, err)
		}
	}
}

func TestFromValues(t *testing.T) {
	src := [][]float64{{1, 2}, {3, 4}}
	g, err := FromValues(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	src[0][0] = 99
	if v, _ := g.CellAt(0, 0); v != 1 {
		t.Fatalf("expected grid to own its cells, got %v", v)
	}

	if _, err := FromValues([][]float64{{1, 2}, {3}}); !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("expected ragged input to fail, got %v", err)
	}
	if _, err := FromValues(nil); !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("expected empty input to fail, got %v", err)
	}
	if _, err := FromValues([][]float64{{100}}); !errors.Is(err, ErrValueOutOfRange) {
		t.Fatalf("expected value 100 to fail, got %v", err)
	}
	if _, err := FromValues([][]float64{{-0.5}}); !errors.Is(err, ErrValueOutOfRange) {
		t.Fatalf("expected negative value to fail, got %v", err)
	}
}

func TestSetCell_StructuralSharing(t *testing.T) {
	g, _ := New(3, 3)
	next, err := g.SetCell(1, 1, fixedSource(0.42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if next.Row(0) != g.Row(0) || next.Row(2) != g.Row(2) {
		t.Fatalf("expected untouched rows to be shared")
	}
	if next.Row(1) == g.Row(1) {
		t.Fatalf("expected target row to be a new container")
	}

	v, _ := next.CellAt(1, 1)
	if v < 0 || v >= MaxValue {
		t.Fatalf("expected value in [0, 100), got %v", v)
	}
	if math.Abs(v-42) > 1e-9 {
		t.Fatalf("expected drawn value 42, got %v", v)
	}
	if a, _ := next.CellAt(0, 0); a != 0 {
		t.Fatalf("expected (0,0) to stay 0, got %v", a)
	}
	if b, _ := next.CellAt(2, 2); b != 0 {
		t.Fatalf("expected (2,2) to stay 0, got %v", b)
	}

	want := [][]float64{{0, 0, 0}, {0, 42, 0}, {0, 0, 0}}
	if diff := cmp.Diff(want, next.Values(), cmp.Comparer(func(a, b float64) bool {
		return math.Abs(a-b) < 1e-9
	})); diff != "" {
		t.Fatalf("unexpected values (-want +got):\n%s", diff)
	}
	if old, _ := g.CellAt(1, 1); old != 0 {
		t.Fatalf("expected original snapshot to be unchanged, got %v", old)
	}
}

func TestSetCell_EveryCoordinateSharesOtherRows(t *testing.T) {
	g, _ := Random(4, 5, NewSource(7))
	rows, cols := g.Dimensions()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			next, err := g.SetCell(r, c, NewSource(uint64(r*cols+c)))
			if err != nil {
				t.Fatalf("unexpected error at (%d,%d): %v", r, c, err)
			}
			for i := 0; i < rows; i++ {
				shared := next.Row(i) == g.Row(i)
				if i == r && shared {
					t.Fatalf("expected row %d to be rebuilt for (%d,%d)", i, r, c)
				}
				if i != r && !shared {
					t.Fatalf("expected row %d to be shared for (%d,%d)", i, r, c)
				}
			}
			for j := 0; j < cols; j++ {
				if j == c {
					continue
				}
				before, _ := g.CellAt(r, j)
				after, _ := next.CellAt(r, j)
				if before != after {
					t.Fatalf("expected (%d,%d) to be copied, got %v want %v", r, j, after, before)
				}
			}
		}
	}
}

func TestOutOfRange(t *testing.T) {
	g, _ := New(3, 4)
	cases := []struct{ row, col int }{
		{-1, 0}, {3, 0}, {0, -1}, {0, 4},
	}
	for _, tc := range cases {
		if _, err := g.SetCell(tc.row, tc.col, nil); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("SetCell(%d,%d): expected ErrOutOfRange, got %v", tc.row, tc.col, err)
		}
		_, err := g.CellAt(tc.row, tc.col)
		if !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("CellAt(%d,%d): expected ErrOutOfRange, got %v", tc.row, tc.col, err)
		}
		var rangeErr *RangeError
		if !errors.As(err, &rangeErr) || rangeErr.Rows != 3 || rangeErr.Columns != 4 {
			t.Fatalf("expected RangeError with grid shape, got %#v", err)
		}
	}
}

func TestWithCell(t *testing.T) {
	g, _ := New(2, 2)
	next, err := g.WithCell(0, 1, 12.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := next.CellAt(0, 1); v != 12.5 {
		t.Fatalf("expected 12.5, got %v", v)
	}
	if next.Row(1) != g.Row(1) {
		t.Fatalf("expected row 1 to be shared")
	}
	if _, err := g.WithCell(0, 0, MaxValue); !errors.Is(err, ErrValueOutOfRange) {
		t.Fatalf("expected ErrValueOutOfRange, got %v", err)
	}
}

func TestRandomizeAll(t *testing.T) {
	g, _ := New(10, 10)
	next := g.RandomizeAll(NewSource(1))

	rows, cols := next.Dimensions()
	if rows != 10 || cols != 10 {
		t.Fatalf("expected dimensions preserved, got %dx%d", rows, cols)
	}
	changed := 0
	for r := 0; r < rows; r++ {
		if next.Row(r) == g.Row(r) {
			t.Fatalf("expected row %d to be rebuilt", r)
		}
		for c := 0; c < cols; c++ {
			v, _ := next.CellAt(r, c)
			if v < 0 || v >= MaxValue {
				t.Fatalf("expected value in range, got %v", v)
			}
			if v != 0 {
				changed++
			}
		}
	}
	if changed != rows*cols {
		t.Fatalf("expected every cell redrawn, got %d of %d", changed, rows*cols)
	}
}

func TestChangedRows(t *testing.T) {
	g, _ := New(4, 2)
	next, _ := g.SetCell(2, 0, nil)

	if diff := cmp.Diff([]int{2}, ChangedRows(g, next)); diff != "" {
		t.Fatalf("unexpected changed rows (-want +got):\n%s", diff)
	}
	if got := ChangedRows(next, next); len(got) != 0 {
		t.Fatalf("expected no changed rows for same snapshot, got %v", got)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3}, ChangedRows(nil, g)); diff != "" {
		t.Fatalf("unexpected rows for nil prev (-want +got):\n%s", diff)
	}
	all := ChangedRows(g, g.RandomizeAll(nil))
	if len(all) != 4 {
		t.Fatalf("expected 4 changed rows after randomize, got %v", all)
	}
}

func TestDraw_Clamps(t *testing.T) {
	if v := Draw(fixedSource(math.Nextafter(1, 0))); v >= MaxValue {
		t.Fatalf("expected draw below MaxValue, got %v", v)
	}
	if v := Draw(fixedSource(-1)); v != 0 {
		t.Fatalf("expected negative draw clamped to 0, got %v", v)
	}
	src := &seqSource{values: []float64{0.25, 0.5}}
	if a, b := Draw(src), Draw(src); a != 25 || b != 50 {
		t.Fatalf("expected 25 and 50, got %v and %v", a, b)
	}
}

func TestNilGrid(t *testing.T) {
	var g *Grid
	if rows, cols := g.Dimensions(); rows != 0 || cols != 0 {
		t.Fatalf("expected 0x0 for nil grid, got %dx%d", rows, cols)
	}
	if g.Row(0) != nil {
		t.Fatalf("expected nil row for nil grid")
	}
	if _, err := g.CellAt(0, 0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for nil grid, got %v", err)
	}
}
