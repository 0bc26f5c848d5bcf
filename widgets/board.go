package widgets

import (
	"log/slog"

	"github.com/odvcencio/furry-grid/grid"
	"github.com/odvcencio/furry-grid/runtime"
	"github.com/odvcencio/furry-grid/state"
	"github.com/odvcencio/furry-grid/store"
)

// DefaultCellWidth fits two digits and a separator.
const DefaultCellWidth = 3

// BoardOptions configures a BoardView.
type BoardOptions struct {
	// Origin is the top-left grid coordinate shown.
	Origin grid.Coord
	// Rows and Columns size the window. Zero shows the rest of the grid.
	Rows    int
	Columns int
	// CellWidth is the width of one cell in screen columns.
	CellWidth int
	Scheduler state.Scheduler
	Logger    *slog.Logger
}

// BoardView shows a window of the grid as one CellView per coordinate.
// Each CellView observes its own cell; the board never reads the grid
// after construction.
type BoardView struct {
	Base
	store     *store.Store
	cellOpts  []CellOption
	origin    grid.Coord
	rows      int
	columns   int
	cellWidth int
	cells     []*CellView
	mounted   bool
}

// NewBoardView creates the cell views for the window described by opts,
// clipped to the current grid.
func NewBoardView(s *store.Store, opts BoardOptions) *BoardView {
	totalRows, totalCols := s.Snapshot().Dimensions()
	width := opts.CellWidth
	if width <= 0 {
		width = DefaultCellWidth
	}
	b := &BoardView{
		store: s,
		origin: grid.Coord{
			Row:    clamp(opts.Origin.Row, 0, totalRows),
			Column: clamp(opts.Origin.Column, 0, totalCols),
		},
		cellWidth: width,
		cellOpts:  []CellOption{WithCellScheduler(opts.Scheduler), WithCellLogger(opts.Logger)},
	}
	b.rows, b.columns = b.window(opts.Rows, opts.Columns)
	b.cells = make([]*CellView, 0, b.rows*b.columns)
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.columns; c++ {
			coord := grid.Coord{Row: b.origin.Row + r, Column: b.origin.Column + c}
			b.cells = append(b.cells, NewCellView(s, coord, b.cellOpts...))
		}
	}
	b.Layout(Rect{Width: b.columns * width, Height: b.rows})
	return b
}

// window clips a requested size to the grid. Zero means the rest of the grid.
func (b *BoardView) window(rows, columns int) (int, int) {
	totalRows, totalCols := b.store.Snapshot().Dimensions()
	r := totalRows - b.origin.Row
	if rows > 0 && rows < r {
		r = rows
	}
	c := totalCols - b.origin.Column
	if columns > 0 && columns < c {
		c = columns
	}
	return r, c
}

// Resize changes the window size, clipped to the grid, and reports whether
// it changed. Views still inside the window keep their subscriptions; views
// that leave it are unmounted, and new ones are mounted when the board is.
// Call Layout afterwards.
func (b *BoardView) Resize(rows, columns int) bool {
	rows, columns = b.window(rows, columns)
	if rows == b.rows && columns == b.columns {
		return false
	}
	kept := make(map[*CellView]bool, len(b.cells))
	cells := make([]*CellView, 0, rows*columns)
	for r := 0; r < rows; r++ {
		for c := 0; c < columns; c++ {
			coord := grid.Coord{Row: b.origin.Row + r, Column: b.origin.Column + c}
			if cell := b.Cell(coord); cell != nil {
				kept[cell] = true
				cells = append(cells, cell)
				continue
			}
			cell := NewCellView(b.store, coord, b.cellOpts...)
			if b.mounted {
				cell.Mount()
			}
			cells = append(cells, cell)
		}
	}
	for _, cell := range b.cells {
		if !kept[cell] {
			cell.Unmount()
		}
	}
	b.cells, b.rows, b.columns = cells, rows, columns
	b.Invalidate()
	return true
}

// CellWidth returns the width of one cell in screen columns.
func (b *BoardView) CellWidth() int {
	return b.cellWidth
}

// Mount marks the board mounted so cells added by Resize subscribe at once.
// The cells themselves are mounted by the tree walk.
func (b *BoardView) Mount() {
	b.mounted = true
}

// Unmount clears the mounted mark.
func (b *BoardView) Unmount() {
	b.mounted = false
}

// Size returns the window size in cells.
func (b *BoardView) Size() (rows, columns int) {
	return b.rows, b.columns
}

// Cells returns the cell views in row-major order.
func (b *BoardView) Cells() []*CellView {
	return b.cells
}

// Cell returns the view for coord, or nil when coord is outside the window.
func (b *BoardView) Cell(coord grid.Coord) *CellView {
	r, c := coord.Row-b.origin.Row, coord.Column-b.origin.Column
	if r < 0 || r >= b.rows || c < 0 || c >= b.columns {
		return nil
	}
	return b.cells[r*b.columns+c]
}

// Layout positions the board and its cells. Rows and columns that do not
// fit in bounds get zero-sized bounds and are not drawn.
func (b *BoardView) Layout(bounds Rect) {
	b.Base.Layout(bounds)
	for i, cell := range b.cells {
		r, c := i/b.columns, i%b.columns
		cb := Rect{X: bounds.X + c*b.cellWidth, Y: bounds.Y + r, Width: b.cellWidth, Height: 1}
		if (c+1)*b.cellWidth > bounds.Width || r >= bounds.Height {
			cb.Width, cb.Height = 0, 0
		}
		cell.Layout(cb)
	}
}

// ChildWidgets exposes the cell views for mounting.
func (b *BoardView) ChildWidgets() []runtime.Widget {
	children := make([]runtime.Widget, len(b.cells))
	for i, cell := range b.cells {
		children[i] = cell
	}
	return children
}

// Render draws the cells that changed since the last pass.
func (b *BoardView) Render(surface runtime.Surface) {
	for _, cell := range b.cells {
		cell.Render(surface)
	}
	b.ClearInvalidation()
}

// HitTest maps screen coordinates to the grid coordinate drawn there.
func (b *BoardView) HitTest(x, y int) (grid.Coord, bool) {
	if !b.bounds.Contains(x, y) {
		return grid.Coord{}, false
	}
	r := y - b.bounds.Y
	c := (x - b.bounds.X) / b.cellWidth
	if r >= b.rows || c >= b.columns {
		return grid.Coord{}, false
	}
	return grid.Coord{Row: b.origin.Row + r, Column: b.origin.Column + c}, true
}

// ForceRefresh redraws every cell on the next pass. Labels come from each
// view's memo, so no label is rebuilt unless its value or width changed.
func (b *BoardView) ForceRefresh() {
	b.Invalidate()
	for _, cell := range b.cells {
		cell.Invalidate()
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
