// Package grid provides immutable numeric grid snapshots with structurally
// shared rows.
//
// A Grid is never mutated after construction. Updates return a new Grid that
// reuses every row container the update did not touch, so callers can detect
// unaffected regions with a pointer comparison instead of a value scan.
package grid

const (
	// MaxValue is the exclusive upper bound for cell values.
	MaxValue = 100.0
	// DefaultRows is the row count of the reference workload.
	DefaultRows = 100
	// DefaultColumns is the column count of the reference workload.
	DefaultColumns = 100
)

// Coord addresses a single cell.
type Coord struct {
	Row    int
	Column int
}

// Row is an immutable row container. Rows are compared by pointer identity.
type Row struct {
	cells []float64
}

// Len returns the number of cells in the row.
func (r *Row) Len() int {
	if r == nil {
		return 0
	}
	return len(r.cells)
}

// At returns the value at column and whether the column exists.
func (r *Row) At(column int) (float64, bool) {
	if r == nil || column < 0 || column >= len(r.cells) {
		return 0, false
	}
	return r.cells[column], true
}

// Values returns a copy of the row's cells.
func (r *Row) Values() []float64 {
	if r == nil {
		return nil
	}
	out := make([]float64, len(r.cells))
	copy(out, r.cells)
	return out
}

// Grid is an immutable rows x columns matrix.
type Grid struct {
	rows    []*Row
	columns int
}

// New creates a grid of zeros.
func New(rows, columns int) (*Grid, error) {
	if rows <= 0 || columns <= 0 {
		return nil, shapeError(rows, columns)
	}
	g := &Grid{rows: make([]*Row, rows), columns: columns}
	for i := range g.rows {
		g.rows[i] = &Row{cells: make([]float64, columns)}
	}
	return g, nil
}

// Random creates a grid with every cell drawn from src.
func Random(rows, columns int, src Source) (*Grid, error) {
	g, err := New(rows, columns)
	if err != nil {
		return nil, err
	}
	return g.RandomizeAll(src), nil
}

// FromValues builds a grid from a copy of values.
// Every row must have the same non-zero length and every value must lie in [0, MaxValue).
func FromValues(values [][]float64) (*Grid, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, shapeError(len(values), 0)
	}
	columns := len(values[0])
	g := &Grid{rows: make([]*Row, len(values)), columns: columns}
	for i, src := range values {
		if len(src) != columns {
			return nil, raggedError(i, len(src), columns)
		}
		cells := make([]float64, columns)
		for j, v := range src {
			if !validValue(v) {
				return nil, valueError(i, j, v)
			}
			cells[j] = v
		}
		g.rows[i] = &Row{cells: cells}
	}
	return g, nil
}

// Dimensions returns the row and column counts.
func (g *Grid) Dimensions() (rows, columns int) {
	if g == nil {
		return 0, 0
	}
	return len(g.rows), g.columns
}

// Contains reports whether c addresses a cell of the grid.
func (g *Grid) Contains(c Coord) bool {
	rows, columns := g.Dimensions()
	return c.Row >= 0 && c.Row < rows && c.Column >= 0 && c.Column < columns
}

// CellAt returns the value at (row, column).
func (g *Grid) CellAt(row, column int) (float64, error) {
	if err := g.check(row, column); err != nil {
		return 0, err
	}
	return g.rows[row].cells[column], nil
}

// Row returns the row container at i, or nil when i is out of range.
// The returned row is shared with the grid and must be treated as read-only.
func (g *Grid) Row(i int) *Row {
	if g == nil || i < 0 || i >= len(g.rows) {
		return nil
	}
	return g.rows[i]
}

// Values returns a deep copy of the grid's cells.
func (g *Grid) Values() [][]float64 {
	if g == nil {
		return nil
	}
	out := make([][]float64, len(g.rows))
	for i, row := range g.rows {
		out[i] = row.Values()
	}
	return out
}

// RandomizeAll returns a grid of the same shape with every cell redrawn.
// Nothing is shared with g.
func (g *Grid) RandomizeAll(src Source) *Grid {
	if g == nil {
		return nil
	}
	next := &Grid{rows: make([]*Row, len(g.rows)), columns: g.columns}
	for i := range next.rows {
		cells := make([]float64, g.columns)
		for j := range cells {
			cells[j] = Draw(src)
		}
		next.rows[i] = &Row{cells: cells}
	}
	return next
}

// SetCell returns a grid where only (row, column) holds a freshly drawn value.
func (g *Grid) SetCell(row, column int, src Source) (*Grid, error) {
	if err := g.check(row, column); err != nil {
		return nil, err
	}
	return g.replace(row, column, Draw(src)), nil
}

// WithCell returns a grid where (row, column) holds value.
// Every other row container is shared with g; the target row is rebuilt.
func (g *Grid) WithCell(row, column int, value float64) (*Grid, error) {
	if err := g.check(row, column); err != nil {
		return nil, err
	}
	if !validValue(value) {
		return nil, valueError(row, column, value)
	}
	return g.replace(row, column, value), nil
}

func (g *Grid) replace(row, column int, value float64) *Grid {
	rows := make([]*Row, len(g.rows))
	copy(rows, g.rows)

	cells := make([]float64, g.columns)
	copy(cells, g.rows[row].cells)
	cells[column] = value
	rows[row] = &Row{cells: cells}

	return &Grid{rows: rows, columns: g.columns}
}

func (g *Grid) check(row, column int) error {
	rows, columns := g.Dimensions()
	if row < 0 || row >= rows || column < 0 || column >= columns {
		return &RangeError{Row: row, Column: column, Rows: rows, Columns: columns}
	}
	return nil
}

// ChangedRows returns the indices of rows in next whose containers are not
// shared with prev. When the shapes differ every row of next is reported.
func ChangedRows(prev, next *Grid) []int {
	if next == nil {
		return nil
	}
	prevRows, prevCols := prev.Dimensions()
	nextRows, nextCols := next.Dimensions()
	if prev == nil || prevRows != nextRows || prevCols != nextCols {
		all := make([]int, nextRows)
		for i := range all {
			all[i] = i
		}
		return all
	}
	if prev == next {
		return nil
	}
	var changed []int
	for i, row := range next.rows {
		if prev.rows[i] != row {
			changed = append(changed, i)
		}
	}
	return changed
}

func validValue(v float64) bool {
	return v >= 0 && v < MaxValue
}
