package watch

import "github.com/odvcencio/furry-grid/grid"

// Selector derives the slice an observer cares about from a snapshot.
// Implementations must be pure: the same grid and params yield the same slice.
type Selector[P, S any] interface {
	Select(g *grid.Grid, params P) S
}

// SelectorFunc adapts a function into a Selector.
type SelectorFunc[P, S any] func(g *grid.Grid, params P) S

// Select calls f.
func (f SelectorFunc[P, S]) Select(g *grid.Grid, params P) S {
	return f(g, params)
}

// Cell selects the value of the cell at params.
var Cell Selector[grid.Coord, float64] = SelectorFunc[grid.Coord, float64](func(g *grid.Grid, c grid.Coord) float64 {
	v, _ := g.CellAt(c.Row, c.Column)
	return v
})

// RowOf selects the row container at params. Equality on the result is
// reference equality, so a subscriber is notified only when the row is rebuilt.
var RowOf Selector[int, *grid.Row] = SelectorFunc[int, *grid.Row](func(g *grid.Grid, i int) *grid.Row {
	return g.Row(i)
})
