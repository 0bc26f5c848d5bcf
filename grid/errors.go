package grid

import (
	"errors"
	"fmt"
)

// Errors reported by grid constructors and updates.
var (
	ErrOutOfRange      = errors.New("grid: index out of range")
	ErrInvalidShape    = errors.New("grid: invalid shape")
	ErrValueOutOfRange = errors.New("grid: value out of range")
)

// RangeError describes a cell address outside the grid.
type RangeError struct {
	Row     int
	Column  int
	Rows    int
	Columns int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("grid: cell (%d, %d) outside %dx%d grid", e.Row, e.Column, e.Rows, e.Columns)
}

// Unwrap lets errors.Is match ErrOutOfRange.
func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

func shapeError(rows, columns int) error {
	return fmt.Errorf("%w: %dx%d", ErrInvalidShape, rows, columns)
}

func raggedError(row, got, want int) error {
	return fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidShape, row, got, want)
}

func valueError(row, column int, v float64) error {
	return fmt.Errorf("%w: %v at (%d, %d)", ErrValueOutOfRange, v, row, column)
}
