package store

import (
	"errors"
	"fmt"
)

// Action tags used at untyped boundaries.
const (
	KindRandomizeAll = "UPDATE_GRID"
	KindSetCell      = "UPDATE_GRID_CELL"
)

// ErrUnhandledAction matches every *UnhandledActionError.
var ErrUnhandledAction = errors.New("store: unhandled action")

// UnhandledActionError reports an action outside the closed action set.
// Dispatching one is a contract violation and panics.
type UnhandledActionError struct {
	Type string
}

func (e *UnhandledActionError) Error() string {
	return fmt.Sprintf("store: unhandled action type: %s", e.Type)
}

// Unwrap lets errors.Is match ErrUnhandledAction.
func (e *UnhandledActionError) Unwrap() error {
	return ErrUnhandledAction
}

// Action is a state change request. The set is closed: only the types in
// this package implement it.
type Action interface {
	Kind() string
	action()
}

// RandomizeAll redraws every cell of the grid.
type RandomizeAll struct{}

// Kind returns KindRandomizeAll.
func (RandomizeAll) Kind() string { return KindRandomizeAll }
func (RandomizeAll) action()      {}

// SetCell redraws the value of a single cell.
type SetCell struct {
	Row    int
	Column int
}

// Kind returns KindSetCell.
func (SetCell) Kind() string { return KindSetCell }
func (SetCell) action()      {}

// Tagged is the untyped form of an action, as received from input handlers
// or decoded from text.
type Tagged struct {
	Type   string `json:"type" yaml:"type"`
	Row    int    `json:"row,omitempty" yaml:"row,omitempty"`
	Column int    `json:"column,omitempty" yaml:"column,omitempty"`
}

// Decode converts a tagged action into its typed form.
func Decode(t Tagged) (Action, error) {
	switch t.Type {
	case KindRandomizeAll:
		return RandomizeAll{}, nil
	case KindSetCell:
		return SetCell{Row: t.Row, Column: t.Column}, nil
	default:
		return nil, &UnhandledActionError{Type: t.Type}
	}
}

// Encode converts an action into its tagged form.
func Encode(a Action) Tagged {
	switch a := normalize(a).(type) {
	case SetCell:
		return Tagged{Type: KindSetCell, Row: a.Row, Column: a.Column}
	case RandomizeAll:
		return Tagged{Type: KindRandomizeAll}
	}
	return Tagged{Type: kindOf(a)}
}

// normalize dereferences pointer forms of the action types.
func normalize(a Action) Action {
	switch p := a.(type) {
	case *SetCell:
		if p != nil {
			return *p
		}
	case *RandomizeAll:
		if p != nil {
			return *p
		}
	}
	return a
}

func kindOf(a Action) string {
	if a == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", a)
}
