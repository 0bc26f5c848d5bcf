package watch

import (
	"fmt"
	"slices"

	"github.com/oklog/ulid/v2"

	"github.com/odvcencio/furry-grid/grid"
	"github.com/odvcencio/furry-grid/state"
)

// Option configures a single subscription.
type Option interface {
	apply(*subscribeOptions)
}

type subscribeOptions struct {
	rows      []int
	scoped    bool
	equal     any
	scheduler state.Scheduler
}

type optionFunc func(*subscribeOptions)

func (f optionFunc) apply(o *subscribeOptions) { f(o) }

// WithRows declares that the selector reads only the given rows. The
// subscription is then evaluated only when one of those row containers is
// replaced.
func WithRows(rows ...int) Option {
	return optionFunc(func(o *subscribeOptions) {
		o.scoped = true
		o.rows = append(o.rows, rows...)
	})
}

// WithEqual overrides the == comparison used for change detection.
func WithEqual[S any](fn state.EqualFunc[S]) Option {
	return optionFunc(func(o *subscribeOptions) {
		if fn != nil {
			o.equal = fn
		}
	})
}

// WithScheduler dispatches notifications through scheduler instead of
// calling them inline.
func WithScheduler(scheduler state.Scheduler) Option {
	return optionFunc(func(o *subscribeOptions) {
		o.scheduler = scheduler
	})
}

// Subscription is a live binding of an observer identity to a selector.
type Subscription[S any] struct {
	m       *Manager
	e       *entry
	initial S
	last    S
}

// ID returns the subscription identity.
func (s *Subscription[S]) ID() string {
	return s.e.id
}

// Initial returns the slice computed when the subscription was created.
func (s *Subscription[S]) Initial() S {
	return s.initial
}

// Last returns the most recently delivered slice.
func (s *Subscription[S]) Last() S {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return s.last
}

// Active reports whether the subscription still receives notifications.
func (s *Subscription[S]) Active() bool {
	return s.m.isActive(s.e)
}

// Unsubscribe stops notifications. It is safe to call more than once.
func (s *Subscription[S]) Unsubscribe() {
	s.m.mu.Lock()
	s.m.removeLocked(s.e)
	active := len(s.m.entries)
	s.m.mu.Unlock()
	if s.m.recorder != nil {
		s.m.recorder.ObserveSubscriptions(active)
	}
}

// Subscribe registers selector for id and returns the initial slice through
// the subscription. notify receives each subsequent slice that differs from
// the previous one; it may be nil for pull-only use through Last.
//
// An empty id gets a generated ULID. Subscribing an id that is already
// active fails with ErrDuplicateIdentity.
func Subscribe[P any, S comparable](m *Manager, id string, selector Selector[P, S], params P, notify func(S), opts ...Option) (*Subscription[S], error) {
	if selector == nil {
		return nil, ErrNilSelector
	}
	if f, ok := selector.(SelectorFunc[P, S]); ok && f == nil {
		return nil, ErrNilSelector
	}
	var o subscribeOptions
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&o)
		}
	}
	equal := state.EqualComparable[S]
	if o.equal != nil {
		fn, ok := o.equal.(state.EqualFunc[S])
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrEqualType, o.equal)
		}
		equal = fn
	}
	if id == "" {
		id = ulid.Make().String()
	}

	sub := &Subscription[S]{m: m}
	e := &entry{id: id}
	e.evaluate = func(g *grid.Grid) (func(), func()) {
		next := selector.Select(g, params)
		if equal(sub.last, next) {
			return nil, nil
		}
		commit := func() { sub.last = next }
		if notify == nil {
			return commit, nil
		}
		deliver := func() {
			if m.isActive(e) {
				notify(next)
			}
		}
		if o.scheduler == nil {
			return commit, deliver
		}
		return commit, func() { o.scheduler.Schedule(deliver) }
	}
	sub.e = e

	active, err := m.register(e, o, func(g *grid.Grid) {
		sub.initial = selector.Select(g, params)
		sub.last = sub.initial
	})
	if err != nil {
		return nil, err
	}
	if m.recorder != nil {
		m.recorder.ObserveSubscriptions(active)
	}
	return sub, nil
}

// register computes the initial slice through initial and adds e. A panic
// in initial releases the lock and leaves the manager unchanged.
func (m *Manager) register(e *entry, o subscribeOptions, initial func(*grid.Grid)) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entries[e.id]; exists {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateIdentity, e.id)
	}
	if o.scoped {
		rows, err := scopeRows(m.current, o.rows)
		if err != nil {
			return 0, err
		}
		e.rows = rows
	}
	initial(m.current)
	m.addLocked(e)
	return len(m.entries), nil
}

// SubscribeCell subscribes to the value of a single cell. The subscription
// is scoped to the cell's row and fails with grid.ErrOutOfRange when coord
// lies outside the current snapshot.
func SubscribeCell(m *Manager, id string, coord grid.Coord, notify func(float64), opts ...Option) (*Subscription[float64], error) {
	if !m.Snapshot().Contains(coord) {
		rows, columns := m.Snapshot().Dimensions()
		return nil, &grid.RangeError{Row: coord.Row, Column: coord.Column, Rows: rows, Columns: columns}
	}
	opts = append(opts, WithRows(coord.Row))
	return Subscribe(m, id, Cell, coord, notify, opts...)
}

func scopeRows(g *grid.Grid, rows []int) ([]int, error) {
	total, _ := g.Dimensions()
	out := slices.Clone(rows)
	slices.Sort(out)
	out = slices.Compact(out)
	for _, r := range out {
		if r < 0 || r >= total {
			return nil, fmt.Errorf("%w: row %d outside %d rows", grid.ErrOutOfRange, r, total)
		}
	}
	if out == nil {
		out = []int{}
	}
	return out, nil
}
