// Package store holds the current grid snapshot and applies actions to it.
//
// The store is the single writer: Dispatch replaces the snapshot with the
// result of a pure grid update and then publishes (prev, next) to the
// subscription manager and to listeners, synchronously and in order.
package store

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/odvcencio/furry-grid/grid"
	"github.com/odvcencio/furry-grid/watch"
)

// Recorder observes dispatch outcomes. metrics.Collector implements it.
type Recorder interface {
	ObserveDispatch(kind string, err error)
}

// Option configures a Store.
type Option func(*Store)

// WithSource sets the random source used by both actions.
func WithSource(src grid.Source) Option {
	return func(s *Store) {
		if src != nil {
			s.src = src
		}
	}
}

// WithLogger sets the store logger. The subscription manager inherits it.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder sets a recorder for dispatch outcomes.
func WithRecorder(rec Recorder) Option {
	return func(s *Store) {
		s.recorder = rec
	}
}

// WithManagerOptions passes options to the embedded subscription manager.
func WithManagerOptions(opts ...watch.ManagerOption) Option {
	return func(s *Store) {
		s.managerOpts = append(s.managerOpts, opts...)
	}
}

type listener struct {
	id uint64
	fn func(prev, next *grid.Grid)
}

// Store owns the current grid snapshot.
type Store struct {
	// writeMu serializes Dispatch, including notification.
	writeMu sync.Mutex

	mu        sync.RWMutex
	current   *grid.Grid
	version   uint64
	listeners []listener
	nextID    uint64

	src         grid.Source
	watch       *watch.Manager
	managerOpts []watch.ManagerOption
	logger      *slog.Logger
	recorder    Recorder
}

// New creates a store holding initial. A nil initial grid is replaced by a
// DefaultRows x DefaultColumns grid of random values.
func New(initial *grid.Grid, opts ...Option) *Store {
	s := &Store{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.src == nil {
		s.src = grid.DefaultSource()
	}
	if initial == nil {
		initial, _ = grid.Random(grid.DefaultRows, grid.DefaultColumns, s.src)
	}
	s.current = initial
	managerOpts := append([]watch.ManagerOption{watch.WithLogger(s.logger)}, s.managerOpts...)
	s.watch = watch.NewManager(initial, managerOpts...)
	return s
}

// Snapshot returns the current grid. Snapshots are immutable.
func (s *Store) Snapshot() *grid.Grid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Version returns the number of successful dispatches.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Watch returns the subscription manager fed by this store.
func (s *Store) Watch() *watch.Manager {
	return s.watch
}

// Dispatch applies action and publishes the new snapshot.
//
// An out-of-range SetCell returns an error wrapping grid.ErrOutOfRange and
// leaves the snapshot unchanged. An action outside the closed set panics
// with *UnhandledActionError before anything is published, and so does a
// panicking selector: in both cases the store keeps its previous snapshot
// and version and remains usable.
//
// Listeners run on the dispatching goroutine and must not call Dispatch;
// post the action to the runtime loop instead.
func (s *Store) Dispatch(action Action) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	action = normalize(action)
	prev := s.Snapshot()
	next, err := s.reduce(prev, action)
	if err != nil {
		s.logger.Warn("action rejected",
			slog.String("action", action.Kind()),
			slog.String("error", err.Error()))
		if s.recorder != nil {
			s.recorder.ObserveDispatch(action.Kind(), err)
		}
		return err
	}

	// A panicking selector propagates from here with the store unchanged.
	pass := s.watch.Evaluate(prev, next)

	s.mu.Lock()
	s.current = next
	s.version++
	version := s.version
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	s.logger.Debug("action applied",
		slog.String("action", action.Kind()),
		slog.Uint64("version", version))

	pass.Deliver()
	for _, l := range listeners {
		l.fn(prev, next)
	}
	if s.recorder != nil {
		s.recorder.ObserveDispatch(action.Kind(), nil)
	}
	return nil
}

// DispatchTagged decodes t and dispatches it. Unknown tags are fatal and
// panic with *UnhandledActionError.
func (s *Store) DispatchTagged(t Tagged) error {
	action, err := Decode(t)
	if err != nil {
		s.logger.Error("unhandled action", slog.String("type", t.Type))
		panic(err)
	}
	return s.Dispatch(action)
}

// Listen registers fn to run after every successful dispatch with the
// previous and new snapshots. Listeners run in registration order, after
// subscription manager notifications. The returned func removes fn.
func (s *Store) Listen(fn func(prev, next *grid.Grid)) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.listeners = slices.DeleteFunc(s.listeners, func(l listener) bool { return l.id == id })
			s.mu.Unlock()
		})
	}
}

func (s *Store) reduce(prev *grid.Grid, action Action) (*grid.Grid, error) {
	switch a := action.(type) {
	case RandomizeAll:
		return prev.RandomizeAll(s.src), nil
	case SetCell:
		return prev.SetCell(a.Row, a.Column, s.src)
	default:
		err := &UnhandledActionError{Type: kindOf(action)}
		s.logger.Error("unhandled action", slog.String("type", err.Type))
		panic(err)
	}
}

// Subscribe registers a selector against the store's snapshots.
// See watch.Subscribe.
func Subscribe[P any, S comparable](s *Store, id string, selector watch.Selector[P, S], params P, notify func(S), opts ...watch.Option) (*watch.Subscription[S], error) {
	return watch.Subscribe(s.watch, id, selector, params, notify, opts...)
}

// SubscribeCell subscribes to a single cell's value. See watch.SubscribeCell.
func SubscribeCell(s *Store, id string, coord grid.Coord, notify func(float64), opts ...watch.Option) (*watch.Subscription[float64], error) {
	return watch.SubscribeCell(s.watch, id, coord, notify, opts...)
}
