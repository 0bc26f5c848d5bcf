// Package watch implements selector-based subscriptions over grid snapshots.
//
// A Manager keeps one entry per observer identity. On every published
// snapshot it re-evaluates only the selectors that could have changed and
// notifies an observer only when its selected slice differs from the last
// one it received. Subscriptions scoped to rows are indexed by row, so a
// single-cell update touches the observers of one row instead of all of them.
package watch

import (
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/odvcencio/furry-grid/grid"
)

// Errors returned by Subscribe.
var (
	ErrDuplicateIdentity = errors.New("watch: identity already subscribed")
	ErrNilSelector       = errors.New("watch: nil selector")
	ErrEqualType         = errors.New("watch: equality function does not match slice type")
)

// Recorder observes manager activity. metrics.Collector implements it.
type Recorder interface {
	ObservePass(evaluated, notified, skipped int)
	ObserveSubscriptions(active int)
}

// Stats are cumulative counters for a Manager.
type Stats struct {
	Passes        uint64
	Evaluations   uint64
	Notifications uint64
	Skipped       uint64
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithRecorder sets a recorder for pass statistics.
func WithRecorder(rec Recorder) ManagerOption {
	return func(m *Manager) {
		m.recorder = rec
	}
}

// entry is the type-erased half of a Subscription.
type entry struct {
	id     string
	seq    uint64
	rows   []int
	active bool

	// evaluate recomputes the slice against g. When the slice changed it
	// returns commit, which records the slice as delivered, and deliver,
	// which may be nil. It runs with the manager lock held and must not
	// mutate anything itself.
	evaluate func(g *grid.Grid) (commit, deliver func())
}

// Manager tracks subscriptions and diffs them against published snapshots.
type Manager struct {
	mu       sync.Mutex
	current  *grid.Grid
	entries  map[string]*entry
	order    []*entry
	unscoped []*entry
	byRow    map[int][]*entry
	next     uint64
	stats    Stats
	logger   *slog.Logger
	recorder Recorder
}

// NewManager creates a manager whose initial slices are read from initial.
func NewManager(initial *grid.Grid, opts ...ManagerOption) *Manager {
	m := &Manager{
		current: initial,
		entries: make(map[string]*entry),
		byRow:   make(map[int][]*entry),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot returns the last snapshot the manager saw.
func (m *Manager) Snapshot() *grid.Grid {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Len returns the number of active subscriptions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Stats returns cumulative pass counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Unsubscribe removes the subscription for id and reports whether one was active.
// Unsubscribing an unknown or already removed id is a no-op.
func (m *Manager) Unsubscribe(id string) bool {
	m.mu.Lock()
	e, ok := m.entries[id]
	if ok {
		m.removeLocked(e)
	}
	active := len(m.entries)
	m.mu.Unlock()
	if ok && m.recorder != nil {
		m.recorder.ObserveSubscriptions(active)
	}
	return ok
}

// Publish runs one diff pass from prev to next and delivers it.
//
// Only subscriptions that are unscoped or scoped to a row whose container
// changed are evaluated. Changed observers are notified synchronously, in
// registration order, after the pass completes.
func (m *Manager) Publish(prev, next *grid.Grid) {
	m.Evaluate(prev, next).Deliver()
}

// Pass is an evaluated diff pass whose notifications have not run yet.
type Pass struct {
	m          *Manager
	changed    int
	evaluated  int
	skipped    int
	deliveries []func()
}

// Evaluate runs the selectors for a pass from prev to next and records the
// result, without notifying anyone. If a selector panics the manager is left
// exactly as it was and the panic propagates. A nil next yields an empty pass.
func (m *Manager) Evaluate(prev, next *grid.Grid) *Pass {
	if next == nil {
		return &Pass{}
	}
	p := &Pass{m: m}
	m.mu.Lock()
	defer m.mu.Unlock()

	changed := grid.ChangedRows(prev, next)
	candidates := m.candidatesLocked(next, changed)
	var commits []func()
	for _, e := range candidates {
		commit, deliver := e.evaluate(next)
		if commit == nil {
			continue
		}
		commits = append(commits, commit)
		if deliver != nil {
			p.deliveries = append(p.deliveries, deliver)
		}
	}

	m.current = next
	for _, commit := range commits {
		commit()
	}
	p.changed = len(changed)
	p.evaluated = len(candidates)
	p.skipped = len(m.entries) - len(candidates)
	m.stats.Passes++
	m.stats.Evaluations += uint64(p.evaluated)
	m.stats.Notifications += uint64(len(p.deliveries))
	m.stats.Skipped += uint64(p.skipped)
	return p
}

// Deliver notifies the observers whose slices changed, in registration
// order. Observers unsubscribed since Evaluate are skipped. A pass delivers
// at most once.
func (p *Pass) Deliver() {
	if p == nil || p.m == nil {
		return
	}
	m := p.m
	p.m = nil
	m.logger.Debug("watch pass",
		slog.Int("changed_rows", p.changed),
		slog.Int("evaluated", p.evaluated),
		slog.Int("notified", len(p.deliveries)),
		slog.Int("skipped", p.skipped))
	if m.recorder != nil {
		m.recorder.ObservePass(p.evaluated, len(p.deliveries), p.skipped)
	}
	for _, deliver := range p.deliveries {
		deliver()
	}
}

func (m *Manager) candidatesLocked(next *grid.Grid, changed []int) []*entry {
	if len(changed) == 0 {
		return nil
	}
	rows, _ := next.Dimensions()
	if len(changed) == rows {
		return slices.Clone(m.order)
	}

	out := slices.Clone(m.unscoped)
	multi := false
	for _, r := range changed {
		for _, e := range m.byRow[r] {
			if len(e.rows) > 1 {
				multi = true
			}
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b *entry) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	if multi {
		out = slices.Compact(out)
	}
	return out
}

func (m *Manager) addLocked(e *entry) {
	e.seq = m.next
	m.next++
	e.active = true
	m.entries[e.id] = e
	m.order = append(m.order, e)
	if e.rows == nil {
		m.unscoped = append(m.unscoped, e)
		return
	}
	for _, r := range e.rows {
		m.byRow[r] = append(m.byRow[r], e)
	}
}

func (m *Manager) removeLocked(e *entry) {
	if !e.active {
		return
	}
	e.active = false
	delete(m.entries, e.id)
	m.order = deleteEntry(m.order, e)
	if e.rows == nil {
		m.unscoped = deleteEntry(m.unscoped, e)
		return
	}
	for _, r := range e.rows {
		bucket := deleteEntry(m.byRow[r], e)
		if len(bucket) == 0 {
			delete(m.byRow, r)
			continue
		}
		m.byRow[r] = bucket
	}
}

func (m *Manager) isActive(e *entry) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return e.active
}

func deleteEntry(list []*entry, e *entry) []*entry {
	return slices.DeleteFunc(list, func(x *entry) bool { return x == e })
}
