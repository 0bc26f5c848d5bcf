// Package runtime runs the single-writer event loop that feeds actions to
// the store and renders views after their observers fire.
package runtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/odvcencio/furry-grid/grid"
	"github.com/odvcencio/furry-grid/state"
	"github.com/odvcencio/furry-grid/store"
)

// UpdateFunc handles input messages the loop does not interpret itself.
// It returns true if a render is needed.
type UpdateFunc func(loop *Loop, msg Message) bool

// Config configures a Loop.
type Config struct {
	Store         *store.Store
	Root          Widget
	Surface       Surface
	Update        UpdateFunc
	Queue         *state.Queue
	FlushPolicy   QueueFlushPolicy
	MessageBuffer int
	TickRate      time.Duration
	Logger        *slog.Logger
}

// Loop owns the only goroutine that dispatches to the store and renders.
type Loop struct {
	store          *store.Store
	root           Widget
	surface        Surface
	update         UpdateFunc
	messages       chan Message
	tickRate       time.Duration
	queueScheduler *QueueScheduler
	flushPolicy    QueueFlushPolicy
	invalidator    *Invalidator
	logger         *slog.Logger

	taskMu         sync.Mutex
	taskCtx        context.Context
	taskCancel     context.CancelFunc
	pendingEffects []Effect

	running bool
	dirty   bool
	frames  int
}

// NewLoop creates a loop from cfg. A nil Store gets a default store.
func NewLoop(cfg Config) *Loop {
	bufferSize := cfg.MessageBuffer
	if bufferSize <= 0 {
		bufferSize = 128
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := cfg.Store
	if s == nil {
		s = store.New(nil, store.WithLogger(logger))
	}
	l := &Loop{
		store:       s,
		root:        cfg.Root,
		surface:     cfg.Surface,
		update:      cfg.Update,
		messages:    make(chan Message, bufferSize),
		tickRate:    cfg.TickRate,
		flushPolicy: cfg.FlushPolicy,
		logger:      logger,
	}
	l.queueScheduler = NewQueueScheduler(cfg.Queue, l.TryPost)
	l.invalidator = NewInvalidator(l.TryPost)
	return l
}

// Store returns the store the loop dispatches to.
func (l *Loop) Store() *store.Store {
	return l.store
}

// SetRoot swaps the root widget. Call it before Run.
func (l *Loop) SetRoot(root Widget) {
	l.root = root
}

// Frames returns the number of render passes run so far.
func (l *Loop) Frames() int {
	return l.frames
}

// StateScheduler returns a scheduler that defers callbacks to the loop's
// queue and flushes them according to the flush policy.
func (l *Loop) StateScheduler() state.Scheduler {
	return l.queueScheduler
}

// InvalidateScheduler returns a scheduler that runs callbacks immediately
// and requests a render pass.
func (l *Loop) InvalidateScheduler() state.Scheduler {
	return l.invalidator
}

// Invalidate requests a render pass.
func (l *Loop) Invalidate() {
	l.invalidator.Invalidate()
}

// Dispatch posts action to the loop. It is safe to call from any goroutine,
// including store listeners and observers.
func (l *Loop) Dispatch(action store.Action) bool {
	return l.TryPost(ActionMsg{Action: action})
}

// Quit asks the loop to stop.
func (l *Loop) Quit() {
	l.Post(QuitMsg{})
}

// Post sends a message to the loop, dropping it if the buffer is full.
func (l *Loop) Post(msg Message) {
	_ = l.TryPost(msg)
}

// TryPost sends a message to the loop without blocking.
func (l *Loop) TryPost(msg Message) bool {
	if l == nil || msg == nil {
		return false
	}
	select {
	case l.messages <- msg:
		return true
	default:
		return false
	}
}

// Spawn starts an effect bound to the loop's lifetime.
// If Run has not started, the effect waits until it does.
func (l *Loop) Spawn(effect Effect) {
	if effect.Run == nil {
		return
	}
	l.taskMu.Lock()
	ctx := l.taskCtx
	if ctx == nil {
		l.pendingEffects = append(l.pendingEffects, effect)
		l.taskMu.Unlock()
		return
	}
	l.taskMu.Unlock()
	go effect.Run(ctx, l.TryPost)
}

// After posts msg once delay has elapsed.
func (l *Loop) After(delay time.Duration, msg Message) {
	l.Spawn(After(delay, msg))
}

// Every posts the message fn returns on a fixed interval.
func (l *Loop) Every(interval time.Duration, fn func(time.Time) Message) {
	l.Spawn(Every(interval, fn))
}

// Run processes messages until QuitMsg or ctx cancellation. The root widget
// is mounted before the first message and unmounted on return.
//
// An unhandled action panics out of Run; the loop does not recover it.
func (l *Loop) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	taskCtx, taskCancel := context.WithCancel(ctx)
	l.taskMu.Lock()
	l.taskCtx, l.taskCancel = taskCtx, taskCancel
	pending := l.pendingEffects
	l.pendingEffects = nil
	l.taskMu.Unlock()
	defer func() {
		taskCancel()
		l.taskMu.Lock()
		l.taskCtx, l.taskCancel = nil, nil
		l.taskMu.Unlock()
	}()

	MountTree(l.root)
	defer UnmountTree(l.root)

	for _, effect := range pending {
		go effect.Run(taskCtx, l.TryPost)
	}

	var ticks <-chan time.Time
	if l.tickRate > 0 {
		ticker := time.NewTicker(l.tickRate)
		defer ticker.Stop()
		ticks = ticker.C
	}

	l.logger.Info("loop started",
		slog.String("flush_policy", l.flushPolicy.String()),
		slog.Duration("tick_rate", l.tickRate))

	l.running = true
	l.dirty = true
	l.render()
	for l.running {
		var msg Message
		select {
		case <-ctx.Done():
			l.running = false
			return ctx.Err()
		case msg = <-l.messages:
		case now := <-ticks:
			msg = TickMsg{Time: now}
		}

		if l.handle(msg) {
			l.dirty = true
		}
		if !l.running {
			break
		}
		if shouldFlushQueue(l.flushPolicy, msg) && l.queueScheduler.flush() > 0 {
			l.dirty = true
		}
		if _, ok := msg.(InvalidateMsg); ok {
			l.invalidator.resetPending()
		}
		l.render()
	}
	l.logger.Info("loop stopped", slog.Int("frames", l.frames))
	return nil
}

func (l *Loop) handle(msg Message) bool {
	switch m := msg.(type) {
	case ActionMsg:
		err := l.store.Dispatch(m.Action)
		if errors.Is(err, grid.ErrOutOfRange) {
			l.logger.Warn("dropped action", slog.String("error", err.Error()))
			return false
		}
		return err == nil
	case QuitMsg:
		l.running = false
		return false
	case RefreshMsg:
		if r, ok := l.root.(Refresher); ok {
			r.ForceRefresh()
		}
		return true
	case InvalidateMsg:
		return true
	case QueueFlushMsg, TickMsg:
		return false
	default:
		if l.update != nil {
			return l.update(l, msg)
		}
		return false
	}
}

func (l *Loop) render() {
	if !l.dirty {
		return
	}
	l.dirty = false
	if l.root == nil || l.surface == nil {
		return
	}
	l.root.Render(l.surface)
	if s, ok := l.surface.(Shower); ok {
		s.Show()
	}
	l.frames++
}
