package widgets

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/furry-grid/grid"
	"github.com/odvcencio/furry-grid/runtime"
	"github.com/odvcencio/furry-grid/state"
	"github.com/odvcencio/furry-grid/store"
	"github.com/odvcencio/furry-grid/watch"
)

// cellProps are the inputs of a cell label besides the value.
type cellProps struct {
	coord grid.Coord
	width int
}

type cellLabel struct {
	text  string
	style runtime.Style
}

// buildLabel formats value as a whole number right-aligned in width-1
// columns, leaving one column of spacing. Values above half the range are
// drawn reversed.
func buildLabel(value float64, props cellProps) cellLabel {
	text := fmt.Sprintf("%d", int(math.Floor(value)))
	if w := props.width - 1; w > 0 {
		text = runewidth.FillLeft(truncateString(text, w), w) + " "
	} else {
		text = truncateString(text, props.width)
	}
	return cellLabel{
		text:  text,
		style: runtime.Style{Reverse: value > grid.MaxValue/2},
	}
}

// CellView observes one grid coordinate. While mounted it holds a store
// subscription scoped to its row, so only dispatches that replace that row
// re-evaluate it, and it redraws only when its value changed.
type CellView struct {
	Base
	store     *store.Store
	coord     grid.Coord
	id        string
	scheduler state.Scheduler
	logger    *slog.Logger
	label     *state.Memo[float64, cellProps, cellLabel]
	subs      state.Subscriptions
	value     float64
	mounted   bool
	err       error
}

// CellOption configures a CellView.
type CellOption func(*CellView)

// WithCellScheduler routes value notifications through scheduler.
func WithCellScheduler(scheduler state.Scheduler) CellOption {
	return func(c *CellView) {
		c.scheduler = scheduler
	}
}

// WithCellLogger sets the logger used to report subscription failures.
func WithCellLogger(logger *slog.Logger) CellOption {
	return func(c *CellView) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCellID overrides the observer identity. The default is derived from
// the coordinate, so two views of the same cell in one store need distinct
// identities.
func WithCellID(id string) CellOption {
	return func(c *CellView) {
		c.id = id
	}
}

// NewCellView creates an unmounted view of coord.
func NewCellView(s *store.Store, coord grid.Coord, opts ...CellOption) *CellView {
	c := &CellView{
		store:  s,
		coord:  coord,
		id:     fmt.Sprintf("cell/%d/%d", coord.Row, coord.Column),
		logger: slog.New(slog.DiscardHandler),
		label:  state.MemoComparable(buildLabel),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Coord returns the observed coordinate.
func (c *CellView) Coord() grid.Coord {
	return c.coord
}

// ID returns the observer identity.
func (c *CellView) ID() string {
	return c.id
}

// Value returns the last value delivered to the view.
func (c *CellView) Value() float64 {
	return c.value
}

// Mounted reports whether the view holds a live subscription.
func (c *CellView) Mounted() bool {
	return c.mounted
}

// Err returns the error from the last Mount, if subscribing failed.
func (c *CellView) Err() error {
	return c.err
}

// Label returns the current label text.
func (c *CellView) Label() string {
	return c.label.Call(c.value, c.props()).text
}

// Renders returns how many times the label was actually built.
func (c *CellView) Renders() int {
	return c.label.Calls()
}

// Mount subscribes to the cell. Mounting a mounted view is a no-op.
func (c *CellView) Mount() {
	if c.mounted || c.store == nil {
		return
	}
	sub, err := store.SubscribeCell(c.store, c.id, c.coord, c.onValue, watch.WithScheduler(c.scheduler))
	c.err = err
	if err != nil {
		c.logger.Warn("cell subscribe failed",
			slog.String("id", c.id),
			slog.String("error", err.Error()))
		return
	}
	c.subs.Add(sub.Unsubscribe)
	c.mounted = true
	c.value = sub.Initial()
	c.Invalidate()
}

// Unmount drops the subscription. Unmounting an unmounted view is a no-op.
func (c *CellView) Unmount() {
	if !c.mounted {
		return
	}
	c.mounted = false
	c.subs.Clear()
}

// Render draws the label when the view is invalidated.
func (c *CellView) Render(surface runtime.Surface) {
	if !c.NeedsRender() {
		return
	}
	c.ClearInvalidation()
	b := c.bounds
	if b.Width == 0 || b.Height == 0 {
		return
	}
	label := c.label.Call(c.value, c.props())
	writePadded(surface, b.X, b.Y, b.Width, label.text, AlignLeft, label.style)
}

func (c *CellView) onValue(v float64) {
	if !c.mounted {
		return
	}
	c.value = v
	c.Invalidate()
}

func (c *CellView) props() cellProps {
	return cellProps{coord: c.coord, width: c.bounds.Width}
}
