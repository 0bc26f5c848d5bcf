package runtime

// Style is the subset of terminal attributes views use.
type Style struct {
	Bold    bool
	Reverse bool
	Dim     bool
}

// Surface is a character grid views draw on.
type Surface interface {
	SetString(x, y int, s string, style Style)
}

// Shower is implemented by surfaces that buffer output until Show.
type Shower interface {
	Show()
}

// Widget is a renderable view.
type Widget interface {
	Render(surface Surface)
}

// ChildProvider exposes child widgets for lifecycle traversal.
type ChildProvider interface {
	ChildWidgets() []Widget
}

// Refresher is implemented by widgets that can redraw everything on demand.
type Refresher interface {
	ForceRefresh()
}
