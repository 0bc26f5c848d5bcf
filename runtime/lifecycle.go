package runtime

// Lifecycle is implemented by widgets that subscribe while mounted.
// Mount moves a view from unsubscribed to subscribed and Unmount moves it
// back; both must tolerate repeated calls.
type Lifecycle interface {
	Mount()
	Unmount()
}

// MountTree mounts root, then its children depth first.
func MountTree(root Widget) {
	walk(root, func(w Widget) {
		if l, ok := w.(Lifecycle); ok {
			l.Mount()
		}
	}, nil)
}

// UnmountTree unmounts children before their parent.
func UnmountTree(root Widget) {
	walk(root, nil, func(w Widget) {
		if l, ok := w.(Lifecycle); ok {
			l.Unmount()
		}
	})
}

func walk(w Widget, pre, post func(Widget)) {
	if w == nil {
		return
	}
	if pre != nil {
		pre(w)
	}
	if children, ok := w.(ChildProvider); ok {
		for _, child := range children.ChildWidgets() {
			walk(child, pre, post)
		}
	}
	if post != nil {
		post(w)
	}
}
