package runtime

import "testing"

type lifecycleWidget struct {
	name     string
	children []Widget
	log      *[]string
}

func (w *lifecycleWidget) Render(Surface) {}

func (w *lifecycleWidget) ChildWidgets() []Widget {
	return w.children
}

func (w *lifecycleWidget) Mount() {
	*w.log = append(*w.log, "mount "+w.name)
}

func (w *lifecycleWidget) Unmount() {
	*w.log = append(*w.log, "unmount "+w.name)
}

type plainWidget struct{}

func (plainWidget) Render(Surface) {}

func TestMountTree_Order(t *testing.T) {
	var log []string
	leaf := &lifecycleWidget{name: "leaf", log: &log}
	child := &lifecycleWidget{name: "child", log: &log, children: []Widget{leaf}}
	root := &lifecycleWidget{name: "root", log: &log, children: []Widget{child, plainWidget{}, nil}}

	MountTree(root)
	UnmountTree(root)

	want := []string{
		"mount root", "mount child", "mount leaf",
		"unmount leaf", "unmount child", "unmount root",
	}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, log)
		}
	}
}

func TestMountTree_Nil(t *testing.T) {
	MountTree(nil)
	UnmountTree(nil)
}
