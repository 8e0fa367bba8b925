package overlay

import (
	"testing"

	"github.com/go-drift/stage/pkg/node"
)

type badge struct {
	node.WidgetBase
	name string
	log  *[]string
	hook func()
}

func (b *badge) Draw(node.Surface) {
	*b.log = append(*b.log, b.name)
	if b.hook != nil {
		b.hook()
	}
}

func (b *badge) Update() { *b.log = append(*b.log, "update "+b.name) }

func newBadge(log *[]string, name string) *badge {
	return &badge{name: name, log: log}
}

func assertLog(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("log = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("log = %v, want %v", got, want)
		}
	}
}

func TestCompositorDrawsTreeWidgetsInOrder(t *testing.T) {
	var log []string
	inner := node.NewContainer(newBadge(&log, "b"), &node.Box{})
	root := node.NewContainer(newBadge(&log, "a"), inner, newBadge(&log, "c"))

	root.Draw(nil)
	assertLog(t, log)

	var c Compositor
	c.Draw(root, nil)
	assertLog(t, log, "a", "b", "c")
}

func TestCompositorSkipsHiddenSubtrees(t *testing.T) {
	var log []string
	hidden := newBadge(&log, "hidden")
	hidden.SetVisible(false)
	inner := node.NewContainer(newBadge(&log, "inner"))
	inner.SetEnabled(false)
	root := node.NewContainer(hidden, inner, newBadge(&log, "shown"))

	var c Compositor
	c.Draw(root, nil)
	assertLog(t, log, "shown")
}

func TestCompositorEntriesDrawAboveTree(t *testing.T) {
	var log []string
	root := node.NewContainer(newBadge(&log, "tree"))

	var c Compositor
	top := NewEntry(newBadge(&log, "top"))
	bottom := NewEntry(newBadge(&log, "bottom"))
	c.Insert(top, nil, nil)
	c.Insert(bottom, top, nil)
	mid := NewEntry(newBadge(&log, "mid"))
	c.Insert(mid, nil, bottom)

	c.Draw(root, nil)
	assertLog(t, log, "tree", "bottom", "mid", "top")
	if top.ID() == 0 || top.ID() == mid.ID() {
		t.Errorf("entry ids not unique: %d %d", top.ID(), mid.ID())
	}
}

func TestCompositorInsertAllStacksInOrder(t *testing.T) {
	var log []string
	var c Compositor
	c.InsertAll([]*Entry{
		NewEntry(newBadge(&log, "1")),
		NewEntry(newBadge(&log, "2")),
		NewEntry(newBadge(&log, "3")),
	}, nil, nil)

	c.Draw(nil, nil)
	assertLog(t, log, "1", "2", "3")
}

func TestCompositorRemoveDuringDrawIsDeferred(t *testing.T) {
	var log []string
	var c Compositor
	second := NewEntry(newBadge(&log, "second"))
	first := newBadge(&log, "first")
	first.hook = func() { second.Remove() }
	c.Insert(NewEntry(first), nil, nil)
	c.Insert(second, nil, nil)

	c.Draw(nil, nil)
	assertLog(t, log, "first", "second")
	if second.Inserted() || len(c.Entries()) != 1 {
		t.Fatalf("second still inserted after the pass")
	}

	log = nil
	first.hook = nil
	c.Draw(nil, nil)
	assertLog(t, log, "first")
}

func TestCompositorInsertThenRemoveWhileDrawing(t *testing.T) {
	var log []string
	var c Compositor
	late := NewEntry(newBadge(&log, "late"))
	host := newBadge(&log, "host")
	host.hook = func() {
		c.Insert(late, nil, nil)
		late.Remove()
	}
	c.Insert(NewEntry(host), nil, nil)

	c.Draw(nil, nil)
	if len(c.Entries()) != 1 || late.Inserted() {
		t.Errorf("entries = %d, late inserted %v", len(c.Entries()), late.Inserted())
	}
}

func TestCompositorInsertTwicePanics(t *testing.T) {
	var c Compositor
	e := NewEntry(nil)
	c.Insert(e, nil, nil)
	defer func() {
		if recover() == nil {
			t.Error("second Insert did not panic")
		}
	}()
	c.Insert(e, nil, nil)
}

func TestCompositorRearrange(t *testing.T) {
	var log []string
	var c Compositor
	a := NewEntry(newBadge(&log, "a"))
	b := NewEntry(newBadge(&log, "b"))
	c.InsertAll([]*Entry{a, b}, nil, nil)

	c.Rearrange([]*Entry{b})
	if a.Inserted() {
		t.Error("a still inserted")
	}
	c.Draw(nil, nil)
	assertLog(t, log, "b")
}

func TestCompositorUpdatesEntries(t *testing.T) {
	var log []string
	var c Compositor
	c.Insert(NewEntry(newBadge(&log, "hud")), nil, nil)
	c.Update()
	assertLog(t, log, "update hud")
}
