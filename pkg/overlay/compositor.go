// Package overlay draws widget-kind nodes above the main tree.
//
// Containers never draw widgets. After the root has drawn, the Compositor
// walks the tree and draws every reachable widget in tree order, followed by
// the free-floating entries inserted on its stack.
package overlay

import (
	"sync/atomic"

	"github.com/go-drift/stage/pkg/node"
)

// Compositor draws widgets after the main tree. The zero value is ready to
// use.
type Compositor struct {
	entries    []*Entry
	drawing    bool
	pendingOps []func()
}

// Draw draws the widgets reachable from root through visible, enabled
// containers, then the entry stack bottom to top. Entries inserted or
// removed by a widget's Draw take effect after the pass.
func (c *Compositor) Draw(root node.Node, s node.Surface) {
	c.drawing = true
	if root != nil {
		for _, w := range Widgets(root) {
			draw(w, s)
		}
	}
	for _, e := range c.entries {
		if e.Widget != nil {
			draw(e.Widget, s)
		}
	}
	c.drawing = false
	c.flush()
}

// Update updates the entry widgets. Widgets inside the tree are updated by
// their containers.
func (c *Compositor) Update() {
	c.drawing = true
	for _, e := range c.entries {
		if e.Widget == nil || !e.Widget.Enabled() {
			continue
		}
		if u, ok := e.Widget.(node.Updater); ok {
			u.Update()
		}
	}
	c.drawing = false
	c.flush()
}

// Widgets returns the visible, enabled widgets reachable from root in tree
// order. Hidden or disabled containers hide their whole subtree.
func Widgets(root node.Node) []node.Widget {
	var out []node.Widget
	var walk func(n node.Node)
	walk = func(n node.Node) {
		if !n.Visible() || !n.Enabled() || n.State() == node.Disposed {
			return
		}
		if w, ok := n.(node.Widget); ok {
			out = append(out, w)
		}
		if g, ok := n.(interface{ Children() []node.Node }); ok {
			for _, child := range g.Children() {
				walk(child)
			}
		}
	}
	walk(root)
	return out
}

func draw(w node.Widget, s node.Surface) {
	if !w.Visible() || !w.Enabled() {
		return
	}
	if d, ok := w.(node.Drawer); ok {
		d.Draw(s)
	}
}

// Entries returns the entry stack, bottom first.
func (c *Compositor) Entries() []*Entry {
	return append([]*Entry(nil), c.entries...)
}

// Insert adds entry to the stack. At most one of below and above may be
// non-nil: the entry goes just below or just above that entry, or on top
// when both are nil or the reference is not on the stack.
// Panics if both are given or the entry is already inserted.
func (c *Compositor) Insert(entry *Entry, below, above *Entry) {
	if below != nil && above != nil {
		panic("overlay: both below and above specified")
	}
	if entry.compositor != nil {
		panic("overlay: entry already inserted")
	}
	entry.compositor = c
	if entry.id == 0 {
		entry.id = atomic.AddUint64(&nextEntryID, 1)
	}
	c.run(func() {
		if entry.compositor != c {
			return
		}
		c.insert(entry, below, above)
	})
}

// InsertAll inserts entries in order, each above the previous one.
func (c *Compositor) InsertAll(entries []*Entry, below, above *Entry) {
	for _, entry := range entries {
		c.Insert(entry, below, above)
		below, above = nil, entry
	}
}

// Rearrange replaces the stack with entries. Entries left out are removed.
func (c *Compositor) Rearrange(entries []*Entry) {
	keep := make(map[*Entry]bool, len(entries))
	for _, e := range entries {
		keep[e] = true
	}
	for _, e := range c.entries {
		if !keep[e] {
			e.compositor = nil
		}
	}
	for _, e := range entries {
		e.compositor = c
		if e.id == 0 {
			e.id = atomic.AddUint64(&nextEntryID, 1)
		}
	}
	next := append([]*Entry(nil), entries...)
	c.run(func() { c.entries = next })
}

func (c *Compositor) insert(entry *Entry, below, above *Entry) {
	at := len(c.entries)
	for i, e := range c.entries {
		if below != nil && e == below {
			at = i
			break
		}
		if above != nil && e == above {
			at = i + 1
			break
		}
	}
	c.entries = append(c.entries, nil)
	copy(c.entries[at+1:], c.entries[at:])
	c.entries[at] = entry
}

func (c *Compositor) remove(entry *Entry) {
	if entry.compositor != c {
		return
	}
	entry.compositor = nil
	c.run(func() {
		for i, e := range c.entries {
			if e == entry {
				c.entries = append(c.entries[:i], c.entries[i+1:]...)
				return
			}
		}
	})
}

// run applies op now, or after the current pass.
func (c *Compositor) run(op func()) {
	if c.drawing {
		c.pendingOps = append(c.pendingOps, op)
		return
	}
	op()
}

func (c *Compositor) flush() {
	for len(c.pendingOps) > 0 {
		ops := c.pendingOps
		c.pendingOps = nil
		for _, op := range ops {
			op()
		}
	}
}
