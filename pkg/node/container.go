package node

import (
	"image/color"
	"reflect"
	"slices"

	"github.com/go-drift/stage/pkg/deps"
	"github.com/go-drift/stage/pkg/errors"
	"github.com/go-drift/stage/pkg/geometry"
)

// Container is a node that owns an ordered sequence of children and a
// decoration box. Insertion order is draw order; the last child is topmost.
// The zero value is an empty, unloaded container.
type Container struct {
	Base

	slots []Node // nil entries are removed children awaiting compaction
	count int
	walks int
	dirty bool

	decoration *Box
	fill       bool
	exclusive  bool
}

// NewContainer returns a container holding children in order.
func NewContainer(children ...Node) *Container {
	c := &Container{}
	c.AddAll(children...)
	return c
}

// IgnoreHierarchy reports whether the container receives events regardless
// of its siblings. Containers pass events through by default.
func (c *Container) IgnoreHierarchy() bool { return !c.exclusive }

// SetIgnoreHierarchy makes the container take part in topmost-wins routing
// among its siblings when v is false.
func (c *Container) SetIgnoreHierarchy(v bool) { c.exclusive = !v }

// Decoration returns the box drawn behind the children when Fill is set.
func (c *Container) Decoration() *Box {
	if c.decoration == nil {
		c.decoration = &Box{}
		c.decoration.SetPosition(c.Position())
		c.decoration.SetSize(c.Size())
		c.decoration.SetDependencies(c.deps)
	}
	return c.decoration
}

// Fill reports whether the decoration is drawn.
func (c *Container) Fill() bool { return c.fill }

// SetFill toggles drawing of the decoration.
func (c *Container) SetFill(v bool) { c.fill = v }

// SetColour sets the decoration colour and enables Fill.
func (c *Container) SetColour(col color.Color) {
	c.Decoration().Colour = col
	c.fill = true
}

func (c *Container) SetPosition(p geometry.Vec2) {
	c.Base.SetPosition(p)
	c.Decoration().SetPosition(p)
}

func (c *Container) SetSize(s geometry.Vec2) {
	c.Base.SetSize(s)
	c.Decoration().SetSize(s)
}

// The component setters go through SetPosition and SetSize so the
// decoration follows.
func (c *Container) SetX(x float32)      { c.SetPosition(geometry.V(x, c.Y())) }
func (c *Container) SetY(y float32)      { c.SetPosition(geometry.V(c.X(), y)) }
func (c *Container) SetWidth(w float32)  { c.SetSize(geometry.V(w, c.Height())) }
func (c *Container) SetHeight(h float32) { c.SetSize(geometry.V(c.Width(), h)) }

// SetDependencies sets the registry of the container and, recursively, of
// every child attached now.
func (c *Container) SetDependencies(r deps.Registry) {
	c.Base.SetDependencies(r)
	c.Decoration().SetDependencies(r)
	for _, n := range c.slots {
		if n != nil {
			n.SetDependencies(r)
		}
	}
}

// Len returns the number of children.
func (c *Container) Len() int { return c.count }

// Children returns the children in insertion order.
func (c *Container) Children() []Node {
	out := make([]Node, 0, c.count)
	for _, n := range c.slots {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Contains reports whether n is a child of c.
func (c *Container) Contains(n Node) bool {
	if isNil(n) {
		return false
	}
	return c.indexOf(n) >= 0
}

// Add appends n as the topmost child. Nil and disposed nodes are ignored.
// A node already in c is moved to the top without being reloaded, and a node
// owned by another container is moved. If c has loaded, n is loaded and
// completed before Add returns.
//
// Add panics if n is c or one of its ancestors.
func (c *Container) Add(n Node) {
	if isNil(n) {
		return
	}
	b := n.base()
	if b.parent == c {
		if i := c.indexOf(n); i >= 0 && i != c.topIndex() {
			c.detach(i)
			c.slots = append(c.slots, n)
			c.count++
			b.parent = c
		}
		return
	}
	for p := c; p != nil; p = p.parent {
		if &p.Base == b {
			panic("node: cannot add a container to itself or its descendants")
		}
	}
	if b.state == Disposed || c.state == Disposed {
		errors.Report(errors.Lifecycle("node.Add", b.label(), Disposed.String(), Loaded.String()))
		return
	}
	if b.parent != nil {
		b.parent.Remove(n)
	}

	c.slots = append(c.slots, n)
	c.count++
	b.parent = c
	if c.deps != nil {
		n.SetDependencies(c.deps)
	}
	if c.state >= Loaded {
		load(n, c.deps)
		complete(n)
	}
}

// AddAll adds nodes in order.
func (c *Container) AddAll(nodes ...Node) {
	for _, n := range nodes {
		c.Add(n)
	}
}

// Remove detaches n from c and reports whether it was a child. The node is
// not disposed.
func (c *Container) Remove(n Node) bool {
	if isNil(n) {
		return false
	}
	i := c.indexOf(n)
	if i < 0 {
		return false
	}
	c.detach(i)
	return true
}

// RemoveAndDispose removes n and disposes it.
func (c *Container) RemoveAndDispose(n Node) bool {
	if !c.Remove(n) {
		return false
	}
	dispose(n)
	return true
}

// Clear detaches every child.
func (c *Container) Clear() {
	for i, n := range c.slots {
		if n != nil {
			n.base().parent = nil
			c.slots[i] = nil
		}
	}
	c.count = 0
	if c.walks > 0 {
		c.dirty = true
		return
	}
	c.slots = nil
}

// Load loads the decoration and then every child in insertion order, each
// exactly once. A nil registry keeps the one already set. Calling Load again
// does nothing.
func (c *Container) Load(r deps.Registry) {
	switch c.state {
	case Unloaded:
	case Disposed:
		errors.Report(errors.Lifecycle("node.Load", c.label(), c.state.String(), Loaded.String()))
		return
	default:
		return
	}
	c.state = Loading
	if r != nil {
		c.SetDependencies(r)
	}
	r = c.deps

	c.walks++
	defer c.endWalk()
	load(c.Decoration(), r)
	// Children added by a sibling's Load are loaded here too.
	for i := 0; i < len(c.slots); i++ {
		if n := c.slots[i]; n != nil {
			load(n, r)
		}
	}
	if c.state == Loading {
		c.state = Loaded
	}
}

// LoadComplete completes the container and then its subtree, depth-first.
func (c *Container) LoadComplete() {
	if c.state != Loaded {
		if c.state == Unloaded || c.state == Disposed {
			errors.Report(errors.Lifecycle("node.LoadComplete", c.label(), c.state.String(), LoadComplete.String()))
		}
		return
	}
	c.state = LoadComplete

	c.walks++
	defer c.endWalk()
	complete(c.Decoration())
	for i := 0; i < len(c.slots); i++ {
		if n := c.slots[i]; n != nil {
			complete(n)
		}
	}
}

// Update updates every enabled child in order. A disabled container
// updates nothing.
func (c *Container) Update() {
	if !c.Enabled() || c.state == Disposed {
		return
	}
	c.each(func(n Node) {
		if u, ok := n.(Updater); ok && n.Enabled() {
			u.Update()
		}
	})
}

// Draw draws the decoration when Fill is set, then every visible, enabled
// child in order. Widgets are left to the overlay.
func (c *Container) Draw(s Surface) {
	if !c.Visible() || !c.Enabled() || c.state == Disposed {
		return
	}
	if c.fill {
		c.Decoration().Draw(s)
	}
	c.each(func(n Node) {
		if !n.Visible() || !n.Enabled() || IsWidget(n) {
			return
		}
		if d, ok := n.(Drawer); ok {
			d.Draw(s)
		}
	})
}

// Dispose disposes the decoration and the children depth-first, detaches
// them and marks the container disposed.
func (c *Container) Dispose() {
	if c.state == Disposed {
		return
	}
	if c.decoration != nil {
		dispose(c.decoration)
	}
	c.each(dispose)
	c.Clear()
	c.state = Disposed
}

// each calls fn for every live child present when the walk starts.
func (c *Container) each(fn func(Node)) {
	c.walks++
	defer c.endWalk()
	end := len(c.slots)
	for i := 0; i < end; i++ {
		if n := c.slots[i]; live(n) {
			fn(n)
		}
	}
}

func (c *Container) endWalk() {
	c.walks--
	if c.walks == 0 && c.dirty {
		c.slots = slices.DeleteFunc(c.slots, func(n Node) bool { return n == nil })
		c.dirty = false
	}
}

func (c *Container) indexOf(n Node) int {
	b := n.base()
	if b.parent != c {
		return -1
	}
	for i, s := range c.slots {
		if s != nil && s.base() == b {
			return i
		}
	}
	return -1
}

// topIndex returns the slot of the topmost child, or -1.
func (c *Container) topIndex() int {
	for i := len(c.slots) - 1; i >= 0; i-- {
		if c.slots[i] != nil {
			return i
		}
	}
	return -1
}

func (c *Container) detach(i int) {
	c.slots[i].base().parent = nil
	c.count--
	if c.walks > 0 {
		c.slots[i] = nil
		c.dirty = true
		return
	}
	c.slots = slices.Delete(c.slots, i, i+1)
}

func load(n Node, r deps.Registry) {
	b := n.base()
	if b.state != Unloaded {
		return
	}
	n.Load(r)
	if b.state < Loaded {
		b.state = Loaded
	}
}

func complete(n Node) {
	b := n.base()
	if b.state != Loaded {
		return
	}
	n.LoadComplete()
	if b.state == Loaded {
		b.state = LoadComplete
	}
}

func dispose(n Node) {
	b := n.base()
	if b.state == Disposed {
		return
	}
	n.Dispose()
	b.state = Disposed
}

func live(n Node) bool {
	return n != nil && n.base().state != Disposed
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
