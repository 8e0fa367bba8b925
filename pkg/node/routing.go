package node

import "github.com/go-drift/stage/pkg/input"

func (c *Container) KeyDown(e input.KeyEvent) {
	route(c, func(l KeyListener) { l.KeyDown(e) })
}

func (c *Container) KeyUp(e input.KeyEvent) {
	route(c, func(l KeyListener) { l.KeyUp(e) })
}

func (c *Container) MouseDown(e input.MouseEvent) {
	route(c, func(l MouseListener) { l.MouseDown(e) })
}

func (c *Container) MouseUp(e input.MouseEvent) {
	route(c, func(l MouseListener) { l.MouseUp(e) })
}

func (c *Container) MouseMotion(e input.MouseEvent) {
	route(c, func(l MouseListener) { l.MouseMotion(e) })
}

// Dispatch delivers a host event to the matching routing method of c.
func (c *Container) Dispatch(e input.Event) {
	switch e.Kind {
	case input.KindKeyDown:
		c.KeyDown(e.Key)
	case input.KindKeyUp:
		c.KeyUp(e.Key)
	case input.KindMouseDown:
		c.MouseDown(e.Mouse)
	case input.KindMouseUp:
		c.MouseUp(e.Mouse)
	case input.KindMouseMotion:
		c.MouseMotion(e.Mouse)
	}
}

// route picks the eligible children for one event before delivering to any
// of them, then delivers in insertion order. Children removed by an earlier
// recipient are skipped.
func route[L Listener](c *Container, deliver func(L)) {
	if !c.Enabled() || c.state == Disposed {
		return
	}
	c.walks++
	defer c.endWalk()
	for _, i := range eligible[L](c.slots) {
		n := c.slots[i]
		if !live(n) {
			continue
		}
		deliver(n.(L))
	}
}

// eligible returns the slot indices that receive an event of listener kind
// L: every enabled listener that ignores the hierarchy, plus the topmost
// enabled listener that does not.
func eligible[L Listener](slots []Node) []int {
	top := -1
	for i := len(slots) - 1; i >= 0; i-- {
		if l, ok := listener[L](slots[i]); ok && !l.IgnoreHierarchy() {
			top = i
			break
		}
	}
	var out []int
	for i, n := range slots {
		l, ok := listener[L](n)
		if !ok {
			continue
		}
		if i == top || l.IgnoreHierarchy() {
			out = append(out, i)
		}
	}
	return out
}

func listener[L Listener](n Node) (L, bool) {
	var zero L
	if !live(n) {
		return zero, false
	}
	l, ok := n.(L)
	if !ok || !l.Enabled() {
		return zero, false
	}
	return l, true
}
