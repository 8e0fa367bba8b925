package node

import (
	"github.com/google/uuid"

	"github.com/go-drift/stage/pkg/deps"
	"github.com/go-drift/stage/pkg/errors"
	"github.com/go-drift/stage/pkg/geometry"
)

// DefaultSize is the size of a freshly created node.
var DefaultSize = geometry.V(100, 100)

// Base holds the state shared by every node. The zero value is ready to use
// with DefaultSize, visible and enabled.
type Base struct {
	id   uuid.UUID
	name string

	position geometry.Vec2
	origin   geometry.Vec2
	size     geometry.Vec2
	sized    bool
	rotation float32

	hidden          bool
	disabled        bool
	ignoreHierarchy bool

	state  State
	deps   deps.Registry
	parent *Container
}

func (b *Base) base() *Base { return b }

// ID returns the node's identity, generated on first use.
func (b *Base) ID() uuid.UUID {
	if b.id == uuid.Nil {
		b.id = uuid.New()
	}
	return b.id
}

// Name returns the debug name set with SetName.
func (b *Base) Name() string { return b.name }

// SetName sets the name shown by debug tooling.
func (b *Base) SetName(name string) { b.name = name }

func (b *Base) Position() geometry.Vec2     { return b.position }
func (b *Base) SetPosition(p geometry.Vec2) { b.position = p }
func (b *Base) Origin() geometry.Vec2       { return b.origin }
func (b *Base) SetOrigin(o geometry.Vec2)   { b.origin = o }
func (b *Base) Rotation() float32           { return b.rotation }
func (b *Base) SetRotation(r float32)       { b.rotation = r }

func (b *Base) Size() geometry.Vec2 {
	if !b.sized {
		return DefaultSize
	}
	return b.size
}

func (b *Base) SetSize(s geometry.Vec2) {
	b.size = s
	b.sized = true
}

// X, Y, Width and Height are component shorthands over Position and Size.
func (b *Base) X() float32      { return b.position[0] }
func (b *Base) Y() float32      { return b.position[1] }
func (b *Base) Width() float32  { return b.Size()[0] }
func (b *Base) Height() float32 { return b.Size()[1] }

func (b *Base) SetX(x float32)      { b.SetPosition(geometry.V(x, b.Y())) }
func (b *Base) SetY(y float32)      { b.SetPosition(geometry.V(b.X(), y)) }
func (b *Base) SetWidth(w float32)  { b.SetSize(geometry.V(w, b.Height())) }
func (b *Base) SetHeight(h float32) { b.SetSize(geometry.V(b.Width(), h)) }

// Bounds returns the axis-aligned rectangle covered by the node, with the
// origin subtracted from the position. Rotation is ignored.
func (b *Base) Bounds() geometry.Rect {
	return geometry.RectFromPosSize(geometry.Sub(b.position, b.origin), b.Size())
}

// Transform returns the node's local transform.
func (b *Base) Transform() geometry.Mat3 {
	return geometry.Transform(b.position, b.origin, b.rotation)
}

func (b *Base) Visible() bool     { return !b.hidden }
func (b *Base) SetVisible(v bool) { b.hidden = !v }
func (b *Base) Enabled() bool     { return !b.disabled }
func (b *Base) SetEnabled(v bool) { b.disabled = !v }

// IgnoreHierarchy reports whether the node receives routed events
// regardless of the topmost-wins rule.
func (b *Base) IgnoreHierarchy() bool { return b.ignoreHierarchy }

// SetIgnoreHierarchy sets the overlay routing flag.
func (b *Base) SetIgnoreHierarchy(v bool) { b.ignoreHierarchy = v }

// State returns the lifecycle state.
func (b *Base) State() State { return b.state }

// Loaded reports whether Load has run and the node is not disposed.
func (b *Base) Loaded() bool {
	return b.state >= Loaded && b.state != Disposed
}

// Dependencies returns the registry in effect for this node.
func (b *Base) Dependencies() deps.Registry { return b.deps }

// SetDependencies replaces the node's registry.
func (b *Base) SetDependencies(r deps.Registry) { b.deps = r }

// Parent returns the owning container, or nil when detached.
func (b *Base) Parent() *Container { return b.parent }

// Load marks the node loaded. Nodes overriding Load should call it.
func (b *Base) Load(r deps.Registry) {
	if b.deps == nil {
		b.deps = r
	}
	b.advance("load", Loaded)
}

// LoadComplete marks the node complete. Nodes overriding it should call it.
func (b *Base) LoadComplete() {
	if b.state == Unloaded {
		errors.Report(errors.Lifecycle("node.LoadComplete", b.label(), b.state.String(), LoadComplete.String()))
		return
	}
	b.advance("load-complete", LoadComplete)
}

// Dispose marks the node disposed.
func (b *Base) Dispose() {
	b.state = Disposed
}

// advance moves the state forward. Moving backwards is ignored; any move out
// of Disposed is reported.
func (b *Base) advance(op string, to State) bool {
	if b.state == Disposed {
		errors.Report(errors.Lifecycle("node."+op, b.label(), b.state.String(), to.String()))
		return false
	}
	if to <= b.state {
		return false
	}
	b.state = to
	return true
}

func (b *Base) label() string {
	if b.name != "" {
		return b.name
	}
	return b.ID().String()
}
