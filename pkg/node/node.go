package node

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/go-drift/stage/pkg/deps"
	"github.com/go-drift/stage/pkg/geometry"
	"github.com/go-drift/stage/pkg/input"
)

// Surface is the opaque draw target handed from the host to every Draw
// call. The tree never inspects it; leaves may type-assert the capabilities
// they need, such as RectFiller.
type Surface any

// State is a node's position in its lifecycle.
type State int

const (
	// Unloaded nodes have been created but not loaded.
	Unloaded State = iota
	// Loading is held by a container while its subtree loads.
	Loading
	// Loaded nodes have run Load.
	Loaded
	// LoadComplete nodes have run LoadComplete after their whole subtree loaded.
	LoadComplete
	// Disposed nodes have been torn down and are never loaded again.
	Disposed
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case LoadComplete:
		return "load-complete"
	case Disposed:
		return "disposed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Node is the contract every tree member satisfies. It is sealed: embed
// Base (or Container, Box, WidgetBase) to implement it.
type Node interface {
	ID() uuid.UUID
	Name() string

	Position() geometry.Vec2
	SetPosition(geometry.Vec2)
	Origin() geometry.Vec2
	SetOrigin(geometry.Vec2)
	Size() geometry.Vec2
	SetSize(geometry.Vec2)
	Rotation() float32
	SetRotation(float32)
	Bounds() geometry.Rect

	Visible() bool
	SetVisible(bool)
	Enabled() bool
	SetEnabled(bool)
	IgnoreHierarchy() bool

	State() State
	Loaded() bool
	Dependencies() deps.Registry
	SetDependencies(deps.Registry)
	Parent() *Container

	// Load runs once when the node joins a loaded tree or its container loads.
	Load(deps.Registry)
	// LoadComplete runs once after the whole subtree has loaded.
	LoadComplete()
	// Dispose tears the node down. It is terminal.
	Dispose()

	base() *Base
}

// Updater is implemented by nodes that run per-frame logic.
type Updater interface {
	Update()
}

// Drawer is implemented by nodes that draw.
type Drawer interface {
	Draw(s Surface)
}

// Listener is the routing view of a node: whether it may receive events and
// whether it skips the topmost-wins rule.
type Listener interface {
	Enabled() bool
	IgnoreHierarchy() bool
}

// KeyListener receives key events routed by its container.
type KeyListener interface {
	Node
	KeyDown(e input.KeyEvent)
	KeyUp(e input.KeyEvent)
}

// MouseListener receives mouse events routed by its container.
type MouseListener interface {
	Node
	MouseDown(e input.MouseEvent)
	MouseUp(e input.MouseEvent)
	MouseMotion(e input.MouseEvent)
}

// Widget marks overlay-only nodes. Containers skip widgets when drawing;
// the overlay compositor draws them after the main tree.
type Widget interface {
	Node
	widget()
}

// IsWidget reports whether n is a widget-kind node.
func IsWidget(n Node) bool {
	_, ok := n.(Widget)
	return ok
}
