package node

// WidgetBase is embedded by overlay-only nodes. Containers skip widgets
// when drawing; overlay.Compositor draws them after the main tree. Widgets
// still update and receive routed input like any other child.
type WidgetBase struct {
	Base
}

func (*WidgetBase) widget() {}
