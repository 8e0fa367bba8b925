package node

import "github.com/go-drift/stage/pkg/input"

// Func is a leaf whose update and draw behaviour is supplied as callbacks.
type Func struct {
	Base
	OnUpdate func()
	OnDraw   func(s Surface)
}

func (f *Func) Update() {
	if f.OnUpdate != nil {
		f.OnUpdate()
	}
}

func (f *Func) Draw(s Surface) {
	if f.OnDraw != nil {
		f.OnDraw(s)
	}
}

// KeyArea is a leaf key listener backed by callbacks.
type KeyArea struct {
	Base
	OnKeyDown func(e input.KeyEvent)
	OnKeyUp   func(e input.KeyEvent)
}

func (k *KeyArea) KeyDown(e input.KeyEvent) {
	if k.OnKeyDown != nil {
		k.OnKeyDown(e)
	}
}

func (k *KeyArea) KeyUp(e input.KeyEvent) {
	if k.OnKeyUp != nil {
		k.OnKeyUp(e)
	}
}

// MouseArea is a leaf mouse listener backed by callbacks. It does not hit
// test; routing alone decides delivery.
type MouseArea struct {
	Base
	OnMouseDown   func(e input.MouseEvent)
	OnMouseUp     func(e input.MouseEvent)
	OnMouseMotion func(e input.MouseEvent)
}

func (m *MouseArea) MouseDown(e input.MouseEvent) {
	if m.OnMouseDown != nil {
		m.OnMouseDown(e)
	}
}

func (m *MouseArea) MouseUp(e input.MouseEvent) {
	if m.OnMouseUp != nil {
		m.OnMouseUp(e)
	}
}

func (m *MouseArea) MouseMotion(e input.MouseEvent) {
	if m.OnMouseMotion != nil {
		m.OnMouseMotion(e)
	}
}
