package node

import (
	"image/color"

	"golang.org/x/image/colornames"

	"github.com/go-drift/stage/pkg/geometry"
)

// RectFiller is an optional surface capability for filling rectangles.
type RectFiller interface {
	FillRect(r geometry.Rect, c color.Color)
}

// Box is a leaf that fills its bounds with a single colour. Surfaces that
// do not implement RectFiller draw nothing.
type Box struct {
	Base
	Colour color.Color
}

// NewBox returns a box of the given colour. A nil colour draws white.
func NewBox(c color.Color) *Box {
	return &Box{Colour: c}
}

// Draw fills the box's bounds.
func (b *Box) Draw(s Surface) {
	f, ok := s.(RectFiller)
	if !ok {
		return
	}
	c := b.Colour
	if c == nil {
		c = colornames.White
	}
	f.FillRect(b.Bounds(), c)
}
