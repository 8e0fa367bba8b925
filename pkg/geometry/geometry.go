// Package geometry provides the 2D vector, matrix and rectangle types shared by
// the node tree and the bindable values.
//
// Vec2 and Mat3 are aliases of the golang.org/x/image/math/f32 types so values
// can be handed to rasterizers built on x/image without conversion.
package geometry

import (
	"fmt"
	"math"

	"golang.org/x/image/math/f32"
)

// Vec2 is a 2D vector stored as {X, Y}.
type Vec2 = f32.Vec2

// Mat3 is a row-major 3x3 matrix.
type Mat3 = f32.Mat3

// V returns the vector {x, y}.
func V(x, y float32) Vec2 {
	return Vec2{x, y}
}

// Splat returns a vector with both components set to v.
func Splat(v float32) Vec2 {
	return Vec2{v, v}
}

// Add returns a + b.
func Add(a, b Vec2) Vec2 {
	return Vec2{a[0] + b[0], a[1] + b[1]}
}

// Sub returns a - b.
func Sub(a, b Vec2) Vec2 {
	return Vec2{a[0] - b[0], a[1] - b[1]}
}

// Scale returns v scaled component-wise by s.
func Scale(v Vec2, s float32) Vec2 {
	return Vec2{v[0] * s, v[1] * s}
}

// Identity returns the 3x3 identity matrix.
func Identity() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Mul returns the matrix product a * b.
func Mul(a, b Mat3) Mat3 {
	var out Mat3
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			var sum float32
			for k := 0; k < 3; k++ {
				sum += a[row*3+k] * b[k*3+col]
			}
			out[row*3+col] = sum
		}
	}
	return out
}

// Transform builds the affine transform for a node: translate to position,
// rotate by rotation radians, then offset by -origin.
func Transform(position, origin Vec2, rotation float32) Mat3 {
	sin, cos := math.Sincos(float64(rotation))
	s, c := float32(sin), float32(cos)
	translate := Mat3{
		1, 0, position[0],
		0, 1, position[1],
		0, 0, 1,
	}
	rotate := Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
	offset := Mat3{
		1, 0, -origin[0],
		0, 1, -origin[1],
		0, 0, 1,
	}
	return Mul(Mul(translate, rotate), offset)
}

// Apply transforms the point p by m.
func Apply(m Mat3, p Vec2) Vec2 {
	return Vec2{
		m[0]*p[0] + m[1]*p[1] + m[2],
		m[3]*p[0] + m[4]*p[1] + m[5],
	}
}

// Rect is an axis-aligned rectangle. Min is inclusive, Max is exclusive.
type Rect struct {
	Min, Max Vec2
}

// RectFromPosSize returns the rectangle at pos with the given size.
func RectFromPosSize(pos, size Vec2) Rect {
	return Rect{Min: pos, Max: Add(pos, size)}
}

// Size returns the width and height of r.
func (r Rect) Size() Vec2 {
	return Sub(r.Max, r.Min)
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Min[0] >= r.Max[0] || r.Min[1] >= r.Max[1]
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Vec2) bool {
	return p[0] >= r.Min[0] && p[0] < r.Max[0] &&
		p[1] >= r.Min[1] && p[1] < r.Max[1]
}

// Translate returns r moved by d.
func (r Rect) Translate(d Vec2) Rect {
	return Rect{Min: Add(r.Min, d), Max: Add(r.Max, d)}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g)-(%g,%g)", r.Min[0], r.Min[1], r.Max[0], r.Max[1])
}
