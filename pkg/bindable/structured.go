package bindable

import (
	"github.com/go-drift/stage/pkg/errors"
	"github.com/go-drift/stage/pkg/geometry"
)

// Structured is a Bindable whose value can be changed in place. A mutation
// behaves like a full Set: listeners see one set and one change
// notification and bound cells receive the complete updated value.
//
// Mutate works on a copy of the value. For T with reference semantics
// (slices, maps, pointers) the copy shares storage with the old value, so
// the mutation should replace rather than edit shared parts.
type Structured[T any] struct {
	Bindable[T]
}

// NewStructured returns an unbound structured cell holding value.
func NewStructured[T any](value T) *Structured[T] {
	return &Structured[T]{Bindable: Bindable[T]{value: value}}
}

// Mutate applies fn to a copy of the current value and stores the result.
func (s *Structured[T]) Mutate(fn func(v *T)) error {
	if s.link() == linkMirror {
		return errors.InvalidOperation("bindable.Mutate", "cell is a read-only mirror of its master")
	}
	v := s.value
	fn(&v)
	s.assign(v, make(pass[T]))
	return nil
}

// Matrix3 is a bindable 3x3 matrix addressable by row and column.
type Matrix3 struct {
	Structured[geometry.Mat3]
}

// NewMatrix3 returns an unbound matrix cell.
func NewMatrix3(m geometry.Mat3) *Matrix3 {
	return &Matrix3{Structured: Structured[geometry.Mat3]{Bindable: Bindable[geometry.Mat3]{value: m}}}
}

// At returns the element at row, col.
func (m *Matrix3) At(row, col int) float32 {
	v := m.Value()
	return v[row*3+col]
}

// SetAt replaces the element at row, col and propagates the whole matrix.
func (m *Matrix3) SetAt(value float32, row, col int) error {
	if row < 0 || row > 2 || col < 0 || col > 2 {
		return errors.InvalidOperation("bindable.SetAt", "index (%d,%d) outside 3x3 matrix", row, col)
	}
	return m.Mutate(func(v *geometry.Mat3) {
		v[row*3+col] = value
	})
}

// Vector2 is a bindable 2D vector with per-component setters.
type Vector2 struct {
	Structured[geometry.Vec2]
}

// NewVector2 returns an unbound vector cell.
func NewVector2(v geometry.Vec2) *Vector2 {
	return &Vector2{Structured: Structured[geometry.Vec2]{Bindable: Bindable[geometry.Vec2]{value: v}}}
}

// X returns the first component.
func (v *Vector2) X() float32 { return v.Value()[0] }

// Y returns the second component.
func (v *Vector2) Y() float32 { return v.Value()[1] }

// SetX replaces the first component.
func (v *Vector2) SetX(x float32) error {
	return v.Mutate(func(p *geometry.Vec2) { p[0] = x })
}

// SetY replaces the second component.
func (v *Vector2) SetY(y float32) error {
	return v.Mutate(func(p *geometry.Vec2) { p[1] = y })
}
