package bindable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/stage/pkg/errors"
	"github.com/go-drift/stage/pkg/geometry"
)

func TestMatrix3_SetAtRaisesOneChange(t *testing.T) {
	k := 0
	m := NewMatrix3(geometry.Identity())
	m.OnChanged(func(geometry.Mat3) { k++ })

	require.NoError(t, m.SetAt(69, 0, 0))
	assert.Equal(t, 1, k)
	assert.Equal(t, float32(69), m.At(0, 0))
	assert.Equal(t, float32(1), m.At(1, 1))
}

func TestMatrix3_SetAtPropagatesWholeValue(t *testing.T) {
	m := NewMatrix3(geometry.Identity())
	partner := NewMatrix3(geometry.Mat3{})
	require.NoError(t, m.Bind(partner, false))

	var received []geometry.Mat3
	partner.OnChanged(func(v geometry.Mat3) { received = append(received, v) })

	require.NoError(t, m.SetAt(2, 1, 2))

	want := geometry.Identity()
	want[1*3+2] = 2
	require.Len(t, received, 1)
	assert.Equal(t, want, received[0])
	assert.Equal(t, want, partner.Value())
}

func TestMatrix3_SetAtOutOfRange(t *testing.T) {
	m := NewMatrix3(geometry.Identity())
	assert.ErrorIs(t, m.SetAt(1, 3, 0), errors.ErrInvalidOperation)
	assert.ErrorIs(t, m.SetAt(1, 0, -1), errors.ErrInvalidOperation)
}

func TestMatrix3_MirrorRejectsMutation(t *testing.T) {
	master := NewMatrix3(geometry.Identity())
	mirror := NewMatrix3(geometry.Mat3{})
	require.NoError(t, mirror.BindTo(master))

	assert.ErrorIs(t, mirror.SetAt(5, 0, 0), errors.ErrInvalidOperation)
	assert.Equal(t, geometry.Identity(), mirror.Value())

	require.NoError(t, master.SetAt(5, 2, 2))
	assert.Equal(t, float32(5), mirror.At(2, 2))
}

func TestStructured_BindsToPlainBindable(t *testing.T) {
	s := NewStructured([]string{"a"})
	plain := New[[]string](nil)
	require.NoError(t, plain.Bind(s, true))
	assert.Equal(t, []string{"a"}, plain.Value())

	require.NoError(t, s.Mutate(func(v *[]string) {
		*v = append([]string{"z"}, *v...)
	}))
	assert.Equal(t, []string{"z", "a"}, plain.Value())
}

func TestVector2_Components(t *testing.T) {
	v := NewVector2(geometry.V(1, 2))
	mirror := New(geometry.Vec2{})
	require.NoError(t, mirror.BindTo(v))

	changes := 0
	v.OnChanged(func(geometry.Vec2) { changes++ })
	require.NoError(t, v.SetX(10))
	require.NoError(t, v.SetY(20))

	assert.Equal(t, 2, changes)
	assert.Equal(t, float32(10), v.X())
	assert.Equal(t, float32(20), v.Y())
	assert.Equal(t, geometry.V(10, 20), mirror.Value())
}
