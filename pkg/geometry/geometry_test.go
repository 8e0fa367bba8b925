package geometry

import "testing"

func TestMul_Identity(t *testing.T) {
	m := Mat3{1, 2, 3, 4, 5, 6, 7, 8, 9}
	if got := Mul(Identity(), m); got != m {
		t.Errorf("Identity * m = %v, want %v", got, m)
	}
	if got := Mul(m, Identity()); got != m {
		t.Errorf("m * Identity = %v, want %v", got, m)
	}
}

func TestTransform_TranslateAndOrigin(t *testing.T) {
	m := Transform(V(10, 20), V(5, 5), 0)
	got := Apply(m, V(5, 5))
	if got != V(10, 20) {
		t.Errorf("origin maps to %v, want position (10,20)", got)
	}
}

func TestRect_Contains(t *testing.T) {
	r := RectFromPosSize(V(0, 0), V(10, 10))
	tests := []struct {
		p    Vec2
		want bool
	}{
		{V(0, 0), true},
		{V(9.5, 9.5), true},
		{V(10, 5), false},
		{V(-1, 5), false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRect_Empty(t *testing.T) {
	if !(Rect{}).Empty() {
		t.Error("zero rect should be empty")
	}
	if RectFromPosSize(V(1, 1), V(2, 3)).Empty() {
		t.Error("2x3 rect should not be empty")
	}
}
