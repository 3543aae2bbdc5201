package coords

import (
	"math"
	"testing"
)

func TestMatrixMultiplyOrder(t *testing.T) {
	// Scale then translate: the translation must not be scaled.
	m := Scale(2, 3).Multiply(Translate(10, 20))
	want := Matrix{2, 0, 0, 3, 10, 20}
	if m != want {
		t.Fatalf("Multiply() = %v, want %v", m, want)
	}
	p := m.Transform(Point{X: 1, Y: 1})
	if p.X != 12 || p.Y != 23 {
		t.Fatalf("Transform() = %+v", p)
	}
}

func TestMatrixInverseRoundTrip(t *testing.T) {
	m := Translate(5, -3).Multiply(Scale(2, 2))
	inv, err := m.Inverse()
	if err != nil {
		t.Fatalf("Inverse() error = %v", err)
	}
	p := inv.Transform(m.Transform(Point{X: 7, Y: 11}))
	if math.Abs(p.X-7) > 1e-9 || math.Abs(p.Y-11) > 1e-9 {
		t.Fatalf("round trip moved the point: %+v", p)
	}
}

func TestMatrixInverseSingular(t *testing.T) {
	if _, err := (Matrix{0, 0, 0, 0, 1, 2}).Inverse(); err == nil {
		t.Fatalf("expected singular matrix error")
	}
}

func TestRotateQuarterTurn(t *testing.T) {
	p := Rotate(math.Pi / 2).Transform(Point{X: 1, Y: 0})
	if math.Abs(p.X) > 1e-9 || math.Abs(p.Y-1) > 1e-9 {
		t.Fatalf("quarter turn of (1,0) = %+v", p)
	}
}

func TestRectIsEmpty(t *testing.T) {
	if (Rect{Width: 10, Height: 5}).IsEmpty() {
		t.Fatalf("non-degenerate rect reported empty")
	}
	if !(Rect{Width: 0, Height: 5}).IsEmpty() {
		t.Fatalf("zero-width rect not reported empty")
	}
}
