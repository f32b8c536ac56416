package core

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestAxialRotationQuarterTurn(t *testing.T) {
	got := AxialRotation(math.Pi / 2).Apply(Vec3{X: 1, Y: 1, Z: 0})
	want := Vec3{X: 1, Y: 0, Z: 1}
	if !got.ApproxEqual(want, eps) {
		t.Fatalf("rotated = %+v, want %+v", got, want)
	}
}

func TestTransformThenAppliesInnerFirst(t *testing.T) {
	// Translate out to y=2, then spin half a turn in the translated frame:
	// a point at local y=1 ends up at y=1.
	tr := Translation(Vec3{Y: 2}).Then(AxialRotation(math.Pi))
	got := tr.Apply(Vec3{Y: 1})
	if !got.ApproxEqual(Vec3{Y: 1}, eps) {
		t.Fatalf("Apply = %+v, want y=1", got)
	}
	if loc := tr.Location(); !loc.ApproxEqual(Vec3{Y: 2}, eps) {
		t.Fatalf("Location = %+v, want y=2", loc)
	}
}

func TestTransformComposesTranslations(t *testing.T) {
	tr := IdentityTransform().Then(Translation(Vec3{X: 1})).Then(Translation(Vec3{X: 2, Z: 3}))
	if got := tr.Location(); !got.ApproxEqual(Vec3{X: 3, Z: 3}, eps) {
		t.Fatalf("Location = %+v, want (3,0,3)", got)
	}
}

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 2}
	if a.Norm() != 3 {
		t.Fatalf("Norm = %v, want 3", a.Norm())
	}
	if d := a.DistanceTo(Vec3{X: 1, Y: 2, Z: 0}); d != 2 {
		t.Fatalf("DistanceTo = %v, want 2", d)
	}
	if got := a.Add(a).Sub(a.Scale(0.5)); got != (Vec3{X: 1.5, Y: 3, Z: 3}) {
		t.Fatalf("arithmetic = %+v", got)
	}
	if a.Dot(Vec3{X: 1}) != 1 {
		t.Fatalf("Dot = %v, want 1", a.Dot(Vec3{X: 1}))
	}
}

func TestBoundingBoxEmptyAndUnion(t *testing.T) {
	b := EmptyBox()
	if !b.IsEmpty() {
		t.Fatalf("EmptyBox not empty")
	}
	if span := b.Span(); span != (Vec3{}) {
		t.Fatalf("empty Span = %+v, want zero", span)
	}
	b = b.Include(Vec3{X: 1, Y: -1})
	b = b.Union(BoundingBox{Min: Vec3{X: -1}, Max: Vec3{X: 0, Y: 2, Z: 3}})
	want := BoundingBox{Min: Vec3{X: -1, Y: -1}, Max: Vec3{X: 1, Y: 2, Z: 3}}
	if !b.Equal(want) {
		t.Fatalf("box = %+v, want %+v", b, want)
	}
	if !b.Contains(want) || !b.Union(EmptyBox()).Equal(b) || !EmptyBox().Union(b).Equal(b) {
		t.Fatalf("union with empty box changed the result")
	}
}

func TestBoundingBoxTransformed(t *testing.T) {
	b := BoundingBox{Min: Vec3{X: 0, Y: 0, Z: -0.5}, Max: Vec3{X: 1, Y: 2, Z: 0.5}}
	got := b.Transformed(Translation(Vec3{X: 10}).Then(AxialRotation(math.Pi / 2)))
	want := BoundingBox{Min: Vec3{X: 10, Y: -0.5, Z: 0}, Max: Vec3{X: 11, Y: 0.5, Z: 2}}
	if !got.Equal(want) {
		t.Fatalf("Transformed = %+v, want %+v", got, want)
	}
}
