package core

import "math"

// geometryEpsilon is the tolerance used when comparing lengths and boxes.
const geometryEpsilon = 1e-9

// Vec3 is a vehicle-frame vector in metres. X is the long axis, positive from
// the nose towards the tail.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Scale returns v multiplied by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// DistanceTo returns the straight-line distance between two points.
func (v Vec3) DistanceTo(other Vec3) float64 {
	return v.Sub(other).Norm()
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// ApproxEqual reports whether every coordinate differs by at most eps.
func (v Vec3) ApproxEqual(other Vec3, eps float64) bool {
	return math.Abs(v.X-other.X) <= eps &&
		math.Abs(v.Y-other.Y) <= eps &&
		math.Abs(v.Z-other.Z) <= eps
}

// Transform is an affine transform: a rotation followed by a translation.
// The zero value is not valid; use IdentityTransform.
type Transform struct {
	r [3][3]float64
	t Vec3
}

// IdentityTransform returns the transform that maps every point to itself.
func IdentityTransform() Transform {
	return Transform{r: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// Translation returns a pure translation by v.
func Translation(v Vec3) Transform {
	tr := IdentityTransform()
	tr.t = v
	return tr
}

// AxialRotation returns a rotation of theta radians about the X axis:
// y' = y cosθ − z sinθ, z' = y sinθ + z cosθ.
func AxialRotation(theta float64) Transform {
	c, s := math.Cos(theta), math.Sin(theta)
	// Snap tiny values so quarter turns stay exact.
	if math.Abs(c) < 1e-15 {
		c = 0
	}
	if math.Abs(s) < 1e-15 {
		s = 0
	}
	return Transform{r: [3][3]float64{{1, 0, 0}, {0, c, -s}, {0, s, c}}}
}

// Then composes next inside the frame produced by t: the result applies next
// first and t second.
func (t Transform) Then(next Transform) Transform {
	var out Transform
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.r[i][j] = t.r[i][0]*next.r[0][j] + t.r[i][1]*next.r[1][j] + t.r[i][2]*next.r[2][j]
		}
	}
	out.t = t.rotate(next.t).Add(t.t)
	return out
}

// Apply maps a point through the transform.
func (t Transform) Apply(v Vec3) Vec3 {
	return t.rotate(v).Add(t.t)
}

// Location returns the image of the local origin.
func (t Transform) Location() Vec3 {
	return t.t
}

func (t Transform) rotate(v Vec3) Vec3 {
	return Vec3{
		X: t.r[0][0]*v.X + t.r[0][1]*v.Y + t.r[0][2]*v.Z,
		Y: t.r[1][0]*v.X + t.r[1][1]*v.Y + t.r[1][2]*v.Z,
		Z: t.r[2][0]*v.X + t.r[2][1]*v.Y + t.r[2][2]*v.Z,
	}
}

// BoundingBox is an axis-aligned box. An empty box has Min > Max on every axis.
type BoundingBox struct {
	Min, Max Vec3
}

// EmptyBox returns a box that contains nothing; including any point makes it
// the degenerate box around that point.
func EmptyBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		Min: Vec3{X: inf, Y: inf, Z: inf},
		Max: Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

// IsEmpty reports whether no point has been included.
func (b BoundingBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Include grows the box to contain v.
func (b BoundingBox) Include(v Vec3) BoundingBox {
	return BoundingBox{
		Min: Vec3{X: math.Min(b.Min.X, v.X), Y: math.Min(b.Min.Y, v.Y), Z: math.Min(b.Min.Z, v.Z)},
		Max: Vec3{X: math.Max(b.Max.X, v.X), Y: math.Max(b.Max.Y, v.Y), Z: math.Max(b.Max.Z, v.Z)},
	}
}

// Union returns the smallest box containing both b and other.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	if other.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return other
	}
	return b.Include(other.Min).Include(other.Max)
}

// Span returns the box extent along each axis, or the zero vector when empty.
func (b BoundingBox) Span() Vec3 {
	if b.IsEmpty() {
		return Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Contains reports whether other lies inside b, within geometryEpsilon.
func (b BoundingBox) Contains(other BoundingBox) bool {
	if other.IsEmpty() {
		return true
	}
	if b.IsEmpty() {
		return false
	}
	return other.Min.X >= b.Min.X-geometryEpsilon && other.Min.Y >= b.Min.Y-geometryEpsilon &&
		other.Min.Z >= b.Min.Z-geometryEpsilon && other.Max.X <= b.Max.X+geometryEpsilon &&
		other.Max.Y <= b.Max.Y+geometryEpsilon && other.Max.Z <= b.Max.Z+geometryEpsilon
}

// Equal reports whether two boxes match within geometryEpsilon. Two empty
// boxes are equal.
func (b BoundingBox) Equal(other BoundingBox) bool {
	if b.IsEmpty() || other.IsEmpty() {
		return b.IsEmpty() == other.IsEmpty()
	}
	return b.Min.ApproxEqual(other.Min, geometryEpsilon) && b.Max.ApproxEqual(other.Max, geometryEpsilon)
}

// Transformed returns the axis-aligned box around the eight transformed
// corners of b.
func (b BoundingBox) Transformed(t Transform) BoundingBox {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBox()
	for _, x := range [2]float64{b.Min.X, b.Max.X} {
		for _, y := range [2]float64{b.Min.Y, b.Max.Y} {
			for _, z := range [2]float64{b.Min.Z, b.Max.Z} {
				out = out.Include(t.Apply(Vec3{X: x, Y: y, Z: z}))
			}
		}
	}
	return out
}
