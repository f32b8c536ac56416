package core

import "math"

// Length returns the axial length of the component. Assemblies span their
// After- and Top-placed children.
func (c *Component) Length() float64 {
	switch s := c.shape.(type) {
	case TubeShape:
		return s.Length
	case MassShape:
		return s.Length
	case FinShape:
		lo, hi := s.chordExtent()
		return hi - lo
	}
	if c.IsAssembly() || c.kind == KindRocket {
		length := 0.0
		for _, ch := range c.children {
			if ch.axialMethod != AxialAfter && ch.axialMethod != AxialTop {
				continue
			}
			length = math.Max(length, ch.Position().X+ch.Length())
		}
		return length
	}
	return 0
}

// OuterRadius returns the largest radius of the component. For assemblies it
// is the largest outer radius of its symmetric children.
func (c *Component) OuterRadius() float64 {
	switch s := c.shape.(type) {
	case TubeShape:
		return s.OuterRadius()
	case MassShape:
		return s.PackedRadius
	}
	if c.IsAssembly() || c.kind == KindRocket {
		r := 0.0
		for _, ch := range c.children {
			if ch.IsSymmetric() {
				r = math.Max(r, ch.OuterRadius())
			}
		}
		return r
	}
	return 0
}

// InnerRadius returns the bore of a tube; other components report zero.
func (c *Component) InnerRadius() float64 {
	s, ok := c.shape.(TubeShape)
	if !ok {
		return 0
	}
	return math.Max(0, s.OuterRadius()-s.Thickness)
}

// RadiusAt returns the outer radius at local axial position x. Positions
// outside [0, Length] are clamped.
func (c *Component) RadiusAt(x float64) float64 {
	s, ok := c.shape.(TubeShape)
	if !ok {
		return c.OuterRadius()
	}
	if s.Length <= 0 {
		return s.AftRadius
	}
	x = math.Max(0, math.Min(s.Length, x))
	switch c.kind {
	case KindNoseCone, KindTransition:
		return profileRadius(s, x)
	default:
		return s.OuterRadius()
	}
}

// profileRadius evaluates the nose or transition profile between ForeRadius
// at x=0 and AftRadius at x=Length.
func profileRadius(s TubeShape, x float64) float64 {
	lo, hi := s.ForeRadius, s.AftRadius
	if lo > hi {
		// Profiles are defined growing aft; mirror tapering transitions.
		lo, hi = hi, lo
		x = s.Length - x
	}
	t := x / s.Length
	var f float64
	switch s.NoseShape {
	case ShapeOgive:
		f = math.Sqrt(math.Max(0, 1-(1-t)*(1-t)))
		f = (f + t) / 2
	case ShapeEllipsoid:
		f = math.Sqrt(math.Max(0, 1-(1-t)*(1-t)))
	case ShapePower:
		k := s.ShapeParameter
		if k <= 0 {
			k = 0.5
		}
		f = math.Pow(t, k)
	case ShapeParabolic:
		k := s.ShapeParameter
		f = (2*t - k*t*t) / (2 - k)
	case ShapeHaack:
		theta := math.Acos(1 - 2*t)
		f = math.Sqrt(math.Max(0, theta-math.Sin(2*theta)/2+s.ShapeParameter*math.Pow(math.Sin(theta), 3))/math.Pi)
	default:
		f = t
	}
	return lo + (hi-lo)*math.Max(0, math.Min(1, f))
}

// Position returns the offset of the component's fore end in its parent's
// frame. Radial placement is carried by InstanceOffsets.
func (c *Component) Position() Vec3 {
	p := c.parent
	if p == nil {
		return Vec3{}
	}
	length := c.Length()
	var x float64
	switch c.axialMethod {
	case AxialAfter:
		next := 0.0
		for _, sib := range p.children {
			if sib.axialMethod != AxialAfter {
				continue
			}
			sx := next + sib.axialOffset
			if sib == c {
				x = sx
				break
			}
			next = sx + sib.Length()
		}
	case AxialTop:
		x = c.axialOffset
	case AxialMiddle:
		x = (p.Length()-length)/2 + c.axialOffset
	case AxialBottom:
		x = p.Length() - length + c.axialOffset
	case AxialAbsolute:
		x = c.axialOffset - p.absoluteX()
	}
	return Vec3{X: x}
}

// absoluteX is the axial position of the fore end measured from the nose,
// following the first instance of every ancestor.
func (c *Component) absoluteX() float64 {
	x := 0.0
	for n := c; n.parent != nil; n = n.parent {
		x += n.Position().X
	}
	return x
}

// InstanceCount returns how many copies of the component exist per instance
// of its parent.
func (c *Component) InstanceCount() int {
	switch s := c.shape.(type) {
	case AssemblyShape:
		if c.kind == KindParallelStage || c.kind == KindPodSet {
			return max(1, s.InstanceCount)
		}
	case FinShape:
		return max(1, s.FinCount)
	case TubeShape:
		switch c.kind {
		case KindInnerTube:
			return s.Cluster.Count()
		case KindLaunchLug:
			return max(1, s.InstanceCount)
		}
	}
	return 1
}

// InstanceOffsets returns, per instance, the offset from Position() in the
// parent frame.
func (c *Component) InstanceOffsets() []Vec3 {
	switch s := c.shape.(type) {
	case AssemblyShape:
		if c.kind != KindParallelStage && c.kind != KindPodSet {
			break
		}
		r := c.assemblyRadius(s)
		angles := c.InstanceAngles()
		out := make([]Vec3, len(angles))
		for i, a := range angles {
			out[i] = Vec3{Y: r * math.Cos(a), Z: r * math.Sin(a)}
		}
		return out
	case FinShape:
		r := 0.0
		if c.parent != nil {
			r = c.parent.RadiusAt(c.Position().X)
		}
		angles := c.InstanceAngles()
		out := make([]Vec3, len(angles))
		for i, a := range angles {
			out[i] = Vec3{Y: r * math.Cos(a), Z: r * math.Sin(a)}
		}
		return out
	case TubeShape:
		switch c.kind {
		case KindInnerTube:
			return clusterOffsets(s)
		case KindLaunchLug:
			r := s.OuterRadius()
			if c.parent != nil {
				r += c.parent.OuterRadius()
			}
			n := c.InstanceCount()
			out := make([]Vec3, n)
			for i := range out {
				out[i] = Vec3{
					X: float64(i) * s.InstanceSeparation,
					Y: r * math.Cos(s.AngleOffset),
					Z: r * math.Sin(s.AngleOffset),
				}
			}
			return out
		}
		return []Vec3{radialOffset(s.RadialPosition, s.RadialDirection)}
	case MassShape:
		return []Vec3{radialOffset(s.RadialPosition, s.RadialDirection)}
	}
	return []Vec3{{}}
}

// InstanceAngles returns, per instance, the rotation about the axis applied
// after the instance offset.
func (c *Component) InstanceAngles() []float64 {
	n := c.InstanceCount()
	out := make([]float64, n)
	var base float64
	switch s := c.shape.(type) {
	case AssemblyShape:
		if c.kind != KindParallelStage && c.kind != KindPodSet {
			return out
		}
		base = s.AngleOffset
	case FinShape:
		base = s.BaseRotation
	default:
		return out
	}
	for i := range out {
		out[i] = base + 2*math.Pi*float64(i)/float64(n)
	}
	return out
}

func (c *Component) assemblyRadius(s AssemblyShape) float64 {
	if s.RadiusMethod == RadiusFree {
		return s.RadiusOffset
	}
	r := c.OuterRadius() + s.RadiusOffset
	if c.parent != nil {
		r += c.parent.OuterRadius()
	}
	return r
}

func radialOffset(position, direction float64) Vec3 {
	if position == 0 {
		return Vec3{}
	}
	return Vec3{Y: position * math.Cos(direction), Z: position * math.Sin(direction)}
}

// localExtent is the box occupied by one instance in its own frame, and
// false for components without physical extent.
func (c *Component) localExtent() (BoundingBox, bool) {
	switch s := c.shape.(type) {
	case TubeShape:
		r := s.OuterRadius()
		return BoundingBox{Min: Vec3{X: 0, Y: -r, Z: -r}, Max: Vec3{X: s.Length, Y: r, Z: r}}, true
	case MassShape:
		r := s.PackedRadius
		return BoundingBox{Min: Vec3{X: 0, Y: -r, Z: -r}, Max: Vec3{X: s.Length, Y: r, Z: r}}, true
	case FinShape:
		lo, hi := s.chordExtent()
		t := s.Thickness / 2
		return BoundingBox{Min: Vec3{X: lo, Y: 0, Z: -t}, Max: Vec3{X: hi, Y: s.Height, Z: t}}, true
	}
	return BoundingBox{}, false
}
