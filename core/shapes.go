package core

import (
	"fmt"
	"math"
)

// Shape is the kind-specific geometric payload of a component. The set of
// implementations is closed.
type Shape interface {
	shape()
	validate() error
}

// RadiusMethod selects how a parallel stage or pod set is offset from the
// vehicle axis.
type RadiusMethod int

const (
	// RadiusSurface places instances against the parent's outer surface,
	// plus the radius offset.
	RadiusSurface RadiusMethod = iota
	// RadiusFree places instances at exactly the radius offset.
	RadiusFree
)

func (m RadiusMethod) String() string {
	switch m {
	case RadiusSurface:
		return "surface"
	case RadiusFree:
		return "free"
	default:
		return fmt.Sprintf("RadiusMethod(%d)", int(m))
	}
}

// NoseShape is the profile of a nose cone or transition.
type NoseShape int

const (
	ShapeConical NoseShape = iota
	ShapeOgive
	ShapeEllipsoid
	ShapePower
	ShapeParabolic
	ShapeHaack
)

func (s NoseShape) String() string {
	switch s {
	case ShapeConical:
		return "conical"
	case ShapeOgive:
		return "ogive"
	case ShapeEllipsoid:
		return "ellipsoid"
	case ShapePower:
		return "power"
	case ShapeParabolic:
		return "parabolic"
	case ShapeHaack:
		return "haack"
	default:
		return fmt.Sprintf("NoseShape(%d)", int(s))
	}
}

// CrossSection is the fin profile. It does not affect bounds.
type CrossSection int

const (
	CrossSectionSquare CrossSection = iota
	CrossSectionRounded
	CrossSectionAirfoil
)

// AssemblyShape describes parallel stages and pod sets.
type AssemblyShape struct {
	InstanceCount int
	RadiusMethod  RadiusMethod
	RadiusOffset  float64
	AngleOffset   float64
}

func (AssemblyShape) shape() {}

func (s AssemblyShape) validate() error {
	if s.InstanceCount < 1 {
		return fmt.Errorf("%w: instance count %d", ErrInvalidGeometry, s.InstanceCount)
	}
	if s.RadiusMethod == RadiusFree && s.RadiusOffset < 0 {
		return fmt.Errorf("%w: free radius %g", ErrInvalidGeometry, s.RadiusOffset)
	}
	return nil
}

// TubeShape covers every axisymmetric shell: nose cones, transitions, body
// tubes, inner tubes, couplers, centering rings, engine blocks and launch lugs.
type TubeShape struct {
	Length     float64
	ForeRadius float64
	AftRadius  float64
	Thickness  float64

	NoseShape      NoseShape
	ShapeParameter float64
	ShoulderLength float64
	ShoulderRadius float64

	MotorMount bool

	// Inner tube clustering.
	Cluster         ClusterConfig
	ClusterScale    float64
	ClusterRotation float64

	RadialPosition  float64
	RadialDirection float64

	// Launch lug instancing.
	InstanceCount      int
	InstanceSeparation float64
	AngleOffset        float64
}

func (TubeShape) shape() {}

func (s TubeShape) validate() error {
	switch {
	case s.Length < 0:
		return fmt.Errorf("%w: length %g", ErrInvalidGeometry, s.Length)
	case s.ForeRadius < 0 || s.AftRadius < 0:
		return fmt.Errorf("%w: radius %g/%g", ErrInvalidGeometry, s.ForeRadius, s.AftRadius)
	case s.Thickness < 0:
		return fmt.Errorf("%w: thickness %g", ErrInvalidGeometry, s.Thickness)
	case s.ShoulderLength < 0 || s.ShoulderRadius < 0:
		return fmt.Errorf("%w: shoulder %g/%g", ErrInvalidGeometry, s.ShoulderLength, s.ShoulderRadius)
	case s.ClusterScale < 0:
		return fmt.Errorf("%w: cluster scale %g", ErrInvalidGeometry, s.ClusterScale)
	case s.InstanceCount < 0:
		return fmt.Errorf("%w: instance count %d", ErrInvalidGeometry, s.InstanceCount)
	case s.RadialPosition < 0:
		return fmt.Errorf("%w: radial position %g", ErrInvalidGeometry, s.RadialPosition)
	}
	if s.Cluster != "" {
		if _, ok := clusterPoints[s.Cluster]; !ok {
			return fmt.Errorf("%w: %q (known: %v)", ErrUnknownCluster, s.Cluster, ClusterConfigs())
		}
	}
	return nil
}

// OuterRadius returns the larger of the fore and aft radii.
func (s TubeShape) OuterRadius() float64 {
	return math.Max(s.ForeRadius, s.AftRadius)
}

// FinShape describes a trapezoidal fin set.
type FinShape struct {
	FinCount     int
	RootChord    float64
	TipChord     float64
	Sweep        float64
	Height       float64
	Thickness    float64
	BaseRotation float64
	CrossSection CrossSection
}

func (FinShape) shape() {}

func (s FinShape) validate() error {
	switch {
	case s.FinCount < 1:
		return fmt.Errorf("%w: fin count %d", ErrInvalidGeometry, s.FinCount)
	case s.RootChord < 0 || s.TipChord < 0:
		return fmt.Errorf("%w: chord %g/%g", ErrInvalidGeometry, s.RootChord, s.TipChord)
	case s.Height < 0 || s.Thickness < 0:
		return fmt.Errorf("%w: height %g thickness %g", ErrInvalidGeometry, s.Height, s.Thickness)
	}
	return nil
}

// chordExtent returns the fore and aft limits of the fin along the root line.
func (s FinShape) chordExtent() (float64, float64) {
	return math.Min(0, s.Sweep), math.Max(s.RootChord, s.Sweep+s.TipChord)
}

// MassShape describes packed internal items: parachutes, shock cords and
// generic mass components.
type MassShape struct {
	Length          float64
	PackedRadius    float64
	Mass            float64
	RadialPosition  float64
	RadialDirection float64

	// Parachute.
	Diameter   float64
	LineCount  int
	LineLength float64

	// Shock cord.
	CordLength float64
}

func (MassShape) shape() {}

func (s MassShape) validate() error {
	switch {
	case s.Length < 0 || s.PackedRadius < 0:
		return fmt.Errorf("%w: packed %g/%g", ErrInvalidGeometry, s.Length, s.PackedRadius)
	case s.Mass < 0:
		return fmt.Errorf("%w: mass %g", ErrInvalidGeometry, s.Mass)
	case s.RadialPosition < 0:
		return fmt.Errorf("%w: radial position %g", ErrInvalidGeometry, s.RadialPosition)
	case s.Diameter < 0 || s.LineCount < 0 || s.LineLength < 0 || s.CordLength < 0:
		return fmt.Errorf("%w: recovery dimensions", ErrInvalidGeometry)
	}
	return nil
}

// shapeFits reports whether s is the payload type used by kind k.
func shapeFits(k Kind, s Shape) bool {
	switch s.(type) {
	case AssemblyShape:
		return k == KindParallelStage || k == KindPodSet || k == KindAxialStage || k == KindRocket
	case TubeShape:
		return k.isTube()
	case FinShape:
		return k == KindFinSet
	case MassShape:
		return k.isMass()
	default:
		return false
	}
}
