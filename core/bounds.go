package core

import "math"

// DefaultReferenceLength is used when no active component qualifies.
const DefaultReferenceLength = 0.01

// minReferenceRadius is the smallest radius accepted as a reference.
const minReferenceRadius = 0.0005

type boundsResult struct {
	structural BoundingBox
	aero       BoundingBox
	aeroLength float64
}

// computeBounds accumulates the transformed extent of every instance.
// Structural bounds include every component with an extent; aerodynamic
// bounds only external surfaces.
func computeBounds(m *InstanceMap) boundsResult {
	res := boundsResult{structural: EmptyBox(), aero: EmptyBox()}
	for _, c := range m.order {
		extent, ok := c.localExtent()
		if !ok {
			continue
		}
		aero := c.IsAerodynamic()
		for _, ic := range m.contexts[c] {
			box := extent.Transformed(ic.Transform)
			res.structural = res.structural.Union(box)
			if aero {
				res.aero = res.aero.Union(box)
			}
		}
	}
	res.aeroLength = res.aero.Span().X
	return res
}

func (fc *FlightConfiguration) cachedBounds() boundsResult {
	return readThrough(fc, QuantityBounds, &fc.bounds, func() boundsResult {
		return computeBounds(fc.ActiveInstances())
	})
}

// Bounds returns the structural bounding box of the active instances.
func (fc *FlightConfiguration) Bounds() BoundingBox { return fc.cachedBounds().structural }

// BoundsAerodynamic returns the bounding box of the active external surfaces.
func (fc *FlightConfiguration) BoundsAerodynamic() BoundingBox { return fc.cachedBounds().aero }

// LengthAerodynamic returns the axial span of the active external surfaces,
// or zero when there are none.
func (fc *FlightConfiguration) LengthAerodynamic() float64 { return fc.cachedBounds().aeroLength }

// ReferenceLength returns the reference diameter under the rocket's
// reference type.
func (fc *FlightConfiguration) ReferenceLength() float64 {
	return readThrough(fc, QuantityReference, &fc.reference, fc.computeReferenceLength)
}

// ReferenceArea returns π·(ReferenceLength/2)².
func (fc *FlightConfiguration) ReferenceArea() float64 {
	r := fc.ReferenceLength() / 2
	return math.Pi * r * r
}

func (fc *FlightConfiguration) computeReferenceLength() float64 {
	r := fc.rocket
	if r.refType == ReferenceCustom {
		if r.customRefLength > 0 {
			return r.customRefLength
		}
		return DefaultReferenceLength
	}

	best := 0.0
	for _, c := range fc.ActiveComponents() {
		if !c.IsSymmetric() {
			continue
		}
		s := c.shape.(TubeShape)
		if r.refType == ReferenceMaximum {
			best = math.Max(best, 2*s.OuterRadius())
			continue
		}
		if s.ForeRadius >= minReferenceRadius {
			return 2 * s.ForeRadius
		}
		if s.AftRadius >= minReferenceRadius {
			return 2 * s.AftRadius
		}
	}
	if best > 0 {
		return best
	}
	return DefaultReferenceLength
}
