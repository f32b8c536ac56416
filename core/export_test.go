package core

import "maps"

// CacheStamp exposes the stamp type to external tests.
type CacheStamp = cacheStamp

// NeverComputedStamp is the stamp of an unfilled cache entry.
var NeverComputedStamp = neverComputed

// CacheView is a snapshot of a configuration's internal state for tests.
type CacheView struct {
	StageActive   map[int]bool
	DefaultActive bool

	BoundsStamp    CacheStamp
	ReferenceStamp CacheStamp
	MotorsStamp    CacheStamp

	Bounds          BoundingBox
	BoundsAero      BoundingBox
	LengthAero      float64
	ReferenceLength float64
	MotorCount      int
}

// DebugView reads the cached fields without triggering a recompute.
func (fc *FlightConfiguration) DebugView() CacheView {
	return CacheView{
		StageActive:     maps.Clone(fc.stageActive),
		DefaultActive:   fc.defaultActive,
		BoundsStamp:     fc.bounds.stamp,
		ReferenceStamp:  fc.reference.stamp,
		MotorsStamp:     fc.motors.stamp,
		Bounds:          fc.bounds.value.structural,
		BoundsAero:      fc.bounds.value.aero,
		LengthAero:      fc.bounds.value.aeroLength,
		ReferenceLength: fc.reference.value,
		MotorCount:      len(fc.motors.value),
	}
}
