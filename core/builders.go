package core

// Builders create detached components with the placement defaults of their
// kind. Geometry is checked when the component is attached to a tree.

func NewAxialStage(name string) *Component {
	return newComponent(KindAxialStage, name, AxialAfter, AssemblyShape{InstanceCount: 1})
}

// NewParallelStage returns a booster stage with count instances placed
// against the parent surface, aligned with the parent's aft end.
func NewParallelStage(name string, count int) *Component {
	return newComponent(KindParallelStage, name, AxialBottom, AssemblyShape{
		InstanceCount: count,
		RadiusMethod:  RadiusSurface,
	})
}

func NewPodSet(name string, count int) *Component {
	return newComponent(KindPodSet, name, AxialTop, AssemblyShape{
		InstanceCount: count,
		RadiusMethod:  RadiusSurface,
	})
}

func NewNoseCone(name string, shape NoseShape, length, radius float64) *Component {
	return newComponent(KindNoseCone, name, AxialAfter, TubeShape{
		Length:    length,
		AftRadius: radius,
		NoseShape: shape,
	})
}

func NewTransition(name string, shape NoseShape, length, foreRadius, aftRadius float64) *Component {
	return newComponent(KindTransition, name, AxialAfter, TubeShape{
		Length:     length,
		ForeRadius: foreRadius,
		AftRadius:  aftRadius,
		NoseShape:  shape,
	})
}

func NewBodyTube(name string, length, radius, thickness float64) *Component {
	return newComponent(KindBodyTube, name, AxialAfter, TubeShape{
		Length:     length,
		ForeRadius: radius,
		AftRadius:  radius,
		Thickness:  thickness,
	})
}

// NewInnerTube returns a single motor-capable inner tube placed at the top of
// its parent.
func NewInnerTube(name string, length, radius, thickness float64) *Component {
	return newComponent(KindInnerTube, name, AxialTop, TubeShape{
		Length:       length,
		ForeRadius:   radius,
		AftRadius:    radius,
		Thickness:    thickness,
		Cluster:      ClusterSingle,
		ClusterScale: 1,
	})
}

func NewTubeCoupler(name string, length, radius, thickness float64) *Component {
	return newComponent(KindTubeCoupler, name, AxialTop, TubeShape{
		Length:     length,
		ForeRadius: radius,
		AftRadius:  radius,
		Thickness:  thickness,
	})
}

func NewCenteringRing(name string, length, outerRadius, innerRadius float64) *Component {
	return newComponent(KindCenteringRing, name, AxialTop, TubeShape{
		Length:     length,
		ForeRadius: outerRadius,
		AftRadius:  outerRadius,
		Thickness:  outerRadius - innerRadius,
	})
}

func NewEngineBlock(name string, length, outerRadius, innerRadius float64) *Component {
	return newComponent(KindEngineBlock, name, AxialTop, TubeShape{
		Length:     length,
		ForeRadius: outerRadius,
		AftRadius:  outerRadius,
		Thickness:  outerRadius - innerRadius,
	})
}

func NewLaunchLug(name string, length, radius, thickness float64) *Component {
	return newComponent(KindLaunchLug, name, AxialMiddle, TubeShape{
		Length:        length,
		ForeRadius:    radius,
		AftRadius:     radius,
		Thickness:     thickness,
		InstanceCount: 1,
	})
}

// NewFinSet returns a trapezoidal fin set aligned with the parent's aft end.
func NewFinSet(name string, count int, rootChord, tipChord, sweep, height, thickness float64) *Component {
	return newComponent(KindFinSet, name, AxialBottom, FinShape{
		FinCount:  count,
		RootChord: rootChord,
		TipChord:  tipChord,
		Sweep:     sweep,
		Height:    height,
		Thickness: thickness,
	})
}

func NewParachute(name string, diameter, packedLength, packedRadius float64) *Component {
	return newComponent(KindParachute, name, AxialTop, MassShape{
		Length:       packedLength,
		PackedRadius: packedRadius,
		Diameter:     diameter,
		LineCount:    6,
		LineLength:   diameter,
	})
}

func NewShockCord(name string, cordLength, packedLength, packedRadius float64) *Component {
	return newComponent(KindShockCord, name, AxialTop, MassShape{
		Length:       packedLength,
		PackedRadius: packedRadius,
		CordLength:   cordLength,
	})
}

func NewMassComponent(name string, mass, length, radius float64) *Component {
	return newComponent(KindMassComponent, name, AxialTop, MassShape{
		Length:       length,
		PackedRadius: radius,
		Mass:         mass,
	})
}
