package core

import (
	"math"
	"sort"
)

// ClusterConfig names a motor-tube cluster pattern.
type ClusterConfig string

const (
	ClusterSingle   ClusterConfig = "single"
	ClusterDouble   ClusterConfig = "double"
	Cluster3Row     ClusterConfig = "3-row"
	Cluster3Ring    ClusterConfig = "3-ring"
	Cluster4Row     ClusterConfig = "4-row"
	Cluster4Ring    ClusterConfig = "4-ring"
	Cluster4Diamond ClusterConfig = "4-diamond"
	Cluster6Ring    ClusterConfig = "6-ring"
	Cluster7Ring    ClusterConfig = "7-ring"
)

// Unit points in (y, z), measured in tube separations.
var clusterPoints = map[ClusterConfig][][2]float64{
	ClusterSingle: {{0, 0}},
	ClusterDouble: {{-0.5, 0}, {0.5, 0}},
	Cluster3Row:   {{-1, 0}, {0, 0}, {1, 0}},
	Cluster3Ring:  {{-0.5, -1.0 / (2 * math.Sqrt(3))}, {0.5, -1.0 / (2 * math.Sqrt(3))}, {0, 1.0 / math.Sqrt(3)}},
	Cluster4Row:   {{-1.5, 0}, {-0.5, 0}, {0.5, 0}, {1.5, 0}},
	Cluster4Ring:  {{-0.5, 0.5}, {0.5, 0.5}, {0.5, -0.5}, {-0.5, -0.5}},
	Cluster4Diamond: {
		{0, math.Sqrt2 / 2}, {math.Sqrt2 / 2, 0}, {0, -math.Sqrt2 / 2}, {-math.Sqrt2 / 2, 0},
	},
	Cluster6Ring: hexagon(false),
	Cluster7Ring: hexagon(true),
}

func hexagon(center bool) [][2]float64 {
	var pts [][2]float64
	if center {
		pts = append(pts, [2]float64{0, 0})
	}
	for i := 0; i < 6; i++ {
		a := float64(i) * math.Pi / 3
		pts = append(pts, [2]float64{math.Cos(a), math.Sin(a)})
	}
	return pts
}

// Count returns the number of tubes in the pattern; unknown patterns count as
// a single tube.
func (c ClusterConfig) Count() int {
	if pts, ok := clusterPoints[c]; ok {
		return len(pts)
	}
	return 1
}

// Points returns a copy of the unit points of the pattern.
func (c ClusterConfig) Points() [][2]float64 {
	pts, ok := clusterPoints[c]
	if !ok {
		pts = clusterPoints[ClusterSingle]
	}
	out := make([][2]float64, len(pts))
	copy(out, pts)
	return out
}

// ClusterConfigs lists the known pattern names in sorted order.
func ClusterConfigs() []ClusterConfig {
	out := make([]ClusterConfig, 0, len(clusterPoints))
	for k := range clusterPoints {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// clusterOffsets lays the pattern out for a tube of the given outer radius.
func clusterOffsets(s TubeShape) []Vec3 {
	cfg := s.Cluster
	if cfg == "" {
		cfg = ClusterSingle
	}
	scale := s.ClusterScale
	if scale == 0 {
		scale = 1
	}
	sep := 2 * s.OuterRadius() * scale
	cr, sr := math.Cos(s.ClusterRotation), math.Sin(s.ClusterRotation)
	radial := Vec3{
		Y: s.RadialPosition * math.Cos(s.RadialDirection),
		Z: s.RadialPosition * math.Sin(s.RadialDirection),
	}

	pts := cfg.Points()
	out := make([]Vec3, len(pts))
	for i, p := range pts {
		y, z := p[0]*sep, p[1]*sep
		out[i] = Vec3{Y: y*cr - z*sr, Z: y*sr + z*cr}.Add(radial)
	}
	return out
}
