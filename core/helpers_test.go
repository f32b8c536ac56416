package core_test

import (
	"math"
	"testing"

	"github.com/signalsfoundry/rocketcfg/core"
	"github.com/signalsfoundry/rocketcfg/internal/designs"
)

const epsilon = 1e-5

func buildDesign(t *testing.T, name string, opts ...core.RocketOption) *core.Rocket {
	t.Helper()
	r, err := designs.Build(name, nil, opts...)
	if err != nil {
		t.Fatalf("Build(%s): %v", name, err)
	}
	return r
}

func assertNear(t *testing.T, what string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Fatalf("%s = %v, want %v", what, got, want)
	}
}

func assertLocation(t *testing.T, what string, got, want core.Vec3) {
	t.Helper()
	if !got.ApproxEqual(want, epsilon) {
		t.Fatalf("%s location = %+v, want %+v", what, got, want)
	}
}

func mustFind(t *testing.T, r *core.Rocket, name string) *core.Component {
	t.Helper()
	c := r.FindComponent(name)
	if c == nil {
		t.Fatalf("component %q not found", name)
	}
	return c
}

type lookup struct {
	quantity string
	hit      bool
}

type stubMetrics struct {
	enumerations int
	instances    []int
	lookups      []lookup
	configs      int
}

func (s *stubMetrics) ObserveEnumeration(n int) {
	s.enumerations++
	s.instances = append(s.instances, n)
}

func (s *stubMetrics) ObserveCacheLookup(q string, hit bool) {
	s.lookups = append(s.lookups, lookup{quantity: q, hit: hit})
}

func (s *stubMetrics) SetConfigurationCount(n int) { s.configs = n }

func (s *stubMetrics) count(q string, hit bool) int {
	n := 0
	for _, l := range s.lookups {
		if l.quantity == q && l.hit == hit {
			n++
		}
	}
	return n
}
