package core

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/signalsfoundry/rocketcfg/model"
)

func newTwoPartRocket(t *testing.T) (*Rocket, *Component, *Component, *Component) {
	t.Helper()
	r := NewRocket("test")
	stage := NewAxialStage("stage")
	nose := NewNoseCone("nose", ShapeOgive, 0.1, 0.02)
	body := NewBodyTube("body", 0.3, 0.02, 0.001)
	if err := r.AddStage(stage); err != nil {
		t.Fatalf("AddStage: %v", err)
	}
	if err := stage.AddChild(nose); err != nil {
		t.Fatalf("AddChild nose: %v", err)
	}
	if err := stage.AddChild(body); err != nil {
		t.Fatalf("AddChild body: %v", err)
	}
	return r, stage, nose, body
}

func TestAddChildRejectsInvalidTrees(t *testing.T) {
	r, stage, nose, body := newTwoPartRocket(t)

	cases := []struct {
		name   string
		parent *Component
		child  *Component
		want   error
	}{
		{"nil child", stage, nil, ErrInvalidComponent},
		{"root as child", stage, r.Root(), ErrInvalidComponent},
		{"already attached", body, nose, ErrAlreadyAttached},
		{"attached stage", body, stage, ErrAlreadyAttached},
		{"stage under fin set", NewFinSet("f", 3, 1, 1, 0, 1, 0), NewAxialStage("s"), ErrIncompatibleChild},
		{"tube under root", r.Root(), NewBodyTube("b", 1, 1, 0), ErrIncompatibleChild},
		{"stage under body", body, NewAxialStage("s"), ErrIncompatibleChild},
	}
	for _, tc := range cases {
		err := tc.parent.AddChild(tc.child)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: AddChild error = %v, want %v", tc.name, err, tc.want)
		}
	}

	detached := NewAxialStage("loose")
	tube := NewBodyTube("tube", 1, 0.1, 0)
	if err := detached.AddChild(tube); err != nil {
		t.Fatalf("AddChild tube: %v", err)
	}
	pods := NewPodSet("pods", 2)
	if err := tube.AddChild(pods); err != nil {
		t.Fatalf("AddChild pods: %v", err)
	}
	inner := NewBodyTube("inner", 1, 0.1, 0)
	if err := pods.AddChild(inner); err != nil {
		t.Fatalf("AddChild inner: %v", err)
	}
	if err := inner.AddChild(NewPodSet("p", 1)); err != nil {
		t.Fatalf("AddChild nested pods: %v", err)
	}
	if err := inner.Child(0).AddChild(tube); !errors.Is(err, ErrAlreadyAttached) {
		t.Fatalf("reattach error = %v, want ErrAlreadyAttached", err)
	}

	loose := NewBodyTube("loose", 1, 0.1, 0)
	ring := NewPodSet("ring", 2)
	if err := loose.AddChild(ring); err != nil {
		t.Fatalf("AddChild ring: %v", err)
	}
	if err := ring.AddChild(loose); !errors.Is(err, ErrInvalidComponent) {
		t.Fatalf("cycle error = %v, want ErrInvalidComponent", err)
	}

	if err := stage.InsertChild(NewBodyTube("x", 1, 1, 0), 5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("InsertChild out of range error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestInsertAndRemoveChild(t *testing.T) {
	r, stage, nose, body := newTwoPartRocket(t)
	transition := NewTransition("transition", ShapeConical, 0.05, 0.02, 0.03)
	if err := stage.InsertChild(transition, 1); err != nil {
		t.Fatalf("InsertChild: %v", err)
	}
	if stage.Child(0) != nose || stage.Child(1) != transition || stage.Child(2) != body {
		t.Fatalf("child order = %v, want nose, transition, body", stage.Children())
	}

	mmt := NewInnerTube("mmt", 0.07, 0.009, 0.0003)
	if err := body.AddChild(mmt); err != nil {
		t.Fatalf("AddChild mmt: %v", err)
	}
	before := r.ModID()
	if err := stage.RemoveChild(body); err != nil {
		t.Fatalf("RemoveChild: %v", err)
	}
	if r.ModID() <= before {
		t.Fatalf("ModID did not advance on removal")
	}
	if body.Parent() != nil || mmt.Root() != body || mmt.Rocket() != nil {
		t.Fatalf("removed subtree still attached")
	}
	if err := stage.RemoveChild(body); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("second RemoveChild error = %v, want ErrInvalidArgument", err)
	}
}

func TestAddChildRejectsInvalidGeometry(t *testing.T) {
	r, stage, _, body := newTwoPartRocket(t)
	before, children := r.ModID(), stage.ChildCount()

	cases := []struct {
		name   string
		parent *Component
		child  *Component
	}{
		{"negative length", stage, NewBodyTube("bt", -0.2, 0.02, 0.001)},
		{"negative radius", stage, NewNoseCone("nose", ShapeOgive, 0.1, -0.02)},
		{"negative fin count", body, NewFinSet("fins", -3, 0.05, 0.03, 0.02, 0.05, 0.003)},
		{"zero fin count", body, NewFinSet("fins", 0, 0.05, 0.03, 0.02, 0.05, 0.003)},
		{"negative booster count", body, NewParallelStage("boosters", -2)},
		{"negative pod count", body, NewPodSet("pods", -1)},
	}
	for _, tc := range cases {
		if err := tc.parent.AddChild(tc.child); !errors.Is(err, ErrInvalidGeometry) {
			t.Fatalf("%s: AddChild error = %v, want ErrInvalidGeometry", tc.name, err)
		}
		if tc.child.Parent() != nil {
			t.Fatalf("%s: rejected child was attached", tc.name)
		}
	}

	// A bad component deep in the subtree rejects the whole insert.
	pods := NewPodSet("pods", 2)
	tube := NewBodyTube("pod tube", 0.1, 0.01, 0)
	if err := pods.AddChild(tube); err != nil {
		t.Fatalf("AddChild pod tube: %v", err)
	}
	tube.shape = TubeShape{Length: -1, ForeRadius: 0.01, AftRadius: 0.01}
	if err := body.AddChild(pods); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("nested AddChild error = %v, want ErrInvalidGeometry", err)
	}

	if r.ModID() != before || stage.ChildCount() != children || body.ChildCount() != 0 {
		t.Fatalf("rejected inserts changed the tree: mod %d -> %d", before, r.ModID())
	}
}

func TestModIDAdvancesOnEveryChange(t *testing.T) {
	r, stage, nose, body := newTwoPartRocket(t)

	steps := []struct {
		name string
		fn   func() error
	}{
		{"rename", func() error { nose.SetName("cone"); return nil }},
		{"length", func() error { return body.SetLength(0.4) }},
		{"radius", func() error { return body.SetOuterRadius(0.025) }},
		{"axial offset", func() error { body.SetAxialOffset(0.01); return nil }},
		{"axial method", func() error { return body.SetAxialMethod(AxialAfter) }},
		{"add", func() error { return stage.AddChild(NewBodyTube("tail", 0.1, 0.02, 0)) }},
		{"reference type", func() error { return r.SetReferenceType(ReferenceMaximum) }},
		{"motor mount", func() error { return body.SetMotorMount(true) }},
		{"motor", func() error {
			return body.SetMotorConfig("cfg", model.MotorConfig{Motor: model.Motor{Designation: "C6"}})
		}},
	}
	for _, step := range steps {
		before := r.ModID()
		if err := step.fn(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		if r.ModID() <= before {
			t.Fatalf("%s: ModID = %d, want > %d", step.name, r.ModID(), before)
		}
	}
}

func TestSettersValidateGeometry(t *testing.T) {
	_, _, nose, body := newTwoPartRocket(t)
	if err := body.SetLength(-1); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("SetLength(-1) error = %v, want ErrInvalidGeometry", err)
	}
	if body.Length() != 0.3 {
		t.Fatalf("rejected setter changed length to %v", body.Length())
	}
	if err := body.SetInstanceCount(2); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("SetInstanceCount on body error = %v, want ErrInvalidArgument", err)
	}
	fins := NewFinSet("fins", 3, 0.05, 0.03, 0.02, 0.05, 0.003)
	if err := fins.SetFinCount(0); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("SetFinCount(0) error = %v, want ErrInvalidGeometry", err)
	}
	if err := nose.SetShape(FinShape{FinCount: 1}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("SetShape mismatched error = %v, want ErrInvalidArgument", err)
	}
	mmt := NewInnerTube("mmt", 0.07, 0.009, 0.0003)
	err := mmt.SetClusterConfig("5-star")
	if !errors.Is(err, ErrUnknownCluster) {
		t.Fatalf("SetClusterConfig unknown error = %v, want ErrUnknownCluster", err)
	}
	if !strings.Contains(err.Error(), "3-ring") || !strings.Contains(err.Error(), "7-ring") {
		t.Fatalf("unknown cluster error %q does not list the known patterns", err)
	}
	if err := nose.SetMotorConfig("x", model.MotorConfig{}); !errors.Is(err, ErrNotMotorMount) {
		t.Fatalf("SetMotorConfig on nose error = %v, want ErrNotMotorMount", err)
	}
}

func TestAxialPlacement(t *testing.T) {
	_, stage, nose, body := newTwoPartRocket(t)
	if got := body.Position().X; math.Abs(got-0.1) > eps {
		t.Fatalf("body x = %v, want 0.1", got)
	}
	if got := stage.Length(); math.Abs(got-0.4) > eps {
		t.Fatalf("stage length = %v, want 0.4", got)
	}

	inner := NewInnerTube("mmt", 0.1, 0.009, 0.0003)
	if err := body.AddChild(inner); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	cases := []struct {
		method AxialMethod
		offset float64
		want   float64
	}{
		{AxialTop, 0.02, 0.02},
		{AxialMiddle, 0, 0.1},
		{AxialBottom, -0.01, 0.19},
		{AxialAbsolute, 0.15, 0.05},
	}
	for _, tc := range cases {
		if err := inner.SetAxialMethod(tc.method); err != nil {
			t.Fatalf("SetAxialMethod: %v", err)
		}
		inner.SetAxialOffset(tc.offset)
		if got := inner.Position().X; math.Abs(got-tc.want) > eps {
			t.Fatalf("%s x = %v, want %v", tc.method, got, tc.want)
		}
	}
	if nose.Position().X != 0 {
		t.Fatalf("nose x = %v, want 0", nose.Position().X)
	}
}

func TestClusterOffsets4Ring(t *testing.T) {
	mmt := NewInnerTube("mmt", 0.15, 0.015, 0.0005)
	if err := mmt.SetClusterConfig(Cluster4Ring); err != nil {
		t.Fatalf("SetClusterConfig: %v", err)
	}
	if mmt.InstanceCount() != 4 {
		t.Fatalf("InstanceCount = %d, want 4", mmt.InstanceCount())
	}
	want := []Vec3{
		{Y: -0.015, Z: 0.015},
		{Y: 0.015, Z: 0.015},
		{Y: 0.015, Z: -0.015},
		{Y: -0.015, Z: -0.015},
	}
	got := mmt.InstanceOffsets()
	for i := range want {
		if !got[i].ApproxEqual(want[i], eps) {
			t.Fatalf("offset[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
	for _, a := range mmt.InstanceAngles() {
		if a != 0 {
			t.Fatalf("cluster angle = %v, want 0", a)
		}
	}
}

func TestNoseConeRadiusProfile(t *testing.T) {
	for _, shape := range []NoseShape{ShapeConical, ShapeOgive, ShapeEllipsoid, ShapePower, ShapeParabolic, ShapeHaack} {
		nose := NewNoseCone("nose", shape, 0.1, 0.02)
		if r := nose.RadiusAt(0); math.Abs(r) > 1e-6 {
			t.Fatalf("%s tip radius = %v, want 0", shape, r)
		}
		if r := nose.RadiusAt(0.1); math.Abs(r-0.02) > 1e-6 {
			t.Fatalf("%s base radius = %v, want 0.02", shape, r)
		}
		if r := nose.RadiusAt(0.05); r <= 0 || r > 0.02 {
			t.Fatalf("%s mid radius = %v, want in (0, 0.02]", shape, r)
		}
	}
}

func TestStageNumbersDepthFirst(t *testing.T) {
	r, stage, _, body := newTwoPartRocket(t)
	boosters := NewParallelStage("boosters", 3)
	if err := body.AddChild(boosters); err != nil {
		t.Fatalf("AddChild boosters: %v", err)
	}
	tail := NewAxialStage("tail")
	if err := r.AddStage(tail); err != nil {
		t.Fatalf("AddStage: %v", err)
	}

	if r.StageCount() != 3 {
		t.Fatalf("StageCount = %d, want 3", r.StageCount())
	}
	if stage.StageNumber() != 0 || boosters.StageNumber() != 1 || tail.StageNumber() != 2 {
		t.Fatalf("stage numbers = %d,%d,%d, want 0,1,2", stage.StageNumber(), boosters.StageNumber(), tail.StageNumber())
	}
	if body.StageNumber() != 0 || r.Root().StageNumber() != -1 {
		t.Fatalf("body stage = %d root stage = %d, want 0, -1", body.StageNumber(), r.Root().StageNumber())
	}
	if subs := r.SubStages(stage); len(subs) != 1 || subs[0] != boosters {
		t.Fatalf("SubStages = %v, want [boosters]", subs)
	}
	if core := r.CoreStages(); len(core) != 2 || core[1] != tail {
		t.Fatalf("CoreStages = %v, want [stage tail]", core)
	}
}

func TestClusterConfigsSorted(t *testing.T) {
	names := ClusterConfigs()
	if len(names) != len(clusterPoints) {
		t.Fatalf("ClusterConfigs = %v, want %d patterns", names, len(clusterPoints))
	}
	for i, name := range names {
		if i > 0 && names[i-1] >= name {
			t.Fatalf("ClusterConfigs not sorted: %v", names)
		}
		if name.Count() != len(name.Points()) {
			t.Fatalf("%s: Count = %d, Points = %d", name, name.Count(), len(name.Points()))
		}
	}
}
