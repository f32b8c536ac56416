package core

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/signalsfoundry/rocketcfg/model"
)

// Kind is the closed set of component types.
type Kind int

const (
	KindRocket Kind = iota
	KindAxialStage
	KindParallelStage
	KindPodSet
	KindNoseCone
	KindTransition
	KindBodyTube
	KindInnerTube
	KindTubeCoupler
	KindLaunchLug
	KindCenteringRing
	KindEngineBlock
	KindFinSet
	KindParachute
	KindShockCord
	KindMassComponent
)

var kindNames = [...]string{
	KindRocket:        "Rocket",
	KindAxialStage:    "AxialStage",
	KindParallelStage: "ParallelStage",
	KindPodSet:        "PodSet",
	KindNoseCone:      "NoseCone",
	KindTransition:    "Transition",
	KindBodyTube:      "BodyTube",
	KindInnerTube:     "InnerTube",
	KindTubeCoupler:   "TubeCoupler",
	KindLaunchLug:     "LaunchLug",
	KindCenteringRing: "CenteringRing",
	KindEngineBlock:   "EngineBlock",
	KindFinSet:        "FinSet",
	KindParachute:     "Parachute",
	KindShockCord:     "ShockCord",
	KindMassComponent: "MassComponent",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) isStage() bool { return k == KindAxialStage || k == KindParallelStage }

func (k Kind) isAssembly() bool {
	return k == KindAxialStage || k == KindParallelStage || k == KindPodSet
}

func (k Kind) isSymmetric() bool {
	return k == KindNoseCone || k == KindTransition || k == KindBodyTube
}

func (k Kind) isTube() bool {
	switch k {
	case KindNoseCone, KindTransition, KindBodyTube, KindInnerTube, KindTubeCoupler,
		KindLaunchLug, KindCenteringRing, KindEngineBlock:
		return true
	}
	return false
}

func (k Kind) isMass() bool {
	return k == KindParachute || k == KindShockCord || k == KindMassComponent
}

func (k Kind) isInternal() bool {
	switch k {
	case KindInnerTube, KindTubeCoupler, KindCenteringRing, KindEngineBlock,
		KindParachute, KindShockCord, KindMassComponent:
		return true
	}
	return false
}

// accepts encodes which child kinds a parent kind may own.
func (k Kind) accepts(child Kind) bool {
	switch k {
	case KindRocket:
		return child == KindAxialStage
	case KindAxialStage, KindParallelStage, KindPodSet:
		return child.isSymmetric()
	case KindNoseCone, KindTransition, KindBodyTube:
		return child.isInternal() || child == KindFinSet || child == KindLaunchLug ||
			child == KindParallelStage || child == KindPodSet
	case KindInnerTube, KindTubeCoupler:
		return child.isInternal()
	default:
		return false
	}
}

// AxialMethod selects how a component's fore end is placed along its parent.
type AxialMethod int

const (
	AxialAfter AxialMethod = iota
	AxialTop
	AxialMiddle
	AxialBottom
	AxialAbsolute
)

func (m AxialMethod) String() string {
	switch m {
	case AxialAfter:
		return "after"
	case AxialTop:
		return "top"
	case AxialMiddle:
		return "middle"
	case AxialBottom:
		return "bottom"
	case AxialAbsolute:
		return "absolute"
	default:
		return fmt.Sprintf("AxialMethod(%d)", int(m))
	}
}

// Component is one node of a vehicle tree. A component has at most one
// parent; the tree root is owned by a Rocket. Components are not safe for
// concurrent mutation.
type Component struct {
	id       string
	name     string
	kind     Kind
	parent   *Component
	children []*Component

	// owner is set on the root component only.
	owner *Rocket

	finish   string
	material string

	axialMethod AxialMethod
	axialOffset float64

	shape Shape

	motors map[FlightConfigurationID]model.MotorConfig
}

func newComponent(kind Kind, name string, method AxialMethod, s Shape) *Component {
	return &Component{
		id:          uuid.NewString(),
		name:        name,
		kind:        kind,
		axialMethod: method,
		shape:       s,
	}
}

// ID returns the stable unique identifier of the component.
func (c *Component) ID() string { return c.id }

func (c *Component) Name() string { return c.name }

func (c *Component) Kind() Kind { return c.kind }

func (c *Component) Finish() string { return c.finish }

func (c *Component) Material() string { return c.material }

func (c *Component) AxialMethod() AxialMethod { return c.axialMethod }

func (c *Component) AxialOffset() float64 { return c.axialOffset }

// Shape returns a copy of the kind-specific payload.
func (c *Component) Shape() Shape { return c.shape }

func (c *Component) String() string {
	return fmt.Sprintf("%s %q", c.kind, c.name)
}

// IsStage reports whether the component is an activation unit.
func (c *Component) IsStage() bool { return c.kind.isStage() }

// IsAssembly reports whether the component only groups other components.
func (c *Component) IsAssembly() bool { return c.kind.isAssembly() }

// IsSymmetric reports whether the component is an external axisymmetric body
// (nose cone, transition or body tube).
func (c *Component) IsSymmetric() bool { return c.kind.isSymmetric() }

// IsAerodynamic reports whether the component is exposed to the airflow.
func (c *Component) IsAerodynamic() bool {
	return c.kind.isSymmetric() || c.kind == KindFinSet || c.kind == KindLaunchLug
}

// IsMassObject reports whether the component is a packed internal item.
func (c *Component) IsMassObject() bool { return c.kind.isMass() }

// IsMotorMount reports whether the component carries motors.
func (c *Component) IsMotorMount() bool {
	if c.kind != KindInnerTube && c.kind != KindBodyTube {
		return false
	}
	s, ok := c.shape.(TubeShape)
	return ok && s.MotorMount
}

// ---------- tree structure ----------

func (c *Component) Parent() *Component { return c.parent }

// Root returns the topmost ancestor of c, which may be c itself.
func (c *Component) Root() *Component {
	n := c
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Rocket returns the rocket owning the tree c belongs to, or nil for a
// detached subtree.
func (c *Component) Rocket() *Rocket {
	return c.Root().owner
}

// Children returns a copy of the ordered child list.
func (c *Component) Children() []*Component {
	out := make([]*Component, len(c.children))
	copy(out, c.children)
	return out
}

func (c *Component) ChildCount() int { return len(c.children) }

// Child returns the i-th child or nil when i is out of range.
func (c *Component) Child(i int) *Component {
	if i < 0 || i >= len(c.children) {
		return nil
	}
	return c.children[i]
}

// AddChild appends child to the end of the child list.
func (c *Component) AddChild(child *Component) error {
	return c.InsertChild(child, len(c.children))
}

// InsertChild inserts child at index, shifting later children back.
func (c *Component) InsertChild(child *Component, index int) error {
	if child == nil {
		return fmt.Errorf("%w: nil child", ErrInvalidComponent)
	}
	if child.kind == KindRocket || child.owner != nil {
		return fmt.Errorf("%w: rocket root cannot be a child", ErrInvalidComponent)
	}
	if child.parent != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyAttached, child)
	}
	for n := c; n != nil; n = n.parent {
		if n == child {
			return fmt.Errorf("%w: %s would become its own ancestor", ErrInvalidComponent, child)
		}
	}
	if !c.kind.accepts(child.kind) {
		return fmt.Errorf("%w: %s under %s", ErrIncompatibleChild, child.kind, c.kind)
	}
	if index < 0 || index > len(c.children) {
		return fmt.Errorf("%w: insert at %d of %d", ErrIndexOutOfRange, index, len(c.children))
	}
	if err := validateSubtree(child); err != nil {
		return err
	}

	c.children = append(c.children, nil)
	copy(c.children[index+1:], c.children[index:])
	c.children[index] = child
	child.parent = c
	c.changed()
	return nil
}

// validateSubtree returns the first geometry error below and including root.
func validateSubtree(root *Component) error {
	var err error
	root.Walk(func(c *Component) bool {
		if err != nil {
			return false
		}
		if c.shape == nil {
			return true
		}
		if verr := c.shape.validate(); verr != nil {
			err = fmt.Errorf("%s: %w", c, verr)
			return false
		}
		return true
	})
	return err
}

// RemoveChild detaches child and its whole subtree.
func (c *Component) RemoveChild(child *Component) error {
	for i, ch := range c.children {
		if ch == child {
			// Bump while still attached so the owning rocket sees the change.
			c.changed()
			c.children = append(c.children[:i], c.children[i+1:]...)
			child.parent = nil
			return nil
		}
	}
	return fmt.Errorf("%w: %v is not a child of %s", ErrInvalidArgument, child, c)
}

// Walk visits c and its descendants depth-first in pre-order, following
// child-list order. Returning false from fn prunes the subtree below that
// component.
func (c *Component) Walk(fn func(*Component) bool) {
	if !fn(c) {
		return
	}
	for _, ch := range c.children {
		ch.Walk(fn)
	}
}

// Stage returns the nearest enclosing stage, which may be c itself, or nil.
func (c *Component) Stage() *Component {
	for n := c; n != nil; n = n.parent {
		if n.IsStage() {
			return n
		}
	}
	return nil
}

// StageNumber returns the number of the nearest enclosing stage, or -1 for
// the root and for components outside any stage.
func (c *Component) StageNumber() int {
	s := c.Stage()
	if s == nil {
		return -1
	}
	if r := c.Rocket(); r != nil {
		return r.StageNumber(s)
	}
	if n, ok := numberStages(c.Root()).numbers[s]; ok {
		return n
	}
	return -1
}

func (c *Component) changed() {
	if r := c.Rocket(); r != nil {
		r.bump()
	}
}

// ---------- setters ----------

func (c *Component) SetName(name string) {
	if c.name == name {
		return
	}
	c.name = name
	c.changed()
}

func (c *Component) SetFinish(finish string) {
	c.finish = finish
	c.changed()
}

func (c *Component) SetMaterial(material string) {
	c.material = material
	c.changed()
}

func (c *Component) SetAxialMethod(m AxialMethod) error {
	if m < AxialAfter || m > AxialAbsolute {
		return fmt.Errorf("%w: axial method %d", ErrInvalidArgument, int(m))
	}
	c.axialMethod = m
	c.changed()
	return nil
}

func (c *Component) SetAxialOffset(offset float64) {
	c.axialOffset = offset
	c.changed()
}

// SetShape replaces the kind-specific payload after validating it.
func (c *Component) SetShape(s Shape) error {
	if s == nil || !shapeFits(c.kind, s) {
		return fmt.Errorf("%w: %T does not fit %s", ErrInvalidArgument, s, c.kind)
	}
	if err := s.validate(); err != nil {
		return err
	}
	c.shape = s
	c.changed()
	return nil
}

// SetLength sets the length of a tube or mass component.
func (c *Component) SetLength(length float64) error {
	switch s := c.shape.(type) {
	case TubeShape:
		s.Length = length
		return c.SetShape(s)
	case MassShape:
		s.Length = length
		return c.SetShape(s)
	case FinShape:
		s.RootChord = length
		return c.SetShape(s)
	default:
		return fmt.Errorf("%w: %s has no settable length", ErrInvalidArgument, c.kind)
	}
}

// SetOuterRadius sets both fore and aft radius of a tube. Nose cones keep a
// zero fore radius.
func (c *Component) SetOuterRadius(r float64) error {
	switch s := c.shape.(type) {
	case TubeShape:
		if c.kind != KindNoseCone {
			s.ForeRadius = r
		}
		s.AftRadius = r
		return c.SetShape(s)
	case MassShape:
		s.PackedRadius = r
		return c.SetShape(s)
	default:
		return fmt.Errorf("%w: %s has no outer radius", ErrInvalidArgument, c.kind)
	}
}

// SetInstanceCount sets the multiplicity of assemblies, fin sets and launch
// lugs. Inner tubes are instanced through SetClusterConfig.
func (c *Component) SetInstanceCount(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: instance count %d", ErrInvalidGeometry, n)
	}
	switch s := c.shape.(type) {
	case AssemblyShape:
		if c.kind == KindAxialStage || c.kind == KindRocket {
			break
		}
		s.InstanceCount = n
		return c.SetShape(s)
	case FinShape:
		s.FinCount = n
		return c.SetShape(s)
	case TubeShape:
		if c.kind != KindLaunchLug {
			break
		}
		s.InstanceCount = n
		return c.SetShape(s)
	}
	return fmt.Errorf("%w: %s instance count is fixed", ErrInvalidArgument, c.kind)
}

// SetFinCount is SetInstanceCount restricted to fin sets.
func (c *Component) SetFinCount(n int) error {
	if c.kind != KindFinSet {
		return fmt.Errorf("%w: %s is not a fin set", ErrInvalidArgument, c.kind)
	}
	return c.SetInstanceCount(n)
}

// SetClusterConfig sets the cluster pattern of an inner tube.
func (c *Component) SetClusterConfig(cfg ClusterConfig) error {
	s, ok := c.shape.(TubeShape)
	if !ok || c.kind != KindInnerTube {
		return fmt.Errorf("%w: %s cannot be clustered", ErrInvalidArgument, c.kind)
	}
	s.Cluster = cfg
	return c.SetShape(s)
}

// SetRadiusOffset sets how far a parallel stage or pod set sits from the
// axis, interpreted according to its radius method.
func (c *Component) SetRadiusOffset(method RadiusMethod, offset float64) error {
	s, ok := c.shape.(AssemblyShape)
	if !ok || !(c.kind == KindParallelStage || c.kind == KindPodSet) {
		return fmt.Errorf("%w: %s has no radial placement", ErrInvalidArgument, c.kind)
	}
	s.RadiusMethod = method
	s.RadiusOffset = offset
	return c.SetShape(s)
}

// SetAngleOffset sets the angular position of the first instance.
func (c *Component) SetAngleOffset(angle float64) error {
	switch s := c.shape.(type) {
	case AssemblyShape:
		s.AngleOffset = angle
		return c.SetShape(s)
	case TubeShape:
		s.AngleOffset = angle
		return c.SetShape(s)
	case FinShape:
		s.BaseRotation = angle
		return c.SetShape(s)
	default:
		return fmt.Errorf("%w: %s has no angle offset", ErrInvalidArgument, c.kind)
	}
}

// SetMotorMount flags a body tube or inner tube as carrying motors.
func (c *Component) SetMotorMount(mount bool) error {
	s, ok := c.shape.(TubeShape)
	if !ok || (c.kind != KindInnerTube && c.kind != KindBodyTube) {
		return fmt.Errorf("%w: %s", ErrNotMotorMount, c.kind)
	}
	s.MotorMount = mount
	return c.SetShape(s)
}
