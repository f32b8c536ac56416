package core

// StagePredicate reports whether a stage number is active.
type StagePredicate func(stage int) bool

// AllStages is a predicate that activates every stage.
func AllStages(int) bool { return true }

// InstanceContext is one placed instance of a component.
type InstanceContext struct {
	Component *Component
	// InstanceNumber is 0-based within the owning parent instance.
	InstanceNumber int
	// RocketInstanceNumber is a running counter over the whole enumeration.
	RocketInstanceNumber int
	// Transform maps the component's local frame to the vehicle frame.
	Transform Transform
}

// Location returns the vehicle-frame position of the instance's local origin.
func (ic InstanceContext) Location() Vec3 { return ic.Transform.Location() }

// InstanceMap maps each enumerated component to its instances. Components
// keep the order in which they were first reached.
type InstanceMap struct {
	order    []*Component
	contexts map[*Component][]InstanceContext
	total    int
}

func newInstanceMap() *InstanceMap {
	return &InstanceMap{contexts: make(map[*Component][]InstanceContext)}
}

func (m *InstanceMap) add(ic InstanceContext) {
	if _, seen := m.contexts[ic.Component]; !seen {
		m.order = append(m.order, ic.Component)
	}
	m.contexts[ic.Component] = append(m.contexts[ic.Component], ic)
	m.total++
}

// Components returns the enumerated components in traversal order.
func (m *InstanceMap) Components() []*Component {
	out := make([]*Component, len(m.order))
	copy(out, m.order)
	return out
}

// Contexts returns the instances of c, or nil if c was not enumerated.
func (m *InstanceMap) Contexts(c *Component) []InstanceContext {
	return m.contexts[c]
}

// Contains reports whether c was enumerated.
func (m *InstanceMap) Contains(c *Component) bool {
	_, ok := m.contexts[c]
	return ok
}

// Len returns the number of distinct components.
func (m *InstanceMap) Len() int { return len(m.order) }

// InstanceCount returns the total number of instance contexts.
func (m *InstanceMap) InstanceCount() int { return m.total }

// Enumerate expands the tree below root into placed instances. A stage for
// which active returns false is skipped together with its whole subtree. The
// root itself is traversed but not recorded.
//
// Each component yields one context per (parent instance, own instance)
// pair, ordered by parent instance then own instance.
func Enumerate(root *Component, active StagePredicate) *InstanceMap {
	m := newInstanceMap()
	if root == nil {
		return m
	}
	if active == nil {
		active = AllStages
	}
	e := enumerator{
		stages: numberStages(root),
		active: active,
		out:    m,
	}
	top := IdentityTransform()
	for _, ch := range root.children {
		e.expand(ch, top)
	}
	return m
}

type enumerator struct {
	stages  stageIndex
	active  StagePredicate
	out     *InstanceMap
	counter int
}

func (e *enumerator) expand(c *Component, parent Transform) {
	if c.IsStage() && !e.active(e.stages.numbers[c]) {
		return
	}
	base := parent.Then(Translation(c.Position()))
	offsets := c.InstanceOffsets()
	angles := c.InstanceAngles()
	for i, off := range offsets {
		tr := base.Then(Translation(off))
		if i < len(angles) && angles[i] != 0 {
			tr = tr.Then(AxialRotation(angles[i]))
		}
		e.out.add(InstanceContext{
			Component:            c,
			InstanceNumber:       i,
			RocketInstanceNumber: e.counter,
			Transform:            tr,
		})
		e.counter++
		for _, ch := range c.children {
			e.expand(ch, tr)
		}
	}
}
