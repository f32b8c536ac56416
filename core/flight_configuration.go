package core

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/signalsfoundry/rocketcfg/internal/logging"
)

// DefaultNameTemplate is the name template of a configuration that has not
// been renamed.
const DefaultNameTemplate = "[{motors}]"

// FlightConfiguration is one stage-activation scenario over a rocket, plus
// the derived quantities cached for it. It holds a non-owning reference to
// the rocket and never mutates the tree when its activation changes.
type FlightConfiguration struct {
	rocket *Rocket
	id     FlightConfigurationID

	nameTemplate string

	// stageActive is sparse; absent stages take defaultActive.
	stageActive   map[int]bool
	defaultActive bool
	modID         ModID

	bounds    cached[boundsResult]
	reference cached[float64]
	motors    cached[[]ActiveMotor]
}

// NewFlightConfiguration creates an unregistered configuration on r with all
// stages active. An empty id is replaced by one unique in r's registry.
func NewFlightConfiguration(r *Rocket, id FlightConfigurationID) (*FlightConfiguration, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil rocket", ErrInvalidArgument)
	}
	if id == DefaultConfigurationID {
		return nil, fmt.Errorf("%w: %q is reserved for the empty configuration", ErrInvalidArgument, id)
	}
	if id == "" {
		id = r.newConfigID()
	}
	return newFlightConfiguration(r, id, true), nil
}

func newFlightConfiguration(r *Rocket, id FlightConfigurationID, defaultActive bool) *FlightConfiguration {
	return &FlightConfiguration{
		rocket:        r,
		id:            id,
		nameTemplate:  DefaultNameTemplate,
		stageActive:   make(map[int]bool),
		defaultActive: defaultActive,
		bounds:        newCached[boundsResult](),
		reference:     newCached[float64](),
		motors:        newCached[[]ActiveMotor](),
	}
}

func (fc *FlightConfiguration) ID() FlightConfigurationID { return fc.id }

func (fc *FlightConfiguration) Rocket() *Rocket { return fc.rocket }

// IsEmpty reports whether fc is the rocket's dedicated empty configuration.
func (fc *FlightConfiguration) IsEmpty() bool { return fc.id == DefaultConfigurationID }

// ModID returns the activation stamp. It advances on every activation change
// and is independent of the tree's counter.
func (fc *FlightConfiguration) ModID() ModID { return fc.modID }

func (fc *FlightConfiguration) stamp() cacheStamp {
	return cacheStamp{Tree: fc.rocket.modID, Config: fc.modID}
}

func (fc *FlightConfiguration) touch() { fc.modID++ }

// ---------- activation ----------

// StageCount returns the number of stages of the rocket.
func (fc *FlightConfiguration) StageCount() int { return fc.rocket.StageCount() }

func (fc *FlightConfiguration) checkStage(n int) error {
	if count := fc.StageCount(); n < 0 || n >= count {
		fc.rocket.log.Warn(context.Background(), "stage number out of range",
			logging.String("config_id", string(fc.id)),
			logging.Int("stage", n),
			logging.Int("stage_count", count),
		)
		return fmt.Errorf("%w: stage %d of %d", ErrIndexOutOfRange, n, count)
	}
	return nil
}

// IsStageActive reports whether stage n is active; out-of-range stages are
// reported inactive.
func (fc *FlightConfiguration) IsStageActive(n int) bool {
	if n < 0 || n >= fc.StageCount() {
		return false
	}
	return fc.activeUnchecked(n)
}

// StageActive is IsStageActive that fails for out-of-range stages.
func (fc *FlightConfiguration) StageActive(n int) (bool, error) {
	if err := fc.checkStage(n); err != nil {
		return false, err
	}
	return fc.activeUnchecked(n), nil
}

func (fc *FlightConfiguration) activeUnchecked(n int) bool {
	if v, ok := fc.stageActive[n]; ok {
		return v
	}
	return fc.defaultActive
}

func (fc *FlightConfiguration) setAll(active bool) {
	for n := range fc.StageCount() {
		fc.stageActive[n] = active
	}
	fc.touch()
}

// SetAllStages activates every stage.
func (fc *FlightConfiguration) SetAllStages() { fc.setAll(true) }

// ClearAllStages deactivates every stage.
func (fc *FlightConfiguration) ClearAllStages() { fc.setAll(false) }

// SetOnlyStage activates stage n alone. Parallel stages attached to n are
// not activated; use ActivateStagesThrough for a flyable stack.
func (fc *FlightConfiguration) SetOnlyStage(n int) error {
	if err := fc.checkStage(n); err != nil {
		return err
	}
	for i := range fc.StageCount() {
		fc.stageActive[i] = false
	}
	fc.stageActive[n] = true
	fc.touch()
	return nil
}

// ToggleStage flips stage n and sets its parallel stages to the new value.
func (fc *FlightConfiguration) ToggleStage(n int) error {
	if err := fc.checkStage(n); err != nil {
		return err
	}
	fc.setActive(n, !fc.activeUnchecked(n), true)
	return nil
}

// ClearStage deactivates stage n and its parallel stages.
func (fc *FlightConfiguration) ClearStage(n int) error {
	return fc.SetStageActive(n, false)
}

// SetStageActive sets stage n and its parallel stages. It does not enforce
// stacking, so non-physical combinations can be built.
func (fc *FlightConfiguration) SetStageActive(n int, active bool) error {
	if err := fc.checkStage(n); err != nil {
		return err
	}
	fc.setActive(n, active, true)
	return nil
}

// SetStageActiveOnly sets stage n without touching its parallel stages.
func (fc *FlightConfiguration) SetStageActiveOnly(n int, active bool) error {
	if err := fc.checkStage(n); err != nil {
		return err
	}
	fc.setActive(n, active, false)
	return nil
}

func (fc *FlightConfiguration) setActive(n int, active, subStages bool) {
	fc.stageActive[n] = active
	if subStages {
		for _, s := range fc.rocket.subStageNumbers(n) {
			fc.stageActive[s] = active
		}
	}
	fc.touch()
}

// ActivateStagesThrough activates every stage from the nose down to the one
// containing c, with their parallel stages, and deactivates the rest.
func (fc *FlightConfiguration) ActivateStagesThrough(c *Component) error {
	if c == nil || c.Rocket() != fc.rocket {
		return fmt.Errorf("%w: component not in this rocket", ErrInvalidArgument)
	}
	last := c.StageNumber()
	if last < 0 {
		return fmt.Errorf("%w: %s is not inside a stage", ErrInvalidArgument, c)
	}
	for i := range fc.StageCount() {
		fc.stageActive[i] = false
	}
	for i := 0; i <= last; i++ {
		fc.setActive(i, true, true)
	}
	return nil
}

// ActiveStageCount returns how many stages are active.
func (fc *FlightConfiguration) ActiveStageCount() int {
	return len(fc.ActiveStages())
}

// ActiveStages returns the active stage numbers in ascending order.
func (fc *FlightConfiguration) ActiveStages() []int {
	var out []int
	for n := range fc.StageCount() {
		if fc.activeUnchecked(n) {
			out = append(out, n)
		}
	}
	return out
}

// IsComponentActive reports whether c belongs to the rocket and every stage
// enclosing it is active.
func (fc *FlightConfiguration) IsComponentActive(c *Component) bool {
	if c == nil || c.Rocket() != fc.rocket {
		return false
	}
	for n := c; n != nil; n = n.parent {
		if n.IsStage() && !fc.IsStageActive(fc.rocket.StageNumber(n)) {
			return false
		}
	}
	return true
}

// Predicate returns fc's stage predicate for use with Enumerate.
func (fc *FlightConfiguration) Predicate() StagePredicate {
	return fc.IsStageActive
}

// ---------- queries ----------

// ActiveComponents returns every active component below the root in
// depth-first pre-order.
func (fc *FlightConfiguration) ActiveComponents() []*Component {
	var out []*Component
	fc.rocket.Walk(func(c *Component) bool {
		if c.IsStage() && !fc.IsStageActive(fc.rocket.StageNumber(c)) {
			return false
		}
		out = append(out, c)
		return true
	})
	return out
}

// CoreComponents returns the active components of the core column in
// breadth-first order: axial stages are followed only when active, and
// parallel stages and pod sets are left out with their contents.
func (fc *FlightConfiguration) CoreComponents() []*Component {
	var out []*Component
	queue := fc.rocket.root.Children()
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		switch c.kind {
		case KindAxialStage:
			if !fc.IsStageActive(fc.rocket.StageNumber(c)) {
				continue
			}
		case KindParallelStage, KindPodSet:
			continue
		}
		out = append(out, c)
		queue = append(queue, c.children...)
	}
	return out
}

// ActiveInstances enumerates the active part of the tree. The result is
// never cached.
func (fc *FlightConfiguration) ActiveInstances() *InstanceMap {
	return fc.rocket.enumerate(fc.IsStageActive)
}

// ActiveMotors returns the loaded mounts in the active part of the tree, in
// traversal order.
func (fc *FlightConfiguration) ActiveMotors() []ActiveMotor {
	motors := readThrough(fc, QuantityMotors, &fc.motors, fc.computeActiveMotors)
	return slices.Clone(motors)
}

func (fc *FlightConfiguration) computeActiveMotors() []ActiveMotor {
	var out []ActiveMotor
	for _, c := range fc.ActiveComponents() {
		if !c.IsMotorMount() {
			continue
		}
		cfg, ok := c.MotorConfig(fc.id)
		if !ok || cfg.IsEmpty() {
			continue
		}
		out = append(out, ActiveMotor{
			Mount:       c,
			Config:      cfg,
			StageNumber: c.StageNumber(),
			Count:       c.InstanceCount(),
		})
	}
	return out
}

// ---------- naming ----------

// SetName sets the name template. An empty template restores the default.
func (fc *FlightConfiguration) SetName(template string) {
	if template == "" {
		template = DefaultNameTemplate
	}
	fc.nameTemplate = template
}

func (fc *FlightConfiguration) NameTemplate() string { return fc.nameTemplate }

// IsNameOverridden reports whether the template differs from the default.
func (fc *FlightConfiguration) IsNameOverridden() bool {
	return fc.nameTemplate != DefaultNameTemplate
}

// Name renders the name template against the current activation.
func (fc *FlightConfiguration) Name() string {
	return FormatName(fc.nameTemplate, fc)
}

// ---------- clone / copy ----------

// Clone returns an independent configuration with the same rocket and ID.
// Cached values are copied but their stamps are reset.
func (fc *FlightConfiguration) Clone() *FlightConfiguration {
	cl := &FlightConfiguration{
		rocket:        fc.rocket,
		id:            fc.id,
		nameTemplate:  fc.nameTemplate,
		stageActive:   maps.Clone(fc.stageActive),
		defaultActive: fc.defaultActive,
		modID:         fc.modID,
		bounds:        fc.bounds,
		reference:     fc.reference,
		motors:        cached[[]ActiveMotor]{value: slices.Clone(fc.motors.value)},
	}
	cl.bounds.reset()
	cl.reference.reset()
	cl.motors.reset()
	return cl
}

// Copy is Clone with a new identifier: newID, or a generated one when empty.
// The copy is not registered and the tree is left alone; motor assignments
// are duplicated by Rocket.CopyFlightConfiguration once the copy is
// registered.
func (fc *FlightConfiguration) Copy(newID FlightConfigurationID) (*FlightConfiguration, error) {
	r := fc.rocket
	if newID == "" {
		newID = r.newConfigID()
	}
	if _, exists := r.configs[newID]; exists || newID == DefaultConfigurationID || newID == fc.id {
		return nil, fmt.Errorf("%w: flight configuration %q already exists", ErrInvalidArgument, newID)
	}
	cp := fc.Clone()
	cp.id = newID
	cp.defaultActive = true
	if fc.IsEmpty() {
		// Materialise the empty configuration's inactive default.
		for n := range fc.StageCount() {
			if _, ok := cp.stageActive[n]; !ok {
				cp.stageActive[n] = false
			}
		}
	}
	return cp, nil
}

// Equal reports whether two configurations describe the same scenario: same
// rocket, same identifier, same template and same per-stage activation.
func (fc *FlightConfiguration) Equal(other *FlightConfiguration) bool {
	if fc == nil || other == nil {
		return fc == other
	}
	if fc.rocket != other.rocket || fc.id != other.id || fc.nameTemplate != other.nameTemplate {
		return false
	}
	for n := range fc.StageCount() {
		if fc.activeUnchecked(n) != other.activeUnchecked(n) {
			return false
		}
	}
	return true
}

func (fc *FlightConfiguration) String() string {
	return fmt.Sprintf("FlightConfiguration(%s, %s)", fc.id, fc.Name())
}
