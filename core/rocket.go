package core

import (
	"context"
	"fmt"

	"github.com/signalsfoundry/rocketcfg/internal/logging"
)

// ModID is a modification stamp. Each rocket owns a monotonic counter.
type ModID int64

// NeverComputed marks a cache entry that has not been filled yet.
const NeverComputed ModID = -1

// ReferenceType selects how a configuration derives its reference length.
type ReferenceType int

const (
	// ReferenceNoseCone uses the first active symmetric component, in
	// traversal order, with a usable radius.
	ReferenceNoseCone ReferenceType = iota
	// ReferenceMaximum uses the largest active symmetric diameter.
	ReferenceMaximum
	// ReferenceCustom uses the rocket's custom reference length.
	ReferenceCustom
)

func (t ReferenceType) String() string {
	switch t {
	case ReferenceNoseCone:
		return "nosecone"
	case ReferenceMaximum:
		return "maximum"
	case ReferenceCustom:
		return "custom"
	default:
		return fmt.Sprintf("ReferenceType(%d)", int(t))
	}
}

// ParseReferenceType accepts the names produced by ReferenceType.String.
func ParseReferenceType(s string) (ReferenceType, error) {
	switch s {
	case "nosecone", "":
		return ReferenceNoseCone, nil
	case "maximum":
		return ReferenceMaximum, nil
	case "custom":
		return ReferenceCustom, nil
	default:
		return ReferenceNoseCone, fmt.Errorf("%w: reference type %q", ErrInvalidArgument, s)
	}
}

// Rocket owns a component tree, its modification counter, its stage
// numbering and its flight-configuration registry. Callers serialize access;
// a Rocket performs no locking.
type Rocket struct {
	root  *Component
	modID ModID

	log     logging.Logger
	metrics MetricsRecorder
	ids     IDGenerator

	refType         ReferenceType
	customRefLength float64

	stageCache struct {
		mod ModID
		idx stageIndex
	}

	configs     map[FlightConfigurationID]*FlightConfiguration
	configOrder []FlightConfigurationID
	selected    FlightConfigurationID
	empty       *FlightConfiguration
}

// RocketOption customises Rocket construction.
type RocketOption func(*Rocket)

// WithLogger attaches a structured logger for engine events.
func WithLogger(l logging.Logger) RocketOption {
	return func(r *Rocket) {
		if l != nil {
			r.log = l
		}
	}
}

// WithMetrics attaches a recorder for enumeration and cache activity.
func WithMetrics(m MetricsRecorder) RocketOption {
	return func(r *Rocket) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithIDGenerator replaces the UUID generator used for configuration IDs.
func WithIDGenerator(g IDGenerator) RocketOption {
	return func(r *Rocket) {
		if g != nil {
			r.ids = g
		}
	}
}

// WithReferenceType sets the initial reference-length rule.
func WithReferenceType(t ReferenceType) RocketOption {
	return func(r *Rocket) {
		r.refType = t
	}
}

// NewRocket creates an empty vehicle. Its selected configuration is the empty
// configuration until another one is selected.
func NewRocket(name string, opts ...RocketOption) *Rocket {
	r := &Rocket{
		root:    newComponent(KindRocket, name, AxialAfter, AssemblyShape{InstanceCount: 1}),
		log:     logging.Noop(),
		metrics: noopMetrics{},
		ids:     UUIDGenerator{},
		configs: make(map[FlightConfigurationID]*FlightConfiguration),
	}
	r.root.owner = r
	r.stageCache.mod = NeverComputed
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	r.empty = newFlightConfiguration(r, DefaultConfigurationID, false)
	r.selected = DefaultConfigurationID
	r.metrics.SetConfigurationCount(0)
	return r
}

// Root returns the root component. Its children are the core stages.
func (r *Rocket) Root() *Component { return r.root }

func (r *Rocket) Name() string { return r.root.name }

func (r *Rocket) SetName(name string) { r.root.SetName(name) }

// AddStage appends an axial stage below the existing ones.
func (r *Rocket) AddStage(stage *Component) error {
	return r.root.AddChild(stage)
}

// ModID returns the current modification stamp of the tree.
func (r *Rocket) ModID() ModID { return r.modID }

func (r *Rocket) bump() { r.modID++ }

// Logger returns the engine logger.
func (r *Rocket) Logger() logging.Logger { return r.log }

// Walk visits every component below the root in depth-first pre-order.
func (r *Rocket) Walk(fn func(*Component) bool) {
	for _, ch := range r.root.children {
		ch.Walk(fn)
	}
}

// FindComponent returns the first component, in traversal order, with the
// given name.
func (r *Rocket) FindComponent(name string) *Component {
	var found *Component
	r.Walk(func(c *Component) bool {
		if found != nil {
			return false
		}
		if c.name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

func (r *Rocket) ReferenceType() ReferenceType { return r.refType }

func (r *Rocket) SetReferenceType(t ReferenceType) error {
	if t < ReferenceNoseCone || t > ReferenceCustom {
		return fmt.Errorf("%w: reference type %d", ErrInvalidArgument, int(t))
	}
	r.refType = t
	r.bump()
	return nil
}

func (r *Rocket) CustomReferenceLength() float64 { return r.customRefLength }

// SetCustomReferenceLength sets the length used by ReferenceCustom.
func (r *Rocket) SetCustomReferenceLength(length float64) error {
	if length <= 0 {
		r.log.Warn(context.Background(), "rejected custom reference length",
			logging.Float64("length", length))
		return fmt.Errorf("%w: reference length %g", ErrInvalidGeometry, length)
	}
	r.customRefLength = length
	r.bump()
	return nil
}

// enumerate runs the instance enumerator over the tree and reports it.
func (r *Rocket) enumerate(active StagePredicate) *InstanceMap {
	m := Enumerate(r.root, active)
	r.metrics.ObserveEnumeration(m.InstanceCount())
	return m
}
