package model

import (
	"fmt"
	"strconv"
)

// DelayPlugged is the ejection delay of a motor with no ejection charge.
const DelayPlugged = -1.0

// Manufacturer identifies a motor maker.
type Manufacturer struct {
	Name         string `json:"name" toml:"name"`
	Abbreviation string `json:"abbreviation,omitempty" toml:"abbreviation,omitempty"`
}

// Motor is a catalogue entry. Thrust curves are out of scope; only the
// identity and outline dimensions are kept.
type Motor struct {
	Designation  string       `json:"designation" toml:"designation"`
	Manufacturer Manufacturer `json:"manufacturer" toml:"manufacturer"`
	// Diameter and Length are in metres.
	Diameter float64 `json:"diameter" toml:"diameter"`
	Length   float64 `json:"length" toml:"length"`
	// TotalImpulse is in newton-seconds.
	TotalImpulse float64   `json:"total_impulse" toml:"total_impulse"`
	Delays       []float64 `json:"delays,omitempty" toml:"delays,omitempty"`
}

// ImpulseClass returns the letter class of the motor derived from its total
// impulse (A: up to 2.5 Ns, each later letter doubling).
func (m Motor) ImpulseClass() string {
	if m.TotalImpulse <= 0 {
		return ""
	}
	limit := 2.5
	for c := 'A'; c <= 'Z'; c++ {
		if m.TotalImpulse <= limit {
			return string(c)
		}
		limit *= 2
	}
	return "Z+"
}

// IgnitionEvent says when a motor lights.
type IgnitionEvent int

const (
	IgnitionAutomatic IgnitionEvent = iota
	IgnitionLaunch
	IgnitionEjectionCharge
	IgnitionBurnout
	IgnitionNever
)

func (e IgnitionEvent) String() string {
	switch e {
	case IgnitionAutomatic:
		return "automatic"
	case IgnitionLaunch:
		return "launch"
	case IgnitionEjectionCharge:
		return "ejection"
	case IgnitionBurnout:
		return "burnout"
	case IgnitionNever:
		return "never"
	default:
		return fmt.Sprintf("IgnitionEvent(%d)", int(e))
	}
}

// ParseIgnitionEvent accepts the names produced by IgnitionEvent.String. An
// empty string is IgnitionAutomatic.
func ParseIgnitionEvent(s string) (IgnitionEvent, error) {
	for e := IgnitionAutomatic; e <= IgnitionNever; e++ {
		if s == e.String() {
			return e, nil
		}
	}
	if s == "" {
		return IgnitionAutomatic, nil
	}
	return IgnitionAutomatic, fmt.Errorf("unknown ignition event %q", s)
}

// MotorConfig is the motor loaded in one mount for one flight configuration.
type MotorConfig struct {
	Motor         Motor
	EjectionDelay float64
	IgnitionEvent IgnitionEvent
	IgnitionDelay float64
}

// IsEmpty reports whether no motor is loaded.
func (c MotorConfig) IsEmpty() bool {
	return c.Motor.Designation == ""
}

// EjectionDelayString renders the delay: "P" for plugged, otherwise the
// shortest decimal form ("0", "3", "4.5").
func (c MotorConfig) EjectionDelayString() string {
	if c.EjectionDelay == DelayPlugged || c.EjectionDelay < 0 {
		return "P"
	}
	return strconv.FormatFloat(c.EjectionDelay, 'f', -1, 64)
}

// Describe returns the designation with its delay, e.g. "G77-0".
func (c MotorConfig) Describe() string {
	if c.IsEmpty() {
		return ""
	}
	return c.Motor.Designation + "-" + c.EjectionDelayString()
}
