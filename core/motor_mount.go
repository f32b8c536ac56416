package core

import (
	"fmt"
	"sort"

	"github.com/signalsfoundry/rocketcfg/model"
)

// ActiveMotor is one loaded mount in an active part of the vehicle.
type ActiveMotor struct {
	Mount       *Component
	Config      model.MotorConfig
	StageNumber int
	// Count is the number of motors per instance of the mount's parent
	// (the cluster size for inner tubes).
	Count int
}

// SetMotorConfig loads a motor into the mount for the given configuration.
func (c *Component) SetMotorConfig(id FlightConfigurationID, cfg model.MotorConfig) error {
	if !c.IsMotorMount() {
		return fmt.Errorf("%w: %s", ErrNotMotorMount, c)
	}
	if id == "" {
		return fmt.Errorf("%w: empty configuration id", ErrInvalidArgument)
	}
	if c.motors == nil {
		c.motors = make(map[FlightConfigurationID]model.MotorConfig)
	}
	c.motors[id] = cfg
	c.changed()
	return nil
}

// MotorConfig returns the motor loaded for id, if any.
func (c *Component) MotorConfig(id FlightConfigurationID) (model.MotorConfig, bool) {
	cfg, ok := c.motors[id]
	return cfg, ok
}

// MotorConfigCount returns how many configurations load a motor in this mount.
func (c *Component) MotorConfigCount() int { return len(c.motors) }

// MotorConfigIDs returns the configurations with a motor in this mount,
// sorted.
func (c *Component) MotorConfigIDs() []FlightConfigurationID {
	out := make([]FlightConfigurationID, 0, len(c.motors))
	for id := range c.motors {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ClearMotorConfig unloads the mount for id.
func (c *Component) ClearMotorConfig(id FlightConfigurationID) {
	if _, ok := c.motors[id]; !ok {
		return
	}
	delete(c.motors, id)
	c.changed()
}

// copyMotorConfigs duplicates every mount's assignment from src to dst in the
// tree rooted at root. It reports whether anything changed.
func copyMotorConfigs(root *Component, src, dst FlightConfigurationID) bool {
	copied := false
	root.Walk(func(c *Component) bool {
		if cfg, ok := c.motors[src]; ok {
			c.motors[dst] = cfg
			copied = true
		}
		return true
	})
	return copied
}

func clearMotorConfigs(root *Component, id FlightConfigurationID) bool {
	cleared := false
	root.Walk(func(c *Component) bool {
		if _, ok := c.motors[id]; ok {
			delete(c.motors, id)
			cleared = true
		}
		return true
	})
	return cleared
}
