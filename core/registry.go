package core

import (
	"context"
	"fmt"

	"github.com/signalsfoundry/rocketcfg/internal/logging"
)

// CreateFlightConfiguration registers a new configuration. An empty id is
// replaced by a generated one; a duplicate id is rejected.
func (r *Rocket) CreateFlightConfiguration(id FlightConfigurationID) (*FlightConfiguration, error) {
	fc, err := NewFlightConfiguration(r, id)
	if err != nil {
		return nil, err
	}
	if err := r.register(fc); err != nil {
		return nil, err
	}
	return fc, nil
}

func (r *Rocket) register(fc *FlightConfiguration) error {
	if _, exists := r.configs[fc.id]; exists || fc.id == DefaultConfigurationID {
		r.log.Warn(context.Background(), "rejected duplicate flight configuration",
			logging.String("config_id", string(fc.id)))
		return fmt.Errorf("%w: flight configuration %q already exists", ErrInvalidArgument, fc.id)
	}
	r.configs[fc.id] = fc
	r.configOrder = append(r.configOrder, fc.id)
	r.metrics.SetConfigurationCount(len(r.configOrder))
	r.log.Info(context.Background(), "flight configuration created",
		logging.String("config_id", string(fc.id)),
		logging.Int("configurations", len(r.configOrder)),
	)
	return nil
}

// newConfigID returns a generated identifier not yet used in the registry.
func (r *Rocket) newConfigID() FlightConfigurationID {
	for {
		id := FlightConfigurationID(r.ids.NewID())
		if _, exists := r.configs[id]; !exists && id != DefaultConfigurationID && id != "" {
			return id
		}
	}
}

// FlightConfiguration returns the configuration registered under id.
// DefaultConfigurationID resolves to the empty configuration.
func (r *Rocket) FlightConfiguration(id FlightConfigurationID) (*FlightConfiguration, bool) {
	if id == DefaultConfigurationID {
		return r.empty, true
	}
	fc, ok := r.configs[id]
	return fc, ok
}

// FlightConfigurationByIndex returns the i-th registered configuration in
// creation order.
func (r *Rocket) FlightConfigurationByIndex(i int) (*FlightConfiguration, error) {
	if i < 0 || i >= len(r.configOrder) {
		return nil, fmt.Errorf("%w: configuration index %d of %d", ErrIndexOutOfRange, i, len(r.configOrder))
	}
	return r.configs[r.configOrder[i]], nil
}

// FlightConfigurationByIndexTolerant is FlightConfigurationByIndex that
// returns the empty configuration instead of failing.
func (r *Rocket) FlightConfigurationByIndexTolerant(i int) *FlightConfiguration {
	fc, err := r.FlightConfigurationByIndex(i)
	if err != nil {
		return r.empty
	}
	return fc
}

// IDs returns the registered configuration identifiers in creation order.
func (r *Rocket) IDs() []FlightConfigurationID {
	out := make([]FlightConfigurationID, len(r.configOrder))
	copy(out, r.configOrder)
	return out
}

// ConfigurationCount returns the number of registered configurations. The
// empty configuration is not counted.
func (r *Rocket) ConfigurationCount() int { return len(r.configOrder) }

// EmptyConfiguration returns the rocket's dedicated default configuration,
// whose stages default to inactive.
func (r *Rocket) EmptyConfiguration() *FlightConfiguration { return r.empty }

// SelectedConfiguration returns the currently selected configuration.
func (r *Rocket) SelectedConfiguration() *FlightConfiguration {
	if fc, ok := r.FlightConfiguration(r.selected); ok {
		return fc
	}
	return r.empty
}

// SetSelectedConfiguration selects a registered configuration (or the empty
// one via DefaultConfigurationID).
func (r *Rocket) SetSelectedConfiguration(id FlightConfigurationID) error {
	if _, ok := r.FlightConfiguration(id); !ok {
		r.log.Warn(context.Background(), "rejected unknown flight configuration",
			logging.String("config_id", string(id)))
		return fmt.Errorf("%w: unknown flight configuration %q", ErrInvalidArgument, id)
	}
	r.selected = id
	r.log.Info(context.Background(), "flight configuration selected",
		logging.String("config_id", string(id)))
	return nil
}

// RemoveFlightConfiguration unregisters id and unloads its motors. Removing
// the selected configuration selects the empty one.
func (r *Rocket) RemoveFlightConfiguration(id FlightConfigurationID) error {
	if _, ok := r.configs[id]; !ok {
		return fmt.Errorf("%w: unknown flight configuration %q", ErrInvalidArgument, id)
	}
	delete(r.configs, id)
	for i, existing := range r.configOrder {
		if existing == id {
			r.configOrder = append(r.configOrder[:i], r.configOrder[i+1:]...)
			break
		}
	}
	if clearMotorConfigs(r.root, id) {
		r.bump()
	}
	if r.selected == id {
		r.selected = DefaultConfigurationID
	}
	r.metrics.SetConfigurationCount(len(r.configOrder))
	r.log.Info(context.Background(), "flight configuration removed",
		logging.String("config_id", string(id)),
		logging.Int("configurations", len(r.configOrder)),
	)
	return nil
}

// CopyFlightConfiguration copies src, motors included, and registers the copy.
func (r *Rocket) CopyFlightConfiguration(src FlightConfigurationID, newID FlightConfigurationID) (*FlightConfiguration, error) {
	fc, ok := r.FlightConfiguration(src)
	if !ok {
		return nil, fmt.Errorf("%w: unknown flight configuration %q", ErrInvalidArgument, src)
	}
	cp, err := fc.Copy(newID)
	if err != nil {
		return nil, err
	}
	if err := r.register(cp); err != nil {
		return nil, err
	}
	if copyMotorConfigs(r.root, src, cp.id) {
		r.bump()
	}
	return cp, nil
}
