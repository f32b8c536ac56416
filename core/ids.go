package core

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// FlightConfigurationID identifies a flight configuration within one rocket.
type FlightConfigurationID string

// DefaultConfigurationID is the identifier of a rocket's empty configuration.
const DefaultConfigurationID FlightConfigurationID = "default"

// IDGenerator produces identifiers for components and flight configurations.
// A rocket owns its generator; there is no package-level generator state.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator returns random UUIDv4 strings.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID() string { return uuid.NewString() }

// CounterGenerator returns prefix-1, prefix-2, ... . It is useful for tests
// and for reproducible CLI output.
type CounterGenerator struct {
	Prefix string
	n      atomic.Int64
}

// NewCounterGenerator returns a counter generator with the given prefix.
func NewCounterGenerator(prefix string) *CounterGenerator {
	return &CounterGenerator{Prefix: prefix}
}

// NewID implements IDGenerator.
func (g *CounterGenerator) NewID() string {
	return g.Prefix + "-" + strconv.FormatInt(g.n.Add(1), 10)
}
