package kb

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/signalsfoundry/rocketcfg/model"
)

// EventType indicates what kind of change happened in the catalog.
type EventType int

const (
	EventMotorAdded EventType = iota
	EventMotorRemoved
)

// Event is emitted to subscribers when the catalog changes.
type Event struct {
	Type  EventType
	Motor model.Motor
}

// MotorCatalog is an in-memory, thread-safe store of motors keyed by
// designation.
type MotorCatalog struct {
	mu sync.RWMutex

	motors map[string]*model.Motor

	subs   map[int]func(Event)
	nextID int
}

// NewMotorCatalog constructs an empty catalog.
func NewMotorCatalog() *MotorCatalog {
	return &MotorCatalog{
		motors: make(map[string]*model.Motor),
		subs:   make(map[int]func(Event)),
	}
}

// AddMotor adds a motor. It returns an error if the designation is empty or
// already exists.
func (c *MotorCatalog) AddMotor(m model.Motor) error {
	if strings.TrimSpace(m.Designation) == "" {
		return fmt.Errorf("motor designation is empty")
	}

	c.mu.Lock()
	if _, exists := c.motors[m.Designation]; exists {
		c.mu.Unlock()
		return fmt.Errorf("motor %q already exists", m.Designation)
	}
	stored := m
	stored.Delays = append([]float64(nil), m.Delays...)
	c.motors[m.Designation] = &stored
	subs := c.snapshotSubsLocked()
	c.mu.Unlock()

	// Notify subscribers outside the lock to avoid deadlocks.
	notify(subs, Event{Type: EventMotorAdded, Motor: stored})
	return nil
}

// RemoveMotor deletes a motor by designation.
func (c *MotorCatalog) RemoveMotor(designation string) error {
	c.mu.Lock()
	m, ok := c.motors[designation]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("motor %q not found", designation)
	}
	delete(c.motors, designation)
	subs := c.snapshotSubsLocked()
	c.mu.Unlock()

	notify(subs, Event{Type: EventMotorRemoved, Motor: *m})
	return nil
}

// Motor returns a copy of the motor with the given designation.
func (c *MotorCatalog) Motor(designation string) (model.Motor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.motors[designation]
	if !ok {
		return model.Motor{}, false
	}
	return *m, true
}

// MustMotor is Motor for fixtures whose catalog is known to be complete.
func (c *MotorCatalog) MustMotor(designation string) model.Motor {
	m, ok := c.Motor(designation)
	if !ok {
		panic(fmt.Sprintf("motor %q not in catalog", designation))
	}
	return m
}

// ListMotors returns a snapshot of all motors sorted by designation.
func (c *MotorCatalog) ListMotors() []model.Motor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]model.Motor, 0, len(c.motors))
	for _, m := range c.motors {
		res = append(res, *m)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Designation < res[j].Designation })
	return res
}

// ByManufacturer returns the motors of one manufacturer, matched by name or
// abbreviation without regard to case, sorted by designation.
func (c *MotorCatalog) ByManufacturer(name string) []model.Motor {
	var res []model.Motor
	for _, m := range c.ListMotors() {
		if strings.EqualFold(m.Manufacturer.Name, name) || strings.EqualFold(m.Manufacturer.Abbreviation, name) {
			res = append(res, m)
		}
	}
	return res
}

// Len returns the number of motors.
func (c *MotorCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.motors)
}

// Subscribe registers a callback for catalog events. It returns an
// unsubscribe function.
func (c *MotorCatalog) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *MotorCatalog) snapshotSubsLocked() []func(Event) {
	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(Event), len(ids))
	for i, id := range ids {
		out[i] = c.subs[id]
	}
	return out
}

func notify(subs []func(Event), e Event) {
	for _, sub := range subs {
		sub(e)
	}
}
