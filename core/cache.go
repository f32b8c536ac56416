package core

import (
	"context"

	"github.com/signalsfoundry/rocketcfg/internal/logging"
)

// cacheStamp records the tree and activation stamps a value was computed at.
type cacheStamp struct {
	Tree   ModID
	Config ModID
}

var neverComputed = cacheStamp{Tree: NeverComputed, Config: NeverComputed}

// cached is one derived quantity together with its validity stamp.
type cached[T any] struct {
	value T
	stamp cacheStamp
}

func newCached[T any]() cached[T] {
	return cached[T]{stamp: neverComputed}
}

// reset keeps the value but forces the next read to recompute.
func (c *cached[T]) reset() { c.stamp = neverComputed }

// readThrough returns the cached value when its stamp matches the current
// tree and activation stamps, and recomputes it otherwise.
func readThrough[T any](fc *FlightConfiguration, quantity string, c *cached[T], compute func() T) T {
	now := fc.stamp()
	if c.stamp == now {
		fc.rocket.metrics.ObserveCacheLookup(quantity, true)
		return c.value
	}
	fc.rocket.metrics.ObserveCacheLookup(quantity, false)
	fc.rocket.log.Debug(context.Background(), "recomputing cached quantity",
		logging.String("quantity", quantity),
		logging.String("config_id", string(fc.id)),
		logging.Int64("tree_mod", int64(now.Tree)),
		logging.Int64("config_mod", int64(now.Config)),
	)
	c.value = compute()
	c.stamp = now
	return c.value
}
