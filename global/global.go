// Package global defines kernel-wide properties: one typed value per
// kernel with a default, mutations delivering deferred notifications that
// carry the replaced value.
package global

import (
	"github.com/teranos/SIMYX/errors"
	"github.com/teranos/SIMYX/sim"
)

type state[V any] struct {
	value     V
	observers []func(*sim.Kernel, V)
}

// Type is the handle for a defined global property; the zero Type is
// unusable.
type Type[V any] struct {
	module sim.ModuleType[state[V]]
	name   string
}

// Name returns the property name passed to Define.
func (g Type[V]) Name() string {
	return g.name
}

// Define registers a global property under a unique name with a default
// value and returns its handle.
func Define[V any](name string, def V) Type[V] {
	if name == "" {
		panic(errors.Wrap(errors.ErrModuleConflict, "empty global property name"))
	}
	module := sim.RegisterModule("global."+name, func() *state[V] {
		return &state[V]{value: def}
	})
	return Type[V]{module: module, name: name}
}

// Get returns the kernel's current value for g.
func Get[V any](k *sim.Kernel, g Type[V]) V {
	return sim.DataFor(k, g.module).value
}

// Set assigns the kernel's value for g and queues one deferred
// notification per observer carrying the replaced value.
func Set[V any](k *sim.Kernel, g Type[V], v V) {
	data := sim.DataFor(k, g.module)
	old := data.value
	data.value = v

	for _, fn := range data.observers {
		k.QueueCallback(func(k *sim.Kernel) { fn(k, old) })
	}
}

// Observe registers fn to run, deferred, after every subsequent Set of g.
func Observe[V any](k *sim.Kernel, g Type[V], fn func(k *sim.Kernel, old V)) {
	if fn == nil {
		return
	}
	data := sim.DataFor(k, g.module)
	data.observers = append(data.observers, fn)
}
