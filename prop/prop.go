// Package prop defines per-entity properties: named, typed values with a
// default, stored per kernel in auto-growing vectors. An entity that was
// never assigned reads the default.
//
// Mutation follows the change notification protocol, in this order:
// immediate hooks capture their pre-mutation context, the old value is
// snapshotted when observers exist, the value is written, the hooks'
// finishers run synchronously, and one deferred notification per observer
// is queued carrying the replaced value. Partitions that declare a
// property as a sensitivity are therefore exact the moment Set returns,
// while observers run later, decoupled from the mutating call stack.
package prop

import (
	"github.com/teranos/SIMYX/errors"
	"github.com/teranos/SIMYX/pop"
	"github.com/teranos/SIMYX/sim"
)

type state[V any] struct {
	values    []V
	observers []func(*sim.Kernel, sim.EntityID, V)
	hooks     []immediateHook
}

type immediateHook struct {
	tag    string
	before func(*sim.Kernel, sim.EntityID) sim.Command
}

// Type is the handle for a defined property. Obtain one from Define in a
// package variable initializer and share it; the zero Type is unusable.
type Type[V any] struct {
	module sim.ModuleType[state[V]]
	name   string
	def    V
}

// Name returns the property name passed to Define.
func (p Type[V]) Name() string {
	return p.name
}

// Define registers a property under a unique name with a default value
// and returns its handle.
func Define[V any](name string, def V) Type[V] {
	if name == "" {
		panic(errors.Wrap(errors.ErrModuleConflict, "empty property name"))
	}
	module := sim.RegisterModule("prop."+name, func() *state[V] {
		return &state[V]{}
	})
	return Type[V]{module: module, name: name, def: def}
}

// Get returns the entity's value, or the property default when the entity
// was never assigned.
func Get[V any](k *sim.Kernel, p Type[V], e sim.EntityID) V {
	data := sim.DataFor(k, p.module)
	if i := int(e); i >= 0 && i < len(data.values) {
		return data.values[i]
	}
	return p.def
}

// Set assigns the entity's value, running the change notification
// protocol. Partition moves complete before Set returns; observer
// notifications are queued for the next command drain. Setting a property
// for an entity that does not exist is a fatal usage error.
func Set[V any](k *sim.Kernel, p Type[V], e sim.EntityID, v V) {
	if e < 0 || int(e) >= k.Population() {
		panic(errors.AssertionFailedf("property %q set for nonexistent entity %d", p.name, e))
	}
	data := sim.DataFor(k, p.module)

	var finishers []sim.Command
	if len(data.hooks) > 0 {
		finishers = make([]sim.Command, 0, len(data.hooks))
		for _, h := range data.hooks {
			if cmd := h.before(k, e); cmd != nil {
				finishers = append(finishers, cmd)
			}
		}
	}

	var old V
	notify := len(data.observers) > 0
	if notify {
		old = p.def
		if int(e) < len(data.values) {
			old = data.values[e]
		}
	}

	for len(data.values) <= int(e) {
		data.values = append(data.values, p.def)
	}
	data.values[e] = v

	for _, f := range finishers {
		f(k)
	}

	if notify {
		for _, fn := range data.observers {
			k.QueueCallback(func(k *sim.Kernel) { fn(k, e, old) })
		}
	}
}

// Observe registers fn to run, deferred, after every subsequent Set of p.
// The callback receives the value that was replaced; read the property for
// the current value, which may have changed again since the mutation.
func Observe[V any](k *sim.Kernel, p Type[V], fn func(k *sim.Kernel, e sim.EntityID, old V)) {
	if fn == nil {
		return
	}
	data := sim.DataFor(k, p.module)
	data.observers = append(data.observers, fn)
}

// With returns an Init assigning v to the entity being created. Initial
// assignment goes through Set, so sensitive partitions move the entity out
// of its default bucket before Create returns.
func With[V any](p Type[V], v V) pop.Init {
	return func(k *sim.Kernel, e sim.EntityID) {
		Set(k, p, e, v)
	}
}

// AttachImmediateHook installs a pre-mutation hook under a tag. For every
// Set, before runs ahead of the write and returns the finisher to run
// synchronously after it; a nil finisher is skipped. The hook contract
// exists for engines that must stay exact across mutations, partitions
// foremost; ordinary reactions belong in Observe.
func (p Type[V]) AttachImmediateHook(k *sim.Kernel, tag string, before func(*sim.Kernel, sim.EntityID) sim.Command) {
	if before == nil {
		return
	}
	data := sim.DataFor(k, p.module)
	data.hooks = append(data.hooks, immediateHook{tag: tag, before: before})
}

// DetachImmediateHooks removes every immediate hook installed under tag.
func (p Type[V]) DetachImmediateHooks(k *sim.Kernel, tag string) {
	data := sim.DataFor(k, p.module)
	kept := data.hooks[:0]
	for _, h := range data.hooks {
		if h.tag != tag {
			kept = append(kept, h)
		}
	}
	for i := len(kept); i < len(data.hooks); i++ {
		data.hooks[i] = immediateHook{}
	}
	data.hooks = kept
}
