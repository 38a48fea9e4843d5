// Package pop creates entities and delivers creation notifications. An
// entity is fully constructed when Create returns: immediate creation
// hooks and the caller's inits have run, and one deferred notification per
// created-observer has been queued.
package pop

import (
	"github.com/teranos/SIMYX/sim"
)

// Init sets initial state on a freshly created entity. Inits run after the
// kernel's immediate creation hooks and before created-observers are
// notified, so partitions tracking the touched state stay exact.
type Init func(*sim.Kernel, sim.EntityID)

type state struct {
	observers []func(*sim.Kernel, sim.EntityID)
}

var module = sim.RegisterModule("pop", func() *state {
	return &state{}
})

// Create builds one entity and returns its id. The inits are applied in
// order; each runs with the entity already visible to every registered
// partition and property.
func Create(k *sim.Kernel, inits ...Init) sim.EntityID {
	id := k.RegisterEntity()
	for _, init := range inits {
		if init != nil {
			init(k, id)
		}
	}

	data := sim.DataFor(k, module)
	for _, fn := range data.observers {
		k.QueueCallback(func(k *sim.Kernel) { fn(k, id) })
	}
	return id
}

// CreateMany builds n entities with the same inits and returns their ids
// in creation order.
func CreateMany(k *sim.Kernel, n int, inits ...Init) []sim.EntityID {
	ids := make([]sim.EntityID, n)
	for i := range ids {
		ids[i] = Create(k, inits...)
	}
	return ids
}

// ObserveCreated registers fn to run for every entity created after this
// call. Delivery is deferred: fn runs when the kernel next drains its
// command queue, after the creating code has finished.
func ObserveCreated(k *sim.Kernel, fn func(*sim.Kernel, sim.EntityID)) {
	if fn == nil {
		return
	}
	data := sim.DataFor(k, module)
	data.observers = append(data.observers, fn)
}

// Count returns the number of entities created on the kernel.
func Count(k *sim.Kernel) int {
	return k.Population()
}
