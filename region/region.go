// Package region models the shared locations entities belong to. Regions
// are created per kernel with dense ids; each entity carries a region
// assignment that participates in the change notification protocol, so a
// partition can declare it as a sensitivity and track moves exactly.
package region

import (
	"github.com/teranos/SIMYX/errors"
	"github.com/teranos/SIMYX/pop"
	"github.com/teranos/SIMYX/prop"
	"github.com/teranos/SIMYX/sim"
)

// ID is a dense per-kernel region handle. None marks an entity assigned
// to no region.
type ID int

// None is the assignment of an entity outside every region.
const None ID = -1

// Assignment is the per-entity region property. It is an ordinary
// property handle: partitions splitting the population by region declare
// it as a sensitivity, and observers watch it like any other property.
var Assignment = prop.Define("region", None)

type state struct {
	count int
}

var module = sim.RegisterModule("region", func() *state {
	return &state{}
})

// Create adds a region to the kernel and returns its id.
func Create(k *sim.Kernel) ID {
	data := sim.DataFor(k, module)
	id := ID(data.count)
	data.count++
	return id
}

// Count returns the number of regions created on the kernel.
func Count(k *sim.Kernel) int {
	return sim.DataFor(k, module).count
}

// Assign moves entity e to region r, which must be None or a created
// region. The move runs the change notification protocol on Assignment.
func Assign(k *sim.Kernel, e sim.EntityID, r ID) {
	if r != None && (r < 0 || int(r) >= Count(k)) {
		panic(errors.Wrapf(errors.ErrUnknownRegion, "region %d", r))
	}
	prop.Set(k, Assignment, e, r)
}

// Of returns the region entity e is assigned to, None when unassigned.
func Of(k *sim.Kernel, e sim.EntityID) ID {
	return prop.Get(k, Assignment, e)
}

// With returns an Init assigning the entity being created to region r.
func With(r ID) pop.Init {
	return func(k *sim.Kernel, e sim.EntityID) {
		Assign(k, e, r)
	}
}
