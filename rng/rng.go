// Package rng provides named deterministic random streams. Each stream
// seeds from the kernel's base seed plus a stable offset derived from the
// stream name, so runs reproduce exactly given the same base seed, and
// adding a new stream never perturbs the draws of existing ones.
package rng

import (
	"hash/fnv"
	"math/rand/v2"

	"github.com/teranos/SIMYX/errors"
	"github.com/teranos/SIMYX/sim"
)

type coreState struct {
	base    uint64
	reseeds []func(base uint64)
}

var core = sim.RegisterModule("rng", func() *coreState {
	return &coreState{}
})

type streamState struct {
	pcg  *rand.PCG
	rand *rand.Rand
}

// Stream is the handle for a defined random stream; the zero Stream is
// unusable.
type Stream struct {
	module sim.ModuleType[streamState]
	name   string
	offset uint64
}

// Name returns the stream name passed to Define.
func (s Stream) Name() string {
	return s.name
}

// Define registers a random stream under a unique name and returns its
// handle.
func Define(name string) Stream {
	if name == "" {
		panic(errors.Wrap(errors.ErrModuleConflict, "empty stream name"))
	}
	module := sim.RegisterModule("rng."+name, func() *streamState {
		return &streamState{}
	})
	return Stream{module: module, name: name, offset: nameOffset(name)}
}

// Get returns the kernel's generator for stream s, seeding it on first
// use from the current base seed. The returned generator stays valid for
// the kernel's lifetime; SetBaseSeed reseeds it in place.
func Get(k *sim.Kernel, s Stream) *rand.Rand {
	data := sim.DataFor(k, s.module)
	if data.rand == nil {
		c := sim.DataFor(k, core)
		data.pcg = rand.NewPCG(c.base+s.offset, s.offset)
		data.rand = rand.New(data.pcg)
		c.reseeds = append(c.reseeds, func(base uint64) {
			data.pcg.Seed(base+s.offset, s.offset)
		})
	}
	return data.rand
}

// BaseSeed returns the kernel's base seed, 0 until SetBaseSeed.
func BaseSeed(k *sim.Kernel) uint64 {
	return sim.DataFor(k, core).base
}

// SetBaseSeed sets the kernel's base seed, reseeding every stream already
// materialized on it. Streams first drawn from afterwards derive from the
// new base as well.
func SetBaseSeed(k *sim.Kernel, seed uint64) {
	c := sim.DataFor(k, core)
	c.base = seed
	for _, reseed := range c.reseeds {
		reseed(seed)
	}
}

// nameOffset is the 64-bit FNV-1a hash of the stream name. Stream seed =
// base seed + offset, wrapping.
func nameOffset(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}
