// Package part maintains exact partitions of the population. A partition
// groups every entity under a label computed from kernel state; buckets
// are kept current eagerly, so queries are O(1) lookups with no rebuild
// and no staleness window.
//
// Exactness rests on two attachments made at registration time: a
// creation hook files each new entity under its label before the creating
// call returns, and an immediate hook on every declared sensitivity moves
// the entity between buckets inside the mutating Set. A partition whose
// label reads state outside its declared sensitivities will drift; the
// sensitivity list is the caller's contract.
package part

import (
	"github.com/teranos/SIMYX/errors"
	"github.com/teranos/SIMYX/logger"
	"github.com/teranos/SIMYX/sim"
)

// Property is the attachment surface a partition needs from a mutable
// state container. prop.Type satisfies it for any value type.
type Property interface {
	Name() string
	AttachImmediateHook(k *sim.Kernel, tag string, before func(*sim.Kernel, sim.EntityID) sim.Command)
	DetachImmediateHooks(k *sim.Kernel, tag string)
}

type state[L comparable] struct {
	registered bool
	buckets    map[L]*sim.EntitySet
}

// Type is the handle for a defined partition. The label function must be
// a pure read of kernel state, and every piece of mutable state it reads
// must appear in the sensitivity list fixed at Define time.
type Type[L comparable] struct {
	module    sim.ModuleType[state[L]]
	name      string
	label     func(*sim.Kernel, sim.EntityID) L
	sensitive []Property
}

// Name returns the partition name passed to Define.
func (p Type[L]) Name() string {
	return p.name
}

// Define registers a partition under a unique name and returns its
// handle. Defining installs nothing on any kernel; call Register on each
// kernel that should maintain the buckets.
func Define[L comparable](name string, label func(*sim.Kernel, sim.EntityID) L, sensitive ...Property) Type[L] {
	if name == "" {
		panic(errors.Wrap(errors.ErrModuleConflict, "empty partition name"))
	}
	if label == nil {
		panic(errors.AssertionFailedf("partition %q defined with nil label function", name))
	}
	module := sim.RegisterModule("part."+name, func() *state[L] {
		return &state[L]{buckets: make(map[L]*sim.EntitySet)}
	})
	return Type[L]{
		module:    module,
		name:      name,
		label:     label,
		sensitive: append([]Property(nil), sensitive...),
	}
}

// Register builds the partition on k: a full scan files every existing
// entity under its label, then a creation hook and one immediate hook per
// sensitivity keep the buckets exact. Registering a partition twice on
// the same kernel is a fatal usage error.
func Register[L comparable](k *sim.Kernel, p Type[L]) {
	data := sim.DataFor(k, p.module)
	if data.registered {
		panic(errors.Wrapf(errors.ErrPartitionRegistered, "partition %q", p.name))
	}
	data.registered = true

	tag := p.module.Name()
	n := k.Population()
	for e := sim.EntityID(0); int(e) < n; e++ {
		data.insert(p.label(k, e), e)
	}

	k.OnEntityCreated(tag, func(k *sim.Kernel, e sim.EntityID) {
		data.insert(p.label(k, e), e)
	})

	for _, s := range p.sensitive {
		s.AttachImmediateHook(k, tag, func(k *sim.Kernel, e sim.EntityID) sim.Command {
			old := p.label(k, e)
			return func(k *sim.Kernel) {
				p.move(data, k, e, old)
			}
		})
	}

	logger.PartDebugw("Partition registered",
		logger.FieldPartition, p.name,
		logger.FieldPopulation, n,
		logger.FieldBuckets, len(data.buckets),
	)
}

// Deregister tears the partition down on k: hooks are removed and the
// buckets are cleared. Deregistering a partition that is not registered
// is a fatal usage error. A later Register rebuilds from current state.
func Deregister[L comparable](k *sim.Kernel, p Type[L]) {
	data := sim.DataFor(k, p.module)
	if !data.registered {
		panic(errors.Wrapf(errors.ErrPartitionNotRegistered, "partition %q", p.name))
	}

	tag := p.module.Name()
	k.RemoveEntityCreatedHooks(tag)
	for _, s := range p.sensitive {
		s.DetachImmediateHooks(k, tag)
	}

	data.registered = false
	data.buckets = make(map[L]*sim.EntitySet)

	logger.PartDebugw("Partition deregistered",
		logger.FieldPartition, p.name,
	)
}

// Registered reports whether p is currently registered on k.
func Registered[L comparable](k *sim.Kernel, p Type[L]) bool {
	data, ok := sim.LoadedData(k, p.module)
	return ok && data.registered
}

// Query returns a copy of the entities under label l, nil when the bucket
// is empty or absent. Queries never rebuild and never fail; an unknown
// label is simply empty.
func Query[L comparable](k *sim.Kernel, p Type[L], l L) []sim.EntityID {
	data := sim.DataFor(k, p.module)
	bucket := data.buckets[l]
	if bucket == nil || bucket.Len() == 0 {
		return nil
	}
	return bucket.Slice()
}

// Count returns the number of entities under label l.
func Count[L comparable](k *sim.Kernel, p Type[L], l L) int {
	data := sim.DataFor(k, p.module)
	bucket := data.buckets[l]
	if bucket == nil {
		return 0
	}
	return bucket.Len()
}

// Contains reports whether entity e is currently under label l.
func Contains[L comparable](k *sim.Kernel, p Type[L], l L, e sim.EntityID) bool {
	data := sim.DataFor(k, p.module)
	bucket := data.buckets[l]
	return bucket != nil && bucket.Contains(e)
}

// EntityAt returns the i-th entity under label l without copying the
// bucket, for seeded sampling against Count. The second return is false
// when the label is absent or i is out of range.
func EntityAt[L comparable](k *sim.Kernel, p Type[L], l L, i int) (sim.EntityID, bool) {
	data := sim.DataFor(k, p.module)
	bucket := data.buckets[l]
	if bucket == nil || i < 0 || i >= bucket.Len() {
		return 0, false
	}
	return bucket.At(i), true
}

// Labels returns the labels of every non-empty bucket. Order is
// unspecified; callers tabulating results should sort for their label
// type.
func Labels[L comparable](k *sim.Kernel, p Type[L]) []L {
	data := sim.DataFor(k, p.module)
	if len(data.buckets) == 0 {
		return nil
	}
	labels := make([]L, 0, len(data.buckets))
	for l := range data.buckets {
		labels = append(labels, l)
	}
	return labels
}

func (s *state[L]) insert(l L, e sim.EntityID) {
	bucket := s.buckets[l]
	if bucket == nil {
		bucket = sim.NewEntitySet(1)
		s.buckets[l] = bucket
	}
	bucket.Add(e)
}

// move relocates e from the bucket for old to the bucket for its current
// label. The entity must be present under old; anything else means the
// buckets and the state diverged, which is unrecoverable.
func (p Type[L]) move(s *state[L], k *sim.Kernel, e sim.EntityID, old L) {
	now := p.label(k, e)
	if now == old {
		return
	}

	bucket := s.buckets[old]
	if bucket == nil || !bucket.Remove(e) {
		panic(errors.AssertionFailedf(
			"partition %q: entity %d missing from the bucket for its previous label", p.name, e))
	}
	if bucket.Len() == 0 {
		delete(s.buckets, old)
	}
	s.insert(now, e)
}
