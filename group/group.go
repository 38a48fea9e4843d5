// Package group manages named kinds of groups (households, workplaces,
// classrooms) and entity membership within them. Groups of a kind are
// created per kernel with dense ids; membership is bidirectional, so both
// "who is in this group" and "which groups hold this entity" are O(1)
// lookups.
package group

import (
	"github.com/teranos/SIMYX/errors"
	"github.com/teranos/SIMYX/sim"
)

// GroupID is a dense per-kernel handle for one group of a kind.
type GroupID int

type state struct {
	members  []*sim.EntitySet
	byEntity [][]GroupID
}

// Kind is the handle for a defined kind of group; the zero Kind is
// unusable.
type Kind struct {
	module sim.ModuleType[state]
	name   string
}

// Name returns the kind name passed to Define.
func (g Kind) Name() string {
	return g.name
}

// Define registers a kind of group under a unique name and returns its
// handle.
func Define(name string) Kind {
	if name == "" {
		panic(errors.Wrap(errors.ErrModuleConflict, "empty group kind name"))
	}
	module := sim.RegisterModule("group."+name, func() *state {
		return &state{}
	})
	return Kind{module: module, name: name}
}

// CreateGroup adds a group of kind g to the kernel and returns its id.
func CreateGroup(k *sim.Kernel, g Kind) GroupID {
	data := sim.DataFor(k, g.module)
	id := GroupID(len(data.members))
	data.members = append(data.members, sim.NewEntitySet(0))
	return id
}

// GroupCount returns the number of groups of kind g on the kernel.
func GroupCount(k *sim.Kernel, g Kind) int {
	return len(sim.DataFor(k, g.module).members)
}

// AddMember puts entity e into group id. Adding an existing member is a
// no-op.
func AddMember(k *sim.Kernel, g Kind, id GroupID, e sim.EntityID) {
	data := mustGroup(k, g, id)
	set := data.members[id]
	if set.Contains(e) {
		return
	}
	set.Add(e)

	for len(data.byEntity) <= int(e) {
		data.byEntity = append(data.byEntity, nil)
	}
	data.byEntity[e] = append(data.byEntity[e], id)
}

// RemoveMember takes entity e out of group id and reports whether it was
// a member.
func RemoveMember(k *sim.Kernel, g Kind, id GroupID, e sim.EntityID) bool {
	data := mustGroup(k, g, id)
	if !data.members[id].Remove(e) {
		return false
	}

	list := data.byEntity[e]
	for i, got := range list {
		if got == id {
			list[i] = list[len(list)-1]
			data.byEntity[e] = list[:len(list)-1]
			break
		}
	}
	return true
}

// Members returns a copy of group id's members.
func Members(k *sim.Kernel, g Kind, id GroupID) []sim.EntityID {
	return mustGroup(k, g, id).members[id].Slice()
}

// MemberCount returns the number of members in group id.
func MemberCount(k *sim.Kernel, g Kind, id GroupID) int {
	return mustGroup(k, g, id).members[id].Len()
}

// MemberAt returns the i-th member of group id without copying, for
// seeded sampling against MemberCount. The second return is false when i
// is out of range.
func MemberAt(k *sim.Kernel, g Kind, id GroupID, i int) (sim.EntityID, bool) {
	set := mustGroup(k, g, id).members[id]
	if i < 0 || i >= set.Len() {
		return 0, false
	}
	return set.At(i), true
}

// IsMember reports whether entity e is in group id.
func IsMember(k *sim.Kernel, g Kind, id GroupID, e sim.EntityID) bool {
	return mustGroup(k, g, id).members[id].Contains(e)
}

// GroupsOf returns a copy of the groups of kind g holding entity e.
func GroupsOf(k *sim.Kernel, g Kind, e sim.EntityID) []GroupID {
	data := sim.DataFor(k, g.module)
	if int(e) >= len(data.byEntity) || len(data.byEntity[e]) == 0 {
		return nil
	}
	out := make([]GroupID, len(data.byEntity[e]))
	copy(out, data.byEntity[e])
	return out
}

func mustGroup(k *sim.Kernel, g Kind, id GroupID) *state {
	data := sim.DataFor(k, g.module)
	if id < 0 || int(id) >= len(data.members) {
		panic(errors.Wrapf(errors.ErrUnknownGroup, "%s group %d", g.name, id))
	}
	return data
}
