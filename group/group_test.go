package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/SIMYX/errors"
	"github.com/teranos/SIMYX/pop"
	"github.com/teranos/SIMYX/sim"
)

var households = Define("test-households")

func TestCreateGroup(t *testing.T) {
	k := sim.New()

	assert.Equal(t, GroupID(0), CreateGroup(k, households))
	assert.Equal(t, GroupID(1), CreateGroup(k, households))
	assert.Equal(t, 2, GroupCount(k, households))
}

func TestMembership(t *testing.T) {
	k := sim.New()
	home := CreateGroup(k, households)
	a := pop.Create(k)
	b := pop.Create(k)

	AddMember(k, households, home, a)
	AddMember(k, households, home, b)

	assert.Equal(t, 2, MemberCount(k, households, home))
	assert.True(t, IsMember(k, households, home, a))
	assert.ElementsMatch(t, []sim.EntityID{a, b}, Members(k, households, home))
	assert.Equal(t, []GroupID{home}, GroupsOf(k, households, a))
}

func TestAddMemberTwice(t *testing.T) {
	k := sim.New()
	home := CreateGroup(k, households)
	e := pop.Create(k)

	AddMember(k, households, home, e)
	AddMember(k, households, home, e)

	assert.Equal(t, 1, MemberCount(k, households, home))
	assert.Equal(t, []GroupID{home}, GroupsOf(k, households, e))
}

func TestRemoveMember(t *testing.T) {
	k := sim.New()
	home := CreateGroup(k, households)
	away := CreateGroup(k, households)
	e := pop.Create(k)

	AddMember(k, households, home, e)
	AddMember(k, households, away, e)

	require.True(t, RemoveMember(k, households, home, e))

	assert.False(t, IsMember(k, households, home, e))
	assert.True(t, IsMember(k, households, away, e))
	assert.Equal(t, []GroupID{away}, GroupsOf(k, households, e))

	assert.False(t, RemoveMember(k, households, home, e), "second removal reports absent")
}

func TestMemberAt(t *testing.T) {
	k := sim.New()
	home := CreateGroup(k, households)
	ids := pop.CreateMany(k, 4)
	for _, e := range ids {
		AddMember(k, households, home, e)
	}

	seen := map[sim.EntityID]bool{}
	for i := 0; i < MemberCount(k, households, home); i++ {
		e, ok := MemberAt(k, households, home, i)
		require.True(t, ok)
		seen[e] = true
	}
	assert.Len(t, seen, 4)

	_, ok := MemberAt(k, households, home, 4)
	assert.False(t, ok)
}

func TestEntityInGroupsOfTwoKinds(t *testing.T) {
	workplaces := Define("test-workplaces")

	k := sim.New()
	home := CreateGroup(k, households)
	office := CreateGroup(k, workplaces)
	e := pop.Create(k)

	AddMember(k, households, home, e)
	AddMember(k, workplaces, office, e)

	assert.Equal(t, []GroupID{home}, GroupsOf(k, households, e))
	assert.Equal(t, []GroupID{office}, GroupsOf(k, workplaces, e))
}

func TestGroupsOfUnknownEntity(t *testing.T) {
	k := sim.New()
	assert.Nil(t, GroupsOf(k, households, 42))
}

func TestUnknownGroupPanics(t *testing.T) {
	k := sim.New()
	e := pop.Create(k)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.IsConfigurationError(err))
	}()
	AddMember(k, households, GroupID(5), e)
}

func TestKernelsAreIndependent(t *testing.T) {
	a, b := sim.New(), sim.New()

	CreateGroup(a, households)

	assert.Equal(t, 1, GroupCount(a, households))
	assert.Equal(t, 0, GroupCount(b, households))
}
