package part

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/SIMYX/errors"
	"github.com/teranos/SIMYX/pop"
	"github.com/teranos/SIMYX/prop"
	"github.com/teranos/SIMYX/sim"
)

func TestRegisterBuildsFromExistingEntities(t *testing.T) {
	status := prop.Define("part-build-status", 0)
	byStatus := Define("part-build", func(k *sim.Kernel, e sim.EntityID) int {
		return prop.Get(k, status, e)
	}, status)

	k := sim.New()
	a := pop.Create(k)
	b := pop.Create(k, prop.With(status, 2))
	c := pop.Create(k, prop.With(status, 2))

	Register(k, byStatus)

	assert.ElementsMatch(t, []sim.EntityID{a}, Query(k, byStatus, 0))
	assert.ElementsMatch(t, []sim.EntityID{b, c}, Query(k, byStatus, 2))
	assert.Equal(t, 2, Count(k, byStatus, 2))
}

func TestCreationFilesNewEntities(t *testing.T) {
	status := prop.Define("part-create-status", 0)
	byStatus := Define("part-create", func(k *sim.Kernel, e sim.EntityID) int {
		return prop.Get(k, status, e)
	}, status)

	k := sim.New()
	Register(k, byStatus)

	plain := pop.Create(k)
	seeded := pop.Create(k, prop.With(status, 5))

	assert.True(t, Contains(k, byStatus, 0, plain))
	assert.True(t, Contains(k, byStatus, 5, seeded), "init mutation must move the entity before Create returns")
	assert.False(t, Contains(k, byStatus, 0, seeded))
}

func TestMutationMovesBetweenBuckets(t *testing.T) {
	status := prop.Define("part-move-status", 0)
	byStatus := Define("part-move", func(k *sim.Kernel, e sim.EntityID) int {
		return prop.Get(k, status, e)
	}, status)

	k := sim.New()
	Register(k, byStatus)
	e := pop.Create(k)

	prop.Set(k, status, e, 3)

	assert.False(t, Contains(k, byStatus, 0, e))
	assert.True(t, Contains(k, byStatus, 3, e))
	assert.Nil(t, Query(k, byStatus, 0), "emptied bucket disappears")

	// The move is complete before Set returns, so back-to-back moves are safe.
	prop.Set(k, status, e, 4)
	assert.True(t, Contains(k, byStatus, 4, e))
	assert.Equal(t, 0, Count(k, byStatus, 3))
}

func TestSettingSameValueKeepsBucket(t *testing.T) {
	status := prop.Define("part-same-status", 0)
	byStatus := Define("part-same", func(k *sim.Kernel, e sim.EntityID) int {
		return prop.Get(k, status, e)
	}, status)

	k := sim.New()
	Register(k, byStatus)
	e := pop.Create(k)
	prop.Set(k, status, e, 1)

	prop.Set(k, status, e, 1)

	assert.True(t, Contains(k, byStatus, 1, e))
	assert.Equal(t, 1, Count(k, byStatus, 1))
}

func TestDoubleRegisterPanics(t *testing.T) {
	status := prop.Define("part-double-status", 0)
	byStatus := Define("part-double", func(k *sim.Kernel, e sim.EntityID) int {
		return prop.Get(k, status, e)
	}, status)

	k := sim.New()
	Register(k, byStatus)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.IsConfigurationError(err))
		assert.Contains(t, err.Error(), "part-double")
	}()
	Register(k, byStatus)
}

func TestDeregister(t *testing.T) {
	t.Run("not registered panics", func(t *testing.T) {
		byNothing := Define("part-dereg-unknown", func(*sim.Kernel, sim.EntityID) int {
			return 0
		})
		k := sim.New()
		assert.Panics(t, func() { Deregister(k, byNothing) })
	})

	t.Run("removes hooks and clears buckets", func(t *testing.T) {
		status := prop.Define("part-dereg-status", 0)
		byStatus := Define("part-dereg", func(k *sim.Kernel, e sim.EntityID) int {
			return prop.Get(k, status, e)
		}, status)

		k := sim.New()
		Register(k, byStatus)
		e := pop.Create(k)
		require.True(t, Registered(k, byStatus))

		Deregister(k, byStatus)

		assert.False(t, Registered(k, byStatus))
		assert.Equal(t, 0, Count(k, byStatus, 0))
		assert.Nil(t, Labels(k, byStatus))

		// Mutations and creations are now invisible to the partition.
		prop.Set(k, status, e, 9)
		pop.Create(k)
		assert.Equal(t, 0, Count(k, byStatus, 9))
	})

	t.Run("re-register rebuilds from current state", func(t *testing.T) {
		status := prop.Define("part-rereg-status", 0)
		byStatus := Define("part-rereg", func(k *sim.Kernel, e sim.EntityID) int {
			return prop.Get(k, status, e)
		}, status)

		k := sim.New()
		Register(k, byStatus)
		e := pop.Create(k)
		Deregister(k, byStatus)

		prop.Set(k, status, e, 7)
		other := pop.Create(k)

		Register(k, byStatus)

		assert.True(t, Contains(k, byStatus, 7, e))
		assert.True(t, Contains(k, byStatus, 0, other))
		assert.Equal(t, 2, Count(k, byStatus, 7)+Count(k, byStatus, 0))
	})
}

func TestQueriesOnEmptyPartition(t *testing.T) {
	byNothing := Define("part-empty", func(*sim.Kernel, sim.EntityID) string {
		return ""
	})
	k := sim.New()

	assert.Nil(t, Query(k, byNothing, "missing"))
	assert.Equal(t, 0, Count(k, byNothing, "missing"))
	assert.False(t, Contains(k, byNothing, "missing", 0))
	_, ok := EntityAt(k, byNothing, "missing", 0)
	assert.False(t, ok)
	assert.Nil(t, Labels(k, byNothing))
}

func TestQueryReturnsCopy(t *testing.T) {
	status := prop.Define("part-copy-status", 0)
	byStatus := Define("part-copy", func(k *sim.Kernel, e sim.EntityID) int {
		return prop.Get(k, status, e)
	}, status)

	k := sim.New()
	Register(k, byStatus)
	pop.CreateMany(k, 3)

	got := Query(k, byStatus, 0)
	require.Len(t, got, 3)
	got[0] = 99

	assert.ElementsMatch(t, []sim.EntityID{0, 1, 2}, Query(k, byStatus, 0))
}

func TestEntityAt(t *testing.T) {
	status := prop.Define("part-at-status", 0)
	byStatus := Define("part-at", func(k *sim.Kernel, e sim.EntityID) int {
		return prop.Get(k, status, e)
	}, status)

	k := sim.New()
	Register(k, byStatus)
	pop.CreateMany(k, 5)

	seen := map[sim.EntityID]bool{}
	n := Count(k, byStatus, 0)
	for i := 0; i < n; i++ {
		e, ok := EntityAt(k, byStatus, 0, i)
		require.True(t, ok)
		seen[e] = true
	}
	assert.Len(t, seen, 5)

	_, ok := EntityAt(k, byStatus, 0, n)
	assert.False(t, ok)
	_, ok = EntityAt(k, byStatus, 0, -1)
	assert.False(t, ok)
}

func TestMultiplePartitionsAreIndependent(t *testing.T) {
	status := prop.Define("part-multi-status", 0)
	byStatus := Define("part-multi-a", func(k *sim.Kernel, e sim.EntityID) int {
		return prop.Get(k, status, e)
	}, status)
	byParity := Define("part-multi-b", func(k *sim.Kernel, e sim.EntityID) int {
		return prop.Get(k, status, e) % 2
	}, status)

	k := sim.New()
	Register(k, byStatus)
	Register(k, byParity)
	e := pop.Create(k)

	prop.Set(k, status, e, 3)

	assert.True(t, Contains(k, byStatus, 3, e))
	assert.True(t, Contains(k, byParity, 1, e))

	Deregister(k, byParity)
	prop.Set(k, status, e, 4)

	assert.True(t, Contains(k, byStatus, 4, e), "remaining partition still tracks")
	assert.Equal(t, 0, Count(k, byParity, 0))
}

func TestLargePartitionStaysExact(t *testing.T) {
	type cell struct {
		Level   int
		Flagged bool
	}

	level := prop.Define("part-big-level", 0)
	flagged := prop.Define("part-big-flagged", false)
	byCell := Define("part-big", func(k *sim.Kernel, e sim.EntityID) cell {
		return cell{prop.Get(k, level, e), prop.Get(k, flagged, e)}
	}, level, flagged)

	k := sim.New()
	pop.CreateMany(k, 10000)
	Register(k, byCell)

	require.Equal(t, 10000, Count(k, byCell, cell{0, false}))

	r := rand.New(rand.NewPCG(7, 11))
	chosen := r.Perm(10000)[:1000]
	for _, i := range chosen {
		e := sim.EntityID(i)
		prop.Set(k, level, e, 1)
		prop.Set(k, flagged, e, true)
	}

	assert.Equal(t, 9000, Count(k, byCell, cell{0, false}))
	assert.Equal(t, 1000, Count(k, byCell, cell{1, true}))
	assert.Equal(t, 0, Count(k, byCell, cell{1, false}))
	assert.Equal(t, 0, Count(k, byCell, cell{0, true}))
	assert.Nil(t, Query(k, byCell, cell{1, false}))

	// Every entity sits in exactly one bucket.
	total := 0
	for _, l := range Labels(k, byCell) {
		total += Count(k, byCell, l)
	}
	assert.Equal(t, 10000, total)

	for _, i := range chosen[:20] {
		e := sim.EntityID(i)
		assert.True(t, Contains(k, byCell, cell{1, true}, e))
		assert.False(t, Contains(k, byCell, cell{0, false}, e))
	}
}
