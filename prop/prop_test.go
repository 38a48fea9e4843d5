package prop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/SIMYX/pop"
	"github.com/teranos/SIMYX/sim"
)

var (
	testAge    = Define("test-age", 0)
	testAlive  = Define("test-alive", true)
	testWeight = Define("test-weight", 1.5)
)

func TestDefaults(t *testing.T) {
	k := sim.New()
	e := pop.Create(k)

	assert.Equal(t, 0, Get(k, testAge, e))
	assert.Equal(t, true, Get(k, testAlive, e))
	assert.Equal(t, 1.5, Get(k, testWeight, e))
}

func TestSetGet(t *testing.T) {
	k := sim.New()
	e := pop.Create(k)

	Set(k, testAge, e, 42)

	assert.Equal(t, 42, Get(k, testAge, e))
}

func TestVectorGrowth(t *testing.T) {
	k := sim.New()
	ids := pop.CreateMany(k, 6)

	// Assigning a high index back-fills the gap with defaults.
	Set(k, testAge, ids[5], 9)

	for _, e := range ids[:5] {
		assert.Equal(t, 0, Get(k, testAge, e))
	}
	assert.Equal(t, 9, Get(k, testAge, ids[5]))
}

func TestPropertiesAreIndependent(t *testing.T) {
	a := Define("test-ind-a", 0)
	b := Define("test-ind-b", 0)

	k := sim.New()
	e := pop.Create(k)
	Set(k, a, e, 1)

	assert.Equal(t, 1, Get(k, a, e))
	assert.Equal(t, 0, Get(k, b, e))
}

func TestSetNonexistentEntityPanics(t *testing.T) {
	k := sim.New()
	assert.Panics(t, func() {
		Set(k, testAge, 0, 1)
	})

	pop.Create(k)
	assert.Panics(t, func() {
		Set(k, testAge, 7, 1)
	})
	assert.Panics(t, func() {
		Set(k, testAge, -1, 1)
	})
}

func TestDefineEmptyNamePanics(t *testing.T) {
	assert.Panics(t, func() {
		Define("", 0)
	})
}

func TestObserve(t *testing.T) {
	t.Run("receives the replaced value, deferred", func(t *testing.T) {
		p := Define("test-obs-old", 10)
		k := sim.New()
		e := pop.Create(k)

		var trace []string
		var olds []int
		Observe(k, p, func(k *sim.Kernel, got sim.EntityID, old int) {
			assert.Equal(t, e, got)
			olds = append(olds, old)
			trace = append(trace, "observed")
		})

		k.QueueCallback(func(k *sim.Kernel) {
			Set(k, p, e, 20)
			Set(k, p, e, 30)
			trace = append(trace, "mutations-done")
		})
		k.Execute()

		assert.Equal(t, []string{"mutations-done", "observed", "observed"}, trace)
		assert.Equal(t, []int{10, 20}, olds)
	})

	t.Run("current value may differ from old+1 mutation", func(t *testing.T) {
		p := Define("test-obs-current", 0)
		k := sim.New()
		e := pop.Create(k)

		Observe(k, p, func(k *sim.Kernel, got sim.EntityID, old int) {
			// Both notifications run after both mutations.
			assert.Equal(t, 2, Get(k, p, got))
		})

		k.QueueCallback(func(k *sim.Kernel) {
			Set(k, p, e, 1)
			Set(k, p, e, 2)
		})
		k.Execute()
	})

	t.Run("observer list is read at mutation time", func(t *testing.T) {
		p := Define("test-obs-snapshot", 0)
		k := sim.New()
		e := pop.Create(k)

		var got []string
		k.QueueCallback(func(k *sim.Kernel) {
			Set(k, p, e, 1)
			// Registered after the Set: must not hear about it.
			Observe(k, p, func(*sim.Kernel, sim.EntityID, int) {
				got = append(got, "late")
			})
		})
		k.Execute()

		assert.Empty(t, got)
	})

	t.Run("multiple observers notify in registration order", func(t *testing.T) {
		p := Define("test-obs-order", 0)
		k := sim.New()
		e := pop.Create(k)

		var trace []string
		Observe(k, p, func(*sim.Kernel, sim.EntityID, int) { trace = append(trace, "a") })
		Observe(k, p, func(*sim.Kernel, sim.EntityID, int) { trace = append(trace, "b") })

		Set(k, p, e, 1)
		k.Execute()

		assert.Equal(t, []string{"a", "b"}, trace)
	})
}

func TestWith(t *testing.T) {
	k := sim.New()

	e := pop.Create(k, With(testAge, 33), With(testWeight, 70.5))

	assert.Equal(t, 33, Get(k, testAge, e))
	assert.Equal(t, 70.5, Get(k, testWeight, e))
}

func TestImmediateHooks(t *testing.T) {
	t.Run("before sees the old value, finisher the new", func(t *testing.T) {
		p := Define("test-hook-values", 0)
		k := sim.New()
		e := pop.Create(k)

		var trace []string
		p.AttachImmediateHook(k, "probe", func(k *sim.Kernel, got sim.EntityID) sim.Command {
			assert.Equal(t, 0, Get(k, p, got), "hook runs before the write")
			trace = append(trace, "before")
			return func(k *sim.Kernel) {
				assert.Equal(t, 5, Get(k, p, got), "finisher runs after the write")
				trace = append(trace, "finish")
			}
		})

		Set(k, p, e, 5)
		trace = append(trace, "set-returned")

		// Finishers are synchronous: they complete inside Set.
		assert.Equal(t, []string{"before", "finish", "set-returned"}, trace)
	})

	t.Run("finishers run before observer notifications", func(t *testing.T) {
		p := Define("test-hook-vs-observe", 0)
		k := sim.New()
		e := pop.Create(k)

		var trace []string
		p.AttachImmediateHook(k, "probe", func(*sim.Kernel, sim.EntityID) sim.Command {
			return func(*sim.Kernel) { trace = append(trace, "finish") }
		})
		Observe(k, p, func(*sim.Kernel, sim.EntityID, int) {
			trace = append(trace, "observed")
		})

		k.QueueCallback(func(k *sim.Kernel) { Set(k, p, e, 1) })
		k.Execute()

		assert.Equal(t, []string{"finish", "observed"}, trace)
	})

	t.Run("nil finisher is skipped", func(t *testing.T) {
		p := Define("test-hook-nil", 0)
		k := sim.New()
		e := pop.Create(k)

		p.AttachImmediateHook(k, "probe", func(*sim.Kernel, sim.EntityID) sim.Command {
			return nil
		})

		assert.NotPanics(t, func() { Set(k, p, e, 1) })
		assert.Equal(t, 1, Get(k, p, e))
	})

	t.Run("detach removes hooks by tag", func(t *testing.T) {
		p := Define("test-hook-detach", 0)
		k := sim.New()
		e := pop.Create(k)

		var aRuns, bRuns int
		p.AttachImmediateHook(k, "a", func(*sim.Kernel, sim.EntityID) sim.Command {
			aRuns++
			return nil
		})
		p.AttachImmediateHook(k, "b", func(*sim.Kernel, sim.EntityID) sim.Command {
			bRuns++
			return nil
		})

		Set(k, p, e, 1)
		require.Equal(t, 1, aRuns)
		require.Equal(t, 1, bRuns)

		p.DetachImmediateHooks(k, "a")
		Set(k, p, e, 2)

		assert.Equal(t, 1, aRuns)
		assert.Equal(t, 2, bRuns)
	})
}
