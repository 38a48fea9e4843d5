package exp

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/SIMYX/errors"
	"github.com/teranos/SIMYX/pop"
	"github.com/teranos/SIMYX/rng"
	"github.com/teranos/SIMYX/sim"
)

var testDraws = rng.Define("exp-test-draws")

func TestRunnerRunsAllReplications(t *testing.T) {
	var built, fired atomic.Int64
	s := &Scenario{Population: 10, Replications: 10, Workers: 4}

	runner := NewRunner(s, func(k *sim.Kernel, rep Replication) error {
		built.Add(1)
		_, err := k.AddPlan(1.0, func(k *sim.Kernel) {
			fired.Add(1)
		})
		return err
	})

	result, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, result.Completed)
	assert.Equal(t, 0, result.Failed())
	assert.Equal(t, int64(10), built.Load())
	assert.Equal(t, int64(10), fired.Load(), "plans scheduled by the model must have run")
	assert.NotEmpty(t, result.RunID)
	assert.Same(t, s, result.Scenario)
}

func TestReplicationSeeds(t *testing.T) {
	var mu sync.Mutex
	seeds := make(map[int]uint64)
	s := &Scenario{Population: 1, Replications: 6, BaseSeed: 100, Workers: 3}

	runner := NewRunner(s, func(k *sim.Kernel, rep Replication) error {
		mu.Lock()
		seeds[rep.Index] = rep.Seed
		mu.Unlock()
		assert.Same(t, s, rep.Scenario)
		assert.Equal(t, rep.Seed, rng.BaseSeed(k))
		return nil
	})

	_, err := runner.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, seeds, 6)
	for index, seed := range seeds {
		assert.Equal(t, uint64(100+index), seed)
	}
}

func TestModelErrorBecomesFailure(t *testing.T) {
	s := &Scenario{Population: 1, Replications: 5, Workers: 2}

	runner := NewRunner(s, func(k *sim.Kernel, rep Replication) error {
		if rep.Index == 2 {
			return errors.New("boom")
		}
		return nil
	})

	result, err := runner.Run(context.Background())
	require.NoError(t, err, "a failing replication is a diagnostic, not a run error")

	assert.Equal(t, 4, result.Completed)
	require.Equal(t, 1, result.Failed())
	assert.Equal(t, 2, result.Failures[0].Replication)
	assert.Contains(t, result.Failures[0].Err.Error(), "building replication 2")
}

func TestReplicationPanicIsRecovered(t *testing.T) {
	s := &Scenario{Population: 1, Replications: 4, Workers: 2}

	runner := NewRunner(s, func(k *sim.Kernel, rep Replication) error {
		if rep.Index == 1 {
			_, err := k.AddPlan(1.0, func(k *sim.Kernel) {
				panic("poisoned plan")
			})
			return err
		}
		return nil
	})

	result, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Completed)
	require.Equal(t, 1, result.Failed())
	failure := result.Failures[0]
	assert.Equal(t, 1, failure.Replication)
	assert.Contains(t, failure.Err.Error(), "panicked")
	assert.Contains(t, failure.Err.Error(), "poisoned plan")
}

func TestCancelledRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var started atomic.Int64
	s := &Scenario{Population: 1, Replications: 8, Workers: 2}
	runner := NewRunner(s, func(k *sim.Kernel, rep Replication) error {
		started.Add(1)
		return nil
	})

	result, err := runner.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run cancelled")
	require.NotNil(t, result)
	assert.Equal(t, 0, result.Completed)
	assert.Equal(t, int64(0), started.Load())
}

func TestRunnerValidatesScenario(t *testing.T) {
	called := false
	runner := NewRunner(&Scenario{Population: 0}, func(k *sim.Kernel, rep Replication) error {
		called = true
		return nil
	})

	_, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "population")
	assert.False(t, called)
}

func TestRunnerRequiresModel(t *testing.T) {
	runner := NewRunner(&Scenario{Population: 1}, nil)

	_, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasAssertionFailure(err))
}

func TestReplicationsGetIndependentKernels(t *testing.T) {
	s := &Scenario{Population: 25, Replications: 8, Workers: 4}

	runner := NewRunner(s, func(k *sim.Kernel, rep Replication) error {
		pop.CreateMany(k, rep.Scenario.Population)
		if got := pop.Count(k); got != rep.Scenario.Population {
			return errors.Newf("replication %d saw %d entities, want %d",
				rep.Index, got, rep.Scenario.Population)
		}
		return nil
	})

	result, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, result.Completed)
	assert.Equal(t, 0, result.Failed())
}

func TestRunIsDeterministicForAScenario(t *testing.T) {
	record := func() map[int][]uint64 {
		var mu sync.Mutex
		draws := make(map[int][]uint64)

		s := &Scenario{Population: 1, Replications: 4, BaseSeed: 7, Workers: 1}
		runner := NewRunner(s, func(k *sim.Kernel, rep Replication) error {
			r := rng.Get(k, testDraws)
			seq := []uint64{r.Uint64(), r.Uint64(), r.Uint64()}
			mu.Lock()
			draws[rep.Index] = seq
			mu.Unlock()
			return nil
		})

		_, err := runner.Run(context.Background())
		require.NoError(t, err)
		return draws
	}

	first := record()
	second := record()
	assert.Equal(t, first, second)
}

func TestDeferRunsAfterKernelDrains(t *testing.T) {
	var trace []string
	s := &Scenario{Population: 1, Replications: 1, Workers: 1}

	runner := NewRunner(s, func(k *sim.Kernel, rep Replication) error {
		Defer(k, nil) // ignored
		Defer(k, func() error {
			trace = append(trace, "first")
			return nil
		})
		Defer(k, func() error {
			trace = append(trace, "second")
			return nil
		})
		_, err := k.AddPlan(1.0, func(k *sim.Kernel) {
			trace = append(trace, "plan")
		})
		return err
	})

	result, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Completed)
	assert.Equal(t, []string{"plan", "first", "second"}, trace)
}

func TestDeferRunsWhenModelFails(t *testing.T) {
	var cleaned atomic.Bool
	s := &Scenario{Population: 1, Replications: 1, Workers: 1}

	runner := NewRunner(s, func(k *sim.Kernel, rep Replication) error {
		Defer(k, func() error {
			cleaned.Store(true)
			return nil
		})
		return errors.New("build failed")
	})

	result, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed())
	assert.True(t, cleaned.Load(), "cleanup must run even when the model fails")
}

func TestCleanupErrorBecomesFailure(t *testing.T) {
	s := &Scenario{Population: 1, Replications: 1, Workers: 1}

	runner := NewRunner(s, func(k *sim.Kernel, rep Replication) error {
		Defer(k, func() error {
			return errors.New("sink would not close")
		})
		return nil
	})

	result, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Completed)
	require.Equal(t, 1, result.Failed())
	assert.Contains(t, result.Failures[0].Err.Error(), "cleanup")
}

func TestNewRunID(t *testing.T) {
	a := NewRunID()
	b := NewRunID()

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
