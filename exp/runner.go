package exp

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/SIMYX/errors"
	"github.com/teranos/SIMYX/logger"
	"github.com/teranos/SIMYX/rng"
	"github.com/teranos/SIMYX/sim"
	"github.com/teranos/SIMYX/sym"
)

// Replication identifies one model run within an experiment. The seed is
// already applied to the kernel's random streams when the model runs.
type Replication struct {
	Index    int
	Seed     uint64
	Scenario *Scenario
}

// Model builds one replication on a fresh kernel: create entities, wire
// reports, schedule the opening plans. The runner calls Execute after the
// model returns nil.
type Model func(k *sim.Kernel, rep Replication) error

// Failure records one replication that did not complete.
type Failure struct {
	Replication int
	Err         error
}

// Result summarizes a run.
type Result struct {
	RunID     string
	Scenario  *Scenario
	Completed int
	Failures  []Failure
	Elapsed   time.Duration
}

// Failed returns the number of replications that did not complete.
func (r *Result) Failed() int {
	return len(r.Failures)
}

type outcome struct {
	index int
	err   error
}

// Runner executes a scenario's replications on a bounded worker pool.
// Each replication gets its own kernel seeded with base seed plus the
// replication index; a panicking replication becomes a failure diagnostic
// without taking the run down.
type Runner struct {
	scenario *Scenario
	model    Model
	log      *zap.SugaredLogger
	progress *rate.Limiter
}

// NewRunner pairs a scenario with a model.
func NewRunner(s *Scenario, m Model) *Runner {
	return &Runner{
		scenario: s,
		model:    m,
		log:      logger.ComponentLogger("exp.runner"),
		progress: rate.NewLimiter(rate.Every(250*time.Millisecond), 1),
	}
}

// NewRunID returns a short unique run identifier.
func NewRunID() string {
	id := uuid.New()
	return base58.Encode(id[:])
}

// Run executes every replication and collects the outcomes. Cancelling
// the context stops dispatching; replications already inside the model
// run to completion. The partial result is returned alongside the
// cancellation error.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.model == nil {
		return nil, errors.AssertionFailedf("runner has no model")
	}
	r.scenario.Normalize()
	if err := r.scenario.Validate(); err != nil {
		return nil, err
	}

	runID := NewRunID()
	start := time.Now()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := r.scenario.Workers
	if workers > r.scenario.Replications {
		workers = r.scenario.Replications
	}

	logger.RunInfow("Run started",
		logger.FieldRunID, runID,
		logger.FieldScenario, r.scenario.Name,
		logger.FieldPopulation, r.scenario.Population,
		logger.FieldCount, r.scenario.Replications,
		logger.FieldWorkers, workers,
	)

	jobs := make(chan int)
	outcomes := make(chan outcome)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go r.worker(ctx, &wg, jobs, outcomes)
	}

	go func() {
		defer close(jobs)
		for i := 0; i < r.scenario.Replications; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	result := &Result{RunID: runID, Scenario: r.scenario}
	done := 0
	for out := range outcomes {
		done++
		if out.err != nil {
			result.Failures = append(result.Failures, Failure{Replication: out.index, Err: out.err})
			logger.RunErrorw("Replication failed",
				logger.FieldRunID, runID,
				logger.FieldReplication, out.index,
				logger.FieldError, out.err,
			)
		} else {
			result.Completed++
		}
		if r.progress.Allow() {
			r.log.Infow("Progress",
				logger.FieldRunID, runID,
				logger.FieldCount, done,
				logger.FieldSize, r.scenario.Replications,
			)
		}
	}
	result.Elapsed = time.Since(start)

	if v, err := mem.VirtualMemory(); err == nil {
		r.log.Debugw("Run resource usage",
			logger.FieldRunID, runID,
			"memory_percent", v.UsedPercent,
		)
	}

	logger.WithSymbol(sym.RunEnd).Infow("Run complete",
		logger.FieldRunID, runID,
		logger.FieldCount, result.Completed,
		"failed", result.Failed(),
		logger.FieldDurationMS, result.Elapsed.Milliseconds(),
	)

	if err := ctx.Err(); err != nil {
		return result, errors.Wrap(err, "run cancelled")
	}
	return result, nil
}

func (r *Runner) worker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan int, outcomes chan<- outcome) {
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case i, ok := <-jobs:
			if !ok {
				return
			}
			outcomes <- outcome{index: i, err: r.replicate(ctx, i)}
		}
	}
}

// replicate runs one replication on its own kernel. A panic anywhere
// inside the model or the kernel loop is recovered into the returned
// error, so one poisoned replication cannot sink the others.
func (r *Runner) replicate(ctx context.Context, index int) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.AssertionFailedf("replication %d panicked: %v", index, rec)
		}
	}()

	if err := ctx.Err(); err != nil {
		return errors.Wrapf(err, "replication %d not started", index)
	}

	rep := Replication{
		Index:    index,
		Seed:     r.scenario.BaseSeed + uint64(index),
		Scenario: r.scenario,
	}

	k := sim.New()
	rng.SetBaseSeed(k, rep.Seed)
	defer func() {
		if cerr := runCleanups(k); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "replication %d cleanup", index)
		}
	}()

	r.log.Debugw("Replication starting",
		logger.FieldReplication, index,
		logger.FieldSeed, rep.Seed,
	)

	if err := r.model(k, rep); err != nil {
		return errors.Wrapf(err, "building replication %d", index)
	}
	k.Execute()

	r.log.Debugw("Replication complete",
		logger.FieldReplication, index,
		logger.FieldSimTime, k.Now(),
	)
	return nil
}
