// Package sim provides the discrete-event simulation kernel: a virtual
// clock driven by a cancellable time-ordered plan queue, a FIFO queue of
// deferred commands drained between plans, and a typed state registry that
// lets independently written modules attach state to a kernel instance
// without the kernel enumerating module types.
//
// A Kernel is single-threaded: the execution loop and every callback or
// hook run to completion with no internal suspension point. "Scheduling"
// means inserting a plan or command to be run later by the same loop, never
// handing control to another goroutine. Separate kernel instances (e.g.
// parallel replications) are independent and may run concurrently.
package sim

import (
	"math"

	"go.uber.org/zap"

	"github.com/teranos/SIMYX/errors"
	"github.com/teranos/SIMYX/logger"
)

// Command is a unit of deferred work. Commands are queued as values and
// receive the kernel as a parameter when run; captured arguments should be
// value snapshots taken at queue time, never live references into module
// state.
type Command func(*Kernel)

// Kernel owns the virtual clock, the plan queue, the deferred command
// queue, and the per-instance module state arena.
type Kernel struct {
	clock   float64
	plans   planQueue
	pending []Command

	slots []any

	population    int
	creationHooks []entityHook

	log *zap.SugaredLogger
}

// New creates an empty kernel with the clock at 0.0.
func New() *Kernel {
	return &Kernel{
		plans: newPlanQueue(),
		log:   logger.ComponentLogger("sim.kernel"),
	}
}

// Now returns the current virtual time. The clock starts at 0.0 and
// advances only when a plan fires.
func (k *Kernel) Now() float64 {
	return k.clock
}

// AddPlan schedules action to run at virtual time t and returns a PlanID
// usable with CancelPlan. Times in the past (before Now) and non-finite
// times are rejected with a scheduling error and nothing is enqueued.
func (k *Kernel) AddPlan(t float64, action Command) (PlanID, error) {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return PlanID{}, errors.NewInvalidPlanTime("plan time %v is not finite", t)
	}
	if t < k.clock {
		return PlanID{}, errors.NewInvalidPlanTime("plan time %v is before the clock %v", t, k.clock)
	}
	if action == nil {
		return PlanID{}, errors.AssertionFailedf("nil plan action")
	}
	return k.plans.add(t, action), nil
}

// CancelPlan prevents a not-yet-fired plan from firing. Cancelling is
// idempotent and is a no-op for plans that already fired, were already
// cancelled, or for the zero PlanID.
func (k *Kernel) CancelPlan(id PlanID) {
	k.plans.cancel(id)
}

// QueueCallback appends a command to the deferred FIFO queue. Deferred
// commands run once before the first plan fires and drain to empty after
// every plan, always in enqueue order.
func (k *Kernel) QueueCallback(action Command) {
	if action == nil {
		return
	}
	k.pending = append(k.pending, action)
}

// Execute drains the deferred queue, then fires plans in time order until
// none remain, draining the deferred queue after each. Plan actions may
// freely add or cancel plans, queue commands, and mutate module state; the
// loop re-checks both queues before every clock advance.
func (k *Kernel) Execute() {
	k.drainCallbacks()

	fired := 0
	for {
		plan, ok := k.plans.pop()
		if !ok {
			break
		}
		k.clock = plan.time
		plan.action(k)
		k.drainCallbacks()
		fired++
	}

	k.log.Debugw("Execution drained",
		logger.FieldSimTime, k.clock,
		logger.FieldPlans, fired,
	)
}

// drainCallbacks runs pending commands in FIFO order until none remain,
// including commands queued by commands already running in this drain.
func (k *Kernel) drainCallbacks() {
	for i := 0; i < len(k.pending); i++ {
		k.pending[i](k)
	}
	clear(k.pending)
	k.pending = k.pending[:0]
}
