package sim

import "container/heap"

// PlanID is an opaque handle for a scheduled plan, used only for
// cancellation. The zero PlanID is never issued and cancelling it is a
// no-op.
type PlanID struct {
	seq uint64
}

// Valid reports whether the id was issued by AddPlan.
func (id PlanID) Valid() bool {
	return id.seq != 0
}

type timedPlan struct {
	time   float64
	seq    uint64
	action Command
}

// planHeap is a min-heap ordered by time, ties broken by sequence number,
// so equal-time plans fire in insertion order.
type planHeap []timedPlan

func (h planHeap) Len() int { return len(h) }

func (h planHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	return h[i].seq < h[j].seq
}

func (h planHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *planHeap) Push(x any) {
	*h = append(*h, x.(timedPlan))
}

func (h *planHeap) Pop() any {
	old := *h
	n := len(old)
	plan := old[n-1]
	old[n-1] = timedPlan{}
	*h = old[:n-1]
	return plan
}

// planQueue is a time-ordered priority queue with lazy cancellation:
// cancelling records the sequence number, and pop discards a cancelled
// plan exactly once when it reaches the top.
type planQueue struct {
	heap      planHeap
	cancelled map[uint64]struct{}
	lastSeq   uint64
}

func newPlanQueue() planQueue {
	return planQueue{
		cancelled: make(map[uint64]struct{}),
	}
}

func (q *planQueue) add(t float64, action Command) PlanID {
	q.lastSeq++
	heap.Push(&q.heap, timedPlan{time: t, seq: q.lastSeq, action: action})
	return PlanID{seq: q.lastSeq}
}

func (q *planQueue) cancel(id PlanID) {
	if id.seq == 0 {
		return
	}
	q.cancelled[id.seq] = struct{}{}
}

// pop returns the next plan that has not been cancelled, removing any
// cancelled entries it skips from both the heap and the cancelled set.
func (q *planQueue) pop() (timedPlan, bool) {
	for q.heap.Len() > 0 {
		plan := heap.Pop(&q.heap).(timedPlan)
		if _, skip := q.cancelled[plan.seq]; skip {
			delete(q.cancelled, plan.seq)
			continue
		}
		return plan, true
	}
	return timedPlan{}, false
}
