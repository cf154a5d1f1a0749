// Package event implements the tick-level action queue: a plain FIFO of
// actions to run, drained synchronously once per tick rather than the
// concurrent buffered-channel fan-out the eventbus uses for cross-process
// broadcast.
package event

import "github.com/and0p/chaos-core/internal/component"

// Event is an ordered batch of actions queued together — e.g. every action
// an ability's cast produced in one go.
type Event struct {
	Actions []component.Action
}

// NewEvent wraps a set of actions preserving order.
func NewEvent(actions ...component.Action) *Event {
	return &Event{Actions: actions}
}

// ActionQueue is the game loop's per-tick FIFO: actions enqueued by Execute
// while draining the queue are appended, not interleaved, so a tick
// processes breadth-first across nesting levels in the order they were
// produced.
type ActionQueue struct {
	pending []component.Action
}

// NewActionQueue creates an empty queue.
func NewActionQueue() *ActionQueue {
	return &ActionQueue{}
}

// Enqueue appends an event's actions, in order, to the back of the queue.
func (q *ActionQueue) Enqueue(e *Event) {
	q.pending = append(q.pending, e.Actions...)
}

// EnqueueOne appends a single action to the back of the queue.
func (q *ActionQueue) EnqueueOne(a component.Action) {
	q.pending = append(q.pending, a)
}

// Len reports how many actions are currently queued.
func (q *ActionQueue) Len() int { return len(q.pending) }

// Pop removes and returns the action at the front of the queue.
func (q *ActionQueue) Pop() (component.Action, bool) {
	if len(q.pending) == 0 {
		return nil, false
	}
	a := q.pending[0]
	q.pending = q.pending[1:]
	return a, true
}

// Drain removes and returns every currently queued action, in order,
// leaving the queue empty. Used by the tick loop to snapshot one
// generation of work before running it (actions produced while running may
// enqueue more, which the next Drain call will pick up).
func (q *ActionQueue) Drain() []component.Action {
	out := q.pending
	q.pending = nil
	return out
}
