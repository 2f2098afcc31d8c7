// Package sched runs deferred work on the frame loop.
//
// Tasks are scheduled relative to the scheduler's clock and fire from
// Advance, which the frame driver calls once per tick. Each task returns a
// Token that can cancel it before it fires. Tasks with the same deadline fire
// in the order they were scheduled.
package sched

import (
	"container/heap"
	"time"
)

// Token identifies a scheduled task.
type Token struct {
	s        *Scheduler
	seq      uint64
	deadline time.Duration
	fn       func()
	index    int
	state    taskState
}

type taskState uint8

const (
	statePending taskState = iota
	stateFired
	stateCancelled
)

// Pending reports whether the task has neither fired nor been cancelled.
func (t *Token) Pending() bool { return t != nil && t.state == statePending }

// Deadline returns the scheduler time at which the task fires.
func (t *Token) Deadline() time.Duration {
	if t == nil {
		return 0
	}
	return t.deadline
}

// Cancel removes a pending task. It reports whether the task was pending.
func (t *Token) Cancel() bool {
	if t == nil || t.state != statePending {
		return false
	}
	t.state = stateCancelled
	if t.index >= 0 {
		heap.Remove(&t.s.q, t.index)
	}
	return true
}

// Scheduler is a deadline-ordered task queue. The zero value is ready to use.
//
// Scheduler is not safe for concurrent use.
type Scheduler struct {
	now time.Duration
	seq uint64
	q   queue
}

// New returns a scheduler whose clock starts at now.
func New(now time.Duration) *Scheduler {
	return &Scheduler{now: now}
}

// Now returns the time of the last Advance.
func (s *Scheduler) Now() time.Duration { return s.now }

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int { return len(s.q) }

// After schedules fn to run once d has elapsed. A non-positive d fires on the
// next Advance.
func (s *Scheduler) After(d time.Duration, fn func()) *Token {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &Token{s: s, seq: s.seq, deadline: s.now + d, fn: fn, index: -1}
	heap.Push(&s.q, t)
	return t
}

// Advance moves the clock to now and runs every task whose deadline has
// passed, in deadline order. Tasks scheduled by a running task fire in the
// same call if they are already due. The clock never moves backwards.
func (s *Scheduler) Advance(now time.Duration) int {
	if now > s.now {
		s.now = now
	}
	fired := 0
	for len(s.q) > 0 {
		next := s.q[0]
		if next.deadline > s.now {
			break
		}
		heap.Pop(&s.q)
		next.state = stateFired
		if next.fn != nil {
			next.fn()
		}
		fired++
	}
	return fired
}

type queue []*Token

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].deadline != q[j].deadline {
		return q[i].deadline < q[j].deadline
	}
	return q[i].seq < q[j].seq
}

func (q queue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *queue) Push(x any) {
	t := x.(*Token)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
