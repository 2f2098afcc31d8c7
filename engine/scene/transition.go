package scene

import "time"

// Phase is the transition controller's state.
type Phase uint8

const (
	Idle Phase = iota
	Pending
)

func (p Phase) String() string {
	if p == Pending {
		return "pending"
	}
	return "idle"
}

// TransitionState describes an in-flight scene change. From, To and Start
// are only meaningful while Phase is Pending.
type TransitionState struct {
	Phase Phase
	From  int
	To    int
	Start time.Duration
}

// transition gates visibility of incoming objects for the settle delay.
type transition struct {
	state TransitionState
}

func (tr *transition) pending() bool { return tr.state.Phase == Pending }

func (tr *transition) begin(from, to int, now time.Duration) {
	tr.state = TransitionState{Phase: Pending, From: from, To: to, Start: now}
}

func (tr *transition) finish() { tr.state = TransitionState{Phase: Idle} }
