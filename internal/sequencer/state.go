// internal/sequencer/state.go
package sequencer

import (
	"fmt"

	"github.com/superfire/agv-gz-test/internal/board"
)

// StateKind enumerates the sequencer states.
type StateKind int

const (
	// StateSending: request for Channel sent, waiting for its ack.
	StateSending StateKind = iota
	StateSuccess
	StateFailedSomeChannel
	StateTimedOut
	StateCancelled
)

func (k StateKind) String() string {
	switch k {
	case StateSending:
		return "SendingChannel"
	case StateSuccess:
		return "Success"
	case StateFailedSomeChannel:
		return "FailedSomeChannel"
	case StateTimedOut:
		return "TimedOut"
	case StateCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// State is the current position of the sequencer.
// Channel is only meaningful for StateSending.
type State struct {
	Kind    StateKind
	Channel board.Channel
}

func sending(c board.Channel) State {
	return State{Kind: StateSending, Channel: c}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s.Kind != StateSending
}

func (s State) String() string {
	if s.Kind == StateSending {
		return fmt.Sprintf("%s(%s)", s.Kind, s.Channel)
	}
	return s.Kind.String()
}

// event drives a transition out of StateSending.
type event int

const (
	evAck event = iota
	evTimeout
	evCancel
)

// next is the transition function. allPassed is consulted only when
// the last channel has been acknowledged.
func next(cur State, ev event, allPassed func() bool) State {
	if cur.Terminal() {
		return cur
	}

	switch ev {
	case evTimeout:
		return State{Kind: StateTimedOut}
	case evCancel:
		return State{Kind: StateCancelled}
	}

	if c, ok := cur.Channel.Next(); ok {
		return sending(c)
	}
	if allPassed() {
		return State{Kind: StateSuccess}
	}
	return State{Kind: StateFailedSomeChannel}
}

// VerdictKind is the final outcome of a run.
type VerdictKind int

const (
	VerdictSuccess VerdictKind = iota
	VerdictFailedSomeChannel
	VerdictTimedOut
	VerdictCancelled
)

func (k VerdictKind) String() string {
	switch k {
	case VerdictSuccess:
		return "Success"
	case VerdictFailedSomeChannel:
		return "FailedSomeChannel"
	case VerdictTimedOut:
		return "TimedOut"
	case VerdictCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Verdict is returned by Run. Summary is the accumulated per-channel report.
type Verdict struct {
	Kind    VerdictKind
	Summary string
}

func verdictFor(s State) VerdictKind {
	switch s.Kind {
	case StateSuccess:
		return VerdictSuccess
	case StateFailedSomeChannel:
		return VerdictFailedSomeChannel
	case StateTimedOut:
		return VerdictTimedOut
	default:
		return VerdictCancelled
	}
}
