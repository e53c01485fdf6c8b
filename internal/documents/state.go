package documents

import (
	"database/sql/driver"
	"fmt"
	"slices"

	"github.com/JaimeStill/dossier/internal/faults"
)

// State is the review state of a user-document pair.
type State string

const (
	Empty     State = "empty"
	Uploaded  State = "uploaded"
	Submitted State = "submitted"
	Corrected State = "corrected"
	Observed  State = "observed"
	Rejected  State = "rejected"
	Accepted  State = "accepted"
)

// States lists every state in lifecycle order.
var States = []State{Empty, Uploaded, Submitted, Corrected, Observed, Rejected, Accepted}

// AwaitingReview are the states a reviewer still has to act on.
var AwaitingReview = []State{Submitted, Uploaded, Corrected}

// ObservationTargets are the states a reviewer observation may set.
var ObservationTargets = []State{Observed, Accepted, Rejected}

// transitions is the allowed-from table used in strict mode.
var transitions = map[State][]State{
	Empty:     {Uploaded},
	Uploaded:  {Uploaded, Submitted, Observed, Accepted, Rejected},
	Submitted: {Uploaded, Submitted, Corrected, Observed, Accepted, Rejected},
	Corrected: {Uploaded, Submitted, Observed, Accepted, Rejected},
	Observed:  {Uploaded, Submitted, Corrected, Observed, Accepted, Rejected},
	Rejected:  {Uploaded, Submitted, Observed, Accepted, Rejected},
	Accepted:  {Accepted},
}

// ParseState converts s to a State, rejecting unknown values.
func ParseState(s string) (State, error) {
	st := State(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown state %q", faults.ErrInvalidRequest, s)
	}
	return st, nil
}

func (s State) Valid() bool {
	return slices.Contains(States, s)
}

func (s State) AwaitingReview() bool {
	return slices.Contains(AwaitingReview, s)
}

func (s State) ObservationTarget() bool {
	return slices.Contains(ObservationTargets, s)
}

// CanTransition reports whether the strict transition table allows s -> to.
func (s State) CanTransition(to State) bool {
	return slices.Contains(transitions[s], to)
}

// Scan implements sql.Scanner. NULL scans as Empty.
func (s *State) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*s = Empty
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("scan state: unsupported source %T", src)
	}

	st := State(raw)
	if !st.Valid() {
		return fmt.Errorf("scan state: unknown value %q", raw)
	}
	*s = st
	return nil
}

// Value implements driver.Valuer.
func (s State) Value() (driver.Value, error) {
	return string(s), nil
}
