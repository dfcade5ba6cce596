package service

import "errors"

var (
	// ErrCancelled is returned when the user declines a confirmation.
	ErrCancelled = errors.New("cancelled")
	// ErrGuardFailed is returned when an action's preconditions do not hold.
	ErrGuardFailed = errors.New("action not allowed in the current state")
	// ErrNoPreviousTranche is returned when a new tranche is requested for
	// a project that has no earlier tranche to continue from.
	ErrNoPreviousTranche = errors.New("cannot create a new tranche: no previous tranche")
	// ErrNotSaved is returned when an action needs a server id the record
	// does not have yet.
	ErrNotSaved = errors.New("record has not been saved")
)
