package catalog

import "errors"

// Error kinds returned across the catalog. Callers match them with errors.Is;
// every returned error wraps exactly one of these when the failure is a
// domain condition rather than an I/O or database fault.
var (
	// ErrNotFound means a referenced Location, File, Job, Tag or Library does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey means an insert or move would violate a uniqueness key.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrCycleDetected means re-parenting would make a File its own ancestor.
	ErrCycleDetected = errors.New("cycle detected")

	// ErrInvalidTransition means the job state machine does not allow the request.
	ErrInvalidTransition = errors.New("invalid job state transition")

	// ErrInvariantViolation covers requests that would break a catalog invariant,
	// such as restarting a job with another task count or checksumming a directory.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrLocationOffline is returned when a scan targets a Location marked offline.
	ErrLocationOffline = errors.New("location is offline")
)
