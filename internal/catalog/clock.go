package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so catalog timestamps are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the current time in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// IDGenerator produces public identifiers for new rows and jobs.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }

// ClockOrReal returns c, or RealClock when c is nil.
func ClockOrReal(c Clock) Clock {
	if c == nil {
		return RealClock{}
	}
	return c
}

// IDGeneratorOrUUID returns g, or UUIDGenerator when g is nil.
func IDGeneratorOrUUID(g IDGenerator) IDGenerator {
	if g == nil {
		return UUIDGenerator{}
	}
	return g
}
