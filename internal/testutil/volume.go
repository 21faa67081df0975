package testutil

import (
	"database/sql"

	"catalog-go/internal/catalog"
)

// StubProber reports the same capacity for every path, or Err when set.
type StubProber struct {
	Total     int64
	Available int64
	Err       error
}

func (p *StubProber) Probe(string) (*catalog.VolumeInfo, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return &catalog.VolumeInfo{
		TotalCapacity:     sql.NullInt64{Int64: p.Total, Valid: true},
		AvailableCapacity: sql.NullInt64{Int64: p.Available, Valid: true},
	}, nil
}
