package catalog

import "database/sql"

// VolumeInfo describes the device a Location lives on.
type VolumeInfo struct {
	TotalCapacity     sql.NullInt64
	AvailableCapacity sql.NullInt64
	IsRootFilesystem  bool
}

// VolumeProber reports capacity for the device holding a path.
type VolumeProber interface {
	Probe(path string) (*VolumeInfo, error)
}

// NopProber reports every capacity as unknown.
type NopProber struct{}

func (NopProber) Probe(string) (*VolumeInfo, error) { return &VolumeInfo{}, nil }
