// Package volume reports capacity of the device a Location lives on.
package volume

import (
	"database/sql"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"

	"catalog-go/internal/catalog"
)

// DiskProber implements catalog.VolumeProber with gopsutil.
type DiskProber struct{}

func NewDiskProber() *DiskProber {
	return &DiskProber{}
}

// Probe returns total and available bytes of the filesystem holding path.
// The root flag is set when the longest mountpoint containing path is "/".
func (p *DiskProber) Probe(path string) (*catalog.VolumeInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	usage, err := disk.Usage(abs)
	if err != nil {
		return nil, fmt.Errorf("reading usage of %s: %w", abs, err)
	}

	info := &catalog.VolumeInfo{
		TotalCapacity:     toNull(usage.Total),
		AvailableCapacity: toNull(usage.Free),
	}

	// Partitions can fail inside containers; capacity is still useful then.
	parts, err := disk.Partitions(false)
	if err == nil {
		info.IsRootFilesystem = MountpointFor(abs, parts) == "/"
	}
	return info, nil
}

// MountpointFor returns the mountpoint among parts that holds path, or "".
func MountpointFor(path string, parts []disk.PartitionStat) string {
	best := ""
	for _, p := range parts {
		mp := p.Mountpoint
		if !within(path, mp) {
			continue
		}
		if len(mp) > len(best) {
			best = mp
		}
	}
	return best
}

func within(path, mountpoint string) bool {
	if mountpoint == "/" {
		return strings.HasPrefix(path, "/")
	}
	return path == mountpoint || strings.HasPrefix(path, mountpoint+string(filepath.Separator))
}

func toNull(v uint64) sql.NullInt64 {
	if v > math.MaxInt64 {
		return sql.NullInt64{Int64: math.MaxInt64, Valid: true}
	}
	return sql.NullInt64{Int64: int64(v), Valid: true}
}

var _ catalog.VolumeProber = (*DiskProber)(nil)
