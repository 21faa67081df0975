package volume

import (
	"testing"

	"github.com/shirou/gopsutil/v4/disk"
)

func TestMountpointFor(t *testing.T) {
	parts := []disk.PartitionStat{
		{Mountpoint: "/"},
		{Mountpoint: "/mnt/photos"},
		{Mountpoint: "/mnt/photos/raw"},
		{Mountpoint: "/home"},
	}

	tests := []struct {
		path string
		want string
	}{
		{"/etc/hosts", "/"},
		{"/mnt/photos", "/mnt/photos"},
		{"/mnt/photos/2024/a.jpg", "/mnt/photos"},
		{"/mnt/photos/raw/b.cr2", "/mnt/photos/raw"},
		{"/mnt/photosets", "/"},
		{"/home/user", "/home"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			if got := MountpointFor(tt.path, parts); got != tt.want {
				t.Errorf("MountpointFor(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}

	if got := MountpointFor("/x", nil); got != "" {
		t.Errorf("MountpointFor() with no partitions = %q, want empty", got)
	}
}

func TestDiskProber_Probe(t *testing.T) {
	info, err := NewDiskProber().Probe(t.TempDir())
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if !info.TotalCapacity.Valid || info.TotalCapacity.Int64 <= 0 {
		t.Errorf("TotalCapacity = %v, want positive", info.TotalCapacity)
	}
	if !info.AvailableCapacity.Valid || info.AvailableCapacity.Int64 > info.TotalCapacity.Int64 {
		t.Errorf("AvailableCapacity = %v, total %v", info.AvailableCapacity, info.TotalCapacity)
	}
}

func TestDiskProber_ProbeMissing(t *testing.T) {
	if _, err := NewDiskProber().Probe("/definitely/not/here"); err == nil {
		t.Error("Probe() expected error for missing path")
	}
}
