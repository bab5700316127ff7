package services

import (
	"context"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthSample struct {
	Status            string    `json:"status"`
	Database          string    `json:"database"`
	CapturedAt        time.Time `json:"captured_at"`
	ProcessRSSBytes   int64     `json:"process_rss_bytes"`
	SystemMemoryTotal int64     `json:"system_memory_total_bytes"`
	SystemMemoryUsed  int64     `json:"system_memory_used_bytes"`
	SystemCPULoad     float64   `json:"system_cpu_load"`
	UploadDiskTotal   int64     `json:"upload_disk_total_bytes"`
	UploadDiskFree    int64     `json:"upload_disk_free_bytes"`
}

// SampleHealth pings the store and reads host figures for the upload volume.
// Host figures that cannot be read are left at zero.
func SampleHealth(ctx context.Context, db Pinger, uploadDir string) HealthSample {
	sample := HealthSample{Status: "ok", Database: "ok", CapturedAt: time.Now().UTC()}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		sample.Status = "degraded"
		sample.Database = "unavailable"
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := proc.MemoryInfo(); err == nil && info != nil {
			sample.ProcessRSSBytes = int64(info.RSS)
		}
	}
	if memStat, err := mem.VirtualMemory(); err == nil {
		sample.SystemMemoryTotal = int64(memStat.Total)
		sample.SystemMemoryUsed = int64(memStat.Total - memStat.Available)
	}
	if load, err := cpu.Percent(0, false); err == nil && len(load) > 0 {
		sample.SystemCPULoad = load[0] / 100.0
	}
	diskStat, err := disk.Usage(uploadDir)
	if err != nil {
		diskStat, err = disk.Usage("/")
	}
	if err == nil {
		sample.UploadDiskTotal = int64(diskStat.Total)
		sample.UploadDiskFree = int64(diskStat.Free)
	}
	return sample
}
