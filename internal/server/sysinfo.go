package server

import (
	"context"
	"log"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemInfo is the host summary shown on the admin dashboard.
type SystemInfo struct {
	Hostname    string  `json:"hostname"`
	Platform    string  `json:"platform"`
	Uptime      string  `json:"uptime"`
	MemTotalMB  uint64  `json:"mem_total_mb"`
	MemUsedMB   uint64  `json:"mem_used_mb"`
	MemUsedPct  float64 `json:"mem_used_percent"`
	Goroutines  int     `json:"goroutines"`
	HeapAllocMB uint64  `json:"heap_alloc_mb"`
	GoVersion   string  `json:"go_version"`
	Unavailable bool    `json:"unavailable,omitempty"`
}

// systemInfo collects host statistics. Fields the host cannot report are
// left empty.
func systemInfo(ctx context.Context) SystemInfo {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	info := SystemInfo{
		Goroutines:  runtime.NumGoroutine(),
		HeapAllocMB: ms.HeapAlloc >> 20,
		GoVersion:   runtime.Version(),
	}

	if h, err := host.InfoWithContext(ctx); err == nil {
		info.Hostname = h.Hostname
		info.Platform = h.Platform + " " + h.PlatformVersion
		info.Uptime = (time.Duration(h.Uptime) * time.Second).String()
	} else {
		log.Printf("admin: host info: %v", err)
		info.Unavailable = true
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		info.MemTotalMB = vm.Total >> 20
		info.MemUsedMB = vm.Used >> 20
		info.MemUsedPct = vm.UsedPercent
	} else {
		log.Printf("admin: memory info: %v", err)
		info.Unavailable = true
	}
	return info
}
