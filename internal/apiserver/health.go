package apiserver

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// healthReporter tracks process uptime and reports memory/CPU usage via
// gopsutil for /healthz.
type healthReporter struct {
	startedAt time.Time
	proc      *process.Process
}

func newHealthReporter() *healthReporter {
	hr := &healthReporter{startedAt: time.Now()}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		hr.proc = proc
	}
	return hr
}

// HealthReport is the JSON body /healthz returns.
type HealthReport struct {
	OK          bool    `json:"ok"`
	UptimeSecs  float64 `json:"uptime_seconds"`
	HeapAllocMB float64 `json:"heap_alloc_mb"`
	Goroutines  int     `json:"goroutines"`
	CPUPercent  float64 `json:"cpu_percent,omitempty"`
}

// Report returns a fresh snapshot of process health.
func (hr *healthReporter) Report() HealthReport {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	report := HealthReport{
		OK:          true,
		UptimeSecs:  time.Since(hr.startedAt).Seconds(),
		HeapAllocMB: float64(m.HeapAlloc) / 1024 / 1024,
		Goroutines:  runtime.NumGoroutine(),
	}

	if hr.proc != nil {
		if pct, err := hr.proc.CPUPercent(); err == nil {
			report.CPUPercent = pct
		}
	}

	return report
}
