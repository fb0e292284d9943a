package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// PresenceCounter is the slice of the registry telemetry needs.
type PresenceCounter interface {
	Snapshot() []string
}

// TelemetryWorker periodically logs process self-stats (RSS, CPU, OS
// status) alongside the current presence count. Observability only,
// nothing downstream depends on it.
type TelemetryWorker struct {
	log            *slog.Logger
	presence       PresenceCounter
	metricInterval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, presence PresenceCounter, metricInterval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{log: log, presence: presence, metricInterval: metricInterval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping telemetry")
			return nil
		case <-ticker.C:
			rss, cpu, status, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			w.log.Debug("telemetry",
				"online_users", len(w.presence.Snapshot()),
				"ram_bytes", rss,
				"cpu_percent", cpu,
				"pid_status", status)
		}
	}
}

// selfStats retrieves technical metrics (Memory, CPU, and OS Status) for the given process.
func selfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}
	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return memInfo.RSS, cpuPercent, status, nil
}
