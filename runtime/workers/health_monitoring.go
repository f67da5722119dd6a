package workers

import (
	"chat-hub/contract"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

var _ contract.Worker = (*HealthMonitoringWorker)(nil)

// HealthMonitoringWorker periodically logs self process stats (CPU, RSS,
// OS status) together with the persist queue depth. Observability only; it
// never touches registry or presence state.
type HealthMonitoringWorker struct {
	log            *slog.Logger
	metricInterval time.Duration
	queueDepth     func() int
}

func NewHealthMonitoringWorker(log *slog.Logger, metricInterval time.Duration,
	queueDepth func() int) *HealthMonitoringWorker {
	return &HealthMonitoringWorker{
		log:            log,
		metricInterval: metricInterval,
		queueDepth:     queueDepth,
	}
}

func (w *HealthMonitoringWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping health monitoring")
			return nil
		case <-ticker.C:
			rss, cpu, status, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			w.log.Info("telemetry: process health",
				"cpu_percent", cpu,
				"rss_mb", rss/(1024*1024),
				"status", status,
				"persist_queue", w.queueDepth())
		}
	}
}

// selfStats retrieves technical metrics (Memory, CPU, and OS Status) for
// the given process.
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
