package workers

import (
	"context"
	"log/slog"
	"os"
	"time"
	"wegetchat/contract"

	"github.com/shirou/gopsutil/process"
)

// HeartbeatWorker periodically logs process health together with the size of the snapshot.
type HeartbeatWorker struct {
	log      *slog.Logger
	source   contract.SnapshotSource
	interval time.Duration
}

const defaultHeartbeatInterval = time.Minute

func NewHeartbeatWorker(log *slog.Logger, source contract.SnapshotSource, interval time.Duration) *HeartbeatWorker {
	if interval <= 0 {
		interval = defaultHeartbeatInterval
	}
	return &HeartbeatWorker{log: log, source: source, interval: interval}
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
	w.log.Info("Starting heartbeat worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.beat(p)
		}
	}
}

func (w *HeartbeatWorker) beat(p *process.Process) {
	attrs := []any{"version", w.source.Version()}
	for name, count := range w.source.Snapshot().Counts() {
		attrs = append(attrs, name, count)
	}

	rss, cpu, err := selfStats(p)
	if err != nil {
		w.log.Warn("Failed to collect self stats", "err", err)
	} else {
		attrs = append(attrs, "rss_bytes", rss, "cpu_percent", cpu)
	}
	w.log.Info("Heartbeat", attrs...)
}

// selfStats retrieves resident memory and CPU usage of the given process.
func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
