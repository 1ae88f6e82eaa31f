package quota

import (
	"context"
	"time"

	"resume-pipeline/internal/shared/telemetry"
)

// RunSweeper calls gate.Sweep every interval until ctx is done. It is meant to run in
// its own goroutine, owned by whoever owns the gate.
func RunSweeper(ctx context.Context, gate *Gate, interval time.Duration) {
	if gate == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := gate.Sweep(ctx, gate.Now())
			if err != nil {
				telemetry.Error("quota.sweep.failed", map[string]any{"err": err})
				continue
			}
			if removed > 0 {
				telemetry.Info("quota.sweep", map[string]any{"removed": removed})
			}
		}
	}
}
