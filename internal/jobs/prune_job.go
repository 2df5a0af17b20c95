package jobs

import (
	"context"
	"sync"
	"time"

	"infinite-experiment/calllist/internal/directory"
	"infinite-experiment/calllist/internal/logging"
	"infinite-experiment/calllist/internal/metrics"
)

const PruneJobName = "recent_call_prune"

// Pruner removes RecentCall rows older than a cutoff.
type Pruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RunStatus describes the last completed run of a job.
type RunStatus struct {
	LastRun     time.Time `json:"last_run,omitempty"`
	LastCleared int64     `json:"last_cleared"`
	LastError   string    `json:"last_error,omitempty"`
}

// PruneJob clears "called today" rows left over from previous days. CallLog
// is never touched.
type PruneJob struct {
	pruner  Pruner
	metrics *metrics.MetricsRegistry
	clock   directory.Clock

	mu     sync.Mutex
	status RunStatus
}

func NewPruneJob(pruner Pruner, m *metrics.MetricsRegistry, clock directory.Clock) *PruneJob {
	if clock == nil {
		clock = time.Now
	}
	return &PruneJob{pruner: pruner, metrics: m, clock: clock}
}

// Run prunes everything before local midnight of the current day.
func (j *PruneJob) Run(ctx context.Context) (int64, error) {
	start := time.Now()
	now := j.clock()
	cutoff := directory.StartOfDay(now)

	cleared, err := j.pruner.PruneBefore(ctx, cutoff)
	j.metrics.ObserveJob(PruneJobName, time.Since(start).Seconds())

	j.mu.Lock()
	j.status = RunStatus{LastRun: now, LastCleared: cleared}
	if err != nil {
		j.status.LastError = err.Error()
	}
	j.mu.Unlock()

	if err != nil {
		logging.Error("Recent call prune failed", "error", err, "cutoff", cutoff)
		return 0, err
	}
	logging.Info("Recent call prune completed",
		"cleared", cleared,
		"cutoff", cutoff.Format(time.RFC3339),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return cleared, nil
}

func (j *PruneJob) Status() RunStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}
