package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"infinite-experiment/calllist/internal/logging"
)

// Scheduler owns the cron runner and the jobs registered on it.
type Scheduler struct {
	cron      *cron.Cron
	Prune     *PruneJob
	pruneID   cron.EntryID
	Schedule  string
	jobCtx    context.Context
	cancelJob context.CancelFunc
}

// InitializeJobs registers the prune job on schedule (standard 5-field cron,
// server local time) and starts the runner.
func InitializeJobs(ctx context.Context, schedule string, prune *PruneJob) (*Scheduler, error) {
	jobCtx, cancel := context.WithCancel(ctx)
	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(time.Local)),
		Prune:     prune,
		Schedule:  schedule,
		jobCtx:    jobCtx,
		cancelJob: cancel,
	}

	id, err := s.cron.AddFunc(schedule, func() {
		if _, err := prune.Run(s.jobCtx); err != nil {
			logging.Warn("Scheduled job failed", "job", PruneJobName, "error", err)
		}
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("invalid prune schedule %q: %w", schedule, err)
	}
	s.pruneID = id

	s.cron.Start()
	logging.Info("Scheduled jobs started", "job", PruneJobName, "schedule", schedule)
	return s, nil
}

// NextPrune reports when the prune job fires next.
func (s *Scheduler) NextPrune() time.Time {
	return s.cron.Entry(s.pruneID).Next
}

// Stop halts the runner and waits for a running job to return.
func (s *Scheduler) Stop() {
	s.cancelJob()
	<-s.cron.Stop().Done()
}
