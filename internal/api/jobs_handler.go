package api

import (
	"net/http"
	"time"

	"infinite-experiment/calllist/internal/common"
	"infinite-experiment/calllist/internal/jobs"
	"infinite-experiment/calllist/internal/logging"
)

// JobsHandler handles manual job triggering endpoints
type JobsHandler struct {
	scheduler *jobs.Scheduler
}

func NewJobsHandler(scheduler *jobs.Scheduler) *JobsHandler {
	return &JobsHandler{scheduler: scheduler}
}

type PruneResult struct {
	TriggeredBy string `json:"triggered_by"`
	TriggeredAt string `json:"triggered_at"`
	DurationMs  int64  `json:"duration_ms"`
	Cleared     int64  `json:"cleared"`
}

type JobInfo struct {
	Name     string         `json:"name"`
	Schedule string         `json:"schedule"`
	NextRun  string         `json:"next_run,omitempty"`
	Last     jobs.RunStatus `json:"last"`
}

// TriggerPrune handles POST /api/v1/admin/jobs/prune
func (h *JobsHandler) TriggerPrune() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims, ok := editorFrom(w, r, initTime)
		if !ok {
			return
		}

		logging.Info("Prune manually triggered", "user_id", claims.UserID())
		cleared, err := h.scheduler.Prune.Run(r.Context())
		if err != nil {
			common.RespondDomainError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Prune completed", PruneResult{
			TriggeredBy: claims.UserID(),
			TriggeredAt: initTime.Format(time.RFC3339),
			DurationMs:  time.Since(initTime).Milliseconds(),
			Cleared:     cleared,
		})
	}
}

// GetJobStatus handles GET /api/v1/admin/jobs/status
func (h *JobsHandler) GetJobStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		info := JobInfo{
			Name:     jobs.PruneJobName,
			Schedule: h.scheduler.Schedule,
			Last:     h.scheduler.Prune.Status(),
		}
		if next := h.scheduler.NextPrune(); !next.IsZero() {
			info.NextRun = next.Format(time.RFC3339)
		}
		common.RespondSuccess(w, initTime, "Job status retrieved", []JobInfo{info})
	}
}
