package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinite-experiment/calllist/internal/metrics"
)

type recordingPruner struct {
	cutoffs []time.Time
	cleared int64
	err     error
}

func (p *recordingPruner) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	p.cutoffs = append(p.cutoffs, cutoff)
	return p.cleared, p.err
}

func TestPruneJob_CutsAtLocalMidnight(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 5, 0, 0, time.Local)
	pruner := &recordingPruner{cleared: 7}
	job := NewPruneJob(pruner, metrics.NewMetricsRegistry(prometheus.NewRegistry()), func() time.Time { return now })

	cleared, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), cleared)
	require.Len(t, pruner.cutoffs, 1)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), pruner.cutoffs[0])

	status := job.Status()
	assert.Equal(t, now, status.LastRun)
	assert.Equal(t, int64(7), status.LastCleared)
	assert.Empty(t, status.LastError)
}

func TestPruneJob_RecordsFailure(t *testing.T) {
	pruner := &recordingPruner{err: errors.New("db gone")}
	job := NewPruneJob(pruner, nil, nil)

	_, err := job.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, "db gone", job.Status().LastError)
}

func TestInitializeJobs_RejectsBadSchedule(t *testing.T) {
	_, err := InitializeJobs(context.Background(), "every now and then", NewPruneJob(&recordingPruner{}, nil, nil))
	require.Error(t, err)

	s, err := InitializeJobs(context.Background(), "5 0 * * *", NewPruneJob(&recordingPruner{}, nil, nil))
	require.NoError(t, err)
	defer s.Stop()
	assert.True(t, s.NextPrune().After(time.Now()))
}
