package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePruner struct {
	cutoffs []time.Time
	deleted int64
	err     error
}

func (f *fakePruner) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.deleted, f.err
}

func TestRunNowUsesRetentionCutoff(t *testing.T) {
	pruner := &fakePruner{deleted: 3}
	svc := New(pruner, 24*time.Hour, "@daily")
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	deleted, err := svc.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	require.Len(t, pruner.cutoffs, 1)
	assert.Equal(t, now.Add(-24*time.Hour), pruner.cutoffs[0])
}

func TestRunNowDisabled(t *testing.T) {
	pruner := &fakePruner{}
	svc := New(pruner, 0, "@daily")

	deleted, err := svc.RunNow(context.Background())
	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.Empty(t, pruner.cutoffs)
	require.NoError(t, svc.Start(context.Background()))
	assert.Empty(t, svc.Cron.Entries())
}

func TestRunNowPropagatesError(t *testing.T) {
	svc := New(&fakePruner{err: errors.New("boom")}, time.Hour, "@daily")
	_, err := svc.RunNow(context.Background())
	assert.EqualError(t, err, "boom")
}

func TestStartRejectsBadSchedule(t *testing.T) {
	svc := New(&fakePruner{}, time.Hour, "not a schedule")
	assert.Error(t, svc.Start(context.Background()))
}

func TestStartRegistersJob(t *testing.T) {
	svc := New(&fakePruner{}, time.Hour, "@every 1h")
	require.NoError(t, svc.Start(context.Background()))
	defer svc.Stop(context.Background())
	assert.Len(t, svc.Cron.Entries(), 1)
}
