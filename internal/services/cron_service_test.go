package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thedirecttree/directory-gateway/internal/models"
)

type countingPruner struct{ calls int }

func (p *countingPruner) Prune(context.Context) (int, error) {
	p.calls++
	return 0, nil
}

func TestCronService_StartSchedulesJobs(t *testing.T) {
	checkouts := NewCheckoutService(newMemCheckoutStore(), time.Hour, testLogger())

	t.Run("With pruner", func(t *testing.T) {
		cs := NewCronService(checkouts, &countingPruner{}, "0 */15 * * * *", testLogger())
		require.NoError(t, cs.Start())
		defer cs.Stop()

		status := cs.GetJobStatus()
		assert.Equal(t, 2, status["job_count"])
		assert.Equal(t, true, status["running"])
	})

	t.Run("Without pruner", func(t *testing.T) {
		cs := NewCronService(checkouts, nil, "0 */15 * * * *", testLogger())
		require.NoError(t, cs.Start())
		defer cs.Stop()
		assert.Equal(t, 1, cs.GetJobStatus()["job_count"])
	})

	t.Run("Invalid schedule", func(t *testing.T) {
		cs := NewCronService(checkouts, nil, "every so often", testLogger())
		assert.Error(t, cs.Start())
	})
}

type sweepCounter struct{ total int64 }

func (s *sweepCounter) AddSwept(n int64) { s.total += n }

func TestCronService_RunSweepNow(t *testing.T) {
	store := newMemCheckoutStore()
	checkouts := NewCheckoutService(store, time.Hour, testLogger())
	stale := &models.Checkout{OwnerKey: "u-1", State: models.CheckoutCreated}
	require.NoError(t, store.Create(context.Background(), stale))
	stale.UpdatedAt = time.Now().Add(-2 * time.Hour)
	store.checkouts[stale.ID] = *stale

	counter := &sweepCounter{}
	cs := NewCronService(checkouts, nil, "0 */15 * * * *", testLogger())
	cs.SetSweepRecorder(counter)
	cs.RunSweepNow()

	assert.Equal(t, models.CheckoutAbandoned, store.only(t).State)
	assert.Equal(t, int64(1), counter.total)
}
