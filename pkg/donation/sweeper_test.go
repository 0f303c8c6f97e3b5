package donation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeperRejectsSubSecondInterval(t *testing.T) {
	f := newFixture(t)
	log, _ := testLogger()

	sweeper := NewSweeper(f.service, 500*time.Millisecond, log)
	assert.ErrorIs(t, sweeper.Start(), ErrInvalidSweepInterval)
}

func TestSweeperRunOnce(t *testing.T) {
	f := newFixture(t)
	f.create(t, "2026-03-01T12:30")
	f.now = f.now.Add(time.Hour)
	log, _ := testLogger()

	sweeper := NewSweeper(f.service, time.Minute, log)
	swept, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, swept)
}

func TestSweeperRunsOnSchedule(t *testing.T) {
	f := newFixture(t)
	d := f.create(t, "2026-03-01T12:30")
	f.now = f.now.Add(time.Hour)
	log, _ := testLogger()

	sweeper := NewSweeper(f.service, time.Second, log)
	require.NoError(t, sweeper.Start())
	defer sweeper.Stop()

	assert.Eventually(t, func() bool {
		got, err := f.store.GetDonationByID(context.Background(), d.ID)
		return err == nil && got.Status == "expired"
	}, 5*time.Second, 100*time.Millisecond)
}
