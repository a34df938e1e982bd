package maintenance

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockCleaner struct {
	calls atomic.Int32
	err   error
	ran   chan struct{}
}

func (m *mockCleaner) CleanExpiredTokens(ctx context.Context) (int, error) {
	m.calls.Add(1)
	m.ran <- struct{}{}
	return 2, m.err
}

func TestNewJanitor_InvalidSchedule(t *testing.T) {
	_, err := NewJanitor(&mockCleaner{}, "every day", zap.NewNop())

	assert.ErrorContains(t, err, `invalid cleanup schedule "every day"`)
}

func TestJanitor_WaitsForNextRun(t *testing.T) {
	j, err := NewJanitor(&mockCleaner{}, "0 3 * * *", zap.NewNop())
	require.NoError(t, err)

	now := time.Date(2024, 5, 1, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, 90*time.Minute, j.schedule.Next(now).Sub(now))
}

func TestJanitor_RunsAndStops(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "success"},
		{name: "cleaning error keeps the loop alive", err: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaner := &mockCleaner{err: tt.err, ran: make(chan struct{}, 2)}
			j, err := NewJanitor(cleaner, "*/5 * * * *", zap.NewNop())
			require.NoError(t, err)

			ticks := make(chan time.Time)
			var waits []time.Duration
			j.after = func(d time.Duration) <-chan time.Time {
				waits = append(waits, d)
				return ticks
			}

			j.Start()
			ticks <- time.Now()
			<-cleaner.ran
			ticks <- time.Now()
			<-cleaner.ran
			j.Stop()

			assert.Equal(t, int32(2), cleaner.calls.Load())
			for _, w := range waits {
				assert.LessOrEqual(t, w, 5*time.Minute)
			}
		})
	}
}
