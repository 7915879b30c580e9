package lifecycle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotExpiredAnchor(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	anchor := now.Add(-25 * time.Hour)

	d := NewTracker(&anchor, ActionWindow).Snapshot(now)

	assert.True(t, d.HasDeadline)
	assert.True(t, d.Expired)
	assert.Equal(t, BandExpired, d.Band)
	assert.Equal(t, "00:00:00", d.RemainingText)
	assert.Zero(t, d.RemainingSeconds)
}

func TestSnapshotBandsOverTheWindow(t *testing.T) {
	anchor := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tracker := NewTracker(&anchor, ActionWindow)

	// A fresh deadline is normal, not urgent: the urgent band is defined as
	// less than 6h left. Keep UrgentThreshold as is even where a fresh
	// countdown is described as urgent.
	tests := []struct {
		elapsed time.Duration
		band    Band
		text    string
	}{
		{0, BandNormal, "24:00:00"},
		{500 * time.Millisecond, BandNormal, "24:00:00"},
		{90 * time.Minute, BandNormal, "22:30:00"},
		{18 * time.Hour, BandNormal, "06:00:00"},
		{18*time.Hour + time.Second, BandUrgent, "05:59:59"},
		{23*time.Hour + 59*time.Minute + 59*time.Second, BandUrgent, "00:00:01"},
		{24*time.Hour - 500*time.Millisecond, BandUrgent, "00:00:01"},
		{24*time.Hour - time.Nanosecond, BandUrgent, "00:00:01"},
		{24 * time.Hour, BandExpired, "00:00:00"},
		{48 * time.Hour, BandExpired, "00:00:00"},
	}

	for _, test := range tests {
		d := tracker.Snapshot(anchor.Add(test.elapsed))
		assert.Equal(t, test.band, d.Band, "elapsed %s", test.elapsed)
		assert.Equal(t, test.text, d.RemainingText, "elapsed %s", test.elapsed)
		assert.Equal(t, test.band == BandExpired, d.Expired, "elapsed %s", test.elapsed)
	}
}

func TestSnapshotWithoutAnchor(t *testing.T) {
	d := NewTracker(nil, ActionWindow).Snapshot(time.Now())

	assert.False(t, d.HasDeadline)
	assert.False(t, d.Expired)
	assert.Equal(t, BandNone, d.Band)
	assert.Nil(t, d.DeadlineAt)
}

func TestWatchTicksUntilCancelled(t *testing.T) {
	anchor := time.Now()
	tracker := NewTracker(&anchor, ActionWindow, WithInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	var mu sync.Mutex
	var snapshots []Deadline
	done := make(chan struct{})

	go func() {
		defer close(done)
		tracker.Watch(ctx, func(d Deadline) {
			mu.Lock()
			defer mu.Unlock()
			snapshots = append(snapshots, d)
			if len(snapshots) == 3 {
				cancel()
			}
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not stop after the context was cancelled")
	}

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(snapshots), 3)
	assert.Equal(t, BandNormal, snapshots[0].Band)
}

func TestWatchWithoutDeadlineEmitsOnce(t *testing.T) {
	calls := 0
	NewTracker(nil, ActionWindow).Watch(context.Background(), func(d Deadline) {
		calls++
		assert.Equal(t, BandNone, d.Band)
	})
	assert.Equal(t, 1, calls)
}

func TestWatchUsesInjectedClock(t *testing.T) {
	anchor := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := anchor.Add(20 * time.Hour)
	tracker := NewTracker(&anchor, ActionWindow, WithClock(func() time.Time { return clock }))

	assert.Equal(t, BandUrgent, tracker.Current().Band)
	assert.Equal(t, "04:00:00", tracker.Current().RemainingText)
}

func TestSnapshotExpiresExactlyAtDeadline(t *testing.T) {
	anchor := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tracker := NewTracker(&anchor, ActionWindow)

	live := tracker.Snapshot(anchor.Add(ActionWindow - 500*time.Millisecond))
	assert.False(t, live.Expired)
	assert.Equal(t, BandUrgent, live.Band)
	assert.Equal(t, int64(1), live.RemainingSeconds)

	due := tracker.Snapshot(anchor.Add(ActionWindow))
	assert.True(t, due.Expired)
	assert.Equal(t, BandExpired, due.Band)
	assert.Zero(t, due.RemainingSeconds)
}
