package lifecycle

import (
	"context"
	"fmt"
	"time"
)

const (
	// ActionWindow is how long a winner has after the auction ends.
	ActionWindow = 24 * time.Hour

	// UrgentThreshold marks the last stretch of the window.
	UrgentThreshold = 6 * time.Hour

	TickInterval = time.Second
)

type Band string

const (
	BandNone    Band = "none"
	BandNormal  Band = "normal"
	BandUrgent  Band = "urgent"
	BandExpired Band = "expired"
)

type Deadline struct {
	HasDeadline      bool       `json:"hasDeadline"`
	DeadlineAt       *time.Time `json:"deadlineAt,omitempty"`
	Expired          bool       `json:"expired"`
	RemainingSeconds int64      `json:"remainingSeconds"`
	RemainingText    string     `json:"remainingText"`
	Band             Band       `json:"band"`
}

// Tracker counts down to anchor+offset.
type Tracker struct {
	anchor   *time.Time
	offset   time.Duration
	interval time.Duration
	now      func() time.Time
}

type TrackerOption func(*Tracker)

func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

func WithInterval(d time.Duration) TrackerOption {
	return func(t *Tracker) { t.interval = d }
}

func NewTracker(anchor *time.Time, offset time.Duration, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		anchor:   anchor,
		offset:   offset,
		interval: TickInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Snapshot classifies the time left at the given instant. An absent anchor
// means there is no deadline, not an expired one.
func (t *Tracker) Snapshot(now time.Time) Deadline {
	if t.anchor == nil || t.anchor.IsZero() {
		return Deadline{RemainingText: formatHMS(0), Band: BandNone}
	}

	deadline := t.anchor.Add(t.offset)
	remaining := deadline.Sub(now)

	d := Deadline{
		HasDeadline: true,
		DeadlineAt:  &deadline,
	}

	switch {
	case remaining <= 0:
		d.Expired = true
		d.Band = BandExpired
		remaining = 0
	case remaining < UrgentThreshold:
		d.Band = BandUrgent
	default:
		d.Band = BandNormal
	}

	// Rounded up so a live deadline never reads 00:00:00.
	shown := ceilSecond(remaining)
	d.RemainingSeconds = int64(shown / time.Second)
	d.RemainingText = formatHMS(shown)
	return d
}

func (t *Tracker) Current() Deadline {
	return t.Snapshot(t.now())
}

// Watch calls fn with a fresh snapshot immediately and then on every tick
// until ctx is done. Without a deadline fn is called once.
func (t *Tracker) Watch(ctx context.Context, fn func(Deadline)) {
	current := t.Current()
	fn(current)
	if !current.HasDeadline {
		return
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(t.Current())
		}
	}
}

func ceilSecond(d time.Duration) time.Duration {
	if truncated := d.Truncate(time.Second); truncated < d {
		return truncated + time.Second
	}
	return d
}

func formatHMS(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
