package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingAdapter struct {
	fakeAdapter
	mu        sync.Mutex
	delivered []string
}

func (r *recordingAdapter) DeliverNow(_ context.Context, title, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delivered = append(r.delivered, title)
	return nil
}

func (r *recordingAdapter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.delivered)
}

func TestDailyReminderFiresOncePerDay(t *testing.T) {
	adapter := &recordingAdapter{}
	clock, current := coordClock(t, "2026-09-01T07:30:00Z")
	daily := NewDailyReminder(8, adapter, nil, clock, time.UTC)

	ctx := context.Background()

	// Before the configured hour: nothing.
	daily.Check(ctx, false)
	if adapter.count() != 0 {
		t.Fatalf("fired before hour: %d", adapter.count())
	}

	*current = current.Add(time.Hour)
	daily.Check(ctx, false)
	if adapter.count() != 1 {
		t.Fatalf("deliveries = %d, want 1", adapter.count())
	}

	// Repeated checks the same day stay quiet.
	*current = current.Add(3 * time.Hour)
	daily.Check(ctx, false)
	if adapter.count() != 1 {
		t.Fatalf("fired twice in one day: %d", adapter.count())
	}

	// Next day it may fire again.
	*current = current.Add(24 * time.Hour)
	daily.Check(ctx, false)
	if adapter.count() != 2 {
		t.Fatalf("deliveries = %d, want 2", adapter.count())
	}
}

func TestDailyReminderSkipsWhenDayIsPlanned(t *testing.T) {
	adapter := &recordingAdapter{}
	clock, _ := coordClock(t, "2026-09-01T09:00:00Z")
	daily := NewDailyReminder(8, adapter, nil, clock, time.UTC)

	daily.Check(context.Background(), true)
	if adapter.count() != 0 {
		t.Fatalf("fired despite an existing schedule: %d", adapter.count())
	}
}
