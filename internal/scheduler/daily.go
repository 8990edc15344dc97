package scheduler

import (
	"context"
	"sync"
	"time"

	"blockday/internal/delivery"
	"blockday/internal/logging"
	"blockday/internal/timeutil"
)

// DailyReminder nudges the user to plan their day. It is checked on a
// coarse interval rather than scheduled as an exact-time callback;
// minute-level precision is fine for this reminder.
type DailyReminder struct {
	hour     int
	now      Clock
	loc      *time.Location
	delivery delivery.Adapter
	log      logging.Logger

	mu        sync.Mutex
	lastFired string
}

func NewDailyReminder(hour int, adapter delivery.Adapter, log logging.Logger, now Clock, loc *time.Location) *DailyReminder {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logging.Nop()
	}
	return &DailyReminder{hour: hour, now: now, loc: loc, delivery: adapter, log: log}
}

// Check fires the reminder at most once per local day, once the
// configured hour has passed and only when no schedule exists yet for
// today. hasScheduleToday is supplied by the caller so this stays free
// of persistence access.
func (d *DailyReminder) Check(ctx context.Context, hasScheduleToday bool) {
	local := d.now().In(d.loc)
	if local.Hour() < d.hour {
		return
	}
	today := timeutil.DateString(local)

	d.mu.Lock()
	if d.lastFired == today {
		d.mu.Unlock()
		return
	}
	d.lastFired = today
	d.mu.Unlock()

	if hasScheduleToday {
		return
	}
	if err := d.delivery.DeliverNow(ctx, "Plan your day", "No time blocks scheduled for today yet."); err != nil {
		d.log.Warn("daily reminder delivery failed", logging.F("err", err))
	}
}
