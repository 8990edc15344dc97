package scheduler

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"blockday/internal/delivery"
	"blockday/internal/logging"
	"blockday/internal/model"
	"blockday/internal/notify"
	"blockday/internal/timeutil"
)

// DefaultDebounce is the minimum gap between two actual reschedule
// runs. Upstream state changes fire in bursts; anything inside the
// window is skipped and a later trigger produces the correct set once
// state settles.
const DefaultDebounce = time.Second

// Clock returns the current time; injected so tests control "today".
type Clock func() time.Time

// IntentStore is the slice of the repository the coordinator needs for
// the persisted intent record. Satisfied by storage.Repository.
type IntentStore interface {
	ReplaceIntents(ctx context.Context, date string, intents []model.NotificationIntent) error
	ClearIntents(ctx context.Context, date string) error
}

// Coordinator owns the single authoritative pending notification set
// for the active day. Every path that regenerates notifications
// funnels through Reschedule; the in-flight flag is the only
// concurrency control, since this runs in one client context.
type Coordinator struct {
	delivery delivery.Adapter
	fallback delivery.Adapter
	intents  IntentStore
	log      logging.Logger
	now      Clock
	loc      *time.Location
	debounce time.Duration

	mu              sync.Mutex
	inFlight        bool
	lastFingerprint uint64
	lastRunAt       time.Time
}

type CoordinatorOptions struct {
	Delivery delivery.Adapter
	// Fallback receives per-intent local scheduling when Delivery's
	// batch call fails. Optional.
	Fallback delivery.Adapter
	Intents  IntentStore
	Logger   logging.Logger
	Now      Clock
	Location *time.Location
	Debounce time.Duration
}

func NewCoordinator(opts CoordinatorOptions) (*Coordinator, error) {
	if opts.Delivery == nil {
		return nil, errors.New("scheduler: coordinator requires a delivery adapter")
	}
	if opts.Intents == nil {
		return nil, errors.New("scheduler: coordinator requires an intent store")
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Coordinator{
		delivery: opts.Delivery,
		fallback: opts.Fallback,
		intents:  opts.Intents,
		log:      log,
		now:      now,
		loc:      loc,
		debounce: debounce,
	}, nil
}

// Reschedule cancels the pending intent set and derives a fresh one
// from the given schedule. It refuses to touch anything for a schedule
// whose date is not today in local time: browsing or editing another
// day must never cancel today's pending notifications. That refusal is
// a silent no-op, visible only in logs.
func (c *Coordinator) Reschedule(ctx context.Context, sched model.DaySchedule, settings model.Settings) error {
	now := c.now()
	today := timeutil.DateString(now.In(c.loc))
	if sched.Date != today {
		c.log.Debug("stale date guard", logging.F("date", sched.Date), logging.F("today", today))
		return nil
	}

	fingerprint := c.fingerprint(sched, settings)

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		c.log.Debug("reschedule already in flight", logging.F("date", sched.Date))
		return nil
	}
	if fingerprint == c.lastFingerprint && c.lastFingerprint != 0 {
		c.mu.Unlock()
		c.log.Debug("reschedule fingerprint unchanged", logging.F("date", sched.Date))
		return nil
	}
	if !c.lastRunAt.IsZero() && now.Sub(c.lastRunAt) < c.debounce {
		c.mu.Unlock()
		c.log.Debug("reschedule debounced", logging.F("date", sched.Date))
		return nil
	}
	c.inFlight = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	if err := c.delivery.CancelAll(ctx); err != nil {
		c.log.Warn("cancel pending notifications failed", logging.F("err", err))
	}
	if err := c.intents.ClearIntents(ctx, sched.Date); err != nil {
		return fmt.Errorf("scheduler: clear intent record: %w", err)
	}

	var batch []model.NotificationIntent
	if settings.NotificationsEnabled {
		batch = notify.Derive(sched.Blocks, settings.EarlyWarningLeadMinutes, sched.Date, now, c.loc)
	}

	if err := c.intents.ReplaceIntents(ctx, sched.Date, batch); err != nil {
		return fmt.Errorf("scheduler: persist intent record: %w", err)
	}

	if len(batch) > 0 {
		if err := c.delivery.ScheduleBatch(ctx, batch); err != nil {
			c.log.Warn("schedule batch failed, falling back to local timers",
				logging.F("err", err), logging.F("intents", len(batch)))
			if c.fallback == nil {
				return fmt.Errorf("scheduler: schedule batch: %w", err)
			}
			if fbErr := c.fallback.ScheduleBatch(ctx, batch); fbErr != nil {
				return fmt.Errorf("scheduler: fallback scheduling: %w", fbErr)
			}
		}
	}

	c.mu.Lock()
	c.lastFingerprint = fingerprint
	c.lastRunAt = now
	c.mu.Unlock()

	c.log.Info("rescheduled notifications",
		logging.F("date", sched.Date),
		logging.F("blocks", len(sched.Blocks)),
		logging.F("intents", len(batch)))
	return nil
}

// fingerprint summarizes the schedule state the pending set depends
// on. Equal fingerprints mean rescheduling would reproduce the same
// batch, which breaks trigger loops caused by scheduling side effects.
func (c *Coordinator) fingerprint(sched model.DaySchedule, settings model.Settings) uint64 {
	h := fnv.New64a()
	write := func(s string) {
		_, _ = h.Write([]byte(s))
		_, _ = h.Write([]byte{0})
	}
	write(sched.Date)
	write(strconv.Itoa(settings.EarlyWarningLeadMinutes))
	write(strconv.FormatBool(settings.NotificationsEnabled))
	for _, b := range sched.Blocks {
		write(b.ID)
		write(strconv.FormatInt(b.Start.UnixNano(), 10))
		write(strconv.FormatInt(b.End.UnixNano(), 10))
		write(string(b.Status))
		write(b.Title)
	}
	return h.Sum64()
}
