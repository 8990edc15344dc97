package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"blockday/internal/delivery"
	"blockday/internal/logging"
	"blockday/internal/scheduler"
	"blockday/internal/storage"
	"blockday/internal/timeutil"
)

func cmdDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath(), "config file path")
	_ = fs.Parse(args)

	a, err := newApp(*configPath)
	if err != nil {
		return fatal("%v", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := scheduler.NewEngine(16)
	engine.Start()
	defer engine.Stop()

	local, err := delivery.NewLocalAdapter(engine, func(_ context.Context, title, body string) error {
		fmt.Printf("%s: %s\n", title, body)
		return nil
	})
	if err != nil {
		return fatal("%v", err)
	}

	coord, err := scheduler.NewCoordinator(scheduler.CoordinatorOptions{
		Delivery: local,
		Intents:  a.repo,
		Logger:   a.log,
		Location: a.loc,
		Debounce: a.cfg.Debounce(),
	})
	if err != nil {
		return fatal("%v", err)
	}

	reschedToday := func(ctx context.Context) {
		today := timeutil.Today(a.loc)
		sched, err := a.repo.GetSchedule(ctx, today)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return
			}
			a.log.Error("load today's schedule failed", logging.F("err", err))
			return
		}
		if err := coord.Reschedule(ctx, sched, a.cfg.Settings()); err != nil {
			a.log.Error("reschedule failed", logging.F("err", err))
		}
	}
	reschedToday(ctx)

	// Fired intents from the local timer queue become immediate
	// deliveries.
	go func() {
		for intent := range engine.C() {
			if err := local.DeliverNow(ctx, intent.Title, intent.Body); err != nil {
				a.log.Warn("deliver failed", logging.F("intent", intent.ID), logging.F("err", err))
			}
		}
	}()

	daily := scheduler.NewDailyReminder(a.cfg.DailyReminder.Hour, local, a.log, nil, a.loc)
	lastDay := timeutil.Today(a.loc)

	checker := cron.New()
	_, err = checker.AddFunc(a.cfg.CheckCron, func() {
		today := timeutil.Today(a.loc)
		if today != lastDay {
			// Day rollover: yesterday's pending set is stale.
			lastDay = today
			if err := local.CancelAll(ctx); err != nil {
				a.log.Warn("cancel on rollover failed", logging.F("err", err))
			}
			reschedToday(ctx)
		}
		if a.cfg.DailyReminder.Enabled {
			_, err := a.repo.GetSchedule(ctx, today)
			daily.Check(ctx, err == nil)
		}
	})
	if err != nil {
		return fatal("invalid check_cron %q: %v", a.cfg.CheckCron, err)
	}
	checker.Start()
	defer checker.Stop()

	a.log.Info("daemon started",
		logging.F("db", a.cfg.DatabasePath),
		logging.F("lead_minutes", a.cfg.EarlyWarningLeadMinutes))

	<-ctx.Done()
	a.log.Info("daemon stopping")
	// Give in-flight deliveries a moment before teardown.
	time.Sleep(100 * time.Millisecond)
	return 0
}
