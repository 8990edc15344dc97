package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"blockday/internal/delivery"
	"blockday/internal/model"
	"blockday/internal/scheduler"
	"blockday/internal/storage"
	"blockday/internal/timeutil"
)

// cmdClear deletes a day's schedule. Clearing today also runs the
// coordinator with the now-empty day, so every pending notification
// tied to the old state is cancelled, not just the stored rows.
func cmdClear(args []string) int {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath(), "config file path")
	date := fs.String("date", "", "date to clear (YYYY-MM-DD, default today)")
	_ = fs.Parse(args)

	a, err := newApp(*configPath)
	if err != nil {
		return fatal("%v", err)
	}
	defer a.Close()

	day := *date
	if day == "" {
		day = timeutil.Today(a.loc)
	}

	ctx := context.Background()
	if err := a.repo.DeleteSchedule(ctx, day); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fatal("%v", err)
	}
	if err := a.repo.ClearIntents(ctx, day); err != nil {
		return fatal("%v", err)
	}

	engine := scheduler.NewEngine(1)
	engine.Start()
	defer engine.Stop()
	local, err := delivery.NewLocalAdapter(engine, nil)
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
	// For a non-today date this is the coordinator's silent no-op.
	if err := coord.Reschedule(ctx, model.DaySchedule{Date: day}, a.cfg.Settings()); err != nil {
		return fatal("%v", err)
	}

	fmt.Printf("cleared %s\n", day)
	return 0
}
