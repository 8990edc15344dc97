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

// cmdAdd inserts one block into a day's schedule through the same
// save-then-reschedule path the action pipeline uses.
func cmdAdd(args []string) int {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath(), "config file path")
	date := fs.String("date", "", "date (YYYY-MM-DD, default today)")
	start := fs.String("start", "", "start time (HH:MM)")
	end := fs.String("end", "", "end time (HH:MM)")
	title := fs.String("title", "", "block title")
	_ = fs.Parse(args)

	if *start == "" || *end == "" || *title == "" {
		return fatal("add requires -start, -end and -title")
	}

	a, err := newApp(*configPath)
	if err != nil {
		return fatal("%v", err)
	}
	defer a.Close()

	day := *date
	if day == "" {
		day = timeutil.Today(a.loc)
	}
	startAt, err := timeutil.ParseClock(day, *start, a.loc)
	if err != nil {
		return fatal("%v", err)
	}
	endAt, err := timeutil.ParseClock(day, *end, a.loc)
	if err != nil {
		return fatal("%v", err)
	}

	ctx := context.Background()
	sched, err := a.repo.GetSchedule(ctx, day)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return fatal("%v", err)
		}
		sched = model.DaySchedule{Date: day}
	}

	block := model.NewTimeBlock(*title, startAt, endAt)
	if err := block.Validate(); err != nil {
		return fatal("%v", err)
	}
	sched.Blocks = append(sched.Blocks, block)
	sched.SortBlocks()

	if err := a.repo.SaveSchedule(ctx, sched); err != nil {
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
	if err := coord.Reschedule(ctx, sched, a.cfg.Settings()); err != nil {
		return fatal("%v", err)
	}

	fmt.Printf("added %s %s-%s (%s)\n", day, *start, *end, block.ID)
	return 0
}
