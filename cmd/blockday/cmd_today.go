package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"blockday/internal/model"
	"blockday/internal/storage"
	"blockday/internal/timeutil"
	"blockday/internal/views"
)

func cmdToday(args []string) int {
	fs := flag.NewFlagSet("today", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath(), "config file path")
	date := fs.String("date", "", "date to show (YYYY-MM-DD, default today)")
	_ = fs.Parse(args)

	a, err := newApp(*configPath)
	if err != nil {
		return fatal("%v", err)
	}
	defer a.Close()

	ctx := context.Background()
	day := *date
	if day == "" {
		day = timeutil.Today(a.loc)
	}

	sched, err := a.repo.GetSchedule(ctx, day)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			sched = model.DaySchedule{Date: day}
		} else {
			return fatal("%v", err)
		}
	}
	intents, err := a.repo.ListIntents(ctx, day)
	if err != nil {
		return fatal("%v", err)
	}

	fmt.Println(views.RenderDay(sched, intents, a.loc))
	return 0
}
