package main

import (
	"context"
	"flag"
	"io"
	"os"

	"blockday/internal/actions"
	"blockday/internal/delivery"
	"blockday/internal/model"
	"blockday/internal/scheduler"
)

// cmdAction applies an inbound notification action message. The
// message is the JSON payload a delivered notification hands back:
// {"action":"snooze","block_id":"...","date":"2026-09-01","snooze_minutes":15}
func cmdAction(args []string) int {
	fs := flag.NewFlagSet("action", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath(), "config file path")
	payload := fs.String("json", "", "action message JSON (reads stdin when empty)")
	_ = fs.Parse(args)

	raw := []byte(*payload)
	if len(raw) == 0 {
		var err error
		raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fatal("read stdin: %v", err)
		}
	}

	a, err := newApp(*configPath)
	if err != nil {
		return fatal("%v", err)
	}
	defer a.Close()

	act, err := model.DecodeAction(raw, a.cfg.SnoozeDefaultMinutes)
	if err != nil {
		return fatal("%v", err)
	}

	ctx := context.Background()

	// The one-shot invocation still runs the full reschedule path so
	// the persisted intent record ends up consistent; local timers
	// are rebuilt by the running daemon on its next trigger.
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

	pipeline, err := actions.NewPipeline(actions.PipelineOptions{
		Repository:  a.repo,
		Rescheduler: coord,
		Settings:    a.cfg.Settings,
		Logger:      a.log,
		Location:    a.loc,
	})
	if err != nil {
		return fatal("%v", err)
	}

	if err := pipeline.Apply(ctx, act); err != nil {
		return fatal("%v", err)
	}
	return 0
}
