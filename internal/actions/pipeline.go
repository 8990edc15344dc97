// Package actions applies notification-triggered mutations back onto
// the persisted schedule. The path is the same as a UI-driven edit
// (load, mutate, save, reschedule) and is safe to replay when the same
// action is delivered twice.
package actions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blockday/internal/logging"
	"blockday/internal/model"
	"blockday/internal/storage"
	"blockday/internal/timeutil"
)

// Rescheduler regenerates the pending notification set after a
// mutation. Satisfied by *scheduler.Coordinator.
type Rescheduler interface {
	Reschedule(ctx context.Context, sched model.DaySchedule, settings model.Settings) error
}

// SettingsFunc returns the notification settings in effect at the
// moment of rescheduling.
type SettingsFunc func() model.Settings

type Pipeline struct {
	repo     storage.Repository
	resched  Rescheduler
	settings SettingsFunc
	log      logging.Logger
	now      func() time.Time
	loc      *time.Location
}

type PipelineOptions struct {
	Repository  storage.Repository
	Rescheduler Rescheduler
	Settings    SettingsFunc
	Logger      logging.Logger
	Now         func() time.Time
	Location    *time.Location
}

func NewPipeline(opts PipelineOptions) (*Pipeline, error) {
	if opts.Repository == nil {
		return nil, errors.New("actions: pipeline requires a repository")
	}
	if opts.Rescheduler == nil {
		return nil, errors.New("actions: pipeline requires a rescheduler")
	}
	settings := opts.Settings
	if settings == nil {
		settings = func() model.Settings { return model.Settings{} }
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
	return &Pipeline{
		repo:     opts.Repository,
		resched:  opts.Rescheduler,
		settings: settings,
		log:      log,
		now:      now,
		loc:      loc,
	}, nil
}

// Apply loads the schedule named by the action (not necessarily the
// one currently displayed anywhere), applies the mutation, and persists
// it. Rescheduling is triggered only when the mutated day is today.
// Persistence failures propagate to the caller.
func (p *Pipeline) Apply(ctx context.Context, act model.Action) error {
	if err := act.Validate(); err != nil {
		return err
	}

	sched, err := p.repo.GetSchedule(ctx, act.Date)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: %q in %s", model.ErrBlockNotFound, act.BlockID, act.Date)
		}
		return fmt.Errorf("actions: load schedule %s: %w", act.Date, err)
	}

	block, err := sched.FindBlock(act.BlockID)
	if err != nil {
		return err
	}

	switch act.Kind {
	case model.ActionComplete:
		block.MarkCompleted(p.now())
	case model.ActionSkip:
		block.MarkSkipped()
	case model.ActionSnooze:
		block.Shift(time.Duration(act.SnoozeMinutes) * time.Minute)
	default:
		return fmt.Errorf("%w: %q", model.ErrInvalidActionKind, act.Kind)
	}

	// Snoozing can reorder blocks relative to their neighbors.
	sched.SortBlocks()

	if err := p.repo.SaveSchedule(ctx, sched); err != nil {
		return fmt.Errorf("actions: save schedule %s: %w", act.Date, err)
	}

	p.log.Info("applied notification action",
		logging.F("action", string(act.Kind)),
		logging.F("block", act.BlockID),
		logging.F("date", act.Date))

	if act.Date == timeutil.DateString(p.now().In(p.loc)) {
		if err := p.resched.Reschedule(ctx, sched, p.settings()); err != nil {
			return fmt.Errorf("actions: reschedule after %s: %w", act.Kind, err)
		}
	}
	return nil
}
