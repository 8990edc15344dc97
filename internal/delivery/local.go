package delivery

import (
	"context"
	"fmt"

	"blockday/internal/model"
)

// Timer is the slice of the local scheduling engine the adapter needs.
// Satisfied by *scheduler.Engine.
type Timer interface {
	Schedule(intent model.NotificationIntent) error
	Clear()
}

// NotifyFunc presents an immediate reminder to the user.
type NotifyFunc func(ctx context.Context, title, body string) error

// LocalAdapter schedules intents as in-process deferred timers. It is
// both the shipped default transport and the fallback strategy the
// coordinator switches to when a remote batch adapter fails.
type LocalAdapter struct {
	timer  Timer
	notify NotifyFunc
}

func NewLocalAdapter(timer Timer, notify NotifyFunc) (*LocalAdapter, error) {
	if timer == nil {
		return nil, fmt.Errorf("delivery: nil timer")
	}
	return &LocalAdapter{timer: timer, notify: notify}, nil
}

func (a *LocalAdapter) ScheduleBatch(ctx context.Context, intents []model.NotificationIntent) error {
	a.timer.Clear()
	for _, intent := range intents {
		if err := a.timer.Schedule(intent); err != nil {
			return fmt.Errorf("delivery: schedule %s: %w", intent.ID, err)
		}
	}
	return nil
}

func (a *LocalAdapter) CancelAll(_ context.Context) error {
	a.timer.Clear()
	return nil
}

func (a *LocalAdapter) DeliverNow(ctx context.Context, title, body string) error {
	if a.notify == nil {
		return nil
	}
	return a.notify(ctx, title, body)
}
