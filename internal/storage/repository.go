package storage

import (
	"context"
	"errors"

	"blockday/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

// Repository is the persistence collaborator the engine consumes.
// Schedules are saved as one document: SaveSchedule replaces the
// stored day atomically, so a failed write never leaves a partial
// mutation behind. The intent record mirrors the batch last handed to
// the delivery adapter.
type Repository interface {
	GetSchedule(ctx context.Context, date string) (model.DaySchedule, error)
	SaveSchedule(ctx context.Context, sched model.DaySchedule) error
	DeleteSchedule(ctx context.Context, date string) error
	ListDates(ctx context.Context) ([]string, error)

	ReplaceIntents(ctx context.Context, date string, intents []model.NotificationIntent) error
	ListIntents(ctx context.Context, date string) ([]model.NotificationIntent, error)
	ClearIntents(ctx context.Context, date string) error
}
