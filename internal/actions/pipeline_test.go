package actions

import (
	"context"
	"errors"
	"testing"
	"time"

	"blockday/internal/model"
	"blockday/internal/storage"
)

type fakeRepo struct {
	schedules map[string]model.DaySchedule
	saveErr   error
	saves     int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{schedules: make(map[string]model.DaySchedule)}
}

func (f *fakeRepo) GetSchedule(_ context.Context, date string) (model.DaySchedule, error) {
	sched, ok := f.schedules[date]
	if !ok {
		return model.DaySchedule{}, storage.ErrNotFound
	}
	return sched, nil
}

func (f *fakeRepo) SaveSchedule(_ context.Context, sched model.DaySchedule) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.schedules[sched.Date] = sched
	return nil
}

func (f *fakeRepo) DeleteSchedule(_ context.Context, date string) error {
	delete(f.schedules, date)
	return nil
}

func (f *fakeRepo) ListDates(_ context.Context) ([]string, error) { return nil, nil }

func (f *fakeRepo) ReplaceIntents(_ context.Context, _ string, _ []model.NotificationIntent) error {
	return nil
}

func (f *fakeRepo) ListIntents(_ context.Context, _ string) ([]model.NotificationIntent, error) {
	return nil, nil
}

func (f *fakeRepo) ClearIntents(_ context.Context, _ string) error { return nil }

type fakeRescheduler struct {
	calls []string
}

func (f *fakeRescheduler) Reschedule(_ context.Context, sched model.DaySchedule, _ model.Settings) error {
	f.calls = append(f.calls, sched.Date)
	return nil
}

const testNow = "2026-09-01T09:55:00Z"

func setupPipeline(t *testing.T) (*Pipeline, *fakeRepo, *fakeRescheduler) {
	t.Helper()
	repo := newFakeRepo()
	resched := &fakeRescheduler{}
	now, err := time.Parse(time.RFC3339, testNow)
	if err != nil {
		t.Fatalf("parse now: %v", err)
	}
	pipeline, err := NewPipeline(PipelineOptions{
		Repository:  repo,
		Rescheduler: resched,
		Settings:    func() model.Settings { return model.Settings{EarlyWarningLeadMinutes: 5, NotificationsEnabled: true} },
		Now:         func() time.Time { return now },
		Location:    time.UTC,
	})
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	return pipeline, repo, resched
}

func storedBlock(t *testing.T, repo *fakeRepo, date, id string) model.TimeBlock {
	t.Helper()
	sched := repo.schedules[date]
	block, err := sched.FindBlock(id)
	if err != nil {
		t.Fatalf("find block %s in %s: %v", id, date, err)
	}
	return *block
}

func seedSchedule(t *testing.T, repo *fakeRepo, date string) {
	t.Helper()
	start, err := time.Parse(time.RFC3339, date+"T09:00:00Z")
	if err != nil {
		t.Fatalf("parse start: %v", err)
	}
	repo.schedules[date] = model.DaySchedule{
		Date: date,
		Blocks: []model.TimeBlock{
			{
				ID:     "b1",
				Title:  "Deep work",
				Start:  start,
				End:    start.Add(50 * time.Minute),
				Status: model.BlockStatusPlanned,
			},
			{
				ID:     "b2",
				Title:  "Review",
				Start:  start.Add(50 * time.Minute),
				End:    start.Add(100 * time.Minute),
				Status: model.BlockStatusPlanned,
			},
		},
	}
}

func TestApplyCompleteIsIdempotent(t *testing.T) {
	pipeline, repo, _ := setupPipeline(t)
	seedSchedule(t, repo, "2026-09-01")
	act := model.Action{Kind: model.ActionComplete, BlockID: "b1", Date: "2026-09-01"}

	if err := pipeline.Apply(context.Background(), act); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	block := storedBlock(t, repo, "2026-09-01", "b1")
	if block.Status != model.BlockStatusCompleted || block.CompletedAt == nil {
		t.Fatalf("unexpected state after complete: %#v", block)
	}
	firstStamp := *block.CompletedAt

	if err := pipeline.Apply(context.Background(), act); err != nil {
		t.Fatalf("second apply must be a no-op, got: %v", err)
	}
	block = storedBlock(t, repo, "2026-09-01", "b1")
	if !block.CompletedAt.Equal(firstStamp) {
		t.Fatalf("duplicate delivery changed completion stamp: %v != %v", block.CompletedAt, firstStamp)
	}
}

func TestApplySkip(t *testing.T) {
	pipeline, repo, _ := setupPipeline(t)
	seedSchedule(t, repo, "2026-09-01")

	act := model.Action{Kind: model.ActionSkip, BlockID: "b2", Date: "2026-09-01"}
	if err := pipeline.Apply(context.Background(), act); err != nil {
		t.Fatalf("apply skip: %v", err)
	}
	block := storedBlock(t, repo, "2026-09-01", "b2")
	if block.Status != model.BlockStatusSkipped {
		t.Fatalf("status = %v, want skipped", block.Status)
	}
}

func TestApplySnoozeShiftsBothBoundaries(t *testing.T) {
	pipeline, repo, _ := setupPipeline(t)
	seedSchedule(t, repo, "2026-09-01")
	before := storedBlock(t, repo, "2026-09-01", "b1")
	origStart, origEnd := before.Start, before.End
	origDuration := before.Duration()

	act := model.Action{
		Kind:          model.ActionSnooze,
		BlockID:       "b1",
		Date:          "2026-09-01",
		SnoozeMinutes: 15,
	}
	if err := pipeline.Apply(context.Background(), act); err != nil {
		t.Fatalf("apply snooze: %v", err)
	}

	block := storedBlock(t, repo, "2026-09-01", "b1")
	if !block.Start.Equal(origStart.Add(15 * time.Minute)) {
		t.Fatalf("start = %v, want %v", block.Start, origStart.Add(15*time.Minute))
	}
	if !block.End.Equal(origEnd.Add(15 * time.Minute)) {
		t.Fatalf("end = %v, want %v", block.End, origEnd.Add(15*time.Minute))
	}
	if block.Duration() != origDuration {
		t.Fatalf("duration changed: %v", block.Duration())
	}
	if block.Status != model.BlockStatusPlanned {
		t.Fatalf("snooze changed status: %v", block.Status)
	}
}

func TestApplyBlockNotFound(t *testing.T) {
	pipeline, repo, resched := setupPipeline(t)
	seedSchedule(t, repo, "2026-09-01")

	act := model.Action{Kind: model.ActionComplete, BlockID: "ghost", Date: "2026-09-01"}
	err := pipeline.Apply(context.Background(), act)
	if err == nil || !errors.Is(err, model.ErrBlockNotFound) {
		t.Fatalf("expected ErrBlockNotFound, got: %v", err)
	}
	if len(resched.calls) != 0 {
		t.Fatal("failed action must not trigger rescheduling")
	}
}

func TestApplyMissingScheduleIsBlockNotFound(t *testing.T) {
	pipeline, _, _ := setupPipeline(t)
	act := model.Action{Kind: model.ActionComplete, BlockID: "b1", Date: "2026-09-01"}
	err := pipeline.Apply(context.Background(), act)
	if err == nil || !errors.Is(err, model.ErrBlockNotFound) {
		t.Fatalf("expected ErrBlockNotFound for missing schedule, got: %v", err)
	}
}

func TestApplyReschedulesOnlyToday(t *testing.T) {
	pipeline, repo, resched := setupPipeline(t)
	seedSchedule(t, repo, "2026-09-01")
	seedSchedule(t, repo, "2026-08-15")

	today := model.Action{Kind: model.ActionComplete, BlockID: "b1", Date: "2026-09-01"}
	if err := pipeline.Apply(context.Background(), today); err != nil {
		t.Fatalf("apply today: %v", err)
	}
	if len(resched.calls) != 1 || resched.calls[0] != "2026-09-01" {
		t.Fatalf("unexpected reschedule calls: %#v", resched.calls)
	}

	past := model.Action{Kind: model.ActionComplete, BlockID: "b1", Date: "2026-08-15"}
	if err := pipeline.Apply(context.Background(), past); err != nil {
		t.Fatalf("apply past day: %v", err)
	}
	if len(resched.calls) != 1 {
		t.Fatalf("past-day action triggered rescheduling: %#v", resched.calls)
	}

	block := storedBlock(t, repo, "2026-08-15", "b1")
	if block.Status != model.BlockStatusCompleted {
		t.Fatal("past-day mutation itself must still apply")
	}
}

func TestApplyPersistenceFailurePropagates(t *testing.T) {
	pipeline, repo, resched := setupPipeline(t)
	seedSchedule(t, repo, "2026-09-01")
	repo.saveErr = errors.New("disk full")

	act := model.Action{Kind: model.ActionComplete, BlockID: "b1", Date: "2026-09-01"}
	err := pipeline.Apply(context.Background(), act)
	if err == nil || !errors.Is(err, repo.saveErr) {
		t.Fatalf("expected save error to propagate, got: %v", err)
	}
	if len(resched.calls) != 0 {
		t.Fatal("failed save must not trigger rescheduling")
	}
}

func TestApplyValidatesAction(t *testing.T) {
	pipeline, _, _ := setupPipeline(t)
	err := pipeline.Apply(context.Background(), model.Action{Kind: "archive", BlockID: "b1", Date: "2026-09-01"})
	if err == nil || !errors.Is(err, model.ErrInvalidActionKind) {
		t.Fatalf("expected ErrInvalidActionKind, got: %v", err)
	}
}
