package model

import (
	"errors"
	"testing"
	"time"
)

func scheduleWithBlocks(t *testing.T) DaySchedule {
	t.Helper()
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	mk := func(id string, startH, endH int) TimeBlock {
		return TimeBlock{
			ID:     id,
			Title:  "Block " + id,
			Start:  day.Add(time.Duration(startH) * time.Hour),
			End:    day.Add(time.Duration(endH) * time.Hour),
			Status: BlockStatusPlanned,
		}
	}
	return DaySchedule{
		Date:   "2026-09-01",
		Blocks: []TimeBlock{mk("b", 11, 12), mk("a", 9, 10)},
	}
}

func TestScheduleValidateDate(t *testing.T) {
	sched := scheduleWithBlocks(t)
	sched.Date = "09/01/2026"
	err := sched.Validate()
	if err == nil || !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got: %v", err)
	}
}

func TestSortBlocksOrdersByStart(t *testing.T) {
	sched := scheduleWithBlocks(t)
	sched.SortBlocks()
	if sched.Blocks[0].ID != "a" || sched.Blocks[1].ID != "b" {
		t.Fatalf("unexpected order: %s, %s", sched.Blocks[0].ID, sched.Blocks[1].ID)
	}
}

func TestFindBlockReturnsMutablePointer(t *testing.T) {
	sched := scheduleWithBlocks(t)
	block, err := sched.FindBlock("a")
	if err != nil {
		t.Fatalf("find block: %v", err)
	}
	block.MarkSkipped()

	again, err := sched.FindBlock("a")
	if err != nil {
		t.Fatalf("find block again: %v", err)
	}
	if again.Status != BlockStatusSkipped {
		t.Fatal("mutation through FindBlock pointer was lost")
	}
}

func TestFindBlockMissing(t *testing.T) {
	sched := scheduleWithBlocks(t)
	_, err := sched.FindBlock("nope")
	if err == nil || !errors.Is(err, ErrBlockNotFound) {
		t.Fatalf("expected ErrBlockNotFound, got: %v", err)
	}
}
