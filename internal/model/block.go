package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidBlockStatus = errors.New("model: invalid block status")

type BlockStatus string

const (
	BlockStatusPlanned   BlockStatus = "planned"
	BlockStatusCompleted BlockStatus = "completed"
	BlockStatusSkipped   BlockStatus = "skipped"
)

func (s BlockStatus) IsValid() bool {
	switch s {
	case BlockStatusPlanned, BlockStatusCompleted, BlockStatusSkipped:
		return true
	default:
		return false
	}
}

// TimeBlock is a scheduled, dated occurrence of an activity. Blocks are
// owned by their day's schedule and mutated only through the schedule
// update path, since status and time changes invalidate derived
// notifications.
type TimeBlock struct {
	ID              string
	TemplateBlockID string
	Title           string
	CategoryID      string
	Description     string
	Start           time.Time
	End             time.Time
	Status          BlockStatus
	CompletedAt     *time.Time
}

// NewTimeBlock builds a planned block with a fresh id.
func NewTimeBlock(title string, start, end time.Time) TimeBlock {
	return TimeBlock{
		ID:     uuid.NewString(),
		Title:  title,
		Start:  start,
		End:    end,
		Status: BlockStatusPlanned,
	}
}

func (b TimeBlock) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return errors.New("model: block id is required")
	}
	if strings.TrimSpace(b.Title) == "" {
		return errors.New("model: block title is required")
	}
	if b.Start.IsZero() || b.End.IsZero() {
		return errors.New("model: block start and end are required")
	}
	if !b.Start.Before(b.End) {
		return errors.New("model: block start must be before end")
	}
	if !b.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidBlockStatus, b.Status)
	}
	if b.Status == BlockStatusCompleted && b.CompletedAt == nil {
		return errors.New("model: completed_at is required when block status is completed")
	}
	if b.Status != BlockStatusCompleted && b.CompletedAt != nil {
		return errors.New("model: completed_at must be nil when block status is not completed")
	}
	return nil
}

// MarkCompleted sets the block status to completed, stamping the
// completion time. Completing an already-completed block keeps the
// original timestamp, so duplicate action deliveries are safe.
func (b *TimeBlock) MarkCompleted(now time.Time) {
	if b.Status == BlockStatusCompleted && b.CompletedAt != nil {
		return
	}
	completed := now
	b.Status = BlockStatusCompleted
	b.CompletedAt = &completed
}

// MarkSkipped sets the block status to skipped and clears any
// completion timestamp.
func (b *TimeBlock) MarkSkipped() {
	b.Status = BlockStatusSkipped
	b.CompletedAt = nil
}

// Shift moves both boundaries of the block forward by d, preserving
// duration and status.
func (b *TimeBlock) Shift(d time.Duration) {
	b.Start = b.Start.Add(d)
	b.End = b.End.Add(d)
}

// Duration returns the length of the block.
func (b TimeBlock) Duration() time.Duration {
	return b.End.Sub(b.Start)
}
