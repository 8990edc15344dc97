package model

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

var (
	ErrInvalidDate   = errors.New("model: invalid date, want YYYY-MM-DD")
	ErrBlockNotFound = errors.New("model: block not found in schedule")
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DaySchedule is the ordered block list for exactly one calendar day.
// There is at most one schedule per date; blocks are kept sorted by
// start time.
type DaySchedule struct {
	Date       string
	TemplateID string
	Blocks     []TimeBlock
}

func (s DaySchedule) Validate() error {
	if !datePattern.MatchString(s.Date) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, s.Date)
	}
	for i, b := range s.Blocks {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("model: block %d: %w", i, err)
		}
	}
	return nil
}

// SortBlocks orders blocks by start time. The deriver relies on this
// order, so callers sort defensively before deriving.
func (s *DaySchedule) SortBlocks() {
	sort.SliceStable(s.Blocks, func(i, j int) bool {
		return s.Blocks[i].Start.Before(s.Blocks[j].Start)
	})
}

// FindBlock returns a pointer into the schedule's block slice, or
// ErrBlockNotFound. The pointer stays valid until the slice is resized.
func (s *DaySchedule) FindBlock(id string) (*TimeBlock, error) {
	for i := range s.Blocks {
		if s.Blocks[i].ID == id {
			return &s.Blocks[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrBlockNotFound, id, s.Date)
}
