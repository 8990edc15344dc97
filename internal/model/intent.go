package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidIntentKind = errors.New("model: invalid intent kind")

type IntentKind string

const (
	IntentKindEarlyWarning IntentKind = "early-warning"
	IntentKindBlockStart   IntentKind = "block-start"
	IntentKindBlockEnd     IntentKind = "block-end"
)

func (k IntentKind) IsValid() bool {
	switch k {
	case IntentKindEarlyWarning, IntentKindBlockStart, IntentKindBlockEnd:
		return true
	default:
		return false
	}
}

// NotificationIntent is a derived reminder awaiting delivery. Intents
// are always a pure function of a schedule plus configuration; they are
// created in batches and superseded, never merged, by the next
// derivation. A batch is authoritative only for the date that produced
// it.
type NotificationIntent struct {
	ID            string
	TargetBlockID string
	Date          string
	Kind          IntentKind
	ScheduledAt   time.Time
	Title         string
	Body          string
}

// IntentID builds the deterministic intent id from the source block and
// kind, so regeneration overwrites rather than accumulates.
func IntentID(blockID string, kind IntentKind) string {
	return blockID + ":" + string(kind)
}

func (n NotificationIntent) Validate() error {
	if strings.TrimSpace(n.ID) == "" {
		return errors.New("model: intent id is required")
	}
	if strings.TrimSpace(n.TargetBlockID) == "" {
		return errors.New("model: intent target block id is required")
	}
	if !datePattern.MatchString(n.Date) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, n.Date)
	}
	if !n.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidIntentKind, n.Kind)
	}
	if n.ScheduledAt.IsZero() {
		return errors.New("model: intent scheduled_at is required")
	}
	return nil
}
