package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidActionKind = errors.New("model: invalid action kind")

// DefaultSnoozeMinutes is used when an inbound snooze carries no
// explicit duration.
const DefaultSnoozeMinutes = 5

type ActionKind string

const (
	ActionComplete ActionKind = "complete"
	ActionSkip     ActionKind = "skip"
	ActionSnooze   ActionKind = "snooze"
)

func (k ActionKind) IsValid() bool {
	switch k {
	case ActionComplete, ActionSkip, ActionSnooze:
		return true
	default:
		return false
	}
}

// Action is a user action performed on a delivered notification,
// decoded from the inbound message at the boundary and matched
// exhaustively downstream. SnoozeMinutes is meaningful only when Kind
// is ActionSnooze.
type Action struct {
	Kind          ActionKind
	BlockID       string
	Date          string
	SnoozeMinutes int
}

func (a Action) Validate() error {
	if !a.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidActionKind, a.Kind)
	}
	if strings.TrimSpace(a.BlockID) == "" {
		return errors.New("model: action block id is required")
	}
	if !datePattern.MatchString(a.Date) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, a.Date)
	}
	if a.Kind == ActionSnooze && a.SnoozeMinutes <= 0 {
		return errors.New("model: snooze minutes must be positive")
	}
	return nil
}

type actionMessage struct {
	Action        string `json:"action"`
	BlockID       string `json:"block_id"`
	Date          string `json:"date"`
	SnoozeMinutes int    `json:"snooze_minutes,omitempty"`
}

// DecodeAction parses an inbound notification action message. A snooze
// without an explicit duration gets snoozeDefault, or
// DefaultSnoozeMinutes when snoozeDefault is not positive.
func DecodeAction(raw []byte, snoozeDefault int) (Action, error) {
	if snoozeDefault <= 0 {
		snoozeDefault = DefaultSnoozeMinutes
	}
	var msg actionMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Action{}, fmt.Errorf("model: decode action message: %w", err)
	}
	act := Action{
		Kind:          ActionKind(strings.ToLower(strings.TrimSpace(msg.Action))),
		BlockID:       msg.BlockID,
		Date:          msg.Date,
		SnoozeMinutes: msg.SnoozeMinutes,
	}
	if act.Kind == ActionSnooze && act.SnoozeMinutes == 0 {
		act.SnoozeMinutes = snoozeDefault
	}
	if err := act.Validate(); err != nil {
		return Action{}, err
	}
	return act, nil
}
