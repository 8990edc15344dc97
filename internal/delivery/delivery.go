// Package delivery defines the contract between the scheduling engine
// and whatever transport actually shows notifications. The engine
// treats every call as fallible and idempotent: cancelling when nothing
// is scheduled is not an error, and a failed batch is recovered by
// falling back to local per-intent timers.
package delivery

import (
	"context"
	"errors"

	"blockday/internal/model"
)

// ErrUnavailable reports that the transport could not accept the call.
// The coordinator recovers by scheduling intents locally.
var ErrUnavailable = errors.New("delivery: transport unavailable")

// Adapter is implemented by notification transports.
type Adapter interface {
	// ScheduleBatch replaces any previously scheduled batch with the
	// given intents, atomically from the caller's perspective.
	ScheduleBatch(ctx context.Context, intents []model.NotificationIntent) error

	// CancelAll clears every pending scheduled notification.
	// Cancelling an empty set succeeds.
	CancelAll(ctx context.Context) error

	// DeliverNow shows an immediate, non-scheduled reminder.
	DeliverNow(ctx context.Context, title, body string) error
}
