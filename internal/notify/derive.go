// Package notify derives the reminder set for one day of time blocks.
//
// Derivation is a pure function of the block list, the early-warning
// lead, and the clock: no I/O, no persistence. The rescheduling
// coordinator calls it after every schedule mutation and replaces the
// previous batch wholesale, so intent ids are deterministic and every
// emitted time is strictly in the future at derivation time.
package notify

import (
	"fmt"
	"sort"
	"time"

	"blockday/internal/model"
	"blockday/internal/timeutil"
)

// Derive produces the notification intents for the given day. Wall
// clock times in intent bodies are rendered in loc, since stored block
// times are normalized to UTC.
//
// Contiguous future blocks with early warnings enabled get the merged
// pair: one wrap-up reminder during the wind-down of the current block
// and one start reminder for the next, instead of a separate end alert
// immediately followed by a start alert. Blocks with a gap after them
// get the full set: a block-end prompt, an early warning before the
// next block, and a start reminder. The last block of the day emits no
// end prompt; the "How did it go?" nudge belongs to the transition
// into a gap, not to the end of the schedule.
func Derive(blocks []model.TimeBlock, leadMinutes int, date string, now time.Time, loc *time.Location) []model.NotificationIntent {
	if loc == nil {
		loc = time.Local
	}

	ordered := make([]model.TimeBlock, len(blocks))
	copy(ordered, blocks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start.Before(ordered[j].Start)
	})

	lead := time.Duration(leadMinutes) * time.Minute
	out := make([]model.NotificationIntent, 0, len(ordered)*3)
	seen := make(map[string]struct{}, len(ordered)*3)

	emit := func(intent model.NotificationIntent) {
		// Lead-time subtraction can land in the past even when the
		// source block is still future, so the clock is re-checked per
		// intent, not once at entry.
		if !intent.ScheduledAt.After(now) {
			return
		}
		if _, dup := seen[intent.ID]; dup {
			return
		}
		seen[intent.ID] = struct{}{}
		out = append(out, intent)
	}

	clock := func(t time.Time) string {
		return timeutil.FormatClock(t.In(loc))
	}

	for i, b := range ordered {
		if !b.End.After(now) {
			continue
		}
		if !b.Start.After(now) {
			// In progress: its reminders have already fired.
			continue
		}

		var next *model.TimeBlock
		if i+1 < len(ordered) {
			next = &ordered[i+1]
		}

		switch {
		case next != nil && Contiguous(b, *next) && leadMinutes > 0:
			emit(model.NotificationIntent{
				ID:            model.IntentID(b.ID, model.IntentKindEarlyWarning),
				TargetBlockID: b.ID,
				Date:          date,
				Kind:          model.IntentKindEarlyWarning,
				ScheduledAt:   b.End.Add(-lead),
				Title:         fmt.Sprintf("Wrap up: %s", b.Title),
				Body:          fmt.Sprintf("Next: %s in %d minutes", next.Title, leadMinutes),
			})
			emit(model.NotificationIntent{
				ID:            model.IntentID(next.ID, model.IntentKindBlockStart),
				TargetBlockID: next.ID,
				Date:          date,
				Kind:          model.IntentKindBlockStart,
				ScheduledAt:   next.Start,
				Title:         fmt.Sprintf("Time for: %s", next.Title),
				Body:          fmt.Sprintf("Until %s", clock(next.End)),
			})

		case next != nil && !Contiguous(b, *next):
			emit(model.NotificationIntent{
				ID:            model.IntentID(b.ID, model.IntentKindBlockEnd),
				TargetBlockID: b.ID,
				Date:          date,
				Kind:          model.IntentKindBlockEnd,
				ScheduledAt:   b.End,
				Title:         "How did it go?",
				Body:          fmt.Sprintf("%s just ended. Mark it complete or skip it.", b.Title),
			})
			if leadMinutes > 0 {
				emit(model.NotificationIntent{
					ID:            model.IntentID(next.ID, model.IntentKindEarlyWarning),
					TargetBlockID: next.ID,
					Date:          date,
					Kind:          model.IntentKindEarlyWarning,
					ScheduledAt:   next.Start.Add(-lead),
					Title:         fmt.Sprintf("Coming up: %s", next.Title),
					Body:          fmt.Sprintf("Starts at %s", clock(next.Start)),
				})
			}
			emit(model.NotificationIntent{
				ID:            model.IntentID(next.ID, model.IntentKindBlockStart),
				TargetBlockID: next.ID,
				Date:          date,
				Kind:          model.IntentKindBlockStart,
				ScheduledAt:   next.Start,
				Title:         fmt.Sprintf("Time for: %s", next.Title),
				Body:          fmt.Sprintf("Until %s", clock(next.End)),
			})

		default:
			// Contiguous with early warnings disabled, or the last
			// block of the day: just its own start. A start already
			// emitted by the previous block's pass wins via the id
			// dedupe above.
			emit(model.NotificationIntent{
				ID:            model.IntentID(b.ID, model.IntentKindBlockStart),
				TargetBlockID: b.ID,
				Date:          date,
				Kind:          model.IntentKindBlockStart,
				ScheduledAt:   b.Start,
				Title:         fmt.Sprintf("Time for: %s", b.Title),
				Body:          fmt.Sprintf("Until %s", clock(b.End)),
			})
		}
	}
	return out
}
