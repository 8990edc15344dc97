// Package views renders a day schedule and its pending reminders for
// the read-only `today` subcommand.
package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"blockday/internal/model"
	"blockday/internal/timeutil"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	skippedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	emptyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

// RenderDay renders the schedule's blocks and the pending intent set
// side by side. Times are shown in loc.
func RenderDay(sched model.DaySchedule, intents []model.NotificationIntent, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	blocks := make([]string, 0, len(sched.Blocks))
	for _, b := range sched.Blocks {
		line := fmt.Sprintf("%s–%s  %s",
			timeutil.FormatClock(b.Start.In(loc)),
			timeutil.FormatClock(b.End.In(loc)),
			b.Title)
		switch b.Status {
		case model.BlockStatusCompleted:
			line = completedStyle.Render(line + "  ✓")
		case model.BlockStatusSkipped:
			line = skippedStyle.Render(line)
		}
		blocks = append(blocks, line)
	}
	if len(blocks) == 0 {
		blocks = append(blocks, emptyStyle.Render("no blocks scheduled"))
	}

	reminders := make([]string, 0, len(intents))
	for _, intent := range intents {
		reminders = append(reminders, fmt.Sprintf("%s  [%s] %s",
			timeutil.FormatClock(intent.ScheduledAt.In(loc)),
			intent.Kind,
			intent.Title))
	}
	if len(reminders) == 0 {
		reminders = append(reminders, emptyStyle.Render("no pending reminders"))
	}

	left := panelStyle.Width(48).Render(strings.Join(blocks, "\n"))
	right := panelStyle.Width(48).Render(strings.Join(reminders, "\n"))
	row := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	return strings.Join([]string{
		headerStyle.Render(sched.Date),
		row,
	}, "\n")
}
