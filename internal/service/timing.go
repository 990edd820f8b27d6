package service

import (
	"fmt"
	"math"
	"time"
)

// Urgency is the derived tier of a deadline relative to now.
type Urgency string

const (
	UrgencyUrgent Urgency = "urgent"
	UrgencySoon   Urgency = "soon"
	UrgencyNormal Urgency = "normal"
)

func (u Urgency) Icon() string {
	switch u {
	case UrgencyUrgent:
		return "🔴"
	case UrgencySoon:
		return "🟡"
	case UrgencyNormal:
		return "🟢"
	default:
		return "⚪"
	}
}

// calendarDays counts local calendar-day boundaries between now and due,
// using the wall clock of now's location. Negative when due is on an earlier date.
func calendarDays(due, now time.Time) int {
	due = due.In(now.Location())
	dy, dm, dd := due.Date()
	ny, nm, nd := now.Date()
	a := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(a.Sub(b).Hours() / 24)
}

// ClassifyUrgency returns urgent at or past due and within a day, soon within three days.
func ClassifyUrgency(due, now time.Time) Urgency {
	if !due.After(now) {
		return UrgencyUrgent
	}
	days := calendarDays(due, now)
	switch {
	case days <= 1:
		return UrgencyUrgent
	case days <= 3:
		return UrgencySoon
	default:
		return UrgencyNormal
	}
}

// CountdownText renders the relative time until due, e.g. "Due in 3 days".
func CountdownText(due, now time.Time) string {
	if due.Before(now) {
		return "Overdue"
	}

	days := calendarDays(due, now)
	hours := int(due.Sub(now).Hours()) % 24

	switch {
	case days == 0:
		if hours <= 1 {
			return "Due in 1 hour"
		}
		return fmt.Sprintf("Due in %d hours", hours)
	case days == 1:
		return "Due tomorrow"
	case days < 7:
		return fmt.Sprintf("Due in %d days", days)
	default:
		return fmt.Sprintf("Due in %d weeks", int(math.Ceil(float64(days)/7)))
	}
}

// FormatDisplay renders due in now's location: "Today at 3:04 PM",
// "Tomorrow at 9:00 AM" or "Jan 2, 2006".
func FormatDisplay(due, now time.Time) string {
	local := due.In(now.Location())
	switch calendarDays(due, now) {
	case 0:
		return "Today at " + local.Format("3:04 PM")
	case 1:
		return "Tomorrow at " + local.Format("3:04 PM")
	default:
		return local.Format("Jan 2, 2006")
	}
}

// DaysRemaining is the calendar-day gap to due, never negative.
func DaysRemaining(due, now time.Time) int {
	days := calendarDays(due, now)
	if days < 0 {
		return 0
	}
	return days
}
