package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC)

func TestClassifyUrgency(t *testing.T) {
	tests := []struct {
		name string
		due  time.Time
		want Urgency
	}{
		{name: "exactly now", due: fixedNow, want: UrgencyUrgent},
		{name: "overdue earlier today", due: fixedNow.Add(-time.Hour), want: UrgencyUrgent},
		{name: "overdue last week", due: fixedNow.AddDate(0, 0, -7), want: UrgencyUrgent},
		{name: "later today", due: fixedNow.Add(3 * time.Hour), want: UrgencyUrgent},
		{name: "tomorrow", due: fixedNow.AddDate(0, 0, 1), want: UrgencyUrgent},
		{name: "two days", due: fixedNow.AddDate(0, 0, 2), want: UrgencySoon},
		{name: "three days", due: fixedNow.AddDate(0, 0, 3), want: UrgencySoon},
		{name: "four days", due: fixedNow.AddDate(0, 0, 4), want: UrgencyNormal},
		{name: "ten days", due: fixedNow.AddDate(0, 0, 10), want: UrgencyNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyUrgency(tt.due, fixedNow))
		})
	}
}

func TestCountdownText(t *testing.T) {
	tests := []struct {
		name string
		due  time.Time
		want string
	}{
		{name: "past", due: fixedNow.Add(-time.Minute), want: "Overdue"},
		{name: "exactly now", due: fixedNow, want: "Due in 1 hour"},
		{name: "in 30 minutes", due: fixedNow.Add(30 * time.Minute), want: "Due in 1 hour"},
		{name: "in 1 hour", due: fixedNow.Add(time.Hour), want: "Due in 1 hour"},
		{name: "in 5 hours", due: fixedNow.Add(5*time.Hour + 10*time.Minute), want: "Due in 5 hours"},
		{name: "one day", due: fixedNow.AddDate(0, 0, 1), want: "Due tomorrow"},
		{name: "two days", due: fixedNow.AddDate(0, 0, 2), want: "Due in 2 days"},
		{name: "six days", due: fixedNow.AddDate(0, 0, 6), want: "Due in 6 days"},
		{name: "seven days", due: fixedNow.AddDate(0, 0, 7), want: "Due in 1 weeks"},
		{name: "ten days", due: fixedNow.AddDate(0, 0, 10), want: "Due in 2 weeks"},
		{name: "fifteen days", due: fixedNow.AddDate(0, 0, 15), want: "Due in 3 weeks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountdownText(tt.due, fixedNow))
		})
	}
}

func TestCalendarDayBoundary(t *testing.T) {
	now := time.Date(2025, time.March, 10, 23, 59, 0, 0, time.UTC)
	due := time.Date(2025, time.March, 11, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, 1, DaysRemaining(due, now))
	assert.Equal(t, "Due tomorrow", CountdownText(due, now))
	assert.Equal(t, "Tomorrow at 12:01 AM", FormatDisplay(due, now))
	assert.Equal(t, UrgencyUrgent, ClassifyUrgency(due, now))
}

func TestCalendarDaysUsesNowLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2025, time.March, 10, 20, 0, 0, 0, loc)
	// 02:00 UTC on the 11th is still the 10th in now's zone.
	due := time.Date(2025, time.March, 11, 2, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysRemaining(due, now))
	assert.Equal(t, "Today at 9:00 PM", FormatDisplay(due, now))
}

func TestFormatDisplay(t *testing.T) {
	assert.Equal(t, "Today at 6:30 PM", FormatDisplay(fixedNow.Add(4*time.Hour+30*time.Minute), fixedNow))
	assert.Equal(t, "Today at 9:00 AM", FormatDisplay(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), fixedNow))
	assert.Equal(t, "Tomorrow at 11:59 PM", FormatDisplay(time.Date(2025, 3, 11, 23, 59, 0, 0, time.UTC), fixedNow))
	assert.Equal(t, "Mar 14, 2025", FormatDisplay(time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC), fixedNow))
	assert.Equal(t, "Mar 9, 2025", FormatDisplay(time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC), fixedNow))
}

func TestDaysRemaining(t *testing.T) {
	assert.Equal(t, 0, DaysRemaining(fixedNow.AddDate(0, 0, -3), fixedNow))
	assert.Equal(t, 0, DaysRemaining(fixedNow.Add(time.Hour), fixedNow))
	assert.Equal(t, 5, DaysRemaining(fixedNow.AddDate(0, 0, 5), fixedNow))
}

func TestUrgencyIcon(t *testing.T) {
	for _, u := range []Urgency{UrgencyUrgent, UrgencySoon, UrgencyNormal} {
		assert.NotEqual(t, "⚪", u.Icon())
	}
}
