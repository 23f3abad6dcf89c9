// Package week holds the project-week arithmetic shared by the classifier,
// scorecard, and report engines. Weeks are 1-based and derived from the
// project start date; they are never stored.
package week

import (
	"time"

	"github.com/getfive/trackboard/internal/model"
)

// dayTrunc truncates to 00:00 UTC so week math works on calendar days
func dayTrunc(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b
func DaysBetween(a, b time.Time) int {
	return int(dayTrunc(b).Sub(dayTrunc(a)).Hours() / 24)
}

// Current returns the 1-based project week for "now". A project with no
// start date, or one that has not started yet, is in week 1.
func Current(start *time.Time, now time.Time) int {
	if start == nil {
		return 1
	}
	days := DaysBetween(*start, now)
	if days < 0 {
		return 1
	}
	return days/7 + 1
}

// TargetDeadline is the lateness cutoff for a target week: the project
// start plus targetWeek*7 days. Week 1 covers days 0-6, so its cutoff
// falls on day 7.
func TargetDeadline(start time.Time, targetWeek int) time.Time {
	return start.Add(time.Duration(targetWeek) * 7 * 24 * time.Hour)
}

// StoredDeadline is the deadline stamped on a task at creation: the last
// day of the target week at 23:59:59.
func StoredDeadline(start time.Time, targetWeek int) time.Time {
	d := dayTrunc(start).AddDate(0, 0, targetWeek*7-1)
	return d.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
}

// IsLate reports whether a task finished after its target week. Tasks
// without an end time, or projects without a start date, are never late.
func IsLate(t *model.Task, start *time.Time) bool {
	if t.EndTime == nil || start == nil {
		return false
	}
	return t.EndTime.After(TargetDeadline(*start, t.TargetWeek))
}

// MondayOf returns Monday 00:00 UTC of the week containing t. The report
// time filter and the performance series bucket on these boundaries.
func MondayOf(t time.Time) time.Time {
	d := dayTrunc(t)
	offset := int(d.Weekday()) - 1
	if offset < 0 {
		offset = 6 // Sunday belongs to the week that started the previous Monday
	}
	return d.AddDate(0, 0, -offset)
}
