package maintenance

import (
	"time"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
)

// IsOverdue reports whether the schedule's next due date lies strictly before
// the start of today. A schedule due today is not overdue yet. Schedules
// without a next due date are never overdue.
func IsOverdue(schedule models.MaintenanceSchedule, now time.Time) bool {
	if schedule.NextDue == nil {
		return false
	}
	return dateOnly(*schedule.NextDue).Before(dateOnly(now))
}

// IsReminderDue reports whether the reminder window has opened: true once
// nextDue minus ReminderDaysBefore days is today or earlier. An overdue
// schedule is always reminder-due.
func IsReminderDue(schedule models.MaintenanceSchedule, now time.Time) bool {
	if schedule.NextDue == nil {
		return false
	}
	reminderStart := dateOnly(*schedule.NextDue).AddDate(0, 0, -schedule.ReminderDaysBefore)
	return !reminderStart.After(dateOnly(now))
}

// DaysUntilDue returns the signed whole-day distance from today to the next
// due date: negative when overdue, zero when due today. Nil when the schedule
// has no next due date.
func DaysUntilDue(schedule models.MaintenanceSchedule, now time.Time) *int {
	if schedule.NextDue == nil {
		return nil
	}
	days := daysBetween(now, *schedule.NextDue)
	return &days
}

// BadgeFor classifies a schedule for list rendering: overdue when the due
// date has passed, due_soon inside the reminder window, ok otherwise.
// Schedules without a derivable date are ok; usage and event predicates are
// the caller's concern.
func BadgeFor(schedule models.MaintenanceSchedule, now time.Time) models.DueBadge {
	days := DaysUntilDue(schedule, now)
	if days == nil {
		return models.DueBadgeOK
	}
	if *days < 0 {
		return models.DueBadgeOverdue
	}
	if *days <= schedule.ReminderDaysBefore {
		return models.DueBadgeDueSoon
	}
	return models.DueBadgeOK
}
