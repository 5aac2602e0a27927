// Package maintenance holds the pure scheduling and reporting calculations.
// Every function takes the reference time as a parameter and never reads the
// wall clock, so callers evaluate whole batches against one instant and tests
// run against frozen dates. Missing inputs yield nil results, not errors.
package maintenance

import (
	"time"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
)

// DateLayout is the wire format of every date-only field in the system.
const DateLayout = "2006-01-02"

// dateOnly truncates t to its calendar date at UTC midnight. All due-date
// arithmetic runs on these normalized values so time-of-day and zone offsets
// never shift a comparison across a day boundary.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole-day difference to - from on calendar dates.
func daysBetween(from, to time.Time) int {
	return int(dateOnly(to).Sub(dateOnly(from)).Hours() / 24)
}

// NextDue derives the next due date of a schedule, or nil when no calendar
// date is derivable.
//
// Time-based schedules add the first configured interval, checked in the
// order days, months, years, to the last performed date (or to now when the
// schedule has never been performed). Month and year addition follows
// time.AddDate: when the target month is shorter the date normalizes forward,
// so 2024-01-31 plus one month is 2024-03-02.
//
// Fixed-date schedules recur annually on the configured month and day; the
// year part of FixedDate is ignored. The occurrence in now's year is returned
// while it is still strictly in the future, otherwise next year's.
//
// Usage-based and event-based schedules have no derivable date and always
// return nil; they are evaluated through UsageDue and EventDue instead.
func NextDue(schedule models.MaintenanceSchedule, now time.Time) *time.Time {
	switch schedule.ScheduleType {
	case models.ScheduleTypeTimeBased:
		base := dateOnly(now)
		if schedule.LastPerformed != nil {
			base = dateOnly(*schedule.LastPerformed)
		}
		var due time.Time
		switch {
		case schedule.IntervalDays != nil:
			due = base.AddDate(0, 0, *schedule.IntervalDays)
		case schedule.IntervalMonths != nil:
			due = base.AddDate(0, *schedule.IntervalMonths, 0)
		case schedule.IntervalYears != nil:
			due = base.AddDate(*schedule.IntervalYears, 0, 0)
		default:
			return nil
		}
		return &due

	case models.ScheduleTypeFixedDate:
		if schedule.FixedDate == "" {
			return nil
		}
		fixed, err := time.Parse(DateLayout, schedule.FixedDate)
		if err != nil {
			return nil
		}
		today := dateOnly(now)
		due := time.Date(today.Year(), fixed.Month(), fixed.Day(), 0, 0, 0, 0, time.UTC)
		if !due.After(today) {
			due = time.Date(today.Year()+1, fixed.Month(), fixed.Day(), 0, 0, 0, 0, time.UTC)
		}
		return &due

	default:
		return nil
	}
}

// UsageDue reports whether a usage-based schedule has accumulated enough
// operating hours since the last maintenance. Schedules of any other type, or
// without a configured hour interval, are never usage-due.
func UsageDue(schedule models.MaintenanceSchedule, currentUsageHours, lastMaintenanceHours float64) bool {
	if schedule.ScheduleType != models.ScheduleTypeUsageBased || schedule.IntervalHours == nil {
		return false
	}
	return currentUsageHours-lastMaintenanceHours >= *schedule.IntervalHours
}

// EventDue reports whether an event-based schedule has seen enough bookings
// since the last maintenance.
func EventDue(schedule models.MaintenanceSchedule, bookingsSinceMaintenance int) bool {
	if schedule.ScheduleType != models.ScheduleTypeEventBased || schedule.IntervalBookings == nil {
		return false
	}
	return bookingsSinceMaintenance >= *schedule.IntervalBookings
}
