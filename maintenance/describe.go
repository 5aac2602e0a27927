package maintenance

import (
	"fmt"
	"strconv"
	"time"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
)

// DescribeSchedule renders the recurrence of a schedule as a short human
// readable phrase, for example "every 3 months", "every 250 operating hours"
// or "annually on 15 March". Misconfigured schedules come back as
// "no recurrence configured" rather than an error so list views stay
// renderable.
func DescribeSchedule(schedule models.MaintenanceSchedule) string {
	switch schedule.ScheduleType {
	case models.ScheduleTypeTimeBased:
		switch {
		case schedule.IntervalDays != nil:
			return everyN(*schedule.IntervalDays, "day")
		case schedule.IntervalMonths != nil:
			return everyN(*schedule.IntervalMonths, "month")
		case schedule.IntervalYears != nil:
			return everyN(*schedule.IntervalYears, "year")
		}

	case models.ScheduleTypeUsageBased:
		if schedule.IntervalHours != nil {
			hours := strconv.FormatFloat(*schedule.IntervalHours, 'f', -1, 64)
			if *schedule.IntervalHours == 1 {
				return "every operating hour"
			}
			return fmt.Sprintf("every %s operating hours", hours)
		}

	case models.ScheduleTypeEventBased:
		if schedule.IntervalBookings != nil {
			if *schedule.IntervalBookings == 1 {
				return "after every booking"
			}
			return fmt.Sprintf("every %d bookings", *schedule.IntervalBookings)
		}

	case models.ScheduleTypeFixedDate:
		if schedule.FixedDate != "" {
			if fixed, err := time.Parse(DateLayout, schedule.FixedDate); err == nil {
				return fmt.Sprintf("annually on %s", fixed.Format("2 January"))
			}
		}
	}

	return "no recurrence configured"
}

func everyN(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("every %s", unit)
	}
	return fmt.Sprintf("every %d %ss", n, unit)
}
