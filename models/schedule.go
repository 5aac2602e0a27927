package models

import "time"

type ScheduleType string

const (
	ScheduleTypeTimeBased  ScheduleType = "time_based"
	ScheduleTypeUsageBased ScheduleType = "usage_based"
	ScheduleTypeEventBased ScheduleType = "event_based"
	ScheduleTypeFixedDate  ScheduleType = "fixed_date"
)

// MaintenanceSchedule describes when an asset is due for maintenance.
//
// Exactly one interval family is meaningful per type: time_based reads
// IntervalDays/IntervalMonths/IntervalYears (first configured wins, in that
// order), usage_based reads IntervalHours, event_based reads IntervalBookings,
// fixed_date reads FixedDate (year part ignored, recurs annually). NextDue is
// derived by the calculator for time_based and fixed_date schedules and stays
// nil for the other two, which are evaluated against the asset's usage
// counters instead.
type MaintenanceSchedule struct {
	ScheduleID         string       `json:"scheduleID" dynamodbav:"scheduleID" validate:"omitempty,uuid4"`
	AssetID            string       `json:"assetID" dynamodbav:"assetID" validate:"required"`
	ScheduleType       ScheduleType `json:"scheduleType" dynamodbav:"scheduleType" validate:"required,oneof=time_based usage_based event_based fixed_date"`
	Description        string       `json:"description,omitempty" dynamodbav:"description,omitempty" validate:"omitempty,max=500"`
	IntervalDays       *int         `json:"intervalDays,omitempty" dynamodbav:"intervalDays,omitempty" validate:"omitempty,min=1"`
	IntervalMonths     *int         `json:"intervalMonths,omitempty" dynamodbav:"intervalMonths,omitempty" validate:"omitempty,min=1"`
	IntervalYears      *int         `json:"intervalYears,omitempty" dynamodbav:"intervalYears,omitempty" validate:"omitempty,min=1"`
	IntervalHours      *float64     `json:"intervalHours,omitempty" dynamodbav:"intervalHours,omitempty" validate:"omitempty,gt=0"`
	IntervalBookings   *int         `json:"intervalBookings,omitempty" dynamodbav:"intervalBookings,omitempty" validate:"omitempty,min=1"`
	FixedDate          string       `json:"fixedDate,omitempty" dynamodbav:"fixedDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	NextDue            *time.Time   `json:"nextDue,omitempty" dynamodbav:"nextDue,omitempty"`
	LastPerformed      *time.Time   `json:"lastPerformed,omitempty" dynamodbav:"lastPerformed,omitempty"`
	ReminderDaysBefore int          `json:"reminderDaysBefore" dynamodbav:"reminderDaysBefore" validate:"min=0"`
	Active             bool         `json:"active" dynamodbav:"active"`
	CreatedAt          time.Time    `json:"createdAt" dynamodbav:"createdAt"`
	CreatedBy          string       `json:"createdBy" dynamodbav:"createdBy"`
	UpdatedAt          time.Time    `json:"updatedAt" dynamodbav:"updatedAt"`
	UpdatedBy          string       `json:"updatedBy,omitempty" dynamodbav:"updatedBy,omitempty"`
}

type CreateScheduleRequest struct {
	AssetID            string       `json:"assetID" validate:"required"`
	ScheduleType       ScheduleType `json:"scheduleType" validate:"required,oneof=time_based usage_based event_based fixed_date"`
	Description        string       `json:"description,omitempty" validate:"omitempty,max=500"`
	IntervalDays       *int         `json:"intervalDays,omitempty" validate:"omitempty,min=1"`
	IntervalMonths     *int         `json:"intervalMonths,omitempty" validate:"omitempty,min=1"`
	IntervalYears      *int         `json:"intervalYears,omitempty" validate:"omitempty,min=1"`
	IntervalHours      *float64     `json:"intervalHours,omitempty" validate:"omitempty,gt=0"`
	IntervalBookings   *int         `json:"intervalBookings,omitempty" validate:"omitempty,min=1"`
	FixedDate          string       `json:"fixedDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	LastPerformed      string       `json:"lastPerformed,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ReminderDaysBefore int          `json:"reminderDaysBefore" validate:"min=0"`
}

type UpdateScheduleRequest struct {
	Description        string   `json:"description,omitempty" validate:"omitempty,max=500"`
	IntervalDays       *int     `json:"intervalDays,omitempty" validate:"omitempty,min=1"`
	IntervalMonths     *int     `json:"intervalMonths,omitempty" validate:"omitempty,min=1"`
	IntervalYears      *int     `json:"intervalYears,omitempty" validate:"omitempty,min=1"`
	IntervalHours      *float64 `json:"intervalHours,omitempty" validate:"omitempty,gt=0"`
	IntervalBookings   *int     `json:"intervalBookings,omitempty" validate:"omitempty,min=1"`
	FixedDate          string   `json:"fixedDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ReminderDaysBefore *int     `json:"reminderDaysBefore,omitempty" validate:"omitempty,min=0"`
	Active             *bool    `json:"active,omitempty"`
}

type ScheduleFilter struct {
	AssetID      string       `json:"assetID,omitempty"`
	ScheduleType ScheduleType `json:"scheduleType,omitempty"`
	Active       *bool        `json:"active,omitempty"`
}

// DueBadge classifies a schedule row for list rendering.
type DueBadge string

const (
	DueBadgeOverdue DueBadge = "overdue"
	DueBadgeDueSoon DueBadge = "due_soon"
	DueBadgeOK      DueBadge = "ok"
)

// DueScheduleRow is a schedule joined with its asset and evaluated against a
// single reference time, as returned by the due-schedule listing.
type DueScheduleRow struct {
	Schedule     MaintenanceSchedule `json:"schedule"`
	AssetNumber  string              `json:"assetNumber"`
	AssetName    string              `json:"assetName"`
	DaysUntilDue *int                `json:"daysUntilDue,omitempty"`
	Badge        DueBadge            `json:"badge"`
	Description  string              `json:"scheduleDescription"`
}
