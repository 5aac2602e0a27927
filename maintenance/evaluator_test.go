package maintenance

import (
	"testing"
	"time"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// EvaluatorTestSuite exercises the overdue and reminder evaluation against a
// frozen reference time
type EvaluatorTestSuite struct {
	suite.Suite
	now time.Time
}

func (suite *EvaluatorTestSuite) SetupTest() {
	suite.now = date("2024-06-15")
}

// TestOverdueSchedule tests a schedule two weeks past due
func (suite *EvaluatorTestSuite) TestOverdueSchedule() {
	schedule := models.MaintenanceSchedule{NextDue: datePtr("2024-06-01")}

	assert.True(suite.T(), IsOverdue(schedule, suite.now))

	days := DaysUntilDue(schedule, suite.now)
	require.NotNil(suite.T(), days)
	assert.Equal(suite.T(), -14, *days)
}

// TestDueTodayIsNotOverdue tests the strict before-today boundary
func (suite *EvaluatorTestSuite) TestDueTodayIsNotOverdue() {
	schedule := models.MaintenanceSchedule{NextDue: datePtr("2024-06-15")}

	assert.False(suite.T(), IsOverdue(schedule, suite.now))

	days := DaysUntilDue(schedule, suite.now)
	require.NotNil(suite.T(), days)
	assert.Equal(suite.T(), 0, *days)
}

// TestDueYesterdayIsOverdue tests the day just across the boundary
func (suite *EvaluatorTestSuite) TestDueYesterdayIsOverdue() {
	schedule := models.MaintenanceSchedule{NextDue: datePtr("2024-06-14")}

	assert.True(suite.T(), IsOverdue(schedule, suite.now))
}

// TestOverdueIgnoresTimeOfDay tests that a late-evening due timestamp still
// counts as overdue the next morning
func (suite *EvaluatorTestSuite) TestOverdueIgnoresTimeOfDay() {
	nextDue := time.Date(2024, 6, 14, 23, 59, 0, 0, time.UTC)
	schedule := models.MaintenanceSchedule{NextDue: &nextDue}

	morning := time.Date(2024, 6, 15, 0, 1, 0, 0, time.UTC)
	assert.True(suite.T(), IsOverdue(schedule, morning))
}

// TestNoDueDateNeverOverdue tests schedules without a derivable date
func (suite *EvaluatorTestSuite) TestNoDueDateNeverOverdue() {
	schedule := models.MaintenanceSchedule{}

	assert.False(suite.T(), IsOverdue(schedule, suite.now))
	assert.False(suite.T(), IsReminderDue(schedule, suite.now))
	assert.Nil(suite.T(), DaysUntilDue(schedule, suite.now))
}

// TestReminderBoundary tests the inclusive edge of the reminder window:
// exactly reminderDaysBefore days out fires, one more day out does not
func (suite *EvaluatorTestSuite) TestReminderBoundary() {
	schedule := models.MaintenanceSchedule{
		NextDue:            datePtr("2024-06-22"),
		ReminderDaysBefore: 7,
	}
	assert.True(suite.T(), IsReminderDue(schedule, suite.now))

	schedule.NextDue = datePtr("2024-06-23")
	assert.False(suite.T(), IsReminderDue(schedule, suite.now))
}

// TestReminderForOverdueSchedule tests that an overdue schedule stays
// reminder-due
func (suite *EvaluatorTestSuite) TestReminderForOverdueSchedule() {
	schedule := models.MaintenanceSchedule{
		NextDue:            datePtr("2024-06-01"),
		ReminderDaysBefore: 7,
	}
	assert.True(suite.T(), IsReminderDue(schedule, suite.now))
}

// TestReminderWithZeroWindow tests that a zero-day window fires on the due
// day itself
func (suite *EvaluatorTestSuite) TestReminderWithZeroWindow() {
	schedule := models.MaintenanceSchedule{
		NextDue:            datePtr("2024-06-15"),
		ReminderDaysBefore: 0,
	}
	assert.True(suite.T(), IsReminderDue(schedule, suite.now))

	schedule.NextDue = datePtr("2024-06-16")
	assert.False(suite.T(), IsReminderDue(schedule, suite.now))
}

// TestOverdueMatchesNegativeDays tests the evaluator invariants over a range
// of dates around today
func (suite *EvaluatorTestSuite) TestOverdueMatchesNegativeDays() {
	for offset := -30; offset <= 30; offset++ {
		due := suite.now.AddDate(0, 0, offset)
		schedule := models.MaintenanceSchedule{NextDue: &due, ReminderDaysBefore: 7}

		days := DaysUntilDue(schedule, suite.now)
		require.NotNil(suite.T(), days)
		assert.Equal(suite.T(), offset, *days)
		assert.Equal(suite.T(), *days < 0, IsOverdue(schedule, suite.now), "offset %d", offset)
		assert.Equal(suite.T(), *days <= 7, IsReminderDue(schedule, suite.now), "offset %d", offset)
	}
}

// TestBadgeClassification tests badge assignment across the window
func (suite *EvaluatorTestSuite) TestBadgeClassification() {
	schedule := models.MaintenanceSchedule{ReminderDaysBefore: 7}

	schedule.NextDue = datePtr("2024-06-10")
	assert.Equal(suite.T(), models.DueBadgeOverdue, BadgeFor(schedule, suite.now))

	schedule.NextDue = datePtr("2024-06-15")
	assert.Equal(suite.T(), models.DueBadgeDueSoon, BadgeFor(schedule, suite.now))

	schedule.NextDue = datePtr("2024-06-22")
	assert.Equal(suite.T(), models.DueBadgeDueSoon, BadgeFor(schedule, suite.now))

	schedule.NextDue = datePtr("2024-06-23")
	assert.Equal(suite.T(), models.DueBadgeOK, BadgeFor(schedule, suite.now))

	schedule.NextDue = nil
	assert.Equal(suite.T(), models.DueBadgeOK, BadgeFor(schedule, suite.now))
}

func TestEvaluatorTestSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorTestSuite))
}
