package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/maintenance"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/repository"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"
)

type ScheduleService struct {
	scheduleRepo repository.ScheduleRepositoryInterface
	assetRepo    repository.AssetRepositoryInterface
	logger       logger.Logger
}

func NewScheduleService(scheduleRepo repository.ScheduleRepositoryInterface, assetRepo repository.AssetRepositoryInterface, logger logger.Logger) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		assetRepo:    assetRepo,
		logger:       logger,
	}
}

func (s *ScheduleService) CreateSchedule(ctx context.Context, req *models.CreateScheduleRequest, createdBy string) (*models.MaintenanceSchedule, error) {
	if req == nil {
		return nil, errors.New("schedule request is required")
	}

	asset, err := s.assetRepo.GetAsset(req.AssetID)
	if err != nil {
		return nil, err
	}

	schedule := &models.MaintenanceSchedule{
		AssetID:            asset.AssetID,
		ScheduleType:       req.ScheduleType,
		Description:        req.Description,
		IntervalDays:       req.IntervalDays,
		IntervalMonths:     req.IntervalMonths,
		IntervalYears:      req.IntervalYears,
		IntervalHours:      req.IntervalHours,
		IntervalBookings:   req.IntervalBookings,
		FixedDate:          req.FixedDate,
		ReminderDaysBefore: req.ReminderDaysBefore,
		Active:             true,
		CreatedBy:          createdBy,
	}

	if req.LastPerformed != "" {
		performed, err := time.Parse(maintenance.DateLayout, req.LastPerformed)
		if err != nil {
			return nil, errors.New("last performed date must be formatted YYYY-MM-DD")
		}
		schedule.LastPerformed = &performed
	}

	if err := s.validateIntervalFamily(schedule); err != nil {
		return nil, err
	}

	schedule.NextDue = maintenance.NextDue(*schedule, time.Now())

	return s.scheduleRepo.CreateSchedule(ctx, schedule)
}

// validateIntervalFamily checks that the schedule carries the one interval
// its type reads.
func (s *ScheduleService) validateIntervalFamily(schedule *models.MaintenanceSchedule) error {
	switch schedule.ScheduleType {
	case models.ScheduleTypeTimeBased:
		if schedule.IntervalDays == nil && schedule.IntervalMonths == nil && schedule.IntervalYears == nil {
			return errors.New("time-based schedule needs an interval in days, months or years")
		}
	case models.ScheduleTypeUsageBased:
		if schedule.IntervalHours == nil {
			return errors.New("usage-based schedule needs an interval in operating hours")
		}
	case models.ScheduleTypeEventBased:
		if schedule.IntervalBookings == nil {
			return errors.New("event-based schedule needs an interval in bookings")
		}
	case models.ScheduleTypeFixedDate:
		if schedule.FixedDate == "" {
			return errors.New("fixed-date schedule needs a date")
		}
		if _, err := time.Parse(maintenance.DateLayout, schedule.FixedDate); err != nil {
			return errors.New("fixed date must be formatted YYYY-MM-DD")
		}
	default:
		return errors.New("unknown schedule type")
	}
	return nil
}

func (s *ScheduleService) GetSchedules(filter *models.ScheduleFilter) ([]*models.MaintenanceSchedule, error) {
	if filter == nil {
		filter = &models.ScheduleFilter{}
	}
	return s.scheduleRepo.GetSchedulesByFilter(filter)
}

func (s *ScheduleService) GetScheduleByID(id string) (*models.MaintenanceSchedule, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("schedule ID is required")
	}
	return s.scheduleRepo.GetSchedule(id)
}

func (s *ScheduleService) UpdateSchedule(id string, req *models.UpdateScheduleRequest, updatedBy string) (*models.MaintenanceSchedule, error) {
	existing, err := s.GetScheduleByID(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errors.New("update request is required")
	}

	updated := *existing
	updated.UpdatedBy = updatedBy

	if req.Description != "" {
		updated.Description = req.Description
	}
	if req.IntervalDays != nil {
		updated.IntervalDays = req.IntervalDays
	}
	if req.IntervalMonths != nil {
		updated.IntervalMonths = req.IntervalMonths
	}
	if req.IntervalYears != nil {
		updated.IntervalYears = req.IntervalYears
	}
	if req.IntervalHours != nil {
		updated.IntervalHours = req.IntervalHours
	}
	if req.IntervalBookings != nil {
		updated.IntervalBookings = req.IntervalBookings
	}
	if req.FixedDate != "" {
		updated.FixedDate = req.FixedDate
	}
	if req.ReminderDaysBefore != nil {
		updated.ReminderDaysBefore = *req.ReminderDaysBefore
	}
	if req.Active != nil {
		updated.Active = *req.Active
	}

	if err := s.validateIntervalFamily(&updated); err != nil {
		return nil, err
	}

	// Interval changes move the due date.
	updated.NextDue = maintenance.NextDue(updated, time.Now())

	return s.scheduleRepo.UpdateSchedule(id, &updated)
}

func (s *ScheduleService) DeleteSchedule(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("schedule ID is required")
	}
	return s.scheduleRepo.DeleteSchedule(id)
}

// GetDueSchedules lists active schedules that are overdue or coming due
// within the given number of days, joined with their assets and evaluated
// against a single reference time so one batch never straddles midnight.
// Usage-based and event-based schedules appear when their counters say due.
func (s *ScheduleService) GetDueSchedules(withinDays int) ([]models.DueScheduleRow, error) {
	if withinDays < 0 {
		return nil, errors.New("within days cannot be negative")
	}

	schedules, err := s.scheduleRepo.GetActiveSchedules()
	if err != nil {
		return nil, err
	}

	assets, err := s.assetRepo.GetAssetsByFilter(&models.AssetFilter{})
	if err != nil {
		return nil, err
	}
	assetByID := make(map[string]*models.Asset, len(assets))
	for _, a := range assets {
		assetByID[a.AssetID] = a
	}

	now := time.Now()

	rows := []models.DueScheduleRow{}
	for _, schedule := range schedules {
		asset, ok := assetByID[schedule.AssetID]
		if !ok || asset.Status == models.AssetStatusRetired {
			continue
		}

		row := models.DueScheduleRow{
			Schedule:    *schedule,
			AssetNumber: asset.AssetNumber,
			AssetName:   asset.Name,
			Description: maintenance.DescribeSchedule(*schedule),
		}

		if days := maintenance.DaysUntilDue(*schedule, now); days != nil {
			if *days > withinDays {
				continue
			}
			row.DaysUntilDue = days
			row.Badge = maintenance.BadgeFor(*schedule, now)
			rows = append(rows, row)
			continue
		}

		if maintenance.UsageDue(*schedule, asset.CurrentUsageHours, asset.LastMaintenanceHours) ||
			maintenance.EventDue(*schedule, asset.BookingsSinceMaintenance) {
			row.Badge = models.DueBadgeOverdue
			rows = append(rows, row)
		}
	}

	// Counter-due rows first, then by urgency; asset number keeps the order
	// stable across runs.
	sort.SliceStable(rows, func(i, j int) bool {
		di, dj := rows[i].DaysUntilDue, rows[j].DaysUntilDue
		if di == nil && dj == nil {
			return rows[i].AssetNumber < rows[j].AssetNumber
		}
		if di == nil {
			return true
		}
		if dj == nil {
			return false
		}
		if *di != *dj {
			return *di < *dj
		}
		return rows[i].AssetNumber < rows[j].AssetNumber
	})

	return rows, nil
}
