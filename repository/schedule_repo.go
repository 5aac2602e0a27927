package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/dal"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"
)

type ScheduleRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewScheduleRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *ScheduleRepository {
	return &ScheduleRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *ScheduleRepository) CreateSchedule(ctx context.Context, schedule *models.MaintenanceSchedule) (*models.MaintenanceSchedule, error) {
	r.logger.Infof("Creating %s schedule for asset: %s", schedule.ScheduleType, schedule.AssetID)

	now := time.Now()
	schedule.ScheduleID = utils.GenerateUUID()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	err := r.db.PutItem(ctx, r.config.DynamoDBTablePrefix+"_maintenance_schedules", schedule)
	if err != nil {
		r.logger.Errorf("Failed to create schedule: %v", err)
		return nil, err
	}

	r.logger.Infof("Schedule created successfully: %s", schedule.ScheduleID)
	return schedule, nil
}

func (r *ScheduleRepository) GetSchedule(id string) (*models.MaintenanceSchedule, error) {
	ctx := context.Background()

	if id == "" {
		return nil, errors.New("schedule ID is required")
	}

	schedule := models.MaintenanceSchedule{}
	config := models.QueryConfig{
		TableName: r.config.DynamoDBTablePrefix + "_maintenance_schedules",
		KeyName:   "scheduleID",
		KeyValue:  id,
		KeyType:   models.StringType,
	}

	err := r.db.GetItem(ctx, config, &schedule)
	if err != nil {
		r.logger.Errorf("Failed to get schedule: %v", err)
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	if schedule.ScheduleID == "" {
		return nil, errors.New("schedule not found")
	}

	return &schedule, nil
}

func (r *ScheduleRepository) GetSchedulesByFilter(filter *models.ScheduleFilter) ([]*models.MaintenanceSchedule, error) {
	ctx := context.Background()

	var schedules []*models.MaintenanceSchedule
	var err error

	if filter != nil && filter.AssetID != "" {
		err = r.db.QueryByIndex(ctx,
			r.config.DynamoDBTablePrefix+"_maintenance_schedules",
			"assetID-index",
			"assetID", filter.AssetID,
			&schedules)
	} else if filter != nil && filter.ScheduleType != "" {
		err = r.db.QueryByIndex(ctx,
			r.config.DynamoDBTablePrefix+"_maintenance_schedules",
			"scheduleType-index",
			"scheduleType", string(filter.ScheduleType),
			&schedules)
	} else {
		err = r.db.ScanTable(ctx, r.config.DynamoDBTablePrefix+"_maintenance_schedules", &schedules)
	}

	if err != nil {
		r.logger.Errorf("Failed to get schedules: %v", err)
		return nil, err
	}

	filtered := r.applyAdditionalFilters(schedules, filter)

	r.logger.Infof("Found %d schedules", len(filtered))
	return filtered, nil
}

// GetActiveSchedules returns every active schedule. The sweep and the
// compliance report both start from this set.
func (r *ScheduleRepository) GetActiveSchedules() ([]*models.MaintenanceSchedule, error) {
	active := true
	return r.GetSchedulesByFilter(&models.ScheduleFilter{Active: &active})
}

func (r *ScheduleRepository) UpdateSchedule(id string, schedule *models.MaintenanceSchedule) (*models.MaintenanceSchedule, error) {
	ctx := context.Background()

	if id == "" {
		return nil, errors.New("schedule ID is required")
	}

	existing, err := r.GetSchedule(id)
	if err != nil {
		return nil, err
	}

	schedule.ScheduleID = id
	schedule.CreatedAt = existing.CreatedAt
	schedule.UpdatedAt = time.Now()

	err = r.db.PutItem(ctx, r.config.DynamoDBTablePrefix+"_maintenance_schedules", schedule)
	if err != nil {
		r.logger.Errorf("Failed to update schedule: %v", err)
		return nil, err
	}

	r.logger.Infof("Schedule updated successfully: %s", id)
	return schedule, nil
}

func (r *ScheduleRepository) DeleteSchedule(id string) error {
	ctx := context.Background()

	existing, err := r.GetSchedule(id)
	if err != nil {
		return err
	}

	err = r.db.DeleteItem(ctx, r.config.DynamoDBTablePrefix+"_maintenance_schedules", "scheduleID", existing.ScheduleID)
	if err != nil {
		r.logger.Errorf("Failed to delete schedule: %v", err)
		return err
	}

	r.logger.Infof("Schedule deleted successfully: %s", existing.ScheduleID)
	return nil
}

func (r *ScheduleRepository) applyAdditionalFilters(schedules []*models.MaintenanceSchedule, filter *models.ScheduleFilter) []*models.MaintenanceSchedule {
	if filter == nil {
		return schedules
	}

	var filtered []*models.MaintenanceSchedule
	for _, schedule := range schedules {
		if filter.ScheduleType != "" && schedule.ScheduleType != filter.ScheduleType {
			continue
		}

		if filter.Active != nil && schedule.Active != *filter.Active {
			continue
		}

		filtered = append(filtered, schedule)
	}

	return filtered
}
