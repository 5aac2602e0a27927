package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/maintenance"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/repository"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"

	"github.com/shopspring/decimal"
)

type RecordService struct {
	recordRepo   repository.RecordRepositoryInterface
	assetRepo    repository.AssetRepositoryInterface
	scheduleRepo repository.ScheduleRepositoryInterface
	logger       logger.Logger
}

func NewRecordService(recordRepo repository.RecordRepositoryInterface, assetRepo repository.AssetRepositoryInterface, scheduleRepo repository.ScheduleRepositoryInterface, log logger.Logger) *RecordService {
	return &RecordService{
		recordRepo:   recordRepo,
		assetRepo:    assetRepo,
		scheduleRepo: scheduleRepo,
		logger:       log,
	}
}

// CreateRecord logs manually performed maintenance. When the record names a
// schedule the schedule advances exactly as it would through a work order:
// lastPerformed stamped, next due recomputed, asset counters reset.
func (s *RecordService) CreateRecord(ctx context.Context, req *models.CreateMaintenanceRecordRequest, createdBy string) (*models.MaintenanceRecord, error) {
	if err := s.validateCreateRecord(req); err != nil {
		return nil, err
	}

	asset, err := s.assetRepo.GetAsset(req.AssetID)
	if err != nil {
		return nil, err
	}

	performedOn, err := time.Parse(maintenance.DateLayout, req.Date)
	if err != nil {
		return nil, errors.New("date must be formatted YYYY-MM-DD")
	}

	cost := decimal.Zero
	if req.Cost != "" {
		parsed, err := decimal.NewFromString(req.Cost)
		if err != nil {
			return nil, errors.New("cost must be a decimal number")
		}
		cost = parsed
	}

	record := &models.MaintenanceRecord{
		AssetID:         asset.AssetID,
		WorkOrderID:     req.WorkOrderID,
		ScheduleID:      req.ScheduleID,
		Date:            performedOn,
		MaintenanceType: strings.TrimSpace(req.MaintenanceType),
		Cost:            cost,
		PerformedBy:     req.PerformedBy,
		Notes:           req.Notes,
		CreatedBy:       createdBy,
	}

	created, err := s.recordRepo.CreateRecord(ctx, record)
	if err != nil {
		return nil, err
	}

	if req.ScheduleID != "" {
		if err := s.advanceSchedule(req.ScheduleID, asset, performedOn, createdBy); err != nil {
			s.logger.Warnf("Failed to advance schedule %s: %v", req.ScheduleID, err)
		}
	}

	return created, nil
}

func (s *RecordService) advanceSchedule(scheduleID string, asset *models.Asset, performedOn time.Time, updatedBy string) error {
	schedule, err := s.scheduleRepo.GetSchedule(scheduleID)
	if err != nil {
		return err
	}

	updated := *schedule
	updated.LastPerformed = &performedOn
	updated.NextDue = maintenance.NextDue(updated, performedOn)
	updated.UpdatedBy = updatedBy

	if _, err := s.scheduleRepo.UpdateSchedule(schedule.ScheduleID, &updated); err != nil {
		return err
	}

	_, err = s.assetRepo.UpdateAsset(asset.AssetID, map[string]interface{}{
		"lastMaintenanceHours":     asset.CurrentUsageHours,
		"bookingsSinceMaintenance": 0,
		"updatedBy":                updatedBy,
	})
	return err
}

func (s *RecordService) validateCreateRecord(req *models.CreateMaintenanceRecordRequest) error {
	if req == nil {
		return errors.New("record request is required")
	}

	if strings.TrimSpace(req.AssetID) == "" {
		return errors.New("asset ID is required")
	}

	if strings.TrimSpace(req.MaintenanceType) == "" {
		return errors.New("maintenance type is required")
	}

	if strings.TrimSpace(req.PerformedBy) == "" {
		return errors.New("performed by is required")
	}

	return nil
}

func (s *RecordService) GetRecords(filter *models.MaintenanceRecordFilter) ([]*models.MaintenanceRecord, error) {
	if filter == nil {
		filter = &models.MaintenanceRecordFilter{}
	}
	return s.recordRepo.GetRecordsByFilter(filter)
}

func (s *RecordService) GetRecordByID(id string) (*models.MaintenanceRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("record ID is required")
	}
	return s.recordRepo.GetRecord(id)
}
