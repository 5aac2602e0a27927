package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/maintenance"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/repository"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"

	"github.com/shopspring/decimal"
)

type WorkOrderService struct {
	workOrderRepo repository.WorkOrderRepositoryInterface
	scheduleRepo  repository.ScheduleRepositoryInterface
	assetRepo     repository.AssetRepositoryInterface
	recordRepo    repository.RecordRepositoryInterface
	logger        logger.Logger
}

func NewWorkOrderService(
	workOrderRepo repository.WorkOrderRepositoryInterface,
	scheduleRepo repository.ScheduleRepositoryInterface,
	assetRepo repository.AssetRepositoryInterface,
	recordRepo repository.RecordRepositoryInterface,
	log logger.Logger,
) *WorkOrderService {
	return &WorkOrderService{
		workOrderRepo: workOrderRepo,
		scheduleRepo:  scheduleRepo,
		assetRepo:     assetRepo,
		recordRepo:    recordRepo,
		logger:        log,
	}
}

func (s *WorkOrderService) CreateWorkOrder(ctx context.Context, req *models.CreateWorkOrderRequest, createdBy string) (*models.WorkOrder, error) {
	if err := s.validateCreateWorkOrder(req); err != nil {
		return nil, err
	}

	items := make([]models.WorkOrderLineItem, 0, len(req.LineItems))
	for _, item := range req.LineItems {
		if _, err := s.assetRepo.GetAsset(item.AssetID); err != nil {
			return nil, fmt.Errorf("line item asset %s: %w", item.AssetID, err)
		}
		items = append(items, models.WorkOrderLineItem{
			AssetID:          item.AssetID,
			ScheduleID:       item.ScheduleID,
			Description:      item.Description,
			CompletionStatus: models.LineItemStatusPending,
		})
	}

	order := &models.WorkOrder{
		Title:      strings.TrimSpace(req.Title),
		Notes:      req.Notes,
		State:      models.WorkOrderStateBacklog,
		Priority:   req.Priority,
		Source:     models.WorkOrderSourceManual,
		LineItems:  items,
		AssignedTo: req.AssignedTo,
		CreatedBy:  createdBy,
	}
	if order.Priority == "" {
		order.Priority = models.WorkOrderPriorityMedium
	}

	if req.ScheduledStart != "" {
		start, err := time.Parse(maintenance.DateLayout, req.ScheduledStart)
		if err != nil {
			return nil, errors.New("scheduled start must be formatted YYYY-MM-DD")
		}
		order.ScheduledStart = &start
	}
	if req.ScheduledEnd != "" {
		end, err := time.Parse(maintenance.DateLayout, req.ScheduledEnd)
		if err != nil {
			return nil, errors.New("scheduled end must be formatted YYYY-MM-DD")
		}
		order.ScheduledEnd = &end
	}

	return s.workOrderRepo.CreateWorkOrder(ctx, order)
}

func (s *WorkOrderService) validateCreateWorkOrder(req *models.CreateWorkOrderRequest) error {
	if req == nil {
		return errors.New("work order request is required")
	}

	if strings.TrimSpace(req.Title) == "" {
		return errors.New("work order title is required")
	}

	if len(req.Title) < 2 || len(req.Title) > 200 {
		return errors.New("work order title must be between 2 and 200 characters")
	}

	if len(req.LineItems) == 0 {
		return errors.New("work order needs at least one line item")
	}

	for _, item := range req.LineItems {
		if strings.TrimSpace(item.AssetID) == "" {
			return errors.New("line item asset ID is required")
		}
		if strings.TrimSpace(item.Description) == "" {
			return errors.New("line item description is required")
		}
	}

	return nil
}

func (s *WorkOrderService) GetWorkOrders(filter *models.WorkOrderFilter) ([]*models.WorkOrder, error) {
	if filter == nil {
		filter = &models.WorkOrderFilter{}
	}
	return s.workOrderRepo.GetWorkOrdersByFilter(filter)
}

func (s *WorkOrderService) GetWorkOrderByKey(key string) (*models.WorkOrder, error) {
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("work order key is required")
	}
	return s.workOrderRepo.GetWorkOrder(key)
}

func (s *WorkOrderService) UpdateWorkOrder(id string, req *models.UpdateWorkOrderRequest, updatedBy string) (*models.WorkOrder, error) {
	existing, err := s.GetWorkOrderByKey(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errors.New("update request is required")
	}

	if isTerminal(existing.State) {
		return nil, errors.New("work order is closed and cannot be updated")
	}

	updated := *existing
	updated.UpdatedBy = updatedBy

	if req.Title != "" {
		updated.Title = strings.TrimSpace(req.Title)
	}
	if req.Notes != "" {
		updated.Notes = req.Notes
	}
	if req.Priority != "" {
		updated.Priority = req.Priority
	}
	if req.AssignedTo != nil {
		updated.AssignedTo = *req.AssignedTo
	}
	if req.ScheduledStart != "" {
		start, err := time.Parse(maintenance.DateLayout, req.ScheduledStart)
		if err != nil {
			return nil, errors.New("scheduled start must be formatted YYYY-MM-DD")
		}
		updated.ScheduledStart = &start
	}
	if req.ScheduledEnd != "" {
		end, err := time.Parse(maintenance.DateLayout, req.ScheduledEnd)
		if err != nil {
			return nil, errors.New("scheduled end must be formatted YYYY-MM-DD")
		}
		updated.ScheduledEnd = &end
	}

	return s.workOrderRepo.UpdateWorkOrder(id, &updated)
}

func (s *WorkOrderService) PlanWorkOrder(id string, updatedBy string) (*models.WorkOrder, error) {
	existing, err := s.GetWorkOrderByKey(id)
	if err != nil {
		return nil, err
	}

	if existing.State != models.WorkOrderStateBacklog {
		return nil, errors.New("only backlog work orders can be planned")
	}

	updated := *existing
	updated.State = models.WorkOrderStatePlanned
	updated.UpdatedBy = updatedBy

	return s.workOrderRepo.UpdateWorkOrder(id, &updated)
}

func (s *WorkOrderService) StartWorkOrder(id string, updatedBy string) (*models.WorkOrder, error) {
	existing, err := s.GetWorkOrderByKey(id)
	if err != nil {
		return nil, err
	}

	if existing.State != models.WorkOrderStateBacklog && existing.State != models.WorkOrderStatePlanned {
		return nil, errors.New("work order cannot be started from current state")
	}

	updated := *existing
	updated.State = models.WorkOrderStateInProgress
	updated.UpdatedBy = updatedBy

	order, err := s.workOrderRepo.UpdateWorkOrder(id, &updated)
	if err != nil {
		return nil, err
	}

	s.moveAssets(order, models.AssetStatusAvailable, models.AssetStatusInMaintenance, updatedBy)

	return order, nil
}

// CompleteWorkOrder closes the order. Every line item must already be
// completed; partial completion keeps the order open.
func (s *WorkOrderService) CompleteWorkOrder(id string, updatedBy string) (*models.WorkOrder, error) {
	existing, err := s.GetWorkOrderByKey(id)
	if err != nil {
		return nil, err
	}

	if existing.State != models.WorkOrderStateInProgress {
		return nil, errors.New("work order must be in progress to be completed")
	}

	for _, item := range existing.LineItems {
		if item.CompletionStatus != models.LineItemStatusCompleted {
			return nil, errors.New("all line items must be completed first")
		}
	}

	now := time.Now()
	updated := *existing
	updated.State = models.WorkOrderStateCompleted
	updated.ActualEnd = &now
	updated.UpdatedBy = updatedBy

	order, err := s.workOrderRepo.UpdateWorkOrder(id, &updated)
	if err != nil {
		return nil, err
	}

	s.moveAssets(order, models.AssetStatusInMaintenance, models.AssetStatusAvailable, updatedBy)

	return order, nil
}

// AbortWorkOrder cancels an open order. Orders are never hard-deleted; abort
// (or obsolete, for orders overtaken by events) is the terminal record.
func (s *WorkOrderService) AbortWorkOrder(id string, req *models.AbortWorkOrderRequest, updatedBy string) (*models.WorkOrder, error) {
	existing, err := s.GetWorkOrderByKey(id)
	if err != nil {
		return nil, err
	}
	if req == nil || strings.TrimSpace(req.Reason) == "" {
		return nil, errors.New("abort reason is required")
	}

	if isTerminal(existing.State) {
		return nil, errors.New("work order is already closed")
	}

	updated := *existing
	updated.State = models.WorkOrderStateAborted
	if req.Obsolete {
		updated.State = models.WorkOrderStateObsolete
	}
	updated.AbortReason = req.Reason
	updated.UpdatedBy = updatedBy

	order, err := s.workOrderRepo.UpdateWorkOrder(id, &updated)
	if err != nil {
		return nil, err
	}

	s.moveAssets(order, models.AssetStatusInMaintenance, models.AssetStatusAvailable, updatedBy)

	return order, nil
}

// UpdateLineItem moves one line item forward. Completing a schedule-sourced
// item writes the maintenance record, stamps the schedule's lastPerformed,
// recomputes its next due date and resets the asset's usage counters.
func (s *WorkOrderService) UpdateLineItem(orderID string, index int, req *models.UpdateLineItemRequest, updatedBy string) (*models.WorkOrder, error) {
	existing, err := s.GetWorkOrderByKey(orderID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errors.New("line item request is required")
	}

	if existing.State != models.WorkOrderStateInProgress {
		return nil, errors.New("work order must be in progress to work on line items")
	}

	if index < 0 || index >= len(existing.LineItems) {
		return nil, errors.New("line item index out of range")
	}

	updated := *existing
	updated.LineItems = make([]models.WorkOrderLineItem, len(existing.LineItems))
	copy(updated.LineItems, existing.LineItems)
	updated.UpdatedBy = updatedBy

	item := &updated.LineItems[index]
	if item.CompletionStatus == models.LineItemStatusCompleted {
		return nil, errors.New("completed line item cannot be changed")
	}

	item.CompletionStatus = req.CompletionStatus

	if req.CompletionStatus == models.LineItemStatusCompleted {
		now := time.Now()
		item.CompletedAt = &now
		item.CompletedBy = updatedBy

		if err := s.recordCompletion(existing.WorkOrderID, item, req, updatedBy, now); err != nil {
			return nil, err
		}
	}

	return s.workOrderRepo.UpdateWorkOrder(orderID, &updated)
}

// recordCompletion writes the maintenance record for a completed line item
// and, for schedule-sourced items, advances the schedule and resets the
// asset's counters.
func (s *WorkOrderService) recordCompletion(workOrderID string, item *models.WorkOrderLineItem, req *models.UpdateLineItemRequest, performedBy string, now time.Time) error {
	cost := decimal.Zero
	if req.Cost != "" {
		parsed, err := decimal.NewFromString(req.Cost)
		if err != nil {
			return errors.New("cost must be a decimal number")
		}
		cost = parsed
	}

	record := &models.MaintenanceRecord{
		AssetID:         item.AssetID,
		WorkOrderID:     workOrderID,
		ScheduleID:      item.ScheduleID,
		Date:            now,
		MaintenanceType: "scheduled maintenance",
		Cost:            cost,
		PerformedBy:     performedBy,
		Notes:           req.Notes,
		CreatedBy:       performedBy,
	}
	if item.ScheduleID == "" {
		record.MaintenanceType = "work order"
	}

	if _, err := s.recordRepo.CreateRecord(context.Background(), record); err != nil {
		return err
	}

	if item.ScheduleID == "" {
		return nil
	}

	schedule, err := s.scheduleRepo.GetSchedule(item.ScheduleID)
	if err != nil {
		// The schedule may have been deleted since the order was generated;
		// the record above still stands.
		s.logger.Warnf("Schedule %s not found while completing line item: %v", item.ScheduleID, err)
		return nil
	}

	updated := *schedule
	updated.LastPerformed = &now
	updated.NextDue = maintenance.NextDue(updated, now)
	updated.UpdatedBy = performedBy

	if _, err := s.scheduleRepo.UpdateSchedule(schedule.ScheduleID, &updated); err != nil {
		return err
	}

	asset, err := s.assetRepo.GetAsset(item.AssetID)
	if err != nil {
		return err
	}

	_, err = s.assetRepo.UpdateAsset(asset.AssetID, map[string]interface{}{
		"lastMaintenanceHours":     asset.CurrentUsageHours,
		"bookingsSinceMaintenance": 0,
		"updatedBy":                performedBy,
	})
	return err
}

// GenerateForDueSchedule creates a schedule-sourced work order for a due
// schedule. Idempotent: when an open order for the schedule already exists it
// is returned unchanged, so repeated sweeps never pile up duplicates.
func (s *WorkOrderService) GenerateForDueSchedule(ctx context.Context, schedule *models.MaintenanceSchedule, generatedBy string) (*models.WorkOrder, error) {
	if schedule == nil {
		return nil, errors.New("schedule is required")
	}

	open, err := s.workOrderRepo.GetOpenWorkOrderForSchedule(schedule.ScheduleID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return open, nil
	}

	asset, err := s.assetRepo.GetAsset(schedule.AssetID)
	if err != nil {
		return nil, err
	}

	description := schedule.Description
	if description == "" {
		description = maintenance.DescribeSchedule(*schedule)
	}

	priority := models.WorkOrderPriorityMedium
	if maintenance.IsOverdue(*schedule, time.Now()) {
		priority = models.WorkOrderPriorityHigh
	}

	order := &models.WorkOrder{
		Title:    fmt.Sprintf("Maintenance: %s (%s)", asset.Name, asset.AssetNumber),
		State:    models.WorkOrderStateBacklog,
		Priority: priority,
		Source:   models.WorkOrderSourceSchedule,
		LineItems: []models.WorkOrderLineItem{{
			AssetID:          asset.AssetID,
			ScheduleID:       schedule.ScheduleID,
			Description:      description,
			CompletionStatus: models.LineItemStatusPending,
		}},
		CreatedBy: generatedBy,
	}

	created, err := s.workOrderRepo.CreateWorkOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Generated work order %s for due schedule %s", created.OrderNumber, schedule.ScheduleID)
	return created, nil
}

// moveAssets shifts every line item asset currently in `from` to `to`.
// Assets engaged elsewhere (booked, checked out) keep their status.
func (s *WorkOrderService) moveAssets(order *models.WorkOrder, from, to models.AssetStatus, updatedBy string) {
	seen := make(map[string]bool)
	for _, item := range order.LineItems {
		if seen[item.AssetID] {
			continue
		}
		seen[item.AssetID] = true

		asset, err := s.assetRepo.GetAsset(item.AssetID)
		if err != nil {
			s.logger.Warnf("Asset %s not found while updating status: %v", item.AssetID, err)
			continue
		}
		if asset.Status != from {
			continue
		}
		if _, err := s.assetRepo.UpdateAsset(asset.AssetID, map[string]interface{}{
			"status":    string(to),
			"updatedBy": updatedBy,
		}); err != nil {
			s.logger.Errorf("Failed to update status of asset %s: %v", asset.AssetID, err)
		}
	}
}

func isTerminal(state models.WorkOrderState) bool {
	return state == models.WorkOrderStateCompleted ||
		state == models.WorkOrderStateAborted ||
		state == models.WorkOrderStateObsolete
}
