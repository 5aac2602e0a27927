package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/dal"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"
)

type WorkOrderRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewWorkOrderRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *WorkOrderRepository {
	return &WorkOrderRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *WorkOrderRepository) CreateWorkOrder(ctx context.Context, order *models.WorkOrder) (*models.WorkOrder, error) {
	r.logger.Infof("Creating work order: %s", order.Title)

	now := time.Now()
	order.WorkOrderID = utils.GenerateUUID()
	order.OrderNumber = "WO-" + strings.ToUpper(order.WorkOrderID[:8])
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.State == "" {
		order.State = models.WorkOrderStateBacklog
	}

	err := r.db.PutItem(ctx, r.config.DynamoDBTablePrefix+"_work_orders", order)
	if err != nil {
		r.logger.Errorf("Failed to create work order: %v", err)
		return nil, err
	}

	r.logger.Infof("Work order created successfully: %s (%s)", order.WorkOrderID, order.OrderNumber)
	return order, nil
}

// GetWorkOrder resolves the key as a UUID (primary key) or an order number
// (index lookup).
func (r *WorkOrderRepository) GetWorkOrder(key string) (*models.WorkOrder, error) {
	ctx := context.Background()

	if key == "" {
		return nil, errors.New("work order key is required")
	}

	order := models.WorkOrder{}
	keyType, indexName, keyName := r.determineKeyType(key)

	var config models.QueryConfig

	if keyType == "id" {
		config = models.QueryConfig{
			TableName: r.config.DynamoDBTablePrefix + "_work_orders",
			KeyName:   "workOrderID",
			KeyValue:  key,
			KeyType:   models.StringType,
		}
	} else {
		config = models.QueryConfig{
			TableName: r.config.DynamoDBTablePrefix + "_work_orders",
			IndexName: indexName,
			KeyName:   keyName,
			KeyValue:  key,
			KeyType:   models.StringType,
		}
	}

	err := r.db.GetItem(ctx, config, &order)
	if err != nil {
		r.logger.Errorf("Failed to get work order by %s: %v", keyName, err)
		return nil, fmt.Errorf("failed to get work order by %s: %w", keyName, err)
	}

	if order.WorkOrderID == "" {
		return nil, errors.New("work order not found")
	}

	return &order, nil
}

func (r *WorkOrderRepository) GetWorkOrdersByFilter(filter *models.WorkOrderFilter) ([]*models.WorkOrder, error) {
	ctx := context.Background()

	var orders []*models.WorkOrder
	var err error

	if filter != nil && filter.State != "" {
		err = r.db.QueryByIndex(ctx,
			r.config.DynamoDBTablePrefix+"_work_orders",
			"state-index",
			"state", string(filter.State),
			&orders)
	} else if filter != nil && filter.AssignedTo != "" {
		err = r.db.QueryByIndex(ctx,
			r.config.DynamoDBTablePrefix+"_work_orders",
			"assignedTo-index",
			"assignedTo", filter.AssignedTo,
			&orders)
	} else {
		err = r.db.ScanTable(ctx, r.config.DynamoDBTablePrefix+"_work_orders", &orders)
	}

	if err != nil {
		r.logger.Errorf("Failed to get work orders: %v", err)
		return nil, err
	}

	filtered := r.applyAdditionalFilters(orders, filter)

	r.logger.Infof("Found %d work orders", len(filtered))
	return filtered, nil
}

// GetOpenWorkOrderForSchedule finds a non-terminal schedule-sourced order
// carrying a line item for the given schedule. The sweep calls this before
// generating a new order so reruns stay idempotent.
func (r *WorkOrderRepository) GetOpenWorkOrderForSchedule(scheduleID string) (*models.WorkOrder, error) {
	ctx := context.Background()

	if scheduleID == "" {
		return nil, errors.New("schedule ID is required")
	}

	var orders []*models.WorkOrder
	err := r.db.ScanTable(ctx, r.config.DynamoDBTablePrefix+"_work_orders", &orders)
	if err != nil {
		r.logger.Errorf("Failed to scan work orders: %v", err)
		return nil, err
	}

	for _, order := range orders {
		if order.Source != models.WorkOrderSourceSchedule || isTerminalState(order.State) {
			continue
		}
		for _, item := range order.LineItems {
			if item.ScheduleID == scheduleID {
				return order, nil
			}
		}
	}

	return nil, nil
}

func (r *WorkOrderRepository) UpdateWorkOrder(id string, order *models.WorkOrder) (*models.WorkOrder, error) {
	ctx := context.Background()

	if id == "" {
		return nil, errors.New("work order ID is required")
	}

	existing, err := r.GetWorkOrder(id)
	if err != nil {
		return nil, err
	}

	order.WorkOrderID = existing.WorkOrderID
	order.OrderNumber = existing.OrderNumber
	order.CreatedAt = existing.CreatedAt
	order.UpdatedAt = time.Now()

	err = r.db.PutItem(ctx, r.config.DynamoDBTablePrefix+"_work_orders", order)
	if err != nil {
		r.logger.Errorf("Failed to update work order: %v", err)
		return nil, err
	}

	r.logger.Infof("Work order updated successfully: %s", existing.WorkOrderID)
	return order, nil
}

func (r *WorkOrderRepository) determineKeyType(key string) (keyType, indexName, keyName string) {
	uuidPattern := `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`
	isUUID, _ := regexp.MatchString(uuidPattern, strings.ToLower(key))

	if isUUID {
		return "id", "", "workOrderID"
	}
	return "orderNumber", "orderNumber-index", "orderNumber"
}

func (r *WorkOrderRepository) applyAdditionalFilters(orders []*models.WorkOrder, filter *models.WorkOrderFilter) []*models.WorkOrder {
	if filter == nil {
		return orders
	}

	var filtered []*models.WorkOrder
	for _, order := range orders {
		if filter.State != "" && order.State != filter.State {
			continue
		}

		if filter.Source != "" && order.Source != filter.Source {
			continue
		}

		if filter.AssetID != "" && !orderTouchesAsset(order, filter.AssetID) {
			continue
		}

		if !filter.FromDate.IsZero() && order.CreatedAt.Before(filter.FromDate) {
			continue
		}
		if !filter.ToDate.IsZero() && order.CreatedAt.After(filter.ToDate) {
			continue
		}

		filtered = append(filtered, order)
	}

	return filtered
}

func isTerminalState(state models.WorkOrderState) bool {
	return state == models.WorkOrderStateCompleted ||
		state == models.WorkOrderStateAborted ||
		state == models.WorkOrderStateObsolete
}

func orderTouchesAsset(order *models.WorkOrder, assetID string) bool {
	for _, item := range order.LineItems {
		if item.AssetID == assetID {
			return true
		}
	}
	return false
}
