package repository

import (
	"context"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
)

// AssetRepositoryInterface defines the contract for asset repository operations
type AssetRepositoryInterface interface {
	CreateAsset(ctx context.Context, asset *models.Asset) (*models.Asset, error)
	GetAsset(key string) (*models.Asset, error)
	GetAssetByBarcode(barcode string) (*models.Asset, error)
	GetAssetsByFilter(filter *models.AssetFilter) ([]*models.Asset, error)
	UpdateAsset(id string, updates map[string]interface{}) (*models.Asset, error)
	DeleteAsset(id string) error
}

// GroupRepositoryInterface defines the contract for asset group repository operations
type GroupRepositoryInterface interface {
	CreateGroup(ctx context.Context, group *models.AssetGroup) (*models.AssetGroup, error)
	GetGroup(id string) (*models.AssetGroup, error)
	GetGroups() ([]*models.AssetGroup, error)
	UpdateGroup(id string, updates map[string]interface{}) (*models.AssetGroup, error)
	DeleteGroup(id string) error
}

// BookingRepositoryInterface defines the contract for booking repository operations
type BookingRepositoryInterface interface {
	CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	GetBooking(id string) (*models.Booking, error)
	GetBookingsByFilter(filter *models.BookingFilter) ([]*models.Booking, error)
	GetActiveBookingsByAsset(assetID string) ([]*models.Booking, error)
	UpdateBooking(id string, booking *models.Booking) (*models.Booking, error)
}

// ScheduleRepositoryInterface defines the contract for maintenance schedule repository operations
type ScheduleRepositoryInterface interface {
	CreateSchedule(ctx context.Context, schedule *models.MaintenanceSchedule) (*models.MaintenanceSchedule, error)
	GetSchedule(id string) (*models.MaintenanceSchedule, error)
	GetSchedulesByFilter(filter *models.ScheduleFilter) ([]*models.MaintenanceSchedule, error)
	GetActiveSchedules() ([]*models.MaintenanceSchedule, error)
	UpdateSchedule(id string, schedule *models.MaintenanceSchedule) (*models.MaintenanceSchedule, error)
	DeleteSchedule(id string) error
}

// WorkOrderRepositoryInterface defines the contract for work order repository operations
type WorkOrderRepositoryInterface interface {
	CreateWorkOrder(ctx context.Context, order *models.WorkOrder) (*models.WorkOrder, error)
	GetWorkOrder(key string) (*models.WorkOrder, error)
	GetWorkOrdersByFilter(filter *models.WorkOrderFilter) ([]*models.WorkOrder, error)
	GetOpenWorkOrderForSchedule(scheduleID string) (*models.WorkOrder, error)
	UpdateWorkOrder(id string, order *models.WorkOrder) (*models.WorkOrder, error)
}

// RecordRepositoryInterface defines the contract for maintenance record
// repository operations. Records are immutable: there is no update or delete.
type RecordRepositoryInterface interface {
	CreateRecord(ctx context.Context, record *models.MaintenanceRecord) (*models.MaintenanceRecord, error)
	GetRecord(id string) (*models.MaintenanceRecord, error)
	GetRecordsByFilter(filter *models.MaintenanceRecordFilter) ([]*models.MaintenanceRecord, error)
}

// StockTakeRepositoryInterface defines the contract for stock take repository operations
type StockTakeRepositoryInterface interface {
	CreateSession(ctx context.Context, session *models.StockTakeSession) (*models.StockTakeSession, error)
	GetSession(id string) (*models.StockTakeSession, error)
	GetSessionsByStatus(status models.StockTakeStatus) ([]*models.StockTakeSession, error)
	UpdateSession(id string, session *models.StockTakeSession) (*models.StockTakeSession, error)
}

// SavedViewRepositoryInterface defines the contract for saved view repository operations
type SavedViewRepositoryInterface interface {
	CreateView(ctx context.Context, view *models.SavedView) (*models.SavedView, error)
	GetView(id string) (*models.SavedView, error)
	GetViewsByUser(userID string) ([]*models.SavedView, error)
	GetSharedViews() ([]*models.SavedView, error)
	UpdateView(id string, view *models.SavedView) (*models.SavedView, error)
	DeleteView(id string) error
}

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUser(key string) (*models.User, error)
	GetUsers() ([]*models.User, error)
	UpdateUser(id string, updates map[string]interface{}) (*models.User, error)
}

// RepositoryContainerInterface defines the contract for the repository container
type RepositoryContainerInterface interface {
	GetAssetRepository() AssetRepositoryInterface
	GetGroupRepository() GroupRepositoryInterface
	GetBookingRepository() BookingRepositoryInterface
	GetScheduleRepository() ScheduleRepositoryInterface
	GetWorkOrderRepository() WorkOrderRepositoryInterface
	GetRecordRepository() RecordRepositoryInterface
	GetStockTakeRepository() StockTakeRepositoryInterface
	GetSavedViewRepository() SavedViewRepositoryInterface
	GetUserRepository() UserRepositoryInterface
}
