package services

import (
	"context"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
)

// AssetServiceInterface defines the contract for asset and asset group operations
type AssetServiceInterface interface {
	CreateAsset(ctx context.Context, req *models.CreateAssetRequest, createdBy string) (*models.Asset, error)
	GetAssets(filter *models.AssetFilter) ([]*models.Asset, error)
	GetAssetByKey(key string) (*models.Asset, error)
	GetAssetByScanCode(assetNumber, barcode string) (*models.Asset, error)
	UpdateAsset(id string, req *models.UpdateAssetRequest, updatedBy string) (*models.Asset, error)
	RetireAsset(id string, updatedBy string) (*models.Asset, error)
	DeleteAsset(id string) error
	CreateGroup(ctx context.Context, req *models.CreateAssetGroupRequest, createdBy string) (*models.AssetGroup, error)
	GetGroups() ([]*models.AssetGroup, error)
	GetGroupByID(id string) (*models.AssetGroup, error)
	UpdateGroup(id string, req *models.CreateAssetGroupRequest) (*models.AssetGroup, error)
	DeleteGroup(id string) error
}

// BookingServiceInterface defines the contract for the booking lifecycle
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, req *models.CreateBookingRequest, userID string) (*models.Booking, error)
	GetBookings(filter *models.BookingFilter) ([]*models.Booking, error)
	GetBookingByID(id string) (*models.Booking, error)
	UpdateBooking(id string, req *models.UpdateBookingRequest, updatedBy string) (*models.Booking, error)
	CheckOut(id string, userID string) (*models.Booking, error)
	CheckIn(id string, req *models.CheckInRequest, userID string) (*models.Booking, error)
	CancelBooking(id string, req *models.CancelBookingRequest, userID string) (*models.Booking, error)
}

// ScheduleServiceInterface defines the contract for maintenance schedule operations
type ScheduleServiceInterface interface {
	CreateSchedule(ctx context.Context, req *models.CreateScheduleRequest, createdBy string) (*models.MaintenanceSchedule, error)
	GetSchedules(filter *models.ScheduleFilter) ([]*models.MaintenanceSchedule, error)
	GetScheduleByID(id string) (*models.MaintenanceSchedule, error)
	UpdateSchedule(id string, req *models.UpdateScheduleRequest, updatedBy string) (*models.MaintenanceSchedule, error)
	DeleteSchedule(id string) error
	GetDueSchedules(withinDays int) ([]models.DueScheduleRow, error)
}

// WorkOrderServiceInterface defines the contract for the work order lifecycle
type WorkOrderServiceInterface interface {
	CreateWorkOrder(ctx context.Context, req *models.CreateWorkOrderRequest, createdBy string) (*models.WorkOrder, error)
	GetWorkOrders(filter *models.WorkOrderFilter) ([]*models.WorkOrder, error)
	GetWorkOrderByKey(key string) (*models.WorkOrder, error)
	UpdateWorkOrder(id string, req *models.UpdateWorkOrderRequest, updatedBy string) (*models.WorkOrder, error)
	PlanWorkOrder(id string, updatedBy string) (*models.WorkOrder, error)
	StartWorkOrder(id string, updatedBy string) (*models.WorkOrder, error)
	CompleteWorkOrder(id string, updatedBy string) (*models.WorkOrder, error)
	AbortWorkOrder(id string, req *models.AbortWorkOrderRequest, updatedBy string) (*models.WorkOrder, error)
	UpdateLineItem(orderID string, index int, req *models.UpdateLineItemRequest, updatedBy string) (*models.WorkOrder, error)
	GenerateForDueSchedule(ctx context.Context, schedule *models.MaintenanceSchedule, generatedBy string) (*models.WorkOrder, error)
}

// RecordServiceInterface defines the contract for the maintenance log.
// Records are append-only; there are no update or delete operations.
type RecordServiceInterface interface {
	CreateRecord(ctx context.Context, req *models.CreateMaintenanceRecordRequest, createdBy string) (*models.MaintenanceRecord, error)
	GetRecords(filter *models.MaintenanceRecordFilter) ([]*models.MaintenanceRecord, error)
	GetRecordByID(id string) (*models.MaintenanceRecord, error)
}

// StockTakeServiceInterface defines the contract for stock take sessions
type StockTakeServiceInterface interface {
	CreateSession(ctx context.Context, req *models.CreateStockTakeRequest, startedBy string) (*models.StockTakeSession, error)
	GetSession(id string) (*models.StockTakeSession, error)
	GetSessions(status models.StockTakeStatus) ([]*models.StockTakeSession, error)
	Scan(id string, req *models.ScanRequest) (*models.StockTakeSession, error)
	CompleteSession(id string) (*models.StockTakeSession, error)
	GetSummary(id string) (*models.StockTakeSummaryData, error)
}

// SavedViewServiceInterface defines the contract for saved list views
type SavedViewServiceInterface interface {
	CreateView(ctx context.Context, req *models.CreateSavedViewRequest, userID string) (*models.SavedView, error)
	GetView(id string, requesterID string) (*models.SavedView, error)
	GetViewsForUser(userID string) ([]*models.SavedView, error)
	UpdateView(id string, req *models.UpdateSavedViewRequest, requesterID string) (*models.SavedView, error)
	DeleteView(id string, requesterID string) error
}

// ReportServiceInterface defines the contract for report generation. Every
// report is recomputed from current records on each call.
type ReportServiceInterface interface {
	MaintenanceCompliance() (*models.MaintenanceComplianceData, error)
	AssetUtilization(startDate, endDate string) ([]models.AssetUtilizationData, error)
	GroupUtilization(startDate, endDate string) ([]models.GroupUtilizationData, error)
	BookingHistory(startDate, endDate string) (*models.BookingHistoryData, error)
	StockTakeSummary(sessionID string) (*models.StockTakeSummaryData, error)
	MaintenanceCosts(startDate, endDate string) ([]models.MaintenanceCostData, error)
	ComplianceCSV() ([]byte, error)
	AssetUtilizationCSV(startDate, endDate string) ([]byte, error)
	BookingHistoryCSV(startDate, endDate string) ([]byte, error)
	StockTakeSummaryCSV(sessionID string) ([]byte, error)
}

// UserServiceInterface defines the contract for user management
type UserServiceInterface interface {
	RegisterUser(ctx context.Context, req *models.RegisterUser) (*models.User, error)
	AuthenticateUser(email, password string) (*models.User, error)
	GetUsers() ([]*models.User, error)
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUser(id string, req *models.UpdateUserRequest, updatedBy string) (*models.User, error)
}

// SweepServiceInterface defines the contract for the maintenance sweep and
// the worker status surface backing it
type SweepServiceInterface interface {
	RunSweep(ctx context.Context, dryRun bool) (*models.SweepRun, error)
	GetWorkerStatus() (*models.WorkerState, error)
	IsWorkerHealthy() (bool, string, error)
}

// ServiceContainerInterface defines the main service container contract
type ServiceContainerInterface interface {
	GetAssetService() AssetServiceInterface
	GetBookingService() BookingServiceInterface
	GetScheduleService() ScheduleServiceInterface
	GetWorkOrderService() WorkOrderServiceInterface
	GetRecordService() RecordServiceInterface
	GetStockTakeService() StockTakeServiceInterface
	GetSavedViewService() SavedViewServiceInterface
	GetReportService() ReportServiceInterface
	GetUserService() UserServiceInterface
	GetSweepService() SweepServiceInterface
}
