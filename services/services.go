package services

import (
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/repository"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/metrics"
)

// Service implements ServiceContainerInterface
type Service struct {
	assetService     AssetServiceInterface
	bookingService   BookingServiceInterface
	scheduleService  ScheduleServiceInterface
	workOrderService WorkOrderServiceInterface
	recordService    RecordServiceInterface
	stockTakeService StockTakeServiceInterface
	savedViewService SavedViewServiceInterface
	reportService    ReportServiceInterface
	userService      UserServiceInterface
	sweepService     SweepServiceInterface
}

// NewService creates a new service container with all dependencies injected
func NewService(
	repoContainer repository.RepositoryContainerInterface,
	m *metrics.Metrics,
	log logger.Logger,
	config *models.Config,
) ServiceContainerInterface {
	assetRepo := repoContainer.GetAssetRepository()
	groupRepo := repoContainer.GetGroupRepository()
	bookingRepo := repoContainer.GetBookingRepository()
	scheduleRepo := repoContainer.GetScheduleRepository()
	workOrderRepo := repoContainer.GetWorkOrderRepository()
	recordRepo := repoContainer.GetRecordRepository()
	stockTakeRepo := repoContainer.GetStockTakeRepository()
	savedViewRepo := repoContainer.GetSavedViewRepository()
	userRepo := repoContainer.GetUserRepository()

	workOrderService := NewWorkOrderService(workOrderRepo, scheduleRepo, assetRepo, recordRepo, log)

	return &Service{
		assetService:     NewAssetService(assetRepo, groupRepo, bookingRepo, log),
		bookingService:   NewBookingService(bookingRepo, assetRepo, log),
		scheduleService:  NewScheduleService(scheduleRepo, assetRepo, log),
		workOrderService: workOrderService,
		recordService:    NewRecordService(recordRepo, assetRepo, scheduleRepo, log),
		stockTakeService: NewStockTakeService(stockTakeRepo, assetRepo, log),
		savedViewService: NewSavedViewService(savedViewRepo, log),
		reportService:    NewReportService(assetRepo, groupRepo, bookingRepo, scheduleRepo, recordRepo, stockTakeRepo, log),
		userService:      NewUserService(userRepo, config, log),
		sweepService:     NewSweepService(scheduleRepo, assetRepo, workOrderService, m, config, log),
	}
}

// GetAssetService returns the asset service interface
func (s *Service) GetAssetService() AssetServiceInterface {
	return s.assetService
}

// GetBookingService returns the booking service interface
func (s *Service) GetBookingService() BookingServiceInterface {
	return s.bookingService
}

// GetScheduleService returns the maintenance schedule service interface
func (s *Service) GetScheduleService() ScheduleServiceInterface {
	return s.scheduleService
}

// GetWorkOrderService returns the work order service interface
func (s *Service) GetWorkOrderService() WorkOrderServiceInterface {
	return s.workOrderService
}

// GetRecordService returns the maintenance record service interface
func (s *Service) GetRecordService() RecordServiceInterface {
	return s.recordService
}

// GetStockTakeService returns the stock take service interface
func (s *Service) GetStockTakeService() StockTakeServiceInterface {
	return s.stockTakeService
}

// GetSavedViewService returns the saved view service interface
func (s *Service) GetSavedViewService() SavedViewServiceInterface {
	return s.savedViewService
}

// GetReportService returns the report service interface
func (s *Service) GetReportService() ReportServiceInterface {
	return s.reportService
}

// GetUserService returns the user service interface
func (s *Service) GetUserService() UserServiceInterface {
	return s.userService
}

// GetSweepService returns the sweep service interface
func (s *Service) GetSweepService() SweepServiceInterface {
	return s.sweepService
}
