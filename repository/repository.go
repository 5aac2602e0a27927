package repository

import (
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/dal"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"
)

// Repository implements RepositoryContainerInterface
type Repository struct {
	assetRepo     AssetRepositoryInterface
	groupRepo     GroupRepositoryInterface
	bookingRepo   BookingRepositoryInterface
	scheduleRepo  ScheduleRepositoryInterface
	workOrderRepo WorkOrderRepositoryInterface
	recordRepo    RecordRepositoryInterface
	stockTakeRepo StockTakeRepositoryInterface
	savedViewRepo SavedViewRepositoryInterface
	userRepo      UserRepositoryInterface
}

// NewRepository creates the repository container with all repositories wired
// to the shared database client
func NewRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) RepositoryContainerInterface {
	return &Repository{
		assetRepo:     NewAssetRepository(db, cfg, log),
		groupRepo:     NewGroupRepository(db, cfg, log),
		bookingRepo:   NewBookingRepository(db, cfg, log),
		scheduleRepo:  NewScheduleRepository(db, cfg, log),
		workOrderRepo: NewWorkOrderRepository(db, cfg, log),
		recordRepo:    NewRecordRepository(db, cfg, log),
		stockTakeRepo: NewStockTakeRepository(db, cfg, log),
		savedViewRepo: NewSavedViewRepository(db, cfg, log),
		userRepo:      NewUserRepository(db, cfg, log),
	}
}

func (r *Repository) GetAssetRepository() AssetRepositoryInterface {
	return r.assetRepo
}

func (r *Repository) GetGroupRepository() GroupRepositoryInterface {
	return r.groupRepo
}

func (r *Repository) GetBookingRepository() BookingRepositoryInterface {
	return r.bookingRepo
}

func (r *Repository) GetScheduleRepository() ScheduleRepositoryInterface {
	return r.scheduleRepo
}

func (r *Repository) GetWorkOrderRepository() WorkOrderRepositoryInterface {
	return r.workOrderRepo
}

func (r *Repository) GetRecordRepository() RecordRepositoryInterface {
	return r.recordRepo
}

func (r *Repository) GetStockTakeRepository() StockTakeRepositoryInterface {
	return r.stockTakeRepo
}

func (r *Repository) GetSavedViewRepository() SavedViewRepositoryInterface {
	return r.savedViewRepo
}

func (r *Repository) GetUserRepository() UserRepositoryInterface {
	return r.userRepo
}
