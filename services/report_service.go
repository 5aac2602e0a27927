package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/maintenance"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/repository"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"
)

// ReportService assembles report inputs from the repositories and hands them
// to the maintenance aggregators. Reports are projections over live records,
// recomputed on every call and never persisted.
type ReportService struct {
	assetRepo     repository.AssetRepositoryInterface
	groupRepo     repository.GroupRepositoryInterface
	bookingRepo   repository.BookingRepositoryInterface
	scheduleRepo  repository.ScheduleRepositoryInterface
	recordRepo    repository.RecordRepositoryInterface
	stockTakeRepo repository.StockTakeRepositoryInterface
	logger        logger.Logger
}

// NewReportService creates a new report service instance
func NewReportService(
	assetRepo repository.AssetRepositoryInterface,
	groupRepo repository.GroupRepositoryInterface,
	bookingRepo repository.BookingRepositoryInterface,
	scheduleRepo repository.ScheduleRepositoryInterface,
	recordRepo repository.RecordRepositoryInterface,
	stockTakeRepo repository.StockTakeRepositoryInterface,
	log logger.Logger,
) *ReportService {
	return &ReportService{
		assetRepo:     assetRepo,
		groupRepo:     groupRepo,
		bookingRepo:   bookingRepo,
		scheduleRepo:  scheduleRepo,
		recordRepo:    recordRepo,
		stockTakeRepo: stockTakeRepo,
		logger:        log,
	}
}

// MaintenanceCompliance partitions every scheduled asset into overdue, due
// soon and compliant. Retired assets still count toward the inventory total,
// but their schedules no longer demand maintenance and are left out of the
// partition.
func (s *ReportService) MaintenanceCompliance() (*models.MaintenanceComplianceData, error) {
	assets, err := s.loadAssets()
	if err != nil {
		return nil, err
	}

	active, err := s.scheduleRepo.GetActiveSchedules()
	if err != nil {
		return nil, err
	}

	retired := make(map[string]bool)
	for _, a := range assets {
		if a.Status == models.AssetStatusRetired {
			retired[a.AssetID] = true
		}
	}

	schedules := make([]models.MaintenanceSchedule, 0, len(active))
	for _, sched := range active {
		if retired[sched.AssetID] {
			continue
		}
		schedules = append(schedules, *sched)
	}

	data := maintenance.CalculateMaintenanceCompliance(assets, schedules, time.Now())
	return &data, nil
}

// AssetUtilization reports the share of the period each asset spent booked.
func (s *ReportService) AssetUtilization(startDate, endDate string) ([]models.AssetUtilizationData, error) {
	start, end, err := parseReportPeriod(startDate, endDate)
	if err != nil {
		return nil, err
	}

	assets, err := s.loadAssets()
	if err != nil {
		return nil, err
	}
	bookings, err := s.loadBookings()
	if err != nil {
		return nil, err
	}

	return maintenance.CalculateAssetUtilization(assets, bookings, start, end), nil
}

// GroupUtilization rolls per-asset utilization up to asset groups. Groups
// whose members saw no bookings are still reported with zero values.
func (s *ReportService) GroupUtilization(startDate, endDate string) ([]models.GroupUtilizationData, error) {
	start, end, err := parseReportPeriod(startDate, endDate)
	if err != nil {
		return nil, err
	}

	assets, err := s.loadAssets()
	if err != nil {
		return nil, err
	}
	bookings, err := s.loadBookings()
	if err != nil {
		return nil, err
	}
	groupPtrs, err := s.groupRepo.GetGroups()
	if err != nil {
		return nil, err
	}
	groups := make([]models.AssetGroup, 0, len(groupPtrs))
	for _, g := range groupPtrs {
		groups = append(groups, *g)
	}

	perAsset := maintenance.CalculateAssetUtilization(assets, bookings, start, end)

	// Both endpoints belong to the period, matching the day counting of the
	// per-asset rows.
	periodDays := int(end.Sub(start).Hours()/24) + 1
	return maintenance.AggregateGroupUtilization(groups, perAsset, periodDays), nil
}

// BookingHistory aggregates bookings whose start date falls inside the period.
func (s *ReportService) BookingHistory(startDate, endDate string) (*models.BookingHistoryData, error) {
	start, end, err := parseReportPeriod(startDate, endDate)
	if err != nil {
		return nil, err
	}

	assets, err := s.loadAssets()
	if err != nil {
		return nil, err
	}
	bookings, err := s.loadBookings()
	if err != nil {
		return nil, err
	}

	data := maintenance.AggregateBookingHistory(bookings, assets, start, end)
	return &data, nil
}

// StockTakeSummary reports the set differences of a counting session. The
// session does not have to be completed: an open session reports its progress
// so far.
func (s *ReportService) StockTakeSummary(sessionID string) (*models.StockTakeSummaryData, error) {
	session, err := s.stockTakeRepo.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	data := maintenance.CalculateStockTakeSummary(*session)
	return &data, nil
}

// MaintenanceCosts totals maintenance record costs per asset over the period.
func (s *ReportService) MaintenanceCosts(startDate, endDate string) ([]models.MaintenanceCostData, error) {
	start, end, err := parseReportPeriod(startDate, endDate)
	if err != nil {
		return nil, err
	}

	assets, err := s.loadAssets()
	if err != nil {
		return nil, err
	}
	recordPtrs, err := s.recordRepo.GetRecordsByFilter(&models.MaintenanceRecordFilter{})
	if err != nil {
		return nil, err
	}
	records := make([]models.MaintenanceRecord, 0, len(recordPtrs))
	for _, r := range recordPtrs {
		records = append(records, *r)
	}

	return maintenance.AggregateMaintenanceCosts(records, assets, start, end), nil
}

// ComplianceCSV renders the compliance partition as a flat CSV table, one row
// per overdue or due-soon schedule.
func (s *ReportService) ComplianceCSV() ([]byte, error) {
	data, err := s.MaintenanceCompliance()
	if err != nil {
		return nil, err
	}

	header := []string{"assetNumber", "assetName", "schedule", "status", "nextDue", "daysOverdue", "daysUntilDue"}
	rows := make([][]string, 0, len(data.Overdue)+len(data.DueSoon))
	for _, e := range data.Overdue {
		rows = append(rows, []string{
			e.AssetNumber, e.AssetName, e.Description, "overdue",
			formatDuePtr(e.NextDue), strconv.Itoa(e.DaysOverdue), "",
		})
	}
	for _, e := range data.DueSoon {
		rows = append(rows, []string{
			e.AssetNumber, e.AssetName, e.Description, "due_soon",
			formatDuePtr(e.NextDue), "", strconv.Itoa(e.DaysUntilDue),
		})
	}

	return utils.EncodeCSV(header, rows)
}

// AssetUtilizationCSV renders the per-asset utilization table as CSV.
func (s *ReportService) AssetUtilizationCSV(startDate, endDate string) ([]byte, error) {
	data, err := s.AssetUtilization(startDate, endDate)
	if err != nil {
		return nil, err
	}

	header := []string{"assetNumber", "assetName", "groupID", "bookings", "daysBooked", "utilizationPercent"}
	rows := make([][]string, 0, len(data))
	for _, row := range data {
		rows = append(rows, []string{
			row.AssetNumber, row.AssetName, row.GroupID,
			strconv.Itoa(row.BookingCount), strconv.Itoa(row.TotalDaysBooked),
			strconv.FormatFloat(row.UtilizationPercentage, 'f', 1, 64),
		})
	}

	return utils.EncodeCSV(header, rows)
}

// BookingHistoryCSV renders the most-booked ranking as CSV.
func (s *ReportService) BookingHistoryCSV(startDate, endDate string) ([]byte, error) {
	data, err := s.BookingHistory(startDate, endDate)
	if err != nil {
		return nil, err
	}

	header := []string{"rank", "assetNumber", "assetName", "bookings"}
	rows := make([][]string, 0, len(data.TopAssets))
	for i, row := range data.TopAssets {
		rows = append(rows, []string{
			strconv.Itoa(i + 1), row.AssetNumber, row.AssetName, strconv.Itoa(row.Count),
		})
	}

	return utils.EncodeCSV(header, rows)
}

// StockTakeSummaryCSV renders the missing and unexpected asset lists as CSV.
func (s *ReportService) StockTakeSummaryCSV(sessionID string) ([]byte, error) {
	data, err := s.StockTakeSummary(sessionID)
	if err != nil {
		return nil, err
	}

	header := []string{"assetID", "finding"}
	rows := make([][]string, 0, len(data.MissingAssetIDs)+len(data.UnexpectedAssetIDs))
	for _, id := range data.MissingAssetIDs {
		rows = append(rows, []string{id, "missing"})
	}
	for _, id := range data.UnexpectedAssetIDs {
		rows = append(rows, []string{id, "unexpected"})
	}

	return utils.EncodeCSV(header, rows)
}

func (s *ReportService) loadAssets() ([]models.Asset, error) {
	ptrs, err := s.assetRepo.GetAssetsByFilter(&models.AssetFilter{})
	if err != nil {
		return nil, err
	}
	assets := make([]models.Asset, 0, len(ptrs))
	for _, a := range ptrs {
		assets = append(assets, *a)
	}
	return assets, nil
}

func (s *ReportService) loadBookings() ([]models.Booking, error) {
	ptrs, err := s.bookingRepo.GetBookingsByFilter(&models.BookingFilter{})
	if err != nil {
		return nil, err
	}
	bookings := make([]models.Booking, 0, len(ptrs))
	for _, b := range ptrs {
		bookings = append(bookings, *b)
	}
	return bookings, nil
}

// parseReportPeriod validates the date pair every period report takes. An
// inverted period is allowed and simply yields empty results downstream.
func parseReportPeriod(startDate, endDate string) (time.Time, time.Time, error) {
	if startDate == "" || endDate == "" {
		return time.Time{}, time.Time{}, errors.New("startDate and endDate are required")
	}
	start, err := time.Parse(maintenance.DateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("startDate must be in YYYY-MM-DD format")
	}
	end, err := time.Parse(maintenance.DateLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("endDate must be in YYYY-MM-DD format")
	}
	return start, end, nil
}

func formatDuePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(maintenance.DateLayout)
}
