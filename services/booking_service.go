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
)

type BookingService struct {
	bookingRepo repository.BookingRepositoryInterface
	assetRepo   repository.AssetRepositoryInterface
	logger      logger.Logger
}

func NewBookingService(bookingRepo repository.BookingRepositoryInterface, assetRepo repository.AssetRepositoryInterface, logger logger.Logger) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		assetRepo:   assetRepo,
		logger:      logger,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, req *models.CreateBookingRequest, userID string) (*models.Booking, error) {
	if err := s.validateBookingWindow(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	asset, err := s.assetRepo.GetAsset(req.AssetID)
	if err != nil {
		return nil, err
	}
	if asset.Status == models.AssetStatusRetired {
		return nil, errors.New("retired asset cannot be booked")
	}

	if err := s.checkOverlap(asset.AssetID, req.StartDate, req.EndDate, ""); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		AssetID:   asset.AssetID,
		UserID:    userID,
		Purpose:   req.Purpose,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		CreatedBy: userID,
	}

	return s.bookingRepo.CreateBooking(ctx, booking)
}

func (s *BookingService) validateBookingWindow(startDate, endDate string) error {
	start, err := time.Parse(maintenance.DateLayout, startDate)
	if err != nil {
		return errors.New("start date must be formatted YYYY-MM-DD")
	}
	end, err := time.Parse(maintenance.DateLayout, endDate)
	if err != nil {
		return errors.New("end date must be formatted YYYY-MM-DD")
	}
	if end.Before(start) {
		return errors.New("end date must not be before start date")
	}
	return nil
}

// checkOverlap rejects a window that intersects any active booking of the
// asset. Windows are inclusive of both endpoints; excludeID skips the booking
// being rescheduled.
func (s *BookingService) checkOverlap(assetID, startDate, endDate, excludeID string) error {
	active, err := s.bookingRepo.GetActiveBookingsByAsset(assetID)
	if err != nil {
		return err
	}

	for _, b := range active {
		if b.BookingID == excludeID {
			continue
		}
		// Date strings compare lexically in YYYY-MM-DD order.
		if startDate <= b.EndDate && b.StartDate <= endDate {
			return errors.New("asset is already booked in this period")
		}
	}
	return nil
}

func (s *BookingService) GetBookings(filter *models.BookingFilter) ([]*models.Booking, error) {
	if filter == nil {
		filter = &models.BookingFilter{}
	}
	return s.bookingRepo.GetBookingsByFilter(filter)
}

func (s *BookingService) GetBookingByID(id string) (*models.Booking, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("booking ID is required")
	}
	return s.bookingRepo.GetBooking(id)
}

func (s *BookingService) UpdateBooking(id string, req *models.UpdateBookingRequest, updatedBy string) (*models.Booking, error) {
	existing, err := s.GetBookingByID(id)
	if err != nil {
		return nil, err
	}

	if existing.Status != models.BookingStatusActive {
		return nil, errors.New("only active bookings can be updated")
	}
	if existing.CheckedOutAt != nil {
		return nil, errors.New("booking cannot be updated after check-out")
	}

	updated := *existing
	updated.UpdatedBy = updatedBy

	if req.Purpose != "" {
		updated.Purpose = req.Purpose
	}
	if req.StartDate != "" {
		updated.StartDate = req.StartDate
	}
	if req.EndDate != "" {
		updated.EndDate = req.EndDate
	}

	if err := s.validateBookingWindow(updated.StartDate, updated.EndDate); err != nil {
		return nil, err
	}
	if err := s.checkOverlap(updated.AssetID, updated.StartDate, updated.EndDate, updated.BookingID); err != nil {
		return nil, err
	}

	return s.bookingRepo.UpdateBooking(id, &updated)
}

func (s *BookingService) CheckOut(id string, userID string) (*models.Booking, error) {
	existing, err := s.GetBookingByID(id)
	if err != nil {
		return nil, err
	}

	if existing.Status != models.BookingStatusActive {
		return nil, errors.New("only active bookings can be checked out")
	}
	if existing.CheckedOutAt != nil {
		return nil, errors.New("booking is already checked out")
	}

	now := time.Now()
	updated := *existing
	updated.CheckedOutAt = &now
	updated.UpdatedBy = userID

	booking, err := s.bookingRepo.UpdateBooking(id, &updated)
	if err != nil {
		return nil, err
	}

	_, err = s.assetRepo.UpdateAsset(existing.AssetID, map[string]interface{}{
		"status":    string(models.AssetStatusCheckedOut),
		"updatedBy": userID,
	})
	if err != nil {
		s.logger.Errorf("Failed to mark asset %s checked out: %v", existing.AssetID, err)
		return nil, err
	}

	return booking, nil
}

// CheckIn completes the booking and feeds the asset's usage counters: logged
// hours are added to currentUsageHours and the booking counter increments.
// Those counters are what the usage-based and event-based schedules read.
func (s *BookingService) CheckIn(id string, req *models.CheckInRequest, userID string) (*models.Booking, error) {
	existing, err := s.GetBookingByID(id)
	if err != nil {
		return nil, err
	}

	if existing.CheckedOutAt == nil {
		return nil, errors.New("booking has not been checked out")
	}
	if existing.CheckedInAt != nil {
		return nil, errors.New("booking is already checked in")
	}

	if req == nil {
		req = &models.CheckInRequest{}
	}
	if req.UsageHours < 0 {
		return nil, errors.New("usage hours cannot be negative")
	}

	asset, err := s.assetRepo.GetAsset(existing.AssetID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updated := *existing
	updated.CheckedInAt = &now
	updated.UsageHoursLogged = req.UsageHours
	updated.Status = models.BookingStatusCompleted
	updated.UpdatedBy = userID

	booking, err := s.bookingRepo.UpdateBooking(id, &updated)
	if err != nil {
		return nil, err
	}

	_, err = s.assetRepo.UpdateAsset(asset.AssetID, map[string]interface{}{
		"status":                   string(models.AssetStatusAvailable),
		"currentUsageHours":        asset.CurrentUsageHours + req.UsageHours,
		"bookingsSinceMaintenance": asset.BookingsSinceMaintenance + 1,
		"updatedBy":                userID,
	})
	if err != nil {
		s.logger.Errorf("Failed to update usage counters for asset %s: %v", asset.AssetID, err)
		return nil, err
	}

	return booking, nil
}

func (s *BookingService) CancelBooking(id string, req *models.CancelBookingRequest, userID string) (*models.Booking, error) {
	existing, err := s.GetBookingByID(id)
	if err != nil {
		return nil, err
	}

	if existing.Status == models.BookingStatusCompleted {
		return nil, errors.New("completed booking cannot be cancelled")
	}
	if existing.Status == models.BookingStatusCancelled {
		return nil, errors.New("booking is already cancelled")
	}
	if existing.CheckedInAt != nil {
		return nil, errors.New("booking cannot be cancelled after check-in")
	}

	updated := *existing
	updated.Status = models.BookingStatusCancelled
	updated.UpdatedBy = userID
	if req != nil {
		updated.CancelReason = req.Reason
	}

	booking, err := s.bookingRepo.UpdateBooking(id, &updated)
	if err != nil {
		return nil, err
	}

	// A cancellation after check-out returns the asset to circulation.
	if existing.CheckedOutAt != nil {
		_, err = s.assetRepo.UpdateAsset(existing.AssetID, map[string]interface{}{
			"status":    string(models.AssetStatusAvailable),
			"updatedBy": userID,
		})
		if err != nil {
			s.logger.Errorf("Failed to release asset %s after cancellation: %v", existing.AssetID, err)
			return nil, err
		}
	}

	return booking, nil
}
