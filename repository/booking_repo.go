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

type BookingRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewBookingRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *BookingRepository {
	return &BookingRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *BookingRepository) CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	r.logger.Infof("Creating booking for asset: %s", booking.AssetID)

	now := time.Now()
	booking.BookingID = utils.GenerateUUID()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Status = models.BookingStatusActive

	err := r.db.PutItem(ctx, r.config.DynamoDBTablePrefix+"_bookings", booking)
	if err != nil {
		r.logger.Errorf("Failed to create booking: %v", err)
		return nil, err
	}

	r.logger.Infof("Booking created successfully: %s", booking.BookingID)
	return booking, nil
}

func (r *BookingRepository) GetBooking(id string) (*models.Booking, error) {
	ctx := context.Background()

	if id == "" {
		return nil, errors.New("booking ID is required")
	}

	booking := models.Booking{}
	config := models.QueryConfig{
		TableName: r.config.DynamoDBTablePrefix + "_bookings",
		KeyName:   "bookingID",
		KeyValue:  id,
		KeyType:   models.StringType,
	}

	err := r.db.GetItem(ctx, config, &booking)
	if err != nil {
		r.logger.Errorf("Failed to get booking: %v", err)
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.BookingID == "" {
		return nil, errors.New("booking not found")
	}

	return &booking, nil
}

func (r *BookingRepository) GetBookingsByFilter(filter *models.BookingFilter) ([]*models.Booking, error) {
	ctx := context.Background()

	var bookings []*models.Booking
	var err error

	if filter != nil && filter.AssetID != "" {
		err = r.db.QueryByIndex(ctx,
			r.config.DynamoDBTablePrefix+"_bookings",
			"assetID-index",
			"assetID", filter.AssetID,
			&bookings)
	} else if filter != nil && filter.UserID != "" {
		err = r.db.QueryByIndex(ctx,
			r.config.DynamoDBTablePrefix+"_bookings",
			"userID-index",
			"userID", filter.UserID,
			&bookings)
	} else if filter != nil && filter.Status != "" {
		err = r.db.QueryByIndex(ctx,
			r.config.DynamoDBTablePrefix+"_bookings",
			"status-index",
			"status", string(filter.Status),
			&bookings)
	} else {
		err = r.db.ScanTable(ctx, r.config.DynamoDBTablePrefix+"_bookings", &bookings)
	}

	if err != nil {
		r.logger.Errorf("Failed to get bookings: %v", err)
		return nil, err
	}

	filtered := r.applyAdditionalFilters(bookings, filter)

	r.logger.Infof("Found %d bookings", len(filtered))
	return filtered, nil
}

// GetActiveBookingsByAsset returns the asset's active bookings, the set the
// overlap check runs against.
func (r *BookingRepository) GetActiveBookingsByAsset(assetID string) ([]*models.Booking, error) {
	ctx := context.Background()

	if assetID == "" {
		return nil, errors.New("asset ID is required")
	}

	var bookings []*models.Booking
	err := r.db.QueryByIndex(ctx,
		r.config.DynamoDBTablePrefix+"_bookings",
		"assetID-index",
		"assetID", assetID,
		&bookings)
	if err != nil {
		r.logger.Errorf("Failed to get bookings for asset %s: %v", assetID, err)
		return nil, err
	}

	var active []*models.Booking
	for _, b := range bookings {
		if b.Status == models.BookingStatusActive {
			active = append(active, b)
		}
	}

	return active, nil
}

func (r *BookingRepository) UpdateBooking(id string, booking *models.Booking) (*models.Booking, error) {
	ctx := context.Background()

	if id == "" {
		return nil, errors.New("booking ID is required")
	}

	existing, err := r.GetBooking(id)
	if err != nil {
		return nil, err
	}

	booking.BookingID = id
	booking.CreatedAt = existing.CreatedAt
	booking.UpdatedAt = time.Now()

	err = r.db.PutItem(ctx, r.config.DynamoDBTablePrefix+"_bookings", booking)
	if err != nil {
		r.logger.Errorf("Failed to update booking: %v", err)
		return nil, err
	}

	r.logger.Infof("Booking updated successfully: %s", id)
	return booking, nil
}

func (r *BookingRepository) applyAdditionalFilters(bookings []*models.Booking, filter *models.BookingFilter) []*models.Booking {
	if filter == nil {
		return bookings
	}

	var filtered []*models.Booking
	for _, booking := range bookings {
		if filter.Status != "" && booking.Status != filter.Status {
			continue
		}

		// Date strings compare lexically in YYYY-MM-DD order.
		if filter.FromDate != "" && booking.StartDate < filter.FromDate {
			continue
		}
		if filter.ToDate != "" && booking.StartDate > filter.ToDate {
			continue
		}

		filtered = append(filtered, booking)
	}

	return filtered
}
