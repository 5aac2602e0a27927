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

type AssetService struct {
	assetRepo   repository.AssetRepositoryInterface
	groupRepo   repository.GroupRepositoryInterface
	bookingRepo repository.BookingRepositoryInterface
	logger      logger.Logger
}

func NewAssetService(assetRepo repository.AssetRepositoryInterface, groupRepo repository.GroupRepositoryInterface, bookingRepo repository.BookingRepositoryInterface, logger logger.Logger) *AssetService {
	return &AssetService{
		assetRepo:   assetRepo,
		groupRepo:   groupRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

func (s *AssetService) CreateAsset(ctx context.Context, req *models.CreateAssetRequest, createdBy string) (*models.Asset, error) {
	if err := s.validateCreateAsset(req); err != nil {
		return nil, err
	}

	if req.GroupID != "" {
		if _, err := s.groupRepo.GetGroup(req.GroupID); err != nil {
			return nil, errors.New("asset group not found")
		}
	}

	asset := &models.Asset{
		AssetNumber:   strings.TrimSpace(req.AssetNumber),
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		GroupID:       req.GroupID,
		Location:      req.Location,
		Barcode:       req.Barcode,
		Condition:     req.Condition,
		PurchasePrice: req.PurchasePrice,
		Status:        models.AssetStatusAvailable,
		CreatedBy:     createdBy,
	}

	if req.PurchaseDate != "" {
		purchased, err := time.Parse(maintenance.DateLayout, req.PurchaseDate)
		if err != nil {
			return nil, errors.New("purchase date must be formatted YYYY-MM-DD")
		}
		asset.PurchaseDate = &purchased
	}

	return s.assetRepo.CreateAsset(ctx, asset)
}

func (s *AssetService) validateCreateAsset(req *models.CreateAssetRequest) error {
	if req == nil {
		return errors.New("asset request is required")
	}

	if strings.TrimSpace(req.AssetNumber) == "" {
		return errors.New("asset number is required")
	}

	if strings.TrimSpace(req.Name) == "" {
		return errors.New("asset name is required")
	}

	if len(req.Name) < 2 || len(req.Name) > 200 {
		return errors.New("asset name must be between 2 and 200 characters")
	}

	if req.PurchasePrice.IsNegative() {
		return errors.New("purchase price cannot be negative")
	}

	return nil
}

func (s *AssetService) GetAssets(filter *models.AssetFilter) ([]*models.Asset, error) {
	if filter == nil {
		filter = &models.AssetFilter{}
	}
	return s.assetRepo.GetAssetsByFilter(filter)
}

func (s *AssetService) GetAssetByKey(key string) (*models.Asset, error) {
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("asset key is required")
	}
	return s.assetRepo.GetAsset(key)
}

// GetAssetByScanCode resolves whichever identifier a scanner produced, asset
// number first, barcode second.
func (s *AssetService) GetAssetByScanCode(assetNumber, barcode string) (*models.Asset, error) {
	if assetNumber != "" {
		return s.assetRepo.GetAsset(assetNumber)
	}
	if barcode != "" {
		return s.assetRepo.GetAssetByBarcode(barcode)
	}
	return nil, errors.New("asset number or barcode is required")
}

func (s *AssetService) UpdateAsset(id string, req *models.UpdateAssetRequest, updatedBy string) (*models.Asset, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("asset ID is required")
	}
	if req == nil {
		return nil, errors.New("update request is required")
	}

	updates := map[string]interface{}{
		"updatedBy": updatedBy,
	}

	if req.Name != "" {
		if len(req.Name) < 2 || len(req.Name) > 200 {
			return nil, errors.New("asset name must be between 2 and 200 characters")
		}
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.GroupID != nil {
		if *req.GroupID != "" {
			if _, err := s.groupRepo.GetGroup(*req.GroupID); err != nil {
				return nil, errors.New("asset group not found")
			}
		}
		updates["groupID"] = *req.GroupID
	}
	if req.Location != "" {
		updates["location"] = req.Location
	}
	if req.Barcode != "" {
		updates["barcode"] = req.Barcode
	}
	if req.Status != "" {
		updates["status"] = string(req.Status)
	}
	if req.Condition != "" {
		updates["condition"] = string(req.Condition)
	}

	return s.assetRepo.UpdateAsset(id, updates)
}

// RetireAsset takes an asset out of circulation without touching its history.
func (s *AssetService) RetireAsset(id string, updatedBy string) (*models.Asset, error) {
	existing, err := s.GetAssetByKey(id)
	if err != nil {
		return nil, err
	}

	if existing.Status == models.AssetStatusRetired {
		return nil, errors.New("asset is already retired")
	}
	if existing.Status == models.AssetStatusCheckedOut {
		return nil, errors.New("checked-out asset cannot be retired")
	}

	return s.assetRepo.UpdateAsset(existing.AssetID, map[string]interface{}{
		"status":    string(models.AssetStatusRetired),
		"retiredAt": time.Now(),
		"updatedBy": updatedBy,
	})
}

// DeleteAsset removes an asset that was never booked. Anything with booking
// history must be retired instead so reports stay reconstructible.
func (s *AssetService) DeleteAsset(id string) error {
	existing, err := s.GetAssetByKey(id)
	if err != nil {
		return err
	}

	bookings, err := s.bookingRepo.GetBookingsByFilter(&models.BookingFilter{AssetID: existing.AssetID})
	if err != nil {
		return err
	}
	if len(bookings) > 0 {
		return errors.New("asset has booking history and can only be retired")
	}

	return s.assetRepo.DeleteAsset(existing.AssetID)
}

func (s *AssetService) CreateGroup(ctx context.Context, req *models.CreateAssetGroupRequest, createdBy string) (*models.AssetGroup, error) {
	if req == nil {
		return nil, errors.New("group request is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.New("group name is required")
	}

	group := &models.AssetGroup{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		CreatedBy:   createdBy,
	}

	return s.groupRepo.CreateGroup(ctx, group)
}

func (s *AssetService) GetGroups() ([]*models.AssetGroup, error) {
	return s.groupRepo.GetGroups()
}

func (s *AssetService) GetGroupByID(id string) (*models.AssetGroup, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("group ID is required")
	}
	return s.groupRepo.GetGroup(id)
}

func (s *AssetService) UpdateGroup(id string, req *models.CreateAssetGroupRequest) (*models.AssetGroup, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("group ID is required")
	}
	if req == nil {
		return nil, errors.New("update request is required")
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}

	return s.groupRepo.UpdateGroup(id, updates)
}

// DeleteGroup refuses while assets are still assigned to the group.
func (s *AssetService) DeleteGroup(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("group ID is required")
	}

	assets, err := s.assetRepo.GetAssetsByFilter(&models.AssetFilter{GroupID: id})
	if err != nil {
		return err
	}
	if len(assets) > 0 {
		return errors.New("group still has assets assigned")
	}

	return s.groupRepo.DeleteGroup(id)
}
