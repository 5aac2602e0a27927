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

type StockTakeService struct {
	stockTakeRepo repository.StockTakeRepositoryInterface
	assetRepo     repository.AssetRepositoryInterface
	logger        logger.Logger
}

func NewStockTakeService(stockTakeRepo repository.StockTakeRepositoryInterface, assetRepo repository.AssetRepositoryInterface, log logger.Logger) *StockTakeService {
	return &StockTakeService{
		stockTakeRepo: stockTakeRepo,
		assetRepo:     assetRepo,
		logger:        log,
	}
}

// CreateSession opens a counting session. The expected set is seeded from the
// current inventory matching the location and group filters; retired assets
// are not expected anywhere.
func (s *StockTakeService) CreateSession(ctx context.Context, req *models.CreateStockTakeRequest, startedBy string) (*models.StockTakeSession, error) {
	if req == nil {
		return nil, errors.New("stock take request is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.New("session name is required")
	}

	assets, err := s.assetRepo.GetAssetsByFilter(&models.AssetFilter{
		GroupID:  req.GroupID,
		Location: req.Location,
	})
	if err != nil {
		return nil, err
	}

	expected := []string{}
	for _, a := range assets {
		if a.Status == models.AssetStatusRetired {
			continue
		}
		expected = append(expected, a.AssetID)
	}

	session := &models.StockTakeSession{
		Name:             strings.TrimSpace(req.Name),
		Location:         req.Location,
		GroupID:          req.GroupID,
		ExpectedAssetIDs: expected,
		ScannedAssetIDs:  []string{},
		StartedBy:        startedBy,
	}

	return s.stockTakeRepo.CreateSession(ctx, session)
}

func (s *StockTakeService) GetSession(id string) (*models.StockTakeSession, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("session ID is required")
	}
	return s.stockTakeRepo.GetSession(id)
}

func (s *StockTakeService) GetSessions(status models.StockTakeStatus) ([]*models.StockTakeSession, error) {
	return s.stockTakeRepo.GetSessionsByStatus(status)
}

// Scan registers one scanned asset. Scanning the same asset twice is a no-op;
// assets outside the expected set are recorded anyway and surface as
// unexpected in the summary.
func (s *StockTakeService) Scan(id string, req *models.ScanRequest) (*models.StockTakeSession, error) {
	session, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}

	if session.Status != models.StockTakeStatusOpen {
		return nil, errors.New("stock take session is closed")
	}

	if req == nil || (req.AssetNumber == "" && req.Barcode == "") {
		return nil, errors.New("asset number or barcode is required")
	}

	var asset *models.Asset
	if req.AssetNumber != "" {
		asset, err = s.assetRepo.GetAsset(req.AssetNumber)
	} else {
		asset, err = s.assetRepo.GetAssetByBarcode(req.Barcode)
	}
	if err != nil {
		return nil, err
	}

	for _, scanned := range session.ScannedAssetIDs {
		if scanned == asset.AssetID {
			return session, nil
		}
	}

	updated := *session
	updated.ScannedAssetIDs = append(append([]string{}, session.ScannedAssetIDs...), asset.AssetID)

	return s.stockTakeRepo.UpdateSession(id, &updated)
}

func (s *StockTakeService) CompleteSession(id string) (*models.StockTakeSession, error) {
	session, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}

	if session.Status != models.StockTakeStatusOpen {
		return nil, errors.New("stock take session is already completed")
	}

	now := time.Now()
	updated := *session
	updated.Status = models.StockTakeStatusCompleted
	updated.CompletedAt = &now

	return s.stockTakeRepo.UpdateSession(id, &updated)
}

func (s *StockTakeService) GetSummary(id string) (*models.StockTakeSummaryData, error) {
	session, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}

	summary := maintenance.CalculateStockTakeSummary(*session)
	return &summary, nil
}
