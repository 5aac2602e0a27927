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

type AssetRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewAssetRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *AssetRepository {
	return &AssetRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *AssetRepository) CreateAsset(ctx context.Context, asset *models.Asset) (*models.Asset, error) {
	r.logger.Infof("Creating asset: %s", asset.AssetNumber)

	var existing []*models.Asset
	err := r.db.QueryByIndex(ctx, r.config.DynamoDBTablePrefix+"_assets", "assetNumber-index", "assetNumber", asset.AssetNumber, &existing)
	if err == nil && len(existing) > 0 && existing[0].AssetID != "" {
		return nil, errors.New("asset with this asset number already exists")
	}

	if asset.Barcode != "" {
		existing = nil
		err = r.db.QueryByIndex(ctx, r.config.DynamoDBTablePrefix+"_assets", "barcode-index", "barcode", asset.Barcode, &existing)
		if err == nil && len(existing) > 0 && existing[0].AssetID != "" {
			return nil, errors.New("asset with this barcode already exists")
		}
	}

	now := time.Now()
	asset.AssetID = utils.GenerateUUID()
	asset.CreatedAt = now
	asset.UpdatedAt = now
	if asset.Status == "" {
		asset.Status = models.AssetStatusAvailable
	}

	err = r.db.PutItem(ctx, r.config.DynamoDBTablePrefix+"_assets", asset)
	if err != nil {
		r.logger.Errorf("Failed to create asset: %v", err)
		return nil, err
	}

	r.logger.Infof("Asset created successfully: %s", asset.AssetID)
	return asset, nil
}

// GetAsset resolves the key as a UUID (primary key) or an asset number
// (index lookup).
func (r *AssetRepository) GetAsset(key string) (*models.Asset, error) {
	ctx := context.Background()

	if key == "" {
		return nil, errors.New("asset key is required")
	}

	asset := models.Asset{}
	keyType, indexName, keyName := r.determineKeyType(key)

	var config models.QueryConfig

	if keyType == "id" {
		config = models.QueryConfig{
			TableName: r.config.DynamoDBTablePrefix + "_assets",
			KeyName:   "assetID",
			KeyValue:  key,
			KeyType:   models.StringType,
		}
	} else {
		config = models.QueryConfig{
			TableName: r.config.DynamoDBTablePrefix + "_assets",
			IndexName: indexName,
			KeyName:   keyName,
			KeyValue:  key,
			KeyType:   models.StringType,
		}
	}

	err := r.db.GetItem(ctx, config, &asset)
	if err != nil {
		r.logger.Errorf("Failed to get asset by %s: %v", keyName, err)
		return nil, fmt.Errorf("failed to get asset by %s: %w", keyName, err)
	}

	if asset.AssetID == "" {
		return nil, errors.New("asset not found")
	}

	return &asset, nil
}

func (r *AssetRepository) GetAssetByBarcode(barcode string) (*models.Asset, error) {
	ctx := context.Background()

	if barcode == "" {
		return nil, errors.New("barcode is required")
	}

	var assets []*models.Asset
	err := r.db.QueryByIndex(ctx, r.config.DynamoDBTablePrefix+"_assets", "barcode-index", "barcode", barcode, &assets)
	if err != nil {
		r.logger.Errorf("Failed to get asset by barcode: %v", err)
		return nil, fmt.Errorf("failed to get asset by barcode: %w", err)
	}

	if len(assets) == 0 || assets[0].AssetID == "" {
		return nil, errors.New("asset not found")
	}

	return assets[0], nil
}

func (r *AssetRepository) GetAssetsByFilter(filter *models.AssetFilter) ([]*models.Asset, error) {
	ctx := context.Background()

	var assets []*models.Asset
	var err error

	if filter != nil && filter.GroupID != "" {
		err = r.db.QueryByIndex(ctx,
			r.config.DynamoDBTablePrefix+"_assets",
			"groupID-index",
			"groupID", filter.GroupID,
			&assets)
	} else if filter != nil && filter.Status != "" {
		err = r.db.QueryByIndex(ctx,
			r.config.DynamoDBTablePrefix+"_assets",
			"status-index",
			"status", string(filter.Status),
			&assets)
	} else {
		err = r.db.ScanTable(ctx, r.config.DynamoDBTablePrefix+"_assets", &assets)
	}

	if err != nil {
		r.logger.Errorf("Failed to get assets: %v", err)
		return nil, err
	}

	filtered := r.applyAdditionalFilters(assets, filter)

	r.logger.Infof("Found %d assets", len(filtered))
	return filtered, nil
}

// UpdateAsset applies a partial update. Map keys are storage attribute names;
// explicit zero values are written, absent keys are left untouched.
func (r *AssetRepository) UpdateAsset(id string, updates map[string]interface{}) (*models.Asset, error) {
	ctx := context.Background()

	existing, err := r.GetAsset(id)
	if err != nil {
		return nil, err
	}

	updates["updatedAt"] = time.Now()

	err = r.db.UpdateItem(ctx, r.config.DynamoDBTablePrefix+"_assets", "assetID", existing.AssetID, updates)
	if err != nil {
		r.logger.Errorf("Failed to update asset: %v", err)
		return nil, err
	}

	r.logger.Infof("Asset updated successfully: %s", existing.AssetID)
	return r.GetAsset(existing.AssetID)
}

func (r *AssetRepository) DeleteAsset(id string) error {
	ctx := context.Background()

	existing, err := r.GetAsset(id)
	if err != nil {
		return err
	}

	err = r.db.DeleteItem(ctx, r.config.DynamoDBTablePrefix+"_assets", "assetID", existing.AssetID)
	if err != nil {
		r.logger.Errorf("Failed to delete asset: %v", err)
		return err
	}

	r.logger.Infof("Asset deleted successfully: %s", existing.AssetID)
	return nil
}

func (r *AssetRepository) determineKeyType(key string) (keyType, indexName, keyName string) {
	uuidPattern := `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`
	isUUID, _ := regexp.MatchString(uuidPattern, strings.ToLower(key))

	if isUUID {
		return "id", "", "assetID"
	}
	return "assetNumber", "assetNumber-index", "assetNumber"
}

func (r *AssetRepository) applyAdditionalFilters(assets []*models.Asset, filter *models.AssetFilter) []*models.Asset {
	if filter == nil {
		return assets
	}

	var filtered []*models.Asset
	for _, asset := range assets {
		if filter.Status != "" && asset.Status != filter.Status {
			continue
		}

		if filter.Location != "" && !strings.EqualFold(asset.Location, filter.Location) {
			continue
		}

		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(asset.Name), needle) &&
				!strings.Contains(strings.ToLower(asset.AssetNumber), needle) &&
				!strings.Contains(strings.ToLower(asset.Description), needle) {
				continue
			}
		}

		filtered = append(filtered, asset)
	}

	return filtered
}
