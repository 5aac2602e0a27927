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

// RecordRepository persists maintenance records. The type deliberately has no
// update or delete methods; the maintenance log is append-only.
type RecordRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewRecordRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *RecordRepository {
	return &RecordRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *RecordRepository) CreateRecord(ctx context.Context, record *models.MaintenanceRecord) (*models.MaintenanceRecord, error) {
	r.logger.Infof("Creating maintenance record for asset: %s", record.AssetID)

	record.RecordID = utils.GenerateUUID()
	record.CreatedAt = time.Now()

	err := r.db.PutItem(ctx, r.config.DynamoDBTablePrefix+"_maintenance_records", record)
	if err != nil {
		r.logger.Errorf("Failed to create maintenance record: %v", err)
		return nil, err
	}

	r.logger.Infof("Maintenance record created successfully: %s", record.RecordID)
	return record, nil
}

func (r *RecordRepository) GetRecord(id string) (*models.MaintenanceRecord, error) {
	ctx := context.Background()

	if id == "" {
		return nil, errors.New("record ID is required")
	}

	record := models.MaintenanceRecord{}
	config := models.QueryConfig{
		TableName: r.config.DynamoDBTablePrefix + "_maintenance_records",
		KeyName:   "recordID",
		KeyValue:  id,
		KeyType:   models.StringType,
	}

	err := r.db.GetItem(ctx, config, &record)
	if err != nil {
		r.logger.Errorf("Failed to get maintenance record: %v", err)
		return nil, fmt.Errorf("failed to get maintenance record: %w", err)
	}

	if record.RecordID == "" {
		return nil, errors.New("maintenance record not found")
	}

	return &record, nil
}

func (r *RecordRepository) GetRecordsByFilter(filter *models.MaintenanceRecordFilter) ([]*models.MaintenanceRecord, error) {
	ctx := context.Background()

	var records []*models.MaintenanceRecord
	var err error

	if filter != nil && filter.AssetID != "" {
		err = r.db.QueryByIndex(ctx,
			r.config.DynamoDBTablePrefix+"_maintenance_records",
			"assetID-index",
			"assetID", filter.AssetID,
			&records)
	} else {
		err = r.db.ScanTable(ctx, r.config.DynamoDBTablePrefix+"_maintenance_records", &records)
	}

	if err != nil {
		r.logger.Errorf("Failed to get maintenance records: %v", err)
		return nil, err
	}

	filtered := r.applyAdditionalFilters(records, filter)

	r.logger.Infof("Found %d maintenance records", len(filtered))
	return filtered, nil
}

func (r *RecordRepository) applyAdditionalFilters(records []*models.MaintenanceRecord, filter *models.MaintenanceRecordFilter) []*models.MaintenanceRecord {
	if filter == nil {
		return records
	}

	var filtered []*models.MaintenanceRecord
	for _, record := range records {
		if !filter.FromDate.IsZero() && record.Date.Before(filter.FromDate) {
			continue
		}
		if !filter.ToDate.IsZero() && record.Date.After(filter.ToDate) {
			continue
		}

		filtered = append(filtered, record)
	}

	return filtered
}
