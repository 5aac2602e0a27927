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

type GroupRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewGroupRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *GroupRepository {
	return &GroupRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *GroupRepository) CreateGroup(ctx context.Context, group *models.AssetGroup) (*models.AssetGroup, error) {
	r.logger.Infof("Creating asset group: %s", group.Name)

	now := time.Now()
	group.GroupID = utils.GenerateUUID()
	group.CreatedAt = now
	group.UpdatedAt = now

	err := r.db.PutItem(ctx, r.config.DynamoDBTablePrefix+"_asset_groups", group)
	if err != nil {
		r.logger.Errorf("Failed to create asset group: %v", err)
		return nil, err
	}

	r.logger.Infof("Asset group created successfully: %s", group.GroupID)
	return group, nil
}

func (r *GroupRepository) GetGroup(id string) (*models.AssetGroup, error) {
	ctx := context.Background()

	if id == "" {
		return nil, errors.New("group ID is required")
	}

	group := models.AssetGroup{}
	config := models.QueryConfig{
		TableName: r.config.DynamoDBTablePrefix + "_asset_groups",
		KeyName:   "groupID",
		KeyValue:  id,
		KeyType:   models.StringType,
	}

	err := r.db.GetItem(ctx, config, &group)
	if err != nil {
		r.logger.Errorf("Failed to get asset group: %v", err)
		return nil, fmt.Errorf("failed to get asset group: %w", err)
	}

	if group.GroupID == "" {
		return nil, errors.New("asset group not found")
	}

	return &group, nil
}

func (r *GroupRepository) GetGroups() ([]*models.AssetGroup, error) {
	ctx := context.Background()

	var groups []*models.AssetGroup
	err := r.db.ScanTable(ctx, r.config.DynamoDBTablePrefix+"_asset_groups", &groups)
	if err != nil {
		r.logger.Errorf("Failed to scan asset groups: %v", err)
		return nil, err
	}

	return groups, nil
}

func (r *GroupRepository) UpdateGroup(id string, updates map[string]interface{}) (*models.AssetGroup, error) {
	ctx := context.Background()

	existing, err := r.GetGroup(id)
	if err != nil {
		return nil, err
	}

	updates["updatedAt"] = time.Now()

	err = r.db.UpdateItem(ctx, r.config.DynamoDBTablePrefix+"_asset_groups", "groupID", existing.GroupID, updates)
	if err != nil {
		r.logger.Errorf("Failed to update asset group: %v", err)
		return nil, err
	}

	r.logger.Infof("Asset group updated successfully: %s", existing.GroupID)
	return r.GetGroup(existing.GroupID)
}

func (r *GroupRepository) DeleteGroup(id string) error {
	ctx := context.Background()

	existing, err := r.GetGroup(id)
	if err != nil {
		return err
	}

	err = r.db.DeleteItem(ctx, r.config.DynamoDBTablePrefix+"_asset_groups", "groupID", existing.GroupID)
	if err != nil {
		r.logger.Errorf("Failed to delete asset group: %v", err)
		return err
	}

	r.logger.Infof("Asset group deleted successfully: %s", existing.GroupID)
	return nil
}
