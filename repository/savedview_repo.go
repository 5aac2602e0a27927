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

type SavedViewRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewSavedViewRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *SavedViewRepository {
	return &SavedViewRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *SavedViewRepository) CreateView(ctx context.Context, view *models.SavedView) (*models.SavedView, error) {
	r.logger.Infof("Creating saved view %q for user: %s", view.Name, view.UserID)

	now := time.Now()
	view.ViewID = utils.GenerateUUID()
	view.CreatedAt = now
	view.UpdatedAt = now

	err := r.db.PutItem(ctx, r.config.DynamoDBTablePrefix+"_saved_views", view)
	if err != nil {
		r.logger.Errorf("Failed to create saved view: %v", err)
		return nil, err
	}

	r.logger.Infof("Saved view created successfully: %s", view.ViewID)
	return view, nil
}

func (r *SavedViewRepository) GetView(id string) (*models.SavedView, error) {
	ctx := context.Background()

	if id == "" {
		return nil, errors.New("view ID is required")
	}

	view := models.SavedView{}
	config := models.QueryConfig{
		TableName: r.config.DynamoDBTablePrefix + "_saved_views",
		KeyName:   "viewID",
		KeyValue:  id,
		KeyType:   models.StringType,
	}

	err := r.db.GetItem(ctx, config, &view)
	if err != nil {
		r.logger.Errorf("Failed to get saved view: %v", err)
		return nil, fmt.Errorf("failed to get saved view: %w", err)
	}

	if view.ViewID == "" {
		return nil, errors.New("saved view not found")
	}

	return &view, nil
}

func (r *SavedViewRepository) GetViewsByUser(userID string) ([]*models.SavedView, error) {
	ctx := context.Background()

	if userID == "" {
		return nil, errors.New("user ID is required")
	}

	var views []*models.SavedView
	err := r.db.QueryByIndex(ctx,
		r.config.DynamoDBTablePrefix+"_saved_views",
		"userID-index",
		"userID", userID,
		&views)
	if err != nil {
		r.logger.Errorf("Failed to get saved views for user %s: %v", userID, err)
		return nil, err
	}

	return views, nil
}

func (r *SavedViewRepository) GetSharedViews() ([]*models.SavedView, error) {
	ctx := context.Background()

	var views []*models.SavedView
	err := r.db.ScanTable(ctx, r.config.DynamoDBTablePrefix+"_saved_views", &views)
	if err != nil {
		r.logger.Errorf("Failed to scan saved views: %v", err)
		return nil, err
	}

	var shared []*models.SavedView
	for _, v := range views {
		if v.Shared {
			shared = append(shared, v)
		}
	}

	return shared, nil
}

func (r *SavedViewRepository) UpdateView(id string, view *models.SavedView) (*models.SavedView, error) {
	ctx := context.Background()

	if id == "" {
		return nil, errors.New("view ID is required")
	}

	existing, err := r.GetView(id)
	if err != nil {
		return nil, err
	}

	view.ViewID = id
	view.UserID = existing.UserID
	view.CreatedAt = existing.CreatedAt
	view.UpdatedAt = time.Now()

	err = r.db.PutItem(ctx, r.config.DynamoDBTablePrefix+"_saved_views", view)
	if err != nil {
		r.logger.Errorf("Failed to update saved view: %v", err)
		return nil, err
	}

	r.logger.Infof("Saved view updated successfully: %s", id)
	return view, nil
}

func (r *SavedViewRepository) DeleteView(id string) error {
	ctx := context.Background()

	existing, err := r.GetView(id)
	if err != nil {
		return err
	}

	err = r.db.DeleteItem(ctx, r.config.DynamoDBTablePrefix+"_saved_views", "viewID", existing.ViewID)
	if err != nil {
		r.logger.Errorf("Failed to delete saved view: %v", err)
		return err
	}

	r.logger.Infof("Saved view deleted successfully: %s", existing.ViewID)
	return nil
}
