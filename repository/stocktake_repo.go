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

type StockTakeRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewStockTakeRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *StockTakeRepository {
	return &StockTakeRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *StockTakeRepository) CreateSession(ctx context.Context, session *models.StockTakeSession) (*models.StockTakeSession, error) {
	r.logger.Infof("Creating stock take session: %s", session.Name)

	session.SessionID = utils.GenerateUUID()
	session.StartedAt = time.Now()
	session.Status = models.StockTakeStatusOpen
	if session.ExpectedAssetIDs == nil {
		session.ExpectedAssetIDs = []string{}
	}
	if session.ScannedAssetIDs == nil {
		session.ScannedAssetIDs = []string{}
	}

	err := r.db.PutItem(ctx, r.config.DynamoDBTablePrefix+"_stock_takes", session)
	if err != nil {
		r.logger.Errorf("Failed to create stock take session: %v", err)
		return nil, err
	}

	r.logger.Infof("Stock take session created successfully: %s", session.SessionID)
	return session, nil
}

func (r *StockTakeRepository) GetSession(id string) (*models.StockTakeSession, error) {
	ctx := context.Background()

	if id == "" {
		return nil, errors.New("session ID is required")
	}

	session := models.StockTakeSession{}
	config := models.QueryConfig{
		TableName: r.config.DynamoDBTablePrefix + "_stock_takes",
		KeyName:   "sessionID",
		KeyValue:  id,
		KeyType:   models.StringType,
	}

	err := r.db.GetItem(ctx, config, &session)
	if err != nil {
		r.logger.Errorf("Failed to get stock take session: %v", err)
		return nil, fmt.Errorf("failed to get stock take session: %w", err)
	}

	if session.SessionID == "" {
		return nil, errors.New("stock take session not found")
	}

	return &session, nil
}

func (r *StockTakeRepository) GetSessionsByStatus(status models.StockTakeStatus) ([]*models.StockTakeSession, error) {
	ctx := context.Background()

	var sessions []*models.StockTakeSession

	if status == "" {
		err := r.db.ScanTable(ctx, r.config.DynamoDBTablePrefix+"_stock_takes", &sessions)
		if err != nil {
			r.logger.Errorf("Failed to scan stock take sessions: %v", err)
			return nil, err
		}
		return sessions, nil
	}

	err := r.db.QueryByIndex(ctx,
		r.config.DynamoDBTablePrefix+"_stock_takes",
		"status-index",
		"status", string(status),
		&sessions)
	if err != nil {
		r.logger.Errorf("Failed to get stock take sessions by status: %v", err)
		return nil, err
	}

	return sessions, nil
}

func (r *StockTakeRepository) UpdateSession(id string, session *models.StockTakeSession) (*models.StockTakeSession, error) {
	ctx := context.Background()

	if id == "" {
		return nil, errors.New("session ID is required")
	}

	existing, err := r.GetSession(id)
	if err != nil {
		return nil, err
	}

	session.SessionID = id
	session.StartedAt = existing.StartedAt
	session.StartedBy = existing.StartedBy

	err = r.db.PutItem(ctx, r.config.DynamoDBTablePrefix+"_stock_takes", session)
	if err != nil {
		r.logger.Errorf("Failed to update stock take session: %v", err)
		return nil, err
	}

	r.logger.Infof("Stock take session updated successfully: %s", id)
	return session, nil
}
