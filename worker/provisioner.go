package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/dal"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/infrastructure"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"
)

// Provisioner creates the application's DynamoDB tables from the embedded
// schema before the first sweep runs.
type Provisioner struct {
	models.TableProvisioner
}

// NewProvisioner creates a new table provisioner
func NewProvisioner(cfg *models.Config, log logger.Logger) (*Provisioner, error) {
	dbClient, err := dal.NewDynamoDBClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}

	return &Provisioner{
		TableProvisioner: models.TableProvisioner{
			Config:   cfg,
			Logger:   log,
			DBClient: dbClient,
		},
	}, nil
}

// ToModelsProvisioner returns the embedded models.TableProvisioner
func (p *Provisioner) ToModelsProvisioner() *models.TableProvisioner {
	return &p.TableProvisioner
}

// Execute provisions every configured table: create, wait for ACTIVE,
// validate the index layout against the embedded schema.
func (p *Provisioner) Execute(ctx context.Context, statusManager *StatusManager) error {
	p.Logger.Info("Starting table provisioning...")

	if err := statusManager.UpdateProgress(models.StatusCreatingTables, "Creating DynamoDB tables", nil); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	// Create tables sequentially to avoid throttling
	for _, baseName := range p.Config.Tables {
		tableName := p.Config.DynamoDBTablePrefix + "_" + baseName
		if err := p.createTableWithRetry(ctx, baseName, tableName); err != nil {
			p.Logger.Errorf("Failed to create table %s: %v", tableName, err)
			return err
		}
	}

	if err := statusManager.UpdateProgress(models.StatusWaitingForTables, "Waiting for DynamoDB tables to become active", nil); err != nil {
		p.Logger.Errorf("Failed to update status: %v", err)
	}
	if err := p.waitForTablesActive(ctx); err != nil {
		return err
	}

	if err := statusManager.UpdateProgress(models.StatusValidating, "Validating provisioned tables", nil); err != nil {
		p.Logger.Errorf("Failed to update status: %v", err)
	}
	if err := p.validateTables(ctx, statusManager); err != nil {
		return err
	}

	p.Logger.Info("Table provisioning completed, all tables are active")
	return nil
}

// createTableWithRetry creates a table with retry logic
func (p *Provisioner) createTableWithRetry(ctx context.Context, baseName, tableName string) error {
	maxRetries := 3
	baseDelay := 5 * time.Second

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * baseDelay
			p.Logger.Infof("Retrying table creation for %s in %v (attempt %d/%d)", tableName, delay, attempt+1, maxRetries+1)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if exists, err := p.tableExists(ctx, tableName); err != nil {
			p.Logger.Errorf("Failed to check if table exists: %v", err)
			continue
		} else if exists {
			p.Logger.Infof("Table %s already exists, skipping creation", tableName)
			return nil
		}

		input, err := infrastructure.GetTables(baseName, tableName)
		if err != nil {
			return fmt.Errorf("failed to load table schema: %w", err)
		}

		if err := p.DBClient.CreateTable(ctx, input); err != nil {
			p.Logger.Errorf("Attempt %d failed to create table %s: %v", attempt+1, tableName, err)

			if attempt == maxRetries {
				return fmt.Errorf("failed to create table %s after %d attempts: %w", tableName, maxRetries+1, err)
			}
			continue
		}

		p.Logger.Infof("Table %s created", tableName)
		return nil
	}

	return fmt.Errorf("exhausted all retry attempts for table %s", tableName)
}

// waitForTablesActive polls until every configured table reports ACTIVE
func (p *Provisioner) waitForTablesActive(ctx context.Context) error {
	timeout := 5 * time.Minute
	checkInterval := 5 * time.Second

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	for {
		pending := p.pendingTables(timeoutCtx)
		if len(pending) == 0 {
			return nil
		}

		select {
		case <-timeoutCtx.Done():
			return fmt.Errorf("timeout waiting for tables to become active: %s", strings.Join(pending, ", "))
		case <-ticker.C:
		}
	}
}

// pendingTables returns the configured tables that are not ACTIVE yet
func (p *Provisioner) pendingTables(ctx context.Context) []string {
	var pending []string
	for _, baseName := range p.Config.Tables {
		tableName := p.Config.DynamoDBTablePrefix + "_" + baseName

		desc, err := p.DBClient.DescribeTable(ctx, tableName)
		if err != nil {
			p.Logger.Debugf("Table %s not describable yet: %v", tableName, err)
			pending = append(pending, tableName)
			continue
		}
		if desc.Table.TableStatus != types.TableStatusActive {
			pending = append(pending, tableName)
		}
	}
	return pending
}

// validateTables verifies the index layout of each table against the
// embedded schema and records the provisioning outcome in the state file.
func (p *Provisioner) validateTables(ctx context.Context, statusManager *StatusManager) error {
	for _, baseName := range p.Config.Tables {
		tableName := p.Config.DynamoDBTablePrefix + "_" + baseName

		input, err := infrastructure.GetTables(baseName, tableName)
		if err != nil {
			return fmt.Errorf("failed to load table schema: %w", err)
		}

		desc, err := p.DBClient.DescribeTable(ctx, tableName)
		if err != nil {
			return fmt.Errorf("table %s validation failed: %w", tableName, err)
		}

		expectedIndexes := len(input.GlobalSecondaryIndexes)
		actualIndexes := len(desc.Table.GlobalSecondaryIndexes)
		if actualIndexes != expectedIndexes {
			return fmt.Errorf("table %s has %d indexes, expected %d", tableName, actualIndexes, expectedIndexes)
		}

		statusManager.AddTableCreated(p.describeTableStatus(tableName, desc))
		p.Logger.Infof("Table %s validation passed (%d indexes)", tableName, actualIndexes)
	}

	return nil
}

func (p *Provisioner) describeTableStatus(tableName string, desc *dynamodb.DescribeTableOutput) models.TableStatus {
	status := models.TableStatus{
		Name:       tableName,
		Status:     string(desc.Table.TableStatus),
		CreatedAt:  time.Now(),
		IndexCount: len(desc.Table.GlobalSecondaryIndexes),
	}

	if desc.Table.CreationDateTime != nil {
		status.CreatedAt = *desc.Table.CreationDateTime
		status.BecameActiveAt = desc.Table.CreationDateTime
	}
	if desc.Table.BillingModeSummary != nil {
		status.BillingMode = string(desc.Table.BillingModeSummary.BillingMode)
	}
	for _, gsi := range desc.Table.GlobalSecondaryIndexes {
		indexStatus := models.IndexStatus{
			Status:    string(gsi.IndexStatus),
			CreatedAt: status.CreatedAt,
		}
		if gsi.IndexName != nil {
			indexStatus.Name = *gsi.IndexName
		}
		status.Indexes = append(status.Indexes, indexStatus)
	}

	return status
}

// tableExists checks if a table already exists
func (p *Provisioner) tableExists(ctx context.Context, tableName string) (bool, error) {
	_, err := p.DBClient.DescribeTable(ctx, tableName)
	if err != nil {
		if isTableNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// isTableNotFoundError checks if error indicates table not found
func isTableNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ResourceNotFoundException"
	}

	errorStr := err.Error()
	return strings.Contains(errorStr, "ResourceNotFoundException") ||
		strings.Contains(errorStr, "Table not found") ||
		strings.Contains(errorStr, "Requested resource not found")
}
