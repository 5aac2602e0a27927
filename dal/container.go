package dal

import (
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"
)

// DALContainer owns the database client and hands it to the repository layer.
type DALContainer struct {
	databaseClient DatabaseClientInterface
}

// NewDALContainer builds the container with a live DynamoDB client.
func NewDALContainer(cfg *models.Config, log logger.Logger) (*DALContainer, error) {
	client, err := NewDynamoDBClient(cfg, log)
	if err != nil {
		return nil, err
	}

	return &DALContainer{databaseClient: client}, nil
}

// GetDatabaseClient returns the shared database client.
func (c *DALContainer) GetDatabaseClient() DatabaseClientInterface {
	return c.databaseClient
}
