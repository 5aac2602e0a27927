package dal

import (
	"context"
	"fmt"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type DynamoDBClient struct {
	client *dynamodb.Client
	config *models.Config
	logger logger.Logger
}

// NewDynamoDBClient creates a new DynamoDB client
func NewDynamoDBClient(cfg *models.Config, log logger.Logger) (*DynamoDBClient, error) {
	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Override endpoint for local DynamoDB
	if cfg.DynamoDBEndpoint != "" {
		awsCfg.EndpointResolver = aws.EndpointResolverFunc(func(service, region string) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:           cfg.DynamoDBEndpoint,
				SigningRegion: cfg.AWSRegion,
			}, nil
		})
	}

	// Use static credentials if provided
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		awsCfg.Credentials = aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"", // session token
		))
	}

	client := dynamodb.NewFromConfig(awsCfg)

	dbClient := &DynamoDBClient{
		client: client,
		config: cfg,
		logger: log,
	}

	log.Info("✅ DynamoDB client initialized successfully")
	return dbClient, nil
}

func keyAttributeValue(keyType models.AttributeType, value string) types.AttributeValue {
	switch keyType {
	case models.NumberType:
		return &types.AttributeValueMemberN{Value: value}
	case models.BinaryType:
		return &types.AttributeValueMemberB{Value: []byte(value)}
	default:
		return &types.AttributeValueMemberS{Value: value}
	}
}

// queryPages runs a key-condition query and follows LastEvaluatedKey until
// the result set is complete or cfg.Limit items have been collected. A GSI
// query response is capped at 1MB per page, so stopping after the first page
// would silently drop items on busy tables.
func (db *DynamoDBClient) queryPages(ctx context.Context, cfg models.QueryConfig) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(cfg.TableName),
		KeyConditionExpression: aws.String("#kn0 = :kv0"),
		ExpressionAttributeNames: map[string]string{
			"#kn0": cfg.KeyName,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":kv0": keyAttributeValue(cfg.KeyType, cfg.KeyValue),
		},
	}
	if cfg.IndexName != "" {
		input.IndexName = aws.String(cfg.IndexName)
	}
	if cfg.Limit > 0 {
		input.Limit = aws.Int32(cfg.Limit)
	}

	var items []map[string]types.AttributeValue
	for {
		output, err := db.client.Query(ctx, input)
		if err != nil {
			return nil, err
		}
		items = append(items, output.Items...)

		if cfg.Limit > 0 && int32(len(items)) >= cfg.Limit {
			return items[:cfg.Limit], nil
		}
		if output.LastEvaluatedKey == nil {
			return items, nil
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}
}

// GetItem retrieves a single item. Primary key lookups go through GetItem;
// when cfg.IndexName is set the lookup runs as a limit-1 query on that index.
func (db *DynamoDBClient) GetItem(ctx context.Context, cfg models.QueryConfig, result interface{}) error {
	if cfg.IndexName != "" {
		lookup := cfg
		lookup.Limit = 1

		items, err := db.queryPages(ctx, lookup)
		if err != nil {
			db.logger.Errorf("Failed to query item by index: %v", err)
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return attributevalue.UnmarshalMap(items[0], result)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(cfg.TableName),
		Key: map[string]types.AttributeValue{
			cfg.KeyName: keyAttributeValue(cfg.KeyType, cfg.KeyValue),
		},
	}

	output, err := db.client.GetItem(ctx, input)
	if err != nil {
		db.logger.Errorf("Failed to get item: %v", err)
		return err
	}

	if output.Item == nil {
		return nil
	}

	return attributevalue.UnmarshalMap(output.Item, result)
}

// PutItem stores an item in DynamoDB
func (db *DynamoDBClient) PutItem(ctx context.Context, tableName string, item interface{}) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(tableName),
		Item:      av,
	}

	_, err = db.client.PutItem(ctx, input)
	return err
}

// UpdateItem applies a partial update. Attribute names are aliased through
// ExpressionAttributeNames so fields like "status" or "state" that collide
// with DynamoDB reserved words stay usable.
func (db *DynamoDBClient) UpdateItem(ctx context.Context, tableName, key, keyValue string, updates map[string]interface{}) error {
	updateExpression := "SET "
	expressionAttributeNames := make(map[string]string)
	expressionAttributeValues := make(map[string]types.AttributeValue)

	i := 0
	for field, value := range updates {
		if i > 0 {
			updateExpression += ", "
		}

		attrName := "#" + field
		attrValue := ":" + field

		updateExpression += attrName + " = " + attrValue
		expressionAttributeNames[attrName] = field

		av, err := attributevalue.Marshal(value)
		if err != nil {
			return err
		}
		expressionAttributeValues[attrValue] = av
		i++
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(tableName),
		Key: map[string]types.AttributeValue{
			key: keyAttributeValue(models.StringType, keyValue),
		},
		UpdateExpression:          aws.String(updateExpression),
		ExpressionAttributeNames:  expressionAttributeNames,
		ExpressionAttributeValues: expressionAttributeValues,
		ReturnValues:              types.ReturnValueAllNew,
	}

	_, err := db.client.UpdateItem(ctx, input)
	return err
}

// DeleteItem deletes an item from DynamoDB
func (db *DynamoDBClient) DeleteItem(ctx context.Context, tableName, key, value string) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(tableName),
		Key: map[string]types.AttributeValue{
			key: keyAttributeValue(models.StringType, value),
		},
	}

	_, err := db.client.DeleteItem(ctx, input)
	return err
}

// QueryByIndex queries items using a global secondary index
func (db *DynamoDBClient) QueryByIndex(ctx context.Context, tableName, indexName, keyName, keyValue string, results interface{}) error {
	items, err := db.queryPages(ctx, models.QueryConfig{
		TableName: tableName,
		IndexName: indexName,
		KeyName:   keyName,
		KeyValue:  keyValue,
		KeyType:   models.StringType,
	})
	if err != nil {
		return err
	}

	return attributevalue.UnmarshalListOfMaps(items, results)
}

// Scan scans the entire table, following pagination until the table is
// exhausted. Report aggregation reads whole tables, so partial pages would
// silently skew the numbers.
func (db *DynamoDBClient) Scan(ctx context.Context, tableName string, results interface{}) error {
	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue

	for {
		input := &dynamodb.ScanInput{
			TableName:         aws.String(tableName),
			ExclusiveStartKey: startKey,
		}

		output, err := db.client.Scan(ctx, input)
		if err != nil {
			return err
		}

		items = append(items, output.Items...)
		if output.LastEvaluatedKey == nil {
			break
		}
		startKey = output.LastEvaluatedKey
	}

	return attributevalue.UnmarshalListOfMaps(items, results)
}

// CreateTable creates a table
func (db *DynamoDBClient) CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error {
	_, err := db.client.CreateTable(ctx, input)
	return err
}

// DescribeTable describes a table
func (db *DynamoDBClient) DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error) {
	input := &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	}
	return db.client.DescribeTable(ctx, input)
}

// DeleteTable deletes a table
func (db *DynamoDBClient) DeleteTable(ctx context.Context, input *dynamodb.DeleteTableInput) error {
	_, err := db.client.DeleteTable(ctx, input)
	return err
}

// ScanTable scans a table (alias for Scan)
func (db *DynamoDBClient) ScanTable(ctx context.Context, tableName string, results interface{}) error {
	return db.Scan(ctx, tableName, results)
}
