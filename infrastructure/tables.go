package infrastructure

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/tidwall/gjson"
)

// TableSchema mirrors the shape of one entry in table_schema.json.
type TableSchema struct {
	TableName              string                 `json:"TableName"`
	AttributeDefinitions   []AttributeDefinition  `json:"AttributeDefinitions"`
	KeySchema              []KeySchemaElement     `json:"KeySchema"`
	ProvisionedThroughput  Throughput             `json:"ProvisionedThroughput"`
	GlobalSecondaryIndexes []GlobalSecondaryIndex `json:"GlobalSecondaryIndexes,omitempty"`
}

type AttributeDefinition struct {
	AttributeName string `json:"AttributeName"`
	AttributeType string `json:"AttributeType"`
}

type KeySchemaElement struct {
	AttributeName string `json:"AttributeName"`
	KeyType       string `json:"KeyType"`
}

type Throughput struct {
	ReadCapacityUnits  int64 `json:"ReadCapacityUnits"`
	WriteCapacityUnits int64 `json:"WriteCapacityUnits"`
}

type GlobalSecondaryIndex struct {
	IndexName             string             `json:"IndexName"`
	KeySchema             []KeySchemaElement `json:"KeySchema"`
	Projection            Projection         `json:"Projection"`
	ProvisionedThroughput Throughput         `json:"ProvisionedThroughput"`
}

type Projection struct {
	ProjectionType string `json:"ProjectionType"`
}

//go:embed table_schema.json
var tablesSchema []byte

// GetTables loads the CreateTableInput for one logical table from the
// embedded schema. schemaKey is the unprefixed name as it appears in
// table_schema.json; tableName is the full per-environment name the table
// is created under. Table names carry underscores (asset_groups,
// work_orders), so the schema key is passed explicitly instead of being
// parsed back out of the prefixed name.
func GetTables(schemaKey, tableName string) (*dynamodb.CreateTableInput, error) {
	tableJson := gjson.GetBytes(tablesSchema, schemaKey)
	if !tableJson.Exists() {
		return nil, fmt.Errorf("table schema not found for key: %s", schemaKey)
	}

	var schema TableSchema
	if err := json.Unmarshal([]byte(tableJson.Raw), &schema); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema JSON: %w", err)
	}

	schema.TableName = tableName
	return schema.ToDynamoInput(), nil
}

// ToDynamoInput converts the schema entry to a DynamoDB CreateTableInput.
// GlobalSecondaryIndexes stays nil for tables without indexes; DynamoDB
// rejects an empty index list.
func (ts *TableSchema) ToDynamoInput() *dynamodb.CreateTableInput {
	attrDefs := make([]types.AttributeDefinition, 0, len(ts.AttributeDefinitions))
	for _, a := range ts.AttributeDefinitions {
		attrDefs = append(attrDefs, types.AttributeDefinition{
			AttributeName: aws.String(a.AttributeName),
			AttributeType: types.ScalarAttributeType(a.AttributeType),
		})
	}

	keySchema := make([]types.KeySchemaElement, 0, len(ts.KeySchema))
	for _, k := range ts.KeySchema {
		keySchema = append(keySchema, types.KeySchemaElement{
			AttributeName: aws.String(k.AttributeName),
			KeyType:       types.KeyType(k.KeyType),
		})
	}

	var gsis []types.GlobalSecondaryIndex
	for _, g := range ts.GlobalSecondaryIndexes {
		gsiKeySchema := make([]types.KeySchemaElement, 0, len(g.KeySchema))
		for _, k := range g.KeySchema {
			gsiKeySchema = append(gsiKeySchema, types.KeySchemaElement{
				AttributeName: aws.String(k.AttributeName),
				KeyType:       types.KeyType(k.KeyType),
			})
		}
		gsis = append(gsis, types.GlobalSecondaryIndex{
			IndexName: aws.String(g.IndexName),
			KeySchema: gsiKeySchema,
			Projection: &types.Projection{
				ProjectionType: types.ProjectionType(g.Projection.ProjectionType),
			},
			ProvisionedThroughput: &types.ProvisionedThroughput{
				ReadCapacityUnits:  aws.Int64(g.ProvisionedThroughput.ReadCapacityUnits),
				WriteCapacityUnits: aws.Int64(g.ProvisionedThroughput.WriteCapacityUnits),
			},
		})
	}

	return &dynamodb.CreateTableInput{
		TableName:            aws.String(ts.TableName),
		AttributeDefinitions: attrDefs,
		KeySchema:            keySchema,
		ProvisionedThroughput: &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(ts.ProvisionedThroughput.ReadCapacityUnits),
			WriteCapacityUnits: aws.Int64(ts.ProvisionedThroughput.WriteCapacityUnits),
		},
		GlobalSecondaryIndexes: gsis,
	}
}
