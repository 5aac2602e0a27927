package dal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockDatabaseClient implements DatabaseClientInterface for testing
type MockDatabaseClient struct {
	mock.Mock
}

func (m *MockDatabaseClient) GetItem(ctx context.Context, config models.QueryConfig, result interface{}) error {
	args := m.Called(ctx, config, result)
	if args.Get(0) != nil {
		// Copy the mock result to the result parameter
		if mockResult, ok := args.Get(0).(map[string]interface{}); ok {
			if resultMap, ok := result.(*map[string]interface{}); ok {
				*resultMap = mockResult
			}
		}
	}
	return args.Error(1)
}

func (m *MockDatabaseClient) PutItem(ctx context.Context, tableName string, item interface{}) error {
	args := m.Called(ctx, tableName, item)
	return args.Error(0)
}

func (m *MockDatabaseClient) UpdateItem(ctx context.Context, tableName, key, keyValue string, updates map[string]interface{}) error {
	args := m.Called(ctx, tableName, key, keyValue, updates)
	return args.Error(0)
}

func (m *MockDatabaseClient) DeleteItem(ctx context.Context, tableName, key, value string) error {
	args := m.Called(ctx, tableName, key, value)
	return args.Error(0)
}

func (m *MockDatabaseClient) QueryByIndex(ctx context.Context, tableName, indexName, keyName, keyValue string, results interface{}) error {
	args := m.Called(ctx, tableName, indexName, keyName, keyValue, results)
	if args.Get(0) != nil {
		// Copy the mock results to the results parameter
		if mockResults, ok := args.Get(0).([]map[string]interface{}); ok {
			if resultSlice, ok := results.(*[]map[string]interface{}); ok {
				*resultSlice = mockResults
			}
		}
	}
	return args.Error(1)
}

func (m *MockDatabaseClient) Scan(ctx context.Context, tableName string, results interface{}) error {
	args := m.Called(ctx, tableName, results)
	if args.Get(0) != nil {
		if mockResults, ok := args.Get(0).([]map[string]interface{}); ok {
			if resultSlice, ok := results.(*[]map[string]interface{}); ok {
				*resultSlice = mockResults
			}
		}
	}
	return args.Error(1)
}

func (m *MockDatabaseClient) ScanTable(ctx context.Context, tableName string, results interface{}) error {
	args := m.Called(ctx, tableName, results)
	if args.Get(0) != nil {
		if mockResults, ok := args.Get(0).([]map[string]interface{}); ok {
			if resultSlice, ok := results.(*[]map[string]interface{}); ok {
				*resultSlice = mockResults
			}
		}
	}
	return args.Error(1)
}

func (m *MockDatabaseClient) CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockDatabaseClient) DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error) {
	args := m.Called(ctx, tableName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.DescribeTableOutput), args.Error(1)
}

func (m *MockDatabaseClient) DeleteTable(ctx context.Context, input *dynamodb.DeleteTableInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

// DALTestSuite defines a test suite for DAL functions
type DALTestSuite struct {
	suite.Suite
	mockClient   *MockDatabaseClient
	dalContainer *DALContainer
}

// SetupTest runs before each test
func (suite *DALTestSuite) SetupTest() {
	suite.mockClient = &MockDatabaseClient{}
	suite.dalContainer = &DALContainer{
		databaseClient: suite.mockClient,
	}
}

// TearDownTest runs after each test
func (suite *DALTestSuite) TearDownTest() {
	suite.mockClient.AssertExpectations(suite.T())
}

// TestGetDatabaseClient tests the GetDatabaseClient method
func (suite *DALTestSuite) TestGetDatabaseClient() {
	client := suite.dalContainer.GetDatabaseClient()
	assert.NotNil(suite.T(), client)
	assert.Equal(suite.T(), suite.mockClient, client)
}

// TestGetItemByPrimaryKey tests GetItem with primary key
func (suite *DALTestSuite) TestGetItemByPrimaryKey() {
	ctx := context.Background()
	config := models.QueryConfig{
		TableName: "assets",
		KeyName:   "assetID",
		KeyValue:  "asset-1",
		KeyType:   models.StringType,
	}

	mockResult := map[string]interface{}{
		"assetID":     "asset-1",
		"assetNumber": "INV-0001",
	}

	suite.mockClient.On("GetItem", ctx, config, mock.AnythingOfType("*map[string]interface {}")).Return(mockResult, nil)

	var result map[string]interface{}
	err := suite.mockClient.GetItem(ctx, config, &result)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "asset-1", result["assetID"])
	assert.Equal(suite.T(), "INV-0001", result["assetNumber"])
}

// TestGetItemByIndex tests GetItem routed through a secondary index
func (suite *DALTestSuite) TestGetItemByIndex() {
	ctx := context.Background()
	config := models.QueryConfig{
		TableName: "assets",
		IndexName: "assetNumber-index",
		KeyName:   "assetNumber",
		KeyValue:  "INV-0001",
		KeyType:   models.StringType,
	}

	mockResult := map[string]interface{}{
		"assetID":     "asset-1",
		"assetNumber": "INV-0001",
	}

	suite.mockClient.On("GetItem", ctx, config, mock.AnythingOfType("*map[string]interface {}")).Return(mockResult, nil)

	var result map[string]interface{}
	err := suite.mockClient.GetItem(ctx, config, &result)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "asset-1", result["assetID"])
}

// TestGetItemError tests GetItem with a storage failure
func (suite *DALTestSuite) TestGetItemError() {
	ctx := context.Background()
	config := models.QueryConfig{
		TableName: "assets",
		KeyName:   "assetID",
		KeyValue:  "missing",
		KeyType:   models.StringType,
	}

	suite.mockClient.On("GetItem", ctx, config, mock.AnythingOfType("*map[string]interface {}")).Return(nil, errors.New("DynamoDB error"))

	var result map[string]interface{}
	err := suite.mockClient.GetItem(ctx, config, &result)

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "DynamoDB error")
}

// TestPutItem tests the PutItem function
func (suite *DALTestSuite) TestPutItem() {
	ctx := context.Background()
	tableName := "bookings"
	item := map[string]interface{}{
		"bookingID": "booking-1",
		"assetID":   "asset-1",
	}

	suite.mockClient.On("PutItem", ctx, tableName, item).Return(nil)

	err := suite.mockClient.PutItem(ctx, tableName, item)
	assert.NoError(suite.T(), err)
}

// TestPutItemError tests PutItem with error
func (suite *DALTestSuite) TestPutItemError() {
	ctx := context.Background()
	tableName := "bookings"
	item := map[string]interface{}{
		"bookingID": "booking-1",
	}

	suite.mockClient.On("PutItem", ctx, tableName, item).Return(errors.New("PutItem error"))

	err := suite.mockClient.PutItem(ctx, tableName, item)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "PutItem error")
}

// TestUpdateItem tests the UpdateItem function
func (suite *DALTestSuite) TestUpdateItem() {
	ctx := context.Background()
	tableName := "maintenance_schedules"
	key := "scheduleID"
	keyValue := "schedule-1"
	updates := map[string]interface{}{
		"nextDue":   time.Now(),
		"updatedAt": time.Now(),
	}

	suite.mockClient.On("UpdateItem", ctx, tableName, key, keyValue, updates).Return(nil)

	err := suite.mockClient.UpdateItem(ctx, tableName, key, keyValue, updates)
	assert.NoError(suite.T(), err)
}

// TestDeleteItem tests the DeleteItem function
func (suite *DALTestSuite) TestDeleteItem() {
	ctx := context.Background()
	tableName := "saved_views"
	key := "viewID"
	value := "view-1"

	suite.mockClient.On("DeleteItem", ctx, tableName, key, value).Return(nil)

	err := suite.mockClient.DeleteItem(ctx, tableName, key, value)
	assert.NoError(suite.T(), err)
}

// TestQueryByIndex tests the QueryByIndex function
func (suite *DALTestSuite) TestQueryByIndex() {
	ctx := context.Background()
	tableName := "bookings"
	indexName := "assetID-index"
	keyName := "assetID"
	keyValue := "asset-1"

	mockResults := []map[string]interface{}{
		{"bookingID": "booking-1", "assetID": "asset-1"},
		{"bookingID": "booking-2", "assetID": "asset-1"},
	}

	suite.mockClient.On("QueryByIndex", ctx, tableName, indexName, keyName, keyValue, mock.AnythingOfType("*[]map[string]interface {}")).Return(mockResults, nil)

	var results []map[string]interface{}
	err := suite.mockClient.QueryByIndex(ctx, tableName, indexName, keyName, keyValue, &results)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), results, 2)
	assert.Equal(suite.T(), "booking-1", results[0]["bookingID"])
	assert.Equal(suite.T(), "booking-2", results[1]["bookingID"])
}

// TestScan tests the Scan function
func (suite *DALTestSuite) TestScan() {
	ctx := context.Background()
	tableName := "assets"

	mockResults := []map[string]interface{}{
		{"assetID": "asset-1"},
		{"assetID": "asset-2"},
	}

	suite.mockClient.On("Scan", ctx, tableName, mock.AnythingOfType("*[]map[string]interface {}")).Return(mockResults, nil)

	var results []map[string]interface{}
	err := suite.mockClient.Scan(ctx, tableName, &results)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), results, 2)
}

// TestScanError tests Scan with error
func (suite *DALTestSuite) TestScanError() {
	ctx := context.Background()
	tableName := "assets"

	suite.mockClient.On("Scan", ctx, tableName, mock.AnythingOfType("*[]map[string]interface {}")).Return(nil, errors.New("Scan error"))

	var results []map[string]interface{}
	err := suite.mockClient.Scan(ctx, tableName, &results)

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "Scan error")
}

// TestCreateTable tests the CreateTable function
func (suite *DALTestSuite) TestCreateTable() {
	ctx := context.Background()
	input := &dynamodb.CreateTableInput{
		TableName: &[]string{"assets"}[0],
	}

	suite.mockClient.On("CreateTable", ctx, input).Return(nil)

	err := suite.mockClient.CreateTable(ctx, input)
	assert.NoError(suite.T(), err)
}

// TestDescribeTable tests the DescribeTable function
func (suite *DALTestSuite) TestDescribeTable() {
	ctx := context.Background()
	tableName := "assets"

	mockOutput := &dynamodb.DescribeTableOutput{
		Table: &types.TableDescription{
			TableName: &tableName,
		},
	}

	suite.mockClient.On("DescribeTable", ctx, tableName).Return(mockOutput, nil)

	result, err := suite.mockClient.DescribeTable(ctx, tableName)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), result)
	assert.Equal(suite.T(), tableName, *result.Table.TableName)
}

// TestDeleteTable tests the DeleteTable function
func (suite *DALTestSuite) TestDeleteTable() {
	ctx := context.Background()
	input := &dynamodb.DeleteTableInput{
		TableName: &[]string{"assets"}[0],
	}

	suite.mockClient.On("DeleteTable", ctx, input).Return(nil)

	err := suite.mockClient.DeleteTable(ctx, input)
	assert.NoError(suite.T(), err)
}

// Run the test suite
func TestDALTestSuite(t *testing.T) {
	suite.Run(t, new(DALTestSuite))
}

// Standalone tests for additional coverage

func TestDALContainerAccessors(t *testing.T) {
	mockClient := &MockDatabaseClient{}
	container := &DALContainer{
		databaseClient: mockClient,
	}

	assert.NotNil(t, container)
	assert.NotNil(t, container.GetDatabaseClient())
	assert.Equal(t, mockClient, container.GetDatabaseClient())
}

func TestKeyAttributeValue(t *testing.T) {
	s := keyAttributeValue(models.StringType, "abc")
	sv, ok := s.(*types.AttributeValueMemberS)
	assert.True(t, ok)
	assert.Equal(t, "abc", sv.Value)

	n := keyAttributeValue(models.NumberType, "42")
	nv, ok := n.(*types.AttributeValueMemberN)
	assert.True(t, ok)
	assert.Equal(t, "42", nv.Value)

	b := keyAttributeValue(models.BinaryType, "raw")
	bv, ok := b.(*types.AttributeValueMemberB)
	assert.True(t, ok)
	assert.Equal(t, []byte("raw"), bv.Value)
}

func TestQueryConfig(t *testing.T) {
	config := models.QueryConfig{
		TableName: "assets",
		IndexName: "barcode-index",
		KeyName:   "barcode",
		KeyValue:  "4006381333931",
		KeyType:   models.StringType,
	}

	assert.Equal(t, "assets", config.TableName)
	assert.Equal(t, "barcode-index", config.IndexName)
	assert.Equal(t, "barcode", config.KeyName)
	assert.Equal(t, "4006381333931", config.KeyValue)
	assert.Equal(t, models.StringType, config.KeyType)
}

// TestDALContainerInterface tests that the container satisfies its interface
func TestDALContainerInterface(t *testing.T) {
	mockClient := &MockDatabaseClient{}
	container := &DALContainer{
		databaseClient: mockClient,
	}

	var dalContainer DALContainerInterface = container
	assert.NotNil(t, dalContainer)

	client := dalContainer.GetDatabaseClient()
	assert.NotNil(t, client)
	assert.Equal(t, mockClient, client)
}

// TestDatabaseClientInterface tests that the mock implements the interface
func TestDatabaseClientInterface(t *testing.T) {
	mockClient := &MockDatabaseClient{}

	var dbClient DatabaseClientInterface = mockClient
	assert.NotNil(t, dbClient)
}
