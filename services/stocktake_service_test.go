package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
)

// MockStockTakeRepository implements the StockTakeRepositoryInterface for testing
type MockStockTakeRepository struct {
	mock.Mock
}

func (m *MockStockTakeRepository) CreateSession(ctx context.Context, session *models.StockTakeSession) (*models.StockTakeSession, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockTakeSession), args.Error(1)
}

func (m *MockStockTakeRepository) GetSession(id string) (*models.StockTakeSession, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockTakeSession), args.Error(1)
}

func (m *MockStockTakeRepository) GetSessionsByStatus(status models.StockTakeStatus) ([]*models.StockTakeSession, error) {
	args := m.Called(status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockTakeSession), args.Error(1)
}

func (m *MockStockTakeRepository) UpdateSession(id string, session *models.StockTakeSession) (*models.StockTakeSession, error) {
	args := m.Called(id, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockTakeSession), args.Error(1)
}

// StockTakeServiceTestSuite defines a test suite for StockTakeService functions
type StockTakeServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	mockRepo   *MockStockTakeRepository
	mockAssets *MockAssetRepository
	service    *StockTakeService
}

// SetupTest runs before each test
func (suite *StockTakeServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockRepo = &MockStockTakeRepository{}
	suite.mockAssets = &MockAssetRepository{}

	suite.service = NewStockTakeService(suite.mockRepo, suite.mockAssets, newQuietLogger())
}

// TearDownTest runs after each test
func (suite *StockTakeServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockAssets.AssertExpectations(suite.T())
}

// TestCreateSession tests that the expected set is seeded without retired assets
func (suite *StockTakeServiceTestSuite) TestCreateSession() {
	assets := []*models.Asset{
		{AssetID: "asset-1", Status: models.AssetStatusAvailable},
		{AssetID: "asset-2", Status: models.AssetStatusBooked},
		{AssetID: "asset-3", Status: models.AssetStatusRetired},
	}

	suite.mockAssets.On("GetAssetsByFilter", mock.MatchedBy(func(f *models.AssetFilter) bool {
		return f.Location == "Main Building"
	})).Return(assets, nil)
	suite.mockRepo.On("CreateSession", suite.ctx, mock.MatchedBy(func(s *models.StockTakeSession) bool {
		return s.Name == "Autumn count" &&
			len(s.ExpectedAssetIDs) == 2 &&
			len(s.ScannedAssetIDs) == 0 &&
			s.StartedBy == "user-1"
	})).Return(&models.StockTakeSession{SessionID: "session-123"}, nil)

	req := &models.CreateStockTakeRequest{Name: " Autumn count ", Location: "Main Building"}
	result, err := suite.service.CreateSession(suite.ctx, req, "user-1")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "session-123", result.SessionID)
}

// TestCreateSessionNameRequired tests the name guard
func (suite *StockTakeServiceTestSuite) TestCreateSessionNameRequired() {
	_, err := suite.service.CreateSession(suite.ctx, &models.CreateStockTakeRequest{}, "user-1")

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "session name is required")
}

// TestScan tests registering a scan by asset number
func (suite *StockTakeServiceTestSuite) TestScan() {
	session := &models.StockTakeSession{
		SessionID:        "session-123",
		Status:           models.StockTakeStatusOpen,
		ExpectedAssetIDs: []string{"asset-1"},
		ScannedAssetIDs:  []string{},
	}
	asset := &models.Asset{AssetID: "asset-1", AssetNumber: "INV-0001"}

	suite.mockRepo.On("GetSession", "session-123").Return(session, nil)
	suite.mockAssets.On("GetAsset", "INV-0001").Return(asset, nil)
	suite.mockRepo.On("UpdateSession", "session-123", mock.MatchedBy(func(s *models.StockTakeSession) bool {
		return len(s.ScannedAssetIDs) == 1 && s.ScannedAssetIDs[0] == "asset-1"
	})).Return(session, nil)

	_, err := suite.service.Scan("session-123", &models.ScanRequest{AssetNumber: "INV-0001"})

	assert.NoError(suite.T(), err)
}

// TestScanIdempotent tests that scanning the same asset twice is a no-op
func (suite *StockTakeServiceTestSuite) TestScanIdempotent() {
	session := &models.StockTakeSession{
		SessionID:       "session-123",
		Status:          models.StockTakeStatusOpen,
		ScannedAssetIDs: []string{"asset-1"},
	}
	asset := &models.Asset{AssetID: "asset-1", AssetNumber: "INV-0001"}

	suite.mockRepo.On("GetSession", "session-123").Return(session, nil)
	suite.mockAssets.On("GetAsset", "INV-0001").Return(asset, nil)

	result, err := suite.service.Scan("session-123", &models.ScanRequest{AssetNumber: "INV-0001"})

	// No UpdateSession expectation: the session is returned unchanged.
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"asset-1"}, result.ScannedAssetIDs)
}

// TestScanUnexpectedAsset tests that an out-of-scope asset is still recorded
func (suite *StockTakeServiceTestSuite) TestScanUnexpectedAsset() {
	session := &models.StockTakeSession{
		SessionID:        "session-123",
		Status:           models.StockTakeStatusOpen,
		ExpectedAssetIDs: []string{"asset-1"},
		ScannedAssetIDs:  []string{},
	}
	stray := &models.Asset{AssetID: "asset-9", Barcode: "4006381333931"}

	suite.mockRepo.On("GetSession", "session-123").Return(session, nil)
	suite.mockAssets.On("GetAssetByBarcode", "4006381333931").Return(stray, nil)
	suite.mockRepo.On("UpdateSession", "session-123", mock.MatchedBy(func(s *models.StockTakeSession) bool {
		return len(s.ScannedAssetIDs) == 1 && s.ScannedAssetIDs[0] == "asset-9"
	})).Return(session, nil)

	_, err := suite.service.Scan("session-123", &models.ScanRequest{Barcode: "4006381333931"})

	assert.NoError(suite.T(), err)
}

// TestScanClosedSession tests that completed sessions reject scans
func (suite *StockTakeServiceTestSuite) TestScanClosedSession() {
	session := &models.StockTakeSession{SessionID: "session-123", Status: models.StockTakeStatusCompleted}
	suite.mockRepo.On("GetSession", "session-123").Return(session, nil)

	_, err := suite.service.Scan("session-123", &models.ScanRequest{AssetNumber: "INV-0001"})

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "session is closed")
}

// TestScanWithoutCode tests the empty scan guard
func (suite *StockTakeServiceTestSuite) TestScanWithoutCode() {
	session := &models.StockTakeSession{SessionID: "session-123", Status: models.StockTakeStatusOpen}
	suite.mockRepo.On("GetSession", "session-123").Return(session, nil)

	_, err := suite.service.Scan("session-123", &models.ScanRequest{})

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "asset number or barcode is required")
}

// TestCompleteSession tests closing a session
func (suite *StockTakeServiceTestSuite) TestCompleteSession() {
	session := &models.StockTakeSession{SessionID: "session-123", Status: models.StockTakeStatusOpen}

	suite.mockRepo.On("GetSession", "session-123").Return(session, nil)
	suite.mockRepo.On("UpdateSession", "session-123", mock.MatchedBy(func(s *models.StockTakeSession) bool {
		return s.Status == models.StockTakeStatusCompleted && s.CompletedAt != nil
	})).Return(session, nil)

	_, err := suite.service.CompleteSession("session-123")

	assert.NoError(suite.T(), err)
}

// TestCompleteSessionTwice tests the double-completion guard
func (suite *StockTakeServiceTestSuite) TestCompleteSessionTwice() {
	session := &models.StockTakeSession{SessionID: "session-123", Status: models.StockTakeStatusCompleted}
	suite.mockRepo.On("GetSession", "session-123").Return(session, nil)

	_, err := suite.service.CompleteSession("session-123")

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "already completed")
}

// TestGetSummary tests the missing and unexpected partition
func (suite *StockTakeServiceTestSuite) TestGetSummary() {
	session := &models.StockTakeSession{
		SessionID:        "session-123",
		Status:           models.StockTakeStatusOpen,
		ExpectedAssetIDs: []string{"asset-1", "asset-2", "asset-3"},
		ScannedAssetIDs:  []string{"asset-2", "asset-9"},
	}
	suite.mockRepo.On("GetSession", "session-123").Return(session, nil)

	summary, err := suite.service.GetSummary("session-123")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, summary.ExpectedCount)
	assert.Equal(suite.T(), 2, summary.ScannedCount)
	assert.Equal(suite.T(), []string{"asset-1", "asset-3"}, summary.MissingAssetIDs)
	assert.Equal(suite.T(), []string{"asset-9"}, summary.UnexpectedAssetIDs)
}

// Run the test suite
func TestStockTakeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StockTakeServiceTestSuite))
}
