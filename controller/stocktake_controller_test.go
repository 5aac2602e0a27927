package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockStockTakeService implements StockTakeServiceInterface for testing
type MockStockTakeService struct {
	mock.Mock
}

func (m *MockStockTakeService) CreateSession(ctx context.Context, req *models.CreateStockTakeRequest, startedBy string) (*models.StockTakeSession, error) {
	args := m.Called(ctx, req, startedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockTakeSession), args.Error(1)
}

func (m *MockStockTakeService) GetSession(id string) (*models.StockTakeSession, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockTakeSession), args.Error(1)
}

func (m *MockStockTakeService) GetSessions(status models.StockTakeStatus) ([]*models.StockTakeSession, error) {
	args := m.Called(status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockTakeSession), args.Error(1)
}

func (m *MockStockTakeService) Scan(id string, req *models.ScanRequest) (*models.StockTakeSession, error) {
	args := m.Called(id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockTakeSession), args.Error(1)
}

func (m *MockStockTakeService) CompleteSession(id string) (*models.StockTakeSession, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockTakeSession), args.Error(1)
}

func (m *MockStockTakeService) GetSummary(id string) (*models.StockTakeSummaryData, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockTakeSummaryData), args.Error(1)
}

// StockTakeControllerTestSuite contains the test suite for StockTakeController
type StockTakeControllerTestSuite struct {
	suite.Suite
	stockTakeController *StockTakeController
	mockService         *MockStockTakeService
	mockLogger          *MockControllerLogger
	ctx                 context.Context
	router              *gin.Engine
}

func (suite *StockTakeControllerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.ctx = context.Background()
	suite.mockService = &MockStockTakeService{}
	suite.mockLogger = &MockControllerLogger{}
	setupMockLogger(suite.mockLogger)

	suite.stockTakeController = NewStockTakeController(suite.ctx, suite.mockService, suite.mockLogger)
	suite.router = gin.New()
}

func TestStockTakeControllerTestSuite(t *testing.T) {
	suite.Run(t, new(StockTakeControllerTestSuite))
}

// TestCreateSession tests starting a stock take session
func (suite *StockTakeControllerTestSuite) TestCreateSession() {
	createReq := models.CreateStockTakeRequest{
		Name:     "Annual count 2025",
		Location: "Main hall",
	}

	expectedSession := &models.StockTakeSession{
		SessionID:        "session-123",
		Name:             "Annual count 2025",
		Location:         "Main hall",
		ExpectedAssetIDs: []string{"asset-1", "asset-2"},
		ScannedAssetIDs:  []string{},
		Status:           models.StockTakeStatusOpen,
		StartedBy:        "manager-1",
	}

	suite.mockService.On("CreateSession", suite.ctx, mock.MatchedBy(func(req *models.CreateStockTakeRequest) bool {
		return req.Name == "Annual count 2025" && req.Location == "Main hall"
	}), "manager-1").Return(expectedSession, nil)

	body, _ := json.Marshal(createReq)
	req, _ := http.NewRequest(http.MethodPost, "/stock-takes", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.POST("/stock-takes", func(c *gin.Context) {
		c.Set("jwt_claims", &models.JWTClaims{UserID: "manager-1"})
		suite.stockTakeController.CreateSession(c)
	})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "success", response.Status)
	assert.Equal(suite.T(), "Stock take session created successfully", response.Message)
}

// TestCreateSessionMissingName tests creation without a session name
func (suite *StockTakeControllerTestSuite) TestCreateSessionMissingName() {
	body, _ := json.Marshal(map[string]interface{}{"location": "Main hall"})
	req, _ := http.NewRequest(http.MethodPost, "/stock-takes", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.POST("/stock-takes", func(c *gin.Context) {
		c.Set("jwt_claims", &models.JWTClaims{UserID: "manager-1"})
		suite.stockTakeController.CreateSession(c)
	})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "ValidationError", response.Error.Type)
	assert.Contains(suite.T(), response.Error.Details, "Name is required")
}

// TestGetSessions tests listing sessions filtered by status
func (suite *StockTakeControllerTestSuite) TestGetSessions() {
	expectedSessions := []*models.StockTakeSession{
		{SessionID: "session-1", Name: "Annual count 2025", Status: models.StockTakeStatusOpen},
	}

	suite.mockService.On("GetSessions", models.StockTakeStatusOpen).Return(expectedSessions, nil)

	req, _ := http.NewRequest(http.MethodGet, "/stock-takes?status=open", nil)
	w := httptest.NewRecorder()

	suite.router.GET("/stock-takes", suite.stockTakeController.GetSessions)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "success", response.Status)

	data := response.Data.(map[string]interface{})
	sessions := data["sessions"].([]interface{})
	assert.Len(suite.T(), sessions, 1)
}

// TestGetSessionNotFound tests retrieval of an unknown session
func (suite *StockTakeControllerTestSuite) TestGetSessionNotFound() {
	suite.mockService.On("GetSession", "missing").Return(nil, errors.New("stock take session not found"))

	req, _ := http.NewRequest(http.MethodGet, "/stock-takes/missing", nil)
	w := httptest.NewRecorder()

	suite.router.GET("/stock-takes/:id", suite.stockTakeController.GetSession)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestScan tests recording a barcode scan in an open session
func (suite *StockTakeControllerTestSuite) TestScan() {
	scanReq := models.ScanRequest{Barcode: "4006381333931"}

	expectedSession := &models.StockTakeSession{
		SessionID:        "session-123",
		Name:             "Annual count 2025",
		ExpectedAssetIDs: []string{"asset-1", "asset-2"},
		ScannedAssetIDs:  []string{"asset-1"},
		Status:           models.StockTakeStatusOpen,
	}

	suite.mockService.On("Scan", "session-123", mock.MatchedBy(func(req *models.ScanRequest) bool {
		return req.Barcode == "4006381333931"
	})).Return(expectedSession, nil)

	body, _ := json.Marshal(scanReq)
	req, _ := http.NewRequest(http.MethodPost, "/stock-takes/session-123/scan", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.POST("/stock-takes/:id/scan", suite.stockTakeController.Scan)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Scan recorded successfully", response.Message)
}

// TestScanClosedSession tests scanning after the session was completed
func (suite *StockTakeControllerTestSuite) TestScanClosedSession() {
	scanReq := models.ScanRequest{AssetNumber: "IT-0001"}

	suite.mockService.On("Scan", "session-123", mock.Anything).Return(nil, errors.New("stock take session is closed"))

	body, _ := json.Marshal(scanReq)
	req, _ := http.NewRequest(http.MethodPost, "/stock-takes/session-123/scan", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.POST("/stock-takes/:id/scan", suite.stockTakeController.Scan)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "BusinessError", response.Error.Type)
}

// TestCompleteSession tests closing a session
func (suite *StockTakeControllerTestSuite) TestCompleteSession() {
	expectedSession := &models.StockTakeSession{
		SessionID: "session-123",
		Name:      "Annual count 2025",
		Status:    models.StockTakeStatusCompleted,
	}

	suite.mockService.On("CompleteSession", "session-123").Return(expectedSession, nil)

	req, _ := http.NewRequest(http.MethodPost, "/stock-takes/session-123/complete", nil)
	w := httptest.NewRecorder()

	suite.router.POST("/stock-takes/:id/complete", suite.stockTakeController.CompleteSession)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Stock take session completed successfully", response.Message)
}

// TestCompleteSessionTwice tests completing an already completed session
func (suite *StockTakeControllerTestSuite) TestCompleteSessionTwice() {
	suite.mockService.On("CompleteSession", "session-123").Return(nil, errors.New("stock take session is already completed"))

	req, _ := http.NewRequest(http.MethodPost, "/stock-takes/session-123/complete", nil)
	w := httptest.NewRecorder()

	suite.router.POST("/stock-takes/:id/complete", suite.stockTakeController.CompleteSession)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestGetSummary tests the set difference summary of a session
func (suite *StockTakeControllerTestSuite) TestGetSummary() {
	expectedSummary := &models.StockTakeSummaryData{
		SessionID:          "session-123",
		ExpectedCount:      3,
		ScannedCount:       2,
		MissingAssetIDs:    []string{"asset-3"},
		UnexpectedAssetIDs: []string{},
		CompletionRate:     66.67,
	}

	suite.mockService.On("GetSummary", "session-123").Return(expectedSummary, nil)

	req, _ := http.NewRequest(http.MethodGet, "/stock-takes/session-123/summary", nil)
	w := httptest.NewRecorder()

	suite.router.GET("/stock-takes/:id/summary", suite.stockTakeController.GetSummary)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	data := response.Data.(map[string]interface{})
	assert.Equal(suite.T(), float64(3), data["expectedCount"])
	assert.Equal(suite.T(), float64(2), data["scannedCount"])

	missing := data["missingAssetIDs"].([]interface{})
	assert.Len(suite.T(), missing, 1)
	assert.Equal(suite.T(), "asset-3", missing[0])
}
