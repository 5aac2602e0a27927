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

// MockAssetService implements AssetServiceInterface for testing
type MockAssetService struct {
	mock.Mock
}

func (m *MockAssetService) CreateAsset(ctx context.Context, req *models.CreateAssetRequest, createdBy string) (*models.Asset, error) {
	args := m.Called(ctx, req, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func (m *MockAssetService) GetAssets(filter *models.AssetFilter) ([]*models.Asset, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Asset), args.Error(1)
}

func (m *MockAssetService) GetAssetByKey(key string) (*models.Asset, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func (m *MockAssetService) GetAssetByScanCode(assetNumber, barcode string) (*models.Asset, error) {
	args := m.Called(assetNumber, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func (m *MockAssetService) UpdateAsset(id string, req *models.UpdateAssetRequest, updatedBy string) (*models.Asset, error) {
	args := m.Called(id, req, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func (m *MockAssetService) RetireAsset(id string, updatedBy string) (*models.Asset, error) {
	args := m.Called(id, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func (m *MockAssetService) DeleteAsset(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockAssetService) CreateGroup(ctx context.Context, req *models.CreateAssetGroupRequest, createdBy string) (*models.AssetGroup, error) {
	args := m.Called(ctx, req, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssetGroup), args.Error(1)
}

func (m *MockAssetService) GetGroups() ([]*models.AssetGroup, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AssetGroup), args.Error(1)
}

func (m *MockAssetService) GetGroupByID(id string) (*models.AssetGroup, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssetGroup), args.Error(1)
}

func (m *MockAssetService) UpdateGroup(id string, req *models.CreateAssetGroupRequest) (*models.AssetGroup, error) {
	args := m.Called(id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssetGroup), args.Error(1)
}

func (m *MockAssetService) DeleteGroup(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// AssetControllerTestSuite contains the test suite for AssetController
type AssetControllerTestSuite struct {
	suite.Suite
	assetController *AssetController
	mockService     *MockAssetService
	mockLogger      *MockControllerLogger
	ctx             context.Context
	router          *gin.Engine
}

func (suite *AssetControllerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.ctx = context.Background()
	suite.mockService = &MockAssetService{}
	suite.mockLogger = &MockControllerLogger{}
	setupMockLogger(suite.mockLogger)

	suite.assetController = NewAssetController(suite.ctx, suite.mockService, suite.mockLogger)
	suite.router = gin.New()
}

func TestAssetControllerTestSuite(t *testing.T) {
	suite.Run(t, new(AssetControllerTestSuite))
}

// TestNewAssetController tests the constructor
func (suite *AssetControllerTestSuite) TestNewAssetController() {
	controller := NewAssetController(suite.ctx, suite.mockService, suite.mockLogger)

	assert.NotNil(suite.T(), controller)
	assert.Equal(suite.T(), suite.ctx, controller.ctx)
	assert.Equal(suite.T(), suite.mockService, controller.assetService)
	assert.Equal(suite.T(), suite.mockLogger, controller.logger)
	assert.NotNil(suite.T(), controller.validator)
}

// TestCreateAsset tests successful asset creation
func (suite *AssetControllerTestSuite) TestCreateAsset() {
	createReq := models.CreateAssetRequest{
		AssetNumber: "PRJ-001",
		Name:        "Projector Epson EB-2250U",
		Location:    "Main Hall",
	}

	expectedAsset := &models.Asset{
		AssetID:     "asset-123",
		AssetNumber: "PRJ-001",
		Name:        "Projector Epson EB-2250U",
		Status:      models.AssetStatusAvailable,
	}

	suite.mockService.On("CreateAsset", suite.ctx, mock.MatchedBy(func(req *models.CreateAssetRequest) bool {
		return req.AssetNumber == "PRJ-001" && req.Name == "Projector Epson EB-2250U"
	}), "user-1").Return(expectedAsset, nil)

	body, _ := json.Marshal(createReq)
	req, _ := http.NewRequest(http.MethodPost, "/assets", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.POST("/assets", func(c *gin.Context) {
		c.Set("jwt_claims", &models.JWTClaims{UserID: "user-1"})
		suite.assetController.CreateAsset(c)
	})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "success", response.Status)
	assert.Equal(suite.T(), "Asset created successfully", response.Message)
}

// TestCreateAssetValidationError tests asset creation with a missing asset number
func (suite *AssetControllerTestSuite) TestCreateAssetValidationError() {
	body, _ := json.Marshal(map[string]string{"name": "Nameless Thing"})
	req, _ := http.NewRequest(http.MethodPost, "/assets", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.POST("/assets", func(c *gin.Context) {
		c.Set("jwt_claims", &models.JWTClaims{UserID: "user-1"})
		suite.assetController.CreateAsset(c)
	})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "error", response.Status)
	assert.Equal(suite.T(), "ValidationError", response.Error.Type)
	assert.Contains(suite.T(), response.Error.Details, "AssetNumber is required")
}

// TestCreateAssetWithoutClaims tests asset creation without authentication context
func (suite *AssetControllerTestSuite) TestCreateAssetWithoutClaims() {
	createReq := models.CreateAssetRequest{
		AssetNumber: "PRJ-001",
		Name:        "Projector",
	}

	body, _ := json.Marshal(createReq)
	req, _ := http.NewRequest(http.MethodPost, "/assets", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.POST("/assets", suite.assetController.CreateAsset)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestCreateAssetUnknownGroup tests asset creation referencing a missing group
func (suite *AssetControllerTestSuite) TestCreateAssetUnknownGroup() {
	createReq := models.CreateAssetRequest{
		AssetNumber: "PRJ-001",
		Name:        "Projector",
		GroupID:     "group-404",
	}

	suite.mockService.On("CreateAsset", suite.ctx, mock.Anything, "user-1").Return(nil, errors.New("asset group not found"))

	body, _ := json.Marshal(createReq)
	req, _ := http.NewRequest(http.MethodPost, "/assets", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.POST("/assets", func(c *gin.Context) {
		c.Set("jwt_claims", &models.JWTClaims{UserID: "user-1"})
		suite.assetController.CreateAsset(c)
	})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "BusinessError", response.Error.Type)
}

// TestGetAssets tests the asset list with filters and pagination
func (suite *AssetControllerTestSuite) TestGetAssets() {
	expectedAssets := []*models.Asset{
		{AssetID: "asset-1", AssetNumber: "PRJ-001", Name: "Projector", Status: models.AssetStatusAvailable},
		{AssetID: "asset-2", AssetNumber: "PRJ-002", Name: "Projector", Status: models.AssetStatusAvailable},
	}

	suite.mockService.On("GetAssets", mock.MatchedBy(func(filter *models.AssetFilter) bool {
		return filter.Status == models.AssetStatusAvailable && filter.GroupID == "group-1"
	})).Return(expectedAssets, nil)

	req, _ := http.NewRequest(http.MethodGet, "/assets?status=available&groupID=group-1", nil)
	w := httptest.NewRecorder()

	suite.router.GET("/assets", suite.assetController.GetAssets)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "success", response.Status)

	data, ok := response.Data.(map[string]interface{})
	assert.True(suite.T(), ok)
	assets, ok := data["assets"].([]interface{})
	assert.True(suite.T(), ok)
	assert.Len(suite.T(), assets, 2)
}

// TestGetAssetsServiceError tests the asset list when the service fails
func (suite *AssetControllerTestSuite) TestGetAssetsServiceError() {
	suite.mockService.On("GetAssets", mock.Anything).Return(nil, errors.New("database error"))

	req, _ := http.NewRequest(http.MethodGet, "/assets", nil)
	w := httptest.NewRecorder()

	suite.router.GET("/assets", suite.assetController.GetAssets)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusInternalServerError, w.Code)
}

// TestGetAssetByKey tests retrieval by asset number
func (suite *AssetControllerTestSuite) TestGetAssetByKey() {
	expectedAsset := &models.Asset{
		AssetID:     "asset-123",
		AssetNumber: "PRJ-001",
		Name:        "Projector",
	}

	suite.mockService.On("GetAssetByKey", "PRJ-001").Return(expectedAsset, nil)

	req, _ := http.NewRequest(http.MethodGet, "/assets/PRJ-001", nil)
	w := httptest.NewRecorder()

	suite.router.GET("/assets/:id", suite.assetController.GetAssetByKey)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "success", response.Status)
}

// TestGetAssetByKeyNotFound tests retrieval for an unknown asset
func (suite *AssetControllerTestSuite) TestGetAssetByKeyNotFound() {
	suite.mockService.On("GetAssetByKey", "nonexistent").Return(nil, errors.New("asset not found"))

	req, _ := http.NewRequest(http.MethodGet, "/assets/nonexistent", nil)
	w := httptest.NewRecorder()

	suite.router.GET("/assets/:id", suite.assetController.GetAssetByKey)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestScanAsset tests barcode resolution
func (suite *AssetControllerTestSuite) TestScanAsset() {
	expectedAsset := &models.Asset{
		AssetID:     "asset-123",
		AssetNumber: "PRJ-001",
		Barcode:     "4006381333931",
	}

	suite.mockService.On("GetAssetByScanCode", "", "4006381333931").Return(expectedAsset, nil)

	req, _ := http.NewRequest(http.MethodGet, "/assets/scan?barcode=4006381333931", nil)
	w := httptest.NewRecorder()

	suite.router.GET("/assets/scan", suite.assetController.ScanAsset)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "success", response.Status)
}

// TestScanAssetMissingCode tests scan resolution with no code supplied
func (suite *AssetControllerTestSuite) TestScanAssetMissingCode() {
	suite.mockService.On("GetAssetByScanCode", "", "").Return(nil, errors.New("asset number or barcode is required"))

	req, _ := http.NewRequest(http.MethodGet, "/assets/scan", nil)
	w := httptest.NewRecorder()

	suite.router.GET("/assets/scan", suite.assetController.ScanAsset)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestUpdateAsset tests updating asset fields
func (suite *AssetControllerTestSuite) TestUpdateAsset() {
	updateReq := models.UpdateAssetRequest{
		Location:  "Youth Room",
		Condition: models.AssetConditionWorn,
	}

	expectedAsset := &models.Asset{
		AssetID:   "asset-123",
		Location:  "Youth Room",
		Condition: models.AssetConditionWorn,
	}

	suite.mockService.On("UpdateAsset", "asset-123", mock.MatchedBy(func(req *models.UpdateAssetRequest) bool {
		return req.Location == "Youth Room"
	}), "user-1").Return(expectedAsset, nil)

	body, _ := json.Marshal(updateReq)
	req, _ := http.NewRequest(http.MethodPut, "/assets/asset-123", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.PUT("/assets/:id", func(c *gin.Context) {
		c.Set("jwt_claims", &models.JWTClaims{UserID: "user-1"})
		suite.assetController.UpdateAsset(c)
	})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "success", response.Status)
	assert.Equal(suite.T(), "Asset updated successfully", response.Message)
}

// TestUpdateAssetNotFound tests updating an unknown asset
func (suite *AssetControllerTestSuite) TestUpdateAssetNotFound() {
	updateReq := models.UpdateAssetRequest{Location: "Youth Room"}

	suite.mockService.On("UpdateAsset", "nonexistent", mock.Anything, "user-1").Return(nil, errors.New("asset not found"))

	body, _ := json.Marshal(updateReq)
	req, _ := http.NewRequest(http.MethodPut, "/assets/nonexistent", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.PUT("/assets/:id", func(c *gin.Context) {
		c.Set("jwt_claims", &models.JWTClaims{UserID: "user-1"})
		suite.assetController.UpdateAsset(c)
	})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestRetireAsset tests retiring an asset
func (suite *AssetControllerTestSuite) TestRetireAsset() {
	expectedAsset := &models.Asset{
		AssetID: "asset-123",
		Status:  models.AssetStatusRetired,
	}

	suite.mockService.On("RetireAsset", "asset-123", "user-1").Return(expectedAsset, nil)

	req, _ := http.NewRequest(http.MethodPost, "/assets/asset-123/retire", nil)
	w := httptest.NewRecorder()

	suite.router.POST("/assets/:id/retire", func(c *gin.Context) {
		c.Set("jwt_claims", &models.JWTClaims{UserID: "user-1"})
		suite.assetController.RetireAsset(c)
	})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Asset retired successfully", response.Message)
}

// TestRetireAssetCheckedOut tests retiring an asset that is checked out
func (suite *AssetControllerTestSuite) TestRetireAssetCheckedOut() {
	suite.mockService.On("RetireAsset", "asset-123", "user-1").Return(nil, errors.New("asset with status checked_out cannot be retired"))

	req, _ := http.NewRequest(http.MethodPost, "/assets/asset-123/retire", nil)
	w := httptest.NewRecorder()

	suite.router.POST("/assets/:id/retire", func(c *gin.Context) {
		c.Set("jwt_claims", &models.JWTClaims{UserID: "user-1"})
		suite.assetController.RetireAsset(c)
	})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "BusinessError", response.Error.Type)
}

// TestDeleteAsset tests deleting an asset without history
func (suite *AssetControllerTestSuite) TestDeleteAsset() {
	suite.mockService.On("DeleteAsset", "asset-123").Return(nil)

	req, _ := http.NewRequest(http.MethodDelete, "/assets/asset-123", nil)
	w := httptest.NewRecorder()

	suite.router.DELETE("/assets/:id", suite.assetController.DeleteAsset)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Asset deleted successfully", response.Message)
}

// TestDeleteAssetWithHistory tests deleting an asset that has bookings
func (suite *AssetControllerTestSuite) TestDeleteAssetWithHistory() {
	suite.mockService.On("DeleteAsset", "asset-123").Return(errors.New("asset has booking history and cannot be deleted"))

	req, _ := http.NewRequest(http.MethodDelete, "/assets/asset-123", nil)
	w := httptest.NewRecorder()

	suite.router.DELETE("/assets/:id", suite.assetController.DeleteAsset)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "BusinessError", response.Error.Type)
}

// TestCreateGroup tests asset group creation
func (suite *AssetControllerTestSuite) TestCreateGroup() {
	createReq := models.CreateAssetGroupRequest{
		Name:        "Projectors",
		Description: "All beamers and projection gear",
	}

	expectedGroup := &models.AssetGroup{
		GroupID: "group-123",
		Name:    "Projectors",
	}

	suite.mockService.On("CreateGroup", suite.ctx, mock.MatchedBy(func(req *models.CreateAssetGroupRequest) bool {
		return req.Name == "Projectors"
	}), "user-1").Return(expectedGroup, nil)

	body, _ := json.Marshal(createReq)
	req, _ := http.NewRequest(http.MethodPost, "/asset-groups", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.POST("/asset-groups", func(c *gin.Context) {
		c.Set("jwt_claims", &models.JWTClaims{UserID: "user-1"})
		suite.assetController.CreateGroup(c)
	})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "success", response.Status)
	assert.Equal(suite.T(), "Asset group created successfully", response.Message)
}

// TestGetGroups tests the asset group list
func (suite *AssetControllerTestSuite) TestGetGroups() {
	expectedGroups := []*models.AssetGroup{
		{GroupID: "group-1", Name: "Projectors"},
		{GroupID: "group-2", Name: "Speakers"},
	}

	suite.mockService.On("GetGroups").Return(expectedGroups, nil)

	req, _ := http.NewRequest(http.MethodGet, "/asset-groups", nil)
	w := httptest.NewRecorder()

	suite.router.GET("/asset-groups", suite.assetController.GetGroups)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "success", response.Status)
}

// TestGetGroupByIDNotFound tests group retrieval for an unknown ID
func (suite *AssetControllerTestSuite) TestGetGroupByIDNotFound() {
	suite.mockService.On("GetGroupByID", "nonexistent").Return(nil, errors.New("asset group not found"))

	req, _ := http.NewRequest(http.MethodGet, "/asset-groups/nonexistent", nil)
	w := httptest.NewRecorder()

	suite.router.GET("/asset-groups/:id", suite.assetController.GetGroupByID)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestDeleteGroupWithAssets tests deleting a group that still has assets
func (suite *AssetControllerTestSuite) TestDeleteGroupWithAssets() {
	suite.mockService.On("DeleteGroup", "group-123").Return(errors.New("asset group still has assets assigned"))

	req, _ := http.NewRequest(http.MethodDelete, "/asset-groups/group-123", nil)
	w := httptest.NewRecorder()

	suite.router.DELETE("/asset-groups/:id", suite.assetController.DeleteGroup)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "BusinessError", response.Error.Type)
}
