package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockSweepService implements SweepServiceInterface for testing
type MockSweepService struct {
	mock.Mock
}

func (m *MockSweepService) RunSweep(ctx context.Context, dryRun bool) (*models.SweepRun, error) {
	args := m.Called(ctx, dryRun)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SweepRun), args.Error(1)
}

func (m *MockSweepService) GetWorkerStatus() (*models.WorkerState, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkerState), args.Error(1)
}

func (m *MockSweepService) IsWorkerHealthy() (bool, string, error) {
	args := m.Called()
	return args.Bool(0), args.String(1), args.Error(2)
}

// WorkerControllerTestSuite contains the test suite for WorkerController
type WorkerControllerTestSuite struct {
	suite.Suite
	workerController *WorkerController
	mockService      *MockSweepService
	mockLogger       *MockControllerLogger
	ctx              context.Context
	router           *gin.Engine
}

func (suite *WorkerControllerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.ctx = context.Background()
	suite.mockService = &MockSweepService{}
	suite.mockLogger = &MockControllerLogger{}
	setupMockLogger(suite.mockLogger)

	suite.workerController = NewWorkerController(suite.ctx, suite.mockService, suite.mockLogger)
	suite.router = gin.New()
	suite.router.GET("/worker/status", suite.workerController.GetWorkerStatus)
	suite.router.GET("/worker/health", suite.workerController.CheckWorkerHealth)
	suite.router.POST("/worker/sweep", suite.workerController.RunSweep)
}

func TestWorkerControllerTestSuite(t *testing.T) {
	suite.Run(t, new(WorkerControllerTestSuite))
}

// TestGetWorkerStatusReady tests the status endpoint for a healthy worker
func (suite *WorkerControllerTestSuite) TestGetWorkerStatusReady() {
	state := &models.WorkerState{
		Success:         true,
		Status:          models.StatusCompleted,
		StartTime:       time.Now().Add(-time.Hour),
		SweepsCompleted: 4,
		Environment:     "test",
	}

	suite.mockService.On("GetWorkerStatus").Return(state, nil)

	req, _ := http.NewRequest(http.MethodGet, "/worker/status", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "success", response.Status)
	assert.Equal(suite.T(), "Worker is ready and healthy", response.Message)
}

// TestGetWorkerStatusFailed tests the status endpoint for a failed worker
func (suite *WorkerControllerTestSuite) TestGetWorkerStatusFailed() {
	state := &models.WorkerState{
		Success:      false,
		Status:       models.StatusFailed,
		ErrorMessage: "table provisioning failed",
		Environment:  "test",
	}

	suite.mockService.On("GetWorkerStatus").Return(state, nil)

	req, _ := http.NewRequest(http.MethodGet, "/worker/status", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "error", response.Status)
	assert.Equal(suite.T(), "Worker failed - manual intervention may be required", response.Message)
}

// TestGetWorkerStatusSweeping tests the status endpoint while a sweep runs
func (suite *WorkerControllerTestSuite) TestGetWorkerStatusSweeping() {
	state := &models.WorkerState{
		Status:      models.StatusSweeping,
		Environment: "test",
	}

	suite.mockService.On("GetWorkerStatus").Return(state, nil)

	req, _ := http.NewRequest(http.MethodGet, "/worker/status", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusAccepted, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "in_progress", response.Status)
	assert.Equal(suite.T(), "Maintenance sweep is running", response.Message)
}

// TestGetWorkerStatusError tests the status endpoint when the state file is unreadable
func (suite *WorkerControllerTestSuite) TestGetWorkerStatusError() {
	suite.mockService.On("GetWorkerStatus").Return(nil, errors.New("failed to read worker status file"))

	req, _ := http.NewRequest(http.MethodGet, "/worker/status", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusInternalServerError, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "WorkerError", response.Error.Type)
}

// TestCheckWorkerHealth tests the health endpoint for a healthy worker
func (suite *WorkerControllerTestSuite) TestCheckWorkerHealth() {
	suite.mockService.On("IsWorkerHealthy").Return(true, "Worker completed successfully", nil)

	req, _ := http.NewRequest(http.MethodGet, "/worker/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	data := response.Data.(map[string]interface{})
	assert.Equal(suite.T(), true, data["healthy"])
	assert.Equal(suite.T(), "healthy", data["status"])
}

// TestCheckWorkerHealthUnhealthy tests the health endpoint for a degraded worker
func (suite *WorkerControllerTestSuite) TestCheckWorkerHealthUnhealthy() {
	suite.mockService.On("IsWorkerHealthy").Return(false, "last sweep failed", nil)

	req, _ := http.NewRequest(http.MethodGet, "/worker/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	data := response.Data.(map[string]interface{})
	assert.Equal(suite.T(), false, data["healthy"])
	assert.Equal(suite.T(), "unhealthy", data["status"])
	assert.Equal(suite.T(), "last sweep failed", data["reason"])
}

// TestRunSweep tests triggering a manual sweep
func (suite *WorkerControllerTestSuite) TestRunSweep() {
	run := &models.SweepRun{
		StartTime:         time.Now().Add(-2 * time.Second),
		EndTime:           time.Now(),
		SchedulesChecked:  12,
		DueSchedules:      3,
		WorkOrdersCreated: 2,
	}

	suite.mockService.On("RunSweep", suite.ctx, false).Return(run, nil)

	req, _ := http.NewRequest(http.MethodPost, "/worker/sweep", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Sweep completed", response.Message)

	data := response.Data.(map[string]interface{})
	assert.Equal(suite.T(), float64(12), data["schedules_checked"])
	assert.Equal(suite.T(), float64(2), data["work_orders_created"])
}

// TestRunSweepDryRun tests triggering a dry-run sweep
func (suite *WorkerControllerTestSuite) TestRunSweepDryRun() {
	run := &models.SweepRun{
		DryRun:            true,
		SchedulesChecked:  12,
		DueSchedules:      3,
		WorkOrdersCreated: 0,
	}

	suite.mockService.On("RunSweep", suite.ctx, true).Return(run, nil)

	body, _ := json.Marshal(SweepRequest{DryRun: true})
	req, _ := http.NewRequest(http.MethodPost, "/worker/sweep", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Dry-run sweep completed", response.Message)
}

// TestRunSweepFailed tests a sweep that errors out
func (suite *WorkerControllerTestSuite) TestRunSweepFailed() {
	suite.mockService.On("RunSweep", suite.ctx, false).Return(nil, errors.New("failed to list schedules"))

	req, _ := http.NewRequest(http.MethodPost, "/worker/sweep", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusInternalServerError, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "error", response.Status)
	assert.Equal(suite.T(), "WorkerError", response.Error.Type)
}
