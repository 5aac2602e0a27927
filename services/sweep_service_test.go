package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/metrics"
)

// MockWorkOrderService implements the WorkOrderServiceInterface for testing
type MockWorkOrderService struct {
	mock.Mock
}

func (m *MockWorkOrderService) CreateWorkOrder(ctx context.Context, req *models.CreateWorkOrderRequest, createdBy string) (*models.WorkOrder, error) {
	args := m.Called(ctx, req, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderService) GetWorkOrders(filter *models.WorkOrderFilter) ([]*models.WorkOrder, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderService) GetWorkOrderByKey(key string) (*models.WorkOrder, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderService) UpdateWorkOrder(id string, req *models.UpdateWorkOrderRequest, updatedBy string) (*models.WorkOrder, error) {
	args := m.Called(id, req, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderService) PlanWorkOrder(id string, updatedBy string) (*models.WorkOrder, error) {
	args := m.Called(id, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderService) StartWorkOrder(id string, updatedBy string) (*models.WorkOrder, error) {
	args := m.Called(id, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderService) CompleteWorkOrder(id string, updatedBy string) (*models.WorkOrder, error) {
	args := m.Called(id, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderService) AbortWorkOrder(id string, req *models.AbortWorkOrderRequest, updatedBy string) (*models.WorkOrder, error) {
	args := m.Called(id, req, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderService) UpdateLineItem(orderID string, index int, req *models.UpdateLineItemRequest, updatedBy string) (*models.WorkOrder, error) {
	args := m.Called(orderID, index, req, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderService) GenerateForDueSchedule(ctx context.Context, schedule *models.MaintenanceSchedule, generatedBy string) (*models.WorkOrder, error) {
	args := m.Called(ctx, schedule, generatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkOrder), args.Error(1)
}

// SweepServiceTestSuite defines a test suite for SweepService functions
type SweepServiceTestSuite struct {
	suite.Suite
	ctx            context.Context
	mockSchedules  *MockScheduleRepository
	mockAssets     *MockAssetRepository
	mockWorkOrders *MockWorkOrderService
	config         *models.Config
	service        *SweepService
}

// SetupTest runs before each test
func (suite *SweepServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockSchedules = &MockScheduleRepository{}
	suite.mockAssets = &MockAssetRepository{}
	suite.mockWorkOrders = &MockWorkOrderService{}
	suite.config = &models.Config{
		AppEnv:              "sweeptest",
		SweepAutoWorkOrders: true,
	}

	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	suite.service = NewSweepService(suite.mockSchedules, suite.mockAssets, suite.mockWorkOrders, m, suite.config, newQuietLogger())
}

// TearDownTest runs after each test
func (suite *SweepServiceTestSuite) TearDownTest() {
	suite.mockSchedules.AssertExpectations(suite.T())
	suite.mockAssets.AssertExpectations(suite.T())
	suite.mockWorkOrders.AssertExpectations(suite.T())
}

// overdueTimeSchedule builds a time-based schedule whose stored due date is
// consistent with its interval and already in the past.
func overdueTimeSchedule(scheduleID, assetID string) *models.MaintenanceSchedule {
	performed := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -100)
	due := performed.AddDate(0, 0, 90)
	return &models.MaintenanceSchedule{
		ScheduleID:    scheduleID,
		AssetID:       assetID,
		ScheduleType:  models.ScheduleTypeTimeBased,
		IntervalDays:  intPtr(90),
		LastPerformed: &performed,
		NextDue:       &due,
		Active:        true,
	}
}

// TestRunSweepGeneratesWorkOrders tests that due schedules get orders created
func (suite *SweepServiceTestSuite) TestRunSweepGeneratesWorkOrders() {
	sched := overdueTimeSchedule("schedule-1", "asset-1")
	asset := &models.Asset{AssetID: "asset-1", Status: models.AssetStatusAvailable}

	suite.mockSchedules.On("GetActiveSchedules").Return([]*models.MaintenanceSchedule{sched}, nil)
	suite.mockAssets.On("GetAsset", "asset-1").Return(asset, nil)
	suite.mockWorkOrders.On("GenerateForDueSchedule", suite.ctx, sched, "maintenance-sweep").
		Return(&models.WorkOrder{WorkOrderID: "order-1", CreatedAt: time.Now().Add(time.Second)}, nil)

	run, err := suite.service.RunSweep(suite.ctx, false)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, run.SchedulesChecked)
	assert.Equal(suite.T(), 1, run.DueSchedules)
	assert.Equal(suite.T(), 1, run.OverdueSchedules)
	assert.Equal(suite.T(), 1, run.WorkOrdersCreated)
	assert.Equal(suite.T(), 0, run.WorkOrdersExisting)
	assert.Empty(suite.T(), run.Errors)
}

// TestRunSweepCountsExistingOrders tests that an already-open order is not
// counted as newly created
func (suite *SweepServiceTestSuite) TestRunSweepCountsExistingOrders() {
	sched := overdueTimeSchedule("schedule-1", "asset-1")
	asset := &models.Asset{AssetID: "asset-1", Status: models.AssetStatusAvailable}

	suite.mockSchedules.On("GetActiveSchedules").Return([]*models.MaintenanceSchedule{sched}, nil)
	suite.mockAssets.On("GetAsset", "asset-1").Return(asset, nil)
	suite.mockWorkOrders.On("GenerateForDueSchedule", suite.ctx, sched, "maintenance-sweep").
		Return(&models.WorkOrder{WorkOrderID: "order-1", CreatedAt: time.Now().Add(-time.Hour)}, nil)

	run, err := suite.service.RunSweep(suite.ctx, false)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, run.WorkOrdersCreated)
	assert.Equal(suite.T(), 1, run.WorkOrdersExisting)
}

// TestRunSweepDryRun tests that a dry run neither persists nor generates
func (suite *SweepServiceTestSuite) TestRunSweepDryRun() {
	sched := overdueTimeSchedule("schedule-1", "asset-1")
	// A drifted stored due date is detected but not persisted.
	drifted := sched.NextDue.AddDate(0, 0, -7)
	sched.NextDue = &drifted
	asset := &models.Asset{AssetID: "asset-1", Status: models.AssetStatusAvailable}

	suite.mockSchedules.On("GetActiveSchedules").Return([]*models.MaintenanceSchedule{sched}, nil)
	suite.mockAssets.On("GetAsset", "asset-1").Return(asset, nil)

	run, err := suite.service.RunSweep(suite.ctx, true)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), run.DryRun)
	assert.Equal(suite.T(), 1, run.NextDueRefreshed)
	assert.Equal(suite.T(), 1, run.DueSchedules)
	assert.Equal(suite.T(), 0, run.WorkOrdersCreated)
}

// TestRunSweepRefreshPersists tests that a drifted due date is written back
func (suite *SweepServiceTestSuite) TestRunSweepRefreshPersists() {
	sched := overdueTimeSchedule("schedule-1", "asset-1")
	expected := *sched.NextDue
	drifted := expected.AddDate(0, 0, -7)
	sched.NextDue = &drifted
	asset := &models.Asset{AssetID: "asset-1", Status: models.AssetStatusAvailable}

	refreshed := *sched
	refreshed.NextDue = &expected

	suite.mockSchedules.On("GetActiveSchedules").Return([]*models.MaintenanceSchedule{sched}, nil)
	suite.mockAssets.On("GetAsset", "asset-1").Return(asset, nil)
	suite.mockSchedules.On("UpdateSchedule", "schedule-1", mock.MatchedBy(func(sc *models.MaintenanceSchedule) bool {
		return sc.NextDue != nil && sc.NextDue.Equal(expected) && sc.UpdatedBy == "maintenance-sweep"
	})).Return(&refreshed, nil)
	suite.mockWorkOrders.On("GenerateForDueSchedule", suite.ctx, mock.Anything, "maintenance-sweep").
		Return(&models.WorkOrder{WorkOrderID: "order-1", CreatedAt: time.Now().Add(time.Second)}, nil)

	run, err := suite.service.RunSweep(suite.ctx, false)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, run.NextDueRefreshed)
}

// TestRunSweepSkipsRetiredAssets tests that retired assets never demand work
func (suite *SweepServiceTestSuite) TestRunSweepSkipsRetiredAssets() {
	sched := overdueTimeSchedule("schedule-1", "asset-1")
	asset := &models.Asset{AssetID: "asset-1", Status: models.AssetStatusRetired}

	suite.mockSchedules.On("GetActiveSchedules").Return([]*models.MaintenanceSchedule{sched}, nil)
	suite.mockAssets.On("GetAsset", "asset-1").Return(asset, nil)

	run, err := suite.service.RunSweep(suite.ctx, false)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, run.SchedulesChecked)
	assert.Equal(suite.T(), 0, run.DueSchedules)
	assert.Equal(suite.T(), 0, run.OverdueSchedules)
}

// TestRunSweepUsageDue tests that counter-based schedules trigger without a date
func (suite *SweepServiceTestSuite) TestRunSweepUsageDue() {
	sched := &models.MaintenanceSchedule{
		ScheduleID:    "schedule-1",
		AssetID:       "asset-1",
		ScheduleType:  models.ScheduleTypeUsageBased,
		IntervalHours: floatPtr(100),
		Active:        true,
	}
	asset := &models.Asset{
		AssetID:              "asset-1",
		Status:               models.AssetStatusAvailable,
		CurrentUsageHours:    150,
		LastMaintenanceHours: 0,
	}

	suite.mockSchedules.On("GetActiveSchedules").Return([]*models.MaintenanceSchedule{sched}, nil)
	suite.mockAssets.On("GetAsset", "asset-1").Return(asset, nil)
	suite.mockWorkOrders.On("GenerateForDueSchedule", suite.ctx, sched, "maintenance-sweep").
		Return(&models.WorkOrder{WorkOrderID: "order-1", CreatedAt: time.Now().Add(time.Second)}, nil)

	run, err := suite.service.RunSweep(suite.ctx, false)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, run.DueSchedules)
	assert.Equal(suite.T(), 0, run.OverdueSchedules)
	assert.Equal(suite.T(), 1, run.WorkOrdersCreated)
}

// TestRunSweepAutoWorkOrdersDisabled tests the generation switch
func (suite *SweepServiceTestSuite) TestRunSweepAutoWorkOrdersDisabled() {
	suite.config.SweepAutoWorkOrders = false

	sched := overdueTimeSchedule("schedule-1", "asset-1")
	asset := &models.Asset{AssetID: "asset-1", Status: models.AssetStatusAvailable}

	suite.mockSchedules.On("GetActiveSchedules").Return([]*models.MaintenanceSchedule{sched}, nil)
	suite.mockAssets.On("GetAsset", "asset-1").Return(asset, nil)

	run, err := suite.service.RunSweep(suite.ctx, false)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, run.DueSchedules)
	assert.Equal(suite.T(), 0, run.WorkOrdersCreated)
}

// TestRunSweepAssetLookupFailure tests that one broken schedule does not stop
// the sweep
func (suite *SweepServiceTestSuite) TestRunSweepAssetLookupFailure() {
	broken := overdueTimeSchedule("schedule-1", "asset-404")
	healthy := overdueTimeSchedule("schedule-2", "asset-2")
	asset := &models.Asset{AssetID: "asset-2", Status: models.AssetStatusAvailable}

	suite.mockSchedules.On("GetActiveSchedules").Return([]*models.MaintenanceSchedule{broken, healthy}, nil)
	suite.mockAssets.On("GetAsset", "asset-404").Return(nil, assert.AnError)
	suite.mockAssets.On("GetAsset", "asset-2").Return(asset, nil)
	suite.mockWorkOrders.On("GenerateForDueSchedule", suite.ctx, healthy, "maintenance-sweep").
		Return(&models.WorkOrder{WorkOrderID: "order-1", CreatedAt: time.Now().Add(time.Second)}, nil)

	run, err := suite.service.RunSweep(suite.ctx, false)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, run.SchedulesChecked)
	assert.Len(suite.T(), run.Errors, 1)
	assert.Contains(suite.T(), run.Errors[0], "asset-404")
	assert.Equal(suite.T(), 1, run.WorkOrdersCreated)
}

// TestRunSweepScheduleLoadFailure tests the fatal load error
func (suite *SweepServiceTestSuite) TestRunSweepScheduleLoadFailure() {
	suite.mockSchedules.On("GetActiveSchedules").Return(nil, assert.AnError)

	_, err := suite.service.RunSweep(suite.ctx, false)

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "failed to load active schedules")
}

// writeWorkerStatus writes a worker status file the way the worker does
func (suite *SweepServiceTestSuite) writeWorkerStatus(state *models.WorkerState) string {
	path := fmt.Sprintf("/tmp/inventory-sweep-status-%s.json", suite.config.AppEnv)
	data, err := json.Marshal(state)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), os.WriteFile(path, data, 0644))
	return path
}

// TestGetWorkerStatus tests reading and enriching the worker status file
func (suite *SweepServiceTestSuite) TestGetWorkerStatus() {
	path := suite.writeWorkerStatus(&models.WorkerState{
		Success:   true,
		Status:    models.StatusCompleted,
		StartTime: time.Now().Add(-time.Minute),
	})
	defer os.Remove(path)

	state, err := suite.service.GetWorkerStatus()

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "healthy", state.HealthStatus)
	assert.Equal(suite.T(), "Waiting for the next scheduled sweep", state.NextAction)
}

// TestGetWorkerStatusMissingFile tests the unreadable status file
func (suite *SweepServiceTestSuite) TestGetWorkerStatusMissingFile() {
	os.Remove(fmt.Sprintf("/tmp/inventory-sweep-status-%s.json", suite.config.AppEnv))

	_, err := suite.service.GetWorkerStatus()

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "failed to read worker status file")
}

// TestIsWorkerHealthy tests the health verdicts per worker state
func (suite *SweepServiceTestSuite) TestIsWorkerHealthy() {
	testCases := []struct {
		name            string
		state           *models.WorkerState
		expectedHealthy bool
		expectedMessage string
	}{
		{
			name:            "Completed successfully",
			state:           &models.WorkerState{Status: models.StatusCompleted, Success: true},
			expectedHealthy: true,
			expectedMessage: "Worker completed successfully",
		},
		{
			name:            "Completed with errors",
			state:           &models.WorkerState{Status: models.StatusCompleted, Success: false},
			expectedHealthy: false,
			expectedMessage: "Worker completed with errors",
		},
		{
			name:            "Sweep running",
			state:           &models.WorkerState{Status: models.StatusSweeping, StartTime: time.Now().Add(-time.Minute)},
			expectedHealthy: true,
			expectedMessage: "Sweep is running normally",
		},
		{
			name:            "Sweep stuck",
			state:           &models.WorkerState{Status: models.StatusSweeping, StartTime: time.Now().Add(-time.Hour)},
			expectedHealthy: false,
			expectedMessage: "Sweep running too long",
		},
		{
			name:            "Provisioning",
			state:           &models.WorkerState{Status: models.StatusCreatingTables},
			expectedHealthy: true,
			expectedMessage: "Worker is provisioning tables",
		},
		{
			name:            "Failed",
			state:           &models.WorkerState{Status: models.StatusFailed, ErrorMessage: "table creation failed"},
			expectedHealthy: false,
			expectedMessage: "Worker failed: table creation failed",
		},
		{
			name:            "Stuck retrying",
			state:           &models.WorkerState{Status: models.StatusRetrying, RetryCount: 6},
			expectedHealthy: false,
			expectedMessage: "Worker stuck in retry loop",
		},
	}

	for _, tc := range testCases {
		suite.T().Run(tc.name, func(t *testing.T) {
			path := suite.writeWorkerStatus(tc.state)
			defer os.Remove(path)

			healthy, message, err := suite.service.IsWorkerHealthy()

			assert.NoError(t, err)
			assert.Equal(t, tc.expectedHealthy, healthy)
			assert.Equal(t, tc.expectedMessage, message)
		})
	}
}

// Run the test suite
func TestSweepServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SweepServiceTestSuite))
}
