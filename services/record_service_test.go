package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
)

// RecordServiceTestSuite defines a test suite for RecordService functions
type RecordServiceTestSuite struct {
	suite.Suite
	ctx           context.Context
	mockRepo      *MockRecordRepository
	mockAssets    *MockAssetRepository
	mockSchedules *MockScheduleRepository
	service       *RecordService
}

// SetupTest runs before each test
func (suite *RecordServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockRepo = &MockRecordRepository{}
	suite.mockAssets = &MockAssetRepository{}
	suite.mockSchedules = &MockScheduleRepository{}

	suite.service = NewRecordService(suite.mockRepo, suite.mockAssets, suite.mockSchedules, newQuietLogger())
}

// TearDownTest runs after each test
func (suite *RecordServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockAssets.AssertExpectations(suite.T())
	suite.mockSchedules.AssertExpectations(suite.T())
}

// TestCreateRecord tests logging ad-hoc maintenance without a schedule
func (suite *RecordServiceTestSuite) TestCreateRecord() {
	asset := &models.Asset{AssetID: "asset-123"}

	suite.mockAssets.On("GetAsset", "asset-123").Return(asset, nil)
	suite.mockRepo.On("CreateRecord", suite.ctx, mock.MatchedBy(func(r *models.MaintenanceRecord) bool {
		return r.AssetID == "asset-123" &&
			r.MaintenanceType == "repair" &&
			r.Date.Format("2006-01-02") == "2026-08-01" &&
			r.Cost.String() == "129.9"
	})).Return(&models.MaintenanceRecord{RecordID: "record-123"}, nil)

	req := &models.CreateMaintenanceRecordRequest{
		AssetID:         "asset-123",
		Date:            "2026-08-01",
		MaintenanceType: "repair",
		Cost:            "129.90",
		PerformedBy:     "Hans Mayer",
	}
	result, err := suite.service.CreateRecord(suite.ctx, req, "user-1")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "record-123", result.RecordID)
}

// TestCreateRecordAdvancesSchedule tests that a schedule-linked record moves
// the schedule forward and resets the asset counters
func (suite *RecordServiceTestSuite) TestCreateRecordAdvancesSchedule() {
	asset := &models.Asset{AssetID: "asset-123", CurrentUsageHours: 87.5}
	performed := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	schedule := &models.MaintenanceSchedule{
		ScheduleID:   "schedule-123",
		AssetID:      "asset-123",
		ScheduleType: models.ScheduleTypeTimeBased,
		IntervalDays: intPtr(30),
		Active:       true,
	}

	suite.mockAssets.On("GetAsset", "asset-123").Return(asset, nil)
	suite.mockRepo.On("CreateRecord", suite.ctx, mock.Anything).Return(&models.MaintenanceRecord{RecordID: "record-123"}, nil)
	suite.mockSchedules.On("GetSchedule", "schedule-123").Return(schedule, nil)
	suite.mockSchedules.On("UpdateSchedule", "schedule-123", mock.MatchedBy(func(sc *models.MaintenanceSchedule) bool {
		expected := performed.AddDate(0, 0, 30)
		return sc.LastPerformed != nil && sc.LastPerformed.Equal(performed) &&
			sc.NextDue != nil && sc.NextDue.Equal(expected)
	})).Return(schedule, nil)
	suite.mockAssets.On("UpdateAsset", "asset-123", mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["lastMaintenanceHours"] == 87.5 && u["bookingsSinceMaintenance"] == 0
	})).Return(asset, nil)

	req := &models.CreateMaintenanceRecordRequest{
		AssetID:         "asset-123",
		ScheduleID:      "schedule-123",
		Date:            "2026-08-01",
		MaintenanceType: "scheduled maintenance",
		PerformedBy:     "Hans Mayer",
	}
	_, err := suite.service.CreateRecord(suite.ctx, req, "user-1")

	assert.NoError(suite.T(), err)
}

// TestCreateRecordScheduleMissing tests that a vanished schedule does not
// invalidate the record itself
func (suite *RecordServiceTestSuite) TestCreateRecordScheduleMissing() {
	asset := &models.Asset{AssetID: "asset-123"}

	suite.mockAssets.On("GetAsset", "asset-123").Return(asset, nil)
	suite.mockRepo.On("CreateRecord", suite.ctx, mock.Anything).Return(&models.MaintenanceRecord{RecordID: "record-123"}, nil)
	suite.mockSchedules.On("GetSchedule", "schedule-404").Return(nil, assert.AnError)

	req := &models.CreateMaintenanceRecordRequest{
		AssetID:         "asset-123",
		ScheduleID:      "schedule-404",
		Date:            "2026-08-01",
		MaintenanceType: "scheduled maintenance",
		PerformedBy:     "Hans Mayer",
	}
	result, err := suite.service.CreateRecord(suite.ctx, req, "user-1")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "record-123", result.RecordID)
}

// TestCreateRecordValidationErrors tests creation with invalid requests
func (suite *RecordServiceTestSuite) TestCreateRecordValidationErrors() {
	testCases := []struct {
		name        string
		req         *models.CreateMaintenanceRecordRequest
		expectedErr string
	}{
		{
			name:        "Nil request",
			req:         nil,
			expectedErr: "record request is required",
		},
		{
			name:        "Missing asset",
			req:         &models.CreateMaintenanceRecordRequest{MaintenanceType: "repair", PerformedBy: "Hans"},
			expectedErr: "asset ID is required",
		},
		{
			name:        "Missing type",
			req:         &models.CreateMaintenanceRecordRequest{AssetID: "asset-123", PerformedBy: "Hans"},
			expectedErr: "maintenance type is required",
		},
		{
			name:        "Missing performer",
			req:         &models.CreateMaintenanceRecordRequest{AssetID: "asset-123", MaintenanceType: "repair"},
			expectedErr: "performed by is required",
		},
	}

	for _, tc := range testCases {
		suite.T().Run(tc.name, func(t *testing.T) {
			_, err := suite.service.CreateRecord(suite.ctx, tc.req, "user-1")
			assert.Error(t, err)
			assert.Equal(t, tc.expectedErr, err.Error())
		})
	}
}

// TestCreateRecordBadCost tests rejection of a non-decimal cost
func (suite *RecordServiceTestSuite) TestCreateRecordBadCost() {
	suite.mockAssets.On("GetAsset", "asset-123").Return(&models.Asset{AssetID: "asset-123"}, nil)

	req := &models.CreateMaintenanceRecordRequest{
		AssetID:         "asset-123",
		Date:            "2026-08-01",
		MaintenanceType: "repair",
		Cost:            "hundred",
		PerformedBy:     "Hans Mayer",
	}
	_, err := suite.service.CreateRecord(suite.ctx, req, "user-1")

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "cost must be a decimal number")
}

// TestGetRecordByIDValidation tests the blank identifier guard
func (suite *RecordServiceTestSuite) TestGetRecordByIDValidation() {
	_, err := suite.service.GetRecordByID(" ")

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "record ID is required")
}

// Run the test suite
func TestRecordServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecordServiceTestSuite))
}
