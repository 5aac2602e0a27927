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

// MockBookingService implements BookingServiceInterface for testing
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, req *models.CreateBookingRequest, userID string) (*models.Booking, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) GetBookings(filter *models.BookingFilter) ([]*models.Booking, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingService) GetBookingByID(id string) (*models.Booking, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) UpdateBooking(id string, req *models.UpdateBookingRequest, updatedBy string) (*models.Booking, error) {
	args := m.Called(id, req, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) CheckOut(id string, userID string) (*models.Booking, error) {
	args := m.Called(id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) CheckIn(id string, req *models.CheckInRequest, userID string) (*models.Booking, error) {
	args := m.Called(id, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) CancelBooking(id string, req *models.CancelBookingRequest, userID string) (*models.Booking, error) {
	args := m.Called(id, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

// BookingControllerTestSuite contains the test suite for BookingController
type BookingControllerTestSuite struct {
	suite.Suite
	bookingController *BookingController
	mockService       *MockBookingService
	mockLogger        *MockControllerLogger
	ctx               context.Context
	router            *gin.Engine
}

func (suite *BookingControllerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.ctx = context.Background()
	suite.mockService = &MockBookingService{}
	suite.mockLogger = &MockControllerLogger{}
	setupMockLogger(suite.mockLogger)

	suite.bookingController = NewBookingController(suite.ctx, suite.mockService, suite.mockLogger)
	suite.router = gin.New()
}

func TestBookingControllerTestSuite(t *testing.T) {
	suite.Run(t, new(BookingControllerTestSuite))
}

// TestCreateBooking tests successful booking creation
func (suite *BookingControllerTestSuite) TestCreateBooking() {
	createReq := models.CreateBookingRequest{
		AssetID:   "asset-1",
		Purpose:   "Sunday service",
		StartDate: "2025-06-01",
		EndDate:   "2025-06-02",
	}

	expectedBooking := &models.Booking{
		BookingID: "booking-123",
		AssetID:   "asset-1",
		UserID:    "user-1",
		StartDate: "2025-06-01",
		EndDate:   "2025-06-02",
		Status:    models.BookingStatusActive,
	}

	suite.mockService.On("CreateBooking", suite.ctx, mock.MatchedBy(func(req *models.CreateBookingRequest) bool {
		return req.AssetID == "asset-1" && req.StartDate == "2025-06-01"
	}), "user-1").Return(expectedBooking, nil)

	body, _ := json.Marshal(createReq)
	req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.POST("/bookings", func(c *gin.Context) {
		c.Set("jwt_claims", &models.JWTClaims{UserID: "user-1"})
		suite.bookingController.CreateBooking(c)
	})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "success", response.Status)
	assert.Equal(suite.T(), "Booking created successfully", response.Message)
}

// TestCreateBookingWindowConflict tests booking an asset that is already taken
func (suite *BookingControllerTestSuite) TestCreateBookingWindowConflict() {
	createReq := models.CreateBookingRequest{
		AssetID:   "asset-1",
		StartDate: "2025-06-01",
		EndDate:   "2025-06-02",
	}

	suite.mockService.On("CreateBooking", suite.ctx, mock.Anything, "user-1").Return(nil, errors.New("asset is already booked from 2025-06-01 to 2025-06-03"))

	body, _ := json.Marshal(createReq)
	req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.POST("/bookings", func(c *gin.Context) {
		c.Set("jwt_claims", &models.JWTClaims{UserID: "user-1"})
		suite.bookingController.CreateBooking(c)
	})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "BusinessError", response.Error.Type)
}

// TestCreateBookingBadDateFormat tests booking with a malformed date
func (suite *BookingControllerTestSuite) TestCreateBookingBadDateFormat() {
	body, _ := json.Marshal(map[string]string{
		"assetID":   "asset-1",
		"startDate": "01.06.2025",
		"endDate":   "2025-06-02",
	})
	req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.POST("/bookings", func(c *gin.Context) {
		c.Set("jwt_claims", &models.JWTClaims{UserID: "user-1"})
		suite.bookingController.CreateBooking(c)
	})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "ValidationError", response.Error.Type)
	assert.Contains(suite.T(), response.Error.Details, "StartDate must be formatted")
}

// TestCreateBookingUnknownAsset tests booking a nonexistent asset
func (suite *BookingControllerTestSuite) TestCreateBookingUnknownAsset() {
	createReq := models.CreateBookingRequest{
		AssetID:   "asset-404",
		StartDate: "2025-06-01",
		EndDate:   "2025-06-02",
	}

	suite.mockService.On("CreateBooking", suite.ctx, mock.Anything, "user-1").Return(nil, errors.New("asset not found"))

	body, _ := json.Marshal(createReq)
	req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.POST("/bookings", func(c *gin.Context) {
		c.Set("jwt_claims", &models.JWTClaims{UserID: "user-1"})
		suite.bookingController.CreateBooking(c)
	})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestGetBookings tests the booking list with filters
func (suite *BookingControllerTestSuite) TestGetBookings() {
	expectedBookings := []*models.Booking{
		{BookingID: "booking-1", AssetID: "asset-1", Status: models.BookingStatusActive},
	}

	suite.mockService.On("GetBookings", mock.MatchedBy(func(filter *models.BookingFilter) bool {
		return filter.AssetID == "asset-1" && filter.Status == models.BookingStatusActive
	})).Return(expectedBookings, nil)

	req, _ := http.NewRequest(http.MethodGet, "/bookings?assetID=asset-1&status=active", nil)
	w := httptest.NewRecorder()

	suite.router.GET("/bookings", suite.bookingController.GetBookings)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "success", response.Status)
}

// TestGetBookingByIDNotFound tests retrieval for an unknown booking
func (suite *BookingControllerTestSuite) TestGetBookingByIDNotFound() {
	suite.mockService.On("GetBookingByID", "nonexistent").Return(nil, errors.New("booking not found"))

	req, _ := http.NewRequest(http.MethodGet, "/bookings/nonexistent", nil)
	w := httptest.NewRecorder()

	suite.router.GET("/bookings/:id", suite.bookingController.GetBookingByID)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestUpdateBookingCompleted tests rescheduling a booking that already ended
func (suite *BookingControllerTestSuite) TestUpdateBookingCompleted() {
	updateReq := models.UpdateBookingRequest{EndDate: "2025-06-05"}

	suite.mockService.On("UpdateBooking", "booking-123", mock.Anything, "user-1").Return(nil, errors.New("only active bookings can be updated"))

	body, _ := json.Marshal(updateReq)
	req, _ := http.NewRequest(http.MethodPut, "/bookings/booking-123", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.PUT("/bookings/:id", func(c *gin.Context) {
		c.Set("jwt_claims", &models.JWTClaims{UserID: "user-1"})
		suite.bookingController.UpdateBooking(c)
	})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "BusinessError", response.Error.Type)
}

// TestCheckOut tests handing out a booked asset
func (suite *BookingControllerTestSuite) TestCheckOut() {
	expectedBooking := &models.Booking{
		BookingID: "booking-123",
		AssetID:   "asset-1",
		Status:    models.BookingStatusActive,
	}

	suite.mockService.On("CheckOut", "booking-123", "user-1").Return(expectedBooking, nil)

	req, _ := http.NewRequest(http.MethodPost, "/bookings/booking-123/checkout", nil)
	w := httptest.NewRecorder()

	suite.router.POST("/bookings/:id/checkout", func(c *gin.Context) {
		c.Set("jwt_claims", &models.JWTClaims{UserID: "user-1"})
		suite.bookingController.CheckOut(c)
	})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Asset checked out successfully", response.Message)
}

// TestCheckOutTwice tests checking out a booking that is already out
func (suite *BookingControllerTestSuite) TestCheckOutTwice() {
	suite.mockService.On("CheckOut", "booking-123", "user-1").Return(nil, errors.New("booking is already checked out"))

	req, _ := http.NewRequest(http.MethodPost, "/bookings/booking-123/checkout", nil)
	w := httptest.NewRecorder()

	suite.router.POST("/bookings/:id/checkout", func(c *gin.Context) {
		c.Set("jwt_claims", &models.JWTClaims{UserID: "user-1"})
		suite.bookingController.CheckOut(c)
	})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCheckIn tests returning an asset with usage hours
func (suite *BookingControllerTestSuite) TestCheckIn() {
	checkInReq := models.CheckInRequest{
		UsageHours: 3.5,
		Notes:      "No issues",
	}

	expectedBooking := &models.Booking{
		BookingID:        "booking-123",
		AssetID:          "asset-1",
		Status:           models.BookingStatusCompleted,
		UsageHoursLogged: 3.5,
	}

	suite.mockService.On("CheckIn", "booking-123", mock.MatchedBy(func(req *models.CheckInRequest) bool {
		return req.UsageHours == 3.5
	}), "user-1").Return(expectedBooking, nil)

	body, _ := json.Marshal(checkInReq)
	req, _ := http.NewRequest(http.MethodPost, "/bookings/booking-123/checkin", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.POST("/bookings/:id/checkin", func(c *gin.Context) {
		c.Set("jwt_claims", &models.JWTClaims{UserID: "user-1"})
		suite.bookingController.CheckIn(c)
	})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Asset checked in successfully", response.Message)
}

// TestCheckInNotCheckedOut tests checking in a booking that was never handed out
func (suite *BookingControllerTestSuite) TestCheckInNotCheckedOut() {
	checkInReq := models.CheckInRequest{UsageHours: 1}

	suite.mockService.On("CheckIn", "booking-123", mock.Anything, "user-1").Return(nil, errors.New("booking has not been checked out"))

	body, _ := json.Marshal(checkInReq)
	req, _ := http.NewRequest(http.MethodPost, "/bookings/booking-123/checkin", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.POST("/bookings/:id/checkin", func(c *gin.Context) {
		c.Set("jwt_claims", &models.JWTClaims{UserID: "user-1"})
		suite.bookingController.CheckIn(c)
	})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCancelBooking tests cancelling a booking with a reason
func (suite *BookingControllerTestSuite) TestCancelBooking() {
	cancelReq := models.CancelBookingRequest{Reason: "Event cancelled"}

	expectedBooking := &models.Booking{
		BookingID:    "booking-123",
		Status:       models.BookingStatusCancelled,
		CancelReason: "Event cancelled",
	}

	suite.mockService.On("CancelBooking", "booking-123", mock.MatchedBy(func(req *models.CancelBookingRequest) bool {
		return req.Reason == "Event cancelled"
	}), "user-1").Return(expectedBooking, nil)

	body, _ := json.Marshal(cancelReq)
	req, _ := http.NewRequest(http.MethodPost, "/bookings/booking-123/cancel", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.POST("/bookings/:id/cancel", func(c *gin.Context) {
		c.Set("jwt_claims", &models.JWTClaims{UserID: "user-1"})
		suite.bookingController.CancelBooking(c)
	})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response models.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Booking cancelled successfully", response.Message)
}

// TestCancelBookingTwice tests cancelling an already cancelled booking
func (suite *BookingControllerTestSuite) TestCancelBookingTwice() {
	suite.mockService.On("CancelBooking", "booking-123", mock.Anything, "user-1").Return(nil, errors.New("booking is already cancelled"))

	req, _ := http.NewRequest(http.MethodPost, "/bookings/booking-123/cancel", nil)
	w := httptest.NewRecorder()

	suite.router.POST("/bookings/:id/cancel", func(c *gin.Context) {
		c.Set("jwt_claims", &models.JWTClaims{UserID: "user-1"})
		suite.bookingController.CancelBooking(c)
	})
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}
