package controller

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/services"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type BookingController struct {
	ctx            context.Context
	bookingService services.BookingServiceInterface
	logger         logger.Logger
	validator      *validator.Validate
}

func NewBookingController(ctx context.Context, bookingService services.BookingServiceInterface, logger logger.Logger) *BookingController {
	return &BookingController{
		ctx:            ctx,
		bookingService: bookingService,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *BookingController) formatValidationErrors(err error) string {
	var errorMessages []string

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			switch fieldError.Tag() {
			case "required":
				errorMessages = append(errorMessages, fieldError.Field()+" is required")
			case "min":
				errorMessages = append(errorMessages, fieldError.Field()+" must be at least "+fieldError.Param()+" characters/items")
			case "max":
				errorMessages = append(errorMessages, fieldError.Field()+" must be at most "+fieldError.Param()+" characters/items")
			case "datetime":
				errorMessages = append(errorMessages, fieldError.Field()+" must be formatted "+fieldError.Param())
			case "oneof":
				errorMessages = append(errorMessages, fieldError.Field()+" must be one of: "+strings.ReplaceAll(fieldError.Param(), " ", ", "))
			default:
				errorMessages = append(errorMessages, fieldError.Field()+" is invalid")
			}
		}
	}

	return strings.Join(errorMessages, "; ")
}

// CreateBooking handles POST /api/v1/bookings
// @Summary Create a new booking
// @Description Reserve an asset for a date window
// @Tags Booking Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateBookingRequest true "Create booking request"
// @Success 201 {object} models.APIResponse "Booking created successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid booking data or window conflict"
// @Failure 404 {object} models.APIResponse "Asset not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Booking creation failed"
// @Router /bookings [post]
func (h *BookingController) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON:", err)
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Invalid request",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: err.Error(),
			},
		})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.logger.Error("Validation failed:", err)
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Validation failed",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: h.formatValidationErrors(err),
			},
		})
		return
	}

	claims, exists := c.Get("jwt_claims")
	if !exists {
		h.logger.Error("JWT claims not found in context")
		c.JSON(http.StatusUnauthorized, models.APIResponse{
			Status:  "error",
			Code:    http.StatusUnauthorized,
			Message: "Authentication required",
			Error: &models.APIError{
				Type:    "AuthenticationError",
				Details: "User not authenticated",
			},
		})
		return
	}

	jwtClaims, ok := claims.(*models.JWTClaims)
	if !ok {
		h.logger.Error("Invalid JWT claims type")
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Invalid token claims",
			Error: &models.APIError{
				Type:    "TokenError",
				Details: "Invalid token structure",
			},
		})
		return
	}

	booking, err := h.bookingService.CreateBooking(h.ctx, &req, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "asset not found" {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "cannot be booked") ||
			strings.Contains(err.Error(), "already booked") ||
			strings.Contains(err.Error(), "must be formatted") ||
			strings.Contains(err.Error(), "must not be before") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to create booking", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to create booking",
			Error: &models.APIError{
				Type:    "BusinessError",
				Details: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, models.APIResponse{
		Status:  "success",
		Code:    http.StatusCreated,
		Message: "Booking created successfully",
		Data:    booking,
	})
}

// GetBookings handles GET /api/v1/bookings
// @Summary Get bookings with optional filtering
// @Description Retrieve a list of bookings with optional filtering
// @Tags Booking Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param page query int false "Page number for pagination"
// @Param limit query int false "Number of bookings per page"
// @Param assetID query string false "Filter by asset ID"
// @Param userID query string false "Filter by booking user"
// @Param status query string false "Filter by booking status"
// @Param fromDate query string false "Filter from date (YYYY-MM-DD)"
// @Param toDate query string false "Filter to date (YYYY-MM-DD)"
// @Success 200 {object} models.APIResponse "Bookings retrieved successfully"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Failed to retrieve bookings"
// @Router /bookings [get]
func (h *BookingController) GetBookings(c *gin.Context) {
	page := 1
	limit := 10

	if pageParam := c.Query("page"); pageParam != "" {
		if p, err := strconv.Atoi(pageParam); err == nil && p > 0 {
			page = p
		}
	}

	if limitParam := c.Query("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	filter := &models.BookingFilter{
		AssetID:  c.Query("assetID"),
		UserID:   c.Query("userID"),
		FromDate: c.Query("fromDate"),
		ToDate:   c.Query("toDate"),
	}

	if status := c.Query("status"); status != "" {
		filter.Status = models.BookingStatus(status)
	}

	bookings, err := h.bookingService.GetBookings(filter)
	if err != nil {
		h.logger.Error("Failed to get bookings", err)
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Failed to get bookings",
			Error: &models.APIError{
				Type:    "DatabaseError",
				Details: err.Error(),
			},
		})
		return
	}

	total := len(bookings)
	totalPages := (total + limit - 1) / limit
	offset := (page - 1) * limit

	var paginatedBookings []*models.Booking
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		paginatedBookings = bookings[offset:end]
	} else {
		paginatedBookings = []*models.Booking{}
	}

	responseData := map[string]interface{}{
		"bookings": paginatedBookings,
		"pagination": map[string]interface{}{
			"page":         page,
			"limit":        limit,
			"total":        total,
			"total_pages":  totalPages,
			"has_next":     page < totalPages,
			"has_previous": page > 1,
		},
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Bookings retrieved successfully",
		Data:    responseData,
	})
}

// GetBookingByID handles GET /api/v1/bookings/{id}
// @Summary Get booking by ID
// @Description Get a specific booking by its ID
// @Tags Booking Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} models.APIResponse "Booking retrieved successfully"
// @Failure 404 {object} models.APIResponse "Booking not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /bookings/{id} [get]
func (h *BookingController) GetBookingByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Booking ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Booking ID parameter is missing",
			},
		})
		return
	}

	booking, err := h.bookingService.GetBookingByID(id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "booking not found" {
			statusCode = http.StatusNotFound
		}
		h.logger.Error("Failed to get booking", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to get booking",
			Error: &models.APIError{
				Type:    "DatabaseError",
				Details: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Booking retrieved successfully",
		Data:    booking,
	})
}

// UpdateBooking handles PUT /api/v1/bookings/{id}
// @Summary Update booking
// @Description Reschedule or annotate an active booking before check-out
// @Tags Booking Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body models.UpdateBookingRequest true "Update booking request"
// @Success 200 {object} models.APIResponse "Booking updated successfully"
// @Failure 400 {object} models.APIResponse "Bad Request"
// @Failure 404 {object} models.APIResponse "Booking not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /bookings/{id} [put]
func (h *BookingController) UpdateBooking(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Booking ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Booking ID parameter is missing",
			},
		})
		return
	}

	var req models.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON:", err)
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Invalid request",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: err.Error(),
			},
		})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.logger.Error("Validation failed:", err)
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Validation failed",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: h.formatValidationErrors(err),
			},
		})
		return
	}

	claims, exists := c.Get("jwt_claims")
	if !exists {
		h.logger.Error("JWT claims not found in context")
		c.JSON(http.StatusUnauthorized, models.APIResponse{
			Status:  "error",
			Code:    http.StatusUnauthorized,
			Message: "Authentication required",
			Error: &models.APIError{
				Type:    "AuthenticationError",
				Details: "User not authenticated",
			},
		})
		return
	}

	jwtClaims, ok := claims.(*models.JWTClaims)
	if !ok {
		h.logger.Error("Invalid JWT claims type")
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Invalid token claims",
			Error: &models.APIError{
				Type:    "TokenError",
				Details: "Invalid token structure",
			},
		})
		return
	}

	booking, err := h.bookingService.UpdateBooking(id, &req, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "booking not found" {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "only active bookings") ||
			strings.Contains(err.Error(), "cannot be updated") ||
			strings.Contains(err.Error(), "already booked") ||
			strings.Contains(err.Error(), "must be formatted") ||
			strings.Contains(err.Error(), "must not be before") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to update booking", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to update booking",
			Error: &models.APIError{
				Type:    "BusinessError",
				Details: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Booking updated successfully",
		Data:    booking,
	})
}

// CheckOut handles POST /api/v1/bookings/{id}/checkout
// @Summary Check out a booked asset
// @Description Hand the asset over to the booking user and mark it checked out
// @Tags Booking Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} models.APIResponse "Asset checked out successfully"
// @Failure 400 {object} models.APIResponse "Bad Request"
// @Failure 404 {object} models.APIResponse "Booking not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /bookings/{id}/checkout [post]
func (h *BookingController) CheckOut(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Booking ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Booking ID parameter is missing",
			},
		})
		return
	}

	claims, exists := c.Get("jwt_claims")
	if !exists {
		h.logger.Error("JWT claims not found in context")
		c.JSON(http.StatusUnauthorized, models.APIResponse{
			Status:  "error",
			Code:    http.StatusUnauthorized,
			Message: "Authentication required",
			Error: &models.APIError{
				Type:    "AuthenticationError",
				Details: "User not authenticated",
			},
		})
		return
	}

	jwtClaims, ok := claims.(*models.JWTClaims)
	if !ok {
		h.logger.Error("Invalid JWT claims type")
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Invalid token claims",
			Error: &models.APIError{
				Type:    "TokenError",
				Details: "Invalid token structure",
			},
		})
		return
	}

	booking, err := h.bookingService.CheckOut(id, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "booking not found" {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "only active bookings") ||
			strings.Contains(err.Error(), "already checked out") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to check out booking", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to check out booking",
			Error: &models.APIError{
				Type:    "BusinessError",
				Details: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Asset checked out successfully",
		Data:    booking,
	})
}

// CheckIn handles POST /api/v1/bookings/{id}/checkin
// @Summary Check in a booked asset
// @Description Return the asset, log usage hours and complete the booking
// @Tags Booking Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body models.CheckInRequest true "Check in request"
// @Success 200 {object} models.APIResponse "Asset checked in successfully"
// @Failure 400 {object} models.APIResponse "Bad Request"
// @Failure 404 {object} models.APIResponse "Booking not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /bookings/{id}/checkin [post]
func (h *BookingController) CheckIn(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Booking ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Booking ID parameter is missing",
			},
		})
		return
	}

	var req models.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON:", err)
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Invalid request",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: err.Error(),
			},
		})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.logger.Error("Validation failed:", err)
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Validation failed",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: h.formatValidationErrors(err),
			},
		})
		return
	}

	claims, exists := c.Get("jwt_claims")
	if !exists {
		h.logger.Error("JWT claims not found in context")
		c.JSON(http.StatusUnauthorized, models.APIResponse{
			Status:  "error",
			Code:    http.StatusUnauthorized,
			Message: "Authentication required",
			Error: &models.APIError{
				Type:    "AuthenticationError",
				Details: "User not authenticated",
			},
		})
		return
	}

	jwtClaims, ok := claims.(*models.JWTClaims)
	if !ok {
		h.logger.Error("Invalid JWT claims type")
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Invalid token claims",
			Error: &models.APIError{
				Type:    "TokenError",
				Details: "Invalid token structure",
			},
		})
		return
	}

	booking, err := h.bookingService.CheckIn(id, &req, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "booking not found" {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "has not been checked out") ||
			strings.Contains(err.Error(), "already checked in") ||
			strings.Contains(err.Error(), "cannot be negative") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to check in booking", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to check in booking",
			Error: &models.APIError{
				Type:    "BusinessError",
				Details: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Asset checked in successfully",
		Data:    booking,
	})
}

// CancelBooking handles POST /api/v1/bookings/{id}/cancel
// @Summary Cancel a booking
// @Description Cancel a booking and release the asset if it was already handed out
// @Tags Booking Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body models.CancelBookingRequest false "Cancel reason"
// @Success 200 {object} models.APIResponse "Booking cancelled successfully"
// @Failure 400 {object} models.APIResponse "Bad Request"
// @Failure 404 {object} models.APIResponse "Booking not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /bookings/{id}/cancel [post]
func (h *BookingController) CancelBooking(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Booking ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Booking ID parameter is missing",
			},
		})
		return
	}

	var req models.CancelBookingRequest
	c.ShouldBindJSON(&req)

	claims, exists := c.Get("jwt_claims")
	if !exists {
		h.logger.Error("JWT claims not found in context")
		c.JSON(http.StatusUnauthorized, models.APIResponse{
			Status:  "error",
			Code:    http.StatusUnauthorized,
			Message: "Authentication required",
			Error: &models.APIError{
				Type:    "AuthenticationError",
				Details: "User not authenticated",
			},
		})
		return
	}

	jwtClaims, ok := claims.(*models.JWTClaims)
	if !ok {
		h.logger.Error("Invalid JWT claims type")
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Invalid token claims",
			Error: &models.APIError{
				Type:    "TokenError",
				Details: "Invalid token structure",
			},
		})
		return
	}

	booking, err := h.bookingService.CancelBooking(id, &req, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "booking not found" {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "cannot be cancelled") ||
			strings.Contains(err.Error(), "already cancelled") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to cancel booking", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to cancel booking",
			Error: &models.APIError{
				Type:    "BusinessError",
				Details: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Booking cancelled successfully",
		Data:    booking,
	})
}
