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

type ScheduleController struct {
	ctx             context.Context
	scheduleService services.ScheduleServiceInterface
	logger          logger.Logger
	validator       *validator.Validate
}

func NewScheduleController(ctx context.Context, scheduleService services.ScheduleServiceInterface, logger logger.Logger) *ScheduleController {
	return &ScheduleController{
		ctx:             ctx,
		scheduleService: scheduleService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *ScheduleController) formatValidationErrors(err error) string {
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

// CreateSchedule handles POST /api/v1/schedules
// @Summary Create a maintenance schedule
// @Description Attach a recurring maintenance schedule to an asset
// @Tags Maintenance Schedules
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateScheduleRequest true "Create schedule request"
// @Success 201 {object} models.APIResponse "Schedule created successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid schedule data"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Schedule creation failed"
// @Router /schedules [post]
func (h *ScheduleController) CreateSchedule(c *gin.Context) {
	var req models.CreateScheduleRequest
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

	schedule, err := h.scheduleService.CreateSchedule(h.ctx, &req, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "asset not found" ||
			strings.Contains(err.Error(), "needs a") ||
			strings.Contains(err.Error(), "needs an") ||
			strings.Contains(err.Error(), "must be formatted") ||
			strings.Contains(err.Error(), "unknown schedule type") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to create schedule", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to create schedule",
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
		Message: "Schedule created successfully",
		Data:    schedule,
	})
}

// GetSchedules handles GET /api/v1/schedules
// @Summary Get maintenance schedules with optional filtering
// @Description Retrieve a list of maintenance schedules with optional filtering
// @Tags Maintenance Schedules
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param page query int false "Page number for pagination"
// @Param limit query int false "Number of schedules per page"
// @Param assetID query string false "Filter by asset ID"
// @Param scheduleType query string false "Filter by schedule type"
// @Param active query bool false "Filter by active flag"
// @Success 200 {object} models.APIResponse "Schedules retrieved successfully"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Failed to retrieve schedules"
// @Router /schedules [get]
func (h *ScheduleController) GetSchedules(c *gin.Context) {
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

	filter := &models.ScheduleFilter{
		AssetID: c.Query("assetID"),
	}

	if scheduleType := c.Query("scheduleType"); scheduleType != "" {
		filter.ScheduleType = models.ScheduleType(scheduleType)
	}

	if activeStr := c.Query("active"); activeStr != "" {
		if active, err := strconv.ParseBool(activeStr); err == nil {
			filter.Active = &active
		}
	}

	schedules, err := h.scheduleService.GetSchedules(filter)
	if err != nil {
		h.logger.Error("Failed to get schedules", err)
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Failed to get schedules",
			Error: &models.APIError{
				Type:    "DatabaseError",
				Details: err.Error(),
			},
		})
		return
	}

	total := len(schedules)
	totalPages := (total + limit - 1) / limit
	offset := (page - 1) * limit

	var paginatedSchedules []*models.MaintenanceSchedule
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		paginatedSchedules = schedules[offset:end]
	} else {
		paginatedSchedules = []*models.MaintenanceSchedule{}
	}

	responseData := map[string]interface{}{
		"schedules": paginatedSchedules,
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
		Message: "Schedules retrieved successfully",
		Data:    responseData,
	})
}

// GetDueSchedules handles GET /api/v1/schedules/due
// @Summary Get due and upcoming maintenance schedules
// @Description List overdue schedules and schedules due within the given horizon, most urgent first
// @Tags Maintenance Schedules
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param withinDays query int false "Due horizon in days (default 30)"
// @Success 200 {object} models.APIResponse "Due schedules retrieved successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid horizon"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /schedules/due [get]
func (h *ScheduleController) GetDueSchedules(c *gin.Context) {
	withinDays := 30

	if daysParam := c.Query("withinDays"); daysParam != "" {
		if d, err := strconv.Atoi(daysParam); err == nil {
			withinDays = d
		}
	}

	rows, err := h.scheduleService.GetDueSchedules(withinDays)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if strings.Contains(err.Error(), "cannot be negative") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to get due schedules", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to get due schedules",
			Error: &models.APIError{
				Type:    "DatabaseError",
				Details: err.Error(),
			},
		})
		return
	}

	responseData := map[string]interface{}{
		"dueSchedules": rows,
		"withinDays":   withinDays,
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Due schedules retrieved successfully",
		Data:    responseData,
	})
}

// GetScheduleByID handles GET /api/v1/schedules/{id}
// @Summary Get schedule by ID
// @Description Get a specific maintenance schedule by its ID
// @Tags Maintenance Schedules
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} models.APIResponse "Schedule retrieved successfully"
// @Failure 404 {object} models.APIResponse "Schedule not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /schedules/{id} [get]
func (h *ScheduleController) GetScheduleByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Schedule ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Schedule ID parameter is missing",
			},
		})
		return
	}

	schedule, err := h.scheduleService.GetScheduleByID(id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "schedule not found" {
			statusCode = http.StatusNotFound
		}
		h.logger.Error("Failed to get schedule", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to get schedule",
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
		Message: "Schedule retrieved successfully",
		Data:    schedule,
	})
}

// UpdateSchedule handles PUT /api/v1/schedules/{id}
// @Summary Update schedule
// @Description Update an existing maintenance schedule
// @Tags Maintenance Schedules
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param request body models.UpdateScheduleRequest true "Update schedule request"
// @Success 200 {object} models.APIResponse "Schedule updated successfully"
// @Failure 400 {object} models.APIResponse "Bad Request"
// @Failure 404 {object} models.APIResponse "Schedule not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /schedules/{id} [put]
func (h *ScheduleController) UpdateSchedule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Schedule ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Schedule ID parameter is missing",
			},
		})
		return
	}

	var req models.UpdateScheduleRequest
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

	schedule, err := h.scheduleService.UpdateSchedule(id, &req, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "schedule not found" {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "needs a") ||
			strings.Contains(err.Error(), "needs an") ||
			strings.Contains(err.Error(), "must be formatted") ||
			strings.Contains(err.Error(), "unknown schedule type") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to update schedule", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to update schedule",
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
		Message: "Schedule updated successfully",
		Data:    schedule,
	})
}

// DeleteSchedule handles DELETE /api/v1/schedules/{id}
// @Summary Delete schedule
// @Description Delete a maintenance schedule
// @Tags Maintenance Schedules
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} models.APIResponse "Schedule deleted successfully"
// @Failure 404 {object} models.APIResponse "Schedule not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /schedules/{id} [delete]
func (h *ScheduleController) DeleteSchedule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Schedule ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Schedule ID parameter is missing",
			},
		})
		return
	}

	err := h.scheduleService.DeleteSchedule(id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "schedule not found" {
			statusCode = http.StatusNotFound
		}
		h.logger.Error("Failed to delete schedule", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to delete schedule",
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
		Message: "Schedule deleted successfully",
	})
}
