package controller

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/services"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type RecordController struct {
	ctx           context.Context
	recordService services.RecordServiceInterface
	logger        logger.Logger
	validator     *validator.Validate
}

func NewRecordController(ctx context.Context, recordService services.RecordServiceInterface, logger logger.Logger) *RecordController {
	return &RecordController{
		ctx:           ctx,
		recordService: recordService,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *RecordController) formatValidationErrors(err error) string {
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

// CreateRecord handles POST /api/v1/maintenance-records
// @Summary Create a maintenance record
// @Description Log completed maintenance work against an asset
// @Tags Maintenance Records
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateMaintenanceRecordRequest true "Create maintenance record request"
// @Success 201 {object} models.APIResponse "Maintenance record created successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid record data"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Record creation failed"
// @Router /maintenance-records [post]
func (h *RecordController) CreateRecord(c *gin.Context) {
	var req models.CreateMaintenanceRecordRequest
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

	record, err := h.recordService.CreateRecord(h.ctx, &req, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if strings.Contains(err.Error(), "is required") ||
			strings.Contains(err.Error(), "must be") ||
			err.Error() == "asset not found" {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to create maintenance record", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to create maintenance record",
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
		Message: "Maintenance record created successfully",
		Data:    record,
	})
}

// GetRecords handles GET /api/v1/maintenance-records
// @Summary Get maintenance records with optional filtering
// @Description Retrieve the maintenance log with optional filtering
// @Tags Maintenance Records
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param page query int false "Page number for pagination"
// @Param limit query int false "Number of records per page"
// @Param assetID query string false "Filter by asset ID"
// @Param fromDate query string false "Filter from date (YYYY-MM-DD)"
// @Param toDate query string false "Filter to date (YYYY-MM-DD)"
// @Success 200 {object} models.APIResponse "Maintenance records retrieved successfully"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Failed to retrieve records"
// @Router /maintenance-records [get]
func (h *RecordController) GetRecords(c *gin.Context) {
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

	filter := &models.MaintenanceRecordFilter{
		AssetID: c.Query("assetID"),
	}

	if fromDateStr := c.Query("fromDate"); fromDateStr != "" {
		if fromDate, err := time.Parse("2006-01-02", fromDateStr); err == nil {
			filter.FromDate = fromDate
		}
	}

	if toDateStr := c.Query("toDate"); toDateStr != "" {
		if toDate, err := time.Parse("2006-01-02", toDateStr); err == nil {
			filter.ToDate = toDate
		}
	}

	records, err := h.recordService.GetRecords(filter)
	if err != nil {
		h.logger.Error("Failed to get maintenance records", err)
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Failed to get maintenance records",
			Error: &models.APIError{
				Type:    "DatabaseError",
				Details: err.Error(),
			},
		})
		return
	}

	total := len(records)
	totalPages := (total + limit - 1) / limit
	offset := (page - 1) * limit

	var paginatedRecords []*models.MaintenanceRecord
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		paginatedRecords = records[offset:end]
	} else {
		paginatedRecords = []*models.MaintenanceRecord{}
	}

	responseData := map[string]interface{}{
		"records": paginatedRecords,
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
		Message: "Maintenance records retrieved successfully",
		Data:    responseData,
	})
}

// GetRecordByID handles GET /api/v1/maintenance-records/{id}
// @Summary Get maintenance record by ID
// @Description Get a specific maintenance record by its ID
// @Tags Maintenance Records
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Maintenance record ID"
// @Success 200 {object} models.APIResponse "Maintenance record retrieved successfully"
// @Failure 404 {object} models.APIResponse "Maintenance record not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /maintenance-records/{id} [get]
func (h *RecordController) GetRecordByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Record ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Record ID parameter is missing",
			},
		})
		return
	}

	record, err := h.recordService.GetRecordByID(id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "maintenance record not found" {
			statusCode = http.StatusNotFound
		}
		h.logger.Error("Failed to get maintenance record", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to get maintenance record",
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
		Message: "Maintenance record retrieved successfully",
		Data:    record,
	})
}
