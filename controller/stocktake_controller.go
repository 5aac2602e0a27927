package controller

import (
	"context"
	"net/http"
	"strings"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/services"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type StockTakeController struct {
	ctx              context.Context
	stockTakeService services.StockTakeServiceInterface
	logger           logger.Logger
	validator        *validator.Validate
}

func NewStockTakeController(ctx context.Context, stockTakeService services.StockTakeServiceInterface, logger logger.Logger) *StockTakeController {
	return &StockTakeController{
		ctx:              ctx,
		stockTakeService: stockTakeService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *StockTakeController) formatValidationErrors(err error) string {
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

// CreateSession handles POST /api/v1/stock-takes
// @Summary Start a stock take session
// @Description Open a stock take session seeded with all non-retired assets
// @Tags Stock Take
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateStockTakeRequest true "Create stock take request"
// @Success 201 {object} models.APIResponse "Stock take session created successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid session data"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Session creation failed"
// @Router /stock-takes [post]
func (h *StockTakeController) CreateSession(c *gin.Context) {
	var req models.CreateStockTakeRequest
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

	session, err := h.stockTakeService.CreateSession(h.ctx, &req, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if strings.Contains(err.Error(), "is required") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to create stock take session", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to create stock take session",
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
		Message: "Stock take session created successfully",
		Data:    session,
	})
}

// GetSessions handles GET /api/v1/stock-takes
// @Summary Get stock take sessions
// @Description Retrieve stock take sessions, optionally filtered by status
// @Tags Stock Take
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param status query string false "Filter by session status (open or completed)"
// @Success 200 {object} models.APIResponse "Stock take sessions retrieved successfully"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /stock-takes [get]
func (h *StockTakeController) GetSessions(c *gin.Context) {
	status := models.StockTakeStatus(c.Query("status"))

	sessions, err := h.stockTakeService.GetSessions(status)
	if err != nil {
		h.logger.Error("Failed to get stock take sessions", err)
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Failed to get stock take sessions",
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
		Message: "Stock take sessions retrieved successfully",
		Data:    map[string]interface{}{"sessions": sessions},
	})
}

// GetSession handles GET /api/v1/stock-takes/{id}
// @Summary Get stock take session by ID
// @Description Get a specific stock take session with its expected and scanned sets
// @Tags Stock Take
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Stock take session ID"
// @Success 200 {object} models.APIResponse "Stock take session retrieved successfully"
// @Failure 404 {object} models.APIResponse "Stock take session not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /stock-takes/{id} [get]
func (h *StockTakeController) GetSession(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Session ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Session ID parameter is missing",
			},
		})
		return
	}

	session, err := h.stockTakeService.GetSession(id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "stock take session not found" {
			statusCode = http.StatusNotFound
		}
		h.logger.Error("Failed to get stock take session", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to get stock take session",
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
		Message: "Stock take session retrieved successfully",
		Data:    session,
	})
}

// Scan handles POST /api/v1/stock-takes/{id}/scan
// @Summary Record a scan in a stock take session
// @Description Mark an asset as sighted during the stock take, by asset number or barcode
// @Tags Stock Take
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Stock take session ID"
// @Param request body models.ScanRequest true "Scan request"
// @Success 200 {object} models.APIResponse "Scan recorded successfully"
// @Failure 400 {object} models.APIResponse "Bad Request"
// @Failure 404 {object} models.APIResponse "Stock take session not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /stock-takes/{id}/scan [post]
func (h *StockTakeController) Scan(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Session ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Session ID parameter is missing",
			},
		})
		return
	}

	var req models.ScanRequest
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

	session, err := h.stockTakeService.Scan(id, &req)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "stock take session not found" {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "is closed") ||
			strings.Contains(err.Error(), "is required") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to record scan", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to record scan",
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
		Message: "Scan recorded successfully",
		Data:    session,
	})
}

// CompleteSession handles POST /api/v1/stock-takes/{id}/complete
// @Summary Complete a stock take session
// @Description Close the session so no further scans are accepted
// @Tags Stock Take
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Stock take session ID"
// @Success 200 {object} models.APIResponse "Stock take session completed successfully"
// @Failure 400 {object} models.APIResponse "Bad Request"
// @Failure 404 {object} models.APIResponse "Stock take session not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /stock-takes/{id}/complete [post]
func (h *StockTakeController) CompleteSession(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Session ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Session ID parameter is missing",
			},
		})
		return
	}

	session, err := h.stockTakeService.CompleteSession(id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "stock take session not found" {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "already completed") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to complete stock take session", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to complete stock take session",
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
		Message: "Stock take session completed successfully",
		Data:    session,
	})
}

// GetSummary handles GET /api/v1/stock-takes/{id}/summary
// @Summary Get stock take summary
// @Description Partition the session into scanned, missing and unexpected assets
// @Tags Stock Take
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Stock take session ID"
// @Success 200 {object} models.APIResponse "Stock take summary retrieved successfully"
// @Failure 404 {object} models.APIResponse "Stock take session not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /stock-takes/{id}/summary [get]
func (h *StockTakeController) GetSummary(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Session ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Session ID parameter is missing",
			},
		})
		return
	}

	summary, err := h.stockTakeService.GetSummary(id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "stock take session not found" {
			statusCode = http.StatusNotFound
		}
		h.logger.Error("Failed to get stock take summary", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to get stock take summary",
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
		Message: "Stock take summary retrieved successfully",
		Data:    summary,
	})
}
