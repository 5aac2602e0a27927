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

type WorkOrderController struct {
	ctx              context.Context
	workOrderService services.WorkOrderServiceInterface
	logger           logger.Logger
	validator        *validator.Validate
}

func NewWorkOrderController(ctx context.Context, workOrderService services.WorkOrderServiceInterface, logger logger.Logger) *WorkOrderController {
	return &WorkOrderController{
		ctx:              ctx,
		workOrderService: workOrderService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *WorkOrderController) formatValidationErrors(err error) string {
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

// CreateWorkOrder handles POST /api/v1/work-orders
// @Summary Create a new work order
// @Description Create a manual work order with one or more line items
// @Tags Work Order Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateWorkOrderRequest true "Create work order request"
// @Success 201 {object} models.APIResponse "Work order created successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid work order data"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Work order creation failed"
// @Router /work-orders [post]
func (h *WorkOrderController) CreateWorkOrder(c *gin.Context) {
	var req models.CreateWorkOrderRequest
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

	order, err := h.workOrderService.CreateWorkOrder(h.ctx, &req, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if strings.Contains(err.Error(), "is required") ||
			strings.Contains(err.Error(), "must be") ||
			strings.Contains(err.Error(), "needs at least") ||
			strings.Contains(err.Error(), "not found") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to create work order", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to create work order",
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
		Message: "Work order created successfully",
		Data:    order,
	})
}

// GetWorkOrders handles GET /api/v1/work-orders
// @Summary Get work orders with optional filtering
// @Description Retrieve a list of work orders with optional filtering
// @Tags Work Order Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param page query int false "Page number for pagination"
// @Param limit query int false "Number of work orders per page"
// @Param state query string false "Filter by work order state"
// @Param assetID query string false "Filter by asset on a line item"
// @Param assignedTo query string false "Filter by assignee"
// @Param source query string false "Filter by order source"
// @Param fromDate query string false "Filter from date (YYYY-MM-DD)"
// @Param toDate query string false "Filter to date (YYYY-MM-DD)"
// @Success 200 {object} models.APIResponse "Work orders retrieved successfully"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Failed to retrieve work orders"
// @Router /work-orders [get]
func (h *WorkOrderController) GetWorkOrders(c *gin.Context) {
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

	filter := &models.WorkOrderFilter{
		AssetID:    c.Query("assetID"),
		AssignedTo: c.Query("assignedTo"),
	}

	if state := c.Query("state"); state != "" {
		filter.State = models.WorkOrderState(state)
	}

	if source := c.Query("source"); source != "" {
		filter.Source = models.WorkOrderSource(source)
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

	orders, err := h.workOrderService.GetWorkOrders(filter)
	if err != nil {
		h.logger.Error("Failed to get work orders", err)
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Failed to get work orders",
			Error: &models.APIError{
				Type:    "DatabaseError",
				Details: err.Error(),
			},
		})
		return
	}

	total := len(orders)
	totalPages := (total + limit - 1) / limit
	offset := (page - 1) * limit

	var paginatedOrders []*models.WorkOrder
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		paginatedOrders = orders[offset:end]
	} else {
		paginatedOrders = []*models.WorkOrder{}
	}

	responseData := map[string]interface{}{
		"workOrders": paginatedOrders,
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
		Message: "Work orders retrieved successfully",
		Data:    responseData,
	})
}

// GetWorkOrderByKey handles GET /api/v1/work-orders/{id}
// @Summary Get work order by ID or order number
// @Description Get a specific work order by its ID or human-readable order number
// @Tags Work Order Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Work order ID or order number"
// @Success 200 {object} models.APIResponse "Work order retrieved successfully"
// @Failure 404 {object} models.APIResponse "Work order not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /work-orders/{id} [get]
func (h *WorkOrderController) GetWorkOrderByKey(c *gin.Context) {
	key := c.Param("id")
	if key == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Work order key is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Work order key parameter is missing",
			},
		})
		return
	}

	order, err := h.workOrderService.GetWorkOrderByKey(key)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "work order not found" {
			statusCode = http.StatusNotFound
		}
		h.logger.Error("Failed to get work order", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to get work order",
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
		Message: "Work order retrieved successfully",
		Data:    order,
	})
}

// UpdateWorkOrder handles PUT /api/v1/work-orders/{id}
// @Summary Update work order
// @Description Update the editable fields of an open work order
// @Tags Work Order Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param request body models.UpdateWorkOrderRequest true "Update work order request"
// @Success 200 {object} models.APIResponse "Work order updated successfully"
// @Failure 400 {object} models.APIResponse "Bad Request"
// @Failure 404 {object} models.APIResponse "Work order not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /work-orders/{id} [put]
func (h *WorkOrderController) UpdateWorkOrder(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Work order ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Work order ID parameter is missing",
			},
		})
		return
	}

	var req models.UpdateWorkOrderRequest
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

	order, err := h.workOrderService.UpdateWorkOrder(id, &req, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "work order not found" {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "closed") ||
			strings.Contains(err.Error(), "no fields to update") ||
			strings.Contains(err.Error(), "must be") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to update work order", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to update work order",
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
		Message: "Work order updated successfully",
		Data:    order,
	})
}

// PlanWorkOrder handles POST /api/v1/work-orders/{id}/plan
// @Summary Plan a work order
// @Description Move a backlog work order into the planned state
// @Tags Work Order Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Success 200 {object} models.APIResponse "Work order planned successfully"
// @Failure 400 {object} models.APIResponse "Bad Request"
// @Failure 404 {object} models.APIResponse "Work order not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /work-orders/{id}/plan [post]
func (h *WorkOrderController) PlanWorkOrder(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Work order ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Work order ID parameter is missing",
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

	order, err := h.workOrderService.PlanWorkOrder(id, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "work order not found" {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "only backlog") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to plan work order", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to plan work order",
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
		Message: "Work order planned successfully",
		Data:    order,
	})
}

// StartWorkOrder handles POST /api/v1/work-orders/{id}/start
// @Summary Start a work order
// @Description Move a work order into progress and place its assets in maintenance
// @Tags Work Order Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Success 200 {object} models.APIResponse "Work order started successfully"
// @Failure 400 {object} models.APIResponse "Bad Request"
// @Failure 404 {object} models.APIResponse "Work order not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /work-orders/{id}/start [post]
func (h *WorkOrderController) StartWorkOrder(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Work order ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Work order ID parameter is missing",
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

	order, err := h.workOrderService.StartWorkOrder(id, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "work order not found" {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "cannot be started") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to start work order", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to start work order",
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
		Message: "Work order started successfully",
		Data:    order,
	})
}

// CompleteWorkOrder handles POST /api/v1/work-orders/{id}/complete
// @Summary Complete a work order
// @Description Close a work order once every line item is completed and release its assets
// @Tags Work Order Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Success 200 {object} models.APIResponse "Work order completed successfully"
// @Failure 400 {object} models.APIResponse "Bad Request"
// @Failure 404 {object} models.APIResponse "Work order not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /work-orders/{id}/complete [post]
func (h *WorkOrderController) CompleteWorkOrder(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Work order ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Work order ID parameter is missing",
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

	order, err := h.workOrderService.CompleteWorkOrder(id, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "work order not found" {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "must be in progress") ||
			strings.Contains(err.Error(), "must be completed first") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to complete work order", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to complete work order",
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
		Message: "Work order completed successfully",
		Data:    order,
	})
}

// AbortWorkOrder handles POST /api/v1/work-orders/{id}/abort
// @Summary Abort a work order
// @Description Abort an open work order with a reason, optionally marking it obsolete
// @Tags Work Order Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param request body models.AbortWorkOrderRequest true "Abort request"
// @Success 200 {object} models.APIResponse "Work order aborted successfully"
// @Failure 400 {object} models.APIResponse "Bad Request"
// @Failure 404 {object} models.APIResponse "Work order not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /work-orders/{id}/abort [post]
func (h *WorkOrderController) AbortWorkOrder(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Work order ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Work order ID parameter is missing",
			},
		})
		return
	}

	var req models.AbortWorkOrderRequest
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

	order, err := h.workOrderService.AbortWorkOrder(id, &req, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "work order not found" {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "reason is required") ||
			strings.Contains(err.Error(), "already closed") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to abort work order", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to abort work order",
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
		Message: "Work order aborted successfully",
		Data:    order,
	})
}

// UpdateLineItem handles PUT /api/v1/work-orders/{id}/items/{index}
// @Summary Update a work order line item
// @Description Update the completion status, cost and notes of a single line item
// @Tags Work Order Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param index path int true "Zero-based line item index"
// @Param request body models.UpdateLineItemRequest true "Update line item request"
// @Success 200 {object} models.APIResponse "Line item updated successfully"
// @Failure 400 {object} models.APIResponse "Bad Request"
// @Failure 404 {object} models.APIResponse "Work order not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /work-orders/{id}/items/{index} [put]
func (h *WorkOrderController) UpdateLineItem(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Work order ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Work order ID parameter is missing",
			},
		})
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Invalid line item index",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Line item index must be a non-negative integer",
			},
		})
		return
	}

	var req models.UpdateLineItemRequest
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

	order, err := h.workOrderService.UpdateLineItem(id, index, &req, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "work order not found" {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "must be in progress") ||
			strings.Contains(err.Error(), "out of range") ||
			strings.Contains(err.Error(), "cannot be changed") ||
			strings.Contains(err.Error(), "must be a decimal") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to update line item", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to update line item",
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
		Message: "Line item updated successfully",
		Data:    order,
	})
}
