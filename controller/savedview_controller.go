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

type SavedViewController struct {
	ctx              context.Context
	savedViewService services.SavedViewServiceInterface
	logger           logger.Logger
	validator        *validator.Validate
}

func NewSavedViewController(ctx context.Context, savedViewService services.SavedViewServiceInterface, logger logger.Logger) *SavedViewController {
	return &SavedViewController{
		ctx:              ctx,
		savedViewService: savedViewService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *SavedViewController) formatValidationErrors(err error) string {
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

// CreateView handles POST /api/v1/saved-views
// @Summary Create a saved view
// @Description Save a named filter configuration for reuse on list screens
// @Tags Saved Views
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateSavedViewRequest true "Create saved view request"
// @Success 201 {object} models.APIResponse "Saved view created successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid view data"
// @Failure 500 {object} models.APIResponse "Internal Server Error - View creation failed"
// @Router /saved-views [post]
func (h *SavedViewController) CreateView(c *gin.Context) {
	var req models.CreateSavedViewRequest
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

	view, err := h.savedViewService.CreateView(h.ctx, &req, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if strings.Contains(err.Error(), "is required") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to create saved view", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to create saved view",
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
		Message: "Saved view created successfully",
		Data:    view,
	})
}

// GetViews handles GET /api/v1/saved-views
// @Summary Get saved views for the current user
// @Description Retrieve the user's own views plus views shared by others
// @Tags Saved Views
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Saved views retrieved successfully"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /saved-views [get]
func (h *SavedViewController) GetViews(c *gin.Context) {
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

	views, err := h.savedViewService.GetViewsForUser(jwtClaims.UserID)
	if err != nil {
		h.logger.Error("Failed to get saved views", err)
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Failed to get saved views",
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
		Message: "Saved views retrieved successfully",
		Data:    map[string]interface{}{"views": views},
	})
}

// GetViewByID handles GET /api/v1/saved-views/{id}
// @Summary Get saved view by ID
// @Description Get a saved view the user owns or that is shared
// @Tags Saved Views
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Saved view ID"
// @Success 200 {object} models.APIResponse "Saved view retrieved successfully"
// @Failure 404 {object} models.APIResponse "Saved view not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /saved-views/{id} [get]
func (h *SavedViewController) GetViewByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "View ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "View ID parameter is missing",
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

	view, err := h.savedViewService.GetView(id, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "saved view not found" {
			statusCode = http.StatusNotFound
		}
		h.logger.Error("Failed to get saved view", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to get saved view",
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
		Message: "Saved view retrieved successfully",
		Data:    view,
	})
}

// UpdateView handles PUT /api/v1/saved-views/{id}
// @Summary Update saved view
// @Description Update a saved view the user owns
// @Tags Saved Views
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Saved view ID"
// @Param request body models.UpdateSavedViewRequest true "Update saved view request"
// @Success 200 {object} models.APIResponse "Saved view updated successfully"
// @Failure 400 {object} models.APIResponse "Bad Request"
// @Failure 403 {object} models.APIResponse "Forbidden - Not the owner"
// @Failure 404 {object} models.APIResponse "Saved view not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /saved-views/{id} [put]
func (h *SavedViewController) UpdateView(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "View ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "View ID parameter is missing",
			},
		})
		return
	}

	var req models.UpdateSavedViewRequest
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

	view, err := h.savedViewService.UpdateView(id, &req, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errType := "BusinessError"
		if err.Error() == "saved view not found" {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "only the owner") {
			statusCode = http.StatusForbidden
			errType = "AuthorizationError"
		}
		h.logger.Error("Failed to update saved view", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to update saved view",
			Error: &models.APIError{
				Type:    errType,
				Details: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Saved view updated successfully",
		Data:    view,
	})
}

// DeleteView handles DELETE /api/v1/saved-views/{id}
// @Summary Delete saved view
// @Description Delete a saved view the user owns
// @Tags Saved Views
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Saved view ID"
// @Success 200 {object} models.APIResponse "Saved view deleted successfully"
// @Failure 403 {object} models.APIResponse "Forbidden - Not the owner"
// @Failure 404 {object} models.APIResponse "Saved view not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /saved-views/{id} [delete]
func (h *SavedViewController) DeleteView(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "View ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "View ID parameter is missing",
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

	err := h.savedViewService.DeleteView(id, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errType := "BusinessError"
		if err.Error() == "saved view not found" {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "only the owner") {
			statusCode = http.StatusForbidden
			errType = "AuthorizationError"
		}
		h.logger.Error("Failed to delete saved view", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to delete saved view",
			Error: &models.APIError{
				Type:    errType,
				Details: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Saved view deleted successfully",
	})
}
