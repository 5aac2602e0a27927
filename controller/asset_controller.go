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

type AssetController struct {
	ctx          context.Context
	assetService services.AssetServiceInterface
	logger       logger.Logger
	validator    *validator.Validate
}

func NewAssetController(ctx context.Context, assetService services.AssetServiceInterface, logger logger.Logger) *AssetController {
	return &AssetController{
		ctx:          ctx,
		assetService: assetService,
		logger:       logger,
		validator:    validator.New(),
	}
}

func (h *AssetController) formatValidationErrors(err error) string {
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

// CreateAsset handles POST /api/v1/assets
// @Summary Create a new asset
// @Description Register a new inventory asset with its identifying details
// @Tags Asset Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateAssetRequest true "Create asset request"
// @Success 201 {object} models.APIResponse "Asset created successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid asset data"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Asset creation failed"
// @Router /assets [post]
func (h *AssetController) CreateAsset(c *gin.Context) {
	var req models.CreateAssetRequest
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

	asset, err := h.assetService.CreateAsset(h.ctx, &req, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if strings.Contains(err.Error(), "is required") ||
			strings.Contains(err.Error(), "must be") ||
			strings.Contains(err.Error(), "cannot be") ||
			err.Error() == "asset group not found" {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to create asset", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to create asset",
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
		Message: "Asset created successfully",
		Data:    asset,
	})
}

// GetAssets handles GET /api/v1/assets
// @Summary Get assets with optional filtering
// @Description Retrieve a list of assets with optional filtering
// @Tags Asset Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param page query int false "Page number for pagination"
// @Param limit query int false "Number of assets per page"
// @Param groupID query string false "Filter by asset group ID"
// @Param status query string false "Filter by asset status"
// @Param location query string false "Filter by location"
// @Param search query string false "Search in asset number, name and description"
// @Success 200 {object} models.APIResponse "Assets retrieved successfully"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Failed to retrieve assets"
// @Router /assets [get]
func (h *AssetController) GetAssets(c *gin.Context) {
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

	filter := &models.AssetFilter{
		GroupID:  c.Query("groupID"),
		Location: c.Query("location"),
		Search:   c.Query("search"),
	}

	if status := c.Query("status"); status != "" {
		filter.Status = models.AssetStatus(status)
	}

	assets, err := h.assetService.GetAssets(filter)
	if err != nil {
		h.logger.Error("Failed to get assets", err)
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Failed to get assets",
			Error: &models.APIError{
				Type:    "DatabaseError",
				Details: err.Error(),
			},
		})
		return
	}

	total := len(assets)
	totalPages := (total + limit - 1) / limit
	offset := (page - 1) * limit

	var paginatedAssets []*models.Asset
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		paginatedAssets = assets[offset:end]
	} else {
		paginatedAssets = []*models.Asset{}
	}

	responseData := map[string]interface{}{
		"assets": paginatedAssets,
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
		Message: "Assets retrieved successfully",
		Data:    responseData,
	})
}

// GetAssetByKey handles GET /api/v1/assets/{id}
// @Summary Get asset by ID or asset number
// @Description Get a specific asset by its ID or human-readable asset number
// @Tags Asset Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Asset ID or asset number"
// @Success 200 {object} models.APIResponse "Asset retrieved successfully"
// @Failure 404 {object} models.APIResponse "Asset not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /assets/{id} [get]
func (h *AssetController) GetAssetByKey(c *gin.Context) {
	key := c.Param("id")
	if key == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Asset key is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Asset key parameter is missing",
			},
		})
		return
	}

	asset, err := h.assetService.GetAssetByKey(key)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "asset not found" {
			statusCode = http.StatusNotFound
		}
		h.logger.Error("Failed to get asset", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to get asset",
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
		Message: "Asset retrieved successfully",
		Data:    asset,
	})
}

// ScanAsset handles GET /api/v1/assets/scan
// @Summary Look up an asset by scan code
// @Description Resolve a scanned asset number or barcode to the full asset record
// @Tags Asset Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param assetNumber query string false "Scanned asset number"
// @Param barcode query string false "Scanned barcode"
// @Success 200 {object} models.APIResponse "Asset retrieved successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - No scan code provided"
// @Failure 404 {object} models.APIResponse "Asset not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /assets/scan [get]
func (h *AssetController) ScanAsset(c *gin.Context) {
	assetNumber := c.Query("assetNumber")
	barcode := c.Query("barcode")

	asset, err := h.assetService.GetAssetByScanCode(assetNumber, barcode)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "asset not found" {
			statusCode = http.StatusNotFound
		} else if err.Error() == "asset number or barcode is required" {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to resolve scan code", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to resolve scan code",
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
		Message: "Asset retrieved successfully",
		Data:    asset,
	})
}

// UpdateAsset handles PUT /api/v1/assets/{id}
// @Summary Update asset
// @Description Update an existing asset
// @Tags Asset Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Asset ID"
// @Param request body models.UpdateAssetRequest true "Update asset request"
// @Success 200 {object} models.APIResponse "Asset updated successfully"
// @Failure 400 {object} models.APIResponse "Bad Request"
// @Failure 404 {object} models.APIResponse "Asset not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /assets/{id} [put]
func (h *AssetController) UpdateAsset(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Asset ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Asset ID parameter is missing",
			},
		})
		return
	}

	var req models.UpdateAssetRequest
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

	asset, err := h.assetService.UpdateAsset(id, &req, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "asset not found" {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "must be") ||
			err.Error() == "asset group not found" {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to update asset", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to update asset",
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
		Message: "Asset updated successfully",
		Data:    asset,
	})
}

// RetireAsset handles POST /api/v1/assets/{id}/retire
// @Summary Retire an asset
// @Description Move an asset to the retired status so it can no longer be booked
// @Tags Asset Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Asset ID"
// @Success 200 {object} models.APIResponse "Asset retired successfully"
// @Failure 400 {object} models.APIResponse "Bad Request"
// @Failure 404 {object} models.APIResponse "Asset not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /assets/{id}/retire [post]
func (h *AssetController) RetireAsset(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Asset ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Asset ID parameter is missing",
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

	asset, err := h.assetService.RetireAsset(id, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "asset not found" {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "already retired") ||
			strings.Contains(err.Error(), "cannot be retired") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to retire asset", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to retire asset",
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
		Message: "Asset retired successfully",
		Data:    asset,
	})
}

// DeleteAsset handles DELETE /api/v1/assets/{id}
// @Summary Delete asset
// @Description Delete an asset that has no booking history
// @Tags Asset Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Asset ID"
// @Success 200 {object} models.APIResponse "Asset deleted successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Asset has booking history"
// @Failure 404 {object} models.APIResponse "Asset not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /assets/{id} [delete]
func (h *AssetController) DeleteAsset(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Asset ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Asset ID parameter is missing",
			},
		})
		return
	}

	err := h.assetService.DeleteAsset(id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "asset not found" {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "booking history") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to delete asset", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to delete asset",
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
		Message: "Asset deleted successfully",
	})
}

// CreateGroup handles POST /api/v1/asset-groups
// @Summary Create a new asset group
// @Description Create a named group assets can be assigned to
// @Tags Asset Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateAssetGroupRequest true "Create asset group request"
// @Success 201 {object} models.APIResponse "Asset group created successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid group data"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Group creation failed"
// @Router /asset-groups [post]
func (h *AssetController) CreateGroup(c *gin.Context) {
	var req models.CreateAssetGroupRequest
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

	group, err := h.assetService.CreateGroup(h.ctx, &req, jwtClaims.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if strings.Contains(err.Error(), "is required") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to create asset group", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to create asset group",
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
		Message: "Asset group created successfully",
		Data:    group,
	})
}

// GetGroups handles GET /api/v1/asset-groups
// @Summary Get all asset groups
// @Description Retrieve the full list of asset groups
// @Tags Asset Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Asset groups retrieved successfully"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /asset-groups [get]
func (h *AssetController) GetGroups(c *gin.Context) {
	groups, err := h.assetService.GetGroups()
	if err != nil {
		h.logger.Error("Failed to get asset groups", err)
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Failed to get asset groups",
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
		Message: "Asset groups retrieved successfully",
		Data:    map[string]interface{}{"groups": groups},
	})
}

// GetGroupByID handles GET /api/v1/asset-groups/{id}
// @Summary Get asset group by ID
// @Description Get a specific asset group by its ID
// @Tags Asset Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Asset group ID"
// @Success 200 {object} models.APIResponse "Asset group retrieved successfully"
// @Failure 404 {object} models.APIResponse "Asset group not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /asset-groups/{id} [get]
func (h *AssetController) GetGroupByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Group ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Group ID parameter is missing",
			},
		})
		return
	}

	group, err := h.assetService.GetGroupByID(id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "asset group not found" {
			statusCode = http.StatusNotFound
		}
		h.logger.Error("Failed to get asset group", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to get asset group",
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
		Message: "Asset group retrieved successfully",
		Data:    group,
	})
}

// UpdateGroup handles PUT /api/v1/asset-groups/{id}
// @Summary Update asset group
// @Description Update an existing asset group
// @Tags Asset Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Asset group ID"
// @Param request body models.CreateAssetGroupRequest true "Update asset group request"
// @Success 200 {object} models.APIResponse "Asset group updated successfully"
// @Failure 400 {object} models.APIResponse "Bad Request"
// @Failure 404 {object} models.APIResponse "Asset group not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /asset-groups/{id} [put]
func (h *AssetController) UpdateGroup(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Group ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Group ID parameter is missing",
			},
		})
		return
	}

	var req models.CreateAssetGroupRequest
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

	group, err := h.assetService.UpdateGroup(id, &req)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "asset group not found" {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "is required") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to update asset group", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to update asset group",
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
		Message: "Asset group updated successfully",
		Data:    group,
	})
}

// DeleteGroup handles DELETE /api/v1/asset-groups/{id}
// @Summary Delete asset group
// @Description Delete an asset group that has no assets assigned
// @Tags Asset Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Asset group ID"
// @Success 200 {object} models.APIResponse "Asset group deleted successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Group still has assets"
// @Failure 404 {object} models.APIResponse "Asset group not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /asset-groups/{id} [delete]
func (h *AssetController) DeleteGroup(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Group ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Group ID parameter is missing",
			},
		})
		return
	}

	err := h.assetService.DeleteGroup(id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "asset group not found" {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "still has assets") {
			statusCode = http.StatusBadRequest
		}
		h.logger.Error("Failed to delete asset group", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to delete asset group",
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
		Message: "Asset group deleted successfully",
	})
}
