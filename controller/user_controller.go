package controller

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/middelware"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/services"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"

	"github.com/gin-gonic/gin"
)

// UserController handles registration, login and account management.
// Request DTOs carry gin binding tags, so no separate validator is needed.
type UserController struct {
	ctx         context.Context
	userService services.UserServiceInterface
	jwtManager  *middelware.JWTManager
	logger      logger.Logger
}

func NewUserController(ctx context.Context, userService services.UserServiceInterface, jwtManager *middelware.JWTManager, logger logger.Logger) *UserController {
	return &UserController{
		ctx:         ctx,
		userService: userService,
		jwtManager:  jwtManager,
		logger:      logger,
	}
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
}

// Register handles POST /api/v1/auth/register
// @Summary Register a new user
// @Description Create a new user account with the viewer role
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RegisterUser true "Registration request"
// @Success 201 {object} models.APIResponse "User registered successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid registration data"
// @Failure 409 {object} models.APIResponse "Conflict - User already exists"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Registration failed"
// @Router /auth/register [post]
func (h *UserController) Register(c *gin.Context) {
	var req models.RegisterUser
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

	user, err := h.userService.RegisterUser(h.ctx, &req)
	if err != nil {
		h.logger.Errorf("Failed to register user: %v", err)
		status := http.StatusInternalServerError
		errType := "DatabaseError"
		if strings.Contains(err.Error(), "already exists") {
			status = http.StatusConflict
			errType = "BusinessError"
		} else if strings.Contains(err.Error(), "is required") ||
			strings.Contains(err.Error(), "is invalid") ||
			strings.Contains(err.Error(), "must be at least") {
			status = http.StatusBadRequest
			errType = "ValidationError"
		}
		c.JSON(status, models.APIResponse{
			Status:  "error",
			Code:    status,
			Message: "Failed to register user",
			Error: &models.APIError{
				Type:    errType,
				Details: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, models.APIResponse{
		Status:  "success",
		Code:    http.StatusCreated,
		Message: "User registered successfully",
		Data:    user,
	})
}

// Login handles POST /api/v1/auth/login
// @Summary User login
// @Description Authenticate user credentials and return a JWT token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} models.APIResponse "Login successful, returns JWT token"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid login data"
// @Failure 401 {object} models.APIResponse "Unauthorized - Invalid credentials"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Login failed"
// @Router /auth/login [post]
func (h *UserController) Login(c *gin.Context) {
	var req LoginRequest
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

	user, err := h.userService.AuthenticateUser(req.Email, req.Password)
	if err != nil {
		h.logger.Warnf("Login failed for %s: %v", req.Email, err)
		c.JSON(http.StatusUnauthorized, models.APIResponse{
			Status:  "error",
			Code:    http.StatusUnauthorized,
			Message: "Login failed",
			Error: &models.APIError{
				Type:    "AuthenticationError",
				Details: err.Error(),
			},
		})
		return
	}

	tokenString, err := h.jwtManager.GenerateToken(user)
	if err != nil {
		h.logger.Errorf("Token generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Token generation failed",
			Error: &models.APIError{
				Type:    "TokenError",
				Details: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Login successful",
		Data: map[string]interface{}{
			"access_token": tokenString,
			"token_type":   "Bearer",
			"expires_in":   int(h.jwtManager.Config.JWTExpiresIn.Seconds()),
			"user": map[string]interface{}{
				"id":       user.ID,
				"email":    user.Email,
				"username": user.Username,
				"status":   user.Status,
				"role":     user.Role,
				"roles":    user.Roles,
			},
		},
	})
}

// Logout handles POST /api/v1/auth/logout
// @Summary User logout
// @Description Logout user and revoke current JWT token
// @Tags Authentication
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Logout successful"
// @Failure 401 {object} models.APIResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Logout failed"
// @Router /auth/logout [post]
func (h *UserController) Logout(c *gin.Context) {
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

	// Revoke the current token (both blacklist and remove from active tokens)
	h.jwtManager.RevokeUserToken(jwtClaims.UserID, jwtClaims.ID, jwtClaims.ExpiresAt.Time)

	h.logger.Debugf("User %s logged out successfully", jwtClaims.UserID)

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Logout successful",
		Data: map[string]interface{}{
			"user_id": jwtClaims.UserID,
		},
	})
}

// ValidateToken godoc
// @Summary      Validate JWT token
// @Description  Validate a JWT token and return user information with roles
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body middelware.TokenValidationRequest true "Token validation request"
// @Success      200  {object}  models.APIResponse  "Token is valid"
// @Failure      400  {object}  models.APIResponse  "Bad Request - Missing or invalid token in request body"
// @Failure      401  {object}  models.APIResponse  "Unauthorized - Invalid or expired token"
// @Router       /auth/validate [post]
func (h *UserController) ValidateToken(c *gin.Context) {
	// Delegate to JWT middleware which handles the complete token validation flow
	h.jwtManager.ValidateTokenEndpoint(c)
}

// GetProfile handles GET /api/v1/auth/me
// @Summary Get current user profile
// @Description Retrieve the account belonging to the presented token
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Profile retrieved successfully"
// @Failure 401 {object} models.APIResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} models.APIResponse "Not Found - User does not exist"
// @Router /auth/me [get]
func (h *UserController) GetProfile(c *gin.Context) {
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

	user, err := h.userService.GetUserByID(jwtClaims.UserID)
	if err != nil {
		h.logger.Errorf("Failed to get profile for %s: %v", jwtClaims.UserID, err)
		status := http.StatusInternalServerError
		if err.Error() == "user not found" {
			status = http.StatusNotFound
		}
		c.JSON(status, models.APIResponse{
			Status:  "error",
			Code:    status,
			Message: "Failed to get profile",
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
		Message: "Profile retrieved successfully",
		Data:    user,
	})
}

// GetUsers handles GET /api/v1/users
// @Summary Get list of users
// @Description Retrieve a paginated list of all user accounts
// @Tags User Management
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number for pagination"
// @Param limit query int false "Number of users per page"
// @Success 200 {object} models.APIResponse "User list retrieved successfully"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Failed to retrieve user list"
// @Router /users [get]
func (h *UserController) GetUsers(c *gin.Context) {
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

	allUsers, err := h.userService.GetUsers()
	if err != nil {
		h.logger.Errorf("Failed to get user list: %v", err)
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Failed to get user list",
			Error: &models.APIError{
				Type:    "DatabaseError",
				Details: err.Error(),
			},
		})
		return
	}

	total := len(allUsers)
	totalPages := (total + limit - 1) / limit
	offset := (page - 1) * limit

	var paginatedUsers []*models.User
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		paginatedUsers = allUsers[offset:end]
	} else {
		paginatedUsers = []*models.User{}
	}

	responseData := map[string]interface{}{
		"users": paginatedUsers,
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
		Message: "User list retrieved successfully",
		Data:    responseData,
	})
}

// GetUserByID handles GET /api/v1/users/{id}
// @Summary Get user details
// @Description Retrieve user details by ID
// @Tags User Management
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.APIResponse "User details retrieved successfully"
// @Failure 404 {object} models.APIResponse "Not Found - User does not exist"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Failed to retrieve user"
// @Router /users/{id} [get]
func (h *UserController) GetUserByID(c *gin.Context) {
	userID := c.Param("id")

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		h.logger.Errorf("Failed to get user %s: %v", userID, err)
		status := http.StatusInternalServerError
		if err.Error() == "user not found" {
			status = http.StatusNotFound
		}
		c.JSON(status, models.APIResponse{
			Status:  "error",
			Code:    status,
			Message: "Failed to get user",
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
		Message: "User details retrieved successfully",
		Data:    user,
	})
}

// UpdateUser handles PATCH /api/v1/users/{id}
// @Summary Update user details
// @Description Update account fields, role or status by user ID
// @Tags User Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body models.UpdateUserRequest true "Update user request"
// @Success 200 {object} models.APIResponse "User updated successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid user ID or data"
// @Failure 404 {object} models.APIResponse "Not Found - User does not exist"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Failed to update user"
// @Router /users/{id} [patch]
func (h *UserController) UpdateUser(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		h.logger.Error("Missing user ID")
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Missing user ID",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "User ID is required",
			},
		})
		return
	}

	var req models.UpdateUserRequest
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

	updatedUser, err := h.userService.UpdateUser(userID, &req, jwtClaims.UserID)
	if err != nil {
		h.logger.Errorf("Failed to update user %s: %v", userID, err)
		status := http.StatusInternalServerError
		errType := "DatabaseError"
		if err.Error() == "user not found" {
			status = http.StatusNotFound
		} else if strings.Contains(err.Error(), "no fields to update") {
			status = http.StatusBadRequest
			errType = "BusinessError"
		}
		c.JSON(status, models.APIResponse{
			Status:  "error",
			Code:    status,
			Message: "Failed to update user",
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
		Message: "User updated successfully",
		Data:    updatedUser,
	})
}
