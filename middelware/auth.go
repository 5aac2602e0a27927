package middelware

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/repository"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTManager handles JWT token operations
type JWTManager struct {
	Config            *models.Config
	Logger            logger.Logger
	UserRepo          repository.UserRepositoryInterface
	BlacklistedTokens map[string]time.Time // Token revocation blacklist (for immediate invalidation)
	ActiveTokens      map[string]string    // userID -> current active tokenID
	TokenMutex        sync.RWMutex         // Thread safety for both maps
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(cfg *models.Config, log logger.Logger, userRepo repository.UserRepositoryInterface) *JWTManager {
	return &JWTManager{
		Config:            cfg,
		Logger:            log,
		UserRepo:          userRepo,
		BlacklistedTokens: make(map[string]time.Time),
		ActiveTokens:      make(map[string]string),
	}
}

// GenerateToken generates a JWT token for a user
func (j *JWTManager) GenerateToken(user *models.User) (string, error) {
	claims := models.JWTClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
		Status:   user.Status,
		Roles:    user.Roles,
		Context: models.UserContext{
			DefaultLocation: user.DefaultLocation,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(), // JTI (JWT ID)
			Subject:   user.ID,
			Issuer:    j.Config.AppName,
			Audience:  jwt.ClaimStrings{j.Config.AppName},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.Config.JWTExpiresIn)),
			NotBefore: jwt.NewNumericDate(time.Now()),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(j.Config.JWTSecret))
	if err != nil {
		j.Logger.Errorf("Failed to sign JWT token: %v", err)
		return "", err
	}

	j.Logger.Debugf("Generated JWT token for user: %s", user.ID)

	return tokenString, nil
}

// validateUserStatus checks if user account is in valid state
func (j *JWTManager) validateUserStatus(user *models.User) error {
	if user.Status != models.UserStatusActive {
		return fmt.Errorf("user account is %s", user.Status)
	}

	// Check if account is locked
	if user.AccountLockedUntil != nil && user.AccountLockedUntil.After(time.Now()) {
		return fmt.Errorf("account is locked until %s", user.AccountLockedUntil.Format(time.RFC3339))
	}

	return nil
}

// validateRoleAssignments cross-verifies token roles with database roles
func (j *JWTManager) validateRoleAssignments(tokenRoles, dbRoles []models.RoleAssignment) error {
	if len(tokenRoles) == 0 {
		return nil // No roles to validate
	}

	// Check each role in token is still assigned and still active
	for _, tokenRole := range tokenRoles {
		roleFound := false

		for _, dbRole := range dbRoles {
			if tokenRole.RoleID == dbRole.RoleID {
				if dbRole.Status != "active" {
					j.Logger.Errorf("Role '%s' is no longer active for user", dbRole.RoleName)
					return fmt.Errorf("role '%s' is no longer active", dbRole.RoleName)
				}
				roleFound = true
				break
			}
		}

		if !roleFound {
			j.Logger.Errorf("Token validation failed: role '%s' no longer assigned to user", tokenRole.RoleName)
			return fmt.Errorf("role '%s' no longer assigned to user", tokenRole.RoleName)
		}
	}

	return nil
}

// ValidateToken validates a JWT token and returns the claims with database cross-verification
func (j *JWTManager) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// CRITICAL: Prevent algorithm confusion attacks
		if method, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		} else if method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("invalid signing algorithm: %v", method.Alg())
		}

		if alg, ok := token.Header["alg"].(string); !ok || alg != "HS256" {
			return nil, fmt.Errorf("invalid algorithm in header")
		}

		return []byte(j.Config.JWTSecret), nil
	})

	if err != nil {
		j.Logger.Errorf("Failed to parse JWT token: %v", err)
		return nil, err
	}

	if !token.Valid {
		j.Logger.Error("Invalid JWT token")
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok {
		j.Logger.Error("Failed to extract JWT claims")
		return nil, fmt.Errorf("invalid claims")
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		j.Logger.Error("JWT token expired")
		return nil, fmt.Errorf("token expired")
	}

	if claims.NotBefore != nil && claims.NotBefore.After(time.Now()) {
		j.Logger.Error("JWT token not yet valid")
		return nil, fmt.Errorf("token not yet valid")
	}

	// Check if token is blacklisted (for immediate revocation)
	j.TokenMutex.RLock()
	if expiry, exists := j.BlacklistedTokens[claims.ID]; exists && expiry.After(time.Now()) {
		j.TokenMutex.RUnlock()
		j.Logger.Error("Token is blacklisted")
		return nil, fmt.Errorf("token has been revoked")
	}
	j.TokenMutex.RUnlock()

	// Cross-verify with database; a token must not outlive its account
	if j.UserRepo != nil {
		dbUser, err := j.UserRepo.GetUser(claims.UserID)
		if err != nil {
			j.Logger.Errorf("Failed to verify user in database: %v", err)
			return nil, fmt.Errorf("user verification failed")
		}

		if err := j.validateUserStatus(dbUser); err != nil {
			j.Logger.Errorf("User status validation failed for %s: %v", claims.UserID, err)
			return nil, err
		}

		if err := j.validateRoleAssignments(claims.Roles, dbUser.Roles); err != nil {
			j.Logger.Errorf("Role validation failed for %s: %v", claims.UserID, err)
			return nil, err
		}

		j.Logger.Debugf("Successfully cross-verified user %s with database", claims.UserID)
	}

	j.Logger.Debugf("Successfully validated JWT token for user: %s", claims.UserID)
	return claims, nil
}

// SetActiveToken sets the current active token for a user and revokes any previous token
func (j *JWTManager) SetActiveToken(userID, tokenID string) {
	j.TokenMutex.Lock()
	defer j.TokenMutex.Unlock()

	// If user had a previous token, add it to blacklist for immediate revocation
	if oldTokenID, exists := j.ActiveTokens[userID]; exists && oldTokenID != tokenID {
		j.BlacklistedTokens[oldTokenID] = time.Now().Add(24 * time.Hour)
		j.Logger.Debugf("Previous token %s for user %s added to blacklist", oldTokenID, userID)
	}

	j.ActiveTokens[userID] = tokenID
	j.Logger.Debugf("Set active token for user %s: %s", userID, tokenID)
}

// RevokeUserToken removes the active token for a user and adds it to blacklist (logout)
func (j *JWTManager) RevokeUserToken(userID string, tokenID string, expiry time.Time) {
	j.TokenMutex.Lock()
	defer j.TokenMutex.Unlock()

	j.BlacklistedTokens[tokenID] = expiry
	delete(j.ActiveTokens, userID)

	j.Logger.Debugf("Revoked token for user %s: %s", userID, tokenID)
}

// CleanupExpiredTokens removes expired tokens from blacklist
func (j *JWTManager) CleanupExpiredTokens() {
	j.TokenMutex.Lock()
	defer j.TokenMutex.Unlock()

	now := time.Now()
	for tokenID, expiry := range j.BlacklistedTokens {
		if expiry.Before(now) {
			delete(j.BlacklistedTokens, tokenID)
		}
	}
	j.Logger.Debugf("Cleaned up expired blacklisted tokens")
}

// AuthMiddleware validates the JWT token from the Authorization header and
// places the claims in the gin context for downstream handlers
func (j *JWTManager) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			j.Logger.Error("Missing Authorization header")
			c.JSON(http.StatusUnauthorized, models.APIResponse{
				Status:  "error",
				Code:    http.StatusUnauthorized,
				Message: "Missing Authorization header",
				Error: &models.APIError{
					Type:    "AuthenticationError",
					Details: "Authorization header is required",
				},
			})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			j.Logger.Error("Invalid Authorization header format")
			c.JSON(http.StatusUnauthorized, models.APIResponse{
				Status:  "error",
				Code:    http.StatusUnauthorized,
				Message: "Invalid Authorization header format",
				Error: &models.APIError{
					Type:    "AuthenticationError",
					Details: "Authorization header must be in format: Bearer <token>",
				},
			})
			c.Abort()
			return
		}
		tokenString := strings.TrimSpace(parts[1])

		claims, err := j.ValidateToken(tokenString)
		if err != nil {
			j.Logger.Errorf("Token validation failed: %v", err)
			c.JSON(http.StatusUnauthorized, models.APIResponse{
				Status:  "error",
				Code:    http.StatusUnauthorized,
				Message: "Invalid or expired token",
				Error: &models.APIError{
					Type:    "AuthenticationError",
					Details: err.Error(),
				},
			})
			c.Abort()
			return
		}

		// Set user information in context
		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("user_roles", claims.Roles)
		c.Set("user_context", claims.Context)
		c.Set("jwt_claims", claims)

		j.Logger.Debugf("User authenticated: %s", claims.UserID)
		c.Next()
	}
}

// hasRole checks the coarse user role and any named role assignments.
// Admins pass every role check.
func (j *JWTManager) hasRole(claims *models.JWTClaims, requiredRole string) bool {
	if claims.Role == models.UserRoleAdmin {
		return true
	}
	if string(claims.Role) == requiredRole {
		return true
	}
	for _, role := range claims.Roles {
		if role.Status != "active" {
			continue
		}
		if role.RoleName == requiredRole {
			return true
		}
	}
	return false
}

// hasPermission checks if user has specific permission from current roles
func (j *JWTManager) hasPermission(claims *models.JWTClaims, requiredPermission string) bool {
	if claims.Role == models.UserRoleAdmin {
		return true
	}
	for _, role := range claims.Roles {
		if role.Status != "active" {
			continue
		}
		for _, permission := range role.Permissions {
			if permission == requiredPermission {
				return true
			}
		}
	}
	return false
}

// RequireRole middleware checks if user has specific role
func (j *JWTManager) RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, exists := c.Get("jwt_claims")
		if !exists {
			j.Logger.Error("JWT claims not found in context")
			c.JSON(http.StatusUnauthorized, models.APIResponse{
				Status:  "error",
				Code:    http.StatusUnauthorized,
				Message: "Authentication required",
				Error: &models.APIError{
					Type:    "AuthenticationError",
					Details: "User not authenticated",
				},
			})
			c.Abort()
			return
		}

		jwtClaims := claims.(*models.JWTClaims)

		if !j.hasRole(jwtClaims, requiredRole) {
			j.Logger.Errorf("User %s does not have required role: %s", jwtClaims.UserID, requiredRole)
			c.JSON(http.StatusForbidden, models.APIResponse{
				Status:  "error",
				Code:    http.StatusForbidden,
				Message: "Insufficient permissions",
				Error: &models.APIError{
					Type:    "AuthorizationError",
					Details: fmt.Sprintf("Required role: %s", requiredRole),
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequirePermission middleware checks if user has specific permission
func (j *JWTManager) RequirePermission(requiredPermission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, exists := c.Get("jwt_claims")
		if !exists {
			j.Logger.Error("JWT claims not found in context")
			c.JSON(http.StatusUnauthorized, models.APIResponse{
				Status:  "error",
				Code:    http.StatusUnauthorized,
				Message: "Authentication required",
				Error: &models.APIError{
					Type:    "AuthenticationError",
					Details: "User not authenticated",
				},
			})
			c.Abort()
			return
		}

		jwtClaims := claims.(*models.JWTClaims)

		if !j.hasPermission(jwtClaims, requiredPermission) {
			j.Logger.Errorf("User %s does not have required permission: %s", jwtClaims.UserID, requiredPermission)
			c.JSON(http.StatusForbidden, models.APIResponse{
				Status:  "error",
				Code:    http.StatusForbidden,
				Message: "Insufficient permissions",
				Error: &models.APIError{
					Type:    "AuthorizationError",
					Details: fmt.Sprintf("Required permission: %s", requiredPermission),
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// TokenValidationRequest represents the request body for token validation
type TokenValidationRequest struct {
	Token string `json:"token" binding:"required"`
}

// ValidateTokenEndpoint provides an API endpoint to validate tokens
func (j *JWTManager) ValidateTokenEndpoint(c *gin.Context) {
	var req TokenValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		j.Logger.Error("Failed to bind JSON:", err)
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Token is required in request body",
			},
		})
		return
	}

	tokenString := strings.TrimSpace(req.Token)
	if tokenString == "" {
		j.Logger.Error("Empty token provided")
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Empty token provided",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Token cannot be empty",
			},
		})
		return
	}

	claims, err := j.ValidateToken(tokenString)
	if err != nil {
		j.Logger.Errorf("Token validation failed: %v", err)
		c.JSON(http.StatusUnauthorized, models.APIResponse{
			Status:  "error",
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired token",
			Error: &models.APIError{
				Type:    "AuthenticationError",
				Details: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Token is valid",
		Data: map[string]interface{}{
			"valid":      true,
			"user_id":    claims.UserID,
			"email":      claims.Email,
			"username":   claims.Username,
			"status":     claims.Status,
			"roles":      claims.Roles,
			"context":    claims.Context,
			"expires_at": claims.ExpiresAt,
			"issued_at":  claims.IssuedAt,
		},
	})
}
