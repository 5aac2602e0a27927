package models

import "time"

// UserRole represents the role of a user
type UserRole string

const (
	UserRoleViewer     UserRole = "viewer"
	UserRoleTechnician UserRole = "technician"
	UserRoleManager    UserRole = "manager"
	UserRoleAdmin      UserRole = "admin"
)

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive              UserStatus = "active"
	UserStatusInactive            UserStatus = "inactive"
	UserStatusSuspended           UserStatus = "suspended"
	UserStatusPendingVerification UserStatus = "pending_verification"
)

// User represents a user in the system
type User struct {
	ID                  string           `json:"id" dynamodbav:"id"`
	Email               string           `json:"email" dynamodbav:"email"`
	Username            string           `json:"username" dynamodbav:"username"`
	PasswordHash        string           `json:"-" dynamodbav:"password_hash"`
	FirstName           string           `json:"first_name" dynamodbav:"first_name"`
	LastName            string           `json:"last_name" dynamodbav:"last_name"`
	Phone               *string          `json:"phone,omitempty" dynamodbav:"phone,omitempty"`
	Role                UserRole         `json:"role" dynamodbav:"role"`
	Roles               []RoleAssignment `json:"roles,omitempty" dynamodbav:"roles,omitempty"`
	Status              UserStatus       `json:"status" dynamodbav:"status"`
	DefaultLocation     string           `json:"default_location,omitempty" dynamodbav:"default_location,omitempty"`
	CreatedAt           time.Time        `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at" dynamodbav:"updated_at"`
	LastLoginAt         *time.Time       `json:"last_login_at,omitempty" dynamodbav:"last_login_at,omitempty"`
	FailedLoginAttempts int              `json:"failed_login_attempts" dynamodbav:"failed_login_attempts"`
	AccountLockedUntil  *time.Time       `json:"account_locked_until,omitempty" dynamodbav:"account_locked_until,omitempty"`
	EmailVerified       bool             `json:"email_verified" dynamodbav:"email_verified"`
}

// RegisterUser represents the request structure for user registration
// @Description User registration request with account details
type RegisterUser struct {
	Email     string `json:"email" binding:"required,email" example:"user@example.com" description:"User email address"`
	Username  string `json:"username" binding:"required" example:"sam_keeper" description:"Desired username"`
	Password  string `json:"password" binding:"required,min=8" example:"securePassword123" description:"User password (minimum 8 characters)"`
	FirstName string `json:"first_name" binding:"required" example:"Sam" description:"First name"`
	LastName  string `json:"last_name" binding:"required" example:"Keeper" description:"Last name"`
	Phone     string `json:"phone,omitempty" example:"+1234567890" description:"Phone number (optional)"`
	Location  string `json:"location,omitempty" example:"Main Building" description:"Default location (optional)"`
}

// UpdateUserRequest represents the request structure for updating a user
type UpdateUserRequest struct {
	FirstName       string     `json:"first_name,omitempty"`
	LastName        string     `json:"last_name,omitempty"`
	Phone           *string    `json:"phone,omitempty"`
	Role            UserRole   `json:"role,omitempty" binding:"omitempty,oneof=viewer technician manager admin"`
	Status          UserStatus `json:"status,omitempty" binding:"omitempty,oneof=active inactive suspended pending_verification"`
	DefaultLocation string     `json:"default_location,omitempty"`
}
