package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAssignment binds a named role with its permission set to a user. The
// token carries the assignments so permission checks work without a user
// lookup on every request.
type RoleAssignment struct {
	RoleID      string    `json:"role_id" dynamodbav:"role_id"`
	RoleName    string    `json:"role_name" dynamodbav:"role_name"`
	Permissions []string  `json:"permissions" dynamodbav:"permissions"`
	Status      string    `json:"status" dynamodbav:"status"`
	AssignedAt  time.Time `json:"assigned_at" dynamodbav:"assigned_at"`
	AssignedBy  string    `json:"assigned_by,omitempty" dynamodbav:"assigned_by,omitempty"`
}

// UserContext represents user context in JWT
type UserContext struct {
	DefaultLocation string `json:"default_location,omitempty"`
	GroupID         string `json:"group_id,omitempty"`
}

// JWTClaims represents the JWT claims
type JWTClaims struct {
	UserID   string     `json:"user_id"`
	Email    string     `json:"email"`
	Username string     `json:"username"`
	Role     UserRole   `json:"role"`
	Status   UserStatus `json:"status"`

	Roles   []RoleAssignment `json:"roles,omitempty"`
	Context UserContext      `json:"context"`

	jwt.RegisteredClaims
}
