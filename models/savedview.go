package models

import "time"

type ViewEntity string

const (
	ViewEntityAssets      ViewEntity = "assets"
	ViewEntityBookings    ViewEntity = "bookings"
	ViewEntityWorkOrders  ViewEntity = "work_orders"
	ViewEntitySchedules   ViewEntity = "schedules"
	ViewEntityMaintenance ViewEntity = "maintenance_records"
)

// SavedView is a persisted list configuration (filters, columns, sort) owned
// by a user. Shared views are readable by everyone but editable only by the
// owner.
type SavedView struct {
	ViewID    string            `json:"viewID" dynamodbav:"viewID" validate:"omitempty,uuid4"`
	UserID    string            `json:"userID" dynamodbav:"userID" validate:"required"`
	Name      string            `json:"name" dynamodbav:"name" validate:"required,min=1,max=100"`
	Entity    ViewEntity        `json:"entity" dynamodbav:"entity" validate:"required,oneof=assets bookings work_orders schedules maintenance_records"`
	Filters   map[string]string `json:"filters,omitempty" dynamodbav:"filters,omitempty"`
	Columns   []string          `json:"columns,omitempty" dynamodbav:"columns,omitempty"`
	SortBy    string            `json:"sortBy,omitempty" dynamodbav:"sortBy,omitempty"`
	SortDir   string            `json:"sortDir,omitempty" dynamodbav:"sortDir,omitempty" validate:"omitempty,oneof=asc desc"`
	Shared    bool              `json:"shared" dynamodbav:"shared"`
	CreatedAt time.Time         `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt" dynamodbav:"updatedAt"`
}

type CreateSavedViewRequest struct {
	Name    string            `json:"name" validate:"required,min=1,max=100"`
	Entity  ViewEntity        `json:"entity" validate:"required,oneof=assets bookings work_orders schedules maintenance_records"`
	Filters map[string]string `json:"filters,omitempty"`
	Columns []string          `json:"columns,omitempty"`
	SortBy  string            `json:"sortBy,omitempty"`
	SortDir string            `json:"sortDir,omitempty" validate:"omitempty,oneof=asc desc"`
	Shared  bool              `json:"shared,omitempty"`
}

type UpdateSavedViewRequest struct {
	Name    string            `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Filters map[string]string `json:"filters,omitempty"`
	Columns []string          `json:"columns,omitempty"`
	SortBy  string            `json:"sortBy,omitempty"`
	SortDir string            `json:"sortDir,omitempty" validate:"omitempty,oneof=asc desc"`
	Shared  *bool             `json:"shared,omitempty"`
}
