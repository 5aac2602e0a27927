package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaintenanceRecord is the immutable log entry written when maintenance is
// performed. Records are created and read, never updated or deleted; the
// history behind compliance reporting depends on that.
type MaintenanceRecord struct {
	RecordID        string          `json:"recordID" dynamodbav:"recordID" validate:"omitempty,uuid4"`
	AssetID         string          `json:"assetID" dynamodbav:"assetID" validate:"required"`
	WorkOrderID     string          `json:"workOrderID,omitempty" dynamodbav:"workOrderID,omitempty"`
	ScheduleID      string          `json:"scheduleID,omitempty" dynamodbav:"scheduleID,omitempty"`
	Date            time.Time       `json:"date" dynamodbav:"date"`
	MaintenanceType string          `json:"maintenanceType" dynamodbav:"maintenanceType" validate:"required,max=100"`
	Cost            decimal.Decimal `json:"cost" dynamodbav:"cost"`
	PerformedBy     string          `json:"performedBy" dynamodbav:"performedBy" validate:"required,max=100"`
	Notes           string          `json:"notes,omitempty" dynamodbav:"notes,omitempty" validate:"omitempty,max=2000"`
	CreatedAt       time.Time       `json:"createdAt" dynamodbav:"createdAt"`
	CreatedBy       string          `json:"createdBy" dynamodbav:"createdBy"`
}

type CreateMaintenanceRecordRequest struct {
	AssetID         string `json:"assetID" validate:"required"`
	WorkOrderID     string `json:"workOrderID,omitempty"`
	ScheduleID      string `json:"scheduleID,omitempty"`
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	MaintenanceType string `json:"maintenanceType" validate:"required,max=100"`
	Cost            string `json:"cost,omitempty"`
	PerformedBy     string `json:"performedBy" validate:"required,max=100"`
	Notes           string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type MaintenanceRecordFilter struct {
	AssetID  string    `json:"assetID,omitempty"`
	FromDate time.Time `json:"fromDate,omitempty"`
	ToDate   time.Time `json:"toDate,omitempty"`
}
