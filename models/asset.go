package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AssetStatus string

const (
	AssetStatusAvailable     AssetStatus = "available"
	AssetStatusBooked        AssetStatus = "booked"
	AssetStatusCheckedOut    AssetStatus = "checked_out"
	AssetStatusInMaintenance AssetStatus = "in_maintenance"
	AssetStatusRetired       AssetStatus = "retired"
)

type AssetCondition string

const (
	AssetConditionNew     AssetCondition = "new"
	AssetConditionGood    AssetCondition = "good"
	AssetConditionWorn    AssetCondition = "worn"
	AssetConditionDamaged AssetCondition = "damaged"
)

// Asset is a bookable, maintainable inventory item. CurrentUsageHours,
// LastMaintenanceHours and BookingsSinceMaintenance are the running counters
// consumed by usage-based and event-based maintenance schedules; check-in and
// maintenance completion are the only writers.
type Asset struct {
	AssetID                  string          `json:"assetID" dynamodbav:"assetID" validate:"omitempty,uuid4"`
	AssetNumber              string          `json:"assetNumber" dynamodbav:"assetNumber" validate:"required,min=2,max=50"`
	Name                     string          `json:"name" dynamodbav:"name" validate:"required,min=2,max=200"`
	Description              string          `json:"description,omitempty" dynamodbav:"description,omitempty" validate:"omitempty,max=1000"`
	GroupID                  string          `json:"groupID,omitempty" dynamodbav:"groupID,omitempty"`
	Location                 string          `json:"location,omitempty" dynamodbav:"location,omitempty" validate:"omitempty,max=200"`
	Barcode                  string          `json:"barcode,omitempty" dynamodbav:"barcode,omitempty" validate:"omitempty,max=100"`
	Status                   AssetStatus     `json:"status" dynamodbav:"status" validate:"required,oneof=available booked checked_out in_maintenance retired"`
	Condition                AssetCondition  `json:"condition,omitempty" dynamodbav:"condition,omitempty" validate:"omitempty,oneof=new good worn damaged"`
	PurchaseDate             *time.Time      `json:"purchaseDate,omitempty" dynamodbav:"purchaseDate,omitempty"`
	PurchasePrice            decimal.Decimal `json:"purchasePrice" dynamodbav:"purchasePrice"`
	CurrentUsageHours        float64         `json:"currentUsageHours" dynamodbav:"currentUsageHours"`
	LastMaintenanceHours     float64         `json:"lastMaintenanceHours" dynamodbav:"lastMaintenanceHours"`
	BookingsSinceMaintenance int             `json:"bookingsSinceMaintenance" dynamodbav:"bookingsSinceMaintenance"`
	RetiredAt                *time.Time      `json:"retiredAt,omitempty" dynamodbav:"retiredAt,omitempty"`
	CreatedAt                time.Time       `json:"createdAt" dynamodbav:"createdAt"`
	CreatedBy                string          `json:"createdBy" dynamodbav:"createdBy"`
	UpdatedAt                time.Time       `json:"updatedAt" dynamodbav:"updatedAt"`
	UpdatedBy                string          `json:"updatedBy,omitempty" dynamodbav:"updatedBy,omitempty"`
}

// AssetGroup is the roll-up level for utilization reporting.
type AssetGroup struct {
	GroupID     string    `json:"groupID" dynamodbav:"groupID" validate:"omitempty,uuid4"`
	Name        string    `json:"name" dynamodbav:"name" validate:"required,min=2,max=100"`
	Description string    `json:"description,omitempty" dynamodbav:"description,omitempty" validate:"omitempty,max=500"`
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"createdAt"`
	CreatedBy   string    `json:"createdBy" dynamodbav:"createdBy"`
	UpdatedAt   time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}

type CreateAssetRequest struct {
	AssetNumber   string          `json:"assetNumber" validate:"required,min=2,max=50"`
	Name          string          `json:"name" validate:"required,min=2,max=200"`
	Description   string          `json:"description,omitempty" validate:"omitempty,max=1000"`
	GroupID       string          `json:"groupID,omitempty"`
	Location      string          `json:"location,omitempty" validate:"omitempty,max=200"`
	Barcode       string          `json:"barcode,omitempty" validate:"omitempty,max=100"`
	Condition     AssetCondition  `json:"condition,omitempty" validate:"omitempty,oneof=new good worn damaged"`
	PurchaseDate  string          `json:"purchaseDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PurchasePrice decimal.Decimal `json:"purchasePrice,omitempty"`
}

type UpdateAssetRequest struct {
	Name        string         `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Description string         `json:"description,omitempty" validate:"omitempty,max=1000"`
	GroupID     *string        `json:"groupID,omitempty"`
	Location    string         `json:"location,omitempty" validate:"omitempty,max=200"`
	Barcode     string         `json:"barcode,omitempty" validate:"omitempty,max=100"`
	Status      AssetStatus    `json:"status,omitempty" validate:"omitempty,oneof=available booked checked_out in_maintenance retired"`
	Condition   AssetCondition `json:"condition,omitempty" validate:"omitempty,oneof=new good worn damaged"`
}

type CreateAssetGroupRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
}

type AssetFilter struct {
	GroupID  string      `json:"groupID,omitempty"`
	Status   AssetStatus `json:"status,omitempty"`
	Location string      `json:"location,omitempty"`
	Search   string      `json:"search,omitempty"`
}
