package models

import "time"

type StockTakeStatus string

const (
	StockTakeStatusOpen      StockTakeStatus = "open"
	StockTakeStatusCompleted StockTakeStatus = "completed"
)

// StockTakeSession records a physical count. ExpectedAssetIDs is seeded at
// creation from the location or group filter; ScannedAssetIDs grows as items
// are scanned. Scanning is idempotent and unexpected scans are kept, the
// summary calculator reports them as set differences.
type StockTakeSession struct {
	SessionID        string          `json:"sessionID" dynamodbav:"sessionID" validate:"omitempty,uuid4"`
	Name             string          `json:"name" dynamodbav:"name" validate:"required,min=2,max=200"`
	Location         string          `json:"location,omitempty" dynamodbav:"location,omitempty" validate:"omitempty,max=200"`
	GroupID          string          `json:"groupID,omitempty" dynamodbav:"groupID,omitempty"`
	ExpectedAssetIDs []string        `json:"expectedAssetIDs" dynamodbav:"expectedAssetIDs"`
	ScannedAssetIDs  []string        `json:"scannedAssetIDs" dynamodbav:"scannedAssetIDs"`
	Status           StockTakeStatus `json:"status" dynamodbav:"status" validate:"required,oneof=open completed"`
	StartedBy        string          `json:"startedBy" dynamodbav:"startedBy"`
	StartedAt        time.Time       `json:"startedAt" dynamodbav:"startedAt"`
	CompletedAt      *time.Time      `json:"completedAt,omitempty" dynamodbav:"completedAt,omitempty"`
}

type CreateStockTakeRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=200"`
	Location string `json:"location,omitempty" validate:"omitempty,max=200"`
	GroupID  string `json:"groupID,omitempty"`
}

// ScanRequest identifies an asset by number or barcode, whichever the scanner
// produced.
type ScanRequest struct {
	AssetNumber string `json:"assetNumber,omitempty" validate:"omitempty,max=50"`
	Barcode     string `json:"barcode,omitempty" validate:"omitempty,max=100"`
}
