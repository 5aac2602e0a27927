package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report payloads are pure projections over assets, bookings, schedules and
// stock takes. They are recomputed per request and never persisted.

// ComplianceEntry is one asset/schedule pair in the compliance report.
// DaysOverdue is positive for the overdue partition, DaysUntilDue counts for
// the upcoming one.
type ComplianceEntry struct {
	AssetID      string     `json:"assetID"`
	AssetNumber  string     `json:"assetNumber"`
	AssetName    string     `json:"assetName"`
	ScheduleID   string     `json:"scheduleID"`
	Description  string     `json:"scheduleDescription"`
	NextDue      *time.Time `json:"nextDue,omitempty"`
	DaysOverdue  int        `json:"daysOverdue,omitempty"`
	DaysUntilDue int        `json:"daysUntilDue,omitempty"`
}

// MaintenanceComplianceData partitions scheduled assets into overdue, due
// within 30 days, and compliant. Assets without any schedule count toward
// TotalAssets but are excluded from the percentage denominator.
type MaintenanceComplianceData struct {
	TotalAssets          int               `json:"totalAssets"`
	AssetsWithSchedule   int               `json:"assetsWithSchedule"`
	CompliantCount       int               `json:"compliantCount"`
	DueSoonCount         int               `json:"dueSoonCount"`
	OverdueCount         int               `json:"overdueCount"`
	CompliancePercentage float64           `json:"compliancePercentage"`
	Overdue              []ComplianceEntry `json:"overdue"`
	DueSoon              []ComplianceEntry `json:"dueSoon"`
}

// AssetUtilizationData is the per-asset share of a reporting period covered
// by non-cancelled bookings. Day spans are inclusive of both endpoints.
type AssetUtilizationData struct {
	AssetID               string  `json:"assetID"`
	AssetNumber           string  `json:"assetNumber"`
	AssetName             string  `json:"assetName"`
	GroupID               string  `json:"groupID,omitempty"`
	BookingCount          int     `json:"bookingCount"`
	TotalDaysBooked       int     `json:"totalDaysBooked"`
	UtilizationPercentage float64 `json:"utilizationPercentage"`
}

// GroupUtilizationData rolls per-asset utilization up to the asset group.
// Groups whose members have no bookings are still reported with zero stats.
type GroupUtilizationData struct {
	GroupID            string  `json:"groupID"`
	GroupName          string  `json:"groupName"`
	MemberCount        int     `json:"memberCount"`
	BookingCount       int     `json:"bookingCount"`
	TotalDaysBooked    int     `json:"totalDaysBooked"`
	AverageUtilization float64 `json:"averageUtilization"`
}

// StockTakeSummaryData reports the set differences of a counting session.
type StockTakeSummaryData struct {
	SessionID          string   `json:"sessionID"`
	ExpectedCount      int      `json:"expectedCount"`
	ScannedCount       int      `json:"scannedCount"`
	MissingAssetIDs    []string `json:"missingAssetIDs"`
	UnexpectedAssetIDs []string `json:"unexpectedAssetIDs"`
	CompletionRate     float64  `json:"completionRate"`
}

// AssetBookingCount is one row of the most-booked ranking.
type AssetBookingCount struct {
	AssetID     string `json:"assetID"`
	AssetNumber string `json:"assetNumber"`
	AssetName   string `json:"assetName"`
	Count       int    `json:"count"`
}

// BookingHistoryData aggregates bookings whose start date falls in the
// reporting period: totals by status, by calendar month, and the ten most
// booked assets.
type BookingHistoryData struct {
	TotalBookings int                 `json:"totalBookings"`
	ByStatus      map[string]int      `json:"byStatus"`
	ByMonth       map[string]int      `json:"byMonth"`
	TopAssets     []AssetBookingCount `json:"topAssets"`
}

// MaintenanceCostData totals record costs per asset over a period.
type MaintenanceCostData struct {
	AssetID     string          `json:"assetID"`
	AssetNumber string          `json:"assetNumber"`
	AssetName   string          `json:"assetName"`
	RecordCount int             `json:"recordCount"`
	TotalCost   decimal.Decimal `json:"totalCost"`
}
