package models

import "time"

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking reserves an asset for a date window. StartDate and EndDate are
// date-only (YYYY-MM-DD); the window is inclusive of both endpoints, so a
// same-day booking spans one day. Cancelled bookings stay on record and are
// skipped by the utilization calculators.
type Booking struct {
	BookingID        string        `json:"bookingID" dynamodbav:"bookingID" validate:"omitempty,uuid4"`
	AssetID          string        `json:"assetID" dynamodbav:"assetID" validate:"required"`
	UserID           string        `json:"userID" dynamodbav:"userID" validate:"required"`
	Purpose          string        `json:"purpose,omitempty" dynamodbav:"purpose,omitempty" validate:"omitempty,max=500"`
	StartDate        string        `json:"startDate" dynamodbav:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate          string        `json:"endDate" dynamodbav:"endDate" validate:"required,datetime=2006-01-02"`
	Status           BookingStatus `json:"status" dynamodbav:"status" validate:"required,oneof=active completed cancelled"`
	CheckedOutAt     *time.Time    `json:"checkedOutAt,omitempty" dynamodbav:"checkedOutAt,omitempty"`
	CheckedInAt      *time.Time    `json:"checkedInAt,omitempty" dynamodbav:"checkedInAt,omitempty"`
	UsageHoursLogged float64       `json:"usageHoursLogged" dynamodbav:"usageHoursLogged"`
	CancelReason     string        `json:"cancelReason,omitempty" dynamodbav:"cancelReason,omitempty"`
	CreatedAt        time.Time     `json:"createdAt" dynamodbav:"createdAt"`
	CreatedBy        string        `json:"createdBy" dynamodbav:"createdBy"`
	UpdatedAt        time.Time     `json:"updatedAt" dynamodbav:"updatedAt"`
	UpdatedBy        string        `json:"updatedBy,omitempty" dynamodbav:"updatedBy,omitempty"`
}

type CreateBookingRequest struct {
	AssetID   string `json:"assetID" validate:"required"`
	Purpose   string `json:"purpose,omitempty" validate:"omitempty,max=500"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
}

type UpdateBookingRequest struct {
	Purpose   string `json:"purpose,omitempty" validate:"omitempty,max=500"`
	StartDate string `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// CheckInRequest closes out a checked-out booking. UsageHours is added to the
// asset's running usage counter.
type CheckInRequest struct {
	UsageHours float64 `json:"usageHours" validate:"omitempty,min=0"`
	Notes      string  `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type BookingFilter struct {
	AssetID  string        `json:"assetID,omitempty"`
	UserID   string        `json:"userID,omitempty"`
	Status   BookingStatus `json:"status,omitempty"`
	FromDate string        `json:"fromDate,omitempty"`
	ToDate   string        `json:"toDate,omitempty"`
}
