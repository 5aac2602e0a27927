package models

import "time"

type WorkOrderState string

const (
	WorkOrderStateBacklog    WorkOrderState = "backlog"
	WorkOrderStatePlanned    WorkOrderState = "planned"
	WorkOrderStateInProgress WorkOrderState = "in_progress"
	WorkOrderStateCompleted  WorkOrderState = "completed"
	WorkOrderStateAborted    WorkOrderState = "aborted"
	WorkOrderStateObsolete   WorkOrderState = "obsolete"
)

type WorkOrderPriority string

const (
	WorkOrderPriorityLow    WorkOrderPriority = "low"
	WorkOrderPriorityMedium WorkOrderPriority = "medium"
	WorkOrderPriorityHigh   WorkOrderPriority = "high"
	WorkOrderPriorityUrgent WorkOrderPriority = "urgent"
)

type WorkOrderSource string

const (
	WorkOrderSourceManual   WorkOrderSource = "manual"
	WorkOrderSourceSchedule WorkOrderSource = "schedule"
)

type LineItemStatus string

const (
	LineItemStatusPending    LineItemStatus = "pending"
	LineItemStatusInProgress LineItemStatus = "in_progress"
	LineItemStatusCompleted  LineItemStatus = "completed"
)

// WorkOrderLineItem is one unit of work inside an order. ScheduleID is set
// when the item originates from a maintenance schedule; completing such an
// item writes a maintenance record and advances that schedule.
type WorkOrderLineItem struct {
	AssetID          string         `json:"assetID" dynamodbav:"assetID" validate:"required"`
	ScheduleID       string         `json:"scheduleID,omitempty" dynamodbav:"scheduleID,omitempty"`
	Description      string         `json:"description" dynamodbav:"description" validate:"required,max=500"`
	CompletionStatus LineItemStatus `json:"completionStatus" dynamodbav:"completionStatus" validate:"required,oneof=pending in_progress completed"`
	CompletedAt      *time.Time     `json:"completedAt,omitempty" dynamodbav:"completedAt,omitempty"`
	CompletedBy      string         `json:"completedBy,omitempty" dynamodbav:"completedBy,omitempty"`
}

// WorkOrder tracks maintenance work through its lifecycle:
// backlog -> planned -> in_progress -> completed, with aborted and obsolete
// as terminal soft states. Orders are never hard-deleted in normal flow.
type WorkOrder struct {
	WorkOrderID    string              `json:"workOrderID" dynamodbav:"workOrderID" validate:"omitempty,uuid4"`
	OrderNumber    string              `json:"orderNumber" dynamodbav:"orderNumber"`
	Title          string              `json:"title" dynamodbav:"title" validate:"required,min=2,max=200"`
	Notes          string              `json:"notes,omitempty" dynamodbav:"notes,omitempty" validate:"omitempty,max=2000"`
	State          WorkOrderState      `json:"state" dynamodbav:"state" validate:"required,oneof=backlog planned in_progress completed aborted obsolete"`
	Priority       WorkOrderPriority   `json:"priority" dynamodbav:"priority" validate:"required,oneof=low medium high urgent"`
	Source         WorkOrderSource     `json:"source" dynamodbav:"source" validate:"required,oneof=manual schedule"`
	LineItems      []WorkOrderLineItem `json:"lineItems" dynamodbav:"lineItems" validate:"required,min=1,dive"`
	AssignedTo     string              `json:"assignedTo,omitempty" dynamodbav:"assignedTo,omitempty"`
	ScheduledStart *time.Time          `json:"scheduledStart,omitempty" dynamodbav:"scheduledStart,omitempty"`
	ScheduledEnd   *time.Time          `json:"scheduledEnd,omitempty" dynamodbav:"scheduledEnd,omitempty"`
	ActualEnd      *time.Time          `json:"actualEnd,omitempty" dynamodbav:"actualEnd,omitempty"`
	AbortReason    string              `json:"abortReason,omitempty" dynamodbav:"abortReason,omitempty"`
	CreatedAt      time.Time           `json:"createdAt" dynamodbav:"createdAt"`
	CreatedBy      string              `json:"createdBy" dynamodbav:"createdBy"`
	UpdatedAt      time.Time           `json:"updatedAt" dynamodbav:"updatedAt"`
	UpdatedBy      string              `json:"updatedBy,omitempty" dynamodbav:"updatedBy,omitempty"`
}

type CreateWorkOrderLineItem struct {
	AssetID     string `json:"assetID" validate:"required"`
	ScheduleID  string `json:"scheduleID,omitempty"`
	Description string `json:"description" validate:"required,max=500"`
}

type CreateWorkOrderRequest struct {
	Title          string                    `json:"title" validate:"required,min=2,max=200"`
	Notes          string                    `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Priority       WorkOrderPriority         `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	LineItems      []CreateWorkOrderLineItem `json:"lineItems" validate:"required,min=1,dive"`
	AssignedTo     string                    `json:"assignedTo,omitempty"`
	ScheduledStart string                    `json:"scheduledStart,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ScheduledEnd   string                    `json:"scheduledEnd,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateWorkOrderRequest struct {
	Title          string            `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	Notes          string            `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Priority       WorkOrderPriority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	AssignedTo     *string           `json:"assignedTo,omitempty"`
	ScheduledStart string            `json:"scheduledStart,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ScheduledEnd   string            `json:"scheduledEnd,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateLineItemRequest moves one line item through pending -> in_progress ->
// completed. Completion details feed the generated maintenance record.
type UpdateLineItemRequest struct {
	CompletionStatus LineItemStatus `json:"completionStatus" validate:"required,oneof=pending in_progress completed"`
	Cost             string         `json:"cost,omitempty" validate:"omitempty"`
	Notes            string         `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type AbortWorkOrderRequest struct {
	Reason   string `json:"reason" validate:"required,max=500"`
	Obsolete bool   `json:"obsolete,omitempty"`
}

type WorkOrderFilter struct {
	State      WorkOrderState  `json:"state,omitempty"`
	AssetID    string          `json:"assetID,omitempty"`
	AssignedTo string          `json:"assignedTo,omitempty"`
	Source     WorkOrderSource `json:"source,omitempty"`
	FromDate   time.Time       `json:"fromDate,omitempty"`
	ToDate     time.Time       `json:"toDate,omitempty"`
}
