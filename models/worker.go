package models

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/robfig/cron"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"
)

// DBClient interface to avoid circular dependency
type DBClient interface {
	CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error
	DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error)
}

// SweepRunner executes one maintenance sweep. Implemented by the sweep
// service; declared here so the worker can hold it without importing the
// services package.
type SweepRunner interface {
	RunSweep(ctx context.Context, dryRun bool) (*SweepRun, error)
}

// StatusManager persists worker state to the status file
type StatusManager struct {
	StatusFilePath string
}

// LockManager handles file-based locking so only one sweeper runs per
// environment
type LockManager struct {
	LockFilePath string
	LockTimeout  time.Duration
	Environment  string
}

// Worker manages table provisioning at startup and the cron-driven
// maintenance sweep afterwards
type Worker struct {
	Config        *Config
	Logger        logger.Logger
	CronJob       *cron.Cron
	LockManager   *LockManager
	StatusManager *StatusManager
	Provisioner   *TableProvisioner
	Sweeper       SweepRunner

	// Worker configuration
	WorkerConfig *WorkerConfig
	OwnerID      string
	IsRunning    bool
	StopChan     chan struct{}

	// Synchronization and state management
	Mu        sync.RWMutex
	Ctx       context.Context
	Cancel    context.CancelFunc
	SetupOnce sync.Once
	StopOnce  sync.Once
}

// TableProvisioner creates the DynamoDB tables from the embedded schema
type TableProvisioner struct {
	Config   *Config
	Logger   logger.Logger
	DBClient DBClient
}

// WorkerConfig holds configuration for the sweep worker
type WorkerConfig struct {
	// Cron schedule
	CronSchedule string `json:"cron_schedule"`

	// Lock settings
	LockTimeout       time.Duration `json:"lock_timeout"`
	LockRetryInterval time.Duration `json:"lock_retry_interval"`

	// Retry settings for provisioning
	MaxRetries        int           `json:"max_retries"`
	RetryDelay        time.Duration `json:"retry_delay"`
	BackoffMultiplier float64       `json:"backoff_multiplier"`

	// Environment settings
	Environment    string   `json:"environment"`
	RequiredTables []string `json:"required_tables"`

	// Paths
	LockFilePath   string `json:"lock_file_path"`
	StatusFilePath string `json:"status_file_path"`

	// Feature flags
	DryRun         bool `json:"dry_run"`
	RunOnce        bool `json:"run_once"`
	AutoWorkOrders bool `json:"auto_work_orders"`
}

// LockInfo represents file lock information. Hostname and PID identify the
// process holding the lock when an operator has to find a stuck sweeper.
type LockInfo struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	AcquiredAt  time.Time `json:"acquired_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Environment string    `json:"environment"`
	Hostname    string    `json:"hostname,omitempty"`
	PID         int       `json:"pid,omitempty"`
}

// WorkerStatus represents the current status of the sweep worker
type WorkerStatus string

const (
	StatusIdle         WorkerStatus = "idle"
	StatusInitializing WorkerStatus = "initializing"

	// Provisioning phases
	StatusCreatingTables   WorkerStatus = "creating_tables"
	StatusWaitingForTables WorkerStatus = "waiting_for_tables"
	StatusValidating       WorkerStatus = "validating"

	// Sweep phase
	StatusSweeping WorkerStatus = "sweeping"

	// Terminal states
	StatusCompleted WorkerStatus = "completed"
	StatusFailed    WorkerStatus = "failed"
	StatusRetrying  WorkerStatus = "retrying"
)

// SweepRun summarizes one execution of the maintenance sweep.
type SweepRun struct {
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	DryRun    bool          `json:"dry_run"`

	SchedulesChecked   int `json:"schedules_checked"`
	NextDueRefreshed   int `json:"next_due_refreshed"`
	DueSchedules       int `json:"due_schedules"`
	OverdueSchedules   int `json:"overdue_schedules"`
	WorkOrdersCreated  int `json:"work_orders_created"`
	WorkOrdersExisting int `json:"work_orders_existing"`

	Errors []string `json:"errors,omitempty"`
}

// WorkerState is the persisted worker status file: the provisioning outcome
// plus a rolling summary of sweep executions.
type WorkerState struct {
	Success   bool          `json:"success"`
	Status    WorkerStatus  `json:"status"`
	StartTime time.Time     `json:"start_time"`
	EndTime   *time.Time    `json:"end_time,omitempty"`
	Duration  time.Duration `json:"duration"`

	// Provisioning outcome
	TablesCreated []TableStatus `json:"tables_created"`

	// Sweep bookkeeping
	LastSweep       *SweepRun  `json:"last_sweep,omitempty"`
	SweepsCompleted int        `json:"sweeps_completed"`
	SweepsFailed    int        `json:"sweeps_failed"`
	NextRun         *time.Time `json:"next_run,omitempty"`

	// Error handling
	ErrorMessage string     `json:"error_message,omitempty"`
	LastError    *ErrorInfo `json:"last_error,omitempty"`
	RetryCount   int        `json:"retry_count"`

	// Context
	Environment string                 `json:"environment"`
	Metadata    map[string]interface{} `json:"metadata"`

	// Health indicators
	HealthStatus string `json:"health_status,omitempty"`
	NextAction   string `json:"next_action,omitempty"`
}

// TableStatus represents provisioning status for one table
type TableStatus struct {
	Name           string        `json:"name"`
	Status         string        `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	BecameActiveAt *time.Time    `json:"became_active_at,omitempty"`
	IndexCount     int           `json:"index_count"`
	Indexes        []IndexStatus `json:"indexes,omitempty"`
	BillingMode    string        `json:"billing_mode,omitempty"`
}

// IndexStatus represents secondary index status on a table
type IndexStatus struct {
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorInfo provides structured error information
type ErrorInfo struct {
	Code        string         `json:"code"`
	Message     string         `json:"message"`
	Timestamp   time.Time      `json:"timestamp"`
	Recoverable bool           `json:"recoverable"`
	RetryAfter  *time.Duration `json:"retry_after,omitempty"`
}
