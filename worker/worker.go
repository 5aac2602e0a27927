package worker

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"
)

// Worker wraps models.Worker so methods can live in this package without
// copying the embedded mutex.
type Worker struct {
	Worker *models.Worker
}

// NewWorker builds the sweep worker: table provisioning at startup, then
// cron-driven maintenance sweeps through the injected SweepRunner.
func NewWorker(ctx context.Context, cfg *models.Config, log logger.Logger, sweeper models.SweepRunner) (*models.Worker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if sweeper == nil {
		return nil, fmt.Errorf("sweeper cannot be nil")
	}

	// Generate unique owner ID for this instance
	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname = "localhost"
	}
	ownerID := fmt.Sprintf("sweeper-%s-%s", hostname, uuid.New().String()[:8])

	cronSchedule := cfg.SweepCronSchedule
	if cronSchedule == "" {
		cronSchedule = getCronScheduleForEnvironment(cfg.AppEnv)
	}

	workerConfig := &models.WorkerConfig{
		CronSchedule:      cronSchedule,
		LockTimeout:       30 * time.Minute,
		LockRetryInterval: 5 * time.Second,
		MaxRetries:        5,
		RetryDelay:        2 * time.Second,
		BackoffMultiplier: 2.0,
		Environment:       cfg.AppEnv,
		RequiredTables:    cfg.Tables,
		LockFilePath:      fmt.Sprintf("/tmp/inventory-sweep-%s.lock", cfg.AppEnv),
		StatusFilePath:    fmt.Sprintf("/tmp/inventory-sweep-status-%s.json", cfg.AppEnv),
		DryRun:            cfg.SweepDryRun,
		RunOnce:           cfg.SweepRunOnce,
		AutoWorkOrders:    cfg.SweepAutoWorkOrders,
	}

	if err := validateWorkerConfig(workerConfig); err != nil {
		return nil, fmt.Errorf("invalid worker configuration: %w", err)
	}

	provisioner, err := NewProvisioner(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create table provisioner: %w", err)
	}

	lockManager := NewLockManager(workerConfig.LockFilePath, workerConfig.LockTimeout, workerConfig.Environment)
	statusManager := NewStatusManager(workerConfig.StatusFilePath)

	cronJob := cron.New()
	ctx, cancel := context.WithCancel(ctx)

	return &models.Worker{
		Config:        cfg,
		Logger:        log,
		CronJob:       cronJob,
		LockManager:   lockManager,
		StatusManager: statusManager.ToModelsStatusManager(),
		Provisioner:   provisioner.ToModelsProvisioner(),
		Sweeper:       sweeper,
		WorkerConfig:  workerConfig,
		OwnerID:       ownerID,
		StopChan:      make(chan struct{}),
		Ctx:           ctx,
		Cancel:        cancel,
	}, nil
}

// Start launches the worker. Provisioning and sweep scheduling happen in
// the background; Start only validates state and flips the running flag.
func (w *Worker) Start() error {
	w.Worker.Mu.Lock()
	defer w.Worker.Mu.Unlock()

	if w.Worker.IsRunning {
		return fmt.Errorf("worker is already running")
	}

	if w.Worker.Ctx == nil || w.Worker.Cancel == nil {
		return fmt.Errorf("worker context is nil, worker may have been improperly initialized")
	}

	select {
	case <-w.Worker.Ctx.Done():
		return fmt.Errorf("worker context is cancelled, cannot start")
	default:
	}

	w.Worker.Logger.Infof("Starting sweep worker with schedule: %s", w.Worker.WorkerConfig.CronSchedule)
	w.Worker.Logger.Infof("Worker ID: %s", w.Worker.OwnerID)
	w.Worker.Logger.Infof("RunOnce mode: %v, DryRun mode: %v", w.Worker.WorkerConfig.RunOnce, w.Worker.WorkerConfig.DryRun)
	w.Worker.Logger.Debugf("Worker configuration: %s", utils.PrintPrettyJSON(w.Worker.WorkerConfig))

	w.Worker.IsRunning = true
	w.Worker.SetupOnce.Do(func() {
		go w.bootstrap()
	})

	return nil
}

// bootstrap provisions tables once, then hands over to the sweep schedule
func (w *Worker) bootstrap() {
	defer func() {
		if r := recover(); r != nil {
			w.Worker.Logger.Errorf("Worker bootstrap panicked: %v", r)
			statusManager := &StatusManager{StatusManager: *w.Worker.StatusManager}
			statusManager.MarkFailed(fmt.Sprintf("bootstrap panicked: %v", r))
			w.Stop()
		}
	}()

	if err := w.provisionTables(); err != nil {
		w.Worker.Logger.Errorf("Table provisioning failed: %v", err)
		w.Stop()
		return
	}

	if !w.Worker.Config.SweepEnabled {
		w.Worker.Logger.Info("Sweep scheduling is disabled, worker stops after provisioning")
		w.Stop()
		return
	}

	if w.Worker.WorkerConfig.RunOnce {
		w.Worker.Logger.Info("Running in RunOnce mode - executing one sweep and stopping")
		w.sweepJob()
		w.Stop()
		return
	}

	if err := w.Worker.CronJob.AddFunc(w.Worker.WorkerConfig.CronSchedule, w.sweepJob); err != nil {
		w.Worker.Logger.Errorf("Failed to add cron job: %v", err)
		w.Stop()
		return
	}
	w.Worker.CronJob.Start()
	w.Worker.Logger.Info("Sweep worker started successfully")

	// First sweep runs immediately so a fresh deployment does not wait for
	// the next cron tick. Development restarts too often for that.
	if w.Worker.WorkerConfig.Environment != "development" {
		go w.sweepJob()
	}
}

// provisionTables runs the table provisioner under the environment lock,
// retrying with exponential backoff. Already-provisioned environments skip
// straight through.
func (w *Worker) provisionTables() error {
	statusManager := &StatusManager{StatusManager: *w.Worker.StatusManager}

	if provisioned, err := statusManager.IsProvisioned(); err != nil {
		if strings.Contains(err.Error(), "no such file or directory") {
			w.Worker.Logger.Debug("Status file not found, proceeding with provisioning")
		} else {
			w.Worker.Logger.Errorf("Failed to check provisioning status: %v", err)
		}
	} else if provisioned {
		w.Worker.Logger.Info("Tables already provisioned, skipping setup")
		return nil
	}

	ctx, cancel := context.WithTimeout(w.Worker.Ctx, 15*time.Minute)
	defer cancel()

	lockInfo, err := w.acquireLockWithContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer func() {
		lockManager := &LockManager{LockManager: *w.Worker.LockManager}
		if err := lockManager.ReleaseLock(lockInfo); err != nil {
			w.Worker.Logger.Errorf("Failed to release lock: %v", err)
		}
	}()

	state := &models.WorkerState{
		StartTime:     time.Now(),
		Status:        models.StatusInitializing,
		Environment:   w.Worker.WorkerConfig.Environment,
		TablesCreated: make([]models.TableStatus, 0),
		Metadata: map[string]any{
			"owner_id": w.Worker.OwnerID,
			"dry_run":  w.Worker.WorkerConfig.DryRun,
		},
	}
	if err := statusManager.SaveState(state); err != nil {
		w.Worker.Logger.Errorf("Failed to save initial status: %v", err)
	}

	provisioner := &Provisioner{TableProvisioner: *w.Worker.Provisioner}

	var lastErr error
	for attempt := 0; attempt <= w.Worker.WorkerConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := w.calculateRetryDelay(attempt - 1)
			w.Worker.Logger.Warnf("Provisioning failed (attempt %d/%d), retrying in %v: %v",
				attempt, w.Worker.WorkerConfig.MaxRetries+1, delay, lastErr)
			if err := statusManager.IncrementRetryCount(); err != nil {
				w.Worker.Logger.Errorf("Failed to increment retry count: %v", err)
			}

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if lastErr = provisioner.Execute(ctx, statusManager); lastErr == nil {
			return statusManager.MarkCompleted()
		}
	}

	statusManager.MarkFailed(fmt.Sprintf("Max retries exceeded: %v", lastErr))
	return lastErr
}

// sweepJob runs one maintenance sweep under the environment lock
func (w *Worker) sweepJob() {
	select {
	case <-w.Worker.Ctx.Done():
		w.Worker.Logger.Info("Worker is stopping, skipping sweep")
		return
	default:
	}

	ctx, cancel := context.WithTimeout(w.Worker.Ctx, 15*time.Minute)
	defer cancel()

	lockInfo, err := w.acquireLockWithContext(ctx)
	if err != nil {
		w.Worker.Logger.Warnf("Skipping sweep, could not acquire lock: %v", err)
		return
	}
	defer func() {
		lockManager := &LockManager{LockManager: *w.Worker.LockManager}
		if err := lockManager.ReleaseLock(lockInfo); err != nil {
			w.Worker.Logger.Errorf("Failed to release lock: %v", err)
		}
	}()

	statusManager := &StatusManager{StatusManager: *w.Worker.StatusManager}
	if err := statusManager.UpdateProgress(models.StatusSweeping, "Maintenance sweep started", nil); err != nil {
		w.Worker.Logger.Errorf("Failed to update status: %v", err)
	}

	run, sweepErr := w.Worker.Sweeper.RunSweep(ctx, w.Worker.WorkerConfig.DryRun)
	if sweepErr != nil {
		w.Worker.Logger.Errorf("Sweep failed: %v", sweepErr)
	}

	if err := statusManager.RecordSweep(run, sweepErr, w.nextRunTime()); err != nil {
		w.Worker.Logger.Errorf("Failed to record sweep outcome: %v", err)
	}
}

// nextRunTime computes the next scheduled sweep from the cron spec
func (w *Worker) nextRunTime() *time.Time {
	if w.Worker.WorkerConfig.RunOnce {
		return nil
	}

	schedule, err := cron.Parse(w.Worker.WorkerConfig.CronSchedule)
	if err != nil {
		return nil
	}
	next := schedule.Next(time.Now())
	return &next
}

// Stop stops the sweep worker
func (w *Worker) Stop() error {
	var err error
	w.Worker.StopOnce.Do(func() {
		w.Worker.Mu.Lock()
		defer w.Worker.Mu.Unlock()

		if !w.Worker.IsRunning {
			return
		}

		w.Worker.Logger.Info("Stopping sweep worker")

		// Cancel context first to signal all operations to stop
		if w.Worker.Cancel != nil {
			w.Worker.Cancel()
		}

		if w.Worker.CronJob != nil {
			w.Worker.CronJob.Stop()
			w.Worker.Logger.Info("Cron jobs stopped")
		}

		w.Worker.IsRunning = false

		select {
		case <-w.Worker.StopChan:
			// Already closed
		default:
			close(w.Worker.StopChan)
		}

		w.Worker.Logger.Info("Sweep worker stopped")
	})

	return err
}

// GetState returns the persisted worker state
func (w *Worker) GetState() (*models.WorkerState, error) {
	statusManager := &StatusManager{StatusManager: *w.Worker.StatusManager}
	return statusManager.LoadState()
}

// IsRunning returns whether the worker is currently running
func (w *Worker) IsRunning() bool {
	w.Worker.Mu.RLock()
	defer w.Worker.Mu.RUnlock()
	return w.Worker.IsRunning
}

// acquireLockWithContext tries to acquire the lock with cancellation support
func (w *Worker) acquireLockWithContext(ctx context.Context) (*models.LockInfo, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	type result struct {
		lockInfo *models.LockInfo
		err      error
	}

	resultChan := make(chan result, 1)

	go func() {
		lockManager := &LockManager{LockManager: *w.Worker.LockManager}
		lockInfo, err := lockManager.AcquireLock(w.Worker.OwnerID)
		resultChan <- result{lockInfo, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("lock acquisition cancelled: %w", ctx.Err())
	case res := <-resultChan:
		return res.lockInfo, res.err
	}
}

// calculateRetryDelay calculates the delay for the next retry using exponential backoff
func (w *Worker) calculateRetryDelay(retryCount int) time.Duration {
	delay := float64(w.Worker.WorkerConfig.RetryDelay.Nanoseconds())

	for i := 0; i < retryCount; i++ {
		delay *= w.Worker.WorkerConfig.BackoffMultiplier
	}

	// Cap at maximum delay (1 hour)
	maxDelay := float64((1 * time.Hour).Nanoseconds())
	if delay > maxDelay {
		delay = maxDelay
	}

	return time.Duration(int64(delay))
}

// validateWorkerConfig validates the worker configuration
func validateWorkerConfig(config *models.WorkerConfig) error {
	if config == nil {
		return fmt.Errorf("worker config cannot be nil")
	}

	if config.Environment == "" {
		return fmt.Errorf("environment is required")
	}

	if config.LockTimeout <= 0 {
		return fmt.Errorf("lock timeout must be positive")
	}

	if config.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}

	if config.RetryDelay <= 0 {
		return fmt.Errorf("retry delay must be positive")
	}

	if config.BackoffMultiplier <= 1.0 {
		return fmt.Errorf("backoff multiplier must be greater than 1.0")
	}

	if len(config.RequiredTables) == 0 {
		return fmt.Errorf("at least one required table must be specified")
	}

	if config.LockFilePath == "" {
		return fmt.Errorf("lock file path is required")
	}

	if config.StatusFilePath == "" {
		return fmt.Errorf("status file path is required")
	}

	if config.CronSchedule != "" {
		cronParser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := cronParser.Parse(config.CronSchedule); err != nil {
			return fmt.Errorf("invalid cron schedule '%s': %w", config.CronSchedule, err)
		}
	}

	return nil
}

// getCronScheduleForEnvironment returns environment-specific sweep schedules
func getCronScheduleForEnvironment(env string) string {
	switch env {
	case "development":
		return "0 */5 * * * *" // Every 5 minutes for development
	case "testing":
		return "0 */10 * * * *" // Every 10 minutes for testing
	case "production":
		return "0 0 * * * *" // Hourly for production
	default:
		return "0 */30 * * * *" // Every 30 minutes default
	}
}
