package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/maintenance"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/repository"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/metrics"
)

// SweepService evaluates every active schedule against the current clock:
// stale nextDue values are refreshed and due schedules get a work order
// generated. The cron worker calls RunSweep on its schedule; the HTTP layer
// calls it for on-demand runs and reads the worker status file through
// GetWorkerStatus.
type SweepService struct {
	scheduleRepo repository.ScheduleRepositoryInterface
	assetRepo    repository.AssetRepositoryInterface
	workOrderSvc WorkOrderServiceInterface
	metrics      *metrics.Metrics
	config       *models.Config
	logger       logger.Logger
}

// NewSweepService creates a new sweep service instance
func NewSweepService(
	scheduleRepo repository.ScheduleRepositoryInterface,
	assetRepo repository.AssetRepositoryInterface,
	workOrderSvc WorkOrderServiceInterface,
	m *metrics.Metrics,
	cfg *models.Config,
	log logger.Logger,
) *SweepService {
	return &SweepService{
		scheduleRepo: scheduleRepo,
		assetRepo:    assetRepo,
		workOrderSvc: workOrderSvc,
		metrics:      m,
		config:       cfg,
		logger:       log,
	}
}

// RunSweep executes one maintenance sweep. The whole sweep reads the clock
// once, so every schedule is judged against the same instant. In dry-run mode
// nothing is written; the result reports what a real run would have done.
func (s *SweepService) RunSweep(ctx context.Context, dryRun bool) (*models.SweepRun, error) {
	now := time.Now()
	run := &models.SweepRun{StartTime: now, DryRun: dryRun}

	schedules, err := s.scheduleRepo.GetActiveSchedules()
	if err != nil {
		s.metrics.SweepsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to load active schedules: %w", err)
	}

	assetCache := make(map[string]*models.Asset)
	for _, sched := range schedules {
		run.SchedulesChecked++

		asset, ok := assetCache[sched.AssetID]
		if !ok {
			asset, err = s.assetRepo.GetAsset(sched.AssetID)
			if err != nil {
				run.Errors = append(run.Errors, fmt.Sprintf("schedule %s: asset %s: %v", sched.ScheduleID, sched.AssetID, err))
				continue
			}
			assetCache[sched.AssetID] = asset
		}
		if asset.Status == models.AssetStatusRetired {
			continue
		}

		sched = s.refreshNextDue(sched, now, dryRun, run)

		overdue := maintenance.IsOverdue(*sched, now)
		due := overdue ||
			maintenance.UsageDue(*sched, asset.CurrentUsageHours, asset.LastMaintenanceHours) ||
			maintenance.EventDue(*sched, asset.BookingsSinceMaintenance)
		if overdue {
			run.OverdueSchedules++
		}
		if !due {
			continue
		}
		run.DueSchedules++

		if dryRun || !s.config.SweepAutoWorkOrders {
			continue
		}

		order, genErr := s.workOrderSvc.GenerateForDueSchedule(ctx, sched, "maintenance-sweep")
		if genErr != nil {
			run.Errors = append(run.Errors, fmt.Sprintf("schedule %s: generate work order: %v", sched.ScheduleID, genErr))
			continue
		}
		if order.CreatedAt.Before(run.StartTime) {
			run.WorkOrdersExisting++
		} else {
			run.WorkOrdersCreated++
		}
	}

	run.EndTime = time.Now()
	run.Duration = run.EndTime.Sub(run.StartTime)

	s.metrics.OverdueSchedules.Set(float64(run.OverdueSchedules))
	s.metrics.SweepDuration.Observe(run.Duration.Seconds())
	if run.WorkOrdersCreated > 0 {
		s.metrics.WorkOrdersGenerated.Add(float64(run.WorkOrdersCreated))
	}
	outcome := "completed"
	if dryRun {
		outcome = "dry_run"
	}
	s.metrics.SweepsTotal.WithLabelValues(outcome).Inc()

	s.logger.WithFields(map[string]interface{}{
		"schedulesChecked":   run.SchedulesChecked,
		"dueSchedules":       run.DueSchedules,
		"overdueSchedules":   run.OverdueSchedules,
		"workOrdersCreated":  run.WorkOrdersCreated,
		"workOrdersExisting": run.WorkOrdersExisting,
		"nextDueRefreshed":   run.NextDueRefreshed,
		"errors":             len(run.Errors),
		"dryRun":             dryRun,
		"duration":           run.Duration.String(),
	}).Info("Sweep finished")

	return run, nil
}

// refreshNextDue recomputes the due date for date-carrying schedules and
// persists it when it drifted, which happens after manual edits and for
// fixed-date schedules rolling over into the next year.
func (s *SweepService) refreshNextDue(sched *models.MaintenanceSchedule, now time.Time, dryRun bool, run *models.SweepRun) *models.MaintenanceSchedule {
	if sched.ScheduleType != models.ScheduleTypeTimeBased && sched.ScheduleType != models.ScheduleTypeFixedDate {
		return sched
	}

	expected := maintenance.NextDue(*sched, now)
	if equalDueDates(sched.NextDue, expected) {
		return sched
	}

	run.NextDueRefreshed++
	if dryRun {
		return sched
	}

	updated := *sched
	updated.NextDue = expected
	updated.UpdatedBy = "maintenance-sweep"
	persisted, err := s.scheduleRepo.UpdateSchedule(sched.ScheduleID, &updated)
	if err != nil {
		run.Errors = append(run.Errors, fmt.Sprintf("schedule %s: refresh nextDue: %v", sched.ScheduleID, err))
		return sched
	}
	return persisted
}

// GetWorkerStatus reads the worker status file and enriches it with health
// indicators for the API.
func (s *SweepService) GetWorkerStatus() (*models.WorkerState, error) {
	statusFilePath := fmt.Sprintf("/tmp/inventory-sweep-status-%s.json", s.config.AppEnv)

	data, err := os.ReadFile(statusFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read worker status file: %w", err)
	}

	var state models.WorkerState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal worker status: %w", err)
	}

	s.enrichWorkerState(&state)
	return &state, nil
}

// IsWorkerHealthy reports whether the sweep worker is in a healthy state.
func (s *SweepService) IsWorkerHealthy() (bool, string, error) {
	state, err := s.GetWorkerStatus()
	if err != nil {
		return false, "Cannot read worker status", err
	}

	switch state.Status {
	case models.StatusCompleted:
		if state.Success {
			return true, "Worker completed successfully", nil
		}
		return false, "Worker completed with errors", nil
	case models.StatusSweeping:
		if time.Since(state.StartTime) > 30*time.Minute {
			return false, "Sweep running too long", nil
		}
		return true, "Sweep is running normally", nil
	case models.StatusCreatingTables, models.StatusWaitingForTables, models.StatusValidating, models.StatusInitializing:
		return true, "Worker is provisioning tables", nil
	case models.StatusFailed:
		return false, fmt.Sprintf("Worker failed: %s", state.ErrorMessage), nil
	case models.StatusRetrying:
		if state.RetryCount > 5 {
			return false, "Worker stuck in retry loop", nil
		}
		return false, "Worker is retrying after failure", nil
	default:
		return false, "Worker status unknown", nil
	}
}

func (s *SweepService) enrichWorkerState(state *models.WorkerState) {
	switch state.Status {
	case models.StatusInitializing:
		state.NextAction = "Initializing sweep worker"
		state.HealthStatus = "provisioning"
	case models.StatusCreatingTables:
		state.NextAction = "Creating DynamoDB tables - this may take a few minutes"
		state.HealthStatus = "provisioning"
	case models.StatusWaitingForTables:
		state.NextAction = "Waiting for DynamoDB tables to become active"
		state.HealthStatus = "provisioning"
	case models.StatusValidating:
		state.NextAction = "Validating table configuration"
		state.HealthStatus = "provisioning"
	case models.StatusSweeping:
		state.NextAction = "Maintenance sweep is in progress"
		if time.Since(state.StartTime) > 30*time.Minute {
			state.HealthStatus = "degraded"
		} else {
			state.HealthStatus = "healthy"
		}
	case models.StatusCompleted:
		state.NextAction = "Waiting for the next scheduled sweep"
		if state.Success {
			state.HealthStatus = "healthy"
		} else {
			state.HealthStatus = "degraded"
		}
	case models.StatusFailed:
		if state.RetryCount < 3 {
			state.NextAction = "Will retry automatically after backoff period"
		} else {
			state.NextAction = "Manual intervention required - max retries exceeded"
		}
		state.HealthStatus = "unhealthy"
	case models.StatusRetrying:
		state.NextAction = fmt.Sprintf("Retrying worker setup (attempt %d)", state.RetryCount+1)
		state.HealthStatus = "degraded"
	default:
		state.NextAction = "Monitoring worker status"
		state.HealthStatus = "unknown"
	}
}

func equalDueDates(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
