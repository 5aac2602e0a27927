package worker

import (
	"context"
	"fmt"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"
)

// Service wraps the sweep worker for easy integration
type Service struct {
	worker *models.Worker
	logger logger.Logger
}

// NewService creates a new worker service. The sweeper is the sweep service
// from the service container; the worker stays decoupled from the services
// package through the models.SweepRunner interface.
func NewService(ctx context.Context, cfg *models.Config, log logger.Logger, sweeper models.SweepRunner) (*Service, error) {
	worker, err := NewWorker(ctx, cfg, log, sweeper)
	if err != nil {
		return nil, fmt.Errorf("failed to create sweep worker: %w", err)
	}

	return &Service{
		worker: worker,
		logger: log,
	}, nil
}

// StartInBackground starts the sweep worker in the background
func (s *Service) StartInBackground() error {
	s.logger.Info("Starting sweep worker service in background")

	w := &Worker{Worker: s.worker}
	if err := w.Start(); err != nil {
		return fmt.Errorf("sweep worker failed to start: %w", err)
	}

	return nil
}

// Stop stops the sweep worker service
func (s *Service) Stop() error {
	w := &Worker{Worker: s.worker}
	s.logger.Info("Stopping sweep worker service")
	return w.Stop()
}

// GetStatus returns the persisted worker state
func (s *Service) GetStatus() (*models.WorkerState, error) {
	w := &Worker{Worker: s.worker}
	return w.GetState()
}

// IsProvisioned checks if table provisioning has completed
func (s *Service) IsProvisioned() (bool, error) {
	statusManager := &StatusManager{StatusManager: *s.worker.StatusManager}
	return statusManager.IsProvisioned()
}

// GetHealthStatus returns a health snapshot for monitoring
func (s *Service) GetHealthStatus() map[string]interface{} {
	w := &Worker{Worker: s.worker}

	state, err := s.GetStatus()
	if err != nil {
		return map[string]interface{}{
			"status":         "error",
			"message":        fmt.Sprintf("Failed to get status: %v", err),
			"healthy":        false,
			"worker_running": w.IsRunning(),
		}
	}

	healthy := state.Status == models.StatusCompleted && state.Success

	return map[string]interface{}{
		"status":           string(state.Status),
		"healthy":          healthy,
		"worker_running":   w.IsRunning(),
		"tables_created":   state.TablesCreated,
		"sweeps_completed": state.SweepsCompleted,
		"sweeps_failed":    state.SweepsFailed,
		"retry_count":      state.RetryCount,
		"environment":      state.Environment,
		"start_time":       state.StartTime,
		"duration":         state.Duration.String(),
		"error_message":    state.ErrorMessage,
	}
}
