package worker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
)

// StatusManager embeds models.StatusManager to allow method definitions.
// The status file is the contract between the worker and the HTTP layer:
// the sweep service reads the same file to answer /worker/status.
type StatusManager struct {
	models.StatusManager
}

// NewStatusManager creates a new status manager
func NewStatusManager(statusPath string) *StatusManager {
	return &StatusManager{
		StatusManager: models.StatusManager{
			StatusFilePath: statusPath,
		},
	}
}

// ToModelsStatusManager returns the embedded models.StatusManager
func (sm *StatusManager) ToModelsStatusManager() *models.StatusManager {
	return &sm.StatusManager
}

func (sm *StatusManager) SaveState(state *models.WorkerState) error {
	if err := os.MkdirAll(filepath.Dir(sm.StatusFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create status directory: %w", err)
	}

	if state.EndTime == nil && (state.Status == models.StatusCompleted || state.Status == models.StatusFailed) {
		now := time.Now()
		state.EndTime = &now
		state.Duration = now.Sub(state.StartTime)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	// Write atomically so the sweep service never reads a half-written file
	tempFile := sm.StatusFilePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp status file: %w", err)
	}

	if err := os.Rename(tempFile, sm.StatusFilePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename status file: %w", err)
	}

	return nil
}

func (sm *StatusManager) LoadState() (*models.WorkerState, error) {
	data, err := os.ReadFile(sm.StatusFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read status file: %w", err)
	}

	var state models.WorkerState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status: %w", err)
	}

	return &state, nil
}

// IsProvisioned checks if table provisioning has completed successfully
func (sm *StatusManager) IsProvisioned() (bool, error) {
	state, err := sm.LoadState()
	if err != nil {
		return false, err
	}

	return state.Status == models.StatusCompleted && state.Success, nil
}

func (sm *StatusManager) UpdateProgress(status models.WorkerStatus, message string, metadata map[string]any) error {
	state, err := sm.LoadState()
	if err != nil {
		// Create new state if loading fails
		state = &models.WorkerState{
			StartTime:     time.Now(),
			TablesCreated: make([]models.TableStatus, 0),
			Metadata:      make(map[string]any),
		}
	}

	state.Status = status
	state.EndTime = nil
	if message != "" {
		if state.Metadata == nil {
			state.Metadata = make(map[string]any)
		}
		state.Metadata["last_message"] = message
		state.Metadata["last_update"] = time.Now()
	}

	for k, v := range metadata {
		if state.Metadata == nil {
			state.Metadata = make(map[string]any)
		}
		state.Metadata[k] = v
	}

	return sm.SaveState(state)
}

// AddTableCreated records a provisioned table in the state file
func (sm *StatusManager) AddTableCreated(table models.TableStatus) error {
	state, err := sm.LoadState()
	if err != nil {
		return err
	}

	for _, existing := range state.TablesCreated {
		if existing.Name == table.Name {
			return nil // Already recorded
		}
	}

	state.TablesCreated = append(state.TablesCreated, table)
	return sm.SaveState(state)
}

// MarkCompleted marks the current phase as completed
func (sm *StatusManager) MarkCompleted() error {
	state, err := sm.LoadState()
	if err != nil {
		return err
	}

	state.Success = true
	state.Status = models.StatusCompleted
	now := time.Now()
	state.EndTime = &now
	state.Duration = now.Sub(state.StartTime)

	return sm.SaveState(state)
}

// MarkFailed marks the current phase as failed
func (sm *StatusManager) MarkFailed(errorMsg string) error {
	state, err := sm.LoadState()
	if err != nil {
		state = &models.WorkerState{
			StartTime:     time.Now(),
			TablesCreated: make([]models.TableStatus, 0),
			Metadata:      make(map[string]any),
		}
	}

	state.Success = false
	state.Status = models.StatusFailed
	state.ErrorMessage = errorMsg
	state.LastError = &models.ErrorInfo{
		Code:        "WORKER_FAILED",
		Message:     errorMsg,
		Timestamp:   time.Now(),
		Recoverable: true,
	}
	now := time.Now()
	state.EndTime = &now
	state.Duration = now.Sub(state.StartTime)

	return sm.SaveState(state)
}

// GetRetryCount returns the current retry counter
func (sm *StatusManager) GetRetryCount() (int, error) {
	state, err := sm.LoadState()
	if err != nil {
		return 0, err
	}

	return state.RetryCount, nil
}

// IncrementRetryCount increments the retry counter
func (sm *StatusManager) IncrementRetryCount() error {
	state, err := sm.LoadState()
	if err != nil {
		return err
	}

	state.RetryCount++
	state.Status = models.StatusRetrying
	state.EndTime = nil

	return sm.SaveState(state)
}

// RecordSweep folds one sweep execution into the state file. A sweep error
// marks the worker failed; a clean run marks it completed and carries the
// run summary so /worker/status can report it.
func (sm *StatusManager) RecordSweep(run *models.SweepRun, sweepErr error, nextRun *time.Time) error {
	state, err := sm.LoadState()
	if err != nil {
		state = &models.WorkerState{
			StartTime:     time.Now(),
			TablesCreated: make([]models.TableStatus, 0),
			Metadata:      make(map[string]any),
		}
	}

	state.NextRun = nextRun
	state.EndTime = nil

	if sweepErr != nil {
		state.SweepsFailed++
		state.Success = false
		state.Status = models.StatusFailed
		state.ErrorMessage = sweepErr.Error()
		state.LastError = &models.ErrorInfo{
			Code:        "SWEEP_FAILED",
			Message:     sweepErr.Error(),
			Timestamp:   time.Now(),
			Recoverable: true,
		}
		return sm.SaveState(state)
	}

	state.LastSweep = run
	state.SweepsCompleted++
	state.Success = true
	state.Status = models.StatusCompleted
	state.ErrorMessage = ""
	state.LastError = nil
	return sm.SaveState(state)
}

// ResetStatus resets the status (useful for forced re-runs)
func (sm *StatusManager) ResetStatus() error {
	return os.Remove(sm.StatusFilePath)
}
