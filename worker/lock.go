package worker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
)

// LockManager guards the sweep with a file lock so only one sweeper runs
// per environment.
type LockManager struct {
	models.LockManager
}

// NewLockManager creates a new lock manager
func NewLockManager(lockPath string, timeout time.Duration, env string) *models.LockManager {
	return &models.LockManager{
		LockFilePath: lockPath,
		LockTimeout:  timeout,
		Environment:  env,
	}
}

// AcquireLock takes the sweep lock. A live lock held by the same owner is
// extended in place; a live lock held by anyone else is an error. Expired
// locks are taken over.
func (lm *LockManager) AcquireLock(ownerID string) (*models.LockInfo, error) {
	if err := os.MkdirAll(filepath.Dir(lm.LockFilePath), 0755); err != nil {
		return nil, err
	}

	now := time.Now()

	if held, err := lm.loadLock(); err == nil && now.Before(held.ExpiresAt) {
		if held.Owner != ownerID || held.Environment != lm.Environment {
			return nil, fmt.Errorf("lock held by %s until %s", held.Owner, held.ExpiresAt.Format(time.RFC3339))
		}
		// Re-entry by the current owner: keep the lock identity, push out
		// the expiry.
		extended := *held
		extended.ExpiresAt = now.Add(lm.LockTimeout)
		if err := lm.storeLock(&extended); err != nil {
			return nil, fmt.Errorf("failed to extend lock: %w", err)
		}
		return &extended, nil
	}

	hostname, _ := os.Hostname()
	fresh := &models.LockInfo{
		ID:          fmt.Sprintf("sweep-lock-%d", now.UnixNano()),
		Owner:       ownerID,
		AcquiredAt:  now,
		ExpiresAt:   now.Add(lm.LockTimeout),
		Environment: lm.Environment,
		Hostname:    hostname,
		PID:         os.Getpid(),
	}
	if err := lm.storeLock(fresh); err != nil {
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}
	return fresh, nil
}

// ReleaseLock releases the sweep lock. A missing lock file is not an error;
// a lock held by a different owner is.
func (lm *LockManager) ReleaseLock(lockInfo *models.LockInfo) error {
	held, err := lm.loadLock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read lock file: %w", err)
	}

	if held.Owner != lockInfo.Owner {
		return fmt.Errorf("cannot release lock owned by %s", held.Owner)
	}

	if err := os.Remove(lm.LockFilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

// CleanupExpiredLocks removes the lock file if its expiry has passed.
func (lm *LockManager) CleanupExpiredLocks() error {
	held, err := lm.loadLock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if time.Now().After(held.ExpiresAt) {
		return os.Remove(lm.LockFilePath)
	}
	return nil
}

func (lm *LockManager) loadLock() (*models.LockInfo, error) {
	data, err := os.ReadFile(lm.LockFilePath)
	if err != nil {
		return nil, err
	}

	var held models.LockInfo
	if err := json.Unmarshal(data, &held); err != nil {
		return nil, fmt.Errorf("failed to parse lock file: %w", err)
	}
	return &held, nil
}

// storeLock writes the lock file atomically via a rename so a crashed
// sweeper never leaves a half-written lock behind.
func (lm *LockManager) storeLock(lockInfo *models.LockInfo) error {
	data, err := json.MarshalIndent(lockInfo, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize lock info: %w", err)
	}

	tempFile := lm.LockFilePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp lock file: %w", err)
	}
	if err := os.Rename(tempFile, lm.LockFilePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp lock file: %w", err)
	}
	return nil
}
