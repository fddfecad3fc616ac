package filelock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
	"github.com/rios0rios0/buildactivities/internal/domain/repositories"
)

const (
	shareDirMode = 0o755
	lockFileMode = 0o644

	// heldByUnknown is reported while another build has created the lock
	// file but not yet written its build number.
	heldByUnknown = "(unknown)"
)

// FileLockRepository keeps one lock file per environment on a shared
// directory. The file content is the build number of the owner.
type FileLockRepository struct{}

// NewLockRepository creates a new FileLockRepository.
func NewLockRepository() repositories.LockRepository {
	return &FileLockRepository{}
}

// TryAcquire creates the lock file with O_EXCL, so only one build can win.
func (r *FileLockRepository) TryAcquire(
	_ context.Context,
	share, environment, owner string,
) (bool, entities.EnvironmentLock, error) {
	path, err := lockPath(share, environment)
	if err != nil {
		return false, entities.EnvironmentLock{}, err
	}
	if mkdirErr := os.MkdirAll(share, shareDirMode); mkdirErr != nil {
		return false, entities.EnvironmentLock{}, fmt.Errorf("failed to create lock share %q: %w", share, mkdirErr)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, lockFileMode)
	if err != nil {
		if !errors.Is(err, os.ErrExist) {
			return false, entities.EnvironmentLock{}, fmt.Errorf("failed to create lock %q: %w", path, err)
		}
		current, readErr := r.read(path, environment)
		if readErr != nil {
			return false, entities.EnvironmentLock{}, readErr
		}
		if !current.Locked() {
			// Removed between our create and read; the next attempt can win.
			current.Owner = heldByUnknown
		}
		return false, current, nil
	}
	defer file.Close()

	if _, writeErr := file.WriteString(owner); writeErr != nil {
		_ = os.Remove(path)
		return false, entities.EnvironmentLock{}, fmt.Errorf("failed to write lock %q: %w", path, writeErr)
	}

	logger.Debugf("[lock] Created %s for %s", path, owner)
	return true, entities.EnvironmentLock{Environment: environment, Owner: owner}, nil
}

// Read returns the owner recorded in the lock file.
func (r *FileLockRepository) Read(_ context.Context, share, environment string) (entities.EnvironmentLock, error) {
	path, err := lockPath(share, environment)
	if err != nil {
		return entities.EnvironmentLock{}, err
	}
	return r.read(path, environment)
}

// Remove deletes the lock file. A missing file is not an error.
func (r *FileLockRepository) Remove(_ context.Context, share, environment string) error {
	path, err := lockPath(share, environment)
	if err != nil {
		return err
	}
	if removeErr := os.Remove(path); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lock %q: %w", path, removeErr)
	}
	return nil
}

func (r *FileLockRepository) read(path, environment string) (entities.EnvironmentLock, error) {
	lock := entities.EnvironmentLock{Environment: environment}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return lock, nil
		}
		return lock, fmt.Errorf("failed to read lock %q: %w", path, err)
	}

	lock.Owner = strings.TrimSpace(string(data))
	if lock.Owner == "" {
		lock.Owner = heldByUnknown
	}
	return lock, nil
}

// lockPath rejects environment names that would escape the share.
func lockPath(share, environment string) (string, error) {
	if environment == "" || environment != filepath.Base(environment) || environment == ".." {
		return "", fmt.Errorf("%w: invalid environment name %q", entities.ErrInvalidArgument, environment)
	}
	return filepath.Join(share, environment), nil
}
