package repositories

import (
	"context"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
)

// LockRepository stores advisory environment locks on a shared directory.
type LockRepository interface {
	// TryAcquire atomically creates the lock for owner. It returns false and the
	// current state when another owner holds it.
	TryAcquire(ctx context.Context, share, environment, owner string) (bool, entities.EnvironmentLock, error)

	// Read returns the current lock state.
	Read(ctx context.Context, share, environment string) (entities.EnvironmentLock, error)

	// Remove deletes the lock regardless of owner.
	Remove(ctx context.Context, share, environment string) error
}
