package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
	"github.com/rios0rios0/buildactivities/internal/domain/repositories"
	"github.com/rios0rios0/buildactivities/internal/retry"
)

// ErrLockNotOwned is returned when releasing a lock held by another build.
var ErrLockNotOwned = errors.New("lock is held by another build")

// LockAction selects the lock operation.
type LockAction string

const (
	LockActionAcquire LockAction = "acquire"
	LockActionRelease LockAction = "release"
	LockActionStatus  LockAction = "status"

	unlockedOwner = "unlocked"
)

// EnvironmentLock is the interface for the environment lock activity.
type EnvironmentLock interface {
	Execute(ctx context.Context, settings *entities.Settings, opts LockOptions) (*LockResult, error)
}

// LockOptions holds the inputs of the environment lock activity.
type LockOptions struct {
	Action      LockAction
	Environment string
	BuildNumber string
	Share       string        // overrides settings.Lock.Share
	Wait        bool          // poll until acquired instead of failing immediately
	Timeout     time.Duration // overrides settings.Lock.Timeout
	Force       bool          // release even when another build holds the lock
	DryRun      bool
}

// LockResult holds the outputs of the environment lock activity.
type LockResult struct {
	Environment string
	Owner       string
	Acquired    bool
	Waited      time.Duration
}

// EnvironmentLockCommand serializes deployments to a shared environment
// through lock files on a network share.
type EnvironmentLockCommand struct {
	lockRepository repositories.LockRepository
}

// NewEnvironmentLockCommand creates a new EnvironmentLockCommand.
func NewEnvironmentLockCommand(lockRepository repositories.LockRepository) *EnvironmentLockCommand {
	return &EnvironmentLockCommand{lockRepository: lockRepository}
}

// Execute dispatches to acquire, release or status.
func (it *EnvironmentLockCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts LockOptions,
) (*LockResult, error) {
	if opts.Share == "" {
		opts.Share = settings.Lock.Share
	}
	if err := entities.RequireArgument("lock share", opts.Share); err != nil {
		return nil, err
	}
	if err := entities.RequireArgument("environment", opts.Environment); err != nil {
		return nil, err
	}

	switch opts.Action {
	case LockActionAcquire:
		if err := entities.RequireArgument("build number", opts.BuildNumber); err != nil {
			return nil, err
		}
		return it.acquire(ctx, settings, opts)
	case LockActionRelease:
		if !opts.Force {
			if err := entities.RequireArgument("build number", opts.BuildNumber); err != nil {
				return nil, err
			}
		}
		return it.release(ctx, opts)
	case LockActionStatus:
		return it.status(ctx, opts)
	default:
		return nil, fmt.Errorf("%w: unknown lock action %q", entities.ErrInvalidArgument, opts.Action)
	}
}

func (it *EnvironmentLockCommand) acquire(
	ctx context.Context,
	settings *entities.Settings,
	opts LockOptions,
) (*LockResult, error) {
	result := &LockResult{Environment: opts.Environment}
	if opts.DryRun {
		logger.Infof("[lock] [DRY RUN] Would acquire %s for build %s", opts.Environment, opts.BuildNumber)
		return result, nil
	}

	start := time.Now()
	tryAcquire := func(ctx context.Context) (bool, error) {
		acquired, current, err := it.lockRepository.TryAcquire(ctx, opts.Share, opts.Environment, opts.BuildNumber)
		if err != nil {
			return false, retry.Permanent(err)
		}
		result.Owner = current.Owner
		if acquired || current.Owner == opts.BuildNumber {
			return true, nil
		}
		logger.Infof("[lock] %s is held by build %s, waiting", opts.Environment, current.Owner)
		return false, nil
	}

	var err error
	if opts.Wait {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = settings.Lock.Timeout.Std()
		}
		err = retry.Until(ctx, retry.Options{
			Interval: settings.Lock.PollInterval.Std(),
			Timeout:  timeout,
		}, tryAcquire)
	} else {
		err = retry.Until(ctx, retry.Options{MaxAttempts: 1}, tryAcquire)
	}
	result.Waited = time.Since(start)

	if err != nil {
		return result, fmt.Errorf("failed to acquire %s (held by %s): %w", opts.Environment, result.Owner, err)
	}

	result.Acquired = true
	entities.LogMessage(
		entities.ImportanceHigh, "[lock] Build %s holds %s (waited %s)",
		opts.BuildNumber, opts.Environment, result.Waited.Round(time.Second),
	)
	return result, nil
}

func (it *EnvironmentLockCommand) release(ctx context.Context, opts LockOptions) (*LockResult, error) {
	current, err := it.lockRepository.Read(ctx, opts.Share, opts.Environment)
	if err != nil {
		return nil, err
	}
	result := &LockResult{Environment: opts.Environment, Owner: current.Owner}

	if !current.Locked() {
		logger.Infof("[lock] %s is not locked, nothing to release", opts.Environment)
		result.Owner = unlockedOwner
		return result, nil
	}
	if current.Owner != opts.BuildNumber && !opts.Force {
		return result, fmt.Errorf("%w: %s is held by build %s", ErrLockNotOwned, opts.Environment, current.Owner)
	}
	if current.Owner != opts.BuildNumber {
		logger.Warnf("[lock] Forcing release of %s held by build %s", opts.Environment, current.Owner)
	}

	if opts.DryRun {
		logger.Infof("[lock] [DRY RUN] Would release %s", opts.Environment)
		return result, nil
	}
	if err = it.lockRepository.Remove(ctx, opts.Share, opts.Environment); err != nil {
		return result, err
	}

	result.Owner = unlockedOwner
	entities.LogMessage(entities.ImportanceHigh, "[lock] Released %s", opts.Environment)
	return result, nil
}

func (it *EnvironmentLockCommand) status(ctx context.Context, opts LockOptions) (*LockResult, error) {
	current, err := it.lockRepository.Read(ctx, opts.Share, opts.Environment)
	if err != nil {
		return nil, err
	}

	result := &LockResult{Environment: opts.Environment, Owner: current.Owner}
	if !current.Locked() {
		result.Owner = unlockedOwner
	}
	result.Acquired = current.Locked() && current.Owner == opts.BuildNumber
	logger.Infof("[lock] %s: %s", opts.Environment, result.Owner)
	return result, nil
}
