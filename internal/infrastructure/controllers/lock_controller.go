package controllers

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/buildactivities/internal/domain/commands"
	"github.com/rios0rios0/buildactivities/internal/domain/entities"
)

// LockController handles the "lock" subcommand.
type LockController struct {
	command commands.EnvironmentLock
}

// NewLockController creates a new LockController.
func NewLockController(command commands.EnvironmentLock) *LockController {
	return &LockController{command: command}
}

// GetBind returns the Cobra command metadata for the lock controller.
func (it *LockController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "lock",
		Short: "Acquire, release or inspect an advisory environment lock",
		Long: `Serialize deployments to a shared environment. The lock is a file named
after the environment on a shared directory, holding the build number of
its owner. Acquiring is atomic; with --wait the command polls until the
lock is free or the timeout elapses.`,
	}
}

// Execute runs the environment lock activity.
func (it *LockController) Execute(cmd *cobra.Command, _ []string) error {
	activity, err := newActivityContext(cmd)
	if err != nil {
		return err
	}

	opts := commands.LockOptions{DryRun: activity.dryRun}
	action, _ := cmd.Flags().GetString("action")
	opts.Action = commands.LockAction(action)
	opts.Environment, _ = cmd.Flags().GetString("environment")
	opts.BuildNumber, _ = cmd.Flags().GetString("build-number")
	opts.Share, _ = cmd.Flags().GetString("share")
	opts.Wait, _ = cmd.Flags().GetBool("wait")
	opts.Timeout, _ = cmd.Flags().GetDuration("timeout")
	opts.Force, _ = cmd.Flags().GetBool("force")

	result, err := it.command.Execute(activity.ctx, activity.settings, opts)
	if result != nil {
		if writeErr := entities.WriteOutputs(activity.out,
			entities.Output{Name: "Environment", Value: result.Environment},
			entities.Output{Name: "Owner", Value: result.Owner},
			entities.Output{Name: "Acquired", Value: result.Acquired},
			entities.Output{Name: "Waited", Value: result.Waited.Round(time.Second)},
		); writeErr != nil {
			return writeErr
		}
	}
	return activity.policy.Handle("lock", err)
}

// AddFlags adds the lock-specific flags to the given Cobra command.
func (it *LockController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("action", string(commands.LockActionAcquire), "acquire, release or status")
	cmd.Flags().String("environment", "", "Environment name, used as the lock file name")
	cmd.Flags().String("build-number", "", "Build number that owns the lock")
	cmd.Flags().String("share", "", "Shared lock directory (default: lock.share from the config file)")
	cmd.Flags().Bool("wait", false, "Poll until the lock is free")
	cmd.Flags().Duration("timeout", 0, "Maximum time to wait (default: lock.timeout from the config file)")
	cmd.Flags().Bool("force", false, "Release the lock even when another build holds it")
}
