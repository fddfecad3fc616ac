package controllers

import (
	"github.com/spf13/cobra"

	"github.com/rios0rios0/buildactivities/internal/domain/commands"
	"github.com/rios0rios0/buildactivities/internal/domain/entities"
)

// RobocopyController handles the "robocopy" subcommand.
type RobocopyController struct {
	command commands.Robocopy
}

// NewRobocopyController creates a new RobocopyController.
func NewRobocopyController(command commands.Robocopy) *RobocopyController {
	return &RobocopyController{command: command}
}

// GetBind returns the Cobra command metadata for the robocopy controller.
func (it *RobocopyController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "robocopy <source> <destination> [files...]",
		Short: "Run robocopy and interpret its exit code",
		Long: `Run robocopy and map its bit-flag exit code to a build result: 0-3 are
successes, 4-7 succeed with a warning and 8 or above fail the activity.`,
	}
}

// Execute runs the robocopy activity.
func (it *RobocopyController) Execute(cmd *cobra.Command, arguments []string) error {
	activity, err := newActivityContext(cmd)
	if err != nil {
		return err
	}

	opts := commands.RobocopyOptions{DryRun: activity.dryRun}
	if len(arguments) > 0 {
		opts.Source = arguments[0]
	}
	if len(arguments) > 1 {
		opts.Destination = arguments[1]
		opts.Files = arguments[2:]
	}
	opts.Options, _ = cmd.Flags().GetStringSlice("option")

	outcome, err := it.command.Execute(activity.ctx, activity.settings, opts)
	if outcome != nil {
		if writeErr := entities.WriteOutputs(activity.out,
			entities.Output{Name: "ExitCode", Value: outcome.ExitCode},
		); writeErr != nil {
			return writeErr
		}
	}
	return activity.policy.Handle("robocopy", err)
}

// AddFlags adds the robocopy-specific flags to the given Cobra command.
func (it *RobocopyController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("option", nil, "robocopy switch, e.g. --option /MIR --option /R:3 (repeatable)")
}
