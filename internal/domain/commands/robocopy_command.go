package commands

import (
	"context"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
	"github.com/rios0rios0/buildactivities/internal/domain/repositories"
)

// Robocopy is the interface for the robocopy activity.
type Robocopy interface {
	Execute(ctx context.Context, settings *entities.Settings, opts RobocopyOptions) (*entities.RobocopyOutcome, error)
}

// RobocopyOptions holds the inputs of the robocopy activity.
type RobocopyOptions struct {
	Source      string
	Destination string
	Files       []string // file patterns, robocopy copies *.* when empty
	Options     []string // raw robocopy switches such as /MIR or /R:3
	DryRun      bool
}

// RobocopyCommand runs robocopy and interprets its bit-flag exit code.
type RobocopyCommand struct {
	processRepository repositories.ProcessRepository
}

// NewRobocopyCommand creates a new RobocopyCommand.
func NewRobocopyCommand(processRepository repositories.ProcessRepository) *RobocopyCommand {
	return &RobocopyCommand{processRepository: processRepository}
}

// Execute runs robocopy. Exit codes of 8 and above are errors.
func (it *RobocopyCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts RobocopyOptions,
) (*entities.RobocopyOutcome, error) {
	if err := entities.RequireArgument("source", opts.Source); err != nil {
		return nil, err
	}
	if err := entities.RequireArgument("destination", opts.Destination); err != nil {
		return nil, err
	}

	arguments := []string{opts.Source, opts.Destination}
	arguments = append(arguments, opts.Files...)
	arguments = append(arguments, opts.Options...)
	if opts.DryRun {
		// /L lists what would be copied without copying.
		arguments = append(arguments, "/L")
	}

	entities.LogMessage(
		entities.ImportanceNormal, "[robocopy] %s %s", settings.Robocopy.Binary, strings.Join(arguments, " "),
	)
	processResult, err := it.processRepository.Run(ctx, entities.ProcessInput{
		Binary:    settings.Robocopy.Binary,
		Arguments: arguments,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", settings.Robocopy.Binary, err)
	}

	for _, line := range nonEmptyLines(processResult.Stdout) {
		entities.LogMessage(entities.ImportanceLow, "[robocopy] %s", line)
	}
	for _, line := range nonEmptyLines(processResult.Stderr) {
		logger.Warnf("[robocopy] %s", line)
	}

	outcome := entities.ClassifyRobocopyExitCode(processResult.ExitCode)
	logger.StandardLogger().Logf(outcome.Level, "[robocopy] exit code %d: %s", outcome.ExitCode, outcome.Description)
	if outcome.Failed {
		return &outcome, fmt.Errorf("robocopy failed with exit code %d: %s", outcome.ExitCode, outcome.Description)
	}
	return &outcome, nil
}
