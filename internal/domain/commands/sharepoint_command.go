package commands

import (
	"context"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
	"github.com/rios0rios0/buildactivities/internal/domain/repositories"
)

// SharePointDeployment is the interface for the SharePoint deployment activity.
type SharePointDeployment interface {
	Execute(ctx context.Context, settings *entities.Settings, opts SharePointOptions) (*SharePointResult, error)
}

// SharePointOptions holds the inputs of the SharePoint deployment activity.
type SharePointOptions struct {
	Action     entities.SharePointAction
	Parameters entities.SharePointParameters
	ServerName string // run remotely through invoke-command when set
	DryRun     bool
}

// SharePointResult holds the outputs of the SharePoint deployment activity.
type SharePointResult struct {
	Command  string
	ExitCode int
	Output   string
	Statuses []entities.DeploymentStatus
}

// SharePointCommand generates a SharePoint PowerShell command and runs it
// through the configured PowerShell host.
type SharePointCommand struct {
	processRepository repositories.ProcessRepository
}

// NewSharePointCommand creates a new SharePointCommand.
func NewSharePointCommand(processRepository repositories.ProcessRepository) *SharePointCommand {
	return &SharePointCommand{processRepository: processRepository}
}

// Execute runs the action. A non-zero exit code is an error; stderr lines
// are logged as warnings.
func (it *SharePointCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts SharePointOptions,
) (*SharePointResult, error) {
	inner, err := entities.GenerateSharePointCommand(opts.Action, opts.Parameters)
	if err != nil {
		return nil, err
	}
	command := entities.WrapRemoteCommand(opts.ServerName, inner)
	result := &SharePointResult{Command: command}

	entities.LogMessage(entities.ImportanceNormal, "[sharepoint] %s", command)
	if opts.DryRun {
		logger.Infof("[sharepoint] [DRY RUN] Would run %s", opts.Action)
		return result, nil
	}

	arguments := append(append([]string{}, settings.PowerShell.Arguments...), command)
	processResult, err := it.processRepository.Run(ctx, entities.ProcessInput{
		Binary:    settings.PowerShell.Binary,
		Arguments: arguments,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", settings.PowerShell.Binary, err)
	}
	result.ExitCode = processResult.ExitCode
	result.Output = processResult.Stdout

	for _, line := range nonEmptyLines(processResult.Stdout) {
		entities.LogMessage(entities.ImportanceLow, "[sharepoint] %s", line)
	}
	for _, line := range nonEmptyLines(processResult.Stderr) {
		logger.Warnf("[sharepoint] %s", line)
	}

	if processResult.ExitCode != 0 {
		return result, fmt.Errorf("%s exited with code %d", opts.Action, processResult.ExitCode)
	}

	result.Statuses, err = entities.ParseSharePointOutput(opts.Action, processResult.Stdout)
	if err != nil {
		return result, err
	}
	for _, status := range result.Statuses {
		entities.LogMessage(
			entities.ImportanceHigh, "[sharepoint] %s (%s) deployed=%t", status.Name, status.ID, status.Deployed,
		)
	}
	return result, nil
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
