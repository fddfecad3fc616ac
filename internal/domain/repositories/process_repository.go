package repositories

import (
	"context"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
)

// ProcessRepository runs external tools (PowerShell hosts, robocopy) and
// captures their output.
type ProcessRepository interface {
	// Run executes the process to completion. A non-zero exit code is reported
	// through ProcessResult.ExitCode, not as an error; errors mean the process
	// could not be started.
	Run(ctx context.Context, input entities.ProcessInput) (entities.ProcessResult, error)
}
