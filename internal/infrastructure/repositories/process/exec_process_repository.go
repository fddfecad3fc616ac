package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
	"github.com/rios0rios0/buildactivities/internal/domain/repositories"
)

// ExecProcessRepository runs processes on the local machine through os/exec.
type ExecProcessRepository struct{}

// NewProcessRepository creates a new ExecProcessRepository.
func NewProcessRepository() repositories.ProcessRepository {
	return &ExecProcessRepository{}
}

// Run starts the process and waits for it, capturing stdout and stderr
// separately. A non-zero exit status is returned in the result.
func (r *ExecProcessRepository) Run(
	ctx context.Context,
	input entities.ProcessInput,
) (entities.ProcessResult, error) {
	if input.Binary == "" {
		return entities.ProcessResult{}, fmt.Errorf("%w: binary is required", entities.ErrInvalidArgument)
	}

	cmd := exec.CommandContext(ctx, input.Binary, input.Arguments...)
	cmd.Dir = input.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debugf("[process] Running %s %s", input.Binary, strings.Join(input.Arguments, " "))
	runErr := cmd.Run()

	result := entities.ProcessResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		result.ExitCode = 0
	case errors.As(runErr, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return result, fmt.Errorf("failed to run %s: %w", input.Binary, runErr)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("%s was interrupted: %w", input.Binary, ctxErr)
	}
	logger.Debugf("[process] %s exited with code %d", input.Binary, result.ExitCode)
	return result, nil
}
