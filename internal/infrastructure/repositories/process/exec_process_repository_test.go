//go:build unit

package process_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
	"github.com/rios0rios0/buildactivities/internal/infrastructure/repositories/process"
)

func TestExecProcessRepositoryRun(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}

	t.Run("should capture stdout, stderr and the exit code", func(t *testing.T) {
		t.Parallel()

		// given
		repo := process.NewProcessRepository()
		input := entities.ProcessInput{
			Binary:    "sh",
			Arguments: []string{"-c", "echo out; echo err 1>&2; exit 3"},
		}

		// when
		result, err := repo.Run(context.Background(), input)

		// then
		require.NoError(t, err)
		assert.Equal(t, 3, result.ExitCode)
		assert.Equal(t, "out\n", result.Stdout)
		assert.Equal(t, "err\n", result.Stderr)
	})

	t.Run("should return an error when the binary cannot be started", func(t *testing.T) {
		t.Parallel()

		// given
		repo := process.NewProcessRepository()

		// when
		_, err := repo.Run(context.Background(), entities.ProcessInput{Binary: "definitely-not-a-real-binary"})

		// then
		require.Error(t, err)
	})

	t.Run("should reject an empty binary", func(t *testing.T) {
		t.Parallel()

		// given
		repo := process.NewProcessRepository()

		// when
		_, err := repo.Run(context.Background(), entities.ProcessInput{})

		// then
		require.ErrorIs(t, err, entities.ErrInvalidArgument)
	})
}
