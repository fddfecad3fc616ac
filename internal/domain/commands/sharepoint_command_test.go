//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/buildactivities/internal/domain/commands"
	"github.com/rios0rios0/buildactivities/internal/domain/entities"
	doubles "github.com/rios0rios0/buildactivities/test/infrastructure/repositorydoubles"
)

func TestSharePointCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should run the generated command through the PowerShell host", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyProcessRepository{}
		cmd := commands.NewSharePointCommand(spy)
		settings := entities.NewDefaultSettings()
		settings.PowerShell.Binary = "pwsh"
		settings.PowerShell.Arguments = []string{"-NoProfile", "-Command"}

		// when
		result, err := cmd.Execute(context.Background(), settings, commands.SharePointOptions{
			Action:     entities.SharePointActionAddSolution,
			Parameters: entities.SharePointParameters{LiteralPath: `c:\drop\a.wsp`},
			ServerName: "SPAPP01",
		})

		// then
		require.NoError(t, err)
		require.Len(t, spy.Inputs, 1)
		assert.Equal(t, "pwsh", spy.Inputs[0].Binary)
		assert.Equal(t, []string{"-NoProfile", "-Command", result.Command}, spy.Inputs[0].Arguments)
		assert.Equal(t,
			`invoke-command -computername SPAPP01 {Add-PsSnapin Microsoft.SharePoint.PowerShell; Add-SPSolution -LiteralPath 'c:\drop\a.wsp'}`,
			spy.LastArgument(),
		)
	})

	t.Run("should parse records for Get actions", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyProcessRepository{
			Result: entities.ProcessResult{Stdout: "a.wsp, 4804dbf0-8a04-4ee9-92f9-d671f2cfd069, True\r\n"},
		}
		cmd := commands.NewSharePointCommand(spy)

		// when
		result, err := cmd.Execute(context.Background(), entities.NewDefaultSettings(), commands.SharePointOptions{
			Action: entities.SharePointActionGetSolution,
		})

		// then
		require.NoError(t, err)
		require.Len(t, result.Statuses, 1)
		assert.Equal(t, "a.wsp", result.Statuses[0].Name)
		assert.True(t, result.Statuses[0].Deployed)
	})

	t.Run("should fail on a non-zero exit code", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyProcessRepository{
			Result: entities.ProcessResult{ExitCode: 1, Stderr: "Add-SPSolution : A solution with the same name already exists"},
		}
		cmd := commands.NewSharePointCommand(spy)

		// when
		result, err := cmd.Execute(context.Background(), entities.NewDefaultSettings(), commands.SharePointOptions{
			Action:     entities.SharePointActionAddSolution,
			Parameters: entities.SharePointParameters{LiteralPath: "a.wsp"},
		})

		// then
		require.Error(t, err)
		assert.Equal(t, 1, result.ExitCode)
	})

	t.Run("should return start failures", func(t *testing.T) {
		t.Parallel()

		// given
		notFound := errors.New("executable file not found")
		spy := &doubles.SpyProcessRepository{RunErr: notFound}
		cmd := commands.NewSharePointCommand(spy)

		// when
		_, err := cmd.Execute(context.Background(), entities.NewDefaultSettings(), commands.SharePointOptions{
			Action: entities.SharePointActionGetSolution,
		})

		// then
		require.ErrorIs(t, err, notFound)
	})

	t.Run("should not start a process in dry-run", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyProcessRepository{}
		cmd := commands.NewSharePointCommand(spy)

		// when
		result, err := cmd.Execute(context.Background(), entities.NewDefaultSettings(), commands.SharePointOptions{
			Action: entities.SharePointActionGetFeature,
			DryRun: true,
		})

		// then
		require.NoError(t, err)
		assert.Empty(t, spy.Inputs)
		assert.Contains(t, result.Command, "Get-SPFeature")
	})

	t.Run("should reject missing parameters before running anything", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyProcessRepository{}
		cmd := commands.NewSharePointCommand(spy)

		// when
		_, err := cmd.Execute(context.Background(), entities.NewDefaultSettings(), commands.SharePointOptions{
			Action: entities.SharePointActionInstallSolution,
		})

		// then
		require.ErrorIs(t, err, entities.ErrInvalidArgument)
		assert.Empty(t, spy.Inputs)
	})
}

func TestNonEmptyLines(t *testing.T) {
	t.Parallel()

	t.Run("should drop blank lines and trim the rest", func(t *testing.T) {
		t.Parallel()

		// when
		lines := commands.NonEmptyLines("  first \r\n\r\n\tsecond\n")

		// then
		assert.Equal(t, []string{"first", "second"}, lines)
	})
}
