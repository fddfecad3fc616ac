//go:build unit

package main

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute(t *testing.T) {
	t.Parallel()

	t.Run("should hand subcommands a context that follows the caller's cancellation", func(t *testing.T) {
		t.Parallel()

		// given
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var observed error
		root := buildRootCommand()
		root.AddCommand(&cobra.Command{
			Use: "context-check",
			RunE: func(cmd *cobra.Command, _ []string) error {
				observed = cmd.Context().Err()
				return nil
			},
		})
		root.SetArgs([]string{"context-check"})

		// when
		err := execute(ctx, root)

		// then
		require.NoError(t, err)
		assert.ErrorIs(t, observed, context.Canceled)
	})

	t.Run("should register every activity as a subcommand", func(t *testing.T) {
		t.Parallel()

		// given
		root := buildRootCommand()

		// when
		addSubcommands(root, injectAppContext())

		// then
		names := make([]string, 0, len(root.Commands()))
		for _, sub := range root.Commands() {
			names = append(names, sub.Name())
		}
		assert.ElementsMatch(t,
			[]string{"assemblyinfo", "sharepoint", "lock", "robocopy", "email", "sms", "ftp", "xml"},
			names,
		)
	})
}
