package controllers

import (
	"context"
	"fmt"
	"io"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
)

// activityContext carries what every controller reads from the persistent flags.
type activityContext struct {
	ctx      context.Context
	settings *entities.Settings
	policy   entities.FailurePolicy
	dryRun   bool
	out      io.Writer
}

// newActivityContext loads settings and resolves the persistent flags. The
// --fail-on-error flag wins over the settings file when given.
func newActivityContext(cmd *cobra.Command) (*activityContext, error) {
	configPath, _ := cmd.Flags().GetString("config")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	settings, err := entities.LoadSettings(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	policy := entities.FailurePolicy{FailBuildOnError: settings.FailBuildOnError}
	if flag := cmd.Flags().Lookup("fail-on-error"); flag != nil && flag.Changed {
		policy.FailBuildOnError, _ = cmd.Flags().GetBool("fail-on-error")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return &activityContext{
		ctx:      ctx,
		settings: settings,
		policy:   policy,
		dryRun:   dryRun,
		out:      cmd.OutOrStdout(),
	}, nil
}
