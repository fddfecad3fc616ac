package controllers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/buildactivities/internal/domain/commands"
	"github.com/rios0rios0/buildactivities/internal/domain/entities"
)

// AssemblyInfoController handles the "assemblyinfo" subcommand.
type AssemblyInfoController struct {
	command commands.AssemblyInfo
}

// NewAssemblyInfoController creates a new AssemblyInfoController.
func NewAssemblyInfoController(command commands.AssemblyInfo) *AssemblyInfoController {
	return &AssemblyInfoController{command: command}
}

// GetBind returns the Cobra command metadata for the assemblyinfo controller.
func (it *AssemblyInfoController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "assemblyinfo [files...]",
		Short: "Rewrite version and metadata attributes in AssemblyInfo files",
		Long: `Rewrite AssemblyVersion, AssemblyFileVersion, AssemblyInformationalVersion
and other assembly attributes in C#, VB, F# or C++/CLI AssemblyInfo files.

Version formats have four dot-separated components. Each component may be a
number, "*", $(current), $(increment) or $(date:<.NET format>), for example:

  buildactivities assemblyinfo Properties/AssemblyInfo.cs \
    --assembly-version '$(current).$(current).$(increment).0' \
    --informational-version '$(version)-$(date:yyyyMMdd)'`,
	}
}

// Execute runs the AssemblyInfo activity.
func (it *AssemblyInfoController) Execute(cmd *cobra.Command, arguments []string) error {
	activity, err := newActivityContext(cmd)
	if err != nil {
		return err
	}

	opts, err := it.options(cmd, arguments)
	if err != nil {
		return activity.policy.Handle("assemblyinfo", err)
	}
	opts.DryRun = activity.dryRun
	opts.DiffOutput = activity.out

	result, err := it.command.Execute(activity.ctx, opts)
	if result != nil {
		if writeErr := entities.WriteOutputs(activity.out,
			entities.Output{Name: "MaxAssemblyVersion", Value: result.MaxAssemblyVersion},
			entities.Output{Name: "MaxAssemblyFileVersion", Value: result.MaxAssemblyFileVersion},
			entities.Output{Name: "MaxAssemblyInformationalVersion", Value: result.MaxAssemblyInformationalVersion},
			entities.Output{Name: "UpdatedFiles", Value: strings.Join(result.UpdatedFiles, ";")},
		); writeErr != nil {
			return writeErr
		}
	}
	return activity.policy.Handle("assemblyinfo", err)
}

// AddFlags adds the assemblyinfo-specific flags to the given Cobra command.
func (it *AssemblyInfoController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("file", nil, "AssemblyInfo file to update (repeatable, positional arguments also accepted)")
	cmd.Flags().String("assembly-version", "", "AssemblyVersion format")
	cmd.Flags().String("file-version", "", "AssemblyFileVersion format")
	cmd.Flags().String("informational-version", "", "AssemblyInformationalVersion format")
	cmd.Flags().StringToString("attribute", nil,
		"String attribute template, e.g. --attribute AssemblyCompany=Contoso (repeatable)")
	cmd.Flags().String("com-visible", "", "Set ComVisible to true or false")
	cmd.Flags().String("cls-compliant", "", "Set CLSCompliant to true or false")
	cmd.Flags().Bool("fail-on-missing-attribute", false, "Fail when a targeted attribute is not declared")
	cmd.Flags().String("now", "", "Clock override for $(date) tokens (RFC 3339)")
}

func (it *AssemblyInfoController) options(cmd *cobra.Command, arguments []string) (commands.AssemblyInfoOptions, error) {
	files, _ := cmd.Flags().GetStringSlice("file")
	assemblyVersion, _ := cmd.Flags().GetString("assembly-version")
	fileVersion, _ := cmd.Flags().GetString("file-version")
	informational, _ := cmd.Flags().GetString("informational-version")
	attributes, _ := cmd.Flags().GetStringToString("attribute")
	failOnMissing, _ := cmd.Flags().GetBool("fail-on-missing-attribute")

	opts := commands.AssemblyInfoOptions{
		Files:                        append(files, arguments...),
		AssemblyVersion:              assemblyVersion,
		AssemblyFileVersion:          fileVersion,
		AssemblyInformationalVersion: informational,
		StringAttributes:             attributes,
		FailOnMissingAttribute:       failOnMissing,
	}

	var err error
	if opts.ComVisible, err = optionalBool(cmd, "com-visible"); err != nil {
		return opts, err
	}
	if opts.CLSCompliant, err = optionalBool(cmd, "cls-compliant"); err != nil {
		return opts, err
	}

	if now, _ := cmd.Flags().GetString("now"); now != "" {
		if opts.Now, err = time.Parse(time.RFC3339, now); err != nil {
			return opts, fmt.Errorf("%w: --now: %w", entities.ErrInvalidArgument, err)
		}
	}
	return opts, nil
}

// optionalBool reads a tri-state flag: unset, true or false.
func optionalBool(cmd *cobra.Command, name string) (*bool, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return nil, nil //nolint:nilnil // unset
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: --%s must be true or false", entities.ErrInvalidArgument, name)
	}
	return &value, nil
}
