package controllers

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/buildactivities/internal/domain/commands"
	"github.com/rios0rios0/buildactivities/internal/domain/entities"
)

// SharePointController handles the "sharepoint" subcommand.
type SharePointController struct {
	command commands.SharePointDeployment
}

// NewSharePointController creates a new SharePointController.
func NewSharePointController(command commands.SharePointDeployment) *SharePointController {
	return &SharePointController{command: command}
}

// GetBind returns the Cobra command metadata for the sharepoint controller.
func (it *SharePointController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "sharepoint",
		Short: "Deploy SharePoint solutions, features and apps through PowerShell",
		Long: `Generate and run a SharePoint management shell command, optionally on a
remote server through invoke-command.

Actions: ` + strings.Join(entities.SharePointActionNames(), ", ") + `

Get* actions print one Deployment=<name>,<id>,<deployed> line per record.`,
	}
}

// Execute runs the SharePoint deployment activity.
func (it *SharePointController) Execute(cmd *cobra.Command, _ []string) error {
	activity, err := newActivityContext(cmd)
	if err != nil {
		return err
	}

	actionName, _ := cmd.Flags().GetString("action")
	action, err := entities.ParseSharePointAction(actionName)
	if err != nil {
		return activity.policy.Handle("sharepoint", fmt.Errorf("%w: %w", entities.ErrInvalidArgument, err))
	}

	server, _ := cmd.Flags().GetString("server")
	result, err := it.command.Execute(activity.ctx, activity.settings, commands.SharePointOptions{
		Action:     action,
		Parameters: it.parameters(cmd),
		ServerName: server,
		DryRun:     activity.dryRun,
	})
	if result != nil {
		outputs := []entities.Output{
			{Name: "Command", Value: result.Command},
			{Name: "ExitCode", Value: result.ExitCode},
		}
		for _, status := range result.Statuses {
			outputs = append(outputs, entities.Output{
				Name:  "Deployment",
				Value: fmt.Sprintf("%s,%s,%t", status.Name, status.ID, status.Deployed),
			})
		}
		if writeErr := entities.WriteOutputs(activity.out, outputs...); writeErr != nil {
			return writeErr
		}
	}
	return activity.policy.Handle("sharepoint", err)
}

// AddFlags adds the sharepoint-specific flags to the given Cobra command.
func (it *SharePointController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("action", "", "Action to run (see the command help)")
	cmd.Flags().String("server", "", "Run the command remotely on this server")
	cmd.Flags().String("wsp-name", "", "Solution identity, e.g. sharepoint.wsp")
	cmd.Flags().String("literal-path", "", "Path of the .wsp or .app package")
	cmd.Flags().String("site-url", "", "Web application, site collection or web URL")
	cmd.Flags().String("feature-id", "", "Feature GUID or folder name")
	cmd.Flags().String("compatibility-level", "", "Solution compatibility level, e.g. 15 or All")
	cmd.Flags().String("app-name", "", "App instance title")
	cmd.Flags().String("app-source", "", "Import-SPAppPackage source (default ObjectModel)")
	cmd.Flags().Bool("force", false, "Pass -Force to the cmdlet")
	cmd.Flags().Bool("gac-deployment", false, "Pass -GACDeployment to the cmdlet")
}

func (it *SharePointController) parameters(cmd *cobra.Command) entities.SharePointParameters {
	params := entities.SharePointParameters{}
	params.WspName, _ = cmd.Flags().GetString("wsp-name")
	params.LiteralPath, _ = cmd.Flags().GetString("literal-path")
	params.SiteURL, _ = cmd.Flags().GetString("site-url")
	params.FeatureID, _ = cmd.Flags().GetString("feature-id")
	params.CompatibilityLevel, _ = cmd.Flags().GetString("compatibility-level")
	params.AppName, _ = cmd.Flags().GetString("app-name")
	params.AppSource, _ = cmd.Flags().GetString("app-source")
	params.Force, _ = cmd.Flags().GetBool("force")
	params.GACDeployment, _ = cmd.Flags().GetBool("gac-deployment")
	return params
}
