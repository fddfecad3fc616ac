package entities

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	sharePointSnapin     = "Add-PsSnapin Microsoft.SharePoint.PowerShell; "
	defaultAppSource     = "ObjectModel"
	confirmFalse         = " -Confirm:$false"
	solutionCsvProjector = " | ForEach-Object { '{0}, {1}, {2}' -f $_.Name, $_.SolutionId, $_.Deployed }"
)

// ErrActionNotImplemented is returned for action values without a command template.
var ErrActionNotImplemented = errors.New("action not implemented")

// SharePointAction selects which SharePoint cmdlet sequence to generate.
type SharePointAction int

const (
	SharePointActionUnknown SharePointAction = iota
	SharePointActionAddSolution
	SharePointActionInstallSolution
	SharePointActionUpdateSolution
	SharePointActionUninstallSolution
	SharePointActionRemoveSolution
	SharePointActionEnableFeature
	SharePointActionDisableFeature
	SharePointActionGetSolution
	SharePointActionGetFeature
	SharePointActionImportAppPackage
	SharePointActionInstallApp
	SharePointActionUpdateApp
	SharePointActionUninstallApp
	SharePointActionGetApp
)

//nolint:gochecknoglobals // enum name table
var sharePointActionNames = map[SharePointAction]string{
	SharePointActionAddSolution:       "AddSolution",
	SharePointActionInstallSolution:   "InstallSolution",
	SharePointActionUpdateSolution:    "UpdateSolution",
	SharePointActionUninstallSolution: "UninstallSolution",
	SharePointActionRemoveSolution:    "RemoveSolution",
	SharePointActionEnableFeature:     "EnableFeature",
	SharePointActionDisableFeature:    "DisableFeature",
	SharePointActionGetSolution:       "GetSolution",
	SharePointActionGetFeature:        "GetFeature",
	SharePointActionImportAppPackage:  "ImportAppPackage",
	SharePointActionInstallApp:        "InstallApp",
	SharePointActionUpdateApp:         "UpdateApp",
	SharePointActionUninstallApp:      "UninstallApp",
	SharePointActionGetApp:            "GetApp",
}

func (a SharePointAction) String() string {
	if name, ok := sharePointActionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("SharePointAction(%d)", int(a))
}

// IsQuery reports whether the action produces records for ParseSharePointOutput.
func (a SharePointAction) IsQuery() bool {
	return a == SharePointActionGetSolution || a == SharePointActionGetFeature || a == SharePointActionGetApp
}

// ParseSharePointAction resolves an action by name, case-insensitively.
func ParseSharePointAction(name string) (SharePointAction, error) {
	for action, actionName := range sharePointActionNames {
		if strings.EqualFold(actionName, strings.TrimSpace(name)) {
			return action, nil
		}
	}
	return SharePointActionUnknown, fmt.Errorf("%w: %q", ErrActionNotImplemented, name)
}

// SharePointActionNames lists every supported action name.
func SharePointActionNames() []string {
	names := make([]string, 0, len(sharePointActionNames))
	for action := SharePointActionAddSolution; action <= SharePointActionGetApp; action++ {
		names = append(names, action.String())
	}
	return names
}

// SharePointParameters is the fixed parameter bag consumed by the command templates.
type SharePointParameters struct {
	WspName            string // solution identity, e.g. "sharepoint.wsp"
	LiteralPath        string // path of the .wsp or .app package
	SiteURL            string // web application, site collection or web URL
	FeatureID          string // feature GUID or folder name
	CompatibilityLevel string
	AppName            string // app instance title
	AppSource          string // Import-SPAppPackage -Source, defaults to ObjectModel
	Force              bool
	GACDeployment      bool
}

// GenerateSharePointCommand renders the single-line PowerShell command for
// an action. It is a pure function of its inputs.
func GenerateSharePointCommand(action SharePointAction, params SharePointParameters) (string, error) {
	var cmd strings.Builder

	switch action {
	case SharePointActionAddSolution:
		if err := RequireArgument("literal path", params.LiteralPath); err != nil {
			return "", err
		}
		cmd.WriteString("Add-SPSolution -LiteralPath " + quote(params.LiteralPath))

	case SharePointActionInstallSolution:
		if err := RequireArgument("wsp name", params.WspName); err != nil {
			return "", err
		}
		cmd.WriteString("Install-SPSolution -Identity " + quote(params.WspName))
		optional(&cmd, " -WebApplication ", params.SiteURL)
		optional(&cmd, " -CompatibilityLevel ", params.CompatibilityLevel)
		flag(&cmd, " -GACDeployment", params.GACDeployment)
		flag(&cmd, " -Force", params.Force)

	case SharePointActionUpdateSolution:
		if err := requireAll(map[string]string{
			"wsp name": params.WspName, "literal path": params.LiteralPath,
		}); err != nil {
			return "", err
		}
		cmd.WriteString("Update-SPSolution -Identity " + quote(params.WspName) +
			" -LiteralPath " + quote(params.LiteralPath))
		flag(&cmd, " -GACDeployment", params.GACDeployment)
		flag(&cmd, " -Force", params.Force)

	case SharePointActionUninstallSolution:
		if err := RequireArgument("wsp name", params.WspName); err != nil {
			return "", err
		}
		cmd.WriteString("Uninstall-SPSolution -Identity " + quote(params.WspName) + confirmFalse)
		optional(&cmd, " -WebApplication ", params.SiteURL)
		optional(&cmd, " -CompatibilityLevel ", params.CompatibilityLevel)

	case SharePointActionRemoveSolution:
		if err := RequireArgument("wsp name", params.WspName); err != nil {
			return "", err
		}
		cmd.WriteString("Remove-SPSolution -Identity " + quote(params.WspName) + confirmFalse)
		flag(&cmd, " -Force", params.Force)

	case SharePointActionEnableFeature:
		if err := RequireArgument("feature id", params.FeatureID); err != nil {
			return "", err
		}
		cmd.WriteString("Enable-SPFeature -Identity " + quote(params.FeatureID))
		optional(&cmd, " -Url ", params.SiteURL)
		flag(&cmd, " -Force", params.Force)

	case SharePointActionDisableFeature:
		if err := RequireArgument("feature id", params.FeatureID); err != nil {
			return "", err
		}
		cmd.WriteString("Disable-SPFeature -Identity " + quote(params.FeatureID) + confirmFalse)
		optional(&cmd, " -Url ", params.SiteURL)
		flag(&cmd, " -Force", params.Force)

	case SharePointActionGetSolution:
		cmd.WriteString("Get-SPSolution")
		optional(&cmd, " -Identity ", params.WspName)
		cmd.WriteString(solutionCsvProjector)

	case SharePointActionGetFeature:
		cmd.WriteString("Get-SPFeature")
		optional(&cmd, " -Identity ", params.FeatureID)
		optional(&cmd, " -Site ", params.SiteURL)
		cmd.WriteString(" | Format-List DisplayName, Id, Status")

	case SharePointActionImportAppPackage:
		if err := requireAll(map[string]string{
			"literal path": params.LiteralPath, "site url": params.SiteURL,
		}); err != nil {
			return "", err
		}
		cmd.WriteString(importAppPackage(params))

	case SharePointActionInstallApp:
		if err := requireAll(map[string]string{
			"literal path": params.LiteralPath, "site url": params.SiteURL,
		}); err != nil {
			return "", err
		}
		cmd.WriteString("$spapp = " + importAppPackage(params) + "; ")
		cmd.WriteString("Install-SPApp -Web " + quote(params.SiteURL) + " -Identity $spapp")

	case SharePointActionUpdateApp:
		if err := requireAll(map[string]string{
			"literal path": params.LiteralPath, "site url": params.SiteURL, "app name": params.AppName,
		}); err != nil {
			return "", err
		}
		cmd.WriteString("$instance = " + findAppInstance(params) + "; ")
		cmd.WriteString("$spapp = " + importAppPackage(params) + "; ")
		cmd.WriteString("Update-SPAppInstance -Identity $instance -App $spapp" + confirmFalse)

	case SharePointActionUninstallApp:
		if err := requireAll(map[string]string{
			"site url": params.SiteURL, "app name": params.AppName,
		}); err != nil {
			return "", err
		}
		cmd.WriteString("$instance = " + findAppInstance(params) + "; ")
		cmd.WriteString("Uninstall-SPAppInstance -Identity $instance" + confirmFalse)

	case SharePointActionGetApp:
		if err := RequireArgument("site url", params.SiteURL); err != nil {
			return "", err
		}
		if params.AppName != "" {
			cmd.WriteString(findAppInstance(params))
		} else {
			cmd.WriteString("Get-SPAppInstance -Web " + quote(params.SiteURL))
		}
		cmd.WriteString(" | Format-List Title, Id, Status")

	default:
		return "", fmt.Errorf("%w: %s", ErrActionNotImplemented, action)
	}

	return sharePointSnapin + cmd.String(), nil
}

// WrapRemoteCommand runs inner on serverName through invoke-command. The
// inner command is embedded unchanged; an empty server returns inner as is.
func WrapRemoteCommand(serverName, inner string) string {
	if strings.TrimSpace(serverName) == "" {
		return inner
	}
	return "invoke-command -computername " + serverName + " {" + inner + "}"
}

func importAppPackage(params SharePointParameters) string {
	source := params.AppSource
	if source == "" {
		source = defaultAppSource
	}
	return "Import-SPAppPackage -Path " + quote(params.LiteralPath) +
		" -Site " + quote(params.SiteURL) + " -Source " + source + confirmFalse
}

func findAppInstance(params SharePointParameters) string {
	return "Get-SPAppInstance -Web " + quote(params.SiteURL) +
		" | Where-Object { $_.Title -eq " + quote(params.AppName) + " }"
}

// quote renders a PowerShell single-quoted literal.
func quote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func optional(cmd *strings.Builder, parameter, value string) {
	if value != "" {
		cmd.WriteString(parameter + quote(value))
	}
}

func flag(cmd *strings.Builder, parameter string, enabled bool) {
	if enabled {
		cmd.WriteString(parameter)
	}
}

// requireAll checks every named argument, reporting them in a stable order.
func requireAll(arguments map[string]string) error {
	var missing []string
	for name, value := range arguments {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("%w: %s required", ErrInvalidArgument, strings.Join(missing, ", "))
}
