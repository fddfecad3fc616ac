package controllers

import (
	"github.com/spf13/cobra"

	"github.com/rios0rios0/buildactivities/internal/domain/commands"
	"github.com/rios0rios0/buildactivities/internal/domain/entities"
)

// XmlController handles the "xml" subcommand.
type XmlController struct {
	command commands.Xml
}

// NewXmlController creates a new XmlController.
func NewXmlController(command commands.Xml) *XmlController {
	return &XmlController{command: command}
}

// GetBind returns the Cobra command metadata for the xml controller.
func (it *XmlController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "xml <file>",
		Short: "Validate, read or patch an XML configuration file",
		Long: `Check that an XML file is well-formed, read values from it, or set the text
or an attribute of every element a path selects:

  buildactivities xml web.config --action poke \
    --path "//appSettings/add[@key='Environment']" --attribute value --value QA

Paths use the etree syntax: //, ., .., [@attr='value'], [tag] and [n].`,
	}
}

// Execute runs the XML activity.
func (it *XmlController) Execute(cmd *cobra.Command, arguments []string) error {
	activity, err := newActivityContext(cmd)
	if err != nil {
		return err
	}

	opts := commands.XmlOptions{DryRun: activity.dryRun, DiffOutput: activity.out}
	action, _ := cmd.Flags().GetString("action")
	opts.Action = commands.XmlAction(action)
	opts.Path, _ = cmd.Flags().GetString("path")
	opts.Attribute, _ = cmd.Flags().GetString("attribute")
	opts.Value, _ = cmd.Flags().GetString("value")
	if len(arguments) > 0 {
		opts.File = arguments[0]
	}

	result, err := it.command.Execute(activity.ctx, opts)
	if result != nil {
		outputs := []entities.Output{
			{Name: "Matches", Value: result.Matches},
			{Name: "Updated", Value: result.Updated},
		}
		for _, value := range result.Values {
			outputs = append(outputs, entities.Output{Name: "Value", Value: value})
		}
		if writeErr := entities.WriteOutputs(activity.out, outputs...); writeErr != nil {
			return writeErr
		}
	}
	return activity.policy.Handle("xml", err)
}

// AddFlags adds the xml-specific flags to the given Cobra command.
func (it *XmlController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("action", string(commands.XmlActionValidate), "validate, peek or poke")
	cmd.Flags().String("path", "", "Element path, e.g. //appSettings/add[@key='Environment']")
	cmd.Flags().String("attribute", "", "Attribute to read or set (default: the element text)")
	cmd.Flags().String("value", "", "Value to set with --action poke")
}
