package controllers

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/buildactivities/internal/domain/commands"
	"github.com/rios0rios0/buildactivities/internal/domain/entities"
)

// EmailController handles the "email" subcommand.
type EmailController struct {
	command commands.Email
}

// NewEmailController creates a new EmailController.
func NewEmailController(command commands.Email) *EmailController {
	return &EmailController{command: command}
}

// GetBind returns the Cobra command metadata for the email controller.
func (it *EmailController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "email",
		Short: "Send a build notification email",
		Long:  "Send an email through the SMTP relay configured in the smtp section of the config file.",
	}
}

// Execute runs the email activity.
func (it *EmailController) Execute(cmd *cobra.Command, _ []string) error {
	activity, err := newActivityContext(cmd)
	if err != nil {
		return err
	}

	message := entities.EmailMessage{}
	message.From, _ = cmd.Flags().GetString("from")
	message.To, _ = cmd.Flags().GetStringSlice("to")
	message.Cc, _ = cmd.Flags().GetStringSlice("cc")
	message.Subject, _ = cmd.Flags().GetString("subject")
	message.HTML, _ = cmd.Flags().GetBool("html")
	if message.Body, err = messageBody(cmd); err != nil {
		return activity.policy.Handle("email", err)
	}

	result, err := it.command.Execute(activity.ctx, activity.settings, commands.EmailOptions{
		Message: message,
		DryRun:  activity.dryRun,
	})
	return it.finish(activity, result, err)
}

func (it *EmailController) finish(activity *activityContext, result *commands.NotifyResult, err error) error {
	if result != nil {
		if writeErr := entities.WriteOutputs(activity.out,
			entities.Output{Name: "Sent", Value: result.Sent},
		); writeErr != nil {
			return writeErr
		}
	}
	return activity.policy.Handle("email", err)
}

// AddFlags adds the email-specific flags to the given Cobra command.
func (it *EmailController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "Sender address (default: smtp.from from the config file)")
	cmd.Flags().StringSlice("to", nil, "Recipient address (repeatable)")
	cmd.Flags().StringSlice("cc", nil, "Carbon-copy address (repeatable)")
	cmd.Flags().String("subject", "", "Message subject")
	cmd.Flags().String("body", "", "Message body")
	cmd.Flags().String("body-file", "", "Read the message body from this file")
	cmd.Flags().Bool("html", false, "Send the body as HTML")
}

// SmsController handles the "sms" subcommand.
type SmsController struct {
	command commands.Sms
}

// NewSmsController creates a new SmsController.
func NewSmsController(command commands.Sms) *SmsController {
	return &SmsController{command: command}
}

// GetBind returns the Cobra command metadata for the sms controller.
func (it *SmsController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "sms",
		Short: "Send a build notification text message",
		Long:  "Send a text message through the Twilio account configured in the sms section of the config file.",
	}
}

// Execute runs the SMS activity.
func (it *SmsController) Execute(cmd *cobra.Command, _ []string) error {
	activity, err := newActivityContext(cmd)
	if err != nil {
		return err
	}

	message := entities.SmsMessage{}
	message.From, _ = cmd.Flags().GetString("from")
	message.To, _ = cmd.Flags().GetString("to")
	message.Body, _ = cmd.Flags().GetString("body")

	result, err := it.command.Execute(activity.ctx, activity.settings, commands.SmsOptions{
		Message: message,
		DryRun:  activity.dryRun,
	})
	if result != nil {
		if writeErr := entities.WriteOutputs(activity.out,
			entities.Output{Name: "Sent", Value: result.Sent},
			entities.Output{Name: "MessageID", Value: result.MessageID},
		); writeErr != nil {
			return writeErr
		}
	}
	return activity.policy.Handle("sms", err)
}

// AddFlags adds the sms-specific flags to the given Cobra command.
func (it *SmsController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "Sender number (default: sms.from from the config file)")
	cmd.Flags().String("to", "", "Recipient number in E.164 format")
	cmd.Flags().String("body", "", "Message text")
}

// FtpController handles the "ftp" subcommand.
type FtpController struct {
	command commands.FtpUpload
}

// NewFtpController creates a new FtpController.
func NewFtpController(command commands.FtpUpload) *FtpController {
	return &FtpController{command: command}
}

// GetBind returns the Cobra command metadata for the ftp controller.
func (it *FtpController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "ftp <files...>",
		Short: "Upload build artifacts to an FTP server",
		Long: `Upload files to an FTP server, creating the remote directory when missing.
Connection flags override the ftp section of the config file.`,
	}
}

// Execute runs the FTP upload activity.
func (it *FtpController) Execute(cmd *cobra.Command, arguments []string) error {
	activity, err := newActivityContext(cmd)
	if err != nil {
		return err
	}

	server := entities.FtpServer{}
	server.Host, _ = cmd.Flags().GetString("host")
	server.Port, _ = cmd.Flags().GetInt("port")
	server.Username, _ = cmd.Flags().GetString("username")
	server.Password, _ = cmd.Flags().GetString("password")
	remoteDir, _ := cmd.Flags().GetString("remote-dir")

	result, err := it.command.Execute(activity.ctx, activity.settings, commands.FtpUploadOptions{
		Server:    server,
		RemoteDir: remoteDir,
		Files:     arguments,
		DryRun:    activity.dryRun,
	})
	if result != nil {
		if writeErr := entities.WriteOutputs(activity.out,
			entities.Output{Name: "Sent", Value: result.Sent},
			entities.Output{Name: "RemoteFiles", Value: strings.Join(result.RemoteFiles, ";")},
		); writeErr != nil {
			return writeErr
		}
	}
	return activity.policy.Handle("ftp", err)
}

// AddFlags adds the ftp-specific flags to the given Cobra command.
func (it *FtpController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("host", "", "FTP host (default: ftp.host from the config file)")
	cmd.Flags().Int("port", 0, "FTP port (default: ftp.port from the config file)")
	cmd.Flags().String("username", "", "FTP user, anonymous when empty")
	cmd.Flags().String("password", "", "FTP password")
	cmd.Flags().String("remote-dir", "", "Remote directory to upload into")
}

// messageBody returns --body, or the content of --body-file when given.
func messageBody(cmd *cobra.Command) (string, error) {
	body, _ := cmd.Flags().GetString("body")
	bodyFile, _ := cmd.Flags().GetString("body-file")
	if bodyFile == "" {
		return body, nil
	}
	data, err := os.ReadFile(bodyFile)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read body file: %w", entities.ErrInvalidArgument, err)
	}
	return string(data), nil
}
