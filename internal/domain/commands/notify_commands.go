package commands

import (
	"context"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
	"github.com/rios0rios0/buildactivities/internal/domain/repositories"
	"github.com/rios0rios0/buildactivities/internal/retry"
)

// NotifyResult holds the outputs shared by the notification activities.
type NotifyResult struct {
	Sent        bool
	MessageID   string
	RemoteFiles []string
}

// Email is the interface for the email activity.
type Email interface {
	Execute(ctx context.Context, settings *entities.Settings, opts EmailOptions) (*NotifyResult, error)
}

// EmailOptions holds the inputs of the email activity.
type EmailOptions struct {
	Message entities.EmailMessage
	DryRun  bool
}

// Sms is the interface for the SMS activity.
type Sms interface {
	Execute(ctx context.Context, settings *entities.Settings, opts SmsOptions) (*NotifyResult, error)
}

// SmsOptions holds the inputs of the SMS activity.
type SmsOptions struct {
	Message entities.SmsMessage
	DryRun  bool
}

// FtpUpload is the interface for the FTP upload activity.
type FtpUpload interface {
	Execute(ctx context.Context, settings *entities.Settings, opts FtpUploadOptions) (*NotifyResult, error)
}

// FtpUploadOptions holds the inputs of the FTP upload activity. Server
// fields left empty are taken from settings.
type FtpUploadOptions struct {
	Server    entities.FtpServer
	RemoteDir string
	Files     []string
	DryRun    bool
}

// EmailCommand sends a message through the configured SMTP relay.
type EmailCommand struct {
	mailRepository repositories.MailRepository
}

// NewEmailCommand creates a new EmailCommand.
func NewEmailCommand(mailRepository repositories.MailRepository) *EmailCommand {
	return &EmailCommand{mailRepository: mailRepository}
}

// Execute validates the message and sends it, retrying transient failures.
func (it *EmailCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts EmailOptions,
) (*NotifyResult, error) {
	if opts.Message.From == "" {
		opts.Message.From = settings.Smtp.From
	}
	if err := entities.RequireArgument("smtp host", settings.Smtp.Host); err != nil {
		return nil, err
	}
	if err := opts.Message.Validate(); err != nil {
		return nil, err
	}

	result := &NotifyResult{}
	if opts.DryRun {
		logger.Infof("[email] [DRY RUN] Would send %q to %v", opts.Message.Subject, opts.Message.Recipients())
		return result, nil
	}

	err := retry.Do(ctx, retryOptions(settings), func(ctx context.Context) error {
		sendErr := it.mailRepository.Send(ctx, settings.Smtp, opts.Message)
		if sendErr != nil {
			logger.Debugf("[email] Attempt failed: %v", sendErr)
		}
		return sendErr
	})
	if err != nil {
		return result, fmt.Errorf("failed to send email via %s: %w", settings.Smtp.Address(), err)
	}

	result.Sent = true
	logger.Infof("[email] Sent %q to %d recipient(s)", opts.Message.Subject, len(opts.Message.Recipients()))
	return result, nil
}

// SmsCommand sends a text message through the configured gateway account.
type SmsCommand struct {
	smsRepository repositories.SmsRepository
}

// NewSmsCommand creates a new SmsCommand.
func NewSmsCommand(smsRepository repositories.SmsRepository) *SmsCommand {
	return &SmsCommand{smsRepository: smsRepository}
}

// Execute validates the message and sends it, retrying transient failures.
func (it *SmsCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts SmsOptions,
) (*NotifyResult, error) {
	if opts.Message.From == "" {
		opts.Message.From = settings.Sms.From
	}
	if err := entities.RequireArgument("sms account sid", settings.Sms.AccountSID); err != nil {
		return nil, err
	}
	if err := entities.RequireArgument("sms auth token", settings.Sms.AuthToken); err != nil {
		return nil, err
	}
	if err := opts.Message.Validate(); err != nil {
		return nil, err
	}

	result := &NotifyResult{}
	if opts.DryRun {
		logger.Infof("[sms] [DRY RUN] Would send a message to %s", opts.Message.To)
		return result, nil
	}

	err := retry.Do(ctx, retryOptions(settings), func(ctx context.Context) error {
		id, sendErr := it.smsRepository.Send(ctx, settings.Sms, opts.Message)
		if sendErr != nil {
			logger.Debugf("[sms] Attempt failed: %v", sendErr)
			return sendErr
		}
		result.MessageID = id
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("failed to send sms to %s: %w", opts.Message.To, err)
	}

	result.Sent = true
	logger.Infof("[sms] Sent message %s to %s", result.MessageID, opts.Message.To)
	return result, nil
}

// FtpUploadCommand uploads build artifacts to an FTP server.
type FtpUploadCommand struct {
	ftpRepository repositories.FtpRepository
}

// NewFtpUploadCommand creates a new FtpUploadCommand.
func NewFtpUploadCommand(ftpRepository repositories.FtpRepository) *FtpUploadCommand {
	return &FtpUploadCommand{ftpRepository: ftpRepository}
}

// Execute checks every local file, then uploads them in one session.
func (it *FtpUploadCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts FtpUploadOptions,
) (*NotifyResult, error) {
	server := mergeFtpServer(opts.Server, settings.Ftp)
	if err := entities.RequireArgument("ftp host", server.Host); err != nil {
		return nil, err
	}
	if len(opts.Files) == 0 {
		return nil, fmt.Errorf("%w: at least one file is required", entities.ErrInvalidArgument)
	}
	for _, file := range opts.Files {
		info, err := os.Stat(file)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", entities.ErrFileNotFound, file, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %q is a directory", entities.ErrInvalidArgument, file)
		}
	}

	result := &NotifyResult{}
	if opts.DryRun {
		logger.Infof("[ftp] [DRY RUN] Would upload %d file(s) to %s/%s", len(opts.Files), server.Address(), opts.RemoteDir)
		return result, nil
	}

	err := retry.Do(ctx, retryOptions(settings), func(ctx context.Context) error {
		remote, uploadErr := it.ftpRepository.Upload(ctx, server, opts.RemoteDir, opts.Files)
		if uploadErr != nil {
			logger.Debugf("[ftp] Attempt failed: %v", uploadErr)
			return uploadErr
		}
		result.RemoteFiles = remote
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("failed to upload to %s: %w", server.Address(), err)
	}

	result.Sent = true
	for _, remote := range result.RemoteFiles {
		entities.LogMessage(entities.ImportanceNormal, "[ftp] Uploaded %s", remote)
	}
	return result, nil
}

func retryOptions(settings *entities.Settings) retry.Options {
	return retry.Options{
		Interval:    settings.Retry.Interval.Std(),
		MaxAttempts: max(settings.Retry.MaxAttempts, 1),
	}
}

func mergeFtpServer(override, defaults entities.FtpServer) entities.FtpServer {
	merged := defaults
	if override.Host != "" {
		merged.Host = override.Host
	}
	if override.Port != 0 {
		merged.Port = override.Port
	}
	if override.Username != "" {
		merged.Username = override.Username
	}
	if override.Password != "" {
		merged.Password = override.Password
	}
	if override.Timeout != 0 {
		merged.Timeout = override.Timeout
	}
	return merged
}
