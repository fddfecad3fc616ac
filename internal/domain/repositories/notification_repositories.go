package repositories

import (
	"context"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
)

// MailRepository delivers email through an SMTP relay.
type MailRepository interface {
	Send(ctx context.Context, server entities.SmtpServer, message entities.EmailMessage) error
}

// SmsRepository delivers text messages through an SMS gateway.
type SmsRepository interface {
	// Send returns the gateway message identifier.
	Send(ctx context.Context, account entities.SmsAccount, message entities.SmsMessage) (string, error)
}

// FtpRepository uploads files to an FTP server.
type FtpRepository interface {
	// Upload stores every local file under remoteDir, creating it when missing,
	// and returns the remote paths written.
	Upload(ctx context.Context, server entities.FtpServer, remoteDir string, files []string) ([]string, error)
}
