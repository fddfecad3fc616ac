package smtp

import (
	"bytes"
	"time"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
	"github.com/rios0rios0/buildactivities/internal/domain/repositories"
)

// BuildMessage exports buildMessage for testing with a fixed clock and
// returns the rendered message.
func BuildMessage(now time.Time, server entities.SmtpServer, message entities.EmailMessage) (string, error) {
	repo := &MailRepository{now: func() time.Time { return now }, timeout: sessionTimeout}
	msg, err := repo.buildMessage(server, message)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err = msg.WriteTo(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// NewMailRepositoryWithTimeout creates a MailRepository with a custom session timeout.
func NewMailRepositoryWithTimeout(timeout time.Duration) repositories.MailRepository {
	return &MailRepository{now: time.Now, timeout: timeout}
}
