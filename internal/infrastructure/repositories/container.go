package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/buildactivities/internal/infrastructure/repositories/filelock"
	"github.com/rios0rios0/buildactivities/internal/infrastructure/repositories/ftp"
	"github.com/rios0rios0/buildactivities/internal/infrastructure/repositories/process"
	"github.com/rios0rios0/buildactivities/internal/infrastructure/repositories/smtp"
	"github.com/rios0rios0/buildactivities/internal/infrastructure/repositories/twilio"
)

// RegisterProviders registers all repository providers with the DIG container.
// Every constructor returns its domain interface, so no binding step is needed.
func RegisterProviders(container *dig.Container) error {
	constructors := []any{
		process.NewProcessRepository,
		filelock.NewLockRepository,
		smtp.NewMailRepository,
		twilio.NewSmsRepository,
		ftp.NewFtpRepository,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}
	return nil
}
