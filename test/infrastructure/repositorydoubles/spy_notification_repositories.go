//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
	"github.com/rios0rios0/buildactivities/internal/domain/repositories"
)

// SpyMailRepository implements repositories.MailRepository. Errors are
// returned in order, one per call; calls past the end succeed.
type SpyMailRepository struct {
	Errors []error

	// spy
	Servers  []entities.SmtpServer
	Messages []entities.EmailMessage
}

var _ repositories.MailRepository = (*SpyMailRepository)(nil)

func (s *SpyMailRepository) Send(
	_ context.Context,
	server entities.SmtpServer,
	message entities.EmailMessage,
) error {
	call := len(s.Messages)
	s.Servers = append(s.Servers, server)
	s.Messages = append(s.Messages, message)
	if call < len(s.Errors) {
		return s.Errors[call]
	}
	return nil
}

// SpySmsRepository implements repositories.SmsRepository with the same
// error sequencing as SpyMailRepository.
type SpySmsRepository struct {
	Errors []error

	// spy
	Accounts []entities.SmsAccount
	Messages []entities.SmsMessage
}

var _ repositories.SmsRepository = (*SpySmsRepository)(nil)

func (s *SpySmsRepository) Send(
	_ context.Context,
	account entities.SmsAccount,
	message entities.SmsMessage,
) (string, error) {
	call := len(s.Messages)
	s.Accounts = append(s.Accounts, account)
	s.Messages = append(s.Messages, message)
	if call < len(s.Errors) && s.Errors[call] != nil {
		return "", s.Errors[call]
	}
	return fmt.Sprintf("SM%032d", call+1), nil
}

// SpyFtpRepository implements repositories.FtpRepository.
type SpyFtpRepository struct {
	UploadErr error

	// spy
	Servers    []entities.FtpServer
	RemoteDirs []string
	Files      [][]string
}

var _ repositories.FtpRepository = (*SpyFtpRepository)(nil)

func (s *SpyFtpRepository) Upload(
	_ context.Context,
	server entities.FtpServer,
	remoteDir string,
	files []string,
) ([]string, error) {
	s.Servers = append(s.Servers, server)
	s.RemoteDirs = append(s.RemoteDirs, remoteDir)
	s.Files = append(s.Files, files)
	if s.UploadErr != nil {
		return nil, s.UploadErr
	}

	remote := make([]string, 0, len(files))
	for _, file := range files {
		remote = append(remote, remoteDir+"/"+file)
	}
	return remote, nil
}
