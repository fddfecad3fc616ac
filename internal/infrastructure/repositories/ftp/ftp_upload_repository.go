package ftp

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jlaffaye/ftp"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
	"github.com/rios0rios0/buildactivities/internal/domain/repositories"
	"github.com/rios0rios0/buildactivities/internal/retry"
)

const anonymousUser = "anonymous"

// UploadRepository uploads files with github.com/jlaffaye/ftp.
type UploadRepository struct{}

// NewFtpRepository creates a new FTP UploadRepository.
func NewFtpRepository() repositories.FtpRepository {
	return &UploadRepository{}
}

// Upload opens one session, creates remoteDir when missing and stores every
// file under its base name.
func (r *UploadRepository) Upload(
	ctx context.Context,
	server entities.FtpServer,
	remoteDir string,
	files []string,
) ([]string, error) {
	options := []ftp.DialOption{ftp.DialWithContext(ctx)}
	if server.Timeout > 0 {
		options = append(options, ftp.DialWithTimeout(server.Timeout.Std()))
	}

	conn, err := ftp.Dial(server.Address(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", server.Address(), err)
	}
	defer func() {
		if quitErr := conn.Quit(); quitErr != nil {
			logger.Debugf("[ftp] Failed to close session: %v", quitErr)
		}
	}()

	username, password := server.Username, server.Password
	if username == "" {
		username, password = anonymousUser, anonymousUser
	}
	if err = conn.Login(username, password); err != nil {
		return nil, retry.Permanent(fmt.Errorf("ftp login as %s failed: %w", username, err))
	}

	if err = r.changeDir(conn, remoteDir); err != nil {
		return nil, err
	}

	uploaded := make([]string, 0, len(files))
	for _, local := range files {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return uploaded, ctxErr
		}
		remote, storeErr := r.store(conn, remoteDir, local)
		if storeErr != nil {
			return uploaded, storeErr
		}
		uploaded = append(uploaded, remote)
	}
	return uploaded, nil
}

// changeDir walks into remoteDir one segment at a time, creating missing
// segments.
func (r *UploadRepository) changeDir(conn *ftp.ServerConn, remoteDir string) error {
	clean := path.Clean("/" + strings.ReplaceAll(remoteDir, "\\", "/"))
	if clean == "/" {
		return nil
	}
	if err := conn.ChangeDir("/"); err != nil {
		return fmt.Errorf("failed to change to root directory: %w", err)
	}

	for _, segment := range strings.Split(strings.TrimPrefix(clean, "/"), "/") {
		if err := conn.ChangeDir(segment); err == nil {
			continue
		}
		logger.Debugf("[ftp] Creating remote directory %s", segment)
		if err := conn.MakeDir(segment); err != nil {
			return fmt.Errorf("failed to create remote directory %q: %w", segment, err)
		}
		if err := conn.ChangeDir(segment); err != nil {
			return fmt.Errorf("failed to change to remote directory %q: %w", segment, err)
		}
	}
	return nil
}

func (r *UploadRepository) store(conn *ftp.ServerConn, remoteDir, local string) (string, error) {
	file, err := os.Open(local)
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("failed to open %q: %w", local, err))
	}
	defer file.Close()

	name := filepath.Base(local)
	if err = conn.Stor(name, file); err != nil {
		return "", fmt.Errorf("failed to upload %q: %w", local, err)
	}
	return path.Join("/", strings.ReplaceAll(remoteDir, "\\", "/"), name), nil
}
