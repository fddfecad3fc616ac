package smtp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
	"github.com/rios0rios0/buildactivities/internal/domain/repositories"
	"github.com/rios0rios0/buildactivities/internal/retry"
)

const sessionTimeout = 30 * time.Second

// MailRepository sends email with github.com/wneessen/go-mail, upgrading to
// STARTTLS when the relay offers it.
type MailRepository struct {
	now     func() time.Time
	timeout time.Duration
}

// NewMailRepository creates a new SMTP MailRepository.
func NewMailRepository() repositories.MailRepository {
	return &MailRepository{now: time.Now, timeout: sessionTimeout}
}

// Send delivers one message. Every session has a deadline, so a relay that
// never answers fails the attempt. 5xx replies are permanent.
func (r *MailRepository) Send(
	ctx context.Context,
	server entities.SmtpServer,
	message entities.EmailMessage,
) error {
	msg, err := r.buildMessage(server, message)
	if err != nil {
		return retry.Permanent(err)
	}

	options := []mail.Option{
		mail.WithPort(server.Port),
		mail.WithTimeout(r.timeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithDialContextFunc(r.dial),
	}
	if server.Username != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(server.Username),
			mail.WithPassword(server.Password),
		)
	}

	client, err := mail.NewClient(server.Host, options...)
	if err != nil {
		return retry.Permanent(fmt.Errorf("invalid smtp settings: %w", err))
	}

	if err = client.DialAndSendWithContext(ctx, msg); err != nil {
		sendErr := fmt.Errorf("failed to send via %s: %w", server.Address(), err)
		if isPermanent(err) {
			return retry.Permanent(sendErr)
		}
		return sendErr
	}

	logger.Debugf("[email] Relay %s accepted the message", server.Address())
	return nil
}

// dial opens the TCP connection with a deadline covering the whole session,
// bounded by the context deadline when there is one.
func (r *MailRepository) dial(ctx context.Context, network, address string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: r.timeout}
	conn, err := dialer.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(r.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err = conn.SetDeadline(deadline); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set session deadline: %w", err)
	}
	return conn, nil
}

// buildMessage renders the message. Headers are RFC 2047 encoded by go-mail.
func (r *MailRepository) buildMessage(server entities.SmtpServer, message entities.EmailMessage) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(message.From); err != nil {
		return nil, fmt.Errorf("%w: from: %w", entities.ErrInvalidArgument, err)
	}
	if err := msg.To(message.To...); err != nil {
		return nil, fmt.Errorf("%w: to: %w", entities.ErrInvalidArgument, err)
	}
	if len(message.Cc) > 0 {
		if err := msg.Cc(message.Cc...); err != nil {
			return nil, fmt.Errorf("%w: cc: %w", entities.ErrInvalidArgument, err)
		}
	}
	msg.Subject(message.Subject)
	msg.SetDateWithValue(r.now())
	msg.SetMessageIDWithValue(uuid.NewString() + "@" + server.Host)

	contentType := mail.TypeTextPlain
	if message.HTML {
		contentType = mail.TypeTextHTML
	}
	msg.SetBodyString(contentType, strings.ReplaceAll(message.Body, "\r\n", "\n"))
	return msg, nil
}

// isPermanent reports whether the relay answered with a 5xx reply.
// Network failures stay retryable.
func isPermanent(err error) bool {
	var sendErr *mail.SendError
	if errors.As(err, &sendErr) {
		return sendErr.ErrorCode() >= 500
	}
	var replyErr *textproto.Error
	if errors.As(err, &replyErr) {
		return replyErr.Code >= 500
	}
	return false
}
