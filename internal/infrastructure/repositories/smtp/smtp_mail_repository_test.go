//go:build unit

package smtp_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
	"github.com/rios0rios0/buildactivities/internal/infrastructure/repositories/smtp"
	"github.com/rios0rios0/buildactivities/internal/retry"
)

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 7, 15, 4, 5, 0, time.UTC)
	server := entities.SmtpServer{Host: "smtp.contoso.com"}

	t.Run("should render the headers and the body", func(t *testing.T) {
		t.Parallel()

		// given
		message := entities.EmailMessage{
			From:    "ci@contoso.com",
			To:      []string{"a@contoso.com", "b@contoso.com"},
			Cc:      []string{"lead@contoso.com"},
			Subject: "Build 42 succeeded",
			Body:    "line one\nline two",
		}

		// when
		raw, err := smtp.BuildMessage(now, server, message)

		// then
		require.NoError(t, err)
		assert.Contains(t, raw, "ci@contoso.com")
		assert.Contains(t, raw, "a@contoso.com")
		assert.Contains(t, raw, "b@contoso.com")
		assert.Contains(t, raw, "Cc: ")
		assert.Contains(t, raw, "lead@contoso.com")
		assert.Contains(t, raw, "Subject: Build 42 succeeded\r\n")
		assert.Contains(t, raw, "Date: Thu, 07 Mar 2024 15:04:05 +0000\r\n")
		assert.Contains(t, raw, "@smtp.contoso.com>")
		assert.Contains(t, raw, "text/plain")
		assert.Contains(t, raw, "line one")
		assert.Contains(t, raw, "line two")
	})

	t.Run("should encode non-ASCII subjects", func(t *testing.T) {
		t.Parallel()

		// given
		message := entities.EmailMessage{
			From: "ci@contoso.com", To: []string{"a@contoso.com"}, Subject: "Build ✓ réussi", Body: "ok",
		}

		// when
		raw, err := smtp.BuildMessage(now, server, message)

		// then
		require.NoError(t, err)
		assert.Contains(t, raw, "Subject: =?UTF-8?q?")
		assert.NotContains(t, raw, "réussi")
	})

	t.Run("should mark HTML bodies", func(t *testing.T) {
		t.Parallel()

		// given
		message := entities.EmailMessage{
			From: "ci@contoso.com", To: []string{"a@contoso.com"}, Subject: "Report", Body: "<b>ok</b>", HTML: true,
		}

		// when
		raw, err := smtp.BuildMessage(now, server, message)

		// then
		require.NoError(t, err)
		assert.Contains(t, raw, "text/html")
		assert.NotContains(t, raw, "Cc:")
	})

	t.Run("should reject a malformed address as an invalid argument", func(t *testing.T) {
		t.Parallel()

		// given
		message := entities.EmailMessage{From: "ci@contoso.com", To: []string{"not an address"}, Subject: "x"}

		// when
		_, err := smtp.BuildMessage(now, server, message)

		// then
		require.ErrorIs(t, err, entities.ErrInvalidArgument)
	})
}

func TestMailRepositorySend(t *testing.T) {
	t.Parallel()

	t.Run("should give up on a relay that never greets", func(t *testing.T) {
		t.Parallel()

		// given
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer listener.Close()
		go func() {
			for {
				conn, acceptErr := listener.Accept()
				if acceptErr != nil {
					return
				}
				defer conn.Close()
			}
		}()

		address := listener.Addr().(*net.TCPAddr)
		server := entities.SmtpServer{Host: "127.0.0.1", Port: address.Port}
		message := entities.EmailMessage{From: "ci@contoso.com", To: []string{"a@contoso.com"}, Subject: "x", Body: "x"}
		repo := smtp.NewMailRepositoryWithTimeout(200 * time.Millisecond)

		// when
		done := make(chan error, 1)
		go func() { done <- repo.Send(context.Background(), server, message) }()

		// then
		select {
		case sendErr := <-done:
			require.Error(t, sendErr)
			assert.False(t, retry.IsPermanent(sendErr))
		case <-time.After(5 * time.Second):
			t.Fatal("Send is still blocked on a silent relay")
		}
	})
}
