//go:build unit

package twilio_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
	"github.com/rios0rios0/buildactivities/internal/infrastructure/repositories/twilio"
	"github.com/rios0rios0/buildactivities/internal/retry"
)

func TestSmsRepositorySend(t *testing.T) {
	t.Parallel()

	message := entities.SmsMessage{From: "+15550000000", To: "+15551234567", Body: "Build 42 failed"}

	t.Run("should post the form with basic auth and return the sid", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "AC123", user)
			assert.Equal(t, "token", pass)
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "+15551234567", r.PostForm.Get("To"))
			assert.Equal(t, "Build 42 failed", r.PostForm.Get("Body"))

			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"sid":"SM42","status":"queued"}`))
		}))
		defer server.Close()
		repo := twilio.NewSmsRepositoryWithClient(server.Client())
		account := entities.SmsAccount{AccountSID: "AC123", AuthToken: "token", BaseURL: server.URL}

		// when
		sid, err := repo.Send(context.Background(), account, message)

		// then
		require.NoError(t, err)
		assert.Equal(t, "SM42", sid)
	})

	t.Run("should mark client errors as permanent", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":21211,"message":"The 'To' number is not a valid phone number."}`))
		}))
		defer server.Close()
		repo := twilio.NewSmsRepositoryWithClient(server.Client())
		account := entities.SmsAccount{AccountSID: "AC123", AuthToken: "token", BaseURL: server.URL}

		// when
		_, err := repo.Send(context.Background(), account, message)

		// then
		require.Error(t, err)
		assert.True(t, retry.IsPermanent(err))
		assert.Contains(t, err.Error(), "21211")
	})

	t.Run("should leave server errors retryable", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()
		repo := twilio.NewSmsRepositoryWithClient(server.Client())
		account := entities.SmsAccount{AccountSID: "AC123", AuthToken: "token", BaseURL: server.URL}

		// when
		_, err := repo.Send(context.Background(), account, message)

		// then
		require.Error(t, err)
		assert.False(t, retry.IsPermanent(err))
	})
}
