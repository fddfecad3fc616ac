//go:build unit

package entities_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
)

func TestFailurePolicyHandle(t *testing.T) {
	t.Parallel()

	unreachable := errors.New("connection refused")

	t.Run("should return errors when failing the build", func(t *testing.T) {
		t.Parallel()

		// given
		policy := entities.FailurePolicy{FailBuildOnError: true}

		// when
		err := policy.Handle("email", unreachable)

		// then
		require.ErrorIs(t, err, unreachable)
	})

	t.Run("should downgrade errors when not failing the build", func(t *testing.T) {
		t.Parallel()

		// given
		policy := entities.FailurePolicy{FailBuildOnError: false}

		// when
		err := policy.Handle("email", unreachable)

		// then
		require.NoError(t, err)
	})

	t.Run("should always return invalid arguments", func(t *testing.T) {
		t.Parallel()

		// given
		policy := entities.FailurePolicy{FailBuildOnError: false}
		invalid := fmt.Errorf("%w: subject is required", entities.ErrInvalidArgument)

		// when
		err := policy.Handle("email", invalid)

		// then
		require.ErrorIs(t, err, entities.ErrInvalidArgument)
	})
}

func TestWriteOutputs(t *testing.T) {
	t.Parallel()

	t.Run("should print name=value lines in order", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer

		// when
		err := entities.WriteOutputs(&out,
			entities.Output{Name: "Sent", Value: true},
			entities.Output{Name: "MessageID", Value: "SM1"},
		)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Sent=true\nMessageID=SM1\n", out.String())
	})
}

func TestEmailMessageValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		message entities.EmailMessage
		wantErr bool
	}{
		{
			name:    "should accept a complete message",
			message: entities.EmailMessage{From: "ci@contoso.com", To: []string{"dev@contoso.com"}, Subject: "Build 42"},
		},
		{
			name:    "should require a recipient",
			message: entities.EmailMessage{From: "ci@contoso.com", Subject: "Build 42"},
			wantErr: true,
		},
		{
			name: "should reject header injection",
			message: entities.EmailMessage{
				From: "ci@contoso.com", To: []string{"dev@contoso.com"}, Subject: "Build\r\nBcc: x@evil.com",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			err := tt.message.Validate()

			// then
			if tt.wantErr {
				require.ErrorIs(t, err, entities.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
		})
	}
}
