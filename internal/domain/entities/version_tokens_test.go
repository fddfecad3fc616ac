//go:build unit

package entities_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
)

func TestExpandStringFormat(t *testing.T) {
	t.Parallel()

	values := entities.TokenValues{
		Version:     "1.2.4.0",
		FileVersion: "1.2.4.17",
		Now:         time.Date(2024, time.March, 7, 15, 4, 5, 0, time.UTC),
	}

	tests := []struct {
		name     string
		format   string
		expected string
		wantErr  bool
	}{
		{name: "should expand version tokens", format: "$(version) ($(fileversion))", expected: "1.2.4.0 (1.2.4.17)"},
		{name: "should expand date tokens", format: "Built $(date:yyyy-MM-dd)", expected: "Built 2024-03-07"},
		{name: "should treat token names case-insensitively", format: "$(Version)", expected: "1.2.4.0"},
		{name: "should copy text without tokens", format: "Contoso Ltd.", expected: "Contoso Ltd."},
		{name: "should reject an unknown token", format: "$(bogus)", wantErr: true},
		{name: "should reject an unterminated token", format: "$(version", wantErr: true},
		{name: "should reject version-only tokens", format: "$(increment)", wantErr: true},
		{name: "should reject a date token without a format", format: "$(date)", wantErr: true},
		{name: "should reject a lone standard date format", format: "$(date:d)", wantErr: true},
		{name: "should read a percent-prefixed specifier as custom", format: "day $(date:%d)", expected: "day 7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			result, err := entities.ExpandStringFormat(tt.format, values)

			// then
			if tt.wantErr {
				require.ErrorIs(t, err, entities.ErrTokenFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFormatDotNetDate(t *testing.T) {
	t.Parallel()

	moment := time.Date(2024, time.March, 7, 15, 4, 5, 123000000, time.UTC)

	tests := []struct {
		layout   string
		expected string
	}{
		{layout: "yyyyMMdd", expected: "20240307"},
		{layout: "yy.M.d", expected: "24.3.7"},
		{layout: "HH:mm:ss.fff", expected: "15:04:05.123"},
		{layout: "h tt", expected: "3 PM"},
		{layout: "ddd, dd MMM", expected: "Thu, 07 Mar"},
		{layout: "dddd MMMM", expected: "Thursday March"},
		{layout: "'yyyy' \\d", expected: "yyyy d"},
		{layout: "%M", expected: "3"},
	}

	for _, tt := range tests {
		t.Run("should format "+tt.layout, func(t *testing.T) {
			t.Parallel()

			// when
			result := entities.FormatDotNetDate(moment, tt.layout)

			// then
			assert.Equal(t, tt.expected, result)
		})
	}
}
