//go:build unit

package entities_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
)

func TestParseAssemblyVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		expected string
		wantErr  bool
	}{
		{name: "should parse four components", raw: "1.2.3.4", expected: "1.2.3.4"},
		{name: "should pad two components with zeros", raw: "1.2", expected: "1.2.0.0"},
		{name: "should keep a trailing wildcard", raw: "1.2.*", expected: "1.2.*"},
		{name: "should reject a wildcard in the middle", raw: "1.*.3", wantErr: true},
		{name: "should reject five components", raw: "1.2.3.4.5", wantErr: true},
		{name: "should reject negative numbers", raw: "1.-2.3.4", wantErr: true},
		{name: "should reject an empty string", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			version, err := entities.ParseAssemblyVersion(tt.raw)

			// then
			if tt.wantErr {
				require.ErrorIs(t, err, entities.ErrVersionFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, version.String())
		})
	}
}

func TestExpandVersionFormat(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 7, 15, 4, 5, 0, time.UTC)

	t.Run("should increment the build component", func(t *testing.T) {
		t.Parallel()

		// given
		current, err := entities.ParseAssemblyVersion("1.2.3.4")
		require.NoError(t, err)

		// when
		next, err := entities.ExpandVersionFormat("$(current).$(current).$(increment).0", current, now)

		// then
		require.NoError(t, err)
		assert.Equal(t, "1.2.4.0", next.String())
	})

	t.Run("should keep the wildcard form of the current version", func(t *testing.T) {
		t.Parallel()

		// given
		current, err := entities.ParseAssemblyVersion("1.2.*")
		require.NoError(t, err)

		// when
		next, err := entities.ExpandVersionFormat("$(current).$(increment).$(current).0", current, now)

		// then
		require.NoError(t, err)
		assert.True(t, next.HasWildcard())
		assert.Equal(t, "1.3.*", next.String())
	})

	t.Run("should expand date tokens containing dots", func(t *testing.T) {
		t.Parallel()

		// given
		current, _ := entities.ParseAssemblyVersion("1.0.0.0")

		// when
		next, err := entities.ExpandVersionFormat("$(current).$(current).$(date:yy)$(date:MM).$(date:dd)", current, now)

		// then
		require.NoError(t, err)
		assert.Equal(t, "1.0.2403.7", next.String())
	})

	t.Run("should reject an unknown token", func(t *testing.T) {
		t.Parallel()

		// given
		current, _ := entities.ParseAssemblyVersion("1.0.0.0")

		// when
		_, err := entities.ExpandVersionFormat("$(bogus).0.0.0", current, now)

		// then
		require.ErrorIs(t, err, entities.ErrTokenFormat)
	})

	t.Run("should reject a format without four components", func(t *testing.T) {
		t.Parallel()

		// given
		current, _ := entities.ParseAssemblyVersion("1.0.0.0")

		// when
		_, err := entities.ExpandVersionFormat("$(current).$(increment)", current, now)

		// then
		require.ErrorIs(t, err, entities.ErrVersionFormat)
	})

	t.Run("should reject a component that is not numeric after expansion", func(t *testing.T) {
		t.Parallel()

		// given
		current, _ := entities.ParseAssemblyVersion("1.0.0.0")

		// when
		_, err := entities.ExpandVersionFormat("1.0.0.$(date:MMM)", current, now)

		// then
		require.ErrorIs(t, err, entities.ErrVersionFormat)
	})
}

func TestCompareAssemblyVersions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{name: "should order by major", a: "2.0.0.0", b: "1.9.9.9", expected: 1},
		{name: "should order by revision", a: "1.0.0.1", b: "1.0.0.2", expected: -1},
		{name: "should treat equal versions as equal", a: "1.2.3.4", b: "1.2.3.4", expected: 0},
		{name: "should compare numerically not lexically", a: "1.10.0.0", b: "1.9.0.0", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			a, _ := entities.ParseAssemblyVersion(tt.a)
			b, _ := entities.ParseAssemblyVersion(tt.b)

			// when
			result := entities.CompareAssemblyVersions(a, b)

			// then
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestMaxVersionString(t *testing.T) {
	t.Parallel()

	t.Run("should take the candidate when current is empty", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "1.0.0.0", entities.MaxVersionString("", "1.0.0.0"))
	})

	t.Run("should keep the higher version", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "1.10.0.0", entities.MaxVersionString("1.10.0.0", "1.9.0.0"))
	})

	t.Run("should ignore an empty candidate", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "1.0.0.0", entities.MaxVersionString("1.0.0.0", ""))
	})
}

func TestMaxInformationalVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		current   string
		candidate string
		expected  string
	}{
		{name: "should take the candidate when current is empty", current: "", candidate: "1.0.0", expected: "1.0.0"},
		{name: "should ignore an empty candidate", current: "1.0.0", candidate: "", expected: "1.0.0"},
		{name: "should compare assembly versions numerically", current: "1.9.0.0", candidate: "1.10.0.0", expected: "1.10.0.0"},
		{name: "should order a prerelease below its release", current: "2.0.0", candidate: "2.0.0-beta.1", expected: "2.0.0"},
		{name: "should compare prereleases", current: "2.0.0-alpha", candidate: "2.0.0-beta", expected: "2.0.0-beta"},
		{name: "should prefer a version over free text", current: "nightly build", candidate: "1.0.0", expected: "1.0.0"},
		{name: "should not let free text replace a version", current: "1.0.0", candidate: "zzz", expected: "1.0.0"},
		{name: "should keep the first free text value", current: "Release A", candidate: "Release B", expected: "Release A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			current, candidate := tt.current, tt.candidate

			// when
			result := entities.MaxInformationalVersion(current, candidate)

			// then
			assert.Equal(t, tt.expected, result)
		})
	}
}
