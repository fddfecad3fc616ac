//go:build unit

package entities_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
)

func TestParseSharePointOutput(t *testing.T) {
	t.Parallel()

	solutionID := uuid.MustParse("4804dbf0-8a04-4ee9-92f9-d671f2cfd069")

	t.Run("should return no records for empty output", func(t *testing.T) {
		t.Parallel()

		// when
		statuses, err := entities.ParseSharePointOutput(entities.SharePointActionGetSolution, "")

		// then
		require.NoError(t, err)
		assert.Empty(t, statuses)
	})

	t.Run("should return no records for separators only", func(t *testing.T) {
		t.Parallel()

		// when
		statuses, err := entities.ParseSharePointOutput(entities.SharePointActionGetSolution, "  ,  ,   ")

		// then
		require.NoError(t, err)
		assert.Empty(t, statuses)
	})

	t.Run("should parse a comma-delimited record with trimmed fields", func(t *testing.T) {
		t.Parallel()

		// when
		statuses, err := entities.ParseSharePointOutput(
			entities.SharePointActionGetSolution, "name, 4804dbf0-8a04-4ee9-92f9-d671f2cfd069, True",
		)

		// then
		require.NoError(t, err)
		require.Len(t, statuses, 1)
		assert.Equal(t, entities.DeploymentStatus{Name: "name", ID: solutionID, Deployed: true}, statuses[0])
	})

	t.Run("should skip partial and unparseable lines", func(t *testing.T) {
		t.Parallel()

		// given
		output := "WARNING: something\r\n" +
			"a.wsp, not-a-guid, True\r\n" +
			"b.wsp, 4804dbf0-8a04-4ee9-92f9-d671f2cfd069\r\n" +
			"c.wsp, 4804dbf0-8a04-4ee9-92f9-d671f2cfd069, False\r\n"

		// when
		statuses, err := entities.ParseSharePointOutput(entities.SharePointActionGetSolution, output)

		// then
		require.NoError(t, err)
		require.Len(t, statuses, 1)
		assert.Equal(t, "c.wsp", statuses[0].Name)
		assert.False(t, statuses[0].Deployed)
	})

	t.Run("should parse Format-List blocks", func(t *testing.T) {
		t.Parallel()

		// given
		output := "\n" +
			"DisplayName : MyFeature\n" +
			"Id          : 4804dbf0-8a04-4ee9-92f9-d671f2cfd069\n" +
			"Status      : Online\n" +
			"\n" +
			"DisplayName : Broken\n" +
			"Id          : nope\n"

		// when
		statuses, err := entities.ParseSharePointOutput(entities.SharePointActionGetFeature, output)

		// then
		require.NoError(t, err)
		require.Len(t, statuses, 1)
		assert.Equal(t, entities.DeploymentStatus{Name: "MyFeature", ID: solutionID, Deployed: true}, statuses[0])
	})

	t.Run("should yield nothing for non-query actions", func(t *testing.T) {
		t.Parallel()

		// when
		statuses, err := entities.ParseSharePointOutput(
			entities.SharePointActionAddSolution, "name, 4804dbf0-8a04-4ee9-92f9-d671f2cfd069, True",
		)

		// then
		require.NoError(t, err)
		assert.Empty(t, statuses)
	})

	t.Run("should fail for unknown actions", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := entities.ParseSharePointOutput(entities.SharePointActionUnknown, "")

		// then
		require.ErrorIs(t, err, entities.ErrActionNotImplemented)
	})
}
