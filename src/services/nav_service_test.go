package services_test

import (
	"context"
	"testing"
	"time"

	"fundserver/src/models"
	"fundserver/src/repositories"
	"fundserver/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNAVService(t *testing.T) {
	ctx := context.Background()

	t.Run("publish rejects non-positive values", func(t *testing.T) {
		navService := services.NewNAVService(repositories.NewMemoryNAVRepository(repositories.NewMemoryStore()), 0)

		var validation *models.ValidationError
		_, err := navService.Publish(ctx, day(2024, 1, 1), 0, "admin")
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "value", validation.Field)

		_, err = navService.Publish(ctx, day(2024, 1, 1), -5, "admin")
		require.ErrorAs(t, err, &validation)

		_, err = navService.Publish(ctx, day(2024, 1, 1), 100, "")
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "updatedBy", validation.Field)
	})

	t.Run("current returns the most recent record", func(t *testing.T) {
		navService := services.NewNAVService(repositories.NewMemoryNAVRepository(repositories.NewMemoryStore()), 0)

		_, err := navService.Publish(ctx, day(2024, 1, 1), 100, "admin")
		require.NoError(t, err)
		_, err = navService.Publish(ctx, day(2024, 1, 3), 110, "admin")
		require.NoError(t, err)
		_, err = navService.Publish(ctx, day(2024, 1, 2), 90, "admin")
		require.NoError(t, err)

		current, err := navService.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, 110.0, current)
	})

	t.Run("same-date duplicates are allowed, latest insertion wins", func(t *testing.T) {
		navService := services.NewNAVService(repositories.NewMemoryNAVRepository(repositories.NewMemoryStore()), 0)

		_, err := navService.Publish(ctx, day(2024, 1, 1), 100, "admin")
		require.NoError(t, err)
		_, err = navService.Publish(ctx, day(2024, 1, 1), 105, "admin")
		require.NoError(t, err)

		current, err := navService.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, 105.0, current)

		records, err := navService.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, 105.0, records[0].Value)
	})

	t.Run("empty ledger falls back to the configured default", func(t *testing.T) {
		navService := services.NewNAVService(repositories.NewMemoryNAVRepository(repositories.NewMemoryStore()), 10)

		current, err := navService.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, 10.0, current)
	})

	t.Run("empty ledger without a default is unavailable", func(t *testing.T) {
		navService := services.NewNAVService(repositories.NewMemoryNAVRepository(repositories.NewMemoryStore()), 0)

		var unavailable *models.DependencyUnavailableError
		_, err := navService.Current(ctx)
		require.ErrorAs(t, err, &unavailable)
	})

	t.Run("delete removes a record and does not rewrite history", func(t *testing.T) {
		navService := services.NewNAVService(repositories.NewMemoryNAVRepository(repositories.NewMemoryStore()), 0)

		_, err := navService.Publish(ctx, day(2024, 1, 1), 100, "admin")
		require.NoError(t, err)
		latest, err := navService.Publish(ctx, day(2024, 1, 2), 120, "admin")
		require.NoError(t, err)

		require.NoError(t, navService.Delete(ctx, latest.ID))

		current, err := navService.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, 100.0, current)

		var notFound *models.NotFoundError
		err = navService.Delete(ctx, "missing-id")
		require.ErrorAs(t, err, &notFound)
	})
}
