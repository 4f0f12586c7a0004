package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agristock/agristock-api/internal/domain/model"
	"github.com/agristock/agristock-api/internal/testutil"
)

func sinkRequest(name string) *model.CreateAlertSinkRequest {
	return &model.CreateAlertSinkRequest{
		Name: name,
		URI:  "https://hooks.example.com/" + name,
	}
}

func TestAlertSinkRepo_CreateDefaults(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewAlertSinkRepo(db)
		ctx := context.Background()

		created, err := repo.Create(ctx, sinkRequest("barn-webhook"))
		require.NoError(t, err)

		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "POST", created.Method, "method should default to POST")
		assert.Equal(t, 200, created.OkStatus)
		assert.Equal(t, 0, created.Retry)
		assert.True(t, created.Enabled, "sinks should be enabled by default")

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Name, got.Name)
	})
}

func TestAlertSinkRepo_CreateDuplicateName(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewAlertSinkRepo(db)
		ctx := context.Background()

		_, err := repo.Create(ctx, sinkRequest("dup-sink"))
		require.NoError(t, err)

		_, err = repo.Create(ctx, sinkRequest("dup-sink"))
		assert.ErrorIs(t, err, ErrAlertSinkNameExists)
	})
}

func TestAlertSinkRepo_GetByID_NotFound(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewAlertSinkRepo(db)

		_, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, ErrAlertSinkNotFound)
	})
}

func TestAlertSinkRepo_ListAndDelete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewAlertSinkRepo(db)
		ctx := context.Background()

		var lastID string
		for i := range 3 {
			sink, err := repo.Create(ctx, sinkRequest(fmt.Sprintf("sink-%d", i)))
			require.NoError(t, err)
			lastID = sink.ID
		}

		sinks, err := repo.List(ctx, 0, 0)
		require.NoError(t, err)
		assert.Len(t, sinks, 3)

		page, err := repo.List(ctx, 2, 0)
		require.NoError(t, err)
		assert.Len(t, page, 2)

		deleted, err := repo.Delete(ctx, lastID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, lastID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestAlertSinkRepo_ListEnabled(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewAlertSinkRepo(db)
		ctx := context.Background()

		_, err := repo.Create(ctx, sinkRequest("enabled-sink"))
		require.NoError(t, err)

		disabled := sinkRequest("disabled-sink")
		disabled.Enabled = testutil.BoolPtr(false)
		_, err = repo.Create(ctx, disabled)
		require.NoError(t, err)

		enabled, err := repo.ListEnabled(ctx)
		require.NoError(t, err)
		require.Len(t, enabled, 1)
		assert.Equal(t, "enabled-sink", enabled[0].Name)
	})
}
