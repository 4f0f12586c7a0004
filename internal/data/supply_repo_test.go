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

func TestSupplyRepo_CreateAndGet(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewSupplyRepo(db)
		ctx := context.Background()
		userID := testutil.SeedProfile(t, db, "supplyowner")

		created, err := repo.Create(ctx, userID, testutil.NewSupplyRequest().
			WithName("  Chicken Feed  ").
			WithThreshold(10).
			Build())
		require.NoError(t, err)
		require.NotNil(t, created)

		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Chicken Feed", created.Name, "name should be trimmed")
		assert.Equal(t, model.SupplyStatusInStock, created.Status)
		assert.Equal(t, userID, created.UserID)
		assert.Equal(t, created.CreatedAt, created.UpdatedAt)

		got, err := repo.GetByID(ctx, userID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.Quantity, got.Quantity)
	})
}

func TestSupplyRepo_CreateDerivesStatus(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewSupplyRepo(db)
		ctx := context.Background()
		userID := testutil.SeedProfile(t, db, "statusowner")

		low, err := repo.Create(ctx, userID, testutil.LowStockSupplyRequest())
		require.NoError(t, err)
		assert.Equal(t, model.SupplyStatusLowStock, low.Status)

		out, err := repo.Create(ctx, userID, testutil.OutOfStockSupplyRequest())
		require.NoError(t, err)
		assert.Equal(t, model.SupplyStatusOutOfStock, out.Status)
	})
}

func TestSupplyRepo_GetByID_ScopedToUser(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewSupplyRepo(db)
		ctx := context.Background()
		owner := testutil.SeedProfile(t, db, "realowner")
		other := testutil.SeedProfile(t, db, "otheruser")

		created, err := repo.Create(ctx, owner, testutil.NewSupplyRequest().Build())
		require.NoError(t, err)

		_, err = repo.GetByID(ctx, other, created.ID)
		assert.ErrorIs(t, err, ErrSupplyNotFound)
	})
}

func TestSupplyRepo_List_Filters(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewSupplyRepo(db)
		ctx := context.Background()
		userID := testutil.SeedProfile(t, db, "listowner")

		names := []string{"Chicken Feed", "Cattle Feed", "Fence Wire"}
		categories := []string{"feed", "feed", "fencing"}
		for i, name := range names {
			_, err := repo.Create(ctx, userID, testutil.NewSupplyRequest().
				WithName(name).
				WithCategory(categories[i]).
				Build())
			require.NoError(t, err)
		}

		all, err := repo.List(ctx, userID, model.SuppliesListOptions{})
		require.NoError(t, err)
		assert.Len(t, all, 3)

		feed := "feed"
		byCategory, err := repo.List(ctx, userID, model.SuppliesListOptions{Category: &feed})
		require.NoError(t, err)
		assert.Len(t, byCategory, 2)

		q := "chicken"
		byName, err := repo.List(ctx, userID, model.SuppliesListOptions{Q: &q})
		require.NoError(t, err)
		require.Len(t, byName, 1)
		assert.Equal(t, "Chicken Feed", byName[0].Name)

		sorted, err := repo.List(ctx, userID, model.SuppliesListOptions{Sort: "name", Dir: "asc"})
		require.NoError(t, err)
		require.Len(t, sorted, 3)
		assert.Equal(t, "Cattle Feed", sorted[0].Name)
	})
}

func TestSupplyRepo_List_Pagination(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewSupplyRepo(db)
		ctx := context.Background()
		userID := testutil.SeedProfile(t, db, "pageowner")

		for i := range 5 {
			_, err := repo.Create(ctx, userID, testutil.NewSupplyRequest().
				WithName(fmt.Sprintf("Supply %d", i)).
				Build())
			require.NoError(t, err)
		}

		page, err := repo.List(ctx, userID, model.SuppliesListOptions{Limit: 2, Offset: 2, Sort: "name", Dir: "asc"})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "Supply 2", page[0].Name)
	})
}

func TestSupplyRepo_Update_RecomputesStatus(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewSupplyRepo(db)
		ctx := context.Background()
		userID := testutil.SeedProfile(t, db, "updateowner")

		created, err := repo.Create(ctx, userID, testutil.NewSupplyRequest().
			WithQuantity(40).
			WithThreshold(10).
			Build())
		require.NoError(t, err)
		require.Equal(t, model.SupplyStatusInStock, created.Status)

		qty := 8.0
		updated, err := repo.Update(ctx, userID, created.ID, model.UpdateSupplyRequest{Quantity: &qty})
		require.NoError(t, err)
		assert.Equal(t, model.SupplyStatusLowStock, updated.Status)
		assert.Equal(t, 8.0, updated.Quantity)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

		zero := 0.0
		updated, err = repo.Update(ctx, userID, created.ID, model.UpdateSupplyRequest{Quantity: &zero})
		require.NoError(t, err)
		assert.Equal(t, model.SupplyStatusOutOfStock, updated.Status)

		// A name-only update must leave the derived status alone.
		name := "Renamed Feed"
		updated, err = repo.Update(ctx, userID, created.ID, model.UpdateSupplyRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Renamed Feed", updated.Name)
		assert.Equal(t, model.SupplyStatusOutOfStock, updated.Status)
	})
}

func TestSupplyRepo_Update_NotFound(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewSupplyRepo(db)
		ctx := context.Background()
		userID := testutil.SeedProfile(t, db, "missingowner")

		name := "Anything"
		_, err := repo.Update(ctx, userID, "00000000-0000-0000-0000-000000000000",
			model.UpdateSupplyRequest{Name: &name})
		assert.ErrorIs(t, err, ErrSupplyNotFound)
	})
}

func TestSupplyRepo_Delete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewSupplyRepo(db)
		ctx := context.Background()
		userID := testutil.SeedProfile(t, db, "deleteowner")

		created, err := repo.Create(ctx, userID, testutil.NewSupplyRequest().Build())
		require.NoError(t, err)

		deleted, err := repo.Delete(ctx, userID, created.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, userID, created.ID)
		require.NoError(t, err)
		assert.False(t, deleted, "second delete should report nothing removed")
	})
}

func TestSupplyRepo_ListLowStock_CrossUser(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewSupplyRepo(db)
		ctx := context.Background()
		alice := testutil.SeedProfile(t, db, "alicefarm")
		bob := testutil.SeedProfile(t, db, "bobfarm")

		_, err := repo.Create(ctx, alice, testutil.LowStockSupplyRequest())
		require.NoError(t, err)
		_, err = repo.Create(ctx, bob, testutil.OutOfStockSupplyRequest())
		require.NoError(t, err)
		_, err = repo.Create(ctx, alice, testutil.NewSupplyRequest().WithName("Plenty").Build())
		require.NoError(t, err)

		low, err := repo.ListLowStock(ctx)
		require.NoError(t, err)
		assert.Len(t, low, 2)

		owners := map[string]bool{}
		for _, s := range low {
			owners[s.UserID] = true
			assert.True(t, s.LowOnStock())
		}
		assert.Len(t, owners, 2, "scan should cross user boundaries")
	})
}

func TestSupplyRepo_CountsAndRecent(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewSupplyRepo(db)
		ctx := context.Background()
		userID := testutil.SeedProfile(t, db, "countowner")

		_, err := repo.Create(ctx, userID, testutil.NewSupplyRequest().WithName("First").Build())
		require.NoError(t, err)
		_, err = repo.Create(ctx, userID, testutil.LowStockSupplyRequest())
		require.NoError(t, err)

		total, err := repo.Count(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 2, total)

		low, err := repo.CountLowStock(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 1, low)

		recent, err := repo.ListRecent(ctx, userID, 1)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, "Layer Pellets", recent[0].Name, "most recently written row first")
	})
}
