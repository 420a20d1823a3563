package products

import (
	"context"
	"testing"

	"github.com/elorielabs/elorie-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Product{}))
	return conn
}

func seedProduct(t *testing.T, db *gorm.DB, name, category string, trending bool) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		Name:       name,
		Category:   category,
		PricePaise: 25000,
		InStock:    true,
		IsTrending: trending,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryListFilters(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedProduct(t, db, "Gold ring", "rings", true)
	seedProduct(t, db, "Silver ring", "rings", false)
	seedProduct(t, db, "Pearl necklace", "necklaces", false)

	items, total, err := repo.List(ctx, ListFilters{Category: "rings"})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, items, 2)

	items, total, err = repo.List(ctx, ListFilters{Trending: true})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "Gold ring", items[0].Name)

	items, total, err = repo.List(ctx, ListFilters{Search: "necklace"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "Pearl necklace", items[0].Name)
}

func TestRepositoryListPaging(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedProduct(t, db, "Ring", "rings", false)
	}

	items, total, err := repo.List(ctx, ListFilters{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.EqualValues(t, 5, total)
	require.Len(t, items, 2)
}

func TestRepositoryCRUD(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := seedProduct(t, db, "Gold ring", "rings", false)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Name, found.Name)

	found.PricePaise = 19900
	_, err = repo.Update(ctx, found)
	require.NoError(t, err)

	reloaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 19900, reloaded.PricePaise)

	require.NoError(t, repo.Delete(ctx, created.ID))
	require.ErrorIs(t, repo.Delete(ctx, created.ID), gorm.ErrRecordNotFound)
}
