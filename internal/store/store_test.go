package store

import (
	"context"
	"testing"
	"time"

	"jewelry-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCRUD(t *testing.T) {
	// Integration test - requires a running MongoDB instance
	t.Skip("Integration test - requires database")

	store, err := NewStore("mongodb://localhost:27017", "jewelry_test")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Ping(ctx))

	product := &models.Product{
		Name:              "Gold Ring",
		Price:             1500,
		PeopleCategory:    "Female",
		ProductCategory:   "Ring",
		Stock:             3,
		InStock:           true,
		CustomOption:      "Engraving",
		CustomizationType: "engraving",
		CreatedAt:         time.Now(),
	}

	err = store.InsertProduct(ctx, product)
	assert.NoError(t, err)
	assert.False(t, product.ID.IsZero())

	retrieved, err := store.GetProduct(ctx, product.ID)
	assert.NoError(t, err)
	require.NotNil(t, retrieved)
	assert.Equal(t, product.Name, retrieved.Name)

	deleted, err := store.DeleteProduct(ctx, product.ID)
	assert.NoError(t, err)
	assert.True(t, deleted)
}

func TestListOrdersNewestFirst(t *testing.T) {
	t.Skip("Integration test - requires database")

	store, err := NewStore("mongodb://localhost:27017", "jewelry_test")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	older := &models.Order{Status: models.OrderStatusPending, CreatedAt: time.Now().Add(-time.Hour)}
	newer := &models.Order{Status: models.OrderStatusPending, CreatedAt: time.Now()}
	require.NoError(t, store.InsertOrder(ctx, older))
	require.NoError(t, store.InsertOrder(ctx, newer))

	orders, err := store.ListOrders(ctx, 10)
	assert.NoError(t, err)
	require.GreaterOrEqual(t, len(orders), 2)
	assert.True(t, orders[0].CreatedAt.After(orders[1].CreatedAt))
}
