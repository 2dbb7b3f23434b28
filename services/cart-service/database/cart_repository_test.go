package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rishavk21/UrbanCart-backend/services/cart-service/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestCartRoundTrip(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	ctx := context.Background()

	repo := NewCartRepository(client, time.Hour)
	userID := "cart-roundtrip-user"
	require.NoError(t, repo.DeleteCart(ctx, userID))

	missing, err := repo.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	cart := &models.Cart{UserID: userID}
	cart.Upsert(models.CartItem{SKU: "A", ProductID: "p1", Name: "A", UnitPrice: 10, Quantity: 2})
	require.NoError(t, repo.SaveCart(ctx, cart))

	loaded, err := repo.GetCart(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "A", loaded.Items[0].SKU)

	require.NoError(t, repo.DeleteCart(ctx, userID))
}

func TestClaimIdempotency(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	ctx := context.Background()

	repo := NewCartRepository(client, time.Hour)
	key := "idem-test-key"
	require.NoError(t, repo.ReleaseIdempotency(ctx, key))

	claimed, err := repo.ClaimIdempotency(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)

	// A second claim with the same key loses.
	claimed, err = repo.ClaimIdempotency(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, claimed)

	// Releasing makes the key claimable again, for retry after a failed publish.
	require.NoError(t, repo.ReleaseIdempotency(ctx, key))
	claimed, err = repo.ClaimIdempotency(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)

	require.NoError(t, repo.ReleaseIdempotency(ctx, key))
}
