package services

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	apperrors "github.com/rishavk21/UrbanCart-backend/common/errors"

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

func clearOTPKeys(t *testing.T, client *redis.Client, email string) {
	t.Helper()
	ctx := context.Background()
	for _, kind := range []string{"lock", "spam", "cool", "req", "fail", "code"} {
		for _, purpose := range []string{"verify", "reset"} {
			client.Del(ctx, otpKey(kind, purpose, email))
		}
	}
}

func TestIssueAndVerify(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	ctx := context.Background()

	guard := NewOTPGuard(client)
	email := "issue-verify@example.com"
	clearOTPKeys(t, client, email)

	code, err := guard.Issue(ctx, email, "verify")
	require.NoError(t, err)
	assert.Len(t, code, 6)

	err = guard.Verify(ctx, email, "verify", code)
	assert.NoError(t, err)

	// The code is consumed on success.
	err = guard.Verify(ctx, email, "verify", code)
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestIssueCooldown(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	ctx := context.Background()

	guard := NewOTPGuard(client)
	email := "cooldown@example.com"
	clearOTPKeys(t, client, email)

	_, err := guard.Issue(ctx, email, "verify")
	require.NoError(t, err)

	// An immediate second request hits the cooldown window.
	_, err = guard.Issue(ctx, email, "verify")
	assert.ErrorIs(t, err, apperrors.ErrOTPCooldown)
}

func TestIssueSpamLock(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	ctx := context.Background()

	guard := NewOTPGuard(client)
	email := "spam@example.com"
	clearOTPKeys(t, client, email)

	for i := 0; i < otpMaxRequests; i++ {
		_, err := guard.Issue(ctx, email, "verify")
		require.NoError(t, err)
		// Clear the cooldown so only the hourly request counter gates.
		client.Del(ctx, otpKey("cool", "verify", email))
	}

	_, err := guard.Issue(ctx, email, "verify")
	assert.ErrorIs(t, err, apperrors.ErrOTPSpamLocked)

	// The spam lock persists even after the cooldown clears.
	client.Del(ctx, otpKey("cool", "verify", email))
	_, err = guard.Issue(ctx, email, "verify")
	assert.ErrorIs(t, err, apperrors.ErrOTPSpamLocked)
}

func TestVerifyFailureLockout(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	ctx := context.Background()

	guard := NewOTPGuard(client)
	email := "lockout@example.com"
	clearOTPKeys(t, client, email)

	code, err := guard.Issue(ctx, email, "verify")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "111111"
	}

	for i := 0; i < otpMaxFailures; i++ {
		err := guard.Verify(ctx, email, "verify", wrong)
		assert.ErrorIs(t, err, ErrOTPMismatch)
	}

	// The attempt past the threshold trips the account lock.
	err = guard.Verify(ctx, email, "verify", wrong)
	assert.ErrorIs(t, err, apperrors.ErrOTPAccountLocked)

	// Locked identities can neither verify (even with the right code) nor
	// request new codes until the lock expires.
	err = guard.Verify(ctx, email, "verify", code)
	assert.ErrorIs(t, err, apperrors.ErrOTPAccountLocked)
	_, err = guard.Issue(ctx, email, "verify")
	assert.ErrorIs(t, err, apperrors.ErrOTPAccountLocked)
}

func TestPurposesAreIndependent(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	ctx := context.Background()

	guard := NewOTPGuard(client)
	email := "purposes@example.com"
	clearOTPKeys(t, client, email)

	_, err := guard.Issue(ctx, email, "verify")
	require.NoError(t, err)

	// A verify cooldown does not block a reset issuance.
	_, err = guard.Issue(ctx, email, "reset")
	assert.NoError(t, err)
}

func TestConcurrentIssueCountsEveryRequest(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	ctx := context.Background()

	guard := NewOTPGuard(client)
	email := "concurrent@example.com"
	clearOTPKeys(t, client, email)

	// Fire a burst of concurrent increments at the counter script. Every call
	// must be counted exactly once; a racy GET/SET limiter would undercount.
	const burst = 10
	key := otpKey("req", "verify", email)
	var wg sync.WaitGroup
	for i := 0; i < burst; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := incrWithExpireScript.Run(ctx, client, []string{key}, 3600).Int()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := client.Get(ctx, key).Int()
	require.NoError(t, err)
	assert.Equal(t, burst, count)

	ttl, err := client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl.Seconds(), 0.0)

	// Past the threshold, issuance reports the spam lock.
	_, err = guard.Issue(ctx, email, "verify")
	assert.ErrorIs(t, err, apperrors.ErrOTPSpamLocked)
}

func TestResetTokenSingleUse(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	ctx := context.Background()

	guard := NewOTPGuard(client)
	email := "reset-token@example.com"

	require.NoError(t, guard.CreateResetToken(ctx, email, "tok-1"))

	got, err := guard.ConsumeResetToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, email, got)

	_, err = guard.ConsumeResetToken(ctx, "tok-1")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, redis.Nil))
}
