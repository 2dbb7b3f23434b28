package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	apperrors "github.com/rishavk21/UrbanCart-backend/common/errors"

	"github.com/redis/go-redis/v9"
)

// OTP guard policy. Three independent expiring keys gate issuance: an account
// lock (set after repeated verification failures), a spam lock (set after too
// many issuance requests) and a per-issuance cooldown. Checked in that order.
const (
	otpCodeTTL     = 10 * time.Minute
	otpCooldownTTL = 60 * time.Second

	otpRequestWindow   = time.Hour
	otpMaxRequests     = 3 // a 4th request within the window trips the spam lock
	otpSpamLockTTL     = 3600 * time.Second
	otpFailWindow      = 5 * time.Minute
	otpMaxFailures     = 3 // a 4th wrong code within the window trips the account lock
	otpAccountLockTTL  = 1800 * time.Second
	resetTokenTTL      = 15 * time.Minute
)

// incrWithExpireScript atomically increments a counter and attaches its TTL in
// the same round trip. Two concurrent requests can never both observe the
// pre-increment count, which closes the read-modify-write race of a plain
// GET/SET limiter.
var incrWithExpireScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`)

var (
	ErrOTPNotFound = fmt.Errorf("OTP expired or was never issued")
	ErrOTPMismatch = fmt.Errorf("invalid verification code")
)

// OTPGuard issues and verifies one-time codes for an identity (email),
// enforcing the lockout policy above. All state lives in Redis.
type OTPGuard struct {
	client *redis.Client
}

func NewOTPGuard(client *redis.Client) *OTPGuard {
	return &OTPGuard{client: client}
}

func otpKey(kind, purpose, email string) string {
	return fmt.Sprintf("otp:%s:%s:%s", kind, purpose, email)
}

// Issue generates a new numeric OTP for the given email and purpose
// ("verify" or "reset"). Lock and cooldown checks run in order; any present
// key rejects issuance with its specific error.
func (g *OTPGuard) Issue(ctx context.Context, email, purpose string) (string, error) {
	locked, err := g.client.Exists(ctx, otpKey("lock", purpose, email)).Result()
	if err != nil {
		return "", fmt.Errorf("otp guard lock check: %w", err)
	}
	if locked > 0 {
		return "", apperrors.ErrOTPAccountLocked
	}

	spammed, err := g.client.Exists(ctx, otpKey("spam", purpose, email)).Result()
	if err != nil {
		return "", fmt.Errorf("otp guard spam check: %w", err)
	}
	if spammed > 0 {
		return "", apperrors.ErrOTPSpamLocked
	}

	cooling, err := g.client.Exists(ctx, otpKey("cool", purpose, email)).Result()
	if err != nil {
		return "", fmt.Errorf("otp guard cooldown check: %w", err)
	}
	if cooling > 0 {
		return "", apperrors.ErrOTPCooldown
	}

	count, err := incrWithExpireScript.Run(ctx, g.client,
		[]string{otpKey("req", purpose, email)},
		int(otpRequestWindow.Seconds())).Int()
	if err != nil {
		return "", fmt.Errorf("otp guard request counter: %w", err)
	}
	if count > otpMaxRequests {
		if err := g.client.Set(ctx, otpKey("spam", purpose, email), 1, otpSpamLockTTL).Err(); err != nil {
			return "", fmt.Errorf("otp guard spam lock: %w", err)
		}
		return "", apperrors.ErrOTPSpamLocked
	}

	code := GenerateRandomCode(6)
	pipe := g.client.TxPipeline()
	pipe.Set(ctx, otpKey("code", purpose, email), code, otpCodeTTL)
	pipe.Set(ctx, otpKey("cool", purpose, email), 1, otpCooldownTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("otp guard store code: %w", err)
	}

	return code, nil
}

// Verify checks a submitted code. A wrong code increments the failure counter;
// past the threshold the account lock is set and both the stored code and the
// counter are deleted, so the lock must expire before another attempt.
func (g *OTPGuard) Verify(ctx context.Context, email, purpose, code string) error {
	locked, err := g.client.Exists(ctx, otpKey("lock", purpose, email)).Result()
	if err != nil {
		return fmt.Errorf("otp guard lock check: %w", err)
	}
	if locked > 0 {
		return apperrors.ErrOTPAccountLocked
	}

	stored, err := g.client.Get(ctx, otpKey("code", purpose, email)).Result()
	if err == redis.Nil {
		return ErrOTPNotFound
	}
	if err != nil {
		return fmt.Errorf("otp guard fetch code: %w", err)
	}

	if stored != code {
		fails, err := incrWithExpireScript.Run(ctx, g.client,
			[]string{otpKey("fail", purpose, email)},
			int(otpFailWindow.Seconds())).Int()
		if err != nil {
			return fmt.Errorf("otp guard failure counter: %w", err)
		}
		if fails > otpMaxFailures {
			pipe := g.client.TxPipeline()
			pipe.Set(ctx, otpKey("lock", purpose, email), 1, otpAccountLockTTL)
			pipe.Del(ctx, otpKey("code", purpose, email), otpKey("fail", purpose, email))
			if _, err := pipe.Exec(ctx); err != nil {
				return fmt.Errorf("otp guard account lock: %w", err)
			}
			return apperrors.ErrOTPAccountLocked
		}
		return ErrOTPMismatch
	}

	// Success consumes the code and clears the failure counter.
	if err := g.client.Del(ctx, otpKey("code", purpose, email), otpKey("fail", purpose, email)).Err(); err != nil {
		return fmt.Errorf("otp guard consume code: %w", err)
	}
	return nil
}

// CreateResetToken stores a one-time password-reset token for the email.
func (g *OTPGuard) CreateResetToken(ctx context.Context, email, token string) error {
	return g.client.Set(ctx, "reset:"+token, email, resetTokenTTL).Err()
}

// ConsumeResetToken returns the email a reset token was issued for and
// deletes it, so a token can be used at most once.
func (g *OTPGuard) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	email, err := g.client.GetDel(ctx, "reset:"+token).Result()
	if err == redis.Nil {
		return "", fmt.Errorf("invalid or expired reset token")
	}
	if err != nil {
		return "", fmt.Errorf("otp guard consume reset token: %w", err)
	}
	return email, nil
}

// GenerateRandomCode returns a numeric code of the given length.
func GenerateRandomCode(length int) string {
	code := ""
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			code += "0"
			continue
		}
		code += n.String()
	}
	return code
}
