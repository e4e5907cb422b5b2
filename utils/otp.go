// utils/otp.go
package utils

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
)

// GenerateOTPCode returns a uniformly random numeric code of the given
// length. Leading zeros are allowed.
func GenerateOTPCode(length int) (string, error) {
	const digits = "0123456789"
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		code[i] = digits[n.Int64()]
	}
	return string(code), nil
}

// ValidateOTPAttempts throttles OTP activity per phone number. A nil Redis
// client disables throttling.
func ValidateOTPAttempts(phone string, redisClient *redis.Client) error {
	if redisClient == nil {
		return nil
	}

	key := "otp_attempts:" + phone
	attempts, err := redisClient.Incr(context.Background(), key).Result()
	if err != nil {
		return err
	}

	// Set expiry if first attempt
	if attempts == 1 {
		redisClient.Expire(context.Background(), key, 1*time.Hour)
	}

	// Limit to 5 attempts per hour
	if attempts > 5 {
		return errors.New("too many OTP attempts")
	}

	return nil
}
