// services/otp_service.go
package services

import (
	"context"
	"time"

	"github.com/clinvite/clinvite_backend/repositories"
	"github.com/clinvite/clinvite_backend/utils"
)

// StaticOTPCode is the fixed code issued when the service runs in static
// mode. Test and development environments only.
const StaticOTPCode = "123456"

// OTPOptions configures the issuer. StaticCode is an explicit switch rather
// than anything read from the process environment, so behavior stays
// deterministic and testable.
type OTPOptions struct {
	CodeLength int
	Expiry     time.Duration
	StaticCode bool
}

// OTPService issues and verifies one-time codes. It holds no state between
// calls; every invariant lives in storage.
type OTPService struct {
	repo  repositories.OTPRepository
	clock utils.Clock
	opts  OTPOptions
}

func NewOTPService(repo repositories.OTPRepository, clock utils.Clock, opts OTPOptions) *OTPService {
	return &OTPService{repo: repo, clock: clock, opts: opts}
}

// Issue replaces any unused code for the phone number with a fresh one and
// returns it. The contract ends at "code persisted": delivery belongs to the
// caller.
func (s *OTPService) Issue(ctx context.Context, phone string) (string, error) {
	code := StaticOTPCode
	if !s.opts.StaticCode {
		var err error
		code, err = utils.GenerateOTPCode(s.opts.CodeLength)
		if err != nil {
			return "", err
		}
	}

	expiresAt := s.clock.Now().Add(s.opts.Expiry)
	if err := s.repo.Replace(ctx, phone, code, expiresAt); err != nil {
		return "", err
	}
	return code, nil
}

// Verify consumes a matching unused, unexpired code. Wrong, expired, already
// used and never issued all come back as a uniform false.
func (s *OTPService) Verify(ctx context.Context, phone, code string) (bool, error) {
	if len(code) != s.opts.CodeLength || !isDigits(code) {
		return false, nil
	}
	return s.repo.Consume(ctx, phone, code, s.clock.Now())
}

// CleanupExpired removes used and expired codes. Invoked explicitly, never
// on a timer.
func (s *OTPService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredAndUsed(ctx, s.clock.Now())
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
