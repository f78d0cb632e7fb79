package service

import (
	"context"
	"sync"
	"time"

	"github.com/finvault/dashboard-core/internal/otp"
	"github.com/finvault/dashboard-core/internal/session"
)

// OTPService owns the single active OTP challenge. The gateway is a
// single-user surface, so one challenge at a time matches the one OTP
// screen the original app can show.
type OTPService struct {
	mu       sync.Mutex
	verifier otp.Verifier
	sessions *session.Store
	clock    func() time.Time
	current  *otp.Challenge
}

// NewOTPService creates a new OTPService.
func NewOTPService(verifier otp.Verifier, sessions *session.Store, clock func() time.Time) *OTPService {
	return &OTPService{verifier: verifier, sessions: sessions, clock: clock}
}

// Begin starts a challenge, replacing any abandoned one.
func (s *OTPService) Begin(email string, mode otp.Mode, accountID string) error {
	challenge, err := otp.NewChallenge(s.verifier, s.sessions, email, mode, accountID, s.clock)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = challenge
	return nil
}

// Verify enters the submitted code into the active challenge and verifies
// it. Entering this operation without an active challenge mirrors opening
// the OTP screen without navigation context: otp.ErrMissingContext, which
// callers turn into a redirect to login. A verified challenge is consumed.
func (s *OTPService) Verify(ctx context.Context, code string) (otp.Outcome, error) {
	// the mutex covers the whole round: the challenge itself is not
	// goroutine safe, and two concurrent verifications must not interleave
	// digit entry on the shared buffer
	s.mu.Lock()
	defer s.mu.Unlock()

	challenge := s.current
	if challenge == nil {
		return otp.Outcome{}, otp.ErrMissingContext
	}

	if len(code) > otp.CodeLength {
		return otp.Outcome{}, otp.ErrInvalidPaste
	}
	// each gateway submission carries the full entry, so start from an
	// empty buffer rather than appending to a previous partial attempt
	for challenge.Cursor() > 0 {
		challenge.Backspace()
	}
	for i := 0; i < len(code); i++ {
		if err := challenge.EnterDigit(code[i]); err != nil {
			return otp.Outcome{}, err
		}
	}

	outcome, err := challenge.Verify(ctx)
	if err != nil {
		return otp.Outcome{}, err
	}

	s.current = nil
	return outcome, nil
}

// Resend re-issues the code for the active challenge.
func (s *OTPService) Resend(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return otp.ErrMissingContext
	}
	return s.current.Resend(ctx)
}

// ResendAvailableIn reports the remaining cooldown for the active
// challenge; zero with no active challenge.
func (s *OTPService) ResendAvailableIn() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return 0
	}
	return s.current.ResendAvailableIn()
}
