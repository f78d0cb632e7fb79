// Package otp gates login completion, PIN changes, and password resets
// behind a 6-digit code round-tripped through the backend. The client never
// judges code correctness itself.
package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finvault/dashboard-core/internal/backend"
	"github.com/finvault/dashboard-core/internal/session"
)

// CodeLength is the exact number of digits a code carries.
const CodeLength = 6

// ResendCooldown is the fixed window during which resend stays disabled,
// armed at challenge creation and re-armed on every resend.
const ResendCooldown = 60 * time.Second

var (
	// ErrMissingContext: the screen was entered without email or mode; the
	// caller must redirect to login, there is no independent entry point.
	ErrMissingContext = errors.New("otp: missing email or mode")
	// ErrIncompleteCode: fewer than 6 digits entered; rejected locally,
	// the backend is never called.
	ErrIncompleteCode = errors.New("otp: enter all 6 digits")
	// ErrInvalidOTP: the backend rejected the code.
	ErrInvalidOTP = errors.New("Invalid or expired OTP")
	// ErrResendCooldown: resend requested inside the cooldown window.
	ErrResendCooldown    = errors.New("otp: resend not available yet")
	ErrInvalidTransition = errors.New("otp: invalid transition")
	ErrInvalidPaste      = errors.New("otp: pasted value is not a 6-digit code")
	ErrNotADigit         = errors.New("otp: only digits are accepted")
)

// Mode determines the terminal action after verification.
type Mode string

const (
	ModeLogin         Mode = "login"
	ModeChangePIN     Mode = "change_pin"
	ModeResetPassword Mode = "reset_password"
)

// State is the challenge's current step.
type State string

const (
	StateAwaitingCode State = "awaiting_code"
	StateVerifying    State = "verifying"
	StateVerified     State = "verified"
)

// Route names the screen the terminal dispatch lands on.
type Route string

const (
	RouteHome          Route = "home"
	RouteChangePIN     Route = "change_pin"
	RouteResetPassword Route = "reset_password"
)

// Outcome is the terminal routing decision after a successful verification.
type Outcome struct {
	Route Route
	// AccountID is carried to the PIN-change screen for ModeChangePIN.
	AccountID string
	// Email is carried to the password-reset screen for ModeResetPassword.
	Email string
}

// Verifier is the backend surface the challenge needs. backend.Client
// satisfies this.
type Verifier interface {
	VerifyOTP(ctx context.Context, email, otp string) (*backend.VerifyOTPResponse, error)
	RequestOTP(ctx context.Context, email string) error
	ResendLoginOTP(ctx context.Context, email string) error
	ResendPinOTP(ctx context.Context, email string) error
}

// Challenge is one OTP round: digit capture, verification, terminal routing.
// Discarded on navigation away; successful verification is terminal.
type Challenge struct {
	email     string
	mode      Mode
	accountID string

	state  State
	digits []byte

	backend  Verifier
	sessions *session.Store
	clock    func() time.Time

	resendArmedAt time.Time
}

// NewChallenge starts a challenge. Missing email or an unknown mode is
// ErrMissingContext. accountID is required only for ModeChangePIN. A nil
// clock uses time.Now.
func NewChallenge(verifier Verifier, sessions *session.Store, email string, mode Mode, accountID string, clock func() time.Time) (*Challenge, error) {
	if email == "" {
		return nil, ErrMissingContext
	}
	switch mode {
	case ModeLogin, ModeChangePIN, ModeResetPassword:
	default:
		return nil, ErrMissingContext
	}
	if clock == nil {
		clock = time.Now
	}

	return &Challenge{
		email:         email,
		mode:          mode,
		accountID:     accountID,
		state:         StateAwaitingCode,
		backend:       verifier,
		sessions:      sessions,
		clock:         clock,
		resendArmedAt: clock(),
	}, nil
}

func (c *Challenge) State() State { return c.state }
func (c *Challenge) Mode() Mode   { return c.mode }
func (c *Challenge) Email() string { return c.email }

// Code returns the digits entered so far.
func (c *Challenge) Code() string { return string(c.digits) }

// Cursor is the index of the field that has focus: digits entered so far.
func (c *Challenge) Cursor() int { return len(c.digits) }

// Complete reports whether all 6 digits are present.
func (c *Challenge) Complete() bool { return len(c.digits) == CodeLength }

// EnterDigit appends one digit, advancing focus. Input beyond the sixth
// digit is dropped silently, as a filled field ignores further keystrokes.
func (c *Challenge) EnterDigit(d byte) error {
	if d < '0' || d > '9' {
		return ErrNotADigit
	}
	if len(c.digits) < CodeLength {
		c.digits = append(c.digits, d)
	}
	return nil
}

// Backspace clears the last digit, moving focus to the previous field.
func (c *Challenge) Backspace() {
	if len(c.digits) > 0 {
		c.digits = c.digits[:len(c.digits)-1]
	}
}

// Paste replaces the buffer with a full pasted code.
func (c *Challenge) Paste(code string) error {
	if len(code) != CodeLength {
		return ErrInvalidPaste
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return ErrInvalidPaste
		}
	}
	c.digits = []byte(code)
	return nil
}

// Verify round-trips the entered code. A short code is rejected locally and
// the backend is not called. On backend rejection the digits are cleared,
// focus returns to the first field, and the state goes back to AwaitingCode.
// On success the challenge is terminal and the outcome routes by mode.
func (c *Challenge) Verify(ctx context.Context) (Outcome, error) {
	if c.state != StateAwaitingCode {
		return Outcome{}, fmt.Errorf("%w: verify from %s", ErrInvalidTransition, c.state)
	}
	if !c.Complete() {
		return Outcome{}, ErrIncompleteCode
	}

	c.state = StateVerifying
	resp, err := c.backend.VerifyOTP(ctx, c.email, c.Code())
	if err != nil {
		c.digits = nil
		c.state = StateAwaitingCode
		return Outcome{}, fmt.Errorf("%w: %v", ErrInvalidOTP, err)
	}

	c.state = StateVerified
	return c.dispatch(resp), nil
}

func (c *Challenge) dispatch(resp *backend.VerifyOTPResponse) Outcome {
	switch c.mode {
	case ModeChangePIN:
		return Outcome{Route: RouteChangePIN, AccountID: c.accountID}
	case ModeResetPassword:
		return Outcome{Route: RouteResetPassword, Email: c.email}
	default: // ModeLogin
		if c.sessions != nil && resp != nil && resp.AccessToken != "" {
			user := session.User{}
			if resp.User != nil {
				user = session.User{ID: resp.User.ID, Email: resp.User.Email, Name: resp.User.Name}
			}
			c.sessions.Set(resp.AccessToken, user)
		}
		return Outcome{Route: RouteHome}
	}
}

// ResendAvailableIn returns how long until resend is allowed; zero when it
// already is.
func (c *Challenge) ResendAvailableIn() time.Duration {
	remaining := ResendCooldown - c.clock().Sub(c.resendArmedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Resend re-issues the code through the mode's endpoint. Inside the cooldown
// window it fails without a backend call. A successful resend re-arms the
// window and clears any entered digits.
func (c *Challenge) Resend(ctx context.Context) error {
	if c.state != StateAwaitingCode {
		return fmt.Errorf("%w: resend from %s", ErrInvalidTransition, c.state)
	}
	if c.ResendAvailableIn() > 0 {
		return ErrResendCooldown
	}

	var err error
	switch c.mode {
	case ModeLogin:
		err = c.backend.ResendLoginOTP(ctx, c.email)
	case ModeChangePIN:
		err = c.backend.ResendPinOTP(ctx, c.email)
	case ModeResetPassword:
		err = c.backend.RequestOTP(ctx, c.email)
	}
	if err != nil {
		return fmt.Errorf("otp: resend: %w", err)
	}

	c.resendArmedAt = c.clock()
	c.digits = nil
	return nil
}
