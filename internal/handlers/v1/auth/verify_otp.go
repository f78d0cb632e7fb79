package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/finvault/dashboard-core/internal/logging"
	"github.com/finvault/dashboard-core/internal/otp"
)

// VerifyOTPBody is the request body for verifying a code.
type VerifyOTPBody struct {
	Code string `json:"code" required:"true" doc:"The 6-digit code"`
}

// VerifyOTPInput is the Huma input for verifying a code.
type VerifyOTPInput struct {
	Body VerifyOTPBody
}

// VerifyOTPResponseBody is the terminal routing after a verified code.
type VerifyOTPResponseBody struct {
	Route     string `json:"route" enum:"home,change_pin,reset_password" doc:"Screen to land on"`
	AccountID string `json:"accountID,omitempty" doc:"Carried to the PIN-change screen"`
	Email     string `json:"email,omitempty" doc:"Carried to the password-reset screen"`
}

// VerifyOTPOutput is the Huma output for verifying a code.
type VerifyOTPOutput struct {
	Body VerifyOTPResponseBody
}

// codeVerifier is the interface for verifying the active challenge.
type codeVerifier interface {
	Verify(ctx context.Context, code string) (otp.Outcome, error)
}

// VerifyOTPHandler handles POST /v1/otp/verify.
type VerifyOTPHandler struct {
	OTPService codeVerifier
}

// NewVerifyOTPHandler creates a new VerifyOTPHandler.
func NewVerifyOTPHandler(svc codeVerifier) *VerifyOTPHandler {
	return &VerifyOTPHandler{OTPService: svc}
}

// Register registers the verify endpoint with the Huma API.
func (h *VerifyOTPHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "verify-otp",
		Method:      http.MethodPost,
		Path:        "/v1/otp/verify",
		Summary:     "Verify OTP",
		Description: "Verifies the entered code against the active challenge and returns the landing route.",
		Tags:        []string{"Auth"},
	}, h.handle)
}

func (h *VerifyOTPHandler) handle(ctx context.Context, input *VerifyOTPInput) (*VerifyOTPOutput, error) {
	logData := logging.GetLogData(ctx)

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("verifyOTPMs")
	}
	outcome, err := h.OTPService.Verify(ctx, input.Body.Code)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, verifyError(err)
	}

	if logData != nil {
		logData.AddData("route", string(outcome.Route))
	}

	return &VerifyOTPOutput{Body: VerifyOTPResponseBody{
		Route:     string(outcome.Route),
		AccountID: outcome.AccountID,
		Email:     outcome.Email,
	}}, nil
}

// verifyError maps challenge errors to HTTP statuses. A missing challenge
// is a conflict with the screen flow, a rejected code is unauthorized, and
// everything local to digit entry is a plain bad request.
func verifyError(err error) error {
	switch {
	case errors.Is(err, otp.ErrMissingContext):
		return huma.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, otp.ErrInvalidOTP):
		return huma.NewError(http.StatusUnauthorized, err.Error())
	default:
		return huma.NewError(http.StatusBadRequest, err.Error())
	}
}
