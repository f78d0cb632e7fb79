package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/finvault/dashboard-core/internal/otp"
)

// ResendOTPResponseBody reports the cooldown state after a resend attempt.
type ResendOTPResponseBody struct {
	RetryAfterSeconds int `json:"retryAfterSeconds" doc:"Seconds until the next resend is allowed"`
}

// ResendOTPOutput is the Huma output for resending a code.
type ResendOTPOutput struct {
	Body ResendOTPResponseBody
}

// codeResender is the interface for re-issuing the active challenge's code.
type codeResender interface {
	Resend(ctx context.Context) error
	ResendAvailableIn() time.Duration
}

// ResendOTPHandler handles POST /v1/otp/resend.
type ResendOTPHandler struct {
	OTPService codeResender
}

// NewResendOTPHandler creates a new ResendOTPHandler.
func NewResendOTPHandler(svc codeResender) *ResendOTPHandler {
	return &ResendOTPHandler{OTPService: svc}
}

// Register registers the resend endpoint with the Huma API.
func (h *ResendOTPHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "resend-otp",
		Method:      http.MethodPost,
		Path:        "/v1/otp/resend",
		Summary:     "Resend OTP",
		Description: "Re-issues the active challenge's code once the cooldown has passed.",
		Tags:        []string{"Auth"},
	}, h.handle)
}

func (h *ResendOTPHandler) handle(ctx context.Context, _ *struct{}) (*ResendOTPOutput, error) {
	err := h.OTPService.Resend(ctx)
	switch {
	case err == nil:
	case errors.Is(err, otp.ErrMissingContext):
		return nil, huma.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, otp.ErrResendCooldown):
		return nil, huma.NewError(http.StatusTooManyRequests, err.Error())
	default:
		return nil, huma.NewError(http.StatusBadGateway, err.Error())
	}

	retryAfter := int(h.OTPService.ResendAvailableIn() / time.Second)
	return &ResendOTPOutput{Body: ResendOTPResponseBody{RetryAfterSeconds: retryAfter}}, nil
}
