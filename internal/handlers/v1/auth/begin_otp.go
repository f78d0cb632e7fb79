package auth

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/finvault/dashboard-core/internal/otp"
)

// BeginOTPBody is the request body for starting an OTP challenge.
type BeginOTPBody struct {
	Email     string `json:"email" required:"true" format:"email" doc:"Account email the code is sent to"`
	Mode      string `json:"mode" required:"true" enum:"login,change_pin,reset_password" doc:"What a verified code unlocks"`
	AccountID string `json:"accountID,omitempty" doc:"Target account, required for change_pin"`
}

// BeginOTPInput is the Huma input for starting an OTP challenge.
type BeginOTPInput struct {
	Body BeginOTPBody
}

// BeginOTPOutput is the Huma output for starting an OTP challenge.
type BeginOTPOutput struct {
	Status int `json:"status" doc:"HTTP status"`
}

// challengeStarter is the interface for opening an OTP challenge.
type challengeStarter interface {
	Begin(email string, mode otp.Mode, accountID string) error
}

// BeginOTPHandler handles POST /v1/otp/begin.
type BeginOTPHandler struct {
	OTPService challengeStarter
}

// NewBeginOTPHandler creates a new BeginOTPHandler.
func NewBeginOTPHandler(svc challengeStarter) *BeginOTPHandler {
	return &BeginOTPHandler{OTPService: svc}
}

// Register registers the begin endpoint with the Huma API.
func (h *BeginOTPHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "begin-otp",
		Method:      http.MethodPost,
		Path:        "/v1/otp/begin",
		Summary:     "Begin OTP challenge",
		Description: "Opens an OTP challenge for the given email and mode, replacing any abandoned one.",
		Tags:        []string{"Auth"},
	}, h.handle)
}

func (h *BeginOTPHandler) handle(ctx context.Context, input *BeginOTPInput) (*BeginOTPOutput, error) {
	if err := h.OTPService.Begin(input.Body.Email, otp.Mode(input.Body.Mode), input.Body.AccountID); err != nil {
		return nil, huma.NewError(http.StatusBadRequest, err.Error())
	}
	return &BeginOTPOutput{Status: http.StatusOK}, nil
}
