package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/finvault/dashboard-core/internal/session"
)

// SessionResponseBody is the current session's profile.
type SessionResponseBody struct {
	UserID  string `json:"userID" doc:"Backend user ID"`
	Email   string `json:"email" doc:"Account email"`
	Name    string `json:"name" doc:"Display name"`
	Expired bool   `json:"expired" doc:"Whether the access token has expired"`
}

// GetSessionOutput is the Huma output for reading the session.
type GetSessionOutput struct {
	Body SessionResponseBody
}

// ClearSessionOutput is the Huma output for logging out.
type ClearSessionOutput struct {
	Status int `json:"status" doc:"HTTP status"`
}

// SessionHandler handles /v1/session.
type SessionHandler struct {
	Sessions *session.Store
	Now      func() time.Time
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *session.Store) *SessionHandler {
	return &SessionHandler{Sessions: sessions, Now: time.Now}
}

// Register registers the session endpoints with the Huma API.
func (h *SessionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/v1/session",
		Summary:     "Current session",
		Description: "Returns the logged-in user's profile and token expiry state.",
		Tags:        []string{"Auth"},
	}, h.get)
	huma.Register(api, huma.Operation{
		OperationID: "clear-session",
		Method:      http.MethodDelete,
		Path:        "/v1/session",
		Summary:     "Log out",
		Description: "Clears the held session.",
		Tags:        []string{"Auth"},
	}, h.clear)
}

func (h *SessionHandler) get(ctx context.Context, _ *struct{}) (*GetSessionOutput, error) {
	user, err := h.Sessions.User()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, huma.NewError(http.StatusUnauthorized, "not logged in")
		}
		return nil, huma.NewError(http.StatusInternalServerError, "failed to read session", err)
	}

	return &GetSessionOutput{Body: SessionResponseBody{
		UserID:  user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Expired: h.Sessions.Expired(h.Now()),
	}}, nil
}

func (h *SessionHandler) clear(ctx context.Context, _ *struct{}) (*ClearSessionOutput, error) {
	h.Sessions.Clear()
	return &ClearSessionOutput{Status: http.StatusOK}, nil
}
