package status

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/finvault/dashboard-core/internal/logging"
	"github.com/finvault/dashboard-core/internal/session"
)

type statusBody struct {
	Status        string `json:"status"`
	Authenticated bool   `json:"authenticated"`
}

// Handler answers GET /status with gateway liveness and whether a live
// backend session is held.
type Handler struct {
	Sessions *session.Store
	Now      func() time.Time
}

func NewHandler(sessions *session.Store) Handler {
	return Handler{Sessions: sessions, Now: time.Now}
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != "GET" {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	authenticated := false
	if h.Sessions != nil {
		authenticated = !h.Sessions.Expired(h.Now())
	}
	logData.AddData("authenticated", authenticated)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(statusBody{Status: "ok", Authenticated: authenticated})
}
