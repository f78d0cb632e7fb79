package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/finvault/dashboard-core/internal/logging"
	"github.com/finvault/dashboard-core/internal/session"
)

func createTestLogData() *logging.LogData {
	logger := logging.SetupLogging()
	return logging.NewLogData(logger)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()})
	signed, err := token.SignedString([]byte("test-secret"))
	assert.NoError(t, err)
	return signed
}

func TestHandler_NotAuthenticated(t *testing.T) {
	statusHandler := NewHandler(session.NewStore())
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()

	err := statusHandler.Handler(w, req, createTestLogData())
	assert.NoError(t, err)

	res := w.Result()
	assert.Equal(t, 200, res.StatusCode)

	var body statusBody
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.False(t, body.Authenticated)
}

func TestHandler_Authenticated(t *testing.T) {
	sessions := session.NewStore()
	sessions.Set(signedToken(t, time.Now().Add(time.Hour)), session.User{ID: "u1"})

	statusHandler := NewHandler(sessions)
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()

	err := statusHandler.Handler(w, req, createTestLogData())
	assert.NoError(t, err)

	var body statusBody
	assert.NoError(t, json.NewDecoder(w.Result().Body).Decode(&body))
	assert.True(t, body.Authenticated)
}

func TestHandler_BadMethod(t *testing.T) {
	statusHandler := NewHandler(session.NewStore())
	req := httptest.NewRequest(http.MethodPost, "/status", nil)
	w := httptest.NewRecorder()

	err := statusHandler.Handler(w, req, createTestLogData())
	assert.Error(t, err)

	res := w.Result()
	assert.Equal(t, 400, res.StatusCode)
}
