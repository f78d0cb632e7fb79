// Package backend is the authenticated REST client for the banking backend.
// The backend owns every security decision (PIN checks, balances, OTP
// validity); this client only moves requests and surfaces {detail} errors.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const maxBodySize = 1 << 20 // 1 MB

// APIError is a non-2xx backend response. Detail is the backend's
// human-readable reason and may be empty when the body carried none.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend: status %d", e.Status)
	}
	return fmt.Sprintf("backend: status %d: %s", e.Status, e.Detail)
}

// TokenSource supplies the bearer token for authenticated requests.
// session.Store satisfies this.
type TokenSource interface {
	Token() (string, error)
}

// Client talks to the banking backend over authenticated HTTP.
type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
}

// NewClient creates a client for the given base URL. tokens may be nil for
// the pre-login endpoints; authenticated calls then go out without a bearer.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: timeout},
	}
}

// ListBudgets fetches the budgets for the given period. Being a read, it is
// retried with exponential backoff on transient failures.
func (c *Client) ListBudgets(ctx context.Context, month, year int) ([]Budget, error) {
	query := url.Values{}
	query.Set("month", strconv.Itoa(month))
	query.Set("year", strconv.Itoa(year))

	var budgets []Budget
	op := func() error {
		body, err := c.get(ctx, "/budgets?"+query.Encode())
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
				return backoff.Permanent(err)
			}
			return err
		}
		if err := json.Unmarshal(body, &budgets); err != nil {
			return backoff.Permanent(fmt.Errorf("backend: parsing budgets: %w", err))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return budgets, nil
}

// CreateBudget creates a budget on the backend and returns the stored record.
func (c *Client) CreateBudget(ctx context.Context, create BudgetCreate) (*Budget, error) {
	body, err := c.post(ctx, "/budgets", create)
	if err != nil {
		return nil, err
	}
	var budget Budget
	if err := json.Unmarshal(body, &budget); err != nil {
		return nil, fmt.Errorf("backend: parsing budget: %w", err)
	}
	return &budget, nil
}

// UpdateBudget patches a budget's category or limit.
func (c *Client) UpdateBudget(ctx context.Context, id string, update BudgetUpdate) (*Budget, error) {
	body, err := c.do(ctx, http.MethodPatch, "/budgets/"+url.PathEscape(id), update)
	if err != nil {
		return nil, err
	}
	var budget Budget
	if err := json.Unmarshal(body, &budget); err != nil {
		return nil, fmt.Errorf("backend: parsing budget: %w", err)
	}
	return &budget, nil
}

// DeleteBudget removes a budget.
func (c *Client) DeleteBudget(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/budgets/"+url.PathEscape(id), nil)
	return err
}

// SubmitTransfer submits a transfer. Never retried: a timed-out submission
// may have been applied, and dedupe is the backend's job via request_id.
func (c *Client) SubmitTransfer(ctx context.Context, req TransferRequest) (*TransferResponse, error) {
	body, err := c.post(ctx, "/transfers", req)
	if err != nil {
		return nil, err
	}
	var receipt TransferResponse
	if err := json.Unmarshal(body, &receipt); err != nil {
		return nil, fmt.Errorf("backend: parsing transfer receipt: %w", err)
	}
	return &receipt, nil
}

// RequestOTP asks the backend to issue a password-reset OTP.
func (c *Client) RequestOTP(ctx context.Context, email string) error {
	_, err := c.post(ctx, "/auth/forgot-password", map[string]string{"email": email})
	return err
}

// VerifyOTP round-trips a code. Credentials come back only for login mode.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*VerifyOTPResponse, error) {
	body, err := c.post(ctx, "/auth/verify-otp", map[string]string{"email": email, "otp": otp})
	if err != nil {
		return nil, err
	}
	var resp VerifyOTPResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("backend: parsing verify response: %w", err)
	}
	return &resp, nil
}

// ResendLoginOTP re-issues the login OTP.
func (c *Client) ResendLoginOTP(ctx context.Context, email string) error {
	_, err := c.post(ctx, "/auth/resend-login-otp", map[string]string{"email": email})
	return err
}

// ResendPinOTP re-issues the PIN-change OTP.
func (c *Client) ResendPinOTP(ctx context.Context, email string) error {
	_, err := c.post(ctx, "/auth/resend-pin-otp", map[string]string{"email": email})
	return err
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, payload)
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("backend: encoding request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("backend: building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token, tokenErr := c.tokens.Token(); tokenErr == nil {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("backend: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Detail: decodeDetail(body)}
	}

	return body, nil
}

// decodeDetail pulls the human-readable {detail} out of an error body.
// Anything unparseable yields an empty detail.
func decodeDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return parsed.Detail
}
