package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/echoenglish/echoenglish-cli/internal/client/models"
	"github.com/echoenglish/echoenglish-cli/internal/logging"
)

// HTTPClient implements Client over a single configured *http.Client.
//
// A bearer token is attached to outgoing requests whenever the token source
// yields one. On a 401 the registered unauthorized hook runs before the call
// returns ErrUnauthorized to its caller, so the session can be torn down in
// one place regardless of which operation tripped it.
type HTTPClient struct {
	baseURL        string
	http           *http.Client
	log            logging.Logger
	tokenFn        func() string
	onUnauthorized func()
}

// NewHTTPClient constructs a gateway for the given backend base URL.
// The timeout bounds every request end to end.
func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log.With("component", "api"),
	}
}

// SetTokenSource registers the function the gateway calls per request to
// obtain the current bearer token. An empty result means no header is sent.
func (c *HTTPClient) SetTokenSource(fn func() string) {
	c.tokenFn = fn
}

// SetUnauthorizedHook registers the callback fired on every 401 response.
func (c *HTTPClient) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// errorBody is the error shape the backend returns on rejections.
// Some endpoints use "message", older ones "error".
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

const fallbackErrorMessage = "An error occurred"

func backendMessage(data []byte) string {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil {
		if eb.Message != "" {
			return eb.Message
		}
		if eb.Error != "" {
			return eb.Error
		}
	}
	return fallbackErrorMessage
}

// send performs one request attempt and returns the raw response body on 2xx.
func (c *HTTPClient) send(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)
	if c.tokenFn != nil {
		if token := c.tokenFn(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "id", reqID, "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	c.log.Debug(ctx, "request finished",
		"id", reqID, "method", method, "path", path,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: backendMessage(data)}
	}

	return data, nil
}

// Success payloads for login and profile calls arrive wrapped in a "data"
// envelope; OTP-flow endpoints answer with a bare message body.
type loginEnvelope struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

type profileEnvelope struct {
	Data models.UserProfile `json:"data"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	raw, err := c.send(ctx, http.MethodPost, "/auth/login", body)
	if err != nil {
		return "", err
	}
	var env loginEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("decoding login response: %w", err)
	}
	if env.Data.Token == "" {
		return "", fmt.Errorf("decoding login response: empty token")
	}
	return env.Data.Token, nil
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) error {
	_, err := c.send(ctx, http.MethodPost, "/auth/register", req)
	return err
}

func (c *HTTPClient) VerifyRegisterOtp(ctx context.Context, email, otp string) error {
	body := map[string]string{"email": email, "otp": otp}
	_, err := c.send(ctx, http.MethodPost, "/auth/verify-register-otp", body)
	return err
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	_, err := c.send(ctx, http.MethodPost, "/auth/forgot-password", body)
	return err
}

func (c *HTTPClient) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	body := map[string]string{"email": email, "otp": otp, "newPassword": newPassword}
	_, err := c.send(ctx, http.MethodPost, "/auth/reset-password", body)
	return err
}

func (c *HTTPClient) MyInfo(ctx context.Context) (*models.UserProfile, error) {
	raw, err := c.send(ctx, http.MethodGet, "/auth/myInfo", nil)
	if err != nil {
		return nil, err
	}
	var env profileEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding profile response: %w", err)
	}
	return &env.Data, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.UserProfile, error) {
	raw, err := c.send(ctx, http.MethodPut, "/auth/updateProfile", update)
	if err != nil {
		return nil, err
	}
	var env profileEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding profile response: %w", err)
	}
	return &env.Data, nil
}
