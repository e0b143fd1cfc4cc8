// Package client handles HTTP client functionality for the mangabook CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mangabook/pkg/listmap"
)

// TokenHeader matches the header the API expects on authenticated calls.
const TokenHeader = "x-auth-token"

// authTimeout bounds the auth endpoints only; list calls rely on the
// transport's defaults, matching the browser client's behavior.
const authTimeout = 30 * time.Second

// HTTPClient talks to the mangabook API server.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{},
	}
}

// SetToken installs the bearer token used on authenticated calls.
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// Auth request/response structures

type RegisterRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	SecurityWord string `json:"securityWord"`
}

type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

type ResetPasswordRequest struct {
	EmailOrUsername string `json:"emailOrUsername"`
	SecurityWord    string `json:"securityWord"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type UserResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	DisplayName string     `json:"displayName"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// APIError carries the server's error payload and status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

func (c *HTTPClient) Register(username, email, password, securityWord string) (*AuthResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
	defer cancel()

	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", RegisterRequest{
		Username:     username,
		Email:        email,
		Password:     password,
		SecurityWord: securityWord,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

func (c *HTTPClient) Login(emailOrUsername, password string) (*AuthResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
	defer cancel()

	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", LoginRequest{
		EmailOrUsername: emailOrUsername,
		Password:        password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

func (c *HTTPClient) Me() (*UserResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
	defer cancel()

	var resp struct {
		User UserResponse `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *HTTPClient) ResetPassword(emailOrUsername, securityWord, newPassword, confirmPassword string) error {
	ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
	defer cancel()

	return c.do(ctx, http.MethodPost, "/api/auth/reset-password", ResetPasswordRequest{
		EmailOrUsername: emailOrUsername,
		SecurityWord:    securityWord,
		NewPassword:     newPassword,
		ConfirmPassword: confirmPassword,
	}, nil)
}

// GetList fetches the whole category map.
func (c *HTTPClient) GetList(ctx context.Context) (*listmap.Map, error) {
	m := listmap.New()
	if err := c.do(ctx, http.MethodGet, "/api/list", nil, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ReplaceList pushes the whole category map and returns the normalized map
// the server persisted.
func (c *HTTPClient) ReplaceList(ctx context.Context, m *listmap.Map) (*listmap.Map, error) {
	normalized := listmap.New()
	if err := c.do(ctx, http.MethodPost, "/api/list", m, normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(TokenHeader, c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			if payload.Error != "" {
				apiErr.Message = payload.Error
			} else if payload.Message != "" {
				apiErr.Message = payload.Message
			}
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
