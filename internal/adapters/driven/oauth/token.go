// Package oauth provides token exchange against the Firebase Identity
// Toolkit (password sign-in) and Secure Token (refresh) endpoints.
package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Default endpoints.
const (
	DefaultIdentityToolkitURL = "https://identitytoolkit.googleapis.com/v1"
	DefaultSecureTokenURL     = "https://securetoken.googleapis.com/v1"
)

// ErrInvalidCredentials indicates the email or password was rejected.
var ErrInvalidCredentials = errors.New("invalid email or password")

// TokenResponse holds the tokens returned by sign-in or refresh.
type TokenResponse struct {
	UserID       string
	Email        string
	IDToken      string
	RefreshToken string
	Expiry       time.Time
}

// APIError is an error reported by a Google token endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("token endpoint error %d: %s", e.StatusCode, e.Message)
}

// Exchanger talks to the token endpoints for one Firebase project.
type Exchanger struct {
	APIKey             string
	IdentityToolkitURL string
	SecureTokenURL     string
	Client             *http.Client
}

// NewExchanger creates an exchanger with the default endpoints.
func NewExchanger(apiKey string) *Exchanger {
	return &Exchanger{
		APIKey:             apiKey,
		IdentityToolkitURL: DefaultIdentityToolkitURL,
		SecureTokenURL:     DefaultSecureTokenURL,
		Client:             &http.Client{Timeout: 30 * time.Second},
	}
}

// signInResponse is the accounts:signInWithPassword response.
type signInResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

// refreshResponse is the Secure Token refresh response.
type refreshResponse struct {
	UserID       string `json:"user_id"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
}

// SignInWithPassword exchanges email and password for tokens.
func (e *Exchanger) SignInWithPassword(ctx context.Context, email, password string) (*TokenResponse, error) {
	payload, err := json.Marshal(map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, fmt.Errorf("encode sign-in request: %w", err)
	}

	endpoint := e.IdentityToolkitURL + "/accounts:signInWithPassword?key=" + url.QueryEscape(e.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp signInResponse
	if err := e.send(req, &resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && isCredentialError(apiErr.Message) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, apiErr.Message)
		}
		return nil, err
	}
	if resp.IDToken == "" || resp.LocalID == "" {
		return nil, fmt.Errorf("sign-in response missing idToken or localId")
	}

	return &TokenResponse{
		UserID:       resp.LocalID,
		Email:        resp.Email,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		Expiry:       expiryFrom(resp.ExpiresIn),
	}, nil
}

// Refresh exchanges a refresh token for a new ID token.
func (e *Exchanger) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)

	endpoint := e.SecureTokenURL + "/token?key=" + url.QueryEscape(e.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp refreshResponse
	if err := e.send(req, &resp); err != nil {
		return nil, err
	}
	if resp.IDToken == "" {
		return nil, fmt.Errorf("refresh response missing id_token")
	}

	return &TokenResponse{
		UserID:       resp.UserID,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		Expiry:       expiryFrom(resp.ExpiresIn),
	}, nil
}

func (e *Exchanger) send(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	client := e.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error.Message}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	return nil
}

// expiryFrom converts an expires-in seconds string into an absolute time.
func expiryFrom(expiresIn string) time.Time {
	secs, err := strconv.Atoi(expiresIn)
	if err != nil || secs <= 0 {
		return time.Time{}
	}
	return time.Now().Add(time.Duration(secs) * time.Second)
}

func isCredentialError(message string) bool {
	for _, code := range []string{"INVALID_PASSWORD", "EMAIL_NOT_FOUND", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL"} {
		if strings.HasPrefix(message, code) {
			return true
		}
	}
	return false
}
