package apiclient

import (
	"context"
	"fmt"
)

// AuthClient calls the authentication endpoints.
type AuthClient struct {
	client *Client
}

// NewAuthClient creates an AuthClient on top of the shared transport.
func NewAuthClient(client *Client) *AuthClient {
	return &AuthClient{client: client}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates a new account and returns the issued bearer token.
func (a *AuthClient) Register(ctx context.Context, email, password string) (string, error) {
	return a.requestToken(ctx, "/api/auth/register", credentials{Email: email, Password: password})
}

// Login exchanges credentials for a bearer token.
func (a *AuthClient) Login(ctx context.Context, email, password string) (string, error) {
	return a.requestToken(ctx, "/api/auth/login", credentials{Email: email, Password: password})
}

// ForgotPassword requests a password-reset email and returns the server's
// confirmation message, which may be empty.
func (a *AuthClient) ForgotPassword(ctx context.Context, email string) (string, error) {
	var ok messageResponse
	resp, err := a.client.R(ctx).
		SetBody(emailRequest{Email: email}).
		SetResult(&ok).
		Post("/api/auth/forgot-password")
	if err != nil {
		return "", fmt.Errorf("apiclient: forgot-password request: %w", err)
	}
	if resp.IsError() {
		return "", errorFromResponse(resp)
	}
	return ok.Message, nil
}

func (a *AuthClient) requestToken(ctx context.Context, path string, body credentials) (string, error) {
	var ok tokenResponse
	resp, err := a.client.R(ctx).
		SetBody(body).
		SetResult(&ok).
		Post(path)
	if err != nil {
		return "", fmt.Errorf("apiclient: auth request: %w", err)
	}
	if resp.IsError() {
		return "", errorFromResponse(resp)
	}
	if ok.Token == "" {
		return "", ErrNoToken
	}
	return ok.Token, nil
}
