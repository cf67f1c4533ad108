package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/raumania/storefront/client"
	"github.com/raumania/storefront/client/auth/transport"
)

const (
	LoginPath          = "/api/auth/login"
	RegisterPath       = "/api/auth/register"
	LogoutPath         = "/api/auth/logout"
	ForgotPasswordPath = "/api/auth/forgot-password"
	ResetPasswordPath  = "/api/auth/reset-password"
	MyInfoPath         = "/api/user/my-info"
)

var (
	// ErrInvalidCredentials is returned by Login on a 401.
	ErrInvalidCredentials = errors.New("wrong identifier or password")
	ErrPasswordMismatch   = errors.New("password and confirmation do not match")
)

// User is the authenticated account.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	FullName      string `json:"fullName,omitempty"`
	PhoneNumber   string `json:"phoneNumber,omitempty"`
	ImageURL      string `json:"imageUrl,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
	IsActive      bool   `json:"isActive"`
	Role          string `json:"role"`
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type credentials struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type messageResult struct {
	Message string `json:"message"`
}

// Service performs session operations.
type Service struct {
	client *client.Client
}

func New(cli *client.Client) *Service {
	return &Service{client: cli}
}

// Login opens a session and returns the logged-in user.
func (s *Service) Login(ctx context.Context, identifier, password string) (*User, error) {
	_, err := s.client.Post(transport.WithRetryMarker(ctx), LoginPath, &credentials{Identifier: identifier, Password: password})
	if err != nil {
		if client.IsStatus(err, http.StatusUnauthorized) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return nil, err
	}
	return s.MyInfo(ctx)
}

func (s *Service) Register(ctx context.Context, request *RegisterRequest) (*User, error) {
	if request.Password != request.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	resp, err := s.client.Post(transport.WithRetryMarker(ctx), RegisterPath, request)
	if err != nil {
		return nil, err
	}
	user, err := client.Result[User](resp)
	if errors.Is(err, client.ErrNoResult) {
		return &User{Username: request.Username, Email: request.Email}, nil
	}
	return user, err
}

// Logout closes the session. An expired access token is refreshed first, so the
// server can clear both cookies.
func (s *Service) Logout(ctx context.Context) error {
	_, err := s.client.Post(ctx, LogoutPath, nil)
	return err
}

// MyInfo returns the user owning the current session.
func (s *Service) MyInfo(ctx context.Context) (*User, error) {
	resp, err := s.client.Get(ctx, MyInfoPath, nil)
	if err != nil {
		return nil, err
	}
	return client.Result[User](resp)
}

// ForgotPassword asks for a reset link and returns the server message.
func (s *Service) ForgotPassword(ctx context.Context, email string) (string, error) {
	resp, err := s.client.Post(transport.WithRetryMarker(ctx), ForgotPasswordPath, map[string]string{"email": email})
	if err != nil {
		return "", err
	}
	return resultMessage(resp, "Reset password link sent to your email"), nil
}

func (s *Service) ResetPassword(ctx context.Context, request *ResetPasswordRequest) (string, error) {
	if request.Email == "" {
		return "", errors.New("email is required")
	}
	if request.Password != request.ConfirmPassword {
		return "", ErrPasswordMismatch
	}
	resp, err := s.client.Post(transport.WithRetryMarker(ctx), ResetPasswordPath, request)
	if err != nil {
		return "", err
	}
	return resultMessage(resp, "Password reset successful"), nil
}

func resultMessage(resp *client.Response, fallback string) string {
	result, err := client.Result[messageResult](resp)
	if err != nil || result.Message == "" {
		return fallback
	}
	return result.Message
}
