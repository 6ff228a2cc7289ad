package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/core/ports"
)

// AuthService implements the session endpoints and keeps Credentials in
// step with them.
type AuthService struct {
	api    ports.Requester
	creds  *Credentials
	legacy bool
	logger zerolog.Logger
}

// NewAuthService builds the service over a requester rooted at the API root.
// With legacyFallback set, login and registration retry the pre-/auth
// endpoints when the current ones answer 404.
func NewAuthService(api ports.Requester, creds *Credentials, legacyFallback bool, logger zerolog.Logger) *AuthService {
	return &AuthService{api: api, creds: creds, legacy: legacyFallback, logger: logger}
}

// Login exchanges credentials for a session and stores its tokens.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := s.post(ctx, "/auth/login", "/login", req, &resp); err != nil {
		return nil, err
	}
	if err := s.startSession(ctx, resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account. When the backend answers with a token the
// new session is stored as well.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := s.post(ctx, "/auth/register", "/signup", req, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken() == "" {
		return &resp, nil
	}
	if err := s.startSession(ctx, resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout ends the session. Stored tokens are cleared even when the backend
// call fails.
func (s *AuthService) Logout(ctx context.Context) error {
	if _, err := s.creds.AccessToken(ctx); err == nil {
		if err := s.api.Do(ctx, ports.Request{Method: http.MethodPost, Endpoint: "/auth/logout"}, nil); err != nil {
			s.logger.Warn().Err(err).Int("status", domain.StatusOf(err)).Msg("remote logout failed")
		}
	}
	return s.creds.Clear(ctx)
}

// Refresh exchanges the stored refresh token for a new access token. A
// rejected refresh token ends the session.
func (s *AuthService) Refresh(ctx context.Context) (string, error) {
	refresh, err := s.creds.RefreshToken(ctx)
	if errors.Is(err, domain.ErrTokenNotFound) {
		return "", domain.ErrNotAuthenticated
	}
	if err != nil {
		return "", err
	}

	var resp domain.RefreshResponse
	err = s.api.Do(ctx, ports.Request{
		Method:   http.MethodPost,
		Endpoint: "/auth/refresh",
		Body:     domain.RefreshRequest{Refresh: refresh},
	}, &resp)
	if err != nil {
		if domain.StatusOf(err) == http.StatusUnauthorized {
			if cerr := s.creds.Clear(ctx); cerr != nil {
				s.logger.Error().Err(cerr).Msg("failed to clear rejected session")
			}
		}
		return "", err
	}
	if err := s.creds.SetSession(ctx, resp.Access, resp.Refresh); err != nil {
		return "", err
	}
	return resp.Access, nil
}

// Me returns the authenticated user.
func (s *AuthService) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := s.api.Do(ctx, ports.Request{Endpoint: "/auth/me"}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
	var u domain.User
	err := s.api.Do(ctx, ports.Request{Method: http.MethodPatch, Endpoint: "/auth/profile", Body: update}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SessionExpiry reports when the stored access token expires. ok is false
// when the token is not a JWT or carries no exp claim.
func (s *AuthService) SessionExpiry(ctx context.Context) (exp time.Time, ok bool, err error) {
	token, err := s.creds.AccessToken(ctx)
	if errors.Is(err, domain.ErrTokenNotFound) {
		return time.Time{}, false, domain.ErrNotAuthenticated
	}
	if err != nil {
		return time.Time{}, false, err
	}
	exp, ok = TokenExpiry(token)
	return exp, ok, nil
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// The backend remains the authority on validity; this only lets callers skip
// requests that are bound to fail.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s *AuthService) startSession(ctx context.Context, resp domain.AuthResponse) error {
	access := resp.AccessToken()
	if access == "" {
		return &domain.APIError{
			Status:  http.StatusOK,
			Message: "invalid response: missing access token",
			Err:     fmt.Errorf("%w: missing access token", domain.ErrInvalidResponse),
		}
	}
	if err := s.creds.Clear(ctx); err != nil {
		return err
	}
	return s.creds.SetSession(ctx, access, resp.Refresh)
}

func (s *AuthService) post(ctx context.Context, endpoint, legacy string, body, out any) error {
	err := s.api.Do(ctx, ports.Request{Method: http.MethodPost, Endpoint: endpoint, Body: body}, out)
	if err == nil || !s.legacy || domain.StatusOf(err) != http.StatusNotFound {
		return err
	}
	s.logger.Warn().Str("endpoint", endpoint).Str("legacy", legacy).Msg("falling back to legacy auth endpoint")
	return s.api.Do(ctx, ports.Request{Method: http.MethodPost, Endpoint: legacy, Body: body}, out)
}
