package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/core/ports"
)

// Token store keys.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	// Deprecated: KeyLegacyToken is read once and migrated to KeyAccessToken.
	KeyLegacyToken = "authToken"
)

// Credentials persists the session tokens. It is the token source of the
// REST client, so the access token is read from the store on every request.
type Credentials struct {
	store  ports.TokenStore
	logger zerolog.Logger
}

func NewCredentials(store ports.TokenStore, logger zerolog.Logger) *Credentials {
	return &Credentials{store: store, logger: logger}
}

// AccessToken returns the stored access token or domain.ErrTokenNotFound.
// A token found only under the legacy key is moved to the current key.
func (c *Credentials) AccessToken(ctx context.Context) (string, error) {
	token, err := c.store.Get(ctx, KeyAccessToken)
	if !errors.Is(err, domain.ErrTokenNotFound) {
		return token, err
	}

	legacy, lerr := c.store.Get(ctx, KeyLegacyToken)
	if lerr != nil {
		return "", lerr
	}
	if err := c.store.Set(ctx, KeyAccessToken, legacy); err != nil {
		return "", err
	}
	if err := c.store.Delete(ctx, KeyLegacyToken); err != nil {
		c.logger.Warn().Err(err).Msg("could not remove legacy token key")
	}
	c.logger.Warn().Str("from", KeyLegacyToken).Str("to", KeyAccessToken).Msg("migrated legacy token key")
	return legacy, nil
}

// RefreshToken returns the stored refresh token or domain.ErrTokenNotFound.
func (c *Credentials) RefreshToken(ctx context.Context) (string, error) {
	return c.store.Get(ctx, KeyRefreshToken)
}

// SetSession stores a new access token. The refresh token is only replaced
// when one is given.
func (c *Credentials) SetSession(ctx context.Context, access, refresh string) error {
	if access == "" {
		return domain.ErrNotAuthenticated
	}
	if err := c.store.Set(ctx, KeyAccessToken, access); err != nil {
		return err
	}
	if refresh != "" {
		return c.store.Set(ctx, KeyRefreshToken, refresh)
	}
	return nil
}

// Clear removes every session key, including the legacy one.
func (c *Credentials) Clear(ctx context.Context) error {
	var errs []error
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyLegacyToken} {
		if err := c.store.Delete(ctx, key); err != nil && !errors.Is(err, domain.ErrTokenNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
