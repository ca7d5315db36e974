package services

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/radar/internal/cache"
	"github.com/desertthunder/radar/internal/shared"
	"golang.org/x/oauth2"
)

// CachedTokenProvider implements [TokenProvider] over the cache store.
//
// Access tokens are read from the persisted record; Refresh runs the OAuth2
// refresh grant and writes the result back. A refreshed access token keeps
// the stored refresh token unless the service issued a new one.
type CachedTokenProvider struct {
	config *oauth2.Config
	store  *cache.Store
	logger *log.Logger
	now    func() time.Time
}

// NewCachedTokenProvider creates a provider backed by the given OAuth2
// config and cache store.
func NewCachedTokenProvider(config *oauth2.Config, store *cache.Store, logger *log.Logger) *CachedTokenProvider {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CachedTokenProvider{
		config: config,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Token returns the persisted access token, refreshing first when the
// record is already past its expiry.
func (p *CachedTokenProvider) Token(ctx context.Context) (string, error) {
	record, ok, err := p.store.LoadToken()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: run `radar auth` first", shared.ErrNotAuthenticated)
	}

	if record.Expired(p.now()) {
		return p.Refresh(ctx)
	}

	return record.AccessToken, nil
}

// Refresh exchanges the stored refresh token for a new access token and
// persists the updated record.
func (p *CachedTokenProvider) Refresh(ctx context.Context) (string, error) {
	record, ok, err := p.store.LoadToken()
	if err != nil {
		return "", err
	}
	if !ok || record.RefreshToken == "" {
		return "", fmt.Errorf("%w: reauthorize with `radar auth`", shared.ErrNoRefreshToken)
	}

	source := p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: record.RefreshToken})
	token, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	refreshed := TokenToRecord(token)
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = record.RefreshToken
	}

	if err := p.store.SaveToken(refreshed); err != nil {
		return "", err
	}

	p.logger.Info("access token refreshed")
	return refreshed.AccessToken, nil
}
