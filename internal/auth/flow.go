// Package auth builds the authorization-code flow against the Spotify accounts service
// and extracts caller-supplied bearer tokens.
package auth

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"spotgate/internal/core"
)

// ScopeAppRemoteControl is not exported by spotifyauth.
const ScopeAppRemoteControl = "app-remote-control"

// Scopes requested on every authorization.
var Scopes = []string{
	ScopeAppRemoteControl,
	spotifyauth.ScopeStreaming,
	spotifyauth.ScopeUserReadPlaybackState,
	spotifyauth.ScopeUserModifyPlaybackState,
	spotifyauth.ScopeUserReadCurrentlyPlaying,
}

// Flow is immutable after construction and safe for concurrent use.
type Flow struct {
	oauth  *oauth2.Config
	logger *zap.Logger
}

// NewFlow fails with core.ErrConfiguration when the client credentials are missing.
func NewFlow(config *core.SpotifyConfig, logger *zap.Logger) (*Flow, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	authURL := config.AuthURL
	if authURL == "" {
		authURL = spotifyauth.AuthURL
	}
	tokenURL := config.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}

	return &Flow{
		oauth: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       append([]string(nil), Scopes...),
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		logger: logger,
	}, nil
}

// AuthorizeURL returns the URL the user visits to grant consent.
func (f *Flow) AuthorizeURL() string {
	return f.oauth.AuthCodeURL(uuid.NewString())
}

// ParseCode extracts the authorization code from a redirect URL.
func ParseCode(redirectURL string) (string, error) {
	if redirectURL == "" {
		return "", fmt.Errorf("%w: empty redirect url", core.ErrMissingCode)
	}

	u, err := url.Parse(redirectURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrMissingCode, err)
	}

	query := u.Query()
	if reason := query.Get("error"); reason != "" {
		return "", fmt.Errorf("%w: authorization denied: %s", core.ErrMissingCode, reason)
	}

	code := query.Get("code")
	if code == "" {
		return "", fmt.Errorf("%w: no code parameter", core.ErrMissingCode)
	}

	return code, nil
}

// Exchange parses the code out of redirectURL and trades it for an access token.
// Only the access token is returned; refresh tokens and expiry are discarded.
func (f *Flow) Exchange(ctx context.Context, redirectURL string) (string, error) {
	code, err := ParseCode(redirectURL)
	if err != nil {
		f.logger.Debug("Redirect URL rejected", zap.Error(err))
		return "", err
	}

	token, err := f.oauth.Exchange(ctx, code)
	if err != nil {
		f.logger.Warn("Failed to exchange authorization code", zap.Error(err))
		return "", fmt.Errorf("%w: %w", core.ErrExchangeFailed, err)
	}

	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", core.ErrExchangeFailed)
	}

	f.logger.Info("Authorization code exchanged")
	return token.AccessToken, nil
}
