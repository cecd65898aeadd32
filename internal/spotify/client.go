// Package spotify issues playback commands and reads playback state on behalf of a caller-supplied access token.
package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"spotgate/internal/core"
)

// Client holds no per-user state: every call builds an upstream client bound
// to the token it was given.
type Client struct {
	config *core.SpotifyConfig
	logger *zap.Logger
}

func NewClient(config *core.SpotifyConfig, logger *zap.Logger) *Client {
	return &Client{
		config: config,
		logger: logger,
	}
}

// forToken returns an upstream client that sends token as the bearer credential.
func (c *Client) forToken(ctx context.Context, token string) *spotify.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	httpClient := oauth2.NewClient(ctx, src)

	opts := []spotify.ClientOption{}
	if c.config.APIURL != "" {
		opts = append(opts, spotify.WithBaseURL(c.config.APIURL))
	}
	return spotify.New(httpClient, opts...)
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.config.UpstreamTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.config.UpstreamTimeout)
}

// Profile forwards the upstream "me" call unchanged.
func (c *Client) Profile(ctx context.Context, token string) (*spotify.PrivateUser, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	user, err := c.forToken(ctx, token).CurrentUser(ctx)
	if err != nil {
		c.logger.Warn("Failed to get current user", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidToken, err)
	}

	c.logger.Debug("Fetched current user", zap.String("user", user.ID))
	return user, nil
}
