package core

import (
	"fmt"
	"time"

	spotifyauth "github.com/zmb3/spotify/v2/auth"
)

const (
	// DefaultServerHost matches the loopback address the redirect URI points at
	DefaultServerHost = "127.0.0.1"
	// DefaultServerPort is the port the gateway listens on
	DefaultServerPort = 8000
	// DefaultRedirectURL is registered with the provider for the authorization-code flow
	DefaultRedirectURL = "http://localhost:8000/redirect"
	// DefaultAPIURL is the upstream Web API base; it must end with a slash
	DefaultAPIURL = "https://api.spotify.com/v1/"
	// DefaultUpstreamTimeout bounds every outbound call
	DefaultUpstreamTimeout = 10 * time.Second
	// DefaultServerTimeout is used for both read and write timeouts
	DefaultServerTimeout = 10 * time.Second
)

type Config struct {
	Spotify SpotifyConfig
	Server  ServerConfig
	Log     LogConfig
}

type SpotifyConfig struct {
	ClientID        string
	ClientSecret    string
	RedirectURL     string
	AuthURL         string
	TokenURL        string
	APIURL          string
	UpstreamTimeout time.Duration
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level string
}

func DefaultConfig() *Config {
	return &Config{
		Spotify: SpotifyConfig{
			RedirectURL:     DefaultRedirectURL,
			AuthURL:         spotifyauth.AuthURL,
			TokenURL:        spotifyauth.TokenURL,
			APIURL:          DefaultAPIURL,
			UpstreamTimeout: DefaultUpstreamTimeout,
		},
		Server: ServerConfig{
			Host:         DefaultServerHost,
			Port:         DefaultServerPort,
			ReadTimeout:  DefaultServerTimeout,
			WriteTimeout: DefaultServerTimeout,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate reports ErrConfiguration when the client credentials are absent.
func (c *Config) Validate() error {
	return c.Spotify.Validate()
}

func (c *SpotifyConfig) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("%w: client id is not set (ID)", ErrConfiguration)
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("%w: client secret is not set (SECRET)", ErrConfiguration)
	}
	if c.RedirectURL == "" {
		return fmt.Errorf("%w: redirect url is not set", ErrConfiguration)
	}
	return nil
}
