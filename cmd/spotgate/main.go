// Package main provides the spotgate CLI application entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"spotgate/internal/auth"
	"spotgate/internal/core"
	httpserver "spotgate/internal/http"
	"spotgate/internal/spotify"
)

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "spotgate",
	Short: "spotgate - Spotify playback gateway",
	Long: `spotgate lets a client application authenticate a user against Spotify with the
authorization-code flow and then read or start playback with the resulting access token.`,
	RunE: runSpotgate,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := core.DefaultConfig()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "env file (default is .env)")
	rootCmd.PersistentFlags().String("log-level", defaults.Log.Level, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("spotify-client-id", "", "Spotify client ID (env ID)")
	rootCmd.PersistentFlags().String("spotify-client-secret", "", "Spotify client secret (env SECRET)")
	rootCmd.PersistentFlags().String("spotify-redirect-url", defaults.Spotify.RedirectURL, "OAuth redirect URL")
	rootCmd.PersistentFlags().String("spotify-auth-url", defaults.Spotify.AuthURL, "Spotify accounts authorize endpoint")
	rootCmd.PersistentFlags().String("spotify-token-url", defaults.Spotify.TokenURL, "Spotify accounts token endpoint")
	rootCmd.PersistentFlags().String("spotify-api-url", defaults.Spotify.APIURL, "Spotify Web API base URL")
	rootCmd.PersistentFlags().Duration("upstream-timeout", defaults.Spotify.UpstreamTimeout, "Timeout for each upstream call")
	rootCmd.PersistentFlags().String("server-host", defaults.Server.Host, "HTTP server host")
	rootCmd.PersistentFlags().Int("server-port", defaults.Server.Port, "HTTP server port")
	rootCmd.PersistentFlags().Duration("server-read-timeout", defaults.Server.ReadTimeout, "HTTP server read timeout")
	rootCmd.PersistentFlags().Duration("server-write-timeout", defaults.Server.WriteTimeout, "HTTP server write timeout")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}

	// Credentials keep their historical bare names.
	if err := viper.BindEnv("spotify-client-id", "SPOTGATE_SPOTIFY_CLIENT_ID", "ID"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind env: %v\n", err)
		os.Exit(1)
	}
	if err := viper.BindEnv("spotify-client-secret", "SPOTGATE_SPOTIFY_CLIENT_SECRET", "SECRET"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind env: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	envFile := ".env"
	if cfgFile != "" {
		envFile = cfgFile
	}

	if err := gotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		}
	}

	viper.SetEnvPrefix("SPOTGATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	config = buildConfig()
	logger = buildLogger(config.Log.Level)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	configureSpotify(cfg)
	configureServer(cfg)
	cfg.Log.Level = viper.GetString("log-level")

	return cfg
}

func configureSpotify(cfg *core.Config) {
	cfg.Spotify.ClientID = viper.GetString("spotify-client-id")
	cfg.Spotify.ClientSecret = viper.GetString("spotify-client-secret")
	if url := viper.GetString("spotify-redirect-url"); url != "" {
		cfg.Spotify.RedirectURL = url
	}
	if url := viper.GetString("spotify-auth-url"); url != "" {
		cfg.Spotify.AuthURL = url
	}
	if url := viper.GetString("spotify-token-url"); url != "" {
		cfg.Spotify.TokenURL = url
	}
	if url := viper.GetString("spotify-api-url"); url != "" {
		if !strings.HasSuffix(url, "/") {
			url += "/"
		}
		cfg.Spotify.APIURL = url
	}
	if timeout := viper.GetDuration("upstream-timeout"); timeout > 0 {
		cfg.Spotify.UpstreamTimeout = timeout
	}
}

func configureServer(cfg *core.Config) {
	if host := viper.GetString("server-host"); host != "" {
		cfg.Server.Host = host
	}
	if port := viper.GetInt("server-port"); port > 0 {
		cfg.Server.Port = port
	}
	if timeout := viper.GetDuration("server-read-timeout"); timeout > 0 {
		cfg.Server.ReadTimeout = timeout
	}
	if timeout := viper.GetDuration("server-write-timeout"); timeout > 0 {
		cfg.Server.WriteTimeout = timeout
	}
}

func buildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	builtLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

func runSpotgate(_ *cobra.Command, _ []string) error {
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting spotgate",
		zap.String("redirect_url", config.Spotify.RedirectURL),
		zap.String("api_url", config.Spotify.APIURL),
		zap.Duration("upstream_timeout", config.Spotify.UpstreamTimeout))

	if err := config.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	flow, err := auth.NewFlow(&config.Spotify, logger.Named("auth"))
	if err != nil {
		return err
	}

	player := spotify.NewClient(&config.Spotify, logger.Named("spotify"))
	server := httpserver.NewServer(&config.Server, flow, player, logger.Named("http"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Service stopped with error", zap.Error(err))
		return err
	}

	logger.Info("spotgate stopped")
	return nil
}
