package main

import (
	"context"
	"os"
	"time"

	"github.com/desertthunder/radar/internal/cache"
	"github.com/desertthunder/radar/internal/services"
	"github.com/desertthunder/radar/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	store := cache.NewStore(config.Cache.Dir, logger)

	opts := RunnerOpts{
		Config: config,
		Store:  store,
		Logger: logger,
	}

	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if oauthConfig, err := services.NewOAuthConfig(config.Credentials.Spotify.Map()); err == nil {
			provider := services.NewCachedTokenProvider(oauthConfig, store, logger)
			retry := services.NewRetryPolicy(
				provider,
				config.Radar.RetryBudget,
				time.Duration(config.Radar.InitialBackoffMs)*time.Millisecond,
				logger,
			)

			catalog, err := services.NewSpotifyService(services.SpotifyOpts{
				Provider:  provider,
				Retry:     retry,
				PageSize:  config.Radar.PageSize,
				RateLimit: config.Radar.RateLimit,
				Logger:    logger,
			})
			if err == nil {
				opts.Catalog = catalog
			}
			opts.OAuth = oauthConfig
		}
	}

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "radar",
		Usage:    "A better release radar for artists you follow on Spotify",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, scanCommand, cacheCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}
