// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// scanCommand runs a full catalog sync and prints the release feed
func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "scan",
		Aliases: []string{"sync"},
		Usage:   "Fetch recent releases from artists you follow",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:  "max-age-days",
				Usage: "Maximum age of releases to display in days",
				Value: 60,
			},
			&cli.StringFlag{
				Name:  "region",
				Usage: "Required market for releases (empty disables the check)",
				Value: "CA",
			},
			&cli.BoolFlag{
				Name:    "albums-only",
				Aliases: []string{"hide-eps"},
				Usage:   "Hide EPs and singles, only show full-length releases",
			},
			&cli.BoolFlag{
				Name:  "show-urls",
				Usage: "Show web URLs instead of Spotify URIs",
			},
			&cli.BoolFlag{
				Name:  "show-live-recordings",
				Usage: "Keep live recordings in the feed",
			},
			&cli.BoolFlag{
				Name:  "show-re-releases",
				Usage: "Keep deluxe/remaster/anniversary reissues in the feed",
			},
			&cli.BoolFlag{
				Name:  "show-soundtracks",
				Usage: "Keep soundtracks in the feed",
			},
			&cli.BoolFlag{
				Name:  "show-remixes",
				Usage: "Keep remixes in the feed",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the feed to a CSV file at this path",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Tee logs to this file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Logging level (debug, info, warn, error)",
				Value: "info",
			},
		},
		Action: r.Scan,
	}
}

// authCommand performs the one-time interactive OAuth2 flow
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Authorize with Spotify and cache the session tokens",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Auth,
	}
}

// cacheCommand manages the local cache directory
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage cached API snapshots",
		Commands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "Delete all cached artist and album snapshots",
				Action: r.CacheClear,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "tokens",
						Usage: "Also delete the cached session tokens",
					},
				},
			},
			{
				Name:  "evict",
				Usage: "Delete cache files older than the retention window",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "retention-days",
						Usage: "Age threshold in days",
						Value: 60,
					},
				},
				Action: r.CacheEvict,
			},
		},
	}
}

// setupCommand writes a starter configuration file
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create a config.toml from the embedded example",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}
