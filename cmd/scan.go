package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/radar/internal/cache"
	"github.com/desertthunder/radar/internal/formatter"
	"github.com/desertthunder/radar/internal/shared"
	"github.com/desertthunder/radar/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Scan runs a full catalog sync and renders the filtered release feed.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: Spotify credentials not configured, run `radar setup`", shared.ErrServiceUnavailable)
	}

	r.configureLogging(cmd)
	opts := r.syncOpts(cmd)

	r.logger.Info("starting release radar...")

	progress := make(chan tasks.ProgressUpdate, 16)
	consumed := make(chan struct{})
	go func() {
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase.String())
		}
		close(consumed)
	}()

	result, err := r.engine.Run(ctx, progress, opts)
	close(progress)
	<-consumed

	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	for _, failure := range result.Failures {
		r.logger.Warnf("skipped artist %s (%s): %v", failure.Artist.Name, failure.Artist.ID, failure.Err)
	}

	r.logger.Infof("processed %d artists (%d fetched, %d releases filtered out)",
		result.ArtistCount, result.FetchedCount, result.FilteredOut)

	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteCSVExport(result.Releases, path)
		if err != nil {
			return err
		}
		r.writePlain("✓ Feed written to %s (%d releases)\n", written, len(result.Releases))
		return nil
	}

	if cmd.Bool("json") {
		return r.writeJSON(result.Releases, cmd.Bool("pretty"))
	}

	if len(result.Releases) == 0 {
		r.writePlain("No recent releases found.\n")
		return nil
	}

	return r.writePlain("%s", formatter.RenderTable(result.Releases))
}

// syncOpts builds the engine options from config defaults with CLI flag overrides.
func (r *Runner) syncOpts(cmd *cli.Command) tasks.SyncOpts {
	radar := r.config.Radar

	opts := tasks.SyncOpts{
		MaxAgeDays:         radar.MaxAgeDays,
		Region:             radar.Region,
		AlbumsOnly:         radar.AlbumsOnly,
		ShowURLs:           radar.ShowURLs,
		ExcludeLive:        radar.ExcludeLive,
		ExcludeReReleases:  radar.ExcludeReReleases,
		ExcludeSoundtracks: radar.ExcludeSoundtracks,
		ExcludeRemixes:     radar.ExcludeRemixes,
		CacheRetentionDays: radar.CacheRetentionDays,
	}

	if cmd.IsSet("max-age-days") {
		opts.MaxAgeDays = cmd.Int("max-age-days")
	}
	if cmd.IsSet("region") {
		opts.Region = cmd.String("region")
	}
	if cmd.IsSet("albums-only") {
		opts.AlbumsOnly = cmd.Bool("albums-only")
	}
	if cmd.IsSet("show-urls") {
		opts.ShowURLs = cmd.Bool("show-urls")
	}
	if cmd.IsSet("show-live-recordings") {
		opts.ExcludeLive = !cmd.Bool("show-live-recordings")
	}
	if cmd.IsSet("show-re-releases") {
		opts.ExcludeReReleases = !cmd.Bool("show-re-releases")
	}
	if cmd.IsSet("show-soundtracks") {
		opts.ExcludeSoundtracks = !cmd.Bool("show-soundtracks")
	}
	if cmd.IsSet("show-remixes") {
		opts.ExcludeRemixes = !cmd.Bool("show-remixes")
	}

	return opts
}

// configureLogging applies the scan command's log flags, rebuilding the
// engine when the log destination changes.
func (r *Runner) configureLogging(cmd *cli.Command) {
	if path := cmd.String("log-file"); path != "" {
		logger, _ := shared.NewFileLogger(path)
		r.logger = logger
		r.store = cache.NewStore(r.config.Cache.Dir, logger)
		r.engine = tasks.NewRadarEngine(r.catalog, r.store, logger)
	}

	if level, err := log.ParseLevel(cmd.String("log-level")); err == nil {
		shared.SetLogLevel(r.logger, level)
	}
}
