package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/radar/internal/shared"
	"github.com/urfave/cli/v3"
)

// CacheClear deletes cached artist and album snapshots.
//
// Session tokens survive unless --tokens is passed.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	entries, err := os.ReadDir(r.store.Dir())
	if os.IsNotExist(err) {
		r.writePlain("Cache directory is empty.\n")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to scan cache directory: %w", err)
	}

	includeTokens := cmd.Bool("tokens")
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !includeTokens && strings.HasPrefix(entry.Name(), "spotify_tokens") {
			continue
		}
		if err := os.Remove(filepath.Join(r.store.Dir(), entry.Name())); err != nil {
			r.logger.Warnf("failed to delete %s: %v", entry.Name(), err)
			continue
		}
		removed++
	}

	r.writePlain("✓ Deleted %d cache files from %s\n", removed, r.store.Dir())
	return nil
}

// CacheEvict deletes cache files older than the retention window.
func (r *Runner) CacheEvict(ctx context.Context, cmd *cli.Command) error {
	retention := cmd.Int("retention-days")
	if retention <= 0 {
		return fmt.Errorf("%w: retention-days must be positive", shared.ErrInvalidFlag)
	}

	if err := r.store.EvictStale(retention); err != nil {
		return err
	}

	r.writePlain("✓ Evicted cache files older than %d days\n", retention)
	return nil
}

// Setup creates a starter configuration file from the embedded example.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.writePlain("✓ Created %s\n", configPath)
	r.writePlain("Fill in your Spotify client_id and client_secret, then run: radar auth\n")
	return nil
}
