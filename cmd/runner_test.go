package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/radar/internal/cache"
	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/shared"
	tu "github.com/desertthunder/radar/internal/testing"
)

func newTestRunner(t *testing.T, catalog *tu.MockCatalog) (*Runner, *bytes.Buffer) {
	t.Helper()
	var output bytes.Buffer
	opts := RunnerOpts{
		Store:  cache.NewStore(t.TempDir(), nil),
		Output: &output,
	}
	if catalog != nil {
		opts.Catalog = catalog
	}
	runner := NewRunner(opts)
	return runner, &output
}

func TestNewRunner(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})

		if runner.config == nil || runner.logger == nil || runner.output == nil || runner.store == nil {
			t.Error("expected defaults for config, logger, output, and store")
		}
		if runner.engine != nil {
			t.Error("no engine should be built without a catalog")
		}
	})

	t.Run("builds an engine when a catalog is provided", func(t *testing.T) {
		runner, _ := newTestRunner(t, &tu.MockCatalog{})
		if runner.engine == nil {
			t.Error("expected an engine")
		}
	})
}

func TestWriteHelpers(t *testing.T) {
	t.Run("writeJSON", func(t *testing.T) {
		runner, output := newTestRunner(t, nil)

		if err := runner.writeJSON(map[string]int{"count": 2}, false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "{\"count\":2}\n" {
			t.Errorf("unexpected output: %q", output.String())
		}
	})

	t.Run("writePlain", func(t *testing.T) {
		runner, output := newTestRunner(t, nil)

		if err := runner.writePlain("done: %d\n", 3); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "done: 3\n" {
			t.Errorf("unexpected output: %q", output.String())
		}
	})

	t.Run("writePlainln pads with newlines", func(t *testing.T) {
		runner, output := newTestRunner(t, nil)

		if err := runner.writePlainln("radar"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "\nradar\n" {
			t.Errorf("unexpected output: %q", output.String())
		}
	})

	t.Run("failed writer surfaces the error", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

		if err := runner.writePlain("anything"); err == nil {
			t.Error("expected an error")
		}
		if err := runner.writeJSON("anything", false); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestScanCommand(t *testing.T) {
	ctx := context.Background()
	recent := time.Now().AddDate(0, 0, -3).Format("2006-01-02")

	catalogWithOneRelease := func() *tu.MockCatalog {
		return &tu.MockCatalog{
			Artists: []models.Artist{{ID: "a1", Name: "First"}},
			Releases: map[string][]models.RawRelease{
				"a1": {{
					ID:               "r1",
					Name:             "New Album",
					ReleaseDate:      recent,
					URI:              "spotify:album:r1",
					Type:             models.TypeAlbum,
					AvailableMarkets: []string{"CA"},
					ArtistNames:      []string{"First"},
				}},
			},
		}
	}

	t.Run("renders a table by default", func(t *testing.T) {
		runner, output := newTestRunner(t, catalogWithOneRelease())

		if err := scanCommand(runner).Run(ctx, []string{"scan"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "New Album") {
			t.Errorf("expected the release in the table, got %q", output.String())
		}
	})

	t.Run("emits JSON when asked", func(t *testing.T) {
		runner, output := newTestRunner(t, catalogWithOneRelease())

		if err := scanCommand(runner).Run(ctx, []string{"scan", "--json", "--pretty=false"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var releases []models.Release
		if err := json.Unmarshal(output.Bytes(), &releases); err != nil {
			t.Fatalf("expected valid JSON, got %q", output.String())
		}
		if len(releases) != 1 || releases[0].Name != "New Album" {
			t.Errorf("unexpected feed: %+v", releases)
		}
	})

	t.Run("writes a CSV export", func(t *testing.T) {
		runner, output := newTestRunner(t, catalogWithOneRelease())
		path := filepath.Join(t.TempDir(), "feed.csv")

		if err := scanCommand(runner).Run(ctx, []string{"scan", "--output", path}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, path)
		if !strings.Contains(output.String(), path) {
			t.Errorf("expected confirmation naming the file, got %q", output.String())
		}
	})

	t.Run("reports an empty feed", func(t *testing.T) {
		runner, output := newTestRunner(t, &tu.MockCatalog{})

		if err := scanCommand(runner).Run(ctx, []string{"scan"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "No recent releases found.") {
			t.Errorf("unexpected output: %q", output.String())
		}
	})

	t.Run("requires a configured catalog", func(t *testing.T) {
		runner, _ := newTestRunner(t, nil)

		err := scanCommand(runner).Run(ctx, []string{"scan"})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Fatalf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestCacheCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("clear keeps tokens by default", func(t *testing.T) {
		runner, output := newTestRunner(t, nil)
		dir := runner.store.Dir()
		tu.MustWriteFile(t, filepath.Join(dir, "album_cache_2026-08-30.json"), "{}")
		tu.MustWriteFile(t, filepath.Join(dir, "spotify_tokens.json"), "{}")

		if err := cacheCommand(runner).Run(ctx, []string{"cache", "clear"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertNoFile(t, filepath.Join(dir, "album_cache_2026-08-30.json"))
		tu.AssertFileExists(t, filepath.Join(dir, "spotify_tokens.json"))
		if !strings.Contains(output.String(), "Deleted 1 cache files") {
			t.Errorf("unexpected output: %q", output.String())
		}
	})

	t.Run("clear --tokens removes everything", func(t *testing.T) {
		runner, _ := newTestRunner(t, nil)
		dir := runner.store.Dir()
		tu.MustWriteFile(t, filepath.Join(dir, "spotify_tokens.json"), "{}")

		if err := cacheCommand(runner).Run(ctx, []string{"cache", "clear", "--tokens"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertNoFile(t, filepath.Join(dir, "spotify_tokens.json"))
	})

	t.Run("evict rejects a non-positive retention", func(t *testing.T) {
		runner, _ := newTestRunner(t, nil)

		err := cacheCommand(runner).Run(ctx, []string{"cache", "evict", "--retention-days", "0"})
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Fatalf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestSetupCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a starter config", func(t *testing.T) {
		runner, output := newTestRunner(t, nil)
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := setupCommand(runner).Run(ctx, []string{"setup", "--config", path}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, path)
		if !strings.Contains(output.String(), path) {
			t.Errorf("expected confirmation naming the file, got %q", output.String())
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		runner, _ := newTestRunner(t, nil)
		path := filepath.Join(t.TempDir(), "config.toml")
		tu.MustWriteFile(t, path, "# existing")

		if err := setupCommand(runner).Run(ctx, []string{"setup", "--config", path}); err == nil {
			t.Error("expected an error")
		}
	})
}
