package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertthunder/radar/internal/models"
	tu "github.com/desertthunder/radar/internal/testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir(), nil)
}

func TestStore(t *testing.T) {
	t.Run("EnsureDir", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "cache")
		store := NewStore(dir, nil)

		if err := store.EnsureDir(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected cache directory to exist: %v", err)
		}
	})

	t.Run("Token", func(t *testing.T) {
		store := newTestStore(t)

		t.Run("absent read returns ok=false", func(t *testing.T) {
			_, ok, err := store.LoadToken()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if ok {
				t.Error("expected no token record")
			}
		})

		t.Run("round trip", func(t *testing.T) {
			record := models.TokenRecord{
				AccessToken:  "access",
				RefreshToken: "refresh",
				ExpiresAt:    1700000000000,
			}

			if err := store.SaveToken(record); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			loaded, ok, err := store.LoadToken()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !ok {
				t.Fatal("expected token record to exist")
			}
			if loaded != record {
				t.Errorf("expected %+v, got %+v", record, loaded)
			}
		})

		t.Run("corrupt file is a miss", func(t *testing.T) {
			tu.MustWriteFile(t, store.tokenPath(), "{not json")

			_, ok, err := store.LoadToken()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if ok {
				t.Error("expected corrupt token file to read as absent")
			}
		})
	})

	t.Run("ArtistSnapshot", func(t *testing.T) {
		store := newTestStore(t)
		artists := []models.Artist{
			{ID: "a1", Name: "First"},
			{ID: "a2", Name: "Second"},
		}

		if err := store.SaveArtistSnapshot(artists); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		loaded, ok, err := store.LoadArtistSnapshot()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !ok {
			t.Fatal("expected snapshot to exist")
		}
		if len(loaded) != 2 || loaded[0].ID != "a1" || loaded[1].ID != "a2" {
			t.Errorf("snapshot order not preserved: %+v", loaded)
		}

		t.Run("file is date suffixed", func(t *testing.T) {
			date := store.now().Format(dateSuffixLayout)
			tu.AssertFileExists(t, filepath.Join(store.dir, artistFilePrefix+date+cacheFileExtension))
		})

		t.Run("never read across a date boundary", func(t *testing.T) {
			store.now = func() time.Time { return time.Now().AddDate(0, 0, 1) }
			defer func() { store.now = time.Now }()

			_, ok, err := store.LoadArtistSnapshot()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if ok {
				t.Error("yesterday's snapshot should not be visible today")
			}
		})
	})

	t.Run("AlbumCache", func(t *testing.T) {
		store := newTestStore(t)

		t.Run("absent read returns empty map", func(t *testing.T) {
			albums, ok, err := store.LoadAlbumCache()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if ok {
				t.Error("expected cache miss")
			}
			if albums == nil {
				t.Error("expected a usable empty map")
			}
		})

		t.Run("round trip is byte equivalent", func(t *testing.T) {
			albums := models.AlbumCacheMap{
				"a1": {
					{
						ID:               "r1",
						Name:             "Album One",
						ReleaseDate:      "2026-08-01",
						URI:              "spotify:album:r1",
						Type:             models.TypeAlbum,
						AvailableMarkets: []string{"CA", "US"},
						ArtistNames:      []string{"First"},
					},
				},
				"a2": {},
			}

			if err := store.SaveAlbumCache(albums); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			first := tu.MustReadFile(t, store.albumPath())

			loaded, ok, err := store.LoadAlbumCache()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !ok {
				t.Fatal("expected cache hit")
			}

			if err := store.SaveAlbumCache(loaded); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			second := tu.MustReadFile(t, store.albumPath())

			if first != second {
				t.Error("load/save round trip changed the cache file")
			}
		})
	})

	t.Run("EvictStale", func(t *testing.T) {
		store := newTestStore(t)

		fresh := filepath.Join(store.dir, "album_cache_2026-08-30.json")
		stale := filepath.Join(store.dir, "followed_artists_2026-01-01.json")
		tu.MustWriteFile(t, fresh, "{}")
		tu.MustWriteFile(t, stale, "[]")

		old := time.Now().AddDate(0, 0, -90)
		if err := os.Chtimes(stale, old, old); err != nil {
			t.Fatalf("failed to age file: %v", err)
		}

		if err := store.EvictStale(60); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, fresh)
		tu.AssertNoFile(t, stale)
	})

	t.Run("EvictStale missing directory is a no-op", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "missing"), nil)
		if err := store.EvictStale(60); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}
