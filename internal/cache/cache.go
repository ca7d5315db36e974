// package cache persists day-scoped snapshots of radar API data
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/shared"
)

const (
	tokenFile          = "spotify_tokens.json"
	artistFilePrefix   = "followed_artists_"
	albumFilePrefix    = "album_cache_"
	dateSuffixLayout   = "2006-01-02"
	cacheFileExtension = ".json"
)

// Store reads and writes JSON cache files in a single directory.
//
// Artist snapshots and album caches are keyed by the current calendar date;
// a file written on day D is never read on day D+1. The token record has no
// date suffix and is long-lived.
type Store struct {
	dir    string
	logger *log.Logger
	now    func() time.Time
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{dir: dir, logger: logger, now: time.Now}
}

// Dir returns the cache directory path.
func (s *Store) Dir() string { return s.dir }

// EnsureDir creates the cache directory if it does not exist.
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return nil
}

func (s *Store) tokenPath() string {
	return filepath.Join(s.dir, tokenFile)
}

func (s *Store) artistPath() string {
	return filepath.Join(s.dir, artistFilePrefix+s.now().Format(dateSuffixLayout)+cacheFileExtension)
}

func (s *Store) albumPath() string {
	return filepath.Join(s.dir, albumFilePrefix+s.now().Format(dateSuffixLayout)+cacheFileExtension)
}

// load reads and unmarshals the file at path into out.
//
// A missing file is reported as !ok with a nil error. A file that exists but
// fails to parse is treated the same way, so corrupt caches degrade to a
// re-fetch rather than aborting the run.
func (s *Store) load(path string, out any) (ok bool, err error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warnf("discarding corrupt cache file %s: %v", filepath.Base(path), err)
		return false, nil
	}

	return true, nil
}

// save marshals v and replaces the file at path atomically.
//
// The write goes to a temp file in the same directory followed by a rename,
// so a crash mid-write leaves either the old content or the full new content.
func (s *Store) save(path string, v any) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	return nil
}

// LoadToken returns the persisted token record, or ok=false when absent.
func (s *Store) LoadToken() (models.TokenRecord, bool, error) {
	var record models.TokenRecord
	ok, err := s.load(s.tokenPath(), &record)
	return record, ok, err
}

// SaveToken persists the token record.
func (s *Store) SaveToken(record models.TokenRecord) error {
	return s.save(s.tokenPath(), record)
}

// LoadArtistSnapshot returns today's followed-artist snapshot, or ok=false when absent.
func (s *Store) LoadArtistSnapshot() ([]models.Artist, bool, error) {
	var artists []models.Artist
	ok, err := s.load(s.artistPath(), &artists)
	return artists, ok, err
}

// SaveArtistSnapshot persists today's followed-artist snapshot.
func (s *Store) SaveArtistSnapshot(artists []models.Artist) error {
	return s.save(s.artistPath(), artists)
}

// LoadAlbumCache returns today's album cache map, or ok=false when absent.
func (s *Store) LoadAlbumCache() (models.AlbumCacheMap, bool, error) {
	var albums models.AlbumCacheMap
	ok, err := s.load(s.albumPath(), &albums)
	if !ok || albums == nil {
		return models.AlbumCacheMap{}, ok, err
	}
	return albums, ok, err
}

// SaveAlbumCache persists today's album cache map.
func (s *Store) SaveAlbumCache(albums models.AlbumCacheMap) error {
	return s.save(s.albumPath(), albums)
}

// EvictStale deletes every cache file whose modification time is older than
// retentionDays. Runs once per sync, before any reads.
func (s *Store) EvictStale(retentionDays int) error {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to scan cache directory: %w", err)
	}

	cutoff := s.now().AddDate(0, 0, -retentionDays)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(s.dir, entry.Name())
			if err := os.Remove(path); err != nil {
				s.logger.Warnf("failed to delete stale cache file %s: %v", entry.Name(), err)
				continue
			}
			s.logger.Infof("deleted stale cache file: %s", entry.Name())
		}
	}

	return nil
}
