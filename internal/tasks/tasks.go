package tasks

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/radar/internal/cache"
	"github.com/desertthunder/radar/internal/filters"
	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/services"
	"github.com/desertthunder/radar/internal/shared"
)

// SyncOpts contains the filter and cache settings for a single radar run.
type SyncOpts struct {
	MaxAgeDays         int    // Maximum release age in days
	Region             string // Required market code, empty disables the region gate
	AlbumsOnly         bool   // Keep only full-length albums
	ShowURLs           bool   // Emit web URLs instead of catalog URIs
	ExcludeLive        bool   // Drop live recordings
	ExcludeReReleases  bool   // Drop deluxe/remaster/anniversary reissues
	ExcludeSoundtracks bool   // Drop soundtracks
	ExcludeRemixes     bool   // Drop remixes and reworks
	CacheRetentionDays int    // Age threshold for cache eviction
}

// ArtistFailure records a per-artist fetch that failed after retries.
type ArtistFailure struct {
	Artist models.Artist
	Err    error
}

// SyncResult contains everything a radar run produced.
type SyncResult struct {
	Releases     []models.Release // Filtered feed, newest first
	ArtistCount  int              // Artists processed
	FetchedCount int              // Artists fetched from the API (cache misses)
	Failures     []ArtistFailure  // Artists skipped after retry exhaustion
	FilteredOut  int              // Releases dropped by the filter pipeline
}

// Engine defines the sync operation for the release radar.
type Engine interface {
	// Run performs a full sync: enumerate followed artists, fetch each
	// artist's releases through the cache, filter, and sort.
	Run(ctx context.Context, progress chan<- ProgressUpdate, opts SyncOpts) (*SyncResult, error)
}

// RadarEngine implements [Engine] over a catalog client and the cache store.
type RadarEngine struct {
	catalog services.Catalog
	store   *cache.Store
	logger  *log.Logger
	now     func() time.Time
}

// NewRadarEngine creates a RadarEngine with the provided dependencies.
func NewRadarEngine(catalog services.Catalog, store *cache.Store, logger *log.Logger) *RadarEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &RadarEngine{
		catalog: catalog,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
}

// Run executes one sync.
//
// Artists are processed strictly sequentially in snapshot order. A
// per-artist fetch failure is logged and skips that artist; only an
// unrecoverable credential failure aborts the run. The album cache is
// persisted after every fetched artist so a crash loses at most the
// in-flight artist's pages.
func (e *RadarEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, opts SyncOpts) (*SyncResult, error) {
	if err := e.store.EnsureDir(); err != nil {
		return nil, err
	}
	if err := e.store.EvictStale(opts.CacheRetentionDays); err != nil {
		return nil, err
	}

	artists, err := e.resolveArtists(ctx, progress)
	if err != nil {
		return nil, err
	}

	albumCache, ok, err := e.store.LoadAlbumCache()
	if err != nil {
		return nil, err
	}
	if ok {
		e.logger.Infof("loaded album cache with %d artists", len(albumCache))
	}

	result := &SyncResult{ArtistCount: len(artists)}
	var filteredLogs []string
	today := e.now()

	for i, artist := range artists {
		sendProgress(progress, artistReleasesUpdate(i+1, len(artists), artist.Name))

		releases, cached := albumCache[artist.ID]
		if !cached {
			fetched, err := e.catalog.ArtistReleases(ctx, artist.ID)
			if err != nil {
				if isUnrecoverableAuth(err) {
					return nil, err
				}
				e.logger.Errorf("error fetching releases for artist %s: %v", artist.ID, err)
				result.Failures = append(result.Failures, ArtistFailure{Artist: artist, Err: err})
				continue
			}

			releases = fetched
			albumCache[artist.ID] = releases
			result.FetchedCount++

			// Write-through after every artist bounds crash data loss to
			// the in-flight fetch.
			if err := e.store.SaveAlbumCache(albumCache); err != nil {
				return nil, err
			}
		}

		for _, raw := range releases {
			release, reason := e.filterRelease(raw, artist, today, opts)
			if release == nil {
				result.FilteredOut++
				if reason != "" {
					filteredLogs = append(filteredLogs, reason)
				}
				continue
			}
			result.Releases = append(result.Releases, *release)
		}
	}

	for _, entry := range filteredLogs {
		e.logger.Debug(entry)
	}

	sortReleases(result.Releases)
	sendProgress(progress, syncCompleteUpdate(len(result.Releases)))

	return result, nil
}

// resolveArtists returns today's snapshot, fetching and persisting it on a miss.
func (e *RadarEngine) resolveArtists(ctx context.Context, progress chan<- ProgressUpdate) ([]models.Artist, error) {
	artists, ok, err := e.store.LoadArtistSnapshot()
	if err != nil {
		return nil, err
	}
	if ok {
		e.logger.Infof("loaded %d artists from cache", len(artists))
		return artists, nil
	}

	sendProgress(progress, fetchArtistsUpdate())
	artists, err = e.catalog.FollowedArtists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch followed artists: %w", err)
	}

	if err := e.store.SaveArtistSnapshot(artists); err != nil {
		return nil, err
	}
	e.logger.Infof("fetched and cached %d followed artists", len(artists))

	return artists, nil
}

// filterRelease applies the filter pipeline in fixed order.
//
// Returns the mapped release when it passes, or nil with a log line naming
// the first gate it failed (empty for the age/region/type gates).
func (e *RadarEngine) filterRelease(raw models.RawRelease, artist models.Artist, today time.Time, opts SyncOpts) (*models.Release, string) {
	date, err := models.ParseReleaseDate(raw.ReleaseDate)
	if err != nil || daysBetween(today, date) > float64(opts.MaxAgeDays) {
		return nil, ""
	}

	if opts.Region != "" && !containsMarket(raw.AvailableMarkets, opts.Region) {
		return nil, ""
	}

	if opts.AlbumsOnly && raw.Type != models.TypeAlbum {
		return nil, ""
	}

	normalized := filters.Normalize(raw.Name)
	categories := filters.Classify(normalized)

	switch {
	case opts.ExcludeLive && categories.Has(filters.LiveRecording):
		return nil, fmt.Sprintf("filtered out live recording: %s", raw.Name)
	case opts.ExcludeReReleases && categories.Has(filters.ReRelease):
		return nil, fmt.Sprintf("filtered out re-release: %s", raw.Name)
	case opts.ExcludeSoundtracks && categories.Has(filters.Soundtrack):
		return nil, fmt.Sprintf("filtered out soundtrack: %s", raw.Name)
	case opts.ExcludeRemixes && categories.Has(filters.Remix):
		return nil, fmt.Sprintf("filtered out remix: %s", raw.Name)
	}

	url := raw.URI
	if opts.ShowURLs {
		url = services.AlbumWebURL(raw.ID)
	}

	primary := raw.PrimaryArtist()
	if primary == "" {
		primary = artist.Name
	}

	return &models.Release{
		Name:        raw.Name,
		ReleaseDate: raw.ReleaseDate,
		URL:         url,
		Artist:      primary,
		Type:        raw.Type,
	}, ""
}

// sortReleases orders the feed by release date descending; equal dates keep
// their encounter order.
func sortReleases(releases []models.Release) {
	keys := make(map[string]int64, len(releases))
	for _, release := range releases {
		if _, seen := keys[release.ReleaseDate]; seen {
			continue
		}
		if date, err := models.ParseReleaseDate(release.ReleaseDate); err == nil {
			keys[release.ReleaseDate] = date.Unix()
		}
	}
	sort.SliceStable(releases, func(i, j int) bool {
		return keys[releases[i].ReleaseDate] > keys[releases[j].ReleaseDate]
	})
}

func daysBetween(a, b time.Time) float64 {
	return math.Abs(a.Sub(b).Hours() / 24)
}

func containsMarket(markets []string, region string) bool {
	for _, market := range markets {
		if market == region {
			return true
		}
	}
	return false
}

// isUnrecoverableAuth reports whether the error means no artist can be
// fetched without a new interactive authorization.
func isUnrecoverableAuth(err error) bool {
	return errors.Is(err, shared.ErrNoRefreshToken) ||
		errors.Is(err, shared.ErrRefreshFailed) ||
		errors.Is(err, shared.ErrNotAuthenticated)
}
