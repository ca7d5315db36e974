// package models defines the data model for the release radar
package models

import (
	"fmt"
	"time"
)

// ReleaseType is the catalog-assigned type of a release.
type ReleaseType string

const (
	TypeAlbum       ReleaseType = "album"
	TypeSingle      ReleaseType = "single"
	TypeCompilation ReleaseType = "compilation"
)

// Artist is a followed artist. Identity is the service-assigned ID; the name
// is display-only.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RawRelease is the unfiltered release record as returned by the catalog
// service. ArtistNames is ordered, first entry is the primary artist.
type RawRelease struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	ReleaseDate      string      `json:"release_date"`
	URI              string      `json:"uri"`
	Type             ReleaseType `json:"album_type"`
	AvailableMarkets []string    `json:"available_markets,omitempty"`
	ArtistNames      []string    `json:"artists"`
}

// PrimaryArtist returns the first credited artist name, or "" when the
// catalog returned no attribution.
func (r RawRelease) PrimaryArtist() string {
	if len(r.ArtistNames) == 0 {
		return ""
	}
	return r.ArtistNames[0]
}

// Release is the final, display-ready record after filtering.
type Release struct {
	Name        string      `json:"name"`
	ReleaseDate string      `json:"release_date"`
	URL         string      `json:"url"`
	Artist      string      `json:"artist"`
	Type        ReleaseType `json:"type"`
}

// TokenRecord holds the persisted Spotify session credentials.
//
// ExpiresAt is a Unix millisecond timestamp derived from the most recent
// successful token exchange.
type TokenRecord struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"`
}

// Expired reports whether the access token has passed its expiry at the given instant.
func (t TokenRecord) Expired(now time.Time) bool {
	return t.ExpiresAt <= now.UnixMilli()
}

// AlbumCacheMap maps an artist ID to that artist's complete release list.
//
// An entry is only present once every page for the artist has been fetched;
// partial fetches are never recorded.
type AlbumCacheMap map[string][]RawRelease

// Release date layouts by precision. The catalog reports dates as a bare
// year, a year-month, or a full date depending on what the label supplied.
var releaseDateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// ParseReleaseDate parses a catalog release date of any supported precision.
func ParseReleaseDate(s string) (time.Time, error) {
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized release date %q", s)
}
