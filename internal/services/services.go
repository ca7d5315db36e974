// package services defines interface Catalog for interacting with HTTP APIs
package services

import (
	"context"

	"github.com/desertthunder/radar/internal/models"
)

// Catalog defines the read operations the sync engine needs from a music
// catalog provider (Spotify).
type Catalog interface {
	// FollowedArtists enumerates every artist the user follows, in the
	// order the service returns them.
	FollowedArtists(ctx context.Context) ([]models.Artist, error)

	// ArtistReleases returns the complete release list for an artist,
	// excluding releases where the artist is only a secondary credit.
	ArtistReleases(ctx context.Context, artistID string) ([]models.RawRelease, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// TokenProvider hands out a valid bearer credential and refreshes it on demand.
//
// Refresh fails with an error wrapping [shared.ErrNoRefreshToken] or
// [shared.ErrRefreshFailed] when the stored refresh credential itself is
// invalid or absent; that failure is unrecoverable and aborts the run.
type TokenProvider interface {
	// Token returns the current access token, refreshing first if the
	// stored record is already past its expiry.
	Token(ctx context.Context) (string, error)

	// Refresh exchanges the stored refresh token for a new access token
	// and persists the result.
	Refresh(ctx context.Context) (string, error)
}
