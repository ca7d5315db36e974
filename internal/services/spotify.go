// Spotify API implementation of [Catalog]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	albumWebURLBase = "https://open.spotify.com/album/"

	// MaxPageSize is the largest page the Spotify Web API serves for both
	// followed-artist and artist-album listings.
	MaxPageSize = 50

	// tokenExpiredMessage is the exact message Spotify returns alongside a
	// 401 when the bearer token has expired (as opposed to being invalid).
	tokenExpiredMessage = "The access token expired"
)

// AlbumWebURL returns the public web URL for an album ID.
func AlbumWebURL(id string) string {
	return albumWebURLBase + id
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a simplified Spotify album object (used in lists).
type SpotifyAlbum struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	AlbumType        string          `json:"album_type"`
	ReleaseDate      string          `json:"release_date"`
	AvailableMarkets []string        `json:"available_markets"`
	Artists          []SpotifyArtist `json:"artists"`
	URI              string          `json:"uri"`
}

type cursors struct {
	After *string `json:"after"`
}

type artistCursorPage struct {
	Items   []SpotifyArtist `json:"items"`
	Total   int             `json:"total"`
	Limit   int             `json:"limit"`
	Cursors cursors         `json:"cursors"`
}

type followedArtistsResponse struct {
	Artists *artistCursorPage `json:"artists"`
}

type artistAlbumsResponse struct {
	Items  []SpotifyAlbum `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
	Next   *string        `json:"next"`
}

type apiErrorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// SpotifyService implements [Catalog] against the Spotify Web API.
//
// Requests are paced with a [rate.Limiter] and every read operation runs
// through a [RetryPolicy] that refreshes the bearer credential on expiry.
type SpotifyService struct {
	provider   TokenProvider
	retry      *RetryPolicy
	httpClient *http.Client
	limiter    *rate.Limiter
	pageSize   int
	logger     *log.Logger
}

// SpotifyOpts contains configuration options for creating a SpotifyService.
type SpotifyOpts struct {
	Provider   TokenProvider
	Retry      *RetryPolicy
	HTTPClient *http.Client
	PageSize   int
	RateLimit  float64 // requests per second, 0 disables pacing
	Logger     *log.Logger
}

// NewSpotifyService creates a Spotify catalog client.
func NewSpotifyService(opts SpotifyOpts) (*SpotifyService, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("%w: token provider is required", shared.ErrInvalidArgument)
	}
	if opts.Retry == nil {
		opts.Retry = NewRetryPolicy(opts.Provider, 0, 0, opts.Logger)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.PageSize <= 0 || opts.PageSize > MaxPageSize {
		opts.PageSize = MaxPageSize
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &SpotifyService{
		provider:   opts.Provider,
		retry:      opts.Retry,
		httpClient: opts.HTTPClient,
		limiter:    limiter,
		pageSize:   opts.PageSize,
		logger:     opts.Logger,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// doRequest performs an authenticated GET against the Spotify API and
// decodes the response into result.
//
// Failures are classified into the shared error taxonomy: an expired bearer
// token maps to [shared.ErrTokenExpired], rate limits and server errors to
// [shared.ErrServiceUnavailable], and undecodable payloads to
// [shared.ErrInvalidResponse].
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter interrupted: %w", err)
	}

	token, err := s.provider.Token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, spotifyBaseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return s.classifyError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrInvalidResponse, err)
		}
	}

	return nil
}

// classifyError maps a non-2xx response onto the shared error taxonomy.
func (s *SpotifyService) classifyError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var apiErr apiErrorBody
	message := ""
	if err := json.Unmarshal(body, &apiErr); err == nil {
		message = apiErr.Error.Message
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized && strings.Contains(message, tokenExpiredMessage):
		return fmt.Errorf("%w: spotify API status %d", shared.ErrTokenExpired, resp.StatusCode)
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: spotify API status %d: %s", shared.ErrNotAuthenticated, resp.StatusCode, message)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("%w: spotify API status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	default:
		return fmt.Errorf("%w: spotify API status %d: %s", shared.ErrAPIRequest, resp.StatusCode, message)
	}
}

// FollowedArtists retrieves every followed artist via cursor pagination.
//
// The whole enumeration is one retried operation: an expired token restarts
// it after a refresh, transient failures restart it after backoff.
func (s *SpotifyService) FollowedArtists(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		fetched, err := s.fetchFollowedArtists(ctx)
		if err != nil {
			return err
		}
		artists = fetched
		return nil
	})
	return artists, err
}

func (s *SpotifyService) fetchFollowedArtists(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist
	var after *string
	total := -1

	for {
		endpoint := fmt.Sprintf("/me/following?type=artist&limit=%d", s.pageSize)
		if after != nil {
			endpoint += "&after=" + *after
		}

		var response followedArtistsResponse
		if err := s.doRequest(ctx, endpoint, &response); err != nil {
			return nil, err
		}

		if response.Artists == nil || response.Artists.Items == nil {
			return nil, fmt.Errorf("%w: missing artists page", shared.ErrInvalidResponse)
		}

		if total < 0 {
			total = response.Artists.Total
			s.logger.Infof("total followed artists: %d", total)
		}

		for _, item := range response.Artists.Items {
			artists = append(artists, models.Artist{ID: item.ID, Name: item.Name})
		}

		after = response.Artists.Cursors.After
		if after == nil || *after == "" {
			break
		}
	}

	return artists, nil
}

// ArtistReleases retrieves the full release list for an artist via offset
// pagination, keeping only releases that credit the artist as primary.
//
// Like [SpotifyService.FollowedArtists], the entire pagination loop is one
// retried operation, so a partially fetched list is never returned.
func (s *SpotifyService) ArtistReleases(ctx context.Context, artistID string) ([]models.RawRelease, error) {
	var releases []models.RawRelease
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		fetched, err := s.fetchArtistReleases(ctx, artistID)
		if err != nil {
			return err
		}
		releases = fetched
		return nil
	})
	return releases, err
}

func (s *SpotifyService) fetchArtistReleases(ctx context.Context, artistID string) ([]models.RawRelease, error) {
	releases := []models.RawRelease{}
	offset := 0

	for {
		endpoint := fmt.Sprintf("/artists/%s/albums?limit=%d&offset=%d", artistID, s.pageSize, offset)

		var response artistAlbumsResponse
		if err := s.doRequest(ctx, endpoint, &response); err != nil {
			return nil, err
		}

		if response.Items == nil {
			return nil, fmt.Errorf("%w: missing album items", shared.ErrInvalidResponse)
		}

		for _, album := range response.Items {
			// Skip releases where the followed artist is only featured.
			if len(album.Artists) == 0 || album.Artists[0].ID != artistID {
				continue
			}

			names := make([]string, 0, len(album.Artists))
			for _, artist := range album.Artists {
				names = append(names, artist.Name)
			}

			releases = append(releases, models.RawRelease{
				ID:               album.ID,
				Name:             album.Name,
				ReleaseDate:      album.ReleaseDate,
				URI:              album.URI,
				Type:             models.ReleaseType(album.AlbumType),
				AvailableMarkets: album.AvailableMarkets,
				ArtistNames:      names,
			})
		}

		// A page shorter than the limit is the final one; an exact-multiple
		// total costs one extra call that comes back empty and stops here.
		if len(response.Items) < s.pageSize {
			break
		}
		offset += s.pageSize
	}

	return releases, nil
}

// NewOAuthConfig builds the OAuth2 configuration for the Spotify
// authorization-code flow from the given credentials.
func NewOAuthConfig(credentials map[string]string) (*oauth2.Config, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:8888/callback"
	}

	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{"user-follow-read"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}, nil
}

// AuthCodeURL returns the authorization URL for user login.
func AuthCodeURL(config *oauth2.Config, state string) string {
	return config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// TokenToRecord converts an exchanged OAuth2 token to the persisted record shape.
func TokenToRecord(token *oauth2.Token) models.TokenRecord {
	expiry := token.Expiry
	if expiry.IsZero() {
		expiry = time.Now().Add(time.Hour)
	}
	return models.TokenRecord{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    expiry.UnixMilli(),
	}
}
