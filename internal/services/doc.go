// Package services defines the [Catalog] interface for music catalog
// providers and implements it for Spotify.
//
// # Catalog Interface
//
// The sync engine only needs two reads: followed-artist enumeration and
// per-artist release lists. Both are paginated differently by the Spotify
// Web API, so [SpotifyService] implements cursor pagination for the former
// and offset pagination for the latter.
//
// # Retry Policy
//
// Every Catalog read runs through a [RetryPolicy]:
//   - [shared.ErrTokenExpired] : refresh the credential via the
//     [TokenProvider] and retry immediately, without consuming the budget
//   - [shared.ErrInvalidResponse] : never retried
//   - anything else : bounded exponential backoff (500ms doubling), then the
//     original error is surfaced once the budget is exhausted
//
// # Token Handling
//
// [CachedTokenProvider] owns the persisted [models.TokenRecord] through the
// cache store. The interactive authorization-code flow lives in the server
// package and the CLI; this package only performs refresh grants.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : no token record persisted yet
//   - [shared.ErrTokenExpired] : bearer token expired, refresh needed
//   - [shared.ErrNoRefreshToken] / [shared.ErrRefreshFailed] : refresh
//     impossible, the whole run aborts
//   - [shared.ErrServiceUnavailable] : rate limits, 5xx, network failures
//   - [shared.ErrInvalidResponse] : structurally unexpected payload
package services
