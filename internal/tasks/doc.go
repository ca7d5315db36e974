// Package tasks orchestrates the release radar sync with real-time progress reporting.
//
// # Core Operation
//
// The [Engine] interface defines a single operation:
//
//	[Engine.Run] : Full followed-artist sync
//	  - Resolves the followed-artist list (today's snapshot or a fresh fetch)
//	  - Fetches each artist's releases through the day-scoped album cache
//	  - Applies the filter pipeline (age, region, type, title categories)
//	  - Returns the sorted feed with per-artist failure details
//
// # Failure Handling
//
// A per-artist fetch failure is recorded in [SyncResult.Failures] and the run
// continues with the next artist. Only an unrecoverable credential failure
// (no refresh token, failed refresh, or missing authorization) aborts the run.
//
// # Progress Reporting
//
// The [ProgressUpdate] struct contains the phase, step counters, and a
// display message. Updates use select with default to prevent blocking.
//
// # Implementation
//
// [RadarEngine] implements [Engine] with dependencies on:
//   - [services.Catalog] : the streaming-service API client
//   - [cache.Store] : day-scoped JSON snapshots and the album cache
package tasks
