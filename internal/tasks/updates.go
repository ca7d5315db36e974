package tasks

import "fmt"

// ProgressUpdate represents a progress event during a sync run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	FetchArtists Phase = iota
	FetchReleases
	Complete
)

func (p Phase) String() string {
	switch p {
	case FetchArtists:
		return "fetch_artists"
	case FetchReleases:
		return "fetch_releases"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func fetchArtistsUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchArtists,
		Message: "Fetching followed artists from Spotify...",
	}
}

func artistReleasesUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchReleases,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, name),
	}
}

func syncCompleteUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Message: fmt.Sprintf("Sync complete: %d releases", count),
	}
}

// sendProgress delivers an update without blocking when nobody is listening.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
