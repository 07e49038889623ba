package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	SearchPages Phase = iota
	FetchPage
	ParseGenres
	StoreGenres
	BatchArtists
)

func (p Phase) String() string {
	switch p {
	case SearchPages:
		return "search_pages"
	case FetchPage:
		return "fetch_page"
	case ParseGenres:
		return "parse_genres"
	case StoreGenres:
		return "store_genres"
	case BatchArtists:
		return "batch_artists"
	default:
		return ""
	}
}

func searchPagesUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchPages,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Searching pages for %s...", name),
	}
}

func fetchPageUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPage,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching page: %s", title),
		Data:    title,
	}
}

func parseGenresUpdate(step, total int, genres []string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ParseGenres,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Extracted %d genres", len(genres)),
		Data:    genres,
	}
}

func storeGenresUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   StoreGenres,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Storing genres for %s...", name),
	}
}

func batchArtistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BatchArtists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Processing %s (%d/%d)", name, step, total),
		Data:    name,
	}
}
