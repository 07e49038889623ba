// package tasks implements the genre extraction pipeline on top of the page
// resolver, wikitext parser, and persistence layer.
//
// The core abstraction is GenreEngine, which orchestrates lookup strategies for
// single artists and rate-limited batch enrichment runs.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jammyapp/jammy/internal/genres"
	"github.com/jammyapp/jammy/internal/models"
	"github.com/jammyapp/jammy/internal/shared"
	"github.com/jammyapp/jammy/internal/wikitext"
	"golang.org/x/time/rate"
)

// maxGenres caps how many genres a single extraction can yield.
const maxGenres = 8

// roleSuffixes are appended to the artist name, in order, when a direct
// search finds nothing usable.
var roleSuffixes = []string{" musician", " singer", " band", " rapper", " artist"}

// Resolver finds candidate encyclopedia pages and fetches their markup.
type Resolver interface {
	Search(ctx context.Context, name string) []models.PageCandidate
	PageContent(ctx context.Context, title string) (string, bool)
}

// ArtistStore is the subset of the artist repository the engine needs.
type ArtistStore interface {
	Get(id string) (*models.Artist, error)
	ListWithoutGenres() ([]*models.Artist, error)
}

// GenreStore persists an artist's extracted genre set.
type GenreStore interface {
	ReplaceArtistGenres(artistID string, names []string) error
}

// Engine defines the genre extraction operations.
type Engine interface {
	// GetGenres resolves an artist name to an ordered, deduplicated genre list.
	// An empty result is a valid outcome, never an error.
	GetGenres(ctx context.Context, progress chan<- ProgressUpdate, name string) []string

	// FetchAndStore runs GetGenres for a stored artist and replaces its genre
	// associations when the extraction finds anything.
	FetchAndStore(ctx context.Context, progress chan<- ProgressUpdate, artistID string) ([]string, error)

	// Batch enriches artists that have no genre rows yet.
	Batch(ctx context.Context, progress chan<- ProgressUpdate, opts BatchOpts) (*BatchResult, error)
}

// BatchOpts contains configuration for batch enrichment runs.
type BatchOpts struct {
	Size      int     // Max artists to process (default: 10)
	RateLimit float64 // Upstream requests per second (default: 1)
}

// ArtistBatchResult records one artist's outcome within a batch run.
type ArtistBatchResult struct {
	ArtistID   string
	ArtistName string
	Genres     []string
	Error      error
}

// BatchResult contains totals from a batch enrichment run.
type BatchResult struct {
	TotalArtists int
	Enriched     int
	Empty        int
	Failed       int
	Results      []ArtistBatchResult
}

// GenreEngine implements Engine against an encyclopedia resolver and the
// SQLite persistence layer.
type GenreEngine struct {
	resolver  Resolver
	validator *genres.Validator
	artists   ArtistStore
	store     GenreStore
	logger    *log.Logger
}

// NewGenreEngine creates a GenreEngine with the provided dependencies.
func NewGenreEngine(resolver Resolver, validator *genres.Validator, artists ArtistStore, store GenreStore, logger *log.Logger) *GenreEngine {
	return &GenreEngine{
		resolver:  resolver,
		validator: validator,
		artists:   artists,
		store:     store,
		logger:    logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *GenreEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// GetGenres resolves an artist name to genres, escalating through search
// variants until one yields a non-empty result:
//
//  1. the trimmed name as given
//  2. the name with each role-hint suffix appended
//  3. the name with a leading "the " stripped
//  4. the name with punctuation removed, when it carries any
//
// Each variant's candidate pages are tried in resolver order; the first page
// whose infobox yields valid genres wins.
func (e *GenreEngine) GetGenres(ctx context.Context, progress chan<- ProgressUpdate, name string) []string {
	queries := searchQueries(name)

	for i, query := range queries {
		e.sendProgress(progress, searchPagesUpdate(i+1, len(queries), query))

		candidates := e.resolver.Search(ctx, query)
		for j, candidate := range candidates {
			e.sendProgress(progress, fetchPageUpdate(j+1, len(candidates), candidate.Title))

			content, ok := e.resolver.PageContent(ctx, candidate.Title)
			if !ok {
				continue
			}

			extracted := e.extractGenres(ctx, content)
			if len(extracted) > 0 {
				e.logger.Info("extracted genres",
					"name", name,
					"query", query,
					"page", candidate.Title,
					"tier", candidate.Tier.String(),
					"count", len(extracted))
				e.sendProgress(progress, parseGenresUpdate(1, 1, extracted))
				return extracted
			}
		}
	}

	e.logger.Info("no genres found after all strategies", "name", name)
	return []string{}
}

// extractGenres parses the page's genre fields and runs every raw candidate
// through validation and normalization. Deduplication is case-insensitive on
// the normalized form; order is first-seen; the result is capped at 8.
func (e *GenreEngine) extractGenres(ctx context.Context, content string) []string {
	var result []string
	seen := map[string]bool{}

	for _, field := range wikitext.ExtractGenreFields(content) {
		for _, raw := range wikitext.SplitCandidates(field) {
			if !e.validator.IsValid(ctx, raw) {
				continue
			}

			normalized := genres.Normalize(raw)
			if normalized == "" {
				continue
			}

			key := shared.NormalizeKey(normalized)
			if seen[key] {
				continue
			}
			seen[key] = true

			result = append(result, normalized)
			if len(result) >= maxGenres {
				return result
			}
		}
	}

	return result
}

// FetchAndStore looks up the artist, extracts its genres, and replaces the
// stored association set in one transaction. Extraction coming up empty is
// not an error and leaves the stored set untouched; a missing artist or a
// store failure is.
func (e *GenreEngine) FetchAndStore(ctx context.Context, progress chan<- ProgressUpdate, artistID string) ([]string, error) {
	artist, err := e.artists.Get(artistID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrArtistNotFound, artistID)
	}

	extracted := e.GetGenres(ctx, progress, artist.Name())
	if len(extracted) == 0 {
		return []string{}, nil
	}

	e.sendProgress(progress, storeGenresUpdate(1, 1, artist.Name()))

	if err := e.store.ReplaceArtistGenres(artist.ID(), extracted); err != nil {
		return nil, fmt.Errorf("failed to store genres for %s: %w", artist.Name(), err)
	}

	e.logger.Info("stored genres", "artist", artist.Name(), "count", len(extracted))
	return extracted, nil
}

// Batch runs FetchAndStore across artists that have no genre rows yet,
// spacing upstream work with a rate limiter. Per-artist failures are recorded
// and the run continues; only a cancelled context or a worklist query failure
// aborts the whole batch.
func (e *GenreEngine) Batch(ctx context.Context, progress chan<- ProgressUpdate, opts BatchOpts) (*BatchResult, error) {
	if opts.Size <= 0 {
		opts.Size = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 1.0
	}

	pending, err := e.artists.ListWithoutGenres()
	if err != nil {
		return nil, fmt.Errorf("failed to list artists without genres: %w", err)
	}
	if len(pending) > opts.Size {
		pending = pending[:opts.Size]
	}

	result := &BatchResult{
		TotalArtists: len(pending),
		Results:      make([]ArtistBatchResult, 0, len(pending)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	for i, artist := range pending {
		if err := limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("batch cancelled: %w", err)
		}

		e.sendProgress(progress, batchArtistUpdate(i+1, len(pending), artist.Name()))

		extracted, err := e.FetchAndStore(ctx, nil, artist.ID())
		entry := ArtistBatchResult{
			ArtistID:   artist.ID(),
			ArtistName: artist.Name(),
			Genres:     extracted,
			Error:      err,
		}
		result.Results = append(result.Results, entry)

		switch {
		case err != nil:
			result.Failed++
			e.logger.Warn("batch artist failed", "artist", artist.Name(), "error", err)
		case len(extracted) == 0:
			result.Empty++
		default:
			result.Enriched++
		}
	}

	return result, nil
}

// searchQueries builds the ordered variant list for a name. Variants that
// collapse to an already-present query are skipped.
func searchQueries(name string) []string {
	trimmed := strings.TrimSpace(name)

	queries := []string{trimmed}
	for _, suffix := range roleSuffixes {
		queries = append(queries, trimmed+suffix)
	}

	if stripped, found := strings.CutPrefix(strings.ToLower(trimmed), "the "); found {
		if rest := strings.TrimSpace(trimmed[len(trimmed)-len(stripped):]); rest != "" {
			queries = append(queries, rest)
		}
	}

	if strings.ContainsAny(trimmed, "$&.,") {
		if plain := StripPunctuation(trimmed); plain != "" && plain != trimmed {
			queries = append(queries, plain)
		}
	}

	return queries
}

// StripPunctuation removes every non-alphanumeric, non-space character,
// collapsing any whitespace runs left behind.
func StripPunctuation(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
