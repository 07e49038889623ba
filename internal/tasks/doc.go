// Package tasks orchestrates genre extraction from encyclopedia pages with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines three operations:
//
//  1. [Engine.GetGenres] : Resolve an artist name to genres
//     - Searches for candidate pages with name-variant escalation
//     - Extracts and splits the infobox genre fields
//     - Validates, normalizes, dedupes, and caps the result
//
//  2. [Engine.FetchAndStore] : GetGenres plus transactional persistence
//     - Replaces the artist's stored genre set atomically
//     - An empty extraction clears stored genres rather than failing
//
//  3. [Engine.Batch] : Enrich every artist still missing genres
//     - Rate-limited against the upstream API
//     - Continues past per-artist failures and reports totals
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Implementation
//
// [GenreEngine] implements [Engine] with dependencies on:
//   - [Resolver] : encyclopedia search and page retrieval (services.WikipediaService)
//   - [ArtistStore] / [GenreStore] : persistence layer (repositories)
//   - genres.Validator and genres.Normalize for candidate filtering
package tasks
