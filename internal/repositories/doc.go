// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// Artists support soft deletes via deleted_at timestamps and are excluded from queries once deleted.
//
// Key Implementations:
//   - [ArtistRepository] : Artist persistence with name and Spotify ID lookups
//   - [GenreRepository] : Shared genre rows with get-or-create semantics and
//     transactional replacement of an artist's genre set
//
// Sequence numbers provide stable, human-readable ordering (e.g., artist #42, genre #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
