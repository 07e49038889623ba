// Package models defines domain entities and persistence interfaces for the Jammy genre enrichment service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs produced while resolving an artist's page
//   - [PageCandidate] : A knowledge-base article considered as the source of an artist's genres
//   - [Tier] : Music-relevance priority classification for page candidates
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Artist] : Musical performer tracked by name and optional Spotify ID
//   - [Genre] : Normalized music-style label shared across artists
//   - [ArtistGenre] : Junction row binding an artist to a genre with source and confidence
//
// Persistent entities implement the Model interface providing ID generation, timestamps, and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
