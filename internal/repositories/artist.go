package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jammyapp/jammy/internal/models"
	"github.com/jammyapp/jammy/internal/shared"
)

// ArtistRepository implements models.Repository[*models.Artist].
//
// Handles artist persistence with soft delete support and lookups by name
// and Spotify catalog ID.
type ArtistRepository struct {
	db *sql.DB
}

// NewArtistRepository creates a new ArtistRepository with the given database connection
func NewArtistRepository(db *sql.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// Create inserts a new [models.Artist] into the database with generated ID and sequence
func (r *ArtistRepository) Create(artist *models.Artist) error {
	sequence, err := NextSequence(r.db, "artists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	artist.SetID(id)
	artist.SetSequence(sequence)

	if err := artist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO artists (id, sequence, name, spotify_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		artist.Name(),
		nullableString(artist.SpotifyID()),
		artist.CreatedAt(),
		artist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert artist: %w", err)
	}

	return nil
}

// Get retrieves an artist by ID, excluding soft-deleted artists
func (r *ArtistRepository) Get(id string) (*models.Artist, error) {
	query := `
		SELECT id, sequence, name, spotify_id, created_at, updated_at, deleted_at
		FROM artists
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByName retrieves an artist by exact name
func (r *ArtistRepository) GetByName(name string) (*models.Artist, error) {
	query := `
		SELECT id, sequence, name, spotify_id, created_at, updated_at, deleted_at
		FROM artists
		WHERE name = ? AND deleted_at IS NULL
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRow(query, name))
}

// GetBySpotifyID retrieves an artist by Spotify catalog ID
func (r *ArtistRepository) GetBySpotifyID(spotifyID string) (*models.Artist, error) {
	query := `
		SELECT id, sequence, name, spotify_id, created_at, updated_at, deleted_at
		FROM artists
		WHERE spotify_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, spotifyID))
}

// Update modifies an existing artist in the database
func (r *ArtistRepository) Update(artist *models.Artist) error {
	if err := artist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	artist.SetUpdatedAt(now)

	query := `
		UPDATE artists
		SET name = ?, spotify_id = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		artist.Name(),
		nullableString(artist.SpotifyID()),
		now,
		artist.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update artist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrArtistNotFound, artist.ID())
	}

	return nil
}

// Delete soft-deletes an artist by ID
func (r *ArtistRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE artists
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete artist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrArtistNotFound, id)
	}

	return nil
}

// List retrieves all artists matching the given criteria, excluding soft-deleted artists
func (r *ArtistRepository) List(criteria map[string]any) ([]*models.Artist, error) {
	query := `
		SELECT id, sequence, name, spotify_id, created_at, updated_at, deleted_at
		FROM artists
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " AND name = ?"
		args = append(args, name)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	var artists []*models.Artist
	for rows.Next() {
		artist, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return artists, nil
}

// ListWithoutGenres retrieves artists that have no genre rows yet, the batch
// extraction worklist.
func (r *ArtistRepository) ListWithoutGenres() ([]*models.Artist, error) {
	query := `
		SELECT a.id, a.sequence, a.name, a.spotify_id, a.created_at, a.updated_at, a.deleted_at
		FROM artists a
		LEFT JOIN artist_genres ag ON ag.artist_id = a.id
		WHERE a.deleted_at IS NULL AND ag.artist_id IS NULL
		ORDER BY a.sequence ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists without genres: %w", err)
	}
	defer rows.Close()

	var artists []*models.Artist
	for rows.Next() {
		artist, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return artists, nil
}

// scanOne scans a single [sql.Row] into a [models.Artist]
func (r *ArtistRepository) scanOne(row *sql.Row) (*models.Artist, error) {
	var (
		id        string
		sequence  int
		name      string
		spotifyID sql.NullString
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &name, &spotifyID, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrArtistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan artist: %w", err)
	}

	return buildArtist(id, sequence, name, spotifyID, createdAt, updatedAt, deletedAt), nil
}

// scanRow scans a row from [sql.Rows] into a [models.Artist]
func (r *ArtistRepository) scanRow(rows *sql.Rows) (*models.Artist, error) {
	var (
		id        string
		sequence  int
		name      string
		spotifyID sql.NullString
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &name, &spotifyID, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan artist: %w", err)
	}

	return buildArtist(id, sequence, name, spotifyID, createdAt, updatedAt, deletedAt), nil
}

func buildArtist(id string, sequence int, name string, spotifyID sql.NullString, createdAt, updatedAt time.Time, deletedAt sql.NullTime) *models.Artist {
	artist := models.NewArtist(sequence, name, spotifyID.String)
	artist.SetID(id)
	artist.SetCreatedAt(createdAt)
	artist.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		artist.SetDeletedAt(&deletedAt.Time)
	}
	return artist
}

// nullableString maps empty strings to NULL so the spotify_id UNIQUE
// constraint ignores artists added without one.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
