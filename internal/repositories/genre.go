package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jammyapp/jammy/internal/models"
	"github.com/jammyapp/jammy/internal/shared"
)

// GenreRepository manages shared genre rows and their artist associations.
//
// Genre rows are created lazily through [GenreRepository.GetOrCreate] and
// never deleted; artist associations are replaced wholesale in a single
// transaction so a re-extraction can never leave a partial set behind.
type GenreRepository struct {
	db *sql.DB
}

// NewGenreRepository creates a new GenreRepository with the given database connection
func NewGenreRepository(db *sql.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

// Get retrieves a genre by ID
func (r *GenreRepository) Get(id string) (*models.Genre, error) {
	query := `
		SELECT id, sequence, name, created_at
		FROM genres
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByName retrieves a genre by its exact stored name
func (r *GenreRepository) GetByName(name string) (*models.Genre, error) {
	query := `
		SELECT id, sequence, name, created_at
		FROM genres
		WHERE name = ?
	`

	return r.scanOne(r.db.QueryRow(query, name))
}

// GetOrCreate returns the genre row for name, inserting it first if missing.
func (r *GenreRepository) GetOrCreate(name string) (*models.Genre, error) {
	genre, err := r.GetByName(name)
	if err == nil {
		return genre, nil
	}

	sequence, err := NextSequence(r.db, "genres")
	if err != nil {
		return nil, fmt.Errorf("failed to generate sequence: %w", err)
	}

	genre = models.NewGenre(sequence, name)
	genre.SetID(shared.GenerateID())

	if err := genre.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO genres (id, sequence, name, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, genre.ID(), sequence, genre.Name(), genre.CreatedAt())
	if err != nil {
		// Concurrent insert of the same name; the UNIQUE row wins.
		if existing, getErr := r.GetByName(name); getErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to insert genre: %w", err)
	}

	return genre, nil
}

// List retrieves all genres ordered by sequence
func (r *GenreRepository) List() ([]*models.Genre, error) {
	query := `
		SELECT id, sequence, name, created_at
		FROM genres
		ORDER BY sequence ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	defer rows.Close()

	var genres []*models.Genre
	for rows.Next() {
		genre, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		genres = append(genres, genre)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return genres, nil
}

// ListForArtist retrieves an artist's genre names in stored order.
func (r *GenreRepository) ListForArtist(artistID string) ([]string, error) {
	query := `
		SELECT g.name
		FROM genres g
		JOIN artist_genres ag ON ag.genre_id = g.id
		WHERE ag.artist_id = ?
		ORDER BY ag.created_at ASC, g.sequence ASC
	`

	rows, err := r.db.Query(query, artistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query artist genres: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan genre name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return names, nil
}

// ReplaceArtistGenres swaps an artist's full genre set for the given names in
// one transaction. Genre rows are created as needed before the swap; the
// delete and inserts commit together, so readers never observe a partial set.
// An empty names slice clears the artist's genres.
func (r *GenreRepository) ReplaceArtistGenres(artistID string, names []string) error {
	genreIDs := make([]string, 0, len(names))
	for _, name := range names {
		genre, err := r.GetOrCreate(name)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrStoreFailed, err)
		}
		genreIDs = append(genreIDs, genre.ID())
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", shared.ErrStoreFailed, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM artist_genres WHERE artist_id = ?", artistID); err != nil {
		return fmt.Errorf("%w: failed to clear artist genres: %v", shared.ErrStoreFailed, err)
	}

	query := `
		INSERT INTO artist_genres (artist_id, genre_id, source, confidence, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	now := time.Now()
	for _, genreID := range genreIDs {
		_, err := tx.Exec(query, artistID, genreID, models.DefaultGenreSource, models.DefaultGenreConfidence, now)
		if err != nil {
			return fmt.Errorf("%w: failed to insert artist genre: %v", shared.ErrStoreFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit genre replacement: %v", shared.ErrStoreFailed, err)
	}

	return nil
}

// scanOne scans a single [sql.Row] into a [models.Genre]
func (r *GenreRepository) scanOne(row *sql.Row) (*models.Genre, error) {
	var (
		id        string
		sequence  int
		name      string
		createdAt time.Time
	)

	err := row.Scan(&id, &sequence, &name, &createdAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrGenreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan genre: %w", err)
	}

	return buildGenre(id, sequence, name, createdAt), nil
}

// scanRow scans a row from [sql.Rows] into a [models.Genre]
func (r *GenreRepository) scanRow(rows *sql.Rows) (*models.Genre, error) {
	var (
		id        string
		sequence  int
		name      string
		createdAt time.Time
	)

	err := rows.Scan(&id, &sequence, &name, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan genre: %w", err)
	}

	return buildGenre(id, sequence, name, createdAt), nil
}

func buildGenre(id string, sequence int, name string, createdAt time.Time) *models.Genre {
	genre := models.NewGenre(sequence, name)
	genre.SetID(id)
	genre.SetCreatedAt(createdAt)
	return genre
}
