package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jammyapp/jammy/internal/formatter"
	"github.com/jammyapp/jammy/internal/models"
	"github.com/jammyapp/jammy/internal/repositories"
	"github.com/jammyapp/jammy/internal/shared"
	"github.com/jammyapp/jammy/internal/ui"
	"github.com/urfave/cli/v3"
)

// ArtistsAdd inserts a new artist into the database.
func (r *Runner) ArtistsAdd(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: artist name", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewArtistRepository(db)

	if existing, err := repo.GetByName(name); err == nil {
		r.writePlain("%s\n", ui.Warn(fmt.Sprintf("Artist already exists: %s (%s)", existing.Name(), existing.ID())))
		return nil
	}

	artist := models.NewArtist(0, name, cmd.String("spotify-id"))
	if err := repo.Create(artist); err != nil {
		return fmt.Errorf("failed to add artist: %w", err)
	}

	r.logger.Info("artist added", "name", name, "id", artist.ID())
	r.writePlain("%s\n", ui.Success(fmt.Sprintf("Added %s (%s)", artist.Name(), artist.ID())))
	return nil
}

// ArtistsList prints stored artists with their genres.
func (r *Runner) ArtistsList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	artistRepo := repositories.NewArtistRepository(db)
	genreRepo := repositories.NewGenreRepository(db)

	artists, err := artistRepo.List(map[string]any{})
	if err != nil {
		return fmt.Errorf("failed to list artists: %w", err)
	}

	entries := make([]formatter.ArtistGenres, 0, len(artists))
	for _, artist := range artists {
		names, err := genreRepo.ListForArtist(artist.ID())
		if err != nil {
			return fmt.Errorf("failed to list genres for %s: %w", artist.Name(), err)
		}
		entries = append(entries, formatter.ArtistGenres{
			Name:      artist.Name(),
			SpotifyID: artist.SpotifyID(),
			Genres:    names,
		})
	}

	report := formatter.NewReport("Stored Artists", entries)

	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteReport(report, path)
		if err != nil {
			return err
		}
		r.writePlain("%s\n", ui.Success(fmt.Sprintf("Report written to %s", written)))
		return nil
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, true)
	}

	r.writePlainHeader(fmt.Sprintf("Artists (%d)", len(entries)))
	for _, entry := range entries {
		r.writePlain("%s\n", ui.Title(entry.Name))
		r.writePlain("%s\n", ui.GenreList(entry.Genres))
	}
	return nil
}
