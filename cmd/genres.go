package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jammyapp/jammy/internal/formatter"
	"github.com/jammyapp/jammy/internal/repositories"
	"github.com/jammyapp/jammy/internal/shared"
	"github.com/jammyapp/jammy/internal/tasks"
	"github.com/jammyapp/jammy/internal/ui"
	"github.com/urfave/cli/v3"
)

// GenresLookup extracts genres for a name without touching the database.
func (r *Runner) GenresLookup(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: artist name", shared.ErrMissingArgument)
	}

	engine := tasks.NewGenreEngine(r.resolver, r.validator, nil, nil, r.logger)

	extracted := engine.GetGenres(ctx, nil, name)

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"name": name, "genres": extracted}, true)
	}

	r.writePlain("%s\n", ui.Title(name))
	r.writePlain("%s\n", ui.GenreList(extracted))
	return nil
}

// GenresFetch extracts and stores genres for one stored artist, addressed by
// ID or by name.
func (r *Runner) GenresFetch(ctx context.Context, cmd *cli.Command) error {
	artistID := cmd.String("artist-id")
	name := cmd.String("name")

	if artistID == "" && name == "" {
		return fmt.Errorf("%w: either --artist-id or --name must be provided", shared.ErrMissingArgument)
	}
	if artistID != "" && name != "" {
		return fmt.Errorf("%w: cannot specify both --artist-id and --name", shared.ErrInvalidArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	artistRepo := repositories.NewArtistRepository(db)

	if artistID == "" {
		artist, err := artistRepo.GetByName(name)
		if err != nil {
			return fmt.Errorf("%w: %s", shared.ErrArtistNotFound, name)
		}
		artistID = artist.ID()
	}

	engine := r.newEngine(db)

	extracted, err := engine.FetchAndStore(ctx, nil, artistID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"artist_id": artistID, "genres": extracted}, true)
	}

	if len(extracted) == 0 {
		r.writePlain("%s\n", ui.Warn("No genres found"))
		return nil
	}

	r.writePlain("%s\n", ui.Success(fmt.Sprintf("Stored %d genres", len(extracted))))
	r.writePlain("%s\n", ui.GenreList(extracted))
	return nil
}

// GenresBatch enriches artists that have no genres yet, rendering progress as
// it goes.
func (r *Runner) GenresBatch(ctx context.Context, cmd *cli.Command) error {
	opts := tasks.BatchOpts{
		Size:      int(cmd.Int("batch-size")),
		RateLimit: cmd.Float("rate"),
	}
	if opts.Size <= 0 {
		opts.Size = r.config.Batch.Size
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = r.config.Batch.RateLimit
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	engine := r.newEngine(db)

	progress := make(chan tasks.ProgressUpdate, 64)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			if update.Phase == tasks.BatchArtists {
				r.writePlain("%s\n", ui.Help(update.Message))
			}
		}
	}()

	result, err := engine.Batch(ctx, progress, opts)
	close(progress)
	wg.Wait()
	if err != nil {
		return err
	}

	r.writePlainHeader("Batch Complete")
	r.writePlain("%s\n", ui.Success(fmt.Sprintf("Enriched: %d", result.Enriched)))
	r.writePlain("%s\n", ui.Warn(fmt.Sprintf("No genres: %d", result.Empty)))
	if result.Failed > 0 {
		r.writePlain("%s\n", ui.Error(fmt.Sprintf("Failed: %d", result.Failed)))
	}

	if path := cmd.String("output"); path != "" {
		entries := make([]formatter.ArtistGenres, 0, len(result.Results))
		for _, entry := range result.Results {
			entries = append(entries, formatter.ArtistGenres{
				Name:   entry.ArtistName,
				Genres: entry.Genres,
			})
		}
		written, err := formatter.WriteReport(formatter.NewReport("Genre Enrichment", entries), path)
		if err != nil {
			return err
		}
		r.writePlain("%s\n", ui.Success(fmt.Sprintf("Report written to %s", written)))
	}

	return nil
}
