// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles database initialization.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize database and run migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// artistsCommand handles artist management operations
func artistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "artists",
		Aliases: []string{"artist"},
		Usage:   "Manage stored artists",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add an artist to the database",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "spotify-id",
						Usage: "Spotify catalog ID for the artist",
					},
				},
				Action: r.ArtistsAdd,
			},
			{
				Name:  "list",
				Usage: "List stored artists with their genres",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write a report file (.csv, .md, .json, .txt by extension)",
					},
				},
				Action: r.ArtistsList,
			},
		},
	}
}

// genresCommand handles genre extraction operations
func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "genres",
		Aliases: []string{"genre"},
		Usage:   "Extract artist genres from Wikipedia",
		Commands: []*cli.Command{
			{
				Name:  "lookup",
				Usage: "Extract genres for a name without persisting anything",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.GenresLookup,
			},
			{
				Name:  "fetch",
				Usage: "Fetch and store genres for one stored artist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "artist-id",
						Usage: "Artist ID to enrich",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Artist name to enrich (looked up in the database)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.GenresFetch,
			},
			{
				Name:  "batch",
				Usage: "Enrich all artists that have no genres yet",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "batch-size",
						Aliases: []string{"n"},
						Usage:   "Maximum number of artists to process",
						Value:   10,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Upstream requests per second",
						Value: 1.0,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write a report file (.csv, .md, .json, .txt by extension)",
					},
				},
				Action: r.GenresBatch,
			},
		},
	}
}
