package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jammyapp/jammy/internal/models"
	"github.com/jammyapp/jammy/internal/shared"
	tu "github.com/jammyapp/jammy/internal/testing"
	"github.com/urfave/cli/v3"
)

// newTestRunner builds a Runner over a migrated temp database and a canned
// resolver, capturing output in a buffer.
func newTestRunner(t *testing.T, resolver *tu.MockResolver) (*Runner, *bytes.Buffer) {
	t.Helper()

	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(t.TempDir(), "jammy_test.db")

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	db.Close()

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:   config,
		Resolver: resolver,
		Logger:   shared.NewLogger(&bytes.Buffer{}),
		Output:   output,
	})

	return runner, output
}

// run invokes the CLI with the given args against a fresh command tree.
func run(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()

	app := &cli.Command{
		Name:     "jammy",
		Commands: runner.register(),
	}
	return app.Run(context.Background(), append([]string{"jammy"}, args...))
}

func TestNewRunner(t *testing.T) {
	t.Run("with all dependencies provided", func(t *testing.T) {
		config := shared.DefaultConfig()
		logger := shared.NewLogger(nil)
		output := &bytes.Buffer{}
		resolver := &tu.MockResolver{}

		runner := NewRunner(RunnerOpts{
			Config:   config,
			Logger:   logger,
			Output:   output,
			Resolver: resolver,
		})

		if runner.config != config {
			t.Error("expected config to be set")
		}
		if runner.logger != logger {
			t.Error("expected logger to be set")
		}
		if runner.output != output {
			t.Error("expected output to be set")
		}
		if runner.validator == nil {
			t.Error("expected validator to be built")
		}
	})

	t.Run("with nil config uses defaults", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})

		if runner.config == nil {
			t.Error("expected default config to be set")
		}
	})

	t.Run("with nil output uses stdout", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})

		if runner.output != os.Stdout {
			t.Error("expected output to default to os.Stdout")
		}
	})
}

func TestSetup(t *testing.T) {
	t.Run("creates config and database", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.toml")
		dbPath := filepath.Join(dir, "jammy.db")

		config := shared.DefaultConfig()
		config.Database.Path = dbPath
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Config: config,
			Logger: shared.NewLogger(&bytes.Buffer{}),
			Output: output,
		})

		// Pre-create the config file so Setup uses the temp database path.
		data := "[database]\npath = \"" + strings.ReplaceAll(dbPath, "\\", "\\\\") + "\"\n"
		if err := os.WriteFile(configPath, []byte(data), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if err := run(t, runner, "setup", "--config", configPath); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		tu.AssertFileExists(t, dbPath)
	})
}

func TestArtistsCommands(t *testing.T) {
	t.Run("add and list", func(t *testing.T) {
		runner, output := newTestRunner(t, &tu.MockResolver{})

		if err := run(t, runner, "artists", "add", "Beyoncé", "--spotify-id", "6vWDO969PvNqNYHIOW5v0m"); err != nil {
			t.Fatalf("artists add failed: %v", err)
		}
		if !strings.Contains(output.String(), "Added Beyoncé") {
			t.Errorf("expected add confirmation, got %q", output.String())
		}

		output.Reset()
		if err := run(t, runner, "artists", "list"); err != nil {
			t.Fatalf("artists list failed: %v", err)
		}
		if !strings.Contains(output.String(), "Beyoncé") {
			t.Errorf("expected artist in listing, got %q", output.String())
		}
	})

	t.Run("add duplicate warns", func(t *testing.T) {
		runner, output := newTestRunner(t, &tu.MockResolver{})

		if err := run(t, runner, "artists", "add", "Drake"); err != nil {
			t.Fatalf("artists add failed: %v", err)
		}
		output.Reset()
		if err := run(t, runner, "artists", "add", "Drake"); err != nil {
			t.Fatalf("duplicate add should not error: %v", err)
		}
		if !strings.Contains(output.String(), "already exists") {
			t.Errorf("expected duplicate warning, got %q", output.String())
		}
	})

	t.Run("add requires name", func(t *testing.T) {
		runner, _ := newTestRunner(t, &tu.MockResolver{})

		if err := run(t, runner, "artists", "add"); err == nil {
			t.Error("expected error for missing name")
		}
	})
}

func TestGenresCommands(t *testing.T) {
	beyonceResolver := &tu.MockResolver{
		Candidates: map[string][]models.PageCandidate{
			"Beyoncé": {{Title: "Beyoncé", Tier: models.TierKeyword}},
		},
		Pages: map[string]string{
			"Beyoncé": "| genre = {{flatlist|[[R&B]]|[[Pop music|Pop]]|[[Hip hop music|Hip hop]]}}\n}}",
		},
	}

	t.Run("lookup", func(t *testing.T) {
		runner, output := newTestRunner(t, beyonceResolver)

		if err := run(t, runner, "genres", "lookup", "Beyoncé"); err != nil {
			t.Fatalf("genres lookup failed: %v", err)
		}
		for _, want := range []string{"R&B", "pop", "Hip Hop"} {
			if !strings.Contains(output.String(), want) {
				t.Errorf("expected %q in output, got %q", want, output.String())
			}
		}
	})

	t.Run("lookup json", func(t *testing.T) {
		runner, output := newTestRunner(t, beyonceResolver)

		if err := run(t, runner, "genres", "lookup", "Beyoncé", "--json"); err != nil {
			t.Fatalf("genres lookup failed: %v", err)
		}
		if !strings.Contains(output.String(), "\"genres\"") {
			t.Errorf("expected JSON output, got %q", output.String())
		}
	})

	t.Run("fetch by name stores genres", func(t *testing.T) {
		runner, output := newTestRunner(t, beyonceResolver)

		if err := run(t, runner, "artists", "add", "Beyoncé"); err != nil {
			t.Fatalf("artists add failed: %v", err)
		}

		output.Reset()
		if err := run(t, runner, "genres", "fetch", "--name", "Beyoncé"); err != nil {
			t.Fatalf("genres fetch failed: %v", err)
		}
		if !strings.Contains(output.String(), "Stored 3 genres") {
			t.Errorf("expected store confirmation, got %q", output.String())
		}

		output.Reset()
		if err := run(t, runner, "artists", "list"); err != nil {
			t.Fatalf("artists list failed: %v", err)
		}
		if !strings.Contains(output.String(), "Hip Hop") {
			t.Errorf("expected stored genres in listing, got %q", output.String())
		}
	})

	t.Run("fetch unknown artist", func(t *testing.T) {
		runner, _ := newTestRunner(t, beyonceResolver)

		if err := run(t, runner, "genres", "fetch", "--name", "Nobody"); err == nil {
			t.Error("expected error for unknown artist")
		}
	})

	t.Run("fetch requires exactly one selector", func(t *testing.T) {
		runner, _ := newTestRunner(t, beyonceResolver)

		if err := run(t, runner, "genres", "fetch"); err == nil {
			t.Error("expected error when neither selector given")
		}
		if err := run(t, runner, "genres", "fetch", "--artist-id", "x", "--name", "y"); err == nil {
			t.Error("expected error when both selectors given")
		}
	})

	t.Run("batch enriches pending artists", func(t *testing.T) {
		runner, output := newTestRunner(t, beyonceResolver)

		for _, name := range []string{"Beyoncé", "Unknown Artist"} {
			if err := run(t, runner, "artists", "add", name); err != nil {
				t.Fatalf("artists add failed: %v", err)
			}
		}

		output.Reset()
		reportPath := filepath.Join(t.TempDir(), "report.csv")
		if err := run(t, runner, "genres", "batch", "--rate", "1000", "--output", reportPath); err != nil {
			t.Fatalf("genres batch failed: %v", err)
		}

		if !strings.Contains(output.String(), "Enriched: 1") {
			t.Errorf("expected one enrichment, got %q", output.String())
		}
		if !strings.Contains(output.String(), "No genres: 1") {
			t.Errorf("expected one empty result, got %q", output.String())
		}

		report := tu.MustReadFile(t, reportPath)
		if !strings.Contains(report, "R&B; pop; Hip Hop") {
			t.Errorf("expected genres in report, got %q", report)
		}
	})
}
