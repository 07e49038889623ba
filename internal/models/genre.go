package models

import (
	"fmt"
	"strings"
	"time"
)

// Genre is a normalized music-style label. Rows are shared across artists and
// looked up get-or-create by name.
type Genre struct {
	id        string
	sequence  int
	name      string
	createdAt time.Time
}

// NewGenre creates a Genre with the given sequence and normalized name.
func NewGenre(sequence int, name string) *Genre {
	return &Genre{
		sequence:  sequence,
		name:      name,
		createdAt: time.Now(),
	}
}

func (g *Genre) ID() string { return g.id }

func (g *Genre) Sequence() int { return g.sequence }

func (g *Genre) Name() string { return g.name }

func (g *Genre) CreatedAt() time.Time { return g.createdAt }

// UpdatedAt satisfies [Model]; genre rows are immutable after creation.
func (g *Genre) UpdatedAt() time.Time { return g.createdAt }

func (g *Genre) SetID(id string) { g.id = id }

func (g *Genre) SetSequence(seq int) { g.sequence = seq }

func (g *Genre) SetCreatedAt(t time.Time) { g.createdAt = t }

// Validate checks that the genre name fits the storage contract.
func (g *Genre) Validate() error {
	if strings.TrimSpace(g.name) == "" {
		return fmt.Errorf("genre name is required")
	}
	if len(g.name) > 100 {
		return fmt.Errorf("genre name exceeds 100 characters")
	}
	return nil
}

// ArtistGenre binds an artist to a genre with provenance metadata.
// For a given artist the full set of rows is replaced on each successful
// extraction, never merged.
type ArtistGenre struct {
	ArtistID   string
	GenreID    string
	Source     string
	Confidence float64
	CreatedAt  time.Time
}

// DefaultGenreSource is the provenance recorded for extracted genres.
const DefaultGenreSource = "wikipedia"

// DefaultGenreConfidence is the confidence recorded for rule-extracted genres.
const DefaultGenreConfidence = 0.85
