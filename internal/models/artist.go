package models

import (
	"fmt"
	"strings"
	"time"
)

// Artist is a musical performer tracked by name and optional Spotify ID.
type Artist struct {
	id        string
	sequence  int
	name      string
	spotifyID string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewArtist creates an Artist with the given sequence, name, and optional Spotify ID.
func NewArtist(sequence int, name, spotifyID string) *Artist {
	now := time.Now()
	return &Artist{
		sequence:  sequence,
		name:      name,
		spotifyID: spotifyID,
		createdAt: now,
		updatedAt: now,
	}
}

func (a *Artist) ID() string { return a.id }

func (a *Artist) Sequence() int { return a.sequence }

func (a *Artist) Name() string { return a.name }

func (a *Artist) SpotifyID() string { return a.spotifyID }

func (a *Artist) CreatedAt() time.Time { return a.createdAt }

func (a *Artist) UpdatedAt() time.Time { return a.updatedAt }

func (a *Artist) DeletedAt() *time.Time { return a.deletedAt }

func (a *Artist) SetID(id string) { a.id = id }

func (a *Artist) SetSequence(seq int) { a.sequence = seq }

func (a *Artist) SetName(name string) { a.name = name }

func (a *Artist) SetSpotifyID(id string) { a.spotifyID = id }

func (a *Artist) SetCreatedAt(t time.Time) { a.createdAt = t }

func (a *Artist) SetUpdatedAt(t time.Time) { a.updatedAt = t }

func (a *Artist) SetDeletedAt(t *time.Time) { a.deletedAt = t }

// Validate checks that the artist has a usable name.
func (a *Artist) Validate() error {
	if strings.TrimSpace(a.name) == "" {
		return fmt.Errorf("artist name is required")
	}
	if len(a.name) > 200 {
		return fmt.Errorf("artist name exceeds 200 characters")
	}
	return nil
}
