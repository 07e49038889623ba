// package formatter provides functions to export artist genre data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jammyapp/jammy/internal/shared"
)

// ArtistGenres is one artist's row in a genre report.
type ArtistGenres struct {
	Name      string   `json:"name"`
	SpotifyID string   `json:"spotify_id,omitempty"`
	Genres    []string `json:"genres"`
}

// Report is the exportable outcome of an enrichment run or listing.
type Report struct {
	Title     string         `json:"title"`
	Generated time.Time      `json:"generated"`
	Artists   []ArtistGenres `json:"artists"`
}

// NewReport creates a Report stamped with the current time.
func NewReport(title string, artists []ArtistGenres) *Report {
	return &Report{Title: title, Generated: time.Now(), Artists: artists}
}

// ExportToCSV converts a Report to CSV format with columns: Artist, SpotifyID, Genres
//
// Genres are joined with "; " so each artist stays on one row.
func ExportToCSV(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Artist", "SpotifyID", "Genres"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, artist := range report.Artists {
		record := []string{
			artist.Name,
			artist.SpotifyID,
			strings.Join(artist.Genres, "; "),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a Report to Markdown format
func ExportToMarkdown(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", report.Title))
	buf.WriteString(fmt.Sprintf("**Artists**: %d\n", len(report.Artists)))
	buf.WriteString(fmt.Sprintf("**Generated**: %s\n\n", report.Generated.Format(time.RFC3339)))

	buf.WriteString("## Artists\n\n")
	for i, artist := range report.Artists {
		genrePart := "(none)"
		if len(artist.Genres) > 0 {
			genrePart = strings.Join(artist.Genres, ", ")
		}
		buf.WriteString(fmt.Sprintf("%d. %s — %s\n", i+1, artist.Name, genrePart))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Report to plain text format
func ExportToText(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Report: %s\n", report.Title))
	buf.WriteString(fmt.Sprintf("Artists: %d\n\n", len(report.Artists)))

	for i, artist := range report.Artists {
		buf.WriteString(fmt.Sprintf("%d. %s: %s\n", i+1, artist.Name, strings.Join(artist.Genres, ", ")))
	}

	return buf.Bytes(), nil
}

// ToJSON generates a JSON representation of the report
func ToJSON(report *Report) ([]byte, error) {
	return shared.MarshalJSON(report, true)
}

// WriteReport exports a report to the given path, choosing the format from the
// file extension (.csv, .md, .json, anything else plain text).
func WriteReport(report *Report, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("genres_%d.txt", report.Generated.Unix())
	}

	var (
		data []byte
		err  error
	)
	switch {
	case strings.HasSuffix(path, ".csv"):
		data, err = ExportToCSV(report)
	case strings.HasSuffix(path, ".md"):
		data, err = ExportToMarkdown(report)
	case strings.HasSuffix(path, ".json"):
		data, err = ToJSON(report)
	default:
		data, err = ExportToText(report)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	return path, nil
}
