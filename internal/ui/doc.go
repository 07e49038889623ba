// Package ui provides terminal styling for CLI output.
//
// A fixed [Palette] of lipgloss styles backs the exported render helpers
// ([Title], [Success], [Error], [Warn], [Help], [GenreList]) used by the
// command runner for human-readable output. Machine-readable output paths
// (--json, csv) bypass this package entirely.
package ui
