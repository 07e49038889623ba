package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// Title renders a section heading.
func Title(s string) string {
	return styles.title.Render(s)
}

// Success renders a completed-operation message.
func Success(s string) string {
	return styles.ok.Render(s)
}

// Error renders a failure message.
func Error(s string) string {
	return styles.err.Render(s)
}

// Warn renders a cautionary message.
func Warn(s string) string {
	return styles.warn.Render(s)
}

// Help renders secondary hint text.
func Help(s string) string {
	return styles.help.Render(s)
}

// GenreList renders genres as a bulleted list, one per line.
func GenreList(genres []string) string {
	if len(genres) == 0 {
		return styles.help.Render("(no genres)")
	}

	var b strings.Builder
	for i, genre := range genres {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("  • ")
		b.WriteString(genre)
	}
	return b.String()
}
