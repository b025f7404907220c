// Package render prints report highlights for terminals.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yx-aesthete/sejm-info/internal/domain"
)

var (
	colorMuted = lipgloss.Color("#8b949e")
	colorBlue  = lipgloss.Color("#58a6ff")
	colorAmber = lipgloss.Color("#d29922")
	colorGreen = lipgloss.Color("#3fb950")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true).
			BorderBottom(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colorMuted)

	lineStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	emptyStyle = lipgloss.NewStyle().
			Foreground(colorAmber).
			PaddingLeft(2)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	bulletStyle = lipgloss.NewStyle().Foreground(colorGreen)
)

// Section is one named report to print.
type Section struct {
	Name   string
	Report domain.Report
}

// Highlights writes every section as a titled block of highlight lines.
func Highlights(w io.Writer, sections []Section) error {
	blocks := make([]string, 0, len(sections))
	for _, section := range sections {
		blocks = append(blocks, block(section))
	}
	_, err := fmt.Fprintln(w, strings.Join(blocks, "\n\n"))
	return err
}

func block(section Section) string {
	lines := []string{titleStyle.Render(section.Name)}

	style := lineStyle
	if section.Report.IsEmpty() {
		style = emptyStyle
	}
	for _, line := range section.Report.Highlights() {
		lines = append(lines, style.Render(bulletStyle.Render("•")+" "+line))
	}

	generated := section.Report.GeneratedTime().UTC().Format("2006-01-02 15:04 MST")
	lines = append(lines, footerStyle.Render("generated "+generated))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
