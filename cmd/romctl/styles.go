package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	primaryColor = lipgloss.Color("#7D56F4")
	mutedColor   = lipgloss.Color("#666666")
	borderColor  = lipgloss.Color("#383838")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// styled returns s, or a plain style under --no-color.
func styled(s lipgloss.Style) lipgloss.Style {
	if noColor {
		return lipgloss.NewStyle()
	}
	return s
}

// renderTable draws rows under headers with a rounded border.
func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...)
	if !noColor {
		t = t.BorderStyle(lipgloss.NewStyle().Foreground(borderColor)).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle.Padding(0, 1)
				}
				return lipgloss.NewStyle().Padding(0, 1)
			})
	} else {
		t = t.StyleFunc(func(int, int) lipgloss.Style { return lipgloss.NewStyle().Padding(0, 1) })
	}
	return t.String()
}

// field renders "label: value" for summary lines.
func field(label, value string) string {
	return styled(labelStyle).Render(label+":") + " " + value
}
