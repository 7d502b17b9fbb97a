package main

import "github.com/charmbracelet/lipgloss"

const defaultThemeName = "green_on_black"

// Theme is one retro color scheme rendered through lipgloss styles.
type Theme struct {
	Name string

	Title      lipgloss.Style
	PaneBorder lipgloss.Style
	ActivePane lipgloss.Style
	Bucket     lipgloss.Style
	Folder     lipgloss.Style
	File       lipgloss.Style
	CursorLine lipgloss.Style
	Selected   lipgloss.Style
	Status     lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Help       lipgloss.Style
}

func newTheme(name, fg, accent, dim, selBg, errFg, okFg string) Theme {
	return Theme{
		Name: name,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fg)).
			Padding(0, 1),
		PaneBorder: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(dim)).
			Padding(0, 1),
		ActivePane: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(accent)).
			Padding(0, 1),
		Bucket: lipgloss.NewStyle().
			Foreground(lipgloss.Color(accent)).
			Bold(true),
		Folder: lipgloss.NewStyle().
			Foreground(lipgloss.Color(accent)),
		File: lipgloss.NewStyle().
			Foreground(lipgloss.Color(fg)),
		CursorLine: lipgloss.NewStyle().
			Bold(true).
			Reverse(true),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color(selBg)),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color(accent)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(errFg)).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(okFg)).
			Bold(true),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(dim)),
	}
}

// The three retro schemes: phosphor green, amber terminal, DOS blue.
var themes = []Theme{
	newTheme("green_on_black", "#00cc00", "#ffff00", "#666666", "#ffffff", "#cc0000", "#00ff00"),
	newTheme("amber", "#ffb000", "#ffffff", "#806000", "#ffb000", "#ff4040", "#ffe080"),
	newTheme("dos_blue", "#ffffff", "#ffff55", "#5555ff", "#55ffff", "#ff5555", "#55ff55"),
}

// themeByName returns the named theme, or the default scheme when the
// name is unknown.
func themeByName(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// nextTheme cycles to the scheme after the named one.
func nextTheme(name string) Theme {
	for i, t := range themes {
		if t.Name == name {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}
