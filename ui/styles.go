package ui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	paneTitle  lipgloss.Style
	lineNumber lipgloss.Style
	added      lipgloss.Style
	removed    lipgloss.Style
	addedBg    lipgloss.Style
	removedBg  lipgloss.Style
	emphasis   lipgloss.Style
	paired     lipgloss.Style
	muted      lipgloss.Style
	selected   lipgloss.Style
	errorText  lipgloss.Style
	notice     lipgloss.Style
	toast      lipgloss.Style
	statusBar  lipgloss.Style
	directory  lipgloss.Style
	star       lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		paneTitle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		lineNumber: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		added:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		removed:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		addedBg:    lipgloss.NewStyle().Background(lipgloss.Color("22")),
		removedBg:  lipgloss.NewStyle().Background(lipgloss.Color("52")),
		emphasis:   lipgloss.NewStyle().Bold(true).Underline(true),
		paired:     lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		muted:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		selected:   lipgloss.NewStyle().Reverse(true),
		errorText:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		notice:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Italic(true),
		toast:      lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12")).Padding(0, 1),
		statusBar:  lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		directory:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		star:       lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	}
}
