package ui

import (
	"strings"

	"curseddiff/config"
	"curseddiff/viewer"

	"github.com/charmbracelet/lipgloss"
)

// RenderSideBySide draws a computed result as plain terminal output, for
// non-interactive use
func RenderSideBySide(res viewer.Result, pathA, pathB string, width int, cfg config.Config) string {
	st := defaultStyles()
	al := res.Alignment
	if al == nil || res.State == viewer.StateNoDifferences {
		return st.notice.Render("No differences")
	}

	paneWidth := max((width-gutterWidth-2)/2, 10)
	lineHeight := max(cfg.LineHeight, 1)

	var coloredLeft, coloredRight []string
	if cfg.SyntaxHighlight {
		h := viewer.NewHighlighter(cfg.Theme)
		coloredLeft = h.Lines(pathA, contents(al.Left))
		coloredRight = h.Lines(pathB, contents(al.Right))
	}

	rows := diffRows(al, lineHeight)
	left := padRows(renderPane(st, paneLines{
		lines: al.Left, colored: coloredLeft, emphasis: res.Highlights.Left,
		width: paneWidth, lineHeight: lineHeight,
	}), rows, paneWidth)
	right := padRows(renderPane(st, paneLines{
		lines: al.Right, colored: coloredRight, emphasis: res.Highlights.Right,
		width: paneWidth, lineHeight: lineHeight,
	}), rows, paneWidth)
	gutter := renderGutter(st, res.Groups, rows, lineHeight)

	var b strings.Builder
	b.WriteString(st.header.Render(displayPath(pathA)+" ⟷ "+displayPath(pathB)) + "  " + renderStats(st, al.Stats) + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		strings.Join(left, "\n"), " ", strings.Join(gutter, "\n"), " ", strings.Join(right, "\n")))
	b.WriteByte('\n')
	return b.String()
}

func padRows(rows []string, n, width int) []string {
	blank := strings.Repeat(" ", width)
	for len(rows) < n {
		rows = append(rows, blank)
	}
	return rows
}
