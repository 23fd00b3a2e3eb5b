package ui

import (
	"fmt"
	"strconv"
	"strings"

	"curseddiff/text"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const gutterWidth = 3

const tabWidth = 4

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// fit truncates s to width display cells and pads it to exactly width
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) > width {
		s = truncate.StringWithTail(s, uint(width), "…")
	}
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// emphasize renders content with the byte ranges in spans styled by em
func emphasize(content string, spans []text.CharSpan, em lipgloss.Style) string {
	var b strings.Builder
	pos := 0
	for _, sp := range spans {
		if sp.Start < pos || sp.End > len(content) || sp.Start >= sp.End {
			continue
		}
		b.WriteString(expandTabs(content[pos:sp.Start]))
		b.WriteString(em.Render(expandTabs(content[sp.Start:sp.End])))
		pos = sp.End
	}
	b.WriteString(expandTabs(content[pos:]))
	return b.String()
}

// paneLines describes everything needed to draw one side of the diff
type paneLines struct {
	lines      []text.Line
	colored    []string // syntax-highlighted content per line, may be nil
	emphasis   map[int][]text.CharSpan
	marked     map[int]bool
	width      int
	lineHeight int
}

func numberWidth(n int) int {
	w := len(strconv.Itoa(n))
	if w < 3 {
		w = 3
	}
	return w
}

// renderPane returns one row per line, plus lineHeight-1 blank rows after each
func renderPane(st styles, p paneLines) []string {
	if p.lineHeight < 1 {
		p.lineHeight = 1
	}
	nw := numberWidth(len(p.lines))
	rows := make([]string, 0, len(p.lines)*p.lineHeight)
	blank := strings.Repeat(" ", max(p.width, 0))

	for i, line := range p.lines {
		marker, markerStyle := " ", st.muted
		switch line.Kind {
		case text.KindAdded:
			marker, markerStyle = "+", st.added
		case text.KindRemoved:
			marker, markerStyle = "-", st.removed
		}

		var content string
		if spans, ok := p.emphasis[line.Number]; ok && len(spans) > 0 {
			content = markerStyle.Render(emphasize(line.Content, spans, st.emphasis))
		} else if p.colored != nil && i < len(p.colored) {
			content = expandTabs(p.colored[i])
		} else if line.Kind != text.KindUnchanged {
			content = markerStyle.Render(expandTabs(line.Content))
		} else {
			content = expandTabs(line.Content)
		}

		number := st.lineNumber.Render(fmt.Sprintf("%*d", nw, line.Number))
		if p.marked[line.Number] {
			number = st.selected.Render(fmt.Sprintf("%*d", nw, line.Number))
		}
		rows = append(rows, fit(number+" "+markerStyle.Render(marker)+" "+content, p.width))
		for j := 1; j < p.lineHeight; j++ {
			rows = append(rows, blank)
		}
	}
	return rows
}

type gutterCell struct {
	glyph string
	kind  text.Kind
	pair  bool
}

// gutterGrid lays group spans out on rows. Column 0 marks the left span,
// column 2 the right span and column 1 joins the two sides. Later groups
// overwrite earlier ones.
func gutterGrid(groups []*text.ConnectorGroup, rows, lineHeight int) [][gutterWidth]gutterCell {
	grid := make([][gutterWidth]gutterCell, rows)
	set := func(row, col int, c gutterCell) {
		if row >= 0 && row < rows {
			grid[row][col] = c
		}
	}

	for _, g := range groups {
		left, right := g.Spans(lineHeight)
		pair := !g.Left.Empty() && !g.Right.Empty()

		if left.Height() > 0 {
			for r := left.Top; r < left.Bottom; r++ {
				set(r, 0, gutterCell{glyph: "▌", kind: g.Kind, pair: pair})
			}
		} else {
			set(left.Top, 0, gutterCell{glyph: "›", kind: g.Kind})
		}

		if right.Height() > 0 {
			for r := right.Top; r < right.Bottom; r++ {
				set(r, 2, gutterCell{glyph: "▐", kind: g.Kind, pair: pair})
			}
		} else {
			set(right.Top, 2, gutterCell{glyph: "‹", kind: g.Kind})
		}

		top, bottom := min(left.Top, right.Top), max(left.Bottom, right.Bottom)
		if bottom == top {
			bottom = top + 1
		}
		joint := "─"
		switch {
		case pair:
			joint = "═"
		case g.Kind == text.KindRemoved:
			joint = "◂"
		case g.Kind == text.KindAdded:
			joint = "▸"
		}
		for r := top; r < bottom; r++ {
			set(r, 1, gutterCell{glyph: joint, kind: g.Kind, pair: pair})
		}
	}
	return grid
}

func renderGutter(st styles, groups []*text.ConnectorGroup, rows, lineHeight int) []string {
	grid := gutterGrid(groups, rows, lineHeight)
	out := make([]string, rows)
	for i, row := range grid {
		var b strings.Builder
		for _, c := range row {
			if c.glyph == "" {
				b.WriteByte(' ')
				continue
			}
			style := st.added
			switch {
			case c.pair:
				style = st.paired
			case c.kind == text.KindRemoved:
				style = st.removed
			}
			b.WriteString(style.Render(c.glyph))
		}
		out[i] = b.String()
	}
	return out
}

func renderStats(st styles, s text.Stats) string {
	return strings.Join([]string{
		st.added.Render(fmt.Sprintf("+%d", s.Added)),
		st.removed.Render(fmt.Sprintf("-%d", s.Removed)),
		st.muted.Render(fmt.Sprintf("=%d", s.Unchanged)),
	}, " ")
}

// diffRows is the row count shared by both panes and the gutter
func diffRows(al *text.Alignment, lineHeight int) int {
	if al == nil {
		return 0
	}
	return max(len(al.Left), len(al.Right)) * max(lineHeight, 1)
}
