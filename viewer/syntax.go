package viewer

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Language returns the display name of the language detected from path,
// or "Text" when nothing matches
func Language(path string) string {
	lexer := lexers.Match(path)
	if lexer == nil {
		return "Text"
	}
	return lexer.Config().Name
}

// Highlighter colors source lines for a terminal
type Highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
}

// NewHighlighter uses the named chroma style, falling back to the default
func NewHighlighter(styleName string) *Highlighter {
	base := styles.Get(styleName)
	if base == nil {
		base = styles.Fallback
	}
	// Backgrounds are left to lipgloss so added/removed shading shows through
	style, err := base.Builder().Transform(func(entry chroma.StyleEntry) chroma.StyleEntry {
		entry.Background = 0
		return entry
	}).Build()
	if err != nil {
		style = base
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	return &Highlighter{style: style, formatter: formatter}
}

// Lines highlights text as a whole, so multi-line tokens lex correctly, and
// returns one colored string per input line. On any failure it returns the
// plain lines.
func (h *Highlighter) Lines(path string, lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	source := strings.Join(lines, "\n")

	lexer := lexers.Match(path)
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		return lines
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return lines
	}

	tokenLines := chroma.SplitTokensIntoLines(iterator.Tokens())
	out := make([]string, len(lines))
	copy(out, lines)
	for i := 0; i < len(tokenLines) && i < len(out); i++ {
		line := tokenLines[i]
		for j := range line {
			line[j].Value = strings.TrimSuffix(line[j].Value, "\n")
		}
		var buf bytes.Buffer
		if err := h.formatter.Format(&buf, h.style, chroma.Literator(line...)); err != nil {
			continue
		}
		// Foreground-only resets keep the pane's background intact
		out[i] = strings.ReplaceAll(buf.String(), "\x1b[0m", "\x1b[39;22;23;24m")
	}
	return out
}
