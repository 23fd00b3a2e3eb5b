package viewer

import (
	"curseddiff/assert"
	"curseddiff/catalog"
	"curseddiff/text"
	"strings"
	"testing"
)

func TestStatusOf(t *testing.T) {
	fc := func(s string) *catalog.FileContents { return &catalog.FileContents{Contents: s} }
	tests := []struct {
		name     string
		a, b     *catalog.FileContents
		expected FileStatus
	}{
		{"added", nil, fc("x"), StatusAdded},
		{"added empty old", fc(""), fc("x"), StatusAdded},
		{"removed", fc("x"), nil, StatusRemoved},
		{"modified", fc("x"), fc("y"), StatusModified},
		{"unchanged", fc("x"), fc("x"), StatusUnchanged},
		{"both missing", nil, nil, StatusUnchanged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusOf(tt.a, tt.b), "status")
		})
	}
}

func TestMatchingLine(t *testing.T) {
	al := text.Compare("a\nold\nc\n", "a\nnew\nextra\nc\n")

	right, ok := MatchingLine(al, Left, 1)
	assert.True(t, ok, "unchanged line matched")
	assert.Equal(t, 1, right, "unchanged partner")

	right, ok = MatchingLine(al, Left, 2)
	assert.True(t, ok, "replaced line matched")
	assert.Equal(t, 2, right, "first added line of the replacement")

	left, ok := MatchingLine(al, Right, 4)
	assert.True(t, ok, "trailing unchanged")
	assert.Equal(t, 3, left, "shifted partner")

	_, ok = MatchingLine(al, Left, 99)
	assert.False(t, ok, "out of range")
	_, ok = MatchingLine(nil, Left, 1)
	assert.False(t, ok, "nil alignment")
}

func TestLanguage(t *testing.T) {
	assert.Equal(t, "Go", Language("cmd/main.go"), "go")
	assert.Equal(t, "Python", Language("x.py"), "python")
	assert.Equal(t, "Text", Language("README.unknownext"), "fallback")
}

func TestHighlighterLines(t *testing.T) {
	h := NewHighlighter("monokai")
	src := []string{"package main", "", "/* a", "b */", "func main() {}"}

	out := h.Lines("main.go", src)
	assert.Len(t, len(src), out, "one output per line")
	assert.Contains(t, out[0], "package", "keyword kept")
	assert.Contains(t, out[0], "\x1b[", "colored")
	assert.False(t, strings.Contains(out[3], "\n"), "no embedded newlines")
	assert.Len(t, 0, h.Lines("x.go", nil), "empty input")
}
