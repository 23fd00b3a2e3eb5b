package text

import (
	"curseddiff/assert"
	"strings"
	"testing"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"trailing newline dropped", "a\nb\n", []string{"a", "b"}},
		{"single newline is one empty line", "\n", []string{""}},
		{"blank line kept", "a\n\nb\n", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitLines(tt.text), "lines")
		})
	}
}

func TestDiffLines_Replacement(t *testing.T) {
	hunks := DiffLines("x\ny\nz", "x\nq\nz")

	assert.Len(t, 4, hunks, "hunks")
	assert.Equal(t, KindUnchanged, hunks[0].Kind, "hunk 0 kind")
	assert.Equal(t, []string{"x"}, hunks[0].Lines, "hunk 0 lines")
	assert.Equal(t, KindRemoved, hunks[1].Kind, "hunk 1 kind")
	assert.Equal(t, []string{"y"}, hunks[1].Lines, "hunk 1 lines")
	assert.Equal(t, KindAdded, hunks[2].Kind, "hunk 2 kind")
	assert.Equal(t, []string{"q"}, hunks[2].Lines, "hunk 2 lines")
	assert.Equal(t, KindUnchanged, hunks[3].Kind, "hunk 3 kind")
	assert.Equal(t, "z", hunks[3].Text, "hunk 3 text")
}

func TestDiffLines_BothEmpty(t *testing.T) {
	assert.Len(t, 0, DiffLines("", ""), "hunks")
}

func TestDiffLines_EmptyOld(t *testing.T) {
	hunks := DiffLines("", "a\nb\n")

	assert.Len(t, 1, hunks, "hunks")
	assert.Equal(t, KindAdded, hunks[0].Kind, "kind")
	assert.Equal(t, []string{"a", "b"}, hunks[0].Lines, "lines")
}

func TestDiffLines_NoEmptyHunks(t *testing.T) {
	hunks := DiffLines("a\nb\nc\n", "a\nc\nd\n")
	for _, h := range hunks {
		assert.True(t, h.Text != "", "hunk text should not be empty")
		assert.GreaterOrEqual(t, len(h.Lines), 1, "hunk line count")
	}
}

func TestDiffLines_HunksPartitionInputs(t *testing.T) {
	oldText := "package main\n\nfunc a() {}\nfunc b() {}\n"
	newText := "package main\n\nimport \"fmt\"\n\nfunc b() {}\nfunc c() {}"

	var oldBuilt, newBuilt strings.Builder
	for _, h := range DiffLines(oldText, newText) {
		if h.Kind != KindAdded {
			oldBuilt.WriteString(h.Text)
		}
		if h.Kind != KindRemoved {
			newBuilt.WriteString(h.Text)
		}
	}

	assert.Equal(t, oldText, oldBuilt.String(), "old text rebuilt from hunks")
	assert.Equal(t, newText, newBuilt.String(), "new text rebuilt from hunks")
}

type named struct{ name string }

func (n named) String() string { return n.name }

func TestAsText(t *testing.T) {
	var nilString *string
	s := "hello"

	assert.Equal(t, "", AsText(nil), "nil")
	assert.Equal(t, "", AsText(nilString), "nil string pointer")
	assert.Equal(t, "hello", AsText(&s), "string pointer")
	assert.Equal(t, "bytes", AsText([]byte("bytes")), "bytes")
	assert.Equal(t, "stringer", AsText(named{"stringer"}), "stringer")
	assert.Equal(t, "42", AsText(42), "int")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "unchanged", KindUnchanged.String(), "unchanged")
	assert.Equal(t, "added", KindAdded.String(), "added")
	assert.Equal(t, "removed", KindRemoved.String(), "removed")
	assert.Equal(t, "unknown", Kind(9).String(), "unknown")
}

func TestUnifiedDiff(t *testing.T) {
	out, err := UnifiedDiff("x.txt", "y.txt", "a\nb\n", "a\nc\n", 3)

	assert.NoError(t, err, "UnifiedDiff")
	assert.Contains(t, out, "--- a/x.txt", "from header")
	assert.Contains(t, out, "+++ b/y.txt", "to header")
	assert.Contains(t, out, "-b", "removed line")
	assert.Contains(t, out, "+c", "added line")
}

func TestUnifiedDiff_MissingSide(t *testing.T) {
	out, err := UnifiedDiff("", "new.txt", "", "a\n", 3)

	assert.NoError(t, err, "UnifiedDiff")
	assert.Contains(t, out, "--- /dev/null", "missing side header")
	assert.Contains(t, out, "+a", "added line")
}
