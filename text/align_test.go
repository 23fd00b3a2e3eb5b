package text

import (
	"curseddiff/assert"
	"testing"
)

func contents(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Content
	}
	return out
}

func TestBuildAlignment_ReplacementScenario(t *testing.T) {
	a := Compare("x\ny\nz", "x\nq\nz")

	assert.Equal(t, []Line{
		{Number: 1, Content: "x", Kind: KindUnchanged},
		{Number: 2, Content: "y", Kind: KindRemoved},
		{Number: 3, Content: "z", Kind: KindUnchanged},
	}, a.Left, "left lines")
	assert.Equal(t, []Line{
		{Number: 1, Content: "x", Kind: KindUnchanged},
		{Number: 2, Content: "q", Kind: KindAdded},
		{Number: 3, Content: "z", Kind: KindUnchanged},
	}, a.Right, "right lines")
	assert.Equal(t, Stats{Added: 1, Removed: 1, Unchanged: 2}, a.Stats, "stats")

	assert.Len(t, 4, a.Connectors, "connectors")
	removed := a.Connectors[1]
	assert.Equal(t, KindRemoved, removed.Kind, "removed connector kind")
	assert.Equal(t, 2, removed.Left, "removed left")
	assert.False(t, removed.HasRight(), "removed precedes any added line in its window")
	assert.Equal(t, 1, removed.RightAnchor, "removed right anchor")

	added := a.Connectors[2]
	assert.Equal(t, KindAdded, added.Kind, "added connector kind")
	assert.Equal(t, 2, added.Left, "added links back to removed line")
	assert.Equal(t, 2, added.Right, "added right")

	groups := GroupConnectors(a.Connectors, DefaultProximity)
	assert.Len(t, 1, groups, "one replace blob")
	assert.True(t, groups[0].Replace, "replace")
	assert.Equal(t, KindRemoved, groups[0].Kind, "kind of the first run")
	assert.Equal(t, Range{Min: 2, Max: 2}, groups[0].Left, "left range")
	assert.Equal(t, Range{Min: 2, Max: 2}, groups[0].Right, "right range")
	assert.Len(t, 2, groups[0].Items, "removed and added connectors")
}

func TestBuildAlignment_BothEmpty(t *testing.T) {
	a := Compare("", "")

	assert.Len(t, 0, a.Left, "left")
	assert.Len(t, 0, a.Right, "right")
	assert.Len(t, 0, a.Connectors, "connectors")
	assert.Equal(t, Stats{}, a.Stats, "stats")
	assert.True(t, a.NoDifferences(), "no differences")
}

func TestBuildAlignment_NilHunks(t *testing.T) {
	a := BuildAlignment(nil)
	assert.True(t, a.NoDifferences(), "no differences")
	assert.Len(t, 0, a.Left, "left")
}

func TestBuildAlignment_Identical(t *testing.T) {
	text := "one\ntwo\nthree\n"
	a := Compare(text, text)

	assert.Equal(t, 0, a.Stats.Added, "added")
	assert.Equal(t, 0, a.Stats.Removed, "removed")
	assert.Equal(t, 3, a.Stats.Unchanged, "unchanged")
	assert.True(t, a.NoDifferences(), "no differences")
	assert.Len(t, 0, GroupConnectors(a.Connectors, DefaultProximity), "no blobs for unchanged lines")
}

func TestBuildAlignment_EmptyOld(t *testing.T) {
	a := Compare("", "a\nb\nc")

	assert.Len(t, 0, a.Left, "left")
	assert.Equal(t, []string{"a", "b", "c"}, contents(a.Right), "right contents")
	for _, l := range a.Right {
		assert.Equal(t, KindAdded, l.Kind, "right line kind")
	}
	for _, c := range a.Connectors {
		assert.False(t, c.HasLeft(), "pure insertion is unlinked on the left")
		assert.Equal(t, 0, c.LeftAnchor, "anchored before the first left line")
	}

	groups := GroupConnectors(a.Connectors, DefaultProximity)
	assert.Len(t, 1, groups, "groups")
	assert.Equal(t, Range{Min: 1, Max: 3}, groups[0].Right, "right range")
	assert.True(t, groups[0].Left.Empty(), "left range empty")
}

func TestBuildAlignment_EmptyNew(t *testing.T) {
	a := Compare("a\nb\n", "")

	assert.Len(t, 0, a.Right, "right")
	assert.Equal(t, Stats{Removed: 2}, a.Stats, "stats")
}

func TestBuildAlignment_PairingByProximity(t *testing.T) {
	// removed a, b then added c, d: each added line links to the nearest removed line
	hunks := []Hunk{
		{Kind: KindUnchanged, Lines: []string{"ctx"}},
		{Kind: KindRemoved, Lines: []string{"a", "b"}},
		{Kind: KindAdded, Lines: []string{"c", "d"}},
		{Kind: KindUnchanged, Lines: []string{"end"}},
		{Kind: KindAdded, Lines: []string{"tail"}},
	}
	a := BuildAlignment(hunks)

	var added []Connector
	for _, c := range a.Connectors {
		if c.Kind == KindAdded {
			added = append(added, c)
		}
	}
	assert.Len(t, 3, added, "added connectors")
	assert.Equal(t, 3, added[0].Left, "c links to b")
	assert.Equal(t, 3, added[1].Left, "d links to b")
	assert.False(t, added[2].HasLeft(), "insertion after unchanged line is unlinked")
	assert.Equal(t, 4, added[2].LeftAnchor, "anchored to end line")
}

func TestBuildAlignment_RemovedAfterAdded(t *testing.T) {
	hunks := []Hunk{
		{Kind: KindAdded, Lines: []string{"new"}},
		{Kind: KindRemoved, Lines: []string{"old"}},
	}
	a := BuildAlignment(hunks)

	assert.Len(t, 2, a.Connectors, "connectors")
	assert.False(t, a.Connectors[0].HasLeft(), "added before any removal")
	assert.Equal(t, 1, a.Connectors[1].Right, "removed links to preceding added")
}

func TestBuildAlignment_SkipsMalformedHunks(t *testing.T) {
	hunks := []Hunk{
		{Kind: Kind(42), Lines: []string{"bogus"}},
		{Kind: KindUnchanged},
		{Kind: KindUnchanged, Text: "a\nb\n"},
	}
	a := BuildAlignment(hunks)

	assert.Equal(t, []string{"a", "b"}, contents(a.Left), "lines derived from text")
	assert.Equal(t, Stats{Unchanged: 2}, a.Stats, "stats")
}

func TestBuildAlignment_Properties(t *testing.T) {
	pairs := []struct {
		name string
		old  string
		new  string
	}{
		{"edit middle", "a\nb\nc\nd\n", "a\nB\nc\nd\ne\n"},
		{"trailing newline added", "a\nb", "a\nb\n"},
		{"blank lines", "\n\nx\n\n", "x\n\n\n"},
		{"reorder", "1\n2\n3\n4\n5\n", "5\n4\n3\n2\n1\n"},
		{"disjoint", "left only\n", "right only\n"},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			a := Compare(tt.old, tt.new)

			assert.Equal(t, splitLines(tt.old), contents(a.Left), "left reproduces old text")
			assert.Equal(t, splitLines(tt.new), contents(a.Right), "right reproduces new text")
			assert.Equal(t, len(a.Right), a.Stats.Added+a.Stats.Unchanged, "right length")
			assert.Equal(t, len(a.Left), a.Stats.Removed+a.Stats.Unchanged, "left length")

			for i, l := range a.Left {
				assert.Equal(t, i+1, l.Number, "left numbering")
			}
			for i, l := range a.Right {
				assert.Equal(t, i+1, l.Number, "right numbering")
			}

			var leftUnchanged, rightUnchanged []string
			for _, l := range a.Left {
				if l.Kind == KindUnchanged {
					leftUnchanged = append(leftUnchanged, l.Content)
				}
			}
			for _, l := range a.Right {
				if l.Kind == KindUnchanged {
					rightUnchanged = append(rightUnchanged, l.Content)
				}
			}
			assert.Equal(t, leftUnchanged, rightUnchanged, "unchanged lines correspond")
		})
	}
}

func TestCountLines(t *testing.T) {
	left := []Line{{1, "a", KindUnchanged}, {2, "b", KindRemoved}}
	right := []Line{{1, "a", KindUnchanged}, {2, "c", KindAdded}, {3, "d", KindAdded}}

	assert.Equal(t, Stats{Added: 2, Removed: 1, Unchanged: 1}, CountLines(left, right), "stats")
}

func TestIntralineSpans(t *testing.T) {
	oldSpans, newSpans := IntralineSpans("Hello world", "Hello there")

	assert.Equal(t, []CharSpan{{Start: 6, End: 11}}, oldSpans, "old spans")
	assert.Equal(t, []CharSpan{{Start: 6, End: 11}}, newSpans, "new spans")
}

func TestIntralineSpans_Identical(t *testing.T) {
	oldSpans, newSpans := IntralineSpans("same", "same")
	assert.Nil(t, oldSpans, "old spans")
	assert.Nil(t, newSpans, "new spans")
}

func TestIntralineSpans_Append(t *testing.T) {
	oldSpans, newSpans := IntralineSpans("foo", "foobar")
	assert.Len(t, 0, oldSpans, "old spans")
	assert.Equal(t, []CharSpan{{Start: 3, End: 6}}, newSpans, "new spans")
}

func TestIntralineHighlights(t *testing.T) {
	a := Compare("x\nHello world\nz\n", "x\nHello there\nz\n")
	h := IntralineHighlights(a)

	assert.Equal(t, []CharSpan{{Start: 6, End: 11}}, h.Left[2], "left line 2")
	assert.Equal(t, []CharSpan{{Start: 6, End: 11}}, h.Right[2], "right line 2")
	assert.Len(t, 1, h.Left, "only paired lines highlighted")
}

func TestAlignmentToLuaFormat(t *testing.T) {
	a := Compare("x\ny\n", "x\nq\n")
	groups := GroupConnectors(a.Connectors, DefaultProximity)
	lua := a.ToLuaFormat(groups, "name", "main.go")

	assert.Equal(t, "main.go", lua["name"].(string), "extra field")
	assert.Len(t, 2, lua["left"].([]map[string]any), "left")
	assert.Len(t, 1, lua["groups"].([]map[string]any), "groups")
	assert.False(t, lua["noDifferences"].(bool), "noDifferences")

	blob := lua["groups"].([]map[string]any)[0]
	assert.Equal(t, "removed", blob["type"].(string), "group type")
	assert.True(t, blob["replace"].(bool), "replace")
	assert.Equal(t, 2, blob["leftStart"].(int), "left start")
	assert.Equal(t, 2, blob["rightStart"].(int), "right start")
}
