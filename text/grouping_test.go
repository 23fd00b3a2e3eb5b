package text

import (
	"curseddiff/assert"
	"testing"
)

func added(left, right, leftAnchor int) Connector {
	return Connector{Kind: KindAdded, Left: left, Right: right, LeftAnchor: leftAnchor, RightAnchor: right}
}

func removed(left, right, rightAnchor int) Connector {
	return Connector{Kind: KindRemoved, Left: left, Right: right, LeftAnchor: left, RightAnchor: rightAnchor}
}

func TestGroupConnectors_Empty(t *testing.T) {
	assert.Len(t, 0, GroupConnectors(nil, DefaultProximity), "groups")
}

func TestGroupConnectors_FiltersUnchanged(t *testing.T) {
	connectors := []Connector{
		{Kind: KindUnchanged, Left: 1, Right: 1, LeftAnchor: 1, RightAnchor: 1},
		{Kind: KindUnchanged, Left: 2, Right: 2, LeftAnchor: 2, RightAnchor: 2},
	}
	assert.Len(t, 0, GroupConnectors(connectors, DefaultProximity), "groups")
}

func TestGroupConnectors_ConsecutiveAdditions(t *testing.T) {
	connectors := []Connector{
		added(0, 2, 1),
		added(0, 3, 1),
		added(0, 4, 1),
	}

	groups := GroupConnectors(connectors, DefaultProximity)

	assert.Len(t, 1, groups, "should be grouped into one")
	assert.Equal(t, KindAdded, groups[0].Kind, "group kind")
	assert.Equal(t, Range{Min: 2, Max: 4}, groups[0].Right, "right range")
	assert.True(t, groups[0].Left.Empty(), "left range")
	assert.Equal(t, 1, groups[0].LeftAnchor, "left anchor")
	assert.Len(t, 3, groups[0].Items, "items")
}

func TestGroupConnectors_WithinThreshold(t *testing.T) {
	// a gap of exactly the threshold still merges
	connectors := []Connector{
		removed(2, 0, 1),
		removed(5, 0, 1),
	}

	groups := GroupConnectors(connectors, 3)

	assert.Len(t, 1, groups, "groups")
	assert.Equal(t, Range{Min: 2, Max: 5}, groups[0].Left, "left range")
}

func TestGroupConnectors_BeyondThreshold(t *testing.T) {
	connectors := []Connector{
		removed(2, 0, 1),
		removed(6, 0, 1),
	}

	groups := GroupConnectors(connectors, 3)

	assert.Len(t, 2, groups, "groups")
	assert.Equal(t, Range{Min: 2, Max: 2}, groups[0].Left, "first range")
	assert.Equal(t, Range{Min: 6, Max: 6}, groups[1].Left, "second range")
}

func TestGroupConnectors_RightDistanceSplits(t *testing.T) {
	// left positions are close but the right side jumps
	connectors := []Connector{
		added(0, 2, 4),
		added(0, 20, 4),
	}

	groups := GroupConnectors(connectors, DefaultProximity)
	assert.Len(t, 2, groups, "groups")
}

func TestGroupConnectors_KindChangeSplits(t *testing.T) {
	// none of these link to each other, so each kind change starts a group
	connectors := []Connector{
		removed(2, 0, 1),
		added(0, 2, 2),
		removed(3, 0, 2),
	}

	groups := GroupConnectors(connectors, DefaultProximity)

	assert.Len(t, 3, groups, "groups")
	assert.Equal(t, KindRemoved, groups[0].Kind, "first kind")
	assert.Equal(t, KindAdded, groups[1].Kind, "second kind")
	assert.Equal(t, KindRemoved, groups[2].Kind, "third kind")
}

func TestGroupConnectors_ReplaceRunsShareOneGroup(t *testing.T) {
	// two removed lines followed by three added lines linked back to left line 3
	connectors := []Connector{
		removed(2, 0, 1),
		removed(3, 0, 1),
		added(3, 2, 3),
		added(3, 3, 3),
		added(3, 4, 3),
	}

	groups := GroupConnectors(connectors, DefaultProximity)

	assert.Len(t, 1, groups, "groups")
	assert.True(t, groups[0].Replace, "replace")
	assert.Equal(t, Range{Min: 2, Max: 3}, groups[0].Left, "left range")
	assert.Equal(t, Range{Min: 2, Max: 4}, groups[0].Right, "right range")
	assert.Len(t, 5, groups[0].Items, "items")
}

func TestGroupConnectors_AddedThenLinkedRemovedIsReplace(t *testing.T) {
	connectors := []Connector{
		added(0, 2, 1),
		removed(2, 2, 1),
	}

	groups := GroupConnectors(connectors, DefaultProximity)

	assert.Len(t, 1, groups, "groups")
	assert.Equal(t, KindAdded, groups[0].Kind, "kind of the first run")
	assert.True(t, groups[0].Replace, "replace")
	assert.Equal(t, Range{Min: 2, Max: 2}, groups[0].Left, "left range")
}

func TestGroupConnectors_PureInsertionAfterReplaceSplits(t *testing.T) {
	a := Compare("a\nb\nc\nd\n", "a\nB\nc\nnew\nd\n")

	groups := GroupConnectors(a.Connectors, DefaultProximity)

	assert.Len(t, 2, groups, "replace blob then insertion blob")
	assert.True(t, groups[0].Replace, "first is a replace")
	assert.False(t, groups[1].Replace, "second is a pure insertion")
	assert.Equal(t, KindAdded, groups[1].Kind, "insertion kind")
	assert.True(t, groups[1].Left.Empty(), "insertion has no left line")
}

func TestGroupConnectors_SeparatedInputIsOnePerConnector(t *testing.T) {
	var connectors []Connector
	for i := 0; i < 5; i++ {
		line := 1 + i*10
		connectors = append(connectors, removed(line, 0, line-1))
	}

	groups := GroupConnectors(connectors, DefaultProximity)

	assert.Len(t, 5, groups, "one group per connector")
	for i, g := range groups {
		assert.Len(t, 1, g.Items, "items")
		assert.Equal(t, connectors[i], g.Items[0], "item")
	}
}

func TestGroupConnectors_Deterministic(t *testing.T) {
	a := Compare("a\nb\nc\nd\ne\nf\ng\n", "a\nB\nc\nD\ne\nf\nG\nh\n")

	first := GroupConnectors(a.Connectors, DefaultProximity)
	second := GroupConnectors(a.Connectors, DefaultProximity)

	assert.Equal(t, first, second, "same input yields same groups")
}

func TestGroupConnectors_CoversAllChangedConnectors(t *testing.T) {
	a := Compare("1\n2\n3\n4\n5\n6\n7\n8\n9\n", "1\nx\n3\n4\n5\n6\n7\ny\nz\n9\n")

	var changed int
	for _, c := range a.Connectors {
		if c.Kind != KindUnchanged {
			changed++
		}
	}
	var grouped int
	for _, g := range GroupConnectors(a.Connectors, DefaultProximity) {
		grouped += len(g.Items)
	}

	assert.Equal(t, changed, grouped, "every changed connector lands in exactly one group")
}

func TestGroupConnectors_NegativeProximity(t *testing.T) {
	connectors := []Connector{
		added(0, 1, 0),
		added(0, 2, 0),
	}

	groups := GroupConnectors(connectors, -1)
	assert.Len(t, 2, groups, "treated as zero proximity")
}

func TestConnectorGroupSpans(t *testing.T) {
	g := &ConnectorGroup{
		Kind:        KindAdded,
		Left:        Range{Min: 2, Max: 3},
		Right:       Range{Min: 4, Max: 4},
		LeftAnchor:  2,
		RightAnchor: 4,
	}

	left, right := g.Spans(20)

	assert.Equal(t, Span{Top: 20, Bottom: 60}, left, "left span")
	assert.Equal(t, Span{Top: 60, Bottom: 80}, right, "right span")
	assert.Equal(t, 40, left.Height(), "left height")
}

func TestConnectorGroupSpans_UnlinkedSide(t *testing.T) {
	g := &ConnectorGroup{
		Kind:       KindAdded,
		Right:      Range{Min: 3, Max: 5},
		LeftAnchor: 2,
	}

	left, right := g.Spans(1)

	assert.Equal(t, Span{Top: 2, Bottom: 2}, left, "collapsed left span")
	assert.Equal(t, 0, left.Height(), "left height")
	assert.Equal(t, Span{Top: 2, Bottom: 5}, right, "right span")
}
