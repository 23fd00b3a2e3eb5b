package text

// DefaultProximity is the line distance within which same-kind connectors merge
const DefaultProximity = 3

// Range is an inclusive one-indexed line range. The zero value is empty.
type Range struct {
	Min int
	Max int
}

// Empty reports whether no linked line contributed to the range
func (r Range) Empty() bool { return r.Min == 0 }

func (r *Range) include(line int) {
	if line <= 0 {
		return
	}
	if r.Min == 0 || line < r.Min {
		r.Min = line
	}
	if line > r.Max {
		r.Max = line
	}
}

// ConnectorGroup is a blob of nearby same-kind connectors drawn as one shape
type ConnectorGroup struct {
	Kind  Kind
	Items []Connector
	Left  Range
	Right Range

	// Anchors place the blob on a side where no item is linked
	LeftAnchor  int
	RightAnchor int

	// Replace is set when a removed run and the added run linked to it share
	// the group. Kind stays the kind of the first run.
	Replace bool
}

// contains reports whether line falls inside the range
func (r Range) contains(line int) bool {
	return !r.Empty() && line >= r.Min && line <= r.Max
}

// linksInto reports whether c is the other half of a replace whose first run
// is already in g: an added line linked back to one of g's removed lines, or
// the reverse.
func (g *ConnectorGroup) linksInto(c Connector) bool {
	switch {
	case g.Kind == KindRemoved && c.Kind == KindAdded:
		return c.HasLeft() && g.Left.contains(c.Left)
	case g.Kind == KindAdded && c.Kind == KindRemoved:
		return c.HasRight() && g.Right.contains(c.Right)
	}
	return false
}

// GroupConnectors merges added and removed connectors into blobs.
// Unchanged connectors are dropped. A new group starts when the kind changes
// or when the left or right position moves more than proximity lines away from
// the previous item. A kind change does not split a replace: a run linked
// back into the group's previous run joins it. The result depends only on the
// input order and proximity.
func GroupConnectors(connectors []Connector, proximity int) []*ConnectorGroup {
	if proximity < 0 {
		proximity = 0
	}

	var groups []*ConnectorGroup
	var current *ConnectorGroup
	var lastLeft, lastRight int

	for _, c := range connectors {
		if c.Kind != KindAdded && c.Kind != KindRemoved {
			continue
		}
		left := c.LeftPosition()
		right := c.RightPosition()

		replace := current != nil && current.linksInto(c)
		shouldStartNew := current == nil ||
			(current.Kind != c.Kind && !replace) ||
			abs(left-lastLeft) > proximity ||
			abs(right-lastRight) > proximity

		if shouldStartNew {
			current = &ConnectorGroup{
				Kind:        c.Kind,
				LeftAnchor:  c.LeftAnchor,
				RightAnchor: c.RightAnchor,
			}
			groups = append(groups, current)
		} else if replace {
			current.Replace = true
		}
		current.Items = append(current.Items, c)
		if c.HasLeft() {
			current.Left.include(c.Left)
		}
		if c.HasRight() {
			current.Right.include(c.Right)
		}
		lastLeft, lastRight = left, right
	}

	return groups
}

// Span is a vertical extent in rendering units, top inclusive and bottom exclusive
type Span struct {
	Top    int
	Bottom int
}

// Height returns the extent of the span
func (s Span) Height() int { return s.Bottom - s.Top }

// Spans returns the bounding span of the group on each side for the given line height.
// A side with no linked line collapses to a zero-height span just below its anchor.
func (g *ConnectorGroup) Spans(lineHeight int) (left, right Span) {
	return sideSpan(g.Left, g.LeftAnchor, lineHeight), sideSpan(g.Right, g.RightAnchor, lineHeight)
}

func sideSpan(r Range, anchor, lineHeight int) Span {
	if r.Empty() {
		y := anchor * lineHeight
		return Span{Top: y, Bottom: y}
	}
	return Span{Top: (r.Min - 1) * lineHeight, Bottom: r.Max * lineHeight}
}

// abs returns the absolute value of an integer
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
