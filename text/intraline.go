package text

import "github.com/sergi/go-diff/diffmatchpatch"

// CharSpan is a byte range within a line, start inclusive and end exclusive
type CharSpan struct {
	Start int
	End   int
}

// IntralineSpans returns the byte ranges that differ between a removed line and
// the added line it is paired with. Semantic cleanup keeps the spans word-sized.
func IntralineSpans(oldLine, newLine string) (oldSpans, newSpans []CharSpan) {
	if oldLine == newLine {
		return nil, nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldLine, newLine, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	oldPos, newPos := 0, 0
	for _, d := range diffs {
		n := len(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldPos += n
			newPos += n
		case diffmatchpatch.DiffDelete:
			oldSpans = appendSpan(oldSpans, oldPos, oldPos+n)
			oldPos += n
		case diffmatchpatch.DiffInsert:
			newSpans = appendSpan(newSpans, newPos, newPos+n)
			newPos += n
		}
	}
	return oldSpans, newSpans
}

// appendSpan merges touching spans
func appendSpan(spans []CharSpan, start, end int) []CharSpan {
	if len(spans) > 0 && spans[len(spans)-1].End == start {
		spans[len(spans)-1].End = end
		return spans
	}
	return append(spans, CharSpan{Start: start, End: end})
}

// Highlights holds intraline spans keyed by one-indexed line number per side
type Highlights struct {
	Left  map[int][]CharSpan
	Right map[int][]CharSpan
}

// IntralineHighlights computes spans for every added line that is paired with a
// removed line. A left line paired with several added lines keeps the spans of
// its first pairing.
func IntralineHighlights(a *Alignment) Highlights {
	h := Highlights{
		Left:  make(map[int][]CharSpan),
		Right: make(map[int][]CharSpan),
	}
	for _, c := range a.Connectors {
		if c.Kind != KindAdded || !c.HasLeft() || !c.HasRight() {
			continue
		}
		if c.Left > len(a.Left) || c.Right > len(a.Right) {
			continue
		}
		oldLine := a.Left[c.Left-1]
		newLine := a.Right[c.Right-1]
		if oldLine.Kind != KindRemoved || newLine.Kind != KindAdded {
			continue
		}
		oldSpans, newSpans := IntralineSpans(oldLine.Content, newLine.Content)
		if _, seen := h.Left[c.Left]; !seen {
			h.Left[c.Left] = oldSpans
		}
		h.Right[c.Right] = newSpans
	}
	return h
}
