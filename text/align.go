package text

import "curseddiff/logger"

// Line is one rendered row of a pane
type Line struct {
	Number  int // one-indexed, per side
	Content string
	Kind    Kind
}

// Connector relates a line on the left pane to a line on the right pane.
// A zero Left or Right means that side is unlinked; the matching anchor then
// holds the nearest preceding line on that side (0 when nothing precedes it).
type Connector struct {
	Kind  Kind
	Left  int
	Right int

	LeftAnchor  int
	RightAnchor int
}

// HasLeft reports whether the connector is linked to a left line
func (c Connector) HasLeft() bool { return c.Left > 0 }

// HasRight reports whether the connector is linked to a right line
func (c Connector) HasRight() bool { return c.Right > 0 }

// LeftPosition returns the left line, or the anchor when unlinked
func (c Connector) LeftPosition() int {
	if c.HasLeft() {
		return c.Left
	}
	return c.LeftAnchor
}

// RightPosition returns the right line, or the anchor when unlinked
func (c Connector) RightPosition() int {
	if c.HasRight() {
		return c.Right
	}
	return c.RightAnchor
}

// Stats counts rendered lines by kind
type Stats struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
}

// HasChanges reports whether anything was added or removed
func (s Stats) HasChanges() bool {
	return s.Added > 0 || s.Removed > 0
}

// Alignment is the rendering model for a side-by-side diff
type Alignment struct {
	Left       []Line
	Right      []Line
	Connectors []Connector
	Stats      Stats
}

// NoDifferences reports whether the alignment should render the "no differences" state.
// Both sides empty and identical inputs both qualify.
func (a *Alignment) NoDifferences() bool {
	return !a.Stats.HasChanges()
}

// editWindow tracks the most recent removed and added lines since the last
// unchanged line, so adjacent removed and added runs pair up by proximity.
type editWindow struct {
	lastRemovedLeft int
	lastAddedRight  int
}

func (w *editWindow) reset() {
	w.lastRemovedLeft = 0
	w.lastAddedRight = 0
}

// BuildAlignment turns an edit script into left/right line sequences, connectors and stats.
//
// Pairing rule: a removed line links to the most recent added line of the same
// edit window and vice versa. Content similarity plays no part in it.
func BuildAlignment(hunks []Hunk) *Alignment {
	result := &Alignment{}

	leftLineNumber := 1
	rightLineNumber := 1
	var window editWindow

	for i, hunk := range hunks {
		if !hunk.Kind.valid() {
			logger.Warn("alignment: skipping hunk %d with unknown kind %d", i, int(hunk.Kind))
			continue
		}
		lines := hunk.Lines
		if lines == nil {
			if hunk.Text == "" {
				continue
			}
			lines = splitLines(hunk.Text)
		}

		for _, content := range lines {
			switch hunk.Kind {
			case KindRemoved:
				result.Left = append(result.Left, Line{Number: leftLineNumber, Content: content, Kind: KindRemoved})
				result.Connectors = append(result.Connectors, Connector{
					Kind:        KindRemoved,
					Left:        leftLineNumber,
					Right:       window.lastAddedRight,
					LeftAnchor:  leftLineNumber,
					RightAnchor: rightLineNumber - 1,
				})
				window.lastRemovedLeft = leftLineNumber
				leftLineNumber++

			case KindAdded:
				result.Right = append(result.Right, Line{Number: rightLineNumber, Content: content, Kind: KindAdded})
				result.Connectors = append(result.Connectors, Connector{
					Kind:        KindAdded,
					Left:        window.lastRemovedLeft,
					Right:       rightLineNumber,
					LeftAnchor:  leftLineNumber - 1,
					RightAnchor: rightLineNumber,
				})
				window.lastAddedRight = rightLineNumber
				rightLineNumber++

			case KindUnchanged:
				result.Left = append(result.Left, Line{Number: leftLineNumber, Content: content, Kind: KindUnchanged})
				result.Right = append(result.Right, Line{Number: rightLineNumber, Content: content, Kind: KindUnchanged})
				result.Connectors = append(result.Connectors, Connector{
					Kind:        KindUnchanged,
					Left:        leftLineNumber,
					Right:       rightLineNumber,
					LeftAnchor:  leftLineNumber,
					RightAnchor: rightLineNumber,
				})
				window.reset()
				leftLineNumber++
				rightLineNumber++
			}
		}
	}

	result.Stats = CountLines(result.Left, result.Right)
	return result
}

// CountLines derives stats from the rendered sequences rather than from hunks,
// so the summary can never disagree with what the panes show.
func CountLines(left, right []Line) Stats {
	var stats Stats
	for _, line := range left {
		switch line.Kind {
		case KindRemoved:
			stats.Removed++
		case KindUnchanged:
			stats.Unchanged++
		}
	}
	for _, line := range right {
		if line.Kind == KindAdded {
			stats.Added++
		}
	}
	return stats
}

// Compare runs the diff and builds the alignment in one step
func Compare(oldText, newText string) *Alignment {
	defer logger.Trace("text.Compare")()
	return BuildAlignment(DiffLines(oldText, newText))
}
