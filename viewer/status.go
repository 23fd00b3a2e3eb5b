package viewer

import (
	"curseddiff/catalog"
	"curseddiff/text"
)

// FileStatus summarizes how a file pair differs
type FileStatus string

const (
	StatusAdded     FileStatus = "added"
	StatusRemoved   FileStatus = "removed"
	StatusModified  FileStatus = "modified"
	StatusUnchanged FileStatus = "unchanged"
)

// StatusOf classifies a pair of possibly missing files by their contents
func StatusOf(a, b *catalog.FileContents) FileStatus {
	var oldText, newText string
	if a != nil {
		oldText = a.Contents
	}
	if b != nil {
		newText = b.Contents
	}
	return statusOf(oldText, newText)
}

func statusOf(oldText, newText string) FileStatus {
	switch {
	case oldText == "" && newText != "":
		return StatusAdded
	case oldText != "" && newText == "":
		return StatusRemoved
	case oldText != newText:
		return StatusModified
	default:
		return StatusUnchanged
	}
}

// Side names a pane
type Side int

const (
	Left Side = iota
	Right
)

// MatchingLine returns the line on the opposite pane linked to lineNumber on
// side, used to highlight both ends of a hovered or selected line
func MatchingLine(al *text.Alignment, side Side, lineNumber int) (int, bool) {
	if al == nil || lineNumber <= 0 {
		return 0, false
	}
	for _, c := range al.Connectors {
		switch side {
		case Left:
			if c.Left == lineNumber && c.HasRight() {
				return c.Right, true
			}
		case Right:
			if c.Right == lineNumber && c.HasLeft() {
				return c.Left, true
			}
		}
	}
	return 0, false
}
