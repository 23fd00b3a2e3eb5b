package text

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// splitLines splits text by newline and removes trailing empty element if present
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Kind tags a hunk, a line or a connector with its edit status
type Kind int

const (
	KindUnchanged Kind = iota
	KindAdded
	KindRemoved
)

// String returns the wire name of the kind, matching the names the web client used
func (k Kind) String() string {
	switch k {
	case KindUnchanged:
		return "unchanged"
	case KindAdded:
		return "added"
	case KindRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

func (k Kind) valid() bool {
	return k == KindUnchanged || k == KindAdded || k == KindRemoved
}

// Hunk is a maximal run of lines sharing one edit status, in edit-script order
type Hunk struct {
	Kind  Kind
	Text  string   // literal text of the run, newlines included
	Lines []string // Text split into lines, trailing empty segment dropped
}

func kindFromOperation(op diffmatchpatch.Operation) Kind {
	switch op {
	case diffmatchpatch.DiffInsert:
		return KindAdded
	case diffmatchpatch.DiffDelete:
		return KindRemoved
	default:
		return KindUnchanged
	}
}

// DiffLines computes the line-level edit script between two texts.
// Hunks whose text is empty are skipped, so every returned hunk has at least one line.
func DiffLines(oldText, newText string) []Hunk {
	if oldText == "" && newText == "" {
		return nil
	}

	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(chars1, chars2, false)
	lineDiffs := dmp.DiffCharsToLines(diffs, lineArray)

	hunks := make([]Hunk, 0, len(lineDiffs))
	for _, d := range lineDiffs {
		if d.Text == "" {
			continue
		}
		hunks = append(hunks, Hunk{
			Kind:  kindFromOperation(d.Type),
			Text:  d.Text,
			Lines: splitLines(d.Text),
		})
	}
	return hunks
}

// AsText coerces a loosely typed value, such as an RPC argument, to the text
// that should be diffed. nil is empty text.
func AsText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case *string:
		if val == nil {
			return ""
		}
		return *val
	case []byte:
		return string(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
