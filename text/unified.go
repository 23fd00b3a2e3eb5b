package text

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff renders the two texts as a unified patch with the given context size.
// An empty name stands for a missing file and renders as /dev/null.
func UnifiedDiff(nameA, nameB, oldText, newText string, context int) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        patchLines(oldText),
		B:        patchLines(newText),
		FromFile: patchName("a/", nameA),
		ToFile:   patchName("b/", nameB),
		Context:  context,
	}
	out, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("failed to render unified diff: %w", err)
	}
	return out, nil
}

func patchName(prefix, name string) string {
	if name == "" {
		return "/dev/null"
	}
	return prefix + name
}

// patchLines splits like the panes do and terminates every line, so a missing
// final newline does not produce a spurious change
func patchLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := splitLines(text)
	for i := range lines {
		lines[i] += "\n"
	}
	return lines
}
