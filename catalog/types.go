// Package catalog talks to the file-listing backend that serves the two
// folders being compared.
package catalog

import (
	"encoding/json"
	"fmt"
)

// Side selects folder A (baseline) or folder B (changed)
type Side string

const (
	SideA Side = "a"
	SideB Side = "b"
)

func (s Side) valid() bool {
	return s == SideA || s == SideB
}

// ComparisonResult is the backend's verdict for a file relative to the other folder
type ComparisonResult string

const (
	ResultBaseline ComparisonResult = "baseline"
	ResultModified ComparisonResult = "modified"
	ResultAdded    ComparisonResult = "added"
	ResultRemoved  ComparisonResult = "removed"
	ResultRenamed  ComparisonResult = "renamed"
	ResultUnknown  ComparisonResult = "unknown"
)

// UnmarshalJSON maps a missing or empty result to baseline and anything
// unrecognized to unknown
func (r *ComparisonResult) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("comparison_result: %w", err)
	}
	*r = parseResult(s)
	return nil
}

func parseResult(s *string) ComparisonResult {
	if s == nil || *s == "" {
		return ResultBaseline
	}
	switch r := ComparisonResult(*s); r {
	case ResultBaseline, ResultModified, ResultAdded, ResultRemoved, ResultRenamed, ResultUnknown:
		return r
	default:
		return ResultUnknown
	}
}

// FileEntry is one row of a folder listing
type FileEntry struct {
	Name             string           `json:"name,omitempty"`
	Path             string           `json:"path"`
	Extension        string           `json:"extension,omitempty"`
	SizeBytes        int64            `json:"size_bytes,omitempty"`
	ComparisonResult ComparisonResult `json:"comparison_result,omitempty"`
}

// Result returns the comparison result, defaulting to baseline
func (e FileEntry) Result() ComparisonResult {
	if e.ComparisonResult == "" {
		return ResultBaseline
	}
	return e.ComparisonResult
}

// FileContents is the body of one file
type FileContents struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Contents string `json:"contents"`
}

// ResolvePair returns the two paths to open when an entry from side is
// selected. An empty path means that side has no file.
func ResolvePair(entry FileEntry, side Side) (pathA, pathB string) {
	p := entry.Path
	switch entry.Result() {
	case ResultBaseline, ResultModified:
		return p, p
	case ResultRemoved:
		return p, ""
	case ResultAdded:
		return "", p
	default:
		if side == SideB {
			return "", p
		}
		return p, ""
	}
}
