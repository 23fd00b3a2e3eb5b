package ui

import (
	"fmt"
	"strings"

	"curseddiff/catalog"

	"github.com/dustin/go-humanize"
)

type browserRow struct {
	side  catalog.Side
	node  *catalog.Node
	depth int
}

// browser lists both folders as collapsible trees
type browser struct {
	trees     map[catalog.Side]*catalog.Node
	collapsed map[string]bool
	rows      []browserRow
	cursor    int
	loaded    bool
	err       error
}

func newBrowser() *browser {
	return &browser{
		trees:     make(map[catalog.Side]*catalog.Node),
		collapsed: make(map[string]bool),
	}
}

func collapseKey(side catalog.Side, path string) string {
	return string(side) + ":" + path
}

func (b *browser) setListings(filesA, filesB []catalog.FileEntry) {
	b.trees[catalog.SideA] = catalog.BuildTree(filesA)
	b.trees[catalog.SideB] = catalog.BuildTree(filesB)
	b.loaded = true
	b.err = nil
	b.rebuild()
}

func (b *browser) rebuild() {
	b.rows = b.rows[:0]
	for _, side := range []catalog.Side{catalog.SideA, catalog.SideB} {
		root := b.trees[side]
		if root == nil {
			continue
		}
		root.Walk(func(node *catalog.Node, depth int) bool {
			b.rows = append(b.rows, browserRow{side: side, node: node, depth: depth})
			return !b.collapsed[collapseKey(side, node.Path)]
		})
	}
	if b.cursor >= len(b.rows) {
		b.cursor = max(len(b.rows)-1, 0)
	}
}

func (b *browser) move(delta int) {
	if len(b.rows) == 0 {
		return
	}
	b.cursor = min(max(b.cursor+delta, 0), len(b.rows)-1)
}

func (b *browser) selected() (browserRow, bool) {
	if b.cursor < 0 || b.cursor >= len(b.rows) {
		return browserRow{}, false
	}
	return b.rows[b.cursor], true
}

// toggle collapses or expands the selected directory
func (b *browser) toggle() {
	row, ok := b.selected()
	if !ok || !row.node.Dir {
		return
	}
	key := collapseKey(row.side, row.node.Path)
	b.collapsed[key] = !b.collapsed[key]
	b.rebuild()
}

func badge(st styles, r catalog.ComparisonResult) string {
	switch r {
	case catalog.ResultAdded:
		return st.added.Render("[added]")
	case catalog.ResultRemoved:
		return st.removed.Render("[removed]")
	case catalog.ResultModified:
		return st.paired.Render("[modified]")
	case catalog.ResultRenamed:
		return st.header.Render("[renamed]")
	case catalog.ResultUnknown:
		return st.muted.Render("[unknown]")
	default:
		return ""
	}
}

func sideTitle(side catalog.Side) string {
	if side == catalog.SideA {
		return "Folder A"
	}
	return "Folder B"
}

func (b *browser) view(st styles, width, height int) string {
	switch {
	case b.err != nil:
		return st.errorText.Render("Failed to load files: "+b.err.Error()) + "\n" + st.muted.Render("press r to retry")
	case !b.loaded:
		return st.muted.Render("Loading files…")
	case len(b.rows) == 0:
		return st.notice.Render("Both folders are empty")
	}

	// Keep the cursor inside the visible window
	start := 0
	if height > 0 && b.cursor >= height {
		start = b.cursor - height + 1
	}
	end := len(b.rows)
	if height > 0 {
		end = min(start+height, len(b.rows))
	}

	var lines []string
	prevSide := catalog.Side("")
	if start > 0 {
		prevSide = b.rows[start-1].side
	}
	for i := start; i < end; i++ {
		row := b.rows[i]
		if row.side != prevSide {
			lines = append(lines, st.title.Render(sideTitle(row.side)))
			prevSide = row.side
		}

		indent := strings.Repeat("  ", row.depth+1)
		var label string
		if row.node.Dir {
			arrow := "▾"
			if b.collapsed[collapseKey(row.side, row.node.Path)] {
				arrow = "▸"
			}
			label = st.directory.Render(arrow + " " + row.node.Name + "/")
		} else {
			label = fmt.Sprintf("  %s %s %s", row.node.Name,
				st.muted.Render(humanize.Bytes(uint64(max(row.node.Entry.SizeBytes, 0)))),
				badge(st, row.node.Entry.Result()))
		}
		line := fit(indent+label, width)
		if i == b.cursor {
			line = st.selected.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
