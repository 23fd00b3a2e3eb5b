package ui

import (
	"fmt"
	"strings"
	"time"

	"curseddiff/history"
)

type historyItem struct {
	record  history.Record
	starred bool
	section string
}

// historyView shows starred comparisons above the recent list
type historyView struct {
	items  []historyItem
	cursor int
	loaded bool
	err    error
}

func (h *historyView) set(recent, starred []history.Record) {
	isStarred := make(map[string]bool, len(starred))
	h.items = h.items[:0]
	for _, r := range starred {
		isStarred[r.ID] = true
		h.items = append(h.items, historyItem{record: r, starred: true, section: "Starred"})
	}
	for _, r := range recent {
		h.items = append(h.items, historyItem{record: r, starred: isStarred[r.ID], section: "Recent"})
	}
	h.loaded = true
	h.err = nil
	if h.cursor >= len(h.items) {
		h.cursor = max(len(h.items)-1, 0)
	}
}

func (h *historyView) move(delta int) {
	if len(h.items) == 0 {
		return
	}
	h.cursor = min(max(h.cursor+delta, 0), len(h.items)-1)
}

func (h *historyView) selected() (historyItem, bool) {
	if h.cursor < 0 || h.cursor >= len(h.items) {
		return historyItem{}, false
	}
	return h.items[h.cursor], true
}

func (h *historyView) view(st styles, width, height int, now time.Time) string {
	switch {
	case h.err != nil:
		return st.errorText.Render("Failed to load history: " + h.err.Error())
	case !h.loaded:
		return st.muted.Render("Loading history…")
	case len(h.items) == 0:
		return st.notice.Render("No comparisons yet. Open a file from the browser to start one.")
	}

	start := 0
	if height > 0 && h.cursor >= height {
		start = h.cursor - height + 1
	}
	end := len(h.items)
	if height > 0 {
		end = min(start+height, len(h.items))
	}

	var lines []string
	section := ""
	for i := start; i < end; i++ {
		item := h.items[i]
		if item.section != section {
			section = item.section
			lines = append(lines, st.title.Render(section))
		}
		star := "  "
		if item.starred {
			star = st.star.Render("★ ")
		}
		rec := item.record
		label := fmt.Sprintf("%s%s ⟷ %s  %s  %s", star,
			history.FileName(rec.SourceFile), history.FileName(rec.TargetFile),
			renderStats(st, rec.Stats), st.muted.Render(history.Age(rec, now)))
		line := fit("  "+label, width)
		if i == h.cursor {
			line = st.selected.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
