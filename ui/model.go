// Package ui is the terminal front end: a file browser over both folders,
// the comparison history and the side-by-side diff view.
package ui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"curseddiff/catalog"
	"curseddiff/config"
	"curseddiff/history"
	"curseddiff/logger"
	"curseddiff/scroll"
	"curseddiff/text"
	"curseddiff/viewer"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"
)

// Catalog is what the UI needs from the file backend
type Catalog interface {
	ListFiles(ctx context.Context, side catalog.Side) ([]catalog.FileEntry, error)
	FetchPair(ctx context.Context, pathA, pathB string) (*catalog.Pair, error)
}

type Options struct {
	Catalog Catalog
	History *history.Store // nil disables history
	Config  config.Config

	// PathA and PathB open a diff immediately when either is set
	PathA, PathB string

	// Clipboard and Now default to the system clipboard and clock
	Clipboard func(string) error
	Now       func() time.Time
}

type viewMode int

const (
	viewBrowser viewMode = iota
	viewHistory
	viewDiff
)

const (
	paneLeft   = "left"
	paneGutter = "connector"
	paneRight  = "right"
)

// chromeRows is the header plus pane titles plus the footer
const chromeRows = 4

type filesLoadedMsg struct {
	filesA, filesB []catalog.FileEntry
	err            error
}

type historyLoadedMsg struct {
	recent, starred []history.Record
	err             error
}

type diffResultMsg struct {
	result viewer.Result
}

type clearToastMsg struct {
	id int
}

// Model is the bubbletea model for the whole application
type Model struct {
	opts   Options
	ctx    context.Context
	cancel context.CancelFunc

	width, height int
	mode          viewMode
	styles        styles
	keys          keyMap
	help          help.Model

	browser *browser
	history *historyView

	session     *viewer.Session
	result      viewer.Result
	state       viewer.State
	pathA       string
	pathB       string
	record      *history.Record
	recordedGen uint64
	highlighter *viewer.Highlighter

	left, gutter, right viewport.Model
	sync                *scroll.Synchronizer
	focus               string

	toast   string
	toastID int
}

func New(opts Options) *Model {
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())

	m := &Model{
		opts:    opts,
		ctx:     ctx,
		cancel:  cancel,
		width:   80,
		height:  24,
		styles:  defaultStyles(),
		keys:    newKeyMap(),
		help:    help.New(),
		browser: newBrowser(),
		history: &historyView{},
		session: viewer.NewSession(opts.Config.ProximityThreshold),
		left:    viewport.New(0, 0),
		gutter:  viewport.New(gutterWidth, 0),
		right:   viewport.New(0, 0),
		sync:    scroll.NewSynchronizer(),
		focus:   paneLeft,
	}
	if opts.Config.SyntaxHighlight {
		m.highlighter = viewer.NewHighlighter(opts.Config.Theme)
	}
	m.sync.Add(paneLeft, viewportRegion{&m.left})
	m.sync.Add(paneGutter, viewportRegion{&m.gutter})
	m.sync.Add(paneRight, viewportRegion{&m.right})
	m.layout()
	return m
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadFiles(), m.loadHistory()}
	if m.opts.PathA != "" || m.opts.PathB != "" {
		cmds = append(cmds, m.openDiff(m.opts.PathA, m.opts.PathB))
	}
	return tea.Batch(cmds...)
}

// Close stops pending work; results arriving afterwards are dropped
func (m *Model) Close() {
	m.session.Close()
	m.cancel()
}

func (m *Model) loadFiles() tea.Cmd {
	ctx := m.ctx
	cat := m.opts.Catalog
	return func() tea.Msg {
		var msg filesLoadedMsg
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			msg.filesA, err = cat.ListFiles(gctx, catalog.SideA)
			return err
		})
		g.Go(func() error {
			var err error
			msg.filesB, err = cat.ListFiles(gctx, catalog.SideB)
			return err
		})
		msg.err = g.Wait()
		return msg
	}
}

func (m *Model) loadHistory() tea.Cmd {
	store := m.opts.History
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		recent, err := store.Recent()
		if err != nil {
			return historyLoadedMsg{err: err}
		}
		starred, err := store.Starred()
		return historyLoadedMsg{recent: recent, starred: starred, err: err}
	}
}

func (m *Model) openDiff(pathA, pathB string) tea.Cmd {
	m.mode = viewDiff
	if pathA != m.pathA || pathB != m.pathB {
		m.sync.Reset()
		m.left.GotoTop()
		m.gutter.GotoTop()
		m.right.GotoTop()
		m.record = nil
		// the previous pair must not show under the new titles while loading
		m.result = viewer.Result{}
		m.refreshDiff()
	}
	m.pathA, m.pathB = pathA, pathB
	m.state = viewer.StateCalculating

	gen := m.session.Begin()
	ctx, session, cat := m.ctx, m.session, m.opts.Catalog
	return func() tea.Msg {
		return diffResultMsg{result: session.Load(ctx, gen, cat, pathA, pathB)}
	}
}

func (m *Model) setToast(s string) tea.Cmd {
	m.toastID++
	m.toast = s
	id := m.toastID
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearToastMsg{id: id} })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		m.refreshDiff()
		m.sync.OnResize()
		return m, nil

	case filesLoadedMsg:
		if msg.err != nil {
			logger.Warn("ui: listing failed: %v", msg.err)
			m.browser.err = msg.err
			return m, nil
		}
		m.browser.setListings(msg.filesA, msg.filesB)
		return m, nil

	case historyLoadedMsg:
		if msg.err != nil {
			m.history.err = msg.err
			return m, nil
		}
		m.history.set(msg.recent, msg.starred)
		return m, nil

	case diffResultMsg:
		return m, m.applyResult(msg.result)

	case clearToastMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil

	case tea.MouseMsg:
		if m.mode == viewDiff {
			m.handleWheel(msg)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) applyResult(res viewer.Result) tea.Cmd {
	if !m.session.Commit(res) {
		return nil
	}
	m.result = res
	m.state = res.State
	m.refreshDiff()
	m.sync.OnResize()

	if res.State == viewer.StateFailed || m.opts.History == nil || m.recordedGen == res.Generation {
		return nil
	}
	m.recordedGen = res.Generation
	rec, err := m.opts.History.Add(history.Record{
		SourceFile: res.PathA,
		TargetFile: res.PathB,
		Stats:      res.Alignment.Stats,
	})
	if err != nil {
		logger.Warn("ui: saving history: %v", err)
		return nil
	}
	m.record = &rec
	return tea.Batch(m.loadHistory(), m.setToast(fmt.Sprintf("Comparison of %s and %s saved",
		history.FileName(rec.SourceFile), history.FileName(rec.TargetFile))))
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		m.refreshDiff()
		return m, nil
	case key.Matches(msg, m.keys.browser):
		m.mode = viewBrowser
		return m, nil
	case key.Matches(msg, m.keys.history):
		m.mode = viewHistory
		return m, m.loadHistory()
	}

	switch m.mode {
	case viewBrowser:
		return m, m.browserKey(msg)
	case viewHistory:
		return m, m.historyKey(msg)
	default:
		return m, m.diffKey(msg)
	}
}

func (m *Model) browserKey(msg tea.KeyMsg) tea.Cmd {
	b := m.browser
	switch {
	case key.Matches(msg, m.keys.up):
		b.move(-1)
	case key.Matches(msg, m.keys.down):
		b.move(1)
	case key.Matches(msg, m.keys.pageUp):
		b.move(-m.bodyHeight())
	case key.Matches(msg, m.keys.pageDown):
		b.move(m.bodyHeight())
	case key.Matches(msg, m.keys.top):
		b.move(-len(b.rows))
	case key.Matches(msg, m.keys.bottom):
		b.move(len(b.rows))
	case key.Matches(msg, m.keys.retry):
		b.err = nil
		b.loaded = false
		return m.loadFiles()
	case key.Matches(msg, m.keys.copyPaths):
		if row, ok := b.selected(); ok {
			return m.copy(row.node.Path)
		}
	case key.Matches(msg, m.keys.open):
		row, ok := b.selected()
		if !ok {
			return nil
		}
		if row.node.Dir {
			b.toggle()
			return nil
		}
		pathA, pathB := catalog.ResolvePair(*row.node.Entry, row.side)
		return m.openDiff(pathA, pathB)
	}
	return nil
}

func (m *Model) historyKey(msg tea.KeyMsg) tea.Cmd {
	h := m.history
	store := m.opts.History
	switch {
	case key.Matches(msg, m.keys.up):
		h.move(-1)
	case key.Matches(msg, m.keys.down):
		h.move(1)
	case key.Matches(msg, m.keys.back):
		m.mode = viewBrowser
	case key.Matches(msg, m.keys.open):
		if item, ok := h.selected(); ok {
			return m.openDiff(item.record.SourceFile, item.record.TargetFile)
		}
	case key.Matches(msg, m.keys.star):
		if item, ok := h.selected(); ok && store != nil {
			return m.toggleStar(item.record)
		}
	case key.Matches(msg, m.keys.deleteItem):
		item, ok := h.selected()
		if !ok || store == nil {
			return nil
		}
		if err := store.Delete(item.record.ID); err != nil && !errors.Is(err, history.ErrNotFound) {
			return m.setToast("Delete failed: " + err.Error())
		}
		return tea.Batch(m.loadHistory(), m.setToast("Comparison removed"))
	}
	return nil
}

func (m *Model) toggleStar(rec history.Record) tea.Cmd {
	starred, err := m.opts.History.ToggleStar(rec)
	if err != nil {
		return m.setToast("Star failed: " + err.Error())
	}
	note := "Removed from starred"
	if starred {
		note = "Added to starred"
	}
	return tea.Batch(m.loadHistory(), m.setToast(note))
}

func (m *Model) focused() *viewport.Model {
	if m.focus == paneRight {
		return &m.right
	}
	return &m.left
}

func (m *Model) diffKey(msg tea.KeyMsg) tea.Cmd {
	vp := m.focused()
	switch {
	case key.Matches(msg, m.keys.back):
		m.mode = viewBrowser
		return nil
	case key.Matches(msg, m.keys.nextFocus):
		if m.focus == paneLeft {
			m.focus = paneRight
		} else {
			m.focus = paneLeft
		}
		m.refreshDiff()
		return nil
	case key.Matches(msg, m.keys.up):
		vp.LineUp(1)
	case key.Matches(msg, m.keys.down):
		vp.LineDown(1)
	case key.Matches(msg, m.keys.pageUp):
		vp.ViewUp()
	case key.Matches(msg, m.keys.pageDown):
		vp.ViewDown()
	case key.Matches(msg, m.keys.top):
		vp.GotoTop()
	case key.Matches(msg, m.keys.bottom):
		vp.GotoBottom()
	case key.Matches(msg, m.keys.retry):
		return m.openDiff(m.pathA, m.pathB)
	case key.Matches(msg, m.keys.copyPaths):
		return m.copy(strings.TrimSpace(m.pathA + "\n" + m.pathB))
	case key.Matches(msg, m.keys.star):
		if m.record == nil || m.opts.History == nil {
			return m.setToast("Nothing to star yet")
		}
		return m.toggleStar(*m.record)
	default:
		return nil
	}
	m.scrolled(m.focus)
	return nil
}

func (m *Model) handleWheel(msg tea.MouseMsg) {
	name := paneLeft
	paneWidth := m.paneWidth()
	switch {
	case msg.X >= paneWidth+1+gutterWidth:
		name = paneRight
	case msg.X >= paneWidth:
		name = paneGutter
	}
	vp := map[string]*viewport.Model{paneLeft: &m.left, paneGutter: &m.gutter, paneRight: &m.right}[name]
	switch msg.Type {
	case tea.MouseWheelUp:
		vp.LineUp(3)
	case tea.MouseWheelDown:
		vp.LineDown(3)
	default:
		return
	}
	m.scrolled(name)
}

// scrolled propagates a user scroll and refreshes the line markers
func (m *Model) scrolled(name string) {
	m.sync.OnScroll(name)
	m.refreshDiff()
}

func (m *Model) copy(s string) tea.Cmd {
	if s == "" {
		return m.setToast("Nothing to copy")
	}
	if err := m.opts.Clipboard(s); err != nil {
		logger.Warn("ui: clipboard: %v", err)
		return m.setToast("Clipboard unavailable")
	}
	return m.setToast("Copied to clipboard")
}

func (m *Model) bodyHeight() int {
	h := m.height - chromeRows
	if m.help.ShowAll {
		h -= 4
	}
	return max(h, 1)
}

func (m *Model) paneWidth() int {
	return max((m.width-gutterWidth-2)/2, 10)
}

func (m *Model) layout() {
	pw := m.paneWidth()
	h := m.bodyHeight()
	m.left.Width, m.left.Height = pw, h
	m.right.Width, m.right.Height = pw, h
	m.gutter.Width, m.gutter.Height = gutterWidth, h
	m.help.Width = m.width
}

// refreshDiff re-renders the three panes from the current result
func (m *Model) refreshDiff() {
	al := m.result.Alignment
	if al == nil {
		for _, vp := range []*viewport.Model{&m.left, &m.gutter, &m.right} {
			vp.SetContent("")
		}
		return
	}

	lineHeight := max(m.opts.Config.LineHeight, 1)
	marked := m.markedLines(al)
	var coloredLeft, coloredRight []string
	if m.highlighter != nil {
		pathA, pathB := m.shownPaths()
		coloredLeft = m.highlighter.Lines(pathA, contents(al.Left))
		coloredRight = m.highlighter.Lines(pathB, contents(al.Right))
	}

	leftRows := renderPane(m.styles, paneLines{
		lines: al.Left, colored: coloredLeft, emphasis: m.result.Highlights.Left,
		marked: marked[viewer.Left], width: m.paneWidth(), lineHeight: lineHeight,
	})
	rightRows := renderPane(m.styles, paneLines{
		lines: al.Right, colored: coloredRight, emphasis: m.result.Highlights.Right,
		marked: marked[viewer.Right], width: m.paneWidth(), lineHeight: lineHeight,
	})
	gutterRows := renderGutter(m.styles, m.result.Groups, diffRows(al, lineHeight), lineHeight)

	m.left.SetContent(strings.Join(leftRows, "\n"))
	m.right.SetContent(strings.Join(rightRows, "\n"))
	m.gutter.SetContent(strings.Join(gutterRows, "\n"))
}

// markedLines highlights the top visible line of the focused pane and its
// partner on the other side
func (m *Model) markedLines(al *text.Alignment) map[viewer.Side]map[int]bool {
	marked := map[viewer.Side]map[int]bool{viewer.Left: {}, viewer.Right: {}}
	side, other := viewer.Left, viewer.Right
	if m.focus == paneRight {
		side, other = viewer.Right, viewer.Left
	}
	line := m.focused().YOffset/max(m.opts.Config.LineHeight, 1) + 1
	marked[side][line] = true
	if partner, ok := viewer.MatchingLine(al, side, line); ok {
		marked[other][partner] = true
	}
	return marked
}

func contents(lines []text.Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Content
	}
	return out
}

func (m *Model) View() string {
	var body string
	switch m.mode {
	case viewBrowser:
		body = m.browser.view(m.styles, m.width, m.bodyHeight())
	case viewHistory:
		body = m.history.view(m.styles, m.width, m.bodyHeight(), m.opts.Now())
	default:
		body = m.diffView()
	}

	footer := m.help.View(m.keys)
	if m.toast != "" {
		footer = m.styles.toast.Render(m.toast)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.headerView(), body, footer)
}

func (m *Model) headerView() string {
	title := m.styles.title.Render("Cursed Diff")
	switch m.mode {
	case viewBrowser:
		return title + "  " + m.styles.header.Render("files")
	case viewHistory:
		return title + "  " + m.styles.header.Render("history")
	}
	name := m.pathB
	if name == "" {
		name = m.pathA
	}
	parts := []string{title, m.styles.header.Render(displayPath(m.pathA) + " ⟷ " + displayPath(m.pathB))}
	if name != "" {
		parts = append(parts, m.styles.muted.Render(viewer.Language(name)))
	}
	if m.result.Alignment != nil {
		parts = append(parts, renderStats(m.styles, m.result.Alignment.Stats), m.styles.muted.Render(string(m.result.Status)))
		if f, ok := m.sync.Fraction(); ok {
			parts = append(parts, m.styles.muted.Render(fmt.Sprintf("%d%%", int(math.Round(f*100)))))
		}
	}
	if m.record != nil && m.opts.History != nil {
		if starred, _ := m.opts.History.IsStarred(m.record.ID); starred {
			parts = append(parts, m.styles.star.Render("★"))
		}
	}
	return strings.Join(parts, "  ")
}

func displayPath(p string) string {
	if p == "" {
		return "(none)"
	}
	return p
}

func (m *Model) diffView() string {
	st := m.styles
	switch m.state {
	case viewer.StateCalculating:
		if m.result.Alignment == nil {
			return st.muted.Render("Computing diff…")
		}
	case viewer.StateNoDifferences:
		return st.notice.Render("No differences") + "\n" +
			st.muted.Render("The files are identical or both empty.")
	case viewer.StateFailed:
		msg := st.errorText.Render("Error: "+errString(m.result.Err)) + "  " + st.muted.Render("press r to retry")
		if m.result.Alignment == nil {
			return msg
		}
		return msg + "\n" + m.paneTitles() + "\n" + m.panes()
	}
	return m.paneTitles() + "\n" + m.panes()
}

// shownPaths names the pair the panes hold. After a failed load that is the
// last good pair rather than the one requested.
func (m *Model) shownPaths() (string, string) {
	if m.result.State == viewer.StateFailed && m.result.Alignment != nil {
		return m.result.PathA, m.result.PathB
	}
	return m.pathA, m.pathB
}

func (m *Model) paneTitles() string {
	pathA, pathB := m.shownPaths()
	return m.styles.paneTitle.Render(fit(displayPath(pathA), m.paneWidth())) +
		strings.Repeat(" ", gutterWidth+2) +
		m.styles.paneTitle.Render(fit(displayPath(pathB), m.paneWidth()))
}

func (m *Model) panes() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.left.View(), " ", m.gutter.View(), " ", m.right.View())
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
