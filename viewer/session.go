// Package viewer turns a pair of files into the side-by-side rendering model
// and guards result delivery against stale or torn-down sessions.
package viewer

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"curseddiff/catalog"
	"curseddiff/logger"
	"curseddiff/text"
)

// State of a committed result
type State int

const (
	StateIdle State = iota
	StateCalculating
	StateReady
	StateNoDifferences
	StateFailed
)

// String returns a human-readable name for the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateCalculating:
		return "Calculating"
	case StateReady:
		return "Ready"
	case StateNoDifferences:
		return "NoDifferences"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Result is one completed computation. On StateFailed, Alignment and Groups
// still hold the last good result, if any.
type Result struct {
	Generation uint64
	State      State
	PathA      string
	PathB      string
	Alignment  *text.Alignment
	Groups     []*text.ConnectorGroup
	Highlights text.Highlights
	Status     FileStatus
	Err        error
}

// PairFetcher loads the two texts to compare
type PairFetcher interface {
	FetchPair(ctx context.Context, pathA, pathB string) (*catalog.Pair, error)
}

// Session tracks diff requests that may finish out of order. Begin stamps a
// request, Load or Compute runs it on any goroutine, and Commit keeps only the
// result of the most recent request. Nothing is committed after Close.
type Session struct {
	proximity int

	mu         sync.Mutex
	generation uint64
	alive      bool
	state      State
	current    Result
	lastGood   *Result

	// compute is swapped in tests
	compute func(oldText, newText string) *text.Alignment
}

// NewSession creates a live session
func NewSession(proximity int) *Session {
	return &Session{
		proximity: proximity,
		alive:     true,
		compute:   text.Compare,
	}
}

// Begin starts a new request and returns its generation, making any
// in-flight request stale
func (s *Session) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.state = StateCalculating
	return s.generation
}

// Compute builds the result for gen. A panic inside the diff is logged and
// reported as no differences.
func (s *Session) Compute(gen uint64, oldText, newText string) (res Result) {
	defer logger.Trace("viewer.Compute")()

	res = Result{Generation: gen, Status: statusOf(oldText, newText)}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("diff computation failed: %v\n%s", r, debug.Stack())
			res.State = StateNoDifferences
			res.Alignment = &text.Alignment{}
			res.Groups = nil
			res.Highlights = text.Highlights{}
		}
	}()

	al := s.compute(oldText, newText)
	res.Alignment = al
	res.Groups = text.GroupConnectors(al.Connectors, s.proximity)
	res.Highlights = text.IntralineHighlights(al)
	if al.NoDifferences() {
		res.State = StateNoDifferences
	} else {
		res.State = StateReady
	}
	return res
}

// Failed builds a failure result for gen that carries the last good
// alignment so the view can keep showing it
func (s *Session) Failed(gen uint64, err error) Result {
	res := Result{Generation: gen, State: StateFailed, Err: err}
	s.mu.Lock()
	if s.lastGood != nil {
		res.PathA, res.PathB = s.lastGood.PathA, s.lastGood.PathB
		res.Alignment = s.lastGood.Alignment
		res.Groups = s.lastGood.Groups
		res.Highlights = s.lastGood.Highlights
		res.Status = s.lastGood.Status
	}
	s.mu.Unlock()
	return res
}

// Commit stores res if it belongs to the current generation and the session
// is still alive, and reports whether it did
func (s *Session) Commit(res Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.alive {
		logger.Debug("viewer: dropping result %d after close", res.Generation)
		return false
	}
	if res.Generation != s.generation {
		logger.Debug("viewer: dropping stale result %d (current %d)", res.Generation, s.generation)
		return false
	}
	s.current = res
	s.state = res.State
	if res.State != StateFailed {
		good := res
		s.lastGood = &good
	}
	return true
}

// Load fetches a file pair and diffs it for gen. A fetch error yields
// StateFailed carrying the previous good result.
func (s *Session) Load(ctx context.Context, gen uint64, fetcher PairFetcher, pathA, pathB string) Result {
	pair, err := fetcher.FetchPair(ctx, pathA, pathB)
	if err != nil {
		logger.Warn("viewer: fetch %q vs %q: %v", pathA, pathB, err)
		return s.Failed(gen, fmt.Errorf("failed to load files: %w", err))
	}
	res := s.Compute(gen, pair.OldText, pair.NewText)
	res.PathA, res.PathB = pathA, pathB
	res.Status = StatusOf(pair.ContentsA, pair.ContentsB)
	return res
}

// Current returns the last committed result and the session's state
func (s *Session) Current() (Result, State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.state
}

// Generation returns the generation of the latest request
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Close marks the session dead; later results are dropped
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alive = false
}

// Alive reports whether Close has not been called
func (s *Session) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alive
}
