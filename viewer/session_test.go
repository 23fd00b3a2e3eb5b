package viewer

import (
	"context"
	"curseddiff/assert"
	"curseddiff/catalog"
	"curseddiff/text"
	"errors"
	"testing"
)

func TestSession_ComputeReady(t *testing.T) {
	s := NewSession(text.DefaultProximity)
	gen := s.Begin()

	res := s.Compute(gen, "x\ny\nz", "x\nq\nz")
	assert.Equal(t, StateReady, res.State, "state")
	assert.Equal(t, text.Stats{Added: 1, Removed: 1, Unchanged: 2}, res.Alignment.Stats, "stats")
	assert.Len(t, 1, res.Groups, "one replace blob")
	assert.Equal(t, StatusModified, res.Status, "status")
	assert.True(t, s.Commit(res), "committed")

	cur, state := s.Current()
	assert.Equal(t, StateReady, state, "session state")
	assert.Equal(t, gen, cur.Generation, "current generation")
}

func TestSession_ComputeNoDifferences(t *testing.T) {
	s := NewSession(text.DefaultProximity)

	for _, tc := range [][2]string{{"", ""}, {"same\n", "same\n"}} {
		res := s.Compute(s.Begin(), tc[0], tc[1])
		assert.Equal(t, StateNoDifferences, res.State, "no differences for "+tc[0])
	}
}

func TestSession_PanicBecomesNoDifferences(t *testing.T) {
	s := NewSession(text.DefaultProximity)
	s.compute = func(string, string) *text.Alignment { panic("malformed hunk") }

	res := s.Compute(s.Begin(), "a", "b")
	assert.Equal(t, StateNoDifferences, res.State, "recovered")
	assert.NotNil(t, res.Alignment, "empty alignment")
	assert.Len(t, 0, res.Alignment.Left, "no lines")
}

func TestSession_StaleResultDropped(t *testing.T) {
	s := NewSession(text.DefaultProximity)
	first := s.Begin()
	second := s.Begin()

	assert.False(t, s.Commit(s.Compute(first, "a", "b")), "stale result rejected")
	assert.True(t, s.Commit(s.Compute(second, "a", "c")), "current result accepted")

	cur, _ := s.Current()
	assert.Equal(t, second, cur.Generation, "latest wins")
}

func TestSession_ClosedDropsResults(t *testing.T) {
	s := NewSession(text.DefaultProximity)
	gen := s.Begin()
	s.Close()

	assert.False(t, s.Alive(), "closed")
	assert.False(t, s.Commit(s.Compute(gen, "a", "b")), "dropped after close")
}

func TestSession_OutOfOrderLoadsCommitLatest(t *testing.T) {
	s := NewSession(text.DefaultProximity)
	ctx := context.Background()
	first := s.Begin()
	second := s.Begin()

	// the newer request finishes first
	latest := s.Load(ctx, second, textFetcher("a\n", "c\n"), "f.go", "f.go")
	assert.True(t, s.Commit(latest), "latest committed")

	stale := s.Load(ctx, first, textFetcher("a\n", "b\n"), "f.go", "f.go")
	assert.False(t, s.Commit(stale), "older request dropped")

	cur, _ := s.Current()
	assert.Equal(t, second, cur.Generation, "current generation")
	assert.Equal(t, "c", cur.Alignment.Right[0].Content, "latest content kept")
}

type fakeFetcher struct {
	pair *catalog.Pair
	err  error
}

func (f fakeFetcher) FetchPair(ctx context.Context, pathA, pathB string) (*catalog.Pair, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pair, nil
}

func textFetcher(oldText, newText string) fakeFetcher {
	return fakeFetcher{pair: &catalog.Pair{
		OldText:   oldText,
		NewText:   newText,
		ContentsA: &catalog.FileContents{Contents: oldText},
		ContentsB: &catalog.FileContents{Contents: newText},
	}}
}

func TestSession_LoadFailureKeepsLastGood(t *testing.T) {
	s := NewSession(text.DefaultProximity)
	ctx := context.Background()

	good := s.Load(ctx, s.Begin(), textFetcher("a\n", "a\nb\n"), "f.go", "f.go")
	assert.True(t, s.Commit(good), "committed")
	assert.Equal(t, StateReady, good.State, "ready")
	assert.Equal(t, "f.go", good.PathA, "path A")
	assert.Equal(t, StatusModified, good.Status, "status")

	failed := s.Load(ctx, s.Begin(), fakeFetcher{err: errors.New("connection refused")}, "g.go", "g.go")
	assert.True(t, s.Commit(failed), "failure committed")
	assert.Equal(t, StateFailed, failed.State, "failed")
	assert.Error(t, failed.Err, "error surfaced")
	assert.True(t, failed.Alignment == good.Alignment, "last good alignment kept")
	assert.Equal(t, "f.go", failed.PathA, "last good paths kept")

	_, state := s.Current()
	assert.Equal(t, StateFailed, state, "session state")
}

func TestSession_LoadStatusFromAbsentSide(t *testing.T) {
	s := NewSession(text.DefaultProximity)
	pair := &catalog.Pair{
		NewText:   "package pkg\n",
		ContentsB: &catalog.FileContents{Path: "pkg/new.go", Contents: "package pkg\n"},
	}

	res := s.Load(context.Background(), s.Begin(), fakeFetcher{pair: pair}, "", "pkg/new.go")
	assert.Equal(t, StatusAdded, res.Status, "missing A side")
	assert.Equal(t, 1, res.Alignment.Stats.Added, "added lines")
}

func TestSession_FailedWithoutHistory(t *testing.T) {
	s := NewSession(text.DefaultProximity)
	res := s.Failed(s.Begin(), errors.New("boom"))
	assert.True(t, res.Alignment == nil, "nothing to keep")
	assert.Equal(t, StateFailed, res.State, "state")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "NoDifferences", StateNoDifferences.String(), "name")
	assert.Equal(t, "Unknown", State(42).String(), "unknown")
}
