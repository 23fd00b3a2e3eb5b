package catalog

import (
	"context"

	"curseddiff/logger"

	"golang.org/x/sync/errgroup"
)

// FindIndex returns the position of path in entries, or -1
func FindIndex(entries []FileEntry, path string) int {
	if path == "" {
		return -1
	}
	for i, e := range entries {
		if e.Path == path {
			return i
		}
	}
	return -1
}

// Pair is the text of one file from each side, ready to diff
type Pair struct {
	PathA, PathB string
	OldText      string
	NewText      string
	// EntryA and EntryB are nil when the path was empty or not listed
	EntryA, EntryB *FileEntry
	// ContentsA and ContentsB are nil when that side has no file
	ContentsA, ContentsB *FileContents
}

// FetchPair loads both listings in parallel, then the contents of pathA from
// side A and pathB from side B. A path that is empty, not listed, or whose
// contents the backend answers with a non-200 status yields empty text.
// Transport and decode failures on either step are errors.
func (c *Client) FetchPair(ctx context.Context, pathA, pathB string) (*Pair, error) {
	defer logger.Trace("catalog.FetchPair")()

	var filesA, filesB []FileEntry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		filesA, err = c.ListFiles(gctx, SideA)
		return err
	})
	g.Go(func() error {
		var err error
		filesB, err = c.ListFiles(gctx, SideB)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pair := &Pair{PathA: pathA, PathB: pathB}
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pair.EntryA, pair.ContentsA, err = c.fetchSide(gctx, SideA, filesA, pathA)
		return err
	})
	g.Go(func() error {
		var err error
		pair.EntryB, pair.ContentsB, err = c.fetchSide(gctx, SideB, filesB, pathB)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if pair.ContentsA != nil {
		pair.OldText = pair.ContentsA.Contents
	}
	if pair.ContentsB != nil {
		pair.NewText = pair.ContentsB.Contents
	}

	return pair, nil
}

func (c *Client) fetchSide(ctx context.Context, side Side, entries []FileEntry, path string) (*FileEntry, *FileContents, error) {
	idx := FindIndex(entries, path)
	if idx < 0 {
		if path != "" {
			logger.Debug("catalog: %s not listed on side %s", path, side)
		}
		return nil, nil, nil
	}
	entry := entries[idx]

	fc, err := c.FileContents(ctx, side, idx)
	if err != nil {
		if isAbsent(err) {
			logger.Warn("catalog: contents of %s on side %s: %v", path, side, err)
			return &entry, nil, nil
		}
		return nil, nil, err
	}
	return &entry, fc, nil
}
