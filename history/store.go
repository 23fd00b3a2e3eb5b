// Package history records which file pairs were compared, with a capped
// most-recent list and an unbounded starred list.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"curseddiff/logger"
	"curseddiff/text"

	"github.com/dustin/go-humanize"
)

const (
	RecentKey  = "cursed-diff-history"
	StarredKey = "cursed-diff-starred"

	// MaxRecent caps the recent list; starred is unbounded
	MaxRecent = 20
)

// Record is one saved comparison
type Record struct {
	ID         string     `json:"id"`
	SourceFile string     `json:"sourceFile"`
	TargetFile string     `json:"targetFile"`
	Stats      text.Stats `json:"stats"`
	Date       time.Time  `json:"date"`
}

func (r Record) samePair(other Record) bool {
	return r.SourceFile == other.SourceFile && r.TargetFile == other.TargetFile
}

// Store reads and writes the two collections through a KV backend
type Store struct {
	kv  KV
	now func() time.Time
	mu  sync.Mutex
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv, now: time.Now}
}

func (s *Store) load(key string) ([]Record, error) {
	data, err := s.kv.Get(key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		// A corrupt collection is reset rather than blocking the rest of the app
		logger.Warn("history: discarding unreadable %s: %v", key, err)
		return nil, nil
	}
	return records, nil
}

func (s *Store) save(key string, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.kv.Set(key, data)
}

// Add saves a comparison at the front of the recent list, replacing any
// earlier record for the same source and target. Missing ID and date are
// filled from the clock.
func (s *Store) Add(rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if rec.Date.IsZero() {
		rec.Date = now
	}

	recent, err := s.load(RecentKey)
	if err != nil {
		return Record{}, err
	}
	if rec.ID == "" {
		starred, err := s.load(StarredKey)
		if err != nil {
			return Record{}, err
		}
		rec.ID = freeID(strconv.FormatInt(now.UnixMilli(), 10), recent, starred)
	}
	updated := make([]Record, 0, len(recent)+1)
	updated = append(updated, rec)
	for _, r := range recent {
		if !r.samePair(rec) {
			updated = append(updated, r)
		}
	}
	if len(updated) > MaxRecent {
		updated = updated[:MaxRecent]
	}

	if err := s.save(RecentKey, updated); err != nil {
		return Record{}, err
	}
	logger.Info("history: saved %s vs %s", FileName(rec.SourceFile), FileName(rec.TargetFile))
	return rec, nil
}

// freeID returns base, or base with the first "-N" suffix no stored record
// uses, so two comparisons saved in the same millisecond stay apart
func freeID(base string, lists ...[]Record) string {
	taken := make(map[string]bool)
	for _, records := range lists {
		for _, r := range records {
			taken[r.ID] = true
		}
	}
	id := base
	for n := 1; taken[id]; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	return id
}

// Get finds a record by id in either list
func (s *Store) Get(id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range []string{RecentKey, StarredKey} {
		records, err := s.load(key)
		if err != nil {
			return Record{}, err
		}
		for _, r := range records {
			if r.ID == id {
				return r, nil
			}
		}
	}
	return Record{}, ErrNotFound
}

// Delete removes a record from both lists
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, key := range []string{RecentKey, StarredKey} {
		records, err := s.load(key)
		if err != nil {
			return err
		}
		kept := records[:0]
		for _, r := range records {
			if r.ID == id {
				found = true
				continue
			}
			kept = append(kept, r)
		}
		if len(kept) != len(records) {
			if err := s.save(key, kept); err != nil {
				return err
			}
		}
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// ToggleStar stars an unstarred record (prepending it) or unstars a starred
// one, and reports the new state
func (s *Store) ToggleStar(rec Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	starred, err := s.load(StarredKey)
	if err != nil {
		return false, err
	}
	for i, r := range starred {
		if r.ID == rec.ID {
			starred = append(starred[:i], starred[i+1:]...)
			return false, s.save(StarredKey, starred)
		}
	}
	starred = append([]Record{rec}, starred...)
	return true, s.save(StarredKey, starred)
}

// IsStarred reports whether id is in the starred list
func (s *Store) IsStarred(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	starred, err := s.load(StarredKey)
	if err != nil {
		return false, err
	}
	for _, r := range starred {
		if r.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// Recent returns the recent list, newest first
func (s *Store) Recent() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(RecentKey)
}

// Starred returns the starred list, most recently starred first
func (s *Store) Starred() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(StarredKey)
}

// Clear drops both lists
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range []string{RecentKey, StarredKey} {
		if err := s.kv.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// FileName returns the last path segment for display
func FileName(path string) string {
	if path == "" {
		return "unknown file"
	}
	return path[strings.LastIndex(path, "/")+1:]
}

// Age describes how long ago the record was saved. Records older than a
// week show their date instead.
func Age(rec Record, now time.Time) string {
	if rec.Date.IsZero() {
		return "Unknown date"
	}
	elapsed := now.Sub(rec.Date)
	switch {
	case elapsed < time.Minute:
		return "Just now"
	case elapsed < 7*24*time.Hour:
		return humanize.RelTime(rec.Date, now, "ago", "from now")
	default:
		return rec.Date.Local().Format("2006-01-02")
	}
}
