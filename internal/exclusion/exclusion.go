// Package exclusion manages the persistent keyword-exclusion list used to
// drop branded and irrelevant queries before scoring.
package exclusion

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/model"
)

// Set is a case-folded exclusion list. A query is excluded when any entry
// is a substring of it, so excluding "brand" also drops "brand xyz login".
type Set struct {
	entries map[string]struct{}
}

// NewSet builds a set from raw terms, folding and deduplicating them.
func NewSet(terms []string) *Set {
	s := &Set{entries: make(map[string]struct{}, len(terms))}
	for _, t := range terms {
		s.Add(t)
	}
	return s
}

// Add inserts a term. Empty terms are ignored. Returns true if the term
// was not already present.
func (s *Set) Add(term string) bool {
	key := model.FoldKey(term)
	if key == "" {
		return false
	}
	if _, ok := s.entries[key]; ok {
		return false
	}
	s.entries[key] = struct{}{}
	return true
}

// Remove deletes a term. Returns true if it was present.
func (s *Set) Remove(term string) bool {
	key := model.FoldKey(term)
	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	return true
}

// Excludes reports whether the query matches any entry, either exactly or
// by containing an entry as a substring.
func (s *Set) Excludes(query string) bool {
	folded := model.FoldKey(query)
	if folded == "" {
		return false
	}
	if _, ok := s.entries[folded]; ok {
		return true
	}
	for entry := range s.entries {
		if strings.Contains(folded, entry) {
			return true
		}
	}
	return false
}

// Terms returns the entries sorted ascending.
func (s *Set) Terms() []string {
	terms := make([]string, 0, len(s.entries))
	for t := range s.entries {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// Len returns the number of entries.
func (s *Set) Len() int {
	return len(s.entries)
}

// Store persists an exclusion set between runs.
type Store interface {
	Load() (*Set, error)
	Save(*Set) error
}

// FileStore keeps the exclusion list as a line-delimited text file. A
// missing file reads as an empty set.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (fs *FileStore) Load() (*Set, error) {
	f, err := os.Open(fs.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSet(nil), nil
		}
		return nil, eris.Wrapf(err, "exclusion: open %s", fs.Path)
	}
	defer f.Close() //nolint:errcheck

	set := NewSet(nil)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		set.Add(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "exclusion: read %s", fs.Path)
	}
	return set, nil
}

func (fs *FileStore) Save(set *Set) error {
	if dir := filepath.Dir(fs.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "exclusion: create %s", dir)
		}
	}

	var b strings.Builder
	for _, t := range set.Terms() {
		b.WriteString(t)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(fs.Path, []byte(b.String()), 0o644); err != nil {
		return eris.Wrapf(err, "exclusion: write %s", fs.Path)
	}
	return nil
}
