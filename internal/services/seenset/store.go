// Package seenset persists the set of item identifiers already processed by
// any prior run. The set is the sole cross-run dedup state, stored as a
// sorted JSON array of ids; replacement is atomic (write temp then rename)
// and runs are serialized by an exclusive lock file
package seenset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	perr "claimscout/internal/platform/errors"
	"claimscout/internal/platform/logger"
)

// Set is the in-memory view for one run: the loaded base plus additions
// buffered until Persist. Buffering keeps the durable store untouched when a
// run dies or is cancelled mid-flight
type Set struct {
	base  map[string]struct{}
	added map[string]struct{}
}

// NewSet returns an empty Set
func NewSet() *Set {
	return &Set{base: map[string]struct{}{}, added: map[string]struct{}{}}
}

// Contains reports whether id was seen by a prior run or added in this one
func (s *Set) Contains(id string) bool {
	if _, ok := s.base[id]; ok {
		return true
	}
	_, ok := s.added[id]
	return ok
}

// Add buffers id as seen for the remainder of the run
func (s *Set) Add(id string) {
	if id == "" {
		return
	}
	if _, ok := s.base[id]; ok {
		return
	}
	s.added[id] = struct{}{}
}

// Len returns the total number of ids, persisted and buffered
func (s *Set) Len() int { return len(s.base) + len(s.added) }

// Pending returns the number of buffered, not yet persisted ids
func (s *Set) Pending() int { return len(s.added) }

// Store reads and replaces the durable seen-set file
type Store struct {
	path string
	log  logger.Logger

	locked bool
}

// New constructs a Store for the given file path
func New(path string) *Store {
	return &Store{path: path, log: *logger.Named("seenset")}
}

// lockPath is the sibling lock file guarding Load/Persist across processes
func (st *Store) lockPath() string { return st.path + ".lock" }

// Acquire takes the exclusive run lock. A second concurrent run against the
// same store would silently drop the first run's additions on Persist, so
// contention is a hard error, not a wait
func (st *Store) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(st.path), 0o755); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeWrite, "seen store dir create failed")
	}
	f, err := os.OpenFile(st.lockPath(), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return perr.Lockedf("seen store locked by another run (remove %s if stale)", st.lockPath())
		}
		return perr.Wrapf(err, perr.ErrorCodeWrite, "seen store lock create failed")
	}
	_, _ = fmt.Fprintf(f, "%d\n", os.Getpid())
	if err := f.Close(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeWrite, "seen store lock close failed")
	}
	st.locked = true
	return nil
}

// Release drops the run lock; safe to call when not held
func (st *Store) Release() {
	if !st.locked {
		return
	}
	if err := os.Remove(st.lockPath()); err != nil && !os.IsNotExist(err) {
		st.log.Error().Err(err).Str("path", st.lockPath()).Msg("seen store unlock failed")
	}
	st.locked = false
}

// Load reads all previously recorded identifiers. A missing or empty file is
// an empty set. An unparsable file is a Corrupt error: treating it as empty
// would re-emit the entire historical corpus as new
func (st *Store) Load(ctx context.Context) (*Set, error) {
	b, err := os.ReadFile(st.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSet(), nil
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeCorrupt, "seen store %s unreadable", st.path)
	}
	if strings.TrimSpace(string(b)) == "" {
		return NewSet(), nil
	}

	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeCorrupt, "seen store %s corrupt", st.path)
	}

	s := NewSet()
	for _, id := range ids {
		if id != "" {
			s.base[id] = struct{}{}
		}
	}
	logger.C(ctx).Debug().Int("ids", len(s.base)).Str("path", st.path).Msg("seen store loaded")
	return s, nil
}

// Persist flushes base plus buffered additions as one atomic replacement.
// The previous file stays intact if the process dies mid-write
func (st *Store) Persist(ctx context.Context, s *Set) error {
	ids := make([]string, 0, s.Len())
	for id := range s.base {
		ids = append(ids, id)
	}
	for id := range s.added {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	b, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeWrite, "seen store marshal failed")
	}

	dir := filepath.Dir(st.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeWrite, "seen store dir create failed")
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(st.path)+".tmp-*")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeWrite, "seen store temp create failed")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return perr.Wrapf(err, perr.ErrorCodeWrite, "seen store temp write failed")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return perr.Wrapf(err, perr.ErrorCodeWrite, "seen store temp close failed")
	}
	if err := os.Rename(tmpName, st.path); err != nil {
		_ = os.Remove(tmpName)
		return perr.Wrapf(err, perr.ErrorCodeWrite, "seen store replace failed")
	}

	logger.C(ctx).Info().
		Int("ids", len(ids)).
		Int("new", s.Pending()).
		Str("path", st.path).
		Msg("seen store persisted")
	return nil
}
