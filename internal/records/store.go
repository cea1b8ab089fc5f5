// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package records

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/ManuGH/ytsum/internal/apperr"
	"github.com/ManuGH/ytsum/internal/log"
	"github.com/ManuGH/ytsum/internal/metrics"
)

// ErrDuplicateID is returned by Append when the record id is already stored.
var ErrDuplicateID = errors.New("record id already exists")

// Store holds the record collection in memory and mirrors every mutation to
// a primary file and a backup copy.
//
// Mutations are serialized by a single writer lock held across
// mutate-and-persist. A failed primary write is logged and answered by
// reloading memory from the backup; it is never returned to the caller, so
// the caller's view and the durable view can diverge until the next
// successful write.
type Store struct {
	mu         sync.RWMutex
	records    []Record
	path       string
	backupPath string
	loaded     atomic.Bool
}

// NewStore creates a store backed by path. An empty backupPath means path+".bak".
func NewStore(path, backupPath string) *Store {
	if backupPath == "" {
		backupPath = path + ".bak"
	}
	return &Store{
		records:    []Record{},
		path:       path,
		backupPath: backupPath,
	}
}

// Path returns the primary file path.
func (s *Store) Path() string { return s.path }

// BackupPath returns the backup file path.
func (s *Store) BackupPath() string { return s.backupPath }

// Load reads the primary file into memory. A missing, unreadable or invalid
// file yields an empty collection; Load never fails.
func (s *Store) Load(ctx context.Context) int {
	logger := log.WithComponentFromContext(ctx, "records")

	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := readFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Info().
			Str(log.FieldEvent, "store.load_empty").
			Str(log.FieldPath, s.path).
			Msg("record file not found, starting with empty collection")
		recs = []Record{}
	case err != nil:
		logger.Warn().
			Err(err).
			Str(log.FieldEvent, "store.load_invalid").
			Str(log.FieldPath, s.path).
			Msg("record file unreadable, starting with empty collection")
		recs = []Record{}
	}

	s.records = recs
	s.loaded.Store(true)
	metrics.SetStoreRecords(len(recs))

	logger.Info().
		Str(log.FieldEvent, "store.loaded").
		Int("records", len(recs)).
		Msg("record store loaded")
	return len(recs)
}

// Loaded reports whether Load has completed.
func (s *Store) Loaded() bool {
	return s.loaded.Load()
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// List returns the records at offset (page-1)*perPage in insertion order.
// Pages past the end are empty, not an error.
func (s *Store) List(page, perPage int) (Page, error) {
	if page < 1 || perPage < 1 {
		return Page{}, apperr.Client("records.list", "page and per_page must be positive integers")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.records)
	out := Page{Records: []Record{}, Total: total, Page: page, PerPage: perPage}

	// Guard the offset product against overflow for absurd inputs.
	if page-1 > total/perPage {
		return out, nil
	}
	start := (page - 1) * perPage
	if start >= total {
		return out, nil
	}
	end := min(start+perPage, total)
	out.Records = slices.Clone(s.records[start:end])
	return out, nil
}

// All returns a copy of the full collection.
func (s *Store) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.ID == id {
			return r, nil
		}
	}
	return Record{}, apperr.NotFound("records.get", "Summary not found")
}

// Append adds rec to the end of the collection and persists it.
func (s *Store) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.ID == rec.ID {
			return apperr.Wrap(apperr.KindInternal, "records.append", "duplicate record id", ErrDuplicateID)
		}
	}

	s.records = append(s.records, rec)
	s.persistLocked(ctx)
	return nil
}

// Delete removes every record with the given id and persists the result.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := slices.DeleteFunc(slices.Clone(s.records), func(r Record) bool {
		return r.ID == id
	})
	if len(kept) == len(s.records) {
		return apperr.NotFound("records.delete", "Summary not found")
	}

	s.records = kept
	s.persistLocked(ctx)
	return nil
}

// persistLocked writes the collection to the primary file and then to the
// backup. Caller must hold s.mu for writing.
func (s *Store) persistLocked(ctx context.Context) {
	logger := log.WithComponentFromContext(ctx, "records")
	defer func() { metrics.SetStoreRecords(len(s.records)) }()

	data, err := encode(s.records)
	if err != nil {
		logger.Error().Err(err).Str(log.FieldEvent, "store.encode_failed").Msg("failed to encode records")
		return
	}

	if err := writeFile(ctx, s.path, data); err != nil {
		metrics.IncPersistFailure("primary")
		logger.Error().
			Err(err).
			Str(log.FieldEvent, "store.persist_failed").
			Str(log.FieldPath, s.path).
			Msg("failed to write record file")
		s.recoverLocked(ctx)
		return
	}

	if err := writeFile(ctx, s.backupPath, data); err != nil {
		metrics.IncPersistFailure("backup")
		logger.Warn().
			Err(err).
			Str(log.FieldEvent, "store.backup_failed").
			Str(log.FieldPath, s.backupPath).
			Msg("failed to write backup record file")
	}
}

// recoverLocked replaces memory with the backup content when the backup is
// readable and valid. Otherwise memory is left as is.
func (s *Store) recoverLocked(ctx context.Context) {
	logger := log.WithComponentFromContext(ctx, "records")

	recs, err := readFile(s.backupPath)
	if err != nil {
		metrics.IncStoreRecovery("skipped")
		logger.Warn().
			Err(err).
			Str(log.FieldEvent, "store.recovery_skipped").
			Str(log.FieldPath, s.backupPath).
			Msg("backup unavailable, keeping in-memory records")
		return
	}

	s.records = recs
	metrics.IncStoreRecovery("restored")
	logger.Warn().
		Str(log.FieldEvent, "store.recovered").
		Int("records", len(recs)).
		Msg("restored records from backup after failed write")
}

func readFile(path string) ([]Record, error) {
	// #nosec G304 -- store paths come from operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if recs == nil {
		recs = []Record{}
	}
	return recs, nil
}

func encode(recs []Record) ([]byte, error) {
	if recs == nil {
		recs = []Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(recs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
