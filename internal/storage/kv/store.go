// Package kv implements the node's opaque at-rest key-value store, used
// for anything that doesn't need relational queries (spec.md §6's
// storage layout note: "opaque; described for replay" covers the
// relational tables, but caches and local-only bookkeeping live here
// instead, adapted from the teacher's NodeStore).
package kv

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Store wraps a goleveldb database.
type Store struct {
	db *leveldb.DB
}

// Open opens (or creates) a LevelDB database at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("kv: open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Put writes a key-value pair.
func (s *Store) Put(key, value []byte) error {
	if err := s.db.Put(key, value, nil); err != nil {
		return fmt.Errorf("kv: put: %w", err)
	}
	return nil
}

// Get reads a value, returning (nil, false, nil) when the key is absent.
func (s *Store) Get(key []byte) ([]byte, bool, error) {
	data, err := s.db.Get(key, nil)
	if err == errors.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kv: get: %w", err)
	}
	return data, true, nil
}

// Delete removes a key, a no-op if it doesn't exist.
func (s *Store) Delete(key []byte) error {
	if err := s.db.Delete(key, nil); err != nil {
		return fmt.Errorf("kv: delete: %w", err)
	}
	return nil
}

// Has reports whether a key exists.
func (s *Store) Has(key []byte) (bool, error) {
	ok, err := s.db.Has(key, nil)
	if err != nil {
		return false, fmt.Errorf("kv: has: %w", err)
	}
	return ok, nil
}

// Batch accumulates writes for atomic application via Execute.
type Batch struct {
	raw   *leveldb.Batch
	store *Store
}

// NewBatch creates an empty batch bound to this store.
func (s *Store) NewBatch() *Batch {
	return &Batch{raw: new(leveldb.Batch), store: s}
}

// Put stages a write in the batch.
func (b *Batch) Put(key, value []byte) { b.raw.Put(key, value) }

// Delete stages a delete in the batch.
func (b *Batch) Delete(key []byte) { b.raw.Delete(key) }

// Execute atomically applies every staged operation.
func (b *Batch) Execute() error {
	if err := b.store.db.Write(b.raw, nil); err != nil {
		return fmt.Errorf("kv: batch execute: %w", err)
	}
	return nil
}

// IteratePrefix calls fn for every key with the given prefix, in key
// order, stopping early if fn returns false.
func (s *Store) IteratePrefix(prefix []byte, fn func(key, value []byte) bool) error {
	iter := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()
	for iter.Next() {
		if !fn(iter.Key(), iter.Value()) {
			break
		}
	}
	return iter.Error()
}
