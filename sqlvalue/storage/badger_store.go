package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/wbrown/janus-values/sqlvalue"
)

// Options configures a BadgerStore
type Options struct {
	// Path is the database directory; ignored when InMemory is set
	Path     string
	InMemory bool
	Logger   *slog.Logger
}

// BadgerStore implements Store using BadgerDB
type BadgerStore struct {
	db     *badger.DB
	logger *slog.Logger
}

// NewBadgerStore opens a BadgerDB-backed store
func NewBadgerStore(opts Options) (*BadgerStore, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = nil // the store logs through slog instead

	bopts.DetectConflicts = false  // writes are blind puts
	bopts.ValueThreshold = 1 << 10 // small records stay in the LSM tree

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Debug("store opened", "path", opts.Path, "in_memory", opts.InMemory)

	return &BadgerStore{db: db, logger: logger}, nil
}

// Put stores v under id, replacing any previous value
func (s *BadgerStore) Put(ctx context.Context, id sqlvalue.Thing, v sqlvalue.Value) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeRecord(record(id, v))
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(id.Key(), data)
	})
}

// PutBatch stores many records through a single write batch
func (s *BadgerStore) PutBatch(ctx context.Context, records []Record) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := encodeRecord(record(r.ID, r.Value))
		if err != nil {
			return err
		}
		if err := wb.Set(r.ID.Key(), data); err != nil {
			return fmt.Errorf("failed to write %s: %w", r.ID, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("failed to flush batch: %w", err)
	}
	s.logger.Debug("batch written", "records", len(records))
	return nil
}

// Get returns the value stored under id, or ErrNotFound
func (s *BadgerStore) Get(ctx context.Context, id sqlvalue.Thing) (sqlvalue.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(id.Key())
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = decodeRecord(val)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	// keys are digests of the id, so confirm the stored id matches
	if !sqlvalue.Equal(result.ID, id) {
		return nil, fmt.Errorf("%s: key collides with %s", id, result.ID)
	}
	return result.Value, nil
}

// Delete removes the record under id. Deleting a missing record is not
// an error.
func (s *BadgerStore) Delete(ctx context.Context, id sqlvalue.Thing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(id.Key()); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to delete %s: %w", id, err)
		}
		return nil
	})
}

// Scan calls fn for every record of table in key order. Returning an
// error from fn stops the scan and is passed through.
func (s *BadgerStore) Scan(ctx context.Context, table string, fn func(Record) error) error {
	prefix := sqlvalue.TablePrefix(table)
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchSize = 100

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var r Record
			err := it.Item().Value(func(val []byte) error {
				var err error
				r, err = decodeRecord(val)
				return err
			})
			if err != nil {
				return fmt.Errorf("failed to read %q: %w", it.Item().Key(), err)
			}
			if err := fn(r); err != nil {
				return err
			}
		}
		return nil
	})
}

// Count counts the records of table without fetching values
func (s *BadgerStore) Count(ctx context.Context, table string) (int64, error) {
	txn := s.db.NewTransaction(false)
	defer txn.Discard()

	prefix := sqlvalue.TablePrefix(table)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false // keys only
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	defer it.Close()

	var count int64
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// Close closes the store
func (s *BadgerStore) Close() error {
	s.logger.Debug("store closed")
	return s.db.Close()
}

func record(id sqlvalue.Thing, v sqlvalue.Value) Record {
	if v == nil {
		v = sqlvalue.None{}
	}
	return Record{ID: id, Value: v}
}
