package storage

import (
	"context"
	"errors"

	"github.com/wbrown/janus-values/sqlvalue"
)

// ErrNotFound is returned when no record exists for an id
var ErrNotFound = errors.New("record not found")

// Record is a value stored under a record id
type Record struct {
	ID    sqlvalue.Thing
	Value sqlvalue.Value
}

// Store is the interface for record storage
type Store interface {
	// Write operations
	Put(ctx context.Context, id sqlvalue.Thing, v sqlvalue.Value) error
	PutBatch(ctx context.Context, records []Record) error
	Delete(ctx context.Context, id sqlvalue.Thing) error

	// Read operations
	Get(ctx context.Context, id sqlvalue.Thing) (sqlvalue.Value, error)
	Scan(ctx context.Context, table string, fn func(Record) error) error
	Count(ctx context.Context, table string) (int64, error)

	// Lifecycle
	Close() error
}
