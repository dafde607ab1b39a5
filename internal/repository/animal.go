package repository

import (
	"context"

	"animalshelter/internal/model"
)

// AnimalRepository defines data access for the animal collection.
// No business logic here, strictly persistence operations. Every call is a
// round-trip to the store; errors are returned as-is for the caller to handle.
type AnimalRepository interface {
	// Insert stores one record and returns the identifier the store assigned.
	Insert(ctx context.Context, rec model.Record) (any, error)

	// Find returns every record matching q, materialized in store order.
	// An empty query matches all records.
	Find(ctx context.Context, q model.Query) ([]model.Record, error)

	// UpdateMany applies a field-level $set of values to every record matching q
	// and returns how many records actually changed.
	UpdateMany(ctx context.Context, q model.Query, values model.Record) (int64, error)

	// DeleteMany removes every record matching q and returns how many were removed.
	DeleteMany(ctx context.Context, q model.Query) (int64, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}
