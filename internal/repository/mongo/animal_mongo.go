// Package mongo provides the MongoDB implementation of repository.AnimalRepository.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"animalshelter/internal/model"
	"animalshelter/internal/repository"
)

// AnimalMongo stores animal records in a single MongoDB collection.
// It is safe for concurrent use; the driver handles pooling.
type AnimalMongo struct {
	coll collection
}

// NewAnimalMongo creates a repository over a connected collection handle.
func NewAnimalMongo(coll *mongodriver.Collection) *AnimalMongo {
	return &AnimalMongo{coll: mongoCollection{coll: coll}}
}

var _ repository.AnimalRepository = (*AnimalMongo)(nil)

// Insert adds one document. Mongo assigns an ObjectID when rec has no _id.
func (r *AnimalMongo) Insert(ctx context.Context, rec model.Record) (any, error) {
	res, err := r.coll.InsertOne(ctx, bson.M(rec))
	if err != nil {
		return nil, fmt.Errorf("mongodb insert animal: %w", err)
	}
	return res.InsertedID, nil
}

// Find returns all matching documents in natural order.
func (r *AnimalMongo) Find(ctx context.Context, q model.Query) ([]model.Record, error) {
	cur, err := r.coll.Find(ctx, toFilter(q))
	if err != nil {
		return nil, fmt.Errorf("mongodb find animals: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongodb find animals decode: %w", err)
	}

	out := make([]model.Record, len(docs))
	for i, d := range docs {
		out[i] = model.Record(d)
	}
	return out, nil
}

// UpdateMany sets values on every match. The count excludes matches whose
// fields already held the new values.
func (r *AnimalMongo) UpdateMany(ctx context.Context, q model.Query, values model.Record) (int64, error) {
	res, err := r.coll.UpdateMany(ctx, toFilter(q), bson.M{model.OpSet: bson.M(values)})
	if err != nil {
		return 0, fmt.Errorf("mongodb update animals: %w", err)
	}
	return res.ModifiedCount, nil
}

// DeleteMany removes every match.
func (r *AnimalMongo) DeleteMany(ctx context.Context, q model.Query) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, toFilter(q))
	if err != nil {
		return 0, fmt.Errorf("mongodb delete animals: %w", err)
	}
	return res.DeletedCount, nil
}

// Ping checks the primary of the collection's deployment.
func (r *AnimalMongo) Ping(ctx context.Context) error {
	return r.coll.Ping(ctx)
}

// toFilter never returns nil; the driver rejects a nil filter document.
func toFilter(q model.Query) bson.M {
	if q == nil {
		return bson.M{}
	}
	return bson.M(q)
}

type collection interface {
	InsertOne(ctx context.Context, document any) (*mongodriver.InsertOneResult, error)
	Find(ctx context.Context, filter any) (cursor, error)
	UpdateMany(ctx context.Context, filter any, update any) (*mongodriver.UpdateResult, error)
	DeleteMany(ctx context.Context, filter any) (*mongodriver.DeleteResult, error)
	Ping(ctx context.Context) error
}

type cursor interface {
	All(ctx context.Context, results any) error
	Close(ctx context.Context) error
}

type mongoCollection struct {
	coll *mongodriver.Collection
}

func (c mongoCollection) InsertOne(ctx context.Context, document any) (*mongodriver.InsertOneResult, error) {
	return c.coll.InsertOne(ctx, document)
}

func (c mongoCollection) Find(ctx context.Context, filter any) (cursor, error) {
	cur, err := c.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return cur, nil
}

func (c mongoCollection) UpdateMany(ctx context.Context, filter any, update any) (*mongodriver.UpdateResult, error) {
	return c.coll.UpdateMany(ctx, filter, update)
}

func (c mongoCollection) DeleteMany(ctx context.Context, filter any) (*mongodriver.DeleteResult, error) {
	return c.coll.DeleteMany(ctx, filter)
}

func (c mongoCollection) Ping(ctx context.Context) error {
	return c.coll.Database().Client().Ping(ctx, readpref.Primary())
}
