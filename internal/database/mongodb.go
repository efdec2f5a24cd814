package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docshub/backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrUnavailable is returned by every data operation when the store was
// never configured or the connection could not be established.
var ErrUnavailable = errors.New("database not available: check DATABASE_URL and DATABASE_NAME")

// Store wraps a MongoDB connection and exposes collection-scoped primitives.
// A Store is always usable: when the database is unconfigured or unreachable
// it stays in disconnected mode and data operations fail with ErrUnavailable
// while the rest of the process keeps running.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect attempts to reach MongoDB within the given timeout and returns the
// resulting Store. Connection failure is not an error at this level: the
// caller gets a disconnected Store and the process keeps serving liveness
// and diagnostics. A failed ping alone does not discard the handle, since
// the server may come up later and the driver reconnects on demand.
func Connect(ctx context.Context, url, name string, timeout time.Duration) *Store {
	if url == "" || name == "" {
		logger.Warnf("database not configured (DATABASE_URL/DATABASE_NAME missing), starting disconnected")
		return &Store{}
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client, err := mongo.Connect(cctx, options.Client().ApplyURI(url).SetServerSelectionTimeout(timeout))
	if err != nil {
		logger.Warnf("mongo connect failed, starting disconnected: %v", err)
		return &Store{}
	}
	if err := client.Ping(cctx, nil); err != nil {
		logger.Warnf("mongo ping failed (keeping handle): %v", err)
	}
	return &Store{client: client, db: client.Database(name)}
}

// Connected reports whether a database handle is available.
func (s *Store) Connected() bool {
	return s != nil && s.db != nil
}

// DatabaseName returns the configured database name, or "" when disconnected.
func (s *Store) DatabaseName() string {
	if !s.Connected() {
		return ""
	}
	return s.db.Name()
}

// Insert adds created_at/updated_at timestamps (UTC, both equal) to the
// record, inserts it into the named collection and returns the generated
// identifier as a string.
func (s *Store) Insert(ctx context.Context, collection string, record bson.M) (string, error) {
	if !s.Connected() {
		return "", ErrUnavailable
	}
	now := time.Now().UTC()
	record["created_at"] = now
	record["updated_at"] = now
	res, err := s.db.Collection(collection).InsertOne(ctx, record)
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return idString(res.InsertedID), nil
}

// Find returns all records matching filter, up to limit when limit > 0.
func (s *Store) Find(ctx context.Context, collection string, filter bson.M, limit int64) ([]bson.M, error) {
	if !s.Connected() {
		return nil, ErrUnavailable
	}
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	defer cur.Close(ctx)
	out := []bson.M{}
	for cur.Next(ctx) {
		var rec bson.M
		if err := cur.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode from %s: %w", collection, err)
		}
		out = append(out, rec)
	}
	return out, cur.Err()
}

// FindOne returns the first record matching filter, or nil when nothing
// matches. A miss is not an error; it is the normal existence-check result.
func (s *Store) FindOne(ctx context.Context, collection string, filter bson.M) (bson.M, error) {
	if !s.Connected() {
		return nil, ErrUnavailable
	}
	var rec bson.M
	err := s.db.Collection(collection).FindOne(ctx, filter).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("findOne in %s: %w", collection, err)
	}
	return rec, nil
}

// DeleteOne deletes at most one record matching filter and returns the
// number deleted (0 or 1).
func (s *Store) DeleteOne(ctx context.Context, collection string, filter bson.M) (int64, error) {
	if !s.Connected() {
		return 0, ErrUnavailable
	}
	res, err := s.db.Collection(collection).DeleteOne(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("deleteOne in %s: %w", collection, err)
	}
	return res.DeletedCount, nil
}

// ListCollectionNames returns the collection names of the database, used by
// the diagnostic endpoint.
func (s *Store) ListCollectionNames(ctx context.Context) ([]string, error) {
	if !s.Connected() {
		return nil, ErrUnavailable
	}
	return s.db.ListCollectionNames(ctx, bson.M{})
}

// idString renders a store-generated identifier as a string. Mongo assigns
// ObjectIDs, which map to their hex form; anything else falls back to Sprint.
func idString(id interface{}) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// IDString exposes idString for layers that project raw records.
func IDString(id interface{}) string { return idString(id) }
