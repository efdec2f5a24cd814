package database

import (
	"context"
	"reflect"
	"regexp"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-memory implementation of the store primitives used by
// unit tests. It evaluates the same filter dialect the Mongo-backed Store is
// queried with: field equality, $in membership, case-insensitive $regex
// substring match, and $or disjunctions. Insertion order is preserved so
// unfiltered listings are stable.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]bson.M
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]bson.M)}
}

func (m *MemoryStore) Insert(ctx context.Context, collection string, record bson.M) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := cloneRecord(record)
	id := primitive.NewObjectID()
	rec["_id"] = id
	now := time.Now().UTC()
	rec["created_at"] = now
	rec["updated_at"] = now
	m.records[collection] = append(m.records[collection], rec)
	return id.Hex(), nil
}

func (m *MemoryStore) Find(ctx context.Context, collection string, filter bson.M, limit int64) ([]bson.M, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []bson.M{}
	for _, rec := range m.records[collection] {
		if matchFilter(rec, filter) {
			out = append(out, cloneRecord(rec))
			if limit > 0 && int64(len(out)) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MemoryStore) FindOne(ctx context.Context, collection string, filter bson.M) (bson.M, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rec := range m.records[collection] {
		if matchFilter(rec, filter) {
			return cloneRecord(rec), nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) DeleteOne(ctx context.Context, collection string, filter bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recs := m.records[collection]
	for i, rec := range recs {
		if matchFilter(rec, filter) {
			m.records[collection] = append(recs[:i:i], recs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// matchFilter evaluates a filter document against a record. Clauses combine
// with AND; "$or" takes a list of sub-filters of which one must match.
func matchFilter(rec bson.M, filter bson.M) bool {
	for key, cond := range filter {
		if key == "$or" {
			if !matchOr(rec, cond) {
				return false
			}
			continue
		}
		if !matchField(rec[key], cond) {
			return false
		}
	}
	return true
}

func matchOr(rec bson.M, cond interface{}) bool {
	for _, sub := range asSlice(cond) {
		if sf, ok := sub.(bson.M); ok && matchFilter(rec, sf) {
			return true
		}
	}
	return false
}

// matchField evaluates a single field condition: either an operator document
// ($in, $regex) or a literal equality.
func matchField(value interface{}, cond interface{}) bool {
	if ops, ok := cond.(bson.M); ok {
		if want, ok := ops["$in"]; ok {
			for _, candidate := range asSlice(want) {
				if containsValue(value, candidate) {
					return true
				}
			}
			return false
		}
		if pattern, ok := ops["$regex"]; ok {
			expr := pattern.(string)
			if opts, ok := ops["$options"].(string); ok && opts != "" {
				expr = "(?" + opts + ")" + expr
			}
			re, err := regexp.Compile(expr)
			if err != nil {
				return false
			}
			return matchRegex(value, re)
		}
		return reflect.DeepEqual(value, cond)
	}
	return containsValue(value, cond)
}

// containsValue reports equality, treating an array value as membership the
// way Mongo does when a scalar is matched against an array field.
func containsValue(value interface{}, want interface{}) bool {
	for _, el := range asSlice(value) {
		if reflect.DeepEqual(el, want) {
			return true
		}
	}
	return reflect.DeepEqual(value, want)
}

// matchRegex applies the pattern to a string value, or to every element of
// an array value.
func matchRegex(value interface{}, re *regexp.Regexp) bool {
	if s, ok := value.(string); ok {
		return re.MatchString(s)
	}
	for _, el := range asSlice(value) {
		if s, ok := el.(string); ok && re.MatchString(s) {
			return true
		}
	}
	return false
}

// asSlice normalizes the array shapes that cross this layer (bson.A from
// decoded filters, []string from Go callers) into a generic slice.
func asSlice(v interface{}) []interface{} {
	switch a := v.(type) {
	case bson.A:
		return a
	case []interface{}:
		return a
	case []string:
		out := make([]interface{}, len(a))
		for i, s := range a {
			out[i] = s
		}
		return out
	default:
		return nil
	}
}

func cloneRecord(rec bson.M) bson.M {
	out := make(bson.M, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
