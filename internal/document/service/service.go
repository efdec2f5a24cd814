package service

import (
	"context"
	"errors"
	"regexp"

	"github.com/docshub/backend/internal/database"
	"github.com/docshub/backend/internal/document"
	"github.com/docshub/backend/pkg/slug"
	"go.mongodb.org/mongo-driver/bson"
)

var (
	// ErrDuplicateSlug means a document with the same slug already exists.
	ErrDuplicateSlug = errors.New("a document with this slug already exists")
	// ErrNotFound means no document carries the requested slug.
	ErrNotFound = errors.New("document not found")
)

// Store is the collection-scoped persistence surface the service composes.
// Satisfied by database.Store and database.MemoryStore.
type Store interface {
	Insert(ctx context.Context, collection string, record bson.M) (string, error)
	Find(ctx context.Context, collection string, filter bson.M, limit int64) ([]bson.M, error)
	FindOne(ctx context.Context, collection string, filter bson.M) (bson.M, error)
	DeleteOne(ctx context.Context, collection string, filter bson.M) (int64, error)
}

// ListQuery are the optional listing filters. Zero values mean "no filter";
// Limit <= 0 falls back to DefaultLimit.
type ListQuery struct {
	Category string
	Tag      string
	Q        string
	Limit    int64
}

const DefaultLimit = 50

// Service implements the document operations on top of a Store.
type Service struct {
	store Store
}

func New(store Store) *Service {
	return &Service{store: store}
}

// Create validates the payload, derives the slug from the title when the
// client did not supply one, checks slug uniqueness and inserts. The
// check-then-insert is not atomic: two concurrent creates with the same slug
// can both pass the existence check. Accepted at this system's scale; a
// unique index on slug would close the window at the store level.
func (s *Service) Create(ctx context.Context, d *document.Document) (id, slg string, err error) {
	if verr := d.Validate(); verr != nil {
		return "", "", verr
	}
	slg = d.Slug
	if slg == "" {
		slg = slug.Make(d.Title)
	}
	existing, err := s.store.FindOne(ctx, document.Collection, bson.M{"slug": slg})
	if err != nil {
		return "", "", err
	}
	if existing != nil {
		return "", "", ErrDuplicateSlug
	}
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	rec := bson.M{
		"title":    d.Title,
		"slug":     slg,
		"content":  d.Content,
		"category": d.Category,
		"tags":     tags,
	}
	if d.CoverImage != "" {
		rec["cover_image"] = d.CoverImage
	}
	if d.CoverMime != "" {
		rec["cover_mime"] = d.CoverMime
	}
	if d.Author != "" {
		rec["author"] = d.Author
	}
	id, err = s.store.Insert(ctx, document.Collection, rec)
	if err != nil {
		return "", "", err
	}
	return id, slg, nil
}

// List returns simplified projections of the documents matching q. Filters
// combine with AND; the free-text q is an OR of case-insensitive substring
// matches over title, content and tags. The query string is matched
// literally (quoted), not interpreted as a caller-supplied regex.
func (s *Service) List(ctx context.Context, q ListQuery) ([]document.ListItem, error) {
	filter := bson.M{}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Tag != "" {
		filter["tags"] = bson.M{"$in": bson.A{q.Tag}}
	}
	if q.Q != "" {
		pattern := regexp.QuoteMeta(q.Q)
		filter["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"content": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"tags": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	recs, err := s.store.Find(ctx, document.Collection, filter, limit)
	if err != nil {
		return nil, err
	}
	out := make([]document.ListItem, 0, len(recs))
	for _, rec := range recs {
		out = append(out, simplify(rec))
	}
	return out, nil
}

// GetBySlug returns the full stored record with the internal _id replaced by
// a string id field.
func (s *Service) GetBySlug(ctx context.Context, slg string) (bson.M, error) {
	rec, err := s.store.FindOne(ctx, document.Collection, bson.M{"slug": slg})
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	rec["id"] = database.IDString(rec["_id"])
	delete(rec, "_id")
	return rec, nil
}

// DeleteBySlug removes at most one document.
func (s *Service) DeleteBySlug(ctx context.Context, slg string) error {
	n, err := s.store.DeleteOne(ctx, document.Collection, bson.M{"slug": slg})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func simplify(rec bson.M) document.ListItem {
	item := document.ListItem{
		ID:       database.IDString(rec["_id"]),
		Tags:     []string{},
		Category: stringField(rec, "category"),
		Title:    stringField(rec, "title"),
		Slug:     stringField(rec, "slug"),
	}
	switch tags := rec["tags"].(type) {
	case []string:
		item.Tags = append(item.Tags, tags...)
	case bson.A:
		for _, t := range tags {
			if s, ok := t.(string); ok {
				item.Tags = append(item.Tags, s)
			}
		}
	}
	if cover := stringField(rec, "cover_image"); cover != "" {
		item.CoverImage = cover
	}
	return item
}

func stringField(rec bson.M, key string) string {
	s, _ := rec[key].(string)
	return s
}
