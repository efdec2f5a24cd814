package document

import (
	"fmt"
	"unicode/utf8"
)

// Collection is the MongoDB collection documents live in.
const Collection = "document"

// Categories a document may belong to.
var Categories = []string{"linux", "windows", "web"}

// Document is the creation payload and persistent shape of a doc. The store
// layer adds _id/created_at/updated_at on insert; Slug is derived from Title
// when the client omits it.
type Document struct {
	Title      string   `json:"title" bson:"title"`
	Slug       string   `json:"slug,omitempty" bson:"slug"`
	Content    string   `json:"content" bson:"content"`
	Category   string   `json:"category" bson:"category"`
	Tags       []string `json:"tags" bson:"tags"`
	CoverImage string   `json:"cover_image,omitempty" bson:"cover_image,omitempty"`
	CoverMime  string   `json:"cover_mime,omitempty" bson:"cover_mime,omitempty"`
	Author     string   `json:"author,omitempty" bson:"author,omitempty"`
}

// ListItem is the simplified projection returned by listings: no content,
// cover_image is null when absent.
type ListItem struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Slug       string      `json:"slug"`
	Category   string      `json:"category"`
	Tags       []string    `json:"tags"`
	CoverImage interface{} `json:"cover_image"`
}

// ValidationError describes a payload that fails schema constraints.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the creation payload against the schema: title 1-200
// chars, category one of Categories, content required. Tags default to an
// empty list; slug and cover fields are free-form.
func (d *Document) Validate() *ValidationError {
	if n := utf8.RuneCountInString(d.Title); n == 0 || n > 200 {
		return &ValidationError{Field: "title", Reason: "must be 1-200 characters"}
	}
	if !validCategory(d.Category) {
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("must be one of %v", Categories)}
	}
	if d.Content == "" {
		return &ValidationError{Field: "content", Reason: "is required"}
	}
	return nil
}

func validCategory(c string) bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}
