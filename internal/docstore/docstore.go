// Package docstore is a schemaless collection store behind the generic
// /api/collection endpoint. Documents are JSON objects; MongoDB and an
// embedded Badger database are the two backends.
package docstore

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// SearchLimit caps the documents returned by one Find call.
const SearchLimit = 200

// Timestamp field added to every inserted document.
const TimestampField = "_ts"

var ErrInvalidCollection = errors.New("invalid collection name")

var collectionName = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Document is one stored JSON object.
type Document map[string]any

// Store is implemented by every backend.
type Store interface {
	// Insert stores doc with a fresh _ts and returns the new id.
	Insert(ctx context.Context, collection string, doc Document) (string, error)
	// Find returns up to limit documents. A non-empty query keeps documents
	// matching any of its whitespace separated terms.
	Find(ctx context.Context, collection, query string, limit int) ([]Document, error)
	Close(ctx context.Context) error
}

// ValidCollection reports whether name can be used as a collection name.
func ValidCollection(name string) bool {
	return collectionName.MatchString(name)
}

func terms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// matches reports whether any term occurs in any string value of v.
func matches(v any, terms []string) bool {
	switch val := v.(type) {
	case string:
		s := strings.ToLower(val)
		for _, t := range terms {
			if strings.Contains(s, t) {
				return true
			}
		}
	case map[string]any:
		for k, child := range val {
			if k == "_id" || k == TimestampField {
				continue
			}
			if matches(child, terms) {
				return true
			}
		}
	case Document:
		return matches(map[string]any(val), terms)
	case []any:
		for _, child := range val {
			if matches(child, terms) {
				return true
			}
		}
	}
	return false
}
