// Package docstore abstracts the hosted document database behind a small
// path-addressed interface. Documents live in hierarchical collections
// ("users/<id>", "models/<orgID>/models/<id>") and carry schemaless field
// maps. The hosted backend itself is out of scope; the in-memory
// implementation in this package backs tests and local development.
package docstore

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Document is one stored record: its generated or caller-chosen id plus its
// field map.
type Document struct {
	ID   string
	Data map[string]any
}

// Filter is an equality/range constraint on a single field.
type Filter struct {
	Field string
	Op    string // "==", ">=", "<="
	Value any
}

// Query bundles filters with ordering and limits for a collection read.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

// ErrBadPath reports a malformed document or collection path.
var ErrBadPath = errors.New("docstore: malformed path")

// Store is the document-store collaborator contract. Reads report absence
// through the found flag, never through an error. Writes resolve the
// ServerTimestamp, ArrayUnion and ArrayRemove sentinels server-side.
type Store interface {
	// Get fetches one document by full path ("collection/id[/sub/id...]").
	Get(ctx context.Context, path string) (Document, bool, error)
	// GetAll returns every document in a collection.
	GetAll(ctx context.Context, collection string) ([]Document, error)
	// Find returns documents matching q, honoring order and limit.
	Find(ctx context.Context, collection string, q Query) ([]Document, error)
	// Count returns the number of documents in a collection.
	Count(ctx context.Context, collection string) (int64, error)
	// Create stores data under a generated id and returns that id.
	Create(ctx context.Context, collection string, data map[string]any) (string, error)
	// Set stores data at an exact path, replacing any existing document.
	Set(ctx context.Context, path string, data map[string]any) error
	// Update merges fields into an existing document.
	Update(ctx context.Context, path string, fields map[string]any) error
	// Delete removes the document at path. Deleting a missing document is not
	// an error.
	Delete(ctx context.Context, path string) error
}

type serverTimestamp struct{}

// ServerTimestamp is a write sentinel replaced with the store's own clock.
var ServerTimestamp = serverTimestamp{}

type arrayUnion struct{ elems []any }

// ArrayUnion appends elements to an array field, skipping duplicates.
func ArrayUnion(elems ...any) any { return arrayUnion{elems: elems} }

type arrayRemove struct{ elems []any }

// ArrayRemove removes elements from an array field.
func ArrayRemove(elems ...any) any { return arrayRemove{elems: elems} }

// Join builds a slash path from segments.
func Join(segments ...string) string { return strings.Join(segments, "/") }

// splitDocPath validates a document path: an even number of non-empty
// segments, the last being the document id.
func splitDocPath(path string) (collection, id string, err error) {
	segs := strings.Split(path, "/")
	if len(segs) < 2 || len(segs)%2 != 0 {
		return "", "", ErrBadPath
	}
	for _, s := range segs {
		if s == "" {
			return "", "", ErrBadPath
		}
	}
	return strings.Join(segs[:len(segs)-1], "/"), segs[len(segs)-1], nil
}

// resolveWrite materializes sentinels against existing field values.
func resolveWrite(existing map[string]any, fields map[string]any, now time.Time) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		switch sv := v.(type) {
		case serverTimestamp:
			out[k] = now
		case arrayUnion:
			cur := toSlice(existing[k])
			for _, e := range sv.elems {
				if !containsAny(cur, e) {
					cur = append(cur, e)
				}
			}
			out[k] = cur
		case arrayRemove:
			cur := toSlice(existing[k])
			kept := make([]any, 0, len(cur))
			for _, c := range cur {
				if !containsAny(sv.elems, c) {
					kept = append(kept, c)
				}
			}
			out[k] = kept
		default:
			out[k] = v
		}
	}
	return out
}

func toSlice(v any) []any {
	switch s := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]any, len(s))
		copy(out, s)
		return out
	case []string:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out
	default:
		return nil
	}
}

func containsAny(s []any, v any) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}
