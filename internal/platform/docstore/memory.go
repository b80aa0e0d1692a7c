package docstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is a mutex-guarded in-process Store. It backs tests and local
// development; deployments substitute a hosted-database implementation.
type Memory struct {
	mu   sync.RWMutex
	cols map[string]map[string]map[string]any // collection path -> id -> fields
	now  func() time.Time
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		cols: make(map[string]map[string]map[string]any),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the server-timestamp clock, for tests.
func (m *Memory) SetClock(now func() time.Time) { m.now = now }

func (m *Memory) Get(ctx context.Context, path string) (Document, bool, error) {
	col, id, err := splitDocPath(path)
	if err != nil {
		return Document{}, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.cols[col][id]
	if !ok {
		return Document{}, false, nil
	}
	return Document{ID: id, Data: cloneMap(data)}, true, nil
}

func (m *Memory) GetAll(ctx context.Context, collection string) ([]Document, error) {
	if err := checkCollectionPath(collection); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs := make([]Document, 0, len(m.cols[collection]))
	for id, data := range m.cols[collection] {
		docs = append(docs, Document{ID: id, Data: cloneMap(data)})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (m *Memory) Find(ctx context.Context, collection string, q Query) ([]Document, error) {
	if err := checkCollectionPath(collection); err != nil {
		return nil, err
	}
	m.mu.RLock()
	var docs []Document
	for id, data := range m.cols[collection] {
		if matches(data, q.Filters) {
			docs = append(docs, Document{ID: id, Data: cloneMap(data)})
		}
	}
	m.mu.RUnlock()

	if q.OrderBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			less := compareField(docs[i].Data[q.OrderBy], docs[j].Data[q.OrderBy]) < 0
			if q.Desc {
				return !less
			}
			return less
		})
	} else {
		sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

func (m *Memory) Count(ctx context.Context, collection string) (int64, error) {
	if err := checkCollectionPath(collection); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.cols[collection])), nil
}

func (m *Memory) Create(ctx context.Context, collection string, data map[string]any) (string, error) {
	if err := checkCollectionPath(collection); err != nil {
		return "", err
	}
	id := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cols[collection] == nil {
		m.cols[collection] = make(map[string]map[string]any)
	}
	m.cols[collection][id] = resolveWrite(nil, data, m.now())
	return id, nil
}

func (m *Memory) Set(ctx context.Context, path string, data map[string]any) error {
	col, id, err := splitDocPath(path)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cols[col] == nil {
		m.cols[col] = make(map[string]map[string]any)
	}
	m.cols[col][id] = resolveWrite(m.cols[col][id], data, m.now())
	return nil
}

func (m *Memory) Update(ctx context.Context, path string, fields map[string]any) error {
	col, id, err := splitDocPath(path)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.cols[col][id]
	if !ok {
		return fmt.Errorf("docstore: update of missing document %s", path)
	}
	for k, v := range resolveWrite(existing, fields, m.now()) {
		existing[k] = v
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, path string) error {
	col, id, err := splitDocPath(path)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cols[col], id)
	return nil
}

func checkCollectionPath(collection string) error {
	segs := strings.Split(collection, "/")
	if len(segs)%2 != 1 {
		return ErrBadPath
	}
	for _, s := range segs {
		if s == "" {
			return ErrBadPath
		}
	}
	return nil
}

func matches(data map[string]any, filters []Filter) bool {
	for _, f := range filters {
		c := compareField(data[f.Field], f.Value)
		switch f.Op {
		case "==":
			if c != 0 {
				return false
			}
		case ">=":
			if c < 0 {
				return false
			}
		case "<=":
			if c > 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func compareField(a, b any) int {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return -1
		}
		return strings.Compare(av, bv)
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return -1
		}
		return av.Compare(bv)
	case int:
		if bv, ok := b.(int); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
		return -1
	case nil:
		if b == nil {
			return 0
		}
		return -1
	default:
		if a == b {
			return 0
		}
		return -1
	}
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if s, ok := v.([]any); ok {
			cp := make([]any, len(s))
			copy(cp, s)
			out[k] = cp
			continue
		}
		out[k] = v
	}
	return out
}
