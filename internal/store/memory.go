package store

import (
	"context"
	"reflect"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/offsync/offsync/models"
)

// memoryStorage is a map-backed Storage used as the default backend in tests
// and for ephemeral engines.
type memoryStorage struct {
	idAttribute string

	mu          sync.RWMutex
	seq         int64
	collections map[string]map[string]models.Entity
}

// NewMemoryStorage returns an empty in-memory backend. idAttribute names the
// document attribute holding the unique identifier.
func NewMemoryStorage(idAttribute string) Storage {
	return &memoryStorage{
		idAttribute: idAttribute,
		collections: make(map[string]map[string]models.Entity),
	}
}

func (s *memoryStorage) Find(_ context.Context, path string, query *models.Query) ([]models.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entities := make([]models.Entity, 0)
	for _, ent := range s.collections[path] {
		if matches(ent, query) {
			entities = append(entities, ent.Clone())
		}
	}
	return entities, nil
}

func (s *memoryStorage) Save(_ context.Context, path string, entities []models.Entity) ([]models.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection := s.collections[path]
	if collection == nil {
		collection = make(map[string]models.Entity)
		s.collections[path] = collection
	}

	saved := make([]models.Entity, 0, len(entities))
	for _, ent := range entities {
		doc := ent.Clone()

		id := doc.ID(s.idAttribute)
		if id == "" {
			id = uuid.NewString()
			doc.SetID(s.idAttribute, id)
		}

		// an overwrite keeps the insertion token of the row it replaces
		if existing, ok := collection[id]; ok {
			doc[models.KeyAttribute] = existing[models.KeyAttribute]
		} else {
			s.seq++
			doc[models.KeyAttribute] = s.seq
		}

		collection[id] = doc
		saved = append(saved, doc.Clone())
	}

	return saved, nil
}

func (s *memoryStorage) RemoveByID(_ context.Context, path, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection := s.collections[path]
	if _, ok := collection[id]; !ok {
		return 0, nil
	}
	delete(collection, id)
	return 1, nil
}

func (s *memoryStorage) Remove(_ context.Context, path string, query *models.Query) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection := s.collections[path]
	removed := 0
	for id, ent := range collection {
		if matches(ent, query) {
			delete(collection, id)
			removed++
		}
	}
	return removed, nil
}

func (s *memoryStorage) Close() error {
	return nil
}

// matches evaluates an equality filter against a document. Field names may
// use dotted paths to address nested attributes ("entity._id").
func matches(ent models.Entity, query *models.Query) bool {
	if query.IsEmpty() {
		return true
	}
	for field, want := range query.Filter {
		got, ok := lookupField(ent, field)
		if !ok || !looseEqual(got, want) {
			return false
		}
	}
	return true
}

func lookupField(ent models.Entity, field string) (any, bool) {
	var current any = map[string]any(ent)
	for _, part := range strings.Split(field, ".") {
		switch node := current.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, false
			}
			current = v
		case models.Entity:
			v, ok := node[part]
			if !ok {
				return nil, false
			}
			current = v
		default:
			return nil, false
		}
	}
	return current, true
}

// looseEqual compares values ignoring the int/float distinction JSON
// round-tripping introduces.
func looseEqual(a, b any) bool {
	if na, ok := asFloat(a); ok {
		if nb, ok := asFloat(b); ok {
			return na == nb
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
