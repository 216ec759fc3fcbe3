package models

import (
	"fmt"
	"net/http"
)

// Response is the canonical envelope produced by the local request pipeline.
// Pipeline handlers either construct it directly or return a raw result that
// the executor wraps into one.
type Response struct {
	StatusCode int
	Headers    http.Header
	Data       any

	// Err is the error carried by an unsuccessful response. The executor
	// returns it to the caller as-is so its kind survives the pipeline.
	Err error
}

// IsSuccess reports whether the response carries a 2xx status code.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// Entities interprets the response payload as a collection of entities.
// A single entity is returned as a one-element slice, a nil payload as an
// empty slice.
func (r *Response) Entities() ([]Entity, error) {
	switch data := r.Data.(type) {
	case nil:
		return []Entity{}, nil
	case []Entity:
		return data, nil
	case Entity:
		return []Entity{data}, nil
	default:
		return nil, fmt.Errorf("response payload is %T, not entities", r.Data)
	}
}

// Entity interprets the response payload as exactly one entity.
func (r *Response) Entity() (Entity, error) {
	entities, err := r.Entities()
	if err != nil {
		return nil, err
	}
	if len(entities) != 1 {
		return nil, fmt.Errorf("response payload holds %d entities, expected 1", len(entities))
	}
	return entities[0], nil
}

// Count interprets the response payload as a removal/record count.
func (r *Response) Count() (int, error) {
	switch data := r.Data.(type) {
	case int:
		return data, nil
	case int64:
		return int(data), nil
	case float64:
		return int(data), nil
	default:
		return 0, fmt.Errorf("response payload is %T, not a count", r.Data)
	}
}
