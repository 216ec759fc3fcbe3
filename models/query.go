package models

// Query is an opaque equality filter passed through to the local storage and
// remote transport collaborators. The sync core never evaluates it; the
// collaborators decide how to satisfy it. Field names may use dotted paths
// ("entity._id") to address nested attributes.
type Query struct {
	Filter map[string]any
}

// NewQuery returns an empty query matching every entity.
func NewQuery() *Query {
	return &Query{Filter: make(map[string]any)}
}

// EqualTo adds an equality condition on field and returns the query for
// chaining.
func (q *Query) EqualTo(field string, value any) *Query {
	if q.Filter == nil {
		q.Filter = make(map[string]any, 1)
	}
	q.Filter[field] = value
	return q
}

// IsEmpty reports whether the query has no conditions. A nil query is empty.
func (q *Query) IsEmpty() bool {
	return q == nil || len(q.Filter) == 0
}
