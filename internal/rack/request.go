// Package rack implements the local request pipeline: an ordered chain of
// handlers every cache and operation-log request is threaded through, plus
// the executor that normalizes pipeline results into canonical responses.
package rack

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/offsync/offsync/models"
)

// Request describes a single local request travelling down the pipeline.
type Request struct {
	// Method is one of the HTTP verbs (http.MethodGet, ...) reused as the
	// local storage operation selector.
	Method string

	// Path addresses the target collection, in the form
	// {namespace}/{appKey}/{collection}.
	Path string

	// ID optionally narrows the request to a single document.
	ID string

	// Body carries the entity or entities for PUT/POST requests.
	Body any

	// Query optionally filters GET/DELETE requests. Interpreted by the
	// storage collaborator, not by the pipeline.
	Query *models.Query

	Headers http.Header

	// Timeout bounds this request only. Zero means no per-request bound;
	// enforcement belongs to the pipeline's timeout handler.
	Timeout time.Duration

	executing atomic.Bool
}

// NewRequest returns a request for the given verb and collection path.
func NewRequest(method, path string) *Request {
	return &Request{
		Method:  method,
		Path:    path,
		Headers: make(http.Header),
	}
}

// markExecuting flips the executing flag and reports whether the request was
// idle before. A request may only run through the pipeline once at a time.
func (r *Request) markExecuting() bool {
	return r.executing.CompareAndSwap(false, true)
}

func (r *Request) clearExecuting() {
	r.executing.Store(false)
}

// Executing reports whether the request is currently inside the pipeline.
func (r *Request) Executing() bool {
	return r.executing.Load()
}
