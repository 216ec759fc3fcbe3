package rack

import (
	"context"
	"net/http"

	"github.com/offsync/offsync/models"
)

// RawResponse is a pipeline result that is not yet a canonical response.
// The executor wraps it into models.Response before returning.
type RawResponse struct {
	StatusCode int
	Headers    http.Header
	Data       any
}

// Executor wraps a single request/response exchange against the pipeline and
// normalizes the outcome into a canonical response.
type Executor struct {
	pipeline *Pipeline
}

func NewExecutor(pipeline *Pipeline) *Executor {
	return &Executor{pipeline: pipeline}
}

// Execute runs req through the pipeline. The request's executing flag is set
// before the pipeline is entered and released exactly once regardless of the
// exit path. A nil pipeline result yields ErrNoResponse; a non-canonical
// result is wrapped; an unsuccessful response yields its embedded error
// unchanged so the caller can match its original kind with errors.Is.
func (e *Executor) Execute(ctx context.Context, req *Request) (*models.Response, error) {
	if !req.markExecuting() {
		return nil, ErrAlreadyExecuting
	}
	defer req.clearExecuting()

	result, err := e.pipeline.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrNoResponse
	}

	resp := normalize(result)
	if !resp.IsSuccess() {
		if resp.Err != nil {
			return resp, resp.Err
		}
		return resp, &StatusError{Code: resp.StatusCode}
	}

	return resp, nil
}

// Cancel performs the executor's own bookkeeping for req, then forwards the
// cancellation to the pipeline. Best-effort: it never fails.
func (e *Executor) Cancel(req *Request) {
	if req != nil {
		req.clearExecuting()
	}
	e.pipeline.Cancel()
}

func normalize(result any) *models.Response {
	switch v := result.(type) {
	case *models.Response:
		return v
	case models.Response:
		return &v
	case *RawResponse:
		return &models.Response{StatusCode: v.StatusCode, Headers: v.Headers, Data: v.Data}
	case RawResponse:
		return &models.Response{StatusCode: v.StatusCode, Headers: v.Headers, Data: v.Data}
	default:
		// a bare payload from a handler counts as a successful response
		return &models.Response{StatusCode: http.StatusOK, Data: result}
	}
}
