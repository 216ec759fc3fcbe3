package rack

import (
	"context"
	"io"

	"github.com/hashicorp/go-multierror"

	"github.com/offsync/offsync/internal/logger"
)

// Next continues the chain with the remaining handlers. Calling it zero times
// short-circuits the pipeline; calling it once is the normal case.
type Next func(ctx context.Context, req *Request) (any, error)

// Handler is one stage of the pipeline. A handler may transform the request,
// delegate via next, and transform the result on the way back. The terminal
// handler ignores next and produces the result.
type Handler interface {
	Name() string
	Handle(ctx context.Context, req *Request, next Next) (any, error)
}

// Canceler is implemented by handlers that can abort in-flight work.
// Cancellation is cooperative; returned errors are logged and discarded.
type Canceler interface {
	Cancel() error
}

// Pipeline is an explicitly constructed, ordered handler chain. It has no
// hidden global instance: callers build one, share it, and Close it when the
// engine shuts down.
type Pipeline struct {
	handlers []Handler
	log      *logger.Logger
}

// NewPipeline builds a pipeline over the given handlers, invoked in argument
// order.
func NewPipeline(log *logger.Logger, handlers ...Handler) *Pipeline {
	return &Pipeline{
		handlers: handlers,
		log:      log.Component("rack"),
	}
}

// Use appends a handler to the end of the chain. Not safe to call once the
// pipeline is serving requests.
func (p *Pipeline) Use(h Handler) {
	p.handlers = append(p.handlers, h)
}

// Execute threads req through the handler chain and returns whatever the
// chain produced. A nil result with a nil error means no handler answered
// the request; the executor turns that into ErrNoResponse.
func (p *Pipeline) Execute(ctx context.Context, req *Request) (any, error) {
	next := func(ctx context.Context, req *Request) (any, error) {
		return nil, nil
	}

	for i := len(p.handlers) - 1; i >= 0; i-- {
		h := p.handlers[i]
		tail := next
		next = func(ctx context.Context, req *Request) (any, error) {
			return h.Handle(ctx, req, tail)
		}
	}

	return next(ctx, req)
}

// Cancel forwards cancellation to every handler that supports it. It is
// best-effort and never fails: handler cancel errors are logged and dropped.
func (p *Pipeline) Cancel() {
	for _, h := range p.handlers {
		c, ok := h.(Canceler)
		if !ok {
			continue
		}
		if err := c.Cancel(); err != nil {
			p.log.Debug().Err(err).Str("handler", h.Name()).Msg("handler cancel failed")
		}
	}
}

// Close releases every closable handler, aggregating failures so one broken
// handler does not mask the rest.
func (p *Pipeline) Close() error {
	var result *multierror.Error
	for _, h := range p.handlers {
		closer, ok := h.(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
