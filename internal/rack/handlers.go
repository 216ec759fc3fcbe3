package rack

import (
	"context"
	"time"

	"github.com/offsync/offsync/internal/logger"
	"github.com/offsync/offsync/models"
)

// LoggingHandler records every request travelling through the pipeline with
// its verb, path, duration, and resulting status when one is available.
type LoggingHandler struct {
	log *logger.Logger
}

func NewLoggingHandler(log *logger.Logger) *LoggingHandler {
	return &LoggingHandler{log: log.Component("rack")}
}

func (h *LoggingHandler) Name() string { return "logging" }

func (h *LoggingHandler) Handle(ctx context.Context, req *Request, next Next) (any, error) {
	start := time.Now()

	result, err := next(ctx, req)

	event := h.log.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Dur("duration", time.Since(start))
	if resp, ok := result.(*models.Response); ok {
		event = event.Int("status", resp.StatusCode)
	}
	if err != nil {
		event = event.Err(err)
	}
	event.Send()

	return result, err
}

// TimeoutHandler applies the request's own timeout, when set, to the context
// the remaining handlers run under.
type TimeoutHandler struct{}

func NewTimeoutHandler() *TimeoutHandler { return &TimeoutHandler{} }

func (h *TimeoutHandler) Name() string { return "timeout" }

func (h *TimeoutHandler) Handle(ctx context.Context, req *Request, next Next) (any, error) {
	if req.Timeout <= 0 {
		return next(ctx, req)
	}

	ctx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	return next(ctx, req)
}
