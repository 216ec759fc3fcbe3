package rack

import (
	"context"
	"fmt"
	"net/http"

	"github.com/offsync/offsync/internal/logger"
	"github.com/offsync/offsync/internal/store"
	"github.com/offsync/offsync/models"
)

// StorageHandler is the terminal pipeline stage: it dispatches the request's
// verb to the local storage backend and builds the canonical response.
type StorageHandler struct {
	backend store.Storage
	log     *logger.Logger
}

func NewStorageHandler(backend store.Storage, log *logger.Logger) *StorageHandler {
	return &StorageHandler{
		backend: backend,
		log:     log.Component("storage"),
	}
}

func (h *StorageHandler) Name() string { return "storage" }

func (h *StorageHandler) Handle(ctx context.Context, req *Request, _ Next) (any, error) {
	switch req.Method {
	case http.MethodGet:
		entities, err := h.backend.Find(ctx, req.Path, req.Query)
		if err != nil {
			return nil, fmt.Errorf("storage find %s: %w", req.Path, err)
		}
		return &models.Response{StatusCode: http.StatusOK, Data: entities}, nil

	case http.MethodPost, http.MethodPut:
		entities, err := bodyEntities(req.Body)
		if err != nil {
			return nil, err
		}
		saved, err := h.backend.Save(ctx, req.Path, entities)
		if err != nil {
			return nil, fmt.Errorf("storage save %s: %w", req.Path, err)
		}
		return &models.Response{StatusCode: http.StatusOK, Data: saved}, nil

	case http.MethodDelete:
		var (
			count int
			err   error
		)
		if req.ID != "" {
			count, err = h.backend.RemoveByID(ctx, req.Path, req.ID)
		} else {
			count, err = h.backend.Remove(ctx, req.Path, req.Query)
		}
		if err != nil {
			return nil, fmt.Errorf("storage remove %s: %w", req.Path, err)
		}
		return &models.Response{StatusCode: http.StatusOK, Data: count}, nil

	default:
		return nil, fmt.Errorf("storage handler does not support method %q", req.Method)
	}
}

// Close releases the underlying storage backend.
func (h *StorageHandler) Close() error {
	return h.backend.Close()
}

func bodyEntities(body any) ([]models.Entity, error) {
	switch b := body.(type) {
	case []models.Entity:
		return b, nil
	case models.Entity:
		return []models.Entity{b}, nil
	default:
		return nil, fmt.Errorf("request body is %T, expected entities", body)
	}
}
