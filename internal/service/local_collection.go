package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/offsync/offsync/internal/rack"
	"github.com/offsync/offsync/models"
)

// localCollection funnels cache reads and writes for one collection through
// the request pipeline, at the path {namespace}/{appKey}/{collection}.
type localCollection struct {
	executor     *rack.Executor
	path         string
	idAttribute  string
	kmdAttribute string
	timeout      time.Duration
}

func newLocalCollection(executor *rack.Executor, namespace, appKey, name, idAttribute, kmdAttribute string, timeout time.Duration) *localCollection {
	return &localCollection{
		executor:     executor,
		path:         fmt.Sprintf("%s/%s/%s", namespace, appKey, name),
		idAttribute:  idAttribute,
		kmdAttribute: kmdAttribute,
		timeout:      timeout,
	}
}

func (c *localCollection) find(ctx context.Context, query *models.Query) ([]models.Entity, error) {
	req := rack.NewRequest(http.MethodGet, c.path)
	req.Query = query
	req.Timeout = c.timeout

	resp, err := c.executor.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Entities()
}

func (c *localCollection) findByID(ctx context.Context, id string) (models.Entity, error) {
	entities, err := c.find(ctx, models.NewQuery().EqualTo(c.idAttribute, id))
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, id)
	}
	return entities[0], nil
}

// save upserts the entities into the cache. An entity without an id is
// assigned a locally generated one and marked local, so a later push knows
// to strip it before the remote create.
func (c *localCollection) save(ctx context.Context, entities ...models.Entity) ([]models.Entity, error) {
	prepared := make([]models.Entity, 0, len(entities))
	for _, ent := range entities {
		if ent == nil {
			continue
		}
		doc := ent.Clone()
		if doc.ID(c.idAttribute) == "" {
			doc.SetID(c.idAttribute, uuid.NewString())
			doc.MarkLocal(c.kmdAttribute)
		}
		prepared = append(prepared, doc)
	}

	req := rack.NewRequest(http.MethodPut, c.path)
	req.Body = prepared
	req.Timeout = c.timeout

	resp, err := c.executor.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Entities()
}

func (c *localCollection) removeByID(ctx context.Context, id string) (int, error) {
	req := rack.NewRequest(http.MethodDelete, c.path)
	req.ID = id
	req.Timeout = c.timeout

	resp, err := c.executor.Execute(ctx, req)
	if err != nil {
		return 0, err
	}
	return resp.Count()
}

func (c *localCollection) remove(ctx context.Context, query *models.Query) (int, error) {
	req := rack.NewRequest(http.MethodDelete, c.path)
	req.Query = query
	req.Timeout = c.timeout

	resp, err := c.executor.Execute(ctx, req)
	if err != nil {
		return 0, err
	}
	return resp.Count()
}
