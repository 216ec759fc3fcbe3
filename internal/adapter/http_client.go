package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/offsync/offsync/models"
)

// HTTPConfig holds the settings of the REST remote client.
type HTTPConfig struct {
	BaseURL   string
	Namespace string
	AppKey    string
	AppSecret string
	Timeout   time.Duration
}

type httpRemoteClient struct {
	client    *resty.Client
	namespace string
	appKey    string
	appSecret string

	mu    sync.RWMutex
	token string
}

// NewHTTPRemoteClient builds a RemoteClient speaking REST against
// cfg.BaseURL. While no session token is set, requests authenticate with the
// default application credentials (appKey/appSecret basic auth).
func NewHTTPRemoteClient(cfg HTTPConfig) RemoteClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &httpRemoteClient{
		client:    cli,
		namespace: cfg.Namespace,
		appKey:    cfg.AppKey,
		appSecret: cfg.AppSecret,
	}
}

func (h *httpRemoteClient) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpRemoteClient) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpRemoteClient) FindByID(ctx context.Context, collection, id string) (models.Entity, error) {
	resp, err := h.authedRequest(ctx).Get(h.entityPath(collection, id))
	if err != nil {
		return nil, fmt.Errorf("find by id request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var ent models.Entity
	if err = json.Unmarshal(resp.Body(), &ent); err != nil {
		return nil, fmt.Errorf("decode find by id response: %w", err)
	}
	return ent, nil
}

func (h *httpRemoteClient) Find(ctx context.Context, collection string, query *models.Query) ([]models.Entity, error) {
	req := h.authedRequest(ctx)
	if !query.IsEmpty() {
		filter, err := json.Marshal(query.Filter)
		if err != nil {
			return nil, fmt.Errorf("encode query filter: %w", err)
		}
		req.SetQueryParam("query", string(filter))
	}

	resp, err := req.Get(h.collectionPath(collection))
	if err != nil {
		return nil, fmt.Errorf("find request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var entities []models.Entity
	if err = json.Unmarshal(resp.Body(), &entities); err != nil {
		return nil, fmt.Errorf("decode find response: %w", err)
	}
	return entities, nil
}

func (h *httpRemoteClient) Create(ctx context.Context, collection string, entity models.Entity) (models.Entity, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(entity).
		Post(h.collectionPath(collection))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var created models.Entity
	if err = json.Unmarshal(resp.Body(), &created); err != nil {
		return nil, fmt.Errorf("decode create response: %w", err)
	}
	return created, nil
}

func (h *httpRemoteClient) Update(ctx context.Context, collection, id string, entity models.Entity) (models.Entity, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(entity).
		Put(h.entityPath(collection, id))
	if err != nil {
		return nil, fmt.Errorf("update request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var updated models.Entity
	if err = json.Unmarshal(resp.Body(), &updated); err != nil {
		return nil, fmt.Errorf("decode update response: %w", err)
	}
	return updated, nil
}

func (h *httpRemoteClient) Delete(ctx context.Context, collection, id string) (int, error) {
	resp, err := h.authedRequest(ctx).Delete(h.entityPath(collection, id))
	if err != nil {
		return 0, fmt.Errorf("delete request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return 0, err
	}

	var body struct {
		Count int `json:"count"`
	}
	if len(resp.Body()) > 0 {
		if err = json.Unmarshal(resp.Body(), &body); err != nil {
			return 0, fmt.Errorf("decode delete response: %w", err)
		}
	}
	return body.Count, nil
}

func (h *httpRemoteClient) collectionPath(collection string) string {
	return fmt.Sprintf("/%s/%s/%s", h.namespace, h.appKey, collection)
}

func (h *httpRemoteClient) entityPath(collection, id string) string {
	return h.collectionPath(collection) + "/" + id
}

// authedRequest prepares a request carrying the session token when one is
// set, or the default application credentials otherwise.
func (h *httpRemoteClient) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
		return req
	}
	req.SetBasicAuth(h.appKey, h.appSecret)
	return req
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, body)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrInsufficientCredentials, body)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	default:
		return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
	}
}
