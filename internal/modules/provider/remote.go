package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/georgemunganga/printa-console/internal/collection"
	"github.com/georgemunganga/printa-console/internal/gateway"
)

var errEmptyID = errors.New("provider: empty id")

type remoteRepo struct{ client *gateway.Client }

// NewRemoteRepository returns a Repository backed by the remote /providers resource.
func NewRemoteRepository(client *gateway.Client) Repository { return &remoteRepo{client: client} }

func (r *remoteRepo) List(ctx context.Context, filters collection.Filters) (*collection.Page[Provider], error) {
	env, err := gateway.Call[[]Provider](ctx, r.client, gateway.Request{
		Method: http.MethodGet,
		Path:   "/providers",
		Query:  filters.Query(),
	})
	if err != nil {
		return nil, err
	}
	return &collection.Page[Provider]{Items: env.Data, Pagination: env.Pagination}, nil
}

func (r *remoteRepo) GetByID(ctx context.Context, id, fields string) (*Provider, error) {
	if id == "" {
		return nil, errEmptyID
	}
	var q url.Values
	if fields != "" {
		q = url.Values{"fields": {fields}}
	}
	return r.one(ctx, gateway.Request{Method: http.MethodGet, Path: itemPath(id), Query: q})
}

func (r *remoteRepo) Create(ctx context.Context, req CreateProviderRequest) (*Provider, error) {
	return r.one(ctx, gateway.Request{Method: http.MethodPost, Path: "/providers", Body: req})
}

func (r *remoteRepo) Update(ctx context.Context, id string, req UpdateProviderRequest) (*Provider, error) {
	if id == "" {
		return nil, errEmptyID
	}
	return r.one(ctx, gateway.Request{Method: http.MethodPatch, Path: itemPath(id), Body: req})
}

func (r *remoteRepo) Replace(ctx context.Context, id string, req CreateProviderRequest) (*Provider, error) {
	if id == "" {
		return nil, errEmptyID
	}
	return r.one(ctx, gateway.Request{Method: http.MethodPut, Path: itemPath(id), Body: req})
}

func (r *remoteRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errEmptyID
	}
	_, err := gateway.Call[json.RawMessage](ctx, r.client, gateway.Request{Method: http.MethodDelete, Path: itemPath(id)})
	return err
}

func (r *remoteRepo) one(ctx context.Context, req gateway.Request) (*Provider, error) {
	env, err := gateway.Call[Provider](ctx, r.client, req)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func itemPath(id string) string { return "/providers/" + url.PathEscape(id) }
