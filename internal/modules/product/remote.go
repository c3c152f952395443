package product

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/georgemunganga/printa-console/internal/collection"
	"github.com/georgemunganga/printa-console/internal/gateway"
)

var errEmptyID = errors.New("product: empty id")

type remoteRepo struct{ client *gateway.Client }

// NewRemoteRepository returns a Repository backed by the remote /products resource.
func NewRemoteRepository(client *gateway.Client) Repository { return &remoteRepo{client: client} }

func (r *remoteRepo) List(ctx context.Context, filters collection.Filters) (*collection.Page[Product], error) {
	return r.list(ctx, "/products", filters)
}

// ListByProvider lists the products of one provider. An empty list is not an error.
func (r *remoteRepo) ListByProvider(ctx context.Context, providerID string, filters collection.Filters) (*collection.Page[Product], error) {
	if providerID == "" {
		return nil, errEmptyID
	}
	return r.list(ctx, "/products/provider/"+url.PathEscape(providerID), filters)
}

func (r *remoteRepo) list(ctx context.Context, path string, filters collection.Filters) (*collection.Page[Product], error) {
	env, err := gateway.Call[[]Product](ctx, r.client, gateway.Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  filters.Query(),
	})
	if err != nil {
		return nil, err
	}
	items := env.Data
	if items == nil {
		items = []Product{}
	}
	return &collection.Page[Product]{Items: items, Pagination: env.Pagination}, nil
}

func (r *remoteRepo) GetByID(ctx context.Context, id, fields string) (*Product, error) {
	if id == "" {
		return nil, errEmptyID
	}
	var q url.Values
	if fields != "" {
		q = url.Values{"fields": {fields}}
	}
	return r.one(ctx, gateway.Request{Method: http.MethodGet, Path: itemPath(id), Query: q})
}

func (r *remoteRepo) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	return r.one(ctx, gateway.Request{Method: http.MethodPost, Path: "/products", Body: req})
}

func (r *remoteRepo) Update(ctx context.Context, id string, req UpdateProductRequest) (*Product, error) {
	if id == "" {
		return nil, errEmptyID
	}
	return r.one(ctx, gateway.Request{Method: http.MethodPatch, Path: itemPath(id), Body: req})
}

func (r *remoteRepo) Replace(ctx context.Context, id string, req CreateProductRequest) (*Product, error) {
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

func (r *remoteRepo) one(ctx context.Context, req gateway.Request) (*Product, error) {
	env, err := gateway.Call[Product](ctx, r.client, req)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func itemPath(id string) string { return "/products/" + url.PathEscape(id) }
