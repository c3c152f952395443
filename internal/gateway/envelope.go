package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Pagination is the paging block of a list envelope.
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasNext      bool `json:"hasNext"`
	HasPrevious  bool `json:"hasPrevious"`
}

// Envelope wraps every API response.
type Envelope[T any] struct {
	Success    bool        `json:"success"`
	Data       T           `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Message    string      `json:"message,omitempty"`
}

// Call issues req and decodes the envelope into T. An envelope that reports
// success=false is turned into a *ServerError. An empty body (204) yields an
// empty successful envelope.
func Call[T any](ctx context.Context, c *Client, req Request) (*Envelope[T], error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	env := &Envelope[T]{}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		env.Success = true
		return env, nil
	}

	var probe struct {
		Success *bool `json:"success"`
	}
	if err := json.Unmarshal(resp.Body, &probe); err != nil {
		return nil, fmt.Errorf("gateway: decode %s %s: %w", req.Method, req.Path, err)
	}
	if probe.Success != nil && !*probe.Success {
		return nil, newServerError(resp.Status, resp.Body)
	}

	if err := json.Unmarshal(resp.Body, env); err != nil {
		return nil, fmt.Errorf("gateway: decode %s %s: %w", req.Method, req.Path, err)
	}
	env.Success = true
	return env, nil
}
