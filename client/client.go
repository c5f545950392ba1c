// Package client is a workflow.Repository backed by the remote REST
// persistence service.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	fiberclient "github.com/gofiber/fiber/v3/client"
	"github.com/meikuraledutech/workflow"
)

// Client calls the /workflows endpoints of baseURL. Every transport failure
// and non-2xx answer is returned as a *workflow.TransientIOError, except 404
// on an id route which is a *workflow.NotFoundError and 409 which is a
// *workflow.ConflictError. Nothing is retried.
type Client struct {
	baseURL string
	http    *fiberclient.Client
}

var _ workflow.Repository = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// New creates a Client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    fiberclient.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) List(ctx context.Context) ([]workflow.Document, error) {
	var docs []workflow.Document
	if err := c.call(ctx, fiber.MethodGet, "", nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *Client) Create(ctx context.Context, d *workflow.Document) (*workflow.Document, error) {
	var out workflow.Document
	if err := c.call(ctx, fiber.MethodPost, "", d, &out); err != nil {
		var ce *workflow.ConflictError
		if errors.As(err, &ce) {
			ce.ID = d.ID
		}
		return nil, err
	}
	return &out, nil
}

func (c *Client) Replace(ctx context.Context, id string, d *workflow.Document) (*workflow.Document, error) {
	var out workflow.Document
	if err := c.call(ctx, fiber.MethodPut, id, d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Patch(ctx context.Context, id string, p workflow.Patch) (*workflow.Document, error) {
	var out workflow.Document
	if err := c.call(ctx, fiber.MethodPatch, id, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.call(ctx, fiber.MethodDelete, id, nil, nil)
}

// call sends one request. body is JSON encoded when non-nil and a 2xx
// answer is decoded into out when out is non-nil.
func (c *Client) call(ctx context.Context, method, id string, body, out any) error {
	target := c.baseURL + "/workflows"
	op := strings.ToLower(method) + " /workflows"
	if id != "" {
		target += "/" + url.PathEscape(id)
		op += "/" + id
	}

	req := c.http.R().SetContext(ctx).SetMethod(method).SetURL(target)
	if body != nil {
		req.SetJSON(body)
	}
	resp, err := req.Send()
	if err != nil {
		fiberclient.ReleaseRequest(req)
		return &workflow.TransientIOError{Op: op, Err: err}
	}
	// Close hands both resp and req back to their pools.
	defer resp.Close()

	status := resp.StatusCode()
	if status == fiber.StatusNotFound && id != "" {
		return &workflow.NotFoundError{ID: id}
	}
	if status == fiber.StatusConflict {
		return &workflow.ConflictError{ID: id}
	}
	if status < 200 || status > 299 {
		return &workflow.TransientIOError{Op: op, Err: fmt.Errorf("unexpected status %d", status)}
	}
	if out == nil {
		return nil
	}
	if err := resp.JSON(out); err != nil {
		return &workflow.TransientIOError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
