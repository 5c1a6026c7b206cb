// Package httpstore provides the "http" store kind: values requested from an
// HTTP endpoint with one POST per fetch.
//
// The request body is {"request_id": "...", "names": [...]}; the response is
// a snapshot document.
package httpstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/synthtags/internal/ctxlog"
	"github.com/specialistvlad/synthtags/internal/registry"
	"github.com/specialistvlad/synthtags/internal/snapshot"
	"github.com/specialistvlad/synthtags/pkg/resolver"
	"resty.dev/v3"
)

// Kind is the store kind this module registers.
const Kind = "http"

const (
	defaultTimeout  = 10 * time.Second
	requestIDHeader = "X-Request-Id"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of an http store block.
type Input struct {
	URL     string            `hcl:"url"`
	Timeout *string           `hcl:"timeout,optional"`
	Headers map[string]string `hcl:"headers,optional"`
}

type fetchRequest struct {
	RequestID string   `json:"request_id"`
	Names     []string `json:"names"`
}

// Store posts the requested names to a URL.
type Store struct {
	url    string
	client *resty.Client
	logger *slog.Logger
}

// New returns a store posting to url.
func New(ctx context.Context, url string, timeout time.Duration, headers map[string]string) *Store {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeaders(headers)
	return &Store{
		url:    url,
		client: client,
		logger: ctxlog.FromContext(ctx).With("store", Kind, "url", url),
	}
}

// Fetch posts names and decodes the answer.
func (s *Store) Fetch(ctx context.Context, names []string) (resolver.Result, error) {
	id := uuid.New().String()
	logger := s.logger.With("requestId", id)
	logger.Debug("Requesting values", "names", len(names))

	var doc snapshot.Document
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, id).
		SetBody(fetchRequest{RequestID: id, Names: names}).
		SetResult(&doc).
		Post(s.url)
	if err != nil {
		return resolver.Result{}, fmt.Errorf("requesting values: %w", err)
	}
	if resp.IsError() {
		return resolver.Result{}, fmt.Errorf("requesting values: unexpected status %s", resp.Status())
	}
	if doc.RequestID != "" && doc.RequestID != id {
		return resolver.Result{}, fmt.Errorf("response is for request %s, expected %s", doc.RequestID, id)
	}

	logger.Debug("Received values", "status", resp.StatusCode(), "duration", resp.Duration())
	return doc.Result(names)
}

// Close releases the client's idle connections.
func (s *Store) Close() error {
	return s.client.Close()
}

func createStore(ctx context.Context, input any) (resolver.Store, error) {
	in := input.(*Input)
	timeout := defaultTimeout
	if in.Timeout != nil {
		var err error
		if timeout, err = time.ParseDuration(*in.Timeout); err != nil {
			return nil, fmt.Errorf("invalid timeout: %w", err)
		}
	}
	if in.URL == "" {
		return nil, fmt.Errorf("url must not be empty")
	}
	return New(ctx, in.URL, timeout, in.Headers), nil
}

// Register registers the store kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStore(Kind, &registry.RegisteredStore{
		NewInput: func() any { return new(Input) },
		CreateFn: createStore,
	})
}
