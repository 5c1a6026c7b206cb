// Package socketiostore provides the "socketio" store kind: values requested
// over a persistent socket.io connection.
//
// A fetch emits the request event with {"request_id", "names"} and waits for
// the response event carrying a snapshot document with the same request_id.
package socketiostore

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/synthtags/internal/registry"
	"github.com/specialistvlad/synthtags/pkg/resolver"
)

// Kind is the store kind this module registers.
const Kind = "socketio"

const (
	defaultRequestEvent  = "fetch"
	defaultResponseEvent = "values"
	defaultTimeout       = 10 * time.Second
	connectTimeout       = 15 * time.Second
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of a socketio store block.
type Input struct {
	URL                string  `hcl:"url"`
	Namespace          string  `hcl:"namespace,optional"`
	InsecureSkipVerify bool    `hcl:"insecure_skip_verify,optional"`
	RequestEvent       *string `hcl:"request_event,optional"`
	ResponseEvent      *string `hcl:"response_event,optional"`
	Timeout            *string `hcl:"timeout,optional"`
}

// Options configures the events and the wait of a Store.
type Options struct {
	RequestEvent  string
	ResponseEvent string
	Timeout       time.Duration
}

func optionsFromInput(in *Input) (Options, error) {
	opts := Options{
		RequestEvent:  defaultRequestEvent,
		ResponseEvent: defaultResponseEvent,
		Timeout:       defaultTimeout,
	}
	if in.RequestEvent != nil {
		opts.RequestEvent = *in.RequestEvent
	}
	if in.ResponseEvent != nil {
		opts.ResponseEvent = *in.ResponseEvent
	}
	if in.Timeout != nil {
		d, err := time.ParseDuration(*in.Timeout)
		if err != nil {
			return Options{}, fmt.Errorf("failed to parse timeout: %w", err)
		}
		opts.Timeout = d
	}
	return opts, nil
}

func createStore(ctx context.Context, input any) (resolver.Store, error) {
	in := input.(*Input)
	opts, err := optionsFromInput(in)
	if err != nil {
		return nil, err
	}
	conn, err := dial(ctx, in)
	if err != nil {
		return nil, err
	}
	return newStore(ctx, conn, opts), nil
}

// Register registers the store kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStore(Kind, &registry.RegisteredStore{
		NewInput: func() any { return new(Input) },
		CreateFn: createStore,
	})
}
