package socketiostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/specialistvlad/synthtags/internal/ctxlog"
	"github.com/specialistvlad/synthtags/internal/snapshot"
	"github.com/specialistvlad/synthtags/pkg/resolver"
)

// Store requests values over a socket.io connection. Responses are matched
// to requests by request id, so late answers to abandoned requests are
// dropped.
type Store struct {
	conn   transport
	opts   Options
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]chan snapshot.Document
}

func newStore(ctx context.Context, conn transport, opts Options) *Store {
	s := &Store{
		conn:    conn,
		opts:    opts,
		logger:  ctxlog.FromContext(ctx).With("store", Kind),
		pending: make(map[string]chan snapshot.Document),
	}
	conn.On(opts.ResponseEvent, s.onResponse)
	return s
}

func (s *Store) onResponse(data ...any) {
	if len(data) == 0 {
		s.logger.Warn("Received an empty response", "event", s.opts.ResponseEvent)
		return
	}
	doc, err := snapshot.Decode(data[0])
	if err != nil {
		s.logger.Warn("Failed to decode response", "event", s.opts.ResponseEvent, "error", err)
		return
	}

	s.mu.Lock()
	ch, ok := s.pending[doc.RequestID]
	delete(s.pending, doc.RequestID)
	s.mu.Unlock()

	if !ok {
		s.logger.Debug("Dropping response for an unknown request", "requestId", doc.RequestID)
		return
	}
	ch <- doc
}

// Fetch emits a request for names and waits for its response.
func (s *Store) Fetch(ctx context.Context, names []string) (resolver.Result, error) {
	id := uuid.New().String()
	ch := make(chan snapshot.Document, 1)

	s.mu.Lock()
	s.pending[id] = ch
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
	}()

	opCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	s.logger.Debug("Emitting request", "event", s.opts.RequestEvent, "requestId", id, "names", len(names))
	s.conn.Emit(s.opts.RequestEvent, map[string]any{"request_id": id, "names": names})

	select {
	case doc := <-ch:
		return doc.Result(names)
	case <-opCtx.Done():
		if errors.Is(opCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return resolver.Result{}, fmt.Errorf("timed out after %v waiting for event '%s'", s.opts.Timeout, s.opts.ResponseEvent)
		}
		return resolver.Result{}, ctx.Err()
	}
}

// Close disconnects the client.
func (s *Store) Close() error {
	s.logger.Info("Closing socket.io client")
	s.conn.Close()
	return nil
}
