package socketiostore

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/synthtags/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// transport is the part of a socket.io client a Store uses.
type transport interface {
	On(event string, fn func(...any))
	Emit(event string, args ...any)
	Close()
}

type socketTransport struct {
	io *socket.Socket
}

func (t *socketTransport) On(event string, fn func(...any)) {
	t.io.On(types.EventName(event), fn)
}

func (t *socketTransport) Emit(event string, args ...any) {
	t.io.Emit(event, args...)
}

func (t *socketTransport) Close() {
	t.io.Disconnect()
}

// dial connects to the server and waits for the connect event.
func dial(ctx context.Context, input *Input) (transport, error) {
	logger := ctxlog.FromContext(ctx).With("store", Kind, "url", input.URL)
	logger.Info("Creating new client instance...")

	parsedURL, err := url.Parse(input.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if input.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(input.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Successfully connected", "sid", io.Id())
		connectChan <- nil
	})

	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect_error: %v", errs)
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		logger.Debug("Connection attempt failed", "error", err)
		connectChan <- err
	})

	logger.Debug("Initiating connection...")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &socketTransport{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(connectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", connectTimeout)
	}
}
