package httpstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/specialistvlad/synthtags/internal/registry"
	"github.com/specialistvlad/synthtags/internal/testutil"
	"github.com/specialistvlad/synthtags/pkg/resolver"
	"github.com/specialistvlad/synthtags/pkg/tag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// digitServer answers every request with the digits of each requested name.
type digitServer struct {
	mu       sync.Mutex
	requests []fetchRequest
	headers  []http.Header
}

func (d *digitServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req fetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	d.mu.Lock()
	d.requests = append(d.requests, req)
	d.headers = append(d.headers, r.Header.Clone())
	d.mu.Unlock()

	values := make(map[string]any, len(req.Names))
	for _, name := range req.Names {
		values[name] = testutil.Digits(name)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"request_id": req.RequestID, "values": values})
}

func TestStore_Fetch(t *testing.T) {
	srv := &digitServer{}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	s := New(context.Background(), ts.URL, time.Second, map[string]string{"Authorization": "Bearer token"})
	defer s.Close()

	res, err := resolver.New(s).Resolve(context.Background(), resolver.Specs{
		"sum": tag.New("A1").Add(tag.New("B22")),
	})
	require.NoError(t, err)
	assert.Equal(t, 23.0, testutil.Scalar(t, res["sum"]))

	require.Len(t, srv.requests, 1)
	assert.Equal(t, []string{"A1", "B22"}, srv.requests[0].Names)
	assert.NotEmpty(t, srv.requests[0].RequestID)
	assert.Equal(t, srv.requests[0].RequestID, srv.headers[0].Get(requestIDHeader))
	assert.Equal(t, "Bearer token", srv.headers[0].Get("Authorization"))
}

func TestStore_Errors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		}))
		defer ts.Close()

		_, err := New(context.Background(), ts.URL, time.Second, nil).Fetch(context.Background(), []string{"A1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("answer for another request", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"request_id": "someone-else", "values": {"A1": 1}}`))
		}))
		defer ts.Close()

		_, err := New(context.Background(), ts.URL, time.Second, nil).Fetch(context.Background(), []string{"A1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "someone-else")
	})

	t.Run("missing names are null", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"values": {}}`))
		}))
		defer ts.Close()

		res, err := New(context.Background(), ts.URL, time.Second, nil).Fetch(context.Background(), []string{"A1"})
		require.NoError(t, err)
		assert.True(t, res.Values["A1"].IsNull())
	})
}

func TestModule_Register(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	handler := r.StoreRegistry[Kind]
	require.NotNil(t, handler)

	_, err := handler.CreateFn(context.Background(), &Input{})
	require.Error(t, err)

	bad := "soon"
	_, err = handler.CreateFn(context.Background(), &Input{URL: "http://localhost", Timeout: &bad})
	require.Error(t, err)

	store, err := handler.CreateFn(context.Background(), handler.NewInput().(*Input))
	require.Error(t, err, "url is required")

	in := &Input{URL: "http://localhost"}
	store, err = handler.CreateFn(context.Background(), in)
	require.NoError(t, err)
	assert.IsType(t, &Store{}, store)
}
