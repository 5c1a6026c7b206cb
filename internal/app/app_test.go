package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/synthtags/internal/hclconfig"
	"github.com/specialistvlad/synthtags/internal/registry"
	"github.com/specialistvlad/synthtags/internal/testutil"
	"github.com/specialistvlad/synthtags/pkg/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// digitsModule registers a "digits" store kind backed by testutil.DigitStore.
type digitsModule struct{}

type digitsInput struct{}

func (digitsModule) Register(r *registry.Registry) {
	r.RegisterStore("digits", &registry.RegisteredStore{
		NewInput: func() any { return new(digitsInput) },
		CreateFn: func(context.Context, any) (resolver.Store, error) {
			return testutil.DigitStore(), nil
		},
	})
}

func writeConfig(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

// setupApp builds an App over the given files and returns it with its
// result and log buffers.
func setupApp(t *testing.T, cfg Config, files map[string]string, modules ...registry.Module) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()
	cfg.ConfigPath = writeConfig(t, files)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)

	out, logs := &testutil.SafeBuffer{}, &testutil.SafeBuffer{}
	return NewApp(out, logs, appConfig, hclconfig.NewLoader(), modules...), out, logs
}

func assertRows(t *testing.T, want [][]string, out string) {
	t.Helper()
	if diff := cmp.Diff(want, rows(out)); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

// rows splits table output into whitespace separated fields per line.
func rows(out string) [][]string {
	var res [][]string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		res = append(res, strings.Fields(line))
	}
	return res
}

const digitsConfig = `
store "digits" {
  kind = "digits"
}

synthetic "total" {
  value = A1 + B22
}

synthetic "scaled" {
  value = total * 2
}
`

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "valid", cfg: Config{ConfigPath: "x"}},
		{name: "missing path", cfg: Config{}, wantErr: "ConfigPath is a required"},
		{name: "bad output", cfg: Config{ConfigPath: "x", Output: "xml"}, wantErr: "invalid output"},
		{name: "negative watch", cfg: Config{ConfigPath: "x", Watch: -time.Second}, wantErr: "must not be negative"},
		{name: "bad port", cfg: Config{ConfigPath: "x", HealthcheckPort: 70000}, wantErr: "invalid healthcheck port"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, OutputTable, cfg.Output)
		})
	}
}

func TestNewApp_RegistersCoreModules(t *testing.T) {
	a, _, _ := setupApp(t, Config{}, map[string]string{"main.hcl": `
synthetic "answer" {
  value = 42
}
`})
	reg := a.Registry()
	for _, kind := range []string{"yaml", "sql", "http", "socketio", "env"} {
		assert.Contains(t, reg.StoreRegistry, kind)
	}
	assert.Contains(t, reg.OperationRegistry, "max")
}

func TestNewApp_Panics(t *testing.T) {
	testCases := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "invalid hcl",
			files:   map[string]string{"main.hcl": `synthetic "x" {`},
			wantErr: "failed to load configuration",
		},
		{
			name:    "no synthetics",
			files:   map[string]string{"main.hcl": `store "s" { kind = "digits" }`},
			wantErr: "no synthetic blocks found",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := catchPanic(func() {
				setupApp(t, Config{}, tc.files, digitsModule{})
			})
			err, ok := r.(error)
			require.True(t, ok, "expected an error panic, got %v", r)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func catchPanic(fn func()) (r any) {
	defer func() { r = recover() }()
	fn()
	return nil
}

func TestRun_Table(t *testing.T) {
	a, out, logs := setupApp(t, Config{}, map[string]string{"main.hcl": digitsConfig}, digitsModule{})

	require.NoError(t, a.Run(context.Background()))
	assertRows(t, [][]string{
		{"KEY", "VALUE"},
		{"scaled", "46"},
		{"total", "23"},
	}, out.String())
	assert.Contains(t, logs.String(), "runId=")
}

func TestRun_JSON(t *testing.T) {
	a, out, _ := setupApp(t, Config{Output: OutputJSON}, map[string]string{"main.hcl": digitsConfig}, digitsModule{})

	require.NoError(t, a.Run(context.Background()))
	assert.JSONEq(t, `{"scaled": 46, "total": 23}`, out.String())
}

func TestRun_SeriesTable(t *testing.T) {
	snapshot := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(snapshot, []byte(`
index: [100, 200, 300]
values:
  A1: [1, 2, 3]
  B2: [10, null, 30]
`), 0o644))

	files := map[string]string{"main.hcl": `
store "plant" {
  kind = "yaml"
  path = "` + filepath.ToSlash(snapshot) + `"
}

synthetic "sum" {
  value = A1 + B2
}

synthetic "offset" {
  value = 5
}
`}

	t.Run("table", func(t *testing.T) {
		a, out, _ := setupApp(t, Config{}, files)
		require.NoError(t, a.Run(context.Background()))
		assertRows(t, [][]string{
			{"INDEX", "offset", "sum"},
			{"100", "5", "11"},
			{"200", "5", "null"},
			{"300", "5", "33"},
		}, out.String())
	})

	t.Run("json", func(t *testing.T) {
		a, out, _ := setupApp(t, Config{Output: OutputJSON}, files)
		require.NoError(t, a.Run(context.Background()))
		assert.JSONEq(t, `{
			"offset": {"index": [100, 200, 300], "values": [5, 5, 5]},
			"sum": {"index": [100, 200, 300], "values": [11, null, 33]}
		}`, out.String())
	})

	t.Run("latest", func(t *testing.T) {
		a, out, _ := setupApp(t, Config{Latest: true}, files)
		require.NoError(t, a.Run(context.Background()))
		assertRows(t, [][]string{
			{"KEY", "VALUE"},
			{"offset", "5"},
			{"sum", "33"},
		}, out.String())
	})
}

func TestRun_EvaluationError(t *testing.T) {
	a, _, _ := setupApp(t, Config{}, map[string]string{"main.hcl": `
store "digits" {
  kind = "digits"
}

synthetic "loop" {
  value = other + 1
}

synthetic "other" {
  value = loop * 2
}
`}, digitsModule{})

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "evaluation failed")
}

func TestRun_UnknownStoreKind(t *testing.T) {
	a, _, _ := setupApp(t, Config{}, map[string]string{"main.hcl": `
store "mystery" {
  kind = "nope"
}

synthetic "x" {
  value = A1
}
`}, digitsModule{})

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build stores")
}

func TestRun_Watch(t *testing.T) {
	a, out, _ := setupApp(t, Config{Watch: 10 * time.Millisecond}, map[string]string{"main.hcl": digitsConfig}, digitsModule{})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, a.Run(ctx))
	assert.GreaterOrEqual(t, strings.Count(out.String(), "KEY"), 2)
}

func TestHandler(t *testing.T) {
	a, _, _ := setupApp(t, Config{}, map[string]string{"main.hcl": digitsConfig}, digitsModule{})
	require.NoError(t, a.Run(context.Background()))

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		a.handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK\n", rec.Body.String())
	})

	t.Run("metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		a.handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `synthtags_resolves_total{result="ok"} 1`)
		assert.Contains(t, rec.Body.String(), `synthtags_store_fetches_total{result="ok",store="value_store"} 1`)
	})
}
