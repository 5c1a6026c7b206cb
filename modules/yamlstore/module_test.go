package yamlstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/synthtags/internal/registry"
	"github.com/specialistvlad/synthtags/internal/testutil"
	"github.com/specialistvlad/synthtags/pkg/resolver"
	"github.com/specialistvlad/synthtags/pkg/tag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStore_Scalars(t *testing.T) {
	path := writeSnapshot(t, `
values:
  A1: 1
  B2: 2.5
  flag: true
`)
	s, err := New(context.Background(), path)
	require.NoError(t, err)

	r := resolver.New(s)
	res, err := r.Resolve(context.Background(), resolver.Specs{
		"sum":     tag.New("A1").Add(tag.New("B2")),
		"flagged": tag.New("flag"),
		"missing": tag.New("nope"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3.5, testutil.Scalar(t, res["sum"]))
	assert.Equal(t, true, testutil.Scalar(t, res["flagged"]))
	assert.Nil(t, testutil.Scalar(t, res["missing"]))
}

func TestStore_Series(t *testing.T) {
	path := writeSnapshot(t, `
index: [100, 200, 300]
values:
  A1: [1, 2, 3]
  B2: [10, null, 30]
`)
	s, err := New(context.Background(), path)
	require.NoError(t, err)

	res, err := resolver.New(s).Resolve(context.Background(), resolver.Specs{
		"sum": tag.New("A1").Add(tag.New("B2")),
	})
	require.NoError(t, err)
	assert.Equal(t, []any{11.0, nil, 33.0}, testutil.Points(t, res["sum"]))
}

func TestStore_RereadsFile(t *testing.T) {
	path := writeSnapshot(t, "values: {A1: 1}")
	s, err := New(context.Background(), path)
	require.NoError(t, err)

	res, err := s.Fetch(context.Background(), []string{"A1"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.Native(t, res.Values["A1"]))

	require.NoError(t, os.WriteFile(path, []byte("values: {A1: 2}"), 0o644))
	res, err = s.Fetch(context.Background(), []string{"A1"})
	require.NoError(t, err)
	assert.Equal(t, 2.0, testutil.Native(t, res.Values["A1"]))
}

func TestStore_Errors(t *testing.T) {
	_, err := New(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	_, err = New(context.Background(), writeSnapshot(t, "values: [unbalanced"))
	require.Error(t, err)
}

func TestModule_Register(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	handler, ok := r.StoreRegistry[Kind]
	require.True(t, ok)

	input := handler.NewInput().(*Input)
	input.Path = writeSnapshot(t, "values: {A1: 1}")
	store, err := handler.CreateFn(context.Background(), input)
	require.NoError(t, err)
	assert.IsType(t, &Store{}, store)
}
