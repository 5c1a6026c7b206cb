package hclconfig

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/synthtags/pkg/tag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const storesHCL = `
store "plant" {
  kind    = "yaml"
  default = true
  path    = "fixtures.yaml"
}

store "archive" {
  kind = "sql"
  dsn  = "file::memory:"
}
`

const syntheticsHCL = `
synthetic "power" {
  description = "Total power"
  value       = A1 + B2 * B3
}

synthetic "alarm" {
  value = archive.T1 > 5 || max(A1, B2) >= 10
}

synthetic "answer" {
  value = 42
}
`

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stores.hcl", storesHCL)
	writeFile(t, dir, "formulas/synthetics.hcl", syntheticsHCL)
	writeFile(t, dir, "README.md", "not a config file")

	model, converter, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.NotNil(t, converter)

	require.Len(t, model.Stores, 2)
	plant := model.Stores["plant"]
	require.NotNil(t, plant)
	assert.Equal(t, "yaml", plant.Kind)
	assert.True(t, plant.Default)
	assert.False(t, model.Stores["archive"].Default)

	def, err := model.DefaultStore()
	require.NoError(t, err)
	assert.Equal(t, "plant", def)

	require.Len(t, model.Synthetics, 3)
	power := model.Synthetics["power"]
	assert.Equal(t, "Total power", power.Description)
	assert.Equal(t, "([A1] + [([B2] * [B3])])", power.Spec.(*tag.Tag).String())

	alarm := model.Synthetics["alarm"].Spec.(*tag.Tag)
	assert.Equal(t, "([gt([T1], [5])] or [ge([max([A1], [B2])], [10])])", alarm.String())

	answer, ok := model.Synthetics["answer"].Spec.(cty.Value)
	require.True(t, ok)
	assert.True(t, answer.Equals(cty.NumberIntVal(42)).True())
}

func TestLoader_LoadSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "one.hcl", syntheticsHCL)

	model, _, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, model.Synthetics, 3)
	assert.Empty(t, model.Stores)
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{
			name:  "syntax error",
			files: map[string]string{"a.hcl": `synthetic "x" {`},
			want:  "failed to parse",
		},
		{
			name:  "store without kind",
			files: map[string]string{"a.hcl": `store "s" {}`},
			want:  "failed to decode",
		},
		{
			name:  "synthetic without value",
			files: map[string]string{"a.hcl": `synthetic "x" {}`},
			want:  "failed to decode",
		},
		{
			name: "duplicate synthetic across files",
			files: map[string]string{
				"a.hcl": `synthetic "x" { value = 1 }`,
				"b.hcl": `synthetic "x" { value = 2 }`,
			},
			want: "defined more than once",
		},
		{
			name:  "duplicate store",
			files: map[string]string{"a.hcl": "store \"s\" { kind = \"yaml\" }\nstore \"s\" { kind = \"sql\" }"},
			want:  "defined more than once",
		},
		{
			name:  "unsupported formula",
			files: map[string]string{"a.hcl": `synthetic "x" { value = A1 ? 1 : 2 }`},
			want:  `invalid formula for synthetic "x"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tc.files {
				writeFile(t, dir, name, content)
			}
			_, _, err := NewLoader().Load(context.Background(), dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoader_MissingPath(t *testing.T) {
	_, _, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
