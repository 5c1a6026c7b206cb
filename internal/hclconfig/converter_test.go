package hclconfig

import (
	"context"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fileInput struct {
	Path  string  `hcl:"path"`
	Label *string `hcl:"label,optional"`
}

func parseBody(t *testing.T, src string) hcl.Body {
	t.Helper()
	f, diags := hclparse.NewParser().ParseHCL([]byte(src), "store.hcl")
	require.False(t, diags.HasErrors(), diags.Error())
	return f.Body
}

func TestConverter_DecodeBody(t *testing.T) {
	t.Setenv("SYNTHTAGS_TEST_DIR", "/data")

	var in fileInput
	body := parseBody(t, `
path  = format("%s/%s", env("SYNTHTAGS_TEST_DIR"), "fixtures.yaml")
label = upper(trimspace(" plant "))
`)
	require.NoError(t, NewConverter().DecodeBody(context.Background(), &in, body))
	assert.Equal(t, "/data/fixtures.yaml", in.Path)
	require.NotNil(t, in.Label)
	assert.Equal(t, "PLANT", *in.Label)
}

func TestConverter_EnvDefault(t *testing.T) {
	var in fileInput
	body := parseBody(t, `path = env("SYNTHTAGS_TEST_SURELY_UNSET", "fallback")`)
	require.NoError(t, NewConverter().DecodeBody(context.Background(), &in, body))
	assert.Equal(t, "fallback", in.Path)
}

func TestConverter_Errors(t *testing.T) {
	c := NewConverter()
	ctx := context.Background()

	t.Run("unset variable", func(t *testing.T) {
		var in fileInput
		err := c.DecodeBody(ctx, &in, parseBody(t, `path = env("SYNTHTAGS_TEST_SURELY_UNSET")`))
		require.Error(t, err)
	})

	t.Run("unknown argument", func(t *testing.T) {
		var in fileInput
		err := c.DecodeBody(ctx, &in, parseBody(t, "path = \"a\"\nbogus = 1"))
		require.Error(t, err)
	})

	t.Run("missing required argument", func(t *testing.T) {
		var in fileInput
		err := c.DecodeBody(ctx, &in, parseBody(t, ""))
		require.Error(t, err)
	})

	t.Run("target is not a pointer", func(t *testing.T) {
		err := c.DecodeBody(ctx, fileInput{}, parseBody(t, `path = "a"`))
		require.Error(t, err)
	})
}
