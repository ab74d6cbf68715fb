package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hayescr/flexce/gce"
)

func writeBundle(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dtd.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write bundle: %v", err)
	}
	return path
}

func TestLoadDTDBundle_ParsesModelAndParams(t *testing.T) {
	// GIVEN a power-law bundle
	path := writeBundle(t, "model: power_law\nparams:\n  min_snia_time: 40\n  slope: -1.1\n")

	// WHEN loaded
	bundle, err := LoadDTDBundle(path)

	// THEN model and params come through with YAML's native types
	assert.NoError(t, err)
	assert.Equal(t, "power_law", bundle.Model)
	assert.Equal(t, 40, bundle.Params["min_snia_time"])
	assert.Equal(t, -1.1, bundle.Params["slope"])
}

func TestLoadDTDBundle_ParamsFlowThroughToValidation(t *testing.T) {
	// GIVEN a bundle with a keyword the model does not recognize
	path := writeBundle(t, "model: exponential\nparams:\n  foo: 1\n")
	bundle, err := LoadDTDBundle(path)
	assert.NoError(t, err)

	// WHEN the kernel is built from the bundle
	grid, err := gce.NewTimeGrid(30, 12000)
	assert.NoError(t, err)
	model, err := gce.ParseModel(bundle.Model)
	assert.NoError(t, err)
	_, err = gce.BuildDTD(grid, model, bundle.Params, gce.BuildOpts{})

	// THEN the engine's schema validation rejects it: the bundle loader does
	// not pre-filter keywords
	var paramErr *gce.InvalidParameterError
	assert.ErrorAs(t, err, &paramErr)
	assert.Equal(t, "foo", paramErr.Keyword)
}

func TestLoadDTDBundle_BoolAndMissingParams(t *testing.T) {
	// GIVEN a single-degenerate bundle with a bare model line
	path := writeBundle(t, "model: single_degenerate\nparams:\n  normalize: true\n")
	bundle, err := LoadDTDBundle(path)
	assert.NoError(t, err)
	assert.Equal(t, true, bundle.Params["normalize"])

	// AND a file with no params at all still yields an empty, usable map
	path = writeBundle(t, "model: exponential\n")
	bundle, err = LoadDTDBundle(path)
	assert.NoError(t, err)
	assert.NotNil(t, bundle.Params)
	assert.Empty(t, bundle.Params)
}

func TestLoadDTDBundle_Errors(t *testing.T) {
	_, err := LoadDTDBundle(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeBundle(t, "model: [not\n  valid yaml")
	_, err = LoadDTDBundle(path)
	assert.Error(t, err)
}
