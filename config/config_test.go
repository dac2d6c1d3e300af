package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, int64(256), cfg.ValueRange.RangeBound)
	assert.Equal(t, 10, cfg.ValueRange.MaxValues)

	// Defaults are not shared between callers.
	cfg.Frontend.CallExceptions[0] = "changed"
	assert.Equal(t, []string{"panic"}, Default().Frontend.CallExceptions)
}

func TestLoad(t *testing.T) {
	cfg, err := Load("testdata/dflow.toml")
	require.NoError(t, err)
	assert.Equal(t, int64(1024), cfg.ValueRange.RangeBound)
	assert.Equal(t, 10, cfg.ValueRange.MaxValues, "unset keys keep their defaults")
	assert.Equal(t, []string{"panic", "IOException"}, cfg.Frontend.CallExceptions)
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"[value_range]\nmax_values = 0\n",
		"[value_range]\nrange_bound = -1\n",
		"[frontend]\ncall_exceptions = [\"\"]\n",
		"[value_range]\nwidth = 3\n",
		"[value_range\n",
	} {
		_, err := Parse(strings.NewReader(src))
		assert.ErrorIs(t, err, ErrInvalid, "%q", src)
	}

	_, err := Load("testdata/missing.toml")
	assert.Error(t, err)
}
