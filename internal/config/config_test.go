package config

import (
	"testing"

	"godescribe/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"LABEL_COLUMN", "DESCRIBE_WORKERS", "HISTOGRAM_BINS", "PORT", "DATABASE_URL", "CACHE_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Hogwarts House", cfg.Describe.LabelColumn)
	assert.Equal(t, 0, cfg.Describe.Workers)
	assert.Equal(t, 20, cfg.Describe.HistogramBins)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.False(t, cfg.Database.Enabled())
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LABEL_COLUMN", "Index")
	t.Setenv("DESCRIBE_WORKERS", "3")
	t.Setenv("DATABASE_URL", "postgres://localhost/describe")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("HISTOGRAM_BINS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Index", cfg.Describe.LabelColumn)
	assert.Equal(t, 3, cfg.Describe.Workers)
	assert.Equal(t, 20, cfg.Describe.HistogramBins, "unparsable values fall back to the default")
	assert.True(t, cfg.Database.Enabled())
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("DESCRIBE_WORKERS", "-2")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
