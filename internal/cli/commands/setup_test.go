package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owid/catalog-go/catalog/path"
	"github.com/owid/catalog-go/internal/cache"
	"github.com/owid/catalog-go/internal/cli/config"
	"go.uber.org/zap"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input string
		want  path.Kind
	}{
		{"", path.KindAny},
		{"any", path.KindAny},
		{"chart", path.KindChart},
		{"table", path.KindTable},
		{"indicator", path.KindIndicator},
	}
	for _, tt := range tests {
		got, err := parseKind(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := parseKind("dataset")
	assert.ErrorContains(t, err, `unknown kind "dataset"`)
}

func TestBuildCache(t *testing.T) {
	c, _, err := buildCache(&config.Config{Cache: config.CacheConfig{Backend: "none"}})
	require.NoError(t, err)
	assert.Nil(t, c)

	c, ttl, err := buildCache(&config.Config{Cache: config.CacheConfig{Backend: "memory"}})
	require.NoError(t, err)
	assert.IsType(t, &cache.MemoryCache{}, c)
	assert.Equal(t, cache.DefaultConfig().DefaultTTL, ttl)

	_, _, err = buildCache(&config.Config{Cache: config.CacheConfig{Backend: "memcached"}})
	assert.ErrorContains(t, err, "unknown cache backend")
}

func TestLoadIndex_NotConfigured(t *testing.T) {
	_, err := loadIndex(&config.Config{})
	assert.ErrorContains(t, err, "no catalog index configured")
}

func TestBuildPayloadStore_NotConfigured(t *testing.T) {
	_, err := buildPayloadStore(&config.Config{}, zap.NewNop())
	assert.ErrorContains(t, err, "no payload source configured")
}

func TestNewLogger(t *testing.T) {
	assert.NotNil(t, newLogger(false))
	assert.NotNil(t, newLogger(true))
}
