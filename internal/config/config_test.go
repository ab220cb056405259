package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaultsDisabled(t *testing.T) {
	cfg := FromEnv()
	assert.False(t, cfg.RAG.Enabled)
	assert.Equal(t, ".rag_cache", cfg.RAG.CacheDir)
	assert.Equal(t, DefaultCacheTTLSeconds, cfg.RAG.CacheTTLSeconds)
}

func TestFromEnvEnabledRequiresExactlyTrue(t *testing.T) {
	for _, v := range []string{"1", "TRUE", "yes", "on", ""} {
		t.Setenv("RAG_ENABLED", v)
		assert.False(t, FromEnv().RAG.Enabled, "RAG_ENABLED=%q must not enable", v)
	}

	t.Setenv("RAG_ENABLED", "true")
	assert.True(t, FromEnv().RAG.Enabled)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("RAG_ENABLED", "true")
	t.Setenv("RAG_WIKI_BASE_URL", "https://lore.example/wiki")
	t.Setenv("RAG_RULES_BASE_URL", "https://rules.example/wiki")
	t.Setenv("RAG_CACHE_TTL", "3600")

	cfg := FromEnv()
	assert.Equal(t, "https://lore.example/wiki", cfg.RAG.WikiBaseURL)
	assert.Equal(t, "https://rules.example/wiki", cfg.RAG.RulesBaseURL)
	assert.Equal(t, 3600, cfg.RAG.CacheTTLSeconds)
	assert.Equal(t, time.Hour, cfg.RAG.CacheTTL())
}

func TestFromEnvRejectsBadTTL(t *testing.T) {
	t.Setenv("RAG_CACHE_TTL", "not-a-number")
	assert.Equal(t, DefaultCacheTTLSeconds, FromEnv().RAG.CacheTTLSeconds)

	t.Setenv("RAG_CACHE_TTL", "-5")
	assert.Equal(t, DefaultCacheTTLSeconds, FromEnv().RAG.CacheTTLSeconds)
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loremaster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rag:
  enabled: true
  wiki_base_url: https://file.example/wiki
  cache_ttl_seconds: 60
registry:
  path: /tmp/items.json
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.RAG.Enabled)
	assert.Equal(t, "https://file.example/wiki", cfg.RAG.WikiBaseURL)
	assert.Equal(t, "/tmp/items.json", cfg.Registry.Path)

	// Environment wins over the file.
	t.Setenv("RAG_WIKI_BASE_URL", "https://env.example/wiki")
	t.Setenv("RAG_ENABLED", "false")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example/wiki", cfg.RAG.WikiBaseURL)
	assert.False(t, cfg.RAG.Enabled)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestCacheTTLFallback(t *testing.T) {
	cfg := RAGConfig{}
	assert.Equal(t, time.Duration(DefaultCacheTTLSeconds)*time.Second, cfg.CacheTTL())
}
