// Package config loads loremaster configuration from an optional YAML file
// with environment variable overrides applied on top. The RAG_* environment
// contract is authoritative: RAG_ENABLED must be exactly "true" to enable
// the subsystem, and a missing base URL disables lookups against that wiki.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultCacheTTLSeconds is seven days, the default freshness window for
// cached wiki pages.
const DefaultCacheTTLSeconds = 604800

// Config holds all loremaster configuration.
type Config struct {
	RAG      RAGConfig      `yaml:"rag"`
	Registry RegistryConfig `yaml:"registry"`
}

// RAGConfig configures the wiki retrieval subsystem.
type RAGConfig struct {
	// Enabled gates the whole subsystem. When false every orchestrator
	// operation is a no-op returning its empty value.
	Enabled bool `yaml:"enabled"`

	// WikiBaseURL is the lore wiki (locations, NPCs, history). Empty
	// disables lore lookups even when Enabled is true.
	WikiBaseURL string `yaml:"wiki_base_url"`

	// RulesBaseURL is the rules wiki (items, spells). Empty disables
	// item lookups.
	RulesBaseURL string `yaml:"rules_base_url"`

	// CacheDir holds the on-disk page cache. Process-private working
	// state; not meant for version control.
	CacheDir string `yaml:"cache_dir"`

	// CacheTTLSeconds is how long cached pages stay fresh.
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

// RegistryConfig configures the homebrew item registry.
type RegistryConfig struct {
	Path string `yaml:"path"`
}

// CacheTTL returns the cache TTL as a duration.
func (c RAGConfig) CacheTTL() time.Duration {
	ttl := c.CacheTTLSeconds
	if ttl <= 0 {
		ttl = DefaultCacheTTLSeconds
	}
	return time.Duration(ttl) * time.Second
}

// Default returns the built-in configuration: RAG disabled until the
// environment or a config file says otherwise.
func Default() *Config {
	return &Config{
		RAG: RAGConfig{
			CacheDir:        ".rag_cache",
			CacheTTLSeconds: DefaultCacheTTLSeconds,
		},
	}
}

// Load reads configuration from a YAML file (path may be empty for
// defaults) and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// FromEnv builds configuration purely from the environment.
func FromEnv() *Config {
	cfg := Default()
	cfg.applyEnvOverrides()
	return cfg
}

// applyEnvOverrides applies the RAG_* environment contract. Setting
// RAG_ENABLED to anything but "true" disables the subsystem.
func (c *Config) applyEnvOverrides() {
	if v, ok := os.LookupEnv("RAG_ENABLED"); ok {
		c.RAG.Enabled = v == "true"
	}
	if v := os.Getenv("RAG_WIKI_BASE_URL"); v != "" {
		c.RAG.WikiBaseURL = v
	}
	if v := os.Getenv("RAG_RULES_BASE_URL"); v != "" {
		c.RAG.RulesBaseURL = v
	}
	if v := os.Getenv("RAG_CACHE_TTL"); v != "" {
		if ttl, err := strconv.Atoi(v); err == nil && ttl > 0 {
			c.RAG.CacheTTLSeconds = ttl
		}
	}
	if v := os.Getenv("RAG_CACHE_DIR"); v != "" {
		c.RAG.CacheDir = v
	}
	if v := os.Getenv("ITEM_REGISTRY_PATH"); v != "" {
		c.Registry.Path = v
	}
}
