// Package rag merges two wiki sources into prompt-ready context blocks for
// the game master assistant: a lore wiki for locations, history, and NPCs,
// and a rules wiki for items and spells. Both fetchers share one TTL cache
// and respect the homebrew partition: user-authored content is answered
// from the local registry and never looked up online.
//
// Every operation degrades to its empty value when the subsystem is
// disabled, a base URL is missing, or a fetch fails. Callers already
// tolerate empty context; nothing here panics or surfaces errors for
// expected conditions.
package rag

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"loremaster/internal/config"
	"loremaster/internal/registry"
	"loremaster/internal/wiki"
)

// Sources for ItemInfo results.
const (
	SourceRegistry = "registry"
	SourceRemote   = "remote"
)

// System is the single entry point the rest of the application consumes.
// Construct it explicitly from configuration; callers wanting a shared
// instance hold one reference themselves.
type System struct {
	enabled  bool
	lore     *wiki.Client
	rules    *wiki.Client
	cache    *wiki.Cache
	registry *registry.Registry
	logger   *zap.Logger
}

// New builds the RAG system. A disabled config yields a system whose
// operations all return their empty values without touching the network or
// the filesystem. reg may be nil when no homebrew registry exists.
func New(cfg config.RAGConfig, reg *registry.Registry, logger *zap.Logger) (*System, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &System{
		enabled:  cfg.Enabled,
		registry: reg,
		logger:   logger,
	}
	if !cfg.Enabled {
		logger.Debug("rag subsystem disabled")
		return s, nil
	}

	cache, err := wiki.NewCache(cfg.CacheDir, cfg.CacheTTL(), logger)
	if err != nil {
		return nil, err
	}
	s.cache = cache

	var gate wiki.Gate
	if reg != nil {
		gate = reg
	}

	if cfg.WikiBaseURL != "" {
		s.lore = wiki.NewClient(cfg.WikiBaseURL, cache, gate, logger)
		logger.Info("lore wiki initialized", zap.String("base_url", cfg.WikiBaseURL))
	} else {
		logger.Warn("RAG_WIKI_BASE_URL not set, lore lookups disabled")
	}

	if cfg.RulesBaseURL != "" {
		s.rules = wiki.NewClient(cfg.RulesBaseURL, cache, gate, logger)
		logger.Info("rules wiki initialized", zap.String("base_url", cfg.RulesBaseURL))
	} else {
		logger.Warn("RAG_RULES_BASE_URL not set, item lookups disabled")
	}

	if reg != nil {
		logger.Info("homebrew filter active", zap.Int("items", reg.Len()))
	}
	return s, nil
}

// Enabled reports whether the subsystem is active.
func (s *System) Enabled() bool {
	return s.enabled
}

// Cache exposes the shared page cache for maintenance operations. Nil when
// the subsystem is disabled.
func (s *System) Cache() *wiki.Cache {
	return s.cache
}

// ContextForLocation fetches one lore page by exact title and formats up to
// maxSections of its sections into a delimited context block. Any fetch
// failure yields an empty string.
func (s *System) ContextForLocation(ctx context.Context, name string, maxSections int) string {
	if !s.enabled || s.lore == nil {
		return ""
	}

	page, err := s.lore.FetchPage(ctx, name, false)
	if err != nil || page == nil {
		return ""
	}

	sections := page.Sections
	if maxSections > 0 && len(sections) > maxSections {
		sections = sections[:maxSections]
	}

	var b strings.Builder
	b.WriteString("\n\n=== LORE CONTEXT: " + page.Title + " ===\n")
	for _, sec := range sections {
		b.WriteString("\n" + sec.Title + ":\n" + sec.Content + "\n")
	}
	b.WriteString("=== END LORE CONTEXT ===\n\n")
	return b.String()
}

// ContextForQuery fetches each candidate lore page, ranks its sections
// against the query, and concatenates the top results grouped by source
// page. Pages that fail to fetch are silently skipped; when nothing fetches
// the block is returned empty but still delimited.
func (s *System) ContextForQuery(ctx context.Context, query string, pages []string, maxResultsPerPage int) string {
	if !s.enabled || s.lore == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n=== LORE CONTEXT FOR: " + query + " ===\n")

	for _, title := range pages {
		page, err := s.lore.FetchPage(ctx, title, false)
		if err != nil || page == nil {
			continue
		}

		results := wiki.SearchSections(page, query, maxResultsPerPage)
		if len(results) == 0 {
			continue
		}

		b.WriteString("\nFrom " + page.Title + ":\n")
		for _, res := range results {
			b.WriteString("\n" + res.Section.Title + ":\n" + res.Section.Content + "\n")
		}
	}

	b.WriteString("\n=== END LORE CONTEXT ===\n\n")
	return b.String()
}

// HistoryCheckInfo fetches one lore page by topic and reveals sections in
// graduated tiers of the check result: below 10 the first section only,
// 10-14 the first two, 15-19 the first three, 20 and up everything. The
// four-tier thresholds are a game-balance contract; do not retune them.
// Returns false when the page cannot be fetched.
func (s *System) HistoryCheckInfo(ctx context.Context, topic string, checkResult int) (string, bool) {
	if !s.enabled || s.lore == nil {
		return "", false
	}

	page, err := s.lore.FetchPage(ctx, topic, false)
	if err != nil || page == nil {
		return "", false
	}

	sections := page.Sections
	switch {
	case checkResult < 10:
		sections = truncateSections(sections, 1)
	case checkResult < 15:
		sections = truncateSections(sections, 2)
	case checkResult < 20:
		sections = truncateSections(sections, 3)
	}

	var b strings.Builder
	b.WriteString("You recall the following about " + page.Title + ":\n\n")
	for _, sec := range sections {
		b.WriteString(sec.Title + ":\n" + sec.Content + "\n\n")
	}
	return b.String(), true
}

func truncateSections(sections []wiki.Section, n int) []wiki.Section {
	if len(sections) > n {
		return sections[:n]
	}
	return sections
}
