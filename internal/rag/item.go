package rag

import (
	"context"
	"strings"
)

// ItemInfo describes an item from either the homebrew registry or the rules
// wiki.
type ItemInfo struct {
	Name        string
	Description string
	Properties  map[string]any
	IsCustom    bool
	IsMagic     bool
	Notes       string
	Source      string // SourceRegistry or SourceRemote
	URL         string
}

// Section titles that read as the item's description rather than a named
// property.
var descriptionTitles = map[string]bool{
	"description": true,
	"overview":    true,
	"summary":     true,
}

// ItemInfo looks up an item, respecting the homebrew partition. Registered
// homebrew items are answered from the local registry without touching the
// network. Anything else is assumed official and queried on the rules wiki,
// where description-like sections become the description and the remaining
// sections a properties map. Returns nil when neither path yields data.
func (s *System) ItemInfo(ctx context.Context, name string) *ItemInfo {
	if !s.enabled || s.rules == nil {
		return nil
	}

	if s.registry != nil {
		if item, ok := s.registry.Get(name); ok {
			return &ItemInfo{
				Name:        item.Name,
				Description: item.Description,
				Properties:  item.Properties,
				IsCustom:    true,
				IsMagic:     item.IsMagic,
				Notes:       item.Notes,
				Source:      SourceRegistry,
			}
		}
	}

	page, err := s.rules.FetchPage(ctx, name, false)
	if err != nil || page == nil {
		return nil
	}

	info := &ItemInfo{
		Name:       page.Title,
		Properties: make(map[string]any),
		// Heuristic only; the rules wiki rarely labels magic items in
		// the page title.
		IsMagic: strings.Contains(strings.ToLower(name), "magic"),
		Source:  SourceRemote,
		URL:     page.URL,
	}
	for _, sec := range page.Sections {
		if descriptionTitles[strings.ToLower(sec.Title)] {
			info.Description = sec.Content
		} else {
			info.Properties[sec.Title] = sec.Content
		}
	}
	return info
}
