// Package registry tracks custom/homebrew items. Being registered means one
// thing: the item is user-authored and must never be looked up on the public
// rules wiki. Official content is not registered here.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// DefaultPath is where the registry file lives unless configured otherwise.
const DefaultPath = "game_data/items/custom_items_registry.json"

// Item is one homebrew record.
type Item struct {
	Name        string         `json:"name"`
	ItemType    string         `json:"item_type"` // weapon, armor, gear, magic_item, consumable, tool
	IsMagic     bool           `json:"is_magic"`
	Description string         `json:"description"`
	Properties  map[string]any `json:"properties"`
	Notes       string         `json:"notes"`
}

// Registry is a name → Item lookup table persisted as a single JSON file.
// It answers the homebrew gate question for the wiki fetchers; the answer is
// queried on every fetch and never cached, because the user edits homebrew
// content while the assistant runs. Watch keeps the in-memory table in sync
// with on-disk edits.
type Registry struct {
	path   string
	logger *zap.Logger

	mu    sync.RWMutex
	items map[string]Item
}

// New opens the registry at path, creating an empty one in memory if the
// file is missing or unreadable (fail-open).
func New(path string, logger *zap.Logger) *Registry {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		path:   path,
		logger: logger,
		items:  make(map[string]Item),
	}
	r.reload()
	return r
}

// Path returns the registry file location.
func (r *Registry) Path() string {
	return r.path
}

// reload replaces the in-memory table with the on-disk contents. Missing or
// corrupt files leave the table empty rather than failing.
func (r *Registry) reload() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("item registry unreadable", zap.String("path", r.path), zap.Error(err))
		}
		return
	}

	var items map[string]Item
	if err := json.Unmarshal(data, &items); err != nil {
		r.logger.Warn("item registry corrupt, keeping current table",
			zap.String("path", r.path), zap.Error(err))
		return
	}

	r.mu.Lock()
	r.items = items
	r.mu.Unlock()
	r.logger.Debug("item registry loaded", zap.Int("items", len(items)))
}

// save persists the table to disk.
func (r *Registry) save() error {
	r.mu.RLock()
	data, err := json.MarshalIndent(r.items, "", "  ")
	r.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal item registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("create registry dir: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return fmt.Errorf("write item registry: %w", err)
	}
	return nil
}

// IsCustom reports whether a name is registered homebrew. True means: do not
// contact the wiki for this name.
func (r *Registry) IsCustom(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.items[name]
	return ok
}

// Get returns the homebrew record for a name, if registered.
func (r *Registry) Get(name string) (Item, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[name]
	return item, ok
}

// Add registers a homebrew item and persists the registry.
func (r *Registry) Add(item Item) error {
	r.mu.Lock()
	r.items[item.Name] = item
	r.mu.Unlock()
	return r.save()
}

// Remove deletes a homebrew item and persists the registry. Removing an
// unregistered name is a no-op.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	_, ok := r.items[name]
	delete(r.items, name)
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return r.save()
}

// All returns every homebrew item, sorted by name.
func (r *Registry) All() []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]Item, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

// MagicItems returns the registered magic items, sorted by name.
func (r *Registry) MagicItems() []Item {
	return r.filter(func(item Item) bool { return item.IsMagic })
}

// MundaneItems returns the registered non-magic items, sorted by name.
func (r *Registry) MundaneItems() []Item {
	return r.filter(func(item Item) bool { return !item.IsMagic })
}

func (r *Registry) filter(keep func(Item) bool) []Item {
	var items []Item
	for _, item := range r.All() {
		if keep(item) {
			items = append(items, item)
		}
	}
	return items
}

// Len returns the number of registered items.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
