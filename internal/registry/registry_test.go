package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempRegistry(t *testing.T) *Registry {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "custom_items_registry.json"), nil)
}

func amulet() Item {
	return Item{
		Name:        "Mystic Amulet of Kord",
		ItemType:    "magic_item",
		IsMagic:     true,
		Description: "A magical amulet with ancient runes",
		Properties:  map[string]any{"rarity": "rare", "attunement": true},
		Notes:       "Provides +1 to AC while attuned",
	}
}

func TestRegistryAddGetRemove(t *testing.T) {
	reg := tempRegistry(t)

	require.NoError(t, reg.Add(amulet()))
	assert.True(t, reg.IsCustom("Mystic Amulet of Kord"))
	assert.False(t, reg.IsCustom("Greataxe"))

	item, ok := reg.Get("Mystic Amulet of Kord")
	require.True(t, ok)
	assert.Equal(t, "magic_item", item.ItemType)

	require.NoError(t, reg.Remove("Mystic Amulet of Kord"))
	assert.False(t, reg.IsCustom("Mystic Amulet of Kord"))

	// Removing an unregistered name is a no-op.
	require.NoError(t, reg.Remove("Greataxe"))
}

func TestRegistryPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	reg := New(path, nil)
	require.NoError(t, reg.Add(amulet()))

	reopened := New(path, nil)
	assert.True(t, reopened.IsCustom("Mystic Amulet of Kord"))

	item, ok := reopened.Get("Mystic Amulet of Kord")
	require.True(t, ok)
	assert.Equal(t, "A magical amulet with ancient runes", item.Description)
	assert.Equal(t, "rare", item.Properties["rarity"])
}

func TestRegistryMissingFileFailsOpen(t *testing.T) {
	reg := New(filepath.Join(t.TempDir(), "does", "not", "exist.json"), nil)
	assert.Equal(t, 0, reg.Len())
	assert.False(t, reg.IsCustom("Anything"))
}

func TestRegistryCorruptFileFailsOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	reg := New(path, nil)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistryMagicFilters(t *testing.T) {
	reg := tempRegistry(t)
	require.NoError(t, reg.Add(amulet()))
	require.NoError(t, reg.Add(Item{
		Name:        "Reinforced Backpack",
		ItemType:    "gear",
		Description: "Extra storage",
	}))

	magic := reg.MagicItems()
	require.Len(t, magic, 1)
	assert.Equal(t, "Mystic Amulet of Kord", magic[0].Name)

	mundane := reg.MundaneItems()
	require.Len(t, mundane, 1)
	assert.Equal(t, "Reinforced Backpack", mundane[0].Name)

	assert.Len(t, reg.All(), 2)
}

func TestRegistryAllSorted(t *testing.T) {
	reg := tempRegistry(t)
	require.NoError(t, reg.Add(Item{Name: "Zephyr Boots"}))
	require.NoError(t, reg.Add(Item{Name: "Aegis Shield"}))

	all := reg.All()
	require.Len(t, all, 2)
	assert.Equal(t, "Aegis Shield", all[0].Name)
	assert.Equal(t, "Zephyr Boots", all[1].Name)
}
