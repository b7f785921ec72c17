// Package loot rolls spawn tables, tracks ground items per room, and
// resolves pickup attempts.
package loot

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Entry is one possible drop within a table.
type Entry struct {
	ItemName   string            `yaml:"itemName"`
	ItemType   string            `yaml:"itemType"`
	Rarity     int               `yaml:"rarity"`
	DropChance float64           `yaml:"dropChance"`
	QtyMin     int               `yaml:"qtyMin"`
	QtyMax     int               `yaml:"qtyMax"`
	Properties map[string]string `yaml:"properties,omitempty"`
}

// Table is a named collection of weighted drop entries.
type Table struct {
	ID      string  `yaml:"id"`
	Entries []Entry `yaml:"entries"`
}

// Tables indexes every configured table by id.
type Tables map[string]Table

// fileFormat mirrors the on-disk shape: a flat list of tables keyed by id.
type fileFormat struct {
	Tables []Table `yaml:"tables"`
}

// Load reads loot tables from a YAML file. An empty path returns the
// built-in defaults so a server can run without a config file present.
func Load(path string) (Tables, error) {
	if path == "" {
		return DefaultTables(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loot: read tables: %w", err)
	}
	var doc fileFormat
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("loot: parse tables: %w", err)
	}
	tables := make(Tables, len(doc.Tables))
	for _, table := range doc.Tables {
		tables[table.ID] = table
	}
	return tables, nil
}

// DefaultTables returns a small built-in table set covering the common
// rooms, mob types, and boss/room-completion triggers so a server can run
// before any operator-supplied config is loaded.
func DefaultTables() Tables {
	return Tables{
		"common": {
			ID: "common",
			Entries: []Entry{
				{ItemName: "Scrap Metal", ItemType: "material", Rarity: 1, DropChance: 0.6, QtyMin: 1, QtyMax: 3},
				{ItemName: "Medkit", ItemType: "consumable", Rarity: 2, DropChance: 0.25, QtyMin: 1, QtyMax: 1},
				{ItemName: "Ammo Box", ItemType: "consumable", Rarity: 1, DropChance: 0.4, QtyMin: 1, QtyMax: 2},
			},
		},
		"grunt": {
			ID: "grunt",
			Entries: []Entry{
				{ItemName: "Scrap Metal", ItemType: "material", Rarity: 1, DropChance: 0.5, QtyMin: 1, QtyMax: 2},
				{ItemName: "Rusted Plating", ItemType: "material", Rarity: 2, DropChance: 0.1, QtyMin: 1, QtyMax: 1},
			},
		},
		"ranged": {
			ID: "ranged",
			Entries: []Entry{
				{ItemName: "Scrap Metal", ItemType: "material", Rarity: 1, DropChance: 0.5, QtyMin: 1, QtyMax: 2},
				{ItemName: "Optic Lens", ItemType: "material", Rarity: 2, DropChance: 0.15, QtyMin: 1, QtyMax: 1},
			},
		},
		"boss": {
			ID: "boss",
			Entries: []Entry{
				{ItemName: "Reinforced Core", ItemType: "material", Rarity: 3, DropChance: 1.0, QtyMin: 1, QtyMax: 1},
				{ItemName: "Sealed Cache", ItemType: "container", Rarity: 4, DropChance: 0.3, QtyMin: 1, QtyMax: 1},
			},
		},
		"room_completion": {
			ID: "room_completion",
			Entries: []Entry{
				{ItemName: "Supply Crate", ItemType: "consumable", Rarity: 2, DropChance: 0.8, QtyMin: 1, QtyMax: 2},
				{ItemName: "Bonus Cache", ItemType: "container", Rarity: 3, DropChance: 0.2, QtyMin: 1, QtyMax: 1},
			},
		},
	}
}
