package loot

import "math/rand"

// Rolled is one resolved drop from a table roll, ready to be placed in the
// world by the caller (which assigns id, position, and room).
type Rolled struct {
	ItemName   string
	ItemType   string
	Rarity     int
	Quantity   int
	Properties map[string]string
}

// Roll evaluates every entry in table independently against its
// dropChance, boosted additively by luckModifier (e.g. a Scout killer's
// +0.1 bonus), and returns every entry that hit.
func Roll(table Table, rng *rand.Rand, luckModifier float64) []Rolled {
	var rolled []Rolled
	for _, entry := range table.Entries {
		chance := entry.DropChance + luckModifier
		if chance > 1 {
			chance = 1
		}
		if rng.Float64() >= chance {
			continue
		}
		qty := entry.QtyMin
		if entry.QtyMax > entry.QtyMin {
			qty = entry.QtyMin + rng.Intn(entry.QtyMax-entry.QtyMin+1)
		}
		rolled = append(rolled, Rolled{
			ItemName:   entry.ItemName,
			ItemType:   entry.ItemType,
			Rarity:     entry.Rarity,
			Quantity:   qty,
			Properties: entry.Properties,
		})
	}
	return rolled
}

// RollGuaranteedRarity returns the highest-rarity entry in table that is at
// least minRarity, used for boss-kill guaranteed drops. Returns false if no
// entry qualifies.
func RollGuaranteedRarity(table Table, minRarity int) (Rolled, bool) {
	var best *Entry
	for i, entry := range table.Entries {
		if entry.Rarity < minRarity {
			continue
		}
		if best == nil || entry.Rarity > best.Rarity {
			best = &table.Entries[i]
		}
	}
	if best == nil {
		return Rolled{}, false
	}
	qty := best.QtyMin
	if best.QtyMax > best.QtyMin {
		qty = best.QtyMax
	}
	return Rolled{
		ItemName:   best.ItemName,
		ItemType:   best.ItemType,
		Rarity:     best.Rarity,
		Quantity:   qty,
		Properties: best.Properties,
	}, true
}
