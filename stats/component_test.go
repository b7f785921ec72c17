package stats

import "testing"

func TestComponentLayerOrder(t *testing.T) {
	base := ValueSet{}
	base[StatStrength] = 10
	comp := NewComponent(base)

	permanent := NewStatDelta()
	permanent.Add[StatStrength] = 5
	comp.Apply(CommandStatChange{
		Layer:  LayerPermanent,
		Source: SourceKey{Kind: SourceKindProgression, ID: "training"},
		Delta:  permanent,
	})

	equipment := NewStatDelta()
	equipment.Add[StatStrength] = 5
	equipment.Mul[StatStrength] = 1.1
	comp.Apply(CommandStatChange{
		Layer:  LayerEquipment,
		Source: SourceKey{Kind: SourceKindEquipment, ID: "longsword"},
		Delta:  equipment,
	})

	temp := NewStatDelta()
	temp.Override[StatStrength] = OverrideValue{Active: true, Value: 30}
	comp.Apply(CommandStatChange{
		Layer:         LayerTemporary,
		Source:        SourceKey{Kind: SourceKindTemporary, ID: "strength_boost"},
		Delta:         temp,
		ExpiresAtTick: 5,
	})

	comp.Resolve(1)

	if got := comp.GetTotal(StatStrength); got != 30 {
		t.Fatalf("expected strength total 30, got %.2f", got)
	}
	if got := comp.GetDerived(DerivedMeleeDamageBonus); got != 60 {
		t.Fatalf("expected melee damage bonus 60, got %.2f", got)
	}

	comp.Resolve(6)
	if got := comp.GetTotal(StatStrength); got == 30 {
		t.Fatalf("expected temporary override to expire; still have %.2f", got)
	}
}

func TestDerivedScaling(t *testing.T) {
	comp := DefaultComponent(ArchetypeScout)
	if got := comp.GetDerived(DerivedMoveSpeedMultiplier); mathAbsDiff(got, 1.1) > 1e-6 {
		t.Fatalf("expected scout move speed multiplier 1.1, got %.2f", got)
	}
	if got := comp.GetDerived(DerivedCritChance); mathAbsDiff(got, 0.20) > 1e-6 {
		t.Fatalf("expected scout crit chance 0.20, got %.2f", got)
	}

	tank := DefaultComponent(ArchetypeTank)
	if got := tank.GetDerived(DerivedMoveSpeedMultiplier); mathAbsDiff(got, 0.9) > 1e-6 {
		t.Fatalf("expected tank move speed multiplier 0.9, got %.2f", got)
	}
	if got := tank.GetDerived(DerivedCritChance); mathAbsDiff(got, 0.05) > 1e-6 {
		t.Fatalf("expected tank crit chance 0.05, got %.2f", got)
	}

	support := DefaultComponent(ArchetypeSupport)
	if got := support.GetDerived(DerivedMoveSpeedMultiplier); mathAbsDiff(got, 1.0) > 1e-6 {
		t.Fatalf("expected support move speed multiplier 1.0, got %.2f", got)
	}
	if got := support.GetDerived(DerivedCritChance); mathAbsDiff(got, 0.08) > 1e-6 {
		t.Fatalf("expected support crit chance 0.08, got %.2f", got)
	}

	boost := NewStatDelta()
	boost.Add[StatWillpower] = 10
	support.Apply(CommandStatChange{
		Layer:  LayerPermanent,
		Source: SourceKey{Kind: SourceKindProgression, ID: "focus-crystal"},
		Delta:  boost,
	})

	support.Resolve(2)
	expectedMana := computeMaxMana(24)
	if got := support.GetDerived(DerivedMaxMana); mathAbsDiff(got, expectedMana) > 1e-6 {
		t.Fatalf("expected mana %.2f, got %.2f", expectedMana, got)
	}
}

func TestDeterministicRecomputation(t *testing.T) {
	base := DefaultBase(ArchetypeMobGrunt)
	compA := NewComponent(base)
	compB := NewComponent(base)

	perm := NewStatDelta()
	perm.Add[StatStrength] = 3
	equip := NewStatDelta()
	equip.Mul[StatStrength] = 1.25

	compA.Apply(CommandStatChange{Layer: LayerPermanent, Source: SourceKey{Kind: SourceKindProgression, ID: "milestone"}, Delta: perm})
	compA.Apply(CommandStatChange{Layer: LayerEquipment, Source: SourceKey{Kind: SourceKindEquipment, ID: "axe"}, Delta: equip})

	compB.Apply(CommandStatChange{Layer: LayerEquipment, Source: SourceKey{Kind: SourceKindEquipment, ID: "axe"}, Delta: equip})
	compB.Apply(CommandStatChange{Layer: LayerPermanent, Source: SourceKey{Kind: SourceKindProgression, ID: "milestone"}, Delta: perm})

	compA.Resolve(10)
	compB.Resolve(10)

	for i := StatID(0); i < StatCount; i++ {
		if mathAbsDiff(compA.GetTotal(i), compB.GetTotal(i)) > 1e-6 {
			t.Fatalf("totals diverged for stat %d: %.4f vs %.4f", i, compA.GetTotal(i), compB.GetTotal(i))
		}
	}
	for i := DerivedID(0); i < DerivedCount; i++ {
		if mathAbsDiff(compA.GetDerived(i), compB.GetDerived(i)) > 1e-6 {
			t.Fatalf("derived diverged for stat %d: %.4f vs %.4f", i, compA.GetDerived(i), compB.GetDerived(i))
		}
	}
}

func mathAbsDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
