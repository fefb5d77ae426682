// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"testing"

	"github.com/flotwake/server/units"
)

// flatTerrain is an always-sea-level Terrain double for world package
// tests that don't exercise terrain collision.
type flatTerrain struct{}

func (flatTerrain) Collides(units.Vec2f, float32) bool       { return false }
func (flatTerrain) LandAt(units.Vec2f) bool                   { return false }
func (flatTerrain) AltitudeAt(units.Vec2f) units.Altitude     { return 0 }

func newTestWorld() (*World, *memEntities) {
	entities := newMemEntities()
	w := NewWorld(entities, flatTerrain{})
	return w, entities
}

// TestArenaNoImmediateReuse verifies spec.md section 3.3's hard retirement
// window: an ID retired this tick must not be handed out again until at
// least MaxKeepAlive+1 Recycle() calls have passed.
func TestArenaNoImmediateReuse(t *testing.T) {
	a := NewArena()
	id := a.Allocate(EntityTypeFairmileD)
	a.Retire(id, EntityTypeFairmileD)

	for i := 0; i < MaxKeepAlive; i++ {
		a.Recycle()
		got := a.Allocate(EntityTypeFairmileD)
		if got == id {
			t.Fatalf("id %v reused after only %d recycle(s), want >= %d", id, i+1, MaxKeepAlive+1)
		}
		a.Retire(got, EntityTypeFairmileD)
	}
}

// TestArenaCountsMatchTotal checks invariant #2 of spec.md section 8:
// sum(counts[t]) == number of live entities tracked by the arena.
func TestArenaCountsMatchTotal(t *testing.T) {
	a := NewArena()
	ids := make([]EntityID, 0, 10)
	for i := 0; i < 5; i++ {
		ids = append(ids, a.Allocate(EntityTypeFairmileD))
	}
	for i := 0; i < 5; i++ {
		ids = append(ids, a.Allocate(EntityTypeShell))
	}
	if got := a.Total(); got != 10 {
		t.Fatalf("Total() = %d, want 10", got)
	}
	if got := a.CountKind(EntityKindBoat); got != 5 {
		t.Fatalf("CountKind(boat) = %d, want 5", got)
	}

	a.Retire(ids[0], EntityTypeFairmileD)
	if got := a.Total(); got != 9 {
		t.Fatalf("Total() after retire = %d, want 9", got)
	}
}

// TestMutationQueueOrdering verifies spec.md section 4.7: grouped by
// target, and within a group sorted Score -> Damage -> Reload -> Remove
// (Upgrade is applied synchronously via World.UpgradeEntity rather than
// through the MutationQueue, so it has no MutationKind of its own).
func TestMutationQueueOrdering(t *testing.T) {
	var q MutationQueue
	q.Remove(5, DeathByUnknown())
	q.Damage(5, 10)
	q.Score(5, 1)
	q.Push(Mutation{Target: 5, Kind: MutationReload, Slot: 0})

	q.Score(2, 1)

	groups := q.Grouped()
	if len(groups) != 2 {
		t.Fatalf("Grouped() returned %d groups, want 2", len(groups))
	}
	// target 2 sorts before target 5.
	if groups[0][0].Target != 2 || groups[1][0].Target != 5 {
		t.Fatalf("groups not target-ordered: %+v", groups)
	}
	g := groups[1]
	wantOrder := []MutationKind{MutationScore, MutationDamage, MutationReload, MutationRemove}
	for i, m := range g {
		if m.Kind != wantOrder[i] {
			t.Fatalf("group[%d] = %v, want %v", i, m.Kind, wantOrder[i])
		}
	}
}

// TestDeathReasonPlayerCausedOutranksNatural covers spec.md section 7: a
// player-caused death (Weapon/Ram) always outranks a natural one
// (Terrain/Border/Unknown/Landing) for the same entity in the same tick.
func TestDeathReasonPlayerCausedOutranksNatural(t *testing.T) {
	weapon := DeathByWeapon("attacker", EntityTypeShell)
	terrain := DeathByTerrain()

	if !weapon.betterThan(terrain) {
		t.Fatal("weapon death should outrank terrain death")
	}
	if terrain.betterThan(weapon) {
		t.Fatal("terrain death should not outrank weapon death")
	}
}

// TestBoatCollectibleCollisionScoresAndRemoves exercises resolveCollision's
// "Boat x Collectible" row end-to-end through World.Tick's collision phase.
func TestBoatCollectibleCollisionScoresAndRemoves(t *testing.T) {
	w, entities := newTestWorld()

	owner := NewPlayer("tester", false)
	boatID := w.Arena.Allocate(EntityTypeFairmileD)
	entities.Add(Entity{
		EntityID:   boatID,
		EntityType: EntityTypeFairmileD,
		Owner:      owner,
		Extension:  NewBoatExtension(EntityTypeFairmileD),
	})
	owner.Spawn(boatID)

	crateID := w.Arena.Allocate(EntityTypeCrate)
	entities.Add(Entity{EntityID: crateID, EntityType: EntityTypeCrate})

	w.runCollision(units.TicksPerSecond / 10)

	if entities.Count() != 1 {
		t.Fatalf("Count() = %d, want 1 (crate removed)", entities.Count())
	}
	if owner.Score <= 0 {
		t.Fatalf("owner.Score = %d, want > 0", owner.Score)
	}
}

// TestRadiusNeverExceedsGrowthCap covers part of spec.md section 8's
// "Radius adaptation" property: per-tick radius growth never exceeds the
// 2 m/s cap, even when the target is far above current (short of the snap
// threshold).
func TestRadiusNeverExceedsGrowthCap(t *testing.T) {
	w, entities := newTestWorld()
	w.Radius = MinRadius

	for i := 0; i < 10; i++ {
		entities.Add(Entity{
			EntityID:   EntityID(i + 1),
			EntityType: EntityTypeFairmileD,
			Transform:  units.Transform{},
		})
	}

	dt := units.TicksPerSecond / 10
	prev := w.Radius
	for i := 0; i < 5; i++ {
		w.adjustRadius(dt)
		grew := w.Radius - prev
		if grew > radiusGrowthPerSecond*dt.Float()+0.01 && w.Radius < prev+radiusSnapThreshold {
			t.Fatalf("radius grew by %v in one tick, cap is %v", grew, radiusGrowthPerSecond*dt.Float())
		}
		prev = w.Radius
	}
}
