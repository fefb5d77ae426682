// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import "testing"

// TestSpawnPlayerAllocatesBoatAndExtension covers spec.md section 4.6.2:
// a valid Spawn request allocates a boat entity with a fresh, fully-loaded
// BoatExtension and transitions the player to Alive.
func TestSpawnPlayerAllocatesBoatAndExtension(t *testing.T) {
	w, entities := newTestWorld()
	p := NewPlayer("tester", false)

	if !w.SpawnPlayer(p, EntityTypeFairmileD) {
		t.Fatal("SpawnPlayer returned false for a valid request")
	}
	if p.Status != PlayerStatusAlive {
		t.Fatalf("player status = %v, want Alive", p.Status)
	}
	if p.EntityID == EntityIDInvalid {
		t.Fatal("player EntityID not set after spawn")
	}

	var boat *Entity
	entities.Get(p.EntityID, func(e *Entity) bool {
		boat = e
		return false
	})
	if boat == nil {
		t.Fatal("spawned boat not found in entity store")
	}
	if boat.Extension == nil {
		t.Fatal("spawned boat has no extension")
	}
	for i, reload := range boat.Extension.Reloads {
		if reload != 0 {
			t.Fatalf("reload[%d] = %v, want 0 (fully loaded)", i, reload)
		}
	}
}

// TestSpawnPlayerRejectsAlreadyAlive covers spec.md section 4.6.2 step 1's
// validation: a player already Alive cannot spawn again.
func TestSpawnPlayerRejectsAlreadyAlive(t *testing.T) {
	w, _ := newTestWorld()
	p := NewPlayer("tester", false)
	if !w.SpawnPlayer(p, EntityTypeFairmileD) {
		t.Fatal("first spawn should succeed")
	}
	if w.SpawnPlayer(p, EntityTypeFairmileD) {
		t.Fatal("second spawn while Alive should be rejected")
	}
}

// TestSpawnPlayerRejectsNonBoat covers the "requested entity_type is a
// Boat" eligibility check.
func TestSpawnPlayerRejectsNonBoat(t *testing.T) {
	w, _ := newTestWorld()
	p := NewPlayer("tester", false)
	if w.SpawnPlayer(p, EntityTypeShell) {
		t.Fatal("spawning a non-boat entity type should be rejected")
	}
}

// TestCrateCountOfScalesWithPlayers is a light sanity check on the target
// count formula spec.md section 4.6.1 describes as proportional to
// population.
func TestCrateCountOfScalesWithPlayers(t *testing.T) {
	if CrateCountOf(10) <= CrateCountOf(0) {
		t.Fatal("CrateCountOf should increase with player count")
	}
	if ObstacleCountOf(10) <= ObstacleCountOf(0) {
		t.Fatal("ObstacleCountOf should increase with player count")
	}
}
