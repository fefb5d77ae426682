// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"testing"

	"github.com/flotwake/server/units"
)

// TestUpdatePhysicsIntegratesPosition covers spec.md section 4.3's
// position integration: position += direction * velocity * dt.
func TestUpdatePhysicsIntegratesPosition(t *testing.T) {
	e := &Entity{
		EntityType: EntityTypeFairmileD,
		Transform: units.Transform{
			Direction: units.ToAngle(0),
			Velocity:  units.ToVelocity(10),
		},
		Extension: NewBoatExtension(EntityTypeFairmileD),
	}
	var mutations MutationQueue
	dt := units.TicksPerSecond / 10 // 1 tick == 0.1s

	UpdatePhysics(e, dt, 10000, flatTerrain{}, &mutations)

	if e.Position.X <= 0 {
		t.Fatalf("position.X = %v, want > 0 after moving forward", e.Position.X)
	}
}

// TestUpdatePhysicsExpiresWeaponLifespan covers spec.md section 4.3's
// lifespan expiry: non-boat entities whose ticks exceed lifespan are
// enqueued for removal.
func TestUpdatePhysicsExpiresWeaponLifespan(t *testing.T) {
	e := &Entity{
		EntityID:   7,
		EntityType: EntityTypeShell,
		Ticks:      EntityTypeShell.Data().Lifespan,
	}
	var mutations MutationQueue
	dt := units.TicksPerSecond / 10

	UpdatePhysics(e, dt, 10000, flatTerrain{}, &mutations)

	groups := mutations.Grouped()
	if len(groups) != 1 || groups[0][0].Kind != MutationRemove {
		t.Fatalf("expected one Remove mutation for expired shell, got %+v", groups)
	}
}

// TestTurnRateBoatFormula covers spec.md section 4.3's boat turn rate:
// 0.125 + 20/length.
func TestTurnRateBoatFormula(t *testing.T) {
	e := &Entity{EntityType: EntityTypeFairmileD}
	want := float32(0.125) + 20/e.Data().Length
	if got := turnRate(e); got != want {
		t.Fatalf("turnRate(boat) = %v, want %v", got, want)
	}
}
