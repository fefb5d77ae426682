// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import "github.com/flotwake/server/units"

// Entity is an object in the world: a boat, weapon, aircraft, turret,
// decoy, collectible, or obstacle (spec.md section 3.2).
type Entity struct {
	EntityID   EntityID
	EntityType EntityType
	units.Transform
	units.Guidance
	Altitude units.Altitude

	// Ticks tracks damage (boats) or remaining lifespan (everything else),
	// per spec.md section 3.2.
	Ticks units.Tick

	Owner     *Player        // present for boats, and weapons/aircraft a player launched
	Extension *BoatExtension // non-nil only for boats
}

func (e *Entity) Data() *EntityTypeData { return e.EntityType.Data() }

func (e *Entity) mustBoat() {
	if e.Data().Kind != EntityKindBoat {
		panic("world: accessed boat extension of non-boat entity")
	}
}

// Damage applies d points of damage and reports whether the entity died.
// Non-boats die from any positive damage; boats accumulate Ticks-scaled
// damage against their max health.
func (e *Entity) Damage(d float32) bool {
	if e.Data().Kind != EntityKindBoat {
		return d > 0
	}
	total := e.DamagePercent()*e.Data().MaxHealth() + d
	e.Ticks = units.ToTicks(total)
	return total > e.Data().MaxHealth()
}

// Repair reduces accumulated boat damage by amount (meters-equivalent
// health units), never going below zero.
func (e *Entity) Repair(amount float32) {
	e.mustBoat()
	cur := e.Ticks.Float()
	if amount >= cur {
		e.Ticks = 0
	} else {
		e.Ticks = units.ToTicks(cur - amount)
	}
}

// DamagePercent returns a boat's accumulated damage as a [0,1] fraction of
// max health; non-boats report 0 (they don't accumulate damage, they
// expire on lifespan instead).
func (e *Entity) DamagePercent() float32 {
	if e.Data().Kind != EntityKindBoat {
		return 0
	}
	maxHealth := e.Data().MaxHealth()
	if maxHealth <= 0 {
		return 0
	}
	return e.Ticks.Float() / maxHealth
}

func (e *Entity) HealthPercent() float32 { return 1 - e.DamagePercent() }

// Hash returns a value in [0,1) derived from the entity's id, used to
// deterministically desynchronize per-entity behavior (e.g. aircraft
// approach angle, sensor flicker), grounded on teacher's
// world/entity.go Entity.Hash.
func (e *Entity) Hash() float32 {
	const hashSize = 64
	return float32(e.EntityID&(hashSize-1)) * (1.0 / hashSize)
}

// RecentSpawnFactor returns a [0,1] multiplier (0.25 at spawn, ramping to 1)
// applied to incoming damage while a level-1 boat's spawn protection is
// active, grounded on teacher's world/entity.go RecentSpawnFactor but keyed
// off the explicit BoatExtension.SpawnProtection countdown instead of
// elapsed lifespan.
func (e *Entity) RecentSpawnFactor() float32 {
	if e.Extension == nil || e.Data().Level > 1 {
		return 1
	}
	const initial float32 = 0.25
	const window float32 = 10 // seconds of protection, matches NewBoatExtension
	remaining := e.Extension.SpawnProtection.Float()
	if remaining <= 0 {
		return 1
	}
	return initial + (1-initial)*(1-remaining/window)
}

// Camera returns the entity's sensor reach: position plus the strongest
// visual/radar/sonar range among its sensors, attenuated by altitude. Below
// the surface, visual range shrinks linearly to half at half the maximum
// depth (and stays at half deeper down) and radar range shrinks linearly to
// zero at the deepest altitude; above the surface, sonar range is zero. No
// altitude increases any range. Grounded on teacher's world/entity.go
// Entity.Camera.
func (e *Entity) Camera() (pos units.Vec2f, visual, radar, sonar float32) {
	for _, s := range e.Data().Sensors {
		switch s.Type {
		case SensorTypeVisual:
			if s.Range > visual {
				visual = s.Range
			}
		case SensorTypeRadar:
			if s.Range > radar {
				radar = s.Range
			}
		case SensorTypeSonar:
			if s.Range > sonar {
				sonar = s.Range
			}
		}
	}
	pos = e.Position

	alt := e.Altitude.Normalized()
	visual *= clamp(alt+1, 0.5, 1)
	radar *= minF(alt, 0) + 1
	if alt > 0 {
		sonar = 0
	}
	return
}

// ArmamentTransform returns the world-space transform an armament fires
// from: its own offset, composed through its turret's transform (if
// mounted), composed through the owning entity's transform.
func (e *Entity) ArmamentTransform(index int) units.Transform {
	data := e.Data()
	arm := data.Armaments[index]
	local := units.Transform{
		Position:  units.Vec2f{X: arm.PositionForward, Y: arm.PositionSide},
		Direction: arm.Angle,
	}
	if weaponData := arm.Default.Data(); weaponData.SubKind == EntitySubKindShell {
		local.Velocity = weaponData.Speed
	}
	if arm.Turret != nil && e.Extension != nil {
		turretData := data.Turrets[*arm.Turret]
		turretTransform := units.Transform{
			Position:  units.Vec2f{X: turretData.PositionForward, Y: turretData.PositionSide},
			Direction: e.Extension.TurretAngles[*arm.Turret],
		}
		local = turretTransform.Add(local)
	}
	return e.Transform.Add(local)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
