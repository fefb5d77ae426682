// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import "github.com/flotwake/server/units"

// RadiusClearance is how far past world.radius an entity may drift before
// being instantly destroyed by the border, grounded on teacher's
// world/world.go RadiusClearance constant.
const RadiusClearance = 1.1

// turnRate returns the entity's steering rate in radians/second, per the
// exact per-kind formulas spec.md section 4.3 specifies (a deliberate
// generalization away from the teacher's close-but-not-identical single
// formula in world/entity.go Entity.Update).
func turnRate(e *Entity) float32 {
	data := e.Data()
	maxSpeed := data.Speed.Float()
	speedFraction := e.Velocity.Float() / (maxSpeed + 1)
	if speedFraction < 0 {
		speedFraction = -speedFraction
	}

	switch data.Kind {
	case EntityKindBoat:
		return 0.125 + 20/maxF(data.Length, 1)
	case EntityKindAircraft:
		return maxF(2*(1-speedFraction), 0.5)
	default:
		return maxF(1-speedFraction, 0.3)
	}
}

// UpdatePhysics integrates one tick of kinematics for entity, enqueuing a
// Remove mutation on lifespan expiry, terrain collision, or border death.
// Grounded on the teacher's world/entity.go Entity.Update, restructured
// into the discrete steps spec.md section 4.3 lists and generalized to
// this module's units.Altitude/saturating-Tick types.
func UpdatePhysics(e *Entity, dt units.Tick, worldRadius float32, terrain Collider, mutations *MutationQueue) {
	data := e.Data()
	seconds := dt.Float()

	// Lifespan expiry (weapons, aircraft, decoys); boats track damage in
	// Ticks instead and never expire this way.
	if data.Kind != EntityKindBoat {
		e.Ticks = e.Ticks.Add(dt)
		if data.Lifespan != 0 && e.Ticks > data.Lifespan {
			mutations.Remove(e.EntityID, DeathByUnknown())
			return
		}
	}

	maxSpeed := data.Speed

	// Steer towards DirectionTarget at the per-kind turn rate.
	deltaAngle := e.DirectionTarget.Diff(e.Direction)
	rate := turnRate(e)
	// Torpedoes making a >80 degree course correction cap speed to 1/3
	// until they've mostly completed the turn.
	if data.SubKind == EntitySubKindTorpedo && deltaAngle.Abs() > (80*3.14159/180) {
		maxSpeed = units.ToVelocity(maxSpeed.Float() / 3)
	}
	e.Direction += deltaAngle.ClampMagnitude(units.ToAngle(seconds * rate))

	// Accelerate towards VelocityTarget within max_accel.
	maxAccel := clamp(maxSpeed.Float()/3, 15, 500)
	if data.SubKind == EntitySubKindHeli && e.VelocityTarget.Float() < e.Velocity.Float() {
		maxAccel *= 5 // helis decelerate fast
	}
	targetVelocity := e.VelocityTarget.ClampMagnitude(maxSpeed)
	deltaVelocity := units.Velocity(targetVelocity - e.Velocity)
	deltaVelocity = deltaVelocity.ClampMagnitude(units.ToVelocity(seconds * maxAccel))
	e.Velocity += units.ToVelocity(seconds * deltaVelocity.Float())

	e.Position = e.Position.AddScaled(e.Direction.Vec2f(), seconds*e.Velocity.Float())

	// Terrain collision (land above sea level).
	if terrain != nil && terrain.Collides(e.Position, seconds*e.Velocity.Float()) {
		if data.Kind != EntityKindBoat {
			mutations.Remove(e.EntityID, DeathByUnknown())
			return
		}
		e.Velocity = e.Velocity.ClampMagnitude(5 * units.MeterPerSecond)
		if data.SubKind != EntitySubKindDredger && data.SubKind != EntitySubKindHovercraft {
			// Tagged with DeathByTerrain so that, on whichever tick this
			// accumulated damage actually crosses max health, drainMutations
			// attributes the kill to terrain instead of falling back to
			// DeathByUnknown (spec.md section 4.4's Boat x Terrain outcome).
			mutations.DamageWithCause(e.EntityID, e.Data().MaxHealth()*0.25*seconds, DeathByTerrain())
		}
	}

	// Border: soft restoring force, lethal past RadiusClearance.
	centerDist2 := e.Position.LengthSquared()
	if worldRadius > 0 && centerDist2 > worldRadius*worldRadius {
		// Tagged with DeathByBorder for the same reason as the terrain case
		// above: this damage alone can be what kills the boat, with no
		// explicit Remove mutation enqueued this tick.
		mutations.DamageWithCause(e.EntityID, seconds*e.Data().MaxHealth(), DeathByBorder())
		inward := e.Velocity.Float() - 6*e.Position.Dot(e.Direction.Vec2f())
		e.Velocity = units.ToVelocity(clampMagnitudeF(inward, 15))
		if data.Kind != EntityKindBoat || centerDist2 > worldRadius*worldRadius*RadiusClearance*RadiusClearance {
			mutations.Remove(e.EntityID, DeathByBorder())
			return
		}
	}

	if data.Kind == EntityKindBoat && e.Extension != nil {
		updateBoatExtension(e, dt, seconds)
	}
}

// updateBoatExtension ticks reload timers, altitude, active-sensor
// cooldown, spawn protection, and passive repair for a boat.
func updateBoatExtension(e *Entity, dt units.Tick, seconds float32) {
	ext := e.Extension
	for i := range ext.Reloads {
		ext.Reloads[i] = ext.Reloads[i].Sub(dt)
	}
	if ext.ActiveCooldown > 0 {
		ext.ActiveCooldown = ext.ActiveCooldown.Sub(dt)
	}
	if ext.SpawnProtection > 0 {
		ext.SpawnProtection = ext.SpawnProtection.Sub(dt)
	}

	altitudeRate := float32(10) // meters/second
	if e.Data().SubKind == EntitySubKindSubmarine {
		altitudeRate = 5
	}
	e.Altitude = e.Altitude.Lerp(ext.AltitudeTarget, altitudeRate*seconds)

	if e.DamagePercent() > 0 {
		repair := seconds * (1.0 / 60.0) * e.Data().MaxHealth()
		if e.Altitude < 0 {
			repair *= 0.5
		}
		e.Repair(repair)
	}
}

func clampMagnitudeF(v, max float32) float32 {
	if v > max {
		return max
	}
	if v < -max {
		return -max
	}
	return v
}
