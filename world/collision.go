// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import "github.com/flotwake/server/units"

// Collider is anything entities can collide with but that can't itself be
// collided back, such as terrain (spec.md section 4.4).
type Collider interface {
	Collides(pos units.Vec2f, sweepRadius float32) bool
}

// altitudeOverlaps reports whether a and b are close enough in altitude to
// collide. Depth charges/mines/torpedoes always reach a boat at or below the
// surface; boat-vs-weapon pairs and any pair involving a submarine use
// SpecialOverlapMargin (spec.md section 4.4's "SpecialOverlapMargin ... e.g.
// battleships vs. deep subs"), all others OverlapMargin. Grounded on
// teacher's world/collision.go Entity.AltitudeOverlap.
func altitudeOverlaps(a, b *Entity) bool {
	var boat, weapon *Entity
	if a.Data().Kind == EntityKindBoat {
		boat = a
	} else if b.Data().Kind == EntityKindBoat {
		boat = b
	}
	if a.Data().Kind == EntityKindWeapon {
		weapon = a
	} else if b.Data().Kind == EntityKindWeapon {
		weapon = b
	}

	if boat != nil && weapon != nil && boat.Altitude <= 0 {
		switch weapon.Data().SubKind {
		case EntitySubKindDepthCharge, EntitySubKindTorpedo, EntitySubKindMine:
			return true
		}
	}

	margin := float32(units.OverlapMargin)
	if (boat != nil && weapon != nil) || (a.Data().SubKind == EntitySubKindSubmarine || b.Data().SubKind == EntitySubKindSubmarine) {
		margin = units.SpecialOverlapMargin
	}
	return a.Altitude.Overlaps(b.Altitude, margin)
}

// radiusPrePass is the broad-phase sphere-sweep test of spec.md section
// 4.4: |pa-pb|^2 <= (ra+rb+|va|*dt+|vb|*dt)^2.
func radiusPrePass(a, b *Entity, dt float32) bool {
	ra := a.Data().Radius()
	rb := b.Data().Radius()
	sweepA := dt * a.Velocity.Float()
	sweepB := dt * b.Velocity.Float()
	if sweepA < 0 {
		sweepA = -sweepA
	}
	if sweepB < 0 {
		sweepB = -sweepB
	}
	r := ra + rb + sweepA + sweepB
	return a.Position.DistanceSquared(b.Position) <= r*r
}

// Collides runs the full two-phase broad+narrow collision test between a
// and b over dt seconds, grounded on teacher's world/collision.go
// Entity.Collides (rectangle SAT with sweep-expanded dimensions), gated by
// the altitude-band test spec.md adds in section 4.4.
func Collides(a, b *Entity, dt float32) bool {
	if !radiusPrePass(a, b, dt) {
		return false
	}
	if !altitudeOverlaps(a, b) {
		return false
	}

	dataA, dataB := a.Data(), b.Data()
	if dataA.SubKind == EntitySubKindSAM || dataB.SubKind == EntitySubKindSAM {
		return true // blast-fragmentation warhead: radius pre-pass alone suffices
	}

	sweepA := dt * a.Velocity.Float()
	sweepB := dt * b.Velocity.Float()

	dimA := units.Vec2f{X: dataA.Length + sweepA, Y: dataA.Width}
	dimB := units.Vec2f{X: dataB.Length + sweepB, Y: dataB.Width}

	normalA := a.Direction.Vec2f()
	normalB := b.Direction.Vec2f()

	return satCollision(a.Position.AddScaled(normalA, sweepA*0.5), b.Position, normalA, normalB, dimA, dimB) &&
		satCollision(b.Position.AddScaled(normalB, sweepB*0.5), a.Position, normalB, normalA, dimB, dimA)
}

// resolveCollision enqueues the Mutations for one colliding pair per the
// outcome table in spec.md section 4.4. a.EntityID < b.EntityID always
// holds (enforced by the caller's pair ordering).
func resolveCollision(a, b *Entity, mutations *MutationQueue) {
	da, db := a.Data(), b.Data()

	switch {
	case da.Kind == EntityKindBoat && db.Kind == EntityKindCollectible:
		collectBoatCollectible(a, b, mutations)
	case db.Kind == EntityKindBoat && da.Kind == EntityKindCollectible:
		collectBoatCollectible(b, a, mutations)

	case da.Kind == EntityKindBoat && isHostileProjectile(a, b):
		boatHitByProjectile(a, b, mutations)
	case db.Kind == EntityKindBoat && isHostileProjectile(b, a):
		boatHitByProjectile(b, a, mutations)

	case da.Kind == EntityKindBoat && db.Kind == EntityKindBoat:
		boatRam(a, b, mutations)

	case da.Kind == EntityKindWeapon && db.Kind == EntityKindWeapon:
		weaponWeapon(a, b, mutations)

	case da.Kind == EntityKindAircraft && db.Kind == EntityKindBoat:
		aircraftLanding(a, b, mutations)
	case db.Kind == EntityKindAircraft && da.Kind == EntityKindBoat:
		aircraftLanding(b, a, mutations)
	}
}

// isHostileProjectile reports whether attacker (a weapon or aircraft) is
// not friendly to target, making their collision damaging rather than a
// landing.
func isHostileProjectile(target, attacker *Entity) bool {
	if attacker.Data().Kind != EntityKindWeapon && attacker.Data().Kind != EntityKindAircraft {
		return false
	}
	return !friendly(target, attacker)
}

func friendly(a, b *Entity) bool {
	return a.Owner.Friendly(b.Owner)
}

func collectBoatCollectible(boat, collectible *Entity, mutations *MutationQueue) {
	mutations.Score(boat.EntityID, float32(LevelToScore(2))/4)
	mutations.Remove(collectible.EntityID, DeathByUnknown())
}

// boatHitByProjectile implements the "Boat x Weapon/Aircraft (enemy)" row:
// damage by weapon damage, remove the projectile, attribute a Weapon death
// if lethal.
func boatHitByProjectile(boat, projectile *Entity, mutations *MutationQueue) {
	amount := projectile.Data().Damage
	mutations.Push(Mutation{Target: boat.EntityID, Kind: MutationDamage, Amount: amount})

	attackerName := ""
	if projectile.Owner != nil {
		attackerName = projectile.Owner.Name
	}
	if boat.DamagePercent()+amount/boat.Data().MaxHealth() >= 1 {
		mutations.Remove(boat.EntityID, DeathByWeapon(attackerName, projectile.EntityType))
	}
	mutations.Remove(projectile.EntityID, DeathByUnknown())
}

// boatRam implements the "Boat x Boat (enemy)" row: mutual ram damage
// proportional to closing velocity.
func boatRam(a, b *Entity, mutations *MutationQueue) {
	if friendly(a, b) {
		return
	}
	closing := (a.Velocity - b.Velocity).Float()
	if closing < 0 {
		closing = -closing
	}
	amount := clamp(closing*2, 5, 200)

	applyRam := func(target, attacker *Entity) {
		mutations.Push(Mutation{Target: target.EntityID, Kind: MutationDamage, Amount: amount})
		if target.DamagePercent()+amount/target.Data().MaxHealth() >= 1 {
			name := ""
			if attacker.Owner != nil {
				name = attacker.Owner.Name
			}
			mutations.Remove(target.EntityID, DeathByRam(name))
		}
	}
	applyRam(a, b)
	applyRam(b, a)
}

// weaponWeapon implements the "Weapon x Weapon" row: mutual removal when
// the pair is hostile (not on the same team).
func weaponWeapon(a, b *Entity, mutations *MutationQueue) {
	if friendly(a, b) {
		return
	}
	mutations.Remove(a.EntityID, DeathByUnknown())
	mutations.Remove(b.EntityID, DeathByUnknown())
}

// aircraftLanding implements the "Aircraft x landing pad" row: a friendly
// aircraft returning to any of its own boat's armament slots reloads that
// slot and is removed with DeathReasonLanding rather than damaging anyone.
func aircraftLanding(aircraft, boat *Entity, mutations *MutationQueue) {
	if aircraft.Owner != boat.Owner {
		boatHitByProjectileIfHostile(aircraft, boat, mutations)
		return
	}
	slot := -1
	for i, arm := range boat.Data().Armaments {
		if arm.Default == aircraft.EntityType {
			slot = i
			break
		}
	}
	if slot < 0 {
		return
	}
	mutations.Push(Mutation{Target: boat.EntityID, Kind: MutationReload, Slot: slot})
	mutations.Remove(aircraft.EntityID, DeathByLanding(slot))
}

func boatHitByProjectileIfHostile(aircraft, boat *Entity, mutations *MutationQueue) {
	if isHostileProjectile(boat, aircraft) {
		boatHitByProjectile(boat, aircraft, mutations)
	}
}

// satCollision is the rectangle-to-rectangle separating axis theorem test,
// ported verbatim (renamed symbols aside) from teacher's
// world/collision.go satCollision.
func satCollision(position, otherPosition, axisNormal, otherAxisNormal, dimensions, otherDimensions units.Vec2f) bool {
	otherDimensions = otherDimensions.Mul(0.5)
	dimensions = dimensions.Mul(0.5)
	otherAxisTangent := otherAxisNormal.Rot90()

	otherScaledNormal := otherAxisNormal.Mul(otherDimensions.X)
	otherScaledTangent := otherAxisTangent.Mul(otherDimensions.Y)

	otherPosition1 := otherPosition.Add(otherScaledNormal)
	otherPosition2 := otherPosition1.Sub(otherScaledTangent)
	otherPosition1 = otherPosition1.Add(otherScaledTangent)

	otherPosition3 := otherPosition.Sub(otherScaledNormal)
	otherPosition4 := otherPosition3.Add(otherScaledTangent)
	otherPosition3 = otherPosition3.Sub(otherScaledTangent)

	axis := axisNormal
	for f := 0; f < 4; f++ {
		dimension := dimensions.X
		if f&1 == 1 {
			dimension = dimensions.Y
		}

		dot := position.Dot(axis)
		minimum := dot - dimension
		maximum := dot + dimension

		d := otherPosition1.Dot(axis)
		otherMin, otherMax := d, d

		d = otherPosition2.Dot(axis)
		otherMin, otherMax = minF(otherMin, d), maxF(otherMax, d)

		d = otherPosition3.Dot(axis)
		otherMin, otherMax = minF(otherMin, d), maxF(otherMax, d)

		d = otherPosition4.Dot(axis)
		otherMin, otherMax = minF(otherMin, d), maxF(otherMax, d)

		if minimum > otherMax || otherMin > maximum {
			return false
		}

		axis = axis.Rot90()
	}

	return true
}
