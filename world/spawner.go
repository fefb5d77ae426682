// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"math"
	"math/rand"

	"github.com/flotwake/server/units"
)

const (
	// barrelRadius is the radius around an oil platform that barrels are
	// counted, grounded on teacher's spawn.go barrelRadius.
	barrelRadius = 125
	// platformBarrelCount is the max number of barrels around one platform.
	platformBarrelCount = 12
	// platformBarrelSpawnProb is the per-tick probability an eligible
	// platform spawns one more barrel.
	platformBarrelSpawnProb = 0.02

	placementAttempts = 8
)

// CrateCountOf and ObstacleCountOf give target counts proportional to
// player count, the shape spec.md section 4.6.1 calls for ("proportional
// to world.area()"), grounded on teacher's world/world.go CrateCountOf/
// ObstacleCountOf but expressed against player count, which is what the
// teacher's own radius formula scales world area from.
func CrateCountOf(players int) int {
	return 20 + players*3
}

func ObstacleCountOf(players int) int {
	return 10 + players
}

// spawnStatics implements spec.md section 4.6.1: obstacle/collectible
// target-count maintenance with terrain/overlap-rejecting placement,
// bounded to placementAttempts tries per entity so a crowded world never
// stalls a tick.
func (w *World) spawnStatics(playerCount int) {
	var crateCount, obstacleCount, barrelSpawners int
	var platformPositions []units.Vec2f

	w.entities.ForEach(func(e *Entity) {
		switch e.Data().Kind {
		case EntityKindCollectible:
			if e.EntityType == EntityTypeBarrel {
				return
			}
			crateCount++
		case EntityKindObstacle:
			if e.EntityType != EntityTypeOilPlatform {
				return
			}
			barrelSpawners++
			count := 0
			w.entities.ForEachNear(e.Position, barrelRadius, func(other *Entity) {
				if other.EntityType == EntityTypeBarrel {
					count++
				}
			})
			if count < platformBarrelCount && rand.Float64() < platformBarrelSpawnProb {
				platformPositions = append(platformPositions, e.Position)
			}
		}
	})

	for _, pos := range platformPositions {
		w.spawnEntity(Entity{
			EntityType: EntityTypeBarrel,
			Transform: units.Transform{
				Position:  pos,
				Direction: units.ToAngle(rand.Float32() * 2 * math.Pi),
				Velocity:  units.ToVelocity(rand.Float32()*10 + 10),
			},
		}, barrelRadius*0.9)
	}

	for i := crateCount; i < CrateCountOf(playerCount); i++ {
		w.spawnEntity(Entity{EntityType: EntityTypeCrate}, w.Radius)
	}
	for i := obstacleCount + barrelSpawners; i < ObstacleCountOf(playerCount); i++ {
		w.spawnEntity(Entity{EntityType: EntityTypeOilPlatform}, w.Radius)
	}
}

// spawnEntity assigns entity a fresh ID and places it, searching for a free
// position within initialRadius of its current (usually zero) position if
// initialRadius > 0. Bounded to placementAttempts retries, per spec.md
// section 4.6.1's "sample <= N candidates ... else skip this tick".
// Grounded on teacher's spawn.go spawnEntity/nearAny.
func (w *World) spawnEntity(entity Entity, initialRadius float32) EntityID {
	if initialRadius > 0 {
		center := entity.Position
		radius := maxF(initialRadius, 1)
		threshold := float32(5)

		found := false
		for attempt := 0; attempt < placementAttempts; attempt++ {
			angle := units.ToAngle(rand.Float32() * 2 * math.Pi)
			entity.Position = center.Add(angle.Vec2f().Mul(float32(math.Sqrt(float64(rand.Float32()))) * radius))
			entity.Direction = units.ToAngle(rand.Float32() * 2 * math.Pi)
			entity.DirectionTarget = entity.Direction

			if !w.nearAny(&entity, threshold) && !w.terrain.Collides(entity.Position, 0) {
				found = true
				break
			}
			radius = minF(radius*1.1, w.Radius)
			threshold = 0.25 + threshold*0.75
		}
		if !found {
			return EntityIDInvalid
		}
	}

	if entity.Position.LengthSquared() > w.Radius*w.Radius {
		return EntityIDInvalid
	}

	id := w.Arena.Allocate(entity.EntityType)
	entity.EntityID = id
	w.entities.Add(entity)
	return id
}

// nearAny reports whether any entity (or terrain) lies within threshold of
// entity's radius-scaled clearance, grounded on teacher's spawn.go nearAny.
func (w *World) nearAny(entity *Entity, threshold float32) bool {
	radius := entity.Data().Radius()
	maxReach := (radius + entityRadiusMax()) * threshold

	collides := false
	w.entities.ForEachNear(entity.Position, maxReach, func(other *Entity) {
		if collides {
			return
		}
		t := (radius + other.Data().Radius()) * threshold
		if entity.Position.Distance(other.Position) < t {
			collides = true
		}
	})
	return collides
}

func entityRadiusMax() float32 {
	max := float32(0)
	for _, d := range entityTypeData {
		if r := d.Radius(); r > max {
			max = r
		}
	}
	return max
}

// SpawnPlayer implements spec.md section 4.6.2: validates the player is
// eligible to spawn, searches for a position clear of terrain and of boats
// (see findSpawnPosition), allocates the boat entity with a fresh BoatExtension, and
// transitions the player to Alive.
func (w *World) SpawnPlayer(p *Player, entityType EntityType) bool {
	if p.Status == PlayerStatusAlive {
		return false
	}
	data, ok := entityTypeData[entityType]
	if !ok || data.Kind != EntityKindBoat {
		return false
	}

	pos, ok := w.findSpawnPosition(data)
	if !ok {
		return false
	}

	entity := Entity{
		EntityType: entityType,
		Transform:  units.Transform{Position: pos, Direction: units.ToAngle(rand.Float32() * 2 * math.Pi)},
		Owner:      p,
		Extension:  NewBoatExtension(entityType),
	}
	id := w.Arena.Allocate(entityType)
	entity.EntityID = id
	w.entities.Add(entity)
	p.Spawn(id)
	return true
}

// findSpawnPosition picks a uniform random point within radius*0.9 of the
// world center, rejected if it overlaps terrain or if ForEachNear reports
// any boat, friendly or not, within three times the spawning type's length
// of it. Obstacle entities are not checked. Retries are bounded, and the
// search radius grows by 20% (capped at the world radius) after every
// placementAttempts rejected candidates.
func (w *World) findSpawnPosition(data *EntityTypeData) (units.Vec2f, bool) {
	searchRadius := w.Radius * 0.9
	margin := data.Length * 3

	for attempt := 0; attempt < placementAttempts*2; attempt++ {
		angle := units.ToAngle(rand.Float32() * 2 * math.Pi)
		pos := angle.Vec2f().Mul(float32(math.Sqrt(float64(rand.Float32()))) * searchRadius)

		if w.terrain.Collides(pos, 0) {
			continue
		}

		blocked := false
		w.entities.ForEachNear(pos, margin, func(other *Entity) {
			if blocked || other.Data().Kind != EntityKindBoat {
				return
			}
			blocked = true
		})
		if !blocked {
			return pos, true
		}

		if attempt%placementAttempts == placementAttempts-1 {
			searchRadius = minF(searchRadius*1.2, w.Radius)
		}
	}
	return units.Vec2f{}, false
}
