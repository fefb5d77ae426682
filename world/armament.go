// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import "github.com/flotwake/server/units"

// FireArmament implements spec.md section 4.8's Fire command: validates
// slot and reload state, spawns the fired entity (a weapon, aircraft, or
// decoy) aimed at target, and resets the slot's reload timer. Reports
// whether a shot was actually fired.
//
// Synchronous rather than deferred through MutationQueue, since a Fire
// command is processed between ticks the same way the teacher's
// server/inbound.go Fire.Inbound mutates h.world directly.
func (w *World) FireArmament(shooterID EntityID, slot int, target units.Vec2f) bool {
	fired := false
	w.entities.Get(shooterID, func(e *Entity) bool {
		if e.Extension == nil || e.Owner == nil {
			return false
		}
		data := e.Data()
		if slot < 0 || slot >= len(data.Armaments) {
			return false
		}
		if e.Extension.Reloads[slot] != 0 {
			return false
		}

		arm := data.Armaments[slot]
		transform := e.ArmamentTransform(slot)
		armamentData := arm.Default.Data()

		guidance := units.Guidance{
			DirectionTarget: target.Sub(transform.Position).Angle(),
			VelocityTarget:  armamentData.Speed,
		}

		spawned := Entity{
			EntityType: arm.Default,
			Transform:  transform,
			Guidance:   guidance,
			Owner:      e.Owner,
		}
		if armamentData.Kind == EntityKindBoat {
			spawned.Extension = NewBoatExtension(arm.Default)
		}
		w.spawnEntity(spawned, 0)

		e.Extension.Reloads[slot] = data.Reload
		fired = true
		return false
	})
	return fired
}

// UpgradeEntity implements spec.md section 4.8's Upgrade command: "performed
// in place: arena.change_type, new extension constructed". Reports whether
// the upgrade was applied (caller must have already checked
// EntityType.UpgradesTo). Synchronous for the same reason as FireArmament:
// an Upgrade command is processed between ticks against the live World,
// not deferred through MutationQueue.
func (w *World) UpgradeEntity(entityID EntityID, newType EntityType) bool {
	upgraded := false
	w.entities.Get(entityID, func(e *Entity) bool {
		oldType := e.EntityType
		if e.Extension != nil {
			e.Extension.Upgrade(oldType, newType)
		}
		w.Arena.ChangeType(oldType, newType)
		e.EntityType = newType
		upgraded = true
		return false
	})
	return upgraded
}

// AimTurrets implements spec.md section 4.8's AimTurrets/turret-hint
// behavior: points every turret slot at target without touching Guidance,
// grounded on the teacher's server/inbound.go AimTurrets.Inbound.
func (w *World) AimTurrets(entityID EntityID, target units.Vec2f) {
	w.entities.Get(entityID, func(e *Entity) bool {
		if e.Extension == nil {
			return false
		}
		data := e.Data()
		for i := range e.Extension.TurretAngles {
			turretWorld := e.Transform.Add(units.Transform{
				Position: units.Vec2f{X: data.Turrets[i].PositionForward, Y: data.Turrets[i].PositionSide},
			})
			e.Extension.TurretAngles[i] = target.Sub(turretWorld.Position).Angle() - e.Direction
		}
		return false
	})
}
