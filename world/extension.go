// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import "github.com/flotwake/server/units"

// BoatExtension is the additional per-boat state spec.md section 3.2
// describes: per-armament reload timers, per-turret angles, altitude
// target, active-sensor flag/cooldown, and remaining spawn protection.
// Allocated only for boats.
//
// Grounded on the teacher's world/extension.go interface and its
// unsafeExtension/safeExtension copy-on-write implementations; this
// version drops the copy-on-write sharing scheme (a memory-layout
// optimization orthogonal to spec.md's semantics — every boat entity here
// owns its extension outright, matching spec.md section 5's "per-entity
// extension is owned by whoever holds a unique reference").
type BoatExtension struct {
	Reloads      []units.Tick // one per EntityTypeData.Armaments slot
	TurretAngles []units.Angle

	AltitudeTarget units.Altitude

	Active         bool
	ActiveCooldown units.Tick

	SpawnProtection units.Tick
}

// NewBoatExtension builds a fully-loaded extension for entityType:
// reloads start at zero (ready to fire), turret angles at their data
// defaults, and spawn protection set only for level-1 boats (spec.md
// section 4.6.2 step 3).
func NewBoatExtension(entityType EntityType) *BoatExtension {
	data := entityType.Data()
	ext := &BoatExtension{
		Reloads:      make([]units.Tick, len(data.Armaments)),
		TurretAngles: make([]units.Angle, len(data.Turrets)),
	}
	for i, t := range data.Turrets {
		ext.TurretAngles[i] = t.Angle
	}
	if data.Level == 1 {
		ext.SpawnProtection = units.ToTicks(10)
	}
	return ext
}

// Upgrade replaces ext's reload/turret-angle slices with ones sized for
// newType, preserving reload progress between armament slots that are
// Similar (same default type, same turret), per spec.md section 4.8's
// Upgrade: "reloads preserved where slots match by similarity".
func (ext *BoatExtension) Upgrade(oldType, newType EntityType) {
	oldArmaments := oldType.Data().Armaments
	newData := newType.Data()

	newReloads := make([]units.Tick, len(newData.Armaments))
	for i := range newReloads {
		newArm := &newData.Armaments[i]
		for j := range oldArmaments {
			if j < len(ext.Reloads) && newArm.Similar(&oldArmaments[j]) {
				newReloads[i] = ext.Reloads[j]
				break
			}
		}
	}
	ext.Reloads = newReloads

	newTurretAngles := make([]units.Angle, len(newData.Turrets))
	for i := range newTurretAngles {
		if i < len(ext.TurretAngles) {
			newTurretAngles[i] = ext.TurretAngles[i]
		} else {
			newTurretAngles[i] = newData.Turrets[i].Angle
		}
	}
	ext.TurretAngles = newTurretAngles
}
