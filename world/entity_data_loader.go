// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import "github.com/flotwake/server/units"

// Named EntityType constants, one representative type per EntityKind and
// EntitySubKind the spec names, except EntityKindTurret, which has none. The teacher loads its (much larger) table
// from an embedded entities.json asset file; that embedded-asset pipeline
// is explicitly out of scope here ("embedded static assets", spec.md
// section 1), so the table is built directly in Go, in the same
// init()-populates-a-package-level-table idiom the teacher uses once its
// JSON has been unmarshaled.
const (
	EntityTypeInvalid2 EntityType = iota // placeholder, never registered; EntityTypeInvalid is 0
	EntityTypeFairmileD
	EntityTypeTorpedoBoat
	EntityTypeSubmarineS
	EntityTypeDredgerBoat
	EntityTypeIcebreakerBoat
	EntityTypeHovercraftBoat

	EntityTypeShell
	EntityTypeRocket
	EntityTypeMissile
	EntityTypeSAM
	EntityTypeTorpedo
	EntityTypeMine
	EntityTypeDepthCharge

	EntityTypeHeli
	EntityTypePlane

	EntityTypeSmokeDecoy

	EntityTypeCrate
	EntityTypeBarrel

	EntityTypeRock
	EntityTypeOilPlatform
	EntityTypeTree
)

func init() {
	RegisterEntityType(EntityTypeFairmileD, &EntityTypeData{
		Kind: EntityKindBoat, SubKind: EntitySubKindSurface, Level: 1,
		Label: "Fairmile D", Length: 35, Width: 6.5, Damage: 50,
		Speed:   units.ToVelocity(16),
		Stealth: 0.1,
		Sensors: []Sensor{{Type: SensorTypeVisual, Range: 500}, {Type: SensorTypeRadar, Range: 1000}},
		Armaments: []Armament{
			{Default: EntityTypeShell, PositionForward: 10, PositionSide: 0},
			{Default: EntityTypeDepthCharge, PositionForward: -10, PositionSide: 0},
		},
	})

	RegisterEntityType(EntityTypeTorpedoBoat, &EntityTypeData{
		Kind: EntityKindBoat, SubKind: EntitySubKindSurface, Level: 2,
		Label: "Motor Torpedo Boat", Length: 25, Width: 5, Damage: 35,
		Speed:   units.ToVelocity(20),
		Stealth: 0.15,
		Sensors: []Sensor{{Type: SensorTypeVisual, Range: 450}},
		Armaments: []Armament{
			{Default: EntityTypeTorpedo, PositionForward: 5, PositionSide: -2},
			{Default: EntityTypeTorpedo, PositionForward: 5, PositionSide: 2},
		},
	})

	turretIdx := 0
	RegisterEntityType(EntityTypeSubmarineS, &EntityTypeData{
		Kind: EntityKindBoat, SubKind: EntitySubKindSubmarine, Level: 2,
		Label: "S-Class Submarine", Length: 60, Width: 7, Damage: 60,
		Speed:   units.ToVelocity(12),
		Stealth: 0.5,
		Sensors: []Sensor{{Type: SensorTypeSonar, Range: 800}, {Type: SensorTypeVisual, Range: 200}},
		Armaments: []Armament{
			{Default: EntityTypeTorpedo, PositionForward: 20, PositionSide: 0, Turret: &turretIdx},
			{Default: EntityTypeMine, PositionForward: -20, PositionSide: 0},
		},
		Turrets: []Turret{{PositionForward: 20, PositionSide: 0}},
	})

	RegisterEntityType(EntityTypeDredgerBoat, &EntityTypeData{
		Kind: EntityKindBoat, SubKind: EntitySubKindDredger, Level: 1,
		Label: "Dredger", Length: 40, Width: 10, Damage: 70,
		Speed:     units.ToVelocity(6),
		NonArctic: true,
	})

	RegisterEntityType(EntityTypeIcebreakerBoat, &EntityTypeData{
		Kind: EntityKindBoat, SubKind: EntitySubKindIcebreaker, Level: 2,
		Label: "Icebreaker", Length: 80, Width: 18, Damage: 120,
		Speed:      units.ToVelocity(10),
		ArcticOnly: true,
	})

	RegisterEntityType(EntityTypeHovercraftBoat, &EntityTypeData{
		Kind: EntityKindBoat, SubKind: EntitySubKindHovercraft, Level: 1,
		Label: "Hovercraft", Length: 18, Width: 7, Damage: 25,
		Speed: units.ToVelocity(25),
	})

	RegisterEntityType(EntityTypeShell, &EntityTypeData{
		Kind: EntityKindWeapon, SubKind: EntitySubKindShell,
		Label: "Shell", Length: 1.2, Width: 0.2, Damage: 18,
		Speed: units.ToVelocity(120), Lifespan: units.ToTicks(4),
	})
	RegisterEntityType(EntityTypeRocket, &EntityTypeData{
		Kind: EntityKindWeapon, SubKind: EntitySubKindRocket,
		Label: "Rocket", Length: 2, Width: 0.3, Damage: 22,
		Speed: units.ToVelocity(90), Lifespan: units.ToTicks(6),
	})
	RegisterEntityType(EntityTypeMissile, &EntityTypeData{
		Kind: EntityKindWeapon, SubKind: EntitySubKindMissile,
		Label: "Missile", Length: 4, Width: 0.4, Damage: 40,
		Speed: units.ToVelocity(70), Lifespan: units.ToTicks(12), Reload: units.ToTicks(8),
	})
	RegisterEntityType(EntityTypeSAM, &EntityTypeData{
		Kind: EntityKindWeapon, SubKind: EntitySubKindSAM,
		Label: "SAM", Length: 3, Width: 0.3, Damage: 45,
		Speed: units.ToVelocity(100), Lifespan: units.ToTicks(10), Reload: units.ToTicks(10),
	})
	RegisterEntityType(EntityTypeTorpedo, &EntityTypeData{
		Kind: EntityKindWeapon, SubKind: EntitySubKindTorpedo,
		Label: "Torpedo", Length: 6, Width: 0.5, Damage: 60,
		Speed: units.ToVelocity(25), Lifespan: units.ToTicks(20), Reload: units.ToTicks(15),
	})
	RegisterEntityType(EntityTypeMine, &EntityTypeData{
		Kind: EntityKindWeapon, SubKind: EntitySubKindMine,
		Label: "Mine", Length: 1, Width: 1, Damage: 50,
		Speed: 0, Lifespan: units.ToTicks(60), Reload: units.ToTicks(20),
	})
	RegisterEntityType(EntityTypeDepthCharge, &EntityTypeData{
		Kind: EntityKindWeapon, SubKind: EntitySubKindDepthCharge,
		Label: "Depth Charge", Length: 0.8, Width: 0.8, Damage: 45,
		Speed: units.ToVelocity(8), Lifespan: units.ToTicks(8), Reload: units.ToTicks(6),
	})

	RegisterEntityType(EntityTypeHeli, &EntityTypeData{
		Kind: EntityKindAircraft, SubKind: EntitySubKindHeli,
		Label: "Helicopter", Length: 12, Width: 3, Damage: 20,
		Speed: units.ToVelocity(45), Lifespan: units.ToTicks(40), Reload: units.ToTicks(30),
	})
	RegisterEntityType(EntityTypePlane, &EntityTypeData{
		Kind: EntityKindAircraft, SubKind: EntitySubKindPlane,
		Label: "Seaplane", Length: 10, Width: 11, Damage: 15,
		Speed: units.ToVelocity(80), Lifespan: units.ToTicks(35), Reload: units.ToTicks(30),
	})

	RegisterEntityType(EntityTypeSmokeDecoy, &EntityTypeData{
		Kind: EntityKindDecoy, Label: "Smoke Buoy", Length: 1, Width: 1,
		Lifespan: units.ToTicks(15),
	})

	RegisterEntityType(EntityTypeCrate, &EntityTypeData{
		Kind: EntityKindCollectible, SubKind: EntitySubKindCrate,
		Label: "Crate", Length: 3, Width: 3,
	})
	RegisterEntityType(EntityTypeBarrel, &EntityTypeData{
		Kind: EntityKindCollectible, SubKind: EntitySubKindBarrel,
		Label: "Barrel", Length: 1.5, Width: 1.5,
	})

	RegisterEntityType(EntityTypeRock, &EntityTypeData{
		Kind: EntityKindObstacle, SubKind: EntitySubKindRock,
		Label: "Rock", Length: 15, Width: 15,
	})
	RegisterEntityType(EntityTypeOilPlatform, &EntityTypeData{
		Kind: EntityKindObstacle, SubKind: EntitySubKindOilPlatform,
		Label: "Oil Platform", Length: 30, Width: 30, MastHeight: 40,
	})
	RegisterEntityType(EntityTypeTree, &EntityTypeData{
		Kind: EntityKindObstacle, SubKind: EntitySubKindTree,
		Label: "Tree", Length: 4, Width: 4, NonArctic: true,
	})

	BoatEntityTypesByLevel = map[uint8][]EntityType{}
	for t, d := range entityTypeData {
		if d.Kind == EntityKindBoat {
			BoatEntityTypesByLevel[d.Level] = append(BoatEntityTypesByLevel[d.Level], t)
		}
	}
}

// BoatEntityTypesByLevel indexes spawnable boat types by level, mirroring
// the teacher's BoatEntityTypesByLevel.
var BoatEntityTypesByLevel map[uint8][]EntityType
