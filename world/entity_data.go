// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"strconv"

	"github.com/flotwake/server/units"
)

// EntityKind is the broad category of an EntityType (spec.md section 3.2).
type EntityKind uint8

const (
	EntityKindBoat EntityKind = iota
	EntityKindWeapon
	EntityKindAircraft
	EntityKindTurret
	EntityKindDecoy
	EntityKindCollectible
	EntityKindObstacle
)

// EntitySubKind refines EntityKind.
type EntitySubKind uint8

const (
	EntitySubKindNone EntitySubKind = iota
	EntitySubKindShell
	EntitySubKindRocket
	EntitySubKindMissile
	EntitySubKindSAM
	EntitySubKindTorpedo
	EntitySubKindMine
	EntitySubKindDepthCharge
	EntitySubKindSubmarine
	EntitySubKindHeli
	EntitySubKindPlane
	EntitySubKindDredger
	EntitySubKindIcebreaker
	EntitySubKindHovercraft
	EntitySubKindSurface // ordinary surface boat
	EntitySubKindTree
	EntitySubKindCrate
	EntitySubKindBarrel
	EntitySubKindRock
	EntitySubKindOilPlatform
)

// SensorType is the kind of detection a Sensor provides.
type SensorType uint8

const (
	SensorTypeVisual SensorType = iota
	SensorTypeRadar
	SensorTypeSonar
)

// Sensor describes one detection range of an EntityType.
type Sensor struct {
	Type  SensorType
	Range float32
}

// Armament describes a weapon or countermeasure slot carried by a boat.
type Armament struct {
	Default         EntityType // what spawns when fired
	PositionForward float32
	PositionSide    float32
	Angle           units.Angle
	Turret          *int // index into EntityTypeData.Turrets, or nil
}

func (a *Armament) TurretIndex() int {
	if a.Turret != nil {
		return *a.Turret
	}
	return -1
}

// Similar reports whether a and other occupy the same turret and fire the
// same default type, for replenish-ordering and upgrade-slot-matching
// purposes.
func (a *Armament) Similar(other *Armament) bool {
	return a.Default == other.Default && a.TurretIndex() == other.TurretIndex()
}

// Turret describes one rotating mount's position relative to the boat and
// its default angle. No azimuth limits are stored: AimTurrets may point a
// turret in any direction.
type Turret struct {
	PositionForward float32
	PositionSide    float32
	Angle           units.Angle
}

// EntityType identifies an immutable entity data record.
type EntityType uint16

const EntityTypeInvalid EntityType = 0

// AppendText appends t's hex text form to b, mirroring EntityID.AppendText
// for protocol package wire encoding.
func (t EntityType) AppendText(b []byte) []byte {
	return strconv.AppendUint(b, uint64(t), 16)
}

func (t EntityType) MarshalText() ([]byte, error) {
	return t.AppendText(nil), nil
}

func (t *EntityType) UnmarshalText(text []byte) error {
	v, err := strconv.ParseUint(string(text), 16, 16)
	if err != nil {
		return err
	}
	*t = EntityType(v)
	return nil
}

// EntityTypeData is the immutable description shared by every entity of a
// given EntityType (spec.md section 3.2).
type EntityTypeData struct {
	Kind      EntityKind
	SubKind   EntitySubKind
	Level     uint8
	Label     string
	Lifespan  units.Tick // 0 == lifespan not tracked (boats track damage instead)
	Reload    units.Tick
	Speed     units.Velocity
	Length    float32
	Width     float32
	MastHeight float32
	Damage    float32 // boat max health, or weapon damage dealt
	Stealth   float32
	Sensors   []Sensor
	Armaments []Armament
	Turrets   []Turret

	// NonArctic/ArcticOnly restrict a subkind to a latitude biome band
	// (spec.md section 4.3 "subkind-restricted biomes").
	NonArctic bool
	ArcticOnly bool
}

// Radius is the bounding circle radius used by collision's broad phase.
func (d *EntityTypeData) Radius() float32 {
	return 0.5 * hypot(d.Length, d.Width)
}

func hypot(a, b float32) float32 {
	// Avoids importing math32 just for this; Length/Width are small enough
	// that a direct sqrt via units.Vec2f is simplest to reuse.
	return units.Vec2f{X: a, Y: b}.Length()
}

var entityTypeData = map[EntityType]*EntityTypeData{}

// RegisterEntityType installs (or overwrites) the data for t. Intended to be
// called from entity_data_loader.go's package-init table, analogous to the
// teacher's generated entity_data_loader.go.
func RegisterEntityType(t EntityType, data *EntityTypeData) {
	entityTypeData[t] = data
}

func (t EntityType) Data() *EntityTypeData {
	d, ok := entityTypeData[t]
	if !ok {
		panic("unregistered entity type")
	}
	return d
}

// MaxHealth returns a boat's max health, or an arbitrary small non-zero
// value for lifespan-tracked kinds (matches teacher's world/entity_data.go
// EntityType.MaxHealth).
func (d *EntityTypeData) MaxHealth() float32 {
	if d.Kind == EntityKindBoat {
		return d.Damage
	}
	return 20
}

// LevelToScore converts a boat level into the score required to reach it:
// score = (level^2 - 1) * 10, unchanged from the teacher's formula.
func LevelToScore(level uint8) int {
	l := int(level)
	return (l*l - 1) * 10
}

// UpgradesTo reports whether t can upgrade to next given score: next must
// have the same EntityKind, be exactly one level above t, and score must be
// at least LevelToScore(next's level). Same-level and lower-level types are
// not upgrade targets.
func (t EntityType) UpgradesTo(next EntityType, score int) bool {
	d, nd := t.Data(), next.Data()
	return nd.Kind == d.Kind && nd.Level == d.Level+1 && score >= LevelToScore(nd.Level)
}

// SpawnableEntityTypes lists every level-1 boat type, the set a freshly
// spawning player may choose among, mirroring the teacher's
// world.SpawnEntityTypes package variable.
func SpawnableEntityTypes() []EntityType {
	var out []EntityType
	for t, d := range entityTypeData {
		if d.Kind == EntityKindBoat && d.Level == 1 {
			out = append(out, t)
		}
	}
	return out
}

// UpgradePaths lists every EntityType t can reach given score.
func (t EntityType) UpgradePaths(score int) []EntityType {
	var out []EntityType
	for candidate := range entityTypeData {
		if t.UpgradesTo(candidate, score) {
			out = append(out, candidate)
		}
	}
	return out
}
