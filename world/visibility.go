// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/flotwake/server/units"
)

// ContactTier is the fidelity at which a player's view reveals another
// entity: visible (full), known (type only, stale position allowed), or
// unknown (position only), per spec.md section 4.5. This is a deliberate
// REDESIGN away from the teacher's continuous float "Uncertainty" value:
// discrete tiers give outbound streaming (protocol package) a stable,
// serializable classification instead of recomputing a threshold client
// side, and the deterministic hash below prevents a contact flickering
// between tiers tick to tick near the detection boundary.
type ContactTier uint8

const (
	ContactUnknown ContactTier = iota
	ContactKnown
	ContactVisible
)

// InnerRingRadius is the always-visible radius around a player's eye,
// spec.md section 4.5's "small inner ring (~50 m)".
const InnerRingRadius = 50

// Contact is one entity as seen by a particular player's view.
type Contact struct {
	Entity   *Entity
	Tier     ContactTier
	HasType  bool
	Reloads  []units.Tick // only populated for self/teammates, per spec.md section 4.4 table note
	Turrets  []units.Angle
}

// detectionProbability estimates how likely eye is to detect target this
// tick, combining sensor range against target signature with altitude and
// active-sensor modifiers (spec.md section 4.5 step 2). Grounded on
// teacher's world/entity.go Entity.Camera()/UpdateSensor for the
// altitude-attenuation shape, generalized into an explicit probability
// spec.md's classification step consumes.
func detectionProbability(eyePos units.Vec2f, eyeVisual, eyeRadar, eyeSonar float32, target *Entity) float32 {
	dist := eyePos.Distance(target.Position)
	if dist <= 0 {
		return 1
	}

	_, tVisual, tRadar, tSonar := target.Camera()
	stealth := target.Data().Stealth

	best := float32(0)
	for _, reach := range []float32{
		combinedReach(eyeVisual, tVisual, stealth),
		combinedReach(eyeRadar, tRadar, stealth),
		combinedReach(eyeSonar, tSonar, stealth),
	} {
		if reach > best {
			best = reach
		}
	}
	if best <= 0 {
		return 0
	}

	// Active sensors amplify detection of the emitter itself.
	if target.Data().Kind == EntityKindBoat && target.Extension != nil && target.Extension.Active {
		best *= 1.5
	}

	p := 1 - dist/best
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func combinedReach(eyeRange, targetRange, stealth float32) float32 {
	if eyeRange <= 0 || targetRange <= 0 {
		return 0
	}
	reach := (eyeRange + targetRange) * 0.5
	return reach * (1 - stealth*0.5)
}

// flickerHash returns a deterministic pseudo-random threshold in [0,1)
// derived from (eyeID, targetID, tick), per spec.md section 4.5 step 3:
// "Deterministic pseudo-random threshold ... keeps flicker consistent."
func flickerHash(eyeID, targetID EntityID, tick units.Tick) float32 {
	var buf [10]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(eyeID))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(targetID))
	binary.LittleEndian.PutUint16(buf[8:10], uint16(tick))

	h := fnv.New32a()
	h.Write(buf[:])
	return float32(h.Sum32()&0xFFFFFF) / float32(1<<24)
}

// ClassifyContact implements spec.md section 4.5's per-entity classification
// for one player's view: inner ring is always ContactVisible; otherwise a
// detection probability is compared against a deterministic per-(eye,
// target, tick) threshold.
func ClassifyContact(eyeID EntityID, eyePos units.Vec2f, eyeVisual, eyeRadar, eyeSonar float32, target *Entity, tick units.Tick) ContactTier {
	tier, _ := classifyContact(eyeID, eyePos, eyeVisual, eyeRadar, eyeSonar, target, tick)
	return tier
}

// classifyContact is ClassifyContact's logic, additionally reporting whether
// target was detected at all. A target with zero detection probability
// (truly out of every sensor's reach) is ContactUnknown but not detected, so
// BuildView can omit it entirely; a target with some nonzero probability
// that still falls under the flicker threshold is ContactUnknown and
// detected, matching spec.md section 4.5's "unknown (position only, no
// type)" tier, which must still reach the client as a contact.
func classifyContact(eyeID EntityID, eyePos units.Vec2f, eyeVisual, eyeRadar, eyeSonar float32, target *Entity, tick units.Tick) (ContactTier, bool) {
	if eyePos.Distance(target.Position) <= InnerRingRadius {
		return ContactVisible, true
	}

	p := detectionProbability(eyePos, eyeVisual, eyeRadar, eyeSonar, target)
	if p <= 0 {
		return ContactUnknown, false
	}

	threshold := flickerHash(eyeID, target.EntityID, tick)
	if p > threshold {
		if p > threshold+0.2 {
			return ContactVisible, true
		}
		return ContactKnown, true
	}
	return ContactUnknown, true
}

// BuildView computes the full contact list a player with eye entity `eye`
// sees this tick, always including eye itself at full fidelity (spec.md
// section 4.5: "Always include the player's own boat with full fidelity").
func BuildView(eye *Entity, entities Entities, tick units.Tick) []Contact {
	eyePos, visual, radar, sonar := eye.Camera()

	var contacts []Contact
	entities.ForEach(func(e *Entity) {
		if e.EntityID == eye.EntityID {
			contacts = append(contacts, Contact{Entity: e, Tier: ContactVisible, HasType: true,
				Reloads: extensionReloads(e), Turrets: extensionTurrets(e)})
			return
		}

		tier, detected := classifyContact(eye.EntityID, eyePos, visual, radar, sonar, e, tick)
		if !detected {
			return
		}

		c := Contact{Entity: e, Tier: tier, HasType: tier == ContactVisible || tier == ContactKnown}
		if e.Data().Kind == EntityKindBoat {
			c.Turrets = extensionTurrets(e)
			if eye.Owner != nil && e.Owner != nil && eye.Owner.Friendly(e.Owner) {
				c.Reloads = extensionReloads(e)
			}
		}
		contacts = append(contacts, c)
	})
	return contacts
}

func extensionReloads(e *Entity) []units.Tick {
	if e.Extension == nil {
		return nil
	}
	return e.Extension.Reloads
}

func extensionTurrets(e *Entity) []units.Angle {
	if e.Extension == nil {
		return nil
	}
	return e.Extension.TurretAngles
}
