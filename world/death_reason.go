// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

// DeathReasonKind is the tag of a DeathReason, per spec.md section 4.4's
// mutation outcome table and section 7's death-ordering rule.
type DeathReasonKind uint8

const (
	DeathReasonNone DeathReasonKind = iota
	DeathReasonWeapon
	DeathReasonRam
	DeathReasonTerrain
	DeathReasonBorder
	DeathReasonLanding
	DeathReasonUnknown
)

// playerCaused reports whether a DeathReasonKind ranks as player-caused for
// spec.md section 7's ordering rule (player-caused outranks natural).
func (k DeathReasonKind) playerCaused() bool {
	return k == DeathReasonWeapon || k == DeathReasonRam
}

// DeathReason records why a boat died, shipped exactly once to the dying
// client (spec.md section 7). Grounded on the shape of the teacher's
// world/death_reason.go DeathReason, generalized from the teacher's three
// string-typed reasons to the six variants spec.md names, with the data
// each variant carries.
type DeathReason struct {
	Kind         DeathReasonKind
	AttackerName string     // Weapon, Ram
	WeaponType   EntityType // Weapon
	Slot         int        // Landing
}

func DeathByWeapon(attackerName string, weaponType EntityType) DeathReason {
	return DeathReason{Kind: DeathReasonWeapon, AttackerName: attackerName, WeaponType: weaponType}
}

func DeathByRam(attackerName string) DeathReason {
	return DeathReason{Kind: DeathReasonRam, AttackerName: attackerName}
}

func DeathByTerrain() DeathReason { return DeathReason{Kind: DeathReasonTerrain} }
func DeathByBorder() DeathReason  { return DeathReason{Kind: DeathReasonBorder} }

func DeathByLanding(slot int) DeathReason {
	return DeathReason{Kind: DeathReasonLanding, Slot: slot}
}

func DeathByUnknown() DeathReason { return DeathReason{Kind: DeathReasonUnknown} }

// FromPlayer reports whether the death was caused by another player's
// action (weapon hit or ram), used by team-respawn-cooldown logic.
func (r DeathReason) FromPlayer() bool {
	return r.Kind.playerCaused()
}

// Message renders r as the plain string spec.md section 6.1's
// death_message field carries, matching the teacher's world/entity.go and
// server/physics.go literals ("Crashed into the ground!", "Crashed into the
// border!", a weapon/ram attacker's name) rather than shipping the
// structured DeathReason itself over the wire.
func (r DeathReason) Message() string {
	switch r.Kind {
	case DeathReasonWeapon:
		return "Destroyed by " + r.AttackerName
	case DeathReasonRam:
		return "Rammed by " + r.AttackerName
	case DeathReasonTerrain:
		return "Crashed into the ground!"
	case DeathReasonBorder:
		return "Crashed into the border!"
	case DeathReasonLanding:
		return "Ran aground!"
	default:
		return ""
	}
}

// betterThan arbitrates among multiple candidate deaths arriving for one
// entity in one tick: it reports whether r is player-caused and other is
// natural. It does not compare damage; between two player-caused reasons,
// the caller (winningRemoveReason) keeps the earliest.
func (r DeathReason) betterThan(other DeathReason) bool {
	return r.Kind.playerCaused() && !other.Kind.playerCaused()
}
