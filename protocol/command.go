// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package protocol

import (
	"github.com/flotwake/server/units"
	"github.com/flotwake/server/world"
)

// Make sure to register every concrete type in the init() func below.
type (
	// Control carries the per-tick steering/weapons state of spec.md section
	// 4.8: a target Guidance, an optional altitude target (submarines/
	// helicopters), which armament slot (if any) to fire or pay out this
	// tick, an aim hint for turreted armaments, and whether the active
	// sensor should be toggled.
	//
	// Grounded on the teacher's server/inbound.go Manual+Fire+AimTurrets,
	// generalized into spec.md's single Control vocabulary entry.
	Control struct {
		Guidance       *units.Guidance `json:"guidance,omitempty"`
		AltitudeTarget *float32        `json:"altitudeTarget,omitempty"`
		Fire           *int            `json:"fire,omitempty"`
		Pay            *int            `json:"pay,omitempty"`
		Hint           *units.Vec2f    `json:"hint,omitempty"`
		Active         *bool           `json:"active,omitempty"`
	}

	// Spawn requests a boat for the sending player. Alias is sanitized
	// upstream of the simulation (spec.md section 4.8): the server here only
	// validates entity_type eligibility and schedules the spawn.
	Spawn struct {
		Alias      string           `json:"alias,omitempty"`
		EntityType world.EntityType `json:"entityType"`
	}

	// Upgrade requests an in-place boat upgrade to EntityType, validated by
	// world.EntityType.UpgradesTo (level <= current+1, same family, score
	// eligible).
	Upgrade struct {
		EntityType world.EntityType `json:"entityType"`
	}

	// AddToTeam requests joining, or (as the owner) admits, a team member.
	// Supplementary command kept from the teacher's server/inbound.go.
	AddToTeam struct {
		TeamID   world.TeamID   `json:"teamID"`
		PlayerID world.PlayerID `json:"playerID"`
	}

	// CreateTeam creates a new team owned by the sender.
	CreateTeam struct {
		Name string `json:"name"`
	}

	// RemoveFromTeam kicks (as owner) or leaves (as self) a team.
	RemoveFromTeam struct {
		PlayerID world.PlayerID `json:"playerID"`
	}

	// AimTurrets sets a boat's turret aim point independent of its own
	// heading, without touching Guidance.
	AimTurrets struct {
		Target units.Vec2f `json:"target"`
	}

	// SendChat relays a message, already sanitized upstream (chat moderation
	// is out of scope per spec.md section 1), to global or team chat.
	SendChat struct {
		Message string `json:"message"`
		Team    bool   `json:"team"`
	}

	// Trace reports client-observed FPS for server-side diagnostics.
	Trace struct {
		FPS float32 `json:"fps"`
	}

	// InvalidCommand is substituted for an unrecognized "type" discriminator
	// so a stale or malicious client can't crash the decoder.
	// NOTE: not registered, so a client can never name it directly.
	InvalidCommand struct {
		messageType messageType
	}
)

func (Control) inbound()        {}
func (Spawn) inbound()          {}
func (Upgrade) inbound()        {}
func (AddToTeam) inbound()      {}
func (CreateTeam) inbound()     {}
func (RemoveFromTeam) inbound() {}
func (AimTurrets) inbound()     {}
func (SendChat) inbound()       {}
func (Trace) inbound()          {}
func (InvalidCommand) inbound() {}

func init() {
	registerInbound(
		Control{},
		Spawn{},
		Upgrade{},
		AddToTeam{},
		CreateTeam{},
		RemoveFromTeam{},
		AimTurrets{},
		SendChat{},
		Trace{},
	)
}
