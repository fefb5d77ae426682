// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package protocol

import (
	"sync"

	"github.com/flotwake/server/terrain"
	"github.com/flotwake/server/units"
	"github.com/flotwake/server/world"
)

type (
	// Chat is one chat line, tagged with its sender.
	Chat struct {
		PlayerID world.PlayerID `json:"playerID"`
		Name     string         `json:"name"`
		Message  string         `json:"message"`
	}

	// Contact is one entity as seen by the receiving player, serialized per
	// spec.md section 6.1: "{id, player_id?, entity_type?, transform,
	// guidance, altitude, damage, reloads?, turrets?}". Fields elided by
	// ContactFrom per the entity's ContactTier are left at their zero value
	// and omitted by "omitempty".
	Contact struct {
		units.Transform
		Guidance     units.Guidance   `json:"guidance,omitempty"`
		EntityType   world.EntityType `json:"entityType,omitempty"`
		PlayerID     world.PlayerID   `json:"playerID,omitempty"`
		Friendly     bool             `json:"friendly,omitempty"`
		Altitude     float32          `json:"altitude,omitempty"`
		Damage       float32          `json:"damage,omitempty"`
		Reloads      []units.Tick     `json:"reloads,omitempty"`
		TurretAngles []units.Angle    `json:"turretAngles,omitempty"`
	}

	// IDContact pairs a Contact with the EntityID it describes; Update
	// marshals a slice of these as a map keyed by hex EntityID (codec.go).
	IDContact struct {
		world.EntityID
		Contact
	}

	// Leaderboard is the top-scoring players, sent periodically.
	Leaderboard struct {
		Entries []LeaderboardEntry `json:"leaderboard"`
	}

	// LeaderboardEntry is one row of Leaderboard.
	LeaderboardEntry struct {
		PlayerID world.PlayerID `json:"playerID"`
		Name     string         `json:"name"`
		Score    int            `json:"score"`
	}

	// TeamMember is one row of Update.TeamMembers/TeamRequests.
	TeamMember struct {
		PlayerID world.PlayerID `json:"playerID"`
		Name     string         `json:"name"`
		Score    int            `json:"score"`
	}

	// Update is the per-tick, per-client outbound snapshot of spec.md
	// section 6.1: contacts, an optional one-shot death reason, this
	// player's score, the current world radius, a per-client terrain
	// delta, and (supplementary) this player's team roster/join requests.
	Update struct {
		Contacts     []IDContact    `json:"contacts,omitempty"`
		Chats        []Chat         `json:"chats,omitempty"`
		TeamChats    []Chat         `json:"teamChats,omitempty"`
		DeathMessage string         `json:"deathMessage,omitempty"`
		Terrain      []TerrainChunk `json:"terrain,omitempty"`

		TeamCode     world.TeamCode `json:"teamInvite,omitempty"`
		TeamMembers  []TeamMember   `json:"teamMembers,omitempty"`
		TeamRequests []TeamMember   `json:"teamJoinRequests,omitempty"`

		PlayerID    world.PlayerID `json:"playerID,omitempty"`
		EntityID    world.EntityID `json:"entityID,omitempty"`
		Score       int            `json:"score,omitempty"`
		WorldRadius float32        `json:"worldRadius,omitempty"`
	}

	// TerrainChunk is the wire form of one terrain.SerializedChunk: either a
	// full grid (client never had this chunk) or a sparse set of cell edits
	// since the chunk's last Full emission to this client (spec.md section
	// 6.3 step 3).
	TerrainChunk struct {
		ID    terrain.ChunkID        `json:"id"`
		Full  *[terrain.ChunkCells]byte `json:"full,omitempty"`
		Delta []terrain.CellDelta       `json:"delta,omitempty"`
	}
)

func (Leaderboard) outbound() {}
func (*Update) outbound()     {}

func init() {
	registerOutbound(Leaderboard{}, &Update{})
}

const poolContactsCap = 32

var updatePool = sync.Pool{
	New: func() interface{} {
		return &Update{
			Contacts:    make([]IDContact, 0, poolContactsCap),
			TeamMembers: make([]TeamMember, 0, world.TeamMembersMax),
		}
	},
}

// NewUpdate borrows an Update from the pool, per the teacher's
// server/update.go NewUpdate/Pool scheme (avoids a per-client, per-tick
// allocation of the Contacts backing array).
func NewUpdate() *Update {
	return updatePool.Get().(*Update)
}

// Pool returns update to the pool for reuse, clearing slices in place so
// their backing arrays survive.
func (update *Update) Pool() {
	contacts := update.Contacts
	for i := range contacts {
		contacts[i] = IDContact{}
	}
	members := update.TeamMembers
	for i := range members {
		members[i] = TeamMember{}
	}
	*update = Update{Contacts: contacts[:0], TeamMembers: members[:0]}
	updatePool.Put(update)
}

// ContactFrom converts a world.Contact (computed by world.BuildView) into
// its wire form, gating Damage/Guidance on full (Visible) fidelity and
// friendliness the same way the teacher's server/update.go updateClient
// gates ArmamentConsumption/TurretAngles/Guidance on its continuous
// Uncertainty value, adapted to the discrete ContactTier of
// world/visibility.go.
func ContactFrom(c world.Contact, eye *world.Player) IDContact {
	e := c.Entity
	out := Contact{
		Transform: e.Transform,
		Altitude:  e.Altitude.Float(),
		Reloads:   c.Reloads,
	}
	if c.HasType {
		out.EntityType = e.EntityType
	}
	friendly := eye != nil && eye.Friendly(e.Owner)
	if c.Tier == world.ContactVisible {
		out.Damage = e.DamagePercent()
		out.TurretAngles = c.Turrets
	}
	if friendly {
		out.Guidance = e.Guidance
	}
	if e.Owner != nil {
		out.PlayerID = e.Owner.ID()
		out.Friendly = friendly
	}
	return IDContact{EntityID: e.EntityID, Contact: out}
}
